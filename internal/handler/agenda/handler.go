package agenda

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"

	"github.com/psouza/agenda-api/internal/handler"
	"github.com/psouza/agenda-api/internal/model"
	"github.com/psouza/agenda-api/internal/service/agenda"
)

// HeaderSessionID identifies the operator session for the completion
// confirmation handshake. Without it the client IP stands in.
const HeaderSessionID = "X-Session-ID"

// Handler serves the scheduling endpoints. Completion is a two-step
// confirm: the first request arms a per-session flag keyed by the row's
// identity, the second one within the TTL performs it. The flag lives
// here, in an expiring cache, not in module-level state.
type Handler struct {
	service *agenda.Service
	confirm *gocache.Cache
}

func NewHandler(service *agenda.Service, confirmTTL time.Duration) *Handler {
	if confirmTTL <= 0 {
		confirmTTL = time.Minute
	}
	return &Handler{
		service: service,
		confirm: gocache.New(confirmTTL, 2*confirmTTL),
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/upcoming", h.ListUpcoming)
		appointments.POST("/sync", h.Sync)
		appointments.POST("/:index/complete", h.Complete)
	}
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	rec, err := h.service.CreateAppointment(c.Request.Context(), &req)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(rec))
}

func (h *Handler) ListAppointments(c *gin.Context) {
	records, err := h.service.ListLedger(c.Request.Context())
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(records))
}

func (h *Handler) ListUpcoming(c *gin.Context) {
	records, err := h.service.ListUpcoming(c.Request.Context())
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(records))
}

func (h *Handler) Sync(c *gin.Context) {
	// An empty body means defaults.
	var req model.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	imported, total, err := h.service.Sync(c.Request.Context(), req.LookbackDays)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"imported": imported,
		"total":    total,
	}))
}

func (h *Handler) Complete(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid row index"))
		return
	}

	rec, err := h.service.RecordAt(index)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	key := h.sessionID(c) + "|" + rec.IdentityKey()
	if _, awaiting := h.confirm.Get(key); !awaiting {
		h.confirm.SetDefault(key, struct{}{})
		c.JSON(http.StatusAccepted, &handler.Response{
			Status:  "confirm",
			Message: "repeat the request to confirm completion",
			Data:    rec,
		})
		return
	}
	h.confirm.Delete(key)

	updated, err := h.service.Complete(c.Request.Context(), index)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}

func (h *Handler) sessionID(c *gin.Context) string {
	if sid := c.GetHeader(HeaderSessionID); sid != "" {
		return sid
	}
	return c.ClientIP()
}
