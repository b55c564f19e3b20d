package health

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/psouza/agenda-api/internal/model"
)

// Ledger is the readiness probe surface: the ledger file must be readable
// and parseable.
type Ledger interface {
	Load() ([]model.AppointmentRecord, error)
}

type Handler struct {
	ledger Ledger
}

func NewHandler(ledger Ledger) *Handler {
	return &Handler{
		ledger: ledger,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	health := r.Group("/health")
	{
		health.GET("/live", h.LivenessCheck)
		health.GET("/ready", h.ReadinessCheck)
	}
}

func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}

func (h *Handler) ReadinessCheck(c *gin.Context) {
	if _, err := h.ledger.Load(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "DOWN",
			"reason": "ledger file is not readable",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}
