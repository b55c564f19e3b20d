package handler

import (
	"net/http"

	"github.com/psouza/agenda-api/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// HTTPStatus maps application error codes to HTTP statuses. Notification
// failures never reach here; they are swallowed as warnings upstream.
func HTTPStatus(err error) int {
	switch errors.CodeOf(err) {
	case errors.ErrValidation:
		return http.StatusBadRequest
	case errors.ErrNotFound:
		return http.StatusNotFound
	case errors.ErrAuthentication, errors.ErrRemoteAPI:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
