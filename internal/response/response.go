package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gravadigital/huddle-api/internal/domain/common"
)

// ErrorResponse representa una respuesta de error
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Success envía una respuesta exitosa; los campos de body van al nivel superior
func Success(c *gin.Context, status int, body gin.H) {
	if body == nil {
		body = gin.H{}
	}
	body["success"] = true
	c.JSON(status, body)
}

// ErrorResponseWithMessage envía una respuesta de error con mensaje personalizado
func ErrorResponseWithMessage(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{
		Success: false,
		Error:   message,
	})
}

// BadRequestError envía un error 400
func BadRequestError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusBadRequest, message)
}

// NotFoundError envía un error 404
func NotFoundError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusNotFound, message)
}

// InternalServerError envía un error 500
func InternalServerError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusInternalServerError, message)
}

// ConflictError envía un error 409
func ConflictError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusConflict, message)
}

// ServiceUnavailableError envía un error 503
func ServiceUnavailableError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusServiceUnavailable, message)
}

// FromError maps a domain error to its status code. Validation and
// conflict messages are safe to show; anything else becomes fallback.
func FromError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		NotFoundError(c, messageOr(err, "Not found"))
	case errors.Is(err, common.ErrValidation):
		BadRequestError(c, messageOr(err, "Invalid request"))
	case errors.Is(err, common.ErrConflict):
		ConflictError(c, messageOr(err, fallback))
	default:
		InternalServerError(c, fallback)
	}
}

func messageOr(err error, fallback string) string {
	if msg := common.Message(err); msg != "" {
		return msg
	}
	return fallback
}
