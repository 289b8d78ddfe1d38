package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hr-training/quiz-service/internal/engine"
	"github.com/hr-training/quiz-service/internal/services"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse represents a success response.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// BaseHandler provides shared logging and response helpers.
type BaseHandler struct {
	logger *slog.Logger
}

func NewBaseHandler(logger *slog.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) RespondWithError(c *gin.Context, statusCode int, message string, err error) {
	if err != nil {
		h.logger.Warn(message,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status_code", statusCode,
			"error", err)
	}

	resp := ErrorResponse{Message: message}
	if err != nil {
		resp.Details = err.Error()
	}
	c.JSON(statusCode, resp)
}

func (h *BaseHandler) RespondWithSuccess(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, SuccessResponse{Message: message, Data: data})
}

// RespondWithEngineError maps the engine/service error taxonomy to HTTP
// status codes.
func (h *BaseHandler) RespondWithEngineError(c *gin.Context, err error) {
	switch {
	case engine.IsConfigError(err):
		h.RespondWithError(c, http.StatusBadRequest, "invalid session configuration", err)
	case errors.Is(err, engine.ErrOutOfRange):
		h.RespondWithError(c, http.StatusBadRequest, "out of range", err)
	case errors.Is(err, engine.ErrAlreadySubmitted):
		h.RespondWithError(c, http.StatusConflict, "session already submitted", err)
	case engine.IsStateError(err):
		h.RespondWithError(c, http.StatusConflict, "operation not allowed in current state", err)
	case services.IsNotFound(err):
		h.RespondWithError(c, http.StatusNotFound, "not found", err)
	case errors.Is(err, services.ErrValidationFailed):
		h.RespondWithError(c, http.StatusBadRequest, "validation failed", err)
	default:
		h.RespondWithError(c, http.StatusInternalServerError, "internal error", err)
	}
}

// userID identifies the caller. Authentication lives in front of this
// service; the gateway injects the header.
func userID(c *gin.Context) string {
	if id := c.GetHeader("X-User-ID"); id != "" {
		return id
	}
	return "anonymous"
}
