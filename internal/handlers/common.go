package handlers

import (
	"errors"
	"net/http"
	"strings"

	apperrors "github.com/certsim/quiz-service/internal/errors"
	"github.com/certsim/quiz-service/internal/session"
	"github.com/certsim/quiz-service/internal/store"
	quizsync "github.com/certsim/quiz-service/internal/sync"
	"github.com/certsim/quiz-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common logging functionality for all handlers
type BaseHandler struct {
	logger utils.Logger
}

// NewBaseHandler creates a new base handler with logging capability
func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{
		logger: logger,
	}
}

// LogRequest logs incoming HTTP requests with context information
func (h *BaseHandler) LogRequest(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"remote_addr", c.ClientIP(),
		"user_id", CurrentUserID(c),
	}
	fields = append(fields, additionalFields...)
	h.logger.Info(message, fields...)
}

// LogError logs error details with context information
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"user_id", CurrentUserID(c),
	}
	fields = append(fields, additionalFields...)
	h.logger.LogError(err, message, fields...)
}

// handleServiceError maps service-layer errors to HTTP responses
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors apperrors.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	switch {
	case errors.Is(err, store.ErrQuizSetNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Quiz set not found",
		})
	case errors.Is(err, store.ErrQuestionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Question not found",
		})
	case errors.Is(err, store.ErrInvalidSnapshot):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid snapshot format",
			Details: err.Error(),
		})
	case errors.Is(err, quizsync.ErrSyncUnavailable):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Message: "Sync backend unavailable",
		})
	case errors.Is(err, session.ErrSelectionRequired):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "No option selected",
		})
	case errors.Is(err, session.ErrQuizCompleted):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Quiz already completed",
		})
	default:
		h.LogError(c, err, "Internal server error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}

// ===== HELPERS =====

// ParseStringIDParam extracts a non-empty path parameter or writes a 400
func ParseStringIDParam(c *gin.Context, param string) string {
	idStr := strings.TrimSpace(c.Param(param))
	if idStr == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "ID cannot be empty",
		})
		return ""
	}
	return idStr
}

// CurrentUserID resolves the acting user. There is no real authentication;
// the X-User-ID header scopes progress per user and defaults to a single
// local profile.
func CurrentUserID(c *gin.Context) string {
	if userID, exists := c.Get("user_id"); exists {
		if s, ok := userID.(string); ok && s != "" {
			return s
		}
	}
	if header := strings.TrimSpace(c.GetHeader("X-User-ID")); header != "" {
		return header
	}
	return "local"
}
