package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opengig-mvps/tmt-izsb0sdo3/internal/apperr"
)

// Envelope is the single response shape of every API endpoint.
type Envelope struct {
	Success   bool         `json:"success"`
	Message   string       `json:"message"`
	Data      interface{}  `json:"data,omitempty"`
	Errors    []FieldError `json:"errors,omitempty"`
	RequestID string       `json:"requestId,omitempty"`
}

const (
	msgInvalidUserID        = "Invalid user ID"
	msgInvalidUserOrLogID   = "Invalid user ID or work log ID"
	msgMissingFields        = "Missing required fields"
	msgInvalidFields        = "Invalid field values"
	msgInvalidBody          = "Invalid request body"
	msgUserNotFound         = "User not found"
	msgWorkLogNotFound      = "Work log not found or no changes made"
	msgEmailOrUsernameTaken = "Email or username already in use"
	msgInternal             = "Internal server error"
)

func requestIDFrom(ctx *gin.Context) string {
	v, ok := ctx.Get("request_id")

	if ok {
		s, ok := v.(string)
		if ok && s != "" {
			return s
		}
	}

	// fallback header
	return ctx.GetHeader("X-Request-Id")
}

func RespondSuccess(ctx *gin.Context, status int, message string, data interface{}) {
	ctx.JSON(status, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func RespondError(ctx *gin.Context, status int, message string, fields []FieldError) {
	ctx.AbortWithStatusJSON(status, Envelope{
		Success:   false,
		Message:   message,
		Errors:    fields,
		RequestID: requestIDFrom(ctx),
	})
}

func RespondBadRequest(ctx *gin.Context, message string, fields []FieldError) {
	RespondError(ctx, http.StatusBadRequest, message, fields)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, message, nil)
}

func RespondConflict(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusConflict, message, nil)
}

// RespondInternal logs err with the failing operation and answers with the generic message only.
func RespondInternal(ctx *gin.Context, op string, err error) {
	slog.Default().ErrorContext(ctx.Request.Context(), "request failed",
		"op", op,
		"err", err,
	)
	_ = ctx.Error(err)

	RespondError(ctx, http.StatusInternalServerError, msgInternal, nil)
}

// RespondAppError maps an apperr kind onto a status code.
func RespondAppError(ctx *gin.Context, op string, err error) {
	ae := apperr.From(err)

	switch ae.Kind {
	case apperr.KindInvalid:
		RespondBadRequest(ctx, ae.Message, nil)
	case apperr.KindNotFound:
		RespondNotFound(ctx, ae.Message)
	case apperr.KindConflict:
		slog.Default().InfoContext(ctx.Request.Context(), "request conflict",
			"op", op,
			"err", errors.Unwrap(ae),
		)
		RespondConflict(ctx, ae.Message)
	default:
		RespondInternal(ctx, op, ae.Err)
	}
}
