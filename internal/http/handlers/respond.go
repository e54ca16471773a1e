package handlers

import (
	"log/slog"
	"net/http"

	"github.com/geocoder89/usershub/internal/apperr"
	"github.com/gin-gonic/gin"
)

type MessageResponse struct {
	Message string `json:"message"`
}

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

func loggerFrom(ctx *gin.Context) *slog.Logger {
	if v, ok := ctx.Get("logger"); ok {
		if log, ok := v.(*slog.Logger); ok && log != nil {
			return log
		}
	}

	return slog.Default()
}

func RespondMessage(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, MessageResponse{Message: message})
}

// RespondFault renders err as {message} with the status it carries, or 500.
func RespondFault(ctx *gin.Context, err error) {
	status := apperr.StatusOf(err)

	if status >= http.StatusInternalServerError {
		loggerFrom(ctx).ErrorContext(ctx.Request.Context(), "request failed",
			"method", ctx.Request.Method,
			"path", ctx.Request.URL.Path,
			"status", status,
			"request_id", requestIDFrom(ctx),
			"err", err,
		)
	}

	ctx.AbortWithStatusJSON(status, MessageResponse{Message: apperr.MessageOf(err)})
}
