package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DefaultMaxBodyBytes matches the usual 1mb JSON body limit.
const DefaultMaxBodyBytes int64 = 1 << 20

// MaxBodyBytes caps request bodies; reads past the limit fail with
// *http.MaxBytesError, which the body binder turns into a 413.
func MaxBodyBytes(max int64) gin.HandlerFunc {
	if max <= 0 {
		max = DefaultMaxBodyBytes
	}

	return func(ctx *gin.Context) {
		if ctx.Request.Body != nil {
			ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, max)
		}

		ctx.Next()
	}
}
