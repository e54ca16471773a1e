package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/geocoder89/usershub/internal/http/handlers"
	"github.com/geocoder89/usershub/internal/http/middlewares"
	"github.com/geocoder89/usershub/internal/observability"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

type RouterDeps struct {
	Log    *slog.Logger
	Store  handlers.UsersStore
	Hasher handlers.PasswordHasher

	// optional
	Ping         func(ctx context.Context) error
	Prom         *observability.Prom
	TraceService string
	MaxBodyBytes int64
}

// NewRouter builds the engine. The gin mode is process-wide and left to the caller.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// wrong method on a known path answers 405 instead of 404
	r.HandleMethodNotAllowed = true

	// middleware

	r.Use(gin.Recovery())
	if deps.TraceService != "" {
		r.Use(otelgin.Middleware(deps.TraceService))
	}
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(deps.Log))
	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.MaxBodyBytes(deps.MaxBodyBytes))

	r.NoRoute(func(ctx *gin.Context) {
		ctx.String(http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})
	r.NoMethod(func(ctx *gin.Context) {
		ctx.String(http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	})

	// health
	h := handlers.NewHealthHandler(deps.Ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if deps.Prom != nil {
		r.GET("/metrics", gin.WrapH(deps.Prom.Handler()))
	}

	// Routes
	usersHandler := handlers.NewUsersHandler(deps.Store, deps.Hasher)

	r.GET("/", usersHandler.Hello)

	users := r.Group("/users", middlewares.Boundary())
	users.GET("", usersHandler.FindAllUsers)
	users.GET("/:id", usersHandler.FindUserByID)
	users.POST("", usersHandler.InsertUser)
	users.DELETE("/:id", usersHandler.RemoveUser)

	return r
}
