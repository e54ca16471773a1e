package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geocoder89/usershub/internal/cache"
	"github.com/geocoder89/usershub/internal/config"
	"github.com/geocoder89/usershub/internal/db"
	httpx "github.com/geocoder89/usershub/internal/http"
	"github.com/geocoder89/usershub/internal/http/handlers"
	"github.com/geocoder89/usershub/internal/observability"
	"github.com/geocoder89/usershub/internal/repo/cached"
	"github.com/geocoder89/usershub/internal/repo/memory"
	"github.com/geocoder89/usershub/internal/repo/postgres"
	"github.com/geocoder89/usershub/internal/security"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load the config set up
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)

	shutdownTracer, err := observability.InitTracer(context.Background(), cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		log.Error("tracer init failed", "err", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	store, ping, closeStore, err := openStore(cfg, prom)
	if err != nil {
		log.Error("store init failed", "err", err, "db_uri", cfg.DBURI)
		os.Exit(1)
	}
	defer closeStore()

	if cfg.CacheEnabled() {
		c, closeCache := openCache(cfg)
		defer closeCache()
		store = cached.NewUsersRepo(store, c, log)
	}

	traceService := ""
	if cfg.OTLPEndpoint != "" {
		traceService = cfg.ServiceName
	}

	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	// set up routers with the log
	router := httpx.NewRouter(httpx.RouterDeps{
		Log:          log,
		Store:        store,
		Hasher:       security.NewHasher(cfg.BcryptCost),
		Ping:         ping,
		Prom:         prom,
		TraceService: traceService,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// bind before logging so a busy port exits right away
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		log.Error("server failed to bind", "port", cfg.Port, "err", err)
		os.Exit(1)
	}

	go func() {
		log.Info(fmt.Sprintf("Users microservice listening on port %d", cfg.Port), "env", cfg.Env)
		err := srv.Serve(ln)

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	ctx, cancel := config.WithTimeout(10 * time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "err", err)
	}

	if err := shutdownTracer(ctx); err != nil {
		log.Error("tracer shutdown failed", "err", err)
	}

	log.Info("shutdown complete")
}

type pingFunc = func(ctx context.Context) error

func openStore(cfg config.Config, prom *observability.Prom) (handlers.UsersStore, pingFunc, func(), error) {
	if cfg.UseMemoryStore() {
		repo := memory.NewUsersRepo()
		return repo, repo.Ping, func() {}, nil
	}

	pool, err := db.NewPool(cfg.DBURL(), cfg.DBMaxConns)
	if err != nil {
		return nil, nil, nil, err
	}

	ctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("ensure schema: %w", err)
	}

	repo := postgres.NewUsersRepo(pool, prom)
	return repo, repo.Ping, pool.Close, nil
}

func openCache(cfg config.Config) (cache.Cache, func()) {
	if cfg.RedisAddr != "" {
		c := cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CacheTTL,
		})

		ctx, cancel := config.WithTimeout(2 * time.Second)
		defer cancel()

		// cache faults fall through to the store, so an unreachable redis is not fatal
		if err := c.Ping(ctx); err != nil {
			slog.Default().Warn("redis unreachable, reads will go to the store", "addr", cfg.RedisAddr, "err", err)
		}

		return c, func() { _ = c.Close() }
	}

	return cache.NewMemory(cfg.CacheTTL), func() {}
}
