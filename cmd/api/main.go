package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	v1 "github.com/certifiedTboy/itakuroso-sub000/cmd/api/router/v1"
	"github.com/certifiedTboy/itakuroso-sub000/internal/config"
	cacheAdapter "github.com/certifiedTboy/itakuroso-sub000/internal/infrastructure/cache/adapter"
	cacheport "github.com/certifiedTboy/itakuroso-sub000/internal/infrastructure/cache/port"
	"github.com/certifiedTboy/itakuroso-sub000/internal/infrastructure/database"
	queueAdapter "github.com/certifiedTboy/itakuroso-sub000/internal/infrastructure/queue/adapter"
	qport "github.com/certifiedTboy/itakuroso-sub000/internal/infrastructure/queue/port"
	"github.com/certifiedTboy/itakuroso-sub000/internal/infrastructure/realtime"
	clog "github.com/certifiedTboy/itakuroso-sub000/internal/log"
	"github.com/certifiedTboy/itakuroso-sub000/internal/metrics"
	chat "github.com/certifiedTboy/itakuroso-sub000/internal/pkg/chat/application/domain"
	"github.com/certifiedTboy/itakuroso-sub000/internal/pkg/chat/application/task"
	httpHandler "github.com/certifiedTboy/itakuroso-sub000/internal/pkg/chat/presentation/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		// Not fatal: the environment may already be populated.
		log.Warn().Err(err).Msg(".env not loaded")
	}

	cfg := config.Load()
	clog.Init(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	poolCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	pool, err := database.NewPoolFromEnv(poolCtx)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("database connect")
	}
	defer pool.Close()

	// Cache and task queue are optional collaborators: without Redis the
	// gateway still coordinates, just without lookup caching or the
	// offline-notification stub.
	var cache cacheport.Cache
	if rc, err := cacheAdapter.NewRedisAdapter(); err != nil {
		log.Warn().Err(err).Msg("cache disabled")
	} else {
		cache = rc
		defer rc.Close()
	}

	var notifier qport.Client
	if qc, err := queueAdapter.NewAsynqClientFromEnv(); err != nil {
		log.Warn().Err(err).Msg("task queue disabled")
	} else {
		notifier = qc
		defer qc.Close()
	}

	if srv, err := queueAdapter.NewAsynqServer(); err == nil {
		task.RegisterNotifyOfflineTask(srv)
		go func() {
			if err := srv.Run(ctx); err != nil {
				log.Error().Err(err).Msg("task server stopped")
			}
		}()
	}

	// Process-wide coordination state, constructor-injected rather than
	// global so tests can build isolated instances.
	registry := chat.NewPresenceRegistry()
	offline := chat.NewOfflineQueue(cfg.OfflineQueueMaxDepth, chat.OverflowPolicy(cfg.OfflineQueuePolicy))
	rtRouter := realtime.NewRouter()
	defer rtRouter.Close()

	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), metrics.GinMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1.RegisterRoutes(r, httpHandler.Deps{
		Pool:     pool,
		Router:   rtRouter,
		Registry: registry,
		Queue:    offline,
		Cache:    cache,
		Notifier: notifier,
		Cfg:      cfg,
	})

	log.Info().Str("port", cfg.Port).Msg("gateway listening")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server run")
	}
}
