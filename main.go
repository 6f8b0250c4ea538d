package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/saxenaaman628/hobbyhub/config"
	"github.com/saxenaaman628/hobbyhub/internal/api"
	"github.com/saxenaaman628/hobbyhub/internal/controller"
	"github.com/saxenaaman628/hobbyhub/internal/metrics"
	"github.com/saxenaaman628/hobbyhub/internal/redis"
	redishandler "github.com/saxenaaman628/hobbyhub/internal/redisHandler"
	"github.com/saxenaaman628/hobbyhub/internal/repository/postgres"
	"github.com/saxenaaman628/hobbyhub/pkg/logger"
)

func main() {
	config.LoadEnv()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l := logger.New(cfg.LogLevel)
	l.Info("Starting HobbyHub API...")
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	db, err := config.NewDatabase(cfg.DatabaseURL, l)
	if err != nil {
		l.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(cfg.MigrationsPath); err != nil {
		l.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis
	rdb, err := redis.NewClient(ctx, redis.Options{
		Addr:     cfg.RedisURI,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, l)
	if err != nil {
		l.Fatalf("Failed to connect to redis: %v", err)
	}
	defer rdb.Close()

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	userRepo := postgres.NewUserRepository(db.DB)
	handler := &controller.Handler{
		Hubs:      postgres.NewHubRepository(db.DB),
		Posts:     postgres.NewPostRepository(db.DB),
		Comments:  postgres.NewCommentRepository(db.DB),
		Questions: postgres.NewQuestionRepository(db.DB),
		Polls:     redishandler.NewPollStore(rdb, l, m.VoteConflicts),
		Metrics:   m,
		Logger:    l,
	}

	router, err := api.NewRouter(api.Deps{
		Auth: &api.AuthHandler{
			Users:     userRepo,
			JWTSecret: cfg.JWTSecret,
			TokenTTL:  cfg.TokenTTL,
			Logger:    l,
		},
		Handler:   handler,
		Metrics:   m,
		Gatherer:  reg,
		JWTSecret: cfg.JWTSecret,
		Logger:    l,
	})
	if err != nil {
		l.Fatalf("Failed to build router: %v", err)
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		l.Infof("HTTP server listening on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Errorf("HTTP server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	l.Info("Shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		l.Errorf("Graceful shutdown failed: %v", err)
	}

	l.Info("HobbyHub API stopped")
}
