package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"grievance/backend/internal/analysis"
	"grievance/backend/internal/api"
	"grievance/backend/internal/api/handler"
	"grievance/backend/internal/auth"
	"grievance/backend/internal/complaint"
	"grievance/backend/internal/config"
	"grievance/backend/internal/department"
	"grievance/backend/internal/feedback"
	"grievance/backend/internal/hub"
	"grievance/backend/internal/localization"
	"grievance/backend/internal/scheduler"
	"grievance/backend/internal/stats"
	"grievance/backend/internal/storage"
	"grievance/backend/internal/telegram"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func setupDependencies(ctx context.Context, cfg *config.Config) (*gorm.DB, *redis.Client) {
	// 1. PostgreSQL
	db, err := storage.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}
	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// 2. Redis, only for multi-instance fan-out
	if cfg.RedisAddr == "" {
		log.Println("INFO: REDIS_ADDR not set, real-time events stay on this instance")
		return db, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting grievance backend...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	// 1. Dependencies
	db, rdb := setupDependencies(ctx, cfg)
	s := storage.NewStorageService(db, rdb)

	// 2. Notification hub
	notifications := hub.NewManagerService(s)
	go notifications.Run(ctx)

	// 3. Domain services
	departments := department.NewResolver(s)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)
	aggregator := stats.NewAggregator(s)

	h := &handler.Handler{
		Auth:        auth.NewService(s, departments, tokens),
		Complaints:  complaint.NewService(s, analysis.NewGateway(cfg.AnalysisURL, cfg.AnalysisTimeout), departments, notifications),
		Departments: departments,
		Feedback:    feedback.NewService(s),
		Stats:       aggregator,
		Users:       s,
		Hub:         notifications,
	}

	// 4. Optional relays
	if cfg.TelegramBotToken != "" {
		localizer, err := localization.NewLocalizer()
		if err != nil {
			log.Fatalf("Failed to load locales: %v", err)
		}
		bot, err := telegram.NewBotService(cfg.TelegramBotToken, notifications, s, tokens, localizer)
		if err != nil {
			log.Fatalf("Failed to start Telegram bot: %v", err)
		}
		go bot.Run(ctx)
	} else {
		log.Println("INFO: TELEGRAM_BOT_TOKEN not set, Telegram relay disabled")
	}

	if cfg.StatsCron != "" {
		sch, err := scheduler.New(cfg.StatsCron, aggregator, notifications)
		if err != nil {
			log.Fatalf("Invalid STATS_CRON %q: %v", cfg.StatsCron, err)
		}
		sch.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			sch.Stop(stopCtx)
		}()
	}

	// 5. HTTP server
	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        api.NewRouter(h, tokens, cfg.CORSOrigins),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Printf("INFO: listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("INFO: shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: graceful shutdown failed: %v", err)
	}
	<-notifications.Done()
}
