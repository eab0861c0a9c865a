package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/planmyevents/internal/api"
	"github.com/Kerhoff/planmyevents/internal/backup"
	"github.com/Kerhoff/planmyevents/internal/config"
	"github.com/Kerhoff/planmyevents/internal/handlers"
	"github.com/Kerhoff/planmyevents/internal/metrics"
	"github.com/Kerhoff/planmyevents/internal/notify"
	"github.com/Kerhoff/planmyevents/internal/service"
	"github.com/Kerhoff/planmyevents/internal/storage"
	"github.com/Kerhoff/planmyevents/internal/telegram"
	"github.com/Kerhoff/planmyevents/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l := logger.New(cfg.LogLevel, cfg.LogFormat)
	l.Info("Starting PlanMyEvents...")

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		l.Info("Received shutdown signal...")
		cancel()
	}()

	m := metrics.New()

	// Storage
	repo, err := cfg.OpenRepository(ctx, l)
	if err != nil {
		l.Fatalf("Failed to open storage: %v", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			l.WithError(err).Error("Failed to close storage")
		}
	}()
	store := storage.New(repo, cfg.StoragePrefix, l, m)

	// Service layer
	svc := service.New(store, l, service.WithMetrics(m))
	if err := svc.Init(ctx); err != nil {
		l.Fatalf("Failed to load planner state: %v", err)
	}

	// The enableLogging preference turns on debug output
	baseLevel := l.GetLevel()
	logger.SetVerbose(l, baseLevel, svc.Settings().Advanced.EnableLogging)
	svc.Bus().Subscribe(func(c notify.Change) {
		if c.Kind == notify.SettingsChanged || c.Kind == notify.DataCleared {
			logger.SetVerbose(l, baseLevel, svc.Settings().Advanced.EnableLogging)
		}
	})

	// Backups
	if cfg.BackupEnabled() {
		sink, err := openBackupSink(ctx, cfg)
		if err != nil {
			l.Fatalf("Failed to open backup sink: %v", err)
		}
		go svc.StartBackupScheduler(ctx, sink, cfg.BackupInterval)
	}

	// Metrics
	metricsServer := &http.Server{
		Addr:              ":" + cfg.PrometheusPort,
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		l.Infof("Metrics listening on :%s", cfg.PrometheusPort)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Errorf("Metrics server error: %v", err)
		}
	}()

	// Telegram bot
	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, l)
		if err != nil {
			l.Fatalf("Failed to create Telegram bot: %v", err)
		}
		registerCommands(bot, svc, l)

		go func() {
			if err := bot.Start(ctx); err != nil {
				l.Errorf("Bot error: %v", err)
			}
		}()
	} else {
		l.Warn("TELEGRAM_TOKEN not set, chat commands disabled")
	}

	// Start HTTP server for the API
	apiServer := api.NewServer(svc, l, api.Options{
		CORSOrigins: cfg.CORSOrigins,
		RateLimit:   cfg.RateLimit,
		RateBurst:   cfg.RateBurst,
		Metrics:     m,
	})
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		l.Infof("HTTP server listening on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Errorf("HTTP server error: %v", err)
		}
	}()

	l.Info("PlanMyEvents started successfully")

	<-ctx.Done()

	l.Info("Shutting down HTTP server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	apiServer.Close()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		l.WithError(err).Error("HTTP server shutdown failed")
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		l.WithError(err).Error("Metrics server shutdown failed")
	}

	if svc.Settings().Advanced.ClearDataOnExit {
		if err := svc.ClearAllData(shutdownCtx); err != nil {
			l.WithError(err).Error("Failed to clear data on exit")
		}
	}

	l.Info("PlanMyEvents stopped")
}

func openBackupSink(ctx context.Context, cfg *config.Config) (backup.Sink, error) {
	if cfg.BackupS3Bucket != "" {
		return backup.NewS3Sink(ctx, backup.S3Config{
			Bucket:   cfg.BackupS3Bucket,
			Region:   cfg.BackupS3Region,
			Endpoint: cfg.BackupS3Endpoint,
		})
	}
	return backup.NewFileSink(cfg.BackupDir)
}

func registerCommands(bot *telegram.Bot, svc *service.Service, l *logrus.Logger) {
	bot.RegisterCommand("start", handlers.NewStartHandler(svc, l))
	bot.RegisterCommand("help", handlers.NewHelpHandler(l))

	// Event handlers
	events := handlers.NewEventsHandler(svc, l)
	bot.RegisterCommand("newevent", handlers.NewCreateEventHandler(svc, l))
	bot.RegisterCommand("events", events)
	bot.RegisterCommand("use", handlers.NewUseHandler(svc, l))
	bot.RegisterCommand("delevent", handlers.NewDeleteEventHandler(svc, l))
	bot.RegisterCallback("use", events)

	// Menu handlers
	dishes := handlers.NewDishesHandler(svc, l)
	bot.RegisterCommand("dishes", dishes)
	bot.RegisterCommand("add", handlers.NewAddDishHandler(svc, l))
	bot.RegisterCommand("remove", handlers.NewRemoveDishHandler(svc, l))
	bot.RegisterCommand("cart", handlers.NewCartHandler(svc, l))
	bot.RegisterCommand("clearcart", handlers.NewClearCartHandler(svc, l))
	bot.RegisterCallback("add", dishes)

	// Shopping list
	bot.RegisterCommand("shoplist", handlers.NewShoppingListHandler(svc, l))
}
