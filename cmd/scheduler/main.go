package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"medmaint/internal/config"
	"medmaint/internal/mqhandler"
	"medmaint/internal/repository"
	"medmaint/internal/scheduler"
	"medmaint/pkg/db"
	"medmaint/pkg/logger"
	"medmaint/pkg/mq"
	"medmaint/pkg/outbox"
)

func main() {
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting medmaint scheduler...",
		zap.String("db_host", cfg.DB.Host),
		zap.Duration("interval", cfg.Scheduler.Interval),
		zap.Bool("catch_up", cfg.Scheduler.CatchUp),
	)

	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to init DB", zap.Error(err))
	}
	defer dbConn.Close()

	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("Failed to init MQ publisher", zap.Error(err))
	}
	defer publisher.Close()

	// Repositories and scheduler core
	userRepo := repository.NewUserRepository(dbConn, log)
	woRepo := repository.NewWorkOrderRepository(dbConn, log)
	notificationRepo := repository.NewNotificationRepository(dbConn, log)
	outboxRepo := outbox.NewRepository(dbConn)

	store := repository.NewSchedulerStore(dbConn, outboxRepo, log)
	engine := scheduler.NewEngine(store, store, log, cfg.Scheduler.CatchUp)
	sweeper := repository.NewOverdueSweeper(dbConn, woRepo, outboxRepo, log)

	// Outbox dispatcher ships committed events to RabbitMQ.
	dispatcher := outbox.NewDispatcher(outboxRepo, publisher, log)
	dispatcherCtx, dispatcherCancel := context.WithCancel(context.Background())
	defer dispatcherCancel()
	go dispatcher.Start(dispatcherCtx)

	// Notification consumers
	generatedConsumer, err := mq.NewConsumer(cfg.MQ.URL, "scheduler.workorder.generated", "workorder.generated", publisher, log)
	if err != nil {
		log.Fatal("Failed to init generated consumer", zap.Error(err))
	}
	defer generatedConsumer.Close()
	generatedConsumer.SetHandler(mqhandler.NewWorkOrderGeneratedHandler(userRepo, notificationRepo, log).Handle)
	go func() {
		if err := generatedConsumer.StartConsuming(); err != nil {
			log.Fatal("Failed to start generated consumer", zap.Error(err))
		}
	}()

	overdueConsumer, err := mq.NewConsumer(cfg.MQ.URL, "scheduler.workorder.overdue", "workorder.overdue", publisher, log)
	if err != nil {
		log.Fatal("Failed to init overdue consumer", zap.Error(err))
	}
	defer overdueConsumer.Close()
	overdueConsumer.SetHandler(mqhandler.NewWorkOrderOverdueHandler(userRepo, notificationRepo, log).Handle)
	go func() {
		if err := overdueConsumer.StartConsuming(); err != nil {
			log.Fatal("Failed to start overdue consumer", zap.Error(err))
		}
	}()

	// Scheduler pass loop
	interval := cfg.Scheduler.Interval
	if interval <= 0 {
		interval = time.Hour
	}

	passCtx, passCancel := context.WithCancel(context.Background())
	defer passCancel()

	runOnce := func(ctx context.Context) {
		if _, err := engine.RunPass(ctx, time.Now(), "timer"); err != nil {
			log.Error("Scheduler pass failed", zap.Error(err))
		}
		if _, err := sweeper.Sweep(ctx, time.Now()); err != nil {
			log.Error("Overdue sweep failed", zap.Error(err))
		}
	}

	go func() {
		// Run immediately on startup, then on the ticker.
		runOnce(passCtx)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-passCtx.Done():
				log.Info("Scheduler pass loop stopped")
				return
			case <-ticker.C:
				runOnce(passCtx)
			}
		}
	}()

	// Health and metrics endpoints
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if err := dbConn.Ping(ctx); err != nil {
			c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
			return
		}
		if !publisher.IsConnected() {
			c.JSON(500, gin.H{"status": "mq_not_ready"})
			return
		}
		c.JSON(200, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:    ":8085",
		Handler: r,
	}
	go func() {
		log.Info("Scheduler HTTP server starting on :8085")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	log.Info("medmaint scheduler is fully initialized and running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down medmaint scheduler gracefully...")

	passCancel()
	dispatcherCancel()
	generatedConsumer.Close()
	overdueConsumer.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}

	publisher.Close()
	dbConn.Close()

	log.Info("medmaint scheduler shutdown complete")
}
