package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"medmaint/internal/config"
	"medmaint/internal/handler"
	"medmaint/internal/httpserver"
	"medmaint/internal/repository"
	"medmaint/internal/scheduler"
	"medmaint/internal/service/asset"
	"medmaint/internal/service/auth"
	"medmaint/internal/service/dashboard"
	"medmaint/internal/service/location"
	"medmaint/internal/service/part"
	"medmaint/internal/service/plan"
	"medmaint/internal/service/workorder"
	"medmaint/pkg/db"
	"medmaint/pkg/logger"
	"medmaint/pkg/mq"
	"medmaint/pkg/outbox"
	"medmaint/pkg/redis"
	"medmaint/pkg/util"
)

func main() {
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting medmaint server...",
		zap.String("db_host", cfg.DB.Host),
		zap.Int("db_port", cfg.DB.Port),
		zap.String("port", cfg.Server.Port),
	)

	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to init DB", zap.Error(err))
	}
	defer dbConn.Close()

	rdb := redis.NewRedisClient(cfg.Redis)
	defer rdb.Close()

	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("Failed to init MQ publisher", zap.Error(err))
	}
	defer publisher.Close()

	// Repositories
	userRepo := repository.NewUserRepository(dbConn, log)
	assetRepo := repository.NewAssetRepository(dbConn, log)
	planRepo := repository.NewPlanRepository(dbConn, log)
	woRepo := repository.NewWorkOrderRepository(dbConn, log)
	partRepo := repository.NewPartRepository(dbConn, log)
	locationRepo := repository.NewLocationRepository(dbConn, log)
	notificationRepo := repository.NewNotificationRepository(dbConn, log)
	activityRepo := repository.NewActivityRepository(dbConn, log)
	outboxRepo := outbox.NewRepository(dbConn)

	// Login-triggered scheduler pass, throttled through Redis.
	schedulerStore := repository.NewSchedulerStore(dbConn, outboxRepo, log)
	engine := scheduler.NewEngine(schedulerStore, schedulerStore, log, cfg.Scheduler.CatchUp)
	deduper := util.NewDeduper(rdb, cfg.Scheduler.LoginTriggerTTL, log)
	loginTrigger := scheduler.NewLoginTrigger(engine, deduper, log)

	// Services
	authService := auth.NewService(userRepo, activityRepo, loginTrigger, cfg.JWT.Secret, log)
	assetService := asset.NewService(assetRepo, activityRepo, log)
	planService := plan.NewService(planRepo, activityRepo, log)
	woService := workorder.NewService(woRepo, activityRepo, log)
	partService := part.NewService(partRepo, userRepo, notificationRepo, activityRepo, log)
	locationService := location.NewService(locationRepo, activityRepo, log)
	dashboardService := dashboard.NewService(assetRepo, woRepo, log)
	replayService := outbox.NewReplayService(outboxRepo, publisher)

	// Handlers
	handlers := httpserver.Handlers{
		Auth:         handler.NewAuthHandler(authService, log),
		Asset:        handler.NewAssetHandler(assetService, log),
		Plan:         handler.NewPlanHandler(planService, log),
		WorkOrder:    handler.NewWorkOrderHandler(woService, log),
		Part:         handler.NewPartHandler(partService, log),
		Location:     handler.NewLocationHandler(locationService, log),
		User:         handler.NewUserHandler(userRepo, log),
		Notification: handler.NewNotificationHandler(notificationRepo, log),
		Activity:     handler.NewActivityHandler(activityRepo, log),
		Dashboard:    handler.NewDashboardHandler(dashboardService, log),
		Admin:        handler.NewAdminHandler(replayService, log),
	}

	router := httpserver.NewRouter(handlers, cfg.JWT.Secret, dbConn, log)
	srv := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: router.Engine,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	log.Info("medmaint server is fully initialized and running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down medmaint server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}

	publisher.Close()
	dbConn.Close()

	log.Info("medmaint server shutdown complete")
}
