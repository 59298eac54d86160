package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/msp993/backlog-zenith-project/internal/config"
	"github.com/msp993/backlog-zenith-project/internal/jobs"
	"github.com/msp993/backlog-zenith-project/internal/logger"
	"github.com/msp993/backlog-zenith-project/internal/models"
	"github.com/msp993/backlog-zenith-project/internal/realtime"
	"github.com/msp993/backlog-zenith-project/internal/repository"
	"github.com/msp993/backlog-zenith-project/internal/service"
	"github.com/msp993/backlog-zenith-project/internal/transport"
	"go.uber.org/zap"
)

const listenRetryDelay = 5 * time.Second

type App struct {
	Server     *http.Server
	Repository *repository.Repository
	Hub        *realtime.Hub
	Scheduler  *jobs.Scheduler

	stopListener context.CancelFunc
	listenerDone sync.WaitGroup
}

func main() {
	app := &App{}

	cfg, log, err := bootstrap()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	repository, err := repository.NewRepository(cfg.PostgresCfg)
	if err != nil {
		zap.L().Fatal("failed to create repository", zap.Error(err))
	}
	app.Repository = repository

	hub := realtime.NewHub(cfg.Realtime)
	app.Hub = hub

	service := service.NewService(cfg.Service, repository, hub)

	app.startListener(cfg.Realtime.NotifyChannel, service.ResetCaches, func(event models.ChangeEvent) {
		service.HandleChange(event)
		hub.Publish(event)
	})

	scheduler, err := jobs.NewScheduler(cfg.Jobs, hub, service, repository)
	if err != nil {
		zap.L().Fatal("failed to create scheduler", zap.Error(err))
	}
	scheduler.Start()
	app.Scheduler = scheduler

	zap.L().Info("starting server...", zap.String("port", cfg.HTTPPort))
	server := transport.StartServer(cfg, service, hub)
	app.Server = server

	app.gracefulShutdown()
}

// bootstrap loads the config and builds the logger. Its errors are
// reported on stderr since no logger exists yet.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("get config: %w", err)
	}

	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}

	return cfg, log, nil
}

// startListener feeds database change notifications to handle until
// shutdown. onSubscribed runs on every (re)subscription.
func (app *App) startListener(channel string, onSubscribed func(), handle func(models.ChangeEvent)) {
	ctx, cancel := context.WithCancel(context.Background())
	app.stopListener = cancel

	app.listenerDone.Add(1)
	go func() {
		defer app.listenerDone.Done()
		realtime.Follow(ctx, app.Repository, channel, listenRetryDelay, onSubscribed, handle)
	}()
}

func (app *App) gracefulShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	<-quit
	zap.L().Info("shutdown signal received")

	const defaultShutdownTTL = time.Second * 10
	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTTL)
	defer cancel()

	zap.L().Info("shutting down HTTP server...")
	if err := app.Server.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("failed to shutdown HTTP server", zap.Error(err))
	}

	zap.L().Info("closing realtime connections...")
	app.Hub.Close()

	zap.L().Info("stopping scheduled jobs...")
	app.Scheduler.Stop(shutdownCtx)

	zap.L().Info("stopping change listener...")
	app.stopListener()
	app.listenerDone.Wait()

	zap.L().Info("closing database connection...")
	app.Repository.CloseConnection()

	zap.L().Info("app shutdown completed")
}
