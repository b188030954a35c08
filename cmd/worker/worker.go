package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"DemoPilot/config"
	"DemoPilot/internal/queue"
	"DemoPilot/internal/service"
	"DemoPilot/pkg/logger"
	"DemoPilot/pkg/snowflake"
	"DemoPilot/storage"
)

func main() {

	logger.Init()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Logger.Info("Received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer storage.Close()

	if err := snowflake.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake", zap.Error(err))
	}

	// 建站执行器，消费者共用
	queue.SetSiteBuilder(service.SiteBuild())

	if err := queue.DeclareQueues(); err != nil {
		logger.Logger.Fatal("Failed to declare queues", zap.Error(err))
	}

	logger.Logger.Info("Worker service starting",
		zap.String("service", config.Cfg.ServiceName+"-worker"),
		zap.String("environment", config.Cfg.Environment),
	)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := queue.StartDemoRequestConsumer(ctx); err != nil {
			logger.Logger.Error("Demo request consumer stopped", zap.Error(err))
			cancel()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := queue.StartSiteBuildConsumer(ctx); err != nil {
			logger.Logger.Error("Site build consumer stopped", zap.Error(err))
			cancel()
		}
	}()

	wg.Wait()

	logger.Logger.Info("Worker service shutting down gracefully")
}
