package middleware

import (
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"DemoPilot/pkg/logger"
)

// Init 初始化所有中间件。指标挂在全局 MeterProvider 上，
// 未装 SDK 时是 no-op，不影响请求链路。
func Init() error {
	if err := initAuthMiddleware(); err != nil {
		logger.Logger.Error("Failed to initialize auth middleware", zap.Error(err))
		return err
	}

	if err := InitMetrics(otel.Meter("demopilot-server")); err != nil {
		logger.Logger.Error("Failed to initialize HTTP metrics", zap.Error(err))
		return err
	}

	logger.Logger.Info("All middlewares initialized successfully")
	return nil
}
