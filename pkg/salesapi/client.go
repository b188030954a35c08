package salesapi

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"DemoPilot/config"
	"DemoPilot/pkg/logger"
)

// Client 上游销售/CRM 服务的客户端接口。
// 所有失败在实现内被归一为 pkg/errors.Definition，带上游原话。
type Client interface {
	SendOTP(ctx context.Context, mobile string) error
	ValidateOTP(ctx context.Context, mobile, code string) error
	GetPlans(ctx context.Context, applicationType string) ([]Plan, error)
	GetServices(ctx context.Context, applicationType string) ([]ServiceItem, error)
	CalculateCustomPlan(ctx context.Context, serviceIDs []string, applicationType string) (*CustomPlanPricing, error)
	SubmitDemoRequest(ctx context.Context, input SubmitDemoRequestInput) (message string, err error)
}

var (
	salesClient Client
	salesOnce   sync.Once
)

// Init 初始化销售 API 客户端。开发环境缺 key 时退回 mock。
func Init() error {
	salesOnce.Do(func() {
		cfg := config.Cfg

		if cfg.SalesAPIKey == "" && cfg.IsDevelopment() {
			salesClient = NewMockClient()
			logger.Logger.Warn("Sales API key missing in development, using mock client")
			return
		}

		salesClient = NewHTTPClient()
		logger.Logger.Info("Sales API client initialized successfully",
			zap.String("base_url", cfg.SalesAPIBaseURL),
		)
	})

	return nil
}

func GetClient() Client {
	if salesClient == nil {
		panic("Sales API client not initialized, call salesapi.Init() first")
	}
	return salesClient
}

// SetClient 测试注入用
func SetClient(c Client) {
	salesClient = c
}
