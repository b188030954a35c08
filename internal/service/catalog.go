package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	pkgerrors "DemoPilot/pkg/errors"
	"DemoPilot/pkg/logger"
	"DemoPilot/pkg/salesapi"
)

var (
	catalogService *CatalogService
	catalogOnce    sync.Once
)

func Catalog() *CatalogService {
	catalogOnce.Do(func() {
		catalogService = &CatalogService{}
	})
	return catalogService
}

type CatalogService struct{}

// GetPlans 套餐目录。上游挂了退回内置快照，向导第二步不能白屏。
func (s *CatalogService) GetPlans(ctx context.Context, applicationType string) ([]salesapi.Plan, bool, error) {
	plans, err := salesapi.GetClient().GetPlans(ctx, applicationType)
	if err != nil {
		logger.Logger.Warn("Plan catalog unavailable, serving fallback snapshot",
			zap.String("application_type", applicationType),
			zap.Error(err),
		)
		return salesapi.FallbackPlans(applicationType), true, nil
	}

	return plans, false, nil
}

// GetServices 服务目录。自选套餐的价格由服务单价算出，
// 没有可信快照可退，挂了就是挂了。
func (s *CatalogService) GetServices(ctx context.Context, applicationType string) ([]salesapi.ServiceItem, error) {
	services, err := salesapi.GetClient().GetServices(ctx, applicationType)
	if err != nil {
		logger.Logger.Error("Service catalog unavailable", zap.Error(err))
		return nil, pkgerrors.ServicesUnavailable
	}

	return services, nil
}

// CalculateCustomPlan 自选服务组合询价。
func (s *CatalogService) CalculateCustomPlan(ctx context.Context, serviceIDs []string, applicationType string) (*salesapi.CustomPlanPricing, error) {
	if len(serviceIDs) == 0 {
		return nil, pkgerrors.WizardValidationFailed.WithMessage("Select at least one service")
	}

	pricing, err := salesapi.GetClient().CalculateCustomPlan(ctx, serviceIDs, applicationType)
	if err != nil {
		logger.Logger.Error("Custom plan calculation failed", zap.Error(err))
		return nil, pkgerrors.CustomPlanUnavailable
	}

	return pricing, nil
}
