package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"DemoPilot/internal/model/dto"
	"DemoPilot/internal/service"
	"DemoPilot/pkg/response"
)

// GetPlans 套餐目录。上游故障时退内置快照，meta 里带 fallback 标记。
// GET /v1/catalog/plans
func GetPlans(ctx context.Context, c *app.RequestContext) {
	applicationType := c.Query("application_type")

	plans, fromFallback, err := service.Catalog().GetPlans(ctx, applicationType)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	if fromFallback {
		response.SuccessWithMeta(ctx, c, plans, map[string]interface{}{"fallback": true})
		return
	}

	response.Success(ctx, c, plans)
}

// GetServices 自选套餐的服务目录，无快照可退
// GET /v1/catalog/services
func GetServices(ctx context.Context, c *app.RequestContext) {
	applicationType := c.Query("application_type")

	services, err := service.Catalog().GetServices(ctx, applicationType)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, services)
}

// CalculateCustomPlan 自选服务组合询价
// POST /v1/catalog/custom-plan
func CalculateCustomPlan(ctx context.Context, c *app.RequestContext) {
	var req dto.CustomPlanRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	pricing, err := service.Catalog().CalculateCustomPlan(ctx, req.ServiceIDs, req.ApplicationType)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, pricing)
}
