package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"DemoPilot/internal/middleware"
	"DemoPilot/internal/model/dto"
	"DemoPilot/internal/service"
	"DemoPilot/pkg/response"
)

// InitiatePayment 建单并换取网关 txnToken
// POST /v1/payments/initiate
func InitiatePayment(ctx context.Context, c *app.RequestContext) {
	var req dto.InitiatePaymentRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	userID, _ := middleware.GetUserID(ctx, c)

	result, err := service.Payment().Initiate(ctx, userID, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// PaymentCallback 网关回跳，表单编码，签名字段单独摘出来
// POST /v1/payments/callback
func PaymentCallback(ctx context.Context, c *app.RequestContext) {
	params := make(map[string]string)
	c.PostArgs().VisitAll(func(key, value []byte) {
		params[string(key)] = string(value)
	})

	checksum := params["CHECKSUMHASH"]
	delete(params, "CHECKSUMHASH")

	result, err := service.Payment().HandleCallback(ctx, params, checksum)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// GetPaymentStatus 查询订单状态（非终态时顺带与网关对账）
// GET /v1/payments/:order_id/status
func GetPaymentStatus(ctx context.Context, c *app.RequestContext) {
	orderID := c.Param("order_id")

	result, err := service.Payment().GetStatus(ctx, orderID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}
