package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"DemoPilot/internal/middleware"
	"DemoPilot/internal/model/dto"
	"DemoPilot/internal/service"
	"DemoPilot/pkg/response"
)

// GetCurrentUser 身份探测，匿名也返回 200
// GET /v1/auth/current-user
func GetCurrentUser(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Success(ctx, c, dto.CurrentUserResponse{Authenticated: false})
		return
	}

	response.Success(ctx, c, dto.CurrentUserResponse{
		Authenticated: true,
		User: &dto.UserInfo{
			ID:   userID,
			Role: c.GetString(middleware.RoleKey),
		},
	})
}

// AdminLogin 后台登录
// POST /v1/auth/admin/login
func AdminLogin(ctx context.Context, c *app.RequestContext) {
	var req dto.AdminLoginRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	pair, err := service.Auth().AdminLogin(req.Username, req.Password)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, pair)
}

// IssueVisitorToken 给访客发身份，草稿从此落服务端权威存储
// POST /v1/auth/visitor
func IssueVisitorToken(ctx context.Context, c *app.RequestContext) {
	pair, visitorID, err := service.Auth().IssueVisitorToken()
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.SuccessWithMeta(ctx, c, pair, map[string]interface{}{
		"visitor_id": visitorID,
	})
}

// RefreshToken 刷新令牌
// POST /v1/auth/token/refresh
func RefreshToken(ctx context.Context, c *app.RequestContext) {
	var req dto.RefreshTokenRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	pair, err := service.Auth().Refresh(req.RefreshToken)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, pair)
}
