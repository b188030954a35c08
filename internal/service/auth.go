package service

import (
	"crypto/subtle"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"DemoPilot/config"
	"DemoPilot/internal/model/dto"
	pkgerrors "DemoPilot/pkg/errors"
	"DemoPilot/pkg/logger"
	"DemoPilot/pkg/snowflake"
	"DemoPilot/pkg/token"
)

var (
	authService *AuthService
	authOnce    sync.Once
)

func Auth() *AuthService {
	authOnce.Do(func() {
		authService = &AuthService{}
	})
	return authService
}

type AuthService struct{}

// AdminLogin 后台登录，凭据来自环境配置，常数时间比较。
func (s *AuthService) AdminLogin(username, password string) (*dto.TokenPairResponse, error) {
	cfg := config.Cfg

	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil, pkgerrors.AdminLoginDisabled
	}

	userMatch := subtle.ConstantTimeCompare([]byte(username), []byte(cfg.AdminUsername)) == 1
	passMatch := subtle.ConstantTimeCompare([]byte(password), []byte(cfg.AdminPassword)) == 1
	if !userMatch || !passMatch {
		logger.Logger.Warn("Admin login rejected", zap.String("username", username))
		return nil, pkgerrors.AdminLoginFailed
	}

	access, refresh, expiresIn, err := token.GenerateTokenPair("admin", token.RoleAdmin)
	if err != nil {
		return nil, err
	}

	return &dto.TokenPairResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    expiresIn,
	}, nil
}

// IssueVisitorToken 给访客发身份：有了 uid，草稿才能落服务端权威存储，
// 换设备/清浏览器后还能接着填。
func (s *AuthService) IssueVisitorToken() (*dto.TokenPairResponse, string, error) {
	id, err := snowflake.NextID()
	if err != nil {
		return nil, "", err
	}
	visitorID := "v" + strconv.FormatInt(id, 10)

	access, refresh, expiresIn, err := token.GenerateTokenPair(visitorID, token.RoleVisitor)
	if err != nil {
		return nil, "", err
	}

	return &dto.TokenPairResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    expiresIn,
	}, visitorID, nil
}

// Refresh 刷新令牌换新令牌对，角色原样保留。
func (s *AuthService) Refresh(refreshToken string) (*dto.TokenPairResponse, error) {
	userID, role, err := token.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, pkgerrors.Unauthorized
	}

	access, refresh, expiresIn, err := token.GenerateTokenPair(userID, role)
	if err != nil {
		return nil, err
	}

	return &dto.TokenPairResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    expiresIn,
	}, nil
}
