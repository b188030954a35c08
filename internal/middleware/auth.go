package middleware

import (
	"context"
	"fmt"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/hertz-contrib/jwt"

	pkgerrors "DemoPilot/pkg/errors"
	"DemoPilot/pkg/response"
	"DemoPilot/pkg/token"
)

const (
	IdentityKey = token.IdentityKey
	RoleKey     = token.RoleKey
)

var authMiddleware *jwt.HertzJWTMiddleware

func initAuthMiddleware() error {
	// 使用 token 包中共享的生成器
	sharedGenerator := token.GetGenerator()
	if sharedGenerator == nil {
		return fmt.Errorf("token generator not initialized, call token.Init() first")
	}

	authMiddleware = &jwt.HertzJWTMiddleware{
		Realm:       "DemoPilot API",
		Key:         sharedGenerator.Key,
		Timeout:     sharedGenerator.Timeout,
		MaxRefresh:  sharedGenerator.MaxRefresh,
		IdentityKey: sharedGenerator.IdentityKey,
		TimeFunc:    sharedGenerator.TimeFunc,

		IdentityHandler: func(ctx context.Context, c *app.RequestContext) interface{} {
			claims := jwt.ExtractClaims(ctx, c)

			if role, ok := claims[RoleKey].(string); ok {
				c.Set(RoleKey, role)
			}

			uid, ok := claims[IdentityKey].(string)
			if !ok {
				if uidFloat, ok := claims[IdentityKey].(float64); ok {
					uid = fmt.Sprintf("%.0f", uidFloat)
				} else {
					return nil
				}
			}
			return uid
		},

		Unauthorized: func(ctx context.Context, c *app.RequestContext, code int, message string) {
			c.JSON(code, map[string]interface{}{
				"error": map[string]interface{}{
					"code":    "UNAUTHORIZED",
					"message": message,
				},
			})
		},

		TokenLookup:   "header: Authorization, query: token, cookie: jwt",
		TokenHeadName: "Bearer",
	}

	return nil
}

func AuthMiddleware() app.HandlerFunc {
	if authMiddleware == nil {
		panic("AuthMiddleware not initialized, call Init() first")
	}
	return authMiddleware.MiddlewareFunc()
}

// OptionalAuthMiddleware 向导路由共用：带合法 JWT 时解出身份，
// 没带或非法时继续匿名，草稿只落本地存储。
func OptionalAuthMiddleware() app.HandlerFunc {
	if authMiddleware == nil {
		panic("AuthMiddleware not initialized, call Init() first")
	}

	return func(ctx context.Context, c *app.RequestContext) {
		if len(c.GetHeader("Authorization")) == 0 && len(c.Cookie("jwt")) == 0 {
			c.Next(ctx)
			return
		}

		claims, err := authMiddleware.GetClaimsFromJWT(ctx, c)
		if err != nil {
			c.Next(ctx)
			return
		}

		if uid, ok := claims[IdentityKey].(string); ok && uid != "" {
			c.Set(IdentityKey, uid)
		}
		if role, ok := claims[RoleKey].(string); ok {
			c.Set(RoleKey, role)
		}

		c.Next(ctx)
	}
}

// AdminRequired 管理后台守卫，跟在 AuthMiddleware 之后。
func AdminRequired() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		role := c.GetString(RoleKey)
		if role != token.RoleAdmin {
			response.Error(ctx, c, pkgerrors.Unauthorized)
			c.Abort()
			return
		}
		c.Next(ctx)
	}
}

// GetUserID 从请求上下文中获取用户ID（字符串格式）
func GetUserID(ctx context.Context, c *app.RequestContext) (string, bool) {
	userID, exists := c.Get(IdentityKey)
	if !exists {
		return "", false
	}

	id, ok := userID.(string)
	if !ok || id == "" {
		return "", false
	}

	return id, true
}
