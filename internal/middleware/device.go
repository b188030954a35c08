package middleware

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/google/uuid"
)

const (
	DeviceKey    = "device_id"
	deviceCookie = "dpl_device"
)

// DeviceMiddleware 给每个来访设备种一个匿名标识 cookie。
// 本地草稿存储按它分键，未登录用户的会话恢复全靠它。
func DeviceMiddleware() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		deviceID := string(c.Cookie(deviceCookie))

		if deviceID == "" || uuid.Validate(deviceID) != nil {
			deviceID = uuid.NewString()

			cookie := protocol.Cookie{}
			cookie.SetKey(deviceCookie)
			cookie.SetValue(deviceID)
			cookie.SetPath("/")
			cookie.SetMaxAge(3600 * 24 * 365)
			cookie.SetHTTPOnly(true)
			cookie.SetSameSite(protocol.CookieSameSiteLaxMode)
			c.Response.Header.SetCookie(&cookie)
		}

		c.Set(DeviceKey, deviceID)
		c.Next(ctx)
	}
}

// GetDeviceID 当前请求的设备标识。中间件挂载后必然存在。
func GetDeviceID(c *app.RequestContext) string {
	return c.GetString(DeviceKey)
}
