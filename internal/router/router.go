package router

import (
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"

	"DemoPilot/config"
	"DemoPilot/internal/handler"
	"DemoPilot/internal/middleware"
)

func Register(h *server.Hertz) {

	h.Use(middleware.RecoverMiddleware())
	h.Use(middleware.CORSMiddleware())
	h.Use(middleware.OpenTelemetryMiddleware())
	h.Use(middleware.DeviceMiddleware())

	// 上传的静态产物
	h.StaticFS("/uploads", &app.FS{
		Root:        config.Cfg.UploadDir,
		PathRewrite: app.NewPathSlashesStripper(1),
	})

	v1 := h.Group("/v1")

	// 认证相关路由
	auth := v1.Group("/auth")
	{
		auth.GET("/current-user", middleware.OptionalAuthMiddleware(), handler.GetCurrentUser)
		auth.POST("/visitor", handler.IssueVisitorToken)
		auth.POST("/token/refresh", handler.RefreshToken)
		auth.POST("/admin/login", middleware.AdminLoginRateLimitMiddleware(), handler.AdminLogin)
	}

	// 向导路由：匿名可用，带 JWT 时草稿落服务端权威存储
	wizard := v1.Group("/wizard/:flow")
	wizard.Use(middleware.OptionalAuthMiddleware())
	wizard.Use(middleware.GeneralRateLimitMiddleware())
	{
		wizard.GET("/draft", handler.GetDraft)
		wizard.PUT("/draft", handler.SaveDraft)
		wizard.DELETE("/draft", handler.DeleteDraft)

		wizard.POST("/advance", handler.Advance)
		wizard.POST("/retreat", handler.Retreat)
		wizard.POST("/reconcile", handler.Reconcile)

		otp := wizard.Group("/otp")
		{
			otp.GET("", handler.GetOTPState)
			otp.POST("/send", middleware.OTPRateLimitMiddleware(), handler.SendOTP)
			otp.POST("/validate", handler.ValidateOTP)
		}

		wizard.POST("/submit", middleware.SubmitRateLimitMiddleware(), handler.Submit)
	}

	// 目录中继
	catalog := v1.Group("/catalog")
	catalog.Use(middleware.GeneralRateLimitMiddleware())
	{
		catalog.GET("/plans", handler.GetPlans)
		catalog.GET("/services", handler.GetServices)
		catalog.POST("/custom-plan", handler.CalculateCustomPlan)
	}

	// 支付中继
	payments := v1.Group("/payments")
	payments.Use(middleware.OptionalAuthMiddleware())
	{
		payments.POST("/initiate", handler.InitiatePayment)
		payments.POST("/callback", handler.PaymentCallback) // 网关回跳，签名自校验
		payments.GET("/:order_id/status", handler.GetPaymentStatus)
	}

	// 博客公共端
	blog := v1.Group("/blog")
	{
		blog.GET("/posts", handler.ListBlogPosts)
		blog.GET("/posts/:slug", handler.GetBlogPost)
		blog.GET("/categories", handler.ListBlogCategories)
	}

	// 管理后台
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminRequired())
	admin.Use(middleware.CSRFMiddleware())
	{
		admin.GET("/blog/posts", handler.AdminListBlogPosts)
		admin.POST("/blog/posts", handler.AdminCreateBlogPost)
		admin.PUT("/blog/posts/:id", handler.AdminUpdateBlogPost)
		admin.POST("/blog/posts/:id/publish", handler.AdminPublishBlogPost)
		admin.DELETE("/blog/posts/:id", handler.AdminDeleteBlogPost)
		admin.POST("/blog/categories", handler.AdminCreateBlogCategory)

		admin.POST("/uploads", handler.UploadFile)
	}
}
