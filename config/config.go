package config

import (
	"log"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

var Cfg Config

type Config struct {
	// 服务配置
	ServerPort  string `env:"SERVER_PORT" envDefault:"8890"`
	ServerHost  string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // development, staging, production
	ServiceName string `env:"SERVICE_NAME" envDefault:"demopilot"`

	// PostgreSQL 配置
	PostgreSQLHost     string `env:"POSTGRESQL_HOST" envDefault:"localhost"`
	PostgreSQLPort     string `env:"POSTGRESQL_PORT" envDefault:"5432"`
	PostgreSQLUser     string `env:"POSTGRESQL_USER" envDefault:"postgres"`
	PostgreSQLPassword string `env:"POSTGRESQL_PASSWORD" envDefault:"postgres"`
	PostgreSQLDatabase string `env:"POSTGRESQL_DATABASE" envDefault:"demopilot"`
	PostgreSQLSchema   string `env:"POSTGRESQL_SCHEMA" envDefault:"public"`
	PostgreSQLSSLMode  string `env:"POSTGRESQL_SSLMODE" envDefault:"disable"`
	PostgreSQLMaxIdle  int    `env:"POSTGRESQL_MAX_IDLE" envDefault:"30"`
	PostgreSQLMaxOpen  int    `env:"POSTGRESQL_MAX_OPEN" envDefault:"200"`

	// Redis 配置
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"dpl"`

	// RabbitMQ 配置
	RabbitMQAddr     string `env:"RABBITMQ_ADDR" envDefault:"localhost"`
	RabbitMQPort     string `env:"RABBITMQ_PORT" envDefault:"5672"`
	RabbitMQUsername string `env:"RABBITMQ_USERNAME" envDefault:"guest"`
	RabbitMQPassword string `env:"RABBITMQ_PASSWORD" envDefault:"guest"`
	RabbitMQVhost    string `env:"RABBITMQ_VHOST" envDefault:"/"`

	// JWT 配置
	JWTSecret        string `env:"JWT_SECRET"` // 必填，用于签名 JWT
	JWTExpireMinutes int    `env:"JWT_EXPIRE_MINUTES" envDefault:"30"`
	JWTRefreshDays   int    `env:"JWT_REFRESH_DAYS" envDefault:"7"`

	// 管理后台配置（博客 CMS）
	AdminUsername string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
	CSRFSecret    string `env:"CSRF_SECRET"`
	SessionSecret string `env:"SESSION_SECRET"`

	// 上游销售/CRM 服务配置
	SalesAPIBaseURL   string `env:"SALES_API_BASE_URL" envDefault:"http://localhost:9090"`
	SalesAPIKey       string `env:"SALES_API_KEY"`
	SalesAPITimeoutMS int    `env:"SALES_API_TIMEOUT_MS" envDefault:"8000"`

	// Paytm 支付网关配置
	PaytmMerchantID  string `env:"PAYTM_MERCHANT_ID"`
	PaytmMerchantKey string `env:"PAYTM_MERCHANT_KEY"` // 16 字节，用于 AES-128 checksum 签名
	PaytmWebsite     string `env:"PAYTM_WEBSITE" envDefault:"WEBSTAGING"`
	PaytmGateway     string `env:"PAYTM_GATEWAY" envDefault:"https://securegw-stage.paytm.in"`
	PaytmCallbackURL string `env:"PAYTM_CALLBACK_URL"`

	// 日志配置
	LoggerLevel      string `env:"LOGGER_LEVEL" envDefault:"INFO"`
	LoggerFormat     string `env:"LOGGER_FORMAT" envDefault:"text"` // json, text
	LoggerOutputPath string `env:"LOGGER_OUTPUT_PATH" envDefault:"stdout"`

	// 速率限制配置, 配置在中间件内
	RateLimitEnabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitRPS     int  `env:"RATE_LIMIT_RPS" envDefault:"100"` // 每秒请求数

	// 向导配置
	WizardDebounceMS          int  `env:"WIZARD_DEBOUNCE_MS" envDefault:"600"`             // 字段编辑落库去抖窗口
	WizardNavLockMS           int  `env:"WIZARD_NAV_LOCK_MS" envDefault:"400"`             // 转场动画期间的导航锁时长
	WizardResetGraceMS        int  `env:"WIZARD_RESET_GRACE_MS" envDefault:"1000"`         // reset 后抑制自动保存的窗口
	WizardConsistencySeconds  int  `env:"WIZARD_CONSISTENCY_SECONDS" envDefault:"15"`      // 周期一致性检查间隔
	WizardRequireMobileVerify bool `env:"WIZARD_REQUIRE_MOBILE_VERIFY" envDefault:"false"` // 第一步是否强制 OTP 验证，产品侧未定
	DeviceDraftTTLHours       int  `env:"DEVICE_DRAFT_TTL_HOURS" envDefault:"720"`         // 设备侧草稿保留时长

	// OTP 配置
	OTPResendCooldownSeconds int `env:"OTP_RESEND_COOLDOWN_SECONDS" envDefault:"30"`
	OTPMaxDaily              int `env:"OTP_MAX_DAILY" envDefault:"10"`

	// 上传配置
	UploadDir       string `env:"UPLOAD_DIR" envDefault:"./uploads"`
	UploadMaxSizeMB int    `env:"UPLOAD_MAX_SIZE_MB" envDefault:"5"`

	// Snowflake ID 生成器配置
	SnowflakeMachineID  int64 `env:"SNOWFLAKE_MACHINE_ID" envDefault:"1"`
	SnowflakeDataCenter int64 `env:"SNOWFLAKE_DATACENTER_ID" envDefault:"1"`
}

func init() {

	if err := godotenv.Load(); err != nil {

		log.Printf("WARN: Cannot load .env file: %v, using environment variables", err)
	}

	Cfg = Config{}
	if err := env.Parse(&Cfg); err != nil {
		log.Fatalf("Failed to parse environment variables: %v", err)
	}

	validateConfig()
}

func validateConfig() {
	if Cfg.JWTSecret == "" {
		if Cfg.IsProduction() {
			log.Fatal("JWT_SECRET is required in production")
		}
		log.Printf("WARN: JWT_SECRET is not set, using insecure development default")
		Cfg.JWTSecret = "dev-insecure-jwt-secret"
	}

	if Cfg.AdminPassword == "" {
		log.Printf("WARN: ADMIN_PASSWORD is not set, blog admin login will be disabled")
	}

	if Cfg.CSRFSecret == "" || Cfg.SessionSecret == "" {
		log.Printf("WARN: CSRF_SECRET / SESSION_SECRET not set, admin CSRF protection will not work")
	}

	if Cfg.PaytmMerchantID == "" || Cfg.PaytmMerchantKey == "" {
		log.Printf("WARN: Paytm merchant credentials not set, payment endpoints will not work")
	}

	if Cfg.PaytmMerchantKey != "" && len(Cfg.PaytmMerchantKey) != 16 {
		log.Fatal("PAYTM_MERCHANT_KEY must be exactly 16 bytes for AES-128 checksum")
	}

	if Cfg.SalesAPIKey == "" {
		log.Printf("WARN: SALES_API_KEY is not set, sales API calls may be rejected upstream")
	}
}

func (c *Config) GetDSN() string {
	return "host=" + c.PostgreSQLHost +
		" port=" + c.PostgreSQLPort +
		" user=" + c.PostgreSQLUser +
		" password=" + c.PostgreSQLPassword +
		" dbname=" + c.PostgreSQLDatabase +
		" sslmode=" + c.PostgreSQLSSLMode +
		" search_path=" + c.PostgreSQLSchema
}

func (c *Config) GetRabbitMQURL() string {
	return "amqp://" + c.RabbitMQUsername + ":" + c.RabbitMQPassword + "@" + c.RabbitMQAddr + ":" + c.RabbitMQPort + c.RabbitMQVhost
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
