package response

import (
	"context"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"

	"DemoPilot/pkg/errors"
)

// ErrorResponse 统一的错误响应格式
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Details map[string]interface{} `json:"details,omitempty"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
}

// SuccessResponse 统一的成功响应格式
type SuccessResponse struct {
	Data interface{}            `json:"data"`
	Meta map[string]interface{} `json:"meta,omitempty"`
}

func errorToHTTPStatus(err error) int {
	def, ok := err.(errors.Definition)
	if !ok {
		return http.StatusInternalServerError
	}

	// 根据错误码映射 HTTP 状态码
	switch def.Code {
	case "OTP_COOLDOWN_ACTIVE", "OTP_RATE_LIMITED":
		return http.StatusTooManyRequests // 429
	case "WIZARD_STEP_OUT_OF_RANGE", "WIZARD_STEP_NOT_REACHABLE",
		"WIZARD_VALIDATION_FAILED", "WIZARD_BRANCH_ILLEGAL",
		"WIZARD_NAV_LOCKED", "OTP_MOBILE_INVALID", "OTP_CODE_TOO_SHORT",
		"OTP_NOT_SENT", "OTP_VALIDATE_FAILED", "PAYMENT_AMOUNT_INVALID",
		"PAYMENT_CHECKSUM_INVALID", "BLOG_SLUG_CONFLICT",
		"UPLOAD_TOO_LARGE", "UPLOAD_TYPE_INVALID", "INVALID_REQUEST":
		return http.StatusBadRequest // 400
	case "UNAUTHORIZED", "ADMIN_LOGIN_FAILED":
		return http.StatusUnauthorized // 401
	case "ADMIN_LOGIN_DISABLED":
		return http.StatusForbidden // 403
	case "WIZARD_FLOW_UNKNOWN", "BLOG_POST_NOT_FOUND",
		"BLOG_CATEGORY_NOT_FOUND", "PAYMENT_ORDER_NOT_FOUND":
		return http.StatusNotFound // 404
	case "SALES_API_UNAVAILABLE", "SERVICES_UNAVAILABLE",
		"CUSTOM_PLAN_UNAVAILABLE", "OTP_SEND_FAILED",
		"SUBMISSION_FAILED", "PAYMENT_INITIATE_FAILED",
		"PAYMENT_NOT_CONFIGURED":
		return http.StatusBadGateway // 502
	default:
		return http.StatusInternalServerError // 500
	}
}

// Error 返回错误响应
func Error(ctx context.Context, c *app.RequestContext, err error) {
	statusCode := errorToHTTPStatus(err)

	var code, message string
	var details map[string]interface{}

	if def, ok := err.(errors.Definition); ok {
		code = def.Code
		message = def.Message
	} else {
		code = "INTERNAL_ERROR"
		message = err.Error()
	}

	c.JSON(statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func ErrorWithDetails(ctx context.Context, c *app.RequestContext, err error, details map[string]interface{}) {
	statusCode := errorToHTTPStatus(err)

	var code, message string
	if def, ok := err.(errors.Definition); ok {
		code = def.Code
		message = def.Message
	} else {
		code = "INTERNAL_ERROR"
		message = err.Error()
	}

	c.JSON(statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func Success(ctx context.Context, c *app.RequestContext, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Data: data,
	})
}

func SuccessWithMeta(ctx context.Context, c *app.RequestContext, data interface{}, meta map[string]interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Data: data,
		Meta: meta,
	})
}

func BindError(ctx context.Context, c *app.RequestContext, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{
			Code:    "INVALID_REQUEST",
			Message: err.Error(),
		},
	})
}

// NoContent 返回 204 No Content（用于 DELETE 等操作）
func NoContent(ctx context.Context, c *app.RequestContext) {
	c.Status(http.StatusNoContent)
}
