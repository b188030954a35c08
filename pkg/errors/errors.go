package errors

func (d Definition) Error() string {
	return d.Message
}

// Definition 表示业务错误码及默认信息。
type Definition struct {
	Code    string
	Message string
}

// 认证相关错误。
var (
	Unauthorized       = Definition{Code: "UNAUTHORIZED", Message: "Unauthorized"}
	AdminLoginFailed   = Definition{Code: "ADMIN_LOGIN_FAILED", Message: "Invalid admin credentials"}
	AdminLoginDisabled = Definition{Code: "ADMIN_LOGIN_DISABLED", Message: "Admin login is not configured"}
	InvalidUserID      = Definition{Code: "INVALID_USER_ID", Message: "Invalid user ID format"}
)

// 向导模块错误。
var (
	WizardFlowUnknown      = Definition{Code: "WIZARD_FLOW_UNKNOWN", Message: "Unknown wizard flow"}
	WizardStepOutOfRange   = Definition{Code: "WIZARD_STEP_OUT_OF_RANGE", Message: "Wizard step out of range"}
	WizardStepNotReachable = Definition{Code: "WIZARD_STEP_NOT_REACHABLE", Message: "Wizard step not reachable yet"}
	WizardValidationFailed = Definition{Code: "WIZARD_VALIDATION_FAILED", Message: "Step validation failed"}
	WizardNavLocked        = Definition{Code: "WIZARD_NAV_LOCKED", Message: "Transition already in flight"}
	WizardBranchIllegal    = Definition{Code: "WIZARD_BRANCH_ILLEGAL", Message: "Branch view not legal at this step"}
	DraftSaveDegraded      = Definition{Code: "DRAFT_SAVE_DEGRADED", Message: "Could not save progress, check connection"}
)

// OTP 验证错误。
var (
	OTPMobileInvalid  = Definition{Code: "OTP_MOBILE_INVALID", Message: "Mobile number must be exactly 10 digits"}
	OTPCodeTooShort   = Definition{Code: "OTP_CODE_TOO_SHORT", Message: "Verification code too short"}
	OTPCooldownActive = Definition{Code: "OTP_COOLDOWN_ACTIVE", Message: "Please wait before requesting another code"}
	OTPNotSent        = Definition{Code: "OTP_NOT_SENT", Message: "No verification code has been sent"}
	OTPSendFailed     = Definition{Code: "OTP_SEND_FAILED", Message: "Could not send verification code"}
	OTPValidateFailed = Definition{Code: "OTP_VALIDATE_FAILED", Message: "Verification code rejected"}
	OTPRateLimited    = Definition{Code: "OTP_RATE_LIMITED", Message: "Daily OTP limit reached"}
)

// 销售/CRM 协作方错误。
var (
	SalesAPIUnavailable   = Definition{Code: "SALES_API_UNAVAILABLE", Message: "Sales service unavailable"}
	ServicesUnavailable   = Definition{Code: "SERVICES_UNAVAILABLE", Message: "Service catalog unavailable"}
	CustomPlanUnavailable = Definition{Code: "CUSTOM_PLAN_UNAVAILABLE", Message: "Custom plan calculation unavailable"}
	SubmissionFailed      = Definition{Code: "SUBMISSION_FAILED", Message: "Could not submit demo request"}
)

// 支付模块错误。
var (
	PaymentNotConfigured   = Definition{Code: "PAYMENT_NOT_CONFIGURED", Message: "Payment gateway not configured"}
	PaymentInitiateFailed  = Definition{Code: "PAYMENT_INITIATE_FAILED", Message: "Could not initiate transaction"}
	PaymentChecksumInvalid = Definition{Code: "PAYMENT_CHECKSUM_INVALID", Message: "Callback checksum verification failed"}
	PaymentOrderNotFound   = Definition{Code: "PAYMENT_ORDER_NOT_FOUND", Message: "Payment order not found"}
	PaymentAmountInvalid   = Definition{Code: "PAYMENT_AMOUNT_INVALID", Message: "Payment amount invalid"}
)

// 博客模块错误。
var (
	BlogPostNotFound     = Definition{Code: "BLOG_POST_NOT_FOUND", Message: "Blog post not found"}
	BlogSlugConflict     = Definition{Code: "BLOG_SLUG_CONFLICT", Message: "Blog slug already in use"}
	BlogCategoryNotFound = Definition{Code: "BLOG_CATEGORY_NOT_FOUND", Message: "Blog category not found"}
)

// 上传模块错误。
var (
	UploadTooLarge    = Definition{Code: "UPLOAD_TOO_LARGE", Message: "File exceeds the upload size limit"}
	UploadTypeInvalid = Definition{Code: "UPLOAD_TYPE_INVALID", Message: "File type not allowed"}
)

// 基础设施错误。
var (
	ErrTokenGeneratorNotInitialized = Definition{Code: "TOKEN_GENERATOR_NOT_INITIALIZED", Message: "Token generator not initialized"}
)

// Lookup 提供错误码查询能力。
var Lookup = map[string]Definition{
	Unauthorized.Code:           Unauthorized,
	AdminLoginFailed.Code:       AdminLoginFailed,
	AdminLoginDisabled.Code:     AdminLoginDisabled,
	InvalidUserID.Code:          InvalidUserID,
	WizardFlowUnknown.Code:      WizardFlowUnknown,
	WizardStepOutOfRange.Code:   WizardStepOutOfRange,
	WizardStepNotReachable.Code: WizardStepNotReachable,
	WizardValidationFailed.Code: WizardValidationFailed,
	WizardNavLocked.Code:        WizardNavLocked,
	WizardBranchIllegal.Code:    WizardBranchIllegal,
	DraftSaveDegraded.Code:      DraftSaveDegraded,
	OTPMobileInvalid.Code:       OTPMobileInvalid,
	OTPCodeTooShort.Code:        OTPCodeTooShort,
	OTPCooldownActive.Code:      OTPCooldownActive,
	OTPNotSent.Code:             OTPNotSent,
	OTPSendFailed.Code:          OTPSendFailed,
	OTPValidateFailed.Code:      OTPValidateFailed,
	OTPRateLimited.Code:         OTPRateLimited,
	SalesAPIUnavailable.Code:    SalesAPIUnavailable,
	ServicesUnavailable.Code:    ServicesUnavailable,
	CustomPlanUnavailable.Code:  CustomPlanUnavailable,
	SubmissionFailed.Code:       SubmissionFailed,
	PaymentNotConfigured.Code:   PaymentNotConfigured,
	PaymentInitiateFailed.Code:  PaymentInitiateFailed,
	PaymentChecksumInvalid.Code: PaymentChecksumInvalid,
	PaymentOrderNotFound.Code:   PaymentOrderNotFound,
	PaymentAmountInvalid.Code:   PaymentAmountInvalid,
	BlogPostNotFound.Code:       BlogPostNotFound,
	BlogSlugConflict.Code:       BlogSlugConflict,
	BlogCategoryNotFound.Code:   BlogCategoryNotFound,
	UploadTooLarge.Code:         UploadTooLarge,
	UploadTypeInvalid.Code:      UploadTypeInvalid,
}

// Get 根据错误码返回 Definition，若不存在则返回空 Definition。
func Get(code string) Definition {
	if def, ok := Lookup[code]; ok {
		return def
	}
	return Definition{Code: code, Message: "Unexpected error"}
}

// Is 同码即同错，WithMessage 的副本仍然匹配原始定义。
func (d Definition) Is(target error) bool {
	t, ok := target.(Definition)
	return ok && t.Code == d.Code
}

// WithMessage 返回替换了 message 的副本，用于透传协作方的原话。
func (d Definition) WithMessage(message string) Definition {
	if message == "" {
		return d
	}
	return Definition{Code: d.Code, Message: message}
}
