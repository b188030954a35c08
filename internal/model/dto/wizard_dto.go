package dto

// DraftView 草稿的对外快照，与 URL 状态编码保持一致。
type DraftView struct {
	Step         int               `json:"step"`
	Branch       string            `json:"branch,omitempty"`
	BranchPlanID string            `json:"branch_plan_id,omitempty"`
	Fields       map[string]string `json:"fields"`
	Verified     bool              `json:"verified"`
	Query        string            `json:"query"` // history/URL 同步用的编码串
}

// SaveDraftRequest 写穿草稿。空草稿等价于 DELETE。
type SaveDraftRequest struct {
	Step         int               `json:"step"`
	Branch       string            `json:"branch"`
	BranchPlanID string            `json:"branch_plan_id"`
	Fields       map[string]string `json:"fields"`
}

// AdvanceRequest 显式步进，带校验门。
type AdvanceRequest struct {
	TargetStep   int               `json:"target_step"`
	Branch       string            `json:"branch"`
	BranchPlanID string            `json:"branch_plan_id"`
	Fields       map[string]string `json:"fields"` // 当前表单值随请求带上
}

// AdvanceResponse 步进结果；校验失败时 Errors 按字段给出。
type AdvanceResponse struct {
	Draft       DraftView         `json:"draft"`
	Errors      map[string]string `json:"errors,omitempty"`
	SaveWarning string            `json:"save_warning,omitempty"` // 服务端保存降级时的软提示
}

// ReconcileRequest 浏览器导航事件回放（popstate / focus / tick）。
type ReconcileRequest struct {
	Event        string `json:"event"` // popstate, focus, tick
	Step         int    `json:"step,omitempty"`
	Branch       string `json:"branch,omitempty"`
	BranchPlanID string `json:"branch_plan_id,omitempty"`
	Query        string `json:"query,omitempty"` // popstate 无携带状态时回退解析 URL
}

// SendOTPRequest / ValidateOTPRequest OTP 中继。
type SendOTPRequest struct {
	Mobile string `json:"mobile"`
}

type ValidateOTPRequest struct {
	Mobile string `json:"mobile"`
	Code   string `json:"code"`
}

type OTPStateView struct {
	State           string `json:"state"` // NONE, SENT, VERIFIED
	VerifiedValue   string `json:"verified_value,omitempty"`
	CooldownSeconds int    `json:"cooldown_seconds"`
}

// SubmitRequest 终态提交。
type SubmitRequest struct {
	Fields    map[string]string `json:"fields"`
	PlanID    string            `json:"plan_id"`
	PricingID string            `json:"pricing_id"`
	NumUsers  int               `json:"num_users"`
}

type SubmitResponse struct {
	Message string `json:"message"`
}

// CustomPlanRequest 自选服务组合询价。
type CustomPlanRequest struct {
	ServiceIDs      []string `json:"service_ids"`
	ApplicationType string   `json:"application_type"`
}
