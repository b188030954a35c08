package queue

// DemoRequestSubmittedMessage 演示申请提交成功后的事件，
// worker 侧做 CRM 之外的后续动作（欢迎邮件、分析打点）。
type DemoRequestSubmittedMessage struct {
	Fields      map[string]string `json:"fields"`
	MessageID   string            `json:"message_id"`
	UserID      string            `json:"user_id"`
	PlanID      string            `json:"plan_id"`
	PricingID   string            `json:"pricing_id"`
	SubmittedAt string            `json:"submitted_at"`
	NumUsers    int               `json:"num_users"`
}

// SiteBuildRequestedMessage 建站流提交后投递的建站任务。
// 建站耗时在分钟级，不能挂在提交请求上同步做。
type SiteBuildRequestedMessage struct {
	Fields       map[string]string `json:"fields"`
	MessageID    string            `json:"message_id"`
	UserID       string            `json:"user_id"`
	Domain       string            `json:"domain"`
	SubmittedAt  string            `json:"submitted_at"`
	DelaySeconds int               `json:"delay_seconds"` // 重试时带上退避
	Attempt      int               `json:"attempt"`
}
