package salesapi

// PlanPricing 一个订阅时长档位的价格。
type PlanPricing struct {
	ID          string `json:"id"`
	Duration    string `json:"duration"` // monthly, quarterly, half_yearly, yearly
	PricePaise  int64  `json:"price_paise"`
	DiscountPct int    `json:"discount_pct"`
}

// Plan 上游销售系统的套餐定义。
type Plan struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	ApplicationType string        `json:"application_type"`
	MinUsers        int           `json:"min_users"`
	MaxUsers        int           `json:"max_users"`
	TrialDays       int           `json:"trial_days"`
	Pricing         []PlanPricing `json:"pricing"`
}

// ServiceItem 可加购的服务条目，按用户按天计价。
type ServiceItem struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Description        string `json:"description"`
	PerUserPerDayPaise int64  `json:"per_user_per_day_paise"`
}

// CustomPlanPricing 自选服务组合的派生定价，长周期享固定折扣。
type CustomPlanPricing struct {
	MonthlyPaise    int64 `json:"monthly_paise"`
	QuarterlyPaise  int64 `json:"quarterly_paise"`
	HalfYearlyPaise int64 `json:"half_yearly_paise"`
	YearlyPaise     int64 `json:"yearly_paise"`
}

// SubmitDemoRequestInput 终态提交载荷。
type SubmitDemoRequestInput struct {
	Fields    map[string]string `json:"fields"`
	PlanID    string            `json:"plan_id"`
	PricingID string            `json:"pricing_id"`
	NumUsers  int               `json:"num_users"`
}

// 上游统一的 {ok, message} 响应壳。
type apiEnvelope struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}
