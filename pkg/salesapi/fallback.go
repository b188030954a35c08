package salesapi

import pkgerrors "DemoPilot/pkg/errors"

var errOTPMismatch = pkgerrors.OTPValidateFailed

// 上游不可用时的固定套餐快照。向导的套餐步不能因为协作方故障而空白。
// 价格以 paise 计。
var fallbackPlans = []Plan{
	{
		ID: "silver", Name: "Silver", MinUsers: 1, MaxUsers: 25, TrialDays: 7,
		Pricing: []PlanPricing{
			{ID: "silver-m", Duration: "monthly", PricePaise: 49900},
			{ID: "silver-q", Duration: "quarterly", PricePaise: 134700, DiscountPct: 10},
			{ID: "silver-h", Duration: "half_yearly", PricePaise: 254400, DiscountPct: 15},
			{ID: "silver-y", Duration: "yearly", PricePaise: 479000, DiscountPct: 20},
		},
	},
	{
		ID: "gold", Name: "Gold", MinUsers: 5, MaxUsers: 100, TrialDays: 14,
		Pricing: []PlanPricing{
			{ID: "gold-m", Duration: "monthly", PricePaise: 99900},
			{ID: "gold-q", Duration: "quarterly", PricePaise: 269700, DiscountPct: 10},
			{ID: "gold-h", Duration: "half_yearly", PricePaise: 509400, DiscountPct: 15},
			{ID: "gold-y", Duration: "yearly", PricePaise: 959000, DiscountPct: 20},
		},
	},
	{
		ID: "platinum", Name: "Platinum", MinUsers: 25, MaxUsers: 500, TrialDays: 30,
		Pricing: []PlanPricing{
			{ID: "platinum-m", Duration: "monthly", PricePaise: 199900},
			{ID: "platinum-q", Duration: "quarterly", PricePaise: 539700, DiscountPct: 10},
			{ID: "platinum-h", Duration: "half_yearly", PricePaise: 1019400, DiscountPct: 15},
			{ID: "platinum-y", Duration: "yearly", PricePaise: 1919000, DiscountPct: 20},
		},
	},
}

// FallbackPlans 返回快照副本，application_type 标注在返回值上。
func FallbackPlans(applicationType string) []Plan {
	plans := make([]Plan, len(fallbackPlans))
	copy(plans, fallbackPlans)
	for i := range plans {
		plans[i].ApplicationType = applicationType
	}
	return plans
}

// DeriveCustomPlanPricing 按固定折扣表从 每用户每天 单价推导各周期报价。
// 月付无折扣，季付 9 折，半年付 85 折，年付 8 折；按 30 天/月计。
func DeriveCustomPlanPricing(perUserPerDayPaise int64) *CustomPlanPricing {
	monthly := perUserPerDayPaise * 30
	return &CustomPlanPricing{
		MonthlyPaise:    monthly,
		QuarterlyPaise:  monthly * 3 * 90 / 100,
		HalfYearlyPaise: monthly * 6 * 85 / 100,
		YearlyPaise:     monthly * 12 * 80 / 100,
	}
}
