package wizard

// StepRule 单步校验器：纯函数，返回 字段名 -> 人类可读错误。
// 返回空 map 或 nil 表示通过。
type StepRule func(d *Draft) ValidationErrors

// ValidationErrors 按字段名收敛的校验错误。
type ValidationErrors map[string]string

func (e ValidationErrors) OK() bool {
	return len(e) == 0
}

// Flow 一条向导流程的静态定义。
type Flow struct {
	Name    string
	MaxStep int
	// Rules[step] 是离开该步（advance）前必须通过的校验
	Rules map[int]StepRule
	// branchSteps[branch] 列出该分支视图合法的步号
	branchSteps map[Branch][]int
	// RequireMobileVerify 第一步是否强制 OTP 验证通过。
	// 产品侧反复横跳过，保持可配置。
	RequireMobileVerify bool
}

// BranchLegalAt 分支视图只在登记过的步号上合法。
func (f *Flow) BranchLegalAt(branch Branch, step int) bool {
	if branch == BranchNone {
		return true
	}
	for _, s := range f.branchSteps[branch] {
		if s == step {
			return true
		}
	}
	return false
}

// RuleFor 没有登记规则的步默认放行。
func (f *Flow) RuleFor(step int) StepRule {
	if rule, ok := f.Rules[step]; ok {
		return rule
	}
	return func(*Draft) ValidationErrors { return nil }
}

// DemoRequestFlow 演示申请流：
//
//	1 联系人信息 → 2 套餐选择（custom-plan / pricing 分支）→ 3 确认与支付（custom-pricing 分支）
func DemoRequestFlow(requireMobileVerify bool) *Flow {
	f := &Flow{
		Name:    "demo-request",
		MaxStep: 3,
		branchSteps: map[Branch][]int{
			BranchCustomPlan:    {2},
			BranchPricing:       {2, 3},
			BranchCustomPricing: {2, 3},
		},
		RequireMobileVerify: requireMobileVerify,
	}

	f.Rules = map[int]StepRule{
		1: func(d *Draft) ValidationErrors {
			errs := validateContactStep(&d.Fields)
			// OTP 验证门：验证值必须与当前输入的手机号一致
			if f.RequireMobileVerify && len(errs) == 0 && !d.MobileVerified() {
				errs["mobile"] = "Mobile number is not verified"
			}
			return errs
		},
		2: validatePlanStep,
		3: validateConfirmStep,
	}

	return f
}

// SiteBuilderFlow 自动建站流：1 域名 → 2 行业 → 3 公司信息 → 4 内容。
func SiteBuilderFlow() *Flow {
	f := &Flow{
		Name:        "site-builder",
		MaxStep:     4,
		branchSteps: map[Branch][]int{},
	}

	f.Rules = map[int]StepRule{
		1: validateDomainStep,
		2: validateSectorStep,
		3: validateCompanyDetailsStep,
		4: validateContentStep,
	}

	return f
}

// FlowByName 路由层按名称取流程定义。
func FlowByName(name string, requireMobileVerify bool) (*Flow, bool) {
	switch name {
	case "demo-request":
		return DemoRequestFlow(requireMobileVerify), true
	case "site-builder":
		return SiteBuilderFlow(), true
	default:
		return nil, false
	}
}
