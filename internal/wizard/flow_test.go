package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDemoStepOne() Draft {
	d := NewDraft()
	d.Fields.CompanyName = "Acme Corp"
	d.Fields.CompanyTitle = "Pvt Ltd"
	d.Fields.ContactPerName = "Ravi Kumar"
	d.Fields.Address = "12 MG Road"
	d.Fields.Email = "ravi@acme.example"
	d.Fields.Mobile = "9876543210"
	return d
}

func TestFlowByName(t *testing.T) {
	f, ok := FlowByName("demo-request", false)
	require.True(t, ok)
	assert.Equal(t, 3, f.MaxStep)

	f, ok = FlowByName("site-builder", false)
	require.True(t, ok)
	assert.Equal(t, 4, f.MaxStep)

	_, ok = FlowByName("no-such-flow", false)
	assert.False(t, ok)
}

func TestDemoFlow_ContactStepValidation(t *testing.T) {
	flow := DemoRequestFlow(false)

	d := validDemoStepOne()
	assert.True(t, flow.RuleFor(1)(&d).OK())

	d.Fields.Email = "not-an-email"
	errs := flow.RuleFor(1)(&d)
	assert.Contains(t, errs, "email")

	d = validDemoStepOne()
	d.Fields.Mobile = "98765"
	errs = flow.RuleFor(1)(&d)
	assert.Contains(t, errs, "mobile")

	d = validDemoStepOne()
	d.Fields.Website = "acme.example" // 缺 scheme
	errs = flow.RuleFor(1)(&d)
	assert.Contains(t, errs, "website")

	d = validDemoStepOne()
	d.Fields.Website = "https://acme.example"
	assert.True(t, flow.RuleFor(1)(&d).OK())
}

func TestDemoFlow_MobileVerifyGate(t *testing.T) {
	flow := DemoRequestFlow(true)

	d := validDemoStepOne()
	errs := flow.RuleFor(1)(&d)
	assert.Contains(t, errs, "mobile", "unverified mobile must block when the gate is on")

	d.Verify.Value = d.Fields.Mobile
	assert.True(t, flow.RuleFor(1)(&d).OK())

	// 门关着时不管验证状态
	off := DemoRequestFlow(false)
	d = validDemoStepOne()
	assert.True(t, off.RuleFor(1)(&d).OK())
}

func TestDemoFlow_PlanStepBranches(t *testing.T) {
	flow := DemoRequestFlow(false)

	// 标准路径：要套餐和时长
	d := validDemoStepOne()
	d.Step = 2
	errs := flow.RuleFor(2)(&d)
	assert.Contains(t, errs, "plan_id")
	assert.Contains(t, errs, "tenure")

	d.Fields.PlanID = "gold"
	d.Fields.Tenure = "yearly"
	assert.True(t, flow.RuleFor(2)(&d).OK())

	// 自选分支：只要求选了服务
	d = validDemoStepOne()
	d.Step = 2
	d.Branch = BranchCustomPlan
	errs = flow.RuleFor(2)(&d)
	assert.Contains(t, errs, "service_ids")
	assert.NotContains(t, errs, "plan_id")

	d.Fields.ServiceIDs = "svc-1,svc-4"
	assert.True(t, flow.RuleFor(2)(&d).OK())

	// 离开自选视图后 Branch 会被清掉，按已勾选的服务识别自选路径
	d = validDemoStepOne()
	d.Step = 2
	d.Fields.ServiceIDs = "svc-1"
	errs = flow.RuleFor(2)(&d)
	assert.True(t, errs.OK())
	assert.NotContains(t, errs, "plan_id")
}

func TestDemoFlow_ConfirmStep(t *testing.T) {
	flow := DemoRequestFlow(false)

	d := validDemoStepOne()
	d.Step = 3
	errs := flow.RuleFor(3)(&d)
	assert.Contains(t, errs, "pricing_id")
	assert.Contains(t, errs, "num_users")

	d.Fields.PricingID = "gold-yearly"
	d.Fields.NumUsers = "0"
	errs = flow.RuleFor(3)(&d)
	assert.Contains(t, errs, "num_users")

	d.Fields.NumUsers = "abc"
	errs = flow.RuleFor(3)(&d)
	assert.Contains(t, errs, "num_users")

	d.Fields.NumUsers = "25"
	assert.True(t, flow.RuleFor(3)(&d).OK())

	// 自定义报价分支不要求 pricing_id
	d = validDemoStepOne()
	d.Step = 3
	d.Branch = BranchCustomPricing
	d.Fields.NumUsers = "25"
	assert.True(t, flow.RuleFor(3)(&d).OK())
}

func TestSiteBuilderFlow_Steps(t *testing.T) {
	flow := SiteBuilderFlow()

	d := NewDraft()
	errs := flow.RuleFor(1)(&d)
	assert.Contains(t, errs, "domain")

	d.Fields.Domain = "no-dot"
	errs = flow.RuleFor(1)(&d)
	assert.Contains(t, errs, "domain")

	d.Fields.Domain = "acme.example"
	assert.True(t, flow.RuleFor(1)(&d).OK())

	errs = flow.RuleFor(2)(&d)
	assert.Contains(t, errs, "business_sector")
	d.Fields.BusinessSector = "retail"
	assert.True(t, flow.RuleFor(2)(&d).OK())

	errs = flow.RuleFor(3)(&d)
	assert.Contains(t, errs, "company_name")
	assert.Contains(t, errs, "company_details")
	d.Fields.CompanyName = "Acme"
	d.Fields.CompanyDetails = "We sell widgets"
	assert.True(t, flow.RuleFor(3)(&d).OK())

	errs = flow.RuleFor(4)(&d)
	assert.Contains(t, errs, "content_brief")
	d.Fields.ContentBrief = "Homepage, about, contact"
	assert.True(t, flow.RuleFor(4)(&d).OK())
}

func TestFlow_BranchLegality(t *testing.T) {
	flow := DemoRequestFlow(false)

	assert.True(t, flow.BranchLegalAt(BranchNone, 1))
	assert.False(t, flow.BranchLegalAt(BranchCustomPlan, 1))
	assert.True(t, flow.BranchLegalAt(BranchCustomPlan, 2))
	assert.False(t, flow.BranchLegalAt(BranchCustomPlan, 3))
	assert.True(t, flow.BranchLegalAt(BranchPricing, 3))
	assert.True(t, flow.BranchLegalAt(BranchCustomPricing, 2))

	sb := SiteBuilderFlow()
	assert.False(t, sb.BranchLegalAt(BranchPricing, 2), "site builder has no branch views")
}

func TestFlow_RuleForUnregisteredStepPasses(t *testing.T) {
	flow := &Flow{Name: "bare", MaxStep: 2}
	d := NewDraft()
	assert.True(t, flow.RuleFor(2)(&d).OK())
}
