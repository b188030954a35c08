package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFields_ClosedSet(t *testing.T) {
	var f Fields

	assert.True(t, f.Set("company_name", "Acme"))
	assert.False(t, f.Set("not_a_field", "x"))

	v, ok := f.Get("company_name")
	require.True(t, ok)
	assert.Equal(t, "Acme", v)

	_, ok = f.Get("not_a_field")
	assert.False(t, ok)
}

func TestFieldsFromMap_DropsUnknownKeys(t *testing.T) {
	f := FieldsFromMap(map[string]string{
		"company_name": "Acme",
		"injected":     "payload",
	})

	assert.Equal(t, "Acme", f.CompanyName)
	assert.True(t, func() bool { _, ok := f.Get("injected"); return !ok }())
}

func TestDraft_IsEmpty(t *testing.T) {
	d := NewDraft()
	assert.True(t, d.IsEmpty())

	d.Fields.Email = "a@b.example"
	assert.False(t, d.IsEmpty())

	d = NewDraft()
	d.Step = 2
	assert.False(t, d.IsEmpty(), "being past step 1 is state even with no fields")
}

func TestDraft_NormalizeClampsStep(t *testing.T) {
	flow := DemoRequestFlow(false)

	d := NewDraft()
	d.Step = 7
	d.Fields.CompanyName = "Acme"
	d.Normalize(flow)
	assert.Equal(t, flow.MaxStep, d.Step)

	d.Step = -3
	d.Normalize(flow)
	assert.Equal(t, 1, d.Step)
}

func TestDraft_NormalizeForcesStepOneWithoutSupportingData(t *testing.T) {
	flow := DemoRequestFlow(false)

	d := NewDraft()
	d.Step = 3
	d.Branch = BranchPricing
	d.Normalize(flow)

	assert.Equal(t, 1, d.Step, "a deep step with no data is a corrupt snapshot")
	assert.Equal(t, BranchNone, d.Branch)
}

func TestDraft_NormalizeDropsIllegalBranch(t *testing.T) {
	flow := DemoRequestFlow(false)

	d := NewDraft()
	d.Step = 1
	d.Branch = BranchCustomPlan // 只在第 2 步合法
	d.BranchPlanID = "gold"
	d.Fields.CompanyName = "Acme"
	d.Normalize(flow)

	assert.Equal(t, BranchNone, d.Branch)
	assert.Empty(t, d.BranchPlanID)
}

func TestDraft_NormalizeClearsStaleVerify(t *testing.T) {
	flow := DemoRequestFlow(false)

	d := NewDraft()
	d.Fields.Mobile = "9876543211"
	d.Verify.Value = "9876543210" // 验证的是旧号码
	d.Normalize(flow)

	assert.Empty(t, d.Verify.Value)
	assert.False(t, d.MobileVerified())
}

func TestDraft_QueryRoundTrip(t *testing.T) {
	d := NewDraft()
	d.Step = 2
	d.Branch = BranchCustomPricing
	d.BranchPlanID = "plat-7"
	d.Fields.CompanyName = "Acme"

	q := d.EncodeQuery()
	step, branch, planID, ok := StateFromQuery(q)
	require.True(t, ok)
	assert.Equal(t, 2, step)
	assert.Equal(t, BranchCustomPricing, branch)
	assert.Equal(t, "plat-7", planID)
}

func TestDraft_EmptyDraftEncodesEmptyQuery(t *testing.T) {
	d := NewDraft()
	assert.Equal(t, "", d.EncodeQuery())
}

func TestStateFromQuery_Garbage(t *testing.T) {
	_, _, _, ok := StateFromQuery("step=banana")
	assert.False(t, ok)

	_, _, _, ok = StateFromQuery("step=0")
	assert.False(t, ok)

	_, _, _, ok = StateFromQuery("%zz")
	assert.False(t, ok)
}

func TestDraft_NormalizeTracksHighestReachedStep(t *testing.T) {
	flow := DemoRequestFlow(false)

	d := NewDraft()
	assert.Equal(t, 1, d.MaxReached)

	d.Step = 2
	d.Fields.CompanyName = "Acme"
	d.Normalize(flow)
	assert.Equal(t, 2, d.MaxReached)

	// 退回第一步不丢失已到达的上限
	d.Step = 1
	d.Normalize(flow)
	assert.Equal(t, 2, d.MaxReached)

	// 支撑数据全空的深步号是坏快照，上限一并归零
	d = NewDraft()
	d.Step = 3
	d.MaxReached = 3
	d.Normalize(flow)
	assert.Equal(t, 1, d.Step)
	assert.Equal(t, 1, d.MaxReached)
}

func TestUnmarshalDraft_BackfillsMaxReached(t *testing.T) {
	// 老格式里没有 max_reached，按当前步号回填
	d, err := UnmarshalDraft([]byte(`{"step":2,"fields":{"company_name":"Acme"}}`))
	require.NoError(t, err)
	assert.Equal(t, 2, d.MaxReached)
}

func TestMarshalDraft_RoundTrip(t *testing.T) {
	d := NewDraft()
	d.Step = 2
	d.MaxReached = 2
	d.Branch = BranchPricing
	d.Fields.CompanyName = "Acme"
	d.Verify.Value = "9876543210"

	data, err := MarshalDraft(&d)
	require.NoError(t, err)

	got, err := UnmarshalDraft(data)
	require.NoError(t, err)
	assert.True(t, d.Equal(got))
	assert.Equal(t, "9876543210", got.Verify.Value)
}
