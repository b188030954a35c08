package salesapi

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "DemoPilot/pkg/errors"
)

func TestFallbackPlans_SnapshotShape(t *testing.T) {
	plans := FallbackPlans("crm")

	require.Len(t, plans, 3)
	for _, p := range plans {
		assert.Equal(t, "crm", p.ApplicationType)
		assert.Len(t, p.Pricing, 4, "every plan carries all four tenures")
	}

	// 返回的是副本，调用方改动不能污染快照
	plans[0].Name = "mutated"
	again := FallbackPlans("crm")
	assert.Equal(t, "Silver", again[0].Name)
}

func TestFallbackPlans_YearlyDiscounted(t *testing.T) {
	plans := FallbackPlans("crm")

	for _, p := range plans {
		var monthly, yearly int64
		for _, pr := range p.Pricing {
			switch pr.Duration {
			case "monthly":
				monthly = pr.PricePaise
			case "yearly":
				yearly = pr.PricePaise
				assert.Equal(t, 20, pr.DiscountPct)
			}
		}
		assert.Less(t, yearly, monthly*12, "yearly must beat 12x monthly for plan %s", p.ID)
	}
}

func TestDeriveCustomPlanPricing(t *testing.T) {
	p := DeriveCustomPlanPricing(100) // 100 paise 每用户每天

	assert.Equal(t, int64(3000), p.MonthlyPaise)
	assert.Equal(t, int64(8100), p.QuarterlyPaise)   // 3 个月 9 折
	assert.Equal(t, int64(15300), p.HalfYearlyPaise) // 6 个月 85 折
	assert.Equal(t, int64(28800), p.YearlyPaise)     // 12 个月 8 折
}

func TestMockClient_OTPFlow(t *testing.T) {
	ctx := context.Background()
	m := NewMockClient()

	err := m.ValidateOTP(ctx, "9876543210", "1234")
	assert.ErrorIs(t, err, pkgerrors.OTPValidateFailed, "validate before send must fail")

	require.NoError(t, m.SendOTP(ctx, "9876543210"))

	assert.Error(t, m.ValidateOTP(ctx, "9876543210", "0000"))
	assert.NoError(t, m.ValidateOTP(ctx, "9876543210", "1234"))
}

func TestMockClient_CustomPlanSumsSelectedServices(t *testing.T) {
	ctx := context.Background()
	m := NewMockClient()

	p, err := m.CalculateCustomPlan(ctx, []string{"svc-crm", "svc-inventory"}, "crm")
	require.NoError(t, err)

	// 500 + 300 paise/用户/天 → 月付 24000
	assert.Equal(t, int64(24000), p.MonthlyPaise)

	unknown, err := m.CalculateCustomPlan(ctx, []string{"svc-nope"}, "crm")
	require.NoError(t, err)
	assert.Equal(t, int64(0), unknown.MonthlyPaise)
}
