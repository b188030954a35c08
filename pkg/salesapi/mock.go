package salesapi

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"DemoPilot/pkg/logger"
)

// MockClient 开发环境用的本地实现：OTP 固定 1234，目录/定价走快照。
type MockClient struct {
	mu   sync.Mutex
	sent map[string]string
}

func NewMockClient() *MockClient {
	return &MockClient{sent: make(map[string]string)}
}

func (m *MockClient) SendOTP(ctx context.Context, mobile string) error {
	m.mu.Lock()
	m.sent[mobile] = "1234"
	m.mu.Unlock()

	logger.Logger.Info("[MOCK] OTP sent", zap.String("mobile", mobile))
	return nil
}

func (m *MockClient) ValidateOTP(ctx context.Context, mobile, code string) error {
	m.mu.Lock()
	expected, ok := m.sent[mobile]
	m.mu.Unlock()

	if !ok || code != expected {
		return errOTPMismatch
	}
	return nil
}

func (m *MockClient) GetPlans(ctx context.Context, applicationType string) ([]Plan, error) {
	return FallbackPlans(applicationType), nil
}

func (m *MockClient) GetServices(ctx context.Context, applicationType string) ([]ServiceItem, error) {
	return []ServiceItem{
		{ID: "svc-crm", Name: "CRM", Description: "Lead and pipeline management", PerUserPerDayPaise: 500},
		{ID: "svc-hrm", Name: "HRM", Description: "Attendance and payroll", PerUserPerDayPaise: 400},
		{ID: "svc-inventory", Name: "Inventory", Description: "Stock tracking", PerUserPerDayPaise: 300},
	}, nil
}

func (m *MockClient) CalculateCustomPlan(ctx context.Context, serviceIDs []string, applicationType string) (*CustomPlanPricing, error) {
	services, _ := m.GetServices(ctx, applicationType)
	perDay := int64(0)
	for _, id := range serviceIDs {
		for _, svc := range services {
			if svc.ID == id {
				perDay += svc.PerUserPerDayPaise
			}
		}
	}
	return DeriveCustomPlanPricing(perDay), nil
}

func (m *MockClient) SubmitDemoRequest(ctx context.Context, input SubmitDemoRequestInput) (string, error) {
	logger.Logger.Info("[MOCK] Demo request submitted",
		zap.String("plan_id", input.PlanID),
		zap.Int("num_users", input.NumUsers),
	)
	return "Demo request received", nil
}
