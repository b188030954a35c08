package wizard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "DemoPilot/pkg/errors"
	"DemoPilot/pkg/salesapi"
)

// mockCollab 可注入失败的协作方
type mockCollab struct {
	mu          sync.Mutex
	sendErr     error
	validateErr error
	submitErr   error
	sentTo      []string
	submitted   []salesapi.SubmitDemoRequestInput
}

func (m *mockCollab) SendOTP(ctx context.Context, mobile string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sentTo = append(m.sentTo, mobile)
	return nil
}

func (m *mockCollab) ValidateOTP(ctx context.Context, mobile, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.validateErr
}

func (m *mockCollab) SubmitDemoRequest(ctx context.Context, input salesapi.SubmitDemoRequestInput) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.submitErr != nil {
		return "", m.submitErr
	}
	m.submitted = append(m.submitted, input)
	return "Thank you! Our team will contact you shortly.", nil
}

// countingStore 记录写入与清除次数
type countingStore struct {
	*MemoryStore
	mu     sync.Mutex
	saves  int
	clears int
}

func newCountingStore() *countingStore {
	return &countingStore{MemoryStore: NewMemoryStore()}
}

func (s *countingStore) Save(ctx context.Context, d *Draft) error {
	s.mu.Lock()
	s.saves++
	s.mu.Unlock()
	return s.MemoryStore.Save(ctx, d)
}

func (s *countingStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.clears++
	s.mu.Unlock()
	return s.MemoryStore.Clear(ctx)
}

func (s *countingStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func testOptions() Options {
	return Options{
		Debounce:         30 * time.Millisecond,
		NavLock:          time.Nanosecond, // 测试里不挡连续转场
		ResetGrace:       50 * time.Millisecond,
		ConsistencyEvery: time.Hour,
		OTPCooldown:      30 * time.Second,
	}
}

func fillContactStep(s *Session) {
	_ = s.SetField("company_name", "Acme Corp")
	_ = s.SetField("company_title", "Pvt Ltd")
	_ = s.SetField("contact_per_name", "Ravi Kumar")
	_ = s.SetField("address", "12 MG Road, Bengaluru")
	_ = s.SetField("email", "ravi@acme.example")
	_ = s.SetField("mobile", "9876543210")
}

func TestInitialize_ServerWinsOverLocal(t *testing.T) {
	ctx := context.Background()
	local, server := NewMemoryStore(), NewMemoryStore()

	stale := NewDraft()
	stale.Fields.CompanyName = "Stale Co"
	require.NoError(t, local.Save(ctx, &stale))

	authoritative := NewDraft()
	authoritative.Step = 2
	authoritative.Fields.CompanyName = "Fresh Co"
	authoritative.Fields.Email = "fresh@co.example"
	require.NoError(t, server.Save(ctx, &authoritative))

	s := NewSession(DemoRequestFlow(false), local, server, &mockCollab{}, testOptions())
	defer s.Close()
	s.Initialize(ctx)

	d := s.Draft()
	assert.Equal(t, 2, d.Step)
	assert.Equal(t, "Fresh Co", d.Fields.CompanyName)

	// 本地副本被服务端值覆盖
	ld, found, err := local.Load(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Fresh Co", ld.Fields.CompanyName)
}

func TestInitialize_LocalPromotedWhenServerEmpty(t *testing.T) {
	ctx := context.Background()
	local, server := NewMemoryStore(), NewMemoryStore()

	anon := NewDraft()
	anon.Fields.CompanyName = "Drafted Anonymously"
	require.NoError(t, local.Save(ctx, &anon))

	s := NewSession(DemoRequestFlow(false), local, server, &mockCollab{}, testOptions())
	defer s.Close()
	s.Initialize(ctx)

	assert.Equal(t, "Drafted Anonymously", s.Draft().Fields.CompanyName)

	sd, found, err := server.Load(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Drafted Anonymously", sd.Fields.CompanyName)
}

func TestInitialize_ReloadIsIdempotent(t *testing.T) {
	ctx := context.Background()
	local, server := NewMemoryStore(), NewMemoryStore()

	s1 := NewSession(DemoRequestFlow(false), local, server, &mockCollab{}, testOptions())
	s1.Initialize(ctx)
	fillContactStep(s1)
	_, err := s1.Advance(ctx, 2, BranchNone, "")
	require.NoError(t, err)
	first := s1.Draft()
	s1.Close()

	// 连续两次重建会话，结果必须一致
	for i := 0; i < 2; i++ {
		s := NewSession(DemoRequestFlow(false), local, server, &mockCollab{}, testOptions())
		s.Initialize(ctx)
		d := s.Draft()
		assert.True(t, first.Equal(&d), "reload %d diverged", i)
		s.Close()
	}
}

func TestAdvance_NoStepSkipping(t *testing.T) {
	ctx := context.Background()
	local := newCountingStore()

	s := NewSession(DemoRequestFlow(false), local, nil, &mockCollab{}, testOptions())
	defer s.Close()
	s.Initialize(ctx)
	fillContactStep(s)
	time.Sleep(60 * time.Millisecond) // 等去抖落盘，隔离后续计数
	baseline := local.saveCount()

	_, err := s.Advance(ctx, 3, BranchNone, "")
	assert.ErrorIs(t, err, pkgerrors.WizardStepNotReachable)
	assert.Equal(t, 1, s.Draft().Step)
	assert.Equal(t, baseline, local.saveCount(), "rejected transition must not touch storage")
}

func TestAdvance_OutOfRangeRejected(t *testing.T) {
	ctx := context.Background()
	s := NewSession(DemoRequestFlow(false), NewMemoryStore(), nil, &mockCollab{}, testOptions())
	defer s.Close()
	s.Initialize(ctx)

	_, err := s.Advance(ctx, 0, BranchNone, "")
	assert.ErrorIs(t, err, pkgerrors.WizardStepOutOfRange)

	_, err = s.Advance(ctx, 4, BranchNone, "")
	assert.ErrorIs(t, err, pkgerrors.WizardStepOutOfRange)
}

func TestAdvance_ValidationFailureLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	local := newCountingStore()

	s := NewSession(DemoRequestFlow(false), local, nil, &mockCollab{}, testOptions())
	defer s.Close()
	s.Initialize(ctx)
	_ = s.SetField("company_name", "Acme Corp") // 只有一个字段，第一步校验必挂
	time.Sleep(60 * time.Millisecond)
	baseline := local.saveCount()

	errs, err := s.Advance(ctx, 2, BranchNone, "")
	assert.ErrorIs(t, err, pkgerrors.WizardValidationFailed)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "mobile")

	assert.Equal(t, 1, s.Draft().Step)
	assert.Equal(t, baseline, local.saveCount())
}

func TestAdvance_NavLockDropsReentrantTransition(t *testing.T) {
	ctx := context.Background()
	opts := testOptions()
	opts.NavLock = time.Hour

	s := NewSession(DemoRequestFlow(false), NewMemoryStore(), nil, &mockCollab{}, opts)
	defer s.Close()
	s.Initialize(ctx)
	fillContactStep(s)

	_, err := s.Advance(ctx, 2, BranchNone, "")
	require.NoError(t, err)

	// 转场动画还没结束，重入的转换直接丢弃
	_, err = s.Advance(ctx, 3, BranchNone, "")
	assert.ErrorIs(t, err, pkgerrors.WizardNavLocked)
	assert.ErrorIs(t, s.Retreat(ctx), pkgerrors.WizardNavLocked)
	assert.Equal(t, 2, s.Draft().Step)
}

func TestAdvance_BranchLegality(t *testing.T) {
	ctx := context.Background()
	s := NewSession(DemoRequestFlow(false), NewMemoryStore(), nil, &mockCollab{}, testOptions())
	defer s.Close()
	s.Initialize(ctx)
	fillContactStep(s)

	_, err := s.Advance(ctx, 1, BranchCustomPlan, "")
	assert.ErrorIs(t, err, pkgerrors.WizardBranchIllegal)

	_, err = s.Advance(ctx, 2, BranchCustomPlan, "")
	require.NoError(t, err)

	d := s.Draft()
	assert.Equal(t, 2, d.Step)
	assert.Equal(t, BranchCustomPlan, d.Branch)
}

func TestSetField_DebounceCoalescesWrites(t *testing.T) {
	ctx := context.Background()
	local := newCountingStore()

	s := NewSession(DemoRequestFlow(false), local, nil, &mockCollab{}, testOptions())
	defer s.Close()
	s.Initialize(ctx)

	for _, v := range []string{"A", "Ac", "Acm", "Acme", "Acme Corp"} {
		require.NoError(t, s.SetField("company_name", v))
	}
	assert.Equal(t, 0, local.saveCount(), "no write inside the debounce window")

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 1, local.saveCount(), "burst of edits must collapse into one write")

	d, found, err := local.Load(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Acme Corp", d.Fields.CompanyName, "flush reads latest state, not a stale snapshot")
}

func TestSetField_UnknownFieldRejected(t *testing.T) {
	s := NewSession(DemoRequestFlow(false), NewMemoryStore(), nil, &mockCollab{}, testOptions())
	defer s.Close()

	assert.Error(t, s.SetField("favorite_color", "blue"))
}

func TestOTP_MobileEditInvalidatesVerification(t *testing.T) {
	ctx := context.Background()
	collab := &mockCollab{}

	s := NewSession(DemoRequestFlow(false), NewMemoryStore(), nil, collab, testOptions())
	defer s.Close()
	s.Initialize(ctx)
	fillContactStep(s)

	require.NoError(t, s.SendOTP(ctx, "9876543210"))
	require.NoError(t, s.ValidateOTP(ctx, "1234"))

	assert.Equal(t, ChallengeVerified, s.Challenge().State())
	d := s.Draft()
	assert.True(t, d.MobileVerified())

	// 换号码，验证整体作废
	require.NoError(t, s.SetField("mobile", "9876543211"))
	assert.Equal(t, ChallengeNone, s.Challenge().State())
	d = s.Draft()
	assert.False(t, d.MobileVerified())
	assert.Empty(t, d.Verify.Value)
}

func TestReplaceDraft_EmptyDraftClearsBothStores(t *testing.T) {
	ctx := context.Background()
	local, server := NewMemoryStore(), NewMemoryStore()

	seeded := NewDraft()
	seeded.Fields.CompanyName = "Acme Corp"
	require.NoError(t, local.Save(ctx, &seeded))
	require.NoError(t, server.Save(ctx, &seeded))

	s := NewSession(DemoRequestFlow(false), local, server, &mockCollab{}, testOptions())
	defer s.Close()
	s.Initialize(ctx)

	s.ReplaceDraft(ctx, NewDraft())

	_, found, err := local.Load(ctx)
	require.NoError(t, err)
	assert.False(t, found, "empty draft must clear, never persist")

	_, found, err = server.Load(ctx)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestReset_SuppressesQueuedDebouncedWrite(t *testing.T) {
	ctx := context.Background()
	local := newCountingStore()

	s := NewSession(DemoRequestFlow(false), local, nil, &mockCollab{}, testOptions())
	defer s.Close()
	s.Initialize(ctx)

	require.NoError(t, s.SetField("company_name", "Acme Corp"))
	s.Reset(ctx) // 去抖还没触发就重置

	time.Sleep(80 * time.Millisecond)

	d := s.Draft()
	assert.True(t, d.IsEmpty())
	assert.Equal(t, "", s.Query())

	_, found, err := local.Load(ctx)
	require.NoError(t, err)
	assert.False(t, found, "queued write must not resurrect the reset draft")
}

func TestReset_LeavesServerStoreAlone(t *testing.T) {
	ctx := context.Background()
	local, server := NewMemoryStore(), NewMemoryStore()

	s := NewSession(DemoRequestFlow(false), local, server, &mockCollab{}, testOptions())
	defer s.Close()
	s.Initialize(ctx)
	fillContactStep(s)
	_, err := s.Advance(ctx, 2, BranchNone, "")
	require.NoError(t, err)

	s.Reset(ctx)

	_, found, err := local.Load(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = server.Load(ctx)
	require.NoError(t, err)
	assert.True(t, found, "reset clears the device copy only")
}

func TestReconcile_PopStateSkipsValidators(t *testing.T) {
	ctx := context.Background()
	s := NewSession(DemoRequestFlow(false), NewMemoryStore(), nil, &mockCollab{}, testOptions())
	defer s.Close()
	s.Initialize(ctx)
	fillContactStep(s)
	_, err := s.Advance(ctx, 2, BranchNone, "")
	require.NoError(t, err)

	// 把必填字段清掉：advance 会挂，popstate 不走校验门
	require.NoError(t, s.SetField("email", ""))
	require.NoError(t, s.SetField("mobile", ""))

	require.NoError(t, s.Reconcile(ctx, Event{Kind: EventPopState, Step: 1}))
	assert.Equal(t, 1, s.Draft().Step)

	require.NoError(t, s.Reconcile(ctx, Event{Kind: EventPopState, Step: 2}))
	assert.Equal(t, 2, s.Draft().Step, "re-entering a previously reached step must not re-validate")
}

func TestReconcile_PopStateFallsBackToQuery(t *testing.T) {
	ctx := context.Background()
	s := NewSession(DemoRequestFlow(false), NewMemoryStore(), nil, &mockCollab{}, testOptions())
	defer s.Close()
	s.Initialize(ctx)
	fillContactStep(s)
	_, err := s.Advance(ctx, 2, BranchNone, "")
	require.NoError(t, err)
	require.NoError(t, s.Reconcile(ctx, Event{Kind: EventPopState, Step: 1}))

	require.NoError(t, s.Reconcile(ctx, Event{Kind: EventPopState, Query: "step=2&view=pricing&plan=gold"}))

	d := s.Draft()
	assert.Equal(t, 2, d.Step)
	assert.Equal(t, BranchPricing, d.Branch)
	assert.Equal(t, "gold", d.BranchPlanID)
}

func TestReconcile_PopStateClampedToReachedStep(t *testing.T) {
	ctx := context.Background()
	s := NewSession(DemoRequestFlow(false), NewMemoryStore(), nil, &mockCollab{}, testOptions())
	defer s.Close()
	s.Initialize(ctx)
	_ = s.SetField("company_name", "Acme Corp")

	// 伪造的 history 状态指向从未到达过的步骤，必须被钳回
	require.NoError(t, s.Reconcile(ctx, Event{Kind: EventPopState, Step: 3}))
	assert.Equal(t, 1, s.Draft().Step)

	fillContactStep(s)
	_, err := s.Advance(ctx, 2, BranchNone, "")
	require.NoError(t, err)

	require.NoError(t, s.Reconcile(ctx, Event{Kind: EventPopState, Step: 3}))
	assert.Equal(t, 2, s.Draft().Step, "popstate can only restore steps the user actually reached")

	// 退回第一步后，到达过的第二步仍可恢复
	require.NoError(t, s.Reconcile(ctx, Event{Kind: EventPopState, Step: 1}))
	require.NoError(t, s.Reconcile(ctx, Event{Kind: EventPopState, Step: 2}))
	assert.Equal(t, 2, s.Draft().Step)
}

func TestReconcile_ForcedResetWhenStoresWiped(t *testing.T) {
	ctx := context.Background()
	local, server := NewMemoryStore(), NewMemoryStore()

	s := NewSession(DemoRequestFlow(false), local, server, &mockCollab{}, testOptions())
	defer s.Close()
	s.Initialize(ctx)
	fillContactStep(s)
	_, err := s.Advance(ctx, 2, BranchNone, "")
	require.NoError(t, err)

	// 外部把两侧存储都清掉（清浏览器数据 + 后台删草稿）
	require.NoError(t, local.Clear(ctx))
	require.NoError(t, server.Clear(ctx))

	require.NoError(t, s.Reconcile(ctx, Event{Kind: EventConsistencyTick}))

	d := s.Draft()
	assert.True(t, d.IsEmpty(), "session must snap back to initial state, not limp along")
	assert.Equal(t, 1, d.Step)
	assert.Equal(t, "", s.Query())
}

func TestReconcile_FocusKeepsStateWhenStoresIntact(t *testing.T) {
	ctx := context.Background()
	local := NewMemoryStore()

	s := NewSession(DemoRequestFlow(false), local, nil, &mockCollab{}, testOptions())
	defer s.Close()
	s.Initialize(ctx)
	fillContactStep(s)
	_, err := s.Advance(ctx, 2, BranchNone, "")
	require.NoError(t, err)

	require.NoError(t, s.Reconcile(ctx, Event{Kind: EventFocusRegained}))
	assert.Equal(t, 2, s.Draft().Step)
}

func TestSubmit_HappyPathClearsEverything(t *testing.T) {
	ctx := context.Background()
	local, server := NewMemoryStore(), NewMemoryStore()
	collab := &mockCollab{}

	s := NewSession(DemoRequestFlow(false), local, server, collab, testOptions())
	defer s.Close()
	s.Initialize(ctx)
	fillContactStep(s)

	_, err := s.Advance(ctx, 2, BranchNone, "")
	require.NoError(t, err)
	require.NoError(t, s.SetField("plan_id", "gold"))
	require.NoError(t, s.SetField("tenure", "yearly"))

	_, err = s.Advance(ctx, 3, BranchNone, "")
	require.NoError(t, err)
	require.NoError(t, s.SetField("pricing_id", "gold-yearly"))
	require.NoError(t, s.SetField("num_users", "25"))

	message, err := s.Submit(ctx, 25)
	require.NoError(t, err)
	assert.NotEmpty(t, message)

	require.Len(t, collab.submitted, 1)
	assert.Equal(t, "gold", collab.submitted[0].PlanID)
	assert.Equal(t, "Acme Corp", collab.submitted[0].Fields["company_name"])

	_, found, err := local.Load(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = server.Load(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	d := s.Draft()
	assert.True(t, d.IsEmpty())
}

func TestSubmit_ValidatesEveryStep(t *testing.T) {
	ctx := context.Background()
	collab := &mockCollab{}
	s := NewSession(DemoRequestFlow(false), NewMemoryStore(), nil, collab, testOptions())
	defer s.Close()
	s.Initialize(ctx)

	// 整份写穿把步号推到第三步，但前面步骤的必填字段是空的
	d := NewDraft()
	d.Step = 3
	d.Fields.CompanyName = "Acme Corp"
	d.Fields.PricingID = "gold-yearly"
	d.Fields.NumUsers = "25"
	s.ReplaceDraft(ctx, d)
	require.Equal(t, 3, s.Draft().Step)

	_, err := s.Submit(ctx, 25)
	assert.ErrorIs(t, err, pkgerrors.WizardValidationFailed)
	assert.Empty(t, collab.submitted, "an incomplete draft must never reach the upstream")
}

func TestSubmit_CustomPlanJourney(t *testing.T) {
	ctx := context.Background()
	collab := &mockCollab{}
	s := NewSession(DemoRequestFlow(false), NewMemoryStore(), nil, collab, testOptions())
	defer s.Close()
	s.Initialize(ctx)
	fillContactStep(s)

	_, err := s.Advance(ctx, 2, BranchCustomPlan, "")
	require.NoError(t, err)
	require.NoError(t, s.SetField("service_ids", "crm,payroll"))

	_, err = s.Advance(ctx, 3, BranchCustomPricing, "")
	require.NoError(t, err)
	require.NoError(t, s.SetField("num_users", "25"))

	// 自选路径没有 plan_id/pricing_id，提交仍然要能走通
	_, err = s.Submit(ctx, 25)
	require.NoError(t, err)
	require.Len(t, collab.submitted, 1)
	assert.Equal(t, "crm,payroll", collab.submitted[0].Fields["service_ids"])
}

func TestSubmit_CollaboratorFailureKeepsDraft(t *testing.T) {
	ctx := context.Background()
	local := NewMemoryStore()
	collab := &mockCollab{submitErr: pkgerrors.SubmissionFailed}

	s := NewSession(DemoRequestFlow(false), local, nil, collab, testOptions())
	defer s.Close()
	s.Initialize(ctx)
	fillContactStep(s)
	_, err := s.Advance(ctx, 2, BranchNone, "")
	require.NoError(t, err)
	require.NoError(t, s.SetField("plan_id", "gold"))
	require.NoError(t, s.SetField("tenure", "yearly"))
	_, err = s.Advance(ctx, 3, BranchNone, "")
	require.NoError(t, err)
	require.NoError(t, s.SetField("pricing_id", "gold-yearly"))
	require.NoError(t, s.SetField("num_users", "25"))

	_, err = s.Submit(ctx, 25)
	assert.ErrorIs(t, err, pkgerrors.SubmissionFailed)

	d := s.Draft()
	assert.Equal(t, 3, d.Step, "failed submission must leave the wizard where it was")
	assert.Equal(t, "gold", d.Fields.PlanID)
}

func TestSaveDegradation_ServerFailureDoesNotBlock(t *testing.T) {
	ctx := context.Background()
	local := NewMemoryStore()
	server := &failingStore{}

	s := NewSession(DemoRequestFlow(false), local, server, &mockCollab{}, testOptions())
	defer s.Close()
	s.Initialize(ctx)
	fillContactStep(s)

	_, err := s.Advance(ctx, 2, BranchNone, "")
	require.NoError(t, err, "server outage must not block navigation")
	assert.Equal(t, 2, s.Draft().Step)
	assert.NotEmpty(t, s.PopSaveWarning())
	assert.Empty(t, s.PopSaveWarning(), "warning is consumed on read")

	d, found, err := local.Load(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2, d.Step, "local copy still carries the session")
}

type failingStore struct{}

func (f *failingStore) Load(ctx context.Context) (*Draft, bool, error) {
	return nil, false, context.DeadlineExceeded
}

func (f *failingStore) Save(ctx context.Context, d *Draft) error {
	return context.DeadlineExceeded
}

func (f *failingStore) Clear(ctx context.Context) error {
	return context.DeadlineExceeded
}
