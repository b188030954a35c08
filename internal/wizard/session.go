package wizard

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	pkgerrors "DemoPilot/pkg/errors"
	"DemoPilot/pkg/logger"
	"DemoPilot/pkg/salesapi"
)

// Collaborators Session 依赖的协作方全集。salesapi.Client 天然满足。
type Collaborators interface {
	OTPSender
	SubmitDemoRequest(ctx context.Context, input salesapi.SubmitDemoRequestInput) (string, error)
}

// Options Session 的时序参数，全部可注入，测试用小窗口。
type Options struct {
	Debounce         time.Duration // 字段编辑聚合窗口
	NavLock          time.Duration // 转场期间丢弃重入转换
	ResetGrace       time.Duration // reset 后抑制自动保存，防止挂起的去抖写把 reset 吞掉
	ConsistencyEvery time.Duration // 周期一致性检查间隔
	OTPCooldown      time.Duration
	Now              func() time.Time
}

func (o *Options) withDefaults() {
	if o.Debounce <= 0 {
		o.Debounce = 600 * time.Millisecond
	}
	if o.NavLock <= 0 {
		o.NavLock = 400 * time.Millisecond
	}
	if o.ResetGrace <= 0 {
		o.ResetGrace = time.Second
	}
	if o.ConsistencyEvery <= 0 {
		o.ConsistencyEvery = 15 * time.Second
	}
	if o.OTPCooldown <= 0 {
		o.OTPCooldown = 30 * time.Second
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Session 一次向导会话的全部可变状态：草稿、双存储、去抖句柄、
// 导航锁、OTP 挑战。所有定时器都是字段，有显式的启停，没有包级全局。
type Session struct {
	mu sync.Mutex

	flow   *Flow
	draft  Draft
	local  Store         // 设备侧，始终可用
	server Store         // 服务端权威存储；未认证时为 nil
	collab Collaborators

	challenge *Challenge
	opts      Options
	now       func() time.Time

	debounceTimer     *time.Timer
	navLockUntil      time.Time
	suppressSaveUntil time.Time
	saveWarning       string

	tickStop chan struct{}
	tickOnce sync.Once
}

func NewSession(flow *Flow, local, server Store, collab Collaborators, opts Options) *Session {
	opts.withDefaults()
	return &Session{
		flow:      flow,
		draft:     NewDraft(),
		local:     local,
		server:    server,
		collab:    collab,
		challenge: NewChallenge(opts.OTPCooldown, opts.Now),
		opts:      opts,
		now:       opts.Now,
	}
}

// Draft 当前草稿的副本。
func (s *Session) Draft() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

// Query 当前状态的 URL 编码，history 同步用。
func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.EncodeQuery()
}

// Challenge 暴露给 handler 读取 OTP 状态。
func (s *Session) Challenge() *Challenge {
	return s.challenge
}

// OTPState 挑战状态的加锁快照，handler 侧只读。
func (s *Session) OTPState() (state ChallengeState, verifiedValue string, cooldownSeconds int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.challenge.State(), s.challenge.VerifiedValue(), s.challenge.CooldownRemaining()
}

// PopSaveWarning 取走并清空最近一次服务端保存降级的提示。
func (s *Session) PopSaveWarning() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.saveWarning
	s.saveWarning = ""
	return w
}

// Initialize 载入草稿并和解双存储。
// 身份已知时服务端获胜：本地副本可能是上一次会话的陈旧值，直接被覆盖。
// 服务端为空而本地有值（匿名起草后登录）时采用本地并回写服务端。
// 服务端读失败降级为未认证处理，绝不让整个页面报错。
func (s *Session) Initialize(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		sd, found, err := s.server.Load(ctx)
		if err != nil {
			logger.Logger.Warn("Server draft load failed, degrading to local store",
				zap.String("flow", s.flow.Name),
				zap.Error(err),
			)
		} else if found {
			s.draft = sd.Clone()
			s.draft.Normalize(s.flow)
			if err := s.local.Save(ctx, &s.draft); err != nil {
				logger.Logger.Warn("Failed to refresh local draft from server copy", zap.Error(err))
			}
			return
		}
	}

	ld, found, err := s.local.Load(ctx)
	if err != nil || !found {
		s.draft = NewDraft()
		return
	}

	s.draft = ld.Clone()
	s.draft.Normalize(s.flow)

	// 归一化把草稿打回初始态时，别让陈旧的存量草稿复活
	if s.draft.IsEmpty() {
		_ = s.local.Clear(ctx)
		return
	}

	if s.server != nil {
		if err := s.server.Save(ctx, &s.draft); err != nil {
			logger.Logger.Warn("Failed to promote local draft to server store", zap.Error(err))
		}
	}
}

// SetField 字段编辑：未知字段拒绝，手机号变化联动 OTP 失效，落库走去抖。
func (s *Session) SetField(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "mobile" {
		s.challenge.ObserveChannel(value)
	}

	if !s.draft.Fields.Set(name, value) {
		return pkgerrors.WizardValidationFailed.WithMessage("Unknown field: " + name)
	}

	// 验证值只对当时那个号码有效
	if s.draft.Verify.Value != "" && s.draft.Verify.Value != s.draft.Fields.Mobile {
		s.draft.Verify.Value = ""
	}

	s.scheduleSaveLocked()
	return nil
}

// ReplaceDraft 写穿整份草稿（PUT draft 语义），立即持久化。
func (s *Session) ReplaceDraft(ctx context.Context, d Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d.Normalize(s.flow)
	s.draft = d
	s.persistLocked(ctx)
}

// Advance 显式前进。校验失败时不发生任何状态变化、任何存储写入。
func (s *Session) Advance(ctx context.Context, targetStep int, branch Branch, branchPlanID string) (ValidationErrors, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.now().Before(s.navLockUntil) {
		return nil, pkgerrors.WizardNavLocked
	}

	if targetStep < 1 || targetStep > s.flow.MaxStep {
		return nil, pkgerrors.WizardStepOutOfRange
	}
	// 不允许跳步：URL 改参数之类的越级直接拒绝
	if targetStep > s.draft.Step+1 {
		return nil, pkgerrors.WizardStepNotReachable
	}
	if !s.flow.BranchLegalAt(branch, targetStep) {
		return nil, pkgerrors.WizardBranchIllegal
	}

	// 只有向前跨步才过校验门；同步切分支视图不重复校验
	if targetStep > s.draft.Step {
		if errs := s.flow.RuleFor(s.draft.Step)(&s.draft); !errs.OK() {
			return errs, pkgerrors.WizardValidationFailed
		}
	}

	s.draft.Step = targetStep
	if targetStep > s.draft.MaxReached {
		s.draft.MaxReached = targetStep
	}
	s.draft.Branch = branch
	s.draft.BranchPlanID = branchPlanID
	s.navLockUntil = s.now().Add(s.opts.NavLock)

	s.cancelDebounceLocked()
	s.persistLocked(ctx)
	return nil, nil
}

// Retreat 后退不需要校验。分支视图先退出，再退步号。
func (s *Session) Retreat(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.now().Before(s.navLockUntil) {
		return pkgerrors.WizardNavLocked
	}

	if s.draft.Branch != BranchNone {
		s.draft.Branch = BranchNone
		s.draft.BranchPlanID = ""
	} else if s.draft.Step > 1 {
		s.draft.Step--
	}

	s.navLockUntil = s.now().Add(s.opts.NavLock)
	s.cancelDebounceLocked()
	s.persistLocked(ctx)
	return nil
}

// Reconcile 导航事件的唯一入口。
// popstate 恢复用户已经合法到达过的状态，不过校验门；
// focus/tick 做一致性检查，只会整体清零，从不部分覆盖。
func (s *Session) Reconcile(ctx context.Context, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Kind {
	case EventPopState:
		step, branch, planID := ev.Step, ev.Branch, ev.BranchPlanID
		if step == 0 {
			var ok bool
			step, branch, planID, ok = StateFromQuery(ev.Query)
			if !ok {
				step, branch, planID = 1, BranchNone, ""
			}
		}

		// history 状态是客户端给的，只认真正到达过的步骤，越界的钳回上限
		if step > s.draft.MaxReached {
			step = s.draft.MaxReached
		}

		s.draft.Step = step
		s.draft.Branch = branch
		s.draft.BranchPlanID = planID
		s.draft.Normalize(s.flow)
		s.scheduleSaveLocked()
		return nil

	case EventFocusRegained, EventConsistencyTick:
		return s.checkConsistencyLocked(ctx)

	default:
		return pkgerrors.WizardValidationFailed.WithMessage("Unknown navigation event")
	}
}

// 存储被外部清空（浏览器数据被清、服务端草稿被后台删除）时，
// 内存态不能继续呈现一个两边都不存在的草稿——整体打回初始态。
func (s *Session) checkConsistencyLocked(ctx context.Context) error {
	if s.draft.IsEmpty() {
		return nil
	}

	_, localFound, localErr := s.local.Load(ctx)
	if localErr != nil {
		// 本地读失败时不动作，下个周期再看
		return nil
	}

	serverFound := false
	if s.server != nil {
		if _, found, err := s.server.Load(ctx); err == nil {
			serverFound = found
		} else {
			// 服务端读失败按"不可判定"处理，避免误杀
			serverFound = true
		}
	}

	if !localFound && !serverFound {
		logger.Logger.Info("Persisted drafts wiped externally, forcing session back to initial state",
			zap.String("flow", s.flow.Name),
		)
		s.forceResetLocked()
	}

	return nil
}

// Reset 显式重置：只清内存态与本地存储。
// 服务端清除发生在提交成功或用户明确"重新开始"时，不在这里。
func (s *Session) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.forceResetLocked()
	if err := s.local.Clear(ctx); err != nil {
		logger.Logger.Warn("Failed to clear local draft on reset", zap.Error(err))
	}
}

func (s *Session) forceResetLocked() {
	s.cancelDebounceLocked()
	// 抑制窗口：防止已排队的去抖写在 reset 之后落盘，把 reset 立刻还原
	s.suppressSaveUntil = s.now().Add(s.opts.ResetGrace)
	s.draft = NewDraft()
	s.challenge.Reset()
}

// SendOTP / ValidateOTP 把挑战状态和草稿验证标记联动。
func (s *Session) SendOTP(ctx context.Context, mobile string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.challenge.Send(ctx, s.collab, mobile)
}

func (s *Session) ValidateOTP(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.challenge.Validate(ctx, s.collab, code); err != nil {
		return err
	}

	s.draft.Verify.Value = s.challenge.VerifiedValue()
	s.scheduleSaveLocked()
	return nil
}

// Submit 终态提交。成功后两侧存储一并清除，会话回到第一步。
// 提交前把全部步骤重新过一遍校验门：popstate 与写穿都不走校验，
// 单看当前步无法保证整份草稿合法。
func (s *Session) Submit(ctx context.Context, numUsers int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for step := 1; step <= s.flow.MaxStep; step++ {
		if errs := s.flow.RuleFor(step)(&s.draft); !errs.OK() {
			return "", pkgerrors.WizardValidationFailed
		}
	}

	input := salesapi.SubmitDemoRequestInput{
		Fields:    s.draft.Fields.ToMap(),
		PlanID:    s.draft.Fields.PlanID,
		PricingID: s.draft.Fields.PricingID,
		NumUsers:  numUsers,
	}

	message, err := s.collab.SubmitDemoRequest(ctx, input)
	if err != nil {
		// 协作方失败必须让 step/branch 原封不动
		return "", err
	}

	s.forceResetLocked()
	if err := s.local.Clear(ctx); err != nil {
		logger.Logger.Warn("Failed to clear local draft after submission", zap.Error(err))
	}
	if s.server != nil {
		if err := s.server.Clear(ctx); err != nil {
			logger.Logger.Warn("Failed to clear server draft after submission", zap.Error(err))
		}
	}

	return message, nil
}

// StartConsistencyLoop 启动周期一致性检查；Close 时停止。
func (s *Session) StartConsistencyLoop() {
	s.tickOnce.Do(func() {
		s.tickStop = make(chan struct{})
		go func() {
			ticker := time.NewTicker(s.opts.ConsistencyEvery)
			defer ticker.Stop()
			for {
				select {
				case <-s.tickStop:
					return
				case <-ticker.C:
					_ = s.Reconcile(context.Background(), Event{Kind: EventConsistencyTick})
				}
			}
		}()
	})
}

// Close 取消所有挂起的定时器。
func (s *Session) Close() {
	s.mu.Lock()
	s.cancelDebounceLocked()
	s.mu.Unlock()

	if s.tickStop != nil {
		close(s.tickStop)
		s.tickStop = nil
	}
}

// ---- 持久化 ----

// scheduleSaveLocked 去抖聚合：窗口内多次编辑只产生一次写，
// 写入时读的是触发时刻的最新草稿，不是定时器启动时的快照。
func (s *Session) scheduleSaveLocked() {
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}

	s.debounceTimer = time.AfterFunc(s.opts.Debounce, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.persistLocked(context.Background())
	})
}

func (s *Session) cancelDebounceLocked() {
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
		s.debounceTimer = nil
	}
}

// persistLocked 写穿两个存储。空草稿主动清除而不是落空，
// 否则"空"与"重置"无从区分，半截写还可能让陈旧草稿复活。
func (s *Session) persistLocked(ctx context.Context) {
	if s.now().Before(s.suppressSaveUntil) {
		return
	}

	if s.draft.IsEmpty() {
		if err := s.local.Clear(ctx); err != nil {
			logger.Logger.Warn("Failed to clear local draft", zap.Error(err))
		}
		if s.server != nil {
			if err := s.server.Clear(ctx); err != nil {
				logger.Logger.Warn("Failed to clear server draft", zap.Error(err))
			}
		}
		return
	}

	if err := s.local.Save(ctx, &s.draft); err != nil {
		logger.Logger.Warn("Local draft save failed", zap.Error(err))
	}

	if s.server != nil {
		if err := s.server.Save(ctx, &s.draft); err != nil {
			// 服务端保存失败从不阻塞导航，本地副本已经保住了会话
			logger.Logger.Warn("Server draft save failed",
				zap.String("flow", s.flow.Name),
				zap.Error(err),
			)
			s.saveWarning = pkgerrors.DraftSaveDegraded.Message
		}
	}
}
