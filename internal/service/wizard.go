package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"DemoPilot/config"
	"DemoPilot/internal/cache"
	"DemoPilot/internal/wizard"
	pkgerrors "DemoPilot/pkg/errors"
	"DemoPilot/pkg/logger"
	"DemoPilot/pkg/salesapi"
	"DemoPilot/utils"
)

var (
	wizardService *WizardService
	wizardOnce    sync.Once
)

func Wizard() *WizardService {
	wizardOnce.Do(func() {
		wizardService = &WizardService{
			sessions: make(map[string]*sessionEntry),
		}
		go wizardService.evictLoop()
	})
	return wizardService
}

type sessionEntry struct {
	session    *wizard.Session
	lastAccess time.Time
}

// WizardService 会话编排：按 (设备, 用户, 流程) 维护活跃的向导会话。
// 会话持有去抖定时器等易失状态，闲置后整体驱逐，草稿本身在双存储里。
type WizardService struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

const sessionIdleTTL = 30 * time.Minute

func sessionKey(deviceID, userID, flow string) string {
	return deviceID + "|" + userID + "|" + flow
}

// Session 取出或建立一个向导会话。
// userID 为空表示匿名，此时只有设备侧存储；登录后 key 变化，自然换成带服务端存储的新会话。
func (s *WizardService) Session(ctx context.Context, deviceID, userID, flowName string) (*wizard.Session, error) {
	flow, ok := wizard.FlowByName(flowName, config.Cfg.WizardRequireMobileVerify)
	if !ok {
		return nil, pkgerrors.WizardFlowUnknown
	}

	key := sessionKey(deviceID, userID, flowName)

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, exists := s.sessions[key]; exists {
		entry.lastAccess = time.Now()
		return entry.session, nil
	}

	var server wizard.Store
	if userID != "" {
		server = NewServerDraftStore(userID, flowName)
	}

	session := wizard.NewSession(
		flow,
		cache.NewDeviceDraftStore(deviceID, flowName),
		server,
		salesapi.GetClient(),
		wizard.Options{
			Debounce:         time.Duration(config.Cfg.WizardDebounceMS) * time.Millisecond,
			NavLock:          time.Duration(config.Cfg.WizardNavLockMS) * time.Millisecond,
			ResetGrace:       time.Duration(config.Cfg.WizardResetGraceMS) * time.Millisecond,
			ConsistencyEvery: time.Duration(config.Cfg.WizardConsistencySeconds) * time.Second,
			OTPCooldown:      time.Duration(config.Cfg.OTPResendCooldownSeconds) * time.Second,
		},
	)
	session.Initialize(ctx)
	session.StartConsistencyLoop()

	s.sessions[key] = &sessionEntry{session: session, lastAccess: time.Now()}
	logger.Logger.Info("Wizard session established",
		zap.String("flow", flowName),
		zap.Bool("authenticated", userID != ""),
	)

	return session, nil
}

// SendOTP 会话冷却之外再叠一层按号码的全天配额。
func (s *WizardService) SendOTP(ctx context.Context, session *wizard.Session, mobile string) error {
	mobileHash := utils.HashMobile(mobile)

	count, err := cache.GetOTPCount(ctx, mobileHash)
	if err != nil {
		logger.Logger.Warn("Failed to read OTP daily count, allowing send", zap.Error(err))
	} else if count >= config.Cfg.OTPMaxDaily {
		return pkgerrors.OTPRateLimited
	}

	if err := session.SendOTP(ctx, mobile); err != nil {
		return err
	}

	if _, err := cache.IncrOTPCount(ctx, mobileHash); err != nil {
		logger.Logger.Warn("Failed to bump OTP daily count", zap.Error(err))
	}

	return nil
}

// evictLoop 周期清理闲置会话，释放它们的定时器。
func (s *WizardService) evictLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-sessionIdleTTL)

		s.mu.Lock()
		for key, entry := range s.sessions {
			if entry.lastAccess.Before(cutoff) {
				entry.session.Close()
				delete(s.sessions, key)
			}
		}
		s.mu.Unlock()
	}
}
