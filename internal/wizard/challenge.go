package wizard

import (
	"context"
	"time"

	pkgerrors "DemoPilot/pkg/errors"
	"DemoPilot/utils"
)

// ChallengeState OTP 挑战状态机：NONE → SENT → VERIFIED。
// SENT/VERIFIED 下编辑手机号一律打回 NONE；SENT → SENT 仅在冷却归零后允许（重发）。
type ChallengeState string

const (
	ChallengeNone     ChallengeState = "NONE"
	ChallengeSent     ChallengeState = "SENT"
	ChallengeVerified ChallengeState = "VERIFIED"
)

const minOTPCodeLength = 4

// OTPSender 协作方契约（上游 CRM 持有真正的 OTP 逻辑）。
type OTPSender interface {
	SendOTP(ctx context.Context, mobile string) error
	ValidateOTP(ctx context.Context, mobile, code string) error
}

// Challenge 绑定单个手机号渠道的 OTP 挑战。
// 非并发安全，由持有它的 Session 串行驱动。
type Challenge struct {
	state         ChallengeState
	sentValue     string // 最近一次发码的号码
	verifiedValue string // 验证通过时的号码
	cooldownUntil time.Time
	cooldown      time.Duration
	now           func() time.Time
}

func NewChallenge(cooldown time.Duration, now func() time.Time) *Challenge {
	if now == nil {
		now = time.Now
	}
	return &Challenge{
		state:    ChallengeNone,
		cooldown: cooldown,
		now:      now,
	}
}

func (c *Challenge) State() ChallengeState {
	return c.state
}

func (c *Challenge) VerifiedValue() string {
	return c.verifiedValue
}

// CooldownRemaining 剩余冷却秒数，归零后才允许重发。
func (c *Challenge) CooldownRemaining() int {
	remaining := c.cooldownUntil.Sub(c.now())
	if remaining <= 0 {
		return 0
	}
	return int(remaining.Seconds() + 0.999)
}

// Send 本地形状校验不过不碰协作方；协作方失败不改状态，错误原样上抛。
func (c *Challenge) Send(ctx context.Context, sender OTPSender, mobile string) error {
	if !utils.ValidateMobile(mobile) {
		return pkgerrors.OTPMobileInvalid
	}

	if c.CooldownRemaining() > 0 {
		return pkgerrors.OTPCooldownActive
	}

	if err := sender.SendOTP(ctx, mobile); err != nil {
		return err
	}

	c.state = ChallengeSent
	c.sentValue = mobile
	c.cooldownUntil = c.now().Add(c.cooldown)
	return nil
}

// Validate 失败停在 SENT，允许直接重试；冷却独立计时，想重发等它归零。
func (c *Challenge) Validate(ctx context.Context, sender OTPSender, code string) error {
	if len(code) < minOTPCodeLength {
		return pkgerrors.OTPCodeTooShort
	}

	if c.state != ChallengeSent {
		return pkgerrors.OTPNotSent
	}

	if err := sender.ValidateOTP(ctx, c.sentValue, code); err != nil {
		return err
	}

	c.state = ChallengeVerified
	c.verifiedValue = c.sentValue
	return nil
}

// ObserveChannel 手机号编辑监听：SENT/VERIFIED 下值变了就整体作废，
// 冷却计时一并清掉。
func (c *Challenge) ObserveChannel(mobile string) {
	if c.state == ChallengeNone {
		return
	}

	reference := c.verifiedValue
	if c.state == ChallengeSent {
		reference = c.sentValue
	}

	if mobile != reference {
		c.Reset()
	}
}

// Reset 回到初始态并清掉冷却。
func (c *Challenge) Reset() {
	c.state = ChallengeNone
	c.sentValue = ""
	c.verifiedValue = ""
	c.cooldownUntil = time.Time{}
}
