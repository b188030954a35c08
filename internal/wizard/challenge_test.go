package wizard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "DemoPilot/pkg/errors"
)

// fakeClock 手动推进的时钟
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

type stubSender struct {
	sendErr     error
	validateErr error
	sent        int
}

func (s *stubSender) SendOTP(ctx context.Context, mobile string) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	s.sent++
	return nil
}

func (s *stubSender) ValidateOTP(ctx context.Context, mobile, code string) error {
	return s.validateErr
}

func newTestChallenge() (*Challenge, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	return NewChallenge(30*time.Second, clock.now), clock
}

func TestChallenge_SendRejectsBadMobileLocally(t *testing.T) {
	c, _ := newTestChallenge()
	sender := &stubSender{}

	err := c.Send(context.Background(), sender, "12345")
	assert.ErrorIs(t, err, pkgerrors.OTPMobileInvalid)
	assert.Equal(t, 0, sender.sent, "local shape check must not reach the collaborator")
	assert.Equal(t, ChallengeNone, c.State())
}

func TestChallenge_CooldownBlocksResend(t *testing.T) {
	ctx := context.Background()
	c, clock := newTestChallenge()
	sender := &stubSender{}

	require.NoError(t, c.Send(ctx, sender, "9876543210"))
	assert.Equal(t, ChallengeSent, c.State())
	assert.Equal(t, 30, c.CooldownRemaining())

	err := c.Send(ctx, sender, "9876543210")
	assert.ErrorIs(t, err, pkgerrors.OTPCooldownActive)
	assert.Equal(t, 1, sender.sent)

	clock.advance(31 * time.Second)
	assert.Equal(t, 0, c.CooldownRemaining())
	require.NoError(t, c.Send(ctx, sender, "9876543210"))
	assert.Equal(t, 2, sender.sent)
}

func TestChallenge_SendFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestChallenge()
	sender := &stubSender{sendErr: pkgerrors.OTPSendFailed}

	err := c.Send(ctx, sender, "9876543210")
	assert.ErrorIs(t, err, pkgerrors.OTPSendFailed)
	assert.Equal(t, ChallengeNone, c.State())
	assert.Equal(t, 0, c.CooldownRemaining(), "failed send must not start the cooldown")
}

func TestChallenge_ValidateRequiresSentState(t *testing.T) {
	c, _ := newTestChallenge()

	err := c.Validate(context.Background(), &stubSender{}, "1234")
	assert.ErrorIs(t, err, pkgerrors.OTPNotSent)
}

func TestChallenge_ValidateRejectsShortCode(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestChallenge()
	sender := &stubSender{}

	require.NoError(t, c.Send(ctx, sender, "9876543210"))

	err := c.Validate(ctx, sender, "12")
	assert.ErrorIs(t, err, pkgerrors.OTPCodeTooShort)
	assert.Equal(t, ChallengeSent, c.State())
}

func TestChallenge_ValidateFailureAllowsRetry(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestChallenge()
	sender := &stubSender{validateErr: pkgerrors.OTPValidateFailed}

	require.NoError(t, c.Send(ctx, sender, "9876543210"))

	err := c.Validate(ctx, sender, "9999")
	assert.ErrorIs(t, err, pkgerrors.OTPValidateFailed)
	assert.Equal(t, ChallengeSent, c.State(), "failed validation stays in SENT for direct retry")

	sender.validateErr = nil
	require.NoError(t, c.Validate(ctx, sender, "1234"))
	assert.Equal(t, ChallengeVerified, c.State())
	assert.Equal(t, "9876543210", c.VerifiedValue())
}

func TestChallenge_ObserveChannelInvalidatesOnEdit(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestChallenge()
	sender := &stubSender{}

	require.NoError(t, c.Send(ctx, sender, "9876543210"))
	require.NoError(t, c.Validate(ctx, sender, "1234"))

	// 相同值不动
	c.ObserveChannel("9876543210")
	assert.Equal(t, ChallengeVerified, c.State())

	// 变更值整体作废，冷却一并清掉
	c.ObserveChannel("9876543211")
	assert.Equal(t, ChallengeNone, c.State())
	assert.Empty(t, c.VerifiedValue())
	assert.Equal(t, 0, c.CooldownRemaining())
}

func TestChallenge_ObserveChannelNoopWhenNone(t *testing.T) {
	c, _ := newTestChallenge()

	c.ObserveChannel("9876543210")
	assert.Equal(t, ChallengeNone, c.State())
}
