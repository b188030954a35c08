package handler

import (
	"context"
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"go.uber.org/zap"

	"DemoPilot/internal/middleware"
	"DemoPilot/internal/model/dto"
	"DemoPilot/internal/queue"
	"DemoPilot/internal/service"
	"DemoPilot/internal/wizard"
	pkgerrors "DemoPilot/pkg/errors"
	"DemoPilot/pkg/logger"
	"DemoPilot/pkg/response"
)

// wizardSession 从请求上下文装配会话：设备标识必有，用户身份可选。
func wizardSession(ctx context.Context, c *app.RequestContext) (*wizard.Session, error) {
	deviceID := middleware.GetDeviceID(c)
	userID, _ := middleware.GetUserID(ctx, c)
	flow := c.Param("flow")

	return service.Wizard().Session(ctx, deviceID, userID, flow)
}

func draftView(session *wizard.Session) dto.DraftView {
	d := session.Draft()
	return dto.DraftView{
		Step:         d.Step,
		Branch:       string(d.Branch),
		BranchPlanID: d.BranchPlanID,
		Fields:       d.Fields.ToMap(),
		Verified:     d.MobileVerified(),
		Query:        d.EncodeQuery(),
	}
}

// GetDraft 载入草稿（双存储和解后的视图）
// GET /v1/wizard/:flow/draft
func GetDraft(ctx context.Context, c *app.RequestContext) {
	session, err := wizardSession(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, draftView(session))
}

// SaveDraft 写穿整份草稿；空草稿等价于删除
// PUT /v1/wizard/:flow/draft
func SaveDraft(ctx context.Context, c *app.RequestContext) {
	var req dto.SaveDraftRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	session, err := wizardSession(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	session.ReplaceDraft(ctx, wizard.Draft{
		Step:         req.Step,
		Branch:       wizard.Branch(req.Branch),
		BranchPlanID: req.BranchPlanID,
		Fields:       wizard.FieldsFromMap(req.Fields),
	})

	resp := dto.AdvanceResponse{Draft: draftView(session), SaveWarning: session.PopSaveWarning()}
	response.Success(ctx, c, resp)
}

// DeleteDraft 重置：清内存与设备侧存储
// DELETE /v1/wizard/:flow/draft
func DeleteDraft(ctx context.Context, c *app.RequestContext) {
	session, err := wizardSession(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	session.Reset(ctx)
	response.NoContent(ctx, c)
}

// Advance 带校验门的显式步进
// POST /v1/wizard/:flow/advance
func Advance(ctx context.Context, c *app.RequestContext) {
	var req dto.AdvanceRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	session, err := wizardSession(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	applyFields(session, req.Fields)

	validationErrs, err := session.Advance(ctx, req.TargetStep, wizard.Branch(req.Branch), req.BranchPlanID)
	if err != nil {
		if errors.Is(err, pkgerrors.WizardValidationFailed) {
			// 校验失败是正常表单流转，错误按字段回给前端
			response.Success(ctx, c, dto.AdvanceResponse{
				Draft:  draftView(session),
				Errors: validationErrs,
			})
			return
		}
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, dto.AdvanceResponse{
		Draft:       draftView(session),
		SaveWarning: session.PopSaveWarning(),
	})
}

// Retreat 后退，无校验
// POST /v1/wizard/:flow/retreat
func Retreat(ctx context.Context, c *app.RequestContext) {
	session, err := wizardSession(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	if err := session.Retreat(ctx); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, dto.AdvanceResponse{Draft: draftView(session)})
}

// Reconcile 导航事件回放（popstate / focus / tick）
// POST /v1/wizard/:flow/reconcile
func Reconcile(ctx context.Context, c *app.RequestContext) {
	var req dto.ReconcileRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	kind, ok := wizard.ParseEventKind(req.Event)
	if !ok {
		response.Error(ctx, c, pkgerrors.WizardValidationFailed.WithMessage("Unknown navigation event: "+req.Event))
		return
	}

	session, err := wizardSession(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	if err := session.Reconcile(ctx, wizard.Event{
		Kind:         kind,
		Step:         req.Step,
		Branch:       wizard.Branch(req.Branch),
		BranchPlanID: req.BranchPlanID,
		Query:        req.Query,
	}); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, draftView(session))
}

// SendOTP 发送验证码（冷却 + 日配额）
// POST /v1/wizard/:flow/otp/send
func SendOTP(ctx context.Context, c *app.RequestContext) {
	var req dto.SendOTPRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	session, err := wizardSession(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	if err := service.Wizard().SendOTP(ctx, session, req.Mobile); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, otpView(session))
}

// ValidateOTP 校验验证码
// POST /v1/wizard/:flow/otp/validate
func ValidateOTP(ctx context.Context, c *app.RequestContext) {
	var req dto.ValidateOTPRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	session, err := wizardSession(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	if err := session.ValidateOTP(ctx, req.Code); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, otpView(session))
}

// GetOTPState 查询挑战状态
// GET /v1/wizard/:flow/otp
func GetOTPState(ctx context.Context, c *app.RequestContext) {
	session, err := wizardSession(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, otpView(session))
}

// Submit 终态提交：过最终校验、中继上游、清两侧存储
// POST /v1/wizard/:flow/submit
func Submit(ctx context.Context, c *app.RequestContext) {
	var req dto.SubmitRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	flow := c.Param("flow")
	userID, _ := middleware.GetUserID(ctx, c)

	session, err := wizardSession(ctx, c)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	applyFields(session, req.Fields)

	// 提交前留一份快照，成功后会话即被清空
	snapshot := session.Draft()

	message, err := session.Submit(ctx, req.NumUsers)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	publishSubmissionEvents(flow, userID, &snapshot, req.NumUsers)

	response.Success(ctx, c, dto.SubmitResponse{Message: message})
}

func otpView(session *wizard.Session) dto.OTPStateView {
	state, verified, cooldown := session.OTPState()
	return dto.OTPStateView{
		State:           string(state),
		VerifiedValue:   verified,
		CooldownSeconds: cooldown,
	}
}

// applyFields 把请求携带的表单值灌进会话，未知字段在 Set 处被拒。
func applyFields(session *wizard.Session, fields map[string]string) {
	for name, value := range fields {
		if err := session.SetField(name, value); err != nil {
			logger.Logger.Debug("Ignoring unknown wizard field", zap.String("field", name))
		}
	}
}

// publishSubmissionEvents 提交已经落定，事件发不出去只记日志。
func publishSubmissionEvents(flow, userID string, snapshot *wizard.Draft, numUsers int) {
	switch flow {
	case "demo-request":
		if err := queue.PublishDemoRequestSubmitted(queue.DemoRequestSubmittedMessage{
			Fields:    snapshot.Fields.ToMap(),
			UserID:    userID,
			PlanID:    snapshot.Fields.PlanID,
			PricingID: snapshot.Fields.PricingID,
			NumUsers:  numUsers,
		}); err != nil {
			logger.Logger.Error("Failed to publish submission event", zap.Error(err))
		}
	case "site-builder":
		if err := queue.PublishSiteBuildRequested(queue.SiteBuildRequestedMessage{
			Fields: snapshot.Fields.ToMap(),
			UserID: userID,
			Domain: snapshot.Fields.Domain,
		}); err != nil {
			logger.Logger.Error("Failed to publish site build task", zap.Error(err))
		}
	}
}
