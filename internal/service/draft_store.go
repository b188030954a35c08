package service

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"DemoPilot/internal/model"
	"DemoPilot/internal/wizard"
	"DemoPilot/storage/database"
)

// serverFormData 落进 jsonb 的部分：表单字段 + OTP 验证标记。
// step/branch 单独成列，后台排查时不用拆 JSON。
type serverFormData struct {
	Fields     wizard.Fields      `json:"fields"`
	Verify     wizard.VerifyState `json:"verify,omitempty"`
	MaxReached int                `json:"max_reached,omitempty"`
}

// ServerDraftStore 按 (user_id, flow) 幂等 upsert 的权威草稿存储，
// wizard.Store 的"服务端"实现。
type ServerDraftStore struct {
	userID string
	flow   string
}

func NewServerDraftStore(userID, flow string) *ServerDraftStore {
	return &ServerDraftStore{userID: userID, flow: flow}
}

func (s *ServerDraftStore) Load(ctx context.Context) (*wizard.Draft, bool, error) {
	var record model.WizardDraftRecord

	err := database.DB().WithContext(ctx).
		Where("user_id = ? AND flow = ?", s.userID, s.flow).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var form serverFormData
	if len(record.FormData) > 0 {
		if err := json.Unmarshal(record.FormData, &form); err != nil {
			// 坏数据当不存在处理，下一次 Save 会覆盖掉
			return nil, false, nil
		}
	}

	d := wizard.Draft{
		Step:         record.StepNumber,
		MaxReached:   form.MaxReached,
		Branch:       wizard.Branch(record.Branch),
		BranchPlanID: record.BranchPlanID,
		Fields:       form.Fields,
		Verify:       form.Verify,
	}
	if d.Step < 1 {
		d.Step = 1
	}
	// 存量行没有 max_reached，按当前步号回填
	if d.MaxReached < d.Step {
		d.MaxReached = d.Step
	}

	return &d, true, nil
}

func (s *ServerDraftStore) Save(ctx context.Context, d *wizard.Draft) error {
	form, err := json.Marshal(serverFormData{Fields: d.Fields, Verify: d.Verify, MaxReached: d.MaxReached})
	if err != nil {
		return err
	}

	record := model.WizardDraftRecord{
		UserID:       s.userID,
		Flow:         s.flow,
		StepNumber:   d.Step,
		Branch:       string(d.Branch),
		BranchPlanID: d.BranchPlanID,
		FormData:     form,
	}

	// 同一 (user_id, flow) 只留一行，后写覆盖
	return database.DB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "flow"}},
			DoUpdates: clause.AssignmentColumns([]string{"step_number", "branch", "branch_plan_id", "form_data", "updated_at"}),
		}).
		Create(&record).Error
}

func (s *ServerDraftStore) Clear(ctx context.Context) error {
	return database.DB().WithContext(ctx).
		Where("user_id = ? AND flow = ?", s.userID, s.flow).
		Delete(&model.WizardDraftRecord{}).Error
}
