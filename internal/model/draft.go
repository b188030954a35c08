package model

import (
	"gorm.io/datatypes"
)

// WizardDraftRecord 服务端权威草稿，按 (user_id, flow) 幂等 upsert。
// FormData 保存向导字段的 JSON 快照，结构由 internal/wizard.Fields 定义。
type WizardDraftRecord struct {
	BaseModel
	UserID       string         `gorm:"size:64;not null;uniqueIndex:idx_draft_user_flow,priority:1" json:"user_id"`
	Flow         string         `gorm:"size:32;not null;uniqueIndex:idx_draft_user_flow,priority:2" json:"flow"`
	StepNumber   int            `gorm:"not null;default:1" json:"step_number"`
	Branch       string         `gorm:"size:32" json:"branch"`
	BranchPlanID string         `gorm:"size:64" json:"branch_plan_id"`
	FormData     datatypes.JSON `gorm:"type:jsonb" json:"form_data"`
}

func (WizardDraftRecord) TableName() string {
	return "wizard_drafts"
}
