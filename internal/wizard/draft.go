package wizard

import (
	"encoding/json"
	"net/url"
	"strconv"
)

// Branch 标记无法单用 step 序号表达的子视图。
type Branch string

const (
	BranchNone          Branch = ""
	BranchCustomPlan    Branch = "custom-plan"
	BranchPricing       Branch = "pricing"
	BranchCustomPricing Branch = "custom-pricing"
)

// Fields 向导表单字段的封闭集合。
// 字段名即线上 JSON key，新字段必须同时登记到 fieldRefs。
type Fields struct {
	// 演示申请流第一步
	CompanyName    string `json:"company_name,omitempty"`
	CompanyTitle   string `json:"company_title,omitempty"`
	Website        string `json:"website,omitempty"`
	Email          string `json:"email,omitempty"`
	Mobile         string `json:"mobile,omitempty"`
	ContactPerName string `json:"contact_per_name,omitempty"`
	Address        string `json:"address,omitempty"`

	// 套餐/定价步
	PlanID     string `json:"plan_id,omitempty"`
	PlanName   string `json:"plan_name,omitempty"`
	PricingID  string `json:"pricing_id,omitempty"`
	Tenure     string `json:"tenure,omitempty"` // monthly, quarterly, half_yearly, yearly
	NumUsers   string `json:"num_users,omitempty"`
	ServiceIDs string `json:"service_ids,omitempty"` // 自选套餐勾选的服务，逗号分隔

	// 建站流
	Domain         string `json:"domain,omitempty"`
	BusinessSector string `json:"business_sector,omitempty"`
	CompanyDetails string `json:"company_details,omitempty"`
	ContentBrief   string `json:"content_brief,omitempty"`
}

func fieldRefs(f *Fields) map[string]*string {
	return map[string]*string{
		"company_name":     &f.CompanyName,
		"company_title":    &f.CompanyTitle,
		"website":          &f.Website,
		"email":            &f.Email,
		"mobile":           &f.Mobile,
		"contact_per_name": &f.ContactPerName,
		"address":          &f.Address,
		"plan_id":          &f.PlanID,
		"plan_name":        &f.PlanName,
		"pricing_id":       &f.PricingID,
		"tenure":           &f.Tenure,
		"num_users":        &f.NumUsers,
		"service_ids":      &f.ServiceIDs,
		"domain":           &f.Domain,
		"business_sector":  &f.BusinessSector,
		"company_details":  &f.CompanyDetails,
		"content_brief":    &f.ContentBrief,
	}
}

// Set 写入一个具名字段；未登记的字段名返回 false。
func (f *Fields) Set(name, value string) bool {
	ref, ok := fieldRefs(f)[name]
	if !ok {
		return false
	}
	*ref = value
	return true
}

// Get 读取一个具名字段。
func (f *Fields) Get(name string) (string, bool) {
	ref, ok := fieldRefs(f)[name]
	if !ok {
		return "", false
	}
	return *ref, true
}

// ToMap 导出非空字段。
func (f *Fields) ToMap() map[string]string {
	out := make(map[string]string)
	for name, ref := range fieldRefs(f) {
		if *ref != "" {
			out[name] = *ref
		}
	}
	return out
}

// FieldsFromMap 只吸收登记过的字段，未知 key 丢弃。
func FieldsFromMap(m map[string]string) Fields {
	var f Fields
	for name, value := range m {
		f.Set(name, value)
	}
	return f
}

// IsZero 所有字段均为空。
func (f *Fields) IsZero() bool {
	for _, ref := range fieldRefs(f) {
		if *ref != "" {
			return false
		}
	}
	return true
}

// VerifyState 记录 OTP 验证过的渠道值。
// 手机号被改动后该值必须被清空，验证只对当时那个号码有效。
type VerifyState struct {
	Value string `json:"value,omitempty"`
}

// Draft 向导进行中的可序列化快照。
// MaxReached 记录通过校验门真正到达过的最高步号，popstate 只能恢复到这条线以内。
type Draft struct {
	Step         int         `json:"step"`
	MaxReached   int         `json:"max_reached,omitempty"`
	Branch       Branch      `json:"branch,omitempty"`
	BranchPlanID string      `json:"branch_plan_id,omitempty"`
	Fields       Fields      `json:"fields"`
	Verify       VerifyState `json:"verify,omitempty"`
}

// NewDraft 初始空草稿。
func NewDraft() Draft {
	return Draft{Step: 1, MaxReached: 1}
}

// IsEmpty 字段全空、处于第一步、无分支视图。
// 空草稿永远不落库，落空等价于清除。
func (d *Draft) IsEmpty() bool {
	return d.Step <= 1 && d.Branch == BranchNone && d.Fields.IsZero()
}

// MobileVerified 验证值必须与当前手机号逐字相等。
func (d *Draft) MobileVerified() bool {
	return d.Verify.Value != "" && d.Verify.Value == d.Fields.Mobile
}

// hasSupportingData 第 2 步以后必须有第一步的支撑数据。
func (d *Draft) hasSupportingData() bool {
	return !d.Fields.IsZero()
}

// Normalize 载入时自愈：越界步号收敛、非法分支清除、
// step>1 但没有任何支撑数据时强制回到第一步。
func (d *Draft) Normalize(flow *Flow) {
	if d.Step < 1 {
		d.Step = 1
	}
	if d.Step > flow.MaxStep {
		d.Step = flow.MaxStep
	}

	if d.Branch != BranchNone && !flow.BranchLegalAt(d.Branch, d.Step) {
		d.Branch = BranchNone
		d.BranchPlanID = ""
	}

	if d.MaxReached < d.Step {
		d.MaxReached = d.Step
	}
	if d.MaxReached > flow.MaxStep {
		d.MaxReached = flow.MaxStep
	}

	if d.Step > 1 && !d.hasSupportingData() {
		d.Step = 1
		d.MaxReached = 1
		d.Branch = BranchNone
		d.BranchPlanID = ""
	}

	if d.Verify.Value != "" && d.Verify.Value != d.Fields.Mobile {
		d.Verify.Value = ""
	}
}

// Clone 深拷贝（Fields 为纯值类型，浅拷贝即深拷贝）。
func (d *Draft) Clone() Draft {
	return *d
}

// Equal 字段级相等比较，用于双存储漂移检测。
func (d *Draft) Equal(other *Draft) bool {
	if other == nil {
		return false
	}
	return d.Step == other.Step &&
		d.MaxReached == other.MaxReached &&
		d.Branch == other.Branch &&
		d.BranchPlanID == other.BranchPlanID &&
		d.Fields == other.Fields
}

// EncodeQuery 把当前状态编码进 URL query，供 history 同步。
// 空草稿编码为空串，reset 后 URL 参数随之清空。
func (d *Draft) EncodeQuery() string {
	if d.IsEmpty() {
		return ""
	}

	v := url.Values{}
	v.Set("step", strconv.Itoa(d.Step))
	if d.Branch != BranchNone {
		v.Set("view", string(d.Branch))
	}
	if d.BranchPlanID != "" {
		v.Set("plan", d.BranchPlanID)
	}
	return v.Encode()
}

// StateFromQuery 从 URL query 还原 step/branch（popstate 无携带状态时的回退）。
func StateFromQuery(query string) (step int, branch Branch, planID string, ok bool) {
	v, err := url.ParseQuery(query)
	if err != nil {
		return 0, BranchNone, "", false
	}

	step, err = strconv.Atoi(v.Get("step"))
	if err != nil || step < 1 {
		return 0, BranchNone, "", false
	}

	return step, Branch(v.Get("view")), v.Get("plan"), true
}

// MarshalDraft / UnmarshalDraft 双存储共用的序列化格式。
func MarshalDraft(d *Draft) ([]byte, error) {
	return json.Marshal(d)
}

func UnmarshalDraft(data []byte) (*Draft, error) {
	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	if d.Step < 1 {
		d.Step = 1
	}
	// 老格式没有 max_reached，按当前步号回填
	if d.MaxReached < d.Step {
		d.MaxReached = d.Step
	}
	return &d, nil
}
