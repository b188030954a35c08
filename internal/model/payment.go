package model

// 支付订单状态
type PaymentStatus string

const (
	PaymentStatusInitiated PaymentStatus = "INITIATED"
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusSuccess   PaymentStatus = "SUCCESS"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// PaymentOrder 一次 Paytm 交易的本地镜像。
// OrderID 为 snowflake 生成的商户订单号，网关侧以它为幂等键。
type PaymentOrder struct {
	BaseModel
	OrderID       string        `gorm:"size:64;not null;uniqueIndex" json:"order_id"`
	UserID        string        `gorm:"size:64;index" json:"user_id"`
	Flow          string        `gorm:"size:32" json:"flow"`
	AmountPaise   int64         `gorm:"not null" json:"amount_paise"`
	Currency      string        `gorm:"size:8;not null;default:'INR'" json:"currency"`
	CustomerEmail string        `gorm:"size:256" json:"customer_email"`
	CustomerPhone string        `gorm:"size:16" json:"customer_phone"`
	Status        PaymentStatus `gorm:"size:16;not null;default:'INITIATED';index" json:"status"`
	TxnToken      string        `gorm:"size:128" json:"-"`
	GatewayTxnID  string        `gorm:"size:128" json:"gateway_txn_id"`
	FailureReason string        `gorm:"size:512" json:"failure_reason,omitempty"`
}

func (PaymentOrder) TableName() string {
	return "payment_orders"
}
