package dto

// InitiatePaymentRequest 由确认步发起。金额以 paise 计避免浮点。
type InitiatePaymentRequest struct {
	AmountPaise   int64  `json:"amount_paise"`
	Flow          string `json:"flow"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
}

type InitiatePaymentResponse struct {
	OrderID  string `json:"order_id"`
	TxnToken string `json:"txn_token"`
	Amount   string `json:"amount"`
	MerchantID string `json:"merchant_id"`
}

// PaymentStatusView 查询/回调后的订单视图，向导只关心 Succeeded。
type PaymentStatusView struct {
	OrderID   string `json:"order_id"`
	Status    string `json:"status"`
	Succeeded bool   `json:"succeeded"`
	Message   string `json:"message,omitempty"`
}
