package service

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"DemoPilot/config"
	"DemoPilot/internal/model"
	"DemoPilot/internal/model/dto"
	pkgerrors "DemoPilot/pkg/errors"
	"DemoPilot/pkg/logger"
	"DemoPilot/pkg/paytm"
	"DemoPilot/pkg/snowflake"
	"DemoPilot/storage/database"
)

var (
	paymentService *PaymentService
	paymentOnce    sync.Once
)

func Payment() *PaymentService {
	paymentOnce.Do(func() {
		paymentService = &PaymentService{}
	})
	return paymentService
}

type PaymentService struct{}

// Initiate 建单并向网关换取 txnToken。订单号用 snowflake，网关侧以它幂等。
func (s *PaymentService) Initiate(ctx context.Context, userID string, req *dto.InitiatePaymentRequest) (*dto.InitiatePaymentResponse, error) {
	if req.AmountPaise <= 0 {
		return nil, pkgerrors.PaymentAmountInvalid
	}

	id, err := snowflake.NextID()
	if err != nil {
		return nil, err
	}
	orderID := "DPL" + strconv.FormatInt(id, 10)

	order := model.PaymentOrder{
		OrderID:       orderID,
		UserID:        userID,
		Flow:          req.Flow,
		AmountPaise:   req.AmountPaise,
		Currency:      "INR",
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Status:        model.PaymentStatusInitiated,
	}
	if err := database.DB().WithContext(ctx).Create(&order).Error; err != nil {
		return nil, err
	}

	customerID := userID
	if customerID == "" {
		customerID = orderID
	}

	txnToken, err := paytm.GetClient().InitiateTransaction(ctx, orderID, req.AmountPaise, customerID)
	if err != nil {
		s.markFailed(ctx, orderID, err.Error())
		return nil, err
	}

	if err := database.DB().WithContext(ctx).
		Model(&model.PaymentOrder{}).
		Where("order_id = ?", orderID).
		Updates(map[string]interface{}{
			"txn_token": txnToken,
			"status":    model.PaymentStatusPending,
		}).Error; err != nil {
		return nil, err
	}

	logger.Logger.Info("Payment transaction initiated",
		zap.String("order_id", orderID),
		zap.Int64("amount_paise", req.AmountPaise),
	)

	return &dto.InitiatePaymentResponse{
		OrderID:    orderID,
		TxnToken:   txnToken,
		Amount:     strconv.FormatInt(req.AmountPaise, 10),
		MerchantID: config.Cfg.PaytmMerchantID,
	}, nil
}

// HandleCallback 网关回跳。签名先行，校不过整单拒绝。
func (s *PaymentService) HandleCallback(ctx context.Context, params map[string]string, checksum string) (*dto.PaymentStatusView, error) {
	if !paytm.VerifyParams(params, config.Cfg.PaytmMerchantKey, checksum) {
		logger.Logger.Warn("Payment callback rejected, checksum mismatch",
			zap.String("order_id", params["ORDERID"]),
		)
		return nil, pkgerrors.PaymentChecksumInvalid
	}

	orderID := params["ORDERID"]

	var order model.PaymentOrder
	dbErr := database.DB().WithContext(ctx).Where("order_id = ?", orderID).First(&order).Error
	if errors.Is(dbErr, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.PaymentOrderNotFound
	}
	if dbErr != nil {
		return nil, dbErr
	}

	// 回跳参数只做提示，终态以网关查询为准
	return s.reconcileStatus(ctx, &order)
}

// GetStatus 查询订单状态；本地为非终态时顺带与网关对账。
func (s *PaymentService) GetStatus(ctx context.Context, orderID string) (*dto.PaymentStatusView, error) {
	var order model.PaymentOrder

	err := database.DB().WithContext(ctx).Where("order_id = ?", orderID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.PaymentOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if order.Status == model.PaymentStatusSuccess || order.Status == model.PaymentStatusFailed {
		return statusView(&order, ""), nil
	}

	return s.reconcileStatus(ctx, &order)
}

func (s *PaymentService) reconcileStatus(ctx context.Context, order *model.PaymentOrder) (*dto.PaymentStatusView, error) {
	result, err := paytm.GetClient().QueryStatus(ctx, order.OrderID)
	if err != nil {
		logger.Logger.Error("Gateway status query failed",
			zap.String("order_id", order.OrderID),
			zap.Error(err),
		)
		// 查不到网关就回本地已知状态
		return statusView(order, "gateway unreachable, showing last known status"), nil
	}

	updates := map[string]interface{}{"gateway_txn_id": result.TxnID}
	switch {
	case result.Succeeded():
		updates["status"] = model.PaymentStatusSuccess
		order.Status = model.PaymentStatusSuccess
	case result.Status == "TXN_FAILURE":
		updates["status"] = model.PaymentStatusFailed
		updates["failure_reason"] = result.ResponseMsg
		order.Status = model.PaymentStatusFailed
		order.FailureReason = result.ResponseMsg
	default:
		updates["status"] = model.PaymentStatusPending
		order.Status = model.PaymentStatusPending
	}
	order.GatewayTxnID = result.TxnID

	if err := database.DB().WithContext(ctx).
		Model(&model.PaymentOrder{}).
		Where("order_id = ?", order.OrderID).
		Updates(updates).Error; err != nil {
		return nil, err
	}

	return statusView(order, result.ResponseMsg), nil
}

func (s *PaymentService) markFailed(ctx context.Context, orderID, reason string) {
	if err := database.DB().WithContext(ctx).
		Model(&model.PaymentOrder{}).
		Where("order_id = ?", orderID).
		Updates(map[string]interface{}{
			"status":         model.PaymentStatusFailed,
			"failure_reason": reason,
		}).Error; err != nil {
		logger.Logger.Error("Failed to mark payment order failed",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
	}
}

func statusView(order *model.PaymentOrder, message string) *dto.PaymentStatusView {
	return &dto.PaymentStatusView{
		OrderID:   order.OrderID,
		Status:    string(order.Status),
		Succeeded: order.Status == model.PaymentStatusSuccess,
		Message:   message,
	}
}
