package paytm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"DemoPilot/config"
	pkgerrors "DemoPilot/pkg/errors"
	"DemoPilot/pkg/logger"
)

// Client 支付网关接口。向导只消费 InitiateTransaction / QueryStatus 两个操作，
// 回调校验在 checksum.go。
type Client interface {
	// InitiateTransaction 创建网关侧交易，返回 txnToken
	InitiateTransaction(ctx context.Context, orderID string, amountPaise int64, customerID string) (string, error)
	// QueryStatus 查询订单当前状态
	QueryStatus(ctx context.Context, orderID string) (*StatusResult, error)
}

// StatusResult 网关状态查询结果。
type StatusResult struct {
	OrderID      string `json:"order_id"`
	TxnID        string `json:"txn_id"`
	Status       string `json:"status"` // TXN_SUCCESS, TXN_FAILURE, PENDING
	ResponseMsg  string `json:"response_msg"`
}

func (r *StatusResult) Succeeded() bool {
	return r.Status == "TXN_SUCCESS"
}

var (
	paytmClient Client
	paytmOnce   sync.Once
)

// Init 初始化支付网关客户端。未配置商户时不报错，调用时返回 PaymentNotConfigured。
func Init() error {
	paytmOnce.Do(func() {
		cfg := config.Cfg

		if cfg.PaytmMerchantID == "" || cfg.PaytmMerchantKey == "" {
			paytmClient = &disabledClient{}
			logger.Logger.Warn("Paytm merchant credentials missing, payment client disabled")
			return
		}

		paytmClient = &gatewayClient{
			merchantID:  cfg.PaytmMerchantID,
			merchantKey: cfg.PaytmMerchantKey,
			website:     cfg.PaytmWebsite,
			gateway:     cfg.PaytmGateway,
			callbackURL: cfg.PaytmCallbackURL,
			hc:          &http.Client{Timeout: 10 * time.Second},
		}
		logger.Logger.Info("Paytm client initialized successfully",
			zap.String("gateway", cfg.PaytmGateway),
			zap.String("website", cfg.PaytmWebsite),
		)
	})

	return nil
}

func GetClient() Client {
	if paytmClient == nil {
		panic("Paytm client not initialized, call paytm.Init() first")
	}
	return paytmClient
}

// SetClient 测试注入用
func SetClient(c Client) {
	paytmClient = c
}

type disabledClient struct{}

func (d *disabledClient) InitiateTransaction(ctx context.Context, orderID string, amountPaise int64, customerID string) (string, error) {
	return "", pkgerrors.PaymentNotConfigured
}

func (d *disabledClient) QueryStatus(ctx context.Context, orderID string) (*StatusResult, error) {
	return nil, pkgerrors.PaymentNotConfigured
}

type gatewayClient struct {
	merchantID  string
	merchantKey string
	website     string
	gateway     string
	callbackURL string
	hc          *http.Client
}

func (g *gatewayClient) InitiateTransaction(ctx context.Context, orderID string, amountPaise int64, customerID string) (string, error) {
	body := map[string]interface{}{
		"requestType": "Payment",
		"mid":         g.merchantID,
		"websiteName": g.website,
		"orderId":     orderID,
		"callbackUrl": g.callbackURL,
		"txnAmount": map[string]string{
			"value":    paiseToRupees(amountPaise),
			"currency": "INR",
		},
		"userInfo": map[string]string{
			"custId": customerID,
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal initiate request: %w", err)
	}

	signature, err := GenerateSignature(string(payload), g.merchantKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign initiate request: %w", err)
	}

	envelope := map[string]interface{}{
		"body": json.RawMessage(payload),
		"head": map[string]string{"signature": signature},
	}

	url := fmt.Sprintf("%s/theia/api/v1/initiateTransaction?mid=%s&orderId=%s", g.gateway, g.merchantID, orderID)
	var out struct {
		Body struct {
			ResultInfo struct {
				ResultStatus string `json:"resultStatus"`
				ResultMsg    string `json:"resultMsg"`
			} `json:"resultInfo"`
			TxnToken string `json:"txnToken"`
		} `json:"body"`
	}

	if err := g.post(ctx, url, envelope, &out); err != nil {
		return "", err
	}

	if out.Body.ResultInfo.ResultStatus != "S" {
		return "", pkgerrors.PaymentInitiateFailed.WithMessage(out.Body.ResultInfo.ResultMsg)
	}

	return out.Body.TxnToken, nil
}

func (g *gatewayClient) QueryStatus(ctx context.Context, orderID string) (*StatusResult, error) {
	body := map[string]string{
		"mid":     g.merchantID,
		"orderId": orderID,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal status request: %w", err)
	}

	signature, err := GenerateSignature(string(payload), g.merchantKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign status request: %w", err)
	}

	envelope := map[string]interface{}{
		"body": json.RawMessage(payload),
		"head": map[string]string{"signature": signature},
	}

	var out struct {
		Body struct {
			ResultInfo struct {
				ResultStatus string `json:"resultStatus"`
				ResultMsg    string `json:"resultMsg"`
			} `json:"resultInfo"`
			TxnID string `json:"txnId"`
		} `json:"body"`
	}

	url := g.gateway + "/v3/order/status"
	if err := g.post(ctx, url, envelope, &out); err != nil {
		return nil, err
	}

	return &StatusResult{
		OrderID:     orderID,
		TxnID:       out.Body.TxnID,
		Status:      out.Body.ResultInfo.ResultStatus,
		ResponseMsg: out.Body.ResultInfo.ResultMsg,
	}, nil
}

func (g *gatewayClient) post(ctx context.Context, url string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal gateway request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.hc.Do(req)
	if err != nil {
		logger.Logger.Error("Paytm gateway request failed", zap.Error(err))
		return pkgerrors.PaymentInitiateFailed
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return pkgerrors.PaymentInitiateFailed
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return pkgerrors.PaymentInitiateFailed
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode gateway response: %w", err)
	}

	return nil
}

func paiseToRupees(paise int64) string {
	return fmt.Sprintf("%d.%02d", paise/100, paise%100)
}
