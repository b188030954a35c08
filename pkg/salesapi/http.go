package salesapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"DemoPilot/config"
	pkgerrors "DemoPilot/pkg/errors"
	"DemoPilot/pkg/logger"
)

// HTTPClient net/http 实现。上游是普通 REST 服务，没有官方 SDK。
type HTTPClient struct {
	baseURL string
	apiKey  string
	hc      *http.Client
}

func NewHTTPClient() *HTTPClient {
	cfg := config.Cfg
	return &HTTPClient{
		baseURL: cfg.SalesAPIBaseURL,
		apiKey:  cfg.SalesAPIKey,
		hc: &http.Client{
			Timeout: time.Duration(cfg.SalesAPITimeoutMS) * time.Millisecond,
		},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		logger.Logger.Error("Sales API request failed",
			zap.String("path", path),
			zap.Error(err),
		)
		return pkgerrors.SalesAPIUnavailable
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return pkgerrors.SalesAPIUnavailable
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// 尽量透传上游的 message
		var env apiEnvelope
		if json.Unmarshal(raw, &env) == nil && env.Message != "" {
			return pkgerrors.SalesAPIUnavailable.WithMessage(env.Message)
		}
		return pkgerrors.SalesAPIUnavailable
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode sales API response: %w", err)
		}
	}

	return nil
}

func (c *HTTPClient) SendOTP(ctx context.Context, mobile string) error {
	var env apiEnvelope
	if err := c.do(ctx, http.MethodPost, "/v1/otp/send", map[string]string{"mobile": mobile}, &env); err != nil {
		if def, ok := err.(pkgerrors.Definition); ok {
			return pkgerrors.OTPSendFailed.WithMessage(def.Message)
		}
		return err
	}
	if !env.OK {
		return pkgerrors.OTPSendFailed.WithMessage(env.Message)
	}
	return nil
}

func (c *HTTPClient) ValidateOTP(ctx context.Context, mobile, code string) error {
	var env apiEnvelope
	if err := c.do(ctx, http.MethodPost, "/v1/otp/validate", map[string]string{"mobile": mobile, "code": code}, &env); err != nil {
		if def, ok := err.(pkgerrors.Definition); ok {
			return pkgerrors.OTPValidateFailed.WithMessage(def.Message)
		}
		return err
	}
	if !env.OK {
		return pkgerrors.OTPValidateFailed.WithMessage(env.Message)
	}
	return nil
}

func (c *HTTPClient) GetPlans(ctx context.Context, applicationType string) ([]Plan, error) {
	var out struct {
		Plans []Plan `json:"plans"`
	}
	path := "/v1/plans?application_type=" + url.QueryEscape(applicationType)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Plans, nil
}

func (c *HTTPClient) GetServices(ctx context.Context, applicationType string) ([]ServiceItem, error) {
	var out struct {
		Services []ServiceItem `json:"services"`
	}
	path := "/v1/services?application_type=" + url.QueryEscape(applicationType)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		if def, ok := err.(pkgerrors.Definition); ok {
			return nil, pkgerrors.ServicesUnavailable.WithMessage(def.Message)
		}
		return nil, err
	}
	return out.Services, nil
}

func (c *HTTPClient) CalculateCustomPlan(ctx context.Context, serviceIDs []string, applicationType string) (*CustomPlanPricing, error) {
	body := map[string]interface{}{
		"service_ids":      serviceIDs,
		"application_type": applicationType,
	}
	var out struct {
		Pricing CustomPlanPricing `json:"pricing"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/custom-plan/calculate", body, &out); err != nil {
		if def, ok := err.(pkgerrors.Definition); ok {
			return nil, pkgerrors.CustomPlanUnavailable.WithMessage(def.Message)
		}
		return nil, err
	}
	return &out.Pricing, nil
}

func (c *HTTPClient) SubmitDemoRequest(ctx context.Context, input SubmitDemoRequestInput) (string, error) {
	var env apiEnvelope
	if err := c.do(ctx, http.MethodPost, "/v1/demo-requests", input, &env); err != nil {
		if def, ok := err.(pkgerrors.Definition); ok {
			return "", pkgerrors.SubmissionFailed.WithMessage(def.Message)
		}
		return "", err
	}
	if !env.OK {
		return "", pkgerrors.SubmissionFailed.WithMessage(env.Message)
	}
	return env.Message, nil
}
