package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"DemoPilot/internal/cache"
	"DemoPilot/pkg/logger"
	"DemoPilot/storage/mq"
)

const (
	siteBuildMaxAttempts  = 5
	siteBuildRetryBackoff = 60 // 秒，乘以尝试次数
)

// SiteBuilder worker 启动时注入的建站执行器。
type SiteBuilder interface {
	Provision(ctx context.Context, domain string, fields map[string]string) error
}

var siteBuilder SiteBuilder

// SetSiteBuilder 设置建站执行器（在 worker 启动时调用）
func SetSiteBuilder(b SiteBuilder) {
	siteBuilder = b
}

// DeclareQueues 声明 worker 消费的全部队列
func DeclareQueues() error {
	if err := mq.DeclareQueue(SubmissionExchange, DemoRequestQueue, DemoRequestRoutingKey); err != nil {
		return err
	}
	return mq.DeclareQueue(SubmissionExchange, SiteBuildQueue, SiteBuildRoutingKey)
}

// StartDemoRequestConsumer 消费演示申请提交事件：记账打点，后续动作挂这里。
func StartDemoRequestConsumer(ctx context.Context) error {
	handler := func(ctx context.Context, body []byte) error {
		var msg DemoRequestSubmittedMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("failed to unmarshal demo request message: %w", err)
		}

		first, err := cache.TryMarkMessageProcessing(ctx, msg.MessageID, 24*time.Hour)
		if err != nil {
			logger.Logger.Warn("Failed to check message processed status",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
			// 检查失败继续处理，宁可重复不可丢
		} else if !first {
			logger.Logger.Info("Message already processed, skipping",
				zap.String("message_id", msg.MessageID),
			)
			return nil
		}

		if _, err := cache.IncrSubmissionCount(ctx, "demo-request"); err != nil {
			logger.Logger.Warn("Failed to bump submission counter", zap.Error(err))
		}

		logger.Logger.Info("Demo request submission recorded",
			zap.String("message_id", msg.MessageID),
			zap.String("plan_id", msg.PlanID),
			zap.Int("num_users", msg.NumUsers),
		)

		return cache.MarkMessageProcessed(ctx, msg.MessageID, 24*time.Hour)
	}

	return mq.Consume(ctx, DemoRequestQueue, handler)
}

// StartSiteBuildConsumer 消费建站任务。失败时退避重发，超过上限进死信日志。
func StartSiteBuildConsumer(ctx context.Context) error {
	handler := func(ctx context.Context, body []byte) error {
		var msg SiteBuildRequestedMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("failed to unmarshal site build message: %w", err)
		}

		first, err := cache.TryMarkMessageProcessing(ctx, msg.MessageID, 24*time.Hour)
		if err != nil {
			logger.Logger.Warn("Failed to check message processed status",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		} else if !first {
			logger.Logger.Info("Site build task already processed, skipping",
				zap.String("message_id", msg.MessageID),
			)
			return nil
		}

		if siteBuilder == nil {
			return fmt.Errorf("site builder not configured")
		}

		if err := siteBuilder.Provision(ctx, msg.Domain, msg.Fields); err != nil {
			// 标记还回去，重发的消息换 ID 重新抢
			_ = cache.UnmarkMessageProcessing(ctx, msg.MessageID)

			if msg.Attempt+1 >= siteBuildMaxAttempts {
				logger.Logger.Error("Site build task exhausted retries",
					zap.String("message_id", msg.MessageID),
					zap.String("domain", msg.Domain),
					zap.Error(err),
				)
				return nil // ack 掉，不再占着队列
			}

			retry := SiteBuildRequestedMessage{
				Fields:       msg.Fields,
				UserID:       msg.UserID,
				Domain:       msg.Domain,
				SubmittedAt:  msg.SubmittedAt,
				DelaySeconds: siteBuildRetryBackoff * (msg.Attempt + 1),
				Attempt:      msg.Attempt + 1,
			}
			if pubErr := PublishSiteBuildRequested(retry); pubErr != nil {
				return fmt.Errorf("site build failed and retry publish failed: %w", pubErr)
			}

			logger.Logger.Warn("Site build failed, retry scheduled",
				zap.String("domain", msg.Domain),
				zap.Int("next_attempt", retry.Attempt),
				zap.Error(err),
			)
			return nil
		}

		logger.Logger.Info("Site build completed",
			zap.String("message_id", msg.MessageID),
			zap.String("domain", msg.Domain),
		)

		return cache.MarkMessageProcessed(ctx, msg.MessageID, 24*time.Hour)
	}

	return mq.Consume(ctx, SiteBuildQueue, handler)
}
