package queue

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"DemoPilot/pkg/logger"
	"DemoPilot/pkg/snowflake"
	"DemoPilot/storage/mq"
)

const (
	SubmissionExchange = "submission.topic"

	DemoRequestRoutingKey = "submission.demo_request"
	SiteBuildRoutingKey   = "submission.site_build"

	DemoRequestQueue = "submission.demo_request.worker"
	SiteBuildQueue   = "submission.site_build.worker"
)

// PublishDemoRequestSubmitted 发布演示申请提交事件
func PublishDemoRequestSubmitted(msg DemoRequestSubmittedMessage) error {
	if msg.MessageID == "" {
		id, err := snowflake.NextID()
		if err != nil {
			return fmt.Errorf("failed to generate message ID: %w", err)
		}
		msg.MessageID = fmt.Sprintf("demo_submitted_%d", id)
	}
	if msg.SubmittedAt == "" {
		msg.SubmittedAt = time.Now().Format(time.RFC3339)
	}

	err := mq.PublishMessage(SubmissionExchange, DemoRequestRoutingKey, msg)
	if err != nil {
		logger.Logger.Error("Failed to publish demo request submitted event",
			zap.String("message_id", msg.MessageID),
			zap.Error(err),
		)
		return err
	}

	logger.Logger.Info("Published demo request submitted event",
		zap.String("message_id", msg.MessageID),
		zap.String("plan_id", msg.PlanID),
	)

	return nil
}

// PublishSiteBuildRequested 发布建站任务（重试时带延迟退避）
func PublishSiteBuildRequested(msg SiteBuildRequestedMessage) error {
	if msg.MessageID == "" {
		id, err := snowflake.NextID()
		if err != nil {
			return fmt.Errorf("failed to generate message ID: %w", err)
		}
		msg.MessageID = fmt.Sprintf("site_build_%d", id)
	}
	if msg.SubmittedAt == "" {
		msg.SubmittedAt = time.Now().Format(time.RFC3339)
	}

	var err error
	if msg.DelaySeconds > 0 {
		err = mq.PublishDelayedMessage(
			SubmissionExchange,
			SiteBuildRoutingKey,
			time.Duration(msg.DelaySeconds)*time.Second,
			msg,
		)
	} else {
		err = mq.PublishMessage(SubmissionExchange, SiteBuildRoutingKey, msg)
	}

	if err != nil {
		logger.Logger.Error("Failed to publish site build task",
			zap.String("message_id", msg.MessageID),
			zap.String("domain", msg.Domain),
			zap.Error(err),
		)
		return err
	}

	logger.Logger.Info("Published site build task",
		zap.String("message_id", msg.MessageID),
		zap.String("domain", msg.Domain),
		zap.Int("attempt", msg.Attempt),
	)

	return nil
}
