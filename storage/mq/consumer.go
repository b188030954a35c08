package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"DemoPilot/pkg/logger"
)

// HandlerFunc 处理一条消息，返回 error 时 nack 并重新入队
type HandlerFunc func(ctx context.Context, body []byte) error

// DeclareQueue 声明队列并绑定到 exchange。
// exchange 用 rabbitmq_delayed_message_exchange 插件类型，x-delay 头才生效。
func DeclareQueue(exchange, queue, routingKey string) error {
	ch, err := getPublisherChannel()
	if err != nil {
		return err
	}

	if exchange != "" {
		args := amqp.Table{"x-delayed-type": "topic"}
		if err := ch.ExchangeDeclare(exchange, "x-delayed-message", true, false, false, false, args); err != nil {
			return fmt.Errorf("failed to declare exchange: %w", err)
		}
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if exchange != "" {
		if err := ch.QueueBind(queue, routingKey, exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue: %w", err)
		}
	}

	return nil
}

// Consume 阻塞消费指定队列，ctx 取消后退出
func Consume(ctx context.Context, queue string, handler HandlerFunc) error {
	if conn == nil {
		return fmt.Errorf("RabbitMQ connection is nil")
	}

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open consume channel: %w", err)
	}
	defer ch.Close()

	if err := ch.Qos(10, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	deliveries, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	logger.Logger.Info("Consumer started", zap.String("queue", queue))

	for {
		select {
		case <-ctx.Done():
			logger.Logger.Info("Consumer stopping", zap.String("queue", queue))
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed for queue %s", queue)
			}

			if err := handler(ctx, d.Body); err != nil {
				logger.Logger.Error("Message handling failed",
					zap.String("queue", queue),
					zap.Error(err),
				)
				_ = d.Nack(false, requeueDecision(d))
				continue
			}

			_ = d.Ack(false)
		}
	}
}

// 第一次失败重新入队，再次失败丢给死信（没有配置死信时直接丢弃）
func requeueDecision(d amqp.Delivery) bool {
	return !d.Redelivered
}
