package trigger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	mqttcommon "society-console/common/mqtt"
	"society-console/internal/service"

	"go.uber.org/zap"
)

// ErrInvalidPayload 刷新消息无法解析
var ErrInvalidPayload = errors.New("invalid refresh payload")

// Refresher 手动刷新入口（由会话注册表实现）
type Refresher interface {
	Refresh(userID string, target service.Target) int
}

// Subscriber MQTT 订阅能力
type Subscriber interface {
	Subscribe(topic string, qos byte, handler mqttcommon.MessageHandler) error
	Unsubscribe(topics ...string) error
}

// RefreshMessage 刷新消息；user_id 为空时刷新全部会话
type RefreshMessage struct {
	Target string `json:"target"`
	UserID string `json:"user_id"`
}

// UnmarshalJSON user_id 可以是字符串或数字
func (m *RefreshMessage) UnmarshalJSON(data []byte) error {
	var raw struct {
		Target string `json:"target"`
		UserID any    `json:"user_id"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	m.Target = raw.Target
	switch v := raw.UserID.(type) {
	case nil:
		m.UserID = ""
	case string:
		m.UserID = strings.TrimSpace(v)
	case json.Number:
		m.UserID = v.String()
	default:
		return fmt.Errorf("user_id: unsupported type %T", v)
	}
	return nil
}

// MQTTConsumer 订阅刷新主题，把外部写入事件转成手动刷新
type MQTTConsumer struct {
	subscriber Subscriber
	topic      string
	qos        byte
	refresher  Refresher
	logger     *zap.Logger
}

func NewMQTTConsumer(subscriber Subscriber, topic string, qos byte, refresher Refresher, logger *zap.Logger) *MQTTConsumer {
	return &MQTTConsumer{
		subscriber: subscriber,
		topic:      topic,
		qos:        qos,
		refresher:  refresher,
		logger:     logger,
	}
}

// Start 订阅刷新主题
func (c *MQTTConsumer) Start(ctx context.Context) error {
	if err := c.subscriber.Subscribe(c.topic, c.qos, c.HandleMessage); err != nil {
		return fmt.Errorf("failed to subscribe to refresh topic: %w", err)
	}
	c.logger.Info("Refresh trigger started", zap.String("topic", c.topic))
	return nil
}

// Stop 取消订阅
func (c *MQTTConsumer) Stop(ctx context.Context) error {
	if err := c.subscriber.Unsubscribe(c.topic); err != nil {
		c.logger.Error("Failed to unsubscribe", zap.String("topic", c.topic), zap.Error(err))
		return err
	}
	c.logger.Info("Refresh trigger stopped")
	return nil
}

// HandleMessage 处理一条刷新消息；空消息刷新全部会话
func (c *MQTTConsumer) HandleMessage(topic string, payload []byte) error {
	var msg RefreshMessage
	if len(bytes.TrimSpace(payload)) > 0 {
		if err := json.Unmarshal(payload, &msg); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
	}

	target := service.ParseTarget(msg.Target)
	n := c.refresher.Refresh(msg.UserID, target)
	c.logger.Debug("Refresh triggered",
		zap.String("topic", topic),
		zap.String("target", string(target)),
		zap.String("user_id", msg.UserID),
		zap.Int("sessions", n),
	)
	return nil
}
