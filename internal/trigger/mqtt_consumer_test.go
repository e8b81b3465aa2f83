package trigger_test

import (
	"context"
	"errors"
	"testing"

	mqttcommon "society-console/common/mqtt"
	"society-console/internal/service"
	"society-console/internal/trigger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRefresher struct {
	mock.Mock
}

func (m *mockRefresher) Refresh(userID string, target service.Target) int {
	return m.Called(userID, target).Int(0)
}

type fakeSubscriber struct {
	topic        string
	qos          byte
	handler      mqttcommon.MessageHandler
	unsubscribed []string
	err          error
}

func (f *fakeSubscriber) Subscribe(topic string, qos byte, handler mqttcommon.MessageHandler) error {
	if f.err != nil {
		return f.err
	}
	f.topic, f.qos, f.handler = topic, qos, handler
	return nil
}

func (f *fakeSubscriber) Unsubscribe(topics ...string) error {
	f.unsubscribed = append(f.unsubscribed, topics...)
	return nil
}

func TestMQTTConsumer_HandleMessage(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		userID  string
		target  service.Target
	}{
		{"dashboard for one user", `{"target":"dashboard","user_id":"u-7"}`, "u-7", service.TargetDashboard},
		{"numeric user id", `{"target":"notifications","user_id":42}`, "42", service.TargetNotifications},
		{"missing target refreshes all", `{"user_id":"u-7"}`, "u-7", service.TargetAll},
		{"unknown target refreshes all", `{"target":"ledger"}`, "", service.TargetAll},
		{"empty payload", ``, "", service.TargetAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &mockRefresher{}
			r.On("Refresh", tt.userID, tt.target).Return(1).Once()

			c := trigger.NewMQTTConsumer(&fakeSubscriber{}, "society/refresh", 1, r, zap.NewNop())
			require.NoError(t, c.HandleMessage("society/refresh", []byte(tt.payload)))
			r.AssertExpectations(t)
		})
	}
}

func TestMQTTConsumer_InvalidPayload(t *testing.T) {
	r := &mockRefresher{}
	c := trigger.NewMQTTConsumer(&fakeSubscriber{}, "society/refresh", 1, r, zap.NewNop())

	err := c.HandleMessage("society/refresh", []byte(`{"target":`))
	assert.ErrorIs(t, err, trigger.ErrInvalidPayload)

	err = c.HandleMessage("society/refresh", []byte(`{"user_id":true}`))
	assert.ErrorIs(t, err, trigger.ErrInvalidPayload)

	r.AssertNotCalled(t, "Refresh", mock.Anything, mock.Anything)
}

func TestMQTTConsumer_StartStop(t *testing.T) {
	sub := &fakeSubscriber{}
	r := &mockRefresher{}
	r.On("Refresh", "", service.TargetAll).Return(3)

	c := trigger.NewMQTTConsumer(sub, "society/refresh", 1, r, zap.NewNop())
	require.NoError(t, c.Start(context.Background()))
	assert.Equal(t, "society/refresh", sub.topic)
	assert.Equal(t, byte(1), sub.qos)

	require.NoError(t, sub.handler("society/refresh", []byte(`{"target":"all"}`)))
	r.AssertCalled(t, "Refresh", "", service.TargetAll)

	require.NoError(t, c.Stop(context.Background()))
	assert.Equal(t, []string{"society/refresh"}, sub.unsubscribed)
}

func TestMQTTConsumer_StartSubscribeError(t *testing.T) {
	sub := &fakeSubscriber{err: errors.New("broker down")}
	c := trigger.NewMQTTConsumer(sub, "society/refresh", 1, &mockRefresher{}, zap.NewNop())
	assert.Error(t, c.Start(context.Background()))
}
