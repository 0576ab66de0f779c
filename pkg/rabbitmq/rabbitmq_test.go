package rabbitmq

import (
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

func (m *MockChannel) Close() error {
	return m.Called().Error(0)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestClient_Publish(t *testing.T) {
	ch := new(MockChannel)
	client := NewClientWithChannel(ch, "health_events", quietLogger())

	var sent amqp.Publishing
	ch.On("Publish", "", "health_events", false, false, mock.AnythingOfType("amqp.Publishing")).
		Run(func(args mock.Arguments) { sent = args.Get(4).(amqp.Publishing) }).
		Return(nil).Once()

	err := client.Publish("record.created", map[string]interface{}{"id": 3})
	require.NoError(t, err)
	ch.AssertExpectations(t)

	assert.Equal(t, "application/json", sent.ContentType)
	assert.Equal(t, "record.created", sent.Type)
	assert.Equal(t, amqp.Persistent, sent.DeliveryMode)

	var event Event
	require.NoError(t, json.Unmarshal(sent.Body, &event))
	assert.Equal(t, "record.created", event.Type)
	assert.Equal(t, sent.MessageId, event.ID)
	assert.Equal(t, map[string]interface{}{"id": float64(3)}, event.Payload)
}

func TestClient_PublishError(t *testing.T) {
	ch := new(MockChannel)
	client := NewClientWithChannel(ch, "q", quietLogger())
	ch.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("channel closed"))

	err := client.Publish("x", nil)
	assert.ErrorContains(t, err, "channel closed")
}

func TestClient_Close(t *testing.T) {
	ch := new(MockChannel)
	ch.On("Close").Return(nil).Once()
	client := NewClientWithChannel(ch, "q", quietLogger())

	assert.NoError(t, client.Close())
	ch.AssertExpectations(t)
}
