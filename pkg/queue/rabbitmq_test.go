package queue

import (
	"encoding/json"
	"errors"
	"testing"

	"soundstage/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAck struct {
	acked    bool
	nacked   bool
	requeued bool
}

func (r *recordingAck) Ack(tag uint64, multiple bool) error {
	r.acked = true
	return nil
}

func (r *recordingAck) Nack(tag uint64, multiple, requeue bool) error {
	r.nacked = true
	r.requeued = requeue
	return nil
}

func (r *recordingAck) Reject(tag uint64, requeue bool) error {
	return r.Nack(tag, false, requeue)
}

func delivery(t *testing.T, body []byte) (amqp.Delivery, *recordingAck) {
	t.Helper()
	ack := &recordingAck{}
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: body}, ack
}

func TestHandleDelivery_Ack(t *testing.T) {
	event := NewLedgerEvent(EventRSVPSettled, "user-1", "rsvp-1")
	event.Coins = 500
	body, err := json.Marshal(event)
	require.NoError(t, err)

	msg, ack := delivery(t, body)
	var got LedgerEvent
	handleDelivery(msg, func(e LedgerEvent) error {
		got = e
		return nil
	}, logger.NewNop())

	assert.True(t, ack.acked)
	assert.False(t, ack.nacked)
	assert.Equal(t, event.ID, got.ID)
	assert.Equal(t, int64(500), got.Coins)
}

func TestHandleDelivery_MalformedIsDropped(t *testing.T) {
	msg, ack := delivery(t, []byte("{not json"))
	called := false
	handleDelivery(msg, func(e LedgerEvent) error {
		called = true
		return nil
	}, logger.NewNop())

	assert.False(t, called)
	assert.True(t, ack.nacked)
	assert.False(t, ack.requeued)
}

func TestHandleDelivery_MissingTypeIsDropped(t *testing.T) {
	msg, ack := delivery(t, []byte(`{"id":"x"}`))
	handleDelivery(msg, func(e LedgerEvent) error { return nil }, logger.NewNop())

	assert.True(t, ack.nacked)
	assert.False(t, ack.requeued)
}

func TestHandleDelivery_HandlerErrorRequeues(t *testing.T) {
	body, _ := json.Marshal(NewLedgerEvent(EventCoinsCredited, "user-1", "tx-1"))
	msg, ack := delivery(t, body)
	handleDelivery(msg, func(e LedgerEvent) error {
		return errors.New("redis down")
	}, logger.NewNop())

	assert.True(t, ack.nacked)
	assert.True(t, ack.requeued)
}
