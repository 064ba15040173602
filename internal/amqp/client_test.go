package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"financas/internal/core"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},
		{15, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			if got := exponentialBackoff(tt.attempt); got != tt.expected {
				t.Errorf("exponentialBackoff(%d) = %v, want %v", tt.attempt, got, tt.expected)
			}
		})
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"connection refused", errors.New("connection refused"), true},
		{"unexpected EOF", errors.New("unexpected EOF"), true},
		{"broken pipe", errors.New("broken pipe"), true},
		{"closed channel", amqp091.ErrClosed, true},
		{"other error", errors.New("invalid input"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConnectionError(tt.err); got != tt.expected {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestClient_CircuitBreaker(t *testing.T) {
	client := &Client{exchangeName: "financas", queueName: "ledger_changed"}

	assert.False(t, client.isCircuitOpen(), "closed initially")

	for i := 0; i < maxFailures; i++ {
		client.recordFailure()
	}
	assert.True(t, client.isCircuitOpen(), "open after max failures")

	client.mu.Lock()
	client.lastFailure = time.Now().Add(-openTimeout - time.Second)
	client.mu.Unlock()
	assert.False(t, client.isCircuitOpen(), "half-open after timeout")
	assert.Equal(t, StateHalfOpen, atomic.LoadInt32(&client.state))

	client.recordFailure()
	assert.Equal(t, StateOpen, atomic.LoadInt32(&client.state), "a failure while half-open reopens")

	client.recordSuccess()
	assert.False(t, client.isCircuitOpen())
	assert.Equal(t, int64(0), atomic.LoadInt64(&client.failureCount))
}

type fakePublisher struct {
	err       error
	exchange  string
	key       string
	published []amqp091.Publishing
}

func (f *fakePublisher) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp091.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.exchange, f.key = exchange, key
	f.published = append(f.published, msg)
	return nil
}

func TestClient_PublishLedgerChanged(t *testing.T) {
	pub := &fakePublisher{}
	client := &Client{exchangeName: "financas", queueName: "ledger_changed", pub: pub}

	rows := []core.Row{{Date: "2024-01-10", Type: "Receita", Category: "Salário", Amount: "1000.00"}}
	require.NoError(t, client.PublishLedgerChanged(context.Background(), OpAppend, rows))

	require.Len(t, pub.published, 1)
	assert.Equal(t, "financas", pub.exchange)
	assert.Equal(t, "ledger_changed", pub.key)
	p := pub.published[0]
	assert.Equal(t, "application/json", p.ContentType)
	assert.Equal(t, amqp091.Persistent, p.DeliveryMode)

	msg, err := LedgerChangedMessageFromJSON(p.Body)
	require.NoError(t, err)
	assert.Equal(t, p.MessageId, msg.ID)
	assert.Equal(t, OpAppend, msg.Op)
	assert.Equal(t, rows, msg.Rows)
}

func TestClient_PublishFailuresOpenCircuit(t *testing.T) {
	pub := &fakePublisher{err: errors.New("precondition failed")}
	client := &Client{exchangeName: "financas", queueName: "ledger_changed", pub: pub}
	ctx := context.Background()

	for i := 0; i < maxFailures; i++ {
		assert.Error(t, client.PublishLedgerChanged(ctx, OpClear, nil))
	}
	err := client.PublishLedgerChanged(ctx, OpClear, nil)
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestClient_PublishRespectsCancellation(t *testing.T) {
	client := &Client{pub: &fakePublisher{}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, client.PublishLedgerChanged(ctx, OpClear, nil), context.Canceled)
}

type fakeAcknowledger struct {
	acked, nacked, rejected int
	requeue                 bool
}

func (f *fakeAcknowledger) Ack(uint64, bool) error { f.acked++; return nil }
func (f *fakeAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	f.nacked++
	f.requeue = requeue
	return nil
}
func (f *fakeAcknowledger) Reject(_ uint64, requeue bool) error {
	f.rejected++
	f.requeue = requeue
	return nil
}

func TestHandleDelivery(t *testing.T) {
	body, err := NewLedgerChangedMessage(OpClear, nil).ToJSON()
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("ack on success", func(t *testing.T) {
		ack := &fakeAcknowledger{}
		var got *LedgerChangedMessage
		handleDelivery(ctx, amqp091.Delivery{Acknowledger: ack, Body: body}, func(_ context.Context, m *LedgerChangedMessage) error {
			got = m
			return nil
		})
		assert.Equal(t, 1, ack.acked)
		require.NotNil(t, got)
		assert.Equal(t, OpClear, got.Op)
	})

	t.Run("drop on handler error", func(t *testing.T) {
		ack := &fakeAcknowledger{requeue: true}
		handleDelivery(ctx, amqp091.Delivery{Acknowledger: ack, Body: body}, func(context.Context, *LedgerChangedMessage) error {
			return errors.New("mirror unavailable")
		})
		assert.Equal(t, 1, ack.nacked)
		assert.False(t, ack.requeue, "a failing mirror must not spin on the same message")
		assert.Zero(t, ack.acked)
	})

	t.Run("reject undecodable body", func(t *testing.T) {
		ack := &fakeAcknowledger{}
		called := false
		handleDelivery(ctx, amqp091.Delivery{Acknowledger: ack, Body: []byte("{not json")}, func(context.Context, *LedgerChangedMessage) error {
			called = true
			return nil
		})
		assert.False(t, called)
		assert.Equal(t, 1, ack.rejected)
		assert.False(t, ack.requeue)
	})
}

func TestLedgerChangedMessage(t *testing.T) {
	msg := NewLedgerChangedMessage(OpAppend, nil)
	_, err := uuid.Parse(msg.ID)
	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now(), msg.Timestamp, time.Minute)

	body, err := msg.ToJSON()
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(body, &raw))
	assert.Equal(t, "append", raw["op"])
	assert.NotContains(t, raw, "rows")

	_, err = LedgerChangedMessageFromJSON([]byte(`{"id":"` + msg.ID + `","op":"delete"}`))
	assert.ErrorContains(t, err, "unknown ledger operation")

	_, err = LedgerChangedMessageFromJSON([]byte(`{"id":"nope","op":"clear"}`))
	assert.ErrorContains(t, err, "invalid message id")
}
