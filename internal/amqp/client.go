// Package amqp publishes and consumes ledger change events over RabbitMQ.
package amqp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"financas/internal/core"

	"github.com/rabbitmq/amqp091-go"
)

// Circuit breaker states.
const (
	StateClosed int32 = iota
	StateOpen
	StateHalfOpen
)

const (
	maxFailures    = 5
	openTimeout    = 30 * time.Second
	maxBackoff     = 30 * time.Second
	publishTimeout = 5 * time.Second
)

// ErrCircuitOpen is returned by publish calls while the broker is considered down.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

type Client struct {
	url          string
	exchangeName string
	queueName    string

	mu      sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel
	pub     publisher

	failureCount int64
	state        int32
	lastFailure  time.Time
}

// NewClient connects to the broker and declares the exchange, queue and binding.
func NewClient(url, exchangeName, queueName string) (*Client, error) {
	c := &Client{url: url, exchangeName: exchangeName, queueName: queueName}
	if err := c.connect(); err != nil {
		return nil, err
	}
	return c, nil
}

// DialWithRetry calls NewClient until it succeeds, attempts run out or ctx is done.
func DialWithRetry(ctx context.Context, url, exchangeName, queueName string, attempts int) (*Client, error) {
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		c, err := NewClient(url, exchangeName, queueName)
		if err == nil {
			return c, nil
		}
		lastErr = err
		wait := exponentialBackoff(attempt)
		slog.WarnContext(ctx, "AMQP connection failed, retrying",
			"attempt", attempt+1,
			"retry_in", wait,
			"error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, fmt.Errorf("connect to AMQP after %d attempts: %w", attempts, lastErr)
}

func (c *Client) connect() error {
	conn, err := amqp091.Dial(c.url)
	if err != nil {
		return fmt.Errorf("dial AMQP: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}
	if err := setup(channel, c.exchangeName, c.queueName); err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("setup exchange and queue: %w", err)
	}
	c.conn = conn
	c.channel = channel
	c.pub = channel
	return nil
}

func setup(ch *amqp091.Channel, exchangeName, queueName string) error {
	err := ch.ExchangeDeclare(
		exchangeName, // name
		"direct",     // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// routing key is the queue name on the direct exchange
	if err := ch.QueueBind(queueName, queueName, exchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// publisher returns the current channel, reconnecting after a dropped connection.
func (c *Client) publisher() (publisher, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pub != nil {
		return c.pub, nil
	}
	if err := c.connect(); err != nil {
		return nil, err
	}
	return c.pub, nil
}

func (c *Client) dropConnection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		c.conn.Close()
	}
	c.conn, c.channel, c.pub = nil, nil, nil
}

// PublishLedgerChanged publishes a persistent change event for op.
func (c *Client) PublishLedgerChanged(ctx context.Context, op string, rows []core.Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.isCircuitOpen() {
		return fmt.Errorf("%w, skipping %s event", ErrCircuitOpen, op)
	}

	msg := NewLedgerChangedMessage(op, rows)
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	pub, err := c.publisher()
	if err != nil {
		c.recordFailure()
		return err
	}

	pctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = pub.PublishWithContext(
		pctx,
		c.exchangeName, // exchange
		c.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    msg.ID,
			Timestamp:    msg.Timestamp,
			Body:         body,
		},
	)
	if err != nil {
		c.recordFailure()
		if isConnectionError(err) {
			c.dropConnection()
		}
		return fmt.Errorf("publish message: %w", err)
	}
	c.recordSuccess()

	slog.InfoContext(ctx, "Published ledger changed message",
		"message_id", msg.ID,
		"op", op,
		"rows", len(rows),
		"exchange", c.exchangeName,
		"queue", c.queueName)
	return nil
}

// ConsumeLedgerChanged delivers change events to handler one at a time until
// ctx is done or the channel closes.
func (c *Client) ConsumeLedgerChanged(ctx context.Context, handler func(context.Context, *LedgerChangedMessage) error) error {
	c.mu.Lock()
	ch := c.channel
	c.mu.Unlock()
	if ch == nil {
		return errors.New("AMQP channel not open")
	}

	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set prefetch: %w", err)
	}
	msgs, err := ch.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming ledger changed messages", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping message consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return errors.New("message channel closed")
			}
			handleDelivery(ctx, delivery, handler)
		}
	}
}

// handleDelivery acks on success and rejects undecodable bodies. A failed
// handler drops the message instead of requeueing it: every sync copies the
// whole ledger, so the next event or periodic resync catches up.
func handleDelivery(ctx context.Context, d amqp091.Delivery, handler func(context.Context, *LedgerChangedMessage) error) {
	msg, err := LedgerChangedMessageFromJSON(d.Body)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to decode message, rejecting", "error", err)
		_ = d.Reject(false)
		return
	}

	if err := handler(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to handle message, dropping",
			"message_id", msg.ID,
			"op", msg.Op,
			"error", err)
		_ = d.Nack(false, false)
		return
	}

	_ = d.Ack(false)
	slog.InfoContext(ctx, "Processed ledger changed message", "message_id", msg.ID, "op", msg.Op)
}

func (c *Client) isCircuitOpen() bool {
	if atomic.LoadInt32(&c.state) != StateOpen {
		return false
	}
	c.mu.Lock()
	last := c.lastFailure
	c.mu.Unlock()
	if time.Since(last) > openTimeout {
		atomic.StoreInt32(&c.state, StateHalfOpen)
		return false
	}
	return true
}

func (c *Client) recordSuccess() {
	atomic.StoreInt64(&c.failureCount, 0)
	atomic.StoreInt32(&c.state, StateClosed)
}

func (c *Client) recordFailure() {
	c.mu.Lock()
	c.lastFailure = time.Now()
	c.mu.Unlock()
	if atomic.AddInt64(&c.failureCount, 1) >= maxFailures || atomic.LoadInt32(&c.state) == StateHalfOpen {
		atomic.StoreInt32(&c.state, StateOpen)
	}
}

// exponentialBackoff returns 1s, 2s, 4s ... capped at maxBackoff.
func exponentialBackoff(attempt int) time.Duration {
	if attempt >= 5 {
		return maxBackoff
	}
	d := time.Second << attempt
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, amqp091.ErrClosed) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"connection", "eof", "broken pipe", "channel/connection is not open"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
