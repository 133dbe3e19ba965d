package amqp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"okane/internal/log"
	"okane/internal/store"
)

// Circuit breaker states
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
	maxAttempts    = 3
	queueSize      = 256
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

// Client publishes store change events to a direct exchange. Events are
// queued by Observe and published by Run so that store mutations never wait
// on the broker.
type Client struct {
	url          string
	exchangeName string
	routingKey   string
	logger       *log.Logger

	connMu  sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel

	state        int32
	failureCount int64
	lastFailure  time.Time

	queue   chan ChangeMessage
	dropped atomic.Int64
}

func NewClient(url, exchangeName, routingKey string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Client{
		url:          url,
		exchangeName: exchangeName,
		routingKey:   routingKey,
		logger:       logger.WithComponent(log.ComponentAMQP),
		queue:        make(chan ChangeMessage, queueSize),
	}
}

// Connect dials the broker and declares the exchange.
func (c *Client) Connect() error {
	c.connMu.Lock()
	defer c.connMu.Unlock()
	return c.connectLocked()
}

func (c *Client) connectLocked() error {
	if c.channel != nil && !c.channel.IsClosed() {
		return nil
	}
	c.closeLocked()

	conn, err := amqp091.Dial(c.url)
	if err != nil {
		return fmt.Errorf("dial AMQP: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}
	err = channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("declare exchange: %w", err)
	}
	c.conn, c.channel = conn, channel
	return nil
}

// Observe is a store observer. It never blocks; when the queue is full the
// event is dropped and counted.
func (c *Client) Observe(ch store.Change) {
	msg := NewChangeMessage(ch)
	select {
	case c.queue <- msg:
	default:
		c.dropped.Add(1)
		c.logger.Warn("Change event dropped, publish queue full", log.FieldRevision, ch.Revision)
	}
}

// Dropped returns how many events Observe had to discard.
func (c *Client) Dropped() int64 {
	return c.dropped.Load()
}

// Run publishes queued events until ctx is done.
func (c *Client) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-c.queue:
			if err := c.publishWithRetry(ctx, msg); err != nil && !errors.Is(err, context.Canceled) {
				c.logger.ErrorContext(ctx, "Failed to publish change event",
					log.NewFields().WithOperation(log.OpPublish).WithError(err).ToSlice()...)
			}
		}
	}
}

func (c *Client) publishWithRetry(ctx context.Context, msg ChangeMessage) error {
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err = c.Publish(ctx, msg)
		if err == nil || !isConnectionError(err) {
			return err
		}
		c.dropConnection()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(exponentialBackoff(attempt)):
		}
	}
	return err
}

// Publish sends one message, connecting lazily.
func (c *Client) Publish(ctx context.Context, msg ChangeMessage) error {
	if c.isCircuitOpen() {
		return fmt.Errorf("publish change event: %w", ErrCircuitOpen)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	c.connMu.Lock()
	if err := c.connectLocked(); err != nil {
		c.connMu.Unlock()
		c.recordFailure()
		return err
	}
	channel := c.channel
	c.connMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		c.routingKey,   // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    msg.Timestamp,
			Body:         body,
		},
	)
	if err != nil {
		c.recordFailure()
		return fmt.Errorf("publish message: %w", err)
	}
	c.recordSuccess()

	c.logger.DebugContext(ctx, "Published change event",
		"kind", msg.Kind,
		"collection", msg.Collection,
		log.FieldRevision, msg.Revision)
	return nil
}

func (c *Client) isCircuitOpen() bool {
	if atomic.LoadInt32(&c.state) != StateOpen {
		return false
	}
	c.connMu.Lock()
	last := c.lastFailure
	c.connMu.Unlock()
	if time.Since(last) > openTimeout {
		atomic.CompareAndSwapInt32(&c.state, StateOpen, StateHalfOpen)
		return false
	}
	return true
}

func (c *Client) recordSuccess() {
	atomic.StoreInt64(&c.failureCount, 0)
	atomic.StoreInt32(&c.state, StateClosed)
}

func (c *Client) recordFailure() {
	c.connMu.Lock()
	c.lastFailure = time.Now()
	c.connMu.Unlock()
	if atomic.AddInt64(&c.failureCount, 1) >= maxFailures || atomic.LoadInt32(&c.state) == StateHalfOpen {
		atomic.StoreInt32(&c.state, StateOpen)
	}
}

func (c *Client) dropConnection() {
	c.connMu.Lock()
	defer c.connMu.Unlock()
	c.closeLocked()
}

func (c *Client) closeLocked() {
	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

func (c *Client) Close() error {
	c.connMu.Lock()
	defer c.connMu.Unlock()
	c.closeLocked()
	return nil
}

// exponentialBackoff returns 1s, 2s, 4s... capped at maxBackoff.
func exponentialBackoff(attempt int) time.Duration {
	if attempt > 5 {
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
	for _, s := range []string{"connection", "eof", "broken pipe", "dial"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
