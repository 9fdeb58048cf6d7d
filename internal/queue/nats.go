package queue

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/soltixdb/statcalc/internal/logging"
)

// NATSConfig configures the JetStream backend. Each subject is stored in
// its own stream named "<StreamPrefix>-<subject>".
type NATSConfig struct {
	URL          string
	Username     string
	Password     string
	StreamPrefix string        // default "statcalc"
	StreamMaxAge time.Duration // how long unconsumed messages are kept, default 24h
	AckWait      time.Duration // redeliver after this long without an ack, default 30s
	MaxDeliver   int           // deliveries per message, default 3
	RetryDelay   time.Duration // nak delay, multiplied by the delivery count, default 1s
}

func (c NATSConfig) withDefaults() NATSConfig {
	if c.StreamPrefix == "" {
		c.StreamPrefix = "statcalc"
	}
	if c.StreamMaxAge == 0 {
		c.StreamMaxAge = 24 * time.Hour
	}
	if c.AckWait == 0 {
		c.AckWait = 30 * time.Second
	}
	if c.MaxDeliver == 0 {
		c.MaxDeliver = 3
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = time.Second
	}
	return c
}

type natsSubscription struct {
	sub    *nats.Subscription
	cancel context.CancelFunc
}

// NATSQueue implements Queue over NATS JetStream with durable consumers
type NATSQueue struct {
	conn          *nats.Conn
	js            nats.JetStreamContext
	config        NATSConfig
	mu            sync.RWMutex
	streams       map[string]bool
	subscriptions map[string]natsSubscription
}

// newNATSQueue dials the server. Dropped connections are retried forever and
// logged.
func newNATSQueue(cfg NATSConfig) (*NATSQueue, error) {
	logger := logging.Global().With("component", "nats")
	opts := []nats.Option{
		nats.Name("statcalc"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	}
	if cfg.Username != "" {
		opts = append(opts, nats.UserInfo(cfg.Username, cfg.Password))
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	q, err := newNATSQueueWithConn(conn, cfg)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return q, nil
}

// newNATSQueueWithConn builds the queue on an open connection
func newNATSQueueWithConn(conn *nats.Conn, cfg NATSConfig) (*NATSQueue, error) {
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}
	return &NATSQueue{
		conn:          conn,
		js:            js,
		config:        cfg.withDefaults(),
		streams:       make(map[string]bool),
		subscriptions: make(map[string]natsSubscription),
	}, nil
}

// Conn returns the underlying connection
func (q *NATSQueue) Conn() *nats.Conn {
	return q.conn
}

func (q *NATSQueue) streamName(subject string) string {
	return q.config.StreamPrefix + "-" + sanitizeConsumerName(subject)
}

// ensureStream creates the subject's stream once per process
func (q *NATSQueue) ensureStream(subject string) error {
	q.mu.RLock()
	ok := q.streams[subject]
	q.mu.RUnlock()
	if ok {
		return nil
	}

	name := q.streamName(subject)
	if _, err := q.js.StreamInfo(name); err != nil {
		_, err = q.js.AddStream(&nats.StreamConfig{
			Name:     name,
			Subjects: []string{subject},
			Storage:  nats.FileStorage,
			MaxAge:   q.config.StreamMaxAge,
		})
		if err != nil {
			return fmt.Errorf("failed to create stream for subject %s: %w", subject, err)
		}
	}

	q.mu.Lock()
	q.streams[subject] = true
	q.mu.Unlock()
	return nil
}

// Publish waits for the JetStream ack
func (q *NATSQueue) Publish(ctx context.Context, subject string, data []byte) error {
	if err := q.ensureStream(subject); err != nil {
		return err
	}
	if _, err := q.js.Publish(subject, data, nats.Context(ctx)); err != nil {
		return fmt.Errorf("failed to publish to subject %s: %w", subject, err)
	}
	return nil
}

// PublishBatch publishes asynchronously and collects the acks once
func (q *NATSQueue) PublishBatch(ctx context.Context, messages []BatchMessage) (int, error) {
	if len(messages) == 0 {
		return 0, nil
	}

	var lastErr error
	pending := make([]nats.PubAckFuture, 0, len(messages))
	for _, msg := range messages {
		if err := q.ensureStream(msg.Subject); err != nil {
			lastErr = err
			continue
		}
		f, err := q.js.PublishAsync(msg.Subject, msg.Data)
		if err != nil {
			lastErr = err
			continue
		}
		pending = append(pending, f)
	}

	select {
	case <-q.js.PublishAsyncComplete():
	case <-ctx.Done():
		return 0, fmt.Errorf("timeout waiting for batch publish: %w", ctx.Err())
	}

	acked := 0
	for _, f := range pending {
		select {
		case <-f.Ok():
			acked++
		case err := <-f.Err():
			lastErr = err
		}
	}
	if acked == 0 && lastErr != nil {
		return 0, fmt.Errorf("failed to publish batch: %w", lastErr)
	}
	return acked, nil
}

// Subscribe attaches a durable manual-ack consumer
func (q *NATSQueue) Subscribe(subject string, handler MessageHandler) error {
	q.mu.RLock()
	_, exists := q.subscriptions[subject]
	q.mu.RUnlock()
	if exists {
		return fmt.Errorf("already subscribed to subject: %s", subject)
	}
	if err := q.ensureStream(subject); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	logger := logging.Global().With("subject", subject)

	sub, err := q.js.Subscribe(subject, func(msg *nats.Msg) {
		q.settle(msg, handler(ctx, msg.Data), logger)
	},
		nats.Durable("consumer-"+sanitizeConsumerName(subject)),
		nats.ManualAck(),
		nats.MaxAckPending(100),
		nats.AckWait(q.config.AckWait),
		nats.MaxDeliver(q.config.MaxDeliver),
		nats.DeliverAll(),
	)
	if err != nil {
		cancel()
		return fmt.Errorf("failed to subscribe to subject %s: %w", subject, err)
	}

	q.mu.Lock()
	q.subscriptions[subject] = natsSubscription{sub: sub, cancel: cancel}
	q.mu.Unlock()
	return nil
}

// settle acks, terminates or naks msg according to the handler result. A
// retryable failure is redelivered after RetryDelay times the deliveries so
// far; the last allowed delivery is terminated instead.
func (q *NATSQueue) settle(msg *nats.Msg, err error, logger *logging.Logger) {
	if err == nil {
		_ = msg.Ack()
		return
	}
	if IsPermanent(err) {
		_ = msg.Term()
		return
	}

	delivered := uint64(1)
	if meta, merr := msg.Metadata(); merr == nil {
		delivered = meta.NumDelivered
	}
	if delivered >= uint64(q.config.MaxDeliver) {
		logger.Error("Dropping message after retries", "deliveries", delivered, "error", err)
		_ = msg.Term()
		return
	}
	_ = msg.NakWithDelay(q.config.RetryDelay * time.Duration(delivered))
}

// Unsubscribe removes the subject's consumer interest
func (q *NATSQueue) Unsubscribe(subject string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	s, exists := q.subscriptions[subject]
	if !exists {
		return fmt.Errorf("not subscribed to subject: %s", subject)
	}
	s.cancel()
	delete(q.subscriptions, subject)
	if err := s.sub.Unsubscribe(); err != nil {
		return fmt.Errorf("failed to unsubscribe from subject %s: %w", subject, err)
	}
	return nil
}

// Close drops every subscription and closes the connection
func (q *NATSQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for subject, s := range q.subscriptions {
		s.cancel()
		_ = s.sub.Unsubscribe()
		delete(q.subscriptions, subject)
	}
	q.conn.Close()
	return nil
}

// sanitizeConsumerName maps subject to the characters JetStream allows in
// stream and consumer names.
func sanitizeConsumerName(subject string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, subject)
}
