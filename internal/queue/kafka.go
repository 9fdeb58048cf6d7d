package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/soltixdb/statcalc/internal/logging"
)

// KafkaConfig configures the Kafka backend. Subjects map one to one to
// topics.
type KafkaConfig struct {
	Brokers       []string
	GroupID       string        // default "statcalc-worker"
	BatchSize     int           // producer batch, default 100
	BatchTimeout  time.Duration // producer linger, default 10ms
	RequiredAcks  int           // 0 none, 1 leader, -1 all; default 1
	MaxRetries    int           // write attempts and handler attempts, default 3
	RetryBackoff  time.Duration // default 100ms
	CommitRetries int           // default 3
}

func (c KafkaConfig) withDefaults() KafkaConfig {
	if c.GroupID == "" {
		c.GroupID = "statcalc-worker"
	}
	if c.BatchSize == 0 {
		c.BatchSize = 100
	}
	if c.BatchTimeout == 0 {
		c.BatchTimeout = 10 * time.Millisecond
	}
	if c.RequiredAcks == 0 {
		c.RequiredAcks = int(kafka.RequireOne)
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.RetryBackoff == 0 {
		c.RetryBackoff = 100 * time.Millisecond
	}
	if c.CommitRetries == 0 {
		c.CommitRetries = 3
	}
	return c
}

type kafkaSubscription struct {
	reader *kafka.Reader
	cancel context.CancelFunc
}

// KafkaQueue implements Queue with one writer per topic and one group reader
// per subscription.
type KafkaQueue struct {
	config        KafkaConfig
	writers       map[string]*kafka.Writer
	subscriptions map[string]kafkaSubscription
	wg            sync.WaitGroup
	mu            sync.RWMutex
}

func newKafkaQueue(cfg KafkaConfig) (*KafkaQueue, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers not configured")
	}

	return &KafkaQueue{
		config:        cfg.withDefaults(),
		writers:       make(map[string]*kafka.Writer),
		subscriptions: make(map[string]kafkaSubscription),
	}, nil
}

// getOrCreateWriter returns the topic's writer, creating it on first use.
// Writes are synchronous so a job is only reported queued once the broker
// has it.
func (q *KafkaQueue) getOrCreateWriter(topic string) *kafka.Writer {
	q.mu.Lock()
	defer q.mu.Unlock()

	if writer, exists := q.writers[topic]; exists {
		return writer
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(q.config.Brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		BatchSize:              q.config.BatchSize,
		BatchTimeout:           q.config.BatchTimeout,
		RequiredAcks:           kafka.RequiredAcks(q.config.RequiredAcks),
		MaxAttempts:            q.config.MaxRetries,
		AllowAutoTopicCreation: true,
	}
	q.writers[topic] = writer
	return writer
}

func kafkaMessage(data []byte) kafka.Message {
	return kafka.Message{Value: data, Time: time.Now()}
}

// Publish writes one message to the subject's topic
func (q *KafkaQueue) Publish(ctx context.Context, subject string, data []byte) error {
	if err := q.getOrCreateWriter(subject).WriteMessages(ctx, kafkaMessage(data)); err != nil {
		return fmt.Errorf("failed to publish to kafka topic %s: %w", subject, err)
	}
	return nil
}

// PublishBatch writes the messages grouped by topic, one write per topic. It
// fails only when no topic accepted its messages.
func (q *KafkaQueue) PublishBatch(ctx context.Context, messages []BatchMessage) (int, error) {
	if len(messages) == 0 {
		return 0, nil
	}

	byTopic := make(map[string][]kafka.Message)
	for _, msg := range messages {
		byTopic[msg.Subject] = append(byTopic[msg.Subject], kafkaMessage(msg.Data))
	}

	published := 0
	var lastErr error
	for topic, msgs := range byTopic {
		if err := q.getOrCreateWriter(topic).WriteMessages(ctx, msgs...); err != nil {
			lastErr = err
			continue
		}
		published += len(msgs)
	}

	if lastErr != nil && published == 0 {
		return 0, fmt.Errorf("failed to publish batch: %w", lastErr)
	}
	return published, nil
}

// Subscribe joins the consumer group on the subject's topic
func (q *KafkaQueue) Subscribe(subject string, handler MessageHandler) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.subscriptions[subject]; exists {
		return fmt.Errorf("already subscribed to topic: %s", subject)
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        q.config.Brokers,
		GroupID:        q.config.GroupID,
		Topic:          subject,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        time.Second,
		CommitInterval: time.Second,
	})
	ctx, cancel := context.WithCancel(context.Background())
	q.subscriptions[subject] = kafkaSubscription{reader: reader, cancel: cancel}

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		q.consume(ctx, reader, handler)
	}()
	return nil
}

// consume fetches until ctx ends. The reader does not rewind, so a retryable
// handler error is retried in place up to MaxRetries times before the
// message is committed past.
func (q *KafkaQueue) consume(ctx context.Context, reader *kafka.Reader, handler MessageHandler) {
	logger := logging.Global().With("topic", reader.Config().Topic, "group", q.config.GroupID)

	for ctx.Err() == nil {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("Failed to fetch message", "error", err)
			q.backoff(ctx)
			continue
		}

		if err := q.handle(ctx, handler, msg); err != nil {
			logger.Error("Dropping message after retries", "offset", msg.Offset, "error", err)
		}
		if ctx.Err() != nil {
			return
		}

		for i := 0; i < q.config.CommitRetries; i++ {
			if err = reader.CommitMessages(ctx, msg); err == nil || ctx.Err() != nil {
				break
			}
			q.backoff(ctx)
		}
		if err != nil && ctx.Err() == nil {
			logger.Warn("Failed to commit offset", "offset", msg.Offset, "error", err)
		}
	}
}

// handle runs the handler until it succeeds, fails permanently or runs out
// of attempts. Only the last case returns an error.
func (q *KafkaQueue) handle(ctx context.Context, handler MessageHandler, msg kafka.Message) error {
	var err error
	for attempt := 1; attempt <= q.config.MaxRetries; attempt++ {
		err = handler(ctx, msg.Value)
		if err == nil || IsPermanent(err) || ctx.Err() != nil {
			return nil
		}
		q.backoff(ctx)
	}
	return fmt.Errorf("%d attempts: %w", q.config.MaxRetries, err)
}

func (q *KafkaQueue) backoff(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(q.config.RetryBackoff):
	}
}

// Unsubscribe leaves the consumer group for the subject
func (q *KafkaQueue) Unsubscribe(subject string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	sub, exists := q.subscriptions[subject]
	if !exists {
		return fmt.Errorf("not subscribed to topic: %s", subject)
	}
	sub.cancel()
	_ = sub.reader.Close()
	delete(q.subscriptions, subject)
	return nil
}

// Close stops every reader, waits for the consumers and closes the writers
func (q *KafkaQueue) Close() error {
	q.mu.Lock()
	var lastErr error
	for subject, sub := range q.subscriptions {
		sub.cancel()
		if err := sub.reader.Close(); err != nil {
			lastErr = err
		}
		delete(q.subscriptions, subject)
	}
	for topic, writer := range q.writers {
		if err := writer.Close(); err != nil {
			lastErr = err
		}
		delete(q.writers, topic)
	}
	q.mu.Unlock()

	q.wg.Wait()
	return lastErr
}
