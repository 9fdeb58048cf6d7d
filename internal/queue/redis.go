package queue

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/soltixdb/statcalc/internal/logging"
)

// dataField holds the payload in each stream entry
const dataField = "data"

// RedisConfig configures the Redis Streams backend. Each subject is a stream
// named "<Stream>:<subject>" read through one consumer group.
type RedisConfig struct {
	URL      string // redis://host:port/db or plain host:port
	Password string
	DB       int
	Stream   string // default "statcalc"
	Group    string // default "statcalc-group"
	Consumer string // default hostname

	MaxLen     int64         // approximate entries kept per stream, default 100000
	ClaimIdle  time.Duration // pending entries idle this long are redelivered, default 1m
	MaxDeliver int64         // deliveries before an entry is dropped, default 3
}

// withDefaults fills the unset fields
func (c RedisConfig) withDefaults() RedisConfig {
	if c.Stream == "" {
		c.Stream = "statcalc"
	}
	if c.Group == "" {
		c.Group = "statcalc-group"
	}
	if c.Consumer == "" {
		hostname, _ := os.Hostname()
		if hostname == "" {
			hostname = "consumer-1"
		}
		c.Consumer = hostname
	}
	if c.MaxLen == 0 {
		c.MaxLen = 100000
	}
	if c.ClaimIdle == 0 {
		c.ClaimIdle = time.Minute
	}
	if c.MaxDeliver == 0 {
		c.MaxDeliver = 3
	}
	return c
}

// RedisQueue implements Queue over Redis Streams
type RedisQueue struct {
	client        *redis.Client
	config        RedisConfig
	subscriptions map[string]context.CancelFunc
	wg            sync.WaitGroup
	mu            sync.Mutex
}

// newRedisQueue connects and pings the server
func newRedisQueue(cfg RedisConfig) (*RedisQueue, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		opts = &redis.Options{Addr: cfg.URL}
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisQueue{
		client:        client,
		config:        cfg.withDefaults(),
		subscriptions: make(map[string]context.CancelFunc),
	}, nil
}

func (q *RedisQueue) streamName(subject string) string {
	return q.config.Stream + ":" + subject
}

func (q *RedisQueue) addArgs(subject string, data []byte) *redis.XAddArgs {
	return &redis.XAddArgs{
		Stream: q.streamName(subject),
		MaxLen: q.config.MaxLen,
		Approx: true,
		Values: map[string]interface{}{dataField: data},
	}
}

// Publish appends a message to the subject's stream
func (q *RedisQueue) Publish(ctx context.Context, subject string, data []byte) error {
	if err := q.client.XAdd(ctx, q.addArgs(subject, data)).Err(); err != nil {
		return fmt.Errorf("failed to publish to Redis stream %s: %w", q.streamName(subject), err)
	}
	return nil
}

// PublishBatch appends all messages in one pipeline
func (q *RedisQueue) PublishBatch(ctx context.Context, messages []BatchMessage) (int, error) {
	if len(messages) == 0 {
		return 0, nil
	}

	pipe := q.client.Pipeline()
	for _, msg := range messages {
		pipe.XAdd(ctx, q.addArgs(msg.Subject, msg.Data))
	}
	cmds, err := pipe.Exec(ctx)

	published := 0
	for _, cmd := range cmds {
		if cmd.Err() == nil {
			published++
		}
	}
	if published == 0 && err != nil {
		return 0, fmt.Errorf("failed to execute batch publish: %w", err)
	}
	return published, nil
}

// Subscribe creates the consumer group if needed and starts reading
func (q *RedisQueue) Subscribe(subject string, handler MessageHandler) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.subscriptions[subject]; exists {
		return fmt.Errorf("already subscribed to subject: %s", subject)
	}

	stream := q.streamName(subject)
	ctx, cancel := context.WithCancel(context.Background())

	err := q.client.XGroupCreateMkStream(ctx, stream, q.config.Group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		cancel()
		return fmt.Errorf("failed to create consumer group: %w", err)
	}
	q.subscriptions[subject] = cancel

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		q.readStream(ctx, stream, handler)
	}()
	return nil
}

// readStream alternates between reclaiming idle pending entries and reading
// new ones until ctx ends.
func (q *RedisQueue) readStream(ctx context.Context, stream string, handler MessageHandler) {
	logger := logging.Global().With("stream", stream, "group", q.config.Group)

	for ctx.Err() == nil {
		q.reclaim(ctx, stream, handler, logger)

		streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    q.config.Group,
			Consumer: q.config.Consumer,
			Streams:  []string{stream, ">"},
			Count:    100,
			Block:    2 * time.Second,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			logger.Warn("Failed to read stream", "error", err)
			sleepCtx(ctx, time.Second)
			continue
		}

		for _, s := range streams {
			for _, msg := range s.Messages {
				q.process(ctx, stream, msg, handler, logger)
			}
		}
	}
}

// reclaim takes over entries left pending longer than ClaimIdle, by this or
// a dead consumer, and runs them again. Entries already delivered MaxDeliver
// times are dropped.
func (q *RedisQueue) reclaim(ctx context.Context, stream string, handler MessageHandler, logger *logging.Logger) {
	msgs, _, err := q.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   stream,
		Group:    q.config.Group,
		Consumer: q.config.Consumer,
		MinIdle:  q.config.ClaimIdle,
		Start:    "0-0",
		Count:    100,
	}).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			logger.Warn("Failed to reclaim pending entries", "error", err)
		}
		return
	}

	for _, msg := range msgs {
		if q.deliveries(ctx, stream, msg.ID) > q.config.MaxDeliver {
			logger.Error("Dropping message after retries", "id", msg.ID, "max_deliver", q.config.MaxDeliver)
			q.ack(ctx, stream, msg.ID, logger)
			continue
		}
		q.process(ctx, stream, msg, handler, logger)
	}
}

// deliveries returns how often the entry has been delivered, 0 if unknown
func (q *RedisQueue) deliveries(ctx context.Context, stream, id string) int64 {
	pending, err := q.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: stream,
		Group:  q.config.Group,
		Start:  id,
		End:    id,
		Count:  1,
	}).Result()
	if err != nil || len(pending) == 0 {
		return 0
	}
	return pending[0].RetryCount
}

// process runs the handler. A retryable failure leaves the entry pending for
// reclaim; anything else is acked.
func (q *RedisQueue) process(ctx context.Context, stream string, msg redis.XMessage, handler MessageHandler, logger *logging.Logger) {
	data, ok := msg.Values[dataField].(string)
	if ok {
		if err := handler(ctx, []byte(data)); err != nil && !IsPermanent(err) {
			return
		}
	}
	q.ack(ctx, stream, msg.ID, logger)
}

func (q *RedisQueue) ack(ctx context.Context, stream, id string, logger *logging.Logger) {
	if err := q.client.XAck(ctx, stream, q.config.Group, id).Err(); err != nil && ctx.Err() == nil {
		logger.Warn("Failed to ack entry", "id", id, "error", err)
	}
}

// Unsubscribe stops reading the subject's stream
func (q *RedisQueue) Unsubscribe(subject string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	cancel, exists := q.subscriptions[subject]
	if !exists {
		return fmt.Errorf("not subscribed to subject: %s", subject)
	}
	cancel()
	delete(q.subscriptions, subject)
	return nil
}

// Close stops the readers and closes the client
func (q *RedisQueue) Close() error {
	q.mu.Lock()
	for subject, cancel := range q.subscriptions {
		cancel()
		delete(q.subscriptions, subject)
	}
	q.mu.Unlock()

	q.wg.Wait()
	return q.client.Close()
}

func sleepCtx(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
