package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// memoryBuffer is the per-subject channel capacity
const memoryBuffer = 1024

var errQueueClosed = errors.New("queue closed")

// MemoryQueue implements Queue with in-process channels, for tests and for
// running the HTTP bridge and the worker in one process. A retryable
// handler error is retried in place; nothing survives a restart. It
// implements Listener, so publishers can skip subjects nobody consumes.
type MemoryQueue struct {
	mu            sync.RWMutex
	wg            sync.WaitGroup
	channels      map[string]chan []byte
	subscriptions map[string]context.CancelFunc
	maxAttempts   int
	closed        bool
}

// newMemoryQueue hands each message to its handler at most maxAttempts
// times; zero means 3.
func newMemoryQueue(maxAttempts int) *MemoryQueue {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &MemoryQueue{
		channels:      make(map[string]chan []byte),
		subscriptions: make(map[string]context.CancelFunc),
		maxAttempts:   maxAttempts,
	}
}

// channel returns the subject's channel, creating it on first use. Callers
// hold q.mu.
func (q *MemoryQueue) channel(subject string) chan []byte {
	ch, ok := q.channels[subject]
	if !ok {
		ch = make(chan []byte, memoryBuffer)
		q.channels[subject] = ch
	}
	return ch
}

// Publish enqueues a copy of data. A full channel fails instead of blocking.
func (q *MemoryQueue) Publish(ctx context.Context, subject string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return errQueueClosed
	}

	select {
	case q.channel(subject) <- append([]byte(nil), data...):
		return nil
	default:
		return fmt.Errorf("channel full for subject: %s", subject)
	}
}

// PublishBatch reports how many messages were enqueued; it fails only when
// none were.
func (q *MemoryQueue) PublishBatch(ctx context.Context, messages []BatchMessage) (int, error) {
	var n int
	var lastErr error
	for _, msg := range messages {
		if err := q.Publish(ctx, msg.Subject, msg.Data); err != nil {
			lastErr = err
			continue
		}
		n++
	}
	if n == 0 && lastErr != nil {
		return 0, fmt.Errorf("failed to publish batch: %w", lastErr)
	}
	return n, nil
}

// Subscribe starts one consumer goroutine for the subject
func (q *MemoryQueue) Subscribe(subject string, handler MessageHandler) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return errQueueClosed
	}
	if _, exists := q.subscriptions[subject]; exists {
		return fmt.Errorf("already subscribed to subject: %s", subject)
	}

	ch := q.channel(subject)
	ctx, cancel := context.WithCancel(context.Background())
	q.subscriptions[subject] = cancel

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case data := <-ch:
				q.deliver(ctx, handler, data)
			}
		}
	}()
	return nil
}

// deliver retries retryable failures until maxAttempts or cancellation
func (q *MemoryQueue) deliver(ctx context.Context, handler MessageHandler, data []byte) {
	for attempt := 0; attempt < q.maxAttempts && ctx.Err() == nil; attempt++ {
		if err := handler(ctx, data); err == nil || IsPermanent(err) {
			return
		}
	}
}

// Unsubscribe stops the subject's consumer. Queued messages stay for the
// next subscriber.
func (q *MemoryQueue) Unsubscribe(subject string) error {
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

// Close cancels every consumer and waits for in-flight handlers. Queued
// messages are dropped.
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	for subject, cancel := range q.subscriptions {
		cancel()
		delete(q.subscriptions, subject)
	}
	q.mu.Unlock()

	q.wg.Wait()
	return nil
}

// HasSubscriber reports whether subject is being consumed in this process
func (q *MemoryQueue) HasSubscriber(subject string) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	_, ok := q.subscriptions[subject]
	return ok
}

// GetPendingCount returns how many messages wait on subject
func (q *MemoryQueue) GetPendingCount(subject string) int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.channels[subject])
}
