package utils

import "time"

// =============================================================================
// Timeout Constants
// =============================================================================

// HTTP Handler Timeouts
const (
	// DefaultRequestTimeout is the default timeout for HTTP requests
	DefaultRequestTimeout = 30 * time.Second

	// PublishTimeout bounds publishing a submitted job to the queue
	PublishTimeout = 5 * time.Second

	// ShutdownTimeout is how long servers and workers get to drain
	ShutdownTimeout = 10 * time.Second
)

// Worker Timeouts
const (
	// JobTimeout bounds the analysis of one queued job
	JobTimeout = 30 * time.Second

	// ReplyTimeout bounds publishing one reply
	ReplyTimeout = 5 * time.Second
)

// =============================================================================
// Series Constants
// =============================================================================

const (
	// HoursPerDay is the spacing of daily amounts
	HoursPerDay = 24 * time.Hour

	// DateLayout formats forecast dates and start_date inputs
	DateLayout = "2006-01-02"

	// MonthLayout formats start_month inputs
	MonthLayout = "2006-01"
)

// =============================================================================
// Queue Type Constants
// =============================================================================

// QueueType represents the type of message queue
type QueueType string

const (
	// QueueTypeNATS represents NATS JetStream queue (default)
	QueueTypeNATS QueueType = "nats"

	// QueueTypeRedis represents Redis Streams queue
	QueueTypeRedis QueueType = "redis"

	// QueueTypeKafka represents Apache Kafka queue
	QueueTypeKafka QueueType = "kafka"

	// QueueTypeMemory represents in-memory queue (for testing)
	QueueTypeMemory QueueType = "memory"
)
