package queue

import (
	"fmt"
	"strings"

	"github.com/soltixdb/statcalc/internal/config"
	"github.com/soltixdb/statcalc/internal/utils"
)

var backends = map[utils.QueueType]func(config.QueueConfig) (Queue, error){
	utils.QueueTypeNATS: func(cfg config.QueueConfig) (Queue, error) {
		return newNATSQueue(NATSConfig{
			URL:        cfg.URL,
			Username:   cfg.Username,
			Password:   cfg.Password,
			MaxDeliver: cfg.MaxDeliver,
		})
	},
	utils.QueueTypeRedis: func(cfg config.QueueConfig) (Queue, error) {
		return newRedisQueue(RedisConfig{
			URL:        cfg.URL,
			Password:   cfg.Password,
			DB:         cfg.RedisDB,
			Stream:     cfg.RedisStream,
			Group:      cfg.RedisGroup,
			Consumer:   cfg.RedisConsumer,
			MaxDeliver: int64(cfg.MaxDeliver),
		})
	},
	utils.QueueTypeKafka: func(cfg config.QueueConfig) (Queue, error) {
		return newKafkaQueue(KafkaConfig{
			Brokers:    cfg.KafkaBrokers,
			GroupID:    cfg.KafkaGroupID,
			MaxRetries: cfg.MaxDeliver,
		})
	},
	utils.QueueTypeMemory: func(cfg config.QueueConfig) (Queue, error) {
		return newMemoryQueue(cfg.MaxDeliver), nil
	},
}

// NewQueue builds the backend named by cfg.Type, case-insensitively. An
// empty type selects NATS.
func NewQueue(cfg config.QueueConfig) (Queue, error) {
	typ := utils.QueueType(strings.ToLower(cfg.Type))
	if typ == "" {
		typ = utils.QueueTypeNATS
	}
	build, ok := backends[typ]
	if !ok {
		return nil, fmt.Errorf("unsupported queue type: %s (supported: nats, redis, kafka, memory)", typ)
	}
	q, err := build(cfg)
	if err != nil {
		return nil, err
	}
	return q, nil
}
