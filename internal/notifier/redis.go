package notifier

import (
	"context"
	"encoding/json"

	"github.com/aleister1102/statuswatch/internal/common"
	"github.com/aleister1102/statuswatch/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Publisher is the subset of *redis.Client used by RedisSink.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Close() error
}

// RedisSink publishes each record as JSON on a pub/sub channel.
type RedisSink struct {
	client  Publisher
	channel string
	logger  zerolog.Logger
}

// NewRedisSink connects to addr lazily; go-redis dials on first command.
func NewRedisSink(addr, channel string, logger zerolog.Logger) (*RedisSink, error) {
	if addr == "" {
		return nil, common.NewValidationError("redis_addr", addr, "cannot be empty")
	}
	if channel == "" {
		return nil, common.NewValidationError("redis_channel", channel, "cannot be empty")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	return NewRedisSinkWithClient(client, channel, logger), nil
}

// NewRedisSinkWithClient wraps an existing client.
func NewRedisSinkWithClient(client Publisher, channel string, logger zerolog.Logger) *RedisSink {
	return &RedisSink{
		client:  client,
		channel: channel,
		logger:  logger.With().Str("component", "RedisSink").Logger(),
	}
}

// Deliver publishes the record. Zero receivers is not an error.
func (r *RedisSink) Deliver(ctx context.Context, record models.NotificationRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return common.WrapError(err, "failed to marshal notification record")
	}

	receivers, err := r.client.Publish(ctx, r.channel, payload).Result()
	if err != nil {
		return common.WrapErrorf(err, "failed to publish to redis channel %s", r.channel)
	}

	r.logger.Debug().Int64("receivers", receivers).Str("channel", r.channel).Msg("Published notification")
	return nil
}

// Close releases the client connection pool.
func (r *RedisSink) Close() error {
	return r.client.Close()
}
