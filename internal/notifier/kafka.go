package notifier

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/aleister1102/statuswatch/internal/common"
	"github.com/aleister1102/statuswatch/internal/models"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

const kafkaWriteTimeout = 10 * time.Second

// MessageWriter is the subset of *kafka.Writer used by KafkaSink.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes each record as a JSON message keyed by Key().
type KafkaSink struct {
	writer MessageWriter
	topic  string
	logger zerolog.Logger
}

// NewKafkaSink creates a synchronous writer for the comma separated brokers.
func NewKafkaSink(brokers, topic string, logger zerolog.Logger) (*KafkaSink, error) {
	brokerList := splitBrokers(brokers)
	if len(brokerList) == 0 {
		return nil, common.NewValidationError("kafka_brokers", brokers, "at least one broker is required")
	}
	if topic == "" {
		return nil, common.NewValidationError("kafka_topic", topic, "cannot be empty")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokerList...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		WriteTimeout: kafkaWriteTimeout,
		RequiredAcks: kafka.RequireOne,
	}

	logger.Info().Strs("brokers", brokerList).Str("topic", topic).Msg("Kafka sink configured")
	return NewKafkaSinkWithWriter(writer, topic, logger), nil
}

// NewKafkaSinkWithWriter wraps an existing writer.
func NewKafkaSinkWithWriter(writer MessageWriter, topic string, logger zerolog.Logger) *KafkaSink {
	return &KafkaSink{
		writer: writer,
		topic:  topic,
		logger: logger.With().Str("component", "KafkaSink").Logger(),
	}
}

// Deliver writes one message and waits for the leader ack.
func (k *KafkaSink) Deliver(ctx context.Context, record models.NotificationRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return common.WrapError(err, "failed to marshal notification record")
	}

	msg := kafka.Message{
		Key:   []byte(record.Key()),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "source", Value: []byte(record.Source())},
		},
		Time: record.Timestamp,
	}

	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return common.WrapErrorf(err, "failed to write message to kafka topic %s", k.topic)
	}
	return nil
}

// Close flushes and closes the writer.
func (k *KafkaSink) Close() error {
	k.logger.Debug().Str("topic", k.topic).Msg("Closing Kafka sink")
	return k.writer.Close()
}

func splitBrokers(brokers string) []string {
	var list []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			list = append(list, b)
		}
	}
	return list
}
