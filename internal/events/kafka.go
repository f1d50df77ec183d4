package events

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/config"
)

// KafkaForwarder mirrors dispatched domain events to a Kafka topic so other
// backends (analytics, notification fan-out) can consume the stream.
type KafkaForwarder struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewKafkaForwarder builds a forwarder for the configured brokers/topic.
func NewKafkaForwarder(cfg config.KafkaConfig, logger *zap.Logger) *KafkaForwarder {
	return &KafkaForwarder{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(cfg.Brokers...),
			Topic:    cfg.Topic,
			Balancer: &kafka.LeastBytes{},
		},
		logger: logger,
	}
}

// Register subscribes the forwarder to every event type on the dispatcher.
func (f *KafkaForwarder) Register(dispatcher Dispatcher) {
	for _, eventType := range AllEventTypes {
		dispatcher.Subscribe(eventType, f.forward)
	}
}

func (f *KafkaForwarder) forward(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.TicketID),
		Value: data,
	}
	if err := f.writer.WriteMessages(ctx, msg); err != nil {
		f.logger.Warn("kafka forward failed",
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		return err
	}
	return nil
}

// Close closes the Kafka writer.
func (f *KafkaForwarder) Close() error {
	if f == nil || f.writer == nil {
		return nil
	}
	return f.writer.Close()
}
