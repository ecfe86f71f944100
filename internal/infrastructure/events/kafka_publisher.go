package events

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	"b2bdesk/internal/domain/entities"
	"b2bdesk/internal/infrastructure/logger"
	"b2bdesk/internal/usecase/interfaces"

	"github.com/segmentio/kafka-go"
)

const statusEventsTopic = "order-status-events"

var eventLog = logger.WithComponent("kafka-publisher")

// KafkaStatusPublisher emits status-changed events as JSON to Kafka.
//
// The writer runs async; a publish failure never affects the order workflow.
// "Unknown Topic Or Partition" is tolerated because brokers with topic
// auto-creation resolve it on the next write.

type KafkaStatusPublisher struct {
	writer *kafka.Writer
}

var _ interfaces.IEventPublisher = (*KafkaStatusPublisher)(nil)

// NewKafkaStatusPublisherFromEnv builds a publisher from KAFKA_BROKERS
// (comma-separated). Returns nil when the variable is unset; callers treat a
// nil publisher as events-disabled.
func NewKafkaStatusPublisherFromEnv() *KafkaStatusPublisher {
	raw := strings.TrimSpace(os.Getenv("KAFKA_BROKERS"))
	if raw == "" {
		return nil
	}

	brokers := strings.Split(raw, ",")
	for i := range brokers {
		brokers[i] = strings.TrimSpace(brokers[i])
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        statusEventsTopic,
		Balancer:     &kafka.LeastBytes{},
		Async:        true,
		WriteTimeout: 5 * time.Second,
	}
	eventLog.Info().Strs("brokers", brokers).Str("topic", statusEventsTopic).Msg("kafka producer configured")
	return &KafkaStatusPublisher{writer: w}
}

func (p *KafkaStatusPublisher) PublishStatusChanged(ctx context.Context, evt entities.StatusChangedEvent) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.OrderID),
		Value: value,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Unknown Topic Or Partition") {
			// Topic auto-creation races the first write.
			return nil
		}
		return err
	}

	eventLog.Debug().
		Str("order_id", evt.OrderID).
		Str("from", string(evt.From)).
		Str("to", string(evt.To)).
		Msg("status event published")
	return nil
}

func (p *KafkaStatusPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
