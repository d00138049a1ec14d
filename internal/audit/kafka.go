package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"portal-xml/backend/internal/audit/domain"
)

// KafkaEmitter implements Emitter using segmentio/kafka-go.
type KafkaEmitter struct {
	writer *kafka.Writer
	topic  string
}

// NewKafkaEmitter creates a Kafka emitter that writes audit records to the
// given topic. Returns nil when brokers or topic are empty (fan-out disabled).
// Call Close when shutting down.
func NewKafkaEmitter(brokers []string, topic string) *KafkaEmitter {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
	}
	return &KafkaEmitter{writer: writer, topic: topic}
}

type kafkaRecord struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id,omitempty"`
	Identifier string    `json:"identifier,omitempty"`
	Action     string    `json:"action"`
	IPAddress  string    `json:"ip_address,omitempty"`
	Result     string    `json:"result"`
	Details    string    `json:"details,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Emit serializes the record as JSON and writes it to the Kafka topic, keyed
// by identifier so per-identifier ordering is preserved.
func (e *KafkaEmitter) Emit(ctx context.Context, rec *domain.Record) error {
	if e == nil || e.writer == nil || rec == nil {
		return nil
	}
	payload, err := json.Marshal(kafkaRecord{
		ID:         rec.ID,
		UserID:     rec.UserID,
		Identifier: rec.Identifier,
		Action:     rec.Action,
		IPAddress:  rec.IPAddress,
		Result:     rec.Result,
		Details:    rec.Details,
		CreatedAt:  rec.CreatedAt,
	})
	if err != nil {
		return err
	}
	return e.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(rec.Identifier),
		Value: payload,
	})
}

// Close flushes and closes the underlying writer.
func (e *KafkaEmitter) Close() error {
	if e == nil || e.writer == nil {
		return nil
	}
	return e.writer.Close()
}
