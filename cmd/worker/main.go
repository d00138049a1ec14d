// Worker tails the audit Kafka topic and writes each record to structured
// logs, giving operators a live view without querying the database.
// Set KAFKA_BROKERS and AUDIT_KAFKA_TOPIC.
package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"portal-xml/backend/internal/config"
)

type auditRecord struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Identifier string    `json:"identifier"`
	Action     string    `json:"action"`
	IPAddress  string    `json:"ip_address"`
	Result     string    `json:"result"`
	Details    string    `json:"details"`
	CreatedAt  time.Time `json:"created_at"`
}

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Str("service", "portal-xml-audit-worker").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config")
	}

	brokers := cfg.AuditKafkaBrokersList()
	if len(brokers) == 0 {
		logger.Fatal().Msg("worker: KAFKA_BROKERS is required")
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          cfg.AuditKafkaTopic,
		GroupID:        "portal-xml-audit-worker",
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		CommitInterval: time.Second,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logger.Info().Msg("worker: shutting down")
		cancel()
	}()

	logger.Info().Str("topic", cfg.AuditKafkaTopic).Msg("worker: consuming audit records")
	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error().Err(err).Msg("worker: read")
			continue
		}

		var rec auditRecord
		if err := json.Unmarshal(msg.Value, &rec); err != nil {
			logger.Error().Err(err).Msg("worker: malformed audit record")
			continue
		}
		logger.Info().
			Str("id", rec.ID).
			Str("identifier", rec.Identifier).
			Str("action", rec.Action).
			Str("result", rec.Result).
			Str("ip", rec.IPAddress).
			Str("details", rec.Details).
			Time("created_at", rec.CreatedAt).
			Msg("audit")
	}
}
