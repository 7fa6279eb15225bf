package client

import (
	"totaro-checkout/internal/config"

	"github.com/segmentio/kafka-go"
)

// NewKafkaWriter returns nil when no brokers are configured. Events are
// published synchronously from the request path, so the writer flushes after
// BatchTimeout instead of kafka-go's one second default.
func NewKafkaWriter(cfg *config.Kafka) *kafka.Writer {
	if len(cfg.Brokers) == 0 {
		return nil
	}
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: cfg.BatchTimeout,
	}
}
