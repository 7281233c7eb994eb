package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"reportfilter/internal/config"
	"reportfilter/internal/constants"
	"reportfilter/internal/logger"
	"reportfilter/pkg/metrics"
	"reportfilter/pkg/models"
	"reportfilter/pkg/retry"
	"reportfilter/pkg/tracing"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaProducer struct {
	writer messageWriter
	topic  string
	policy retry.Policy
	logger logger.Logger
}

func NewKafkaProducer(cfg config.KafkaConfig, log logger.Logger) *KafkaProducer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		BatchTimeout:           constants.KafkaBatchTimeout,
		WriteTimeout:           constants.KafkaWriteTimeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return newKafkaProducer(w, cfg, log)
}

func newKafkaProducer(w messageWriter, cfg config.KafkaConfig, log logger.Logger) *KafkaProducer {
	topic := cfg.SessionEventsTopic
	if topic == "" {
		topic = constants.DefaultSessionEventsTopic
	}

	policy := retry.Policy{
		Name:            "kafka_publish",
		MaxAttempts:     cfg.Retry.MaxAttempts,
		InitialInterval: cfg.Retry.InitialInterval,
		MaxInterval:     cfg.Retry.MaxInterval,
		Multiplier:      cfg.Retry.Multiplier,
		MaxElapsedTime:  cfg.Retry.MaxElapsedTime,
	}
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 1
	}

	return &KafkaProducer{
		writer: w,
		topic:  topic,
		policy: policy,
		logger: log,
	}
}

// Publish writes the event keyed by session id, so all events of one
// session land on the same partition in order.
func (p *KafkaProducer) Publish(ctx context.Context, event models.Event) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("invalid event: %w", err)
	}
	if event.TraceID == "" {
		event.TraceID = tracing.TraceID(ctx)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	headers := []kafka.Header{{Key: "event_type", Value: []byte(event.Type)}}
	headers = tracing.InjectTraceContext(ctx, headers)

	msg := kafka.Message{
		Topic:   p.topic,
		Key:     []byte(event.SessionID),
		Value:   body,
		Headers: headers,
		Time:    event.Timestamp,
	}

	start := time.Now()
	err = retry.RetryWithCallback(ctx, p.policy, func() error {
		return p.writer.WriteMessages(ctx, msg)
	}, func(attempt int, err error, next time.Duration) {
		p.logger.WarnwCtx(ctx, "Retrying session event publish",
			"attempt", attempt,
			"error", err,
			"next_delay", next,
			"topic", p.topic,
		)
	})
	metrics.ObserveKafkaWriteDuration(p.topic, time.Since(start))

	if err != nil {
		metrics.IncSessionEventPublished(string(event.Type), "error")
		return fmt.Errorf("failed to write kafka message: %w", err)
	}

	metrics.IncSessionEventPublished(string(event.Type), "success")
	return nil
}

func (p *KafkaProducer) Topic() string {
	return p.topic
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
