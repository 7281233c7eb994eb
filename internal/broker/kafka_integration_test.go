//go:build integration

package broker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"reportfilter/internal/config"
	"reportfilter/internal/logger"
	"reportfilter/pkg/models"
)

func TestKafkaProducer_Integration(t *testing.T) {
	ctx := context.Background()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("report-filter"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)

	cfg := config.KafkaConfig{
		Brokers:            brokers,
		SessionEventsTopic: "session-events-it",
		Retry: config.RetryConfig{
			MaxAttempts:     10,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     2 * time.Second,
			Multiplier:      2,
		},
	}
	producer := NewKafkaProducer(cfg, logger.NopLogger())
	t.Cleanup(func() { _ = producer.Close() })

	event := models.NewEvent(models.EventSessionOpened, "filter-service", "S-Curve Report", "s-42")
	require.NoError(t, producer.Publish(ctx, event))

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:   brokers,
		Topic:     cfg.SessionEventsTopic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  10e6,
	})
	t.Cleanup(func() { _ = reader.Close() })

	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := reader.ReadMessage(readCtx)
	require.NoError(t, err)

	var got models.Event
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, event.ID, got.ID)
	assert.Equal(t, models.EventSessionOpened, got.Type)
	assert.Equal(t, "s-42", string(msg.Key))
}
