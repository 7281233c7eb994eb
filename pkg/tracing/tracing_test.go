package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"reportfilter/internal/config"
)

func TestKafkaHeaderRoundTrip(t *testing.T) {
	_, err := Init(config.TracingConfig{})
	require.NoError(t, err)

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "publish")
	defer span.End()

	headers := InjectTraceContext(ctx, []kafka.Header{{Key: "event_type", Value: []byte("session_opened")}})
	require.Len(t, headers, 2)
	assert.Equal(t, "traceparent", headers[1].Key)

	extracted := otel.GetTextMapPropagator().Extract(context.Background(), &kafkaHeaderCarrier{headers: headers})
	assert.Equal(t, TraceID(ctx), TraceID(extracted))
	assert.NotEmpty(t, TraceID(ctx))
}

func TestEndSpanRecordsError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	_, span := StartSpan(context.Background(), "filtering.ComputeRestriction")
	EndSpan(span, errors.New("unknown filter"))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "", TraceID(context.Background()))
}

func TestCreateSampler(t *testing.T) {
	assert.Contains(t, createSampler(config.SamplerConfig{Type: "always_off"}).Description(), "AlwaysOff")
	assert.Contains(t, createSampler(config.SamplerConfig{}).Description(), "AlwaysOn")
}
