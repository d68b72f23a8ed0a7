package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/jingkaihe/stepkit/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestInitTracer_Disabled(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), config.TracingConfig{}, "yaml-snippet", "dev")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSampler(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.TracingConfig
		contain string
	}{
		{name: "always", cfg: config.TracingConfig{Sampler: "always"}, contain: "AlwaysOnSampler"},
		{name: "never", cfg: config.TracingConfig{Sampler: "never"}, contain: "AlwaysOffSampler"},
		{name: "ratio", cfg: config.TracingConfig{Sampler: "ratio", SamplerRatio: 0.5}, contain: "TraceIDRatioBased"},
		{name: "unknown falls back to always", cfg: config.TracingConfig{Sampler: "bogus"}, contain: "AlwaysOnSampler"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, Sampler(tt.cfg).Description(), tt.contain)
		})
	}
}

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = provider.Shutdown(context.Background())
	})
	return recorder
}

func TestWithSpanFunc(t *testing.T) {
	recorder := withRecorder(t)

	called := false
	WithSpanFunc(context.Background(), "skill.execute", func(ctx context.Context) {
		called = true
		SetAttributes(ctx, attribute.Int("skill.issue_count", 2))
		AddEvent(ctx, "input.malformed")
	}, attribute.String("skill.name", "yaml-review"))

	require.True(t, called)
	spans := recorder.Ended()
	require.Len(t, spans, 1)

	span := spans[0]
	assert.Equal(t, "skill.execute", span.Name())
	assert.Equal(t, codes.Ok, span.Status().Code)
	assert.Contains(t, span.Attributes(), attribute.String("skill.name", "yaml-review"))
	assert.Contains(t, span.Attributes(), attribute.Int("skill.issue_count", 2))
	require.Len(t, span.Events(), 1)
	assert.Equal(t, "input.malformed", span.Events()[0].Name)
}

func TestRecordError(t *testing.T) {
	recorder := withRecorder(t)

	ctx, span := Tracer().Start(context.Background(), "write")
	RecordError(ctx, errors.New("broken pipe"))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "broken pipe", spans[0].Status().Description)
}
