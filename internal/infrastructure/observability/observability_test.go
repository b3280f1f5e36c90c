package observability

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitMetrics_NoopProvider(t *testing.T) {
	metrics, err := InitMetrics()
	require.NoError(t, err)

	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordRequestMetric(ctx, metrics, "GET", "/api/restaurants", 200, time.Millisecond)
		RecordDBMetric(ctx, metrics, "ratings.submit", time.Millisecond)
		RecordCacheHit(ctx, metrics, "restaurant")
		RecordCacheMiss(ctx, metrics, "restaurant")
		RecordRatingSubmit(ctx, metrics, true)
	})
}

func TestRecorders_NilMetrics(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordRequestMetric(ctx, nil, "GET", "/", 200, 0)
		RecordDBMetric(ctx, nil, "op", 0)
		RecordCacheHit(ctx, nil, "k")
		RecordCacheMiss(ctx, nil, "k")
		RecordRatingSubmit(ctx, nil, false)
	})
}

func TestLoggerFromContext_WithoutSpan(t *testing.T) {
	InitLogger("dinewise-test", "production", "info")

	logger := LoggerFromContext(context.Background())
	assert.NotNil(t, logger)
}

func TestLoggerFromContext_PrefersRequestLogger(t *testing.T) {
	InitLogger("dinewise-test", "production", "info")

	var buf bytes.Buffer
	requestLogger := zerolog.New(&buf).With().Str("request_id", "req-1").Logger()
	ctx := requestLogger.WithContext(context.Background())

	LoggerFromContext(ctx).Info().Msg("hello")

	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
	assert.Contains(t, buf.String(), `"message":"hello"`)
}

func TestInitLogger_Level(t *testing.T) {
	InitLogger("dinewise-test", "production", "warn")
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	InitLogger("dinewise-test", "production", "loud")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
