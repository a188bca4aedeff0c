package tracing

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	ctx = WithTraceID(ctx, "trace-1")
	ctx = WithRunID(ctx, "run-1")
	ctx = WithTenantID(ctx, "tenant-1")
	ctx = WithToolName(ctx, "deliveries-count-last-n-days")

	assert.Equal(t, "trace-1", GetTraceID(ctx))
	assert.Equal(t, "run-1", GetRunID(ctx))
	assert.Equal(t, "tenant-1", GetTenantID(ctx))
	assert.Equal(t, "deliveries-count-last-n-days", GetToolName(ctx))
}

func TestGettersOnEmptyContext(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, GetTraceID(ctx))
	assert.Empty(t, GetRunID(ctx))
	assert.Empty(t, GetTenantID(ctx))
	assert.Empty(t, GetToolName(ctx))
}

func TestFromContext(t *testing.T) {
	ctx := WithRunID(WithTraceID(context.Background(), "t"), "r")

	tc := FromContext(ctx)
	require.NotNil(t, tc)
	assert.Equal(t, "t", tc.TraceID)
	assert.Equal(t, "r", tc.RunID)
	assert.Empty(t, tc.TenantID)
}

func TestLoggerFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	base := zerolog.New(buf)

	ctx := context.Background()
	ctx = WithRunID(ctx, "run-42")
	ctx = WithToolName(ctx, "sites-count")

	logger := LoggerFromContext(ctx, base)
	logger.Info().Msg("dispatching")

	out := buf.String()
	assert.Contains(t, out, `"run_id":"run-42"`)
	assert.Contains(t, out, `"tool":"sites-count"`)
	assert.NotContains(t, out, "trace_id")
}

func TestStartSpanSetsTraceID(t *testing.T) {
	require.NoError(t, Init("tracing-test"))

	ctx, span := StartSpan(context.Background(), "test", "unit")
	defer span.End()

	assert.NotEmpty(t, GetTraceID(ctx))
}
