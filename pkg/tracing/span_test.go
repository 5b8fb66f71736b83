package tracing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChildSpansInheritTrace(t *testing.T) {
	ctx, root := StartSpan(context.Background(), "search", "trace-1")
	_, fetch := StartChildSpan(ctx, "fetch")
	time.Sleep(time.Millisecond)
	fetch.End()
	_, rank := StartChildSpan(ctx, "rank")
	rank.End()

	NewTracer(false, 1).Finish(root)

	require.Len(t, root.Children, 2)
	assert.Equal(t, "trace-1", fetch.TraceID)
	assert.Same(t, root, SpanFromContext(ctx))

	timings := root.Timings()
	assert.Contains(t, timings, "fetch")
	assert.Contains(t, timings, "rank")
	assert.GreaterOrEqual(t, timings["fetch"], 1.0)
	assert.GreaterOrEqual(t, root.Duration, fetch.Duration)
}

func TestChildWithoutParent(t *testing.T) {
	ctx, span := StartChildSpan(context.Background(), "orphan")
	span.SetAttr("items", 3)
	span.End()
	assert.Empty(t, span.TraceID)
	assert.Equal(t, 3, span.Attrs["items"])
	assert.Same(t, span, SpanFromContext(ctx))
}
