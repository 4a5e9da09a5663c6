package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/crms-console/internal/observability/statsd"
)

func TestEmitRequest(t *testing.T) {
	rec := statsd.NewRecorder()
	EmitRequest(rec, RequestMetric{Method: "GET", Outcome: OutcomeOK, Status: 200, Duration: 5 * time.Millisecond})

	counts := rec.Counts("gateway.request")
	require.Len(t, counts, 1)
	assert.Equal(t, map[string]string{"method": "GET", "outcome": "ok"}, counts[0].Tags)
	assert.Len(t, rec.Timings("gateway.request.duration"), 1)
}

func TestEmitRequest_NetworkClass(t *testing.T) {
	rec := statsd.NewRecorder()
	EmitRequest(rec, RequestMetric{Method: "POST", Outcome: OutcomeNetwork, Err: context.DeadlineExceeded})

	counts := rec.Counts("gateway.request")
	require.Len(t, counts, 1)
	assert.NotEmpty(t, counts[0].Tags["error_class"])
	assert.Empty(t, rec.Timings("gateway.request.duration"))
}

func TestEmitPurge(t *testing.T) {
	rec := statsd.NewRecorder()
	EmitPurge(rec, "postgres", 3, time.Millisecond, nil)
	EmitPurge(rec, "postgres", 0, time.Millisecond, errors.New("boom"))

	runs := rec.Counts("session.purge.runs")
	require.Len(t, runs, 2)
	assert.Equal(t, "success", runs[0].Tags["result"])
	assert.Equal(t, "error", runs[1].Tags["result"])
	removed := rec.Counts("session.purge.removed")
	require.Len(t, removed, 1)
	assert.Equal(t, int64(3), removed[0].Value)
}

func TestEmitRequest_NilSink(_ *testing.T) {
	EmitRequest(nil, RequestMetric{Method: "GET"})
	EmitPurge(nil, "memory", 1, 0, nil)
}
