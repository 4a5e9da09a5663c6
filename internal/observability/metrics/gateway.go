// Package metrics holds the console's metric names and tag conventions.
package metrics

import (
	"maps"
	"time"

	obserrors "github.com/target/crms-console/internal/observability/errors"
	"github.com/target/crms-console/internal/observability/statsd"
)

// Outcome tags for gateway calls.
const (
	OutcomeOK            = "ok"
	OutcomeUnauthorized  = "unauthorized"
	OutcomeRequestFailed = "request_failed"
	OutcomeNetwork       = "network"
)

// RequestMetric describes one outbound API call.
type RequestMetric struct {
	Method   string
	Outcome  string
	Status   int
	Duration time.Duration
	Err      error
}

// EmitRequest emits the per-call counter and timing. Paths are never tagged.
func EmitRequest(sink statsd.Sink, in RequestMetric) {
	if sink == nil {
		return
	}
	tags := map[string]string{
		"method":  in.Method,
		"outcome": in.Outcome,
	}
	if in.Outcome == OutcomeNetwork && in.Err != nil {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}
	sink.Count("gateway.request", 1, tags)
	if in.Duration > 0 {
		sink.Timing("gateway.request.duration", in.Duration, CloneTags(tags))
	}
}

// EmitPurge records a sweep of expired session entries.
func EmitPurge(sink statsd.Sink, backend string, removed int64, elapsed time.Duration, err error) {
	if sink == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	tags := map[string]string{"backend": backend, "result": result}
	sink.Count("session.purge.runs", 1, tags)
	if removed > 0 {
		sink.Count("session.purge.removed", removed, CloneTags(tags))
	}
	sink.Timing("session.purge.duration", elapsed, CloneTags(tags))
}

// CloneTags returns a copy so sinks may retain the map.
func CloneTags(tags map[string]string) map[string]string {
	return maps.Clone(tags)
}
