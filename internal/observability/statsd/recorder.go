package statsd

import (
	"maps"
	"sync"
	"time"
)

// Sample is one metric observed by a Recorder.
type Sample struct {
	Name     string
	Value    int64
	Duration time.Duration
	Tags     map[string]string
}

// Recorder is an in-memory Sink for tests.
type Recorder struct {
	mu      sync.Mutex
	counts  []Sample
	timings []Sample
}

var _ Sink = (*Recorder)(nil)

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Count(name string, value int64, tags map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts = append(r.counts, Sample{Name: name, Value: value, Tags: maps.Clone(tags)})
}

func (r *Recorder) Timing(name string, value time.Duration, tags map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timings = append(r.timings, Sample{Name: name, Duration: value, Tags: maps.Clone(tags)})
}

// Counts returns the counter samples recorded under name.
func (r *Recorder) Counts(name string) []Sample { return r.filter(r.counts, name) }

// Timings returns the timing samples recorded under name.
func (r *Recorder) Timings(name string) []Sample { return r.filter(r.timings, name) }

func (r *Recorder) filter(samples []Sample, name string) []Sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Sample
	for _, s := range samples {
		if s.Name == name {
			out = append(out, s)
		}
	}
	return out
}
