package observability

import (
	"slices"
	"strings"
	"sync"
	"time"
)

// Metrics provides an interface for recording application metrics.
type Metrics interface {
	// Counter increments a counter metric.
	Counter(name string, value int64, tags ...Tag)

	// Gauge sets a gauge metric to the given value.
	Gauge(name string, value float64, tags ...Tag)

	// Histogram records a value in a histogram.
	Histogram(name string, value float64, tags ...Tag)

	// Timing records a duration.
	Timing(name string, duration time.Duration, tags ...Tag)
}

// Tag represents a key-value pair for metric labeling.
type Tag struct {
	Key   string
	Value string
}

// T creates a new Tag.
func T(key, value string) Tag {
	return Tag{Key: key, Value: value}
}

// NoopMetrics is a no-op implementation of Metrics.
type NoopMetrics struct{}

func (NoopMetrics) Counter(name string, value int64, tags ...Tag)           {}
func (NoopMetrics) Gauge(name string, value float64, tags ...Tag)           {}
func (NoopMetrics) Histogram(name string, value float64, tags ...Tag)       {}
func (NoopMetrics) Timing(name string, duration time.Duration, tags ...Tag) {}

// InMemoryMetrics keeps every series in memory; tests read them back with
// the Get methods. Tag order does not matter when recording or reading.
type InMemoryMetrics struct {
	mu     sync.RWMutex
	series map[string]*series
}

type series struct {
	count   int64
	gauge   float64
	values  []float64
	timings []time.Duration
}

// NewInMemoryMetrics creates an empty collector.
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{series: make(map[string]*series)}
}

func (m *InMemoryMetrics) Counter(name string, value int64, tags ...Tag) {
	m.record(name, tags, func(s *series) { s.count += value })
}

func (m *InMemoryMetrics) Gauge(name string, value float64, tags ...Tag) {
	m.record(name, tags, func(s *series) { s.gauge = value })
}

func (m *InMemoryMetrics) Histogram(name string, value float64, tags ...Tag) {
	m.record(name, tags, func(s *series) { s.values = append(s.values, value) })
}

func (m *InMemoryMetrics) Timing(name string, duration time.Duration, tags ...Tag) {
	m.record(name, tags, func(s *series) { s.timings = append(s.timings, duration) })
}

func (m *InMemoryMetrics) GetCounter(name string, tags ...Tag) int64 {
	return m.read(name, tags).count
}

func (m *InMemoryMetrics) GetGauge(name string, tags ...Tag) float64 {
	return m.read(name, tags).gauge
}

// GetHistogram returns a copy of the observed values in recording order.
func (m *InMemoryMetrics) GetHistogram(name string, tags ...Tag) []float64 {
	return slices.Clone(m.read(name, tags).values)
}

// GetTimings returns a copy of the recorded durations in recording order.
func (m *InMemoryMetrics) GetTimings(name string, tags ...Tag) []time.Duration {
	return slices.Clone(m.read(name, tags).timings)
}

// Reset drops every series.
func (m *InMemoryMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.series = make(map[string]*series)
}

func (m *InMemoryMetrics) record(name string, tags []Tag, update func(*series)) {
	key := seriesKey(name, tags)

	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.series[key]
	if !ok {
		s = &series{}
		m.series[key] = s
	}
	update(s)
}

func (m *InMemoryMetrics) read(name string, tags []Tag) series {
	key := seriesKey(name, tags)

	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.series[key]; ok {
		return *s
	}
	return series{}
}

// seriesKey renders name{k1=v1,k2=v2} with tags sorted by key.
func seriesKey(name string, tags []Tag) string {
	if len(tags) == 0 {
		return name
	}
	sorted := slices.Clone(tags)
	slices.SortFunc(sorted, func(a, b Tag) int { return strings.Compare(a.Key, b.Key) })

	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('{')
	for i, t := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(t.Key)
		b.WriteByte('=')
		b.WriteString(t.Value)
	}
	b.WriteByte('}')
	return b.String()
}

// Metric names recorded by studyflow.
const (
	MetricOperationTotal    = "studyflow.operation.total"
	MetricOperationDuration = "studyflow.operation.duration"
	MetricOperationErrors   = "studyflow.operation.errors"

	MetricTasksCreated     = "studyflow.tasks.created"
	MetricTasksCompleted   = "studyflow.tasks.completed"
	MetricTasksScheduled   = "studyflow.tasks.scheduled"
	MetricTasksUnscheduled = "studyflow.tasks.unscheduled"

	MetricSuggestionsGenerated = "studyflow.suggestions.generated"
	MetricSuggestionsEmpty     = "studyflow.suggestions.empty"
	MetricSuggestionTopScore   = "studyflow.suggestions.top_score"

	MetricSettingsCacheHits   = "studyflow.settings.cache_hits"
	MetricSettingsCacheMisses = "studyflow.settings.cache_misses"

	MetricEventsPublished     = "studyflow.events.published"
	MetricEventsPublishFailed = "studyflow.events.publish_failed"
)
