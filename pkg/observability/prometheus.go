package observability

import (
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusMetrics implements Metrics on a dedicated Prometheus registry.
// Collectors are created on first use; a metric's label set is fixed by the
// tag keys of its first observation.
type PrometheusMetrics struct {
	registry *prometheus.Registry

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
}

// NewPrometheusMetrics creates a registry with the Go runtime and process collectors.
func NewPrometheusMetrics() *PrometheusMetrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &PrometheusMetrics{
		registry:   reg,
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *PrometheusMetrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *PrometheusMetrics) Counter(name string, value int64, tags ...Tag) {
	keys, values := splitTags(tags)

	m.mu.Lock()
	vec, ok := m.counters[name]
	if !ok {
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: PromName(name) + "_total",
			Help: name,
		}, keys)
		m.registry.MustRegister(vec)
		m.counters[name] = vec
	}
	m.mu.Unlock()

	if c, err := vec.GetMetricWithLabelValues(values...); err == nil {
		c.Add(float64(value))
	}
}

func (m *PrometheusMetrics) Gauge(name string, value float64, tags ...Tag) {
	keys, values := splitTags(tags)

	m.mu.Lock()
	vec, ok := m.gauges[name]
	if !ok {
		vec = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: PromName(name),
			Help: name,
		}, keys)
		m.registry.MustRegister(vec)
		m.gauges[name] = vec
	}
	m.mu.Unlock()

	if g, err := vec.GetMetricWithLabelValues(values...); err == nil {
		g.Set(value)
	}
}

func (m *PrometheusMetrics) Histogram(name string, value float64, tags ...Tag) {
	m.observe(name, PromName(name), prometheus.DefBuckets, value, tags)
}

// Timing records durations in seconds.
func (m *PrometheusMetrics) Timing(name string, duration time.Duration, tags ...Tag) {
	m.observe(name, PromName(name)+"_seconds", prometheus.DefBuckets, duration.Seconds(), tags)
}

func (m *PrometheusMetrics) observe(name, promName string, buckets []float64, value float64, tags []Tag) {
	keys, values := splitTags(tags)

	m.mu.Lock()
	vec, ok := m.histograms[name]
	if !ok {
		vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    promName,
			Help:    name,
			Buckets: buckets,
		}, keys)
		m.registry.MustRegister(vec)
		m.histograms[name] = vec
	}
	m.mu.Unlock()

	if h, err := vec.GetMetricWithLabelValues(values...); err == nil {
		h.Observe(value)
	}
}

// PromName converts a dotted metric name into a Prometheus metric name,
// e.g. "studyflow.tasks.created" becomes "studyflow_tasks_created".
func PromName(name string) string {
	return strings.NewReplacer(".", "_", "-", "_").Replace(name)
}

// splitTags returns label names and values ordered by label name.
func splitTags(tags []Tag) ([]string, []string) {
	sorted := make([]Tag, len(tags))
	copy(sorted, tags)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	keys := make([]string, len(sorted))
	values := make([]string, len(sorted))
	for i, t := range sorted {
		keys[i] = t.Key
		values[i] = t.Value
	}
	return keys, values
}
