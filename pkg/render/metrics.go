package render

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/shadow/pkg/dom"
)

// MetricsConfig configures the Prometheus backend decorator.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "shadow").
	Namespace string

	// Subsystem is the metrics subsystem (default: "render").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for commit duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus backend decorator.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the commit duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "shadow",
		Subsystem: "render",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is a dom.Backend decorator that records Prometheus metrics.
type Metrics struct {
	next dom.Backend

	opsTotal       *prometheus.CounterVec
	nodesTotal     *prometheus.CounterVec
	commitsTotal   prometheus.Counter
	commitOps      prometheus.Histogram
	commitDuration prometheus.Histogram

	// per-commit state
	pendingOps int
	started    time.Time
}

// NewMetrics wraps next and registers its collectors. Registering twice
// on the same registry panics, as with promauto.
func NewMetrics(next dom.Backend, opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		next: next,

		opsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "ops_total",
			Help:        "Total number of render operations applied",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		nodesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes_total",
			Help:        "Total number of nodes carried by render operations",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		commitsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "commits_total",
			Help:        "Total number of batch commits",
			ConstLabels: config.ConstLabels,
		}),

		commitOps: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "commit_ops",
			Help:        "Number of render operations per commit",
			ConstLabels: config.ConstLabels,
			Buckets:     prometheus.ExponentialBuckets(1, 2, 10),
		}),

		commitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "commit_duration_seconds",
			Help:        "Time from the first operation of a commit to its Batch call",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
	}
}

func (m *Metrics) observe(kind dom.OpKind, nodes []*dom.Node) {
	if m.pendingOps == 0 {
		m.started = time.Now()
	}
	m.pendingOps++
	op := kind.String()
	m.opsTotal.WithLabelValues(op).Inc()
	m.nodesTotal.WithLabelValues(op).Add(float64(len(nodes)))
}

// CreateRenderNode implements dom.Backend.
func (m *Metrics) CreateRenderNode(nodes []*dom.Node) {
	m.observe(dom.OpCreate, nodes)
	m.next.CreateRenderNode(nodes)
}

// UpdateRenderNode implements dom.Backend.
func (m *Metrics) UpdateRenderNode(nodes []*dom.Node) {
	m.observe(dom.OpUpdate, nodes)
	m.next.UpdateRenderNode(nodes)
}

// DeleteRenderNode implements dom.Backend.
func (m *Metrics) DeleteRenderNode(nodes []*dom.Node) {
	m.observe(dom.OpDelete, nodes)
	m.next.DeleteRenderNode(nodes)
}

// UpdateLayout implements dom.Backend.
func (m *Metrics) UpdateLayout(nodes []*dom.Node) {
	m.observe(dom.OpUpdateLayout, nodes)
	m.next.UpdateLayout(nodes)
}

// Batch implements dom.Backend.
func (m *Metrics) Batch() {
	m.next.Batch()
	m.commitsTotal.Inc()
	m.commitOps.Observe(float64(m.pendingOps))
	if m.pendingOps > 0 {
		m.commitDuration.Observe(time.Since(m.started).Seconds())
	}
	m.pendingOps = 0
}
