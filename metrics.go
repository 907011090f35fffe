package pubcollection

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/eringen/pubcollection/schema"
)

const metricsNamespace = "pubcollection"

// metrics holds the Prometheus collectors of one App. Each App registers
// into its own registry.
type metrics struct {
	Documents        *prometheus.CounterVec
	ValidationErrors *prometheus.CounterVec
	SyncDuration     prometheus.Histogram
	SyncFailures     prometheus.Counter
	Posts            prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		Documents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "documents_total",
			Help:      "Content documents processed by sync, by result",
		}, []string{"result"}),
		ValidationErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "validation_errors_total",
			Help:      "Frontmatter validation errors, by kind",
		}, []string{"kind"}),
		SyncDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "sync_duration_seconds",
			Help:      "Duration of content syncs in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}),
		SyncFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "sync_failures_total",
			Help:      "Content syncs that failed before completing",
		}),
		Posts: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "posts",
			Help:      "Posts stored by the last successful sync",
		}),
	}
}

func (m *metrics) observeRejection(err error) {
	m.Documents.WithLabelValues("rejected").Inc()
	var verr *schema.ValidationError
	if !errors.As(err, &verr) {
		m.ValidationErrors.WithLabelValues("unreadable").Inc()
		return
	}
	for _, fe := range verr.Errors {
		m.ValidationErrors.WithLabelValues(fe.Kind.String()).Inc()
	}
}
