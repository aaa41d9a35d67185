package analyses

import (
	"time"

	"github.com/JaimeStill/color-lab/internal/classify"
	"github.com/JaimeStill/color-lab/pkg/workers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "color_lab"
	metricsSubsystem = "analysis"
)

// Submission outcomes recorded by Observer.
const (
	OutcomeAccepted  = "accepted"
	OutcomeInvalid   = "invalid"
	OutcomeRejected  = "rejected"
	OutcomeSaturated = "saturated"
	OutcomeFailed    = "failed"
)

// Observer records pipeline metrics. A nil *Observer records nothing.
type Observer struct {
	submissions     *prometheus.CounterVec
	classifications *prometheus.CounterVec
	failures        prometheus.Counter
	duration        prometheus.Histogram
}

// NewObserver registers pipeline metrics with reg. When pool is non-nil its
// worker, busy, and queued counts are exported as gauges.
func NewObserver(reg prometheus.Registerer, pool *workers.Pool) *Observer {
	factory := promauto.With(reg)

	o := &Observer{
		submissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "submissions_total",
				Help:      "Upload submissions by outcome",
			},
			[]string{"outcome"},
		),
		classifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "classifications_total",
				Help:      "Persisted classifications by category",
			},
			[]string{"category"},
		),
		failures: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "failures_total",
				Help:      "Classifications that failed in the engine or repository",
			},
		),
		duration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "duration_seconds",
				Help:      "Time spent classifying and persisting one upload",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
		),
	}

	if pool != nil {
		gauge := func(name, help string, fn func() int) {
			factory.NewGaugeFunc(
				prometheus.GaugeOpts{
					Namespace: metricsNamespace,
					Subsystem: "workers",
					Name:      name,
					Help:      help,
				},
				func() float64 { return float64(fn()) },
			)
		}
		gauge("running", "Live worker goroutines", pool.Workers)
		gauge("busy", "Workers executing a task", pool.Busy)
		gauge("queued", "Tasks waiting in the backlog", pool.Queued)
	}

	return o
}

func (o *Observer) submitted(outcome string) {
	if o == nil {
		return
	}
	o.submissions.WithLabelValues(outcome).Inc()
}

func (o *Observer) classified(category classify.Category, elapsed time.Duration) {
	if o == nil {
		return
	}
	o.classifications.WithLabelValues(string(category)).Inc()
	o.duration.Observe(elapsed.Seconds())
}

func (o *Observer) failed(elapsed time.Duration) {
	if o == nil {
		return
	}
	o.failures.Inc()
	o.duration.Observe(elapsed.Seconds())
}
