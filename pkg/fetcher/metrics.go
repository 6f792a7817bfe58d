package fetcher

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors updated by Instrumented.
type Metrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewMetrics creates the fetch collectors and registers them with reg when non-nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "estecon",
			Subsystem: "fetch",
			Name:      "requests_total",
			Help:      "Fetches by outcome (ok, network, status, parse, other).",
		}, []string{"outcome"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "estecon",
			Subsystem: "fetch",
			Name:      "duration_seconds",
			Help:      "Fetch latency including body decoding.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.Requests, m.Duration} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// Instrumented records one observation per fetch on the wrapped DataFetcher.
type Instrumented struct {
	next    DataFetcher
	metrics *Metrics
}

// NewInstrumented wraps next with metrics.
func NewInstrumented(next DataFetcher, m *Metrics) *Instrumented {
	return &Instrumented{next: next, metrics: m}
}

// FetchInto implements DataFetcher.
func (i *Instrumented) FetchInto(ctx context.Context, endpoint string, out any) error {
	start := time.Now()
	err := i.next.FetchInto(ctx, endpoint, out)
	if i.metrics == nil {
		return err
	}

	outcome := "ok"
	if err != nil {
		outcome = ErrorKind(err)
	}
	i.metrics.Requests.WithLabelValues(outcome).Inc()
	i.metrics.Duration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	return err
}
