// Package metrics exposes Prometheus collectors for upstream calls and cache lookups.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Recorder groups the collectors. A nil *Recorder records nothing.
type Recorder struct {
	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	cacheLookups     *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "perfdash",
			Name:      "upstream_requests_total",
			Help:      "Calls to Google Sheets, Monday.com and Slack by outcome.",
		}, []string{"source", "outcome"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "perfdash",
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of upstream calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "perfdash",
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by result (hit, miss, error).",
		}, []string{"result"}),
	}

	for _, c := range []prometheus.Collector{r.upstreamRequests, r.upstreamDuration, r.cacheLookups} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ObserveUpstream records one upstream call that started at start.
func (r *Recorder) ObserveUpstream(source string, start time.Time, err error) {
	if r == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	r.upstreamRequests.WithLabelValues(source, outcome).Inc()
	r.upstreamDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
}

// CacheLookup records a cache hit, miss or error.
func (r *Recorder) CacheLookup(result string) {
	if r == nil {
		return
	}
	r.cacheLookups.WithLabelValues(result).Inc()
}
