package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns the informatics collectors on its own registry so tests
// can build as many as they like.
type Recorder struct {
	registry        *prometheus.Registry
	assessments     *prometheus.CounterVec
	extractions     *prometheus.CounterVec
	entities        *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "biosmart",
			Subsystem: "risk",
			Name:      "assessments_total",
			Help:      "Risk assessments computed, by tier.",
		}, []string{"tier"}),
		extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "biosmart",
			Subsystem: "nlp",
			Name:      "extractions_total",
			Help:      "Entity extraction calls, by outcome (matched or empty).",
		}, []string{"outcome"}),
		entities: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "biosmart",
			Subsystem: "nlp",
			Name:      "entities_tagged_total",
			Help:      "Entities tagged, by diagnosis code.",
		}, []string{"code"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "biosmart",
			Subsystem: "nlp",
			Name:      "cache_lookups_total",
			Help:      "Extraction cache lookups, by result (hit, miss, error).",
		}, []string{"result"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "biosmart",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	r.registry.MustRegister(
		r.assessments,
		r.extractions,
		r.entities,
		r.cacheLookups,
		r.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) ObserveAssessment(tier string) {
	if r == nil {
		return
	}
	r.assessments.WithLabelValues(tier).Inc()
}

func (r *Recorder) ObserveExtraction(codes []string) {
	if r == nil {
		return
	}
	outcome := "matched"
	if len(codes) == 0 {
		outcome = "empty"
	}
	r.extractions.WithLabelValues(outcome).Inc()
	for _, code := range codes {
		r.entities.WithLabelValues(code).Inc()
	}
}

func (r *Recorder) ObserveCacheLookup(result string) {
	if r == nil {
		return
	}
	r.cacheLookups.WithLabelValues(result).Inc()
}

func (r *Recorder) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
