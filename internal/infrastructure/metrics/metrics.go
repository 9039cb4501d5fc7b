// Package metrics exposes resolver and dataset counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var datasetAgeDesc = prometheus.NewDesc(
	"faqbot_dataset_age_seconds",
	"Seconds since the published dataset was loaded",
	nil,
	nil,
)

// Recorder implements ports.Recorder on its own registry.
type Recorder struct {
	registry *prometheus.Registry
	replies  *prometheus.CounterVec
	loads    *prometheus.CounterVec
	records  prometheus.Gauge
}

// New creates a Recorder with Go runtime and process collectors attached.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		replies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "faqbot_resolve_total",
			Help: "Replies produced, by source (dataset or fallback category)",
		}, []string{"source"}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "faqbot_dataset_loads_total",
			Help: "Dataset load attempts by result",
		}, []string{"result"}),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "faqbot_dataset_records",
			Help: "Records in the published search index",
		}),
	}
	r.registry.MustRegister(
		r.replies,
		r.loads,
		r.records,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) ObserveReply(source string) {
	r.replies.WithLabelValues(source).Inc()
}

// ObserveLoad counts a load attempt; records is the size of whatever index
// is published afterwards.
func (r *Recorder) ObserveLoad(ok bool, records int) {
	result := "ok"
	if !ok {
		result = "error"
	}
	r.loads.WithLabelValues(result).Inc()
	r.records.Set(float64(records))
}

// TrackDatasetAge registers a collector that reads loadedAt on every scrape.
// loadedAt returns false while nothing is published.
func (r *Recorder) TrackDatasetAge(loadedAt func() (time.Time, bool)) {
	r.registry.MustRegister(&ageCollector{loadedAt: loadedAt})
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

type ageCollector struct {
	loadedAt func() (time.Time, bool)
}

func (c *ageCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- datasetAgeDesc
}

func (c *ageCollector) Collect(ch chan<- prometheus.Metric) {
	at, ok := c.loadedAt()
	if !ok {
		return
	}
	ch <- prometheus.MustNewConstMetric(
		datasetAgeDesc,
		prometheus.GaugeValue,
		time.Since(at).Seconds(),
	)
}
