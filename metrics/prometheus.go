package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "kmcluster"

// PrometheusCollector implements kmcluster.MetricsCollector.
type PrometheusCollector struct {
	loadsTotal       *prometheus.CounterVec
	recordsLoaded    prometheus.Gauge
	trainsTotal      *prometheus.CounterVec
	trainDuration    prometheus.Histogram
	degenerateTotal  prometheus.Counter
	assignsTotal     *prometheus.CounterVec
	assignDuration   prometheus.Histogram
	assignMatches    prometheus.Histogram
	savesTotal       *prometheus.CounterVec
	saveDuration     prometheus.Histogram
	recordsPersisted prometheus.Gauge
}

// NewPrometheusCollector registers the collector's metrics with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &PrometheusCollector{
		loadsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loads_total",
			Help:      "Total number of dataset loads by result",
		}, []string{"result"}),
		recordsLoaded: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "records_loaded",
			Help:      "Number of records read by the last successful load",
		}),
		trainsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trains_total",
			Help:      "Total number of training runs by result",
		}, []string{"result"}),
		trainDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "train_duration_seconds",
			Help:      "Training run duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		degenerateTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degenerate_clusters_total",
			Help:      "Total number of clusters that ended a training pass with no members",
		}),
		assignsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assigns_total",
			Help:      "Total number of online assignments by result",
		}, []string{"result"}),
		assignDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "assign_duration_seconds",
			Help:      "Online assignment latency in seconds, including the dataset write",
			Buckets:   prometheus.DefBuckets,
		}),
		assignMatches: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "assign_matches",
			Help:      "Number of same-cluster ids returned per assignment",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		savesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saves_total",
			Help:      "Total number of dataset writes by result",
		}, []string{"result"}),
		saveDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "save_duration_seconds",
			Help:      "Dataset write duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		recordsPersisted: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "records_persisted",
			Help:      "Number of records written by the last successful save",
		}),
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordLoad implements kmcluster.MetricsCollector.
func (p *PrometheusCollector) RecordLoad(records int, _ time.Duration, err error) {
	p.loadsTotal.WithLabelValues(result(err)).Inc()
	if err == nil {
		p.recordsLoaded.Set(float64(records))
	}
}

// RecordTrain implements kmcluster.MetricsCollector.
func (p *PrometheusCollector) RecordTrain(_, _, degenerate int, duration time.Duration, err error) {
	p.trainsTotal.WithLabelValues(result(err)).Inc()
	p.trainDuration.Observe(duration.Seconds())
	p.degenerateTotal.Add(float64(degenerate))
}

// RecordAssign implements kmcluster.MetricsCollector.
func (p *PrometheusCollector) RecordAssign(cluster, matches int, duration time.Duration, err error) {
	switch {
	case err != nil:
		p.assignsTotal.WithLabelValues("error").Inc()
	case cluster < 0:
		p.assignsTotal.WithLabelValues("placeholder").Inc()
	default:
		p.assignsTotal.WithLabelValues("ok").Inc()
		p.assignMatches.Observe(float64(matches))
	}
	p.assignDuration.Observe(duration.Seconds())
}

// RecordSave implements kmcluster.MetricsCollector.
func (p *PrometheusCollector) RecordSave(records int, duration time.Duration, err error) {
	p.savesTotal.WithLabelValues(result(err)).Inc()
	p.saveDuration.Observe(duration.Seconds())
	if err == nil {
		p.recordsPersisted.Set(float64(records))
	}
}
