package services

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	savesTotal   *prometheus.CounterVec
	deletesTotal *prometheus.CounterVec

	remoteLatency *prometheus.HistogramVec
}

var metricsSingleton = sync.OnceValue(func() *metrics {
	return &metrics{
		savesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sections",
			Subsystem: "session",
			Name:      "saves_total",
			Help:      "Total number of submit attempts by outcome.",
		}, []string{"outcome"}),
		deletesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sections",
			Subsystem: "session",
			Name:      "deletes_total",
			Help:      "Total number of delete confirmations by outcome.",
		}, []string{"outcome"}),
		remoteLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sections",
			Name:      "remote_latency_seconds",
			Help:      "Latency distribution of calls to the sections API.",
			Buckets: []float64{
				0.005, 0.01, 0.02, 0.05,
				0.1, 0.2, 0.5,
				1, 2, 5, 10,
			},
		}, []string{"operation", "result"}),
	}
})

func getMetrics() *metrics {
	return metricsSingleton()
}

func (m *metrics) observeRemote(operation string, started time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.remoteLatency.WithLabelValues(operation, result).Observe(time.Since(started).Seconds())
}
