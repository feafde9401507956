// Copyright (c) 2026 gocontext contributors.
// Licensed under the GNU Affero General Public License v3.0.
// See LICENSE for details.

package engine

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	metricsOnce sync.Once

	documentsProcessedTotal prometheus.Counter
	modifiersMatchedTotal   prometheus.Counter
	pipelineDurationSeconds prometheus.Histogram
)

// registerMetrics registers the engine's package-level Prometheus
// collectors exactly once per process, mirroring the teacher's
// sync.Once-guarded embedded-config cache discipline applied here to
// metric registration instead of config loading.
func registerMetrics() {
	metricsOnce.Do(func() {
		documentsProcessedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gocontext_documents_processed_total",
			Help: "Total documents passed through Engine.Apply.",
		})
		modifiersMatchedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gocontext_modifiers_matched_total",
			Help: "Total raw modifier matches produced by the matcher, summed across documents.",
		})
		pipelineDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gocontext_pipeline_duration_seconds",
			Help:    "Wall-clock duration of Engine.Apply, in seconds.",
			Buckets: prometheus.DefBuckets,
		})
		prometheus.MustRegister(documentsProcessedTotal, modifiersMatchedTotal, pipelineDurationSeconds)
	})
}
