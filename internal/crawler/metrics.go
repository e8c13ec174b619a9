package crawler

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pagesIndexedTotal  prometheus.Counter
	pagesSkippedTotal  *prometheus.CounterVec
	linksRecordedTotal prometheus.Counter
	crawlLevelDuration prometheus.Histogram
	metricsInitOnce    sync.Once
)

// initMetrics registers the crawl collectors with the default registry.
// Safe to call more than once.
func initMetrics() {
	metricsInitOnce.Do(func() {
		pagesIndexedTotal = promauto.NewCounter(prometheus.CounterOpts{
			Name: "webindex_pages_indexed_total",
			Help: "Total number of pages tokenized and written to the index.",
		})
		pagesSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "webindex_pages_skipped_total",
			Help: "Total number of URLs skipped, labeled by reason.",
		}, []string{"reason"})
		linksRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
			Name: "webindex_links_recorded_total",
			Help: "Total number of link edges recorded.",
		})
		crawlLevelDuration = promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "webindex_crawl_level_duration_seconds",
			Help:    "Histogram of wall time spent per frontier generation.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		})
	})
}

func observePageIndexed() { pagesIndexedTotal.Inc() }

func observePageSkipped(reason string) { pagesSkippedTotal.WithLabelValues(reason).Inc() }

func observeLinksRecorded(n int) { linksRecordedTotal.Add(float64(n)) }

func observeLevelDuration(d time.Duration) { crawlLevelDuration.Observe(d.Seconds()) }
