// Package telemetry provides Prometheus metrics for the sync jobs and the
// page cache.
package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	JobRuns     *prometheus.CounterVec
	JobFailures *prometheus.CounterVec

	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		JobRuns = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "livetrack_job_runs_total",
			Help: "Number of sync job runs",
		}, []string{"job"})
		JobFailures = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "livetrack_job_failures_total",
			Help: "Number of sync job runs that ended in an error",
		}, []string{"job"})
		CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "livetrack_page_cache_hits_total",
			Help: "Number of page renders served from cache",
		}, []string{"page"})
		CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "livetrack_page_cache_misses_total",
			Help: "Number of page renders that had to be computed",
		}, []string{"page"})
	})
}

// CountJobRun records a job run and, if err is non-nil, a failure.
func CountJobRun(job string, err error) {
	if JobRuns == nil {
		return
	}
	JobRuns.WithLabelValues(job).Inc()
	if err != nil {
		JobFailures.WithLabelValues(job).Inc()
	}
}

// CountCacheLookup records a cache hit or miss for a page.
func CountCacheLookup(page string, hit bool) {
	if CacheHits == nil {
		return
	}
	if hit {
		CacheHits.WithLabelValues(page).Inc()
	} else {
		CacheMisses.WithLabelValues(page).Inc()
	}
}
