package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"feedcheck/internal/models"
)

// Collector records validation activity for Prometheus scraping.
type Collector struct {
	validationRuns  prometheus.Counter
	recordsChecked  prometheus.Counter
	issuesFound     *prometheus.CounterVec
	remoteFailures  prometheus.Counter
	historyFailures prometheus.Counter
	issuesFixed     prometheus.Counter
}

// NewCollector registers the validation metrics on the given registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		validationRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feedcheck_validation_runs_total",
			Help: "Number of completed feed validation runs",
		}),
		recordsChecked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feedcheck_records_checked_total",
			Help: "Number of feed records validated",
		}),
		issuesFound: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feedcheck_issues_found_total",
			Help: "Number of issues reported, by issue type",
		}, []string{"type"}),
		remoteFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feedcheck_remote_validation_failures_total",
			Help: "Number of remote validation calls that failed or timed out",
		}),
		historyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feedcheck_history_save_failures_total",
			Help: "Number of history save attempts that failed",
		}),
		issuesFixed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feedcheck_issues_fixed_total",
			Help: "Number of issues resolved through verified fixes",
		}),
	}

	reg.MustRegister(
		c.validationRuns,
		c.recordsChecked,
		c.issuesFound,
		c.remoteFailures,
		c.historyFailures,
		c.issuesFixed,
	)

	return c
}

// RecordRun records one completed validation run and its issue breakdown.
func (c *Collector) RecordRun(result *models.ValidationResult) {
	c.validationRuns.Inc()
	c.recordsChecked.Add(float64(result.TotalItems))
	for issueType, count := range result.Summary() {
		c.issuesFound.WithLabelValues(string(issueType)).Add(float64(count))
	}
}

func (c *Collector) RecordRemoteFailure() {
	c.remoteFailures.Inc()
}

func (c *Collector) RecordHistorySaveFailure() {
	c.historyFailures.Inc()
}

func (c *Collector) RecordIssueFixed() {
	c.issuesFixed.Inc()
}
