package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ledger metrics
var (
	EntriesPosted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_entries_posted_total",
		Help: "Total number of journal entries posted",
	})

	EntriesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_entries_rejected_total",
		Help: "Total number of rejected postings by reason",
	}, []string{"reason"})

	PostingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ledger_posting_duration_seconds",
		Help:    "Posting transaction duration in seconds",
		Buckets: prometheus.DefBuckets,
	})
)

// Reporting metrics
var (
	TrialBalanceReports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trial_balance_reports_total",
		Help: "Total number of trial balance reports generated",
	}, []string{"source"}) // computed | cache

	ForecastRecomputes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "forecast_recomputes_total",
		Help: "Total number of forecast recompute passes",
	})

	ForecastRowsRecomputed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "forecast_rows_recomputed_total",
		Help: "Total number of schedule rows touched by recompute passes",
	})

	RecurringExpansions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recurring_expansions_total",
		Help: "Total number of recurring event expansion passes",
	})
)
