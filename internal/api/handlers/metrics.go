package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recordsImported = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "expensetracker_csv_records_imported_total",
			Help: "Total number of CSV rows committed to the store",
		},
	)

	importErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "expensetracker_csv_import_errors_total",
			Help: "Total number of rejected CSV rows",
		},
	)

	scansProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expensetracker_scans_processed_total",
			Help: "Total number of receipt scans by outcome",
		},
		[]string{"outcome"}, // ready, failed
	)

	recordsCommitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "expensetracker_scan_records_committed_total",
			Help: "Total number of records committed from scan batches",
		},
	)
)
