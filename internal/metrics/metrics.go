package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Statements = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dbregistry_statements_total",
		Help: "Transactions run, by outcome.",
	}, []string{"outcome"})

	EnginesOpened = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dbregistry_engines_opened_total",
		Help: "Engine handles opened across all connections.",
	})

	RowsFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dbregistry_rows_fetched_total",
		Help: "Rows materialized by recordset queries.",
	})
)
