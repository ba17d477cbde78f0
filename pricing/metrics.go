package pricing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultOK           = "ok"
	resultInvalid      = "invalid"
	resultStorageError = "storage_error"
	resultBusy         = "busy"
)

var (
	commitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "funpass",
		Name:      "price_commits_total",
		Help:      "Price editor commits by result.",
	}, []string{"result"})

	resetsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "funpass",
		Name:      "price_resets_total",
		Help:      "Resets of the price table to defaults by result.",
	}, []string{"result"})

	boardRefreshFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "funpass",
		Name:      "price_board_refresh_failures_total",
		Help:      "Price board refreshes that failed and kept the previous prices.",
	})
)
