package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BetsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_bets_total",
		Help: "Bet submissions by game and outcome.",
	}, []string{"game", "outcome"})

	UpstreamRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_upstream_retries_total",
		Help: "Retried game API calls by procedure.",
	}, []string{"procedure"})

	WithdrawalFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gateway_withdrawal_failures_total",
		Help: "Withdrawal submissions that failed upstream (still acknowledged to the user).",
	})
)
