package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/c9s/barfeed/pkg/types"
)

var ReplayStepsMetrics = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "barfeed_replay_steps_total",
		Help: "number of replay steps",
	})

var BarsRevealedMetrics = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "barfeed_bars_revealed_total",
		Help: "number of revealed bars",
	}, []string{"symbol"})

var LastBarDateMetrics = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "barfeed_last_bar_date_seconds",
		Help: "unix time of the last revealed bar date",
	}, []string{"symbol"})

var LastClosePriceMetrics = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "barfeed_last_close_price",
		Help: "close price of the last revealed bar",
	}, []string{"symbol"})

var StrategySignalMetrics = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "barfeed_strategy_signals_total",
		Help: "number of signals recorded by the strategies",
	}, []string{"strategy", "type"})

func init() {
	prometheus.MustRegister(
		ReplayStepsMetrics,
		BarsRevealedMetrics,
		LastBarDateMetrics,
		LastClosePriceMetrics,
		StrategySignalMetrics,
	)
}

func RecordStep() {
	ReplayStepsMetrics.Inc()
}

func RecordBar(symbol types.Symbol, bar types.Bar) {
	labels := prometheus.Labels{"symbol": symbol.String()}
	BarsRevealedMetrics.With(labels).Inc()
	LastBarDateMetrics.With(labels).Set(float64(bar.Date.Time().Unix()))
	LastClosePriceMetrics.With(labels).Set(bar.Close)
}

func RecordSignals(strategyID, signalType string, n int) {
	if n <= 0 {
		return
	}

	StrategySignalMetrics.With(prometheus.Labels{"strategy": strategyID, "type": signalType}).Add(float64(n))
}
