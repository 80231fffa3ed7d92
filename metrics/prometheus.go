// Package metrics Prometheus 指标收集
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// 回测指标
	backtestRunTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockquant_backtest_run_total",
			Help: "Total number of backtest runs",
		},
		[]string{"symbol", "status"}, // status: success, failed
	)

	backtestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stockquant_backtest_duration_seconds",
			Help:    "Backtest execution duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0, 30.0},
		},
		[]string{"symbol"},
	)

	backtestTradeCount = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stockquant_backtest_trade_count",
			Help:    "Number of trades produced per backtest run",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		},
		[]string{"symbol"},
	)

	// 信号指标
	signalGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockquant_signal_generated_total",
			Help: "Total number of trading signals generated",
		},
		[]string{"symbol", "type"}, // type: buy, sell, hold
	)

	resonanceLevel = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "stockquant_resonance_level",
			Help: "Latest multi-timeframe resonance level",
		},
		[]string{"symbol", "signal_type"},
	)

	// HTTP 指标
	httpRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockquant_http_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stockquant_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
		[]string{"method", "path"},
	)
)

// RecordBacktestRun 记录回测运行
func RecordBacktestRun(symbol, status string, duration time.Duration) {
	backtestRunTotal.WithLabelValues(symbol, status).Inc()
	if status == "success" {
		backtestDuration.WithLabelValues(symbol).Observe(duration.Seconds())
	}
}

// RecordBacktestTrades 记录回测产生的交易数量
func RecordBacktestTrades(symbol string, count int) {
	backtestTradeCount.WithLabelValues(symbol).Observe(float64(count))
}

// RecordSignal 记录信号生成
func RecordSignal(symbol, signalType string) {
	signalGeneratedTotal.WithLabelValues(symbol, signalType).Inc()
}

// SetResonanceLevel 记录最新共振级别
func SetResonanceLevel(symbol, signalType string, level int) {
	resonanceLevel.WithLabelValues(symbol, signalType).Set(float64(level))
}

// RecordHTTPRequest 记录 HTTP 请求
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}
