// Package metrics provides Prometheus metrics for the tick engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Position 撮合器回报的当前仓位
	Position = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tick_position",
		Help: "Current signed position per instrument",
	}, []string{"instrument"})

	// FairValue 当期使用的公允价
	FairValue = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tick_fair_value",
		Help: "Fair value estimate used this tick",
	}, []string{"instrument"})

	// Dispersion 滚动窗口样本标准差
	Dispersion = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tick_dispersion",
		Help: "Rolling window sample standard deviation",
	}, []string{"instrument"})

	// BookSpan 盘口纵深：最远卖价减最远买价
	BookSpan = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tick_book_span",
		Help: "Farthest ask minus farthest bid",
	}, []string{"instrument"})

	// BookVolume 盘口单侧总挂单量
	BookVolume = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tick_book_volume",
		Help: "Total resting volume per book side",
	}, []string{"instrument", "side"})

	// ProjectedVolume 当期预计成交量（taker+clearer 投影）
	ProjectedVolume = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tick_projected_volume",
		Help: "Projected fill volume accumulated this tick",
	}, []string{"instrument", "side"})

	// OrdersEmitted 已生成订单计数
	OrdersEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tick_orders_emitted_total",
		Help: "Orders emitted per instrument and side",
	}, []string{"instrument", "side"})

	// InstrumentSkips 当期跳过计数（按原因）
	InstrumentSkips = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tick_instrument_skips_total",
		Help: "Per-tick instrument skips by reason",
	}, []string{"instrument", "reason"})

	// LiquidationMode 清仓状态机当前状态（0=inactive,1=ladder,2=market）
	LiquidationMode = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tick_liquidation_mode",
		Help: "Endgame liquidation sub-state (0=inactive,1=ladder_out,2=market_out)",
	}, []string{"instrument"})

	// TickDuration 单个 tick 的处理耗时
	TickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tick_duration_seconds",
		Help:    "Wall time spent deciding one tick",
		Buckets: prometheus.ExponentialBuckets(1e-5, 4, 8),
	})
)

// RecordOrder 记录一笔生成的订单。
func RecordOrder(instrument string, quantity int) {
	side := "buy"
	if quantity < 0 {
		side = "sell"
	}
	OrdersEmitted.WithLabelValues(instrument, side).Inc()
}

// RecordSkip 记录一次当期跳过。
func RecordSkip(instrument, reason string) {
	InstrumentSkips.WithLabelValues(instrument, reason).Inc()
}

// UpdateInstrument 更新单 instrument 的每 tick 快照指标。
func UpdateInstrument(instrument string, position int, fair, stdDev float64, buyVol, sellVol int) {
	Position.WithLabelValues(instrument).Set(float64(position))
	FairValue.WithLabelValues(instrument).Set(fair)
	Dispersion.WithLabelValues(instrument).Set(stdDev)
	ProjectedVolume.WithLabelValues(instrument, "buy").Set(float64(buyVol))
	ProjectedVolume.WithLabelValues(instrument, "sell").Set(float64(sellVol))
}

// StartMetricsServer 启动Prometheus指标服务器
func StartMetricsServer(addr string) {
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		_ = http.ListenAndServe(addr, nil)
	}()
}
