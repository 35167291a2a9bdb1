package strategy

import (
	"math"

	"tickmaker-go/market"
)

// LiquidationMode 标识清仓状态机当前所处的子状态。
type LiquidationMode int

const (
	LiquidationInactive LiquidationMode = iota
	LiquidationLadderOut
	LiquidationMarketOut
)

func (m LiquidationMode) String() string {
	switch m {
	case LiquidationLadderOut:
		return "ladder_out"
	case LiquidationMarketOut:
		return "market_out"
	default:
		return "inactive"
	}
}

// Liquidator 在交易时段收尾阶段把仓位强制推回零。
// 激活后其输出整体覆盖该 instrument 当期其他阶段的订单。
type Liquidator struct {
	FinalTimestamp     int64 // 时段最后一个 tick 的时间戳
	TickInterval       int64 // 离散时钟步长
	Window             int64 // 剩余时间小于等于该值时激活
	MarketOutThreshold int64 // 剩余时间小于等于该值时直接对价扫单
}

// Active 判断当前时间戳是否进入清仓窗口。
func (l Liquidator) Active(now int64) bool {
	return l.FinalTimestamp-now <= l.Window
}

// Plan 为单个 instrument 生成清仓订单。recentMids 是滚动窗口中
// 最近的中间价观测（最老在前），盘口缺失时用来合成参考价。
// 既无盘口又不足 3 个历史观测时返回 ErrLiquidationGap，当期跳过，
// 绝不凭空编造价格。
func (l Liquidator) Plan(instrument string, position int, now int64, book *market.OrderBook, recentMids []float64) ([]Order, LiquidationMode, error) {
	if position == 0 || !l.Active(now) {
		return nil, LiquidationInactive, nil
	}

	remaining := l.FinalTimestamp - now
	bestBid, bestAsk, hasBid, hasAsk := book.BestPrices()

	// 多头需要买盘承接，空头需要卖盘
	sideAvailable := (position > 0 && hasBid) || (position < 0 && hasAsk)
	if !sideAvailable {
		// 合成价兜底：用最近 3 个中间价观测的均值构造 mid±1
		if len(recentMids) < 3 {
			return nil, LiquidationInactive, ErrLiquidationGap
		}
		tail := recentMids[len(recentMids)-3:]
		mid := (tail[0] + tail[1] + tail[2]) / 3
		synthetic := int(math.Round(mid))
		if position > 0 {
			return []Order{{Instrument: instrument, Price: synthetic - 1, Quantity: -position}}, LiquidationMarketOut, nil
		}
		return []Order{{Instrument: instrument, Price: synthetic + 1, Quantity: -position}}, LiquidationMarketOut, nil
	}

	if remaining <= l.MarketOutThreshold {
		// 最后关头：全仓对价扫出，价格再差也要平掉
		if position > 0 {
			return []Order{{Instrument: instrument, Price: bestBid, Quantity: -position}}, LiquidationMarketOut, nil
		}
		return []Order{{Instrument: instrument, Price: bestAsk, Quantity: -position}}, LiquidationMarketOut, nil
	}

	return l.ladderOut(instrument, position, remaining, book), LiquidationLadderOut, nil
}

// ladderOut 沿最优方向逐档拆单，把仓位摊到剩余的 tick 上，
// 减小冲击成本。当期没吃完的残量顺延到下一 tick。
func (l Liquidator) ladderOut(instrument string, position int, remaining int64, book *market.OrderBook) []Order {
	interval := l.TickInterval
	if interval <= 0 {
		interval = 1
	}
	units := remaining / interval
	if units < 1 {
		units = 1
	}
	target := position
	if target < 0 {
		target = -target
	}
	step := target / int(units)
	if step < 1 {
		step = 1
	}

	var orders []Order
	left := target
	if position > 0 {
		for _, price := range book.SortedBids() {
			if left <= 0 {
				break
			}
			qty := step
			if qty > left {
				qty = left
			}
			orders = append(orders, Order{Instrument: instrument, Price: price, Quantity: -qty})
			left -= qty
		}
	} else {
		for _, price := range book.SortedAsks() {
			if left <= 0 {
				break
			}
			qty := step
			if qty > left {
				qty = left
			}
			orders = append(orders, Order{Instrument: instrument, Price: price, Quantity: qty})
			left -= qty
		}
	}
	return orders
}
