package market

// BestPrices 返回最优买/卖价。found 标志显式区分空侧，
// 调用方必须分别处理单侧为空与双侧为空，不允许用 0 充当哨兵价格。
func (ob *OrderBook) BestPrices() (bestBid, bestAsk int, hasBid, hasAsk bool) {
	for p := range ob.Bids {
		if !hasBid || p > bestBid {
			bestBid = p
			hasBid = true
		}
	}
	for p := range ob.Asks {
		if !hasAsk || p < bestAsk {
			bestAsk = p
			hasAsk = true
		}
	}
	return bestBid, bestAsk, hasBid, hasAsk
}

// FarthestPrices 返回离盘口最远的买/卖价（诊断与清仓梯度用）。
func (ob *OrderBook) FarthestPrices() (farBid, farAsk int, hasBid, hasAsk bool) {
	for p := range ob.Bids {
		if !hasBid || p < farBid {
			farBid = p
			hasBid = true
		}
	}
	for p := range ob.Asks {
		if !hasAsk || p > farAsk {
			farAsk = p
			hasAsk = true
		}
	}
	return farBid, farAsk, hasBid, hasAsk
}

// Mid returns the mid-price when both sides are present.
func (ob *OrderBook) Mid() (float64, bool) {
	bid, ask, hasBid, hasAsk := ob.BestPrices()
	if !hasBid || !hasAsk {
		return 0, false
	}
	return (float64(bid) + float64(ask)) / 2, true
}

// Spread returns best ask minus best bid when both sides are present.
func (ob *OrderBook) Spread() (int, bool) {
	bid, ask, hasBid, hasAsk := ob.BestPrices()
	if !hasBid || !hasAsk {
		return 0, false
	}
	return ask - bid, true
}
