package strategy

import (
	"math"

	"tickmaker-go/market"
)

// ClearPosition 在出现合适对价时把已累计的仓位（含当期预计成交）推回零。
// 只按聚合挂单量估算，不扣减档位——与吃单阶段共享同一份流动性存在重复计数，
// 这是沿用的近似口径，见 DESIGN.md。保证只减少敞口，绝不反向加仓。
func ClearPosition(instrument string, position int, fairValue float64, p Params, book *market.OrderBook, led *Ledger) {
	projected := led.Projected(position)
	if projected == 0 {
		return
	}

	clearBid := int(math.Round(fairValue - p.ClearSpread))
	clearAsk := int(math.Round(fairValue + p.ClearSpread))

	maxBuyQty := p.PositionLimit - (position + led.BuyVol)
	maxSellQty := p.PositionLimit + (position - led.SellVol)

	if projected > 0 {
		// 多头：对 clearAsk 及以上的买单总量卖出
		avail := 0
		for price, qty := range book.Bids {
			if price >= clearAsk {
				avail += qty
			}
		}
		qty := min3(avail, projected, maxSellQty)
		if qty > 0 {
			led.append(Order{Instrument: instrument, Price: clearAsk, Quantity: -qty})
			led.SellVol += qty
		}
		return
	}

	// 空头：对 clearBid 及以下的卖单总量买入
	avail := 0
	for price, qty := range book.Asks {
		if price <= clearBid {
			avail += qty
		}
	}
	qty := min3(avail, -projected, maxBuyQty)
	if qty > 0 {
		led.append(Order{Instrument: instrument, Price: clearBid, Quantity: qty})
		led.BuyVol += qty
	}
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
