package strategy

import "tickmaker-go/market"

// TakeBestOrders 吃掉明显错价的对手盘：卖一价低于 fair-takeSpread 时买入，
// 买一价高于 fair+takeSpread 时卖出，数量受剩余仓位容量约束。
// 每个 tick 每侧只看最优一档，不扫多档，这是有意的简化。
// book 必须是当期工作副本：成交量会从档位里扣减，档位清零即删除。
func TakeBestOrders(instrument string, position int, fairValue float64, p Params, book *market.OrderBook, led *Ledger) {
	// 买入低估的卖单
	if _, bestAsk, _, hasAsk := book.BestPrices(); hasAsk {
		if float64(bestAsk) <= fairValue-p.TakeSpread {
			qty := book.Asks[bestAsk]
			if room := p.PositionLimit - position; qty > room {
				qty = room
			}
			if qty > 0 {
				led.append(Order{Instrument: instrument, Price: bestAsk, Quantity: qty})
				led.BuyVol += qty
				book.Asks[bestAsk] -= qty
				if book.Asks[bestAsk] == 0 {
					delete(book.Asks, bestAsk)
				}
			}
		}
	}

	// 卖给高估的买单
	if bestBid, _, hasBid, _ := book.BestPrices(); hasBid {
		if float64(bestBid) >= fairValue+p.TakeSpread {
			qty := book.Bids[bestBid]
			if room := p.PositionLimit + position; qty > room {
				qty = room
			}
			if qty > 0 {
				led.append(Order{Instrument: instrument, Price: bestBid, Quantity: -qty})
				led.SellVol += qty
				book.Bids[bestBid] -= qty
				if book.Bids[bestBid] == 0 {
					delete(book.Bids, bestBid)
				}
			}
		}
	}
}
