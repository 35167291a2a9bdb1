package strategy

import (
	"math"

	"tickmaker-go/market"
)

// MakeMarket 挂出双边被动报价：贴着盘口外侧的可参照挂单跟价或 penny 一跳，
// 库存超过软上限时向平仓方向再收紧一跳，数量补满剩余仓位容量。
// 距公允价 ignoreSpread 以内的挂单视为噪声（含自家挂单），不作参照。
func MakeMarket(instrument string, position int, fairValue float64, p Params, book *market.OrderBook, led *Ledger) {
	// 默认报价：公允价 ± baseSpread
	ourAsk := int(math.Round(fairValue + p.BaseSpread))
	ourBid := int(math.Round(fairValue - p.BaseSpread))

	// 噪声带之外最接近公允价的对手挂单
	askAboveFair, hasAsk := 0, false
	for price := range book.Asks {
		if float64(price) > fairValue+p.IgnoreSpread && (!hasAsk || price < askAboveFair) {
			askAboveFair = price
			hasAsk = true
		}
	}
	bidBelowFair, hasBid := 0, false
	for price := range book.Bids {
		if float64(price) < fairValue-p.IgnoreSpread && (!hasBid || price > bidBelowFair) {
			bidBelowFair = price
			hasBid = true
		}
	}

	if hasAsk {
		if math.Abs(float64(askAboveFair)-fairValue) <= p.MatchSpread {
			ourAsk = askAboveFair // 跟价
		} else {
			ourAsk = askAboveFair - 1 // penny
		}
	}
	if hasBid {
		if math.Abs(float64(bidBelowFair)-fairValue) <= p.MatchSpread {
			ourBid = bidBelowFair
		} else {
			ourBid = bidBelowFair + 1
		}
	}

	// 库存倾斜：仓位越界一侧收紧一跳，加速回到软上限以内
	if position > p.InventorySoftLimit {
		ourAsk--
	}
	if position < -p.InventorySoftLimit {
		ourBid++
	}

	// 倾斜后的双边报价可能交叉（小数公允价 + 双侧 penny 时一跳就够）。
	// 保留倾斜方向的激进价，把另一侧让开，绝不挂出自成交的报价对。
	if ourBid >= ourAsk {
		if position > p.InventorySoftLimit {
			ourBid = ourAsk - 1
		} else {
			ourAsk = ourBid + 1
		}
	}

	// 数量补满剩余容量；非正数直接压掉该侧，不视为错误
	buyQty := p.PositionLimit - (position + led.BuyVol)
	sellQty := p.PositionLimit + (position - led.SellVol)
	if buyQty > 0 {
		led.append(Order{Instrument: instrument, Price: ourBid, Quantity: buyQty})
	}
	if sellQty > 0 {
		led.append(Order{Instrument: instrument, Price: ourAsk, Quantity: -sellQty})
	}
}
