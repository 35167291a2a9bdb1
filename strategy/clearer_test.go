package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tickmaker-go/market"
)

func clearParams(spread float64, limit int) Params {
	return Params{ClearSpread: spread, PositionLimit: limit}
}

func TestClearPositionFlattensLong(t *testing.T) {
	book := market.NewOrderBook()
	book.Bids[103] = 3
	book.Bids[102] = 10

	led := &Ledger{}
	ClearPosition("ALPHA", 8, 102, clearParams(0, 10), book, led)

	require.Len(t, led.Orders, 1)
	// clearAsk=102：对 >=102 的买盘总量 13 卖出，夹到 min(13, 8, 18)=8
	assert.Equal(t, Order{Instrument: "ALPHA", Price: 102, Quantity: -8}, led.Orders[0])
	assert.Equal(t, 8, led.SellVol)
	// 不扣减档位：与吃单阶段共享流动性是沿用的近似
	assert.Equal(t, 10, book.Bids[102])
}

func TestClearPositionFlattensShort(t *testing.T) {
	book := market.NewOrderBook()
	book.Asks[98] = 4
	book.Asks[97] = 2

	led := &Ledger{}
	ClearPosition("ALPHA", -5, 98, clearParams(0, 10), book, led)

	require.Len(t, led.Orders, 1)
	// clearBid=98：对 <=98 的卖盘总量 6 买入，夹到 min(6, 5, 15)=5
	assert.Equal(t, Order{Instrument: "ALPHA", Price: 98, Quantity: 5}, led.Orders[0])
	assert.Equal(t, 5, led.BuyVol)
}

func TestClearPositionUsesProjectedPosition(t *testing.T) {
	book := market.NewOrderBook()
	book.Bids[102] = 10

	// 实际仓位 0，但当期吃单已预计买入 6
	led := &Ledger{BuyVol: 6}
	ClearPosition("ALPHA", 0, 102, clearParams(0, 10), book, led)

	require.Len(t, led.Orders, 1)
	assert.Equal(t, -6, led.Orders[0].Quantity)
}

func TestClearPositionNeverIncreasesExposure(t *testing.T) {
	book := market.NewOrderBook()
	book.Bids[102] = 100

	led := &Ledger{}
	ClearPosition("ALPHA", 8, 102, clearParams(0, 10), book, led)

	require.Len(t, led.Orders, 1)
	// 卖出量不超过投影仓位：只回到零，不反向
	assert.Equal(t, -8, led.Orders[0].Quantity)
}

func TestClearPositionNoFavorableLiquidity(t *testing.T) {
	book := market.NewOrderBook()
	book.Bids[101] = 50 // 低于 clearAsk=102，不碰

	led := &Ledger{}
	ClearPosition("ALPHA", 8, 102, clearParams(0, 10), book, led)

	assert.Empty(t, led.Orders)
}

func TestClearPositionFlatDoesNothing(t *testing.T) {
	book := market.NewOrderBook()
	book.Bids[102] = 10
	book.Asks[98] = 10

	led := &Ledger{}
	ClearPosition("ALPHA", 0, 100, clearParams(0, 10), book, led)

	assert.Empty(t, led.Orders)
}

func TestClearPositionRoundsClearingPrice(t *testing.T) {
	book := market.NewOrderBook()
	book.Bids[102] = 10

	led := &Ledger{}
	// fair=100.6, clearSpread=1 -> clearAsk=round(101.6)=102
	ClearPosition("ALPHA", 4, 100.6, clearParams(1, 10), book, led)

	require.Len(t, led.Orders, 1)
	assert.Equal(t, 102, led.Orders[0].Price)
}
