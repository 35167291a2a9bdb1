package strategy

import (
	"errors"

	"tickmaker-go/market"
)

var (
	// ErrMissingBookSide 表示盘口一侧或两侧为空，当期跳过该 instrument。
	ErrMissingBookSide = errors.New("missing book side")
	// ErrLiquidationGap 表示清仓时既无盘口也无历史价参考，当期跳过。
	ErrLiquidationGap = errors.New("no price reference for liquidation")
)

// RequireTwoSided 校验盘口双侧均有挂单。所有依赖价格的阶段
// 都假定双边盘口，调用方在进入流水线前检查一次。
func RequireTwoSided(book *market.OrderBook) error {
	if _, _, hasBid, hasAsk := book.BestPrices(); !hasBid || !hasAsk {
		return ErrMissingBookSide
	}
	return nil
}

// Order 是提交给撮合器的限价单。Quantity 带符号：正=买，负=卖。
// 同一 instrument 同一 tick 可以有多笔独立挂单，不是替换语义。
type Order struct {
	Instrument string
	Price      int
	Quantity   int
}

func (o Order) IsBuy() bool {
	return o.Quantity > 0
}

// Params 汇总单个 instrument 的全部报价阈值。
// 三套近似重复的策略变体整合为同一条流水线，仅常数不同。
type Params struct {
	TakeSpread         float64 // 吃单阈值：偏离公允价超过该值的对手挂单直接成交
	ClearSpread        float64 // 平仓价相对公允价的偏移
	BaseSpread         float64 // 无参照挂单时的默认报价半宽
	IgnoreSpread       float64 // 距公允价过近的挂单视为噪声，忽略
	MatchSpread        float64 // 该距离内跟价，超出则 penny 一跳
	InventorySoftLimit int     // 超过后向平仓方向收紧一跳
	PositionLimit      int     // 硬性仓位上限（对称）
}

// Ledger 累计当期已生成的订单与预计成交量。
// 后续阶段依赖前序阶段的 BuyVol/SellVol 投影来控制剩余容量，
// 因为真实仓位要到下一 tick 撮合器回报成交后才更新。
type Ledger struct {
	Orders  []Order
	BuyVol  int
	SellVol int
}

// Projected 返回计入当期预计成交后的仓位。
func (l *Ledger) Projected(position int) int {
	return position + l.BuyVol - l.SellVol
}

func (l *Ledger) append(o Order) {
	l.Orders = append(l.Orders, o)
}
