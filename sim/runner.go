// Package sim 提供一个进程内的极简撮合器替身：随机游走生成盘口、
// 朴素撮合引擎订单、按 tick 统计仓位与盈亏。仅用于 cmd/sim 与回归测试，
// 不承担真实撮合语义。
package sim

import (
	"errors"
	"math"
	"math/rand"

	"tickmaker-go/config"
	"tickmaker-go/engine"
	"tickmaker-go/market"
	"tickmaker-go/strategy"
)

// Runner 驱动引擎跑完整个交易时段。
type Runner struct {
	eng         *engine.Engine
	horizon     config.HorizonConfig
	instruments map[string]config.InstrumentConfig

	rng        *rand.Rand
	basePrices map[string]float64
	positions  map[string]int
	cash       map[string]float64
	traderData []byte
	now        int64
	lastMid    map[string]float64
}

// StepReport 单个 tick 的模拟结果。
type StepReport struct {
	Timestamp int64
	Orders    int
	Fills     int
	Positions map[string]int
	PnL       float64
}

func NewRunner(cfg config.Config, eng *engine.Engine, seed int64, basePrices map[string]float64) (*Runner, error) {
	if eng == nil {
		return nil, errors.New("engine required")
	}
	if len(basePrices) == 0 {
		return nil, errors.New("base prices required")
	}
	r := &Runner{
		eng:         eng,
		horizon:     cfg.Horizon,
		instruments: cfg.Instruments,
		rng:         rand.New(rand.NewSource(seed)),
		basePrices:  make(map[string]float64, len(basePrices)),
		positions:   make(map[string]int, len(basePrices)),
		cash:        make(map[string]float64, len(basePrices)),
		lastMid:     make(map[string]float64, len(basePrices)),
	}
	for inst, p := range basePrices {
		r.basePrices[inst] = p
		r.lastMid[inst] = p
	}
	return r, nil
}

// Done 报告时段是否结束。
func (r *Runner) Done() bool {
	return r.now > r.horizon.FinalTimestamp
}

// Step 推进一个 tick：生成盘口、调引擎、撮合订单。
func (r *Runner) Step() (StepReport, error) {
	if r.Done() {
		return StepReport{}, errors.New("horizon exhausted")
	}

	books := make(map[string]*market.OrderBook, len(r.basePrices))
	for inst := range r.basePrices {
		books[inst] = r.generateBook(inst)
	}

	positions := make(map[string]int, len(r.positions))
	for inst, pos := range r.positions {
		positions[inst] = pos
	}

	res := r.eng.RunTick(engine.TickInput{
		Timestamp:  r.now,
		Books:      books,
		Positions:  positions,
		TraderData: r.traderData,
	})
	r.traderData = res.TraderData

	report := StepReport{Timestamp: r.now, Positions: make(map[string]int)}
	for inst, orders := range res.Orders {
		report.Orders += len(orders)
		for _, o := range orders {
			report.Fills += r.match(inst, o, books[inst])
		}
	}
	for inst, pos := range r.positions {
		report.Positions[inst] = pos
		report.PnL += r.cash[inst] + float64(pos)*r.lastMid[inst]
	}

	r.now += r.horizon.TickInterval
	return report, nil
}

// generateBook 围绕随机游走的 mid 造一个三档盘口，
// 偶尔塞进一个明显错价的档位，让吃单阶段有活可干。
func (r *Runner) generateBook(inst string) *market.OrderBook {
	base := r.basePrices[inst] + r.rng.NormFloat64()
	r.basePrices[inst] = base
	r.lastMid[inst] = base

	ob := market.NewOrderBook()
	mid := int(math.Round(base))
	for i := 1; i <= 3; i++ {
		ob.Bids[mid-i] = 1 + r.rng.Intn(10)
		ob.Asks[mid+i] = 1 + r.rng.Intn(10)
	}
	if r.rng.Float64() < 0.1 {
		// 错价卖单：远低于 mid。同价及更高的买档一并清掉，
		// 生成的盘口必须保持不交叉
		px := mid - 2
		ob.Asks[px] = 1 + r.rng.Intn(5)
		for bp := range ob.Bids {
			if bp >= px {
				delete(ob.Bids, bp)
			}
		}
	}
	return ob
}

// match 朴素撮合：限价单与盘口交叉即按档位成交，尊重仓位上限。
func (r *Runner) match(inst string, o strategy.Order, book *market.OrderBook) int {
	limit := r.instruments[inst].PositionLimit
	filled := 0
	if o.Quantity > 0 {
		remaining := o.Quantity
		for _, price := range book.SortedAsks() {
			if price > o.Price || remaining <= 0 {
				break
			}
			qty := book.Asks[price]
			if qty > remaining {
				qty = remaining
			}
			if room := limit - r.positions[inst]; qty > room {
				qty = room
			}
			if qty <= 0 {
				break
			}
			r.positions[inst] += qty
			r.cash[inst] -= float64(qty * price)
			remaining -= qty
			filled += qty
		}
		return filled
	}

	remaining := -o.Quantity
	for _, price := range book.SortedBids() {
		if price < o.Price || remaining <= 0 {
			break
		}
		qty := book.Bids[price]
		if qty > remaining {
			qty = remaining
		}
		if room := limit + r.positions[inst]; qty > room {
			qty = room
		}
		if qty <= 0 {
			break
		}
		r.positions[inst] -= qty
		r.cash[inst] += float64(qty * price)
		remaining -= qty
		filled += qty
	}
	return filled
}
