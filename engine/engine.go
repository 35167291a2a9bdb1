// Package engine 把盘口视图、滚动估计、吃单、平仓、挂单与收尾清仓
// 串成每 tick 一次的同步流水线。阶段顺序固定：后续阶段依赖前序阶段
// 累计的预计成交量，调整顺序会改变经济结果。
package engine

import (
	"sort"
	"sync"
	"time"

	"tickmaker-go/config"
	"tickmaker-go/infrastructure/logger"
	"tickmaker-go/market"
	"tickmaker-go/metrics"
	"tickmaker-go/state"
	"tickmaker-go/strategy"
)

// TickInput 是撮合器每 tick 下发的快照。
type TickInput struct {
	Timestamp  int64
	Books      map[string]*market.OrderBook
	Positions  map[string]int
	TraderData []byte // 上一期 RunTick 输出的持久化状态，字节原样回传
}

// TickResult 是当期决策：每个 instrument 的订单列表、
// 预留的 conversions 计数（恒为 0）与更新后的持久化状态。
type TickResult struct {
	Orders      map[string][]strategy.Order
	Conversions int
	TraderData  []byte
}

// Engine 单线程执行，每 tick 完整处理后才接收下一期输入。
// 锁只保护热更新（watcher goroutine 改写 instrument 阈值）。
type Engine struct {
	mu          sync.RWMutex
	horizon     config.HorizonConfig
	instruments map[string]config.InstrumentConfig

	log *logger.Logger
}

func New(cfg config.Config, log *logger.Logger) (*Engine, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}
	inst := make(map[string]config.InstrumentConfig, len(cfg.Instruments))
	for name, ic := range cfg.Instruments {
		inst[name] = ic
	}
	return &Engine{
		horizon:     cfg.Horizon,
		instruments: inst,
		log:         log,
	}, nil
}

// ApplyInstruments 热更新报价阈值（仓位上限等硬约束也随之生效）。
func (e *Engine) ApplyInstruments(instruments map[string]config.InstrumentConfig) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for name, ic := range instruments {
		e.instruments[name] = ic
	}
}

// RunTick 处理一期快照。单个 instrument 的故障就地恢复，
// 不影响其余 instrument 的处理。
func (e *Engine) RunTick(in TickInput) TickResult {
	started := time.Now()
	e.mu.RLock()
	horizon := e.horizon
	instruments := make(map[string]config.InstrumentConfig, len(e.instruments))
	for name, ic := range e.instruments {
		instruments[name] = ic
	}
	e.mu.RUnlock()

	snap, err := state.Decode(in.TraderData)
	if err != nil {
		// 状态损坏按冷启动处理：窗口重新积累，不中断决策
		e.log.LogError(err, map[string]interface{}{"timestamp": in.Timestamp})
		snap = state.NewSnapshot()
	}

	liq := strategy.Liquidator{
		FinalTimestamp:     horizon.FinalTimestamp,
		TickInterval:       horizon.TickInterval,
		Window:             horizon.LiquidationWindow,
		MarketOutThreshold: horizon.MarketOutThreshold,
	}

	result := TickResult{Orders: make(map[string][]strategy.Order)}
	for _, name := range sortedNames(instruments) {
		book := in.Books[name]
		endgame := liq.Active(in.Timestamp) && in.Positions[name] != 0
		if book == nil {
			if !endgame {
				continue
			}
			// 快照缺失该盘口但仍有仓位要清：走合成价兜底
			book = market.NewOrderBook()
		}

		// 观测先于一切决策：mid 与 spread 只有双边都有挂单时才有定义
		if mid, ok := book.Mid(); ok {
			snap.MidWindow(name, instruments[name].WindowSize).Observe(mid)
			if spread, ok := book.Spread(); ok {
				snap.SpreadWindow(name, instruments[name].WindowSize).Observe(float64(spread))
			}
		}

		var orders []strategy.Order
		if !endgame {
			orders = e.processInstrument(name, instruments[name], book, in.Positions[name], in.Timestamp, snap)
			metrics.LiquidationMode.WithLabelValues(name).Set(float64(strategy.LiquidationInactive))
		} else {
			// 收尾清仓整体覆盖该 instrument 当期输出
			orders = e.liquidate(liq, name, instruments[name], book, in.Positions[name], in.Timestamp, snap)
		}
		result.Orders[name] = orders
		for _, o := range orders {
			metrics.RecordOrder(name, o.Quantity)
		}
	}

	raw, err := snap.Encode()
	if err != nil {
		// 编码失败时回传上一期状态，至少保证窗口不被清空
		e.log.LogError(err, map[string]interface{}{"timestamp": in.Timestamp})
		raw = in.TraderData
	}
	result.TraderData = raw

	metrics.TickDuration.Observe(time.Since(started).Seconds())
	e.log.LogTick(in.Timestamp, map[string]interface{}{
		"instruments": len(result.Orders),
		"endgame":     liq.Active(in.Timestamp),
	})
	return result
}

// processInstrument 执行常规三段流水线：吃单 -> 平仓 -> 挂单。
func (e *Engine) processInstrument(name string, ic config.InstrumentConfig, book *market.OrderBook, position int, now int64, snap *state.Snapshot) (orders []strategy.Order) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("instrument pipeline panic")
			e.log.LogSkip(name, "panic", map[string]interface{}{"recovered": r, "timestamp": now})
			metrics.RecordSkip(name, "panic")
			orders = nil
		}
	}()

	if farBid, farAsk, okB, okA := book.FarthestPrices(); okB && okA {
		metrics.BookSpan.WithLabelValues(name).Set(float64(farAsk - farBid))
	}
	metrics.BookVolume.WithLabelValues(name, "bid").Set(float64(book.BidVolume()))
	metrics.BookVolume.WithLabelValues(name, "ask").Set(float64(book.AskVolume()))

	if err := strategy.RequireTwoSided(book); err != nil {
		// 单侧或双侧为空：所有依赖价格的阶段当期短路
		e.log.LogSkip(name, "missing_book_side", map[string]interface{}{"timestamp": now})
		metrics.RecordSkip(name, "missing_book_side")
		return nil
	}

	fair, stdDev, err := e.fairValue(name, ic, snap)
	if err != nil {
		// 暖机期：窗口未满，跳过当期报价
		e.log.LogSkip(name, "insufficient_history", map[string]interface{}{"timestamp": now})
		metrics.RecordSkip(name, "insufficient_history")
		return nil
	}

	params := strategy.Params{
		TakeSpread:         ic.TakeSpread,
		ClearSpread:        ic.ClearSpread,
		BaseSpread:         ic.BaseSpread,
		IgnoreSpread:       ic.IgnoreSpread,
		MatchSpread:        ic.MatchSpread,
		InventorySoftLimit: ic.InventorySoftLimit,
		PositionLimit:      ic.PositionLimit,
	}
	if ic.FairValue == config.FairValueRolling {
		// 波动大时吃单更保守
		params.TakeSpread = stdDev * ic.TakeVolScale
	}

	working := book.Clone()
	led := &strategy.Ledger{}
	strategy.TakeBestOrders(name, position, fair, params, working, led)
	strategy.ClearPosition(name, position, fair, params, working, led)
	strategy.MakeMarket(name, position, fair, params, working, led)

	metrics.UpdateInstrument(name, position, fair, stdDev, led.BuyVol, led.SellVol)
	e.log.Debug("instrument decided")
	return led.Orders
}

// liquidate 执行收尾清仓并记录所处子状态。
func (e *Engine) liquidate(liq strategy.Liquidator, name string, ic config.InstrumentConfig, book *market.OrderBook, position int, now int64, snap *state.Snapshot) (orders []strategy.Order) {
	defer func() {
		if r := recover(); r != nil {
			e.log.LogSkip(name, "panic", map[string]interface{}{"recovered": r, "timestamp": now})
			metrics.RecordSkip(name, "panic")
			orders = nil
		}
	}()

	recent := snap.MidWindow(name, ic.WindowSize).Last(3)
	orders, mode, err := liq.Plan(name, position, now, book, recent)
	if err != nil {
		e.log.LogSkip(name, "liquidation_gap", map[string]interface{}{"timestamp": now, "position": position})
		metrics.RecordSkip(name, "liquidation_gap")
		return nil
	}
	metrics.LiquidationMode.WithLabelValues(name).Set(float64(mode))
	return orders
}

func (e *Engine) fairValue(name string, ic config.InstrumentConfig, snap *state.Snapshot) (fair, stdDev float64, err error) {
	if ic.FairValue == config.FairValueFixed {
		return ic.FixedFairValue, 0, nil
	}
	return snap.MidWindow(name, ic.WindowSize).Estimate(ic.MinObservations)
}

func sortedNames(instruments map[string]config.InstrumentConfig) []string {
	names := make([]string, 0, len(instruments))
	for name := range instruments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
