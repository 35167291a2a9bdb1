package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"tickmaker-go/config"
	"tickmaker-go/engine"
	"tickmaker-go/infrastructure/logger"
	"tickmaker-go/sim"
)

// 一个极简的本地模拟：随机游走盘口驱动整条决策流水线。
// 仅用于演示与调参，不连接真实撮合器。
func main() {
	instrument := flag.String("instrument", "ALPHA", "instrument name")
	base := flag.Float64("base", 100, "starting mid price")
	ticks := flag.Int("ticks", 50, "number of ticks to simulate")
	seed := flag.Int64("seed", 0, "rng seed (0 = time-based)")
	positionLimit := flag.Int("positionLimit", 50, "hard position limit")
	windowSize := flag.Int("window", 5, "rolling window capacity")
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	interval := int64(100)
	cfg := config.Config{
		Env: "sim",
		Horizon: config.HorizonConfig{
			FinalTimestamp:     int64(*ticks-1) * interval,
			TickInterval:       interval,
			LiquidationWindow:  2 * interval,
			MarketOutThreshold: interval,
		},
		Instruments: map[string]config.InstrumentConfig{
			*instrument: {
				FairValue:          config.FairValueRolling,
				TakeVolScale:       0.5,
				ClearSpread:        0,
				BaseSpread:         3,
				IgnoreSpread:       1,
				MatchSpread:        2,
				InventorySoftLimit: *positionLimit / 2,
				PositionLimit:      *positionLimit,
				WindowSize:         *windowSize,
				MinObservations:    *windowSize,
			},
		},
	}

	eng, err := engine.New(cfg, logger.Nop())
	if err != nil {
		fmt.Fprintf(os.Stderr, "init engine: %v\n", err)
		os.Exit(1)
	}

	runner, err := sim.NewRunner(cfg, eng, *seed, map[string]float64{*instrument: *base})
	if err != nil {
		fmt.Fprintf(os.Stderr, "init runner: %v\n", err)
		os.Exit(1)
	}

	totalOrders, totalFills := 0, 0
	var last sim.StepReport
	for !runner.Done() {
		report, err := runner.Step()
		if err != nil {
			fmt.Fprintf(os.Stderr, "step: %v\n", err)
			os.Exit(1)
		}
		totalOrders += report.Orders
		totalFills += report.Fills
		last = report
		fmt.Printf("tick %d orders=%d fills=%d pos=%d pnl=%.1f\n",
			report.Timestamp, report.Orders, report.Fills, report.Positions[*instrument], report.PnL)
	}
	fmt.Printf("total orders=%d fills=%d final pos=%d pnl=%.1f\n",
		totalOrders, totalFills, last.Positions[*instrument], last.PnL)
}
