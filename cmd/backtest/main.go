package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"tickmaker-go/config"
	"tickmaker-go/engine"
	"tickmaker-go/gateway"
	"tickmaker-go/infrastructure/logger"
)

// 回放录制的 tick 快照（JSONL，一行一条 gateway.TickSnapshot），
// 统计引擎在历史行情下的订单输出。
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config")
	dataPath := flag.String("data", "", "path to JSONL tick snapshot recording")
	flag.Parse()

	if *dataPath == "" {
		fmt.Fprintln(os.Stderr, "-data is required")
		os.Exit(1)
	}

	cfg, err := config.LoadWithEnvOverrides(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	eng, err := engine.New(cfg, logger.Nop())
	if err != nil {
		fmt.Fprintf(os.Stderr, "init engine: %v\n", err)
		os.Exit(1)
	}

	f, err := os.Open(*dataPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open data: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	var traderData []byte
	ticks, orders := 0, 0
	lastPositions := map[string]int{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<20)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		snap, err := gateway.DecodeSnapshot(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tick %d: %v\n", ticks, err)
			os.Exit(1)
		}
		in := snap.ToTickInput()
		// 录制回放里窗口状态由引擎自己滚动，忽略录制中的 traderData
		in.TraderData = traderData
		res := eng.RunTick(in)
		traderData = res.TraderData

		ticks++
		for _, list := range res.Orders {
			orders += len(list)
		}
		lastPositions = snap.Positions
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "read data: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("replayed %d ticks, emitted %d orders\n", ticks, orders)
	for inst, pos := range lastPositions {
		fmt.Printf("final position %s=%d\n", inst, pos)
	}
}
