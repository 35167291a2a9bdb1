package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/v22/daemon"

	"tickmaker-go/config"
	"tickmaker-go/engine"
	"tickmaker-go/gateway"
	"tickmaker-go/infrastructure/logger"
	"tickmaker-go/metrics"
)

// 接入撮合器的常驻进程：配置 -> 日志 -> 指标 -> 热更新 -> websocket 会话。
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config")
	flag.Parse()

	cfg, err := config.LoadWithEnvOverrides(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Close() }()

	eng, err := engine.New(cfg, log)
	if err != nil {
		log.LogError(err, nil)
		os.Exit(1)
	}

	if cfg.Metrics.Enabled {
		metrics.StartMetricsServer(cfg.Metrics.Addr)
		log.Info("metrics server started")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 阈值热更新：watcher 只改 instrument 配置，horizon 不支持在线改
	go func() {
		w := config.Watcher{Path: *cfgPath}
		if err := w.Start(ctx, func(updated config.Config) {
			eng.ApplyInstruments(updated.Instruments)
			log.Info("instrument thresholds reloaded")
		}); err != nil && ctx.Err() == nil {
			log.LogError(err, nil)
		}
	}()

	client := &gateway.Client{
		Endpoint: cfg.Gateway.Endpoint,
		Log:      log,
	}

	_, _ = daemon.SdNotify(false, daemon.SdNotifyReady)

	if err := client.Run(ctx, eng.RunTick); err != nil && ctx.Err() == nil {
		log.LogError(err, nil)
		os.Exit(1)
	}
}
