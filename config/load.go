package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"tickmaker-go/infrastructure/logger"
)

// Config holds the main runtime configuration.
type Config struct {
	Env         string                      `yaml:"env"`
	Gateway     GatewayConfig               `yaml:"gateway"`
	Horizon     HorizonConfig               `yaml:"horizon"`
	Logging     logger.Config               `yaml:"logging"`
	Metrics     MetricsConfig               `yaml:"metrics"`
	Instruments map[string]InstrumentConfig `yaml:"instruments"`
}

// GatewayConfig 撮合器边界配置。
type GatewayConfig struct {
	Endpoint string `yaml:"endpoint"` // 撮合器 websocket 地址
}

// HorizonConfig 离散时钟与收尾清仓窗口。
type HorizonConfig struct {
	FinalTimestamp     int64 `yaml:"finalTimestamp"`     // 时段最后一个 tick
	TickInterval       int64 `yaml:"tickInterval"`       // 时钟步长
	LiquidationWindow  int64 `yaml:"liquidationWindow"`  // 剩余时间进入该窗口后强制清仓
	MarketOutThreshold int64 `yaml:"marketOutThreshold"` // 剩余时间低于该值直接对价扫单
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// 公允价来源。
const (
	FairValueFixed   = "fixed"   // 已知均衡价的均值回归品种
	FairValueRolling = "rolling" // 滚动窗口均值
)

// InstrumentConfig 保存单个 instrument 的报价阈值与窗口参数。
// 同一条流水线按这些常数区分品种，不再维护重复的策略变体。
type InstrumentConfig struct {
	FairValue          string  `yaml:"fairValue"`          // fixed 或 rolling
	FixedFairValue     float64 `yaml:"fixedFairValue"`     // fixed 模式下的均衡价
	TakeSpread         float64 `yaml:"takeSpread"`         // 吃单阈值（fixed 模式）
	TakeVolScale       float64 `yaml:"takeVolScale"`       // rolling 模式下吃单阈值 = scale * stdDev
	ClearSpread        float64 `yaml:"clearSpread"`        // 平仓价偏移
	BaseSpread         float64 `yaml:"baseSpread"`         // 默认报价半宽
	IgnoreSpread       float64 `yaml:"ignoreSpread"`       // 噪声带宽度
	MatchSpread        float64 `yaml:"matchSpread"`        // 跟价/penny 分界
	InventorySoftLimit int     `yaml:"inventorySoftLimit"` // 报价倾斜软上限
	PositionLimit      int     `yaml:"positionLimit"`      // 硬性仓位上限
	WindowSize         int     `yaml:"windowSize"`         // 滚动窗口容量
	MinObservations    int     `yaml:"minObservations"`    // 估计所需最少观测数
}

// Load reads YAML config from path and applies basic validation.
func Load(path string) (Config, error) {
	var cfg Config
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadWithEnvOverrides loads config then overrides deployment fields from env vars if present.
func LoadWithEnvOverrides(path string) (Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if v := os.Getenv("TM_GATEWAY_ENDPOINT"); v != "" {
		cfg.Gateway.Endpoint = v
	}
	if v := os.Getenv("TM_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	return cfg, Validate(cfg)
}
