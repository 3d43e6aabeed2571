package config

import (
	"fmt"
	"os"
	"time"

	"curve-mm-go/infrastructure/logger"
	"curve-mm-go/pricing"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// AppConfig holds the main runtime configuration.
type AppConfig struct {
	Env         string              `yaml:"env"`
	Market      MarketConfig        `yaml:"market"`
	Curve       pricing.CurveParams `yaml:"curve"`
	Ladder      LadderConfig        `yaml:"ladder"`
	Safety      pricing.SafetyGate  `yaml:"safety"`
	Fees        FeeConfig           `yaml:"fees"`
	Negotiation NegotiationConfig   `yaml:"negotiation"`
	PriceFeed   PriceFeedConfig     `yaml:"priceFeed"`
	Inventory   InventoryConfig     `yaml:"inventory"`
	Gateway     GatewayConfig       `yaml:"gateway"`
	Log         logger.Config       `yaml:"log"`
	MetricsAddr string              `yaml:"metricsAddr"`
}

// MarketConfig 交易对标识，A 为基础资产，B 为计价资产。
type MarketConfig struct {
	ID     string `yaml:"id"`
	AssetA string `yaml:"assetA"`
	AssetB string `yaml:"assetB"`
}

type LadderConfig struct {
	Slices          int `yaml:"slices"`          // 每侧切片数
	QuoteIntervalMs int `yaml:"quoteIntervalMs"` // 重新报价周期（毫秒）
}

// FeeConfig 固定手续费：对手方买入时以 B 计（quote），卖出时以 A 计（base）。
type FeeConfig struct {
	Base  decimal.Decimal `yaml:"base"`
	Quote decimal.Decimal `yaml:"quote"`
}

type NegotiationConfig struct {
	TTLSeconds int `yaml:"ttlSeconds"` // 未完成成交锁的过期时间
}

type PriceFeedConfig struct {
	Static            decimal.Decimal `yaml:"static"`
	URL               string          `yaml:"url"`
	TimeoutMs         int             `yaml:"timeoutMs"`
	BreakerFailures   uint32          `yaml:"breakerFailures"`
	BreakerTimeoutSec int             `yaml:"breakerTimeoutSec"`
}

// InventoryConfig 启动时的初始余额（纸面模式或外部同步前的占位）。
type InventoryConfig struct {
	AssetA decimal.Decimal `yaml:"assetA"`
	AssetB decimal.Decimal `yaml:"assetB"`
}

type GatewayConfig struct {
	WSURL        string  `yaml:"wsURL"`
	ClientID     string  `yaml:"clientID"`
	PublishRate  float64 `yaml:"publishRate"`
	PublishBurst int     `yaml:"publishBurst"`
}

// Default returns a config with the documented defaults filled in.
func Default() AppConfig {
	return AppConfig{
		Env:         "dev",
		Curve:       pricing.DefaultCurveParams(),
		Ladder:      LadderConfig{Slices: 10, QuoteIntervalMs: 5000},
		Safety:      pricing.DefaultSafetyGate(),
		Negotiation: NegotiationConfig{TTLSeconds: 70},
		PriceFeed: PriceFeedConfig{
			TimeoutMs:         2000,
			BreakerFailures:   3,
			BreakerTimeoutSec: 30,
		},
		Gateway:     GatewayConfig{PublishRate: 1, PublishBurst: 1},
		Log:         logger.DefaultConfig(),
		MetricsAddr: ":9100",
	}
}

// Load reads YAML config from path on top of Default and applies validation.
func Load(path string) (AppConfig, error) {
	cfg := Default()
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

// LoadWithEnvOverrides loads config then overrides endpoint fields from env vars if present.
func LoadWithEnvOverrides(path string) (AppConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if v := os.Getenv("MM_GATEWAY_WS_URL"); v != "" {
		cfg.Gateway.WSURL = v
	}
	if v := os.Getenv("MM_CLIENT_ID"); v != "" {
		cfg.Gateway.ClientID = v
	}
	if v := os.Getenv("MM_PRICE_FEED_URL"); v != "" {
		cfg.PriceFeed.URL = v
	}
	return cfg, Validate(cfg)
}

// StartingInventory returns the configured balances.
func (c AppConfig) StartingInventory() pricing.Inventory {
	return pricing.Inventory{AssetA: c.Inventory.AssetA, AssetB: c.Inventory.AssetB}
}

// QuoteInterval returns the requote period; 0 falls back to 5s.
func (c AppConfig) QuoteInterval() time.Duration {
	if c.Ladder.QuoteIntervalMs <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.Ladder.QuoteIntervalMs) * time.Millisecond
}

// NegotiationTTL returns how long an accepted offer holds the lock.
func (c AppConfig) NegotiationTTL() time.Duration {
	return time.Duration(c.Negotiation.TTLSeconds) * time.Second
}
