// Package config exposes strongly typed application configuration structs loaded from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// App captures process-wide runtime settings such as name, environment, metrics, and logging levels.
type App struct {
	Name        string `yaml:"name"`
	Env         string `yaml:"env"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
}

// Exchange describes the market source the feed subscribes to.
type Exchange struct {
	Name         string `yaml:"name"`
	Symbol       string `yaml:"symbol"`
	Interval     string `yaml:"interval"`
	APIKey       string `yaml:"api_key"`
	APISecret    string `yaml:"api_secret"`
	Testnet      bool   `yaml:"testnet"`
	StreamURL    string `yaml:"stream_url"`
	HistoryLimit int    `yaml:"history_limit"`
}

// Risk encodes the position-sizing rules the execution engine applies.
type Risk struct {
	RiskPerTrade     float64 `yaml:"risk_per_trade"`     // fraction of balance risked per trade
	DefaultStopPct   float64 `yaml:"default_stop_pct"`   // stop distance when the signal provides none
	DefaultTargetPct float64 `yaml:"default_target_pct"` // target distance when the signal provides none
	BalanceAsset     string  `yaml:"balance_asset"`
}

// EMATrendParams tunes the EMA alignment strategy.
type EMATrendParams struct {
	FastPeriod    int     `yaml:"fast_period"`
	MediumPeriod  int     `yaml:"medium_period"`
	SlowPeriod    int     `yaml:"slow_period"`
	MinSlopeAngle float64 `yaml:"min_slope_angle"` // degrees
	RetestBars    int     `yaml:"retest_bars"`
	MinBodyRatio  float64 `yaml:"min_body_ratio"`
	SwingBars     int     `yaml:"swing_bars"`
	MaxStopPct    float64 `yaml:"max_stop_pct"`
	RiskReward    float64 `yaml:"risk_reward"`
}

// MACDParams tunes the MACD crossover strategy.
type MACDParams struct {
	FastPeriod     int     `yaml:"fast_period"`
	SlowPeriod     int     `yaml:"slow_period"`
	SignalPeriod   int     `yaml:"signal_period"`
	NoiseThreshold float64 `yaml:"noise_threshold"`
}

// Strategies lists which strategy modes boot enables along with parameter bundles.
type Strategies struct {
	Enabled  []string       `yaml:"enabled"`
	EMATrend EMATrendParams `yaml:"ema_trend"`
	MACD     MACDParams     `yaml:"macd"`
}

// Paper captures the simulated broker's account settings.
type Paper struct {
	StartingBalance float64 `yaml:"starting_balance"`
}

// Broker selects which registered broker is active at boot.
type Broker struct {
	Active string `yaml:"active"`
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App        App        `yaml:"app"`
	Exchange   Exchange   `yaml:"exchange"`
	Risk       Risk       `yaml:"risk"`
	Strategies Strategies `yaml:"strategies"`
	Paper      Paper      `yaml:"paper"`
	Broker     Broker     `yaml:"broker"`
}

// Load reads a YAML file from disk and hydrates a Config struct. Exchange
// credentials may also arrive via BINANCE_API_KEY / BINANCE_API_SECRET, which
// take precedence over the file so secrets stay out of committed YAML.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if key := os.Getenv("BINANCE_API_KEY"); key != "" {
		config.Exchange.APIKey = key
	}
	if secret := os.Getenv("BINANCE_API_SECRET"); secret != "" {
		config.Exchange.APISecret = secret
	}
	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Exchange.Interval == "" {
		c.Exchange.Interval = "1m"
	}
	if c.Exchange.HistoryLimit <= 0 {
		c.Exchange.HistoryLimit = 200
	}
	if c.Risk.RiskPerTrade <= 0 {
		c.Risk.RiskPerTrade = 0.01
	}
	if c.Risk.DefaultStopPct <= 0 {
		c.Risk.DefaultStopPct = 0.01
	}
	if c.Risk.DefaultTargetPct <= 0 {
		c.Risk.DefaultTargetPct = 0.01
	}
	if c.Risk.BalanceAsset == "" {
		c.Risk.BalanceAsset = "USDT"
	}
	if c.Paper.StartingBalance <= 0 {
		c.Paper.StartingBalance = 100000
	}
	if c.Broker.Active == "" {
		c.Broker.Active = "paper"
	}
}

// Save persists a Config struct to disk as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
