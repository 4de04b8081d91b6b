package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"risksuite/internal/model"
)

// Multiplier is one named risk threshold from the config file. The file order
// is the report column order.
type Multiplier struct {
	Name   string  `yaml:"name"`
	Factor float64 `yaml:"multiplier"`
}

// Settings holds the numerical policy of the risk engine.
type Settings struct {
	LookbackDays      int     `yaml:"lookback_days"`
	DriftLookbackDays int     `yaml:"drift_lookback_days"`
	VolatilityWindow  int     `yaml:"volatility_window"`
	MinSamples        int     `yaml:"min_samples"`
	CryptoTradingDays int     `yaml:"crypto_trading_days"`
	StockTradingDays  int     `yaml:"stock_trading_days"`
	MaxCrashCap       float64 `yaml:"max_crash_cap"`
	DynamicFloor      struct {
		LookbackYears float64 `yaml:"lookback_years"`
		Percentile    float64 `yaml:"percentile"`
		Fallback      float64 `yaml:"fallback"`
	} `yaml:"dynamic_floor"`
}

// Config holds all application configuration.
type Config struct {
	Assets           []string     `yaml:"assets"`
	Settings         Settings     `yaml:"settings"`
	Multipliers      []Multiplier `yaml:"risk_multipliers"`
	PrimaryThreshold string       `yaml:"primary_threshold"`
	DataSource       struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"data_source"`
	Report struct {
		OutputPath string `yaml:"output_path"`
	} `yaml:"report"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("REPORT_PATH"); v != "" {
		cfg.Report.OutputPath = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("CRON_SPEC"); v != "" {
		cfg.Schedule.Cron = v
	}

	// Defaults
	if cfg.Settings.LookbackDays == 0 {
		cfg.Settings.LookbackDays = 365
	}
	if cfg.Settings.DriftLookbackDays == 0 {
		cfg.Settings.DriftLookbackDays = 1825
	}
	if cfg.Settings.VolatilityWindow == 0 {
		cfg.Settings.VolatilityWindow = 30
	}
	if cfg.Settings.MinSamples == 0 {
		cfg.Settings.MinSamples = 5
	}
	if cfg.Settings.CryptoTradingDays == 0 {
		cfg.Settings.CryptoTradingDays = 365
	}
	if cfg.Settings.StockTradingDays == 0 {
		cfg.Settings.StockTradingDays = 252
	}
	if cfg.Settings.MaxCrashCap == 0 {
		cfg.Settings.MaxCrashCap = 0.85
	}
	// Zero is a legitimate setting for the dynamic_floor fields, so unset is
	// detected with a pointer re-parse instead of the zero value.
	var floor struct {
		Settings struct {
			DynamicFloor struct {
				LookbackYears *float64 `yaml:"lookback_years"`
				Percentile    *float64 `yaml:"percentile"`
				Fallback      *float64 `yaml:"fallback"`
			} `yaml:"dynamic_floor"`
		} `yaml:"settings"`
	}
	if err := yaml.Unmarshal(data, &floor); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if floor.Settings.DynamicFloor.LookbackYears == nil {
		cfg.Settings.DynamicFloor.LookbackYears = 5
	}
	if floor.Settings.DynamicFloor.Percentile == nil {
		cfg.Settings.DynamicFloor.Percentile = 0.25
	}
	if floor.Settings.DynamicFloor.Fallback == nil {
		cfg.Settings.DynamicFloor.Fallback = 0.50
	}
	if cfg.PrimaryThreshold == "" {
		cfg.PrimaryThreshold = "Half Kelly"
	}
	if cfg.Report.OutputPath == "" {
		cfg.Report.OutputPath = "risk_analysis_report.xlsx"
	}

	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if len(c.Assets) == 0 {
		return fmt.Errorf("assets list is empty")
	}
	if len(c.Multipliers) == 0 {
		return fmt.Errorf("risk_multipliers is empty")
	}
	for _, m := range c.Multipliers {
		if m.Name == "" {
			return fmt.Errorf("risk multiplier with empty name")
		}
		if m.Factor <= 0 {
			return fmt.Errorf("risk multiplier %q must be positive, got %v", m.Name, m.Factor)
		}
	}
	if _, ok := c.Multiplier(c.PrimaryThreshold); !ok {
		return fmt.Errorf("primary_threshold %q not present in risk_multipliers", c.PrimaryThreshold)
	}
	if c.Settings.LookbackDays <= 0 {
		return fmt.Errorf("lookback_days must be positive")
	}
	if c.Settings.DriftLookbackDays <= 0 {
		return fmt.Errorf("drift_lookback_days must be positive")
	}
	if c.Settings.MinSamples <= 0 || c.Settings.MinSamples > c.Settings.VolatilityWindow {
		return fmt.Errorf("min_samples must be in [1, volatility_window]")
	}
	if c.Settings.MaxCrashCap <= 0 || c.Settings.MaxCrashCap > 1 {
		return fmt.Errorf("max_crash_cap must be in (0, 1]")
	}
	if p := c.Settings.DynamicFloor.Percentile; p < 0 || p > 1 {
		return fmt.Errorf("dynamic_floor.percentile must be in [0, 1]")
	}
	if c.Settings.DynamicFloor.LookbackYears < 0 {
		return fmt.Errorf("dynamic_floor.lookback_years must not be negative")
	}
	return nil
}

// Multiplier returns the configured multiplier with the given name.
func (c *Config) Multiplier(name string) (Multiplier, bool) {
	for _, m := range c.Multipliers {
		if m.Name == name {
			return m, true
		}
	}
	return Multiplier{}, false
}

// RiskMultipliers converts the configured thresholds into the model type,
// preserving file order.
func (c *Config) RiskMultipliers() []model.RiskMultiplier {
	out := make([]model.RiskMultiplier, len(c.Multipliers))
	for i, m := range c.Multipliers {
		out[i] = model.RiskMultiplier{Name: m.Name, Factor: m.Factor}
	}
	return out
}
