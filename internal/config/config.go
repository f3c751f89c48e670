package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/quantlab/flowdesk/internal/core"
	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig                      `mapstructure:"app"`
	Strategies map[string]Override            `mapstructure:"strategies"`
	Tickers    map[string]map[string]Override `mapstructure:"tickers"`
	Universe   UniverseConfig                 `mapstructure:"universe"`
	Routing    RoutingConfig                  `mapstructure:"routing"`
	Notifiers  map[string]NotifierConfig      `mapstructure:"notifiers"`
	Storage    StorageConfig                  `mapstructure:"storage"`
	Metrics    MetricsConfig                  `mapstructure:"metrics"`
	LLM        LLMConfig                      `mapstructure:"llm"`
	Regime     RegimeConfig                   `mapstructure:"regime"`
}

type AppConfig struct {
	LogLevel          string        `mapstructure:"log_level"`
	Development       bool          `mapstructure:"development"`
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
	ExperimentID      string        `mapstructure:"experiment_id"`
}

type UniverseConfig struct {
	MaxTickers int      `mapstructure:"max_tickers"`
	Fallback   []string `mapstructure:"fallback"`
}

// RoutingConfig maps logical alert channels to notifier names.
type RoutingConfig struct {
	Channels map[string]string `mapstructure:"channels"` // channel -> notifier
}

type NotifierConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Type     string            `mapstructure:"type"` // "telegram" or "webhook"
	BotToken string            `mapstructure:"bot_token"`
	ChatID   string            `mapstructure:"chat_id"`
	URL      string            `mapstructure:"url"`
	Headers  map[string]string `mapstructure:"headers"`
}

type StorageConfig struct {
	SignalHistory int           `mapstructure:"signal_history"` // in-memory store cap
	LogDir        string        `mapstructure:"log_dir"`
	Archive       ArchiveConfig `mapstructure:"archive"`
}

type ArchiveConfig struct {
	Type string   `mapstructure:"type"` // "localfs" or "s3"
	Path string   `mapstructure:"path"` // for localfs
	S3   S3Config `mapstructure:"s3"`
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	Path    string `mapstructure:"path"`
}

type LLMConfig struct {
	Provider string       `mapstructure:"provider"` // "", "claude", "openai"
	Claude   ClaudeConfig `mapstructure:"claude"`
	OpenAI   OpenAIConfig `mapstructure:"openai"`
}

type ClaudeConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// RegimeConfig holds the context attacher boundaries.
type RegimeConfig struct {
	RVOLSessions int     `mapstructure:"rvol_sessions"`
	TrendPct     float64 `mapstructure:"trend_pct"`
	LowVol       float64 `mapstructure:"low_vol"`
	HighVol      float64 `mapstructure:"high_vol"`
	VWAPBandPct  float64 `mapstructure:"vwap_band_pct"`
}

// Load reads configuration from file
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand ${ENV_VAR} references in string values (tokens, keys)
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	cfg := Defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		App: AppConfig{
			LogLevel:          "info",
			HeartbeatInterval: 15 * time.Minute,
			ExperimentID:      "default",
		},
		Universe: UniverseConfig{
			MaxTickers: 500,
		},
		Routing: RoutingConfig{
			Channels: map[string]string{},
		},
		Storage: StorageConfig{
			SignalHistory: 10_000,
			LogDir:        ".",
			Archive:       ArchiveConfig{Type: "localfs", Path: "archive"},
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    ":9180",
			Path:    "/metrics",
		},
		Regime: RegimeConfig{
			RVOLSessions: 20,
			TrendPct:     5,
			LowVol:       0.12,
			HighVol:      0.25,
			VWAPBandPct:  0.05,
		},
	}
}

// ThresholdsFor resolves the threshold set one strategy uses for one ticker.
// Precedence, lowest to highest: built-in strategy defaults, the global
// per-mode override, the ticker-specific per-mode override. Missing keys fall
// back to the previous layer.
func (c *Config) ThresholdsFor(kind core.StrategyKind, ticker string) Thresholds {
	layers := []Override{c.Strategies[string(kind)]}
	if modes, ok := c.Tickers[ticker]; ok {
		layers = append(layers, modes[string(kind)])
	}
	return Resolve(DefaultThresholds(kind), layers...)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	for _, kind := range core.Kinds() {
		if err := c.ThresholdsFor(kind, "").Validate(); err != nil {
			return fmt.Errorf("strategy %s: %w", kind, err)
		}
	}

	if c.Storage.SignalHistory <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("signal_history must be positive, got %d", c.Storage.SignalHistory))
	}

	switch c.LLM.Provider {
	case "", "claude", "openai":
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown llm provider %q", c.LLM.Provider))
	}
	if c.LLM.Provider == "claude" && c.LLM.Claude.APIKey == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("claude api_key required when provider is claude"))
	}
	if c.LLM.Provider == "openai" && c.LLM.OpenAI.APIKey == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("openai api_key required when provider is openai"))
	}

	return nil
}
