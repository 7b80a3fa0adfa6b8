// Package config holds all tftNERD configuration.
// Settings load from an optional YAML file and are overridden by environment
// variables; the API key is never written back to disk.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all tftNERD configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	LLM     LLMConfig     `yaml:"llm"`
	Data    DataConfig    `yaml:"data"`
	Scrape  ScrapeConfig  `yaml:"scrape"`
	Vision  VisionConfig  `yaml:"vision"`
	TTS     TTSConfig     `yaml:"tts"`
	Monitor MonitorConfig `yaml:"monitor"`
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the cloud model client.
type LLMConfig struct {
	Provider   string `yaml:"provider"` // gemini
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`
	BaseURL    string `yaml:"base_url"`
	Timeout    string `yaml:"timeout"`
	MaxRetries int    `yaml:"max_retries"`
}

// DataConfig configures the ephemeral JSON data store.
type DataConfig struct {
	Dir           string `yaml:"dir"`
	ChampionsFile string `yaml:"champions_file"`
	TraitsFile    string `yaml:"traits_file"`
	CompsFile     string `yaml:"comps_file"`
	WatchReload   bool   `yaml:"watch_reload"`
}

// ScrapeConfig configures reference data acquisition.
type ScrapeConfig struct {
	BaseURL     string `yaml:"base_url"`
	UserAgent   string `yaml:"user_agent"`
	Timeout     string `yaml:"timeout"`
	Delay       string `yaml:"delay"`
	Concurrency int    `yaml:"concurrency"`
	SaveHTML    bool   `yaml:"save_html"`
	HTMLDir     string `yaml:"html_dir"`
	UseBrowser  bool   `yaml:"use_browser"` // rod-rendered fetch for JS pages
}

// VisionConfig configures screen reading.
type VisionConfig struct {
	TesseractBin        string  `yaml:"tesseract_bin"`
	CaptureBin          string  `yaml:"capture_bin"`
	TemplateDir         string  `yaml:"template_dir"`
	ShopTemplate        string  `yaml:"shop_template"`
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`
}

// TTSConfig configures speech output.
type TTSConfig struct {
	Enabled bool   `yaml:"enabled"`
	Bin     string `yaml:"bin"`
	Timeout string `yaml:"timeout"`
}

// MonitorConfig configures the shop polling loop.
type MonitorConfig struct {
	Interval     string `yaml:"interval"`
	ShopWaitPoll string `yaml:"shop_wait_poll"`
}

// LoggingConfig configures the category file logger.
type LoggingConfig struct {
	Debug bool   `yaml:"debug"`
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "tftNERD",
		Version: "0.3.0",

		LLM: LLMConfig{
			Provider:   "gemini",
			Model:      "gemini-2.0-flash",
			BaseURL:    "https://generativelanguage.googleapis.com/v1beta",
			Timeout:    "30s",
			MaxRetries: 3,
		},

		Data: DataConfig{
			Dir:           "data",
			ChampionsFile: "champions.json",
			TraitsFile:    "traits.json",
			CompsFile:     "comps.json",
			WatchReload:   true,
		},

		Scrape: ScrapeConfig{
			BaseURL:     "https://www.mobafire.com",
			UserAgent:   "tftnerd/0.3",
			Timeout:     "30s",
			Delay:       "300ms",
			Concurrency: 4,
			SaveHTML:    false,
			HTMLDir:     "comps_html",
		},

		Vision: VisionConfig{
			TesseractBin:        "tesseract",
			TemplateDir:         "champ_templates",
			ShopTemplate:        "photo/reroll_text.png",
			ConfidenceThreshold: 0.75,
		},

		TTS: TTSConfig{
			Enabled: true,
			Timeout: "30s",
		},

		Monitor: MonitorConfig{
			Interval:     "2s",
			ShopWaitPoll: "1s",
		},

		Logging: LoggingConfig{
			Debug: false,
			Level: "info",
		},
	}
}

// Load reads configuration from path (optional) and applies env overrides.
// A missing file is not an error; defaults are used.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides lets the environment win over file values.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("TFT_DATA_DIR"); v != "" {
		c.Data.Dir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("TFT_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Logging.Debug = b
		}
	}
	if v := os.Getenv("GEMINI_TIMEOUT"); v != "" {
		if _, err := time.ParseDuration(v); err == nil {
			c.LLM.Timeout = v
		}
	}
}

// Save writes the configuration to path. The API key is blanked first so
// secrets stay in the environment.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	clone := *c
	clone.LLM.APIKey = ""
	data, err := yaml.Marshal(&clone)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// Duration parses a duration field, falling back to def on any problem.
func Duration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
