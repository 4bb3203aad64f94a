// Package config handles configuration and quick prompts for mcpchat.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Provider names
const (
	ProviderDemo   = "demo"
	ProviderRemote = "remote"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`              // glamour style name or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links"` // Render links inline in tables
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level    string `json:"level"`          // debug, info, warn, error
	Encoding string `json:"encoding"`       // console or json
	File     string `json:"file,omitempty"` // empty: discard in the TUI, stderr elsewhere
}

// ServerConfig configures the demo backend started by `mcpchat serve`
type ServerConfig struct {
	Addr   string `json:"addr"`
	Prefix string `json:"prefix"`
}

// Config represents the user configuration
type Config struct {
	BaseURL  string `json:"base_url"`
	Provider string `json:"provider"`
	// PollInterval is the spacing between reachability probes, in seconds.
	PollInterval   int `json:"poll_interval_seconds"`
	ProbeTimeout   int `json:"probe_timeout_seconds"`
	RequestTimeout int `json:"request_timeout_seconds"`
	// Simulated latency range for the demo provider, in milliseconds.
	SimulatedDelayMin int            `json:"simulated_delay_min_ms"`
	SimulatedDelayMax int            `json:"simulated_delay_max_ms"`
	Verbose           bool           `json:"verbose"`
	CopyToClipboard   bool           `json:"copy_to_clipboard"`
	TUITheme          string         `json:"tui_theme,omitempty"`
	Markdown          MarkdownConfig `json:"markdown,omitempty"`
	Log               LogConfig      `json:"log"`
	Server            ServerConfig   `json:"server"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:           "http://localhost:8080/api/mcp",
		Provider:          ProviderDemo,
		PollInterval:      30,
		ProbeTimeout:      5,
		RequestTimeout:    60,
		SimulatedDelayMin: 1000,
		SimulatedDelayMax: 2000,
		Verbose:           false,
		CopyToClipboard:   false,
		TUITheme:          "tokyonight",
		Markdown:          DefaultMarkdownConfig(),
		Log: LogConfig{
			Level:    "info",
			Encoding: "console",
		},
		Server: ServerConfig{
			Addr:   ":8080",
			Prefix: "/api/mcp",
		},
	}
}

// PollIntervalDuration returns the poll interval as a duration
func (c Config) PollIntervalDuration() time.Duration {
	return time.Duration(c.PollInterval) * time.Second
}

// ProbeTimeoutDuration returns the probe timeout as a duration
func (c Config) ProbeTimeoutDuration() time.Duration {
	return time.Duration(c.ProbeTimeout) * time.Second
}

// RequestTimeoutDuration returns the request timeout as a duration
func (c Config) RequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// SimulatedDelay returns the demo provider latency range
func (c Config) SimulatedDelay() (time.Duration, time.Duration) {
	return time.Duration(c.SimulatedDelayMin) * time.Millisecond,
		time.Duration(c.SimulatedDelayMax) * time.Millisecond
}

// Validate checks that the configuration is usable
func (c Config) Validate() error {
	if err := validateBaseURL(c.BaseURL); err != nil {
		return err
	}
	if c.Provider != ProviderDemo && c.Provider != ProviderRemote {
		return fmt.Errorf("invalid provider %q (want %q or %q)", c.Provider, ProviderDemo, ProviderRemote)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval_seconds must be positive, got %d", c.PollInterval)
	}
	if c.ProbeTimeout <= 0 {
		return fmt.Errorf("probe_timeout_seconds must be positive, got %d", c.ProbeTimeout)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout_seconds must be positive, got %d", c.RequestTimeout)
	}
	if c.SimulatedDelayMin < 0 || c.SimulatedDelayMax < c.SimulatedDelayMin {
		return fmt.Errorf("invalid simulated delay range %d..%d ms", c.SimulatedDelayMin, c.SimulatedDelayMax)
	}
	return nil
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base_url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid base_url %q: missing host", raw)
	}
	return nil
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(home, ".mcpchat")
	return configDir, nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// LoadConfig loads the configuration from disk and applies environment
// overrides. A missing file yields the defaults.
func LoadConfig() (Config, error) {
	cfg, err := LoadConfigFile()
	if err != nil {
		return cfg, err
	}
	ApplyEnv(&cfg)
	return cfg, nil
}

// LoadConfigFile loads the configuration file alone, without environment
// overrides. Use it when the result is going to be saved back.
func LoadConfigFile() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadDotEnv loads a .env file from the working directory if present.
// Variables already set in the environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// ApplyEnv overrides configuration values from MCPCHAT_* variables
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("MCPCHAT_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("MCPCHAT_PROVIDER"); v != "" {
		cfg.Provider = strings.ToLower(v)
	}
	if v := os.Getenv("MCPCHAT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("MCPCHAT_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("MCPCHAT_POLL_INTERVAL"); v != "" {
		cfg.PollInterval = parseInt(v, cfg.PollInterval)
	}
	if v := os.Getenv("MCPCHAT_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
}

// Set updates a single configuration key from its string form
func Set(cfg *Config, key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "base_url":
		if err := validateBaseURL(value); err != nil {
			return err
		}
		cfg.BaseURL = strings.TrimRight(value, "/")
	case "provider":
		v := strings.ToLower(value)
		if v != ProviderDemo && v != ProviderRemote {
			return fmt.Errorf("invalid provider %q (want %q or %q)", value, ProviderDemo, ProviderRemote)
		}
		cfg.Provider = v
	case "poll_interval_seconds":
		return setPositive(&cfg.PollInterval, key, value)
	case "probe_timeout_seconds":
		return setPositive(&cfg.ProbeTimeout, key, value)
	case "request_timeout_seconds":
		return setPositive(&cfg.RequestTimeout, key, value)
	case "simulated_delay_min_ms":
		return setNonNegative(&cfg.SimulatedDelayMin, key, value)
	case "simulated_delay_max_ms":
		return setNonNegative(&cfg.SimulatedDelayMax, key, value)
	case "verbose":
		return setBool(&cfg.Verbose, key, value)
	case "copy_to_clipboard":
		return setBool(&cfg.CopyToClipboard, key, value)
	case "tui_theme":
		cfg.TUITheme = value
	case "markdown.style":
		cfg.Markdown.Style = value
	case "log.level":
		cfg.Log.Level = strings.ToLower(value)
	case "log.encoding":
		cfg.Log.Encoding = strings.ToLower(value)
	case "log.file":
		cfg.Log.File = value
	case "server.addr":
		cfg.Server.Addr = value
	case "server.prefix":
		cfg.Server.Prefix = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

// Keys returns the keys accepted by Set
func Keys() []string {
	return []string{
		"base_url",
		"provider",
		"poll_interval_seconds",
		"probe_timeout_seconds",
		"request_timeout_seconds",
		"simulated_delay_min_ms",
		"simulated_delay_max_ms",
		"verbose",
		"copy_to_clipboard",
		"tui_theme",
		"markdown.style",
		"log.level",
		"log.encoding",
		"log.file",
		"server.addr",
		"server.prefix",
	}
}

func setPositive(dst *int, key, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fmt.Errorf("%s must be a positive integer, got %q", key, value)
	}
	*dst = n
	return nil
}

func setNonNegative(dst *int, key, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return fmt.Errorf("%s must be a non-negative integer, got %q", key, value)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("%s must be true or false, got %q", key, value)
	}
	*dst = b
	return nil
}

func parseInt(value string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}
