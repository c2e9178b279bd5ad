package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config holds the command line settings
type Config struct {
	Log  LogConfig  `toml:"log" yaml:"log"`
	Run  RunConfig  `toml:"run" yaml:"run"`
	REPL REPLConfig `toml:"repl" yaml:"repl"`
	UI   UIConfig   `toml:"ui" yaml:"ui"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
}

// RunConfig holds interpreter settings
type RunConfig struct {
	MaxDepth  *int   `toml:"max_depth" yaml:"max_depth"`
	BareInput string `toml:"bare_input" yaml:"bare_input"`
}

// REPLConfig holds interactive session settings
type REPLConfig struct {
	HistoryFile  string `toml:"history_file" yaml:"history_file"`
	Prompt       string `toml:"prompt" yaml:"prompt"`
	Continuation string `toml:"continuation" yaml:"continuation"`
}

// UIConfig holds terminal presentation settings
type UIConfig struct {
	Color    string `toml:"color" yaml:"color"`
	Snippets bool   `toml:"snippets" yaml:"snippets"`
}

const (
	DefaultMaxDepth = 10000
	envConfig       = "MINIC_CONFIG"
)

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file, chosen by extension
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads the file named by MINIC_CONFIG, else the first default
// location that exists, else the built-in defaults
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(envConfig)
	if path == "" {
		defaultPaths := []string{
			"./minic.toml",
			"./minic.yaml",
			filepath.Join(os.Getenv("HOME"), ".config/minic/config.toml"),
		}
		for _, p := range defaultPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "warning"
	}

	if c.Run.MaxDepth == nil {
		d := DefaultMaxDepth
		c.Run.MaxDepth = &d
	}
	if c.Run.BareInput == "" {
		c.Run.BareInput = "discard"
	}

	if c.REPL.HistoryFile == "" {
		c.REPL.HistoryFile = filepath.Join(os.Getenv("HOME"), ".minic_history")
	}
	if c.REPL.Prompt == "" {
		c.REPL.Prompt = "minic> "
	}
	if c.REPL.Continuation == "" {
		c.REPL.Continuation = "  ...> "
	}

	if c.UI.Color == "" {
		c.UI.Color = "auto"
	}
}

// Validate rejects values the interpreter cannot honour
func (c *Config) Validate() error {
	switch c.Run.BareInput {
	case "discard", "noop":
	default:
		return fmt.Errorf("run.bare_input: unsupported value %q (use discard|noop)", c.Run.BareInput)
	}
	switch c.UI.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("ui.color: unsupported value %q (use auto|always|never)", c.UI.Color)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "verbose", "info", "warning", "warn", "error", "critical", "fatal":
	default:
		return fmt.Errorf("log.level: unsupported value %q", c.Log.Level)
	}
	return nil
}
