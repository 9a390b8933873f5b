package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Backend  BackendConfig  `yaml:"backend"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Sandbox  SandboxConfig  `yaml:"sandbox"`
	Log      LogConfig      `yaml:"log"`
}

// BackendConfig locates the payment backend.
type BackendConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// DefaultsConfig pre-fills the order side of the payment form.
type DefaultsConfig struct {
	Amount   string `yaml:"amount"`
	Currency string `yaml:"currency"`
	Provider string `yaml:"provider"`
	BuyerID  string `yaml:"buyer_id"`
}

type SandboxConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no config file exists: the
// local sandbox backend with the demo order defaults.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL:        "http://localhost:8980",
			TimeoutSeconds: 30,
		},
		Defaults: DefaultsConfig{
			Amount:   "100",
			Currency: "TRY",
			Provider: "CRAFTGATE",
			BuyerID:  "buyer-123",
		},
		Sandbox: SandboxConfig{
			Addr: ":8980",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func LoadConfig() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/payment-console.yaml"
	}

	// Ensure absolute path
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		// a missing config file is fine, the console runs on defaults
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}
