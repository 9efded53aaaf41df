// Package config holds the CLI configuration: a JSON file in the config
// directory with environment overrides for anything secret.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	configFile  = "config.json"
	walletsFile = "wallets.json"

	envPrefix = "MONADSWAP"
)

// Config holds all monadswap configuration.
type Config struct {
	RPCURL        string `json:"rpc_url"         mapstructure:"rpc_url"`
	ZeroExURL     string `json:"zeroex_url"      mapstructure:"zeroex_url"`
	ZeroExAPIKey  string `json:"zeroex_api_key"  mapstructure:"zeroex_api_key"`
	DefaultWallet string `json:"default_wallet"  mapstructure:"default_wallet"`
	FeeRecipient  string `json:"fee_recipient"   mapstructure:"fee_recipient"`
	FeeBps        int    `json:"fee_bps"         mapstructure:"fee_bps"`

	// internal: config dir path used for Save()
	configDir string
}

// Load reads config from dir (or creates defaults), then overlays
// MONADSWAP_* environment variables. dir defaults to ~/.monadswap.
func Load(dir string) (*Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".monadswap")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	path := filepath.Join(dir, configFile)
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
		cfg.configDir = dir
	}

	cfg.applyEnv()
	return cfg, nil
}

// Save writes the config to disk. Environment-sourced values are written
// too; the file is 0600 for that reason.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, configFile), data, 0o600)
}

// Set updates a config value by its JSON key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "rpc_url":
		c.RPCURL = value
	case "zeroex_url":
		c.ZeroExURL = value
	case "zeroex_api_key":
		c.ZeroExAPIKey = value
	case "default_wallet":
		c.DefaultWallet = value
	case "fee_recipient":
		c.FeeRecipient = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// WalletsPath returns the path of the wallets file.
func (c *Config) WalletsPath() string {
	return filepath.Join(c.configDir, walletsFile)
}

// --- helpers ---

func defaults(dir string) *Config {
	return &Config{
		RPCURL:       DefaultRPCURL,
		ZeroExURL:    DefaultZeroExURL,
		FeeRecipient: DefaultFeeRecipient,
		FeeBps:       DefaultFeeBps,
		configDir:    dir,
	}
}

func (c *Config) applyEnv() {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if s := v.GetString("RPC_URL"); s != "" {
		c.RPCURL = s
	}
	if s := v.GetString("ZEROEX_URL"); s != "" {
		c.ZeroExURL = s
	}
	if s := v.GetString("ZEROEX_API_KEY"); s != "" {
		c.ZeroExAPIKey = s
	}
}
