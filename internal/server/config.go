package server

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds the HTTP service configuration, read from MONADSWAP_*
// environment variables.
type Config struct {
	Addr         string `mapstructure:"addr"`
	AppURL       string `mapstructure:"app_url"`
	ZeroExURL    string `mapstructure:"zeroex_url"`
	ZeroExAPIKey string `mapstructure:"zeroex_api_key"`

	// Farcaster manifest fields, served verbatim.
	AccountHeader    string `mapstructure:"account_header"`
	AccountPayload   string `mapstructure:"account_payload"`
	AccountSignature string `mapstructure:"account_signature"`
	FrameName        string `mapstructure:"frame_name"`
	WebhookURL       string `mapstructure:"webhook_url"`
}

// LoadConfig reads the service configuration from the environment.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MONADSWAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("addr", ":8080")
	v.SetDefault("zeroex_url", "https://api.0x.org")
	v.SetDefault("frame_name", "Monad Swap")

	// AutomaticEnv does not populate Unmarshal on its own; bind each key.
	for _, key := range []string{
		"addr", "app_url", "zeroex_url", "zeroex_api_key",
		"account_header", "account_payload", "account_signature",
		"frame_name", "webhook_url",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
