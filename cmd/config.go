package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"monadswap/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		apiKey := "(not set)"
		if cfg.ZeroExAPIKey != "" {
			apiKey = "(set)"
		}
		defWallet := cfg.DefaultWallet
		if defWallet == "" {
			defWallet = "(none)"
		}
		fmt.Println(ui.KeyValueBlock("Configuration ("+cfg.Dir()+")", [][2]string{
			{"rpc_url", cfg.RPCURL},
			{"zeroex_url", cfg.ZeroExURL},
			{"zeroex_api_key", apiKey},
			{"default_wallet", defWallet},
			{"fee_recipient", cfg.FeeRecipient},
			{"fee_bps", fmt.Sprintf("%d", cfg.FeeBps)},
		}))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and persist it.

Keys: rpc_url, zeroex_url, zeroex_api_key, default_wallet,
fee_recipient, fee_bps.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(args[0] + " updated"))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
