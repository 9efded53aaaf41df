package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"monadswap/internal/token"
	"monadswap/internal/ui"
)

var balanceWallet string

var balanceCmd = &cobra.Command{
	Use:   "balance [wallet-name-or-address]",
	Short: "Show native and token balances",
	Long: `Show the native MON balance and every registry token balance for a
wallet.

Examples:
  monadswap balance                  # default wallet
  monadswap balance myWallet
  monadswap balance 0xABC...`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 && balanceWallet == "" {
			balanceWallet = args[0]
		}
		w, err := resolveWallet(balanceWallet)
		if err != nil {
			return err
		}
		reg, err := newRegistry()
		if err != nil {
			return err
		}

		spin := ui.NewSpinner(fmt.Sprintf("Fetching balances for %s...", ui.TruncateAddr(w.Address)))
		spin.Start()

		ctx := cmd.Context()
		client := newChainClient()

		native, err := client.NativeBalance(ctx, w.Address)
		if err != nil {
			spin.Stop()
			return fmt.Errorf("reading native balance: %w", err)
		}

		type entry struct {
			symbol string
			value  string
		}
		entries := []entry{{"MON", token.FormatAmount(native, 18)}}
		for _, tok := range reg.All() {
			bal, err := client.TokenBalance(ctx, tok.Address, w.Address)
			if err != nil {
				entries = append(entries, entry{tok.Symbol, ui.Err("read failed")})
				continue
			}
			entries = append(entries, entry{tok.Symbol, token.FormatAmount(bal, tok.Decimals)})
		}
		spin.Stop()

		pairs := make([][2]string, 0, len(entries)+1)
		pairs = append(pairs, [2]string{"Address", ui.Addr(token.ChecksumAddress(w.Address))})
		for _, e := range entries {
			pairs = append(pairs, [2]string{e.symbol, e.value})
		}
		fmt.Println(ui.KeyValueBlock("Balances on Monad testnet", pairs))
		return nil
	},
}

func init() {
	balanceCmd.Flags().StringVar(&balanceWallet, "wallet", "", "wallet name or address")
}
