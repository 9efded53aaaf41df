package cmd

import (
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"monadswap/internal/config"
	"monadswap/internal/token"
	"monadswap/internal/ui"
)

var (
	allowanceWallet  string
	allowanceSpender string
)

var allowanceCmd = &cobra.Command{
	Use:   "allowance <token>",
	Short: "Show a token allowance granted to a spender",
	Long: `Show the allowance a wallet has granted a spender for an ERC-20
token. The spender defaults to the Permit2 contract, which is what the
swap flow spends through.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := newRegistry()
		if err != nil {
			return err
		}
		tok, err := resolveToken(reg, args[0])
		if err != nil {
			return err
		}
		w, err := resolveWallet(allowanceWallet)
		if err != nil {
			return err
		}
		spender := allowanceSpender
		if spender == "" {
			spender = config.Permit2Address
		}

		client := newChainClient()
		spin := ui.NewSpinner("Reading allowance...")
		spin.Start()
		amount, err := client.Allowance(cmd.Context(), tok.Address, w.Address, spender)
		spin.Stop()
		if err != nil {
			return err
		}

		display := token.FormatAmount(amount, tok.Decimals) + " " + tok.Symbol
		if amount.Cmp(maxDisplayAllowance) > 0 {
			display = "unlimited"
		}
		fmt.Println(ui.KeyValueBlock("Allowance", [][2]string{
			{"Owner", ui.TruncateAddr(token.ChecksumAddress(w.Address))},
			{"Spender", ui.TruncateAddr(token.ChecksumAddress(spender))},
			{"Token", tok.Symbol},
			{"Amount", display},
		}))
		return nil
	},
}

// Anything above 2^128 is treated as an unlimited grant for display.
var maxDisplayAllowance = new(big.Int).Lsh(big.NewInt(1), 128)

func init() {
	allowanceCmd.Flags().StringVar(&allowanceWallet, "wallet", "", "owner wallet name or address")
	allowanceCmd.Flags().StringVar(&allowanceSpender, "spender", "", "spender address (default Permit2)")
}
