package cmd

import (
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"monadswap/internal/token"
	"monadswap/internal/ui"
	"monadswap/internal/wrap"
)

var (
	wrapWallet string
	wrapMax    bool
	wrapYes    bool
)

var wrapCmd = &cobra.Command{
	Use:   "wrap [amount]",
	Short: "Wrap native MON into WMON",
	Long: `Wrap native MON into WMON by depositing into the wrapped-token
contract. With --max, wraps the full balance minus a gas reserve.

Examples:
  monadswap wrap 1.5
  monadswap wrap --max`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkWrapArgs(len(args) == 1, wrapMax); err != nil {
			return err
		}
		reg, err := newRegistry()
		if err != nil {
			return err
		}
		wmon, _ := reg.DefaultPair()
		w, err := resolveWallet(wrapWallet)
		if err != nil {
			return err
		}
		sender, _, err := newSender(w)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		client := newChainClient()
		orch := wrap.New(client, sender, w.Address, wmon.Address)

		var amount *big.Int
		if wrapMax {
			if amount, err = orch.Max(ctx); err != nil {
				return err
			}
			if amount == nil {
				return fmt.Errorf("balance does not cover the gas reserve")
			}
		} else if amount, err = token.ParseAmount(args[0], 18); err != nil {
			return fmt.Errorf("invalid amount %q: %w", args[0], err)
		}

		display := token.FormatAmount(amount, 18)
		if !wrapYes && !ui.Confirm(fmt.Sprintf("Wrap %s MON into %s from %s?", display, wmon.Symbol, w.Name)) {
			fmt.Println(ui.Meta("Aborted."))
			return nil
		}

		spin := ui.NewSpinner(fmt.Sprintf("Wrapping %s MON...", display))
		spin.Start()
		res, err := orch.Wrap(ctx, amount)
		spin.Stop()
		if err != nil {
			return err
		}

		fmt.Println(ui.Success(fmt.Sprintf("Wrapped %s MON", display)))
		fmt.Println(ui.KeyValueBlock("Balances", [][2]string{
			{"MON", token.FormatAmount(res.NativeBalance, 18)},
			{wmon.Symbol, token.FormatAmount(res.WrappedBalance, wmon.Decimals)},
		}))
		fmt.Println(ui.Meta("  tx " + res.Hash))
		return nil
	},
}

// checkWrapArgs demands exactly one of the amount argument and --max.
func checkWrapArgs(hasAmount, max bool) error {
	switch {
	case hasAmount && max:
		return fmt.Errorf("pass an amount or --max, not both")
	case !hasAmount && !max:
		return fmt.Errorf("pass an amount to wrap, or --max for the full balance")
	}
	return nil
}

func init() {
	wrapCmd.Flags().StringVar(&wrapWallet, "wallet", "", "wallet name or address")
	wrapCmd.Flags().BoolVar(&wrapMax, "max", false, "wrap the full balance minus the gas reserve")
	wrapCmd.Flags().BoolVarP(&wrapYes, "yes", "y", false, "skip the confirmation prompt")
}
