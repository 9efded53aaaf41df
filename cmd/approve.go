package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"monadswap/internal/chain"
	"monadswap/internal/config"
	"monadswap/internal/token"
	"monadswap/internal/ui"
)

var (
	approveWallet  string
	approveSpender string
	approveYes     bool
)

var approveCmd = &cobra.Command{
	Use:   "approve <token>",
	Short: "Grant a max token allowance to a spender",
	Long: `Submit an ERC-20 approval granting the spender an unlimited
allowance. The spender defaults to the Permit2 contract. The swap flow
issues this automatically when needed; this command exists for doing it
up front.`,
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
		w, err := resolveWallet(approveWallet)
		if err != nil {
			return err
		}
		spender := approveSpender
		if spender == "" {
			spender = config.Permit2Address
		}

		if !approveYes {
			prompt := fmt.Sprintf("Grant %s an unlimited %s allowance from %s?",
				ui.TruncateAddr(token.ChecksumAddress(spender)), tok.Symbol, w.Name)
			if !ui.ConfirmDanger(prompt) {
				fmt.Println(ui.Meta("Aborted."))
				return nil
			}
		}

		sender, _, err := newSender(w)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		spin := ui.NewSpinner("Submitting approval...")
		spin.Start()
		hash, err := sender.Send(ctx, tok.Address, chain.ApproveCalldata(spender, chain.MaxAllowance), nil, config.GasLimitERC20Approve, nil)
		if err != nil {
			spin.Stop()
			return err
		}
		spin.Stop()
		spin = ui.NewSpinner("Waiting for confirmation...")
		spin.Start()
		receipt, err := newChainClient().WaitForReceipt(ctx, hash, config.TxConfirmTimeout)
		spin.Stop()
		if err != nil {
			return fmt.Errorf("approval %s: %w", hash, err)
		}
		if receipt.Status != 1 {
			return fmt.Errorf("approval %s reverted", hash)
		}

		fmt.Println(ui.Success(fmt.Sprintf("Approved %s for %s", tok.Symbol, ui.TruncateAddr(token.ChecksumAddress(spender)))))
		fmt.Println(ui.Meta("  tx " + hash))
		return nil
	},
}

func init() {
	approveCmd.Flags().StringVar(&approveWallet, "wallet", "", "owner wallet name or address")
	approveCmd.Flags().StringVar(&approveSpender, "spender", "", "spender address (default Permit2)")
	approveCmd.Flags().BoolVarP(&approveYes, "yes", "y", false, "skip the confirmation prompt")
}
