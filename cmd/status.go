package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"monadswap/internal/config"
	"monadswap/internal/ui"
)

var statusWait bool

var statusCmd = &cobra.Command{
	Use:   "status <tx-hash>",
	Short: "Look up a transaction receipt",
	Long: `Look up the receipt for a transaction hash. By default returns
immediately; with --wait, polls until the transaction is mined.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash := args[0]
		client := newChainClient()
		ctx := cmd.Context()

		if statusWait {
			spin := ui.NewSpinner("Waiting for " + ui.TruncateAddr(hash) + "...")
			spin.Start()
			receipt, err := client.WaitForReceipt(ctx, hash, config.TxConfirmTimeout)
			spin.Stop()
			if err != nil {
				return err
			}
			printReceipt(receipt.Hash, receipt.Status, receipt.BlockNumber, receipt.GasUsed)
			return nil
		}

		receipt, err := client.TransactionReceipt(ctx, hash)
		if err != nil {
			return err
		}
		if receipt == nil {
			fmt.Println(ui.Warn("Transaction is still pending"))
			fmt.Println(ui.Hint("re-run with --wait to block until it mines"))
			return nil
		}
		printReceipt(receipt.Hash, receipt.Status, receipt.BlockNumber, receipt.GasUsed)
		return nil
	},
}

func printReceipt(hash string, status, block, gasUsed uint64) {
	outcome := ui.Success("Confirmed")
	if status != 1 {
		outcome = ui.Err("Reverted")
	}
	fmt.Println(ui.KeyValueBlock("Transaction", [][2]string{
		{"Hash", hash},
		{"Status", outcome},
		{"Block", fmt.Sprintf("%d", block)},
		{"Gas used", fmt.Sprintf("%d", gasUsed)},
	}))
}

func init() {
	statusCmd.Flags().BoolVar(&statusWait, "wait", false, "poll until the transaction is mined")
}
