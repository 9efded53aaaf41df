package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"monadswap/internal/token"
	"monadswap/internal/ui"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "List the supported tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := newRegistry()
		if err != nil {
			return err
		}

		t := ui.NewTable([]ui.Column{
			{Title: "Symbol", Width: 8},
			{Title: "Name", Width: 18},
			{Title: "Address", Width: 44},
			{Title: "Decimals", Width: 8},
		})
		for _, tok := range reg.All() {
			t.AddRow(ui.Row{
				tok.Symbol,
				tok.Name,
				token.ChecksumAddress(tok.Address),
				fmt.Sprintf("%d", tok.Decimals),
			})
		}
		fmt.Print(t.Render())

		sell, buy := reg.DefaultPair()
		fmt.Println(ui.Meta(fmt.Sprintf("Default pair: %s → %s", sell.Symbol, buy.Symbol)))
		return nil
	},
}
