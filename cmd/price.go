package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"monadswap/internal/config"
	"monadswap/internal/token"
	"monadswap/internal/ui"
	"monadswap/internal/zeroex"
)

var (
	priceSell   string
	priceBuy    string
	priceWallet string
)

var priceCmd = &cobra.Command{
	Use:   "price <amount>",
	Short: "Fetch an indicative swap price",
	Long: `Fetch an indicative (non-binding) price for selling <amount> of the
sell token.

Examples:
  monadswap price 10                       # 10 WMON → USDC
  monadswap price 0.5 --sell WETH --buy WBTC`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := newRegistry()
		if err != nil {
			return err
		}
		sell, buy, err := resolvePair(reg, priceSell, priceBuy)
		if err != nil {
			return err
		}
		amount, err := token.ParseAmount(args[0], sell.Decimals)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", args[0], err)
		}
		client, err := newZeroexClient()
		if err != nil {
			return err
		}
		w, err := resolveWallet(priceWallet)
		if err != nil {
			return err
		}

		spin := ui.NewSpinner(fmt.Sprintf("Pricing %s %s → %s...", args[0], sell.Symbol, buy.Symbol))
		spin.Start()
		price, err := client.Price(cmd.Context(), zeroex.PriceRequest{
			ChainID:               config.ChainID,
			SellToken:             sell.Address,
			BuyToken:              buy.Address,
			SellAmount:            amount.String(),
			Taker:                 w.Address,
			SwapFeeRecipient:      cfg.FeeRecipient,
			SwapFeeBps:            cfg.FeeBps,
			SwapFeeToken:          buy.Address,
			TradeSurplusRecipient: cfg.FeeRecipient,
		})
		spin.Stop()
		if err != nil {
			return err
		}

		if len(price.ValidationErrors) > 0 {
			for _, ve := range price.ValidationErrors {
				fmt.Println(ui.Err(fmt.Sprintf("%s: %s", ve.Code, ve.Reason)))
			}
			return nil
		}

		buyAmount := price.BuyAmountInt()
		if buyAmount == nil {
			return fmt.Errorf("price response carried no buy amount")
		}

		pairs := [][2]string{
			{"Sell", args[0] + " " + sell.Symbol},
			{"Buy", token.FormatAmount(buyAmount, buy.Decimals) + " " + buy.Symbol},
			{"Unit price", price.Price},
		}
		if price.EstimatedPriceImpact != "" {
			pairs = append(pairs, [2]string{"Price impact", price.EstimatedPriceImpact + "%"})
		}
		if price.Issues.Allowance != nil {
			pairs = append(pairs, [2]string{"Approval", ui.Warn("required for " + ui.TruncateAddr(price.Issues.Allowance.Spender))})
		}
		fmt.Println(ui.KeyValueBlock(fmt.Sprintf("%s → %s", sell.Symbol, buy.Symbol), pairs))
		return nil
	},
}

// resolvePair resolves the sell/buy flags, falling back to the registry's
// default pair.
func resolvePair(reg *token.Registry, sellFlag, buyFlag string) (*token.Token, *token.Token, error) {
	sell, buy := reg.DefaultPair()
	var err error
	if sellFlag != "" {
		if sell, err = resolveToken(reg, sellFlag); err != nil {
			return nil, nil, fmt.Errorf("unknown sell token %q — run `monadswap tokens`", sellFlag)
		}
	}
	if buyFlag != "" {
		if buy, err = resolveToken(reg, buyFlag); err != nil {
			return nil, nil, fmt.Errorf("unknown buy token %q — run `monadswap tokens`", buyFlag)
		}
	}
	if sell.Address == buy.Address {
		return nil, nil, fmt.Errorf("sell and buy tokens must differ")
	}
	return sell, buy, nil
}

func init() {
	priceCmd.Flags().StringVar(&priceSell, "sell", "", "sell token symbol or address (default WMON)")
	priceCmd.Flags().StringVar(&priceBuy, "buy", "", "buy token symbol or address (default USDC)")
	priceCmd.Flags().StringVar(&priceWallet, "wallet", "", "taker wallet name or address")
}
