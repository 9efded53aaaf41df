package cmd

import (
	"errors"
	"fmt"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"monadswap/internal/config"
	"monadswap/internal/swap"
	"monadswap/internal/token"
	"monadswap/internal/ui"
)

var (
	swapSell     string
	swapBuy      string
	swapWallet   string
	swapExactBuy bool
	swapYes      bool
)

var swapCmd = &cobra.Command{
	Use:   "swap <amount>",
	Short: "Swap one token for another",
	Long: `Swap <amount> of the sell token for the buy token through the 0x
aggregator. Fetches an indicative price first, then a firm quote; grants
a Permit2 approval when the sell token needs one; signs the permit and
submits the swap.

Examples:
  monadswap swap 10                          # 10 WMON → USDC
  monadswap swap 0.5 --sell WETH --buy WBTC
  monadswap swap 100 --exact-buy             # buy exactly 100 USDC`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := newRegistry()
		if err != nil {
			return err
		}
		sell, buy, err := resolvePair(reg, swapSell, swapBuy)
		if err != nil {
			return err
		}
		w, err := resolveWallet(swapWallet)
		if err != nil {
			return err
		}
		direction := swap.DirectionSell
		amountToken := sell
		if swapExactBuy {
			direction = swap.DirectionBuy
			amountToken = buy
		}
		if _, err := token.ParseAmount(args[0], amountToken.Decimals); err != nil {
			return fmt.Errorf("invalid amount %q: %w", args[0], err)
		}

		quoter, err := newZeroexClient()
		if err != nil {
			return err
		}
		sender, signer, err := newSender(w)
		if err != nil {
			return err
		}

		flow := &swapFlow{
			sell:    sell,
			buy:     buy,
			updates: make(chan swapUpdate, 64),
			sub:     make(chan tea.Msg, 16),
		}
		machine := swap.NewMachine(
			swap.NewSession(w.Address, sell, buy),
			swap.Config{ChainID: config.ChainID, FeeRecipient: cfg.FeeRecipient, FeeBps: cfg.FeeBps},
		)
		runner := swap.NewRunner(machine, quoter, newChainClient(), sender, signer,
			swap.WithNotify(flow.observe),
			swap.WithReceiptTimeout(config.TxConfirmTimeout),
		)

		ctx := cmd.Context()
		done := make(chan error, 1)
		go func() { done <- runner.Run(ctx) }()

		runner.Post(swap.ConnectWallet{Address: w.Address})
		runner.Post(swap.SelectSellToken{Token: sell})
		runner.Post(swap.SelectBuyToken{Token: buy})
		runner.Post(swap.EditAmount{Direction: direction, Value: args[0]})

		return flow.drive(runner, done)
	},
}

// swapUpdate is a copy of the session fields the command renders. Notify
// runs on the runner's apply goroutine, so the session itself must not
// escape the callback.
type swapUpdate struct {
	state      swap.State
	sellAmount string
	buyAmount  string
	unitPrice  string
	spender    string
	approvalTx string
	swapTx     string
	hasBalance bool
	errCode    string
	errReason  string
}

// swapFlow coordinates the runner with the terminal: plain prompts while
// the trade is being shaped, then the Bubble Tea progress view once the
// order is placed.
type swapFlow struct {
	sell *token.Token
	buy  *token.Token

	updates chan swapUpdate
	sub     chan tea.Msg

	progress atomic.Bool
}

func (f *swapFlow) observe(s *swap.Session) {
	if f.progress.Load() {
		f.observeProgress(s)
		return
	}
	upd := swapUpdate{
		state:      s.State,
		sellAmount: s.SellAmount,
		buyAmount:  s.BuyAmount,
		approvalTx: s.ApprovalTx,
		swapTx:     s.SwapTx,
		hasBalance: s.SellBalance() != nil,
	}
	if s.Price != nil {
		upd.unitPrice = s.Price.Price
		if s.Price.Issues.Allowance != nil {
			upd.spender = s.Price.Issues.Allowance.Spender
		}
	}
	if e := s.LastError(); e != nil {
		upd.errCode, upd.errReason = e.Code, e.Reason
	}
	f.updates <- upd
}

func (f *swapFlow) observeProgress(s *swap.Session) {
	switch s.State {
	case swap.StateSigning:
		f.sub <- ui.StepMsg{Key: "sign", Status: ui.StepActive}
	case swap.StateSubmitting:
		signStatus := ui.StepDone
		if s.Quote == nil || s.Quote.Permit2 == nil {
			signStatus = ui.StepSkipped
		}
		f.sub <- ui.StepMsg{Key: "sign", Status: signStatus}
		f.sub <- ui.StepMsg{Key: "submit", Status: ui.StepActive}
	case swap.StateConfirming:
		f.sub <- ui.StepMsg{Key: "submit", Status: ui.StepDone, Detail: ui.TruncateAddr(s.SwapTx)}
		f.sub <- ui.StepMsg{Key: "confirm", Status: ui.StepActive}
	case swap.StateConfirmed:
		f.sub <- ui.StepMsg{Key: "confirm", Status: ui.StepDone, Detail: ui.TruncateAddr(s.SwapTx)}
		f.sub <- ui.FlowDoneMsg{}
	case swap.StateFailed, swap.StateReadyToSubmit:
		// ReadyToSubmit here means the submission bounced and is retryable;
		// the one-shot command reports it instead of looping.
		err := errors.New("swap failed")
		if e := s.LastError(); e != nil {
			err = fmt.Errorf("%s: %s", e.Code, e.Reason)
		}
		f.sub <- ui.FlowDoneMsg{Err: err}
	}
}

// drive runs the interactive phase: waits for the indicative price, walks
// the user through approval if one is needed, and hands off to the progress
// view at order placement.
func (f *swapFlow) drive(r *swap.Runner, done chan error) error {
	var pricePrinted, approvalAsked bool
	for {
		select {
		case err := <-done:
			if err != nil {
				return err
			}
			return f.finalState(r)

		case upd := <-f.updates:
			switch {
			case upd.errCode != "":
				fmt.Println(ui.Err(fmt.Sprintf("%s: %s", upd.errCode, upd.errReason)))
				return f.abort(r, done)

			case upd.state == swap.StatePricing && upd.unitPrice != "" && upd.hasBalance && !pricePrinted:
				pricePrinted = true
				fmt.Println(ui.KeyValueBlock(fmt.Sprintf("%s → %s", f.sell.Symbol, f.buy.Symbol), [][2]string{
					{"Sell", upd.sellAmount + " " + f.sell.Symbol},
					{"Buy", "~" + upd.buyAmount + " " + f.buy.Symbol},
					{"Unit price", upd.unitPrice},
				}))
				if !swapYes && !ui.Confirm("Fetch a firm quote?") {
					fmt.Println(ui.Meta("Aborted."))
					return f.abort(r, done)
				}
				r.Post(swap.Finalize{})

			case upd.state == swap.StateNeedsApproval && !approvalAsked:
				approvalAsked = true
				fmt.Println(ui.Warn(fmt.Sprintf("%s needs a one-time approval for %s", f.sell.Symbol, ui.TruncateAddr(upd.spender))))
				if !swapYes && !ui.ConfirmDanger("Grant an unlimited allowance?") {
					fmt.Println(ui.Meta("Aborted."))
					return f.abort(r, done)
				}
				r.Post(swap.Approve{})

			case upd.state == swap.StateApproving && upd.approvalTx != "":
				fmt.Println(ui.Info("approval submitted " + ui.TruncateAddr(upd.approvalTx)))

			case upd.state == swap.StateReadyToSubmit:
				fmt.Println(ui.KeyValueBlock("Firm quote", [][2]string{
					{"Sell", upd.sellAmount + " " + f.sell.Symbol},
					{"Buy", upd.buyAmount + " " + f.buy.Symbol},
				}))
				if !swapYes && !ui.ConfirmDanger("Sign and submit the swap?") {
					fmt.Println(ui.Meta("Aborted."))
					return f.abort(r, done)
				}
				return f.place(r, done)
			}
		}
	}
}

// place switches notify into progress mode, posts the order, and renders the
// signing/submission flow until it settles.
func (f *swapFlow) place(r *swap.Runner, done chan error) error {
	steps := []ui.Step{
		{Key: "sign", Label: "Sign permit"},
		{Key: "submit", Label: "Submit swap"},
		{Key: "confirm", Label: "Confirm on chain"},
	}
	f.progress.Store(true)
	r.Post(swap.PlaceOrder{})

	p := tea.NewProgram(ui.NewProgress("Placing order", steps, f.sub))
	if _, err := p.Run(); err != nil {
		return err
	}

	select {
	case err := <-done:
		if err != nil {
			return err
		}
		return f.finalState(r)
	default:
		// Runner is parked in a non-terminal state after a bounced
		// submission; close it out.
		return f.abort(r, done)
	}
}

// abort closes the runner and drains its remaining notifications.
func (f *swapFlow) abort(r *swap.Runner, done chan error) error {
	r.Post(swap.Close{})
	for {
		select {
		case err := <-done:
			if err != nil {
				return err
			}
			return f.finalState(r)
		case <-f.updates:
		case <-f.sub:
		}
	}
}

// finalState reports the session's outcome once the runner has stopped.
func (f *swapFlow) finalState(r *swap.Runner) error {
	s := r.Session()
	switch s.State {
	case swap.StateConfirmed:
		fmt.Println(ui.Success(fmt.Sprintf("Swapped %s %s for %s %s", s.SellAmount, f.sell.Symbol, s.BuyAmount, f.buy.Symbol)))
		fmt.Println(ui.Meta("  tx " + s.SwapTx))
		return nil
	case swap.StateFailed:
		if e := s.LastError(); e != nil {
			return fmt.Errorf("swap failed: %s: %s", e.Code, e.Reason)
		}
		return errors.New("swap failed")
	default:
		if e := s.LastError(); e != nil {
			return fmt.Errorf("%s: %s", e.Code, e.Reason)
		}
		return nil
	}
}

func init() {
	swapCmd.Flags().StringVar(&swapSell, "sell", "", "sell token symbol or address (default WMON)")
	swapCmd.Flags().StringVar(&swapBuy, "buy", "", "buy token symbol or address (default USDC)")
	swapCmd.Flags().StringVar(&swapWallet, "wallet", "", "wallet name or address")
	swapCmd.Flags().BoolVar(&swapExactBuy, "exact-buy", false, "treat the amount as the buy amount")
	swapCmd.Flags().BoolVarP(&swapYes, "yes", "y", false, "skip the confirmation prompts")
}
