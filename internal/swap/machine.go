package swap

import (
	"math/big"
	"strconv"
	"strings"

	"monadswap/internal/config"
	"monadswap/internal/token"
	"monadswap/internal/zeroex"
)

// Config carries the fixed parameters every quote request is built with.
type Config struct {
	ChainID      int64
	FeeRecipient string
	FeeBps       int
}

// Machine is the pure transition function of the swap flow. Apply mutates
// the session and returns the commands to execute; it performs no I/O, so
// every ordering and staleness rule is testable without collaborators.
type Machine struct {
	session *Session
	cfg     Config
}

// NewMachine creates a machine over the given session.
func NewMachine(s *Session, cfg Config) *Machine {
	return &Machine{session: s, cfg: cfg}
}

// Session returns the machine's session aggregate.
func (m *Machine) Session() *Session {
	return m.session
}

// Apply advances the machine by one event and returns the commands the
// caller must execute. Completions for requests that no longer match the
// session's current parameters are discarded.
func (m *Machine) Apply(ev Event) []Command {
	s := m.session

	switch ev := ev.(type) {
	case ConnectWallet:
		// The taker is pinned while a firm quote is in play; switching
		// wallets mid-flight would orphan the broadcast transaction.
		if m.firmQuoteActive() || s.State == StateConfirmed || s.State == StateFailed {
			return nil
		}
		s.Taker = ev.Address
		return m.refreshPrice()

	case SelectSellToken:
		if s.State == StateConfirmed {
			return nil
		}
		s.SellToken = ev.Token
		s.Allowance = nil
		m.discardQuote()
		return m.refreshPrice()

	case SelectBuyToken:
		if s.State == StateConfirmed {
			return nil
		}
		s.BuyToken = ev.Token
		m.discardQuote()
		return m.refreshPrice()

	case EditAmount:
		// Amounts are locked while a firm quote is in play.
		if m.firmQuoteActive() || s.State == StateConfirmed || s.State == StateFailed {
			return nil
		}
		s.Direction = ev.Direction
		if ev.Direction == DirectionSell {
			s.SellAmount = ev.Value
			s.BuyAmount = ""
		} else {
			s.BuyAmount = ev.Value
			s.SellAmount = ""
		}
		return m.refreshPrice()

	case PriceFetched:
		if s.State != StatePricing || ev.Req != m.priceRequest() {
			return nil // stale
		}
		return m.applyPrice(ev.Price)

	case Finalize:
		return m.finalize()

	case QuoteFetched:
		if s.State != StateQuoting || ev.Req != m.quoteRequest() {
			return nil // stale
		}
		return m.applyQuote(ev.Quote)

	case AllowanceRead:
		return m.applyAllowance(ev)

	case BalanceRead:
		if !strings.EqualFold(ev.Owner, s.Taker) {
			return nil
		}
		s.Balances[strings.ToLower(ev.Token)] = ev.Amount
		return nil

	case Approve:
		if s.State != StateNeedsApproval || s.Quote == nil || s.Quote.Issues.Allowance == nil {
			return nil
		}
		if !m.balanceCovers() {
			s.recordError("amount", "INSUFFICIENT_BALANCE", "sell amount exceeds balance")
			return nil
		}
		s.State = StateApproving
		return []Command{SubmitApproval{
			Token:   s.SellToken.Address,
			Spender: s.Quote.Issues.Allowance.Spender,
		}}

	case ApprovalSubmitted:
		if s.State != StateApproving {
			return nil
		}
		s.ApprovalTx = ev.Hash
		return []Command{AwaitApproval{Hash: ev.Hash}}

	case ApprovalMined:
		if s.State != StateApproving {
			return nil
		}
		if ev.Err != nil {
			s.recordError("approval", "APPROVAL_FAILED", ev.Err.Error())
			s.State = StateNeedsApproval
			return nil
		}
		// Never assume the approval took: re-read the allowance.
		return []Command{ReadAllowance{
			Owner:   s.Taker,
			Spender: s.Quote.Issues.Allowance.Spender,
			Token:   s.SellToken.Address,
		}}

	case PlaceOrder:
		return m.placeOrder()

	case PermitSigned:
		if s.State != StateSigning || s.Quote == nil {
			return nil
		}
		s.State = StateSubmitting
		return []Command{m.submitCommand(Splice(s.Quote.Transaction.Data, ev.Sig))}

	case SignRejected:
		if s.State != StateSigning {
			return nil
		}
		// The firm quote stays valid; the user may retry signing.
		s.recordError("signature", "SIGN_REJECTED", ev.Reason)
		s.State = StateReadyToSubmit
		return nil

	case SwapSubmitted:
		if s.State != StateSubmitting {
			return nil
		}
		s.SwapTx = ev.Hash
		s.State = StateConfirming
		return []Command{AwaitSwap{Hash: ev.Hash}}

	case SwapMined:
		if s.State != StateConfirming || ev.Hash != s.SwapTx {
			return nil
		}
		if ev.Err != nil {
			s.recordError("swap", "SWAP_FAILED", ev.Err.Error())
			s.State = StateFailed
			return nil
		}
		s.State = StateConfirmed
		return m.balanceReads()

	case SubmitFailed:
		return m.applySubmitFailed(ev)

	case FetchFailed:
		return m.applyFetchFailed(ev)

	case ModifySwap:
		m.discardQuote()
		s.clearErrors()
		return m.refreshPrice()

	case Close:
		m.discardQuote()
		s.clearErrors()
		s.SellAmount = ""
		s.BuyAmount = ""
		s.Price = nil
		s.SwapTx = ""
		s.ApprovalTx = ""
		s.State = StateIdle
		return nil
	}

	return nil
}

// --- transitions ---

// refreshPrice re-derives the pricing state after any input change. Token
// selection is allowed without a wallet, but nothing is fetched until a
// taker address is connected.
func (m *Machine) refreshPrice() []Command {
	s := m.session
	s.Price = nil
	if s.Direction == DirectionSell {
		s.BuyAmount = ""
	} else {
		s.SellAmount = ""
	}

	if m.activeAmount() == "" {
		s.State = StateIdle
		return nil
	}
	if s.Taker == "" {
		s.recordError("wallet", "WALLET_NOT_CONNECTED", "connect a wallet to fetch prices")
		s.State = StateIdle
		return nil
	}
	if _, err := m.activeAmountWei(); err != nil {
		s.recordError("amount", "INVALID_AMOUNT", err.Error())
		s.State = StateIdle
		return nil
	}

	s.State = StatePricing
	cmds := []Command{FetchPrice{Req: m.priceRequest()}}
	return append(cmds, m.balanceReads()...)
}

func (m *Machine) applyPrice(price *zeroex.PriceResponse) []Command {
	s := m.session
	if len(price.ValidationErrors) > 0 {
		for _, ve := range price.ValidationErrors {
			s.recordError(ve.Field, ve.Code, ve.Reason)
		}
		s.Price = nil
		return nil
	}

	// Fill the derived side from the response.
	if s.Direction == DirectionSell {
		buy := price.BuyAmountInt()
		if buy == nil || buy.Sign() <= 0 {
			s.recordError("price", "NO_LIQUIDITY", "price returned no buy amount")
			s.Price = nil
			return nil
		}
		s.BuyAmount = token.FormatAmount(buy, s.BuyToken.Decimals)
	} else {
		sell := price.SellAmountInt()
		if sell == nil || sell.Sign() <= 0 {
			s.recordError("price", "NO_LIQUIDITY", "price returned no sell amount")
			s.Price = nil
			return nil
		}
		s.SellAmount = token.FormatAmount(sell, s.SellToken.Decimals)
	}

	s.Price = price
	return nil
}

func (m *Machine) finalize() []Command {
	s := m.session
	if s.State != StatePricing || s.Price == nil {
		return nil
	}
	if !m.balanceCovers() {
		s.recordError("amount", "INSUFFICIENT_BALANCE", "sell amount exceeds balance")
		return nil
	}
	s.State = StateQuoting
	return []Command{FetchQuote{Req: m.quoteRequest()}}
}

func (m *Machine) applyQuote(quote *zeroex.QuoteResponse) []Command {
	s := m.session
	if len(quote.ValidationErrors) > 0 {
		for _, ve := range quote.ValidationErrors {
			s.recordError(ve.Field, ve.Code, ve.Reason)
		}
		s.State = StatePricing
		return nil
	}
	s.Quote = quote

	if quote.Issues.Allowance == nil {
		s.State = StateReadyToSubmit
		return nil
	}
	// The gate needs a fresh on-chain read before deciding.
	return []Command{ReadAllowance{
		Owner:   s.Taker,
		Spender: quote.Issues.Allowance.Spender,
		Token:   s.SellToken.Address,
	}}
}

func (m *Machine) applyAllowance(ev AllowanceRead) []Command {
	s := m.session
	if s.Quote == nil || s.Quote.Issues.Allowance == nil {
		return nil
	}
	if !strings.EqualFold(ev.Owner, s.Taker) ||
		!strings.EqualFold(ev.Spender, s.Quote.Issues.Allowance.Spender) ||
		!strings.EqualFold(ev.Token, s.SellToken.Address) {
		return nil // stale
	}
	s.Allowance = ev.Amount

	if s.State != StateQuoting && s.State != StateApproving {
		return nil
	}
	if NeedsApproval(s.Quote.Issues.Allowance, s.Allowance, s.SellAmountWei()) {
		s.State = StateNeedsApproval
	} else {
		s.State = StateReadyToSubmit
	}
	return nil
}

func (m *Machine) placeOrder() []Command {
	s := m.session
	if s.State != StateReadyToSubmit || s.Quote == nil {
		return nil
	}
	if !m.balanceCovers() {
		s.recordError("amount", "INSUFFICIENT_BALANCE", "sell amount exceeds balance")
		return nil
	}
	if s.Quote.Permit2 != nil && len(s.Quote.Permit2.EIP712) > 0 {
		s.State = StateSigning
		return []Command{SignPermit{EIP712: s.Quote.Permit2.EIP712}}
	}
	s.State = StateSubmitting
	return []Command{m.submitCommand(s.Quote.Transaction.Data)}
}

func (m *Machine) applySubmitFailed(ev SubmitFailed) []Command {
	s := m.session
	switch ev.Stage {
	case StageApprove:
		if s.State != StateApproving {
			return nil
		}
		s.recordError("approval", "APPROVAL_FAILED", ev.Err.Error())
		s.State = StateNeedsApproval
	case StageSwap:
		if s.State != StateSubmitting {
			return nil
		}
		// Nothing was broadcast; the quote stays usable.
		s.recordError("swap", "SUBMIT_FAILED", ev.Err.Error())
		s.State = StateReadyToSubmit
	}
	return nil
}

func (m *Machine) applyFetchFailed(ev FetchFailed) []Command {
	s := m.session
	switch ev.Stage {
	case StagePrice:
		if s.State != StatePricing || ev.Req != m.priceRequest() {
			return nil // stale
		}
		m.recordFetchError(StagePrice, ev.Err)
		s.Price = nil
	case StageQuote:
		if s.State != StateQuoting || ev.Req != m.quoteRequest() {
			return nil
		}
		m.recordFetchError(StageQuote, ev.Err)
		s.State = StatePricing
	case StageAllowance:
		if s.State != StateQuoting && s.State != StateApproving {
			return nil
		}
		m.recordFetchError(StageAllowance, ev.Err)
		s.State = StateNeedsApproval
	case StageBalance:
		// Balance reads are ambient; a failed read only loses freshness.
		m.recordFetchError(StageBalance, ev.Err)
	}
	return nil
}

// --- helpers ---

var firmQuoteStates = map[State]bool{
	StateQuoting:       true,
	StateNeedsApproval: true,
	StateApproving:     true,
	StateReadyToSubmit: true,
	StateSigning:       true,
	StateSubmitting:    true,
	StateConfirming:    true,
}

func (m *Machine) firmQuoteActive() bool {
	return firmQuoteStates[m.session.State]
}

func (m *Machine) discardQuote() {
	s := m.session
	s.Quote = nil
	if m.firmQuoteActive() || s.State == StateConfirmed || s.State == StateFailed {
		s.State = StateIdle
	}
}

func (m *Machine) activeAmount() string {
	if m.session.Direction == DirectionSell {
		return m.session.SellAmount
	}
	return m.session.BuyAmount
}

func (m *Machine) activeAmountWei() (*big.Int, error) {
	s := m.session
	if s.Direction == DirectionSell {
		return token.ParseAmount(s.SellAmount, s.SellToken.Decimals)
	}
	return token.ParseAmount(s.BuyAmount, s.BuyToken.Decimals)
}

// balanceCovers reports whether the last-read sell-token balance covers the
// pending sell amount. Equality is allowed; an unknown balance blocks.
func (m *Machine) balanceCovers() bool {
	sell := m.session.SellAmountWei()
	bal := m.session.SellBalance()
	if sell == nil || bal == nil {
		return false
	}
	return sell.Cmp(bal) <= 0
}

func (m *Machine) priceRequest() zeroex.PriceRequest {
	s := m.session
	req := zeroex.PriceRequest{
		ChainID:               m.cfg.ChainID,
		SellToken:             s.SellToken.Address,
		BuyToken:              s.BuyToken.Address,
		Taker:                 s.Taker,
		SwapFeeRecipient:      m.cfg.FeeRecipient,
		SwapFeeBps:            m.cfg.FeeBps,
		SwapFeeToken:          s.BuyToken.Address,
		TradeSurplusRecipient: m.cfg.FeeRecipient,
	}
	if n, err := m.activeAmountWei(); err == nil {
		if s.Direction == DirectionSell {
			req.SellAmount = n.String()
		} else {
			req.BuyAmount = n.String()
		}
	}
	return req
}

// quoteRequest is the price request pinned to the sell side: firm quotes
// are always sell-amount driven.
func (m *Machine) quoteRequest() zeroex.PriceRequest {
	req := m.priceRequest()
	req.BuyAmount = ""
	if sell := m.session.SellAmountWei(); sell != nil {
		req.SellAmount = sell.String()
	}
	return req
}

func (m *Machine) submitCommand(data string) SubmitSwap {
	tx := m.session.Quote.Transaction
	cmd := SubmitSwap{To: tx.To, Data: data}
	if tx.Value != "" {
		cmd.Value, _ = new(big.Int).SetString(tx.Value, 10)
	}
	if tx.Gas != "" {
		cmd.Gas, _ = strconv.ParseUint(tx.Gas, 10, 64)
	}
	if cmd.Gas == 0 {
		cmd.Gas = config.GasLimitSwap
	}
	if tx.GasPrice != "" {
		cmd.GasPrice, _ = new(big.Int).SetString(tx.GasPrice, 10)
	}
	return cmd
}

// balanceReads refreshes the balances the flow depends on: native plus both
// sides of the pair.
func (m *Machine) balanceReads() []Command {
	s := m.session
	cmds := []Command{ReadBalance{Owner: s.Taker}}
	if s.SellToken != nil {
		cmds = append(cmds, ReadBalance{Owner: s.Taker, Token: s.SellToken.Address})
	}
	if s.BuyToken != nil {
		cmds = append(cmds, ReadBalance{Owner: s.Taker, Token: s.BuyToken.Address})
	}
	return cmds
}

func (m *Machine) recordFetchError(stage string, err error) {
	if apiErr, ok := err.(*zeroex.APIError); ok {
		for _, ve := range apiErr.Entries() {
			m.session.recordError(ve.Field, ve.Code, ve.Reason)
		}
		return
	}
	m.session.recordError(stage, "FETCH_FAILED", err.Error())
}
