package swap

import (
	"math/big"
	"strings"

	"monadswap/internal/token"
	"monadswap/internal/zeroex"
)

// State is the swap flow's position in its lifecycle.
type State int

const (
	StateIdle State = iota
	StatePricing
	StateQuoting
	StateNeedsApproval
	StateApproving
	StateReadyToSubmit
	StateSigning
	StateSubmitting
	StateConfirming
	StateConfirmed
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:          "idle",
	StatePricing:       "pricing",
	StateQuoting:       "quoting",
	StateNeedsApproval: "needs-approval",
	StateApproving:     "approving",
	StateReadyToSubmit: "ready-to-submit",
	StateSigning:       "signing",
	StateSubmitting:    "submitting",
	StateConfirming:    "confirming",
	StateConfirmed:     "confirmed",
	StateFailed:        "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Direction records which amount field the user is editing. The other field
// is always derived from the latest price and never independently editable.
type Direction int

const (
	DirectionSell Direction = iota
	DirectionBuy
)

// ErrorEntry is a recorded, displayable failure. Errors are appended to the
// session, never thrown past it.
type ErrorEntry struct {
	Field  string
	Code   string
	Reason string
}

// Session is the single owned aggregate for one swap flow. Only the machine
// mutates it; everything else reads.
type Session struct {
	Taker     string
	SellToken *token.Token
	BuyToken  *token.Token

	Direction  Direction
	SellAmount string // decimal input, authoritative when Direction is sell
	BuyAmount  string // decimal input, authoritative when Direction is buy

	State State
	Price *zeroex.PriceResponse
	Quote *zeroex.QuoteResponse

	// Allowance is the last on-chain read for (Taker, spender, SellToken);
	// nil until read, re-read after every approval receipt.
	Allowance *big.Int

	// Balances holds last-read balances keyed by lowercase token address,
	// with "" for the native token.
	Balances map[string]*big.Int

	ApprovalTx string
	SwapTx     string

	Errors []ErrorEntry
}

// NewSession creates a session in the idle state for the given pair.
func NewSession(taker string, sell, buy *token.Token) *Session {
	return &Session{
		Taker:     taker,
		SellToken: sell,
		BuyToken:  buy,
		Balances:  make(map[string]*big.Int),
	}
}

// SellAmountWei returns the pending sell amount in base units: the parsed
// input when the sell side is authoritative, otherwise the sell amount the
// latest price derived for the entered buy amount. Nil when unknown.
func (s *Session) SellAmountWei() *big.Int {
	if s.Direction == DirectionSell {
		if s.SellAmount == "" || s.SellToken == nil {
			return nil
		}
		n, err := token.ParseAmount(s.SellAmount, s.SellToken.Decimals)
		if err != nil {
			return nil
		}
		return n
	}
	return s.Price.SellAmountInt()
}

// SellBalance returns the last-read balance of the sell token, or nil.
func (s *Session) SellBalance() *big.Int {
	if s.SellToken == nil {
		return nil
	}
	return s.Balances[strings.ToLower(s.SellToken.Address)]
}

// LastError returns the most recent error entry, or nil.
func (s *Session) LastError() *ErrorEntry {
	if len(s.Errors) == 0 {
		return nil
	}
	return &s.Errors[len(s.Errors)-1]
}

func (s *Session) recordError(field, code, reason string) {
	s.Errors = append(s.Errors, ErrorEntry{Field: field, Code: code, Reason: reason})
}

func (s *Session) clearErrors() {
	s.Errors = nil
}
