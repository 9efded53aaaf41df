package zeroex

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// ValidationError is one entry of the quoting API's validationErrors array.
// The same shape is used for errors the caller records locally, so every
// user-visible failure carries {field, code, reason}.
type ValidationError struct {
	Field  string `json:"field"`
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Field, e.Reason, e.Code)
}

// AllowanceIssue reports that the settlement contract is not yet approved to
// spend the sell token. Absent (nil) when no approval is needed.
type AllowanceIssue struct {
	Spender   string `json:"spender"`
	Allowance string `json:"actual"`
}

// Issues groups the problems the quoting API found with a price or quote.
type Issues struct {
	Allowance *AllowanceIssue `json:"allowance"`
}

// TokenTax carries buy/sell tax metadata in basis points.
type TokenTax struct {
	BuyTaxBps  string `json:"buyTaxBps"`
	SellTaxBps string `json:"sellTaxBps"`
}

// TokenMetadata holds per-side token tax information.
type TokenMetadata struct {
	SellToken TokenTax `json:"sellToken"`
	BuyToken  TokenTax `json:"buyToken"`
}

// PriceResponse is an indicative, non-binding price. It is superseded
// whenever the inputs change and has no lifecycle of its own.
type PriceResponse struct {
	SellToken            string            `json:"sellToken"`
	BuyToken             string            `json:"buyToken"`
	SellAmount           string            `json:"sellAmount"`
	BuyAmount            string            `json:"buyAmount"`
	Price                string            `json:"price"`
	EstimatedPriceImpact string            `json:"estimatedPriceImpact"`
	ExpectedSlippage     string            `json:"expectedSlippage"`
	Issues               Issues            `json:"issues"`
	TokenMetadata        *TokenMetadata    `json:"tokenMetadata,omitempty"`
	ValidationErrors     []ValidationError `json:"validationErrors,omitempty"`
}

// BuyAmountInt returns the buy amount as a big integer, or nil when the
// response carried no usable amount.
func (p *PriceResponse) BuyAmountInt() *big.Int {
	if p == nil || p.BuyAmount == "" {
		return nil
	}
	n, ok := new(big.Int).SetString(p.BuyAmount, 10)
	if !ok {
		return nil
	}
	return n
}

// SellAmountInt returns the sell amount as a big integer, or nil.
func (p *PriceResponse) SellAmountInt() *big.Int {
	if p == nil || p.SellAmount == "" {
		return nil
	}
	n, ok := new(big.Int).SetString(p.SellAmount, 10)
	if !ok {
		return nil
	}
	return n
}

// Transaction is the concrete on-chain payload of a firm quote.
type Transaction struct {
	To       string `json:"to"`
	Data     string `json:"data"`
	Value    string `json:"value"`
	Gas      string `json:"gas"`
	GasPrice string `json:"gasPrice"`
}

// Permit2 wraps the structured-signature request attached to a firm quote.
// EIP712 is kept as raw JSON: the typed-data object is signed exactly as
// returned by the quoting API and is never reinterpreted or mutated here.
type Permit2 struct {
	EIP712 json.RawMessage `json:"eip712"`
}

// QuoteResponse is a firm quote: a price plus a submittable transaction and
// an optional permit2 signature request. Consumed exactly once by the
// submission step.
type QuoteResponse struct {
	PriceResponse
	Transaction Transaction `json:"transaction"`
	Permit2     *Permit2    `json:"permit2,omitempty"`
}

// APIError is returned for non-2xx responses. It carries whatever structured
// detail the API provided so the caller can record it inline instead of
// crashing.
type APIError struct {
	StatusCode       int
	Message          string
	ValidationErrors []ValidationError
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("quote API status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("quote API status %d", e.StatusCode)
}

// Entries converts the API error into session error entries for display.
func (e *APIError) Entries() []ValidationError {
	if len(e.ValidationErrors) > 0 {
		return e.ValidationErrors
	}
	reason := e.Message
	if reason == "" {
		reason = fmt.Sprintf("quote API returned status %d", e.StatusCode)
	}
	return []ValidationError{{Field: "api", Code: "API_ERROR", Reason: reason}}
}
