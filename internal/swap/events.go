package swap

import (
	"encoding/json"
	"math/big"

	"monadswap/internal/token"
	"monadswap/internal/zeroex"
)

// Event is an input to the machine: either a user action or the completion
// of a previously issued command.
type Event interface{ isEvent() }

// Fetch stages, used to route failures to the right session field.
const (
	StagePrice     = "price"
	StageQuote     = "quote"
	StageAllowance = "allowance"
	StageBalance   = "balance"
	StageApprove   = "approve"
	StageSwap      = "swap"
)

// --- user events ---

// ConnectWallet sets the taker address for the session.
type ConnectWallet struct{ Address string }

// SelectSellToken changes the sell side of the pair.
type SelectSellToken struct{ Token *token.Token }

// SelectBuyToken changes the buy side of the pair.
type SelectBuyToken struct{ Token *token.Token }

// EditAmount replaces the actively edited amount field. Ignored while a
// firm quote is in play; the user must back out first.
type EditAmount struct {
	Direction Direction
	Value     string
}

// Finalize commits the held price and requests a firm quote.
type Finalize struct{}

// ModifySwap backs out of a firm quote and returns to pricing.
type ModifySwap struct{}

// PlaceOrder starts signing/submission of the held firm quote.
type PlaceOrder struct{}

// Approve submits the ERC20 approval the gate demanded.
type Approve struct{}

// Close resets the session.
type Close struct{}

// --- completion events ---

// PriceFetched delivers an indicative price. Req echoes the originating
// request so stale responses can be discarded on parameter mismatch.
type PriceFetched struct {
	Req   zeroex.PriceRequest
	Price *zeroex.PriceResponse
}

// QuoteFetched delivers a firm quote, echoing its originating request.
type QuoteFetched struct {
	Req   zeroex.PriceRequest
	Quote *zeroex.QuoteResponse
}

// FetchFailed reports a failed read (price, quote, allowance, balance).
type FetchFailed struct {
	Stage string
	Req   zeroex.PriceRequest
	Err   error
}

// AllowanceRead delivers an on-chain allowance for (Owner, Spender, Token).
type AllowanceRead struct {
	Owner   string
	Spender string
	Token   string
	Amount  *big.Int
}

// BalanceRead delivers a balance; Token is "" for the native token.
type BalanceRead struct {
	Owner  string
	Token  string
	Amount *big.Int
}

// ApprovalSubmitted reports a broadcast approval transaction.
type ApprovalSubmitted struct{ Hash string }

// ApprovalMined reports the approval receipt; Err is set on revert.
type ApprovalMined struct {
	Hash string
	Err  error
}

// PermitSigned delivers the permit2 signature.
type PermitSigned struct{ Sig []byte }

// SignRejected reports a declined signature request.
type SignRejected struct{ Reason string }

// SwapSubmitted reports a broadcast swap transaction.
type SwapSubmitted struct{ Hash string }

// SwapMined reports the swap receipt; Err is set on revert or timeout.
type SwapMined struct {
	Hash string
	Err  error
}

// SubmitFailed reports a transaction that never reached the mempool.
type SubmitFailed struct {
	Stage string
	Err   error
}

func (ConnectWallet) isEvent()     {}
func (SelectSellToken) isEvent()   {}
func (SelectBuyToken) isEvent()    {}
func (EditAmount) isEvent()        {}
func (Finalize) isEvent()          {}
func (ModifySwap) isEvent()        {}
func (PlaceOrder) isEvent()        {}
func (Approve) isEvent()           {}
func (Close) isEvent()             {}
func (PriceFetched) isEvent()      {}
func (QuoteFetched) isEvent()      {}
func (FetchFailed) isEvent()       {}
func (AllowanceRead) isEvent()     {}
func (BalanceRead) isEvent()       {}
func (ApprovalSubmitted) isEvent() {}
func (ApprovalMined) isEvent()     {}
func (PermitSigned) isEvent()      {}
func (SignRejected) isEvent()      {}
func (SwapSubmitted) isEvent()     {}
func (SwapMined) isEvent()         {}
func (SubmitFailed) isEvent()      {}

// Command is an effect the machine wants executed. Commands carry everything
// the executor needs; the machine itself never performs I/O.
type Command interface{ isCommand() }

// FetchPrice requests an indicative price.
type FetchPrice struct{ Req zeroex.PriceRequest }

// FetchQuote requests a firm quote.
type FetchQuote struct{ Req zeroex.PriceRequest }

// ReadAllowance reads the on-chain allowance for (Owner, Spender, Token).
type ReadAllowance struct {
	Owner   string
	Spender string
	Token   string
}

// ReadBalance reads a balance; Token is "" for the native token.
type ReadBalance struct {
	Owner string
	Token string
}

// SubmitApproval broadcasts a max-allowance approval of Spender on Token.
type SubmitApproval struct {
	Token   string
	Spender string
}

// AwaitApproval polls for the approval receipt.
type AwaitApproval struct{ Hash string }

// SignPermit requests a signature over the quote's typed-data payload,
// passed through exactly as the quoting API returned it.
type SignPermit struct{ EIP712 json.RawMessage }

// SubmitSwap broadcasts the settlement transaction.
type SubmitSwap struct {
	To       string
	Data     string
	Value    *big.Int
	Gas      uint64
	GasPrice *big.Int
}

// AwaitSwap polls for the settlement receipt.
type AwaitSwap struct{ Hash string }

func (FetchPrice) isCommand()     {}
func (FetchQuote) isCommand()     {}
func (ReadAllowance) isCommand()  {}
func (ReadBalance) isCommand()    {}
func (SubmitApproval) isCommand() {}
func (AwaitApproval) isCommand()  {}
func (SignPermit) isCommand()     {}
func (SubmitSwap) isCommand()     {}
func (AwaitSwap) isCommand()      {}
