// Package wrap deposits native MON into the wrapped-token contract. No
// quoting, no signature step, no allowance: a single payable deposit call.
package wrap

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"monadswap/internal/chain"
	"monadswap/internal/config"
)

// State is the wrap flow's position in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateWrapping
	StateConfirming
	StateConfirmed
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:       "idle",
	StateWrapping:   "wrapping",
	StateConfirming: "confirming",
	StateConfirmed:  "confirmed",
	StateFailed:     "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// GasReserve is the native amount the max helper leaves untouched so the
// deposit itself can still pay for gas: 0.01 MON.
var GasReserve = new(big.Int).Exp(big.NewInt(10), big.NewInt(16), nil)

// Validation errors.
var (
	ErrAmountNotPositive = errors.New("amount must be greater than zero")
	ErrAmountOverBalance = errors.New("amount exceeds native balance")
)

// MaxFill returns the largest amount worth offering for the given native
// balance: the balance minus the gas reserve. Nil when the balance does not
// clear the reserve — no zero or negative amount is ever offered.
func MaxFill(balance *big.Int) *big.Int {
	if balance == nil {
		return nil
	}
	max := new(big.Int).Sub(balance, GasReserve)
	if max.Sign() <= 0 {
		return nil
	}
	return max
}

// Validate checks a wrap amount against the native balance: it must be
// positive and no more than the balance. Equality is allowed.
func Validate(amount, balance *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrAmountNotPositive
	}
	if balance == nil || amount.Cmp(balance) > 0 {
		return ErrAmountOverBalance
	}
	return nil
}

// ChainReader is the slice of the RPC client the orchestrator depends on.
type ChainReader interface {
	NativeBalance(ctx context.Context, address string) (*big.Int, error)
	TokenBalance(ctx context.Context, tokenAddr, owner string) (*big.Int, error)
	WaitForReceipt(ctx context.Context, hash string, timeout time.Duration) (*chain.Receipt, error)
}

// Submitter broadcasts signed transactions.
type Submitter interface {
	Send(ctx context.Context, to string, calldata string, value *big.Int, gasLimit uint64, gasPrice *big.Int) (string, error)
}

// Result is the outcome of a confirmed wrap, including the re-read balances
// the deposit invalidated.
type Result struct {
	Hash           string
	Receipt        *chain.Receipt
	NativeBalance  *big.Int
	WrappedBalance *big.Int
}

// Orchestrator drives the wrap flow: Idle, Wrapping, Confirming, Confirmed,
// with Failed on any error past validation.
type Orchestrator struct {
	chain          ChainReader
	sender         Submitter
	owner          string
	wrappedToken   string
	receiptTimeout time.Duration
	notify         func(State)

	state State
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithNotify registers a callback invoked on every state change.
func WithNotify(fn func(State)) Option {
	return func(o *Orchestrator) { o.notify = fn }
}

// WithReceiptTimeout overrides how long receipt polling waits.
func WithReceiptTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.receiptTimeout = d }
}

// New creates a wrap orchestrator for the given owner and wrapped-token
// contract.
func New(c ChainReader, sender Submitter, owner, wrappedToken string, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		chain:          c,
		sender:         sender,
		owner:          owner,
		wrappedToken:   wrappedToken,
		receiptTimeout: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// State returns the current flow state.
func (o *Orchestrator) State() State {
	return o.state
}

// Max reads the native balance and returns the max-fill amount, or nil when
// the balance does not clear the gas reserve.
func (o *Orchestrator) Max(ctx context.Context) (*big.Int, error) {
	balance, err := o.chain.NativeBalance(ctx, o.owner)
	if err != nil {
		return nil, fmt.Errorf("reading native balance: %w", err)
	}
	return MaxFill(balance), nil
}

// Wrap validates the amount, submits the deposit and waits for its receipt.
// On confirmation the dependent balances are re-read, never assumed.
func (o *Orchestrator) Wrap(ctx context.Context, amount *big.Int) (*Result, error) {
	balance, err := o.chain.NativeBalance(ctx, o.owner)
	if err != nil {
		return nil, fmt.Errorf("reading native balance: %w", err)
	}
	if err := Validate(amount, balance); err != nil {
		return nil, err
	}

	o.transition(StateWrapping)
	// deposit() gas is flat; a fixed limit skips an estimate round trip
	// that some nodes reject for value-bearing calls.
	hash, err := o.sender.Send(ctx, o.wrappedToken, chain.DepositCalldata(), amount, config.GasLimitDeposit, nil)
	if err != nil {
		o.transition(StateFailed)
		return nil, fmt.Errorf("submitting deposit: %w", err)
	}

	o.transition(StateConfirming)
	receipt, err := o.chain.WaitForReceipt(ctx, hash, o.receiptTimeout)
	if err != nil {
		o.transition(StateFailed)
		return nil, fmt.Errorf("awaiting deposit %s: %w", hash, err)
	}

	o.transition(StateConfirmed)
	result := &Result{Hash: hash, Receipt: receipt}
	if native, err := o.chain.NativeBalance(ctx, o.owner); err == nil {
		result.NativeBalance = native
	}
	if wrapped, err := o.chain.TokenBalance(ctx, o.wrappedToken, o.owner); err == nil {
		result.WrappedBalance = wrapped
	}
	return result, nil
}

func (o *Orchestrator) transition(s State) {
	o.state = s
	if o.notify != nil {
		o.notify(s)
	}
}
