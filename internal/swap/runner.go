package swap

import (
	"context"
	"encoding/json"
	"math/big"
	"sync"
	"time"

	"monadswap/internal/chain"
	"monadswap/internal/zeroex"
)

// Quoter is the slice of the quoting API the runner depends on.
type Quoter interface {
	Price(ctx context.Context, req zeroex.PriceRequest) (*zeroex.PriceResponse, error)
	Quote(ctx context.Context, req zeroex.PriceRequest) (*zeroex.QuoteResponse, error)
}

// ChainReader is the slice of the RPC client the runner depends on.
type ChainReader interface {
	NativeBalance(ctx context.Context, address string) (*big.Int, error)
	TokenBalance(ctx context.Context, tokenAddr, owner string) (*big.Int, error)
	Allowance(ctx context.Context, tokenAddr, owner, spender string) (*big.Int, error)
	WaitForReceipt(ctx context.Context, hash string, timeout time.Duration) (*chain.Receipt, error)
}

// Submitter broadcasts signed transactions.
type Submitter interface {
	Send(ctx context.Context, to string, calldata string, value *big.Int, gasLimit uint64, gasPrice *big.Int) (string, error)
}

// TypedDataSigner signs permit2 payloads.
type TypedDataSigner interface {
	SignTypedData(eip712 json.RawMessage) ([]byte, error)
}

// Runner drives a machine: it owns the event queue, applies events on a
// single goroutine, and executes each emitted command concurrently, feeding
// the completion back into the queue. The session is only ever touched from
// the apply goroutine.
type Runner struct {
	machine *Machine
	quoter  Quoter
	chain   ChainReader
	sender  Submitter
	signer  TypedDataSigner

	events         chan Event
	notify         func(*Session)
	receiptTimeout time.Duration
	wg             sync.WaitGroup
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithNotify registers a callback invoked after every applied event, from
// the apply goroutine. Used by the CLI to render state transitions.
func WithNotify(fn func(*Session)) RunnerOption {
	return func(r *Runner) { r.notify = fn }
}

// WithReceiptTimeout overrides how long receipt polling waits.
func WithReceiptTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) { r.receiptTimeout = d }
}

// NewRunner wires a machine to its collaborators.
func NewRunner(m *Machine, q Quoter, c ChainReader, sender Submitter, signer TypedDataSigner, opts ...RunnerOption) *Runner {
	r := &Runner{
		machine:        m,
		quoter:         q,
		chain:          c,
		sender:         sender,
		signer:         signer,
		events:         make(chan Event, 64),
		receiptTimeout: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Post enqueues an event. Safe from any goroutine.
func (r *Runner) Post(ev Event) {
	r.events <- ev
}

// Session returns the machine's session. Read it only after Run returns or
// from a notify callback.
func (r *Runner) Session() *Session {
	return r.machine.Session()
}

// Run applies events until the session reaches a terminal state, a Close
// event is processed, or the context is cancelled. In-flight command
// goroutines are waited out before returning.
func (r *Runner) Run(ctx context.Context) error {
	defer r.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-r.events:
			cmds := r.machine.Apply(ev)
			for _, cmd := range cmds {
				r.wg.Add(1)
				go func(cmd Command) {
					defer r.wg.Done()
					r.execute(ctx, cmd)
				}(cmd)
			}
			if r.notify != nil {
				r.notify(r.machine.Session())
			}
			if _, closed := ev.(Close); closed {
				return nil
			}
			if st := r.machine.Session().State; st == StateConfirmed || st == StateFailed {
				return nil
			}
		}
	}
}

func (r *Runner) execute(ctx context.Context, cmd Command) {
	switch cmd := cmd.(type) {
	case FetchPrice:
		price, err := r.quoter.Price(ctx, cmd.Req)
		if err != nil {
			r.Post(FetchFailed{Stage: StagePrice, Req: cmd.Req, Err: err})
			return
		}
		r.Post(PriceFetched{Req: cmd.Req, Price: price})

	case FetchQuote:
		quote, err := r.quoter.Quote(ctx, cmd.Req)
		if err != nil {
			r.Post(FetchFailed{Stage: StageQuote, Req: cmd.Req, Err: err})
			return
		}
		r.Post(QuoteFetched{Req: cmd.Req, Quote: quote})

	case ReadAllowance:
		amount, err := r.chain.Allowance(ctx, cmd.Token, cmd.Owner, cmd.Spender)
		if err != nil {
			r.Post(FetchFailed{Stage: StageAllowance, Err: err})
			return
		}
		r.Post(AllowanceRead{Owner: cmd.Owner, Spender: cmd.Spender, Token: cmd.Token, Amount: amount})

	case ReadBalance:
		var amount *big.Int
		var err error
		if cmd.Token == "" {
			amount, err = r.chain.NativeBalance(ctx, cmd.Owner)
		} else {
			amount, err = r.chain.TokenBalance(ctx, cmd.Token, cmd.Owner)
		}
		if err != nil {
			r.Post(FetchFailed{Stage: StageBalance, Err: err})
			return
		}
		r.Post(BalanceRead{Owner: cmd.Owner, Token: cmd.Token, Amount: amount})

	case SubmitApproval:
		calldata := chain.ApproveCalldata(cmd.Spender, chain.MaxAllowance)
		hash, err := r.sender.Send(ctx, cmd.Token, calldata, nil, 0, nil)
		if err != nil {
			r.Post(SubmitFailed{Stage: StageApprove, Err: err})
			return
		}
		r.Post(ApprovalSubmitted{Hash: hash})

	case AwaitApproval:
		_, err := r.chain.WaitForReceipt(ctx, cmd.Hash, r.receiptTimeout)
		r.Post(ApprovalMined{Hash: cmd.Hash, Err: err})

	case SignPermit:
		sig, err := r.signer.SignTypedData(cmd.EIP712)
		if err != nil {
			r.Post(SignRejected{Reason: err.Error()})
			return
		}
		r.Post(PermitSigned{Sig: sig})

	case SubmitSwap:
		hash, err := r.sender.Send(ctx, cmd.To, cmd.Data, cmd.Value, cmd.Gas, cmd.GasPrice)
		if err != nil {
			r.Post(SubmitFailed{Stage: StageSwap, Err: err})
			return
		}
		r.Post(SwapSubmitted{Hash: hash})

	case AwaitSwap:
		_, err := r.chain.WaitForReceipt(ctx, cmd.Hash, r.receiptTimeout)
		r.Post(SwapMined{Hash: cmd.Hash, Err: err})
	}
}
