package wrap

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monadswap/internal/chain"
	"monadswap/internal/config"
)

const (
	testOwner = "0x75A94931B81d81C7a62b76DC0FcFAC77FbE1e917"
	testWMON  = "0x760AfE86e5de5fa0Ee542fc7B7B713e1c5425701"
)

func mon(units float64) *big.Int {
	f := new(big.Float).Mul(big.NewFloat(units), big.NewFloat(1e18))
	n, _ := f.Int(nil)
	return n
}

// ----------------------------------------------------------------------------
// Max fill and validation

func TestMaxFill(t *testing.T) {
	tests := []struct {
		name    string
		balance *big.Int
		want    *big.Int
	}{
		{"one native unit", mon(1.00), mon(0.99)},
		{"well above reserve", mon(2.5), mon(2.49)},
		{"exactly the reserve", mon(0.01), nil},
		{"below the reserve", mon(0.005), nil},
		{"zero balance", big.NewInt(0), nil},
		{"nil balance", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MaxFill(tt.balance)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Zero(t, tt.want.Cmp(got))
		})
	}
}

func TestValidate(t *testing.T) {
	balance := mon(1)

	assert.NoError(t, Validate(mon(0.5), balance))
	assert.NoError(t, Validate(mon(1), balance)) // equality allowed
	assert.ErrorIs(t, Validate(big.NewInt(0), balance), ErrAmountNotPositive)
	assert.ErrorIs(t, Validate(big.NewInt(-1), balance), ErrAmountNotPositive)
	assert.ErrorIs(t, Validate(nil, balance), ErrAmountNotPositive)
	assert.ErrorIs(t, Validate(mon(1.01), balance), ErrAmountOverBalance)
	assert.ErrorIs(t, Validate(mon(1), nil), ErrAmountOverBalance)
}

// ----------------------------------------------------------------------------
// Orchestrator

type wrapChain struct {
	native     *big.Int
	wrapped    *big.Int
	receiptErr error
	waited     []string
}

func (c *wrapChain) NativeBalance(_ context.Context, _ string) (*big.Int, error) {
	return new(big.Int).Set(c.native), nil
}

func (c *wrapChain) TokenBalance(_ context.Context, _, _ string) (*big.Int, error) {
	return new(big.Int).Set(c.wrapped), nil
}

func (c *wrapChain) WaitForReceipt(_ context.Context, hash string, _ time.Duration) (*chain.Receipt, error) {
	c.waited = append(c.waited, hash)
	if c.receiptErr != nil {
		return nil, c.receiptErr
	}
	return &chain.Receipt{Hash: hash, Status: 1}, nil
}

type wrapSender struct {
	to       string
	calldata string
	value    *big.Int
	gas      uint64
	err      error
}

func (s *wrapSender) Send(_ context.Context, to, calldata string, value *big.Int, gasLimit uint64, _ *big.Int) (string, error) {
	s.to = to
	s.calldata = calldata
	s.value = value
	s.gas = gasLimit
	if s.err != nil {
		return "", s.err
	}
	return "0xwrap", nil
}

func TestWrapSubmitsDeposit(t *testing.T) {
	c := &wrapChain{native: mon(1), wrapped: mon(0.5)}
	sender := &wrapSender{}

	var states []State
	o := New(c, sender, testOwner, testWMON, WithNotify(func(s State) {
		states = append(states, s)
	}))

	amount := mon(0.5)
	result, err := o.Wrap(context.Background(), amount)
	require.NoError(t, err)

	// deposit() carried as calldata, the amount as transaction value.
	assert.Equal(t, testWMON, sender.to)
	assert.Equal(t, "0xd0e30db0", sender.calldata)
	assert.Zero(t, amount.Cmp(sender.value))
	assert.Equal(t, config.GasLimitDeposit, sender.gas)

	assert.Equal(t, "0xwrap", result.Hash)
	assert.Equal(t, []string{"0xwrap"}, c.waited)
	assert.Equal(t, StateConfirmed, o.State())
	assert.Equal(t, []State{StateWrapping, StateConfirming, StateConfirmed}, states)

	// Balances re-read after confirmation.
	require.NotNil(t, result.NativeBalance)
	require.NotNil(t, result.WrappedBalance)
}

func TestWrapRejectsOverBalance(t *testing.T) {
	c := &wrapChain{native: mon(1), wrapped: big.NewInt(0)}
	sender := &wrapSender{}
	o := New(c, sender, testOwner, testWMON)

	_, err := o.Wrap(context.Background(), mon(1.5))
	assert.ErrorIs(t, err, ErrAmountOverBalance)
	assert.Empty(t, sender.calldata)
	assert.Equal(t, StateIdle, o.State())
}

func TestWrapRejectsZero(t *testing.T) {
	o := New(&wrapChain{native: mon(1), wrapped: big.NewInt(0)}, &wrapSender{}, testOwner, testWMON)

	_, err := o.Wrap(context.Background(), big.NewInt(0))
	assert.ErrorIs(t, err, ErrAmountNotPositive)
}

func TestWrapSubmitFailure(t *testing.T) {
	c := &wrapChain{native: mon(1), wrapped: big.NewInt(0)}
	sender := &wrapSender{err: errors.New("nonce too low")}
	o := New(c, sender, testOwner, testWMON)

	_, err := o.Wrap(context.Background(), mon(0.5))
	assert.ErrorContains(t, err, "nonce too low")
	assert.Equal(t, StateFailed, o.State())
}

func TestWrapRevert(t *testing.T) {
	c := &wrapChain{native: mon(1), wrapped: big.NewInt(0), receiptErr: errors.New("transaction reverted")}
	o := New(c, &wrapSender{}, testOwner, testWMON)

	_, err := o.Wrap(context.Background(), mon(0.5))
	assert.ErrorContains(t, err, "reverted")
	assert.Equal(t, StateFailed, o.State())
}

func TestMaxReadsBalance(t *testing.T) {
	o := New(&wrapChain{native: mon(1), wrapped: big.NewInt(0)}, &wrapSender{}, testOwner, testWMON)

	max, err := o.Max(context.Background())
	require.NoError(t, err)
	assert.Zero(t, mon(0.99).Cmp(max))
}
