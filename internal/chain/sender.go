package chain

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// TxSigner signs EVM transactions. Satisfied by wallet.Signer; tests supply
// a fake.
type TxSigner interface {
	Address() string
	SignTx(tx *types.Transaction, chainID *big.Int) ([]byte, error)
}

// Sender builds, signs and broadcasts write transactions.
type Sender struct {
	client  *Client
	signer  TxSigner
	chainID *big.Int
}

// NewSender creates a Sender.
func NewSender(client *Client, signer TxSigner, chainID *big.Int) *Sender {
	return &Sender{
		client:  client,
		signer:  signer,
		chainID: chainID,
	}
}

// Address returns the sending address.
func (s *Sender) Address() string {
	return s.signer.Address()
}

// Send signs and broadcasts a transaction to `to` with the given calldata and
// value. A zero gasLimit is estimated against the node (with a conservative
// fallback); a nil gasPrice is read from the node. Returns the tx hash
// immediately — confirmation is the caller's concern.
func (s *Sender) Send(ctx context.Context, to string, calldata string, value *big.Int, gasLimit uint64, gasPrice *big.Int) (string, error) {
	from := s.signer.Address()

	if gasPrice == nil {
		var err error
		gasPrice, err = s.client.GasPrice(ctx)
		if err != nil {
			return "", fmt.Errorf("getting gas price: %w", err)
		}
	}

	if gasLimit == 0 {
		var err error
		gasLimit, err = s.client.EstimateGas(ctx, from, to, calldata, value)
		if err != nil {
			gasLimit = 200_000 // fallback when the node cannot simulate
		}
	}

	nonce, err := s.client.PendingNonce(ctx, from)
	if err != nil {
		return "", fmt.Errorf("getting nonce: %w", err)
	}

	if value == nil {
		value = big.NewInt(0)
	}
	toAddr := common.HexToAddress(to)

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   s.chainID,
		Nonce:     nonce,
		GasTipCap: gasPrice,
		GasFeeCap: new(big.Int).Mul(gasPrice, big.NewInt(2)),
		Gas:       gasLimit,
		To:        &toAddr,
		Value:     value,
		Data:      hexToBytes(calldata),
	})

	raw, err := s.signer.SignTx(tx, s.chainID)
	if err != nil {
		return "", fmt.Errorf("signing transaction: %w", err)
	}

	hash, err := s.client.SendRawTransaction(ctx, "0x"+hex.EncodeToString(raw))
	if err != nil {
		return "", fmt.Errorf("broadcasting transaction: %w", err)
	}
	return hash, nil
}

// hexToBytes converts a hex string (with or without 0x) to bytes.
func hexToBytes(s string) []byte {
	s = strings.TrimPrefix(s, "0x")
	if len(s)%2 != 0 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil
	}
	return b
}
