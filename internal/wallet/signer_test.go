package wallet

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSigner(t *testing.T) (*Signer, *Manager) {
	t.Helper()
	m := newTestManager()
	require.NoError(t, m.AddWithKey("hot", testPrivKey))
	w, err := m.Get("hot")
	require.NoError(t, err)
	return NewSigner(w, m.Keystore()), m
}

func TestSignTxRecoversSender(t *testing.T) {
	s, _ := newTestSigner(t)
	chainID := big.NewInt(10143)

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     7,
		GasTipCap: big.NewInt(1_000_000_000),
		GasFeeCap: big.NewInt(2_000_000_000),
		Gas:       50_000,
		To:        &common.Address{0x01},
		Value:     big.NewInt(1),
	})

	raw, err := s.SignTx(tx, chainID)
	require.NoError(t, err)

	var decoded types.Transaction
	require.NoError(t, decoded.UnmarshalBinary(raw))

	sender, err := types.Sender(types.NewLondonSigner(chainID), &decoded)
	require.NoError(t, err)
	assert.Equal(t, s.Address(), sender.Hex())
}

func TestSignTxWatchOnly(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.AddWatchOnly("cold", "0x0000000000000000000000000000000000000001"))
	w, err := m.Get("cold")
	require.NoError(t, err)

	s := NewSigner(w, m.Keystore())
	tx := types.NewTx(&types.DynamicFeeTx{ChainID: big.NewInt(1)})
	_, err = s.SignTx(tx, big.NewInt(1))
	assert.ErrorContains(t, err, "watch-only")
}

func TestSignerAddressMatchesKey(t *testing.T) {
	s, _ := newTestSigner(t)

	priv, err := crypto.HexToECDSA(testPrivKey)
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(priv.PublicKey).Hex(), s.Address())
}
