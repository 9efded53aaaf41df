package wallet

import (
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPrivKey = "4f3edf983ac636a65a842ce7c78d9aa706d3b113bce9c46f30d7d21715b23b1d"

func newTestManager() *Manager {
	return NewManager(WithKeystore(NewInMemoryKeystore()))
}

// ----------------------------------------------------------------------------
// Watch-only wallets

func TestAddWatchOnly(t *testing.T) {
	m := newTestManager()

	err := m.AddWatchOnly("cold", "0x75A94931B81d81C7a62b76DC0FcFAC77FbE1e917")
	require.NoError(t, err)

	w, err := m.Get("cold")
	require.NoError(t, err)
	assert.Equal(t, TypeWatchOnly, w.Type)
	assert.Equal(t, "0x75A94931B81d81C7a62b76DC0FcFAC77FbE1e917", w.Address)
	assert.Empty(t, w.KeyRef)
	assert.NotEmpty(t, w.CreatedAt)
}

func TestAddDuplicateName(t *testing.T) {
	m := newTestManager()

	require.NoError(t, m.AddWatchOnly("main", "0x0000000000000000000000000000000000000001"))
	err := m.AddWatchOnly("main", "0x0000000000000000000000000000000000000002")
	assert.ErrorIs(t, err, ErrWalletExists)
}

// ----------------------------------------------------------------------------
// Signing wallets

func TestAddWithKeyDerivesAddress(t *testing.T) {
	m := newTestManager()

	require.NoError(t, m.AddWithKey("hot", testPrivKey))

	priv, err := crypto.HexToECDSA(testPrivKey)
	require.NoError(t, err)
	want := crypto.PubkeyToAddress(priv.PublicKey).Hex()

	w, err := m.Get("hot")
	require.NoError(t, err)
	assert.Equal(t, TypeSigning, w.Type)
	assert.Equal(t, want, w.Address)
	assert.NotEmpty(t, w.KeyRef)

	// Key must be retrievable through the keystore.
	stored, err := m.Keystore().Retrieve(w.KeyRef)
	require.NoError(t, err)
	assert.Equal(t, testPrivKey, stored)
}

func TestAddWithKeyAcceptsHexPrefix(t *testing.T) {
	m := newTestManager()

	require.NoError(t, m.AddWithKey("hot", "0x"+testPrivKey))

	priv, err := crypto.HexToECDSA(testPrivKey)
	require.NoError(t, err)

	w, err := m.Get("hot")
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(priv.PublicKey).Hex(), w.Address)
}

func TestAddWithInvalidKey(t *testing.T) {
	m := newTestManager()

	err := m.AddWithKey("bad", "not-a-key")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

// ----------------------------------------------------------------------------
// Lifecycle

func TestRemoveDeletesKey(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.AddWithKey("hot", testPrivKey))

	w, err := m.Get("hot")
	require.NoError(t, err)
	ref := w.KeyRef

	require.NoError(t, m.Remove("hot"))

	_, err = m.Get("hot")
	assert.ErrorIs(t, err, ErrWalletNotFound)

	_, err = m.Keystore().Retrieve(ref)
	assert.Error(t, err)
}

func TestRemoveMissing(t *testing.T) {
	m := newTestManager()
	assert.ErrorIs(t, m.Remove("ghost"), ErrWalletNotFound)
}

func TestSetDefault(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.AddWatchOnly("a", "0x0000000000000000000000000000000000000001"))
	require.NoError(t, m.AddWatchOnly("b", "0x0000000000000000000000000000000000000002"))

	require.NoError(t, m.SetDefault("b"))
	def := m.Default()
	require.NotNil(t, def)
	assert.Equal(t, "b", def.Name)

	// Switching the default clears the old flag.
	require.NoError(t, m.SetDefault("a"))
	wb, err := m.Get("b")
	require.NoError(t, err)
	assert.False(t, wb.IsDefault)
}

func TestDefaultFallsBackToOnlyWallet(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.AddWatchOnly("solo", "0x0000000000000000000000000000000000000001"))

	def := m.Default()
	require.NotNil(t, def)
	assert.Equal(t, "solo", def.Name)
}

func TestDefaultEmpty(t *testing.T) {
	m := newTestManager()
	assert.Nil(t, m.Default())
}

// ----------------------------------------------------------------------------
// Persistence

func TestJSONStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallets.json")
	store := NewJSONStore(path)

	m := NewManager(WithStore(store), WithKeystore(NewInMemoryKeystore()))
	require.NoError(t, m.AddWatchOnly("persisted", "0x0000000000000000000000000000000000000042"))
	require.NoError(t, m.SetDefault("persisted"))

	// A fresh manager reading the same file sees the wallet.
	m2 := NewManager(WithStore(NewJSONStore(path)), WithKeystore(NewInMemoryKeystore()))
	w, err := m2.Get("persisted")
	require.NoError(t, err)
	assert.Equal(t, "0x0000000000000000000000000000000000000042", w.Address)
	assert.True(t, w.IsDefault)
}

func TestJSONStoreMissingFile(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "nope.json"))
	wallets, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, wallets)
}
