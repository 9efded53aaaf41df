package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Registry construction
// ---------------------------------------------------------------------------

func TestDefaultRegistryLoads(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)
	assert.Len(t, r.All(), 5)
}

func TestNewRegistryMissingDefaultSellToken(t *testing.T) {
	tokens := []Token{
		{Symbol: "USDC", Address: "0xf817257fed379853cDe0fa4F97AB987181B1E5Ea", Decimals: 6},
	}
	_, err := NewRegistry(tokens)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WMON")
}

func TestNewRegistryMissingDefaultBuyToken(t *testing.T) {
	tokens := []Token{
		{Symbol: "WMON", Address: "0x760AfE86e5de5fa0Ee542fc7B7B713e1c5425701", Decimals: 18},
	}
	_, err := NewRegistry(tokens)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "USDC")
}

// ---------------------------------------------------------------------------
// Lookups
// ---------------------------------------------------------------------------

func TestBySymbolCaseInsensitive(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	for _, sym := range []string{"wmon", "WMON", "Wmon"} {
		tok, err := r.BySymbol(sym)
		require.NoError(t, err, "symbol %q", sym)
		assert.Equal(t, "WMON", tok.Symbol)
		assert.Equal(t, 18, tok.Decimals)
	}
}

func TestByAddressCaseInsensitive(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	usdc, err := r.BySymbol("usdc")
	require.NoError(t, err)

	tok, err := r.ByAddress("0XF817257FED379853CDE0FA4F97AB987181B1E5EA")
	require.NoError(t, err)
	assert.Same(t, usdc, tok, "lookups must return stable pointers")
}

func TestLookupUnknownToken(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	_, err = r.BySymbol("DOGE")
	assert.ErrorIs(t, err, ErrTokenNotFound)

	_, err = r.ByAddress("0x0000000000000000000000000000000000000001")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestDefaultPair(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	sell, buy := r.DefaultPair()
	assert.Equal(t, "WMON", sell.Symbol)
	assert.Equal(t, "USDC", buy.Symbol)
}

func TestAllTokensOnMonadTestnet(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)
	for _, tok := range r.All() {
		assert.Equal(t, MonadTestnetChainID, tok.ChainID, "token %s", tok.Symbol)
		assert.NotEmpty(t, tok.Address, "token %s", tok.Symbol)
		assert.Positive(t, tok.Decimals, "token %s", tok.Symbol)
	}
}
