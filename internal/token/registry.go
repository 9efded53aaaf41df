package token

import (
	"errors"
	"strings"
)

// ErrTokenNotFound is returned when a token is not in the registry.
var ErrTokenNotFound = errors.New("token not found")

// MonadTestnetChainID is the chain ID of the Monad testnet.
const MonadTestnetChainID = int64(10143)

// Default trading pair offered when the swap flow opens.
const (
	DefaultSellSymbol = "WMON"
	DefaultBuySymbol  = "USDC"
)

// Token holds all metadata for a single ERC-20 token.
type Token struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Address  string `json:"address"`
	Decimals int    `json:"decimals"`
	ChainID  int64  `json:"chainId"`
	LogoURI  string `json:"logoURI"`
}

// Registry is an immutable token registry for a single chain. Lookups by
// symbol and address are case-insensitive and return stable pointers for the
// lifetime of the process.
type Registry struct {
	tokens    []Token
	bySymbol  map[string]*Token
	byAddress map[string]*Token
}

// NewRegistry builds a registry from the given tokens. It fails if either
// default pair token is absent — a missing default is a configuration error
// the caller must treat as fatal.
func NewRegistry(tokens []Token) (*Registry, error) {
	r := &Registry{
		tokens:    tokens,
		bySymbol:  make(map[string]*Token, len(tokens)),
		byAddress: make(map[string]*Token, len(tokens)),
	}
	for i := range r.tokens {
		t := &r.tokens[i]
		r.bySymbol[strings.ToLower(t.Symbol)] = t
		r.byAddress[strings.ToLower(t.Address)] = t
	}
	for _, sym := range []string{DefaultSellSymbol, DefaultBuySymbol} {
		if _, ok := r.bySymbol[strings.ToLower(sym)]; !ok {
			return nil, errors.New("default token missing from registry: " + sym)
		}
	}
	return r, nil
}

// Default returns the Monad testnet registry.
func Default() (*Registry, error) {
	return NewRegistry(monadTestnetTokens())
}

// All returns every token in the registry.
func (r *Registry) All() []Token {
	return r.tokens
}

// BySymbol finds a token by symbol (case-insensitive).
func (r *Registry) BySymbol(symbol string) (*Token, error) {
	t, ok := r.bySymbol[strings.ToLower(symbol)]
	if !ok {
		return nil, ErrTokenNotFound
	}
	return t, nil
}

// ByAddress finds a token by contract address (case-insensitive).
func (r *Registry) ByAddress(address string) (*Token, error) {
	t, ok := r.byAddress[strings.ToLower(address)]
	if !ok {
		return nil, ErrTokenNotFound
	}
	return t, nil
}

// DefaultPair returns the default sell and buy tokens.
func (r *Registry) DefaultPair() (sell, buy *Token) {
	sell = r.bySymbol[strings.ToLower(DefaultSellSymbol)]
	buy = r.bySymbol[strings.ToLower(DefaultBuySymbol)]
	return sell, buy
}

func monadTestnetTokens() []Token {
	return []Token{
		{
			Name:     "Wrapped Monad",
			Symbol:   "WMON",
			Address:  "0x760AfE86e5de5fa0Ee542fc7B7B713e1c5425701",
			Decimals: 18,
			ChainID:  MonadTestnetChainID,
			LogoURI:  "https://imagedelivery.net/cBNDGgkrsEA-b_ixIp9SkQ/I_t8rg_V_400x400.jpg/public",
		},
		{
			Name:     "Wrapped Ether",
			Symbol:   "WETH",
			Address:  "0xB5a30b0FDc5EA94A52fDc42e3E9760Cb8449Fb37",
			Decimals: 18,
			ChainID:  MonadTestnetChainID,
			LogoURI:  "https://imagedelivery.net/cBNDGgkrsEA-b_ixIp9SkQ/weth.jpg/public",
		},
		{
			Name:     "Wrapped Bitcoin",
			Symbol:   "WBTC",
			Address:  "0xcf5a6076cfa32686c0Df13aBaDa2b40dec133F1d",
			Decimals: 8,
			ChainID:  MonadTestnetChainID,
			LogoURI:  "https://imagedelivery.net/cBNDGgkrsEA-b_ixIp9SkQ/wbtc.png/public",
		},
		{
			Name:     "USD Coin",
			Symbol:   "USDC",
			Address:  "0xf817257fed379853cDe0fa4F97AB987181B1E5Ea",
			Decimals: 6,
			ChainID:  MonadTestnetChainID,
			LogoURI:  "https://imagedelivery.net/cBNDGgkrsEA-b_ixIp9SkQ/usdc.png/public",
		},
		{
			Name:     "ChainLink",
			Symbol:   "LINK",
			Address:  "0x6C6A73cb3549c8480F08420EE2e5DFaf9d2D4CDb",
			Decimals: 18,
			ChainID:  MonadTestnetChainID,
			LogoURI:  "https://s2.coinmarketcap.com/static/img/coins/64x64/1975.png",
		},
	}
}
