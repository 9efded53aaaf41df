package config

import "time"

// Monad testnet constants.
const (
	ChainID = int64(10143)

	DefaultRPCURL    = "https://testnet-rpc.monad.xyz"
	DefaultZeroExURL = "https://api.0x.org"

	// Permit2Address is the canonical permit2 contract, same on every chain.
	Permit2Address = "0x000000000022D473030F116dDEE9F6B43aC78BA3"
)

// Affiliate fee applied to every quote request.
const (
	DefaultFeeRecipient = "0x75A94931B81d81C7a62b76DC0FcFAC77FbE1e917"
	DefaultFeeBps       = 100
)

// Gas limits for the write paths. Conservative upper bounds; actual gas
// used will be lower.
const (
	GasLimitERC20Approve = uint64(60_000)
	GasLimitDeposit      = uint64(60_000)
	GasLimitSwap         = uint64(500_000) // fallback when a quote carries no gas
)

// Timeouts shared by the CLI, the quote client and the proxy service.
const (
	TxConfirmTimeout = 3 * time.Minute  // transaction confirmation wait
	QuoteHTTPTimeout = 30 * time.Second // quoting API round trip
)
