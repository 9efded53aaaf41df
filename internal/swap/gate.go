package swap

import (
	"math/big"

	"monadswap/internal/zeroex"
)

// NeedsApproval decides whether an ERC20 approval must precede submission.
// Approval is required iff the quote reports an allowance issue AND the
// on-chain allowance is below the pending sell amount. A prior allowance
// that already covers the sell amount skips approval even when the quote
// flags an issue; an unknown allowance or amount counts as insufficient.
func NeedsApproval(issue *zeroex.AllowanceIssue, onchain, sellAmount *big.Int) bool {
	if issue == nil {
		return false
	}
	if onchain == nil || sellAmount == nil {
		return true
	}
	return onchain.Cmp(sellAmount) < 0
}
