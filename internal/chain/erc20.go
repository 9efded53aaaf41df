package chain

import (
	"fmt"
	"math/big"
	"strings"
)

// Function selectors for the fixed contract surface this tool touches.
//
//	balanceOf(address)          → 0x70a08231
//	allowance(address,address)  → 0xdd62ed3e
//	approve(address,uint256)    → 0x095ea7b3
//	deposit()                   → 0xd0e30db0  (wrapped-native token, payable)
const (
	selBalanceOf = "0x70a08231"
	selAllowance = "0xdd62ed3e"
	selApprove   = "0x095ea7b3"
	selDeposit   = "0xd0e30db0"
)

// MaxAllowance is the uint256 sentinel used for one-time "infinite" approvals.
var MaxAllowance, _ = new(big.Int).SetString(
	"115792089237316195423570985008687907853269984665640564039457584007913129639935", 10)

// BalanceOfCalldata encodes balanceOf(owner).
func BalanceOfCalldata(owner string) string {
	return selBalanceOf + addressWord(owner)
}

// AllowanceCalldata encodes allowance(owner, spender).
func AllowanceCalldata(owner, spender string) string {
	return selAllowance + addressWord(owner) + addressWord(spender)
}

// ApproveCalldata encodes approve(spender, amount).
func ApproveCalldata(spender string, amount *big.Int) string {
	return selApprove + addressWord(spender) + uintWord(amount)
}

// DepositCalldata encodes the zero-argument payable deposit() call of a
// wrapped-native token contract.
func DepositCalldata() string {
	return selDeposit
}

// addressWord left-pads a hex address to a 32-byte ABI word.
func addressWord(addr string) string {
	return fmt.Sprintf("%064s", strings.ToLower(strings.TrimPrefix(addr, "0x")))
}

// uintWord encodes a uint256 as a 32-byte ABI word.
func uintWord(n *big.Int) string {
	return fmt.Sprintf("%064s", n.Text(16))
}
