package chain

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBalanceOfCalldata(t *testing.T) {
	data := BalanceOfCalldata("0x1111111111111111111111111111111111111111")
	assert.Equal(t,
		"0x70a082310000000000000000000000001111111111111111111111111111111111111111",
		data)
}

func TestAllowanceCalldata(t *testing.T) {
	data := AllowanceCalldata(
		"0x1111111111111111111111111111111111111111",
		"0x2222222222222222222222222222222222222222")
	assert.Equal(t,
		"0xdd62ed3e"+
			"0000000000000000000000001111111111111111111111111111111111111111"+
			"0000000000000000000000002222222222222222222222222222222222222222",
		data)
}

func TestApproveCalldataMaxAllowance(t *testing.T) {
	data := ApproveCalldata("0x2222222222222222222222222222222222222222", MaxAllowance)
	assert.True(t, strings.HasPrefix(data,
		"0x095ea7b30000000000000000000000002222222222222222222222222222222222222222"))
	// Max uint256 is all f's.
	assert.True(t, strings.HasSuffix(data, strings.Repeat("f", 64)))
	assert.Len(t, data, 2+8+64+64)
}

func TestApproveCalldataSmallAmount(t *testing.T) {
	data := ApproveCalldata("0x2222222222222222222222222222222222222222", big.NewInt(255))
	assert.True(t, strings.HasSuffix(data,
		"00000000000000000000000000000000000000000000000000000000000000ff"))
}

func TestDepositCalldata(t *testing.T) {
	assert.Equal(t, "0xd0e30db0", DepositCalldata())
}

func TestAddressWordMixedCase(t *testing.T) {
	// ABI words must be lowercased regardless of input casing.
	a := BalanceOfCalldata("0xAbCd111111111111111111111111111111111111")
	b := BalanceOfCalldata("0xabcd111111111111111111111111111111111111")
	assert.Equal(t, a, b)
}
