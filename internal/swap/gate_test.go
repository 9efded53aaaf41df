package swap

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"monadswap/internal/zeroex"
)

func TestNeedsApproval(t *testing.T) {
	issue := &zeroex.AllowanceIssue{Spender: "0x000000000022d473030f116ddee9f6b43ac78ba3"}
	amount := big.NewInt(1000)

	tests := []struct {
		name    string
		issue   *zeroex.AllowanceIssue
		onchain *big.Int
		sell    *big.Int
		want    bool
	}{
		{"no issue reported", nil, big.NewInt(0), amount, false},
		{"issue and zero allowance", issue, big.NewInt(0), amount, true},
		{"issue and partial allowance", issue, big.NewInt(999), amount, true},
		{"issue but exact allowance", issue, big.NewInt(1000), amount, false},
		{"issue but surplus allowance", issue, big.NewInt(1001), amount, false},
		{"issue and unknown allowance", issue, nil, amount, true},
		{"issue and unknown amount", issue, big.NewInt(1000), nil, true},
		{"no issue even with zero allowance", nil, big.NewInt(0), amount, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NeedsApproval(tt.issue, tt.onchain, tt.sell))
		})
	}
}
