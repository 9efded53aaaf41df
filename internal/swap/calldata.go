// Package swap implements the swap flow as an explicit state machine: an
// event queue feeds a pure transition function whose emitted commands are
// executed against the quoting API, the chain and the wallet by a Runner.
package swap

import (
	"encoding/hex"
	"math/big"
	"strings"
)

// Splice appends a permit2 signature to settlement calldata. The settlement
// contract decodes the tail as: original calldata, then the signature length
// as a 32-byte big-endian word, then the raw signature bytes. The layout is
// byte-exact; any deviation reverts on-chain.
func Splice(calldata string, sig []byte) string {
	data := strings.TrimPrefix(calldata, "0x")

	length := make([]byte, 32)
	big.NewInt(int64(len(sig))).FillBytes(length)

	return "0x" + data + hex.EncodeToString(length) + hex.EncodeToString(sig)
}
