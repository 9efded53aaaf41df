package wallet

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// SignTypedData signs an EIP-712 typed-data payload as delivered by the
// swap API. The payload is passed through byte-for-byte: the domain,
// types and message are hashed exactly as received, never rebuilt.
func (s *Signer) SignTypedData(eip712 json.RawMessage) ([]byte, error) {
	var typedData apitypes.TypedData
	if err := json.Unmarshal(eip712, &typedData); err != nil {
		return nil, fmt.Errorf("parsing typed data: %w", err)
	}

	hash, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return nil, fmt.Errorf("hashing typed data: %w", err)
	}

	privKey, err := s.privateKey()
	if err != nil {
		return nil, err
	}

	sig, err := crypto.Sign(hash, privKey)
	if err != nil {
		return nil, fmt.Errorf("signing typed data: %w", err)
	}

	// crypto.Sign yields V in {0,1}; contracts expect {27,28}.
	sig[64] += 27
	return sig, nil
}
