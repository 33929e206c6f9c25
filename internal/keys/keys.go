// Package keys loads signing keypairs from disk. Two on-disk formats are
// accepted: the solana-keygen JSON array of 64 bytes, and a bare base58
// string holding the 64-byte secret.
package keys

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

const keypairLen = 64 // 32-byte seed + 32-byte public key

// Load reads a keypair file and returns the private key.
func Load(path string) (solana.PrivateKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keypair file %s: %w", path, err)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("keypair file %s is empty", path)
	}

	if trimmed[0] == '[' {
		return fromJSONArray(path, trimmed)
	}
	return fromBase58(path, trimmed)
}

func fromJSONArray(path string, data []byte) (solana.PrivateKey, error) {
	// encoding/json treats []byte as base64, so decode the number array
	// through a wider integer type.
	var values []uint16
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse %s as JSON keypair array: %w", path, err)
	}
	if len(values) != keypairLen {
		return nil, fmt.Errorf("invalid keypair length in %s: expected %d bytes, got %d", path, keypairLen, len(values))
	}
	keyBytes := make([]byte, keypairLen)
	for i, v := range values {
		if v > 255 {
			return nil, fmt.Errorf("invalid byte value %d in keypair file %s", v, path)
		}
		keyBytes[i] = byte(v)
	}
	return solana.PrivateKey(keyBytes), nil
}

func fromBase58(path string, data []byte) (solana.PrivateKey, error) {
	keyBytes, err := base58.Decode(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s as base58 keypair: %w", path, err)
	}
	if len(keyBytes) != keypairLen {
		return nil, fmt.Errorf("invalid keypair length in %s: expected %d bytes, got %d", path, keypairLen, len(keyBytes))
	}
	return solana.PrivateKey(keyBytes), nil
}
