package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// keyVersion is mixed into every derived key. Bump it when the stored
// layout or artifact encoding changes so old entries stop matching.
const keyVersion = 2

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashJSON returns the [Hash] of v's JSON encoding. Values that cannot be
// encoded hash as JSON null.
func HashJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		data = []byte("null")
	}
	return Hash(data)
}

// deriveKey returns "kind:<hash>" over the content hash and its options.
func deriveKey(kind, contentHash string, opts any) string {
	return kind + ":" + HashJSON([]any{keyVersion, contentHash, opts})
}
