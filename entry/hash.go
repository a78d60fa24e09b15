package entry

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// HashLen is the length of a content hash in hex characters.
const HashLen = 16

// Sum computes the content hash of an entry: the SHA-256 digest of its
// canonical JSON serialization (keys sorted, no incidental whitespace),
// truncated to HashLen hex characters. Two entries with identical content
// hash identically regardless of key insertion order.
//
// Hashing intentionally uses the standard-library encoder: the canonical
// form is a compatibility boundary for persisted stores, so it must not
// change when the configured codec does.
func Sum(e Entry) (string, error) {
	data, err := json.Marshal(map[string]any(e))
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:HashLen], nil
}
