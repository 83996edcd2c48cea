package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey returns "prefix:" followed by the SHA-256 of the JSON encoding of
// parts. Parts JSON cannot encode (NaN floats) are hashed in %v form.
func hashKey(prefix string, parts ...any) string {
	h, err := HashJSON(parts)
	if err != nil {
		h = Hash([]byte(fmt.Sprintf("%v", parts)))
	}
	return prefix + ":" + h
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashJSON returns the hex SHA-256 of the JSON encoding of v. Map keys are
// encoded in sorted order, so equal values hash equally.
func HashJSON(v any) (string, error) {
	h := sha256.New()
	if err := json.NewEncoder(h).Encode(v); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
