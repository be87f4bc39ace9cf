// Package sha256 provides SHA-256 fingerprinting for captured page content.
package sha256

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Hasher implements capture.Hasher using SHA-256.
type Hasher struct{}

// New returns a SHA-256 hasher.
func New() *Hasher {
	return &Hasher{}
}

// Hash returns the hex digest of data. Empty input is rejected because a
// fingerprint over zero bytes never identifies a real page.
func (h *Hasher) Hash(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("hash empty payload")
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
