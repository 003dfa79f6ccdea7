// Package hashutil computes the content fingerprints the indexer uses to
// detect changed files.
package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash is a SHA-256 content fingerprint.
type Hash [sha256.Size]byte

// Hex returns the lowercase hex encoding of the hash, the form stored as
// content_hash in the vector store.
func (h Hash) Hex() string {
	return hex.EncodeToString(h[:])
}

// Content computes the SHA-256 fingerprint of raw file bytes. No text
// normalization is applied; the hash exists purely as a change detector.
func Content(data []byte) Hash {
	return sha256.Sum256(data)
}

// ContentHex is a convenience wrapper returning the hex digest directly.
func ContentHex(data []byte) string {
	h := Content(data)
	return h.Hex()
}
