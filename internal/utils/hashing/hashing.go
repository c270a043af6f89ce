package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint computes the deterministic duplicate-detection hash for a
// transaction: SHA-256 over "date|amount|description" with the date and
// amount trimmed and the description trimmed and lowercased. Scoping to an
// account happens at the uniqueness constraint, not in the hash.
func Fingerprint(date, amount, description string) string {
	normalized := strings.TrimSpace(date) + "|" + strings.TrimSpace(amount) + "|" + strings.ToLower(strings.TrimSpace(description))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
