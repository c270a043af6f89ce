package hashing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintDeterministic(t *testing.T) {
	a := Fingerprint("2024-01-15", "-42.50", "TESCO STORES 3297")
	b := Fingerprint("2024-01-15", "-42.50", "TESCO STORES 3297")
	assert.Equal(t, a, b, "Same inputs must hash to the same fingerprint")
	assert.Len(t, a, 64, "Fingerprint should be a hex-encoded SHA-256")
}

func TestFingerprintNormalization(t *testing.T) {
	base := Fingerprint("2024-01-15", "-42.50", "TESCO STORES 3297")

	// Case and surrounding whitespace do not change the hash.
	assert.Equal(t, base, Fingerprint(" 2024-01-15 ", " -42.50 ", "  tesco stores 3297  "))

	// Internal whitespace does.
	assert.NotEqual(t, base, Fingerprint("2024-01-15", "-42.50", "TESCO  STORES 3297"))
}

func TestFingerprintSensitivity(t *testing.T) {
	base := Fingerprint("2024-01-15", "-42.50", "TESCO STORES 3297")

	assert.NotEqual(t, base, Fingerprint("2024-01-16", "-42.50", "TESCO STORES 3297"), "Date changes the hash")
	assert.NotEqual(t, base, Fingerprint("2024-01-15", "-42.51", "TESCO STORES 3297"), "Amount changes the hash")
	assert.NotEqual(t, base, Fingerprint("2024-01-15", "-42.50", "SAINSBURYS 1200"), "Description changes the hash")
}
