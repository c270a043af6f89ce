package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	entryDate := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2024, 3, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(entryDate, createdAt)
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedDate, decodedCreatedAt, err := DecodeToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, entryDate, decodedDate, "Entry date should match after decode")
	assert.Equal(t, createdAt, decodedCreatedAt, "Created at time should match after decode")
}

func TestDecodeTokenError(t *testing.T) {
	// Not base64 at all
	_, _, err := DecodeToken("not-valid-base64!!!")
	assert.Error(t, err)

	// Valid base64 but no separator
	_, _, err = DecodeToken(base64.StdEncoding.EncodeToString([]byte("no-separator")))
	assert.Error(t, err)

	// Valid shape but garbage timestamps
	_, _, err = DecodeToken(base64.StdEncoding.EncodeToString([]byte("garbage|more-garbage")))
	assert.Error(t, err)
}
