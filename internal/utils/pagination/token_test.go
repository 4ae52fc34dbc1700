package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	entryDate := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)

	token := EncodeToken(entryDate, 42)
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedDate, decodedSeq, err := DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, entryDate.Equal(decodedDate), "Entry date should match after decode")
	assert.Equal(t, int64(42), decodedSeq)
}

func TestDecodeTokenError(t *testing.T) {
	_, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	noSeparator := base64.StdEncoding.EncodeToString([]byte("2025-04-10"))
	_, _, err = DecodeToken(noSeparator)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	badDate := base64.StdEncoding.EncodeToString([]byte("notadate|3"))
	_, _, err = DecodeToken(badDate)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "entry date parse")

	badSeq := base64.StdEncoding.EncodeToString([]byte("2025-04-10|three"))
	_, _, err = DecodeToken(badSeq)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "chain seq parse")
}

func TestAfter(t *testing.T) {
	d := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)

	assert.True(t, After(d, 4, d, 5), "same date, lower seq comes later")
	assert.False(t, After(d, 6, d, 5))
	assert.False(t, After(d, 5, d, 5))
	assert.True(t, After(d.AddDate(0, 0, -1), 99, d, 5), "older date comes later")
	assert.False(t, After(d.AddDate(0, 0, 1), 1, d, 5))
}
