package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateFormat = "2006-01-02"

// EncodeToken creates a base64 encoded cursor from the last entry's date and chain position.
// Entries are listed newest date first with the chain sequence as the tie-breaker.
func EncodeToken(entryDate time.Time, chainSeq int64) string {
	tokenStr := fmt.Sprintf("%s|%d", entryDate.Format(dateFormat), chainSeq)
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses the base64 encoded cursor back into entry date and chain sequence.
func DecodeToken(token string) (time.Time, int64, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (split)")
	}

	entryDate, err := time.Parse(dateFormat, parts[0])
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (entry date parse): %w", err)
	}
	chainSeq, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (chain seq parse): %w", err)
	}
	return entryDate, chainSeq, nil
}

// After reports whether an entry at (date, seq) comes after the cursor in listing order.
func After(date time.Time, seq int64, cursorDate time.Time, cursorSeq int64) bool {
	if date.Equal(cursorDate) {
		return seq < cursorSeq
	}
	return date.Before(cursorDate)
}
