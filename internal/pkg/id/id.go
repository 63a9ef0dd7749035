package id

import (
	"crypto/rand"
	"strings"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs are lexicographically sortable
// by creation time and safe for use as DynamoDB partition keys.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// Short derives the human-facing application id from a record id: the
// first 8 characters, uppercased. Short enough to read back over the
// phone, unique enough within a hiring round.
func Short(recordID string) string {
	if len(recordID) < 8 {
		return strings.ToUpper(recordID)
	}
	return strings.ToUpper(recordID[:8])
}
