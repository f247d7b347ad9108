package util

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex
)

// NewULID generates a new ULID string.
// ULIDs sort by creation time, so generated row keys keep insertion order.
func NewULID() string {
	entropyLock.Lock()
	defer entropyLock.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// NewID returns "<prefix>-<short id>" for element IDs.
func NewID(prefix string) string {
	return prefix + "-" + ShortID(NewULID())
}

// ValidateULID checks if a string is a valid ULID.
func ValidateULID(s string) bool {
	_, err := ulid.Parse(s)
	return err == nil
}

// ShortID returns the last 9 characters of an ID in lowercase.
// The tail of a ULID is its random part; the head is the timestamp.
func ShortID(id string) string {
	if len(id) <= 9 {
		return strings.ToLower(id)
	}
	return strings.ToLower(id[len(id)-9:])
}
