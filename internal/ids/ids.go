// Package ids generates record identifiers and budget share codes.
package ids

import (
	"crypto/rand"
	"encoding/binary"
	"strings"
	"time"

	googleuuid "github.com/google/uuid"
)

// emailNamespace scopes email-derived ids so they never collide with ids
// derived from other name spaces.
var emailNamespace = googleuuid.MustParse("6f1c5c3e-3a52-4e55-9a7a-4b1f2f6b9d10")

// New generates a new UUIDv7 based on the current timestamp.
// UUIDv7 is time-ordered and suitable for use as database primary keys.
//
// Format (RFC 9562):
// - 48 bits: Unix timestamp in milliseconds
// - 4 bits: version (0111 = 7)
// - 12 bits: random data
// - 2 bits: variant (10)
// - 62 bits: random data
func New() string {
	var id [16]byte

	timestamp := uint64(time.Now().UnixMilli())
	binary.BigEndian.PutUint64(id[0:8], timestamp<<16)

	if _, err := rand.Read(id[6:]); err != nil {
		return googleuuid.New().String()
	}

	id[6] = (id[6] & 0x0f) | 0x70
	id[8] = (id[8] & 0x3f) | 0x80

	return googleuuid.UUID(id).String()
}

// FromEmail returns a stable id for an email address. The same address
// (case-insensitive, surrounding spaces ignored) always yields the same id,
// which lets a user keep their local data when no remote session exists.
func FromEmail(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	return googleuuid.NewSHA1(emailNamespace, []byte(normalized)).String()
}

// IsValid checks if a string is a valid UUID
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
