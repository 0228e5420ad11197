package ids

import (
	"crypto/rand"
	"math/big"
	"regexp"
)

const (
	// ShareCodePrefix starts every budget share code.
	ShareCodePrefix = "PF"
	shareCodeChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	shareCodeLength = 6
)

var shareCodeRegex = regexp.MustCompile(`^PF[A-Z0-9]{6}$`)

// NewShareCode generates a human-shareable budget code: "PF" followed by
// six upper-case alphanumeric characters.
func NewShareCode() string {
	result := make([]byte, shareCodeLength)
	max := big.NewInt(int64(len(shareCodeChars)))
	for i := range result {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand does not fail on supported platforms; keep the
			// code well-formed regardless.
			result[i] = shareCodeChars[i%len(shareCodeChars)]
			continue
		}
		result[i] = shareCodeChars[n.Int64()]
	}
	return ShareCodePrefix + string(result)
}

// NewUniqueShareCode draws codes until one is not present in taken.
func NewUniqueShareCode(taken map[string]bool) string {
	for {
		code := NewShareCode()
		if !taken[code] {
			return code
		}
	}
}

// IsShareCode reports whether s has the share code format.
func IsShareCode(s string) bool {
	return shareCodeRegex.MatchString(s)
}
