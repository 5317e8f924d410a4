package agenttoken

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

// Token values are bit-exact compatible with the enrolled fleet:
// LANET- followed by three dash-separated uppercase alphanumeric groups.
const tokenPrefix = "LANET"

var tokenValuePattern = regexp.MustCompile(`^LANET-[A-Z0-9]+-[A-Z0-9]+-[A-Z0-9]+$`)

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var tokenSegmentLengths = []int{4, 4, 6}

// IsValidTokenValue reports whether s matches the canonical token format.
func IsValidTokenValue(s string) bool {
	return tokenValuePattern.MatchString(s)
}

// GenerateTokenValue mints a fresh token value in the canonical format
// using a cryptographically secure source.
func GenerateTokenValue() (string, error) {
	segments := make([]string, 0, len(tokenSegmentLengths))
	for _, length := range tokenSegmentLengths {
		segment, err := randomSegment(length)
		if err != nil {
			return "", fmt.Errorf("failed to generate token segment: %w", err)
		}
		segments = append(segments, segment)
	}
	return tokenPrefix + "-" + strings.Join(segments, "-"), nil
}

func randomSegment(length int) (string, error) {
	result := make([]byte, length)
	alphabetLen := big.NewInt(int64(len(tokenAlphabet)))

	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", err
		}
		result[i] = tokenAlphabet[num.Int64()]
	}

	return string(result), nil
}

// MaskTokenValue hides all but the last segment for list views and logs.
func MaskTokenValue(value string) string {
	if !IsValidTokenValue(value) {
		return "****"
	}
	parts := strings.Split(value, "-")
	last := parts[len(parts)-1]
	return tokenPrefix + "-****-****-" + last
}
