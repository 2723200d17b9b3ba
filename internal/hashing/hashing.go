package hashing

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"
)

// HexDigestLen is the length of a content hash including the 0x prefix.
const HexDigestLen = 2 + 64

// Keccak256 returns the raw Keccak-256 digest of data.
func Keccak256(data []byte) []byte {
	hash := sha3.NewLegacyKeccak256()
	// the sponge writer never fails
	hash.Write(data)
	return hash.Sum(nil)
}

// Calculate returns the content hash of data: the Keccak-256 digest as
// 0x-prefixed lowercase hex. One hash function is used for the whole
// system, never mixed per document.
func Calculate(data []byte) string {
	return "0x" + hex.EncodeToString(Keccak256(data))
}

func CalculateFromStr(data string) string {
	return Calculate([]byte(data))
}

// Equal compares two hex digests, tolerating a missing 0x prefix and
// mixed case on either side.
func Equal(a, b string) bool {
	return strings.EqualFold(strip0x(a), strip0x(b))
}

func strip0x(digest string) string {
	if strings.HasPrefix(digest, "0x") || strings.HasPrefix(digest, "0X") {
		return digest[2:]
	}
	return digest
}
