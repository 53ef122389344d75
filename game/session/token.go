package session

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// TokenLength is the exact length of a bearer token.
const TokenLength = 32

// TokenGenerator produces opaque bearer tokens: two crypto-random
// 64-bit values, each rendered as 16 zero-padded lowercase hex digits.
// Collisions are statistically negligible; no registry check is made.
type TokenGenerator struct{}

// NewTokenGenerator creates a token generator.
func NewTokenGenerator() *TokenGenerator {
	return &TokenGenerator{}
}

// Generate returns a fresh 32-character lowercase hex token.
func (g *TokenGenerator) Generate() string {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand never fails on supported platforms.
		panic(fmt.Sprintf("session: token entropy unavailable: %v", err))
	}
	hi := binary.BigEndian.Uint64(buf[:8])
	lo := binary.BigEndian.Uint64(buf[8:])
	return fmt.Sprintf("%016x%016x", hi, lo)
}

// IsWellFormedToken reports whether s looks like a token: exactly 32
// lowercase hex characters. Tokens that fail this never reach the
// registry lookup.
func IsWellFormedToken(s string) bool {
	if len(s) != TokenLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
