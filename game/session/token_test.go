package session

import "testing"

func TestGenerate_TokenFormat(t *testing.T) {
	gen := NewTokenGenerator()

	for i := 0; i < 100; i++ {
		token := gen.Generate()
		if len(token) != TokenLength {
			t.Fatalf("Expected %d chars, got %d (%q)", TokenLength, len(token), token)
		}
		if !IsWellFormedToken(token) {
			t.Fatalf("Generated token is not well-formed: %q", token)
		}
	}
}

func TestGenerate_TokensAreDistinct(t *testing.T) {
	gen := NewTokenGenerator()

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		token := gen.Generate()
		if seen[token] {
			t.Fatalf("Duplicate token after %d generations: %q", i, token)
		}
		seen[token] = true
	}
}

func TestIsWellFormedToken(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"6516861d89ebfff147bf2eb2b5153ae1", true},
		{"00000000000000000000000000000000", true},
		{"ffffffffffffffffffffffffffffffff", true},
		{"", false},
		{"6516861d89ebfff147bf2eb2b5153ae", false},   // too short
		{"6516861d89ebfff147bf2eb2b5153ae12", false}, // too long
		{"6516861D89EBFFF147BF2EB2B5153AE1", false},  // uppercase
		{"6516861d89ebfff147bf2eb2b5153ag1", false},  // non-hex char
		{"6516861d 9ebfff147bf2eb2b5153ae1", false},  // space
	}
	for _, tt := range tests {
		if got := IsWellFormedToken(tt.token); got != tt.want {
			t.Errorf("IsWellFormedToken(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}
