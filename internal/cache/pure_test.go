package cache

import (
	"strings"
	"testing"
)

func TestHashIP_Deterministic(t *testing.T) {
	t.Parallel()

	ip := "192.168.1.100"
	if hashIP(ip) != hashIP(ip) {
		t.Error("Same IP should produce same hash")
	}
}

func TestHashIP_Length(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ip   string
	}{
		{"IPv4", "192.168.1.1"},
		{"IPv6 localhost", "::1"},
		{"IPv6 full", "2001:0db8:85a3:0000:0000:8a2e:0370:7334"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if hash := hashIP(tt.ip); len(hash) != 16 {
				t.Errorf("hashIP(%q) length = %d, want 16", tt.ip, len(hash))
			}
		})
	}
}

func TestHashIP_Different(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ip1  string
		ip2  string
	}{
		{"different IPv4", "192.168.1.1", "192.168.1.2"},
		{"IPv4 vs IPv6", "127.0.0.1", "::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if hashIP(tt.ip1) == hashIP(tt.ip2) {
				t.Errorf("Different IPs should produce different hashes: %q and %q", tt.ip1, tt.ip2)
			}
		})
	}
}

func TestHashIP_DoesNotLeakAddress(t *testing.T) {
	t.Parallel()

	if strings.Contains(hashIP("10.1.2.3"), "10.1.2.3") {
		t.Error("hash should not contain the raw address")
	}
}

func TestUserKey(t *testing.T) {
	t.Parallel()

	if got := userKey("01HZX"); got != "auth:user:01HZX" {
		t.Errorf("userKey = %q, want %q", got, "auth:user:01HZX")
	}
}

func TestRevokedKey(t *testing.T) {
	t.Parallel()

	if got := revokedKey("01HZX"); got != "auth:revoked:01HZX" {
		t.Errorf("revokedKey = %q, want %q", got, "auth:revoked:01HZX")
	}
	if revokedKey("01HZX") == userKey("01HZX") {
		t.Error("revocation marker must not share the user key")
	}
}
