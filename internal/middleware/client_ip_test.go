package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveClientIP(t *testing.T) {
	t.Parallel()

	proxies := []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("2001:db8:ffff::/48"),
	}

	tests := []struct {
		name       string
		trusted    []netip.Prefix
		remoteAddr string
		xff        []string
		realIP     string
		want       string
	}{
		{name: "peer without proxies", remoteAddr: "192.0.2.1:1234", want: "192.0.2.1"},
		{name: "ipv6 peer", remoteAddr: "[2001:db8::1]:443", want: "2001:db8::1"},
		{name: "peer lacking port", remoteAddr: "192.0.2.9", want: "192.0.2.9"},
		{
			name:       "forwarded header from untrusted peer ignored",
			remoteAddr: "192.0.2.1:1234",
			xff:        []string{"203.0.113.5"},
			realIP:     "198.51.100.4",
			want:       "192.0.2.1",
		},
		{
			name:       "untrusted peer with proxies configured",
			trusted:    proxies,
			remoteAddr: "192.0.2.1:1234",
			xff:        []string{"203.0.113.5"},
			want:       "192.0.2.1",
		},
		{
			name:       "trusted proxy forwards client",
			trusted:    proxies,
			remoteAddr: "10.0.0.1:80",
			xff:        []string{"203.0.113.5"},
			want:       "203.0.113.5",
		},
		{
			name:       "spoofed leftmost hop skipped",
			trusted:    proxies,
			remoteAddr: "10.0.0.1:80",
			xff:        []string{"1.2.3.4, 203.0.113.5, 10.0.0.2"},
			want:       "203.0.113.5",
		},
		{
			name:       "repeated headers are one list",
			trusted:    proxies,
			remoteAddr: "10.0.0.1:80",
			xff:        []string{"1.2.3.4", "203.0.113.5"},
			want:       "203.0.113.5",
		},
		{
			name:       "garbage hop falls back to peer",
			trusted:    proxies,
			remoteAddr: "10.0.0.1:80",
			xff:        []string{"203.0.113.5, not-an-ip"},
			want:       "10.0.0.1",
		},
		{
			name:       "real ip header from trusted proxy",
			trusted:    proxies,
			remoteAddr: "10.0.0.1:80",
			realIP:     " 198.51.100.4 ",
			want:       "198.51.100.4",
		},
		{
			name:       "ipv6 proxy",
			trusted:    proxies,
			remoteAddr: "[2001:db8:ffff::7]:443",
			xff:        []string{"2001:db8::42"},
			want:       "2001:db8::42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
			req.RemoteAddr = tt.remoteAddr
			for _, v := range tt.xff {
				req.Header.Add("X-Forwarded-For", v)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			assert.Equal(t, tt.want, resolveClientIP(req, tt.trusted))
		})
	}
}

func TestClientIP_RewritesRemoteAddr(t *testing.T) {
	t.Parallel()

	var seen string
	handler := ClientIP([]netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = getClientIP(r)
	}))

	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.RemoteAddr = "10.0.0.1:80"
	req.Header.Set("X-Forwarded-For", "203.0.113.5")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "203.0.113.5", seen)
}
