package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Methods and headers used by the goal and auth routes.
const (
	corsAllowMethods  = "GET, POST, PUT, DELETE, OPTIONS"
	corsAllowHeaders  = "Authorization, Content-Type, X-Request-ID"
	corsExposeHeaders = "X-Request-ID, Retry-After, X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset"
)

// CORSConfig controls which browser origins may call the API.
type CORSConfig struct {
	// Origins holds exact origins ("https://app.example.com"), subdomain
	// patterns ("*.example.com" or "https://*.example.com"), or "*".
	// "*" is ignored when AllowCredentials is set.
	Origins []string

	AllowCredentials bool

	// MaxAge is how long browsers may cache a preflight answer.
	MaxAge time.Duration
}

// CORS answers preflight requests and tags allowed cross-origin responses.
// Requests from origins that are not allowed get no CORS headers, so the
// browser withholds the response from the calling page.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	match := newOriginMatcher(cfg.Origins, cfg.AllowCredentials)
	maxAge := ""
	if cfg.MaxAge > 0 {
		maxAge = strconv.Itoa(int(cfg.MaxAge.Seconds()))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Add("Vary", "Origin")
			preflight := r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""

			if !match.allows(origin) {
				if preflight {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			h.Set("Access-Control-Allow-Origin", origin)
			if cfg.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}

			if !preflight {
				h.Set("Access-Control-Expose-Headers", corsExposeHeaders)
				next.ServeHTTP(w, r)
				return
			}

			h.Set("Access-Control-Allow-Methods", corsAllowMethods)
			h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			if maxAge != "" {
				h.Set("Access-Control-Max-Age", maxAge)
			}
			w.WriteHeader(http.StatusNoContent)
		})
	}
}

// subdomainRule matches hosts ending in suffix (which starts with a dot).
// An empty scheme matches any scheme.
type subdomainRule struct {
	scheme string
	suffix string
}

type originMatcher struct {
	any        bool
	exact      map[string]struct{}
	subdomains []subdomainRule
}

func newOriginMatcher(origins []string, credentials bool) originMatcher {
	m := originMatcher{exact: make(map[string]struct{}, len(origins))}
	for _, o := range origins {
		o = strings.ToLower(strings.TrimSpace(o))
		switch {
		case o == "*":
			m.any = !credentials
		case strings.HasPrefix(o, "*."):
			m.subdomains = append(m.subdomains, subdomainRule{suffix: o[1:]})
		case strings.Contains(o, "://*."):
			scheme, host, _ := strings.Cut(o, "://")
			m.subdomains = append(m.subdomains, subdomainRule{scheme: scheme, suffix: host[1:]})
		case o != "":
			m.exact[o] = struct{}{}
		}
	}
	return m
}

func (m originMatcher) allows(origin string) bool {
	if m.any {
		return true
	}
	origin = strings.ToLower(origin)
	if _, ok := m.exact[origin]; ok {
		return true
	}

	scheme, host, ok := strings.Cut(origin, "://")
	if !ok || scheme == "" {
		return false
	}
	for _, rule := range m.subdomains {
		if rule.scheme != "" && rule.scheme != scheme {
			continue
		}
		sub, found := strings.CutSuffix(host, rule.suffix)
		if found && sub != "" && !strings.HasSuffix(sub, ".") && !strings.ContainsAny(sub, "/@:") {
			return true
		}
	}
	return false
}
