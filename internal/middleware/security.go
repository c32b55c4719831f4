// internal/middleware/security.go
//
// Security-header middleware.
//
// Injects industry-standard headers on every response:
//
//   • Strict-Transport-Security  –  forces HTTPS (2 years + preload)
//   • Content-Security-Policy    –  self-only, plus the carrier CDN hosts
//   • X-Frame-Options            –  click-jacking defence
//   • X-Content-Type-Options     –  MIME-sniffing defence
//   • Referrer-Policy            –  drops path/query from Referer
//
// Notes
// -----
// • The picker's scripts and stylesheet come from the carrier's CDN, so
//   their origins must be whitelisted in script-src and style-src or the
//   browser refuses the very resources the coordinator injects.
// • Headers never overwrite a value a handler already set.
// • Oxford commas, two spaces after periods.

package middleware

import (
	"net/http"
	"net/url"
	"strings"
)

// Security returns a middleware whose CSP whitelists the given external
// script/style URLs (only their origins are used).
func Security(assetURLs ...string) func(http.Handler) http.Handler {
	origins := assetOrigins(assetURLs)

	scriptSrc := "script-src 'self'"
	styleSrc := "style-src 'self' 'unsafe-inline'"
	if origins != "" {
		scriptSrc += " " + origins
		styleSrc += " " + origins
	}
	csp := strings.Join([]string{
		"default-src 'self'",
		scriptSrc,
		styleSrc,
		"img-src 'self' data: " + origins,
		"connect-src 'self' " + origins,
	}, "; ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			setIfEmpty(h, "Strict-Transport-Security", "max-age=63072000; includeSubDomains; preload")
			setIfEmpty(h, "Content-Security-Policy", csp)
			setIfEmpty(h, "X-Frame-Options", "DENY")
			setIfEmpty(h, "X-Content-Type-Options", "nosniff")
			setIfEmpty(h, "Referrer-Policy", "strict-origin-when-cross-origin")
			next.ServeHTTP(w, r)
		})
	}
}

func setIfEmpty(h http.Header, key, val string) {
	if h.Get(key) == "" {
		h.Set(key, val)
	}
}

// assetOrigins reduces full asset URLs to a space-joined, deduplicated
// origin list.
func assetOrigins(urls []string) string {
	seen := map[string]struct{}{}
	var out []string
	for _, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			continue
		}
		origin := u.Scheme + "://" + u.Host
		if _, dup := seen[origin]; dup {
			continue
		}
		seen[origin] = struct{}{}
		out = append(out, origin)
	}
	return strings.Join(out, " ")
}
