// Package normalize turns raw URLs into curated lookup keys.
package normalize

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"

	"qrsafe/internal/domain"
)

// Normalize lower-cases raw, drops one leading http:// or https:// and one
// trailing slash. It accepts any string and never fails. It is idempotent
// except for input that still carries a second scheme or slash after one
// pass, such as "example.com//" or "https://http://x".
func Normalize(raw string) domain.NormalizedURL {
	key := strings.ToLower(raw)
	switch {
	case strings.HasPrefix(key, "https://"):
		key = key[len("https://"):]
	case strings.HasPrefix(key, "http://"):
		key = key[len("http://"):]
	}
	key = strings.TrimSuffix(key, "/")
	return domain.NormalizedURL(key)
}

// RegistrableDomain returns the eTLD+1 of the URL host, the bare host when no
// public suffix applies, or "" when no host can be found.
func RegistrableDomain(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return ""
	}
	if net.ParseIP(host) != nil {
		return host
	}
	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return registrable
}
