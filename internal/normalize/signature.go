package normalize

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildSignature derives the canonical dedup key for an endpoint from its
// host and path. The host is lower-cased with trailing dots stripped; a
// trailing slash is stripped from the path unless the path is exactly "/".
// Scheme, query, and fragment never contribute, so URLs differing only in
// those collapse to the same signature.
func BuildSignature(host, path string) string {
	host = strings.TrimRight(strings.ToLower(host), ".")
	if path != "" && path != "/" {
		path = strings.TrimRight(path, "/")
	}
	return host + path
}

// Signature parses a URL (raw or already path-normalized) and returns its
// canonical signature. An unparsable URL, or one with neither host nor
// path, yields an error.
func Signature(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	sig := BuildSignature(u.Host, u.Path)
	if sig == "" {
		return "", fmt.Errorf("no host or path in %q", rawURL)
	}

	return sig, nil
}

// CanonicalHost returns the signature form of a host.
func CanonicalHost(host string) string {
	return strings.TrimRight(strings.ToLower(host), ".")
}
