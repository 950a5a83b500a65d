// Package normalize canonicalizes URLs, derives endpoint signatures, and
// extracts identifier-like path parameters.
package normalize

import (
	"net/url"
	"strings"
)

// NormalizeURL standardizes a URL: lower-cased scheme and host, trailing
// dots stripped from the host, trailing slashes stripped from non-root
// paths. Query and fragment are preserved. The result is stable under
// repeated normalization.
func NormalizeURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.TrimRight(strings.ToLower(u.Host), ".")

	if u.Path != "" && u.Path != "/" {
		u.Path = strings.TrimRight(u.Path, "/")
		u.RawPath = ""
	}

	return u.String(), nil
}
