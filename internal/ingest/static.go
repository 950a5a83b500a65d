package ingest

import (
	"net/url"
	"sort"

	"github.com/PentesterFlow/AppAtlas/internal/logger"
	"github.com/PentesterFlow/AppAtlas/internal/normalize"
)

// NamedTool pairs a static scanner's name with its raw output.
type NamedTool struct {
	Name   string
	Result *ToolResult
}

// MergeTools unifies raw static scanner outputs into one StaticResult.
// URLs are normalized and deduplicated across tools; each surviving URL
// records which tools reported it, its extracted path parameters, and a
// placeholder-rewritten form. Domains, endpoints, secrets, permissions,
// and certificates are unioned across tools. Unparsable URLs are skipped.
func MergeTools(extractor *normalize.Extractor, tools ...NamedTool) *StaticResult {
	result := &StaticResult{
		URLs:         []StaticURL{},
		Domains:      []string{},
		Endpoints:    []string{},
		Secrets:      []string{},
		Permissions:  []string{},
		Certificates: []map[string]interface{}{},
	}

	log := logger.Global().WithComponent("ingest")

	totalURLs := 0
	for _, tool := range tools {
		if tool.Result != nil {
			totalURLs += len(tool.Result.URLs)
		}
	}

	dedup := NewDeduplicator(totalURLs)
	byNormalized := make(map[string]int) // normalized URL -> index in result.URLs

	domains := make(map[string]struct{})
	endpoints := make(map[string]struct{})
	secretsSeen := make(map[string]struct{})
	permsSeen := make(map[string]struct{})

	for _, tool := range tools {
		if tool.Result == nil {
			continue
		}

		for _, rawURL := range tool.Result.URLs {
			normalized, err := normalize.NormalizeURL(rawURL)
			if err != nil {
				log.SkipEvent(rawURL, err)
				continue
			}

			if dedup.Seen(normalized) {
				idx := byNormalized[normalized]
				result.URLs[idx].Sources = appendUnique(result.URLs[idx].Sources, tool.Name)
				continue
			}

			entry := StaticURL{
				URL:         normalized,
				OriginalURL: rawURL,
				Parameters:  []normalize.Parameter{},
				Sources:     []string{tool.Name},
			}

			if u, perr := url.Parse(normalized); perr == nil {
				path, params := extractor.ExtractFromPath(u.Path)
				entry.Parameters = params
				// url.URL.String would percent-escape the braces in
				// placeholders, so rebuild the URL by hand.
				if u.Scheme != "" && u.Host != "" {
					rebuilt := u.Scheme + "://" + u.Host + path
					if u.RawQuery != "" {
						rebuilt += "?" + u.RawQuery
					}
					entry.URL = rebuilt
				}
			}

			byNormalized[normalized] = len(result.URLs)
			result.URLs = append(result.URLs, entry)
		}

		for _, d := range tool.Result.Domains {
			domains[d] = struct{}{}
		}
		for _, e := range tool.Result.Endpoints {
			endpoints[e] = struct{}{}
		}
		for _, s := range tool.Result.Secrets {
			if _, seen := secretsSeen[s]; !seen {
				secretsSeen[s] = struct{}{}
				result.Secrets = append(result.Secrets, s)
			}
		}
		for _, p := range tool.Result.Permissions {
			if _, seen := permsSeen[p]; !seen {
				permsSeen[p] = struct{}{}
				result.Permissions = append(result.Permissions, p)
			}
		}
		result.Certificates = append(result.Certificates, tool.Result.Certificates...)
	}

	result.Domains = sortedKeys(domains)
	result.Endpoints = sortedKeys(endpoints)

	return result
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
