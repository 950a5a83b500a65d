// Package report renders human-readable summaries of catalogs and diffs.
package report

import (
	"fmt"
	"io"
	"net"
	"sort"

	"golang.org/x/net/publicsuffix"

	"github.com/PentesterFlow/AppAtlas/pkg/catalog"
)

// RegisteredDomains groups entry hosts by registered domain (eTLD+1) and
// counts entries per group. Content provider URIs are skipped; hosts that
// fail public suffix resolution are grouped under themselves.
func RegisteredDomains(cat *catalog.Catalog) map[string]int {
	groups := make(map[string]int)

	for _, entry := range cat.Entries {
		if entry.Method == catalog.MethodContentProvider {
			continue
		}

		host := entry.Host
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}
		if host == "" {
			continue
		}

		domain, err := publicsuffix.EffectiveTLDPlusOne(host)
		if err != nil {
			domain = host
		}
		groups[domain]++
	}

	return groups
}

// WriteCatalogSummary prints a catalog overview.
func WriteCatalogSummary(w io.Writer, cat *catalog.Catalog) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Catalog Summary")
	fmt.Fprintln(w, "---------------")
	fmt.Fprintf(w, "Entries:      %d\n", cat.Metadata.TotalEntries)
	fmt.Fprintf(w, "Domains:      %d\n", len(cat.Domains))
	fmt.Fprintf(w, "Endpoints:    %d\n", len(cat.Endpoints))
	fmt.Fprintf(w, "Secrets:      %d\n", len(cat.Secrets))
	fmt.Fprintf(w, "Permissions:  %d\n", len(cat.Permissions))
	fmt.Fprintln(w)

	writeDistribution(w, "Risk distribution", cat.Metadata.RiskDistribution)
	writeDistribution(w, "Source distribution", cat.Metadata.SourceDistribution)
	writeDistribution(w, "Method distribution", cat.Metadata.MethodDistribution)

	if domains := RegisteredDomains(cat); len(domains) > 0 {
		writeDistribution(w, "Registered domains", domains)
	}

	writeHighRisk(w, cat)
}

// WriteDiffSummary prints a catalog comparison overview.
func WriteDiffSummary(w io.Writer, diff *catalog.DiffResult) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Catalog Comparison")
	fmt.Fprintln(w, "------------------")
	fmt.Fprintf(w, "Added:      %d\n", diff.Summary.AddedCount)
	fmt.Fprintf(w, "Removed:    %d\n", diff.Summary.RemovedCount)
	fmt.Fprintf(w, "Unchanged:  %d\n", diff.Summary.UnchangedCount)
	fmt.Fprintln(w)

	writeSignatureList(w, "Added endpoints", diff.Added)
	writeSignatureList(w, "Removed endpoints", diff.Removed)
}

func writeDistribution(w io.Writer, title string, dist map[string]int) {
	if len(dist) == 0 {
		return
	}

	keys := make([]string, 0, len(dist))
	for k := range dist {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(w, "%s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-20s %d\n", k, dist[k])
	}
	fmt.Fprintln(w)
}

func writeHighRisk(w io.Writer, cat *catalog.Catalog) {
	var high []*catalog.Entry
	for _, entry := range cat.Entries {
		if entry.RiskLevel == "HIGH" {
			high = append(high, entry)
		}
	}
	if len(high) == 0 {
		return
	}

	fmt.Fprintln(w, "High-risk endpoints:")
	limit := 10
	if len(high) < limit {
		limit = len(high)
	}
	for i := 0; i < limit; i++ {
		fmt.Fprintf(w, "  [%s] %s\n", high[i].Method, high[i].Signature)
	}
	if len(high) > limit {
		fmt.Fprintf(w, "  ... and %d more\n", len(high)-limit)
	}
	fmt.Fprintln(w)
}

func writeSignatureList(w io.Writer, title string, signatures []string) {
	if len(signatures) == 0 {
		return
	}

	fmt.Fprintf(w, "%s:\n", title)
	limit := 15
	if len(signatures) < limit {
		limit = len(signatures)
	}
	for i := 0; i < limit; i++ {
		fmt.Fprintf(w, "  %s\n", signatures[i])
	}
	if len(signatures) > limit {
		fmt.Fprintf(w, "  ... and %d more\n", len(signatures)-limit)
	}
	fmt.Fprintln(w)
}
