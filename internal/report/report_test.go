package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PentesterFlow/AppAtlas/pkg/catalog"
)

// =============================================================================
// RegisteredDomains Tests
// =============================================================================

func TestRegisteredDomains(t *testing.T) {
	cat := &catalog.Catalog{
		Entries: []*catalog.Entry{
			{Host: "api.example.com", Method: "GET"},
			{Host: "cdn.example.com", Method: "GET"},
			{Host: "api.example.com:8443", Method: "POST"},
			{Host: "shop.example.co.uk", Method: "GET"},
			{Host: "com.example.app.provider", Method: catalog.MethodContentProvider},
		},
	}

	groups := RegisteredDomains(cat)

	if groups["example.com"] != 3 {
		t.Errorf("example.com = %d, want 3 (subdomains and ports collapse)", groups["example.com"])
	}
	if groups["example.co.uk"] != 1 {
		t.Errorf("example.co.uk = %d, want 1", groups["example.co.uk"])
	}
	if _, ok := groups["com.example.app.provider"]; ok {
		t.Error("content provider entries should be skipped")
	}
}

func TestRegisteredDomains_UnresolvableHost(t *testing.T) {
	cat := &catalog.Catalog{
		Entries: []*catalog.Entry{
			{Host: "localhost", Method: "GET"},
			{Host: "localhost", Method: "POST"},
		},
	}

	groups := RegisteredDomains(cat)
	if groups["localhost"] != 2 {
		t.Errorf("localhost = %d, want 2 (fallback to the host itself)", groups["localhost"])
	}
}

func TestRegisteredDomains_IPv6Host(t *testing.T) {
	cat := &catalog.Catalog{
		Entries: []*catalog.Entry{
			{Host: "[::1]:8080", Method: "GET"},
			{Host: "[2001:db8::1]:443", Method: "GET"},
		},
	}

	groups := RegisteredDomains(cat)
	if groups["::1"] != 1 {
		t.Errorf("::1 = %d, want 1 (bracketed port stripped)", groups["::1"])
	}
	if groups["2001:db8::1"] != 1 {
		t.Errorf("2001:db8::1 = %d, want 1", groups["2001:db8::1"])
	}
	for k := range groups {
		if k == "[::1" || k == "[2001:db8::1]:443" {
			t.Errorf("unexpected mangled group %q", k)
		}
	}
}

func TestRegisteredDomains_Empty(t *testing.T) {
	groups := RegisteredDomains(&catalog.Catalog{Entries: []*catalog.Entry{}})
	if len(groups) != 0 {
		t.Errorf("groups = %v, want empty", groups)
	}
}

// =============================================================================
// Summary Writer Tests
// =============================================================================

func TestWriteCatalogSummary(t *testing.T) {
	cat := &catalog.Catalog{
		Metadata: catalog.Metadata{
			TotalEntries:       2,
			RiskDistribution:   map[string]int{"HIGH": 1, "LOW": 1},
			SourceDistribution: map[string]int{"dynamic": 2},
			MethodDistribution: map[string]int{"POST": 1, "GET": 1},
		},
		Entries: []*catalog.Entry{
			{Signature: "api.example.com/v1/login", Host: "api.example.com", Method: "POST", RiskLevel: "HIGH"},
			{Signature: "api.example.com/v1/items", Host: "api.example.com", Method: "GET", RiskLevel: "LOW"},
		},
	}

	var buf bytes.Buffer
	WriteCatalogSummary(&buf, cat)
	out := buf.String()

	for _, want := range []string{
		"Catalog Summary",
		"HIGH",
		"api.example.com/v1/login",
		"example.com",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "api.example.com/v1/items") {
		t.Errorf("low risk entry should not appear in the high risk list:\n%s", out)
	}
}

func TestWriteDiffSummary(t *testing.T) {
	diff := &catalog.DiffResult{
		Added:     []string{"api.example.com/v2/users/{id}"},
		Removed:   []string{"api.example.com/v1/users/{id}"},
		Unchanged: []string{"api.example.com/v1/login"},
		Summary: catalog.DiffSummary{
			AddedCount:     1,
			RemovedCount:   1,
			UnchangedCount: 1,
		},
	}

	var buf bytes.Buffer
	WriteDiffSummary(&buf, diff)
	out := buf.String()

	for _, want := range []string{
		"api.example.com/v2/users/{id}",
		"api.example.com/v1/users/{id}",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("diff summary missing %q:\n%s", want, out)
		}
	}
}
