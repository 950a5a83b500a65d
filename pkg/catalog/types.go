package catalog

import (
	"github.com/PentesterFlow/AppAtlas/internal/normalize"
	"github.com/PentesterFlow/AppAtlas/internal/risk"
)

// Parameter is an identifier-like path segment extracted from a URL.
type Parameter = normalize.Parameter

// ParamType classifies an extracted parameter.
type ParamType = normalize.ParamType

// RiskLevel is an entry's risk classification.
type RiskLevel = risk.Level

// Source identifies which analysis stage produced an observation.
type Source string

// Observation sources.
const (
	SourceStatic    Source = "static"
	SourceDynamic   Source = "dynamic"
	SourceComponent Source = "component"
)

// Method values with special meaning.
const (
	MethodUnknown         = "UNKNOWN"
	MethodContentProvider = "CONTENT_PROVIDER"
)

// Observation is one raw URL/URI sighting from a single source. When
// Parameters is non-nil the observation is taken as pre-classified and
// path extraction is skipped in favor of placeholder substitution.
type Observation struct {
	URL        string      `json:"url"`
	Method     string      `json:"method"`
	Source     Source      `json:"source"`
	Parameters []Parameter `json:"parameters,omitempty"`
	Timestamp  float64     `json:"timestamp"`

	// OriginalURL is the raw sighting before any normalization; recorded
	// in the entry's original_urls set. Defaults to URL when empty.
	OriginalURL string `json:"original_url,omitempty"`
}

// Entry is the deduplicated, aggregated record for one canonical
// signature. Sources and OriginalURLs accrete duplicates during merging;
// Finalize collapses them into sets.
type Entry struct {
	Signature    string      `json:"signature"`
	Host         string      `json:"host"`
	Path         string      `json:"path"`
	Method       string      `json:"method"`
	Parameters   []Parameter `json:"parameters"`
	Sources      []string    `json:"sources"`
	OriginalURLs []string    `json:"original_urls"`
	RiskLevel    RiskLevel   `json:"risk_level"`
	FirstSeen    float64     `json:"first_seen"`
	LastSeen     float64     `json:"last_seen"`
	Frequency    int         `json:"frequency"`
}

// Metadata summarizes a finalized catalog.
type Metadata struct {
	GeneratedAt        float64        `json:"generated_at"`
	TotalEntries       int            `json:"total_entries"`
	RiskDistribution   map[string]int `json:"risk_distribution"`
	SourceDistribution map[string]int `json:"source_distribution"`
	MethodDistribution map[string]int `json:"method_distribution"`
}

// Catalog is the full set of endpoint entries plus side collections for
// one scan.
type Catalog struct {
	Metadata     Metadata                 `json:"metadata"`
	Entries      []*Entry                 `json:"entries"`
	Domains      []string                 `json:"domains"`
	Endpoints    []string                 `json:"endpoints"`
	Secrets      []string                 `json:"secrets"`
	Permissions  []string                 `json:"permissions"`
	Certificates []map[string]interface{} `json:"certificates"`
}

// Signatures returns the set of entry signatures in the catalog.
func (c *Catalog) Signatures() map[string]struct{} {
	sigs := make(map[string]struct{}, len(c.Entries))
	for _, e := range c.Entries {
		sigs[e.Signature] = struct{}{}
	}
	return sigs
}

// Lookup returns the entry with the given signature, or nil.
func (c *Catalog) Lookup(signature string) *Entry {
	for _, e := range c.Entries {
		if e.Signature == signature {
			return e
		}
	}
	return nil
}
