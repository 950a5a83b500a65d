// Package catalog aggregates endpoint observations from static, dynamic,
// and component analysis into a deduplicated, risk-annotated catalog.
package catalog

import (
	"fmt"
	"net/url"
	"sort"
	"sync"
	"time"

	merrors "github.com/PentesterFlow/AppAtlas/internal/errors"
	"github.com/PentesterFlow/AppAtlas/internal/logger"
	"github.com/PentesterFlow/AppAtlas/internal/normalize"
	"github.com/PentesterFlow/AppAtlas/internal/risk"
)

// Engine folds observations into a catalog keyed by signature. It owns
// the catalog for the duration of one scan; concurrent Ingest calls are
// serialized by a whole-catalog lock.
type Engine struct {
	mu sync.Mutex

	config     *Config
	logger     *logger.Logger
	extractor  *normalize.Extractor
	classifier *risk.Classifier
	now        func() time.Time

	entries map[string]*Entry
	order   []string // signatures in first-seen order

	domains      map[string]struct{}
	endpoints    map[string]struct{}
	secrets      []string
	permissions  []string
	certificates []map[string]interface{}

	observations int
	skipped      int
	finalized    bool
}

// Stats reports merge progress counters.
type Stats struct {
	Observations int
	Skipped      int
	Entries      int
}

// New creates an engine with the given options.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		config:    DefaultConfig(),
		now:       time.Now,
		entries:   make(map[string]*Entry),
		domains:   make(map[string]struct{}),
		endpoints: make(map[string]struct{}),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	if err := e.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if e.logger == nil {
		level := logger.InfoLevel
		if e.config.Debug {
			level = logger.DebugLevel
		}
		e.logger = logger.New(logger.Config{
			Level:     level,
			Pretty:    true,
			Component: "engine",
		})
	}

	e.extractor = normalize.NewExtractor(e.config.ParamStoplist)
	e.classifier = risk.NewClassifier(e.config.RiskIndicators)

	return e, nil
}

// Ingest folds one observation into the catalog and returns the
// signature it mapped to. A malformed URL yields an error and is
// otherwise ignored; it never aborts the merge.
func (e *Engine) Ingest(obs Observation) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.finalized {
		return "", fmt.Errorf("catalog already finalized")
	}

	e.observations++

	u, err := url.Parse(obs.URL)
	if err != nil {
		e.skipped++
		mapErr := merrors.NewMalformedURL(obs.URL, err)
		e.logger.SkipEvent(obs.URL, mapErr)
		return "", mapErr
	}

	var (
		path   string
		params []Parameter
	)
	if obs.Parameters != nil {
		// Pre-classified by the collaborator; substitute rather than
		// re-extract.
		params = obs.Parameters
		path = normalize.SubstitutePlaceholders(u.Path, params)
	} else {
		path, params = e.extractor.ExtractFromPath(u.Path)
	}

	signature := normalize.BuildSignature(u.Host, path)
	if signature == "" {
		e.skipped++
		mapErr := merrors.NewMalformedURL(obs.URL, fmt.Errorf("no host or path"))
		e.logger.SkipEvent(obs.URL, mapErr)
		return "", mapErr
	}

	method := obs.Method
	if method == "" {
		method = MethodUnknown
	}
	if obs.Source == SourceComponent {
		method = MethodContentProvider
	}

	timestamp := obs.Timestamp
	if timestamp == 0 {
		timestamp = float64(e.now().UnixNano()) / float64(time.Second)
	}

	originalURL := obs.OriginalURL
	if originalURL == "" {
		originalURL = obs.URL
	}

	level := e.classifier.Classify(obs.URL, params)

	entry, exists := e.entries[signature]
	if !exists {
		entry = &Entry{
			Signature:    signature,
			Host:         normalize.CanonicalHost(u.Host),
			Path:         path,
			Method:       method,
			Parameters:   append([]Parameter{}, params...),
			Sources:      []string{string(obs.Source)},
			OriginalURLs: []string{originalURL},
			RiskLevel:    level,
			FirstSeen:    timestamp,
			LastSeen:     timestamp,
			Frequency:    1,
		}
		e.entries[signature] = entry
		e.order = append(e.order, signature)
		e.logger.IngestEvent(signature, string(obs.Source), method, false)
		return signature, nil
	}

	entry.Sources = append(entry.Sources, string(obs.Source))
	entry.OriginalURLs = append(entry.OriginalURLs, originalURL)
	entry.Parameters = append(entry.Parameters, params...)
	if method != MethodUnknown {
		entry.Method = method
	}
	if timestamp > entry.LastSeen {
		entry.LastSeen = timestamp
	}
	entry.Frequency++
	// Risk never downgrades across merges.
	entry.RiskLevel = risk.Max(entry.RiskLevel, level)

	e.logger.IngestEvent(signature, string(obs.Source), entry.Method, true)
	return signature, nil
}

// AddDomains records domains reported by static analysis.
func (e *Engine) AddDomains(domains ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, d := range domains {
		e.domains[d] = struct{}{}
	}
}

// AddEndpoints records raw endpoint paths reported by static analysis.
func (e *Engine) AddEndpoints(endpoints ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, ep := range endpoints {
		e.endpoints[ep] = struct{}{}
	}
}

// AddSecrets records leaked secrets reported by static analysis.
func (e *Engine) AddSecrets(secrets ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.secrets = append(e.secrets, secrets...)
}

// AddPermissions records manifest permissions reported by static analysis.
func (e *Engine) AddPermissions(permissions ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.permissions = append(e.permissions, permissions...)
}

// AddCertificates records certificate details reported by static analysis.
func (e *Engine) AddCertificates(certificates ...map[string]interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.certificates = append(e.certificates, certificates...)
}

// Stats returns merge progress counters.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Stats{
		Observations: e.observations,
		Skipped:      e.skipped,
		Entries:      len(e.entries),
	}
}

// Finalize collapses the accreted source and URL lists into sets,
// computes catalog metadata, and returns the catalog. The engine accepts
// no further observations afterwards.
func (e *Engine) Finalize() (*Catalog, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.finalized {
		return nil, fmt.Errorf("catalog already finalized")
	}
	e.finalized = true

	entries := make([]*Entry, 0, len(e.order))
	riskDist := make(map[string]int)
	sourceDist := make(map[string]int)
	methodDist := make(map[string]int)

	for _, signature := range e.order {
		entry := e.entries[signature]
		entry.Sources = uniqueSorted(entry.Sources)
		entry.OriginalURLs = uniqueSorted(entry.OriginalURLs)
		entries = append(entries, entry)

		riskDist[string(entry.RiskLevel)]++
		methodDist[entry.Method]++
		for _, source := range entry.Sources {
			sourceDist[source]++
		}
	}

	certificates := e.certificates
	if certificates == nil {
		certificates = []map[string]interface{}{}
	}
	secrets := e.secrets
	if secrets == nil {
		secrets = []string{}
	}
	permissions := e.permissions
	if permissions == nil {
		permissions = []string{}
	}

	cat := &Catalog{
		Metadata: Metadata{
			GeneratedAt:        float64(e.now().UnixNano()) / float64(time.Second),
			TotalEntries:       len(entries),
			RiskDistribution:   riskDist,
			SourceDistribution: sourceDist,
			MethodDistribution: methodDist,
		},
		Entries:      entries,
		Domains:      sortedKeys(e.domains),
		Endpoints:    sortedKeys(e.endpoints),
		Secrets:      secrets,
		Permissions:  permissions,
		Certificates: certificates,
	}

	e.logger.StatsEvent(map[string]interface{}{
		"observations": e.observations,
		"skipped":      e.skipped,
		"entries":      len(entries),
	})

	return cat, nil
}

func uniqueSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
