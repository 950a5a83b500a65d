package catalog

import (
	"github.com/PentesterFlow/AppAtlas/internal/ingest"
)

// IngestStatic folds a merged static analysis result into the catalog:
// every URL becomes a static-source observation with its pre-classified
// parameters attached, and the side collections (domains, endpoints,
// secrets, permissions, certificates) are recorded for the finalized
// catalog. Returns the number of observations folded in.
func (e *Engine) IngestStatic(result *ingest.StaticResult) int {
	if result == nil {
		return 0
	}

	folded := 0
	for _, su := range result.URLs {
		params := su.Parameters
		if params == nil {
			params = []Parameter{}
		}

		obs := Observation{
			URL:         su.URL,
			OriginalURL: su.OriginalURL,
			Method:      MethodUnknown,
			Source:      SourceStatic,
			Parameters:  params,
		}
		if _, err := e.Ingest(obs); err == nil {
			folded++
		}
	}

	e.AddDomains(result.Domains...)
	e.AddEndpoints(result.Endpoints...)
	e.AddSecrets(result.Secrets...)
	e.AddPermissions(result.Permissions...)
	e.AddCertificates(result.Certificates...)

	return folded
}

// IngestDynamic folds captured traffic flows into the catalog as
// dynamic-source observations. A flow's concrete verb wins over a prior
// UNKNOWN method on merge. Returns the number of observations folded in.
func (e *Engine) IngestDynamic(flows []ingest.DynamicFlow) int {
	folded := 0
	for _, flow := range flows {
		method := flow.Method
		if method == "" {
			method = MethodUnknown
		}

		obs := Observation{
			URL:    flow.URL,
			Method: method,
			Source: SourceDynamic,
		}
		if _, err := e.Ingest(obs); err == nil {
			folded++
		}
	}
	return folded
}

// IngestComponents folds probed content providers into the catalog.
// Only providers the probe reported accessible are ingested; each one
// becomes a component-source observation on a synthesized content:// URI.
// Returns the number of observations folded in.
func (e *Engine) IngestComponents(result *ingest.ComponentResult) int {
	if result == nil {
		return 0
	}

	folded := 0
	for _, provider := range result.Providers {
		if !provider.Accessible || provider.URI == "" {
			continue
		}

		obs := Observation{
			URL:    "content://" + provider.URI,
			Method: MethodContentProvider,
			Source: SourceComponent,
		}
		if _, err := e.Ingest(obs); err == nil {
			folded++
		}
	}
	return folded
}
