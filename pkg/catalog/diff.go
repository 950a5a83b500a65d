package catalog

import (
	"sort"
)

// DiffResult reports the signature-set comparison of two catalogs. Only
// presence or absence of a signature is compared; content changes on a
// surviving signature are not reported.
type DiffResult struct {
	Added     []string    `json:"added"`
	Removed   []string    `json:"removed"`
	Unchanged []string    `json:"unchanged"`
	Summary   DiffSummary `json:"summary"`
}

// DiffSummary holds the comparison counts.
type DiffSummary struct {
	AddedCount     int `json:"added_count"`
	RemovedCount   int `json:"removed_count"`
	UnchangedCount int `json:"unchanged_count"`
}

// Diff compares the signature sets of two catalogs. Neither catalog is
// mutated.
func Diff(oldCat, newCat *Catalog) *DiffResult {
	oldSigs := oldCat.Signatures()
	newSigs := newCat.Signatures()

	result := &DiffResult{
		Added:     []string{},
		Removed:   []string{},
		Unchanged: []string{},
	}

	for sig := range newSigs {
		if _, ok := oldSigs[sig]; ok {
			result.Unchanged = append(result.Unchanged, sig)
		} else {
			result.Added = append(result.Added, sig)
		}
	}
	for sig := range oldSigs {
		if _, ok := newSigs[sig]; !ok {
			result.Removed = append(result.Removed, sig)
		}
	}

	sort.Strings(result.Added)
	sort.Strings(result.Removed)
	sort.Strings(result.Unchanged)

	result.Summary = DiffSummary{
		AddedCount:     len(result.Added),
		RemovedCount:   len(result.Removed),
		UnchangedCount: len(result.Unchanged),
	}

	return result
}
