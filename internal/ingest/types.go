// Package ingest defines the record shapes produced by external analysis
// collaborators and loads them from their JSON documents.
package ingest

import (
	"github.com/PentesterFlow/AppAtlas/internal/normalize"
)

// StaticResult is the merged output of the static analysis tools.
type StaticResult struct {
	URLs         []StaticURL              `json:"urls"`
	Domains      []string                 `json:"domains"`
	Endpoints    []string                 `json:"endpoints"`
	Secrets      []string                 `json:"secrets"`
	Permissions  []string                 `json:"permissions"`
	Certificates []map[string]interface{} `json:"certificates"`
}

// StaticURL is one URL sighting from static analysis, already normalized
// with its extracted parameters attached.
type StaticURL struct {
	URL         string                `json:"url"`
	OriginalURL string                `json:"original_url"`
	Parameters  []normalize.Parameter `json:"parameters"`
	Sources     []string              `json:"sources"`
}

// DynamicFlow is one captured request from runtime traffic.
type DynamicFlow struct {
	Method         string            `json:"method"`
	URL            string            `json:"url"`
	Headers        map[string]string `json:"headers,omitempty"`
	ResponseStatus int               `json:"response_status,omitempty"`
}

// ComponentResult is the output of exported-component probing.
type ComponentResult struct {
	Providers []Provider `json:"providers"`
}

// Provider is one probed content provider.
type Provider struct {
	URI        string `json:"uri"`
	Accessible bool   `json:"accessible"`
}

// ToolResult is the raw output shape shared by the static scanners
// (decompiler string extraction, apkleaks, mobsf). Absent fields decode
// to empty collections.
type ToolResult struct {
	URLs         []string                 `json:"urls"`
	Domains      []string                 `json:"domains"`
	Endpoints    []string                 `json:"endpoints"`
	Secrets      []string                 `json:"secrets"`
	Permissions  []string                 `json:"permissions"`
	Certificates []map[string]interface{} `json:"certificates"`
}
