// Package risk scores catalog entries against a fixed indicator list.
package risk

import (
	"strings"

	"github.com/PentesterFlow/AppAtlas/internal/normalize"
)

// Level represents an entry's risk classification.
type Level string

// Risk levels, lowest to highest.
const (
	Low    Level = "LOW"
	Medium Level = "MEDIUM"
	High   Level = "HIGH"
)

// Ordinal returns the numeric rank of a level (LOW=1, MEDIUM=2, HIGH=3).
// Unknown levels rank below LOW.
func (l Level) Ordinal() int {
	switch l {
	case Low:
		return 1
	case Medium:
		return 2
	case High:
		return 3
	default:
		return 0
	}
}

// Max returns the higher of two levels by ordinal.
func Max(a, b Level) Level {
	if b.Ordinal() > a.Ordinal() {
		return b
	}
	return a
}

// DefaultIndicators is the ordered keyword list matched against URLs and
// parameter values.
var DefaultIndicators = []string{
	"admin", "login", "auth", "token", "password", "secret",
	"key", "config", "debug", "test", "dev",
}

// Classifier scores URLs against an ordered indicator list. The list is
// explicit configuration, not ambient state.
type Classifier struct {
	indicators []string
}

// NewClassifier creates a classifier with the given indicator list. A nil
// slice uses DefaultIndicators.
func NewClassifier(indicators []string) *Classifier {
	if indicators == nil {
		indicators = DefaultIndicators
	}
	return &Classifier{indicators: indicators}
}

// Classify scores a URL and its extracted parameters. An indicator found
// in the lower-cased URL returns HIGH immediately; URL matches always
// outrank parameter matches regardless of indicator order. Only when no
// indicator matches the URL are parameter values checked, returning
// MEDIUM on the first hit. Otherwise LOW.
func (c *Classifier) Classify(rawURL string, params []normalize.Parameter) Level {
	lowered := strings.ToLower(rawURL)
	for _, indicator := range c.indicators {
		if strings.Contains(lowered, indicator) {
			return High
		}
	}

	for _, indicator := range c.indicators {
		for _, p := range params {
			if strings.Contains(strings.ToLower(p.Value), indicator) {
				return Medium
			}
		}
	}

	return Low
}
