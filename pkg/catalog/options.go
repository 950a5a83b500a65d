package catalog

import (
	"time"

	"github.com/PentesterFlow/AppAtlas/internal/logger"
)

// Option is a functional option for configuring the Engine.
type Option func(*Engine) error

// WithConfig sets the entire configuration.
func WithConfig(config *Config) Option {
	return func(e *Engine) error {
		e.config = config
		return nil
	}
}

// WithRiskIndicators overrides the ordered risk indicator list.
func WithRiskIndicators(indicators ...string) Option {
	return func(e *Engine) error {
		e.config.RiskIndicators = indicators
		return nil
	}
}

// WithParamStoplist overrides the parameter extraction stoplist.
func WithParamStoplist(words ...string) Option {
	return func(e *Engine) error {
		e.config.ParamStoplist = words
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) error {
		e.logger = l
		return nil
	}
}

// WithClock sets the time source used when observations carry no
// timestamp. Tests use this for deterministic first/last seen values.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) error {
		e.now = now
		return nil
	}
}
