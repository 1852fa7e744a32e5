// Package log configures the zap.Logger shared by the CLI commands.
package log

import "go.uber.org/zap"

// New returns a no-op logger when quiet is set; otherwise a
// development-formatted logger at verbose>0, or a production logger without
// stack traces. verbose is the repeat count of -v.
func New(verbose int, quiet bool) (*zap.Logger, error) {
	if quiet {
		return zap.NewNop(), nil
	}
	if verbose > 0 {
		cfg := zap.NewDevelopmentConfig()
		return cfg.Build()
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	return cfg.Build()
}
