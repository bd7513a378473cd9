// Package logging provides structured logging for the mdm system using
// zerolog. Console output is used when attached to a terminal, structured
// JSON otherwise. Resolution diagnostics (conflicts, skipped identities,
// dropped records) are emitted through this package so automated merge
// decisions stay auditable.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// defaultLogger is the global logger instance.
var defaultLogger zerolog.Logger

func init() {
	defaultLogger = NewLoggerFromConfig(nil)
}

// Default returns the default global logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault sets the default global logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger // Also update zerolog's global logger
}
