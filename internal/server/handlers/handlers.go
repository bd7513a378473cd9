// Package handlers provides HTTP request handlers for the mdm API. The
// handlers only ever read the injected registry; nothing in the serving
// layer mutates resolved data.
package handlers

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/civicdata/mdm/pkg/registry"
	"github.com/civicdata/mdm/pkg/resolve"
)

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	registry  registry.Registry
	stats     resolve.Stats
	logger    *zerolog.Logger
	startTime time.Time
}

// New creates a new Handlers instance over a fully built registry.
func New(reg registry.Registry, stats resolve.Stats, logger *zerolog.Logger) *Handlers {
	return &Handlers{
		registry:  reg,
		stats:     stats,
		logger:    logger,
		startTime: time.Now(),
	}
}
