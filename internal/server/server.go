// Package server provides the HTTP server implementation for the mdm API.
// It is a thin serving layer over the resolution registry: the registry is
// handed in fully built and the server only ever reads it, so request
// handling needs no locking.
package server

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/civicdata/mdm/pkg/registry"
	"github.com/civicdata/mdm/pkg/resolve"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	registry  registry.Registry
	stats     resolve.Stats
	metrics   *metrics
	logger    *zerolog.Logger
	config    Config
	startTime time.Time
}

// New creates a new server instance over a fully built registry.
func New(reg registry.Registry, stats resolve.Stats, logger *zerolog.Logger, cfg Config) *Server {
	return &Server{
		registry:  reg,
		stats:     stats,
		metrics:   newMetrics(stats),
		logger:    logger,
		config:    cfg,
		startTime: time.Now(),
	}
}

// StartTime returns the server start time for uptime calculations.
func (s *Server) StartTime() time.Time {
	return s.startTime
}
