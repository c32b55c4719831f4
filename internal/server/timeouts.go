// internal/server/timeouts.go
//
// HTTP server helper with robust timeouts.
//
// The mount API answers from memory and is fast, but POST /api/shipments
// calls the carrier synchronously, so the write timeout must leave room
// for the configured carrier deadline plus response serialisation.
//
//   • ReadTimeout   – abort slow-loris headers (10 s)
//   • WriteTimeout  – carrier deadline + 5 s headroom, 15 s floor
//   • IdleTimeout   – close keep-alives on idle clients (60 s)
//
// This helper centralises the arithmetic so cmd/web doesn’t repeat it.
package server

import (
	"net/http"
	"time"
)

const (
	readTimeout   = 10 * time.Second
	writeFloor    = 15 * time.Second
	writeHeadroom = 5 * time.Second
	idleTimeout   = 60 * time.Second
)

// New constructs an *http.Server whose write timeout accommodates one
// full upstream carrier call of the given duration.
func New(addr string, handler http.Handler, carrierDeadline time.Duration) *http.Server {
	write := carrierDeadline + writeHeadroom
	if write < writeFloor {
		write = writeFloor
	}
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: write,
		IdleTimeout:  idleTimeout,
	}
}
