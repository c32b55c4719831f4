// internal/selector/guard.go
//
// Single-attachment guard for the picker instance.
//
// Context
// -------
// The picker library supports exactly one live instance per document
// anchor.  The guard owns the process-wide attachment state: it re-checks
// the global entry point before every attach, clears a stale owner's
// subtree before handing the anchor to a new mount, and releases ownership
// only to the session that actually holds it.  A failed attach leaves the
// attachment state exactly as it was, so a later mount retries cleanly.
//
// Notes
// -----
// • Attach and Release are synchronous and serialized by one mutex; the
//   "clear-then-own" rule is what resolves racing mounts, not parallelism.
// • Oxford commas, two spaces after periods.
package selector

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/yanizio/parcelpoint/internal/host"
	"github.com/yanizio/parcelpoint/internal/metrics"
)

// ErrEntryPointMissing reports that the picker's global callable is absent
// even though the scripts claim to be loaded.  The loader's success implies
// the symbol exists, but unrelated code can remove it between load and
// attach, so the guard re-checks.
var ErrEntryPointMissing = errors.New("picker entry point is not available")

// AttachError wraps a failure from the underlying picker library.
type AttachError struct {
	Cause error
}

func (e *AttachError) Error() string {
	return fmt.Sprintf("picker attach failed: %v", e.Cause)
}

func (e *AttachError) Unwrap() error { return e.Cause }

// Guard tracks which session, if any, owns the picker attachment.
// Construct one per process (or per test) with NewGuard; sessions share it.
type Guard struct {
	doc       host.Document
	entryName string // global symbol the second script registers

	mu          sync.Mutex
	ownerID     string // "" when unattached
	ownerTarget string
}

// NewGuard returns an unattached Guard resolving the entry point by name.
func NewGuard(doc host.Document, entryName string) *Guard {
	return &Guard{doc: doc, entryName: entryName}
}

// Owner returns the owning session ID, or "" when unattached.
func (g *Guard) Owner() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ownerID
}

// Attach binds the picker to targetID on behalf of ownerID.  A stale
// owner's subtree is cleared first; ownership transfers only if the
// underlying attach call succeeds.
func (g *Guard) Attach(ownerID, targetID string, cfg Normalized) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	ep, ok := g.doc.EntryPoint(g.entryName)
	if !ok {
		return ErrEntryPointMissing
	}

	// Supersede a stale instance: the library cannot coexist with itself,
	// so the previous owner's markup goes before the new attach.
	if g.ownerID != "" && g.ownerID != ownerID {
		if err := g.doc.ClearContent(g.ownerTarget); err != nil {
			zap.S().Warnw("clearing stale picker target failed",
				"owner", g.ownerID, "target", g.ownerTarget, "err", err)
		}
		metrics.WidgetDetachTotal.Inc()
		zap.S().Infow("superseding stale picker attachment",
			"old_owner", g.ownerID, "new_owner", ownerID)
	}

	call := entryCall(targetID, cfg, g.doc)
	if err := ep(call); err != nil {
		// Ownership is deliberately untouched on failure.
		return &AttachError{Cause: err}
	}

	g.ownerID = ownerID
	g.ownerTarget = targetID
	metrics.WidgetAttachTotal.Inc()
	zap.S().Infow("picker attached", "owner", ownerID, "target", targetID)
	return nil
}

// Release clears the target and returns to Unattached, but only when
// called by the current owner.  Any other caller is a no-op; a session
// must never tear down markup it does not own.
func (g *Guard) Release(ownerID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ownerID == "" || g.ownerID != ownerID {
		return
	}
	if err := g.doc.ClearContent(g.ownerTarget); err != nil {
		zap.S().Warnw("clearing picker target on release failed",
			"owner", ownerID, "target", g.ownerTarget, "err", err)
	}
	g.ownerID = ""
	g.ownerTarget = ""
	metrics.WidgetDetachTotal.Inc()
	zap.S().Infow("picker released", "owner", ownerID)
}

// entryCall builds the library call from a normalized configuration.  The
// selection callback forwards the carrier payload plus the target field's
// value, both unchanged.
func entryCall(targetID string, cfg Normalized, doc host.Document) host.EntryCall {
	onSelect := cfg.OnSelect
	return host.EntryCall{
		TargetID:         targetID,
		BrandID:          cfg.BrandID,
		Country:          cfg.Country,
		Postcode:         cfg.Postcode,
		DeliveryMode:     cfg.DeliveryMode,
		ResultCount:      strconv.Itoa(cfg.ResultCount),
		ShowResultList:   true,
		ShowMap:          true,
		AllowedCountries: cfg.AllowedCountries,
		EnableCSS:        true,
		Weight:           cfg.Weight,
		OnSelect: func(loc host.Location) {
			if onSelect == nil {
				return
			}
			value, _ := doc.Content(targetID)
			onSelect(loc, value)
		},
	}
}
