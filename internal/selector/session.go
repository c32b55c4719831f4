// internal/selector/session.go
//
// Per-mount lifecycle controller.
//
// Context
// -------
// One Session exists per mount of the picker into the host document.  It
// sequences validate → load scripts → attach, exposes the current phase to
// the presentation layer, and cleans up on unmount.  Sessions share the
// Loader and Guard; everything else here is session-private.
//
// Lifecycle
// ---------
//
//	Validating → AwaitingResources → Attaching → Ready
//	     └──────────────┴──────────────┴──→ Error(message)
//
// Ready and Error are terminal; a remount builds a fresh Session.  Mount
// is idempotent per session: a monotonic started flag makes re-entry a
// no-op, so prop churn cannot double-attach.  Unmount is synchronous,
// never waits on an in-flight load, releases the attachment only when this
// session owns it, and leaves the shared script-load state untouched for
// the next mount.  A load or attach that resolves after Unmount is
// discarded: no phase writes, no document writes.
//
// Notes
// -----
// • With a nil document the session is inert: Mount logs once, performs no
//   side effects, and the session never reports ready or an error.
// • Oxford commas, two spaces after periods.
package selector

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/yanizio/parcelpoint/internal/host"
	"github.com/yanizio/parcelpoint/internal/metrics"
)

// Phase is the session's observable lifecycle position.
type Phase int

const (
	PhaseValidating Phase = iota
	PhaseAwaitingResources
	PhaseAttaching
	PhaseReady
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseValidating:
		return "validating"
	case PhaseAwaitingResources:
		return "awaiting-resources"
	case PhaseAttaching:
		return "attaching"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Session drives one mount from options to a live picker instance.
type Session struct {
	id        string
	targetID  string
	opts      Options
	resources []Resource

	doc    host.Document
	loader *Loader
	guard  *Guard

	started atomic.Bool

	mu     sync.Mutex
	phase  Phase
	err    error
	closed bool
}

// NewSession builds an unmounted session.  id must be unique among live
// mounts; targetID names the document element the picker draws into.
func NewSession(id, targetID string, opts Options, resources []Resource,
	doc host.Document, loader *Loader, guard *Guard) *Session {
	return &Session{
		id:        id,
		targetID:  targetID,
		opts:      opts,
		resources: resources,
		doc:       doc,
		loader:    loader,
		guard:     guard,
		phase:     PhaseValidating,
	}
}

// ID returns the session's mount identifier.
func (s *Session) ID() string { return s.id }

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Ready reports whether the picker is live for this mount.
func (s *Session) Ready() bool { return s.Phase() == PhaseReady }

// Err returns the failure that parked the session in the error phase, or
// nil.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Mount runs the full bootstrap.  Calling it again on the same session is
// a no-op, whatever the first call did.  The ctx bounds only this
// session's wait on the shared script load, never the load itself.
func (s *Session) Mount(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return nil
	}

	if s.doc == nil {
		// No rendering host: stay inert.  Nothing is loaded, nothing is
		// drawn, and the session reports neither ready nor an error.
		zap.S().Debugw("no document capability, selector mount is inert",
			"mount", s.id)
		return nil
	}

	cfg, err := s.opts.Normalize()
	if err != nil {
		return s.fail(err)
	}

	if !s.advance(PhaseAwaitingResources) {
		return nil
	}
	if err := s.loader.EnsureLoaded(ctx, s.resources); err != nil {
		return s.fail(err)
	}

	// The load resolved on a shared flight; re-check that this session is
	// still alive before touching the document.
	if !s.advance(PhaseAttaching) {
		return nil
	}
	if err := s.guard.Attach(s.id, s.targetID, cfg); err != nil {
		return s.fail(err)
	}

	if !s.advance(PhaseReady) {
		// Unmounted between attach and the phase write: the unmount's
		// Release already ran, or will run, against our ownership.
		s.guard.Release(s.id)
		return nil
	}
	metrics.ActiveMounts.Inc()
	zap.S().Infow("selector mounted", "mount", s.id, "target", s.targetID)
	return nil
}

// Unmount tears this mount down.  Safe in any phase, synchronous, and
// never blocks on a pending load; shared load state survives for future
// mounts.
func (s *Session) Unmount() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	wasReady := s.phase == PhaseReady
	s.mu.Unlock()

	// Release is ownership-gated, so a session that errored before
	// attaching never clears another mount's markup.
	s.guard.Release(s.id)

	if wasReady {
		metrics.ActiveMounts.Dec()
	}
	zap.S().Infow("selector unmounted", "mount", s.id)
}

// advance moves to next unless the session has been closed.  Reports
// whether the session is still live.
func (s *Session) advance(next Phase) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.phase = next
	return true
}

// fail parks the session in the error phase, unless it was already
// unmounted, in which case the outcome is discarded.
func (s *Session) fail(err error) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.phase = PhaseError
	s.err = err
	s.mu.Unlock()

	metrics.MountErrorTotal.Inc()
	zap.S().Errorw("selector mount failed", "mount", s.id, "err", err)
	return err
}
