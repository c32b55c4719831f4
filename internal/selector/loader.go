// internal/selector/loader.go
//
// Once-per-process loader for the picker's remote scripts.
//
// Context
// -------
// The picker depends on two externally hosted scripts, and the second one
// references a global symbol the first one provides.  Loads therefore run
// strictly in declared order, and each script's injection side effect must
// happen at most once per process no matter how many mounts race on it.
//
// Concurrency
// -----------
// Callers coalesce on a singleflight.Group: whoever arrives first runs the
// load; everyone arriving during the flight shares its outcome.  A caller
// whose context is cancelled stops waiting, but the flight itself keeps
// running because other sessions may still depend on it.  After a failure
// the state is Failed, not sealed; the next EnsureLoaded retries starting
// from the first script that has not yet succeeded.
//
// Notes
// -----
// • State moves forward only.  There is no transition back to NotStarted.
// • No timeout is applied here beyond the document's own fetch deadline; a
//   stalled carrier CDN parks waiters in AwaitingResources.
// • Oxford commas, two spaces after periods.
package selector

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/yanizio/parcelpoint/internal/host"
	"github.com/yanizio/parcelpoint/internal/metrics"
)

// Resource names one remote script the picker needs, in dependency order.
type Resource struct {
	Name string // short label used in logs and error messages
	URL  string
}

// LoadState is the loader's process-wide lifecycle tag.
type LoadState int

const (
	LoadNotStarted LoadState = iota
	LoadInFlight
	LoadDone
	LoadFailed
)

func (s LoadState) String() string {
	switch s {
	case LoadNotStarted:
		return "not-started"
	case LoadInFlight:
		return "loading"
	case LoadDone:
		return "loaded"
	case LoadFailed:
		return "failed"
	default:
		return fmt.Sprintf("LoadState(%d)", int(s))
	}
}

// Loader owns the shared load state.  Construct one per process (or per
// test) with NewLoader; sessions share it.
type Loader struct {
	doc host.Document
	sfg singleflight.Group

	mu      sync.Mutex
	state   LoadState
	failure error
	done    map[string]bool // script URL → load side effect already happened
}

// NewLoader returns a Loader in the NotStarted state.
func NewLoader(doc host.Document) *Loader {
	return &Loader{
		doc:  doc,
		done: make(map[string]bool),
	}
}

// State reports the current shared load state.
func (l *Loader) State() LoadState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// EnsureLoaded makes the declared resources available, loading each at most
// once per process.  Safe for any number of concurrent callers; all callers
// of one flight resolve or fail together.  A ctx cancellation abandons the
// wait without cancelling the shared flight.
func (l *Loader) EnsureLoaded(ctx context.Context, resources []Resource) error {
	// Fast path: everything already loaded, nothing to coalesce on.
	l.mu.Lock()
	if l.state == LoadDone {
		l.mu.Unlock()
		return nil
	}
	l.mu.Unlock()

	ch := l.sfg.DoChan("picker-scripts", func() (any, error) {
		return nil, l.loadAll(resources)
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		// The flight continues for other sessions; this caller just
		// stops waiting.
		return ctx.Err()
	}
}

// loadAll runs one load attempt.  Only one instance executes at a time,
// guarded by the singleflight barrier.
func (l *Loader) loadAll(resources []Resource) error {
	l.mu.Lock()
	// Double-check after the singleflight barrier; a previous flight may
	// have finished the job while this caller was queued.
	if l.state == LoadDone {
		l.mu.Unlock()
		return nil
	}
	l.state = LoadInFlight
	l.failure = nil
	l.mu.Unlock()

	for _, r := range resources {
		l.mu.Lock()
		skip := l.done[r.URL]
		l.mu.Unlock()
		if skip {
			continue
		}

		zap.S().Infow("loading picker script", "name", r.Name, "url", r.URL)
		// The fetch deliberately runs on a background context so that no
		// single mount's cancellation can kill a load other mounts await.
		if err := l.doc.InjectScript(context.Background(), r.URL); err != nil {
			wrapped := fmt.Errorf("failed to load %s: %w", r.Name, err)
			l.mu.Lock()
			l.state = LoadFailed
			l.failure = wrapped
			l.mu.Unlock()
			metrics.ResourceLoadErrorsTotal.Inc()
			zap.S().Errorw("picker script load failed",
				"name", r.Name, "url", r.URL, "err", err)
			return wrapped
		}

		l.mu.Lock()
		l.done[r.URL] = true
		l.mu.Unlock()
		metrics.ResourceLoadTotal.Inc()
	}

	l.mu.Lock()
	l.state = LoadDone
	l.mu.Unlock()
	zap.S().Infow("picker scripts loaded", "count", len(resources))
	return nil
}
