// internal/host/memdoc.go
//
// In-memory Document implementation.
//
// Context
// -------
// Serves two roles: the fake document for coordinator tests, and the
// server-side stand-in used by cmd/web.  Scripts are "evaluated" by running
// load hooks registered per URL; a hook typically registers the picker's
// entry point, mirroring how the real script publishes a global symbol.
// The default fetcher performs a real HTTP GET so script availability and
// network failures behave like a browser's <script> tag; tests swap it for
// a controllable stub.
//
// Notes
// -----
// • All state sits behind one mutex; methods never call user hooks while
//   holding it, so hooks may re-enter the document.
package host

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// Fetcher retrieves a script resource.  The returned error marks the load
// failed; the body content is irrelevant to MemDoc.
type Fetcher func(ctx context.Context, url string) error

// MemDoc is an in-memory Document.  The zero value is not usable; call
// NewMemDoc.
type MemDoc struct {
	mu       sync.Mutex
	elements map[string]string
	loaded   map[string]bool
	entries  map[string]EntryPoint
	onLoad   map[string][]func(d *MemDoc)
	fetch    Fetcher
}

// Option tunes a MemDoc at construction time.
type Option func(*MemDoc)

// WithFetcher replaces the HTTP fetcher, usually with a test stub.
func WithFetcher(f Fetcher) Option {
	return func(d *MemDoc) { d.fetch = f }
}

// NewMemDoc returns an empty document with an HTTP-backed fetcher.
func NewMemDoc(opts ...Option) *MemDoc {
	d := &MemDoc{
		elements: make(map[string]string),
		loaded:   make(map[string]bool),
		entries:  make(map[string]EntryPoint),
		onLoad:   make(map[string][]func(*MemDoc)),
		fetch:    httpFetch,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// AddElement declares an element ID so content operations can target it.
// Adding an existing ID resets its content.
func (d *MemDoc) AddElement(id string) {
	d.mu.Lock()
	d.elements[id] = ""
	d.mu.Unlock()
}

// OnScriptLoad registers a hook that runs after the given URL loads
// successfully.  Hooks substitute for script evaluation, e.g. registering
// the picker entry point.
func (d *MemDoc) OnScriptLoad(url string, fn func(d *MemDoc)) {
	d.mu.Lock()
	d.onLoad[url] = append(d.onLoad[url], fn)
	d.mu.Unlock()
}

// RegisterEntryPoint publishes a global callable, as a loaded script would.
func (d *MemDoc) RegisterEntryPoint(name string, ep EntryPoint) {
	d.mu.Lock()
	d.entries[name] = ep
	d.mu.Unlock()
}

// RemoveEntryPoint deletes a global callable.  Exists so tests can model
// unrelated code clobbering the symbol between load and attach.
func (d *MemDoc) RemoveEntryPoint(name string) {
	d.mu.Lock()
	delete(d.entries, name)
	d.mu.Unlock()
}

// ScriptLoaded reports whether the URL has completed a successful load.
func (d *MemDoc) ScriptLoaded(url string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loaded[url]
}

/*──────────────────────────── Document impl ────────────────────────────────*/

// InjectScript fetches url and, on success, marks it loaded and runs its
// load hooks outside the lock.
func (d *MemDoc) InjectScript(ctx context.Context, url string) error {
	if err := d.fetch(ctx, url); err != nil {
		return err
	}

	d.mu.Lock()
	d.loaded[url] = true
	hooks := d.onLoad[url]
	d.mu.Unlock()

	for _, fn := range hooks {
		fn(d)
	}
	return nil
}

func (d *MemDoc) SetContent(id, content string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.elements[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNoElement, id)
	}
	d.elements[id] = content
	return nil
}

func (d *MemDoc) Content(id string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.elements[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoElement, id)
	}
	return c, nil
}

func (d *MemDoc) ClearContent(id string) error {
	return d.SetContent(id, "")
}

func (d *MemDoc) EntryPoint(name string) (EntryPoint, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ep, ok := d.entries[name]
	return ep, ok
}

/*──────────────────────────── default fetcher ──────────────────────────────*/

var fetchClient = &http.Client{Timeout: 20 * time.Second}

// httpFetch GETs the script and treats any non-2xx status as a load error.
// The body is drained and discarded; MemDoc does not evaluate JavaScript.
func httpFetch(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := fetchClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	return nil
}
