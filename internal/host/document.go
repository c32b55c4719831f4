// internal/host/document.go
//
// Rendering-host capability consumed by the selector coordinator.
//
// Context
// -------
// The parcel-shop picker is a third-party library that lives inside a host
// document: its scripts are injected into the page, it registers a global
// entry point, and it draws into an element identified by ID.  The
// coordinator never talks to a concrete page directly; it talks to this
// Document interface.  That keeps the lifecycle logic testable with a fake
// document and lets the whole coordinator degrade to an inert no-op when no
// document capability exists (headless or bot traffic).
//
// Notes
// -----
// • Implementations must be safe for concurrent use; the coordinator may
//   drive several mounts on overlapping goroutines.
// • InjectScript blocks until the script has loaded or failed.  Callers own
//   once-only semantics; implementations do not dedupe.
// • Oxford commas, two spaces after periods.
package host

import (
	"context"
	"errors"
)

// ErrNoElement is returned by element operations when the target ID is not
// present in the document.
var ErrNoElement = errors.New("host: no such element")

// Location is the carrier-side description of a selected parcel shop,
// forwarded unchanged to the mount's selection callback.
type Location struct {
	ID       string // carrier point identifier
	Name     string // shop or locker display name
	Country  string // ISO-3166 alpha-2
	City     string
	Zip      string
	Address1 string
	Address2 string
}

// SelectFunc receives the selected location plus the current content of the
// caller-visible target field at selection time.
type SelectFunc func(loc Location, targetValue string)

// PickFunc is the raw callback shape the picker library invokes; the guard
// wraps it into a SelectFunc by reading the target field.
type PickFunc func(loc Location)

// EntryCall carries every argument the picker's global entry point accepts.
// Field shapes mirror the library's documented call contract, including the
// string-typed result count.
type EntryCall struct {
	TargetID         string // element the picker draws into
	BrandID          string // exactly 8 characters, space padded
	Country          string
	Postcode         string
	DeliveryMode     string
	ResultCount      string // the library wants a string, not an int
	ShowResultList   bool
	ShowMap          bool
	AllowedCountries string // comma-separated ISO codes
	EnableCSS        bool
	Weight           float64 // 0 means unset
	OnSelect         PickFunc
}

// EntryPoint is the global callable a loaded picker script registers.
// A non-nil error means the library refused the call; the document is left
// as the library left it.
type EntryPoint func(call EntryCall) error

// Document is the minimal host surface the coordinator needs.  A nil
// Document means "no rendering host" and short-circuits every mount to an
// inert no-op.
type Document interface {
	// InjectScript fetches and evaluates the script at url, blocking until
	// load success or failure.  The ctx only bounds the fetch.
	InjectScript(ctx context.Context, url string) error

	// SetContent replaces the content of the element with the given ID.
	SetContent(id, content string) error

	// Content reads the element's current content.
	Content(id string) (string, error)

	// ClearContent empties the element's subtree.
	ClearContent(id string) error

	// EntryPoint resolves a global callable registered by a loaded script.
	EntryPoint(name string) (EntryPoint, bool)
}
