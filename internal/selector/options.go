// internal/selector/options.go
//
// Mount options and their normalized form.
//
// Context
// -------
// A host embeds the parcel-shop picker by creating a Session from an
// Options value.  Options is caller-supplied and untrusted; Normalized is
// the validated, defaulted, padded shape every downstream component
// (loader, guard, entry call) consumes without further checks.
//
// Notes
// -----
// • Options is immutable per mount; a remount builds a fresh Session from
//   a fresh Options value.
// • Oxford commas, two spaces after periods.
package selector

import "github.com/yanizio/parcelpoint/internal/host"

// Delivery-mode codes accepted by the carrier.  Anything else falls back
// to ModeDefault with a warning; an unknown mode is never a hard error.
const (
	ModeHome       = "DOM" // home, no signature
	ModeHomeSigned = "DOS" // home, signature on delivery
	ModeShop       = "BPR" // parcel shop
	ModeLocker     = "A2P" // pickup locker
	ModeRelay      = "24R" // relay point
)

// ModeDefault is substituted when DeliveryMode is missing or unknown.
const ModeDefault = ModeRelay

// BrandIDLen is the exact width the carrier API requires for the brand
// identifier; shorter values are right-padded with spaces.
const BrandIDLen = 8

// Options is the caller-facing mount configuration.
type Options struct {
	BrandID          string  // carrier account identifier, 1–8 chars
	DeliveryMode     string  // one of the Mode* constants
	Country          string  // ISO-3166 alpha-2 shown first in the picker
	Postcode         string  // initial search postcode
	AllowedCountries string  // comma-separated ISO codes, e.g. "FR,BE"
	ResultCount      int     // pickup points per search, 0 → default
	Weight           float64 // parcel weight in grams, 0 → omitted

	// OnSelect fires once per user selection with the carrier location
	// payload and the target field's value.  Required.
	OnSelect host.SelectFunc
}

// Normalized is Options after validation, padding, and defaulting.
// Every field is ready for the picker entry call.
type Normalized struct {
	BrandID          string // exactly BrandIDLen characters
	DeliveryMode     string // guaranteed member of the mode set
	Country          string
	Postcode         string
	AllowedCountries string
	ResultCount      int
	Weight           float64
	OnSelect         host.SelectFunc
}

// defaultResultCount matches the picker library's own default page size.
const defaultResultCount = 10

// validModes is the closed enum checked during normalization.
var validModes = map[string]bool{
	ModeHome:       true,
	ModeHomeSigned: true,
	ModeShop:       true,
	ModeLocker:     true,
	ModeRelay:      true,
}
