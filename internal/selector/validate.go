// internal/selector/validate.go
//
// Option validation and normalization.
//
// Context
//   Runs first in every mount, before any side effect.  The brand
//   identifier is the only hard gate: the carrier rejects anything that is
//   not exactly eight characters, so we trim, bound, and right-pad here.
//   A bad delivery mode is recoverable by contract; it logs a warning and
//   the default mode is used, because a typo in the mode should degrade
//   the search, not blank the widget.
//
// Style
//   Full sentences, two-space spacing, Oxford comma.
//
//------------------------------------------------------------------------------

package selector

import (
	"errors"
	"strings"

	"go.uber.org/zap"
)

// Validation failures for the brand identifier.  These surface verbatim in
// the session's Error phase.
var (
	ErrEmptyIdentifier   = errors.New("brand identifier is empty")
	ErrIdentifierTooLong = errors.New("brand identifier exceeds 8 characters")
)

// Normalize validates o and returns its normalized form.  It is pure and
// synchronous apart from the warning log on an unknown delivery mode.
func (o Options) Normalize() (Normalized, error) {
	brand, err := NormalizeBrandID(o.BrandID)
	if err != nil {
		return Normalized{}, err
	}

	mode := o.DeliveryMode
	if !validModes[mode] {
		if mode != "" {
			zap.S().Warnw("unknown delivery mode, using default",
				"mode", mode,
				"default", ModeDefault,
			)
		}
		mode = ModeDefault
	}

	count := o.ResultCount
	if count <= 0 {
		count = defaultResultCount
	}

	return Normalized{
		BrandID:          brand,
		DeliveryMode:     mode,
		Country:          strings.ToUpper(strings.TrimSpace(o.Country)),
		Postcode:         strings.TrimSpace(o.Postcode),
		AllowedCountries: o.AllowedCountries,
		ResultCount:      count,
		Weight:           o.Weight,
		OnSelect:         o.OnSelect,
	}, nil
}

// NormalizeBrandID trims the identifier and right-pads it with spaces to
// exactly BrandIDLen characters.  Padding is idempotent: a value that is
// already padded trims back to the same core and pads to the same result.
func NormalizeBrandID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	switch {
	case id == "":
		return "", ErrEmptyIdentifier
	case len(id) > BrandIDLen:
		return "", ErrIdentifierTooLong
	}
	return id + strings.Repeat(" ", BrandIDLen-len(id)), nil
}
