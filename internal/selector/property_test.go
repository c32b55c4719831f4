//go:build property
// +build property

package selector

import (
	"errors"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestBrandIDProperties checks the normalization contract over generated
// identifiers rather than hand-picked cases.
func TestBrandIDProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: every 1–8 character trimmed identifier normalizes to
	// exactly eight characters, right padded with spaces.
	properties.Property("pads to exactly eight", prop.ForAll(
		func(id string) bool {
			trimmed := strings.TrimSpace(id)
			if trimmed == "" || len(trimmed) > BrandIDLen {
				return true // out of this property's domain
			}
			got, err := NormalizeBrandID(id)
			if err != nil {
				return false
			}
			return len(got) == BrandIDLen &&
				strings.TrimRight(got, " ") == trimmed
		},
		gen.RegexMatch(`^ {0,2}[A-Z0-9]{1,8} {0,2}$`),
	))

	// Property: normalization is idempotent.
	properties.Property("idempotent", prop.ForAll(
		func(id string) bool {
			once, err := NormalizeBrandID(id)
			if err != nil {
				return true
			}
			twice, err := NormalizeBrandID(once)
			return err == nil && once == twice
		},
		gen.RegexMatch(`^[A-Z0-9 ]{0,12}$`),
	))

	// Property: over-long identifiers always fail with the sentinel.
	properties.Property("too long rejected", prop.ForAll(
		func(id string) bool {
			_, err := NormalizeBrandID(id)
			return errors.Is(err, ErrIdentifierTooLong)
		},
		gen.RegexMatch(`^[A-Z0-9]{9,16}$`),
	))

	properties.TestingRun(t)
}
