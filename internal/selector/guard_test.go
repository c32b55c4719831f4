// internal/selector/guard_test.go
//
// Unit-tests for the single-attachment guard.
//
// Context
// -------
// Verifies the clear-then-own rule, the defensive entry-point re-check,
// that a failed attach leaves ownership untouched, and that release is
// gated on actual ownership.
//
// Run: go test ./internal/selector -v

package selector

import (
	"errors"
	"testing"

	"github.com/yanizio/parcelpoint/internal/host"
)

const testEntryName = "pickupWidget"

// attachedDoc returns a doc with a registered entry point that draws a
// marker into the target, plus the normalized config used by every case.
func attachedDoc(t *testing.T) (*host.MemDoc, *Guard, Normalized) {
	t.Helper()
	doc := host.NewMemDoc()
	doc.RegisterEntryPoint(testEntryName, func(call host.EntryCall) error {
		return doc.SetContent(call.TargetID, "picker["+call.BrandID+"]")
	})
	g := NewGuard(doc, testEntryName)

	cfg, err := Options{BrandID: "BDTEST"}.Normalize()
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	return doc, g, cfg
}

func TestGuard_AttachSetsOwner(t *testing.T) {
	doc, g, cfg := attachedDoc(t)
	doc.AddElement("zone-a")

	if err := g.Attach("mount-1", "zone-a", cfg); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if g.Owner() != "mount-1" {
		t.Fatalf("owner = %q, want mount-1", g.Owner())
	}
	content, _ := doc.Content("zone-a")
	if content != "picker[BDTEST  ]" {
		t.Fatalf("target content = %q", content)
	}
}

func TestGuard_EntryPointMissing(t *testing.T) {
	doc, g, cfg := attachedDoc(t)
	doc.AddElement("zone-a")
	// Unrelated code removed the global between load and attach.
	doc.RemoveEntryPoint(testEntryName)

	err := g.Attach("mount-1", "zone-a", cfg)
	if !errors.Is(err, ErrEntryPointMissing) {
		t.Fatalf("err = %v, want ErrEntryPointMissing", err)
	}
	if g.Owner() != "" {
		t.Fatalf("owner = %q, want unattached", g.Owner())
	}
}

func TestGuard_SupersedeClearsStaleTarget(t *testing.T) {
	doc, g, cfg := attachedDoc(t)
	doc.AddElement("zone-a")
	doc.AddElement("zone-b")

	if err := g.Attach("mount-1", "zone-a", cfg); err != nil {
		t.Fatalf("first attach: %v", err)
	}
	if err := g.Attach("mount-2", "zone-b", cfg); err != nil {
		t.Fatalf("second attach: %v", err)
	}

	if g.Owner() != "mount-2" {
		t.Fatalf("owner = %q, want mount-2", g.Owner())
	}
	a, _ := doc.Content("zone-a")
	if a != "" {
		t.Fatalf("stale target not cleared: %q", a)
	}
	b, _ := doc.Content("zone-b")
	if b == "" {
		t.Fatal("new target is empty")
	}
}

func TestGuard_FailedAttachLeavesOwnership(t *testing.T) {
	doc, g, cfg := attachedDoc(t)
	doc.AddElement("zone-a")
	doc.AddElement("zone-b")

	if err := g.Attach("mount-1", "zone-a", cfg); err != nil {
		t.Fatalf("first attach: %v", err)
	}

	boom := errors.New("library refused")
	doc.RegisterEntryPoint(testEntryName, func(host.EntryCall) error {
		return boom
	})

	err := g.Attach("mount-2", "zone-b", cfg)
	var ae *AttachError
	if !errors.As(err, &ae) || !errors.Is(err, boom) {
		t.Fatalf("err = %v, want AttachError wrapping cause", err)
	}
	if g.Owner() != "mount-1" {
		t.Fatalf("owner = %q, want unchanged mount-1", g.Owner())
	}
}

func TestGuard_ReleaseGatedOnOwnership(t *testing.T) {
	doc, g, cfg := attachedDoc(t)
	doc.AddElement("zone-a")

	if err := g.Attach("mount-1", "zone-a", cfg); err != nil {
		t.Fatalf("Attach: %v", err)
	}

	// A mount that never owned the attachment must not clear anything.
	g.Release("mount-2")
	if g.Owner() != "mount-1" {
		t.Fatalf("owner = %q after foreign release, want mount-1", g.Owner())
	}
	content, _ := doc.Content("zone-a")
	if content == "" {
		t.Fatal("foreign release cleared the target")
	}

	g.Release("mount-1")
	if g.Owner() != "" {
		t.Fatalf("owner = %q after owner release, want unattached", g.Owner())
	}
	content, _ = doc.Content("zone-a")
	if content != "" {
		t.Fatalf("target not cleared on owner release: %q", content)
	}
}

func TestGuard_SelectionForwardsTargetValue(t *testing.T) {
	doc := host.NewMemDoc()
	doc.AddElement("zone-a")

	var libCall host.EntryCall
	doc.RegisterEntryPoint(testEntryName, func(call host.EntryCall) error {
		libCall = call
		return doc.SetContent(call.TargetID, "08032  Pickup Central")
	})
	g := NewGuard(doc, testEntryName)

	var gotLoc host.Location
	var gotValue string
	opts := Options{
		BrandID: "BDTEST",
		OnSelect: func(loc host.Location, v string) {
			gotLoc, gotValue = loc, v
		},
	}
	cfg, err := opts.Normalize()
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if err := g.Attach("mount-1", "zone-a", cfg); err != nil {
		t.Fatalf("Attach: %v", err)
	}

	// Simulate the user picking a shop inside the library.
	libCall.OnSelect(host.Location{ID: "08032", Name: "Pickup Central", Country: "FR"})

	if gotLoc.ID != "08032" || gotLoc.Name != "Pickup Central" {
		t.Fatalf("location not forwarded: %+v", gotLoc)
	}
	if gotValue != "08032  Pickup Central" {
		t.Fatalf("target value = %q", gotValue)
	}
}
