// internal/host/memdoc_test.go
//
// Unit-tests for the in-memory document.
//
// Run: go test ./internal/host -v

package host

import (
	"context"
	"errors"
	"testing"
)

func TestMemDoc_ElementOps(t *testing.T) {
	d := NewMemDoc()
	d.AddElement("zone")

	if err := d.SetContent("zone", "hello"); err != nil {
		t.Fatalf("SetContent: %v", err)
	}
	got, err := d.Content("zone")
	if err != nil || got != "hello" {
		t.Fatalf("Content = %q, %v", got, err)
	}
	if err := d.ClearContent("zone"); err != nil {
		t.Fatalf("ClearContent: %v", err)
	}
	if got, _ := d.Content("zone"); got != "" {
		t.Fatalf("content after clear = %q", got)
	}

	if _, err := d.Content("missing"); !errors.Is(err, ErrNoElement) {
		t.Fatalf("missing element: err = %v, want ErrNoElement", err)
	}
	if err := d.SetContent("missing", "x"); !errors.Is(err, ErrNoElement) {
		t.Fatalf("missing element: err = %v, want ErrNoElement", err)
	}
}

func TestMemDoc_InjectScriptRunsLoadHooks(t *testing.T) {
	d := NewMemDoc(WithFetcher(func(context.Context, string) error { return nil }))

	d.OnScriptLoad("https://cdn.example.test/widget.js", func(doc *MemDoc) {
		doc.RegisterEntryPoint("pickupWidget", func(EntryCall) error { return nil })
	})

	if _, ok := d.EntryPoint("pickupWidget"); ok {
		t.Fatal("entry point registered before load")
	}
	if err := d.InjectScript(context.Background(), "https://cdn.example.test/widget.js"); err != nil {
		t.Fatalf("InjectScript: %v", err)
	}
	if !d.ScriptLoaded("https://cdn.example.test/widget.js") {
		t.Fatal("script not marked loaded")
	}
	if _, ok := d.EntryPoint("pickupWidget"); !ok {
		t.Fatal("entry point missing after load")
	}
}

func TestMemDoc_InjectScriptFailureRunsNoHooks(t *testing.T) {
	boom := errors.New("unreachable")
	d := NewMemDoc(WithFetcher(func(context.Context, string) error { return boom }))

	ran := false
	d.OnScriptLoad("https://cdn.example.test/widget.js", func(*MemDoc) { ran = true })

	err := d.InjectScript(context.Background(), "https://cdn.example.test/widget.js")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want fetch failure", err)
	}
	if ran {
		t.Fatal("load hook ran on failed load")
	}
	if d.ScriptLoaded("https://cdn.example.test/widget.js") {
		t.Fatal("failed script marked loaded")
	}
}
