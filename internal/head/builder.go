// internal/head/builder.go
//
// The Builder collects everything that should appear inside the demo
// page's <head> element.  It is scoped to a single render call.  The one
// domain-specific helper, PickerAssets, registers the carrier stylesheet;
// the picker's scripts are deliberately NOT emitted here, because the
// coordinator injects them at mount time, exactly once per process.
//
// Features
// --------
//   - SetTitle           – single <title> tag (last call wins).
//   - Meta, Link, Script – arbitrary tags with deduplication.
//   - PickerAssets       – carrier stylesheet link, when configured.
//   - Render helpers     – concat methods that return template.HTML.
package head

import (
	"html/template"
	"strings"
	"sync"
)

// Builder is not safe for concurrent writes from multiple goroutines, but
// typical use is one goroutine per request, so a simple mutex is enough.
type Builder struct {
	mu sync.Mutex

	title string

	metas   []string
	links   []string
	scripts []string

	// seen tracks keys for deduplication.
	seen map[string]struct{}
}

func New() *Builder {
	return &Builder{seen: make(map[string]struct{})}
}

// SetTitle overrides the page <title>.  The last caller wins.
func (b *Builder) SetTitle(t string) {
	b.mu.Lock()
	b.title = t
	b.mu.Unlock()
}

// Title returns a fully formed <title> tag or an empty string.
func (b *Builder) Title() template.HTML {
	if b.title == "" {
		return ""
	}
	escaped := template.HTMLEscapeString(b.title)
	return template.HTML("<title>" + escaped + "</title>")
}

/*──────────────────────── slice helpers with dedup ─────────────────────────*/

func (b *Builder) Meta(tag string)   { b.add("meta:"+tag, &b.metas, tag) }
func (b *Builder) Link(tag string)   { b.add("link:"+tag, &b.links, tag) }
func (b *Builder) Script(tag string) { b.add("script:"+tag, &b.scripts, tag) }

// PickerAssets links the carrier stylesheet so the picker renders styled
// even before its scripts arrive.  Empty URL is a no-op.
func (b *Builder) PickerAssets(stylesheetURL string) {
	if stylesheetURL == "" {
		return
	}
	b.Link(`<link rel="stylesheet" href="` +
		template.HTMLEscapeString(stylesheetURL) + `">`)
}

func (b *Builder) add(key string, tgt *[]string, tag string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, dup := b.seen[key]; dup {
		return
	}
	b.seen[key] = struct{}{}
	*tgt = append(*tgt, tag)
}

/*──────────────────── rendering helpers for templates ──────────────────────*/

func (b *Builder) Metas() template.HTML   { return concat(b.metas) }
func (b *Builder) Links() template.HTML   { return concat(b.links) }
func (b *Builder) Scripts() template.HTML { return concat(b.scripts) }

// concat joins pre-escaped tags without a separator.
func concat(sl []string) template.HTML {
	return template.HTML(strings.Join(sl, ""))
}
