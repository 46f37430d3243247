package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/leodido/watermarks"
	"github.com/leodido/watermarks/presenter"
	"github.com/leodido/watermarks/style"
)

var _ presenter.RenderTarget = (*writerTarget)(nil)

// writerTarget prints every render command, one per line.
type writerTarget struct {
	mu     sync.Mutex
	w      io.Writer
	format Format
}

func newWriterTarget(w io.Writer, f Format) *writerTarget {
	return &writerTarget{w: w, format: f}
}

type renderLine struct {
	Op    string          `json:"op"`
	Text  string          `json:"text,omitempty"`
	Image string          `json:"image,omitempty"`
	Style *style.Rendered `json:"style,omitempty"`
	Top   *bool           `json:"top,omitempty"`
	Left  *bool           `json:"left,omitempty"`
}

func (t *writerTarget) emit(line renderLine, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.format == FormatText {
		fmt.Fprintln(t.w, text)

		return
	}
	// Structured output is one JSON document per line, whatever the structured format
	_ = json.NewEncoder(t.w).Encode(line)
}

func (t *writerTarget) Hide() {
	t.emit(renderLine{Op: "hide"}, "hide")
}

func (t *writerTarget) ShowText(text string) {
	t.emit(renderLine{Op: "text", Text: text}, "text: "+text)
}

func (t *writerTarget) ApplyStyle(r style.Rendered) {
	t.emit(renderLine{Op: "style", Style: &r}, fmt.Sprintf("style: %s %gpt %s on %s", r.FontFamily, r.FontSize, r.Foreground.Hex(), r.Background.Hex()))
}

func (t *writerTarget) ShowImage(path string) {
	t.emit(renderLine{Op: "image", Image: path}, "image: "+path)
}

func (t *writerTarget) Place(top, left bool) {
	vertical, horizontal := "bottom", "right"
	if top {
		vertical = "top"
	}
	if left {
		horizontal = "left"
	}
	t.emit(renderLine{Op: "place", Top: &top, Left: &left}, fmt.Sprintf("place: %s-%s", vertical, horizontal))
}

var _ watermarks.SettingsProvider = (*reloadingProvider)(nil)

// reloadingProvider hands out the latest loaded settings.
//
// Settings are replaced as a whole, never mutated, so readers on other goroutines see a consistent snapshot.
type reloadingProvider struct {
	current atomic.Pointer[watermarks.Settings]
}

func newReloadingProvider(s *watermarks.Settings) *reloadingProvider {
	p := &reloadingProvider{}
	p.current.Store(s)

	return p
}

func (p *reloadingProvider) Settings() *watermarks.Settings {
	return p.current.Load()
}

func (p *reloadingProvider) store(s *watermarks.Settings) {
	p.current.Store(s)
}
