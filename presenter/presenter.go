// Package presenter drives a render target from document and settings events.
package presenter

import (
	"context"

	"github.com/leodido/watermarks"
	"github.com/leodido/watermarks/style"
	"go.uber.org/zap"
)

// EventKind is what happened to the watched document.
type EventKind int

const (
	// DocumentShown tells a document, named by the event path, is now displayed.
	DocumentShown EventKind = iota
	// AttributeChanged tells a display attribute of the document changed.
	AttributeChanged
	// ViewportResized tells the viewport size changed.
	ViewportResized
	// SettingsChanged tells the watermark settings were saved.
	SettingsChanged
)

func (k EventKind) String() string {
	switch k {
	case DocumentShown:
		return "document-shown"
	case AttributeChanged:
		return "attribute-changed"
	case ViewportResized:
		return "viewport-resized"
	case SettingsChanged:
		return "settings-changed"
	default:
		return "unknown"
	}
}

// Event triggers a fresh watermark decision.
type Event struct {
	Kind     EventKind
	FilePath string
}

// RenderTarget is where the watermark is drawn.
type RenderTarget interface {
	Hide()
	ShowText(text string)
	ApplyStyle(r style.Rendered)
	ShowImage(path string)
	Place(top, left bool)
}

// Option configures a Presenter.
type Option func(*Presenter)

// WithLogger sets the logger used for event traces.
func WithLogger(l *zap.Logger) Option {
	return func(p *Presenter) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithQueueSize sets how many events can wait for Run.
func WithQueueSize(n int) Option {
	return func(p *Presenter) {
		if n >= 0 {
			p.events = make(chan Event, n)
		}
	}
}

// Presenter renders the watermark of a single document.
//
// Events are handled one at a time; each one recomputes the decision from scratch.
type Presenter struct {
	resolver *watermarks.Resolver
	target   RenderTarget
	logger   *zap.Logger
	events   chan Event

	filePath string
	rendered style.Rendered
	applied  int32
}

// New creates a presenter drawing on target the decisions of resolver.
func New(resolver *watermarks.Resolver, target RenderTarget, opts ...Option) *Presenter {
	p := &Presenter{
		resolver: resolver,
		target:   target,
		logger:   zap.NewNop(),
		events:   make(chan Event, 16),
		rendered: style.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Notify queues e for Run.
//
// It blocks while the queue is full, until ctx is done.
func (p *Presenter) Notify(ctx context.Context, e Event) error {
	select {
	case p.events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run handles the queued events until ctx is done.
func (p *Presenter) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e := <-p.events:
			p.Refresh(e)
		}
	}
}

// Refresh handles e synchronously and returns the decision it rendered.
//
// It must not be called while Run is running.
func (p *Presenter) Refresh(e Event) watermarks.Decision {
	if e.Kind == DocumentShown {
		p.filePath = e.FilePath
	}
	p.logger.Debug("refreshing the watermark", zap.Stringer("event", e.Kind), zap.String("path", p.filePath))

	d := p.resolver.Resolve(p.filePath)
	switch d.Kind {
	case watermarks.ShowImage:
		p.target.ShowImage(d.ImagePath)
	case watermarks.ShowText:
		p.applyStyle(d)
		p.target.ShowText(d.Text)
	default:
		p.target.Hide()

		return d
	}
	p.target.Place(d.PositionTop, d.PositionLeft)

	return d
}

// applyStyle pushes the style to the target when its fingerprint is not the applied one.
//
// A style with failing attributes is pushed anyway but is not marked as applied.
func (p *Presenter) applyStyle(d watermarks.Decision) {
	if d.Fingerprint == p.applied {
		return
	}

	rendered, errs := style.Apply(p.rendered, d.Style)
	for _, err := range errs {
		p.resolver.Report("Unable to apply the watermark style", err)
	}
	p.rendered = rendered
	p.target.ApplyStyle(rendered)
	if len(errs) == 0 {
		p.applied = d.Fingerprint
	}
}

// Applied returns the fingerprint of the last style fully applied, zero when none was.
func (p *Presenter) Applied() int32 {
	return p.applied
}
