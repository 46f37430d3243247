package watermarks

import (
	"fmt"
	"strings"

	watermarkserrors "github.com/leodido/watermarks/errors"
	internalpathutil "github.com/leodido/watermarks/internal/pathutil"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// DecisionKind tells what the render target has to do.
type DecisionKind int

const (
	Hide DecisionKind = iota
	ShowText
	ShowImage
)

func (k DecisionKind) String() string {
	switch k {
	case ShowText:
		return "text"
	case ShowImage:
		return "image"
	default:
		return "hide"
	}
}

// Decision is the outcome of resolving the watermark for a file.
type Decision struct {
	Kind         DecisionKind `json:"-"`
	Text         string       `json:"text,omitempty"`
	ImagePath    string       `json:"image,omitempty"`
	Image        *ImageInfo   `json:"imageInfo,omitempty"`
	Style        Style        `json:"-"`
	Fingerprint  int32        `json:"fingerprint,omitempty"`
	PositionTop  bool         `json:"top"`
	PositionLeft bool         `json:"left"`
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithDiagnostics sets where failures are reported.
//
// Reports only happen when the settings ask for debug output.
func WithDiagnostics(d Diagnostics) ResolverOption {
	return func(r *Resolver) {
		r.diagnostics = d
	}
}

// WithLogger sets the logger used for debug traces.
func WithLogger(l *zap.Logger) ResolverOption {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithFs sets the file system used to look up watermark images.
func WithFs(fs afero.Fs) ResolverOption {
	return func(r *Resolver) {
		if fs != nil {
			r.fs = fs
		}
	}
}

// Resolver decides whether the watermark shows for a file and what it shows.
//
// Failures never escape it: they are reported and turn into a hidden watermark.
type Resolver struct {
	provider    SettingsProvider
	projects    ProjectLookup
	diagnostics Diagnostics
	logger      *zap.Logger
	fs          afero.Fs
}

// NewResolver creates a resolver reading the settings from provider and the projects from projects (which can be nil).
func NewResolver(provider SettingsProvider, projects ProjectLookup, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		provider: provider,
		projects: projects,
		logger:   zap.NewNop(),
		fs:       afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Resolver) settings() *Settings {
	if r.provider == nil {
		return nil
	}

	return r.provider.Settings()
}

// Report sends a failure to the diagnostics sink, if any and if the settings allow it.
func (r *Resolver) Report(message string, err error) {
	if err != nil {
		r.logger.Debug(message, zap.Error(err))
	} else {
		r.logger.Debug(message)
	}

	s := r.settings()
	if r.diagnostics == nil || s == nil || !s.ShowDebugOutput() {
		return
	}
	if err != nil {
		r.diagnostics.Write(fmt.Sprintf("%s: %s", message, err.Error()))

		return
	}
	r.diagnostics.Write(message)
}

// Visible tells whether filePath lies in one of the configured folders.
//
// Without folders everything is visible.
func (r *Resolver) Visible(filePath string) bool {
	s := r.settings()
	if s == nil {
		return false
	}
	visible, err := r.visible(s, filePath)
	if err != nil {
		r.Report("Unable to check the watermark folders", err)

		return false
	}

	return visible
}

func (r *Resolver) visible(s *Settings, filePath string) (bool, error) {
	if !s.HasFolders() {
		return true, nil
	}
	if filePath == "" {
		return false, nil
	}

	for _, folder := range s.AbsoluteFolders() {
		if internalpathutil.HasPrefixFold(filePath, folder) {
			return true, nil
		}
	}

	relative := s.RelativeFolders()
	if len(relative) == 0 {
		return false, nil
	}

	project, err := r.findProject(filePath)
	if err != nil {
		return false, err
	}
	for _, folder := range relative {
		if project != nil && project.Root != "" {
			if internalpathutil.HasPrefixFold(filePath, internalpathutil.Join(project.Root, folder)) {
				return true, nil
			}

			continue
		}

		root, err := r.miscProjectRoot(folder, filePath)
		if err != nil {
			return false, err
		}
		if root != "" {
			return true, nil
		}
	}

	return false, nil
}

func (r *Resolver) findProject(filePath string) (*Project, error) {
	if r.projects == nil {
		return nil, nil
	}
	project, err := r.projects.FindProject(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", watermarkserrors.ErrProjectLookup, err)
	}

	return project, nil
}

// miscProjectRoot returns the root of the first project whose folder contains filePath.
//
// It serves files that belong to no project.
func (r *Resolver) miscProjectRoot(folder, filePath string) (string, error) {
	if r.projects == nil {
		return "", nil
	}
	projects, err := r.projects.Projects()
	if err != nil {
		return "", fmt.Errorf("%w: %w", watermarkserrors.ErrProjectLookup, err)
	}
	for _, p := range projects {
		if p.Root == "" {
			continue
		}
		if internalpathutil.HasPrefixFold(filePath, internalpathutil.Join(p.Root, folder)) {
			return p.Root, nil
		}
	}

	return "", nil
}

// Resolve computes what to render for filePath.
func (r *Resolver) Resolve(filePath string) Decision {
	s := r.settings()
	if s == nil {
		r.logger.Debug("settings not loaded")

		return Decision{Kind: Hide}
	}
	if !s.Enabled() {
		r.logger.Debug("options not enabled")

		return Decision{Kind: Hide}
	}

	visible, err := r.visible(s, filePath)
	if err != nil {
		r.Report("Unable to check the watermark folders", err)

		return Decision{Kind: Hide}
	}
	if !visible {
		return Decision{Kind: Hide}
	}

	d := Decision{
		PositionTop:  s.PositionTop(),
		PositionLeft: s.PositionLeft(),
	}

	t := s.Template()
	if t.IsImage() {
		info, err := r.probeImage(t.ImagePath())
		if err != nil {
			r.Report("Unable to set image", err)

			return Decision{Kind: Hide}
		}
		d.Kind = ShowImage
		d.ImagePath = t.ImagePath()
		d.Image = info

		return d
	}

	text := r.text(s, filePath)
	if strings.TrimSpace(text) == "" {
		return Decision{Kind: Hide}
	}
	d.Kind = ShowText
	d.Text = text
	d.Style = s.Style()
	d.Fingerprint = s.Fingerprint()

	return d
}
