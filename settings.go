package watermarks

// Settings is the configuration model of the watermark.
//
// It is meant to be mutated from a single goroutine, as the host does from its UI thread.
type Settings struct {
	enabled         bool
	positionTop     bool
	positionLeft    bool
	showDebugOutput bool

	relativeFolders *FolderSet
	absoluteFolders *FolderSet

	template Template
	style    Style

	fingerprint int32
}

// NewSettings returns settings holding the defaults.
func NewSettings() *Settings {
	return &Settings{
		relativeFolders: NewFolderSet("obj", "bin"),
		absoluteFolders: NewFolderSet(),
		template:        ParseTemplate(CurrentFilePathInProject),
		style:           DefaultStyle(),
	}
}

// Settings makes *Settings a SettingsProvider of itself.
func (s *Settings) Settings() *Settings {
	return s
}

// Enabled is the master switch.
func (s *Settings) Enabled() bool {
	return s.enabled
}

func (s *Settings) SetEnabled(enabled bool) {
	s.enabled = enabled
}

func (s *Settings) PositionTop() bool {
	return s.positionTop
}

func (s *Settings) SetPositionTop(top bool) {
	s.positionTop = top
}

func (s *Settings) PositionLeft() bool {
	return s.positionLeft
}

func (s *Settings) SetPositionLeft(left bool) {
	s.positionLeft = left
}

// ShowDebugOutput tells whether diagnostics reach the output pane.
func (s *Settings) ShowDebugOutput() bool {
	return s.showDebugOutput
}

func (s *Settings) SetShowDebugOutput(show bool) {
	s.showDebugOutput = show
}

// Folders serializes both folder sets back into a semicolon separated list.
//
// Relative folders come first, each with the ./ prefix.
func (s *Settings) Folders() string {
	return FormatFolders(s.relativeFolders.Entries(), s.absoluteFolders.Entries())
}

// SetFolders replaces both folder sets with the ones parsed from list.
func (s *Settings) SetFolders(list string) {
	relative, absolute := ParseFolders(list)

	s.relativeFolders.reset()
	s.absoluteFolders.reset()
	for _, r := range relative {
		s.relativeFolders.Add(r)
	}
	for _, a := range absolute {
		s.absoluteFolders.Add(a)
	}
}

// RelativeFolders returns the folders resolved against the owning project root.
func (s *Settings) RelativeFolders() []string {
	return s.relativeFolders.Entries()
}

// AbsoluteFolders returns the folders used as absolute path prefixes.
func (s *Settings) AbsoluteFolders() []string {
	return s.absoluteFolders.Entries()
}

// HasFolders tells whether any folder filter is configured.
func (s *Settings) HasFolders() bool {
	return s.relativeFolders.Len() > 0 || s.absoluteFolders.Len() > 0
}

// Text returns the displayed text as typed.
func (s *Settings) Text() string {
	return s.template.Raw()
}

// SetText assigns the displayed text and recomputes everything derived from it.
func (s *Settings) SetText(text string) {
	s.template = ParseTemplate(text)
}

// Template returns the parsed displayed text.
func (s *Settings) Template() Template {
	return s.template
}

// Style returns a copy of the style attributes.
func (s *Settings) Style() Style {
	return s.style
}

// UpdateStyle applies fn to a copy of the style and stores the result.
//
// It returns the fields that changed. The fingerprint is reset when any of them invalidates it.
func (s *Settings) UpdateStyle(fn func(*Style)) []StyleField {
	next := s.style
	fn(&next)

	changed := s.style.Changes(next)
	s.style = next
	for _, f := range changed {
		if InvalidatesFingerprint(f) {
			s.fingerprint = 0

			break
		}
	}

	return changed
}

func (s *Settings) SetTextSize(size float64) {
	s.UpdateStyle(func(st *Style) { st.TextSize = size })
}

func (s *Settings) SetFontFamily(name string) {
	s.UpdateStyle(func(st *Style) { st.FontFamily = name })
}

func (s *Settings) SetBold(bold bool) {
	s.UpdateStyle(func(st *Style) { st.Bold = bold })
}

func (s *Settings) SetItalic(italic bool) {
	s.UpdateStyle(func(st *Style) { st.Italic = italic })
}

func (s *Settings) SetUnderline(underline bool) {
	s.UpdateStyle(func(st *Style) { st.Underline = underline })
}

func (s *Settings) SetStrikeThrough(strike bool) {
	s.UpdateStyle(func(st *Style) { st.StrikeThrough = strike })
}

func (s *Settings) SetTextColor(color string) {
	s.UpdateStyle(func(st *Style) { st.TextColor = color })
}

func (s *Settings) SetBorderColor(color string) {
	s.UpdateStyle(func(st *Style) { st.BorderColor = color })
}

func (s *Settings) SetBackgroundColor(color string) {
	s.UpdateStyle(func(st *Style) { st.BackgroundColor = color })
}

func (s *Settings) SetBorderMargin(margin float64) {
	s.UpdateStyle(func(st *Style) { st.BorderMargin = margin })
}

func (s *Settings) SetBorderPadding(padding float64) {
	s.UpdateStyle(func(st *Style) { st.BorderPadding = padding })
}

func (s *Settings) SetBorderOpacity(opacity float64) {
	s.UpdateStyle(func(st *Style) { st.BorderOpacity = opacity })
}

// Fingerprint summarizes the style so that renderers can skip re-applying an unchanged one.
//
// It is computed lazily and cached until an invalidating style mutation.
// A fold landing exactly on 0 is simply recomputed next time.
func (s *Settings) Fingerprint() int32 {
	if s.fingerprint != 0 {
		return s.fingerprint
	}
	s.fingerprint = s.style.hash()

	return s.fingerprint
}
