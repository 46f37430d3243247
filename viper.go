package watermarks

import (
	"context"
	"fmt"

	"github.com/go-playground/mold/v4/modifiers"
	"github.com/go-playground/validator/v10"
	watermarkserrors "github.com/leodido/watermarks/errors"
	internalhooks "github.com/leodido/watermarks/internal/hooks"
	"github.com/spf13/viper"
)

// Setting keys, as stored by the host.
const (
	KeyEnabled         = "enabled"
	KeyFolders         = "folders"
	KeyPositionTop     = "positiontop"
	KeyPositionLeft    = "positionleft"
	KeyText            = "text"
	KeyTextSize        = "textsize"
	KeyFontFamily      = "fontfamily"
	KeyBold            = "bold"
	KeyItalic          = "italic"
	KeyUnderline       = "underline"
	KeyStrikeThrough   = "strikethrough"
	KeyTextColor       = "textcolor"
	KeyBorderColor     = "bordercolor"
	KeyBackgroundColor = "backgroundcolor"
	KeyBorderMargin    = "bordermargin"
	KeyBorderPadding   = "borderpadding"
	KeyBorderOpacity   = "borderopacity"
	KeyShowDebugOutput = "showdebugoutput"
)

var (
	_ ValidatableOptions   = (*Record)(nil)
	_ TransformableOptions = (*Record)(nil)
)

// Record is the flat, persisted form of Settings.
type Record struct {
	Enabled         bool                     `mapstructure:"enabled" json:"enabled"`
	Folders         internalhooks.FolderList `mapstructure:"folders" json:"folders" mod:"trim"`
	PositionTop     bool                     `mapstructure:"positiontop" json:"positionTop"`
	PositionLeft    bool                     `mapstructure:"positionleft" json:"positionLeft"`
	Text            string                   `mapstructure:"text" json:"text"`
	TextSize        float64                  `mapstructure:"textsize" json:"textSize" validate:"gt=0"`
	FontFamily      string                   `mapstructure:"fontfamily" json:"fontFamily" mod:"trim" validate:"required"`
	Bold            bool                     `mapstructure:"bold" json:"bold"`
	Italic          bool                     `mapstructure:"italic" json:"italic"`
	Underline       bool                     `mapstructure:"underline" json:"underline"`
	StrikeThrough   bool                     `mapstructure:"strikethrough" json:"strikeThrough"`
	TextColor       string                   `mapstructure:"textcolor" json:"textColor" mod:"trim"`
	BorderColor     string                   `mapstructure:"bordercolor" json:"borderColor" mod:"trim"`
	BackgroundColor string                   `mapstructure:"backgroundcolor" json:"backgroundColor" mod:"trim"`
	BorderMargin    float64                  `mapstructure:"bordermargin" json:"borderMargin" validate:"gte=0"`
	BorderPadding   float64                  `mapstructure:"borderpadding" json:"borderPadding" validate:"gte=0"`
	BorderOpacity   float64                  `mapstructure:"borderopacity" json:"borderOpacity" validate:"gte=0,lte=1"`
	ShowDebugOutput bool                     `mapstructure:"showdebugoutput" json:"showDebugOutput"`
}

// Record returns the persisted form of s.
func (s *Settings) Record() Record {
	st := s.Style()

	return Record{
		Enabled:         s.Enabled(),
		Folders:         internalhooks.FolderList(s.Folders()),
		PositionTop:     s.PositionTop(),
		PositionLeft:    s.PositionLeft(),
		Text:            s.Text(),
		TextSize:        st.TextSize,
		FontFamily:      st.FontFamily,
		Bold:            st.Bold,
		Italic:          st.Italic,
		Underline:       st.Underline,
		StrikeThrough:   st.StrikeThrough,
		TextColor:       st.TextColor,
		BorderColor:     st.BorderColor,
		BackgroundColor: st.BackgroundColor,
		BorderMargin:    st.BorderMargin,
		BorderPadding:   st.BorderPadding,
		BorderOpacity:   st.BorderOpacity,
		ShowDebugOutput: s.ShowDebugOutput(),
	}
}

// Apply writes every value of r into s through its setters.
func (r Record) Apply(s *Settings) {
	s.SetEnabled(r.Enabled)
	s.SetFolders(string(r.Folders))
	s.SetPositionTop(r.PositionTop)
	s.SetPositionLeft(r.PositionLeft)
	s.SetText(r.Text)
	s.UpdateStyle(func(st *Style) {
		st.TextSize = r.TextSize
		st.FontFamily = r.FontFamily
		st.Bold = r.Bold
		st.Italic = r.Italic
		st.Underline = r.Underline
		st.StrikeThrough = r.StrikeThrough
		st.TextColor = r.TextColor
		st.BorderColor = r.BorderColor
		st.BackgroundColor = r.BackgroundColor
		st.BorderMargin = r.BorderMargin
		st.BorderPadding = r.BorderPadding
		st.BorderOpacity = r.BorderOpacity
	})
	s.SetShowDebugOutput(r.ShowDebugOutput)
}

// Transform trims the free text values.
func (r *Record) Transform(ctx context.Context) error {
	return modifiers.New().Struct(ctx, r)
}

// Validate checks the numeric ranges and the mandatory values.
func (r *Record) Validate(ctx context.Context) []error {
	var errs []error
	err := validator.New().StructCtx(ctx, r)
	if err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range validationErrs {
				errs = append(errs, fieldErr)
			}
		} else {
			errs = append(errs, fmt.Errorf("validator.Struct() failed unexpectedly: %w", err))
		}
	}
	if len(errs) == 0 {
		return nil
	}

	return errs
}

// SetDefaults registers the default of every setting key into v.
func SetDefaults(v *viper.Viper) {
	d := NewSettings().Record()

	v.SetDefault(KeyEnabled, d.Enabled)
	v.SetDefault(KeyFolders, string(d.Folders))
	v.SetDefault(KeyPositionTop, d.PositionTop)
	v.SetDefault(KeyPositionLeft, d.PositionLeft)
	v.SetDefault(KeyText, d.Text)
	v.SetDefault(KeyTextSize, d.TextSize)
	v.SetDefault(KeyFontFamily, d.FontFamily)
	v.SetDefault(KeyBold, d.Bold)
	v.SetDefault(KeyItalic, d.Italic)
	v.SetDefault(KeyUnderline, d.Underline)
	v.SetDefault(KeyStrikeThrough, d.StrikeThrough)
	v.SetDefault(KeyTextColor, d.TextColor)
	v.SetDefault(KeyBorderColor, d.BorderColor)
	v.SetDefault(KeyBackgroundColor, d.BackgroundColor)
	v.SetDefault(KeyBorderMargin, d.BorderMargin)
	v.SetDefault(KeyBorderPadding, d.BorderPadding)
	v.SetDefault(KeyBorderOpacity, d.BorderOpacity)
	v.SetDefault(KeyShowDebugOutput, d.ShowDebugOutput)
}

// Load decodes, normalizes and validates the settings held by v.
//
// Keys missing from v keep their defaults.
func Load(ctx context.Context, v *viper.Viper) (*Settings, error) {
	SetDefaults(v)

	var rec Record
	if err := v.Unmarshal(&rec, viper.DecodeHook(internalhooks.Compose())); err != nil {
		return nil, fmt.Errorf("couldn't decode the watermark settings: %w", err)
	}

	if err := rec.Transform(ctx); err != nil {
		return nil, fmt.Errorf("couldn't normalize the watermark settings: %w", err)
	}
	if errs := rec.Validate(ctx); errs != nil {
		return nil, &watermarkserrors.ValidationError{
			Source: v.ConfigFileUsed(),
			Errors: errs,
		}
	}

	s := NewSettings()
	rec.Apply(s)

	return s, nil
}

// Save writes every setting of s into v.
//
// Persisting v (eg., v.WriteConfig) is up to the caller.
func Save(v *viper.Viper, s *Settings) {
	r := s.Record()

	v.Set(KeyEnabled, r.Enabled)
	v.Set(KeyFolders, string(r.Folders))
	v.Set(KeyPositionTop, r.PositionTop)
	v.Set(KeyPositionLeft, r.PositionLeft)
	v.Set(KeyText, r.Text)
	v.Set(KeyTextSize, r.TextSize)
	v.Set(KeyFontFamily, r.FontFamily)
	v.Set(KeyBold, r.Bold)
	v.Set(KeyItalic, r.Italic)
	v.Set(KeyUnderline, r.Underline)
	v.Set(KeyStrikeThrough, r.StrikeThrough)
	v.Set(KeyTextColor, r.TextColor)
	v.Set(KeyBorderColor, r.BorderColor)
	v.Set(KeyBackgroundColor, r.BackgroundColor)
	v.Set(KeyBorderMargin, r.BorderMargin)
	v.Set(KeyBorderPadding, r.BorderPadding)
	v.Set(KeyBorderOpacity, r.BorderOpacity)
	v.Set(KeyShowDebugOutput, r.ShowDebugOutput)
}
