// Package style turns the persisted watermark style into concrete rendering attributes.
package style

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/leodido/watermarks"
	watermarkserrors "github.com/leodido/watermarks/errors"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Rendered is the resolved appearance of a text watermark.
type Rendered struct {
	FontSize      float64
	FontFamily    string
	Bold          bool
	Italic        bool
	Underline     bool
	StrikeThrough bool
	Foreground    colorful.Color
	Border        colorful.Color
	Background    colorful.Color
	Margin        float64
	Padding       float64
	Opacity       float64
}

type renderedJSON struct {
	FontSize      float64 `json:"fontSize"`
	FontFamily    string  `json:"fontFamily"`
	Bold          bool    `json:"bold,omitempty"`
	Italic        bool    `json:"italic,omitempty"`
	Underline     bool    `json:"underline,omitempty"`
	StrikeThrough bool    `json:"strikeThrough,omitempty"`
	Foreground    string  `json:"foreground"`
	Border        string  `json:"border"`
	Background    string  `json:"background"`
	Margin        float64 `json:"margin"`
	Padding       float64 `json:"padding"`
	Opacity       float64 `json:"opacity"`
}

// MarshalJSON renders the colors in their #rrggbb form.
func (r Rendered) MarshalJSON() ([]byte, error) {
	return json.Marshal(renderedJSON{
		FontSize:      r.FontSize,
		FontFamily:    r.FontFamily,
		Bold:          r.Bold,
		Italic:        r.Italic,
		Underline:     r.Underline,
		StrikeThrough: r.StrikeThrough,
		Foreground:    r.Foreground.Hex(),
		Border:        r.Border.Hex(),
		Background:    r.Background.Hex(),
		Margin:        r.Margin,
		Padding:       r.Padding,
		Opacity:       r.Opacity,
	})
}

// Default returns the rendering of the default style.
func Default() Rendered {
	r, _ := Apply(Rendered{}, watermarks.DefaultStyle())

	return r
}

// ParseColor accepts #RGB and #RRGGBB hex codes or CSS color names, in any case.
func ParseColor(value string) (colorful.Color, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return colorful.Color{}, fmt.Errorf("empty color: %w", watermarkserrors.ErrInvalidColor)
	}
	if strings.HasPrefix(v, "#") {
		c, err := colorful.Hex(strings.ToLower(v))
		if err != nil || (len(v) != 4 && len(v) != 7) {
			return colorful.Color{}, fmt.Errorf("malformed hex code: %w", watermarkserrors.ErrInvalidColor)
		}

		return c, nil
	}
	named, ok := colornames.Map[strings.ToLower(v)]
	if !ok {
		return colorful.Color{}, fmt.Errorf("unknown color name: %w", watermarkserrors.ErrInvalidColor)
	}
	c, _ := colorful.MakeColor(named)

	return c, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func checkFinite(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("not a finite number: %w", watermarkserrors.ErrInvalidStyle)
	}

	return nil
}

func positive(v float64) error {
	if err := checkFinite(v); err != nil {
		return err
	}
	if v <= 0 {
		return fmt.Errorf("must be greater than zero: %w", watermarkserrors.ErrInvalidStyle)
	}

	return nil
}

func nonNegative(v float64) error {
	if err := checkFinite(v); err != nil {
		return err
	}
	if v < 0 {
		return fmt.Errorf("must not be negative: %w", watermarkserrors.ErrInvalidStyle)
	}

	return nil
}

// Apply converts every attribute of s on top of prev.
//
// Attributes are independent: one that fails keeps its value from prev and
// contributes a *errors.StyleAttributeError, while the others are still applied.
func Apply(prev Rendered, s watermarks.Style) (Rendered, []error) {
	next := prev
	var errs []error
	fail := func(f watermarks.StyleField, value string, err error) {
		errs = append(errs, watermarkserrors.NewStyleAttributeError(f.String(), value, err))
	}

	if err := positive(s.TextSize); err != nil {
		fail(watermarks.FieldTextSize, formatFloat(s.TextSize), err)
	} else {
		next.FontSize = s.TextSize
	}

	if family := strings.TrimSpace(s.FontFamily); family == "" {
		fail(watermarks.FieldFontFamily, s.FontFamily, fmt.Errorf("empty font family: %w", watermarkserrors.ErrInvalidStyle))
	} else {
		next.FontFamily = family
	}

	next.Bold = s.Bold
	next.Italic = s.Italic
	next.Underline = s.Underline
	next.StrikeThrough = s.StrikeThrough

	colors := []struct {
		field watermarks.StyleField
		value string
		dst   *colorful.Color
	}{
		{watermarks.FieldTextColor, s.TextColor, &next.Foreground},
		{watermarks.FieldBorderColor, s.BorderColor, &next.Border},
		{watermarks.FieldBackgroundColor, s.BackgroundColor, &next.Background},
	}
	for _, c := range colors {
		parsed, err := ParseColor(c.value)
		if err != nil {
			fail(c.field, c.value, err)

			continue
		}
		*c.dst = parsed
	}

	if err := nonNegative(s.BorderMargin); err != nil {
		fail(watermarks.FieldBorderMargin, formatFloat(s.BorderMargin), err)
	} else {
		next.Margin = s.BorderMargin
	}

	if err := nonNegative(s.BorderPadding); err != nil {
		fail(watermarks.FieldBorderPadding, formatFloat(s.BorderPadding), err)
	} else {
		next.Padding = s.BorderPadding
	}

	if err := nonNegative(s.BorderOpacity); err != nil {
		fail(watermarks.FieldBorderOpacity, formatFloat(s.BorderOpacity), err)
	} else if s.BorderOpacity > 1 {
		fail(watermarks.FieldBorderOpacity, formatFloat(s.BorderOpacity), fmt.Errorf("must not exceed 1: %w", watermarkserrors.ErrInvalidStyle))
	} else {
		next.Opacity = s.BorderOpacity
	}

	return next, errs
}
