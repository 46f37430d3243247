package watermarks

import (
	"hash/fnv"
	"math"
)

// Style holds the presentation attributes of a text watermark.
type Style struct {
	TextSize        float64
	FontFamily      string
	Bold            bool
	Italic          bool
	Underline       bool
	StrikeThrough   bool
	TextColor       string
	BorderColor     string
	BackgroundColor string
	BorderMargin    float64
	BorderPadding   float64
	BorderOpacity   float64
}

// DefaultStyle returns the style used until the user changes something.
func DefaultStyle() Style {
	return Style{
		TextSize:        16,
		FontFamily:      "Consolas",
		TextColor:       "Red",
		BorderColor:     "Gray",
		BackgroundColor: "White",
		BorderMargin:    10,
		BorderPadding:   3,
		BorderOpacity:   0.7,
	}
}

// StyleField names a single Style attribute.
type StyleField int

const (
	FieldTextSize StyleField = iota
	FieldFontFamily
	FieldBold
	FieldItalic
	FieldUnderline
	FieldStrikeThrough
	FieldTextColor
	FieldBorderColor
	FieldBackgroundColor
	FieldBorderMargin
	FieldBorderPadding
	FieldBorderOpacity
)

var styleFieldNames = map[StyleField]string{
	FieldTextSize:        "text size",
	FieldFontFamily:      "font family",
	FieldBold:            "bold",
	FieldItalic:          "italic",
	FieldUnderline:       "underline",
	FieldStrikeThrough:   "strike through",
	FieldTextColor:       "text color",
	FieldBorderColor:     "border color",
	FieldBackgroundColor: "background color",
	FieldBorderMargin:    "margin",
	FieldBorderPadding:   "padding",
	FieldBorderOpacity:   "opacity",
}

func (f StyleField) String() string {
	return styleFieldNames[f]
}

// fingerprintInvalidation tells which mutations reset the cached fingerprint.
//
// Margin takes part in the fingerprint but changing it keeps a cached one, unlike padding.
var fingerprintInvalidation = map[StyleField]bool{
	FieldTextSize:        true,
	FieldFontFamily:      true,
	FieldBold:            true,
	FieldItalic:          true,
	FieldUnderline:       true,
	FieldStrikeThrough:   true,
	FieldTextColor:       true,
	FieldBorderColor:     true,
	FieldBackgroundColor: true,
	FieldBorderMargin:    false,
	FieldBorderPadding:   true,
	FieldBorderOpacity:   true,
}

// InvalidatesFingerprint reports whether changing f resets the settings fingerprint.
func InvalidatesFingerprint(f StyleField) bool {
	return fingerprintInvalidation[f]
}

// Changes lists the fields whose value differs between s and other.
func (s Style) Changes(other Style) []StyleField {
	var changed []StyleField
	diff := func(f StyleField, differs bool) {
		if differs {
			changed = append(changed, f)
		}
	}
	diff(FieldTextSize, s.TextSize != other.TextSize)
	diff(FieldFontFamily, s.FontFamily != other.FontFamily)
	diff(FieldBold, s.Bold != other.Bold)
	diff(FieldItalic, s.Italic != other.Italic)
	diff(FieldUnderline, s.Underline != other.Underline)
	diff(FieldStrikeThrough, s.StrikeThrough != other.StrikeThrough)
	diff(FieldTextColor, s.TextColor != other.TextColor)
	diff(FieldBorderColor, s.BorderColor != other.BorderColor)
	diff(FieldBackgroundColor, s.BackgroundColor != other.BackgroundColor)
	diff(FieldBorderMargin, s.BorderMargin != other.BorderMargin)
	diff(FieldBorderPadding, s.BorderPadding != other.BorderPadding)
	diff(FieldBorderOpacity, s.BorderOpacity != other.BorderOpacity)

	return changed
}

// hash folds the fingerprinted attributes, in a fixed order, with the 17/31 polynomial.
func (s Style) hash() int32 {
	return combineHashes(
		hashFloat(s.TextSize),
		hashString(s.FontFamily),
		hashBool(s.Bold),
		hashBool(s.Italic),
		hashBool(s.Underline),
		hashBool(s.StrikeThrough),
		hashString(s.TextColor),
		hashString(s.BorderColor),
		hashString(s.BackgroundColor),
		hashFloat(s.BorderMargin),
		hashFloat(s.BorderPadding),
		hashFloat(s.BorderOpacity),
	)
}

func combineHashes(hashes ...int32) int32 {
	combined := int32(17)
	for _, h := range hashes {
		combined = combined*31 + h
	}

	return combined
}

func hashFloat(v float64) int32 {
	bits := math.Float64bits(v)

	return int32(uint32(bits) ^ uint32(bits>>32))
}

func hashBool(v bool) int32 {
	if v {
		return 1
	}

	return 0
}

func hashString(v string) int32 {
	h := fnv.New32a()
	h.Write([]byte(v))

	return int32(h.Sum32())
}
