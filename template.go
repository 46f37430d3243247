package watermarks

import (
	"strings"
)

// Placeholder tokens recognized (case-insensitively) in the displayed text.
const (
	CurrentFileName          = "${currentfilename}"
	CurrentDirectoryName     = "${currentdirectoryname}"
	CurrentProjectName       = "${currentprojectname}"
	CurrentFilePathInProject = "${currentfilepathinproject}"
)

// ImagePrefix marks a displayed text that is the path of an image to show instead of text.
const ImagePrefix = "IMG:"

// Token identifies a placeholder.
type Token int

const (
	TokenFileName Token = iota
	TokenDirectoryName
	TokenProjectName
	TokenFilePathInProject
	numTokens
)

// Scan order matters: it is the order in which replacements happen.
var tokens = [numTokens]string{
	TokenFileName:          CurrentFileName,
	TokenDirectoryName:     CurrentDirectoryName,
	TokenProjectName:       CurrentProjectName,
	TokenFilePathInProject: CurrentFilePathInProject,
}

// String returns the canonical (lowercase) spelling of the token.
func (t Token) String() string {
	if t < 0 || t >= numTokens {
		return ""
	}

	return tokens[t]
}

// Tokens returns every placeholder token in scan order.
func Tokens() []Token {
	return []Token{TokenFileName, TokenDirectoryName, TokenProjectName, TokenFilePathInProject}
}

// Template is the displayed text together with everything derived from it at assignment time.
//
// The zero value is an empty text template.
type Template struct {
	raw       string
	lower     string
	format    string
	image     bool
	imagePath string
	uses      [numTokens]bool
	usesAny   bool
}

// ParseTemplate derives image mode, the lowercase form, the replacement format and the token flags from text.
func ParseTemplate(text string) Template {
	t := Template{raw: text}

	if strings.HasPrefix(text, ImagePrefix) {
		t.image = true
		t.imagePath = text[len(ImagePrefix):]
	}

	t.lower = lowerASCII(text)
	t.format = text
	for i, token := range tokens {
		var found bool
		t.format, found = canonicalize(t.format, t.lower, token)
		t.uses[i] = found
		t.usesAny = t.usesAny || found
	}

	return t
}

// canonicalize rewrites every case-insensitive occurrence of token in text with its lowercase spelling.
//
// The scan walks left to right over lower with a cursor that moves past each match, so each lookup only sees the unprocessed tail.
func canonicalize(text, lower, token string) (string, bool) {
	var sb strings.Builder
	found := false
	cursor := 0
	for {
		i := strings.Index(lower[cursor:], token)
		if i < 0 {
			break
		}
		found = true
		sb.WriteString(text[cursor : cursor+i])
		sb.WriteString(token)
		cursor += i + len(token)
	}
	if !found {
		return text, false
	}
	sb.WriteString(text[cursor:])

	return sb.String(), true
}

// lowerASCII folds ASCII letters only.
//
// Tokens are ASCII, and keeping the byte length unchanged keeps offsets in the lowercase form valid for the raw text.
func lowerASCII(s string) string {
	b := []byte(s)
	changed := false
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
			changed = true
		}
	}
	if !changed {
		return s
	}

	return string(b)
}

// Raw returns the text as the user typed it.
func (t Template) Raw() string {
	return t.raw
}

// Lower returns the lowercase form used for token lookup.
func (t Template) Lower() string {
	return t.lower
}

// Format returns the text with every token spelled in lowercase, ready for replacement.
func (t Template) Format() string {
	return t.format
}

// IsImage tells whether the template points to an image.
func (t Template) IsImage() bool {
	return t.image
}

// ImagePath returns the image path, empty in text mode.
func (t Template) ImagePath() string {
	return t.imagePath
}

// Uses tells whether the template contains tok.
func (t Template) Uses(tok Token) bool {
	if tok < 0 || tok >= numTokens {
		return false
	}

	return t.uses[tok]
}

// UsesAny tells whether at least one token needs replacing.
func (t Template) UsesAny() bool {
	return t.usesAny
}
