package internalpathutil

import (
	"fmt"
	"strings"

	watermarkserrors "github.com/leodido/watermarks/errors"
)

// Paths reach us from the host verbatim, so both Windows and POSIX separators are accepted whatever the current OS is.

func isSep(c byte) bool {
	return c == '/' || c == '\\'
}

func lastSep(p string) int {
	return strings.LastIndexAny(p, `/\`)
}

// Check rejects paths that no file system would accept.
func Check(p string) error {
	if strings.ContainsRune(p, 0) {
		return fmt.Errorf("%q: %w", p, watermarkserrors.ErrMalformedPath)
	}

	return nil
}

// Base returns the last element of p.
//
// A path ending with a separator has an empty base.
func Base(p string) string {
	return p[lastSep(p)+1:]
}

// Dir returns all but the last element of p.
func Dir(p string) string {
	i := lastSep(p)
	if i < 0 {
		return ""
	}
	if i == 0 {
		return p[:1]
	}
	// Keep the separator after a drive letter (eg., C:\)
	if i == 2 && p[1] == ':' {
		return p[:3]
	}

	return p[:i]
}

// IsAbs reports whether p is rooted, either POSIX style or with a drive letter.
func IsAbs(p string) bool {
	if p == "" {
		return false
	}
	if isSep(p[0]) {
		return true
	}

	return len(p) >= 2 && p[1] == ':'
}

// Join appends elem to root using the separator flavor of root.
//
// When elem is rooted it is returned as is.
func Join(root, elem string) string {
	if elem == "" {
		return root
	}
	if root == "" || IsAbs(elem) {
		return elem
	}
	if isSep(root[len(root)-1]) {
		return root + elem
	}

	sep := "/"
	if strings.Contains(root, `\`) && !strings.Contains(root, "/") {
		sep = `\`
	}

	return root + sep + elem
}

// HasPrefixFold tests whether p begins with prefix, ignoring case.
func HasPrefixFold(p, prefix string) bool {
	return len(p) >= len(prefix) && strings.EqualFold(p[:len(prefix)], prefix)
}

// Within tells whether p is root itself or lies below it, ignoring case.
//
// Unlike HasPrefixFold it only matches on element boundaries.
func Within(p, root string) bool {
	if root == "" || !HasPrefixFold(p, root) {
		return false
	}
	if len(p) == len(root) || isSep(root[len(root)-1]) {
		return true
	}

	return isSep(p[len(root)])
}

// TrimPrefixFold returns p without prefix when HasPrefixFold(p, prefix) holds.
func TrimPrefixFold(p, prefix string) (string, bool) {
	if !HasPrefixFold(p, prefix) {
		return p, false
	}

	return p[len(prefix):], true
}
