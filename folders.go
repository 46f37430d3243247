package watermarks

import (
	"strings"

	"golang.org/x/exp/slices"
)

const (
	folderSep      = ";"
	relativePrefix = "./"
)

// FolderSet is an insertion-ordered set of folders where membership ignores case.
type FolderSet struct {
	entries []string
	keys    map[string]struct{}
}

// NewFolderSet creates a set with the given entries, duplicates (ignoring case) dropped.
func NewFolderSet(entries ...string) *FolderSet {
	s := &FolderSet{keys: make(map[string]struct{}, len(entries))}
	for _, e := range entries {
		s.Add(e)
	}

	return s
}

// Add inserts entry unless an entry equal to it ignoring case is already there.
func (s *FolderSet) Add(entry string) bool {
	if s.contains(entry) {
		return false
	}
	s.keys[strings.ToLower(entry)] = struct{}{}
	s.entries = append(s.entries, entry)

	return true
}

// contains reports whether entry is in the set, ignoring case.
func (s *FolderSet) contains(entry string) bool {
	_, ok := s.keys[strings.ToLower(entry)]

	return ok
}

// Len returns the number of folders.
func (s *FolderSet) Len() int {
	return len(s.entries)
}

// Entries returns a copy of the folders in insertion order.
func (s *FolderSet) Entries() []string {
	return slices.Clone(s.entries)
}

func (s *FolderSet) reset() {
	s.entries = s.entries[:0]
	clear(s.keys)
}

// isRelativeFolder tells whether entry is written relative to the project root (./x or .\x).
func isRelativeFolder(entry string) bool {
	return strings.HasPrefix(entry, "./") || strings.HasPrefix(entry, `.\`)
}

// ParseFolders splits a semicolon separated folder list into relative and absolute folders.
//
// Empty entries are discarded and relative entries lose their two-character prefix.
func ParseFolders(list string) (relative, absolute []string) {
	for _, entry := range strings.Split(list, folderSep) {
		if entry == "" {
			continue
		}
		if isRelativeFolder(entry) {
			relative = append(relative, entry[len(relativePrefix):])

			continue
		}
		absolute = append(absolute, entry)
	}

	return relative, absolute
}

// FormatFolders is the inverse of ParseFolders: relative folders get the ./ prefix back and precede absolute ones.
func FormatFolders(relative, absolute []string) string {
	parts := make([]string, 0, len(relative)+len(absolute))
	for _, r := range relative {
		parts = append(parts, relativePrefix+r)
	}
	parts = append(parts, absolute...)

	return strings.Join(parts, folderSep)
}
