package domain

import "strings"

// SourceHandle is the public channel URL of one club.
// Handles are loaded once at startup and never mutated.
type SourceHandle string

// String returns the handle URL.
func (h SourceHandle) String() string {
	return string(h)
}

// Name returns the account name embedded in the URL,
// e.g. "ubcwics" for "https://www.instagram.com/ubcwics/".
func (h SourceHandle) Name() string {
	key := h.Key()
	if i := strings.LastIndex(key, "/"); i >= 0 {
		return key[i+1:]
	}
	return key
}

// Key returns a comparison form of the handle: lower case,
// without scheme, "www." prefix, query or trailing slashes.
func (h SourceHandle) Key() string {
	return SourceKey(string(h))
}

// SourceKey normalises an arbitrary link into the form used by SourceHandle.Key.
func SourceKey(link string) string {
	s := strings.ToLower(strings.TrimSpace(link))
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimRight(s, "/")
}
