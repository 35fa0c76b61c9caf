package fieldpath

import (
	"strconv"
	"strings"
)

// Join appends a child key to a parent address using the dotted path scheme
// shared with the form generator pipeline. Root keys stay bare.
func Join(parent, key string) string {
	parent = strings.TrimSpace(parent)
	key = strings.TrimSpace(key)
	if parent == "" {
		return key
	}
	if key == "" {
		return parent
	}
	return parent + "." + key
}

// Indexed addresses one element of a repeated fieldset, e.g. "authors[2]".
func Indexed(list string, index int) string {
	return strings.TrimSpace(list) + "[" + strconv.Itoa(index) + "]"
}

// LastSegment recovers the field key from a fully qualified address. Bracket
// indices are not treated as separators: the segment is taken relative to the
// most recent dot, then stripped of a trailing index, so "book.authors[2]"
// resolves to "authors". This is the inverse the registry relies on to map a
// live control back to its configuration.
func LastSegment(address string) string {
	segment := strings.TrimSpace(address)
	if idx := strings.LastIndex(segment, "."); idx >= 0 {
		segment = segment[idx+1:]
	}
	return stripIndex(segment)
}

// Segments splits an address on dots, keeping bracket indices attached to
// their segment: "book.authors[2]" yields ["book", "authors[2]"].
func Segments(address string) []string {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return nil
	}
	parts := strings.Split(trimmed, ".")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// Index extracts the positional index from an indexed segment. The second
// return is false when the segment carries no index.
func Index(segment string) (int, bool) {
	open := strings.LastIndex(segment, "[")
	if open < 0 || !strings.HasSuffix(segment, "]") {
		return 0, false
	}
	idx, err := strconv.Atoi(segment[open+1 : len(segment)-1])
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}

func stripIndex(segment string) string {
	open := strings.LastIndex(segment, "[")
	if open < 0 || !strings.HasSuffix(segment, "]") {
		return segment
	}
	if _, err := strconv.Atoi(segment[open+1 : len(segment)-1]); err != nil {
		return segment
	}
	return segment[:open]
}
