// Package text16 measures and slices strings in UTF-16 code units.
//
// Block text is stored as Go strings, but every offset the editor exchanges
// with the browser counts UTF-16 code units, so all offset arithmetic in the
// engine goes through this package.
package text16

import (
	"unicode/utf16"
	"unicode/utf8"
)

// Len returns the number of UTF-16 code units needed to encode s.
func Len(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 && r <= utf8.MaxRune {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// Units encodes s as UTF-16 code units.
func Units(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

// String decodes UTF-16 code units back into a string.
func String(u []uint16) string {
	return string(utf16.Decode(u))
}

// Slice returns the part of s between the UTF-16 offsets start and end.
// Offsets are clamped to [0, Len(s)].
func Slice(s string, start, end int) string {
	u := Units(s)
	start = Clamp(start, 0, len(u))
	end = Clamp(end, start, len(u))
	return String(u[start:end])
}

// Splice replaces the UTF-16 range [start, end) of s with insert.
func Splice(s string, start, end int, insert string) string {
	u := Units(s)
	start = Clamp(start, 0, len(u))
	end = Clamp(end, start, len(u))
	out := make([]uint16, 0, len(u)-(end-start)+Len(insert))
	out = append(out, u[:start]...)
	out = append(out, Units(insert)...)
	out = append(out, u[end:]...)
	return String(out)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
