// Package textscan provides the low-level byte and text primitives used by
// the container blob locators: endian integer readers, NUL-terminated string
// splitting, packed UTF-16LE recovery, and an embedded-JSON scanner.
package textscan

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
)

var ErrShortRead = errors.New("textscan: not enough bytes")

// Uint32BE reads a big-endian uint32 at offset.
func Uint32BE(data []byte, offset int) (uint32, error) {
	if offset < 0 || offset+4 > len(data) {
		return 0, ErrShortRead
	}
	return binary.BigEndian.Uint32(data[offset:]), nil
}

// Uint32LE reads a little-endian uint32 at offset.
func Uint32LE(data []byte, offset int) (uint32, error) {
	if offset < 0 || offset+4 > len(data) {
		return 0, ErrShortRead
	}
	return binary.LittleEndian.Uint32(data[offset:]), nil
}

// Uint16LE reads a little-endian uint16 at offset.
func Uint16LE(data []byte, offset int) (uint16, error) {
	if offset < 0 || offset+2 > len(data) {
		return 0, ErrShortRead
	}
	return binary.LittleEndian.Uint16(data[offset:]), nil
}

// SplitNul splits data at the first NUL byte. The second return is false
// when no NUL is present.
func SplitNul(data []byte) (before []byte, after []byte, ok bool) {
	idx := bytes.IndexByte(data, 0)
	if idx == -1 {
		return data, nil, false
	}
	return data[:idx], data[idx+1:], true
}

// unicodePrefix is the EXIF character-code header that precedes packed
// UTF-16 user comments: "UNICODE", a NUL terminator, and one pad byte.
var unicodePrefix = []byte("UNICODE\x00")

// minPackedLen is the smallest byte count DecodeUTF16Packed will accept.
// Anything shorter cannot hold a prefix plus at least one character.
const minPackedLen = 10

// DecodeUTF16Packed recovers text from a packed UTF-16LE byte run as found
// in EXIF UserComment fields. When the buffer starts with the UNICODE
// character-code header, the header and its pad byte are skipped. Only the
// even-indexed bytes (the UTF-16LE low bytes) are kept. Buffers shorter
// than the minimum are rejected rather than decoded.
func DecodeUTF16Packed(data []byte) (string, bool) {
	if len(data) < minPackedLen {
		return "", false
	}
	if bytes.HasPrefix(data, unicodePrefix) {
		data = data[len(unicodePrefix)+1:]
	}
	var sb strings.Builder
	for i := 0; i < len(data); i += 2 {
		if data[i] == 0 {
			continue
		}
		sb.WriteByte(data[i])
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", false
	}
	return text, true
}

// FindJSONObject returns the first balanced {...} span in text, or "" when
// none exists. Braces inside JSON strings and escaped quotes are honored, so
// prose surrounding an embedded workflow blob does not break the scan.
func FindJSONObject(text string) string {
	start := strings.IndexByte(text, '{')
	if start == -1 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1]
				}
			}
		}
	}
	return ""
}

// LooksLikeJSON reports whether text plausibly begins a JSON object or array
// after leading whitespace.
func LooksLikeJSON(text string) bool {
	trimmed := strings.TrimSpace(text)
	return strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")
}
