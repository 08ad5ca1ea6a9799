package buffer

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// LineEnding is the line separator a buffer writes on save.
// In memory every line ends with '\n'.
type LineEnding uint8

const (
	LF   LineEnding = iota // Unix: \n
	CRLF                   // Windows: \r\n
	CR                     // Old Mac: \r
)

// String returns the escaped form used in config files and the status line.
func (le LineEnding) String() string {
	switch le {
	case CRLF:
		return `\r\n`
	case CR:
		return `\r`
	default:
		return `\n`
	}
}

// Sequence returns the literal separator.
func (le LineEnding) Sequence() string {
	switch le {
	case CRLF:
		return "\r\n"
	case CR:
		return "\r"
	default:
		return "\n"
	}
}

// ParseLineEnding accepts "lf", "crlf", "cr" or their escaped forms.
// Unknown values fall back to LF.
func ParseLineEnding(s string) LineEnding {
	switch strings.ToLower(s) {
	case "crlf", `\r\n`, "\r\n":
		return CRLF
	case "cr", `\r`, "\r":
		return CR
	default:
		return LF
	}
}

// DetectLineEnding returns the first separator found in s, LF when none.
func DetectLineEnding(s string) LineEnding {
	i := strings.IndexAny(s, "\r\n")
	if i < 0 || s[i] == '\n' {
		return LF
	}
	if i+1 < len(s) && s[i+1] == '\n' {
		return CRLF
	}
	return CR
}

// Decode turns file bytes into text. A UTF-8 or UTF-16 byte order mark selects
// the encoding; without one the data must be UTF-8 without NUL bytes.
func Decode(data []byte) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", err
	}
	if bytes.IndexByte(out, 0) >= 0 || !utf8.Valid(out) {
		return "", ErrBinary
	}
	return string(out), nil
}

// Encode converts in-memory text to its on-disk form.
func Encode(text string, le LineEnding) string {
	if le == LF {
		return text
	}
	return strings.ReplaceAll(text, "\n", le.Sequence())
}
