package docs

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrBinary marks files the encoding detector refuses to decode. Callers
// that walk whole workspaces skip these rather than report them.
var ErrBinary = errors.New("binary file")

// ReadFileAsUTF8 reads a document and normalizes it to UTF-8. BOMs win,
// valid UTF-8 passes through, and anything else is treated as Windows-1252,
// which covers the stray smart quotes that show up in pasted agent notes.
func ReadFileAsUTF8(path string) (content string, encoding string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}

	if IsBinary(data) {
		return "", "", fmt.Errorf("%w: %s", ErrBinary, path)
	}

	switch {
	case len(data) >= 3 && bytes.Equal(data[:3], []byte{0xEF, 0xBB, 0xBF}):
		return string(data[3:]), "utf-8", nil
	case len(data) >= 2 && bytes.Equal(data[:2], []byte{0xFF, 0xFE}):
		decoded, err := decode(data, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM))
		return decoded, "utf-16le", err
	case len(data) >= 2 && bytes.Equal(data[:2], []byte{0xFE, 0xFF}):
		decoded, err := decode(data, unicode.UTF16(unicode.BigEndian, unicode.UseBOM))
		return decoded, "utf-16be", err
	}

	if utf8.Valid(data) {
		return string(data), "utf-8", nil
	}

	decoded, err := decode(data, charmap.Windows1252)
	return decoded, "windows-1252", err
}

func decode(data []byte, enc encoding.Encoding) (string, error) {
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	return string(out), nil
}

// IsBinary uses the git heuristic: a NUL byte in the first 8000 bytes.
func IsBinary(data []byte) bool {
	sample := data
	if len(sample) > 8000 {
		sample = sample[:8000]
	}
	return bytes.IndexByte(sample, 0) >= 0
}
