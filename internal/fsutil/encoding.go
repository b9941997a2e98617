package fsutil

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrNotFound is returned by ReadText when the file does not exist.
var ErrNotFound = errors.New("file not found")

// ReadText reads a text file and returns it as UTF-8. UTF-8 and UTF-16 byte
// order marks are honoured and stripped; BOM-less UTF-16LE, as written by
// some Windows schematic tools, is detected heuristically.
func ReadText(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	text, err := DecodeText(raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return text, nil
}

// DecodeText converts raw file content to a UTF-8 string.
func DecodeText(raw []byte) (string, error) {
	var decoder transform.Transformer
	switch {
	case hasBOM(raw):
		decoder = unicode.BOMOverride(unicode.UTF8.NewDecoder())
	case looksUTF16LE(raw):
		decoder = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	default:
		return string(raw), nil
	}
	out, _, err := transform.Bytes(decoder, raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func hasBOM(raw []byte) bool {
	return bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}) ||
		bytes.HasPrefix(raw, []byte{0xFF, 0xFE}) ||
		bytes.HasPrefix(raw, []byte{0xFE, 0xFF})
}

// looksUTF16LE reports whether the first characters are ASCII encoded as
// UTF-16LE, i.e. every odd byte is zero.
func looksUTF16LE(raw []byte) bool {
	if len(raw) < 8 {
		return false
	}
	for i := 1; i < 8; i += 2 {
		if raw[i] != 0 || raw[i-1] == 0 {
			return false
		}
	}
	return true
}
