// File: pkg/extract/text.go
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// sniffLen is how many leading bytes are inspected when guessing whether a file is binary.
const sniffLen = 512

var errNotText = errors.New("content is not valid text")

var boms = [][]byte{
	{0xEF, 0xBB, 0xBF}, // UTF-8
	{0xFF, 0xFE},       // UTF-16 LE
	{0xFE, 0xFF},       // UTF-16 BE
}

func hasBOM(raw []byte) bool {
	for _, bom := range boms {
		if bytes.HasPrefix(raw, bom) {
			return true
		}
	}
	return false
}

// decodeLenient decodes raw bytes the way an editor would: a BOM selects the
// encoding and is stripped, anything else is UTF-8 with invalid sequences replaced.
func decodeLenient(raw []byte) (string, error) {
	out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
	if err != nil {
		return "", fmt.Errorf("decode text: %w", err)
	}
	return string(out), nil
}

// decodeStrict only accepts bytes that are plainly text: a BOM'd Unicode file, or
// NUL-free valid UTF-8.
func decodeStrict(raw []byte) (string, error) {
	if !hasBOM(raw) {
		if looksBinary(raw) || !utf8.Valid(raw) {
			return "", errNotText
		}
		return string(raw), nil
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), raw)
	if err != nil {
		return "", fmt.Errorf("decode text: %w", err)
	}
	if !utf8.Valid(out) {
		return "", errNotText
	}
	return string(out), nil
}

// looksBinary reports whether the leading bytes contain a NUL byte or a high
// ratio of non-printable characters.
func looksBinary(raw []byte) bool {
	head := raw
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	if len(head) == 0 {
		return false
	}
	if bytes.IndexByte(head, 0) >= 0 {
		return true
	}
	nonPrintable := 0
	for _, b := range head {
		if !isPrintable(b) {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(len(head)) > 0.3
}

// isPrintable treats ASCII printables, common whitespace and any non-ASCII byte
// (part of a multi-byte UTF-8 sequence) as printable.
func isPrintable(b byte) bool {
	return (b >= 32 && b <= 126) || b == '\n' || b == '\r' || b == '\t' || b >= 0x80
}

func readText(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return decodeLenient(raw)
}

func readSniffedText(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return decodeStrict(raw)
}
