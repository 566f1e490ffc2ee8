package pkgsheet

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Format identifies a spreadsheet encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// SniffLen is how many leading bytes DetectFormat needs to decide.
const SniffLen = 512

// ErrUnsupportedFormat is returned for content that is neither CSV nor XLSX.
var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

var zipMagic = []byte("PK\x03\x04")

// DetectFormat decides the format from the file name and its first bytes.
//
// A known extension picks the candidate format, and the content must agree
// with it. Without a known extension the content alone decides.
func DetectFormat(filename string, head []byte) (Format, error) {
	if len(head) == 0 {
		return "", ErrUnsupportedFormat
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		if isZip(head) {
			return FormatXLSX, nil
		}
		return "", ErrUnsupportedFormat
	case ".csv", ".txt":
		if isText(head) {
			return FormatCSV, nil
		}
		return "", ErrUnsupportedFormat
	}

	switch {
	case isZip(head):
		return FormatXLSX, nil
	case isText(head):
		return FormatCSV, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

func isZip(head []byte) bool {
	return bytes.HasPrefix(head, zipMagic)
}

// isText accepts UTF-8 without NUL bytes. A rune cut off at the end of head
// is not held against it.
func isText(head []byte) bool {
	if bytes.IndexByte(head, 0) != -1 {
		return false
	}

	for i := 0; i < len(head); {
		r, size := utf8.DecodeRune(head[i:])
		if r == utf8.RuneError && size == 1 {
			return !utf8.FullRune(head[i:])
		}
		i += size
	}
	return true
}
