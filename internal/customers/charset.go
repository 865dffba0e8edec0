package customers

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Encoding represents a text encoding of an input file.
type Encoding string

const (
	EncodingAuto        Encoding = "auto"
	EncodingUTF8        Encoding = "utf-8"
	EncodingWindows1252 Encoding = "windows-1252"
	EncodingISO88591    Encoding = "iso-8859-1"
)

// ParseEncoding normalises a user supplied encoding name.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return EncodingAuto, nil
	case "utf-8", "utf8":
		return EncodingUTF8, nil
	case "windows-1252", "cp1252":
		return EncodingWindows1252, nil
	case "iso-8859-1", "latin1", "latin-1":
		return EncodingISO88591, nil
	default:
		return "", fmt.Errorf("unsupported encoding: %q", s)
	}
}

// DetectEncoding guesses the encoding of data. Legacy CRM exports are
// usually Windows-1252, which is what anything that is not valid UTF-8 is
// assumed to be.
func DetectEncoding(data []byte) Encoding {
	if bytes.HasPrefix(data, utf8BOM) {
		return EncodingUTF8
	}
	if utf8.Valid(data) {
		return EncodingUTF8
	}
	return EncodingWindows1252
}

// Decode converts data from enc to UTF-8 and strips a UTF-8 BOM.
func Decode(data []byte, enc Encoding) ([]byte, error) {
	if enc == EncodingAuto || enc == "" {
		enc = DetectEncoding(data)
	}

	var decoder encoding.Encoding
	switch enc {
	case EncodingUTF8:
		return bytes.TrimPrefix(data, utf8BOM), nil
	case EncodingWindows1252:
		decoder = charmap.Windows1252
	case EncodingISO88591:
		decoder = charmap.ISO8859_1
	default:
		return nil, fmt.Errorf("unsupported encoding: %q", enc)
	}

	out, _, err := transform.Bytes(decoder.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", enc, err)
	}
	return out, nil
}

// ToUTF8Reader wraps r with a decoder for enc. Auto and UTF-8 pass through.
func ToUTF8Reader(r io.Reader, enc Encoding) io.Reader {
	switch enc {
	case EncodingWindows1252:
		return transform.NewReader(r, charmap.Windows1252.NewDecoder())
	case EncodingISO88591:
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	default:
		return r
	}
}
