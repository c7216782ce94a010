package id3v2

import (
	"bytes"
	"fmt"

	textencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding is the text encoding marker byte that precedes textual frame
// content. v2.2 and v2.3 only know ISO-8859-1 and UTF-16 with BOM; UTF-16BE
// and UTF-8 were added in v2.4.
type Encoding byte

const (
	EncodingISO88591 Encoding = 0
	EncodingUTF16    Encoding = 1 // with byte order mark
	EncodingUTF16BE  Encoding = 2
	EncodingUTF8     Encoding = 3
)

func (e Encoding) String() string {
	switch e {
	case EncodingISO88591:
		return "ISO-8859-1"
	case EncodingUTF16:
		return "UTF-16"
	case EncodingUTF16BE:
		return "UTF-16BE"
	case EncodingUTF8:
		return "UTF-8"
	}
	return fmt.Sprintf("Encoding(%d)", byte(e))
}

func (e Encoding) validFor(v Version) bool {
	if v == Version24 {
		return e <= EncodingUTF8
	}
	return e <= EncodingUTF16
}

// coerce maps the encoding onto one the given version can express. UTF-8
// and UTF-16BE degrade to UTF-16 with BOM for v2.2 and v2.3.
func (e Encoding) coerce(v Version) Encoding {
	if e.validFor(v) {
		return e
	}
	return EncodingUTF16
}

// wide reports whether the encoding uses two-byte code units, which doubles
// the null terminator.
func (e Encoding) wide() bool {
	return e == EncodingUTF16 || e == EncodingUTF16BE
}

func (e Encoding) terminator() []byte {
	if e.wide() {
		return []byte{0, 0}
	}
	return []byte{0}
}

func decodeText(b []byte, e Encoding) (string, error) {
	var out []byte
	var err error
	switch e {
	case EncodingISO88591:
		out, _, err = transform.Bytes(charmap.ISO8859_1.NewDecoder(), b)
	case EncodingUTF16:
		// A missing BOM means big endian.
		out, _, err = transform.Bytes(unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder(), b)
	case EncodingUTF16BE:
		out, _, err = transform.Bytes(unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder(), b)
	case EncodingUTF8:
		out = append([]byte(nil), b...)
	default:
		return "", fmt.Errorf("unknown text encoding %#x", byte(e))
	}
	if err != nil {
		return "", err
	}
	// A trailing terminator is wire format, not part of the value.
	for len(out) > 0 && out[len(out)-1] == 0 {
		out = out[:len(out)-1]
	}
	return string(out), nil
}

func encodeText(s string, e Encoding) ([]byte, error) {
	switch e {
	case EncodingISO88591:
		enc := textencoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder())
		out, _, err := transform.Bytes(enc, []byte(s))
		return out, err
	case EncodingUTF16:
		out, _, err := transform.Bytes(unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder(), []byte(s))
		return out, err
	case EncodingUTF16BE:
		out, _, err := transform.Bytes(unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder(), []byte(s))
		return out, err
	case EncodingUTF8:
		return []byte(s), nil
	}
	return nil, fmt.Errorf("unknown text encoding %#x", byte(e))
}

// splitNull splits b on at most n-1 null terminators of the given encoding.
// Wide encodings terminate on an aligned 0x00 0x00 pair; a stray zero byte
// inside wide text is data, not a terminator.
func splitNull(b []byte, e Encoding, n int) [][]byte {
	if !e.wide() {
		return bytes.SplitN(b, []byte{0}, n)
	}
	var parts [][]byte
	prev := 0
	for i := 0; i+1 < len(b) && len(parts) < n-1; i += 2 {
		if b[i] == 0 && b[i+1] == 0 {
			parts = append(parts, b[prev:i])
			prev = i + 2
			i = prev - 2
		}
	}
	parts = append(parts, b[prev:])
	return parts
}
