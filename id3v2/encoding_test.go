package id3v2

import (
	"bytes"
	"testing"
)

func TestDecodeTextISO88591(t *testing.T) {
	got, err := decodeText([]byte{0x48, 0xe9}, EncodingISO88591)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Hé" {
		t.Errorf("decodeText = %q, want %q", got, "Hé")
	}
}

func TestDecodeTextUTF16(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
	}{
		{"little endian BOM", []byte{0xff, 0xfe, 0x48, 0x00, 0xe9, 0x00}},
		{"big endian BOM", []byte{0xfe, 0xff, 0x00, 0x48, 0x00, 0xe9}},
		{"no BOM defaults to big endian", []byte{0x00, 0x48, 0x00, 0xe9}},
	}
	for _, tt := range tests {
		got, err := decodeText(tt.in, EncodingUTF16)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if got != "Hé" {
			t.Errorf("%s: decodeText = %q, want %q", tt.name, got, "Hé")
		}
	}
}

func TestDecodeTextUTF16BE(t *testing.T) {
	got, err := decodeText([]byte{0x00, 0x48, 0x00, 0xe9}, EncodingUTF16BE)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Hé" {
		t.Errorf("decodeText = %q, want %q", got, "Hé")
	}
}

func TestDecodeTextStripsTerminator(t *testing.T) {
	got, err := decodeText([]byte{'a', 'b', 0x00}, EncodingUTF8)
	if err != nil {
		t.Fatal(err)
	}
	if got != "ab" {
		t.Errorf("decodeText = %q, want %q", got, "ab")
	}
}

func TestEncodeTextRoundTrip(t *testing.T) {
	for _, enc := range []Encoding{EncodingISO88591, EncodingUTF16, EncodingUTF16BE, EncodingUTF8} {
		for _, s := range []string{"", "hello", "café"} {
			b, err := encodeText(s, enc)
			if err != nil {
				t.Fatalf("encodeText(%q, %s): %v", s, enc, err)
			}
			got, err := decodeText(b, enc)
			if err != nil {
				t.Fatalf("decodeText(%q, %s): %v", s, enc, err)
			}
			if got != s {
				t.Errorf("%s round trip of %q = %q", enc, s, got)
			}
		}
	}
}

func TestEncodeTextISOReplacesUnsupported(t *testing.T) {
	b, err := encodeText("a€b", EncodingISO88591)
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != 3 || b[0] != 'a' || b[2] != 'b' {
		t.Errorf("encodeText = % x, want 3 bytes with a substitute in the middle", b)
	}
}

func TestEncodingCoerce(t *testing.T) {
	if got := EncodingUTF8.coerce(Version23); got != EncodingUTF16 {
		t.Errorf("UTF-8 coerced to %s for v2.3, want UTF-16", got)
	}
	if got := EncodingUTF16BE.coerce(Version22); got != EncodingUTF16 {
		t.Errorf("UTF-16BE coerced to %s for v2.2, want UTF-16", got)
	}
	if got := EncodingUTF8.coerce(Version24); got != EncodingUTF8 {
		t.Errorf("UTF-8 coerced to %s for v2.4, want UTF-8", got)
	}
}

func TestSplitNullNarrow(t *testing.T) {
	parts := splitNull([]byte("abc\x00def"), EncodingISO88591, 2)
	if len(parts) != 2 || string(parts[0]) != "abc" || string(parts[1]) != "def" {
		t.Errorf("splitNull = %q", parts)
	}
}

func TestSplitNullWide(t *testing.T) {
	// "AB" then terminator then "C", all UTF-16BE. The single zero bytes
	// inside the characters must not split.
	in := []byte{0x00, 'A', 0x00, 'B', 0x00, 0x00, 0x00, 'C'}
	parts := splitNull(in, EncodingUTF16BE, 2)
	if len(parts) != 2 {
		t.Fatalf("splitNull returned %d parts", len(parts))
	}
	if !bytes.Equal(parts[0], []byte{0x00, 'A', 0x00, 'B'}) {
		t.Errorf("parts[0] = % x", parts[0])
	}
	if !bytes.Equal(parts[1], []byte{0x00, 'C'}) {
		t.Errorf("parts[1] = % x", parts[1])
	}
}

func TestSplitNullWideNoTerminator(t *testing.T) {
	in := []byte{0x00, 'A', 0x00, 'B'}
	parts := splitNull(in, EncodingUTF16, 2)
	if len(parts) != 1 || !bytes.Equal(parts[0], in) {
		t.Errorf("splitNull = %q", parts)
	}
}
