package id3v2

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"testing"
)

// rawFrame23 builds a v2.3 frame with explicit flag bytes.
func rawFrame23(id string, status, format byte, body []byte) []byte {
	out := []byte(id)
	out = binary.BigEndian.AppendUint32(out, uint32(len(body)))
	out = append(out, status, format)
	return append(out, body...)
}

func rawFrame24(id string, status, format byte, body []byte) []byte {
	out := []byte(id)
	sz, _ := encodeSyncsafe(len(body))
	out = append(out, sz[:]...)
	out = append(out, status, format)
	return append(out, body...)
}

func textBody(enc Encoding, s string) []byte {
	b, err := encodeText(s, enc)
	if err != nil {
		panic(err)
	}
	return append([]byte{byte(enc)}, b...)
}

func TestFrameReaderText(t *testing.T) {
	buf := rawFrame23("TIT2", 0, 0, textBody(EncodingISO88591, "Title"))
	fr := &frameReader{buf: buf, version: Version23}
	res := fr.next()
	if res.outcome != frameOK {
		t.Fatalf("outcome = %v (%v)", res.outcome, res.err)
	}
	if res.frame.ID() != "TIT2" || res.frame.Text() != "Title" {
		t.Errorf("frame = %v", res.frame)
	}
	if res.n != len(buf) {
		t.Errorf("n = %d, want %d", res.n, len(buf))
	}
	if !fr.done() {
		t.Error("reader should be exhausted")
	}
}

func TestFrameReaderV22(t *testing.T) {
	body := textBody(EncodingISO88591, "Artist")
	buf := []byte("TP1")
	buf = append(buf, byte(len(body)>>16), byte(len(body)>>8), byte(len(body)))
	buf = append(buf, body...)
	fr := &frameReader{buf: buf, version: Version22}
	res := fr.next()
	if res.outcome != frameOK {
		t.Fatalf("outcome = %v (%v)", res.outcome, res.err)
	}
	if res.frame.ID() != "TP1" || res.frame.Text() != "Artist" {
		t.Errorf("frame = %v", res.frame)
	}
}

func TestFrameReaderEmptyFrameSkipped(t *testing.T) {
	var buf []byte
	buf = append(buf, rawFrame23("TPE1", 0, 0, nil)...)
	buf = append(buf, rawFrame23("TIT2", 0, 0, textBody(EncodingISO88591, "x"))...)
	fr := &frameReader{buf: buf, version: Version23}

	res := fr.next()
	if res.outcome != frameEmpty {
		t.Fatalf("first outcome = %v", res.outcome)
	}
	if res.n != frameHeaderSize {
		t.Errorf("empty frame consumed %d bytes, want the full header %d", res.n, frameHeaderSize)
	}
	if _, ok := res.err.(EmptyFrameError); !ok {
		t.Errorf("err = %v, want EmptyFrameError", res.err)
	}

	res = fr.next()
	if res.outcome != frameOK || res.frame.ID() != "TIT2" {
		t.Fatalf("second frame not recovered: %v (%v)", res.outcome, res.err)
	}
}

func TestFrameReaderPadding(t *testing.T) {
	fr := &frameReader{buf: make([]byte, 64), version: Version23}
	res := fr.next()
	if res.outcome != framePadding || res.n != 64 {
		t.Errorf("outcome = %v, n = %d", res.outcome, res.n)
	}
}

func TestFrameReaderInvalidID(t *testing.T) {
	buf := append([]byte("ti2x"), make([]byte, 20)...)
	fr := &frameReader{buf: buf, version: Version23}
	res := fr.next()
	if res.outcome != frameInvalidID {
		t.Fatalf("outcome = %v", res.outcome)
	}
	if _, ok := res.err.(InvalidFrameIdentifierError); !ok {
		t.Errorf("err = %v, want InvalidFrameIdentifierError", res.err)
	}
}

func TestFrameReaderOversizedFrame(t *testing.T) {
	buf := rawFrame23("TIT2", 0, 0, textBody(EncodingISO88591, "x"))
	binary.BigEndian.PutUint32(buf[4:8], 1000)
	fr := &frameReader{buf: buf, version: Version23}
	res := fr.next()
	if res.outcome != frameInvalid {
		t.Fatalf("outcome = %v", res.outcome)
	}
	if _, ok := res.err.(InvalidFrameError); !ok {
		t.Errorf("err = %v, want InvalidFrameError", res.err)
	}
}

func TestFrameReaderGrouped24(t *testing.T) {
	body := append([]byte{0x42}, textBody(EncodingISO88591, "x")...)
	buf := rawFrame24("TIT2", 0, flag24FormatGrouping, body)
	fr := &frameReader{buf: buf, version: Version24}
	res := fr.next()
	if res.outcome != frameOK {
		t.Fatalf("outcome = %v (%v)", res.outcome, res.err)
	}
	if !res.frame.Grouped || res.frame.GroupID != 0x42 {
		t.Errorf("Grouped = %v, GroupID = %#x", res.frame.Grouped, res.frame.GroupID)
	}
	if res.frame.Text() != "x" {
		t.Errorf("text = %q", res.frame.Text())
	}
}

func TestFrameReaderCompressed23(t *testing.T) {
	plain := textBody(EncodingISO88591, "compressed title")
	var zbuf bytes.Buffer
	zw := zlib.NewWriter(&zbuf)
	zw.Write(plain)
	zw.Close()

	body := binary.BigEndian.AppendUint32(nil, uint32(len(plain)))
	body = append(body, zbuf.Bytes()...)
	buf := rawFrame23("TIT2", 0, flag23FormatCompression, body)

	fr := &frameReader{buf: buf, version: Version23}
	res := fr.next()
	if res.outcome != frameOK {
		t.Fatalf("outcome = %v (%v)", res.outcome, res.err)
	}
	if res.frame.Text() != "compressed title" {
		t.Errorf("text = %q", res.frame.Text())
	}
}

func TestFrameReaderCompressedLengthMismatch(t *testing.T) {
	plain := textBody(EncodingISO88591, "x")
	var zbuf bytes.Buffer
	zw := zlib.NewWriter(&zbuf)
	zw.Write(plain)
	zw.Close()

	body := binary.BigEndian.AppendUint32(nil, uint32(len(plain)+5))
	body = append(body, zbuf.Bytes()...)
	buf := rawFrame23("TIT2", 0, flag23FormatCompression, body)

	fr := &frameReader{buf: buf, version: Version23}
	res := fr.next()
	if res.outcome != frameBadBody {
		t.Fatalf("outcome = %v", res.outcome)
	}
}

func TestFrameReaderEncrypted(t *testing.T) {
	buf := rawFrame23("TIT2", 0, flag23FormatEncryption, []byte{0x07, 1, 2, 3})
	fr := &frameReader{buf: buf, version: Version23}
	res := fr.next()
	if res.outcome != frameBadBody {
		t.Fatalf("outcome = %v", res.outcome)
	}
	ee, ok := res.err.(UnsupportedEncryptionError)
	if !ok || ee.Method != 0x07 {
		t.Errorf("err = %v, want UnsupportedEncryptionError with method 7", res.err)
	}
}

func TestFrameReaderBadBodyContinues(t *testing.T) {
	var buf []byte
	// TXXX without a description terminator.
	buf = append(buf, rawFrame23("TXXX", 0, 0, []byte{0x00, 'a', 'b', 'c'})...)
	buf = append(buf, rawFrame23("TIT2", 0, 0, textBody(EncodingISO88591, "ok"))...)
	fr := &frameReader{buf: buf, version: Version23}

	res := fr.next()
	if res.outcome != frameBadBody {
		t.Fatalf("first outcome = %v", res.outcome)
	}
	if _, ok := res.err.(MalformedBodyError); !ok {
		t.Errorf("err = %v, want MalformedBodyError", res.err)
	}

	res = fr.next()
	if res.outcome != frameOK || res.frame.Text() != "ok" {
		t.Fatalf("second frame not recovered: %v (%v)", res.outcome, res.err)
	}
}

func TestFrameReaderStatusFlags24(t *testing.T) {
	buf := rawFrame24("TIT2", flag24StatusTagAlter|flag24StatusReadOnly, 0,
		textBody(EncodingISO88591, "x"))
	fr := &frameReader{buf: buf, version: Version24}
	res := fr.next()
	if res.outcome != frameOK {
		t.Fatalf("outcome = %v (%v)", res.outcome, res.err)
	}
	want := StatusFlags{DiscardOnTagAlter: true, ReadOnly: true}
	if res.frame.Status != want {
		t.Errorf("Status = %+v", res.frame.Status)
	}
}

func TestFrameWriteRoundTrip(t *testing.T) {
	for _, v := range []Version{Version22, Version23, Version24} {
		id := "TIT2"
		if v == Version22 {
			id = "TT2"
		}
		f := NewFrame(id, v, &TextBody{Encoding: EncodingUTF16, Text: "Füür"})
		buf, err := f.appendTo(nil, DefaultOptions())
		if err != nil {
			t.Fatalf("%s: %v", v, err)
		}
		fr := &frameReader{buf: buf, version: v}
		res := fr.next()
		if res.outcome != frameOK {
			t.Fatalf("%s: outcome = %v (%v)", v, res.outcome, res.err)
		}
		if res.frame.Text() != "Füür" {
			t.Errorf("%s: text = %q", v, res.frame.Text())
		}
	}
}

func TestFrameReadUnsync24(t *testing.T) {
	body := append([]byte{byte(EncodingISO88591), 0xff, 0x00}, "Title"...)
	buf := rawFrame24("TIT2", 0, flag24FormatUnsync, body)
	fr := &frameReader{buf: buf, version: Version24}
	res := fr.next()
	if res.outcome != frameOK {
		t.Fatalf("outcome = %v (%v)", res.outcome, res.err)
	}
	// The inserted zero is gone; the 0xff ahead of the text survives.
	if got := res.frame.Text(); got != "ÿTitle" {
		t.Errorf("text = %q, want \\u00ffTitle", got)
	}
}

func TestFrameWriteUnsync24(t *testing.T) {
	data := []byte{0xff, 0xe0, 0xff, 0x00, 0x12}
	f := NewFrame("PRIV", Version24, &PrivateBody{Owner: "test", Data: data})
	opts := DefaultOptions()
	opts.Unsynchronize = true
	buf, err := f.appendTo(nil, opts)
	if err != nil {
		t.Fatal(err)
	}
	if buf[9]&flag24FormatUnsync == 0 {
		t.Error("unsynchronization flag not set")
	}

	fr := &frameReader{buf: buf, version: Version24}
	res := fr.next()
	if res.outcome != frameOK {
		t.Fatalf("outcome = %v (%v)", res.outcome, res.err)
	}
	pb, ok := res.frame.Body.(*PrivateBody)
	if !ok || !bytes.Equal(pb.Data, data) {
		t.Errorf("body = %v", res.frame.Body)
	}
}

func TestFrameWriteGroupedRoundTrip(t *testing.T) {
	f := NewFrame("TIT2", Version23, &TextBody{Encoding: EncodingISO88591, Text: "x"})
	f.Grouped = true
	f.GroupID = 0x11
	buf, err := f.appendTo(nil, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	fr := &frameReader{buf: buf, version: Version23}
	res := fr.next()
	if res.outcome != frameOK {
		t.Fatalf("outcome = %v (%v)", res.outcome, res.err)
	}
	if !res.frame.Grouped || res.frame.GroupID != 0x11 || res.frame.Text() != "x" {
		t.Errorf("frame = %+v", res.frame)
	}
}
