package id3v2

import (
	"bytes"
	"testing"
)

func TestConvertTagRecordingTime(t *testing.T) {
	var region []byte
	region = append(region, rawFrame23("TYER", 0, 0, textBody(EncodingISO88591, "2005"))...)
	region = append(region, rawFrame23("TDAT", 0, 0, textBody(EncodingISO88591, "1503"))...)
	v3 := mustReadTag(t, buildTag23(0, region))

	v4, err := ConvertTag(v3, Version24)
	if err != nil {
		t.Fatal(err)
	}
	if got := v4.TextFrame("TDRC"); got != "2005-03-15" {
		t.Fatalf("TDRC = %q, want 2005-03-15", got)
	}

	back, err := ConvertTag(v4, Version23)
	if err != nil {
		t.Fatal(err)
	}
	if got := back.TextFrame("TYER"); got != "2005" {
		t.Errorf("TYER = %q", got)
	}
	if got := back.TextFrame("TDAT"); got != "1503" {
		t.Errorf("TDAT = %q", got)
	}
}

func TestSplitRecordingTime(t *testing.T) {
	tests := []struct {
		in   string
		year string
		tdat string
		tm   string
	}{
		{"2005-03-15", "2005", "1503", ""},
		{"2005-03", "2005", "0103", ""}, // day unknown, defaults to 01
		{"2005", "2005", "", ""},
		{"2005-03-15T12:30", "2005", "1503", "1230"},
		{"garbage", "", "", ""},
		{"", "", "", ""},
	}
	for _, tt := range tests {
		year, tdat, tm := splitRecordingTime(tt.in)
		if year != tt.year || tdat != tt.tdat || tm != tt.tm {
			t.Errorf("splitRecordingTime(%q) = %q, %q, %q, want %q, %q, %q",
				tt.in, year, tdat, tm, tt.year, tt.tdat, tt.tm)
		}
	}
}

func TestMergeRecordingTime(t *testing.T) {
	tests := []struct {
		year, tdat, want string
	}{
		{"2005", "1503", "2005-03-15"},
		{"2005", "", "2005"},
		{"2005", "15", "2005"}, // malformed TDAT ignored
		{"85", "", "0085"},     // short years zero padded
		{"", "1503", ""},
	}
	for _, tt := range tests {
		if got := mergeRecordingTime(tt.year, tt.tdat); got != tt.want {
			t.Errorf("mergeRecordingTime(%q, %q) = %q, want %q",
				tt.year, tt.tdat, got, tt.want)
		}
	}
}

func TestConvertTDRCWithTime(t *testing.T) {
	f := NewFrame("TDRC", Version24, &TextBody{
		Encoding: EncodingISO88591,
		Text:     "2005-03-15T12:30",
	})
	out, err := ConvertFrame(f, Version23)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d frames, want 3", len(out))
	}
	want := map[string]string{"TYER": "2005", "TDAT": "1503", "TIME": "1230"}
	for _, c := range out {
		if got := c.Text(); got != want[c.ID()] {
			t.Errorf("%s = %q, want %q", c.ID(), got, want[c.ID()])
		}
	}
}

func TestConvertFrameMood(t *testing.T) {
	f := NewFrame("TXXX", Version23, &UserTextBody{
		Encoding:    EncodingISO88591,
		Description: "MOOD",
		Text:        "calm",
	})
	out, err := ConvertFrame(f, Version24)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].ID() != "TMOO" || out[0].Text() != "calm" {
		t.Fatalf("converted = %v", out)
	}

	back, err := ConvertFrame(out[0], Version23)
	if err != nil {
		t.Fatal(err)
	}
	if len(back) != 1 || back[0].ID() != "TXXX" {
		t.Fatalf("back = %v", back)
	}
	b := back[0].Body.(*UserTextBody)
	if b.Description != "MOOD" || b.Text != "calm" {
		t.Errorf("body = %+v", b)
	}
}

func TestConvertPeopleListsTo23(t *testing.T) {
	v4 := NewTag(Version24, DefaultOptions())
	v4.AddFrame(NewFrame("TIPL", Version24, &InvolvedPeopleBody{
		Encoding: EncodingISO88591,
		Pairs:    []Pair{{Role: "producer", Name: "Eno"}},
	}))
	v4.AddFrame(NewFrame("TMCL", Version24, &InvolvedPeopleBody{
		Encoding: EncodingISO88591,
		Pairs:    []Pair{{Role: "guitar", Name: "Edge"}},
	}))

	v3, err := ConvertTag(v4, Version23)
	if err != nil {
		t.Fatal(err)
	}
	fs := v3.Frames("IPLS")
	if len(fs) != 1 {
		t.Fatalf("IPLS frames = %d, want 1 merged frame", len(fs))
	}
	ipb := fs[0].Body.(*InvolvedPeopleBody)
	if len(ipb.Pairs) != 2 {
		t.Fatalf("pairs = %v", ipb.Pairs)
	}
}

func TestConvertDeprecatedFrame(t *testing.T) {
	f := NewFrame("TSIZ", Version23, &TextBody{Encoding: EncodingISO88591, Text: "4096"})
	out, err := ConvertFrame(f, Version24)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].ID() != "TSIZ" {
		t.Fatalf("converted = %v", out)
	}
	db, ok := out[0].Body.(*DeprecatedBody)
	if !ok || db.OriginalID != "TSIZ" {
		t.Fatalf("body = %v", out[0].Body)
	}

	back, err := ConvertFrame(out[0], Version23)
	if err != nil {
		t.Fatal(err)
	}
	ub, ok := back[0].Body.(*UnsupportedBody)
	if !ok || !bytes.Equal(ub.Data, db.Data) {
		t.Errorf("round trip body = %v", back[0].Body)
	}
}

func TestConvertV22TextFrame(t *testing.T) {
	f := NewFrame("TT2", Version22, &TextBody{Encoding: EncodingISO88591, Text: "x"})
	out, err := ConvertFrame(f, Version23)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].ID() != "TIT2" || out[0].Text() != "x" {
		t.Fatalf("converted = %v", out)
	}

	back, err := ConvertFrame(out[0], Version22)
	if err != nil {
		t.Fatal(err)
	}
	if len(back) != 1 || back[0].ID() != "TT2" {
		t.Fatalf("back = %v", back)
	}
}

func TestConvertV22ToV24ViaHub(t *testing.T) {
	f := NewFrame("TYE", Version22, &TextBody{Encoding: EncodingISO88591, Text: "1997"})
	out, err := ConvertFrame(f, Version24)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].ID() != "TDRC" || out[0].Text() != "1997" {
		t.Fatalf("converted = %v", out)
	}
}

func TestConvertPictureFormat(t *testing.T) {
	body, err := (&PictureBody{
		Encoding:    EncodingISO88591,
		MIMEType:    "image/png",
		PictureType: 3,
		Data:        []byte{1, 2, 3},
	}).encode(Version22)
	if err != nil {
		t.Fatal(err)
	}
	// The v2.2 layout stores a 3 character format, no MIME type.
	if !bytes.Equal(body[1:4], []byte("PNG")) {
		t.Fatalf("image format = %q", body[1:4])
	}

	f := NewFrame("PIC", Version22, nil)
	if err := f.parseBody(body); err != nil {
		t.Fatal(err)
	}
	pb := f.Body.(*PictureBody)
	if pb.MIMEType != "image/png" {
		t.Errorf("MIMEType = %q", pb.MIMEType)
	}

	out, err := ConvertFrame(f, Version23)
	if err != nil {
		t.Fatal(err)
	}
	if out[0].ID() != "APIC" {
		t.Fatalf("converted id = %s", out[0].ID())
	}
	if got := out[0].Body.(*PictureBody); got.MIMEType != "image/png" || !bytes.Equal(got.Data, pb.Data) {
		t.Errorf("converted body = %+v", got)
	}
}

func TestConvertUnknown24FramePassesThrough(t *testing.T) {
	f := NewFrame("TSST", Version24, &TextBody{Encoding: EncodingISO88591, Text: "Disc One"})
	out, err := ConvertFrame(f, Version23)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].ID() != "TSST" || out[0].Version() != Version23 {
		t.Fatalf("converted = %v", out)
	}
}

func TestConvertDoesNotMutate(t *testing.T) {
	f := NewFrame("TIPL", Version24, &InvolvedPeopleBody{
		Encoding: EncodingISO88591,
		Pairs:    []Pair{{Role: "producer", Name: "Eno"}},
	})
	out, err := ConvertFrame(f, Version23)
	if err != nil {
		t.Fatal(err)
	}
	out[0].Body.(*InvolvedPeopleBody).Pairs[0].Name = "changed"
	if f.Body.(*InvolvedPeopleBody).Pairs[0].Name != "Eno" {
		t.Error("conversion shares state with the source frame")
	}
}
