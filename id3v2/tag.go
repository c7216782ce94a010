package id3v2

import (
	"strings"
)

// aggTyerTdat is the synthetic key under which a v2.3 TYER/TDAT pair is
// stored once both halves of the recording date have been seen. The pair
// converts to a single v2.4 TDRC and splits back on the way out.
const aggTyerTdat = "TYERTDAT"

// Tag is a decoded ID3v2 tag: an ordered collection of frames plus the
// header flags and read diagnostics.
type Tag struct {
	Version  Version
	Revision byte

	// Header flags as read. Unsynchronized records what the source said;
	// writing decides anew from Opts and content.
	Unsynchronized bool
	Extended       bool
	Experimental   bool

	// PaddingSize is the number of padding bytes found after the last
	// frame when the tag was read.
	PaddingSize int

	// CRC is the checksum from the extended header, when one was present.
	CRC    uint32
	HasCRC bool

	Opts Options

	order  []string
	frames map[string][]*Frame

	// Read diagnostics. InvalidFrames counts frames dropped for bad
	// headers or undecodable bodies, EmptyFrameBytes counts bytes spent
	// on zero-size frames, DuplicateIDs lists identifiers that occurred
	// more than once and DuplicateBytes the bytes the extras occupied.
	InvalidFrames   int
	EmptyFrameBytes int
	DuplicateBytes  int
	DuplicateIDs    []string
}

func NewTag(v Version, opts Options) *Tag {
	return &Tag{
		Version: v,
		Opts:    opts,
		frames:  make(map[string][]*Frame),
	}
}

// Frames returns the frames stored under id, in the order they were added.
// The returned slice is shared; do not modify it.
func (t *Tag) Frames(id string) []*Frame {
	return t.frames[id]
}

// HasFrame reports whether at least one frame with the identifier exists.
func (t *Tag) HasFrame(id string) bool {
	return len(t.frames[id]) > 0
}

// AllFrames returns every frame in tag order. Aggregated date pairs appear
// as their constituent frames.
func (t *Tag) AllFrames() []*Frame {
	var out []*Frame
	for _, id := range t.order {
		out = append(out, t.frames[id]...)
	}
	return out
}

// Len returns the number of frames in the tag.
func (t *Tag) Len() int {
	n := 0
	for _, fs := range t.frames {
		n += len(fs)
	}
	return n
}

// RemoveFrames deletes all frames stored under id.
func (t *Tag) RemoveFrames(id string) {
	if _, ok := t.frames[id]; !ok {
		return
	}
	delete(t.frames, id)
	t.removeOrder(id)
}

func (t *Tag) removeOrder(id string) {
	for i, x := range t.order {
		if x == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			return
		}
	}
}

// AddFrame adds a frame to the tag. A frame built for another version is
// converted first, which may produce several frames or none. Frames that
// carry an involved people list merge their pairs into an existing frame of
// the same identifier; identifiers that permit duplicates accumulate; any
// other identifier accumulates as an ordered list as well, first one wins
// for field access.
func (t *Tag) AddFrame(f *Frame) error {
	if f.version != t.Version {
		converted, err := ConvertFrame(f, t.Version)
		if err != nil {
			return err
		}
		for _, c := range converted {
			if err := t.AddFrame(c); err != nil {
				return err
			}
		}
		return nil
	}

	id := f.id
	existing, ok := t.frames[id]
	if !ok {
		t.frames[id] = []*Frame{f}
		t.order = append(t.order, id)
		return nil
	}

	if frameKindFor(id, t.Version) == kindInvolvedPeople {
		if dst, ok := existing[0].Body.(*InvolvedPeopleBody); ok {
			if src, ok := f.Body.(*InvolvedPeopleBody); ok {
				dst.Pairs = append(dst.Pairs, src.Pairs...)
				return nil
			}
		}
	}
	t.frames[id] = append(existing, f)
	return nil
}

// loadFrame stores a frame coming off the wire. n is the byte count the
// frame occupied, used for duplicate accounting. Unlike AddFrame it never
// converts: the decoder only produces frames of the tag's own version.
func (t *Tag) loadFrame(f *Frame, n int) {
	id := f.id

	if t.Version == Version23 && (id == "TYER" || id == "TDAT") {
		t.loadDateFrame(f, n)
		return
	}

	existing, ok := t.frames[id]
	if !ok {
		t.frames[id] = []*Frame{f}
		t.order = append(t.order, id)
		return
	}

	if frameKindFor(id, t.Version) == kindInvolvedPeople {
		if dst, ok := existing[0].Body.(*InvolvedPeopleBody); ok {
			if src, ok := f.Body.(*InvolvedPeopleBody); ok {
				dst.Pairs = append(dst.Pairs, src.Pairs...)
				t.noteDuplicate(id, n)
				return
			}
		}
	}

	t.frames[id] = append(existing, f)
	if !multiValued(id, t.Version) {
		t.noteDuplicate(id, n)
	}
}

// loadDateFrame aggregates the v2.3 recording date pair. An empty TDAT
// carries no information and is dropped. Once both halves are present they
// move under the synthetic aggregate key, TYER first.
func (t *Tag) loadDateFrame(f *Frame, n int) {
	id := f.id
	if id == "TDAT" && f.Text() == "" {
		t.EmptyFrameBytes += n
		return
	}

	if _, ok := t.frames[aggTyerTdat]; ok {
		// Both halves already seen; this is a duplicate half.
		t.noteDuplicate(id, n)
		return
	}
	if _, ok := t.frames[id]; ok {
		t.noteDuplicate(id, n)
		return
	}

	other := "TDAT"
	if id == "TDAT" {
		other = "TYER"
	}
	if of, ok := t.frames[other]; ok {
		tyer, tdat := f, of[0]
		if id == "TDAT" {
			tyer, tdat = of[0], f
		}
		delete(t.frames, other)
		for i, x := range t.order {
			if x == other {
				t.order[i] = aggTyerTdat
				break
			}
		}
		t.frames[aggTyerTdat] = []*Frame{tyer, tdat}
		return
	}

	t.frames[id] = []*Frame{f}
	t.order = append(t.order, id)
}

func (t *Tag) noteDuplicate(id string, n int) {
	t.DuplicateBytes += n
	for _, x := range t.DuplicateIDs {
		if x == id {
			return
		}
	}
	t.DuplicateIDs = append(t.DuplicateIDs, id)
}

// TextFrame returns the text of the first text frame stored under id.
func (t *Tag) TextFrame(id string) string {
	fs := t.frames[id]
	if len(fs) == 0 {
		return ""
	}
	return fs[0].Text()
}

// SetTextFrame replaces all frames under id with a single text frame.
func (t *Tag) SetTextFrame(id, text string) {
	f := NewFrame(id, t.Version, &TextBody{
		Encoding: chooseEncoding(text, t.Version),
		Text:     text,
	})
	if _, ok := t.frames[id]; !ok {
		t.order = append(t.order, id)
	}
	t.frames[id] = []*Frame{f}
}

// chooseEncoding picks the narrowest encoding that represents s exactly in
// the given version.
func chooseEncoding(s string, v Version) Encoding {
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return EncodingISO88591
	}
	if v == Version24 {
		return EncodingUTF8
	}
	return EncodingUTF16
}

// Field returns the value of a generic metadata field, or "" when the tag
// has no frame for it. Fields without a frame mapping in the tag's version
// return an UnsupportedFieldError.
func (t *Tag) Field(key FieldKey) (string, error) {
	ref, ok := fieldRefFor(key, t.Version)
	if !ok {
		return "", UnsupportedFieldError{Key: key, Version: t.Version}
	}

	if key == FieldYear && t.Version == Version23 {
		if agg, ok := t.frames[aggTyerTdat]; ok {
			return agg[0].Text(), nil
		}
	}

	if ref.sub != "" {
		for _, f := range t.frames[ref.id] {
			if b, ok := f.Body.(*UserTextBody); ok && strings.EqualFold(b.Description, ref.sub) {
				return b.Text, nil
			}
		}
		return "", nil
	}

	fs := t.frames[ref.id]
	if len(fs) == 0 {
		return "", nil
	}
	switch b := fs[0].Body.(type) {
	case *TextBody:
		if key == FieldGenre {
			return resolveGenre(b.Text), nil
		}
		return b.Text, nil
	case *CommentBody:
		return b.Text, nil
	case *LyricsBody:
		return b.Text, nil
	}
	return fs[0].Body.Value(), nil
}

// SetField sets the value of a generic metadata field, creating the frame
// when it does not exist yet.
func (t *Tag) SetField(key FieldKey, value string) error {
	ref, ok := fieldRefFor(key, t.Version)
	if !ok {
		return UnsupportedFieldError{Key: key, Version: t.Version}
	}

	if key == FieldYear && t.Version == Version23 {
		if agg, ok := t.frames[aggTyerTdat]; ok {
			if b, ok := agg[0].Body.(*TextBody); ok {
				b.Text = value
				return nil
			}
		}
	}

	if ref.sub != "" {
		for _, f := range t.frames[ref.id] {
			if b, ok := f.Body.(*UserTextBody); ok && strings.EqualFold(b.Description, ref.sub) {
				b.Text = value
				return nil
			}
		}
		f := NewFrame(ref.id, t.Version, &UserTextBody{
			Encoding:    chooseEncoding(value, t.Version),
			Description: ref.sub,
			Text:        value,
		})
		return t.AddFrame(f)
	}

	switch key {
	case FieldComment:
		for _, f := range t.frames[ref.id] {
			if b, ok := f.Body.(*CommentBody); ok && b.Description == "" {
				b.Text = value
				return nil
			}
		}
		return t.AddFrame(NewFrame(ref.id, t.Version, &CommentBody{
			Encoding: chooseEncoding(value, t.Version),
			Language: "eng",
			Text:     value,
		}))
	case FieldLyrics:
		for _, f := range t.frames[ref.id] {
			if b, ok := f.Body.(*LyricsBody); ok && b.Description == "" {
				b.Text = value
				return nil
			}
		}
		return t.AddFrame(NewFrame(ref.id, t.Version, &LyricsBody{
			Encoding: chooseEncoding(value, t.Version),
			Language: "eng",
			Text:     value,
		}))
	}

	t.SetTextFrame(ref.id, value)
	return nil
}

// DeleteField removes all frames carrying the field.
func (t *Tag) DeleteField(key FieldKey) error {
	ref, ok := fieldRefFor(key, t.Version)
	if !ok {
		return UnsupportedFieldError{Key: key, Version: t.Version}
	}

	if key == FieldYear && t.Version == Version23 {
		t.RemoveFrames(aggTyerTdat)
		t.RemoveFrames("TDAT") // meaningless without a year
	}

	if ref.sub != "" {
		fs := t.frames[ref.id]
		var keep []*Frame
		for _, f := range fs {
			if b, ok := f.Body.(*UserTextBody); ok && strings.EqualFold(b.Description, ref.sub) {
				continue
			}
			keep = append(keep, f)
		}
		if len(keep) == 0 {
			t.RemoveFrames(ref.id)
		} else {
			t.frames[ref.id] = keep
		}
		return nil
	}

	t.RemoveFrames(ref.id)
	return nil
}
