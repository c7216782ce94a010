package id3v2

import (
	"io"

	"golang.org/x/exp/slices"
)

// Bytes serializes the tag, header included. Frame sizes are recomputed
// from the bodies, identification frames are written first and bulky binary
// frames last, and the extended header is never written. Unsynchronization
// happens per frame for v2.4 and over the whole frame region otherwise,
// when enabled and needed.
func (t *Tag) Bytes() ([]byte, error) {
	frames := t.writeList()

	var body []byte
	var err error
	for _, f := range frames {
		body, err = f.appendTo(body, t.Opts)
		if err != nil {
			return nil, err
		}
	}

	var flags byte
	if t.Version != Version24 && t.Opts.Unsynchronize && needsUnsynchronization(body) {
		flags |= tagFlagUnsync
		body = unsynchronize(body)
	}

	size := len(body) + t.Opts.Padding
	sz, err := encodeSyncsafe(size)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, tagHeaderSize+size)
	out = append(out, id3Magic...)
	out = append(out, byte(t.Version), 0, flags)
	out = append(out, sz[:]...)
	out = append(out, body...)
	out = append(out, make([]byte, t.Opts.Padding)...)
	return out, nil
}

// Encode writes the serialized tag to w.
func (t *Tag) Encode(w io.Writer) error {
	b, err := t.Bytes()
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// writeList flattens the tag into the frame sequence to serialize. The
// date aggregate expands into its TYER and TDAT halves, and the sequence
// is stably sorted into the preferred order so equal-ranking frames keep
// their insertion order.
func (t *Tag) writeList() []*Frame {
	var frames []*Frame
	for _, id := range t.order {
		frames = append(frames, t.frames[id]...)
	}
	slices.SortStableFunc(frames, func(a, b *Frame) int {
		return frameOrderRank(a.id) - frameOrderRank(b.id)
	})
	return frames
}
