package id3v2

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
)

// Tag header flag bits, shared across versions. The footer bit only exists
// in v2.4.
const (
	tagFlagUnsync       = 0x80
	tagFlagExtended     = 0x40
	tagFlagExperimental = 0x20
	tagFlagFooter       = 0x10
)

// Check reports whether the reader is positioned at an ID3v2 tag. It peeks
// and does not consume any bytes.
func Check(r *bufio.Reader) (bool, error) {
	b, err := r.Peek(3)
	if err != nil {
		return false, err
	}
	return bytes.Equal(b, id3Magic), nil
}

// Decode reads a tag from r, which must be positioned at the tag header.
// Exactly the tag's bytes are consumed, leaving r at the audio data.
func Decode(r io.Reader, opts Options) (*Tag, error) {
	var hdr [tagHeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	if !bytes.Equal(hdr[:3], id3Magic) {
		var magic [3]byte
		copy(magic[:], hdr[:3])
		return nil, TagNotFoundError{Magic: magic}
	}
	size := decodeSyncsafe(hdr[6:10])
	body := make([]byte, size)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}
	return readTag(hdr[:], body, opts)
}

// ReadTag decodes a tag from b, which must start with the tag header. Bytes
// past the declared tag size are ignored.
func ReadTag(b []byte, opts Options) (*Tag, error) {
	if len(b) < tagHeaderSize {
		return nil, io.ErrUnexpectedEOF
	}
	if !bytes.Equal(b[:3], id3Magic) {
		var magic [3]byte
		copy(magic[:], b[:3])
		return nil, TagNotFoundError{Magic: magic}
	}
	size := decodeSyncsafe(b[6:10])
	if len(b) < tagHeaderSize+size {
		return nil, io.ErrUnexpectedEOF
	}
	return readTag(b[:tagHeaderSize], b[tagHeaderSize:tagHeaderSize+size], opts)
}

func readTag(hdr, body []byte, opts Options) (*Tag, error) {
	major, revision := hdr[3], hdr[4]
	v := Version(major)
	if !v.valid() {
		return nil, UnsupportedVersionError{Major: major, Revision: revision}
	}

	flags := hdr[5]
	t := NewTag(v, opts)
	t.Revision = revision
	t.Unsynchronized = flags&tagFlagUnsync != 0
	t.Extended = flags&tagFlagExtended != 0
	t.Experimental = flags&tagFlagExperimental != 0

	// v2.4 moved unsynchronization into the frames; the tag level flag
	// merely summarizes them there. For the older versions the whole frame
	// region is transformed.
	if t.Unsynchronized && v != Version24 {
		body = synchronize(body)
	}

	if t.Extended {
		body = t.skipExtendedHeader(body)
	}

	fr := &frameReader{buf: body, version: v, opts: opts}
	for !fr.done() {
		res := fr.next()
		switch res.outcome {
		case frameOK:
			t.loadFrame(res.frame, res.n)
		case framePadding:
			t.PaddingSize += res.n
		case frameEmpty:
			Logging.Println(res.err)
			t.EmptyFrameBytes += res.n
		case frameBadBody:
			Logging.Println(res.err)
			t.InvalidFrames++
		case frameInvalidID, frameInvalid:
			// The cursor cannot recover; whatever remains is lost.
			Logging.Println(res.err)
			t.InvalidFrames++
		}
	}
	return t, nil
}

// skipExtendedHeader consumes the extended header and returns the frame
// region. A v2.3 extended header with an impossible size is assumed to be
// absent despite the flag: some writers set the flag without writing the
// header, and frame data starts right away.
func (t *Tag) skipExtendedHeader(body []byte) []byte {
	switch t.Version {
	case Version23:
		if len(body) < 4 {
			return body
		}
		size := int(binary.BigEndian.Uint32(body))
		if size != 6 && size != 10 {
			Logging.Printf("invalid extended header size %d, assuming frame data", size)
			t.Extended = false
			return body
		}
		if len(body) < 4+size {
			return nil
		}
		if size == 10 {
			t.CRC = binary.BigEndian.Uint32(body[10:14])
			t.HasCRC = true
		}
		return body[4+size:]
	case Version24:
		if len(body) < 4 {
			return body
		}
		// The v2.4 size is syncsafe and includes its own four bytes.
		size := decodeSyncsafe(body)
		if size < 4 || size > len(body) {
			Logging.Printf("invalid extended header size %d, assuming frame data", size)
			t.Extended = false
			return body
		}
		return body[size:]
	}
	// v2.2 used this bit for compression, which was never defined. Nothing
	// to skip.
	return body
}
