package id3v2

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
)

// v2.3 frame flag bits.
const (
	flag23StatusTagAlter  = 0x80
	flag23StatusFileAlter = 0x40
	flag23StatusReadOnly  = 0x20

	flag23FormatCompression = 0x80
	flag23FormatEncryption  = 0x40
	flag23FormatGrouping    = 0x20
)

// v2.4 frame flag bits.
const (
	flag24StatusTagAlter  = 0x40
	flag24StatusFileAlter = 0x20
	flag24StatusReadOnly  = 0x10

	flag24FormatGrouping    = 0x40
	flag24FormatCompression = 0x08
	flag24FormatEncryption  = 0x04
	flag24FormatUnsync      = 0x02
	flag24FormatDataLength  = 0x01
)

// StatusFlags are the frame status bits: what should happen to the frame
// when the tag or the file it describes is altered by a writer that does
// not know the frame.
type StatusFlags struct {
	DiscardOnTagAlter  bool
	DiscardOnFileAlter bool
	ReadOnly           bool
}

// Frame is a single decoded frame. The identifier and version are fixed at
// construction; converting a frame to another version produces a new Frame.
type Frame struct {
	id      string
	version Version

	Status  StatusFlags
	Grouped bool
	GroupID byte

	Body FrameBody
}

func NewFrame(id string, v Version, body FrameBody) *Frame {
	return &Frame{id: id, version: v, Body: body}
}

func (f *Frame) ID() string       { return f.id }
func (f *Frame) Version() Version { return f.version }

func (f *Frame) String() string {
	return fmt.Sprintf("%s: %s", f.id, f.Body.Value())
}

// Text returns the text of a text frame, or "" for any other body.
func (f *Frame) Text() string {
	if b, ok := f.Body.(*TextBody); ok {
		return b.Text
	}
	return ""
}

type frameOutcome int

const (
	frameOK frameOutcome = iota

	// framePadding means zero bytes where an identifier should be. The
	// rest of the frame region is padding; scanning stops.
	framePadding

	// frameInvalidID means non-zero bytes that are not an identifier.
	// Scanning stops and the remaining byte count is reported.
	frameInvalidID

	// frameEmpty means a well-formed header declaring a zero size. The
	// header bytes are consumed and scanning continues.
	frameEmpty

	// frameInvalid means the declared size does not fit the remaining
	// bytes. Scanning stops.
	frameInvalid

	// frameBadBody means the header was fine but the content could not be
	// decoded. The frame is skipped and scanning continues.
	frameBadBody
)

// frameResult is the outcome of reading one frame: exactly one of frame or
// err is meaningful depending on outcome, and n is how many bytes the frame
// occupied, already consumed from the reader.
type frameResult struct {
	outcome frameOutcome
	frame   *Frame
	n       int
	err     error
}

// frameReader scans the frame region of a tag. It owns a cursor into buf
// and never reads past len(buf); every result states how far the cursor
// moved.
type frameReader struct {
	buf     []byte
	pos     int
	version Version
	opts    Options
}

func (fr *frameReader) remaining() int {
	return len(fr.buf) - fr.pos
}

func (fr *frameReader) done() bool {
	return fr.pos >= len(fr.buf)
}

func (fr *frameReader) next() frameResult {
	hdrLen := fr.version.frameHeaderSize()
	idLen := fr.version.idSize()

	if fr.remaining() < hdrLen {
		rest := fr.buf[fr.pos:]
		fr.pos = len(fr.buf)
		if allZero(rest) {
			return frameResult{outcome: framePadding, n: len(rest)}
		}
		return frameResult{
			outcome: frameInvalidID,
			n:       len(rest),
			err:     InvalidFrameIdentifierError{ID: string(rest)},
		}
	}

	hdr := fr.buf[fr.pos : fr.pos+hdrLen]
	id := string(hdr[:idLen])

	if allZero(hdr[:idLen]) {
		n := fr.remaining()
		fr.pos = len(fr.buf)
		return frameResult{outcome: framePadding, n: n}
	}
	if !validFrameID(id, fr.version) {
		n := fr.remaining()
		fr.pos = len(fr.buf)
		return frameResult{
			outcome: frameInvalidID,
			n:       n,
			err:     InvalidFrameIdentifierError{ID: id},
		}
	}

	var size int
	switch fr.version {
	case Version22:
		size = int(hdr[3])<<16 | int(hdr[4])<<8 | int(hdr[5])
	case Version23:
		size = int(binary.BigEndian.Uint32(hdr[4:8]))
	case Version24:
		size = resolveFrameSize(fr.buf, fr.pos+hdrLen, hdr[4:8])
		if size < 0 {
			n := fr.remaining()
			fr.pos = len(fr.buf)
			return frameResult{
				outcome: frameInvalid,
				n:       n,
				err:     InvalidFrameError{ID: id, Reason: "size field fits no reading"},
			}
		}
	}

	if size == 0 {
		fr.pos += hdrLen
		return frameResult{
			outcome: frameEmpty,
			n:       hdrLen,
			err:     EmptyFrameError{ID: id},
		}
	}
	if size > fr.remaining()-hdrLen {
		n := fr.remaining()
		fr.pos = len(fr.buf)
		return frameResult{
			outcome: frameInvalid,
			n:       n,
			err: InvalidFrameError{
				ID:     id,
				Reason: fmt.Sprintf("declared size %d exceeds %d remaining bytes", size, n-hdrLen),
			},
		}
	}

	body := fr.buf[fr.pos+hdrLen : fr.pos+hdrLen+size]
	n := hdrLen + size
	fr.pos += n

	f := &Frame{id: id, version: fr.version}

	var compressed bool
	var indicatedLen = -1

	if fr.version != Version22 {
		status, format := hdr[8], hdr[9]
		switch fr.version {
		case Version23:
			f.Status = StatusFlags{
				DiscardOnTagAlter:  status&flag23StatusTagAlter != 0,
				DiscardOnFileAlter: status&flag23StatusFileAlter != 0,
				ReadOnly:           status&flag23StatusReadOnly != 0,
			}
			compressed = format&flag23FormatCompression != 0
			if compressed {
				if len(body) < 4 {
					return badBody(f, n, "compressed frame shorter than its size field")
				}
				indicatedLen = int(binary.BigEndian.Uint32(body))
				body = body[4:]
			}
			if format&flag23FormatEncryption != 0 {
				if len(body) < 1 {
					return badBody(f, n, "encrypted frame without method byte")
				}
				return frameResult{
					outcome: frameBadBody,
					frame:   f,
					n:       n,
					err:     UnsupportedEncryptionError{ID: id, Method: body[0]},
				}
			}
			if format&flag23FormatGrouping != 0 {
				if len(body) < 1 {
					return badBody(f, n, "grouped frame without group byte")
				}
				f.Grouped = true
				f.GroupID = body[0]
				body = body[1:]
			}
		case Version24:
			f.Status = StatusFlags{
				DiscardOnTagAlter:  status&flag24StatusTagAlter != 0,
				DiscardOnFileAlter: status&flag24StatusFileAlter != 0,
				ReadOnly:           status&flag24StatusReadOnly != 0,
			}
			if format&flag24FormatGrouping != 0 {
				if len(body) < 1 {
					return badBody(f, n, "grouped frame without group byte")
				}
				f.Grouped = true
				f.GroupID = body[0]
				body = body[1:]
			}
			if format&flag24FormatEncryption != 0 {
				if len(body) < 1 {
					return badBody(f, n, "encrypted frame without method byte")
				}
				return frameResult{
					outcome: frameBadBody,
					frame:   f,
					n:       n,
					err:     UnsupportedEncryptionError{ID: id, Method: body[0]},
				}
			}
			compressed = format&flag24FormatCompression != 0
			if format&flag24FormatDataLength != 0 {
				if len(body) < 4 {
					return badBody(f, n, "frame shorter than its data length indicator")
				}
				indicatedLen = decodeSyncsafe(body[:4])
				body = body[4:]
			}
			if format&flag24FormatUnsync != 0 {
				body = synchronize(body)
			}
		}
	}

	if compressed {
		plain, err := inflate(body)
		if err != nil {
			return badBody(f, n, "zlib: "+err.Error())
		}
		if indicatedLen >= 0 && len(plain) != indicatedLen {
			return badBody(f, n, fmt.Sprintf("decompressed to %d bytes, header says %d", len(plain), indicatedLen))
		}
		body = plain
	}

	if err := f.parseBody(body); err != nil {
		return frameResult{
			outcome: frameBadBody,
			frame:   f,
			n:       n,
			err:     MalformedBodyError{ID: id, Reason: err.Error()},
		}
	}
	return frameResult{outcome: frameOK, frame: f, n: n}
}

func badBody(f *Frame, n int, reason string) frameResult {
	return frameResult{
		outcome: frameBadBody,
		frame:   f,
		n:       n,
		err:     MalformedBodyError{ID: f.id, Reason: reason},
	}
}

func inflate(b []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

func (f *Frame) parseBody(data []byte) error {
	var body FrameBody
	var err error
	switch frameKindFor(f.id, f.version) {
	case kindText:
		body, err = parseTextBody(data)
	case kindUserText:
		body, err = parseUserTextBody(data)
	case kindURL:
		body, err = parseURLBody(data)
	case kindUserURL:
		body, err = parseUserURLBody(data)
	case kindComment:
		body, err = parseCommentBody(data)
	case kindLyrics:
		body, err = parseLyricsBody(data)
	case kindPicture:
		body, err = parsePictureBody(data, f.version)
	case kindInvolvedPeople:
		body, err = parseInvolvedPeopleBody(data)
	case kindUFID:
		body, err = parseUFIDBody(data)
	case kindPrivate:
		body, err = parsePrivateBody(data)
	case kindMusicCDID:
		body = &MusicCDIDBody{TOC: append([]byte(nil), data...)}
	case kindTermsOfUse:
		body, err = parseTermsOfUseBody(data)
	case kindPlayCounter:
		body, err = parsePlayCounterBody(data)
	case kindPopularimeter:
		body, err = parsePopularimeterBody(data)
	default:
		body = &UnsupportedBody{Data: append([]byte(nil), data...)}
	}
	if err != nil {
		return err
	}
	f.Body = body
	return nil
}

// appendTo serializes the frame and appends it to dst. The size field is
// recomputed from the body; compression, encryption and data length
// indicator flags are never written.
func (f *Frame) appendTo(dst []byte, opts Options) ([]byte, error) {
	body, err := f.encodeBody(opts)
	if err != nil {
		return nil, err
	}

	switch f.version {
	case Version22:
		size := len(body)
		if size > 0xffffff {
			return nil, ErrValueTooLarge
		}
		dst = append(dst, f.id...)
		dst = append(dst, byte(size>>16), byte(size>>8), byte(size))
		return append(dst, body...), nil

	case Version23:
		var status, format byte
		if f.Status.DiscardOnTagAlter {
			status |= flag23StatusTagAlter
		}
		if f.Status.DiscardOnFileAlter {
			status |= flag23StatusFileAlter
		}
		if f.Status.ReadOnly {
			status |= flag23StatusReadOnly
		}
		if f.Grouped {
			format |= flag23FormatGrouping
			body = append([]byte{f.GroupID}, body...)
		}
		size := len(body)
		if size > int(^uint32(0)>>1) {
			return nil, ErrValueTooLarge
		}
		dst = append(dst, f.id...)
		dst = binary.BigEndian.AppendUint32(dst, uint32(size))
		dst = append(dst, status, format)
		return append(dst, body...), nil

	case Version24:
		var status, format byte
		if f.Status.DiscardOnTagAlter {
			status |= flag24StatusTagAlter
		}
		if f.Status.DiscardOnFileAlter {
			status |= flag24StatusFileAlter
		}
		if f.Status.ReadOnly {
			status |= flag24StatusReadOnly
		}
		if f.Grouped {
			format |= flag24FormatGrouping
			body = append([]byte{f.GroupID}, body...)
		}
		if opts.Unsynchronize && needsUnsynchronization(body) {
			format |= flag24FormatUnsync
			body = unsynchronize(body)
		}
		sz, err := encodeSyncsafe(len(body))
		if err != nil {
			return nil, err
		}
		dst = append(dst, f.id...)
		dst = append(dst, sz[:]...)
		dst = append(dst, status, format)
		return append(dst, body...), nil
	}
	return nil, UnsupportedVersionError{Major: byte(f.version)}
}

func (f *Frame) encodeBody(opts Options) ([]byte, error) {
	if !opts.GenreAsText && (f.id == "TCON" || f.id == "TCO") {
		if tb, ok := f.Body.(*TextBody); ok {
			for i, g := range id3v1Genres {
				if g == tb.Text {
					num := &TextBody{Encoding: tb.Encoding, Text: "(" + strconv.Itoa(i) + ")"}
					return num.encode(f.version)
				}
			}
		}
	}
	return f.Body.encode(f.version)
}

// clone returns a deep copy sharing no mutable state with f.
func (f *Frame) clone() *Frame {
	out := *f
	out.Body = cloneBody(f.Body)
	return &out
}

func cloneBody(b FrameBody) FrameBody {
	switch b := b.(type) {
	case *TextBody:
		c := *b
		return &c
	case *UserTextBody:
		c := *b
		return &c
	case *URLBody:
		c := *b
		return &c
	case *UserURLBody:
		c := *b
		return &c
	case *CommentBody:
		c := *b
		return &c
	case *LyricsBody:
		c := *b
		return &c
	case *PictureBody:
		c := *b
		c.Data = append([]byte(nil), b.Data...)
		return &c
	case *InvolvedPeopleBody:
		c := *b
		c.Pairs = append([]Pair(nil), b.Pairs...)
		return &c
	case *UFIDBody:
		c := *b
		c.Identifier = append([]byte(nil), b.Identifier...)
		return &c
	case *PrivateBody:
		c := *b
		c.Data = append([]byte(nil), b.Data...)
		return &c
	case *MusicCDIDBody:
		c := *b
		c.TOC = append([]byte(nil), b.TOC...)
		return &c
	case *TermsOfUseBody:
		c := *b
		return &c
	case *PlayCounterBody:
		c := *b
		return &c
	case *PopularimeterBody:
		c := *b
		return &c
	case *UnsupportedBody:
		c := *b
		c.Data = append([]byte(nil), b.Data...)
		return &c
	case *DeprecatedBody:
		c := *b
		c.Data = append([]byte(nil), b.Data...)
		return &c
	}
	return b
}
