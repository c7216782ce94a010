// Package riffmeta locates and rewrites the ID3 chunk that WAV and AIFF
// files use to embed an ID3v2 tag. RIFF stores chunk sizes little endian,
// AIFF (a FORM container) big endian; both pad chunks to even offsets.
package riffmeta

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/mvmn/audiotag/id3v2"
)

// ErrNoID3Chunk means the container is well formed but carries no embedded
// ID3 tag.
var ErrNoID3Chunk = errors.New("riffmeta: no ID3 chunk")

const headerSize = 12 // container id + size + form type

type container struct {
	order binary.ByteOrder
}

// detect validates the container header and returns its byte order.
func detect(b []byte) (container, error) {
	if len(b) < headerSize {
		return container{}, errors.New("riffmeta: file too short for a chunk header")
	}
	switch {
	case bytes.Equal(b[:4], []byte("RIFF")) && bytes.Equal(b[8:12], []byte("WAVE")):
		return container{order: binary.LittleEndian}, nil
	case bytes.Equal(b[:4], []byte("FORM")) &&
		(bytes.Equal(b[8:12], []byte("AIFF")) || bytes.Equal(b[8:12], []byte("AIFC"))):
		return container{order: binary.BigEndian}, nil
	}
	return container{}, fmt.Errorf("riffmeta: not a RIFF or FORM container: %q", b[:4])
}

// isID3Chunk matches the chunk identifiers seen in the wild; writers
// disagree on capitalization and trailing blanks.
func isID3Chunk(id []byte) bool {
	return bytes.Equal(id, []byte("id3 ")) || bytes.Equal(id, []byte("ID3 ")) ||
		bytes.Equal(id, []byte("ID32"))
}

// findChunk walks the chunk list and returns the offset and length of the
// first ID3 chunk's data.
func findChunk(b []byte, c container) (start, length int, err error) {
	pos := headerSize
	for pos+8 <= len(b) {
		id := b[pos : pos+4]
		size := int(c.order.Uint32(b[pos+4 : pos+8]))
		data := pos + 8
		if size < 0 || data+size > len(b) {
			return 0, 0, fmt.Errorf("riffmeta: chunk %q overruns the file", id)
		}
		if isID3Chunk(id) {
			return data, size, nil
		}
		pos = data + size
		if size%2 == 1 {
			pos++ // pad byte
		}
	}
	return 0, 0, ErrNoID3Chunk
}

// Read extracts and decodes the embedded tag.
func Read(b []byte, opts id3v2.Options) (*id3v2.Tag, error) {
	c, err := detect(b)
	if err != nil {
		return nil, err
	}
	start, length, err := findChunk(b, c)
	if err != nil {
		return nil, err
	}
	return id3v2.ReadTag(b[start:start+length], opts)
}

// Write returns a copy of the container with the embedded tag replaced, or
// appended as a new chunk when none exists. The container size field is
// updated; the audio chunks are copied untouched.
func Write(b []byte, tag *id3v2.Tag) ([]byte, error) {
	c, err := detect(b)
	if err != nil {
		return nil, err
	}
	tagBytes, err := tag.Bytes()
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(b)+len(tagBytes))
	out = append(out, b[:headerSize]...)

	replaced := false
	pos := headerSize
	for pos+8 <= len(b) {
		id := b[pos : pos+4]
		size := int(c.order.Uint32(b[pos+4 : pos+8]))
		data := pos + 8
		if data+size > len(b) {
			return nil, fmt.Errorf("riffmeta: chunk %q overruns the file", id)
		}
		if isID3Chunk(id) {
			out = appendChunk(out, c, id, tagBytes)
			replaced = true
		} else {
			end := data + size
			if size%2 == 1 && end < len(b) {
				end++ // keep the pad byte with its chunk
			}
			out = append(out, b[pos:end]...)
		}
		pos = data + size
		if size%2 == 1 {
			pos++
		}
	}
	if !replaced {
		out = appendChunk(out, c, []byte("id3 "), tagBytes)
	}

	c.order.PutUint32(out[4:8], uint32(len(out)-8))
	return out, nil
}

func appendChunk(dst []byte, c container, id, data []byte) []byte {
	var size [4]byte
	c.order.PutUint32(size[:], uint32(len(data)))
	dst = append(dst, id...)
	dst = append(dst, size[:]...)
	dst = append(dst, data...)
	if len(data)%2 == 1 {
		dst = append(dst, 0)
	}
	return dst
}
