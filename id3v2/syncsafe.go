package id3v2

import "encoding/binary"

// A syncsafe integer stores 7 bits per byte, most significant byte first,
// so that size fields can never contain a false MPEG sync pattern.

const syncsafeMax = 1<<28 - 1

// Sizes up to this value encode identically as syncsafe and as plain
// big-endian integers, so no ambiguity is possible below it.
const maxUnambiguousSize = 127

func decodeSyncsafe(b []byte) int {
	return int(b[0]&0x7f)<<21 | int(b[1]&0x7f)<<14 | int(b[2]&0x7f)<<7 | int(b[3]&0x7f)
}

func encodeSyncsafe(v int) ([4]byte, error) {
	var out [4]byte
	if v < 0 || v > syncsafeMax {
		return out, ErrValueTooLarge
	}
	out[0] = byte(v >> 21 & 0x7f)
	out[1] = byte(v >> 14 & 0x7f)
	out[2] = byte(v >> 7 & 0x7f)
	out[3] = byte(v & 0x7f)
	return out, nil
}

func isSyncsafe(b []byte) bool {
	return b[0]&0x80 == 0 && b[1]&0x80 == 0 && b[2]&0x80 == 0 && b[3]&0x80 == 0
}

// resolveFrameSize decides between the syncsafe and the plain big-endian
// reading of a v2.4 frame size field. Some encoders (iTunes, most famously)
// write plain integers where the spec mandates syncsafe ones. raw holds the
// four size bytes, bodyStart indexes the first body byte within buf (that
// is, past the size and flag bytes). The decision is deterministic and
// favors syncsafe whenever the evidence is inconclusive. Returns -1 when
// neither reading fits the buffer.
func resolveFrameSize(buf []byte, bodyStart int, raw []byte) int {
	size := decodeSyncsafe(raw)
	if size <= maxUnambiguousSize {
		return size
	}
	plain := int(binary.BigEndian.Uint32(raw))
	remaining := len(buf) - bodyStart

	if !isSyncsafe(raw) {
		// A high bit is set, so the field cannot be a syncsafe integer.
		if plain > remaining {
			return -1
		}
		Logging.Printf("frame size is not stored as a syncsafe integer")
		return plain
	}

	// The field reads as syncsafe, but verify that its boundary lands on a
	// valid next-frame identifier or padding before trusting it.
	next := bodyStart + size
	if next+4 > len(buf) {
		// No room for another frame header; assume syncsafe.
		return size
	}
	id := buf[next : next+4]
	if validFrameID(string(id), Version24) || allZero(id) {
		return size
	}

	// The syncsafe boundary lands on garbage. Try the plain reading.
	if plain > remaining {
		return size
	}
	next = bodyStart + plain
	if next+4 > len(buf) {
		// Accept the plain size only if it lands exactly on end of buffer,
		// which would make this the last frame. Anything else is
		// inconclusive: stick with syncsafe.
		if plain == remaining {
			Logging.Printf("assuming frame size is not stored as a syncsafe integer")
			return plain
		}
		return size
	}
	id = buf[next : next+4]
	if validFrameID(string(id), Version24) || allZero(id) {
		Logging.Printf("assuming frame size is not stored as a syncsafe integer")
		return plain
	}
	return size
}
