package id3v2

// Unsynchronization is a reversible byte-stuffing transform that inserts a
// zero byte after every 0xFF so the tag can never be misread as an MPEG
// frame sync.

// needsUnsynchronization reports whether b contains a pattern that could be
// misread as an MPEG sync (0xFF followed by a byte >= 0xE0) or as an
// already-unsynchronized marker (0xFF followed by 0x00).
func needsUnsynchronization(b []byte) bool {
	for i := 0; i+1 < len(b); i++ {
		if b[i] == 0xff && (b[i+1] >= 0xe0 || b[i+1] == 0x00) {
			return true
		}
	}
	return false
}

// unsynchronize inserts a zero byte after every 0xFF byte.
func unsynchronize(b []byte) []byte {
	out := make([]byte, 0, len(b)+len(b)/32)
	for _, c := range b {
		out = append(out, c)
		if c == 0xff {
			out = append(out, 0x00)
		}
	}
	return out
}

// synchronize removes the zero byte following each 0xFF byte. A zero byte
// not preceded by 0xFF is data and is kept. synchronize(unsynchronize(x))
// == x for all x.
func synchronize(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		out = append(out, b[i])
		if b[i] == 0xff && i+1 < len(b) && b[i+1] == 0x00 {
			i++
		}
	}
	return out
}
