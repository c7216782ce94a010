package id3v2

import (
	"fmt"
	"log"
)

// Enables logging if set to true.
var Logging LogFlag

type LogFlag bool

func (l LogFlag) Println(args ...interface{}) {
	if l {
		log.Println(args...)
	}
}

func (l LogFlag) Printf(format string, args ...interface{}) {
	if l {
		log.Printf(format, args...)
	}
}

var id3Magic = []byte("ID3")

const (
	tagHeaderSize = 10

	frameHeaderSize22 = 6  // 3-byte id + 3-byte size
	frameHeaderSize   = 10 // 4-byte id + 4-byte size + 2 flag bytes
)

// Version identifies one of the three supported ID3v2 major versions.
type Version byte

const (
	Version22 Version = 2
	Version23 Version = 3
	Version24 Version = 4
)

func (v Version) String() string {
	return fmt.Sprintf("ID3v2.%d", byte(v))
}

func (v Version) valid() bool {
	return v >= Version22 && v <= Version24
}

// idSize returns the identifier length in bytes for frames of this version.
func (v Version) idSize() int {
	if v == Version22 {
		return 3
	}
	return 4
}

func (v Version) frameHeaderSize() int {
	if v == Version22 {
		return frameHeaderSize22
	}
	return frameHeaderSize
}

// validFrameID reports whether id matches the frame identifier grammar for
// the given version: an upper-case letter followed by upper-case letters or
// digits, 3 characters for v2.2 and 4 otherwise.
func validFrameID(id string, v Version) bool {
	if len(id) != v.idSize() {
		return false
	}
	if id[0] < 'A' || id[0] > 'Z' {
		return false
	}
	for i := 1; i < len(id); i++ {
		c := id[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

func allZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}

func concat(bs ...[]byte) []byte {
	n := 0
	for _, b := range bs {
		n += len(b)
	}
	out := make([]byte, 0, n)
	for _, b := range bs {
		out = append(out, b...)
	}
	return out
}
