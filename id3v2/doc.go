// Package id3v2 implements reading and writing of ID3v2 tags, versions 2.2
// through 2.4.
//
// Decoding is deliberately forgiving: real files carry frames written by
// sloppy encoders, and the package prefers salvaging what it can over
// failing the whole tag. Frames with plain big-endian sizes where syncsafe
// ones belong are detected heuristically, zero-size frames and duplicates
// are skipped and accounted for, and a malformed frame body never stops the
// scan. Encoding, by contrast, is strict and always produces spec-clean
// output.
//
// Tags convert losslessly between versions where the frames allow it;
// frames a target version cannot express are preserved raw or dropped with
// a log message, never corrupted.
package id3v2
