package id3v2

import (
	"errors"
	"fmt"
)

// ErrValueTooLarge is returned when a size does not fit in the 28 bits a
// syncsafe integer can represent.
var ErrValueTooLarge = errors.New("id3v2: value does not fit in a syncsafe integer")

// TagNotFoundError means the bytes at the expected offset do not start with
// an ID3v2 tag marker. The audio data is unaffected.
type TagNotFoundError struct {
	Magic [3]byte
}

func (e TagNotFoundError) Error() string {
	return fmt.Sprintf("not an ID3v2 tag: %q", e.Magic)
}

type UnsupportedVersionError struct {
	Major    byte
	Revision byte
}

func (e UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported tag version: ID3v2.%d.%d", e.Major, e.Revision)
}

// InvalidFrameIdentifierError means bytes in the frame region do not match
// the identifier grammar. Frame scanning stops; the remaining bytes are
// assumed to be padding or garbage.
type InvalidFrameIdentifierError struct {
	ID string
}

func (e InvalidFrameIdentifierError) Error() string {
	return fmt.Sprintf("%q is not a valid frame identifier", e.ID)
}

// EmptyFrameError marks a frame whose declared size is zero. The frame is
// skipped and scanning continues.
type EmptyFrameError struct {
	ID string
}

func (e EmptyFrameError) Error() string {
	return fmt.Sprintf("%s is an empty frame", e.ID)
}

// InvalidFrameError marks a frame whose declared size is inconsistent with
// the remaining tag bytes.
type InvalidFrameError struct {
	ID     string
	Reason string
}

func (e InvalidFrameError) Error() string {
	return fmt.Sprintf("%s is an invalid frame: %s", e.ID, e.Reason)
}

// MalformedBodyError marks a frame with a valid header but undecodable body
// content. The frame is skipped and scanning continues.
type MalformedBodyError struct {
	ID     string
	Reason string
}

func (e MalformedBodyError) Error() string {
	return fmt.Sprintf("%s has a malformed body: %s", e.ID, e.Reason)
}

// UnsupportedEncryptionError marks a frame with the encryption flag set.
// Decryption is not supported; the frame is reported and skipped rather
// than silently kept.
type UnsupportedEncryptionError struct {
	ID     string
	Method byte
}

func (e UnsupportedEncryptionError) Error() string {
	return fmt.Sprintf("%s is encrypted with method %#x", e.ID, e.Method)
}

// UnsupportedFieldError means the generic field key has no frame mapping in
// the tag's version.
type UnsupportedFieldError struct {
	Key     FieldKey
	Version Version
}

func (e UnsupportedFieldError) Error() string {
	return fmt.Sprintf("field %s is not supported by %s", e.Key, e.Version)
}
