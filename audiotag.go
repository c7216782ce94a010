// Package audiotag reads audio file metadata through a single entry point,
// dispatching on the file extension. MP3, WAV and AIFF go through the ID3v2
// core, MP4 through the ilst atoms and FLAC through its Vorbis comments.
package audiotag

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mvmn/audiotag/flacmeta"
	"github.com/mvmn/audiotag/id3v2"
	"github.com/mvmn/audiotag/mp4meta"
	"github.com/mvmn/audiotag/riffmeta"
)

// Picture is an embedded image, typically the front cover.
type Picture struct {
	MIMEType string
	Data     []byte
}

// Metadata is the format-independent view of a file's tags. Fields a format
// cannot express stay empty.
type Metadata struct {
	Format string // "ID3v2.4", "MP4", "FLAC", ...

	Title       string
	Artist      string
	Album       string
	AlbumArtist string
	Composer    string
	Genre       string
	Year        string
	Track       string
	Disc        string
	Comment     string

	Pictures []Picture
}

// ReadFunc reads the metadata of one file format.
type ReadFunc func(path string) (*Metadata, error)

var readers = map[string]ReadFunc{}

// Register installs a reader for an extension (".mp3"). Later registrations
// win, so callers can override the built-in formats.
func Register(ext string, fn ReadFunc) {
	readers[strings.ToLower(ext)] = fn
}

func init() {
	Register(".mp3", readMP3)
	Register(".wav", readRIFF)
	Register(".aif", readRIFF)
	Register(".aiff", readRIFF)
	Register(".m4a", readMP4)
	Register(".mp4", readMP4)
	Register(".flac", readFLAC)
}

// ReadMetadata reads the tags of the file, picking the parser by extension.
func ReadMetadata(path string) (*Metadata, error) {
	fn, ok := readers[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("audiotag: unsupported file type %q", filepath.Ext(path))
	}
	return fn(path)
}

func readMP3(path string) (*Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	ok, err := id3v2.Check(r)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Metadata{Format: "MP3"}, nil
	}
	tag, err := id3v2.Decode(r, id3v2.DefaultOptions())
	if err != nil {
		return nil, err
	}
	return fromTag(tag), nil
}

func readRIFF(path string) (*Metadata, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tag, err := riffmeta.Read(b, id3v2.DefaultOptions())
	if err == riffmeta.ErrNoID3Chunk {
		return &Metadata{Format: "RIFF"}, nil
	}
	if err != nil {
		return nil, err
	}
	return fromTag(tag), nil
}

// fromTag flattens an ID3v2 tag into the generic view.
func fromTag(tag *id3v2.Tag) *Metadata {
	m := &Metadata{Format: tag.Version.String()}

	get := func(key id3v2.FieldKey) string {
		v, err := tag.Field(key)
		if err != nil {
			return ""
		}
		return v
	}
	m.Title = get(id3v2.FieldTitle)
	m.Artist = get(id3v2.FieldArtist)
	m.Album = get(id3v2.FieldAlbum)
	m.AlbumArtist = get(id3v2.FieldAlbumArtist)
	m.Composer = get(id3v2.FieldComposer)
	m.Genre = get(id3v2.FieldGenre)
	m.Year = get(id3v2.FieldYear)
	m.Track = get(id3v2.FieldTrack)
	m.Disc = get(id3v2.FieldDisc)
	m.Comment = get(id3v2.FieldComment)

	picID := "APIC"
	if tag.Version == id3v2.Version22 {
		picID = "PIC"
	}
	for _, f := range tag.Frames(picID) {
		if pb, ok := f.Body.(*id3v2.PictureBody); ok {
			m.Pictures = append(m.Pictures, Picture{MIMEType: pb.MIMEType, Data: pb.Data})
		}
	}
	return m
}

func readMP4(path string) (*Metadata, error) {
	src, err := mp4meta.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m := &Metadata{
		Format:      "MP4",
		Title:       src.Title,
		Artist:      strings.Join(src.Artists, "; "),
		Album:       src.Album,
		AlbumArtist: src.AlbumArtist,
		Year:        src.Date,
		Track:       pairString(src.Track, src.TrackTotal),
		Disc:        pairString(src.Disc, src.DiscTotal),
	}
	if src.Cover != nil {
		m.Pictures = []Picture{{MIMEType: src.Cover.MIMEType, Data: src.Cover.Data}}
	}
	return m, nil
}

func readFLAC(path string) (*Metadata, error) {
	src, err := flacmeta.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m := &Metadata{
		Format:      "FLAC",
		Title:       src.Title,
		Artist:      strings.Join(src.Artists, "; "),
		Album:       src.Album,
		AlbumArtist: src.AlbumArtist,
		Genre:       src.Genre,
		Year:        src.Date,
		Track:       pairString(src.Track, src.TrackTotal),
		Disc:        pairString(src.Disc, src.DiscTotal),
	}
	if src.Cover != nil {
		m.Pictures = []Picture{{MIMEType: src.Cover.MIMEType, Data: src.Cover.Data}}
	}
	return m, nil
}

// pairString renders a number/total pair the way ID3 text frames do, "3/12"
// or just "3" when the total is unknown.
func pairString(number, total int) string {
	if number == 0 && total == 0 {
		return ""
	}
	if total == 0 {
		return fmt.Sprintf("%d", number)
	}
	return fmt.Sprintf("%d/%d", number, total)
}
