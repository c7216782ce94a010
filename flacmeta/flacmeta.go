// Package flacmeta reads and writes FLAC metadata: the Vorbis comment block
// and embedded pictures.
package flacmeta

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	flac "github.com/go-flac/go-flac"
)

// Picture is an embedded cover image.
type Picture struct {
	MIMEType string
	Data     []byte
}

// Metadata is the flat view of the standard Vorbis comment fields.
type Metadata struct {
	Title       string
	Artists     []string
	Album       string
	AlbumArtist string
	Date        string
	Genre       string
	Track       int
	TrackTotal  int
	Disc        int
	DiscTotal   int
	Cover       *Picture
}

type blocks = []*flac.MetaDataBlock

// ReadFile parses the file's metadata blocks into a Metadata value.
func ReadFile(path string) (*Metadata, error) {
	flacFile, err := flac.ParseFile(path)
	if err != nil {
		return nil, err
	}

	comments := vorbisComments(flacFile.Meta)
	return &Metadata{
		Title:       first(comments, "TITLE"),
		Artists:     comments["ARTIST"],
		Album:       first(comments, "ALBUM"),
		AlbumArtist: first(comments, "ALBUMARTIST"),
		Date:        first(comments, "DATE"),
		Genre:       first(comments, "GENRE"),
		Track:       number(comments, "TRACKNUMBER"),
		TrackTotal:  number(comments, "TRACKTOTAL"),
		Disc:        number(comments, "DISCNUMBER"),
		DiscTotal:   number(comments, "DISCTOTAL"),
		Cover:       coverPicture(flacFile.Meta),
	}, nil
}

// WriteFile replaces the Vorbis comment and picture blocks and saves the
// file. Stream info and other blocks are kept as they are.
func WriteFile(path string, m *Metadata) error {
	flacFile, err := flac.ParseFile(path)
	if err != nil {
		return err
	}

	kept := blocks{}
	for _, block := range flacFile.Meta {
		if block.Type != flac.VorbisComment && block.Type != flac.Picture && block.Type != flac.Padding {
			kept = append(kept, block)
		}
	}

	comment := flacvorbis.New()
	add := func(name, value string) {
		if value != "" {
			comment.Add(name, value)
		}
	}
	add("TITLE", m.Title)
	for _, artist := range m.Artists {
		add("ARTIST", artist)
	}
	add("ALBUM", m.Album)
	add("ALBUMARTIST", m.AlbumArtist)
	add("DATE", m.Date)
	add("GENRE", m.Genre)
	addInt(comment, "TRACKNUMBER", m.Track)
	addInt(comment, "TRACKTOTAL", m.TrackTotal)
	addInt(comment, "DISCNUMBER", m.Disc)
	addInt(comment, "DISCTOTAL", m.DiscTotal)

	commentBlock := comment.Marshal()
	kept = append(kept, &commentBlock)

	if m.Cover != nil {
		picture, err := flacpicture.NewFromImageData(flacpicture.PictureTypeFrontCover, "",
			m.Cover.Data, m.Cover.MIMEType)
		if err == nil {
			pictureBlock := picture.Marshal()
			kept = append(kept, &pictureBlock)
		}
	}

	padding := flac.MetaDataBlock{Type: flac.Padding, Data: make([]byte, 64)}
	kept = append(kept, &padding)

	flacFile.Meta = kept
	return flacFile.Save(path)
}

func addInt(comment *flacvorbis.MetaDataBlockVorbisComment, name string, value int) {
	if value != 0 {
		comment.Add(name, strconv.Itoa(value))
	}
}

// vorbisComments flattens the first comment block into an upper-case keyed
// multimap.
func vorbisComments(meta blocks) map[string][]string {
	for _, block := range meta {
		if block.Type != flac.VorbisComment {
			continue
		}
		parsed, err := flacvorbis.ParseFromMetaDataBlock(*block)
		if err != nil {
			continue
		}
		out := make(map[string][]string, len(parsed.Comments))
		for _, c := range parsed.Comments {
			split := strings.SplitN(c, "=", 2)
			if len(split) != 2 {
				continue
			}
			name := strings.ToUpper(split[0])
			out[name] = append(out[name], split[1])
		}
		return out
	}
	return map[string][]string{}
}

func first(comments map[string][]string, name string) string {
	if values := comments[name]; len(values) > 0 {
		return values[0]
	}
	return ""
}

func number(comments map[string][]string, name string) int {
	n, err := strconv.Atoi(first(comments, name))
	if err != nil {
		return 0
	}
	return n
}

// coverPicture returns the front cover when one exists, otherwise the first
// picture block.
func coverPicture(meta blocks) *Picture {
	var picture *flacpicture.MetadataBlockPicture
	for _, block := range meta {
		if block.Type != flac.Picture {
			continue
		}
		parsed, err := flacpicture.ParseFromMetaDataBlock(*block)
		if err != nil {
			continue
		}
		if picture == nil {
			picture = parsed
		}
		if parsed.PictureType == flacpicture.PictureTypeFrontCover {
			picture = parsed
			break
		}
	}
	if picture == nil {
		return nil
	}

	mimeType := picture.MIME
	if mimeType == "" {
		mimeType = http.DetectContentType(picture.ImageData)
	}
	return &Picture{MIMEType: mimeType, Data: picture.ImageData}
}
