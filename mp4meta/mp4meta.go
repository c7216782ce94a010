// Package mp4meta reads and writes the iTunes-style metadata items stored
// under moov/udta/meta/ilst in MP4 audio files.
package mp4meta

import (
	"bytes"
	"encoding/binary"
	"io"
	"net/http"
	"os"

	"github.com/abema/go-mp4"
	"golang.org/x/exp/slices"
)

// Picture is an embedded cover image.
type Picture struct {
	MIMEType string
	Data     []byte
}

// Metadata is the flat view of the standard ilst items.
type Metadata struct {
	Title       string
	Artists     []string
	Album       string
	AlbumArtist string
	Date        string
	Track       int
	TrackTotal  int
	Disc        int
	DiscTotal   int
	Cover       *Picture
}

var ilstParents = []string{"moov", "udta", "meta", "ilst"}
var ilstItems = []string{"(c)nam", "(c)ART", "(c)alb", "(c)day", "aART", "trkn", "disk", "covr"}

// Read walks the box tree and collects the standard items. Unknown items
// are ignored.
func Read(r io.ReadSeeker) (*Metadata, error) {
	m := &Metadata{}
	var itemName string

	_, err := mp4.ReadBoxStructure(r, func(h *mp4.ReadHandle) (interface{}, error) {
		if !h.BoxInfo.IsSupportedType() {
			return nil, nil
		}
		typeName := h.BoxInfo.Type.String()

		if slices.Contains(ilstParents, typeName) || slices.Contains(ilstItems, typeName) {
			itemName = typeName
			return h.Expand()
		}

		if typeName == "data" {
			buff := new(bytes.Buffer)
			h.ReadData(buff)
			if buff.Len() < 8 {
				return nil, nil
			}
			// The first 8 bytes are the data box version, flags and
			// locale, not payload.
			data := buff.Bytes()[8:]

			switch itemName {
			case "(c)nam":
				m.Title = string(data)
			case "(c)ART":
				m.Artists = append(m.Artists, string(data))
			case "(c)alb":
				m.Album = string(data)
			case "(c)day":
				m.Date = string(data)
			case "aART":
				m.AlbumArtist = string(data)
			case "trkn":
				m.Track, m.TrackTotal = parsePair(data)
			case "disk":
				m.Disc, m.DiscTotal = parsePair(data)
			case "covr":
				m.Cover = &Picture{
					MIMEType: http.DetectContentType(data),
					Data:     data,
				}
			}
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func ReadFile(path string) (*Metadata, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Read(file)
}

// parsePair decodes the number/total layout trkn and disk use: two bytes of
// padding, then two big-endian uint16 values.
func parsePair(data []byte) (number, total int) {
	if len(data) < 6 {
		return 0, 0
	}
	return int(binary.BigEndian.Uint16(data[2:4])), int(binary.BigEndian.Uint16(data[4:6]))
}

func buildPair(number, total int) []byte {
	data := make([]byte, 8)
	binary.BigEndian.PutUint16(data[2:4], uint16(number))
	binary.BigEndian.PutUint16(data[4:6], uint16(total))
	return data
}

// Write copies the box tree from r to w, dropping any existing ilst and
// writing a fresh one under moov/udta/meta. A meta box is created when the
// source has none.
func Write(r io.ReadSeeker, w io.WriteSeeker, m *Metadata) error {
	mw := mp4.NewWriter(w)

	metaBoxes, err := mp4.ExtractBox(r, nil, mp4.BoxPath{mp4.BoxTypeMoov(), mp4.BoxTypeUdta(), mp4.BoxTypeMeta()})
	if err != nil {
		return err
	}
	noMetaBox := len(metaBoxes) == 0

	_, err = mp4.ReadBoxStructure(r, func(h *mp4.ReadHandle) (interface{}, error) {
		switch h.BoxInfo.Type {
		case mp4.BoxTypeMoov(), mp4.BoxTypeUdta(), mp4.BoxTypeMeta():
			if _, err := mw.StartBox(&h.BoxInfo); err != nil {
				return nil, err
			}
			box, _, err := h.ReadPayload()
			if err != nil {
				return nil, err
			}
			if _, err := mp4.Marshal(mw, box, h.BoxInfo.Context); err != nil {
				return nil, err
			}

			createMetaBox := noMetaBox && h.BoxInfo.Type == mp4.BoxTypeUdta()
			if createMetaBox {
				if _, err := mw.StartBox(&mp4.BoxInfo{Type: mp4.BoxTypeMeta()}); err != nil {
					return nil, err
				}
				meta := mp4.Meta{}
				if _, err := mp4.Marshal(mw, &meta, mp4.Context{UnderUdta: true}); err != nil {
					return nil, err
				}
			}

			if createMetaBox || h.BoxInfo.Type == mp4.BoxTypeMeta() {
				if err := writeIlst(mw, m); err != nil {
					return nil, err
				}
			}

			if createMetaBox {
				if _, err := mw.EndBox(); err != nil {
					return nil, err
				}
			}

			if _, err := h.Expand(); err != nil {
				return nil, err
			}
			_, err = mw.EndBox()
			return nil, err

		case mp4.BoxTypeIlst():
			// Replaced wholesale by writeIlst.
			return nil, nil
		default:
			return nil, mw.CopyBox(r, &h.BoxInfo)
		}
	})
	return err
}

// WriteFile rewrites the file in place through a temporary sibling.
func WriteFile(path string, m *Metadata) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	tmpPath := path + ".audiotag_tmp"
	tmp, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	if err := Write(file, tmp, m); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}

func writeIlst(w *mp4.Writer, m *Metadata) error {
	if _, err := w.StartBox(&mp4.BoxInfo{Type: mp4.BoxTypeIlst()}); err != nil {
		return err
	}

	if err := addStringItem(w, "\251nam", m.Title); err != nil {
		return err
	}
	for _, artist := range m.Artists {
		if err := addStringItem(w, "\251ART", artist); err != nil {
			return err
		}
	}
	if err := addStringItem(w, "\251alb", m.Album); err != nil {
		return err
	}
	if err := addStringItem(w, "aART", m.AlbumArtist); err != nil {
		return err
	}
	if err := addStringItem(w, "\251day", m.Date); err != nil {
		return err
	}
	if m.Track != 0 || m.TrackTotal != 0 {
		if err := addBinaryItem(w, "trkn", buildPair(m.Track, m.TrackTotal)); err != nil {
			return err
		}
	}
	if m.Disc != 0 || m.DiscTotal != 0 {
		if err := addBinaryItem(w, "disk", buildPair(m.Disc, m.DiscTotal)); err != nil {
			return err
		}
	}
	if m.Cover != nil {
		if err := addBinaryItem(w, "covr", m.Cover.Data); err != nil {
			return err
		}
	}

	_, err := w.EndBox()
	return err
}

func addStringItem(w *mp4.Writer, name, value string) error {
	if value == "" {
		return nil
	}
	if err := startItem(w, name); err != nil {
		return err
	}
	data := mp4.Data{DataType: mp4.DataTypeStringUTF8, Data: []byte(value)}
	if _, err := mp4.Marshal(w, &data, mp4.Context{UnderIlstMeta: true}); err != nil {
		return err
	}
	return endItem(w)
}

func addBinaryItem(w *mp4.Writer, name string, value []byte) error {
	if err := startItem(w, name); err != nil {
		return err
	}
	data := mp4.Data{DataType: mp4.DataTypeBinary, Data: value}
	if _, err := mp4.Marshal(w, &data, mp4.Context{UnderIlstMeta: true}); err != nil {
		return err
	}
	return endItem(w)
}

func startItem(w *mp4.Writer, name string) error {
	if _, err := w.StartBox(&mp4.BoxInfo{Type: mp4.BoxType([]byte(name))}); err != nil {
		return err
	}
	_, err := w.StartBox(&mp4.BoxInfo{Type: mp4.BoxTypeData()})
	return err
}

func endItem(w *mp4.Writer) error {
	if _, err := w.EndBox(); err != nil {
		return err
	}
	_, err := w.EndBox()
	return err
}
