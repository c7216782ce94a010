package id3v2

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

// FrameBody is the decoded content of a frame. Value returns a printable
// rendition of the content; encode serializes it for the given version.
type FrameBody interface {
	Value() string
	encode(v Version) ([]byte, error)
}

// TextBody is the content of the T*** text information frames (except TXXX).
type TextBody struct {
	Encoding Encoding
	Text     string
}

func (b *TextBody) Value() string { return b.Text }

func (b *TextBody) encode(v Version) ([]byte, error) {
	enc := b.Encoding.coerce(v)
	text, err := encodeText(b.Text, enc)
	if err != nil {
		return nil, err
	}
	return concat([]byte{byte(enc)}, text), nil
}

func parseTextBody(data []byte) (*TextBody, error) {
	if len(data) < 1 {
		return nil, fmt.Errorf("missing encoding byte")
	}
	enc := Encoding(data[0])
	text, err := decodeText(data[1:], enc)
	if err != nil {
		return nil, err
	}
	return &TextBody{Encoding: enc, Text: text}, nil
}

// UserTextBody is the content of TXXX/TXX frames.
type UserTextBody struct {
	Encoding    Encoding
	Description string
	Text        string
}

func (b *UserTextBody) Value() string { return b.Description + ": " + b.Text }

func (b *UserTextBody) encode(v Version) ([]byte, error) {
	enc := b.Encoding.coerce(v)
	desc, err := encodeText(b.Description, enc)
	if err != nil {
		return nil, err
	}
	text, err := encodeText(b.Text, enc)
	if err != nil {
		return nil, err
	}
	return concat([]byte{byte(enc)}, desc, enc.terminator(), text), nil
}

func parseUserTextBody(data []byte) (*UserTextBody, error) {
	if len(data) < 1 {
		return nil, fmt.Errorf("missing encoding byte")
	}
	enc := Encoding(data[0])
	parts := splitNull(data[1:], enc, 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("missing description terminator")
	}
	desc, err := decodeText(parts[0], enc)
	if err != nil {
		return nil, err
	}
	text, err := decodeText(parts[1], enc)
	if err != nil {
		return nil, err
	}
	return &UserTextBody{Encoding: enc, Description: desc, Text: text}, nil
}

// URLBody is the content of the W*** URL link frames (except WXXX). URLs are
// always ISO-8859-1 on the wire.
type URLBody struct {
	URL string
}

func (b *URLBody) Value() string { return b.URL }

func (b *URLBody) encode(Version) ([]byte, error) {
	return encodeText(b.URL, EncodingISO88591)
}

func parseURLBody(data []byte) (*URLBody, error) {
	url, err := decodeText(data, EncodingISO88591)
	if err != nil {
		return nil, err
	}
	return &URLBody{URL: url}, nil
}

// UserURLBody is the content of WXXX/WXX frames. The description carries an
// encoding byte, the URL itself stays ISO-8859-1.
type UserURLBody struct {
	Encoding    Encoding
	Description string
	URL         string
}

func (b *UserURLBody) Value() string { return b.Description + ": " + b.URL }

func (b *UserURLBody) encode(v Version) ([]byte, error) {
	enc := b.Encoding.coerce(v)
	desc, err := encodeText(b.Description, enc)
	if err != nil {
		return nil, err
	}
	url, err := encodeText(b.URL, EncodingISO88591)
	if err != nil {
		return nil, err
	}
	return concat([]byte{byte(enc)}, desc, enc.terminator(), url), nil
}

func parseUserURLBody(data []byte) (*UserURLBody, error) {
	if len(data) < 1 {
		return nil, fmt.Errorf("missing encoding byte")
	}
	enc := Encoding(data[0])
	parts := splitNull(data[1:], enc, 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("missing description terminator")
	}
	desc, err := decodeText(parts[0], enc)
	if err != nil {
		return nil, err
	}
	url, err := decodeText(parts[1], EncodingISO88591)
	if err != nil {
		return nil, err
	}
	return &UserURLBody{Encoding: enc, Description: desc, URL: url}, nil
}

// CommentBody is the content of COMM/COM frames. Language is a three letter
// ISO-639-2 code.
type CommentBody struct {
	Encoding    Encoding
	Language    string
	Description string
	Text        string
}

func (b *CommentBody) Value() string { return b.Text }

func (b *CommentBody) encode(v Version) ([]byte, error) {
	enc := b.Encoding.coerce(v)
	return encodeLangText(enc, b.Language, b.Description, b.Text)
}

func parseCommentBody(data []byte) (*CommentBody, error) {
	enc, lang, desc, text, err := parseLangText(data)
	if err != nil {
		return nil, err
	}
	return &CommentBody{Encoding: enc, Language: lang, Description: desc, Text: text}, nil
}

// LyricsBody is the content of USLT/ULT unsynchronized lyrics frames. It
// shares the comment wire layout.
type LyricsBody struct {
	Encoding    Encoding
	Language    string
	Description string
	Text        string
}

func (b *LyricsBody) Value() string { return b.Text }

func (b *LyricsBody) encode(v Version) ([]byte, error) {
	enc := b.Encoding.coerce(v)
	return encodeLangText(enc, b.Language, b.Description, b.Text)
}

func parseLyricsBody(data []byte) (*LyricsBody, error) {
	enc, lang, desc, text, err := parseLangText(data)
	if err != nil {
		return nil, err
	}
	return &LyricsBody{Encoding: enc, Language: lang, Description: desc, Text: text}, nil
}

func encodeLangText(enc Encoding, lang, desc, text string) ([]byte, error) {
	if len(lang) != 3 {
		lang = "XXX"
	}
	d, err := encodeText(desc, enc)
	if err != nil {
		return nil, err
	}
	t, err := encodeText(text, enc)
	if err != nil {
		return nil, err
	}
	return concat([]byte{byte(enc)}, []byte(lang), d, enc.terminator(), t), nil
}

func parseLangText(data []byte) (Encoding, string, string, string, error) {
	if len(data) < 4 {
		return 0, "", "", "", fmt.Errorf("too short for encoding and language")
	}
	enc := Encoding(data[0])
	lang := string(data[1:4])
	parts := splitNull(data[4:], enc, 2)
	if len(parts) != 2 {
		return 0, "", "", "", fmt.Errorf("missing description terminator")
	}
	desc, err := decodeText(parts[0], enc)
	if err != nil {
		return 0, "", "", "", err
	}
	text, err := decodeText(parts[1], enc)
	if err != nil {
		return 0, "", "", "", err
	}
	return enc, lang, desc, text, nil
}

// PictureBody is the content of APIC frames. The v2.2 PIC frame stores a
// three character image format instead of a MIME type; the conversion
// happens at parse and encode time so MIMEType always holds a MIME type.
type PictureBody struct {
	Encoding    Encoding
	MIMEType    string
	PictureType byte
	Description string
	Data        []byte
}

func (b *PictureBody) Value() string {
	return fmt.Sprintf("%s (%d): %d bytes", b.MIMEType, b.PictureType, len(b.Data))
}

func (b *PictureBody) encode(v Version) ([]byte, error) {
	enc := b.Encoding.coerce(v)
	desc, err := encodeText(b.Description, enc)
	if err != nil {
		return nil, err
	}
	if v == Version22 {
		return concat([]byte{byte(enc)}, []byte(mimeToImageFormat(b.MIMEType)),
			[]byte{b.PictureType}, desc, enc.terminator(), b.Data), nil
	}
	mime, err := encodeText(b.MIMEType, EncodingISO88591)
	if err != nil {
		return nil, err
	}
	return concat([]byte{byte(enc)}, mime, []byte{0},
		[]byte{b.PictureType}, desc, enc.terminator(), b.Data), nil
}

func parsePictureBody(data []byte, v Version) (*PictureBody, error) {
	if len(data) < 1 {
		return nil, fmt.Errorf("missing encoding byte")
	}
	enc := Encoding(data[0])
	var mime string
	rest := data[1:]
	if v == Version22 {
		if len(rest) < 3 {
			return nil, fmt.Errorf("too short for image format")
		}
		mime = imageFormatToMIME(string(rest[:3]))
		rest = rest[3:]
	} else {
		i := bytes.IndexByte(rest, 0)
		if i < 0 {
			return nil, fmt.Errorf("missing MIME type terminator")
		}
		var err error
		mime, err = decodeText(rest[:i], EncodingISO88591)
		if err != nil {
			return nil, err
		}
		rest = rest[i+1:]
	}
	if len(rest) < 1 {
		return nil, fmt.Errorf("missing picture type")
	}
	picType := rest[0]
	parts := splitNull(rest[1:], enc, 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("missing description terminator")
	}
	desc, err := decodeText(parts[0], enc)
	if err != nil {
		return nil, err
	}
	return &PictureBody{
		Encoding:    enc,
		MIMEType:    mime,
		PictureType: picType,
		Description: desc,
		Data:        append([]byte(nil), parts[1]...),
	}, nil
}

func mimeToImageFormat(mime string) string {
	switch strings.ToLower(mime) {
	case "image/png":
		return "PNG"
	case "image/jpeg", "image/jpg":
		return "JPG"
	case "image/gif":
		return "GIF"
	case "image/bmp":
		return "BMP"
	}
	if len(mime) == 3 {
		return strings.ToUpper(mime)
	}
	return "   "
}

func imageFormatToMIME(format string) string {
	switch strings.ToUpper(strings.TrimSpace(format)) {
	case "PNG":
		return "image/png"
	case "JPG", "JPEG":
		return "image/jpeg"
	case "GIF":
		return "image/gif"
	case "BMP":
		return "image/bmp"
	}
	return "image/unknown"
}

// Pair is a role/name entry in an involved people list.
type Pair struct {
	Role string
	Name string
}

// InvolvedPeopleBody is the content of IPLS, TIPL, TMCL and the v2.2 IPL
// frames: an alternating list of role and name strings.
type InvolvedPeopleBody struct {
	Encoding Encoding
	Pairs    []Pair
}

func (b *InvolvedPeopleBody) Value() string {
	parts := make([]string, 0, len(b.Pairs))
	for _, p := range b.Pairs {
		parts = append(parts, p.Role+": "+p.Name)
	}
	return strings.Join(parts, ", ")
}

func (b *InvolvedPeopleBody) encode(v Version) ([]byte, error) {
	enc := b.Encoding.coerce(v)
	out := []byte{byte(enc)}
	for i, p := range b.Pairs {
		if i > 0 {
			out = append(out, enc.terminator()...)
		}
		role, err := encodeText(p.Role, enc)
		if err != nil {
			return nil, err
		}
		name, err := encodeText(p.Name, enc)
		if err != nil {
			return nil, err
		}
		out = append(out, role...)
		out = append(out, enc.terminator()...)
		out = append(out, name...)
	}
	return out, nil
}

func parseInvolvedPeopleBody(data []byte) (*InvolvedPeopleBody, error) {
	if len(data) < 1 {
		return nil, fmt.Errorf("missing encoding byte")
	}
	enc := Encoding(data[0])
	parts := splitNull(data[1:], enc, 1<<30)
	body := &InvolvedPeopleBody{Encoding: enc}
	for i := 0; i+1 < len(parts); i += 2 {
		role, err := decodeText(parts[i], enc)
		if err != nil {
			return nil, err
		}
		name, err := decodeText(parts[i+1], enc)
		if err != nil {
			return nil, err
		}
		if role == "" && name == "" {
			continue
		}
		body.Pairs = append(body.Pairs, Pair{Role: role, Name: name})
	}
	return body, nil
}

// UFIDBody is the content of UFID/UFI unique file identifier frames.
type UFIDBody struct {
	Owner      string
	Identifier []byte
}

func (b *UFIDBody) Value() string {
	return fmt.Sprintf("%s: %x", b.Owner, b.Identifier)
}

func (b *UFIDBody) encode(Version) ([]byte, error) {
	owner, err := encodeText(b.Owner, EncodingISO88591)
	if err != nil {
		return nil, err
	}
	return concat(owner, []byte{0}, b.Identifier), nil
}

func parseUFIDBody(data []byte) (*UFIDBody, error) {
	i := bytes.IndexByte(data, 0)
	if i < 0 {
		return nil, fmt.Errorf("missing owner terminator")
	}
	owner, err := decodeText(data[:i], EncodingISO88591)
	if err != nil {
		return nil, err
	}
	return &UFIDBody{Owner: owner, Identifier: append([]byte(nil), data[i+1:]...)}, nil
}

// PrivateBody is the content of PRIV frames.
type PrivateBody struct {
	Owner string
	Data  []byte
}

func (b *PrivateBody) Value() string {
	return fmt.Sprintf("%s: %d bytes", b.Owner, len(b.Data))
}

func (b *PrivateBody) encode(Version) ([]byte, error) {
	owner, err := encodeText(b.Owner, EncodingISO88591)
	if err != nil {
		return nil, err
	}
	return concat(owner, []byte{0}, b.Data), nil
}

func parsePrivateBody(data []byte) (*PrivateBody, error) {
	i := bytes.IndexByte(data, 0)
	if i < 0 {
		return nil, fmt.Errorf("missing owner terminator")
	}
	owner, err := decodeText(data[:i], EncodingISO88591)
	if err != nil {
		return nil, err
	}
	return &PrivateBody{Owner: owner, Data: append([]byte(nil), data[i+1:]...)}, nil
}

// MusicCDIDBody is the content of MCDI/MCI frames: a raw CD table of
// contents.
type MusicCDIDBody struct {
	TOC []byte
}

func (b *MusicCDIDBody) Value() string {
	return fmt.Sprintf("%d bytes", len(b.TOC))
}

func (b *MusicCDIDBody) encode(Version) ([]byte, error) {
	return append([]byte(nil), b.TOC...), nil
}

// TermsOfUseBody is the content of USER frames.
type TermsOfUseBody struct {
	Encoding Encoding
	Language string
	Text     string
}

func (b *TermsOfUseBody) Value() string { return b.Text }

func (b *TermsOfUseBody) encode(v Version) ([]byte, error) {
	enc := b.Encoding.coerce(v)
	lang := b.Language
	if len(lang) != 3 {
		lang = "XXX"
	}
	text, err := encodeText(b.Text, enc)
	if err != nil {
		return nil, err
	}
	return concat([]byte{byte(enc)}, []byte(lang), text), nil
}

func parseTermsOfUseBody(data []byte) (*TermsOfUseBody, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("too short for encoding and language")
	}
	enc := Encoding(data[0])
	text, err := decodeText(data[4:], enc)
	if err != nil {
		return nil, err
	}
	return &TermsOfUseBody{Encoding: enc, Language: string(data[1:4]), Text: text}, nil
}

// PlayCounterBody is the content of PCNT/CNT frames.
type PlayCounterBody struct {
	Count uint64
}

func (b *PlayCounterBody) Value() string {
	return fmt.Sprintf("%d", b.Count)
}

func (b *PlayCounterBody) encode(Version) ([]byte, error) {
	out := make([]byte, 8)
	binary.BigEndian.PutUint64(out, b.Count)
	// Strip leading zeroes but keep at least four bytes.
	i := 0
	for i < 4 && out[i] == 0 {
		i++
	}
	return out[i:], nil
}

func parsePlayCounterBody(data []byte) (*PlayCounterBody, error) {
	if len(data) > 8 {
		return nil, fmt.Errorf("counter longer than 8 bytes")
	}
	var count uint64
	for _, c := range data {
		count = count<<8 | uint64(c)
	}
	return &PlayCounterBody{Count: count}, nil
}

// PopularimeterBody is the content of POPM/POP frames.
type PopularimeterBody struct {
	Email  string
	Rating byte
	Count  uint64
}

func (b *PopularimeterBody) Value() string {
	return fmt.Sprintf("%s: %d (%d plays)", b.Email, b.Rating, b.Count)
}

func (b *PopularimeterBody) encode(Version) ([]byte, error) {
	email, err := encodeText(b.Email, EncodingISO88591)
	if err != nil {
		return nil, err
	}
	counter, err := (&PlayCounterBody{Count: b.Count}).encode(Version24)
	if err != nil {
		return nil, err
	}
	return concat(email, []byte{0, b.Rating}, counter), nil
}

func parsePopularimeterBody(data []byte) (*PopularimeterBody, error) {
	i := bytes.IndexByte(data, 0)
	if i < 0 || i+1 >= len(data) {
		return nil, fmt.Errorf("missing email terminator or rating")
	}
	email, err := decodeText(data[:i], EncodingISO88591)
	if err != nil {
		return nil, err
	}
	counter, err := parsePlayCounterBody(data[i+2:])
	if err != nil {
		return nil, err
	}
	return &PopularimeterBody{Email: email, Rating: data[i+1], Count: counter.Count}, nil
}

// UnsupportedBody preserves the raw content of frames this package has no
// structured model for. The bytes round-trip unchanged.
type UnsupportedBody struct {
	Data []byte
}

func (b *UnsupportedBody) Value() string {
	return fmt.Sprintf("%d bytes", len(b.Data))
}

func (b *UnsupportedBody) encode(Version) ([]byte, error) {
	return append([]byte(nil), b.Data...), nil
}

// DeprecatedBody preserves the content of frames that a later version of the
// format removed without a replacement, such as TSIZ and RVAD. OriginalID
// remembers what the frame was called before conversion.
type DeprecatedBody struct {
	OriginalID string
	Data       []byte
}

func (b *DeprecatedBody) Value() string {
	return fmt.Sprintf("%s: %d bytes", b.OriginalID, len(b.Data))
}

func (b *DeprecatedBody) encode(Version) ([]byte, error) {
	return append([]byte(nil), b.Data...), nil
}
