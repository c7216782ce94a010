package id3v2

import (
	"fmt"
	"strings"
)

// ConvertFrame converts a frame to another version. The input is never
// modified; results are deep copies. A frame can convert into several
// frames, or into none when the target version has no place for it.
//
// v2.2 and v2.4 convert through v2.3, which acts as the hub: every
// identifier rename is defined against it.
func ConvertFrame(f *Frame, target Version) ([]*Frame, error) {
	if !target.valid() {
		return nil, UnsupportedVersionError{Major: byte(target)}
	}
	if f.version == target {
		return []*Frame{f.clone()}, nil
	}

	switch {
	case f.version == Version22:
		hub, err := convert22to23(f)
		if err != nil || hub == nil {
			return nil, err
		}
		if target == Version23 {
			return []*Frame{hub}, nil
		}
		return ConvertFrame(hub, target)

	case target == Version22:
		hubs, err := ConvertFrame(f, Version23)
		if err != nil {
			return nil, err
		}
		var out []*Frame
		for _, hub := range hubs {
			if c := convert23to22(hub); c != nil {
				out = append(out, c)
			}
		}
		return out, nil

	case f.version == Version23 && target == Version24:
		return convert23to24(f)

	case f.version == Version24 && target == Version23:
		return convert24to23(f)
	}
	return nil, fmt.Errorf("no conversion from %s to %s", f.version, target)
}

// retag clones f under a new identifier and version.
func retag(f *Frame, id string, v Version) *Frame {
	out := f.clone()
	out.id = id
	out.version = v
	return out
}

func convert22to23(f *Frame) (*Frame, error) {
	id, ok := conv22to23[f.id]
	if !ok {
		// A v2.2 identifier with no v2.3 name cannot be represented.
		Logging.Printf("dropping %s: no ID3v2.3 equivalent", f.id)
		return nil, nil
	}
	return retag(f, id, Version23), nil
}

func convert23to22(f *Frame) *Frame {
	id, ok := conv23to22[f.id]
	if !ok {
		Logging.Printf("dropping %s: no ID3v2.2 equivalent", f.id)
		return nil
	}
	return retag(f, id, Version22)
}

func convert23to24(f *Frame) ([]*Frame, error) {
	switch f.id {
	case "TYER":
		out := retag(f, "TDRC", Version24)
		if b, ok := out.Body.(*TextBody); ok {
			b.Text = mergeRecordingTime(b.Text, "")
		}
		return []*Frame{out}, nil
	case "TDAT":
		// A day and month without a year carries nothing usable.
		Logging.Printf("dropping TDAT without an accompanying TYER")
		return nil, nil
	case "TXXX":
		if b, ok := f.Body.(*UserTextBody); ok && strings.EqualFold(b.Description, "MOOD") {
			return []*Frame{NewFrame("TMOO", Version24, &TextBody{
				Encoding: b.Encoding,
				Text:     b.Text,
			})}, nil
		}
	}

	if deprecatedIn24[f.id] {
		raw, err := f.Body.encode(Version23)
		if err != nil {
			return nil, err
		}
		out := retag(f, f.id, Version24)
		out.Body = &DeprecatedBody{OriginalID: f.id, Data: raw}
		return []*Frame{out}, nil
	}

	if id, ok := conv23to24[f.id]; ok {
		return []*Frame{retag(f, id, Version24)}, nil
	}
	return []*Frame{retag(f, f.id, Version24)}, nil
}

func convert24to23(f *Frame) ([]*Frame, error) {
	switch f.id {
	case "TDRC":
		if b, ok := f.Body.(*TextBody); ok {
			year, date, tm := splitRecordingTime(b.Text)
			if year == "" {
				return nil, nil
			}
			out := []*Frame{NewFrame("TYER", Version23, &TextBody{Encoding: b.Encoding, Text: year})}
			if date != "" {
				out = append(out, NewFrame("TDAT", Version23, &TextBody{Encoding: b.Encoding, Text: date}))
			}
			if tm != "" {
				out = append(out, NewFrame("TIME", Version23, &TextBody{Encoding: b.Encoding, Text: tm}))
			}
			return out, nil
		}
	case "TMOO":
		if b, ok := f.Body.(*TextBody); ok {
			return []*Frame{NewFrame("TXXX", Version23, &UserTextBody{
				Encoding:    b.Encoding,
				Description: "MOOD",
				Text:        b.Text,
			})}, nil
		}
	}

	if b, ok := f.Body.(*DeprecatedBody); ok {
		out := NewFrame(b.OriginalID, Version23, &UnsupportedBody{
			Data: append([]byte(nil), b.Data...),
		})
		return []*Frame{out}, nil
	}

	if id, ok := conv24to23[f.id]; ok {
		return []*Frame{retag(f, id, Version23)}, nil
	}
	// v2.4-only frames with no v2.3 name pass through unchanged; readers
	// that know them will still find them.
	return []*Frame{retag(f, f.id, Version23)}, nil
}

// mergeRecordingTime builds a v2.4 TDRC timestamp from a v2.3 year and the
// TDAT day-month pair. Short years are zero padded; a missing or malformed
// TDAT leaves a bare year.
func mergeRecordingTime(year, tdat string) string {
	year = strings.TrimSpace(year)
	if year == "" {
		return ""
	}
	for len(year) < 4 {
		year = "0" + year
	}
	if len(tdat) != 4 || !allDigits(tdat) {
		return year
	}
	day, month := tdat[:2], tdat[2:]
	return year + "-" + month + "-" + day
}

// splitRecordingTime breaks a v2.4 timestamp into the v2.3 year, TDAT pair
// and TIME value. A timestamp with a month but no day gets day 01, matching
// what a player would display.
func splitRecordingTime(s string) (year, tdat, tm string) {
	s = strings.TrimSpace(s)
	if len(s) < 4 || !allDigits(s[:4]) {
		return "", "", ""
	}
	year = s[:4]
	if len(s) < 7 || s[4] != '-' || !allDigits(s[5:7]) {
		return year, "", ""
	}
	month := s[5:7]
	day := "01"
	if len(s) >= 10 && s[7] == '-' && allDigits(s[8:10]) {
		day = s[8:10]
	}
	if len(s) >= 16 && s[10] == 'T' && allDigits(s[11:13]) && s[13] == ':' && allDigits(s[14:16]) {
		tm = s[11:13] + s[14:16]
	}
	return year, day + month, tm
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

// ConvertTag converts a whole tag to another version. The input tag is not
// modified. The v2.3 date aggregate merges into a single TDRC on the way to
// v2.4 and reappears as the pair on the way back.
func ConvertTag(t *Tag, target Version) (*Tag, error) {
	if !target.valid() {
		return nil, UnsupportedVersionError{Major: byte(target)}
	}
	out := NewTag(target, t.Opts)
	out.Revision = 0

	for _, id := range t.order {
		if id == aggTyerTdat {
			if err := convertDateAggregate(t, out, target); err != nil {
				return nil, err
			}
			continue
		}
		for _, f := range t.frames[id] {
			converted, err := ConvertFrame(f, target)
			if err != nil {
				return nil, err
			}
			for _, c := range converted {
				if err := out.AddFrame(c); err != nil {
					return nil, err
				}
			}
		}
	}
	return out, nil
}

func convertDateAggregate(src, dst *Tag, target Version) error {
	agg := src.frames[aggTyerTdat]
	tyer, tdat := agg[0], agg[1]

	if target == Version24 {
		enc := EncodingISO88591
		if b, ok := tyer.Body.(*TextBody); ok {
			enc = b.Encoding
		}
		return dst.AddFrame(NewFrame("TDRC", Version24, &TextBody{
			Encoding: enc,
			Text:     mergeRecordingTime(tyer.Text(), tdat.Text()),
		}))
	}

	// v2.2 and v2.3 both keep the pair, only the identifiers differ.
	for _, f := range []*Frame{tyer, tdat} {
		converted, err := ConvertFrame(f, target)
		if err != nil {
			return err
		}
		for _, c := range converted {
			if err := dst.AddFrame(c); err != nil {
				return err
			}
		}
	}
	return nil
}
