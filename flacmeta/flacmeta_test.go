package flacmeta

import (
	"testing"

	"github.com/go-flac/flacvorbis"
	flac "github.com/go-flac/go-flac"
)

func commentBlock(t *testing.T, pairs ...string) *flac.MetaDataBlock {
	t.Helper()
	comment := flacvorbis.New()
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := comment.Add(pairs[i], pairs[i+1]); err != nil {
			t.Fatal(err)
		}
	}
	block := comment.Marshal()
	return &block
}

func TestVorbisComments(t *testing.T) {
	meta := blocks{commentBlock(t,
		"TITLE", "Song",
		"artist", "First",
		"ARTIST", "Second",
		"TRACKNUMBER", "3",
	)}

	comments := vorbisComments(meta)
	if got := first(comments, "TITLE"); got != "Song" {
		t.Errorf("TITLE = %q", got)
	}
	// Keys are case insensitive per the Vorbis spec.
	if got := comments["ARTIST"]; len(got) != 2 || got[0] != "First" || got[1] != "Second" {
		t.Errorf("ARTIST = %v", got)
	}
	if got := number(comments, "TRACKNUMBER"); got != 3 {
		t.Errorf("TRACKNUMBER = %d", got)
	}
	if got := number(comments, "DISCNUMBER"); got != 0 {
		t.Errorf("missing DISCNUMBER = %d, want 0", got)
	}
}

func TestVorbisCommentsNoBlock(t *testing.T) {
	comments := vorbisComments(blocks{})
	if len(comments) != 0 {
		t.Errorf("comments = %v", comments)
	}
	if got := first(comments, "TITLE"); got != "" {
		t.Errorf("TITLE = %q", got)
	}
}
