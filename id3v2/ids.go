package id3v2

import (
	"strconv"
	"strings"
)

type frameKind int

const (
	kindUnsupported frameKind = iota
	kindText
	kindUserText
	kindURL
	kindUserURL
	kindComment
	kindLyrics
	kindPicture
	kindInvolvedPeople
	kindUFID
	kindPrivate
	kindMusicCDID
	kindTermsOfUse
	kindPlayCounter
	kindPopularimeter
)

// frameKindFor classifies a frame identifier. Identifiers that have no
// structured model here decode as unsupported and round-trip as raw bytes.
func frameKindFor(id string, v Version) frameKind {
	if v == Version22 {
		switch id {
		case "TXX":
			return kindUserText
		case "WXX":
			return kindUserURL
		case "COM":
			return kindComment
		case "ULT":
			return kindLyrics
		case "PIC":
			return kindPicture
		case "IPL":
			return kindInvolvedPeople
		case "UFI":
			return kindUFID
		case "MCI":
			return kindMusicCDID
		case "CNT":
			return kindPlayCounter
		case "POP":
			return kindPopularimeter
		}
	} else {
		switch id {
		case "TXXX":
			return kindUserText
		case "WXXX":
			return kindUserURL
		case "COMM":
			return kindComment
		case "USLT":
			return kindLyrics
		case "APIC":
			return kindPicture
		case "IPLS", "TIPL", "TMCL":
			return kindInvolvedPeople
		case "UFID":
			return kindUFID
		case "PRIV":
			return kindPrivate
		case "MCDI":
			return kindMusicCDID
		case "USER":
			return kindTermsOfUse
		case "PCNT":
			return kindPlayCounter
		case "POPM":
			return kindPopularimeter
		}
	}
	switch id[0] {
	case 'T':
		return kindText
	case 'W':
		return kindURL
	}
	return kindUnsupported
}

// multiValued reports whether duplicates of the frame are legal on the wire,
// distinguished by description, owner or language.
func multiValued(id string, v Version) bool {
	if v == Version22 {
		switch id {
		case "TXX", "WXX", "COM", "ULT", "PIC", "UFI", "POP", "GEO", "CRM", "LNK":
			return true
		}
		return false
	}
	switch id {
	case "TXXX", "WXXX", "COMM", "USLT", "SYLT", "APIC", "UFID", "PRIV",
		"POPM", "GEOB", "AENC", "ENCR", "GRID", "LINK", "COMR", "SIGN":
		return true
	}
	return false
}

// conv22to23 maps v2.2 three character identifiers to their v2.3
// equivalents, including the iTunes extensions.
var conv22to23 = map[string]string{
	"BUF": "RBUF", "CNT": "PCNT", "COM": "COMM", "CRA": "AENC",
	"EQU": "EQUA", "ETC": "ETCO", "GEO": "GEOB", "IPL": "IPLS",
	"LNK": "LINK", "MCI": "MCDI", "MLL": "MLLT", "PIC": "APIC",
	"POP": "POPM", "REV": "RVRB", "RVA": "RVAD", "SLT": "SYLT",
	"STC": "SYTC", "TAL": "TALB", "TBP": "TBPM", "TCM": "TCOM",
	"TCO": "TCON", "TCR": "TCOP", "TDA": "TDAT", "TDY": "TDLY",
	"TEN": "TENC", "TFT": "TFLT", "TIM": "TIME", "TKE": "TKEY",
	"TLA": "TLAN", "TLE": "TLEN", "TMT": "TMED", "TOA": "TOPE",
	"TOF": "TOFN", "TOL": "TOLY", "TOR": "TORY", "TOT": "TOAL",
	"TP1": "TPE1", "TP2": "TPE2", "TP3": "TPE3", "TP4": "TPE4",
	"TPA": "TPOS", "TPB": "TPUB", "TRC": "TSRC", "TRD": "TRDA",
	"TRK": "TRCK", "TSI": "TSIZ", "TSS": "TSSE", "TT1": "TIT1",
	"TT2": "TIT2", "TT3": "TIT3", "TXT": "TEXT", "TXX": "TXXX",
	"TYE": "TYER", "UFI": "UFID", "ULT": "USLT", "WAF": "WOAF",
	"WAR": "WOAR", "WAS": "WOAS", "WCM": "WCOM", "WCP": "WCOP",
	"WPB": "WPUB", "WXX": "WXXX",
	// iTunes extensions
	"TCP": "TCMP", "TST": "TSOT", "TSP": "TSOP", "TSA": "TSOA",
	"TS2": "TSO2", "TSC": "TSOC", "GP1": "GRP1", "MVN": "MVNM",
	"MVI": "MVIN", "PCS": "PCST",
}

var conv23to22 = invert(conv22to23)

// conv23to24 covers the identifiers that were renamed between v2.3 and v2.4.
// TYER and TDAT are handled by date aggregation instead. The X-prefixed sort
// frames are a pre-v2.4 Musicmatch convention.
var conv23to24 = map[string]string{
	"IPLS": "TIPL",
	"TORY": "TDOR",
	"XSOT": "TSOT",
	"XSOP": "TSOP",
	"XSOA": "TSOA",
}

// conv24to23 is the reverse mapping. TMCL has no v2.3 counterpart of its
// own and folds into IPLS.
var conv24to23 = map[string]string{
	"TIPL": "IPLS",
	"TMCL": "IPLS",
	"TDOR": "TORY",
}

// deprecatedIn24 lists v2.3 frames that v2.4 dropped without a replacement.
// Their content survives conversion as a deprecated body.
var deprecatedIn24 = map[string]bool{
	"TSIZ": true,
	"TRDA": true,
	"EQUA": true,
	"RVAD": true,
	"TIME": true,
}

func invert(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// FieldKey names a piece of metadata independently of the frame identifier
// that carries it in a particular version.
type FieldKey int

const (
	FieldTitle FieldKey = iota
	FieldArtist
	FieldAlbum
	FieldAlbumArtist
	FieldComposer
	FieldConductor
	FieldGenre
	FieldYear
	FieldTrack
	FieldDisc
	FieldBPM
	FieldPublisher
	FieldCopyright
	FieldEncodedBy
	FieldISRC
	FieldLanguage
	FieldOriginalArtist
	FieldOriginalAlbum
	FieldMood
	FieldCompilation
	FieldComment
	FieldLyrics
)

var fieldKeyNames = map[FieldKey]string{
	FieldTitle:          "Title",
	FieldArtist:         "Artist",
	FieldAlbum:          "Album",
	FieldAlbumArtist:    "AlbumArtist",
	FieldComposer:       "Composer",
	FieldConductor:      "Conductor",
	FieldGenre:          "Genre",
	FieldYear:           "Year",
	FieldTrack:          "Track",
	FieldDisc:           "Disc",
	FieldBPM:            "BPM",
	FieldPublisher:      "Publisher",
	FieldCopyright:      "Copyright",
	FieldEncodedBy:      "EncodedBy",
	FieldISRC:           "ISRC",
	FieldLanguage:       "Language",
	FieldOriginalArtist: "OriginalArtist",
	FieldOriginalAlbum:  "OriginalAlbum",
	FieldMood:           "Mood",
	FieldCompilation:    "Compilation",
	FieldComment:        "Comment",
	FieldLyrics:         "Lyrics",
}

func (k FieldKey) String() string {
	if s, ok := fieldKeyNames[k]; ok {
		return s
	}
	return "FieldKey(" + strconv.Itoa(int(k)) + ")"
}

// fieldRef locates a field within a version: the frame identifier, plus a
// user text description when the field lives inside TXXX.
type fieldRef struct {
	id  string
	sub string
}

var fieldRefs24 = map[FieldKey]fieldRef{
	FieldTitle:          {id: "TIT2"},
	FieldArtist:         {id: "TPE1"},
	FieldAlbum:          {id: "TALB"},
	FieldAlbumArtist:    {id: "TPE2"},
	FieldComposer:       {id: "TCOM"},
	FieldConductor:      {id: "TPE3"},
	FieldGenre:          {id: "TCON"},
	FieldYear:           {id: "TDRC"},
	FieldTrack:          {id: "TRCK"},
	FieldDisc:           {id: "TPOS"},
	FieldBPM:            {id: "TBPM"},
	FieldPublisher:      {id: "TPUB"},
	FieldCopyright:      {id: "TCOP"},
	FieldEncodedBy:      {id: "TENC"},
	FieldISRC:           {id: "TSRC"},
	FieldLanguage:       {id: "TLAN"},
	FieldOriginalArtist: {id: "TOPE"},
	FieldOriginalAlbum:  {id: "TOAL"},
	FieldMood:           {id: "TMOO"},
	FieldCompilation:    {id: "TCMP"},
	FieldComment:        {id: "COMM"},
	FieldLyrics:         {id: "USLT"},
}

var fieldRefs23 = map[FieldKey]fieldRef{
	FieldTitle:          {id: "TIT2"},
	FieldArtist:         {id: "TPE1"},
	FieldAlbum:          {id: "TALB"},
	FieldAlbumArtist:    {id: "TPE2"},
	FieldComposer:       {id: "TCOM"},
	FieldConductor:      {id: "TPE3"},
	FieldGenre:          {id: "TCON"},
	FieldYear:           {id: "TYER"},
	FieldTrack:          {id: "TRCK"},
	FieldDisc:           {id: "TPOS"},
	FieldBPM:            {id: "TBPM"},
	FieldPublisher:      {id: "TPUB"},
	FieldCopyright:      {id: "TCOP"},
	FieldEncodedBy:      {id: "TENC"},
	FieldISRC:           {id: "TSRC"},
	FieldLanguage:       {id: "TLAN"},
	FieldOriginalArtist: {id: "TOPE"},
	FieldOriginalAlbum:  {id: "TOAL"},
	FieldMood:           {id: "TXXX", sub: "MOOD"},
	FieldCompilation:    {id: "TCMP"},
	FieldComment:        {id: "COMM"},
	FieldLyrics:         {id: "USLT"},
}

var fieldRefs22 = map[FieldKey]fieldRef{
	FieldTitle:          {id: "TT2"},
	FieldArtist:         {id: "TP1"},
	FieldAlbum:          {id: "TAL"},
	FieldAlbumArtist:    {id: "TP2"},
	FieldComposer:       {id: "TCM"},
	FieldConductor:      {id: "TP3"},
	FieldGenre:          {id: "TCO"},
	FieldYear:           {id: "TYE"},
	FieldTrack:          {id: "TRK"},
	FieldDisc:           {id: "TPA"},
	FieldBPM:            {id: "TBP"},
	FieldPublisher:      {id: "TPB"},
	FieldCopyright:      {id: "TCR"},
	FieldEncodedBy:      {id: "TEN"},
	FieldISRC:           {id: "TRC"},
	FieldLanguage:       {id: "TLA"},
	FieldOriginalArtist: {id: "TOA"},
	FieldOriginalAlbum:  {id: "TOT"},
	FieldMood:           {id: "TXX", sub: "MOOD"},
	FieldCompilation:    {id: "TCP"},
	FieldComment:        {id: "COM"},
	FieldLyrics:         {id: "ULT"},
}

func fieldRefFor(key FieldKey, v Version) (fieldRef, bool) {
	var m map[FieldKey]fieldRef
	switch v {
	case Version22:
		m = fieldRefs22
	case Version23:
		m = fieldRefs23
	case Version24:
		m = fieldRefs24
	default:
		return fieldRef{}, false
	}
	ref, ok := m[key]
	return ref, ok
}

// preferredOrder ranks identifiers for writing. Identification frames come
// first, bulky binary frames last, everything else keeps insertion order in
// between.
var preferredOrder = []string{
	"UFID", "TIT2", "TPE1", "TALB", "TSOA", "TCON", "TCOM", "TPE3",
	"TIT1", "TRCK", "TPOS", "TDRC", "TYER", "TDAT", "TIME", "TBPM",
	"TSRC", "TPE2", "TIT3",
	"UFI", "TT2", "TP1", "TAL", "TCO", "TCM", "TP3", "TT1", "TRK",
	"TPA", "TYE", "TDA", "TIM", "TBP", "TRC", "TP2", "TT3",
}

// preferredOrderLast ranks identifiers that go at the very end.
var preferredOrderLast = []string{
	"COMM", "USLT", "GEOB", "PRIV", "APIC", "MCDI",
	"COM", "ULT", "GEO", "PIC", "MCI",
}

var orderRank = buildOrderRank()

const orderRankDefault = 1000

func buildOrderRank() map[string]int {
	m := make(map[string]int, len(preferredOrder)+len(preferredOrderLast))
	for i, id := range preferredOrder {
		m[id] = i
	}
	for i, id := range preferredOrderLast {
		m[id] = orderRankDefault + 1 + i
	}
	return m
}

func frameOrderRank(id string) int {
	if r, ok := orderRank[id]; ok {
		return r
	}
	return orderRankDefault
}

// id3v1Genres is the classic genre table, Winamp extensions included.
var id3v1Genres = []string{
	"Blues", "Classic Rock", "Country", "Dance", "Disco", "Funk", "Grunge",
	"Hip-Hop", "Jazz", "Metal", "New Age", "Oldies", "Other", "Pop",
	"R&B", "Rap", "Reggae", "Rock", "Techno", "Industrial", "Alternative",
	"Ska", "Death Metal", "Pranks", "Soundtrack", "Euro-Techno", "Ambient",
	"Trip-Hop", "Vocal", "Jazz+Funk", "Fusion", "Trance", "Classical",
	"Instrumental", "Acid", "House", "Game", "Sound Clip", "Gospel",
	"Noise", "Alternative Rock", "Bass", "Soul", "Punk", "Space",
	"Meditative", "Instrumental Pop", "Instrumental Rock", "Ethnic",
	"Gothic", "Darkwave", "Techno-Industrial", "Electronic", "Pop-Folk",
	"Eurodance", "Dream", "Southern Rock", "Comedy", "Cult", "Gangsta",
	"Top 40", "Christian Rap", "Pop/Funk", "Jungle", "Native American",
	"Cabaret", "New Wave", "Psychedelic", "Rave", "Showtunes", "Trailer",
	"Lo-Fi", "Tribal", "Acid Punk", "Acid Jazz", "Polka", "Retro",
	"Musical", "Rock & Roll", "Hard Rock", "Folk", "Folk-Rock",
	"National Folk", "Swing", "Fast Fusion", "Bebop", "Latin", "Revival",
	"Celtic", "Bluegrass", "Avantgarde", "Gothic Rock", "Progressive Rock",
	"Psychedelic Rock", "Symphonic Rock", "Slow Rock", "Big Band",
	"Chorus", "Easy Listening", "Acoustic", "Humour", "Speech", "Chanson",
	"Opera", "Chamber Music", "Sonata", "Symphony", "Booty Bass", "Primus",
	"Porn Groove", "Satire", "Slow Jam", "Club", "Tango", "Samba",
	"Folklore", "Ballad", "Power Ballad", "Rhythmic Soul", "Freestyle",
	"Duet", "Punk Rock", "Drum Solo", "A Cappella", "Euro-House",
	"Dance Hall", "Goa", "Drum & Bass", "Club-House", "Hardcore",
	"Terror", "Indie", "BritPop", "Negerpunk", "Polsk Punk", "Beat",
	"Christian Gangsta Rap", "Heavy Metal", "Black Metal", "Crossover",
	"Contemporary Christian", "Christian Rock", "Merengue", "Salsa",
	"Thrash Metal", "Anime", "Jpop", "Synthpop",
}

// resolveGenre expands the legacy "(13)" and bare numeric genre notations to
// the table entry they reference. Unrecognized input passes through.
func resolveGenre(s string) string {
	text := s
	if strings.HasPrefix(s, "(") {
		if i := strings.IndexByte(s, ')'); i > 1 {
			text = s[1:i]
			if rest := s[i+1:]; rest != "" {
				// "(13)Pop" style refinement wins over the index.
				return rest
			}
		}
	}
	if n, err := strconv.Atoi(text); err == nil && n >= 0 && n < len(id3v1Genres) {
		return id3v1Genres[n]
	}
	return s
}
