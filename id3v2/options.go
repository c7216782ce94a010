package id3v2

// Options configures reading and writing of tags. A value is passed in
// explicitly wherever it is needed; there is no process-wide tag
// configuration.
type Options struct {
	// Unsynchronize applies the unsynchronization transform on write when
	// the serialized bytes would otherwise contain false sync patterns.
	// v2.2/v2.3 tags are unsynchronized as a whole, v2.4 per frame.
	Unsynchronize bool

	// GenreAsText writes genres as free text. When false, genre names with
	// a well-known numeric code are written as the code instead.
	GenreAsText bool

	// Padding is the number of zero bytes appended after the last frame,
	// leaving room for later edits without rewriting the whole file.
	Padding int
}

func DefaultOptions() Options {
	return Options{
		GenreAsText: true,
		Padding:     128,
	}
}
