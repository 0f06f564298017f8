package model

import "fmt"

// Track describes one song to be acquired.
//
// A Track is built in stages and every field may be unknown (empty) at some point:
//   - Tracks from a Spotify playlist carry Title, Artist, Album and CoverArtURL
//   - Tracks from a search phrase carry only Query
//   - Tracks from a YouTube link carry only SourceURL
//
// SourceURL must be set before the track enters the download pipeline.
// Tracks are values: later stages build a new Track with WithSourceURL
// instead of mutating a shared one.
//
// Example:
//
//	track := model.Track{Title: "Come Together", Artist: "The Beatles"}
//	track.SearchKey() // "The Beatles - Come Together"
//	resolved := track.WithSourceURL("https://www.youtube.com/watch?v=45cYwDMibGo")
type Track struct {
	// Title is the song title.
	Title string

	// Artist is the primary credited artist.
	Artist string

	// Album is the album title.
	Album string

	// CoverArtURL is the URL of the cover image.
	// Empty means the cover is derived from the source video thumbnail.
	CoverArtURL string

	// SourceURL is the watch URL of the remote audio stream.
	SourceURL string

	// Query is the raw search phrase the track was created from, if any.
	Query string
}

// SearchKey returns the phrase handed to the source resolver.
//
// It is "{artist} - {title}" when both are known, otherwise the raw query,
// otherwise the bare title.
func (t Track) SearchKey() string {
	if t.Artist != "" && t.Title != "" {
		return fmt.Sprintf("%s - %s", t.Artist, t.Title)
	}
	if t.Query != "" {
		return t.Query
	}
	return t.Title
}

// WithSourceURL returns a copy of the track with SourceURL set.
func (t Track) WithSourceURL(sourceURL string) Track {
	t.SourceURL = sourceURL
	return t
}

// HasSource reports whether the track has been resolved to a remote stream.
func (t Track) HasSource() bool {
	return t.SourceURL != ""
}

// HasCoverArt reports whether an explicit cover image URL is known.
func (t Track) HasCoverArt() bool {
	return t.CoverArtURL != ""
}

// Label returns a short human readable name for logs and reports.
func (t Track) Label() string {
	if key := t.SearchKey(); key != "" {
		return key
	}
	return t.SourceURL
}
