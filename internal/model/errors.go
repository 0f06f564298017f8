package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPlaylistURL is returned when a Spotify link is not of the form
	// https://open.spotify.com/playlist/<id>?...
	ErrInvalidPlaylistURL = errors.New("invalid spotify link, expected format: https://open.spotify.com/playlist/...")

	// ErrEmptyResult is matched by EmptyResultError.
	ErrEmptyResult = errors.New("list of tracks to download is empty")

	// ErrNoResults is returned when a search yields no candidate video.
	ErrNoResults = errors.New("search returned no results")

	// ErrSourceUnavailable marks a remote stream that is (possibly temporarily) unavailable.
	// It is the only error the stream acquisition step retries.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrConversion is matched by ConversionError.
	ErrConversion = errors.New("conversion failed")

	// ErrTagging is matched by TaggingError.
	ErrTagging = errors.New("tagging failed")

	// ErrCoverArtFetch is reported when cover art could not be downloaded.
	// It never fails a track.
	ErrCoverArtFetch = errors.New("cover art fetch failed")

	// ErrMissingSource is returned when a track without SourceURL reaches the pipeline.
	ErrMissingSource = errors.New("track has no source url")
)

// EmptyResultError is returned when resolving the input produced no tracks.
type EmptyResultError struct {
	// Input is the raw user input.
	Input string

	// MaybePrivate is set when the input was a valid playlist link whose
	// listing came back empty, which usually means the playlist is private.
	MaybePrivate bool
}

func (e *EmptyResultError) Error() string {
	if e.MaybePrivate {
		return fmt.Sprintf("%v: playlist %q returned no tracks, it may be private or inaccessible", ErrEmptyResult, e.Input)
	}
	return fmt.Sprintf("%v: nothing matched %q", ErrEmptyResult, e.Input)
}

// Is makes errors.Is(err, ErrEmptyResult) work.
func (e *EmptyResultError) Is(target error) bool {
	return target == ErrEmptyResult
}

// ConversionError wraps a transcoder failure.
type ConversionError struct {
	Path string
	Err  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("converting %s: %v", e.Path, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

func (e *ConversionError) Is(target error) bool { return target == ErrConversion }

// TaggingError wraps a tag writer failure.
type TaggingError struct {
	Path string
	Err  error
}

func (e *TaggingError) Error() string {
	return fmt.Sprintf("tagging %s: %v", e.Path, e.Err)
}

func (e *TaggingError) Unwrap() error { return e.Err }

func (e *TaggingError) Is(target error) bool { return target == ErrTagging }
