package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrack_SearchKey(t *testing.T) {
	tests := []struct {
		name  string
		track Track
		want  string
	}{
		{"artist and title", Track{Title: "Song", Artist: "Artist"}, "Artist - Song"},
		{"query only", Track{Query: "some phrase"}, "some phrase"},
		{"title without artist falls back to query", Track{Title: "Song", Query: "q"}, "q"},
		{"title without artist or query", Track{Title: "Song", Album: "Album"}, "Song"},
		{"nothing known", Track{SourceURL: "https://www.youtube.com/watch?v=abc"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.track.SearchKey())
		})
	}
}

func TestTrack_WithSourceURL(t *testing.T) {
	original := Track{Title: "Song", Artist: "Artist"}
	resolved := original.WithSourceURL("https://www.youtube.com/watch?v=XYZ123")

	assert.False(t, original.HasSource(), "original must not be mutated")
	assert.True(t, resolved.HasSource())
	assert.Equal(t, "Song", resolved.Title)
	assert.Equal(t, "Artist", resolved.Artist)
}

func TestTrack_Label(t *testing.T) {
	assert.Equal(t, "Artist - Song", Track{Title: "Song", Artist: "Artist"}.Label())
	assert.Equal(t, "Song", Track{Title: "Song"}.Label())
	assert.Equal(t, "https://youtu.be/x", Track{SourceURL: "https://youtu.be/x"}.Label())
}

func TestEmptyResultError(t *testing.T) {
	private := &EmptyResultError{Input: "https://open.spotify.com/playlist/abc?si=1", MaybePrivate: true}
	nothing := &EmptyResultError{Input: ";"}

	assert.True(t, errors.Is(private, ErrEmptyResult))
	assert.True(t, errors.Is(fmt.Errorf("wrapped: %w", nothing), ErrEmptyResult))
	assert.Contains(t, private.Error(), "private")
	assert.NotContains(t, nothing.Error(), "private")
}

func TestConversionAndTaggingErrors(t *testing.T) {
	cause := errors.New("exit status 1")

	conv := fmt.Errorf("track: %w", &ConversionError{Path: "a.mp4", Err: cause})
	assert.True(t, errors.Is(conv, ErrConversion))
	assert.True(t, errors.Is(conv, cause))
	assert.False(t, errors.Is(conv, ErrTagging))

	tag := &TaggingError{Path: "a.m4a", Err: cause}
	assert.True(t, errors.Is(tag, ErrTagging))
	assert.False(t, errors.Is(tag, ErrConversion))
}
