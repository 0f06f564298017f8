// Package input classifies the raw user input into one of the supported
// request kinds. Classification is pure string inspection; no network
// access and no URL validation happen here.
package input

import (
	"strings"

	"github.com/samber/lo"
)

// Kind is the classification of a user input.
//
// The set of variants is closed: SearchPhrases, SingleVideo,
// VideoPlaylist and CuratedPlaylist.
type Kind interface {
	kind()
	// String names the variant for logs.
	String() string
}

// SearchPhrases is free text, one search per phrase.
type SearchPhrases struct {
	Phrases []string
}

// SingleVideo is a link to one YouTube video.
type SingleVideo struct {
	URL string
}

// VideoPlaylist is a link to a YouTube playlist.
type VideoPlaylist struct {
	URL string
}

// CuratedPlaylist is a link to a Spotify playlist.
type CuratedPlaylist struct {
	URL string
}

func (SearchPhrases) kind()   {}
func (SingleVideo) kind()     {}
func (VideoPlaylist) kind()   {}
func (CuratedPlaylist) kind() {}

func (SearchPhrases) String() string   { return "search phrases" }
func (SingleVideo) String() string     { return "youtube video" }
func (VideoPlaylist) String() string   { return "youtube playlist" }
func (CuratedPlaylist) String() string { return "spotify playlist" }

// PhraseSeparator separates multiple search phrases in one input.
const PhraseSeparator = ";"

// Classify inspects raw and returns its kind.
//
// Checks run in priority order:
//  1. contains "spotify.com"                       -> CuratedPlaylist
//  2. contains "youtube.com" or "youtu.be"
//     and also "playlist"                          -> VideoPlaylist
//     otherwise                                    -> SingleVideo
//  3. anything else                                -> SearchPhrases
//
// Search phrases are split on ";", trimmed, and empty phrases dropped,
// so SearchPhrases may hold zero phrases.
func Classify(raw string) Kind {
	switch {
	case strings.Contains(raw, "spotify.com"):
		return CuratedPlaylist{URL: raw}
	case strings.Contains(raw, "youtube.com") || strings.Contains(raw, "youtu.be"):
		if strings.Contains(raw, "playlist") {
			return VideoPlaylist{URL: raw}
		}
		return SingleVideo{URL: raw}
	default:
		return SearchPhrases{Phrases: SplitPhrases(raw)}
	}
}

// SplitPhrases splits raw on PhraseSeparator, trimming and dropping empties.
func SplitPhrases(raw string) []string {
	parts := lo.Map(strings.Split(raw, PhraseSeparator), func(p string, _ int) string {
		return strings.TrimSpace(p)
	})
	return lo.Compact(parts)
}
