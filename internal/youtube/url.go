package youtube

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// ErrInvalidVideoURL is returned when no video id can be found in a link.
var ErrInvalidVideoURL = errors.New("could not extract video id")

var (
	videoIDRegex  = regexp.MustCompile(`(?:youtube\.com/watch\?(?:.*&)?v=|youtu\.be/|youtube\.com/embed/|youtube\.com/shorts/)([a-zA-Z0-9_-]{11})`)
	bareIDRegex   = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
	playlistRegex = regexp.MustCompile(`[?&]list=([a-zA-Z0-9_-]+)`)
)

// VideoID extracts the 11 character video id from a YouTube link.
// A bare id is returned as is.
func VideoID(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)

	if m := videoIDRegex.FindStringSubmatch(rawURL); m != nil {
		return m[1], nil
	}
	if u, err := url.Parse(rawURL); err == nil {
		if v := u.Query().Get("v"); bareIDRegex.MatchString(v) {
			return v, nil
		}
	}
	if bareIDRegex.MatchString(rawURL) {
		return rawURL, nil
	}
	return "", ErrInvalidVideoURL
}

// PlaylistID extracts the list parameter of a playlist link.
func PlaylistID(rawURL string) string {
	if m := playlistRegex.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}
	return ""
}

// WatchURL returns the canonical watch link of a video.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// ThumbnailURL returns the high quality thumbnail of a video.
func ThumbnailURL(id string) string {
	return "https://i.ytimg.com/vi/" + id + "/hqdefault.jpg"
}
