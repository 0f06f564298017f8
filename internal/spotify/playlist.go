package spotify

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/handiism/song-downloader/internal/model"
	"github.com/handiism/song-downloader/internal/spotify/dto"
)

// ErrAccessDenied is returned by the API client when Spotify refuses to
// list a playlist (private, deleted, or not visible to the user).
var ErrAccessDenied = errors.New("spotify denied access to playlist")

var playlistIDRegex = regexp.MustCompile(`^https://open\.spotify\.com/playlist/([^?]+)\?`)

// ExtractPlaylistID returns the playlist id of a share link such as
// https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=...
//
// The query string is required; anything else is ErrInvalidPlaylistURL.
func ExtractPlaylistID(playlistURL string) (string, error) {
	m := playlistIDRegex.FindStringSubmatch(playlistURL)
	if m == nil {
		return "", model.ErrInvalidPlaylistURL
	}
	return m[1], nil
}

// Page is one page of playlist items.
type Page struct {
	Items []dto.PlaylistItem

	// Next is the opaque token of the following page, empty on the last one.
	Next string
}

// API is the part of the Spotify Web API the Fetcher needs.
type API interface {
	// FetchPlaylistPage returns the page identified by pageToken,
	// or the first page when pageToken is empty.
	FetchPlaylistPage(ctx context.Context, playlistID, pageToken string) (Page, error)

	// FetchPlaylist returns the playlist metadata.
	FetchPlaylist(ctx context.Context, playlistID string) (*dto.JSONPlaylist, error)
}

// Fetcher turns a playlist link into track descriptors.
type Fetcher struct {
	api API
}

// NewFetcher creates a Fetcher on top of api.
func NewFetcher(api API) *Fetcher {
	return &Fetcher{api: api}
}

// FetchTracks lists every track of the playlist, following pagination
// until the last page, in playlist order.
//
// Each track carries title, first artist, album and the first album image.
// Items with no track object are skipped. When Spotify denies access to
// the first page the result is an empty list and a nil error; the caller
// decides whether an empty playlist is fatal. A denial on a later page is
// returned as an error so a partial listing is never mistaken for a
// complete one.
func (f *Fetcher) FetchTracks(ctx context.Context, playlistURL string) ([]model.Track, error) {
	id, err := ExtractPlaylistID(playlistURL)
	if err != nil {
		return nil, err
	}

	var tracks []model.Track
	token := ""
	for {
		page, err := f.api.FetchPlaylistPage(ctx, id, token)
		if token == "" && errors.Is(err, ErrAccessDenied) {
			return []model.Track{}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to fetch playlist page: %w", err)
		}

		for _, item := range page.Items {
			if !item.Downloadable() {
				continue
			}
			tracks = append(tracks, item.Track.ToTrack())
		}

		if page.Next == "" || page.Next == token {
			break
		}
		token = page.Next
	}

	if tracks == nil {
		tracks = []model.Track{}
	}
	return tracks, nil
}

// PlaylistName returns the display name of the playlist.
func (f *Fetcher) PlaylistName(ctx context.Context, playlistURL string) (string, error) {
	id, err := ExtractPlaylistID(playlistURL)
	if err != nil {
		return "", err
	}

	p, err := f.api.FetchPlaylist(ctx, id)
	if err != nil {
		return "", err
	}
	return p.Name, nil
}
