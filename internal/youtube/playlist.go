package youtube

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kkdai/youtube/v2"
)

// NativePlaylists lists the videos of a YouTube playlist with the pure Go client.
type NativePlaylists struct {
	client *youtube.Client
}

// NewNativePlaylists creates a NativePlaylists lister.
func NewNativePlaylists(httpClient *http.Client) *NativePlaylists {
	return &NativePlaylists{client: &youtube.Client{HTTPClient: httpClient}}
}

// VideoURLs returns the watch link of every video in the playlist, in order.
func (p *NativePlaylists) VideoURLs(ctx context.Context, playlistURL string) ([]string, error) {
	playlist, err := p.client.GetPlaylistContext(ctx, playlistURL)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlist: %w", classifyError(err))
	}

	urls := make([]string, 0, len(playlist.Videos))
	for _, entry := range playlist.Videos {
		if entry == nil || entry.ID == "" {
			continue
		}
		urls = append(urls, WatchURL(entry.ID))
	}
	return urls, nil
}
