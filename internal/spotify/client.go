package spotify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/handiism/song-downloader/internal/logging"
	"github.com/handiism/song-downloader/internal/spotify/dto"
)

const (
	pageLimit  = 100
	itemFields = "items(track(name,type,is_local,artists(name),album(name,images(url,width,height)))),next,total"
)

// Client is a minimal Spotify Web API client.
//
// The *http.Client passed in is expected to add the Authorization header,
// which is what the oauth2 client returned by Authenticator does.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a Client. An empty baseURL means DefaultAPIBaseURL.
func NewClient(httpClient *http.Client, baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     logging.OrDiscard(logger),
	}
}

// FetchPlaylistPage implements API.
//
// pageToken is the "next" URL returned with the previous page.
func (c *Client) FetchPlaylistPage(ctx context.Context, playlistID, pageToken string) (Page, error) {
	endpoint := pageToken
	if endpoint == "" {
		q := url.Values{}
		q.Set("limit", strconv.Itoa(pageLimit))
		q.Set("fields", itemFields)
		endpoint = fmt.Sprintf("%s/playlists/%s/tracks?%s", c.baseURL, url.PathEscape(playlistID), q.Encode())
	}

	var page dto.PlaylistPage
	if err := c.getJSON(ctx, endpoint, &page); err != nil {
		return Page{}, err
	}

	c.logger.Debug("fetched playlist page", "playlist", playlistID, "items", len(page.Items), "total", page.Total)
	return Page{Items: page.Items, Next: page.NextURL()}, nil
}

// FetchPlaylist implements API.
func (c *Client) FetchPlaylist(ctx context.Context, playlistID string) (*dto.JSONPlaylist, error) {
	endpoint := fmt.Sprintf("%s/playlists/%s?fields=%s", c.baseURL, url.PathEscape(playlistID), url.QueryEscape("name,owner(display_name)"))

	var p dto.JSONPlaylist
	if err := c.getJSON(ctx, endpoint, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrAccessDenied, resp.Status)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("spotify API returned %s: %s", resp.Status, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode spotify response: %w", err)
	}
	return nil
}
