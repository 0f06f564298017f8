package spotify

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/handiism/song-downloader/internal/model"
)

// Session authenticates on first use and then behaves like a Fetcher.
//
// Runs that never touch a Spotify link never open a browser.
type Session struct {
	cfg     Config
	auth    *Authenticator
	logger  *slog.Logger
	fetcher *Fetcher
}

// NewSession creates a Session. httpClient carries timeout and proxy settings.
func NewSession(cfg Config, httpClient *http.Client, logger *slog.Logger) *Session {
	return &Session{
		cfg:    cfg,
		auth:   NewAuthenticator(cfg, httpClient, logger),
		logger: logger,
	}
}

// Authenticator exposes the underlying authenticator, e.g. to set OnPrompt.
func (s *Session) Authenticator() *Authenticator {
	return s.auth
}

func (s *Session) connect(ctx context.Context) (*Fetcher, error) {
	if s.fetcher != nil {
		return s.fetcher, nil
	}
	client, err := s.auth.Client(ctx)
	if err != nil {
		return nil, err
	}
	s.fetcher = NewFetcher(NewClient(client, s.cfg.APIBaseURL, s.logger))
	return s.fetcher, nil
}

// FetchTracks implements the playlist fetcher used by the download manager.
func (s *Session) FetchTracks(ctx context.Context, playlistURL string) ([]model.Track, error) {
	if _, err := ExtractPlaylistID(playlistURL); err != nil {
		return nil, err
	}
	f, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	return f.FetchTracks(ctx, playlistURL)
}

// PlaylistName returns the playlist display name.
func (s *Session) PlaylistName(ctx context.Context, playlistURL string) (string, error) {
	if _, err := ExtractPlaylistID(playlistURL); err != nil {
		return "", err
	}
	f, err := s.connect(ctx)
	if err != nil {
		return "", err
	}
	return f.PlaylistName(ctx, playlistURL)
}
