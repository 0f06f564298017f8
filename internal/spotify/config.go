package spotify

import "path/filepath"

const (
	// DefaultClientID is the public client id of the downloader's Spotify app.
	DefaultClientID = "dbabf45ecf1c4645853f4baafc3096b4"

	// DefaultRedirectURL must match the redirect URI registered for the app.
	DefaultRedirectURL = "http://localhost:8080"

	// DefaultAPIBaseURL is the Spotify Web API root.
	DefaultAPIBaseURL = "https://api.spotify.com/v1"

	// DefaultAuthURL and DefaultTokenURL are the Spotify accounts endpoints.
	DefaultAuthURL  = "https://accounts.spotify.com/authorize"
	DefaultTokenURL = "https://accounts.spotify.com/api/token"
)

// DefaultScopes are the scopes needed to read private and collaborative playlists.
var DefaultScopes = []string{"playlist-read-private", "playlist-read-collaborative"}

// Config holds everything needed to talk to Spotify.
// It is built once at startup and passed by value.
type Config struct {
	ClientID    string
	RedirectURL string
	Scopes      []string

	// CachePath is where the OAuth token is persisted between runs.
	CachePath string

	APIBaseURL string
	AuthURL    string
	TokenURL   string
}

// DefaultConfig returns the stock configuration with the token cache under home.
func DefaultConfig(home string) Config {
	return Config{
		ClientID:    DefaultClientID,
		RedirectURL: DefaultRedirectURL,
		Scopes:      append([]string(nil), DefaultScopes...),
		CachePath:   DefaultCachePath(home),
		APIBaseURL:  DefaultAPIBaseURL,
		AuthURL:     DefaultAuthURL,
		TokenURL:    DefaultTokenURL,
	}
}

// DefaultCachePath returns <home>/.cache/song_downloader/spotify_token.cache.
func DefaultCachePath(home string) string {
	return filepath.Join(home, ".cache", "song_downloader", "spotify_token.cache")
}
