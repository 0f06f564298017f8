package spotify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/pkg/browser"
	"golang.org/x/oauth2"

	"github.com/handiism/song-downloader/internal/logging"
)

// ErrAuthorization is returned when the user did not grant access.
var ErrAuthorization = errors.New("spotify authorization failed")

// Authenticator obtains an authorized HTTP client for the Spotify Web API
// using the authorization code flow with PKCE.
//
// A cached token is reused and refreshed when possible; otherwise the
// authorization URL is opened in the browser and the code is received on
// a local HTTP server bound to the redirect URL.
type Authenticator struct {
	cfg        Config
	oauth      *oauth2.Config
	httpClient *http.Client
	logger     *slog.Logger

	// OpenURL opens the authorization page. Defaults to browser.OpenURL.
	OpenURL func(url string) error

	// OnPrompt is called with the authorization URL before waiting for the
	// callback, so the caller can print it when no browser is available.
	OnPrompt func(url string)
}

// NewAuthenticator creates an Authenticator. httpClient is used for the
// token endpoint and as the base transport of the returned client.
func NewAuthenticator(cfg Config, httpClient *http.Client, logger *slog.Logger) *Authenticator {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Authenticator{
		cfg: cfg,
		oauth: &oauth2.Config{
			ClientID:    cfg.ClientID,
			RedirectURL: cfg.RedirectURL,
			Scopes:      cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: httpClient,
		logger:     logging.OrDiscard(logger),
		OpenURL:    browser.OpenURL,
	}
}

// Client returns an HTTP client that authorizes every request.
func (a *Authenticator) Client(ctx context.Context) (*http.Client, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)

	tok, err := a.LoadToken()
	if err != nil {
		a.logger.Debug("no usable cached token", "path", a.cfg.CachePath, "error", err)
		tok, err = a.authorize(ctx)
		if err != nil {
			return nil, err
		}
		if err := a.SaveToken(tok); err != nil {
			a.logger.Warn("failed to cache spotify token", "error", err)
		}
	}

	ts := &cachingTokenSource{
		base: a.oauth.TokenSource(ctx, tok),
		last: tok,
		save: a.SaveToken,
		log:  a.logger,
	}
	return oauth2.NewClient(ctx, ts), nil
}

// LoadToken reads the cached token.
func (a *Authenticator) LoadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(a.cfg.CachePath)
	if err != nil {
		return nil, err
	}

	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("corrupt token cache: %w", err)
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return nil, errors.New("token cache holds no token")
	}
	return &tok, nil
}

// SaveToken writes tok to the cache path, readable by the owner only.
func (a *Authenticator) SaveToken(tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(a.cfg.CachePath), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	return os.WriteFile(a.cfg.CachePath, data, 0o600)
}

func (a *Authenticator) authorize(ctx context.Context) (*oauth2.Token, error) {
	redirect, err := url.Parse(a.cfg.RedirectURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect URL: %w", err)
	}

	listener, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", redirect.Host, err)
	}

	verifier := oauth2.GenerateVerifier()
	state := uuid.NewString()
	codes := make(chan string, 1)
	errs := make(chan error, 1)

	path := redirect.Path
	if path == "" {
		path = "/"
	}
	mux := http.NewServeMux()
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("state") != state:
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		case q.Get("error") != "":
			http.Error(w, "authorization denied", http.StatusForbidden)
			errs <- fmt.Errorf("%w: %s", ErrAuthorization, q.Get("error"))
			return
		case q.Get("code") == "":
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}
		fmt.Fprintln(w, "Authorization complete. You can close this window.")
		codes <- q.Get("code")
	})

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() { _ = srv.Serve(listener) }()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	authURL := a.oauth.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
	if a.OnPrompt != nil {
		a.OnPrompt(authURL)
	}
	if a.OpenURL != nil {
		if err := a.OpenURL(authURL); err != nil {
			a.logger.Warn("failed to open browser", "error", err)
		}
	}

	var code string
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case err := <-errs:
		return nil, err
	case code = <-codes:
	}

	tok, err := a.oauth.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthorization, err)
	}
	return tok, nil
}

// cachingTokenSource writes refreshed tokens back to the cache.
type cachingTokenSource struct {
	mu   sync.Mutex
	base oauth2.TokenSource
	last *oauth2.Token
	save func(*oauth2.Token) error
	log  *slog.Logger
}

func (s *cachingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil || tok.AccessToken != s.last.AccessToken {
		if err := s.save(tok); err != nil {
			s.log.Warn("failed to cache refreshed spotify token", "error", err)
		}
		s.last = tok
	}
	return tok, nil
}
