package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/proxy"
)

// ErrStatus is wrapped by errors for non-200 responses.
var ErrStatus = errors.New("unexpected HTTP status")

// ProxyType selects how outgoing requests are proxied.
type ProxyType string

const (
	// ProxyNone connects directly.
	ProxyNone ProxyType = "none"

	// ProxySystem uses HTTP_PROXY / HTTPS_PROXY / NO_PROXY from the environment.
	ProxySystem ProxyType = "system"

	// ProxyManual uses Config.ProxyURL (http, https or socks5).
	ProxyManual ProxyType = "manual"
)

// Config configures a Client.
type Config struct {
	// Timeout bounds every request, including reading the body.
	Timeout time.Duration

	// UserAgent is sent with every request made through Get.
	UserAgent string

	// Proxy selects the proxy mode.
	Proxy ProxyType

	// ProxyURL is used when Proxy is ProxyManual, e.g. "socks5://127.0.0.1:1080".
	ProxyURL string
}

// DefaultConfig returns a 60 second timeout with system proxy settings.
func DefaultConfig() Config {
	return Config{
		Timeout:   60 * time.Second,
		UserAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
		Proxy:     ProxySystem,
	}
}

// Client wraps HTTP operations used by the downloader.
//
// Client provides:
//   - A bounded timeout so a hung remote call cannot block a run forever
//   - Proxy support (environment, http/https or socks5)
//   - A browser-like User-Agent, which the YouTube results page requires
//
// Example usage:
//
//	client, err := NewClient(DefaultConfig())
//	page, err := client.GetString(ctx, "https://www.youtube.com/results?search_query=...")
//	cover, err := client.Get(ctx, "https://i.ytimg.com/vi/XYZ123/hqdefault.jpg")
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new Client from cfg.
//
// Returns an error if the proxy configuration is invalid.
func NewClient(cfg Config) (*Client, error) {
	transport, err := newTransport(cfg)
	if err != nil {
		return nil, err
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		userAgent: cfg.UserAgent,
	}, nil
}

// newTransport builds the transport for the configured proxy mode.
func newTransport(cfg Config) (*http.Transport, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	switch cfg.Proxy {
	case ProxyNone:
		transport.Proxy = nil
	case ProxySystem, "":
		transport.Proxy = http.ProxyFromEnvironment
	case ProxyManual:
		parsed, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL %q: %w", cfg.ProxyURL, err)
		}

		switch parsed.Scheme {
		case "http", "https":
			transport.Proxy = http.ProxyURL(parsed)
		case "socks5":
			dialer, err := proxy.FromURL(parsed, proxy.Direct)
			if err != nil {
				return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
			}
			transport.Proxy = nil
			transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
				if cd, ok := dialer.(proxy.ContextDialer); ok {
					return cd.DialContext(ctx, network, addr)
				}
				return dialer.Dial(network, addr)
			}
		default:
			return nil, fmt.Errorf("unsupported proxy scheme %q (use http, https, or socks5)", parsed.Scheme)
		}
	default:
		return nil, fmt.Errorf("unknown proxy type %q", cfg.Proxy)
	}

	return transport, nil
}

// HTTPClient returns the underlying *http.Client so that other libraries
// (the YouTube client, the OAuth2 transport) share timeout and proxy settings.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// Get performs a GET request and returns the response body as bytes.
//
// Returns an error wrapping ErrStatus if the response status is not 200 OK.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// GetString performs a GET request and returns the response body as a string.
func (c *Client) GetString(ctx context.Context, url string) (string, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// ProgressWriter wraps a writer to track download progress.
//
// OnUpdate receives the bytes written so far and the expected total
// (zero or negative when unknown).
type ProgressWriter struct {
	Writer   io.Writer
	Total    int64
	Written  int64
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}
