// Package http provides the HTTP client shared by the search scraper,
// the cover art fetcher, the YouTube stream client and the Spotify API.
//
// # Basic Usage
//
//	client, err := http.NewClient(http.DefaultConfig())
//	data, err := client.Get(ctx, "https://i.ytimg.com/vi/XYZ123/hqdefault.jpg")
//
// # Proxies
//
//	cfg := http.DefaultConfig()
//	cfg.Proxy = http.ProxyManual
//	cfg.ProxyURL = "socks5://127.0.0.1:1080"
//	client, err := http.NewClient(cfg)
//
// # Progress Tracking
//
// ProgressWriter wraps any io.Writer:
//
//	pw := &http.ProgressWriter{Writer: file, Total: size, OnUpdate: func(written, total int64) {}}
package http
