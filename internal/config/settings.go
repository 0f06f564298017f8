package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	str2duration "github.com/xhit/go-str2duration/v2"
	"gopkg.in/yaml.v2"

	"github.com/handiism/song-downloader/internal/audio"
	"github.com/handiism/song-downloader/internal/http"
	ioutils "github.com/handiism/song-downloader/internal/io"
	"github.com/handiism/song-downloader/internal/spotify"
)

// Stream backends.
const (
	BackendNative = "native"
	BackendYtdlp  = "ytdlp"
)

// Settings holds all configuration options.
type Settings struct {
	// Download settings
	OutputDir          string `yaml:"output_dir"`
	Format             string `yaml:"format"`  // m4a, mp3
	Backend            string `yaml:"backend"` // native, ytdlp
	DownloadMaxRetries int    `yaml:"download_max_retries"`
	DownloadRetryDelay string `yaml:"download_retry_delay"`
	HTTPTimeout        string `yaml:"http_timeout"`
	StrictErrors       bool   `yaml:"strict_errors"`

	// External tools, empty means looked up in PATH
	FFmpegPath string `yaml:"ffmpeg_path"`
	YtdlpPath  string `yaml:"ytdlp_path"`

	// Cover art settings
	SaveCoverArtInTags    bool `yaml:"save_cover_art_in_tags"`
	CoverArtInTagsResize  bool `yaml:"cover_art_in_tags_resize"`
	CoverArtInTagsMaxSize int  `yaml:"cover_art_in_tags_max_size"`
	ConvertCoverArtToJPG  bool `yaml:"convert_cover_art_to_jpg"`

	// Playlist settings
	CreatePlaylist bool   `yaml:"create_playlist"`
	PlaylistFormat string `yaml:"playlist_format"` // m3u, pls, wpl, zpl
	M3UExtended    bool   `yaml:"m3u_extended"`

	// Tag settings
	ModifyTags bool `yaml:"modify_tags"`

	// Spotify settings
	SpotifyClientID    string `yaml:"spotify_client_id"`
	SpotifyRedirectURL string `yaml:"spotify_redirect_url"`
	SpotifyTokenCache  string `yaml:"spotify_token_cache"`

	// Proxy settings
	ProxyType    string `yaml:"proxy_type"` // none, system, manual
	ProxyAddress string `yaml:"proxy_address"`
	ProxyPort    int    `yaml:"proxy_port"`

	LogLevel string `yaml:"log_level"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		OutputDir:          ".",
		Format:             string(audio.FormatM4A),
		Backend:            BackendNative,
		DownloadMaxRetries: 5,
		DownloadRetryDelay: "5s",
		HTTPTimeout:        "60s",
		StrictErrors:       false,

		SaveCoverArtInTags:    true,
		CoverArtInTagsResize:  true,
		CoverArtInTagsMaxSize: 1000,
		ConvertCoverArtToJPG:  true,

		CreatePlaylist: false,
		PlaylistFormat: "m3u",
		M3UExtended:    true,

		ModifyTags: true,

		SpotifyClientID:    spotify.DefaultClientID,
		SpotifyRedirectURL: spotify.DefaultRedirectURL,

		ProxyType: string(http.ProxySystem),

		LogLevel: "warn",
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/song-downloader/config.yaml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "song-downloader", "config.yaml")
}

// Load reads settings from a YAML file.
// A missing file yields DefaultSettings().
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a YAML file.
func (s *Settings) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return ioutils.WriteFile(path, data)
}

// Validate checks every field that has a restricted set of values.
func (s *Settings) Validate() error {
	var errs []error

	if _, err := s.AudioFormat(); err != nil {
		errs = append(errs, err)
	}
	if s.Backend != BackendNative && s.Backend != BackendYtdlp {
		errs = append(errs, fmt.Errorf("unknown backend %q (use %s or %s)", s.Backend, BackendNative, BackendYtdlp))
	}
	if s.DownloadMaxRetries < 1 {
		errs = append(errs, fmt.Errorf("download_max_retries must be at least 1, got %d", s.DownloadMaxRetries))
	}
	if _, err := s.RetryDelay(); err != nil {
		errs = append(errs, err)
	}
	if _, err := s.ToHTTPConfig(); err != nil {
		errs = append(errs, err)
	}
	if _, err := audio.ParsePlaylistFormat(s.PlaylistFormat); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// AudioFormat returns the target container.
func (s *Settings) AudioFormat() (audio.Format, error) {
	return audio.ParseFormat(s.Format)
}

// RetryDelay parses DownloadRetryDelay, e.g. "5s" or "1m30s".
func (s *Settings) RetryDelay() (time.Duration, error) {
	return parseDuration("download_retry_delay", s.DownloadRetryDelay)
}

// ToCoverOptions converts the cover art settings.
func (s *Settings) ToCoverOptions() ioutils.CoverOptions {
	opts := ioutils.CoverOptions{ConvertToJPEG: s.ConvertCoverArtToJPG}
	if s.CoverArtInTagsResize {
		opts.MaxSize = s.CoverArtInTagsMaxSize
	}
	return opts
}

// ToTagConfig converts the tag settings.
func (s *Settings) ToTagConfig() *audio.TagConfig {
	cfg := audio.DefaultTagConfig()
	if !s.ModifyTags {
		cfg.Title = audio.TagDoNotModify
		cfg.Artist = audio.TagDoNotModify
		cfg.Album = audio.TagDoNotModify
	}
	if !s.SaveCoverArtInTags {
		cfg.Cover = audio.TagDoNotModify
	}
	return cfg
}

// ToPlaylistCreator returns the playlist writer, or nil when playlists are disabled.
func (s *Settings) ToPlaylistCreator() *audio.PlaylistCreator {
	if !s.CreatePlaylist {
		return nil
	}
	format, err := audio.ParsePlaylistFormat(s.PlaylistFormat)
	if err != nil {
		format = audio.FormatM3U
	}
	return audio.NewPlaylistCreator(format, s.M3UExtended)
}

// ToHTTPConfig converts the timeout and proxy settings.
func (s *Settings) ToHTTPConfig() (http.Config, error) {
	cfg := http.DefaultConfig()

	timeout, err := parseDuration("http_timeout", s.HTTPTimeout)
	if err != nil {
		return cfg, err
	}
	cfg.Timeout = timeout

	switch http.ProxyType(strings.ToLower(s.ProxyType)) {
	case http.ProxyNone:
		cfg.Proxy = http.ProxyNone
	case http.ProxySystem, "":
		cfg.Proxy = http.ProxySystem
	case http.ProxyManual:
		cfg.Proxy = http.ProxyManual
		cfg.ProxyURL = proxyURL(s.ProxyAddress, s.ProxyPort)
	default:
		return cfg, fmt.Errorf("unknown proxy_type %q (use none, system or manual)", s.ProxyType)
	}

	return cfg, nil
}

// proxyURL joins address and port. An address without scheme is treated as HTTP.
func proxyURL(address string, port int) string {
	if !strings.Contains(address, "://") {
		address = "http://" + address
	}
	if port > 0 {
		scheme, host, _ := strings.Cut(address, "://")
		address = scheme + "://" + net.JoinHostPort(host, strconv.Itoa(port))
	}
	return address
}

// ToSpotifyConfig converts the Spotify settings. The token cache defaults
// to a file under home.
func (s *Settings) ToSpotifyConfig(home string) spotify.Config {
	cfg := spotify.DefaultConfig(home)
	if s.SpotifyClientID != "" {
		cfg.ClientID = s.SpotifyClientID
	}
	if s.SpotifyRedirectURL != "" {
		cfg.RedirectURL = s.SpotifyRedirectURL
	}
	if s.SpotifyTokenCache != "" {
		cfg.CachePath = s.SpotifyTokenCache
	}
	return cfg
}

func parseDuration(field, value string) (time.Duration, error) {
	d, err := str2duration.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", field, value)
	}
	return d, nil
}
