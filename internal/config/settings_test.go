package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/song-downloader/internal/audio"
	"github.com/handiism/song-downloader/internal/http"
	ioutils "github.com/handiism/song-downloader/internal/io"
	"github.com/handiism/song-downloader/internal/spotify"
)

func TestDefaultSettingsAreValid(t *testing.T) {
	s := DefaultSettings()
	require.NoError(t, s.Validate())

	delay, err := s.RetryDelay()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, delay)
	assert.Equal(t, 5, s.DownloadMaxRetries)

	format, err := s.AudioFormat()
	require.NoError(t, err)
	assert.Equal(t, audio.FormatM4A, format)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestLoadKeepsDefaultsForUnsetFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "output_dir: /music\nformat: mp3\ndownload_retry_delay: 1m30s\nstrict_errors: true\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/music", s.OutputDir)
	assert.Equal(t, "mp3", s.Format)
	assert.True(t, s.StrictErrors)
	assert.Equal(t, BackendNative, s.Backend)
	assert.Equal(t, 5, s.DownloadMaxRetries)

	delay, err := s.RetryDelay()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, delay)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: [m4a"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	s := DefaultSettings()
	s.Backend = BackendYtdlp
	s.PlaylistFormat = "pls"
	s.ProxyType = "manual"
	s.ProxyAddress = "socks5://127.0.0.1"
	s.ProxyPort = 1080
	require.NoError(t, s.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
	}{
		{"format", func(s *Settings) { s.Format = "flac" }},
		{"backend", func(s *Settings) { s.Backend = "vlc" }},
		{"retries", func(s *Settings) { s.DownloadMaxRetries = 0 }},
		{"delay", func(s *Settings) { s.DownloadRetryDelay = "soon" }},
		{"negative delay", func(s *Settings) { s.DownloadRetryDelay = "-1s" }},
		{"timeout", func(s *Settings) { s.HTTPTimeout = "forever" }},
		{"proxy", func(s *Settings) { s.ProxyType = "tor" }},
		{"playlist", func(s *Settings) { s.PlaylistFormat = "xspf" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(s)
			assert.Error(t, s.Validate())
		})
	}
}

func TestToHTTPConfig(t *testing.T) {
	s := DefaultSettings()
	s.HTTPTimeout = "2m"
	s.ProxyType = "manual"
	s.ProxyAddress = "proxy.local"
	s.ProxyPort = 3128

	cfg, err := s.ToHTTPConfig()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
	assert.Equal(t, http.ProxyManual, cfg.Proxy)
	assert.Equal(t, "http://proxy.local:3128", cfg.ProxyURL)

	s.ProxyType = "none"
	cfg, err = s.ToHTTPConfig()
	require.NoError(t, err)
	assert.Equal(t, http.ProxyNone, cfg.Proxy)
}

func TestToTagConfig(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, audio.DefaultTagConfig(), s.ToTagConfig())

	s.ModifyTags = false
	s.SaveCoverArtInTags = false
	cfg := s.ToTagConfig()
	assert.Equal(t, audio.TagDoNotModify, cfg.Title)
	assert.Equal(t, audio.TagDoNotModify, cfg.Artist)
	assert.Equal(t, audio.TagDoNotModify, cfg.Album)
	assert.Equal(t, audio.TagDoNotModify, cfg.Cover)
}

func TestToCoverOptions(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, ioutils.CoverOptions{MaxSize: 1000, ConvertToJPEG: true}, s.ToCoverOptions())

	s.CoverArtInTagsResize = false
	s.ConvertCoverArtToJPG = false
	assert.Equal(t, ioutils.CoverOptions{}, s.ToCoverOptions())
}

func TestToPlaylistCreator(t *testing.T) {
	s := DefaultSettings()
	assert.Nil(t, s.ToPlaylistCreator())

	s.CreatePlaylist = true
	s.PlaylistFormat = "zpl"
	creator := s.ToPlaylistCreator()
	require.NotNil(t, creator)
	assert.Equal(t, audio.FormatZPL, creator.Format())
}

func TestToSpotifyConfig(t *testing.T) {
	s := DefaultSettings()
	cfg := s.ToSpotifyConfig("/home/me")
	assert.Equal(t, spotify.DefaultClientID, cfg.ClientID)
	assert.Equal(t, spotify.DefaultCachePath("/home/me"), cfg.CachePath)

	s.SpotifyClientID = "mine"
	s.SpotifyTokenCache = "/tmp/token"
	cfg = s.ToSpotifyConfig("/home/me")
	assert.Equal(t, "mine", cfg.ClientID)
	assert.Equal(t, "/tmp/token", cfg.CachePath)
}

func TestDefaultPath(t *testing.T) {
	assert.True(t, strings.HasSuffix(DefaultPath(), filepath.Join("song-downloader", "config.yaml")))
}
