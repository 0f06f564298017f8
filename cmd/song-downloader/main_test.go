package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/song-downloader/internal/download"
	"github.com/handiism/song-downloader/internal/model"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestRunWithoutArgumentIsUsageError(t *testing.T) {
	assert.Equal(t, exitError, run([]string{}))
	assert.Equal(t, exitError, run([]string{"a", "b"}))
}

func TestLoadSettingsAppliesChangedFlags(t *testing.T) {
	opts := &options{}
	cmd := newRootCmd(opts)
	dir := t.TempDir()
	require.NoError(t, cmd.ParseFlags([]string{
		"--config", filepath.Join(dir, "missing.yaml"),
		"--output", dir,
		"--format", "mp3",
		"--playlist",
		"--strict",
	}))

	settings, err := loadSettings(cmd, opts)
	require.NoError(t, err)

	assert.Equal(t, dir, settings.OutputDir)
	assert.Equal(t, "mp3", settings.Format)
	assert.True(t, settings.CreatePlaylist)
	assert.Equal(t, "m3u", settings.PlaylistFormat)
	assert.True(t, settings.StrictErrors)
	assert.Equal(t, "native", settings.Backend)
}

func TestLoadSettingsRejectsInvalidFlags(t *testing.T) {
	opts := &options{}
	cmd := newRootCmd(opts)
	require.NoError(t, cmd.ParseFlags([]string{
		"--config", filepath.Join(t.TempDir(), "missing.yaml"),
		"--backend", "vlc",
	}))

	_, err := loadSettings(cmd, opts)
	assert.Error(t, err)
}

func TestPrinterPrefixes(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf, false)

	p.event(download.ProgressEvent{Message: "hello", Level: download.LevelInfo})
	p.event(download.ProgressEvent{Message: "hidden", Level: download.LevelVerbose})
	p.event(download.ProgressEvent{Message: "careful", Level: download.LevelWarning})
	p.error("boom")

	assert.Equal(t, "[info] hello\n[warn] careful\n[error] boom\n", buf.String())
}

func TestPrinterVerbose(t *testing.T) {
	var buf bytes.Buffer
	newPrinter(&buf, true).event(download.ProgressEvent{Message: "shown", Level: download.LevelVerbose})
	assert.Equal(t, "[info] shown\n", buf.String())
}

func TestSummary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Come Together.m4a")
	require.NoError(t, os.WriteFile(path, make([]byte, 2048), 0o644))

	report := &download.Report{Results: []download.TrackResult{
		{Track: model.Track{Title: "Come Together", Artist: "The Beatles"}, Status: download.StatusDownloaded, Path: path},
		{Track: model.Track{Query: "missing"}, Status: download.StatusFailed, Err: errors.New("search returned no results")},
	}}

	var buf bytes.Buffer
	newPrinter(&buf, false).summary(report)

	out := buf.String()
	assert.Contains(t, out, "The Beatles - Come Together")
	assert.Contains(t, out, "Come Together.m4a")
	assert.Contains(t, out, "2.0 kB")
	assert.Contains(t, out, "search returned no results")
	assert.Contains(t, out, "1 ok, 1 failed")
}
