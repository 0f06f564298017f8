package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/song-downloader/internal/config"
	"github.com/handiism/song-downloader/internal/download"
)

func newTestModel(t *testing.T, factoryErr error) Model {
	t.Helper()
	return NewModel(config.DefaultSettings(), func(*config.Settings, func(download.ProgressEvent)) (*download.Manager, error) {
		return nil, factoryErr
	})
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func TestEnterStartsInitialization(t *testing.T) {
	m := newTestModel(t, errors.New("no ffmpeg"))
	m.textInput.SetValue("come together")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, StateInitializing, m.state)
	require.NotNil(t, cmd)
}

func TestEnterIgnoresBlankInput(t *testing.T) {
	m := newTestModel(t, nil)
	m.textInput.SetValue("   ")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, StateInput, m.state)
}

func TestInitializeReportsFactoryError(t *testing.T) {
	m := newTestModel(t, errors.New("no ffmpeg"))
	m.textInput.SetValue("come together")

	msg := m.initializeDownload()()
	done, ok := msg.(InitDoneMsg)
	require.True(t, ok)
	assert.EqualError(t, done.Err, "no ffmpeg")

	m.state = StateInitializing
	m, _ = update(t, m, done)
	assert.Equal(t, StateError, m.state)
	assert.Contains(t, m.View(), "no ffmpeg")
}

func TestVerboseEventsAreFiltered(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = update(t, m, ProgressMsg{Event: download.ProgressEvent{Message: "Searching: x", Level: download.LevelVerbose}})
	assert.Empty(t, m.logs)

	m, _ = update(t, m, ProgressMsg{Event: download.ProgressEvent{Message: "Playlist: Road Trip", Level: download.LevelInfo}})
	require.Len(t, m.logs, 1)
	assert.Equal(t, "Playlist: Road Trip", m.logs[0].Message)
}

func TestLogsAreCapped(t *testing.T) {
	m := newTestModel(t, nil)
	for range maxLogs + 5 {
		m, _ = update(t, m, ProgressMsg{Event: download.ProgressEvent{Message: "x", Level: download.LevelInfo}})
	}
	assert.Len(t, m.logs, maxLogs)
}

func TestPercent(t *testing.T) {
	m := newTestModel(t, nil)
	assert.Zero(t, m.percent())

	m.tracksTotal = 4
	m.tracksDone = 1
	m.receivedBytes = 50
	m.totalBytes = 100
	assert.InDelta(t, 0.375, m.percent(), 1e-9)

	m.tracksDone = 4
	assert.InDelta(t, 1.0, m.percent(), 1e-9)
}

func TestDownloadDoneShowsSummary(t *testing.T) {
	m := newTestModel(t, nil)
	m.state = StateDownloading

	m, _ = update(t, m, DownloadDoneMsg{Report: &download.Report{Results: []download.TrackResult{
		{Status: download.StatusDownloaded, Path: "a.m4a"},
		{Status: download.StatusFailed},
	}}})
	assert.Equal(t, StateComplete, m.state)
	assert.Contains(t, m.View(), "Downloaded: 1")
	assert.Contains(t, m.View(), "Failed: 1")
}
