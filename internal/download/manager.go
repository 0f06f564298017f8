package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/handiism/song-downloader/internal/audio"
	"github.com/handiism/song-downloader/internal/config"
	"github.com/handiism/song-downloader/internal/http"
	"github.com/handiism/song-downloader/internal/input"
	ioutils "github.com/handiism/song-downloader/internal/io"
	"github.com/handiism/song-downloader/internal/model"
	"github.com/handiism/song-downloader/internal/spotify"
	"github.com/handiism/song-downloader/internal/youtube"
)

// PlaylistSource lists the tracks of a curated playlist.
type PlaylistSource interface {
	FetchTracks(ctx context.Context, playlistURL string) ([]model.Track, error)
	PlaylistName(ctx context.Context, playlistURL string) (string, error)
}

// VideoPlaylistSource lists the videos of a video playlist.
type VideoPlaylistSource interface {
	VideoURLs(ctx context.Context, playlistURL string) ([]string, error)
}

// SourceResolver finds the top video for a search phrase.
type SourceResolver interface {
	Resolve(ctx context.Context, phrase string) (youtube.SearchResult, error)
}

// Deps are the collaborators of a Manager.
type Deps struct {
	Playlists      PlaylistSource
	VideoPlaylists VideoPlaylistSource
	Resolver       SourceResolver
	Source         StreamSource
	Converter      Converter
	Tagger         audio.Tagger
	Fetcher        Fetcher

	// Playlist writes a playlist file after the run. Nil disables it.
	Playlist *audio.PlaylistCreator
}

// Options configure a Manager.
type Options struct {
	Pipeline PipelineConfig

	// Strict isolates only unavailable sources and empty searches.
	// Any other per-track error aborts the run.
	Strict bool
}

// item is one entry of the resolved list. err is set when the track
// could not be resolved and is reported as failed without downloading.
type item struct {
	track model.Track
	err   error

	// match is the search result the track resolved to, zero for links.
	match youtube.SearchResult
}

// source names the video a track will be fetched from.
func (it item) source() string {
	if it.match.ID == "" {
		return it.track.SourceURL
	}
	return fmt.Sprintf("%s, %s", it.track.SourceURL, it.match)
}

// Manager coordinates song downloads.
type Manager struct {
	opts     Options
	deps     Deps
	pipeline *Pipeline

	items []item
	title string

	receivedBytes   int64
	totalBytes      int64
	totalTracks     int32
	processedTracks int32

	onProgress func(ProgressEvent)
}

// NewPipelineConfig converts settings into a PipelineConfig.
func NewPipelineConfig(settings *config.Settings) (PipelineConfig, error) {
	format, err := settings.AudioFormat()
	if err != nil {
		return PipelineConfig{}, err
	}
	delay, err := settings.RetryDelay()
	if err != nil {
		return PipelineConfig{}, err
	}
	return PipelineConfig{
		OutputDir:   settings.OutputDir,
		Format:      format,
		MaxAttempts: settings.DownloadMaxRetries,
		RetryDelay:  delay,
		EmbedCover:  settings.SaveCoverArtInTags,
		Cover:       settings.ToCoverOptions(),
	}, nil
}

// NewManager creates a Manager wired to the real services.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent)) (*Manager, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	pipelineCfg, err := NewPipelineConfig(settings)
	if err != nil {
		return nil, err
	}
	httpCfg, err := settings.ToHTTPConfig()
	if err != nil {
		return nil, err
	}
	client, err := http.NewClient(httpCfg)
	if err != nil {
		return nil, err
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to locate home directory: %w", err)
	}

	logger := slog.Default()
	var m *Manager
	trackBytes := func(written, total int64) {
		m.setBytes(written, total)
	}

	session := spotify.NewSession(settings.ToSpotifyConfig(home), client.HTTPClient(), logger)
	session.Authenticator().OnPrompt = func(url string) {
		m.progress(fmt.Sprintf("Authorize Spotify access in your browser: %s", url), LevelInfo)
	}

	deps := Deps{
		Playlists: session,
		Resolver:  youtube.NewResolver(youtube.NewSearcher(client), logger),
		Converter: audio.NewTranscoder(settings.FFmpegPath, logger),
		Tagger:    audio.NewTagger(pipelineCfg.Format, settings.ToTagConfig()),
		Fetcher:   client,
		Playlist:  settings.ToPlaylistCreator(),
	}

	switch settings.Backend {
	case config.BackendYtdlp:
		src := youtube.NewYtdlpSource(settings.YtdlpPath, logger)
		src.OnProgress = trackBytes
		deps.Source = src
		deps.VideoPlaylists = src
	default:
		src := youtube.NewNativeSource(client.HTTPClient(), logger)
		src.OnProgress = trackBytes
		deps.Source = src
		deps.VideoPlaylists = youtube.NewNativePlaylists(client.HTTPClient())
	}

	m = NewManagerWithDeps(Options{Pipeline: pipelineCfg, Strict: settings.StrictErrors}, deps, onProgress)
	return m, nil
}

// NewManagerWithDeps creates a Manager from explicit collaborators.
func NewManagerWithDeps(opts Options, deps Deps, onProgress func(ProgressEvent)) *Manager {
	m := &Manager{
		opts:       opts,
		deps:       deps,
		onProgress: onProgress,
	}
	m.pipeline = NewPipeline(opts.Pipeline, deps.Source, deps.Converter, deps.Tagger, deps.Fetcher, m.emit)
	return m
}

// Initialize classifies the input and resolves it into the list of tracks to download.
//
// A run-level *model.EmptyResultError is returned when nothing is left to download.
func (m *Manager) Initialize(ctx context.Context, raw string) error {
	m.items = nil
	m.title = ""
	atomic.StoreInt32(&m.processedTracks, 0)

	kind := input.Classify(raw)
	m.progress(fmt.Sprintf("Input recognized as %s", kind), LevelVerbose)

	var (
		tracks []model.Track
		err    error
	)
	switch k := kind.(type) {
	case input.CuratedPlaylist:
		tracks, err = m.curatedTracks(ctx, k.URL)
	case input.VideoPlaylist:
		tracks, err = m.videoPlaylistTracks(ctx, k.URL)
	case input.SingleVideo:
		tracks = []model.Track{{SourceURL: k.URL}}
	case input.SearchPhrases:
		tracks = lo.Map(k.Phrases, func(phrase string, _ int) model.Track {
			return model.Track{Query: phrase}
		})
	}
	if err != nil {
		return err
	}

	_, curated := kind.(input.CuratedPlaylist)
	if len(tracks) == 0 {
		return &model.EmptyResultError{Input: raw, MaybePrivate: curated}
	}

	items, err := m.resolve(ctx, tracks)
	if err != nil {
		return err
	}
	m.items = items

	if curated {
		m.listLinks()
	}

	atomic.StoreInt32(&m.totalTracks, int32(len(m.items)))
	m.progress(fmt.Sprintf("Found %d track(s) to download", len(m.items)), LevelInfo)
	return nil
}

func (m *Manager) curatedTracks(ctx context.Context, playlistURL string) ([]model.Track, error) {
	if m.deps.Playlists == nil {
		return nil, errors.New("spotify playlists are not supported by this manager")
	}
	m.progress("Input looks like a Spotify link, treating it as a playlist", LevelWarning)

	name, err := m.deps.Playlists.PlaylistName(ctx, playlistURL)
	if err != nil {
		if !errors.Is(err, spotify.ErrAccessDenied) {
			return nil, err
		}
		m.progress(fmt.Sprintf("Could not fetch playlist name: %v", err), LevelWarning)
	} else if name != "" {
		m.title = name
		m.progress(fmt.Sprintf("Playlist: %s", name), LevelInfo)
	}

	tracks, err := m.deps.Playlists.FetchTracks(ctx, playlistURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlist: %w", err)
	}
	return tracks, nil
}

func (m *Manager) videoPlaylistTracks(ctx context.Context, playlistURL string) ([]model.Track, error) {
	if m.deps.VideoPlaylists == nil {
		return nil, errors.New("video playlists are not supported by this manager")
	}
	urls, err := m.deps.VideoPlaylists.VideoURLs(ctx, playlistURL)
	if err != nil {
		return nil, fmt.Errorf("failed to list video playlist: %w", err)
	}
	return lo.Map(urls, func(u string, _ int) model.Track {
		return model.Track{SourceURL: u}
	}), nil
}

// resolve fills in the source of every track that lacks one.
func (m *Manager) resolve(ctx context.Context, tracks []model.Track) ([]item, error) {
	items := make([]item, 0, len(tracks))
	for _, track := range tracks {
		if track.HasSource() {
			items = append(items, item{track: track})
			continue
		}

		key := track.SearchKey()
		m.progress(fmt.Sprintf("Searching: %s", key), LevelVerbose)
		match, err := m.deps.Resolver.Resolve(ctx, key)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if m.opts.Strict {
				return nil, fmt.Errorf("failed to resolve %q: %w", key, err)
			}
			m.progress(fmt.Sprintf("Could not find %s: %v", key, err), LevelError)
			items = append(items, item{track: track, err: err})
			continue
		}
		items = append(items, item{track: track.WithSourceURL(match.URL()), match: match})
	}
	return items, nil
}

func (m *Manager) listLinks() {
	m.progress("Found the following youtube links:", LevelInfo)
	for _, it := range m.items {
		if it.err != nil {
			continue
		}
		m.progress(fmt.Sprintf("  %s: %s", it.track.Label(), it.source()), LevelInfo)
	}
}

// StartDownloads runs the pipeline for every resolved track, in order.
//
// The returned report holds every track processed so far, also when an
// error aborted the run.
func (m *Manager) StartDownloads(ctx context.Context) (*Report, error) {
	report := &Report{RunID: uuid.NewString()}
	total := len(m.items)
	m.progress(fmt.Sprintf("Run %s: downloading %d track(s) to %s", report.RunID, total, m.opts.Pipeline.OutputDir), LevelVerbose)
	slog.Info("download run started", "run", report.RunID, "tracks", total, "output", m.opts.Pipeline.OutputDir)

	for i, it := range m.items {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if it.err != nil {
			report.add(TrackResult{Track: it.track, Status: StatusFailed, Err: it.err})
			atomic.AddInt32(&m.processedTracks, 1)
			continue
		}

		m.progress(fmt.Sprintf("[%d/%d] %s", i+1, total, it.track.Label()), LevelInfo)
		m.setBytes(0, 0)

		outcome, err := m.pipeline.Process(ctx, it.track)
		atomic.AddInt32(&m.processedTracks, 1)
		if err != nil {
			report.add(TrackResult{Track: it.track, Status: StatusFailed, Err: err})
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			if !m.isolated(err) {
				return report, fmt.Errorf("%s: %w", it.track.Label(), err)
			}
			m.progress(fmt.Sprintf("Error downloading %s: %v", it.track.Label(), err), LevelError)
			continue
		}

		report.add(TrackResult{Track: it.track, Status: outcome.Status, Path: outcome.Path})
		if outcome.Status == StatusDownloaded {
			m.progress(fmt.Sprintf("Downloaded: %s", filepath.Base(outcome.Path)), LevelSuccess)
		}
	}

	m.writePlaylist(report)

	failed := len(report.Failed())
	if failed > 0 {
		m.progress(fmt.Sprintf("Finished, %d of %d track(s) failed", failed, total), LevelWarning)
	} else {
		m.progress(fmt.Sprintf("Successfully downloaded %d track(s)", total), LevelSuccess)
	}
	m.progress(fmt.Sprintf("Run %s finished", report.RunID), LevelVerbose)
	slog.Info("download run finished", "run", report.RunID, "tracks", total, "failed", failed)
	return report, nil
}

// isolated reports whether a per-track error lets the run continue.
func (m *Manager) isolated(err error) bool {
	if !m.opts.Strict {
		return true
	}
	return errors.Is(err, model.ErrSourceUnavailable) || errors.Is(err, model.ErrNoResults)
}

func (m *Manager) writePlaylist(report *Report) {
	if m.deps.Playlist == nil {
		return
	}

	entries := lo.FilterMap(report.Results, func(res TrackResult, _ int) (audio.PlaylistEntry, bool) {
		return audio.PlaylistEntry{Path: res.Path, Title: res.Track.Title, Artist: res.Track.Artist},
			res.Status != StatusFailed && res.Path != ""
	})
	if len(entries) == 0 {
		return
	}

	content, err := m.deps.Playlist.CreatePlaylist(m.PlaylistTitle(), entries)
	if err != nil {
		m.progress(fmt.Sprintf("Error creating playlist: %v", err), LevelWarning)
		return
	}

	path := filepath.Join(m.opts.Pipeline.OutputDir, ioutils.SanitizeFileName(m.PlaylistTitle())+m.deps.Playlist.Format().Ext())
	if err := ioutils.WriteFile(path, []byte(content)); err != nil {
		m.progress(fmt.Sprintf("Error creating playlist: %v", err), LevelWarning)
		return
	}
	m.progress(fmt.Sprintf("Created playlist %s", filepath.Base(path)), LevelSuccess)
}

// PlaylistTitle is the curated playlist name, or "songs" for other inputs.
func (m *Manager) PlaylistTitle() string {
	if m.title != "" {
		return m.title
	}
	return "songs"
}

// Tracks returns the resolved tracks, in download order.
func (m *Manager) Tracks() []model.Track {
	return lo.Map(m.items, func(it item, _ int) model.Track { return it.track })
}

// GetTrackNames returns a display name per resolved track.
func (m *Manager) GetTrackNames() []string {
	return lo.Map(m.items, func(it item, _ int) string {
		if it.err != nil {
			return fmt.Sprintf("%s (not found)", it.track.Label())
		}
		if it.track.SearchKey() == "" {
			return it.track.SourceURL
		}
		return fmt.Sprintf("%s (%s)", it.track.Label(), it.source())
	})
}

// GetProgress returns the byte progress of the current track and the
// number of processed tracks.
func (m *Manager) GetProgress() (received, total int64, tracksDone, tracksTotal int32) {
	return atomic.LoadInt64(&m.receivedBytes), atomic.LoadInt64(&m.totalBytes),
		atomic.LoadInt32(&m.processedTracks), atomic.LoadInt32(&m.totalTracks)
}

func (m *Manager) setBytes(written, total int64) {
	atomic.StoreInt64(&m.receivedBytes, written)
	atomic.StoreInt64(&m.totalBytes, total)
}

func (m *Manager) emit(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}

func (m *Manager) progress(message string, level ProgressLevel) {
	m.emit(ProgressEvent{Message: message, Level: level})
}
