package download

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/handiism/song-downloader/internal/audio"
	ioutils "github.com/handiism/song-downloader/internal/io"
	"github.com/handiism/song-downloader/internal/model"
	"github.com/handiism/song-downloader/internal/retry"
	"github.com/handiism/song-downloader/internal/youtube"
)

// StreamSource opens the audio stream of a watch URL.
type StreamSource interface {
	AudioStream(ctx context.Context, watchURL string) (model.Stream, error)
}

// Converter remuxes or transcodes a downloaded file.
type Converter interface {
	Convert(ctx context.Context, src, dst string, format audio.Format) error
}

// Fetcher downloads small resources such as cover images.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// PipelineConfig configures a Pipeline.
type PipelineConfig struct {
	// OutputDir receives the produced files.
	OutputDir string

	// Format is the target container.
	Format audio.Format

	// MaxAttempts and RetryDelay bound stream acquisition.
	MaxAttempts int
	RetryDelay  time.Duration

	// EmbedCover enables cover art embedding.
	EmbedCover bool

	// Cover controls resizing and conversion of the embedded cover.
	Cover ioutils.CoverOptions
}

// DefaultPipelineConfig returns M4A output into the working directory with
// 5 attempts spaced 5 seconds apart.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		OutputDir:   ".",
		Format:      audio.FormatM4A,
		MaxAttempts: 5,
		RetryDelay:  5 * time.Second,
		EmbedCover:  true,
		Cover:       ioutils.CoverOptions{MaxSize: 1000, ConvertToJPEG: true},
	}
}

// Outcome is the result of processing one track.
type Outcome struct {
	Status Status
	Path   string
}

// Pipeline takes one resolved track to a tagged file on disk.
//
// The states a track goes through are:
//
//	RESOLVED -> STREAM_ACQUIRED -> SKIPPED ---------------------> TAGGED
//	                            -> DOWNLOADED -> CONVERTED -----> TAGGED
//
// A track whose target file already exists is not downloaded again,
// but its tags are still written.
type Pipeline struct {
	cfg        PipelineConfig
	source     StreamSource
	converter  Converter
	tagger     audio.Tagger
	fetcher    Fetcher
	images     *ioutils.ImageService
	sleep      func(ctx context.Context, d time.Duration) error
	onProgress func(ProgressEvent)

	covers map[string][]byte
}

// NewPipeline creates a Pipeline.
func NewPipeline(cfg PipelineConfig, source StreamSource, converter Converter, tagger audio.Tagger, fetcher Fetcher, onProgress func(ProgressEvent)) *Pipeline {
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.Format == "" {
		cfg.Format = audio.FormatM4A
	}
	return &Pipeline{
		cfg:        cfg,
		source:     source,
		converter:  converter,
		tagger:     tagger,
		fetcher:    fetcher,
		images:     ioutils.NewImageService(),
		sleep:      retry.Wait,
		onProgress: onProgress,
		covers:     make(map[string][]byte),
	}
}

// TargetPath returns where a stream with the given default file name ends up.
func (p *Pipeline) TargetPath(defaultFilename string) string {
	return filepath.Join(p.cfg.OutputDir, ioutils.ReplaceExt(defaultFilename, p.cfg.Format.Ext()))
}

// Process runs the pipeline for one track.
//
// Errors:
//   - model.ErrMissingSource when the track has no SourceURL
//   - an error wrapping model.ErrSourceUnavailable when every attempt failed
//   - *model.ConversionError and *model.TaggingError from the later stages
//
// A missing cover image is only reported as a warning.
func (p *Pipeline) Process(ctx context.Context, track model.Track) (Outcome, error) {
	if !track.HasSource() {
		return Outcome{}, model.ErrMissingSource
	}

	stream, err := p.acquire(ctx, track)
	if err != nil {
		return Outcome{}, err
	}

	target := p.TargetPath(stream.DefaultFilename())
	exists, err := ioutils.FileExists(target)
	if err != nil {
		return Outcome{}, err
	}

	status := StatusSkipped
	if exists {
		p.progress(fmt.Sprintf("Skipping existing: %s", filepath.Base(target)), LevelVerbose)
	} else {
		if err := p.fetch(ctx, stream, target); err != nil {
			return Outcome{}, err
		}
		status = StatusDownloaded
	}

	if err := p.tag(ctx, track, target); err != nil {
		return Outcome{}, err
	}

	return Outcome{Status: status, Path: target}, nil
}

// acquire opens the stream, retrying while the source is unavailable.
func (p *Pipeline) acquire(ctx context.Context, track model.Track) (model.Stream, error) {
	policy := retry.Policy{
		MaxAttempts: p.cfg.MaxAttempts,
		Delay:       p.cfg.RetryDelay,
		Retryable:   func(err error) bool { return errors.Is(err, model.ErrSourceUnavailable) },
		Sleep:       p.sleep,
		OnRetry: func(attempt int, err error) {
			p.progress(fmt.Sprintf("Source unavailable for %s (attempt %d/%d), retrying in %s: %v",
				track.Label(), attempt, p.cfg.MaxAttempts, p.cfg.RetryDelay, err), LevelWarning)
		},
	}

	return retry.Do(ctx, policy, func(ctx context.Context) (model.Stream, error) {
		return p.source.AudioStream(ctx, track.SourceURL)
	})
}

// fetch downloads the stream and converts it onto target.
func (p *Pipeline) fetch(ctx context.Context, stream model.Stream, target string) error {
	downloaded, err := stream.Download(ctx, p.cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", stream.DefaultFilename(), err)
	}
	p.progress(fmt.Sprintf("Downloaded: %s", filepath.Base(downloaded)), LevelVerbose)

	if err := p.converter.Convert(ctx, downloaded, target, p.cfg.Format); err != nil {
		return err
	}
	p.progress(fmt.Sprintf("Converted: %s", filepath.Base(target)), LevelVerbose)
	return nil
}

// tag embeds the known metadata into path.
func (p *Pipeline) tag(ctx context.Context, track model.Track, path string) error {
	md := audio.Metadata{
		Title:  track.Title,
		Artist: track.Artist,
		Album:  track.Album,
	}
	if p.cfg.EmbedCover {
		md.Cover = p.cover(ctx, track)
	}

	if err := p.tagger.WriteTags(path, md); err != nil {
		return &model.TaggingError{Path: path, Err: err}
	}
	return nil
}

// cover returns the prepared cover image, or nil when it is unavailable.
// Images are cached per URL since playlist tracks often share an album.
func (p *Pipeline) cover(ctx context.Context, track model.Track) []byte {
	url, err := coverURL(track)
	if err != nil {
		p.progress(fmt.Sprintf("No cover art for %s: %v", track.Label(), err), LevelWarning)
		return nil
	}
	if data, ok := p.covers[url]; ok {
		return data
	}

	data, err := p.fetcher.Get(ctx, url)
	if err != nil {
		p.progress(fmt.Sprintf("%v for %s: %v", model.ErrCoverArtFetch, track.Label(), err), LevelWarning)
		return nil
	}

	prepared, err := p.images.PrepareCover(ctx, data, p.cfg.Cover)
	if err != nil {
		p.progress(fmt.Sprintf("Could not process cover art for %s, embedding original: %v", track.Label(), err), LevelWarning)
		prepared = data
	}

	p.covers[url] = prepared
	return prepared
}

// coverURL is the explicit cover when known, otherwise the video thumbnail.
func coverURL(track model.Track) (string, error) {
	if track.HasCoverArt() {
		return track.CoverArtURL, nil
	}
	id, err := youtube.VideoID(track.SourceURL)
	if err != nil {
		return "", err
	}
	return youtube.ThumbnailURL(id), nil
}

func (p *Pipeline) progress(message string, level ProgressLevel) {
	if p.onProgress != nil {
		p.onProgress(ProgressEvent{Message: message, Level: level})
	}
}
