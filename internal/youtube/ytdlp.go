package youtube

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/wader/goutubedl"

	myhttp "github.com/handiism/song-downloader/internal/http"
	ioutils "github.com/handiism/song-downloader/internal/io"
	"github.com/handiism/song-downloader/internal/logging"
	"github.com/handiism/song-downloader/internal/model"
)

// ytdlpAudioFilter selects AAC audio so the result can be copied into M4A.
const ytdlpAudioFilter = "bestaudio[ext=m4a]/bestaudio[acodec^=mp4a]"

// YtdlpSource fetches audio streams by driving the yt-dlp binary.
// It is an alternative to NativeSource for videos the Go client cannot play.
type YtdlpSource struct {
	logger *slog.Logger

	// OnProgress, when set, receives byte counts while a stream downloads.
	OnProgress func(written, total int64)
}

// NewYtdlpSource creates a YtdlpSource. binary overrides the yt-dlp path when not empty.
func NewYtdlpSource(binary string, logger *slog.Logger) *YtdlpSource {
	if binary != "" {
		goutubedl.Path = binary
	}
	return &YtdlpSource{logger: logging.OrDiscard(logger)}
}

// AudioStream implements the stream source used by the download pipeline.
func (s *YtdlpSource) AudioStream(ctx context.Context, watchURL string) (model.Stream, error) {
	result, err := goutubedl.New(ctx, watchURL, goutubedl.Options{Type: goutubedl.TypeSingle})
	if err != nil {
		return nil, classifyYtdlpError(err)
	}

	s.logger.Debug("yt-dlp resolved video", "id", result.Info.ID, "title", result.Info.Title)
	return &ytdlpStream{source: s, result: result}, nil
}

// VideoURLs lists a playlist through yt-dlp.
func (s *YtdlpSource) VideoURLs(ctx context.Context, playlistURL string) ([]string, error) {
	result, err := goutubedl.New(ctx, playlistURL, goutubedl.Options{Type: goutubedl.TypePlaylist})
	if err != nil {
		return nil, fmt.Errorf("failed to list playlist: %w", classifyYtdlpError(err))
	}

	urls := make([]string, 0, len(result.Info.Entries))
	for _, entry := range result.Info.Entries {
		if entry.ID == "" {
			continue
		}
		urls = append(urls, WatchURL(entry.ID))
	}
	return urls, nil
}

// classifyYtdlpError treats yt-dlp "unavailable" style failures as retryable.
func classifyYtdlpError(err error) error {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"unavailable", "private video", "http error", "timed out", "sign in"} {
		if strings.Contains(msg, marker) {
			return fmt.Errorf("%w: %v", model.ErrSourceUnavailable, err)
		}
	}
	return err
}

type ytdlpStream struct {
	source *YtdlpSource
	result goutubedl.Result
}

// DefaultFilename implements model.Stream.
func (s *ytdlpStream) DefaultFilename() string {
	return defaultFilename(s.result.Info.Title, s.result.Info.ID)
}

// Download implements model.Stream.
func (s *ytdlpStream) Download(ctx context.Context, dir string) (string, error) {
	if err := ioutils.EnsureDir(dir); err != nil {
		return "", err
	}
	path := filepath.Join(dir, s.DefaultFilename())

	reader, err := s.result.Download(ctx, ytdlpAudioFilter)
	if err != nil {
		return "", classifyYtdlpError(err)
	}
	defer reader.Close()

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}

	pw := &myhttp.ProgressWriter{Writer: file, OnUpdate: s.source.OnProgress}
	_, copyErr := copyWithContext(ctx, pw, reader)
	closeErr := file.Close()

	if copyErr != nil || closeErr != nil {
		_ = os.Remove(path)
		if copyErr != nil {
			return "", classifyYtdlpError(copyErr)
		}
		return "", closeErr
	}

	return path, nil
}
