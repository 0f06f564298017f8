package youtube

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/kkdai/youtube/v2"

	myhttp "github.com/handiism/song-downloader/internal/http"
	ioutils "github.com/handiism/song-downloader/internal/io"
	"github.com/handiism/song-downloader/internal/logging"
	"github.com/handiism/song-downloader/internal/model"
)

// ErrNoAudioFormat is returned when a video offers no usable audio format.
var ErrNoAudioFormat = errors.New("no audio format available")

// NativeSource fetches audio streams with the pure Go YouTube client.
type NativeSource struct {
	client *youtube.Client
	logger *slog.Logger

	// OnProgress, when set, receives byte counts while a stream downloads.
	OnProgress func(written, total int64)
}

// NewNativeSource creates a NativeSource. httpClient carries timeout and proxy settings.
func NewNativeSource(httpClient *http.Client, logger *slog.Logger) *NativeSource {
	return &NativeSource{
		client: &youtube.Client{HTTPClient: httpClient},
		logger: logging.OrDiscard(logger),
	}
}

// AudioStream looks up the video and selects its best audio-only MP4 format.
//
// Playability failures and unexpected HTTP statuses are reported as
// model.ErrSourceUnavailable so the caller can retry them.
func (s *NativeSource) AudioStream(ctx context.Context, watchURL string) (model.Stream, error) {
	video, err := s.client.GetVideoContext(ctx, watchURL)
	if err != nil {
		return nil, classifyError(err)
	}

	format := bestAudioFormat(video.Formats)
	if format == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoAudioFormat, video.ID)
	}

	s.logger.Debug("selected audio format", "video", video.ID, "itag", format.ItagNo, "mime", format.MimeType, "bitrate", format.Bitrate)
	return &nativeStream{source: s, video: video, format: format}, nil
}

// bestAudioFormat prefers audio-only MP4 (AAC) by bitrate, since AAC can be
// copied into an M4A container without re-encoding.
func bestAudioFormat(formats youtube.FormatList) *youtube.Format {
	var best *youtube.Format
	for i := range formats {
		f := &formats[i]
		if f.AudioChannels == 0 || !strings.HasPrefix(f.MimeType, "audio/mp4") {
			continue
		}
		if best == nil || formatBitrate(f) > formatBitrate(best) {
			best = f
		}
	}
	return best
}

func formatBitrate(f *youtube.Format) int {
	if f.Bitrate > 0 {
		return f.Bitrate
	}
	return f.AverageBitrate
}

// classifyError maps client errors onto the model taxonomy.
func classifyError(err error) error {
	var statusErr *youtube.ErrPlayabiltyStatus
	var codeErr youtube.ErrUnexpectedStatusCode
	var netErr net.Error

	switch {
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, context.DeadlineExceeded) && !errors.As(err, &netErr):
		return err
	case errors.Is(err, youtube.ErrVideoPrivate),
		errors.Is(err, youtube.ErrLoginRequired),
		errors.Is(err, youtube.ErrNotPlayableInEmbed),
		errors.As(err, &statusErr),
		errors.As(err, &codeErr),
		errors.As(err, &netErr):
		return fmt.Errorf("%w: %v", model.ErrSourceUnavailable, err)
	}
	return err
}

type nativeStream struct {
	source *NativeSource
	video  *youtube.Video
	format *youtube.Format
}

// DefaultFilename implements model.Stream.
func (s *nativeStream) DefaultFilename() string {
	return defaultFilename(s.video.Title, s.video.ID)
}

// Download implements model.Stream.
// A partially written file is removed on failure.
func (s *nativeStream) Download(ctx context.Context, dir string) (string, error) {
	if err := ioutils.EnsureDir(dir); err != nil {
		return "", err
	}
	path := filepath.Join(dir, s.DefaultFilename())

	reader, size, err := s.source.client.GetStreamContext(ctx, s.video, s.format)
	if err != nil {
		return "", classifyError(err)
	}
	defer reader.Close()

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}

	pw := &myhttp.ProgressWriter{Writer: file, Total: size, OnUpdate: s.source.OnProgress}
	_, copyErr := copyWithContext(ctx, pw, reader)
	closeErr := file.Close()

	if copyErr != nil || closeErr != nil {
		_ = os.Remove(path)
		if copyErr != nil {
			return "", classifyError(copyErr)
		}
		return "", closeErr
	}

	return path, nil
}

// defaultFilename is the sanitized title with an .mp4 extension,
// falling back to the video id for untitled videos.
func defaultFilename(title, id string) string {
	name := ioutils.SanitizeFileName(title)
	if name == "" {
		name = id
	}
	return name + ".mp4"
}
