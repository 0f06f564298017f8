package audio

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/alessio/shellescape"
	"github.com/google/uuid"

	"github.com/handiism/song-downloader/internal/logging"
	"github.com/handiism/song-downloader/internal/model"
)

// Format is a target audio container.
type Format string

const (
	// FormatM4A remuxes the AAC stream without re-encoding.
	FormatM4A Format = "m4a"

	// FormatMP3 re-encodes with LAME.
	FormatMP3 Format = "mp3"
)

// ParseFormat validates a container name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(name, "."))); f {
	case FormatM4A, FormatMP3:
		return f, nil
	}
	return "", fmt.Errorf("unsupported audio format %q (use m4a or mp3)", name)
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// Runner executes a command and returns its stderr.
type Runner func(ctx context.Context, name string, args ...string) (stderr []byte, err error)

// execRunner runs the command with exec.CommandContext.
func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.Bytes(), err
}

// Transcoder converts downloaded streams with ffmpeg.
type Transcoder struct {
	binary string
	logger *slog.Logger
	run    Runner
}

// NewTranscoder creates a Transcoder. An empty binary means FindFFmpeg().
func NewTranscoder(binary string, logger *slog.Logger) *Transcoder {
	if binary == "" {
		binary = FindFFmpeg()
	}
	return &Transcoder{
		binary: binary,
		logger: logging.OrDiscard(logger),
		run:    execRunner,
	}
}

// WithRunner replaces the command runner. Used by tests.
func (t *Transcoder) WithRunner(run Runner) *Transcoder {
	t.run = run
	return t
}

// FindFFmpeg returns ffmpeg from PATH, or plain "ffmpeg" when it is not found.
func FindFFmpeg() string {
	if path, err := exec.LookPath("ffmpeg"); err == nil {
		return path
	}
	return "ffmpeg"
}

// Convert writes src into dst in the given format.
//
// The output is first written to a temporary sibling of dst and then
// renamed, so dst never holds a half written file. On success src is
// removed. On failure src is left in place and a *model.ConversionError
// is returned.
func (t *Transcoder) Convert(ctx context.Context, src, dst string, format Format) error {
	tmp := filepath.Join(filepath.Dir(dst), "."+uuid.NewString()+format.Ext())
	args := buildArgs(src, tmp, format)

	t.logger.Debug("running ffmpeg", "cmd", shellescape.QuoteCommand(append([]string{t.binary}, args...)))

	stderr, err := t.run(ctx, t.binary, args...)
	if err != nil {
		_ = os.Remove(tmp)
		if msg := strings.TrimSpace(string(stderr)); msg != "" {
			err = fmt.Errorf("%w: %s", err, lastLine(msg))
		}
		return &model.ConversionError{Path: src, Err: err}
	}

	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return &model.ConversionError{Path: src, Err: err}
	}

	if err := os.Remove(src); err != nil {
		t.logger.Warn("failed to remove original download", "path", src, "error", err)
	}
	return nil
}

// buildArgs returns the ffmpeg arguments converting src to dst.
func buildArgs(src, dst string, format Format) []string {
	args := []string{"-y", "-hide_banner", "-loglevel", "error", "-i", src, "-vn"}
	switch format {
	case FormatMP3:
		args = append(args, "-c:a", "libmp3lame", "-q:a", "2")
	default:
		args = append(args, "-c:a", "copy")
	}
	return append(args, dst)
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
