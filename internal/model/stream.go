package model

import "context"

// Stream is an audio-only stream of a remote video.
//
// A Stream is obtained from a source before anything is written to disk,
// so that callers can compute the local file name and skip tracks that
// were already downloaded.
type Stream interface {
	// DefaultFilename is the file name Download would write, e.g. "Song Title.mp4".
	DefaultFilename() string

	// Download writes the stream into dir and returns the written file path.
	Download(ctx context.Context, dir string) (string, error)
}
