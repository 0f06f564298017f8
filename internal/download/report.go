package download

import (
	"github.com/samber/lo"

	"github.com/handiism/song-downloader/internal/model"
)

// Status is the final state of one track.
type Status int

const (
	// StatusDownloaded means the track was fetched, converted and tagged.
	StatusDownloaded Status = iota

	// StatusSkipped means the target file already existed; tags were refreshed.
	StatusSkipped

	// StatusFailed means the track could not be produced.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusDownloaded:
		return "downloaded"
	case StatusSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// TrackResult is the outcome of one track.
type TrackResult struct {
	Track  model.Track
	Status Status

	// Path is the produced file, empty when the track failed.
	Path string

	// Err is set when Status is StatusFailed.
	Err error
}

// Report lists the outcome of every track of a run, in input order.
type Report struct {
	// RunID identifies the run in logs.
	RunID   string
	Results []TrackResult
}

func (r *Report) add(result TrackResult) {
	r.Results = append(r.Results, result)
}

func (r *Report) byStatus(status Status) []TrackResult {
	return lo.Filter(r.Results, func(res TrackResult, _ int) bool {
		return res.Status == status
	})
}

// Succeeded returns the tracks that were downloaded in this run.
func (r *Report) Succeeded() []TrackResult { return r.byStatus(StatusDownloaded) }

// Skipped returns the tracks whose file already existed.
func (r *Report) Skipped() []TrackResult { return r.byStatus(StatusSkipped) }

// Failed returns the tracks that could not be produced.
func (r *Report) Failed() []TrackResult { return r.byStatus(StatusFailed) }

// Paths returns the files present after the run (downloaded or skipped), in order.
func (r *Report) Paths() []string {
	return lo.FilterMap(r.Results, func(res TrackResult, _ int) (string, bool) {
		return res.Path, res.Status != StatusFailed && res.Path != ""
	})
}
