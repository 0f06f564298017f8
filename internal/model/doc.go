// Package model defines the core data structures shared by the
// song-downloader packages.
//
// # Track
//
// Track describes one song at any stage of resolution:
//
//	track := model.Track{Title: "Song", Artist: "Artist", Album: "Album"}
//	fmt.Println(track.SearchKey()) // "Artist - Song"
//
// Stages that learn more about a track return a new value:
//
//	resolved := track.WithSourceURL("https://www.youtube.com/watch?v=XYZ123")
//
// # Stream
//
// Stream is the audio-only stream of a remote video. Sources return it
// before downloading so the pipeline can check for an existing file.
//
// # Errors
//
// The error taxonomy shared by all stages lives here so that every stage
// can classify failures with errors.Is without importing the others:
//
//	if errors.Is(err, model.ErrSourceUnavailable) {
//	    // retried, then the track is reported as failed
//	}
package model
