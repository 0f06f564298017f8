// Package download provides the orchestration logic for turning user
// input into tagged audio files.
//
// # Manager
//
// The Manager coordinates the entire process:
//
//  1. Classify the input (Spotify playlist, YouTube video or playlist, search phrases)
//  2. Fetch playlist tracks when needed
//  3. Search YouTube for tracks without a source
//  4. Run the Pipeline for every track, in order
//  5. Generate a playlist file (optional)
//
// # Basic Usage
//
//	manager, err := download.NewManager(settings, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = manager.Initialize(ctx, "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	report, err := manager.StartDownloads(ctx)
//
// # Pipeline
//
// Every track goes through stream acquisition, download, ffmpeg
// conversion and tagging. A track whose output file already exists is
// not downloaded again, but its tags are still written.
//
// # Error Isolation
//
// By default a failing track is recorded in the Report and the run
// continues. With Options.Strict only unavailable sources and empty
// searches are isolated; conversion and tagging errors abort the run.
// A cancelled context always aborts.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// # Retry Logic
//
// Opening a stream is retried while the source reports itself
// unavailable, configurable via settings.DownloadMaxRetries and
// settings.DownloadRetryDelay.
package download
