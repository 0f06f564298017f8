package main

import (
	"fmt"
	"io"
	"os"

	"github.com/handiism/song-downloader/internal/config"
	"github.com/handiism/song-downloader/internal/logging"
	"github.com/handiism/song-downloader/internal/tui"
)

func main() {
	settings, err := config.Load(config.DefaultPath())
	if err == nil {
		err = settings.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// The alternate screen owns the terminal, so diagnostics are dropped.
	logging.Init(io.Discard, settings.LogLevel)

	if err := tui.Run(settings); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
