package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/handiism/song-downloader/internal/config"
	"github.com/handiism/song-downloader/internal/download"
	"github.com/handiism/song-downloader/internal/logging"
)

const (
	exitError       = 1
	exitInterrupted = 130
)

var errUsage = errors.New("expected exactly one argument")

// options holds the command line flags.
type options struct {
	configPath string
	output     string
	format     string
	backend    string
	playlist   string
	strict     bool
	verbose    bool
	dryRun     bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(&options{})
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintln(os.Stderr, cmd.UsageString())
		return exitError
	case ctx.Err() != nil:
		newPrinter(os.Stderr, false).error("Download cancelled.")
		return exitInterrupted
	default:
		newPrinter(os.Stderr, false).error(err.Error())
		return exitError
	}
}

func newRootCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "song-downloader <spotify playlist | youtube link | \"song; song\">",
		Short: "Download songs as tagged audio files",
		Long: `Download songs from a Spotify playlist, a YouTube video or playlist,
or a list of song names separated by ";". Every track is fetched from
YouTube, converted with ffmpeg and tagged.

For interactive mode, use: song-tui`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errUsage
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd, opts)
			if err != nil {
				return err
			}
			return runDownload(cmd.Context(), settings, opts, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", config.DefaultPath(), "Path to config file")
	flags.StringVarP(&opts.output, "output", "o", "", "Output directory (overrides config)")
	flags.StringVarP(&opts.format, "format", "f", "", "Output format: m4a or mp3 (overrides config)")
	flags.StringVar(&opts.backend, "backend", "", "Stream backend: native or ytdlp (overrides config)")
	flags.StringVar(&opts.playlist, "playlist", "", "Create a playlist file: m3u, pls, wpl or zpl")
	flags.Lookup("playlist").NoOptDefVal = "m3u"
	flags.BoolVar(&opts.strict, "strict", false, "Abort the run on conversion or tagging errors")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Show verbose output")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "Resolve tracks without downloading")

	return cmd
}

// loadSettings reads the config file and applies the flags that were set.
func loadSettings(cmd *cobra.Command, opts *options) (*config.Settings, error) {
	settings, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	cmd.Flags().Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "output":
			settings.OutputDir = opts.output
		case "format":
			settings.Format = opts.format
		case "backend":
			settings.Backend = opts.backend
		case "playlist":
			settings.CreatePlaylist = true
			settings.PlaylistFormat = opts.playlist
		case "strict":
			settings.StrictErrors = opts.strict
		}
	})
	if opts.verbose {
		settings.LogLevel = "debug"
	}

	return settings, settings.Validate()
}

func runDownload(ctx context.Context, settings *config.Settings, opts *options, input string) error {
	logging.Init(os.Stderr, settings.LogLevel)
	out := newPrinter(os.Stdout, opts.verbose)

	manager, err := download.NewManager(settings, out.event)
	if err != nil {
		return err
	}

	if err := manager.Initialize(ctx, input); err != nil {
		return err
	}

	if opts.dryRun {
		out.info("Dry run, not downloading:")
		for i, name := range manager.GetTrackNames() {
			out.info(fmt.Sprintf("%3d. %s", i+1, name))
		}
		return nil
	}

	report, err := manager.StartDownloads(ctx)
	if report != nil && len(report.Results) > 0 {
		out.summary(report)
	}
	return err
}
