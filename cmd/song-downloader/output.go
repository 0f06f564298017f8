package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/handiism/song-downloader/internal/download"
	ioutils "github.com/handiism/song-downloader/internal/io"
)

// printer writes progress lines with colored level prefixes.
type printer struct {
	w       io.Writer
	verbose bool

	infoPrefix    string
	warnPrefix    string
	errorPrefix   string
	successPrefix string
	verbosePrefix string
}

func newPrinter(w io.Writer, verbose bool) *printer {
	return &printer{
		w:             w,
		verbose:       verbose,
		infoPrefix:    color.New(color.FgCyan).Sprint("[info]"),
		warnPrefix:    color.New(color.FgYellow).Sprint("[warn]"),
		errorPrefix:   color.New(color.FgRed, color.Bold).Sprint("[error]"),
		successPrefix: color.New(color.FgGreen).Sprint("[info]"),
		verbosePrefix: color.New(color.Faint).Sprint("[info]"),
	}
}

func (p *printer) event(e download.ProgressEvent) {
	var prefix string
	switch e.Level {
	case download.LevelVerbose:
		if !p.verbose {
			return
		}
		prefix = p.verbosePrefix
	case download.LevelWarning:
		prefix = p.warnPrefix
	case download.LevelError:
		prefix = p.errorPrefix
	case download.LevelSuccess:
		prefix = p.successPrefix
	default:
		prefix = p.infoPrefix
	}
	fmt.Fprintf(p.w, "%s %s\n", prefix, e.Message)
}

func (p *printer) info(message string) {
	p.event(download.ProgressEvent{Message: message, Level: download.LevelInfo})
}

func (p *printer) error(message string) {
	p.event(download.ProgressEvent{Message: message, Level: download.LevelError})
}

// summary renders one row per track followed by the totals.
func (p *printer) summary(report *download.Report) {
	fmt.Fprintln(p.w)

	table := tablewriter.NewWriter(p.w)
	table.SetHeader([]string{"#", "Track", "Status", "Size", "File"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)

	var total uint64
	for i, res := range report.Results {
		size, file := "", ""
		if res.Path != "" {
			bytes := uint64(max(ioutils.FileSize(res.Path), 0))
			total += bytes
			size = humanize.Bytes(bytes)
			file = filepath.Base(res.Path)
		}
		if res.Err != nil {
			file = res.Err.Error()
		}
		table.Append([]string{strconv.Itoa(i + 1), res.Track.Label(), res.Status.String(), size, file})
	}

	table.SetFooter([]string{"", "", fmt.Sprintf("%d ok, %d failed", len(report.Succeeded())+len(report.Skipped()), len(report.Failed())), humanize.Bytes(total), ""})
	table.Render()
}
