package audio

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

func init() {
	// PLS readers expect plain key=value lines.
	ini.PrettyFormat = false
}

// PlaylistFormat represents supported playlist file formats.
//
// Each format has different features and compatibility:
//   - M3U: Simple text format, widely supported
//   - PLS: INI-style format, used by Winamp
//   - WPL: XML format, Windows Media Player
//   - ZPL: XML format, Zune/Groove Music
type PlaylistFormat int

const (
	// FormatM3U creates .m3u files (most compatible).
	FormatM3U PlaylistFormat = iota

	// FormatPLS creates .pls files (Winamp/SHOUTcast format).
	FormatPLS

	// FormatWPL creates .wpl files (Windows Media Player).
	FormatWPL

	// FormatZPL creates .zpl files (Zune/Groove Music).
	FormatZPL
)

// ParsePlaylistFormat maps a name such as "m3u" to a PlaylistFormat.
func ParsePlaylistFormat(name string) (PlaylistFormat, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "m3u", "m3u8":
		return FormatM3U, nil
	case "pls":
		return FormatPLS, nil
	case "wpl":
		return FormatWPL, nil
	case "zpl":
		return FormatZPL, nil
	}
	return FormatM3U, fmt.Errorf("unknown playlist format %q (use m3u, pls, wpl or zpl)", name)
}

// Ext returns the file extension of the format, including the dot.
func (f PlaylistFormat) Ext() string {
	switch f {
	case FormatPLS:
		return ".pls"
	case FormatWPL:
		return ".wpl"
	case FormatZPL:
		return ".zpl"
	default:
		return ".m3u"
	}
}

// PlaylistEntry is one produced file.
type PlaylistEntry struct {
	// Path is the file path; only its base name is written.
	Path   string
	Title  string
	Artist string
}

// display returns "Artist - Title", the title alone, or the file stem.
func (e PlaylistEntry) display() string {
	switch {
	case e.Artist != "" && e.Title != "":
		return e.Artist + " - " + e.Title
	case e.Title != "":
		return e.Title
	default:
		base := filepath.Base(e.Path)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
}

// PlaylistCreator generates playlist files in various formats.
//
// Example:
//
//	creator := NewPlaylistCreator(FormatM3U, true)
//	content, err := creator.CreatePlaylist("Road Trip", entries)
//	os.WriteFile("Road Trip.m3u", []byte(content), 0644)
//
//	// Result:
//	// #EXTM3U
//	// #EXTINF:-1,Artist - Song Title
//	// Song Title.m4a
type PlaylistCreator struct {
	format   PlaylistFormat
	extended bool // For M3U: include EXTINF lines
}

// NewPlaylistCreator creates a new PlaylistCreator.
//
// extended only affects M3U output.
func NewPlaylistCreator(format PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
	}
}

// Format returns the format the creator writes.
func (p *PlaylistCreator) Format() PlaylistFormat {
	return p.format
}

// CreatePlaylist generates playlist content for the given entries.
//
// Paths are written relative (base name only), assuming the playlist
// file sits in the same directory as the tracks.
func (p *PlaylistCreator) CreatePlaylist(title string, entries []PlaylistEntry) (string, error) {
	switch p.format {
	case FormatPLS:
		return p.createPLS(entries)
	case FormatWPL:
		return p.createSMIL(`<?wpl version="1.0"?>`, title, entries, false), nil
	case FormatZPL:
		return p.createSMIL(`<?zpl version="2.0"?>`, title, entries, true), nil
	default:
		return p.createM3U(entries), nil
	}
}

// createM3U generates an M3U playlist. Durations are unknown and written as -1.
func (p *PlaylistCreator) createM3U(entries []PlaylistEntry) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}
	for _, e := range entries {
		if p.extended {
			fmt.Fprintf(&sb, "#EXTINF:-1,%s\n", e.display())
		}
		sb.WriteString(filepath.Base(e.Path) + "\n")
	}

	return sb.String()
}

// createPLS generates a PLS playlist:
//
//	[playlist]
//	File1=filename1.m4a
//	Title1=Song Title
//	Length1=-1
//	NumberOfEntries=1
//	Version=2
func (p *PlaylistCreator) createPLS(entries []PlaylistEntry) (string, error) {
	cfg := ini.Empty(ini.LoadOptions{IgnoreInlineComment: true})
	sec, err := cfg.NewSection("playlist")
	if err != nil {
		return "", err
	}

	set := func(key, value string) {
		if err == nil {
			_, err = sec.NewKey(key, value)
		}
	}
	for i, e := range entries {
		idx := i + 1
		set(fmt.Sprintf("File%d", idx), filepath.Base(e.Path))
		set(fmt.Sprintf("Title%d", idx), e.display())
		set(fmt.Sprintf("Length%d", idx), "-1")
	}
	set("NumberOfEntries", fmt.Sprintf("%d", len(entries)))
	set("Version", "2")
	if err != nil {
		return "", fmt.Errorf("failed to build PLS playlist: %w", err)
	}

	var buf bytes.Buffer
	if _, err := cfg.WriteTo(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// createSMIL generates the XML shared by WPL and ZPL. ZPL media
// elements carry extra track attributes.
func (p *PlaylistCreator) createSMIL(header, title string, entries []PlaylistEntry, zune bool) string {
	var sb strings.Builder

	sb.WriteString(header + "\n")
	sb.WriteString("<smil>\n")
	sb.WriteString("  <head>\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", escapeXML(title))
	if zune {
		sb.WriteString("    <meta name=\"Generator\" content=\"song-downloader\"/>\n")
		fmt.Fprintf(&sb, "    <meta name=\"ItemCount\" content=\"%d\"/>\n", len(entries))
	}
	sb.WriteString("  </head>\n")
	sb.WriteString("  <body>\n")
	sb.WriteString("    <seq>\n")

	for _, e := range entries {
		src := escapeXML(filepath.Base(e.Path))
		if zune {
			fmt.Fprintf(&sb, "      <media src=\"%s\" trackTitle=\"%s\" trackArtist=\"%s\"/>\n",
				src, escapeXML(e.Title), escapeXML(e.Artist))
		} else {
			fmt.Fprintf(&sb, "      <media src=\"%s\"/>\n", src)
		}
	}

	sb.WriteString("    </seq>\n")
	sb.WriteString("  </body>\n")
	sb.WriteString("</smil>\n")

	return sb.String()
}

// escapeXML escapes & < > " ' for attribute and text content.
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
