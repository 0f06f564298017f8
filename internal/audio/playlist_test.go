package audio

import (
	"strings"
	"testing"
)

func TestPlaylistCreator_M3U(t *testing.T) {
	creator := NewPlaylistCreator(FormatM3U, false)

	content, err := creator.CreatePlaylist("Mix", createTestEntries())
	if err != nil {
		t.Fatal(err)
	}

	if content != "Song One.m4a\nSong Two.m4a\n" {
		t.Errorf("unexpected M3U content:\n%s", content)
	}
}

func TestPlaylistCreator_M3UExtended(t *testing.T) {
	creator := NewPlaylistCreator(FormatM3U, true)

	content, _ := creator.CreatePlaylist("Mix", createTestEntries())

	if !strings.HasPrefix(content, "#EXTM3U") {
		t.Error("Extended M3U should start with #EXTM3U")
	}
	if !strings.Contains(content, "#EXTINF:-1,Test Artist - Song One\n") {
		t.Error("Extended M3U should contain #EXTINF with artist and title")
	}
	if !strings.Contains(content, "#EXTINF:-1,Song Two\n") {
		t.Error("Entries without metadata should fall back to the file stem")
	}
}

func TestPlaylistCreator_PLS(t *testing.T) {
	creator := NewPlaylistCreator(FormatPLS, false)

	content, err := creator.CreatePlaylist("Mix", createTestEntries())
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(content, "[playlist]") {
		t.Error("PLS should start with [playlist]")
	}
	if !strings.Contains(content, "File1=Song One.m4a\n") {
		t.Errorf("PLS should contain File1=, got:\n%s", content)
	}
	if !strings.Contains(content, "NumberOfEntries=2\n") {
		t.Error("PLS should contain NumberOfEntries")
	}
}

func TestPlaylistCreator_PLSSpecialCharacters(t *testing.T) {
	creator := NewPlaylistCreator(FormatPLS, false)
	entries := []PlaylistEntry{{Path: "/m/No. 1; Live #2.m4a", Title: "No. 1; Live #2"}}

	content, err := creator.CreatePlaylist("Mix", entries)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(content, "Title1=No. 1; Live #2\n") {
		t.Errorf("PLS should keep ; and # unquoted, got:\n%s", content)
	}
}

func TestPlaylistCreator_WPL(t *testing.T) {
	creator := NewPlaylistCreator(FormatWPL, false)

	content, _ := creator.CreatePlaylist("Mix", createTestEntries())

	if !strings.Contains(content, "<?wpl") {
		t.Error("WPL should contain XML declaration")
	}
	if !strings.Contains(content, "<smil>") {
		t.Error("WPL should contain smil element")
	}
	if !strings.Contains(content, "<media src=\"Song One.m4a\"/>") {
		t.Error("WPL should contain media elements")
	}
}

func TestPlaylistCreator_ZPL(t *testing.T) {
	creator := NewPlaylistCreator(FormatZPL, false)

	content, _ := creator.CreatePlaylist("Mix", createTestEntries())

	if !strings.Contains(content, "<?zpl") {
		t.Error("ZPL should contain XML declaration")
	}
	if !strings.Contains(content, "trackArtist=\"Test Artist\"") {
		t.Error("ZPL should contain trackArtist attribute")
	}
}

func TestPlaylistCreator_XMLEscape(t *testing.T) {
	entries := []PlaylistEntry{{Path: "/music/Track & Co.m4a", Title: "Track & \"Quote\"", Artist: "Artist <Special>"}}

	content, _ := NewPlaylistCreator(FormatZPL, false).CreatePlaylist("Mix & Match", entries)

	if !strings.Contains(content, "Mix &amp; Match") {
		t.Error("ZPL should escape & as &amp;")
	}
	if strings.Contains(content, "<Special>") {
		t.Error("ZPL should escape < and >")
	}
}

func TestParsePlaylistFormat(t *testing.T) {
	tests := map[string]PlaylistFormat{"m3u": FormatM3U, ".PLS": FormatPLS, "wpl": FormatWPL, "zpl": FormatZPL}
	for in, want := range tests {
		got, err := ParsePlaylistFormat(in)
		if err != nil || got != want {
			t.Errorf("ParsePlaylistFormat(%q) = %v, %v; want %v", in, got, err, want)
		}
		if got.Ext() == "" {
			t.Errorf("%v has no extension", got)
		}
	}
	if _, err := ParsePlaylistFormat("xspf"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func createTestEntries() []PlaylistEntry {
	return []PlaylistEntry{
		{Path: "/music/Song One.m4a", Title: "Song One", Artist: "Test Artist"},
		{Path: "/music/Song Two.m4a"},
	}
}
