package audio

import (
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bogem/id3v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zhaarey/go-mp4tag"

	"github.com/handiism/song-downloader/internal/model"
)

func TestBuildArgs(t *testing.T) {
	assert.Equal(t,
		[]string{"-y", "-hide_banner", "-loglevel", "error", "-i", "in.mp4", "-vn", "-c:a", "copy", "out.m4a"},
		buildArgs("in.mp4", "out.m4a", FormatM4A))

	mp3 := buildArgs("in.mp4", "out.mp3", FormatMP3)
	assert.Contains(t, strings.Join(mp3, " "), "-c:a libmp3lame")
	assert.Equal(t, "out.mp3", mp3[len(mp3)-1])
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(".M4A")
	require.NoError(t, err)
	assert.Equal(t, FormatM4A, f)
	assert.Equal(t, ".m4a", f.Ext())

	_, err = ParseFormat("flac")
	assert.Error(t, err)
}

func TestTranscoder_Convert(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Song.mp4")
	dst := filepath.Join(dir, "Song.m4a")
	require.NoError(t, os.WriteFile(src, []byte("raw"), 0o644))

	var gotArgs []string
	tc := NewTranscoder("ffmpeg", nil).WithRunner(func(_ context.Context, name string, args ...string) ([]byte, error) {
		gotArgs = args
		return nil, os.WriteFile(args[len(args)-1], []byte("converted"), 0o644)
	})

	require.NoError(t, tc.Convert(context.Background(), src, dst, FormatM4A))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "converted", string(data))
	assert.NoFileExists(t, src)

	tmp := gotArgs[len(gotArgs)-1]
	assert.Equal(t, dir, filepath.Dir(tmp))
	assert.NoFileExists(t, tmp)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestTranscoder_ConvertFailure(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Song.mp4")
	dst := filepath.Join(dir, "Song.m4a")
	require.NoError(t, os.WriteFile(src, []byte("raw"), 0o644))

	tc := NewTranscoder("ffmpeg", nil).WithRunner(func(_ context.Context, _ string, args ...string) ([]byte, error) {
		_ = os.WriteFile(args[len(args)-1], []byte("partial"), 0o644)
		return []byte("frame=1\nInvalid data found when processing input"), errors.New("exit status 1")
	})

	err := tc.Convert(context.Background(), src, dst, FormatM4A)

	var convErr *model.ConversionError
	require.ErrorAs(t, err, &convErr)
	assert.ErrorIs(t, err, model.ErrConversion)
	assert.Contains(t, err.Error(), "Invalid data found")
	assert.FileExists(t, src)
	assert.NoFileExists(t, dst)

	entries, _ := os.ReadDir(dir)
	assert.Len(t, entries, 1, "temporary file should be removed")
}

func TestMetadata_Apply(t *testing.T) {
	md := Metadata{Title: "T", Artist: "A", Album: "B", Cover: []byte{1}}
	cfg := &TagConfig{Title: TagModify, Artist: TagDoNotModify, Album: TagModify, Cover: TagDoNotModify}

	got := md.apply(cfg)
	assert.Equal(t, Metadata{Title: "T", Album: "B"}, got)
	assert.Equal(t, md, md.apply(DefaultTagConfig()))
}

func TestNewTagger(t *testing.T) {
	assert.IsType(t, &MP4Tagger{}, NewTagger(FormatM4A, nil))
	assert.IsType(t, &ID3Tagger{}, NewTagger(FormatMP3, nil))
}

func TestID3Tagger_NeverClears(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.mp3")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	tagger := NewTagger(FormatMP3, nil)
	require.NoError(t, tagger.WriteTags(path, Metadata{Title: "Creep", Artist: "Radiohead", Album: "Pablo Honey"}))
	require.NoError(t, tagger.WriteTags(path, Metadata{Title: "Creep (Remastered)"}))

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	require.NoError(t, err)
	defer tag.Close()

	assert.Equal(t, "Creep (Remastered)", tag.Title())
	assert.Equal(t, "Radiohead", tag.Artist())
	assert.Equal(t, "Pablo Honey", tag.Album())
}

// mp4Box frames payload as an ISO BMFF box.
func mp4Box(name string, payload ...[]byte) []byte {
	size := 8
	for _, p := range payload {
		size += len(p)
	}
	b := binary.BigEndian.AppendUint32(make([]byte, 0, size), uint32(size))
	b = append(b, name...)
	for _, p := range payload {
		b = append(b, p...)
	}
	return b
}

// minimalM4A builds the smallest file go-mp4tag accepts: an ftyp, a moov
// with one chunk offset table and an empty ilst, followed by mdat.
func minimalM4A() []byte {
	ftyp := mp4Box("ftyp", []byte("M4A "), make([]byte, 4), []byte("M4A isom"))
	udta := mp4Box("udta", mp4Box("meta", make([]byte, 4), mp4Box("ilst")))
	moov := func(chunkOffset uint32) []byte {
		stco := binary.BigEndian.AppendUint32(make([]byte, 4), 1)
		stco = binary.BigEndian.AppendUint32(stco, chunkOffset)
		trak := mp4Box("trak", mp4Box("mdia", mp4Box("minf", mp4Box("stbl", mp4Box("stco", stco)))))
		return mp4Box("moov", mp4Box("mvhd", make([]byte, 100)), trak, udta)
	}

	// The chunk offset points just past the mdat header.
	size := len(ftyp) + len(moov(0))
	out := append(ftyp, moov(uint32(size+8))...)
	return append(out, mp4Box("mdat", []byte{0, 0, 0, 0})...)
}

func TestMP4Tagger_ReplacesCoverAndNeverClears(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.m4a")
	require.NoError(t, os.WriteFile(path, minimalM4A(), 0o644))

	oldCover := []byte{0xFF, 0xD8, 0xFF, 0xE0, 1, 2, 3, 4}
	newCover := []byte{0xFF, 0xD8, 0xFF, 0xE0, 5, 6, 7, 8, 9}

	tagger := NewTagger(FormatM4A, nil)
	require.NoError(t, tagger.WriteTags(path, Metadata{Title: "Creep", Artist: "Radiohead", Album: "Pablo Honey", Cover: oldCover}))
	require.NoError(t, tagger.WriteTags(path, Metadata{Title: "Creep", Cover: oldCover}))
	require.NoError(t, tagger.WriteTags(path, Metadata{Title: "Creep (Remastered)", Cover: newCover}))
	require.NoError(t, tagger.WriteTags(path, Metadata{}))

	mp4, err := mp4tag.Open(path)
	require.NoError(t, err)
	defer mp4.Close()
	tags, err := mp4.Read()
	require.NoError(t, err)

	assert.Equal(t, "Creep (Remastered)", tags.Title)
	assert.Equal(t, "Radiohead", tags.Artist)
	assert.Equal(t, "Radiohead", tags.AlbumArtist)
	assert.Equal(t, "Pablo Honey", tags.Album)
	require.Len(t, tags.Pictures, 1)
	assert.Equal(t, newCover, tags.Pictures[0].Data)
	assert.Equal(t, mp4tag.ImageTypeJPEG, tags.Pictures[0].Format)
}

func TestMP4Tagger_RejectsNonMP4(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.m4a")
	require.NoError(t, os.WriteFile(path, []byte("not an mp4 file"), 0o644))

	err := NewTagger(FormatM4A, nil).WriteTags(path, Metadata{Title: "Creep"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open")
}
