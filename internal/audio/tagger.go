package audio

import (
	"fmt"
	"net/http"

	"github.com/bogem/id3v2"
	"github.com/zhaarey/go-mp4tag"
)

// TagEditAction defines how to handle an individual tag field.
type TagEditAction int

const (
	// TagModify writes the field when a value is known.
	// A missing value never clears what the file already holds.
	TagModify TagEditAction = iota

	// TagDoNotModify leaves the existing field unchanged.
	TagDoNotModify
)

// TagConfig selects which fields a Tagger writes.
//
// Example:
//
//	cfg := &TagConfig{
//	    Title:  TagModify,
//	    Artist: TagModify,
//	    Album:  TagDoNotModify, // keep whatever the source embedded
//	    Cover:  TagModify,
//	}
type TagConfig struct {
	Title  TagEditAction
	Artist TagEditAction
	Album  TagEditAction
	Cover  TagEditAction
}

// DefaultTagConfig writes every known field.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		Title:  TagModify,
		Artist: TagModify,
		Album:  TagModify,
		Cover:  TagModify,
	}
}

// Metadata is what gets embedded into a file. Empty fields are not written.
type Metadata struct {
	Title  string
	Artist string
	Album  string

	// Cover holds JPEG or PNG bytes, nil when unknown.
	Cover []byte
}

// apply drops the fields cfg says to leave alone.
func (m Metadata) apply(cfg *TagConfig) Metadata {
	if cfg.Title != TagModify {
		m.Title = ""
	}
	if cfg.Artist != TagModify {
		m.Artist = ""
	}
	if cfg.Album != TagModify {
		m.Album = ""
	}
	if cfg.Cover != TagModify {
		m.Cover = nil
	}
	return m
}

// coverMIME returns the MIME type of the cover bytes.
func (m Metadata) coverMIME() string {
	return http.DetectContentType(m.Cover)
}

// Tagger writes metadata into an audio file in place.
type Tagger interface {
	WriteTags(path string, md Metadata) error
}

// NewTagger returns the tagger matching the container format.
// If config is nil, DefaultTagConfig() is used.
func NewTagger(format Format, config *TagConfig) Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	if format == FormatMP3 {
		return &ID3Tagger{config: config}
	}
	return &MP4Tagger{config: config}
}

// MP4Tagger writes iTunes-style atoms to M4A files.
type MP4Tagger struct {
	config *TagConfig
}

// WriteTags implements Tagger.
func (t *MP4Tagger) WriteTags(path string, md Metadata) error {
	md = md.apply(t.config)

	tags := &mp4tag.MP4Tags{
		Title:  md.Title,
		Artist: md.Artist,
		Album:  md.Album,
	}
	if md.Artist != "" {
		tags.AlbumArtist = md.Artist
	}
	// Pictures are merged onto existing covr entries, so a new cover
	// replaces the old ones instead of stacking up across runs.
	del := []string{}
	if len(md.Cover) > 0 {
		del = append(del, "allpictures")
		format := mp4tag.ImageTypeJPEG
		if md.coverMIME() == "image/png" {
			format = mp4tag.ImageTypePNG
		}
		tags.Pictures = []*mp4tag.MP4Picture{{Format: format, Data: md.Cover}}
	}

	mp4, err := mp4tag.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer mp4.Close()

	return mp4.Write(tags, del)
}

// ID3Tagger writes ID3v2 tags to MP3 files.
//
// Only non-empty values are written:
//   - Title (TIT2), Artist (TPE1), Album (TALB)
//   - Cover Art (APIC front cover, replacing earlier pictures)
type ID3Tagger struct {
	config *TagConfig
}

// WriteTags implements Tagger.
func (t *ID3Tagger) WriteTags(path string, md Metadata) error {
	md = md.apply(t.config)

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	if md.Title != "" {
		tag.SetTitle(md.Title)
	}
	if md.Artist != "" {
		tag.SetArtist(md.Artist)
	}
	if md.Album != "" {
		tag.SetAlbum(md.Album)
	}
	if len(md.Cover) > 0 {
		t.updateArtwork(tag, md)
	}

	return tag.Save()
}

// updateArtwork embeds cover art as an attached picture frame.
func (t *ID3Tagger) updateArtwork(tag *id3v2.Tag, md Metadata) {
	tag.DeleteFrames(tag.CommonID("Attached picture"))

	tag.AddAttachedPicture(id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    md.coverMIME(),
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     md.Cover,
	})
}
