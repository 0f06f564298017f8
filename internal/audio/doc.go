// Package audio converts downloaded streams and writes their metadata.
//
// # Conversion
//
// Transcoder drives ffmpeg. M4A output copies the AAC stream as is,
// MP3 output re-encodes:
//
//	tc := audio.NewTranscoder("", logger)
//	err := tc.Convert(ctx, "Song.mp4", "Song.m4a", audio.FormatM4A)
//
// # Tagging
//
// NewTagger picks the tag writer for the container (MP4 atoms for M4A,
// ID3v2 for MP3). Only non-empty fields are written:
//
//	tagger := audio.NewTagger(audio.FormatM4A, audio.DefaultTagConfig())
//	err := tagger.WriteTags("Song.m4a", audio.Metadata{Title: "Song", Cover: jpeg})
//
// # Playlist Generation
//
//	creator := audio.NewPlaylistCreator(audio.FormatM3U, true) // extended M3U
//	content, err := creator.CreatePlaylist("Road Trip", entries)
//
// Supported formats:
//   - M3U (with optional extended info)
//   - PLS
//   - WPL (Windows Media Player)
//   - ZPL (Zune Media Player)
package audio
