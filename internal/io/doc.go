// Package ioutils provides file system and image helpers.
//
// # File Operations
//
//	ok, err := ioutils.FileExists("/music/Song.m4a")
//	name := ioutils.ReplaceExt("Song.mp4", ".m4a") // "Song.m4a"
//	safe := ioutils.SanitizeFileName("Song: Part 1/2") // "Song_ Part 1_2"
//
// # Cover Art
//
// ImageService shrinks and re-encodes cover art before it is embedded:
//
//	svc := ioutils.NewImageService()
//	cover, err := svc.PrepareCover(ctx, raw, ioutils.CoverOptions{MaxSize: 1000, ConvertToJPEG: true})
package ioutils
