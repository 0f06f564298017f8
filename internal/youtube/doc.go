// Package youtube finds and fetches audio from YouTube.
//
// # Search
//
// Searcher scrapes the public results page and reads the embedded
// ytInitialData JSON, so no API key is required. Resolver takes the
// top result of a search:
//
//	resolver := youtube.NewResolver(youtube.NewSearcher(httpClient), logger)
//	top, err := resolver.Resolve(ctx, "The Beatles - Come Together")
//	fmt.Println(top.URL(), top) // https://www.youtube.com/watch?v=... Come Together by The Beatles [4:20]
//
// # Streams
//
// Two interchangeable backends produce model.Stream values:
//
//   - NativeSource uses the pure Go client (github.com/kkdai/youtube/v2)
//   - YtdlpSource drives the yt-dlp binary (github.com/wader/goutubedl)
//
// Both select AAC audio so the file can be remuxed into M4A without
// re-encoding, and both report playback failures as
// model.ErrSourceUnavailable.
//
// # Conventions
//
//	youtube.WatchURL("45cYwDMibGo")     // https://www.youtube.com/watch?v=45cYwDMibGo
//	youtube.ThumbnailURL("45cYwDMibGo") // https://i.ytimg.com/vi/45cYwDMibGo/hqdefault.jpg
package youtube
