// Package spotify resolves Spotify playlist links into track descriptors.
//
// The package has three layers:
//
//   - Authenticator: OAuth2 authorization code flow with PKCE. The token
//     is cached on disk and refreshed transparently.
//   - Client: the two Web API calls the downloader needs (playlist
//     metadata and paginated playlist items).
//   - Fetcher: follows pagination and converts items to model.Track.
//
// Session ties them together and only authenticates when a playlist is
// actually requested:
//
//	session := spotify.NewSession(spotify.DefaultConfig(home), httpClient, logger)
//	tracks, err := session.FetchTracks(ctx, "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=...")
//
// A playlist the user cannot see yields an empty slice, not an error.
package spotify
