package dto

import "github.com/handiism/song-downloader/internal/model"

// PlaylistPage is one page of GET /playlists/{id}/tracks.
type PlaylistPage struct {
	Items []PlaylistItem `json:"items"`
	Next  *string        `json:"next"`
	Total int            `json:"total"`
}

// NextURL returns the URL of the following page, or "" on the last page.
func (p *PlaylistPage) NextURL() string {
	if p.Next == nil {
		return ""
	}
	return *p.Next
}

// PlaylistItem wraps a track entry of a playlist.
// Track is nil for entries Spotify no longer resolves.
type PlaylistItem struct {
	Track *JSONTrack `json:"track"`
}

// JSONTrack is the subset of the Spotify track object the downloader reads.
type JSONTrack struct {
	Name    string       `json:"name"`
	Type    string       `json:"type"`
	IsLocal bool         `json:"is_local"`
	Artists []JSONArtist `json:"artists"`
	Album   JSONAlbum    `json:"album"`
}

// JSONArtist is a simplified artist object.
type JSONArtist struct {
	Name string `json:"name"`
}

// JSONAlbum is a simplified album object.
type JSONAlbum struct {
	Name   string      `json:"name"`
	Images []JSONImage `json:"images"`
}

// JSONImage is an image object. Spotify lists the widest image first.
type JSONImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// JSONPlaylist is the subset of GET /playlists/{id} used to announce a playlist.
type JSONPlaylist struct {
	Name  string `json:"name"`
	Owner struct {
		DisplayName string `json:"display_name"`
	} `json:"owner"`
}

// Downloadable reports whether the item refers to a track that can be searched for.
func (i PlaylistItem) Downloadable() bool {
	return i.Track != nil && i.Track.Name != "" && (i.Track.Type == "" || i.Track.Type == "track")
}

// ToTrack converts the JSON track to a Track.
//
// Only the first artist is kept, and the cover is the first album image.
func (t *JSONTrack) ToTrack() model.Track {
	track := model.Track{
		Title: t.Name,
		Album: t.Album.Name,
	}
	if len(t.Artists) > 0 {
		track.Artist = t.Artists[0].Name
	}
	if len(t.Album.Images) > 0 {
		track.CoverArtURL = t.Album.Images[0].URL
	}
	return track
}
