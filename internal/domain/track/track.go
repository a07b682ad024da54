// Package track provides the Track domain entity.
package track

import (
	"strings"
	"time"
)

// Track represents a single song from the music catalog.
// Contains only information retrieved from the Spotify API.
// Fields other than ID and Name may be empty: upstream track records are
// partial and the quiz pipeline degrades per field instead of rejecting
// the whole track.
type Track struct {
	ID          string        // Spotify Track ID
	Name        string        // Track title
	Artists     []string      // Artist names, in catalog order
	Album       string        // Album name
	AlbumArtURL string        // Largest album art URL
	PreviewURL  string        // ~30s audio preview URL, often missing
	ExternalURL string        // "Open in Spotify" URL
	Duration    time.Duration // Track duration
	Popularity  int           // Popularity score (0-100)
	Explicit    bool          // Explicit content flag
}

// HasTitle reports whether the track carries a usable title.
// Whitespace-only titles count as missing.
func (t *Track) HasTitle() bool {
	return strings.TrimSpace(t.Name) != ""
}

// ArtistDisplay returns a "Artist 1, Artist 2" display string.
// Empty artist entries are skipped; the result is empty when no artist
// name is known.
func (t *Track) ArtistDisplay() string {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		if a != "" {
			names = append(names, a)
		}
	}
	return strings.Join(names, ", ")
}

// PrimaryArtist returns the first non-empty artist name, or "" if none.
func (t *Track) PrimaryArtist() string {
	for _, a := range t.Artists {
		if a != "" {
			return a
		}
	}
	return ""
}
