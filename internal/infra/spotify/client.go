// Package spotify provides a client for the Spotify API.
package spotify

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/Srivibhu/TrackGuessr/internal/domain/track"
)

// Client holds the OAuth configuration shared by all user sessions.
type Client struct {
	auth       *spotifyauth.Authenticator
	maxRetries int
	retryDelay time.Duration
}

// Config represents Spotify client configuration.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Profile represents the logged-in user's public profile.
type Profile struct {
	ID          string
	DisplayName string
	ImageURL    string
}

// Playlist represents a playlist search hit.
type Playlist struct {
	ID   string
	Name string
}

// New creates a new Spotify client.
func New(cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("spotify credentials are required")
	}
	if cfg.RedirectURL == "" {
		return nil, errors.New("spotify redirect URL is required")
	}

	auth := spotifyauth.New(
		spotifyauth.WithRedirectURL(cfg.RedirectURL),
		spotifyauth.WithClientID(cfg.ClientID),
		spotifyauth.WithClientSecret(cfg.ClientSecret),
		spotifyauth.WithScopes(
			spotifyauth.ScopeUserTopRead,
			spotifyauth.ScopePlaylistReadPrivate,
			spotifyauth.ScopePlaylistReadCollaborative,
		),
	)

	return &Client{
		auth:       auth,
		maxRetries: 3,
		retryDelay: time.Second,
	}, nil
}

// AuthURL returns the Spotify authorization URL for the given state.
// The account chooser is forced so shared machines can switch users.
func (c *Client) AuthURL(state string) string {
	return c.auth.AuthURL(state, spotifyauth.ShowDialog)
}

// Exchange completes the authorization code flow from the callback request.
func (c *Client) Exchange(ctx context.Context, state string, r *http.Request) (*oauth2.Token, error) {
	token, err := c.auth.Token(ctx, state, r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to exchange authorization code")
	}
	return token, nil
}

// Session returns an API session for the given user token. The underlying
// HTTP client refreshes the access token automatically.
func (c *Client) Session(ctx context.Context, token *oauth2.Token) *Session {
	return NewSession(spotify.New(c.auth.Client(ctx, token)))
}

// SessionFromRefreshToken builds a session from a long-lived refresh
// token, for non-browser tooling.
func SessionFromRefreshToken(ctx context.Context, clientID, clientSecret, refreshToken string) (*Session, error) {
	if clientID == "" || clientSecret == "" || refreshToken == "" {
		return nil, errors.New("spotify credentials are required")
	}

	auth := spotifyauth.New(
		spotifyauth.WithClientID(clientID),
		spotifyauth.WithClientSecret(clientSecret),
		spotifyauth.WithScopes(
			spotifyauth.ScopeUserTopRead,
			spotifyauth.ScopePlaylistReadPrivate,
			spotifyauth.ScopePlaylistReadCollaborative,
		),
	)
	token := &oauth2.Token{RefreshToken: refreshToken}
	return NewSession(spotify.New(auth.Client(ctx, token))), nil
}

// SessionFromClientCredentials builds an app-only session. It can read
// public playlists but has no user, so TopTracks and CurrentUser fail.
func SessionFromClientCredentials(ctx context.Context, clientID, clientSecret string) (*Session, error) {
	if clientID == "" || clientSecret == "" {
		return nil, errors.New("spotify credentials are required")
	}

	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	token, err := cfg.Token(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get client credentials token")
	}

	httpClient := spotifyauth.New().Client(ctx, token)
	return NewSession(spotify.New(httpClient)), nil
}

// Session is an authenticated Spotify API session for a single user.
type Session struct {
	client     *spotify.Client
	maxRetries int
	retryDelay time.Duration
}

// NewSession wraps an authenticated zmb3 client.
func NewSession(client *spotify.Client) *Session {
	return &Session{
		client:     client,
		maxRetries: 3,
		retryDelay: time.Second,
	}
}

// CurrentUser retrieves the logged-in user's profile.
func (s *Session) CurrentUser(ctx context.Context) (*Profile, error) {
	var user *spotify.PrivateUser
	err := s.retry(func() error {
		u, err := s.client.CurrentUser(ctx)
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get current user")
	}

	profile := &Profile{
		ID:          user.ID,
		DisplayName: user.DisplayName,
	}
	if profile.DisplayName == "" {
		profile.DisplayName = user.ID
	}
	if len(user.Images) > 0 {
		profile.ImageURL = user.Images[0].URL
	}
	return profile, nil
}

// TopTracks retrieves the user's long-term top tracks.
func (s *Session) TopTracks(ctx context.Context, limit int) ([]track.Track, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}

	var page *spotify.FullTrackPage
	err := s.retry(func() error {
		p, err := s.client.CurrentUsersTopTracks(ctx,
			spotify.Limit(limit),
			spotify.Timerange(spotify.LongTermRange),
		)
		if err != nil {
			return err
		}
		page = p
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get top tracks")
	}

	tracks := make([]track.Track, 0, len(page.Tracks))
	for i := range page.Tracks {
		tracks = append(tracks, *convertTrack(&page.Tracks[i]))
	}
	return tracks, nil
}

// PlaylistTracks retrieves up to limit tracks from a playlist.
func (s *Session) PlaylistTracks(ctx context.Context, playlistID string, limit int) ([]track.Track, error) {
	id := extractPlaylistID(playlistID)
	if id == "" {
		return nil, errors.New("invalid playlist ID")
	}
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	var page *spotify.PlaylistItemPage
	err := s.retry(func() error {
		p, err := s.client.GetPlaylistItems(ctx, spotify.ID(id),
			spotify.Limit(limit),
			spotify.Offset(0),
		)
		if err != nil {
			return err
		}
		page = p
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get playlist items")
	}

	tracks := make([]track.Track, 0, len(page.Items))
	for _, item := range page.Items {
		// Only process tracks (exclude episodes and removed entries)
		if item.Track.Track != nil && item.Track.Track.ID != "" {
			tracks = append(tracks, *convertTrack(item.Track.Track))
		}
	}
	return tracks, nil
}

// SearchPlaylists searches public playlists by free-text query.
func (s *Session) SearchPlaylists(ctx context.Context, query string, limit int) ([]Playlist, error) {
	if query == "" {
		return nil, errors.New("search query is required")
	}
	if limit <= 0 || limit > 50 {
		limit = 5
	}

	var result *spotify.SearchResult
	err := s.retry(func() error {
		r, err := s.client.Search(ctx, query, spotify.SearchTypePlaylist, spotify.Limit(limit))
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to search playlists")
	}

	if result.Playlists == nil {
		return []Playlist{}, nil
	}

	playlists := make([]Playlist, 0, len(result.Playlists.Playlists))
	for _, p := range result.Playlists.Playlists {
		if p.ID == "" {
			continue
		}
		playlists = append(playlists, Playlist{
			ID:   string(p.ID),
			Name: p.Name,
		})
	}
	return playlists, nil
}

// convertTrack converts a Spotify FullTrack to a domain Track.
func convertTrack(t *spotify.FullTrack) *track.Track {
	artists := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		artists[i] = a.Name
	}

	var albumArt string
	if len(t.Album.Images) > 0 {
		// Largest image first by API convention
		albumArt = t.Album.Images[0].URL
	}

	return &track.Track{
		ID:          string(t.ID),
		Name:        t.Name,
		Artists:     artists,
		Album:       t.Album.Name,
		AlbumArtURL: albumArt,
		PreviewURL:  t.PreviewURL,
		ExternalURL: t.ExternalURLs["spotify"],
		Duration:    time.Duration(t.Duration) * time.Millisecond,
		Popularity:  int(t.Popularity),
		Explicit:    t.Explicit,
	}
}

// retry retries an operation with linear backoff.
func (s *Session) retry(fn func() error) error {
	var lastErr error
	for i := 0; i < s.maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !isRetryable(err) {
			return err
		}

		if i < s.maxRetries-1 {
			time.Sleep(s.retryDelay * time.Duration(i+1))
		}
	}
	return errors.Wrap(lastErr, "max retries exceeded")
}

// isRetryable checks if an error is retryable.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	// Rate limit errors and server errors are retryable
	errStr := err.Error()
	return strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "500") ||
		strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "504")
}

// extractPlaylistID extracts the playlist ID from a Spotify playlist URL or URI.
func extractPlaylistID(input string) string {
	input = strings.TrimSpace(input)
	if strings.HasPrefix(input, "spotify:playlist:") {
		return strings.TrimPrefix(input, "spotify:playlist:")
	}

	if strings.Contains(input, "open.spotify.com") && strings.Contains(input, "/playlist/") {
		parts := strings.Split(input, "/playlist/")
		if len(parts) >= 2 {
			id := strings.Split(parts[len(parts)-1], "?")[0]
			return strings.TrimRight(id, "/")
		}
	}

	// Assume it's already a playlist ID
	return input
}
