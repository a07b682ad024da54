package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/Srivibhu/TrackGuessr/internal/app/filter"
	"github.com/Srivibhu/TrackGuessr/internal/app/quiz"
	"github.com/Srivibhu/TrackGuessr/internal/domain/track"
	"github.com/Srivibhu/TrackGuessr/internal/infra/spotify"
)

// fakeSource is a canned TrackSource.
type fakeSource struct {
	profile      *spotify.Profile
	profileErr   error
	topTracks    []track.Track
	topTracksErr error
	playlists    []spotify.Playlist
	playlistsErr error
	plTracks     []track.Track
	plTracksErr  error
}

func (f *fakeSource) CurrentUser(ctx context.Context) (*spotify.Profile, error) {
	return f.profile, f.profileErr
}

func (f *fakeSource) TopTracks(ctx context.Context, limit int) ([]track.Track, error) {
	return f.topTracks, f.topTracksErr
}

func (f *fakeSource) PlaylistTracks(ctx context.Context, playlistID string, limit int) ([]track.Track, error) {
	return f.plTracks, f.plTracksErr
}

func (f *fakeSource) SearchPlaylists(ctx context.Context, query string, limit int) ([]spotify.Playlist, error) {
	return f.playlists, f.playlistsErr
}

// fakeAuth is a stub Authenticator.
type fakeAuth struct{}

func (f *fakeAuth) AuthURL(state string) string {
	return "https://accounts.spotify.com/authorize?state=" + state
}

func (f *fakeAuth) Exchange(ctx context.Context, state string, r *http.Request) (*oauth2.Token, error) {
	return &oauth2.Token{AccessToken: "token"}, nil
}

// nullResolver never finds a preview.
type nullResolver struct{}

func (nullResolver) Resolve(ctx context.Context, title, artist string) string { return "" }

func newTestServer(source TrackSource) *Server {
	chain := filter.NewChain()
	chain.Add(filter.NewMissingTitleFilter())

	return New(
		Config{
			FrontendURL:    "https://trackguessr.vercel.app",
			AllowedOrigins: []string{"https://trackguessr.vercel.app"},
			NumQuestions:   5,
			OptionsPerQ:    4,
			TrackLimit:     50,
			SearchTerms:    []string{"Top 50 Global", "Today's Top Hits"},
		},
		&fakeAuth{},
		func(ctx context.Context, token *oauth2.Token) TrackSource { return source },
		quiz.NewBuilder(nullResolver{}),
		chain,
	)
}

// loggedInRequest returns a request carrying a valid session cookie.
func loggedInRequest(s *Server, method, path string) *http.Request {
	id := s.sessions.Create(&oauth2.Token{AccessToken: "token"})
	req := httptest.NewRequest(method, path, nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: id})
	return req
}

func decodeQuiz(t *testing.T, rec *httptest.ResponseRecorder) quizResponse {
	t.Helper()
	var resp quizResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func sampleTracks(n int) []track.Track {
	tracks := make([]track.Track, 0, n)
	titles := []string{
		"Gold Digger", "Heartless", "Stronger", "Bound 2", "Flashing Lights",
		"Power", "Runaway", "Famous", "Monster", "All of the Lights",
	}
	for i := 0; i < n && i < len(titles); i++ {
		tracks = append(tracks, track.Track{
			ID:         titles[i],
			Name:       titles[i],
			Artists:    []string{"Kanye West"},
			PreviewURL: "https://audio.example.com/" + titles[i] + ".m4a",
		})
	}
	return tracks
}

func TestQuizTopTracks(t *testing.T) {
	s := newTestServer(&fakeSource{topTracks: sampleTracks(10)})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, loggedInRequest(s, "GET", "/api/quiz/top-tracks"))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeQuiz(t, rec)
	assert.Equal(t, "top-tracks", resp.Source)
	assert.Empty(t, resp.Error)
	assert.Len(t, resp.Questions, 5)
	for _, q := range resp.Questions {
		assert.Contains(t, q.Options, q.Correct)
	}
}

func TestQuizTopTracks_NotAuthenticated(t *testing.T) {
	s := newTestServer(&fakeSource{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/quiz/top-tracks", nil))

	// Errors degrade to an empty quiz with HTTP 200, never an error page.
	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeQuiz(t, rec)
	assert.Empty(t, resp.Questions)
	assert.Equal(t, "not_authenticated", resp.Error)
}

func TestQuizTopTracks_UpstreamFailure(t *testing.T) {
	s := newTestServer(&fakeSource{topTracksErr: errors.New("boom")})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, loggedInRequest(s, "GET", "/api/quiz/top-tracks"))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeQuiz(t, rec)
	assert.Empty(t, resp.Questions)
	assert.Equal(t, "spotify_request_failed", resp.Error)
}

func TestQuizTopTracks_EmptyHistory(t *testing.T) {
	s := newTestServer(&fakeSource{topTracks: nil})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, loggedInRequest(s, "GET", "/api/quiz/top-tracks"))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeQuiz(t, rec)
	require.NotNil(t, resp.Questions)
	assert.Empty(t, resp.Questions)
	assert.Empty(t, resp.Error)
}

func TestQuizGlobalHits(t *testing.T) {
	s := newTestServer(&fakeSource{
		playlists: []spotify.Playlist{{ID: "pl-1", Name: "Top 50 Global"}},
		plTracks:  sampleTracks(10),
	})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, loggedInRequest(s, "GET", "/api/quiz/global-hits"))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeQuiz(t, rec)
	assert.Equal(t, "global-hits", resp.Source)
	assert.Len(t, resp.Questions, 5)
}

func TestQuizGlobalHits_NoPlaylistFound(t *testing.T) {
	s := newTestServer(&fakeSource{playlistsErr: errors.New("search down")})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, loggedInRequest(s, "GET", "/api/quiz/global-hits"))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeQuiz(t, rec)
	assert.Empty(t, resp.Questions)
	assert.Equal(t, "no_playlist_found", resp.Error)
}

func TestAuthStatus_LoggedOut(t *testing.T) {
	s := newTestServer(&fakeSource{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/auth/status", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp authStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.LoggedIn)
}

func TestAuthStatus_LoggedIn(t *testing.T) {
	s := newTestServer(&fakeSource{
		profile: &spotify.Profile{ID: "user-1", DisplayName: "Vibhu", ImageURL: "https://img.example.com/a.jpg"},
	})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, loggedInRequest(s, "GET", "/auth/status"))

	var resp authStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.LoggedIn)
	assert.Equal(t, "Vibhu", resp.DisplayName)
	assert.Equal(t, "user-1", resp.ID)
}

func TestAuthStatus_ProfileErrorTreatedAsLoggedOut(t *testing.T) {
	s := newTestServer(&fakeSource{profileErr: errors.New("expired")})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, loggedInRequest(s, "GET", "/auth/status"))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp authStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.LoggedIn)
}

func TestMe_NotAuthenticated(t *testing.T) {
	s := newTestServer(&fakeSource{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_RedirectsWithState(t *testing.T) {
	s := newTestServer(&fakeSource{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/login", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "accounts.spotify.com")

	cookies := rec.Result().Cookies()
	var found bool
	for _, c := range cookies {
		if c.Name == stateCookie && c.Value != "" {
			found = true
		}
	}
	assert.True(t, found, "login must set the state cookie")
}

func TestLogout_ClearsSession(t *testing.T) {
	s := newTestServer(&fakeSource{})
	id := s.sessions.Create(&oauth2.Token{AccessToken: "token"})

	req := httptest.NewRequest("GET", "/logout", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: id})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://trackguessr.vercel.app", rec.Header().Get("Location"))
	assert.Nil(t, s.sessions.Get(id))
}

func TestCORS(t *testing.T) {
	s := newTestServer(&fakeSource{})

	req := httptest.NewRequest("GET", "/auth/status", nil)
	req.Header.Set("Origin", "https://trackguessr.vercel.app")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "https://trackguessr.vercel.app", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_UnknownOrigin(t *testing.T) {
	s := newTestServer(&fakeSource{})

	req := httptest.NewRequest("GET", "/auth/status", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Preflight(t *testing.T) {
	s := newTestServer(&fakeSource{})

	req := httptest.NewRequest("OPTIONS", "/api/quiz/top-tracks", nil)
	req.Header.Set("Origin", "https://trackguessr.vercel.app")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "GET, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
}
