// Package httpapi provides the JSON HTTP surface consumed by the browser
// front end: the OAuth login flow and the quiz endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	zlog "github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/Srivibhu/TrackGuessr/internal/app/filter"
	"github.com/Srivibhu/TrackGuessr/internal/app/quiz"
	"github.com/Srivibhu/TrackGuessr/internal/domain/track"
	"github.com/Srivibhu/TrackGuessr/internal/infra/spotify"
)

const (
	sessionCookie = "trackguessr_session"
	stateCookie   = "trackguessr_oauth_state"
)

// Authenticator drives the OAuth authorization code flow.
type Authenticator interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, state string, r *http.Request) (*oauth2.Token, error)
}

// TrackSource supplies track lists and profile data for one logged-in user.
type TrackSource interface {
	CurrentUser(ctx context.Context) (*spotify.Profile, error)
	TopTracks(ctx context.Context, limit int) ([]track.Track, error)
	PlaylistTracks(ctx context.Context, playlistID string, limit int) ([]track.Track, error)
	SearchPlaylists(ctx context.Context, query string, limit int) ([]spotify.Playlist, error)
}

// SourceFactory builds a TrackSource from a user token.
type SourceFactory func(ctx context.Context, token *oauth2.Token) TrackSource

// Config represents the HTTP surface configuration.
type Config struct {
	FrontendURL    string
	AllowedOrigins []string
	NumQuestions   int
	OptionsPerQ    int
	TrackLimit     int
	SearchTerms    []string
}

// Server wires the HTTP handlers to the quiz pipeline.
type Server struct {
	cfg      Config
	auth     Authenticator
	sources  SourceFactory
	sessions *SessionStore
	builder  *quiz.Builder
	filters  *filter.Chain
}

// New creates a new HTTP API server.
func New(cfg Config, auth Authenticator, sources SourceFactory, builder *quiz.Builder, filters *filter.Chain) *Server {
	return &Server{
		cfg:      cfg,
		auth:     auth,
		sources:  sources,
		sessions: NewSessionStore(),
		builder:  builder,
		filters:  filters,
	}
}

// Handler returns the routed HTTP handler with CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", s.handleLogin)
	mux.HandleFunc("/callback", s.handleCallback)
	mux.HandleFunc("/logout", s.handleLogout)
	mux.HandleFunc("/auth/status", s.handleAuthStatus)
	mux.HandleFunc("/api/me", s.handleMe)
	mux.HandleFunc("/api/quiz/top-tracks", s.handleQuizTopTracks)
	mux.HandleFunc("/api/quiz/global-hits", s.handleQuizGlobalHits)

	return corsMiddleware(s.cfg.AllowedOrigins, mux)
}

// source returns the TrackSource for the request's session, or nil when
// the request carries no valid session.
func (s *Server) source(r *http.Request) TrackSource {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil
	}
	token := s.sessions.Get(cookie.Value)
	if token == nil {
		return nil
	}
	return s.sources(r.Context(), token)
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zlog.Error().Msgf("failed to encode response: %v", err)
	}
}

// newCookie returns a cross-site-capable cookie. SameSite=None with
// Secure is what lets the separately-hosted front end send the cookie.
func newCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}
