package httpapi

import (
	"net/http"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/Srivibhu/TrackGuessr/internal/app/quiz"
	"github.com/Srivibhu/TrackGuessr/internal/domain/track"
)

// quizResponse is the envelope for quiz endpoints. The error tag is
// informational only: quiz endpoints always answer HTTP 200 with a
// syntactically valid quiz so the front end never breaks.
type quizResponse struct {
	Questions []quiz.Question `json:"questions"`
	Source    string          `json:"source"`
	Error     string          `json:"error,omitempty"`
}

// authStatusResponse is the envelope for /auth/status.
type authStatusResponse struct {
	LoggedIn    bool   `json:"logged_in"`
	DisplayName string `json:"display_name,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	ID          string `json:"id,omitempty"`
}

// handleLogin redirects the user to the Spotify authorization page.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, newCookie(stateCookie, state, 600))
	http.Redirect(w, r, s.auth.AuthURL(state), http.StatusFound)
}

// handleCallback completes the authorization code exchange, stores the
// token in a new session, and sends the user back to the front end.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	stateCk, err := r.Cookie(stateCookie)
	if err != nil {
		http.Error(w, "Authorization failed.", http.StatusBadRequest)
		return
	}

	token, err := s.auth.Exchange(r.Context(), stateCk.Value, r)
	if err != nil {
		zlog.Warn().Msgf("token exchange failed: %v", err)
		http.Error(w, "Authorization failed.", http.StatusBadRequest)
		return
	}

	id := s.sessions.Create(token)
	http.SetCookie(w, newCookie(sessionCookie, id, 0))
	http.SetCookie(w, newCookie(stateCookie, "", -1))
	http.Redirect(w, r, s.cfg.FrontendURL, http.StatusFound)
}

// handleLogout drops the session and returns to the front end.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		s.sessions.Delete(cookie.Value)
	}
	http.SetCookie(w, newCookie(sessionCookie, "", -1))
	http.Redirect(w, r, s.cfg.FrontendURL, http.StatusFound)
}

// handleAuthStatus reports login state for the front-end header. Any
// failure is reported as "not logged in" with HTTP 200.
func (s *Server) handleAuthStatus(w http.ResponseWriter, r *http.Request) {
	source := s.source(r)
	if source == nil {
		writeJSON(w, http.StatusOK, authStatusResponse{LoggedIn: false})
		return
	}

	profile, err := source.CurrentUser(r.Context())
	if err != nil {
		zlog.Debug().Msgf("auth status lookup failed: %v", err)
		writeJSON(w, http.StatusOK, authStatusResponse{LoggedIn: false})
		return
	}

	writeJSON(w, http.StatusOK, authStatusResponse{
		LoggedIn:    true,
		DisplayName: profile.DisplayName,
		ImageURL:    profile.ImageURL,
		ID:          profile.ID,
	})
}

// handleMe returns the logged-in user's profile.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	source := s.source(r)
	if source == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not_authenticated"})
		return
	}

	profile, err := source.CurrentUser(r.Context())
	if err != nil {
		zlog.Warn().Msgf("profile lookup failed: %v", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "spotify_request_failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"id":           profile.ID,
		"display_name": profile.DisplayName,
		"image_url":    profile.ImageURL,
	})
}

// handleQuizTopTracks builds a quiz from the user's top tracks.
func (s *Server) handleQuizTopTracks(w http.ResponseWriter, r *http.Request) {
	const sourceTag = "top-tracks"

	source := s.source(r)
	if source == nil {
		writeJSON(w, http.StatusOK, emptyQuiz(sourceTag, "not_authenticated"))
		return
	}

	tracks, err := source.TopTracks(r.Context(), s.cfg.TrackLimit)
	if err != nil {
		zlog.Warn().Msgf("top tracks fetch failed: %v", err)
		writeJSON(w, http.StatusOK, emptyQuiz(sourceTag, "spotify_request_failed"))
		return
	}

	zlog.Debug().Msgf("top tracks fetched: count=%d", len(tracks))
	s.respondQuiz(w, r, sourceTag, tracks)
}

// handleQuizGlobalHits builds a quiz from a popular public playlist found
// via search. Search terms are tried in order until one yields a playlist.
func (s *Server) handleQuizGlobalHits(w http.ResponseWriter, r *http.Request) {
	const sourceTag = "global-hits"

	source := s.source(r)
	if source == nil {
		writeJSON(w, http.StatusOK, emptyQuiz(sourceTag, "not_authenticated"))
		return
	}

	playlistID := ""
	for _, term := range s.cfg.SearchTerms {
		playlists, err := source.SearchPlaylists(r.Context(), term, 5)
		if err != nil {
			zlog.Warn().Msgf("playlist search failed: term=%q error=%v", term, err)
			continue
		}
		if len(playlists) > 0 {
			playlistID = playlists[0].ID
			zlog.Debug().Msgf("using playlist: term=%q playlist=%s", term, playlistID)
			break
		}
	}

	if playlistID == "" {
		zlog.Warn().Msg("no suitable playlist found from search")
		writeJSON(w, http.StatusOK, emptyQuiz(sourceTag, "no_playlist_found"))
		return
	}

	tracks, err := source.PlaylistTracks(r.Context(), playlistID, s.cfg.TrackLimit)
	if err != nil {
		zlog.Warn().Msgf("playlist tracks fetch failed: playlist=%s error=%v", playlistID, err)
		writeJSON(w, http.StatusOK, emptyQuiz(sourceTag, "spotify_request_failed"))
		return
	}

	s.respondQuiz(w, r, sourceTag, tracks)
}

// respondQuiz runs the cleaning chain and quiz builder over raw tracks
// and writes the result.
func (s *Server) respondQuiz(w http.ResponseWriter, r *http.Request, sourceTag string, tracks []track.Track) {
	cleaned := s.filters.Apply(tracks)
	q := s.builder.Build(r.Context(), cleaned, s.cfg.NumQuestions, s.cfg.OptionsPerQ)
	writeJSON(w, http.StatusOK, quizResponse{
		Questions: q.Questions,
		Source:    sourceTag,
	})
}

// emptyQuiz returns a degraded-but-valid quiz payload.
func emptyQuiz(sourceTag, errTag string) quizResponse {
	return quizResponse{
		Questions: []quiz.Question{},
		Source:    sourceTag,
		Error:     errTag,
	}
}
