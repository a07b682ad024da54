// Package main provides a CLI for building quizzes from the terminal,
// useful for smoke-testing the pipeline without the web front end.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/Srivibhu/TrackGuessr/internal/app/preview"
	"github.com/Srivibhu/TrackGuessr/internal/app/quiz"
	"github.com/Srivibhu/TrackGuessr/internal/domain/track"
	"github.com/Srivibhu/TrackGuessr/internal/infra/itunes"
	"github.com/Srivibhu/TrackGuessr/internal/infra/logger"
	"github.com/Srivibhu/TrackGuessr/internal/infra/spotify"
)

var (
	app          = kingpin.New("trackguessr-quiz", "Build a music quiz from the command line")
	clientID     = app.Flag("client-id", "Spotify Client ID").Envar("SPOTIFY_CLIENT_ID").Required().String()
	clientSecret = app.Flag("client-secret", "Spotify Client Secret").Envar("SPOTIFY_CLIENT_SECRET").Required().String()
	questions    = app.Flag("questions", "Number of questions").Default("5").Int()
	options      = app.Flag("options", "Options per question").Default("4").Int()
	trackLimit   = app.Flag("limit", "Tracks to fetch from the source").Default("50").Int()
	verbose      = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()

	topTracksCmd = app.Command("top-tracks", "Quiz from your top tracks (needs a refresh token)")
	refreshToken = topTracksCmd.Flag("refresh-token", "Spotify refresh token").Envar("SPOTIFY_REFRESH_TOKEN").Required().String()

	playlistCmd = app.Command("playlist", "Quiz from a public playlist")
	playlistID  = playlistCmd.Arg("playlist", "Playlist ID, URL, or URI").Required().String()
)

func main() {
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	level := "warn"
	if *verbose {
		level = "debug"
	}
	if err := logger.Init(logger.Config{Output: "stderr", Level: level}); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	ctx := context.Background()

	tracks, err := fetchTracks(ctx, command)
	if err != nil {
		zlog.Fatal().Msgf("Failed to fetch tracks: %v", err)
	}

	resolver := preview.NewResolver(itunes.New(itunes.Config{}))
	q := quiz.NewBuilder(resolver).Build(ctx, tracks, *questions, *options)

	out, err := json.MarshalIndent(q, "", "  ")
	if err != nil {
		zlog.Fatal().Msgf("Failed to marshal quiz: %v", err)
	}
	fmt.Println(string(out))
}

// fetchTracks loads the source track list for the selected command.
func fetchTracks(ctx context.Context, command string) ([]track.Track, error) {
	switch command {
	case topTracksCmd.FullCommand():
		session, err := spotify.SessionFromRefreshToken(ctx, *clientID, *clientSecret, *refreshToken)
		if err != nil {
			return nil, err
		}
		return session.TopTracks(ctx, *trackLimit)
	case playlistCmd.FullCommand():
		session, err := spotify.SessionFromClientCredentials(ctx, *clientID, *clientSecret)
		if err != nil {
			return nil, err
		}
		return session.PlaylistTracks(ctx, *playlistID, *trackLimit)
	default:
		return nil, fmt.Errorf("unknown command: %s", command)
	}
}
