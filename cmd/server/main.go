// Package main provides the server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/oauth2"

	"github.com/Srivibhu/TrackGuessr/internal/api/httpapi"
	"github.com/Srivibhu/TrackGuessr/internal/app/filter"
	"github.com/Srivibhu/TrackGuessr/internal/app/preview"
	"github.com/Srivibhu/TrackGuessr/internal/app/quiz"
	"github.com/Srivibhu/TrackGuessr/internal/infra/config"
	"github.com/Srivibhu/TrackGuessr/internal/infra/itunes"
	"github.com/Srivibhu/TrackGuessr/internal/infra/logger"
	"github.com/Srivibhu/TrackGuessr/internal/infra/spotify"
)

var (
	app        = kingpin.New("trackguessr-server", "TrackGuessr quiz backend")
	configPath = app.Flag("config", "Path to config file").Default("config/server.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()

	// list-filters command
	listFiltersCmd = app.Command("list-filters", "List available track filters and exit")
)

func init() {
	// start command (default)
	app.Command("start", "Start the server (default)").Default()
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	if command == listFiltersCmd.FullCommand() {
		printFilters()
		return
	}

	loggerConfig := logger.Config{
		Output: "stdout",
		Level:  "info",
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	zlog.Info().Msgf("Loading config from %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	if err := run(cfg); err != nil {
		zlog.Error().Msgf("Server error: %v", err)
		os.Exit(1)
	}
}

// run executes the main server logic. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(cfg *config.Config) error {
	spotifyClient, err := spotify.New(spotify.Config{
		ClientID:     cfg.Spotify.ClientID,
		ClientSecret: cfg.Spotify.ClientSecret,
		RedirectURL:  cfg.Spotify.RedirectURL,
	})
	if err != nil {
		return fmt.Errorf("failed to create Spotify client: %w", err)
	}

	itunesClient := itunes.New(itunes.Config{
		BaseURL: cfg.Preview.BaseURL,
		Timeout: cfg.PreviewTimeout(),
	})
	resolver := preview.NewResolver(itunesClient)
	builder := quiz.NewBuilder(resolver)

	filterCfgs := make(map[string]filter.Config, len(cfg.Filters))
	for name, fc := range cfg.Filters {
		filterCfgs[name] = filter.Config{Enabled: fc.Enabled, Settings: fc.Settings}
	}
	chain, err := filter.BuildChain(filterCfgs)
	if err != nil {
		return fmt.Errorf("invalid filter config: %w", err)
	}

	api := httpapi.New(
		httpapi.Config{
			FrontendURL:    cfg.Server.FrontendURL,
			AllowedOrigins: cfg.AllowedOrigins(),
			NumQuestions:   cfg.Quiz.NumQuestions,
			OptionsPerQ:    cfg.Quiz.OptionsPerQ,
			TrackLimit:     cfg.Quiz.TrackLimit,
			SearchTerms:    cfg.Quiz.SearchTerms,
		},
		spotifyClient,
		func(ctx context.Context, token *oauth2.Token) httpapi.TrackSource {
			return spotifyClient.Session(ctx, token)
		},
		builder,
		chain,
	)

	// Create server with h2c (HTTP/2 cleartext) support
	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: h2c.NewHandler(api.Handler(), &http2.Server{}),
	}

	serverErrCh := make(chan error, 1)
	go func() {
		zlog.Info().Msgf("Starting server: addr=%s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	// Wait for shutdown signal or server error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		zlog.Info().Msg("Received shutdown signal...")
	case err := <-serverErrCh:
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Msgf("Failed to shutdown server: %v", err)
	}

	zlog.Info().Msg("Server stopped")
	return nil
}

// printFilters prints available track filters.
func printFilters() {
	fmt.Println("Available Filters:")
	for name, factory := range filter.GetRegistered() {
		f := factory()
		fmt.Printf("  %-15s - %s\n", name, f.Description())
	}
}
