// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig            `yaml:"server"`
	CORS    CORSConfig              `yaml:"cors"`
	Spotify SpotifyConfig           `yaml:"spotify"`
	Quiz    QuizConfig              `yaml:"quiz"`
	Preview PreviewConfig           `yaml:"preview"`
	Filters map[string]FilterConfig `yaml:"filters"`
}

// ServerConfig represents server configuration.
type ServerConfig struct {
	Addr        string `yaml:"addr" default:":8080"`
	FrontendURL string `yaml:"frontend_url" default:"http://127.0.0.1:5000"`
}

// CORSConfig represents the origin allowlist for the browser front end.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// SpotifyConfig represents Spotify API configuration.
type SpotifyConfig struct {
	ClientID     string `yaml:"client_id" validate:"required"`
	ClientSecret string `yaml:"client_secret" validate:"required"`
	RedirectURL  string `yaml:"redirect_url" validate:"required,url"`
}

// QuizConfig represents quiz construction configuration.
type QuizConfig struct {
	NumQuestions int `yaml:"num_questions" default:"5" validate:"gte=1,lte=50"`
	OptionsPerQ  int `yaml:"options_per_q" default:"4" validate:"gte=2,lte=10"`
	TrackLimit   int `yaml:"track_limit" default:"50" validate:"gte=1,lte=100"`

	// Playlist search terms tried in order for the global-hits quiz.
	SearchTerms []string `yaml:"search_terms" default:"[\"Top 50 Global\",\"Today's Top Hits\",\"Global Top 50\"]"`
}

// PreviewConfig represents preview lookup configuration.
type PreviewConfig struct {
	BaseURL   string `yaml:"base_url" default:"https://itunes.apple.com/search" validate:"url"`
	TimeoutMs int    `yaml:"timeout_ms" default:"3000" validate:"gte=100,lte=30000"`
}

// FilterConfig represents a track filter's configuration.
type FilterConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Settings map[string]any `yaml:"settings,omitempty"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values for sensitive fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Spotify.ClientSecret = v
	}
	if v := os.Getenv("SPOTIFY_REDIRECT_URL"); v != "" {
		c.Spotify.RedirectURL = v
	}
	if v := os.Getenv("FRONTEND_URL"); v != "" {
		c.Server.FrontendURL = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}

// AllowedOrigins returns the CORS allowlist with the front-end URL always
// included, deduplicated and with empty entries removed.
func (c *Config) AllowedOrigins() []string {
	seen := make(map[string]bool)
	origins := make([]string, 0, len(c.CORS.AllowedOrigins)+1)
	for _, o := range append([]string{c.Server.FrontendURL}, c.CORS.AllowedOrigins...) {
		if o == "" || seen[o] {
			continue
		}
		seen[o] = true
		origins = append(origins, o)
	}
	return origins
}

// PreviewTimeout returns the preview lookup timeout as a duration.
func (c *Config) PreviewTimeout() time.Duration {
	return time.Duration(c.Preview.TimeoutMs) * time.Millisecond
}

// IsFilterEnabled checks if a filter is enabled.
func (c *Config) IsFilterEnabled(filterName string) bool {
	if f, ok := c.Filters[filterName]; ok {
		return f.Enabled
	}
	return false
}
