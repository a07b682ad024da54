package filter

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"github.com/Srivibhu/TrackGuessr/internal/domain/track"
)

// MinDurationConfig represents the min_duration filter settings.
type MinDurationConfig struct {
	MinSeconds int `mapstructure:"min_seconds" default:"45" validate:"gte=1,lte=600"`
}

// MinDurationFilter drops very short tracks (intros, skits, interludes)
// that make poor quiz questions. Disabled by default. Tracks with an
// unknown duration are kept.
type MinDurationFilter struct {
	config MinDurationConfig
}

// NewMinDurationFilter creates a new minimum duration filter.
func NewMinDurationFilter() *MinDurationFilter {
	return &MinDurationFilter{}
}

// Name returns the filter name.
func (f *MinDurationFilter) Name() string {
	return "min_duration"
}

// Description returns the filter description.
func (f *MinDurationFilter) Description() string {
	return "Drop tracks shorter than min_seconds (skits, interludes)"
}

// Configure decodes and validates the filter settings.
func (f *MinDurationFilter) Configure(settings map[string]any) error {
	var config MinDurationConfig
	if err := mapstructure.Decode(settings, &config); err != nil {
		return errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&config); err != nil {
		return errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(config); err != nil {
		return errors.Wrap(err, "validation failed")
	}
	f.config = config
	return nil
}

// Keep reports whether the track is long enough.
func (f *MinDurationFilter) Keep(t track.Track) bool {
	if t.Duration <= 0 {
		return true
	}
	return t.Duration >= time.Duration(f.config.MinSeconds)*time.Second
}

func init() {
	Register("min_duration", func() Filter { return NewMinDurationFilter() })
}
