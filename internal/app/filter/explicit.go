package filter

import (
	"github.com/Srivibhu/TrackGuessr/internal/domain/track"
)

// ExplicitFilter drops tracks flagged as explicit. Disabled by default;
// useful when a quiz is hosted for an all-ages audience.
type ExplicitFilter struct{}

// NewExplicitFilter creates a new explicit content filter.
func NewExplicitFilter() *ExplicitFilter {
	return &ExplicitFilter{}
}

// Name returns the filter name.
func (f *ExplicitFilter) Name() string {
	return "explicit"
}

// Description returns the filter description.
func (f *ExplicitFilter) Description() string {
	return "Drop tracks flagged as explicit content"
}

// Configure validates the filter configuration.
func (f *ExplicitFilter) Configure(settings map[string]any) error {
	// No configuration needed
	return nil
}

// Keep reports whether the track is clean.
func (f *ExplicitFilter) Keep(t track.Track) bool {
	return !t.Explicit
}

func init() {
	Register("explicit", func() Filter { return NewExplicitFilter() })
}
