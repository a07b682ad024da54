package filter

import (
	"github.com/Srivibhu/TrackGuessr/internal/domain/track"
)

const missingTitleFilterName = "missing_title"

// MissingTitleFilter drops tracks without a usable title. A title is the
// one field the quiz cannot degrade around: it is both the correct answer
// and the distractor pool entry.
type MissingTitleFilter struct{}

// NewMissingTitleFilter creates a new missing title filter.
func NewMissingTitleFilter() *MissingTitleFilter {
	return &MissingTitleFilter{}
}

// Name returns the filter name.
func (f *MissingTitleFilter) Name() string {
	return missingTitleFilterName
}

// Description returns the filter description.
func (f *MissingTitleFilter) Description() string {
	return "Drop tracks whose title is missing or whitespace-only"
}

// Configure validates the filter configuration.
func (f *MissingTitleFilter) Configure(settings map[string]any) error {
	// No configuration needed
	return nil
}

// Keep reports whether the track has a usable title.
func (f *MissingTitleFilter) Keep(t track.Track) bool {
	return t.HasTitle()
}

func init() {
	Register(missingTitleFilterName, func() Filter { return NewMissingTitleFilter() })
}
