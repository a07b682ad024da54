// Package filter provides the track cleaning chain applied before quiz
// construction.
package filter

import (
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/Srivibhu/TrackGuessr/internal/domain/track"
)

// Filter is the interface for track filters.
type Filter interface {
	// Name returns the filter name (used in config).
	Name() string
	// Description returns a human-readable description.
	Description() string
	// Configure applies and validates the filter settings.
	Configure(settings map[string]any) error
	// Keep reports whether the track should survive cleaning.
	Keep(t track.Track) bool
}

// Config represents a filter's configuration entry.
type Config struct {
	Enabled  bool
	Settings map[string]any
}

// registry holds registered filter factories.
var registry = make(map[string]func() Filter)

// Register registers a filter factory.
func Register(name string, factory func() Filter) {
	registry[name] = factory
}

// GetRegistered returns all registered filter factories.
func GetRegistered() map[string]func() Filter {
	return registry
}

// BuildChain assembles a chain from configuration. The missing_title
// filter always runs first: a track without a title cannot become a quiz
// question regardless of operator preference. Optional filters are added
// in name order for deterministic assembly.
func BuildChain(cfgs map[string]Config) (*Chain, error) {
	chain := NewChain()
	chain.Add(NewMissingTitleFilter())

	names := make([]string, 0, len(cfgs))
	for name := range cfgs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cfg := cfgs[name]
		if !cfg.Enabled || name == missingTitleFilterName {
			continue
		}

		factory, exists := registry[name]
		if !exists {
			return nil, errors.Newf("unknown filter: %s", name)
		}

		f := factory()
		if err := f.Configure(cfg.Settings); err != nil {
			return nil, errors.Wrapf(err, "filter %s", name)
		}
		chain.Add(f)
	}

	return chain, nil
}
