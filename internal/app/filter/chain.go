package filter

import (
	"github.com/Srivibhu/TrackGuessr/internal/domain/track"
)

// Chain executes filters in sequence.
type Chain struct {
	filters []Filter
}

// NewChain creates a new filter chain.
func NewChain() *Chain {
	return &Chain{
		filters: make([]Filter, 0),
	}
}

// Add adds a filter to the chain.
func (c *Chain) Add(f Filter) {
	c.filters = append(c.filters, f)
}

// Apply returns the tracks that pass every filter. The input slice is
// never mutated.
func (c *Chain) Apply(tracks []track.Track) []track.Track {
	kept := make([]track.Track, 0, len(tracks))
	for _, t := range tracks {
		if c.keep(t) {
			kept = append(kept, t)
		}
	}
	return kept
}

// keep reports whether the track passes all filters.
func (c *Chain) keep(t track.Track) bool {
	for _, f := range c.filters {
		if !f.Keep(t) {
			return false
		}
	}
	return true
}

// Filters returns all filters in the chain.
func (c *Chain) Filters() []Filter {
	return c.filters
}
