// Package preview resolves fallback audio preview URLs for tracks whose
// primary catalog record lacks one.
package preview

import (
	"context"
	"strings"
	"sync"

	zlog "github.com/rs/zerolog/log"

	"github.com/Srivibhu/TrackGuessr/internal/app/normalize"
	"github.com/Srivibhu/TrackGuessr/internal/infra/itunes"
)

// candidateLimit bounds the result set requested from the lookup service.
const candidateLimit = 5

// SearchClient defines the lookup-service operations the resolver needs.
type SearchClient interface {
	Search(ctx context.Context, term string, limit int) ([]itunes.Result, error)
}

// cacheKey identifies a (title, artist) lookup. Artist may be empty.
type cacheKey struct {
	title  string
	artist string
}

// Resolver finds preview URLs via an external search service and memoizes
// the outcome for the process lifetime. Negative outcomes (transport
// failure, no match) are cached too, so a lookup is attempted at most once
// per key. The title/artist to preview mapping is effectively static, which
// is what makes the unbounded cache acceptable.
type Resolver struct {
	client SearchClient

	mu    sync.RWMutex
	cache map[cacheKey]string // "" means a cached negative
}

// NewResolver creates a new Resolver backed by the given search client.
func NewResolver(client SearchClient) *Resolver {
	return &Resolver{
		client: client,
		cache:  make(map[cacheKey]string),
	}
}

// Resolve returns a playable preview URL for the given track title, or ""
// when none could be found. Artist may be empty. Resolve never returns an
// error: any failure mode degrades to "no preview" and is cached as such.
func (r *Resolver) Resolve(ctx context.Context, title, artist string) string {
	if strings.TrimSpace(title) == "" {
		return ""
	}

	key := cacheKey{
		title:  strings.ToLower(strings.TrimSpace(title)),
		artist: strings.ToLower(strings.TrimSpace(artist)),
	}

	r.mu.RLock()
	cached, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return cached
	}

	preview := r.lookup(ctx, title, artist)

	r.mu.Lock()
	r.cache[key] = preview
	r.mu.Unlock()

	return preview
}

// lookup performs the upstream search and strict title matching.
func (r *Resolver) lookup(ctx context.Context, title, artist string) string {
	query := title
	if artist != "" {
		query += " " + artist
	}

	results, err := r.client.Search(ctx, query, candidateLimit)
	if err != nil {
		zlog.Warn().Msgf("preview lookup failed: title=%q artist=%q error=%v", title, artist, err)
		return ""
	}
	if len(results) == 0 {
		zlog.Debug().Msgf("preview lookup returned no results: title=%q artist=%q", title, artist)
		return ""
	}

	target := normalize.Title(title)

	// Accept the first candidate whose normalized title matches exactly.
	// A wrong preview is worse than no preview, so no looser matching.
	for _, item := range results {
		candidateTitle := item.TrackName
		if candidateTitle == "" {
			candidateTitle = item.CollectionName
		}
		if item.PreviewURL == "" || candidateTitle == "" {
			continue
		}

		if normalize.Title(candidateTitle) == target {
			return item.PreviewURL
		}
	}

	zlog.Debug().Msgf("no preview candidate matched: title=%q artist=%q", title, artist)
	return ""
}
