package quiz

import (
	"context"
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/Srivibhu/TrackGuessr/internal/domain/track"
)

// PreviewResolver finds a fallback audio preview URL for a track whose
// catalog record has none. An empty result means no preview; resolution
// never fails.
type PreviewResolver interface {
	Resolve(ctx context.Context, title, artist string) string
}

// Builder constructs quizzes from raw track lists. Building is
// best-effort by contract: malformed tracks are skipped, missing fields
// become nulls, and the worst case is a quiz with zero questions.
type Builder struct {
	resolver PreviewResolver
}

// NewBuilder creates a new quiz builder.
func NewBuilder(resolver PreviewResolver) *Builder {
	return &Builder{resolver: resolver}
}

// Build creates a quiz of up to numQuestions questions from the given
// tracks, each with up to optionsPerQ title options. The input slice is
// never mutated. Build never returns an error: an unusable track list
// yields an empty quiz.
func (b *Builder) Build(ctx context.Context, tracks []track.Track, numQuestions, optionsPerQ int) Quiz {
	q := Quiz{Questions: []Question{}}

	if len(tracks) == 0 || numQuestions <= 0 {
		return q
	}

	cleaned := make([]track.Track, 0, len(tracks))
	for _, t := range tracks {
		if t.HasTitle() {
			cleaned = append(cleaned, t)
		}
	}
	if len(cleaned) == 0 {
		return q
	}

	rng := newRand()

	// Shuffle a working copy and take the question set from its head.
	// The full cleaned list stays intact as the distractor title pool.
	shuffled := make([]track.Track, len(cleaned))
	copy(shuffled, cleaned)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	chosen := shuffled
	if len(chosen) > numQuestions {
		chosen = chosen[:numQuestions]
	}

	titlePool := make([]string, 0, len(cleaned))
	for _, t := range cleaned {
		titlePool = append(titlePool, t.Name)
	}

	for _, t := range chosen {
		if !t.HasTitle() {
			continue
		}
		q.Questions = append(q.Questions, b.buildQuestion(ctx, t, titlePool, optionsPerQ, rng))
	}

	zlog.Debug().Msgf("built quiz: tracks=%d cleaned=%d questions=%d", len(tracks), len(cleaned), len(q.Questions))
	return q
}

// buildQuestion derives one question from a chosen track.
func (b *Builder) buildQuestion(ctx context.Context, t track.Track, titlePool []string, optionsPerQ int, rng *rand.Rand) Question {
	previewURL := t.PreviewURL
	if previewURL == "" && b.resolver != nil {
		previewURL = b.resolver.Resolve(ctx, t.Name, t.PrimaryArtist())
	}

	options := append([]string{t.Name}, b.pickDistractors(t.Name, titlePool, optionsPerQ-1, rng)...)
	rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return Question{
		AudioURL:    optional(previewURL),
		Image:       optional(t.AlbumArtURL),
		Artist:      t.ArtistDisplay(),
		Correct:     t.Name,
		Options:     options,
		ExternalURL: optional(t.ExternalURL),
	}
}

// pickDistractors draws up to count titles from the pool, excluding the
// correct title by exact string equality. Exclusion is textual, not by
// track identity: a different recording sharing the correct track's exact
// title is excluded too, while near-identical spellings are not. Picked
// titles are deduplicated so a question never shows the same option
// twice. Fewer distractors than requested is fine.
func (b *Builder) pickDistractors(correct string, titlePool []string, count int, rng *rand.Rand) []string {
	if count <= 0 {
		return nil
	}

	candidates := make([]string, 0, len(titlePool))
	for _, title := range titlePool {
		if title != correct {
			candidates = append(candidates, title)
		}
	}
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	distractors := make([]string, 0, count)
	seen := map[string]bool{correct: true}
	for _, title := range candidates {
		if len(distractors) == count {
			break
		}
		if seen[title] {
			continue
		}
		seen[title] = true
		distractors = append(distractors, title)
	}
	return distractors
}

// optional maps "" to a JSON null.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// newRand returns a rand source seeded from crypto entropy, falling back
// to the clock.
func newRand() *rand.Rand {
	var seed int64
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err == nil {
		seed = int64(binary.LittleEndian.Uint64(buf[:]))
	} else {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
