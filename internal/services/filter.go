package services

import (
	"context"
	"errors"
	"math/rand"

	"github.com/ad/go-telegram-practice/internal/fsm"
	"github.com/ad/go-telegram-practice/internal/models"
)

// MaxProblems caps how many problems one flow may deliver.
const MaxProblems = 10

// ErrUnknownMode rejects queries whose mode is outside the closed set.
// The controller cannot produce one, so hitting this means a bug.
var ErrUnknownMode = errors.New("unknown filter mode")

// Catalog is the read surface of the problemset cache.
type Catalog interface {
	Problems(ctx context.Context, force bool) []models.Problem
}

type FilterEngine struct {
	catalog Catalog
}

func NewFilterEngine(catalog Catalog) *FilterEngine {
	return &FilterEngine{catalog: catalog}
}

// Query carries the accumulated filter params of one completed flow.
// Only the fields relevant to Mode are consulted.
type Query struct {
	Mode        fsm.Mode
	Rating      int
	Tag         string
	IndexLetter string
	Count       int
}

// Select narrows the cached problemset by the query's mode, shuffles
// the matches and returns at most Count of them. Fewer matches than
// Count returns all of them.
func (f *FilterEngine) Select(ctx context.Context, q Query) ([]models.Problem, error) {
	var match func(models.Problem) bool
	switch q.Mode {
	case fsm.ModeRating:
		match = func(p models.Problem) bool {
			return p.Rating != nil && *p.Rating == q.Rating
		}
	case fsm.ModeTag:
		match = func(p models.Problem) bool {
			return p.HasTag(q.Tag)
		}
	case fsm.ModeIndex:
		match = func(p models.Problem) bool {
			return p.Index == q.IndexLetter
		}
	case fsm.ModeRatingTag:
		match = func(p models.Problem) bool {
			return p.Rating != nil && *p.Rating == q.Rating && p.HasTag(q.Tag)
		}
	default:
		return nil, ErrUnknownMode
	}

	var matched []models.Problem
	for _, p := range f.catalog.Problems(ctx, false) {
		if match(p) {
			matched = append(matched, p)
		}
	}

	rand.Shuffle(len(matched), func(i, j int) {
		matched[i], matched[j] = matched[j], matched[i]
	})

	if q.Count < len(matched) {
		matched = matched[:q.Count]
	}
	return matched, nil
}

// ClampCount bounds a user-supplied problem count to [1, MaxProblems].
func ClampCount(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxProblems {
		return MaxProblems
	}
	return n
}
