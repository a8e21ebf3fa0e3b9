package match

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/najdeno/najdeno/internal/metrics"
	"github.com/najdeno/najdeno/internal/model"
)

// ItemSource provides read access to the item repository. Implemented by
// the report store; the engine itself never touches the database.
type ItemSource interface {
	// ReportsByUser returns the user's own non-deleted reports.
	ReportsByUser(ctx context.Context, userID int64) ([]model.Report, error)
	// Candidates returns approved reports of the given kind, excluding the
	// given submitter (0 to exclude nobody).
	Candidates(ctx context.Context, kind string, excludeUser int64) ([]model.Report, error)
	// Search returns approved reports whose name or description matches any
	// of the keywords, optionally restricted to a category.
	Search(ctx context.Context, keywords []string, category string) ([]model.Report, error)
}

// Lifecycle advances item reports after a match is confirmed. The engine
// and match store call it but do not implement it; the report store does.
type Lifecycle interface {
	MatchConfirmed(ctx context.Context, lostItemID, foundItemID int64) error
}

// Engine runs the matching queries: structured recommendations for a user's
// reports and lexical search over free-text descriptions.
type Engine struct {
	Items   ItemSource
	Weights Weights
}

// NewEngine creates an engine with default weights.
func NewEngine(items ItemSource) *Engine {
	return &Engine{Items: items, Weights: DefaultWeights()}
}

// RecommendForUser scores approved opposite-kind candidates against each of
// the user's open reports and returns the ranked page of candidates at or
// above MinRecommendScore.
func (e *Engine) RecommendForUser(ctx context.Context, userID int64, page, pageSize int) (Page, error) {
	defer observe("recommend", time.Now())

	sources, err := e.Items.ReportsByUser(ctx, userID)
	if err != nil {
		return Page{}, fmt.Errorf("fetching user reports: %w", err)
	}

	// Candidate pools are shared between same-kind source reports, so fetch
	// each pool at most once.
	pools := map[string][]model.Report{}
	var all []model.MatchCandidate
	for i := range sources {
		src := &sources[i]
		if src.Status != model.ReportStatusPending && src.Status != model.ReportStatusApproved {
			continue
		}
		opposite := model.OppositeKind(src.Kind)
		if opposite == "" {
			continue
		}

		pool, ok := pools[opposite]
		if !ok {
			pool, err = e.Items.Candidates(ctx, opposite, userID)
			if err != nil {
				return Page{}, fmt.Errorf("fetching %s candidates: %w", opposite, err)
			}
			pools[opposite] = pool
		}

		scored, err := e.scoreAll(ctx, src.ID, ReportScorer{Source: src, Weights: e.Weights}, pool)
		if err != nil {
			return Page{}, err
		}
		all = append(all, scored...)
	}

	return Rank(all, MinRecommendScore, page, pageSize), nil
}

// SearchByDescription extracts keywords from a free-text description
// (typically produced by the image recognition provider), queries the item
// repository with them and re-ranks the hits with the description strategy.
// No minimum-score threshold applies.
func (e *Engine) SearchByDescription(ctx context.Context, description, category string, page, pageSize int) (Page, error) {
	defer observe("description_search", time.Now())

	keywords := ExtractKeywords(description)
	if len(keywords) == 0 {
		return Page{Items: []model.MatchCandidate{}}, nil
	}

	hits, err := e.Items.Search(ctx, keywords, category)
	if err != nil {
		return Page{}, fmt.Errorf("searching reports: %w", err)
	}

	scored, err := e.scoreAll(ctx, 0, DescriptionScorer{Query: description, Weights: e.Weights}, hits)
	if err != nil {
		return Page{}, err
	}

	return Rank(scored, 0, page, pageSize), nil
}

// scoreAll evaluates candidates in parallel. Scoring is pure and CPU-bound,
// so the only coordination needed is a bounded fan-out writing to distinct
// slice slots.
func (e *Engine) scoreAll(ctx context.Context, sourceID int64, scorer Scorer, candidates []model.Report) ([]model.MatchCandidate, error) {
	results := make([]model.MatchCandidate, len(candidates))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range candidates {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			score, breakdown := scorer.Score(&candidates[i])
			results[i] = model.MatchCandidate{
				SourceID:  sourceID,
				Report:    candidates[i],
				Score:     score,
				Breakdown: breakdown,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scoring candidates: %w", err)
	}
	return results, nil
}

func observe(strategy string, start time.Time) {
	metrics.MatchQueries.WithLabelValues(strategy).Inc()
	metrics.ScoringDuration.WithLabelValues(strategy).Observe(time.Since(start).Seconds())
}
