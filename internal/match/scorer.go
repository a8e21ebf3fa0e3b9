package match

import (
	"math"

	"github.com/najdeno/najdeno/internal/model"
)

// Scorer rates a candidate report on the 0–100 composite scale.
//
// There are two deliberately separate strategies: ReportScorer for
// recommendation lists (structured attributes plus a small text bonus) and
// DescriptionScorer for free-text search (pure lexical weighting). They are
// used in different request flows and are not numerically identical, so they
// must not be unified.
type Scorer interface {
	Score(candidate *model.Report) (int, model.ScoreBreakdown)
}

// ReportScorer scores opposite-kind candidates against a stored source
// report. Composite = attribute points (≤85) + text bonus (≤TextCap).
type ReportScorer struct {
	Source  *model.Report
	Weights Weights
}

// Score implements Scorer. Deterministic and side-effect free; missing
// fields degrade to zero contributions, never errors.
func (s ReportScorer) Score(candidate *model.Report) (int, model.ScoreBreakdown) {
	attrs := scoreAttributes(s.Source, candidate, s.Weights)

	var descSim, nameSim, overlap float64
	if s.Source.Description != "" && candidate.Description != "" {
		descSim = Similarity(s.Source.Description, candidate.Description)
		overlap = TokenOverlapRatio(s.Source.Description, candidate.Description)
	}
	if s.Source.Name != "" && candidate.Name != "" {
		nameSim = Similarity(s.Source.Name, candidate.Name)
	}

	bonus := int(math.Round(s.Weights.TextDescription*descSim +
		s.Weights.TextName*nameSim +
		s.Weights.TextOverlap*overlap))
	if bonus > s.Weights.TextCap {
		bonus = s.Weights.TextCap
	}

	score := attrs.Total() + bonus
	if score > 100 {
		score = 100
	}

	return score, model.ScoreBreakdown{
		Category:    attrs.Category,
		Location:    attrs.Location,
		Time:        attrs.Time,
		Text:        bonus,
		Description: descSim,
		Name:        nameSim,
		Overlap:     overlap,
	}
}

// DescriptionScorer scores candidates against an externally derived
// free-text description (typically from the image recognition provider).
// Composite = 100 · (0.5·descSim + 0.3·nameSim + 0.2·overlap), independent
// of the structured attributes.
type DescriptionScorer struct {
	Query   string
	Weights Weights
}

// Score implements Scorer.
func (s DescriptionScorer) Score(candidate *model.Report) (int, model.ScoreBreakdown) {
	var descSim, nameSim, overlap float64
	if s.Query != "" && candidate.Description != "" {
		descSim = Similarity(s.Query, candidate.Description)
		overlap = TokenOverlapRatio(s.Query, candidate.Description)
	}
	if s.Query != "" && candidate.Name != "" {
		nameSim = Similarity(s.Query, candidate.Name)
	}

	score := int(math.Round(100 * (s.Weights.SearchDescription*descSim +
		s.Weights.SearchName*nameSim +
		s.Weights.SearchOverlap*overlap)))
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	return score, model.ScoreBreakdown{
		Description: descSim,
		Name:        nameSim,
		Overlap:     overlap,
	}
}
