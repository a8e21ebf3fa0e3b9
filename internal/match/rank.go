package match

import (
	"sort"

	"github.com/najdeno/najdeno/internal/model"
)

// Page is one page of ranked candidates. Total counts all candidates that
// passed the threshold, before slicing.
type Page struct {
	Items []model.MatchCandidate `json:"items"`
	Total int                    `json:"total"`
}

// Rank sorts candidates descending by score, drops those below minScore and
// returns the requested 1-indexed page. Ties are broken by ascending report
// id so ranking is deterministic. Pages past the end return an empty slice,
// never an error.
func Rank(candidates []model.MatchCandidate, minScore, page, pageSize int) Page {
	kept := make([]model.MatchCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Score >= minScore {
			kept = append(kept, c)
		}
	}

	sort.Slice(kept, func(i, j int) bool {
		if kept[i].Score != kept[j].Score {
			return kept[i].Score > kept[j].Score
		}
		return kept[i].Report.ID < kept[j].Report.ID
	})

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	start := (page - 1) * pageSize
	if start >= len(kept) {
		return Page{Items: []model.MatchCandidate{}, Total: len(kept)}
	}
	end := start + pageSize
	if end > len(kept) {
		end = len(kept)
	}
	return Page{Items: kept[start:end], Total: len(kept)}
}
