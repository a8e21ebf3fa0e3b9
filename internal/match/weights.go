// Package match implements the item matching and similarity ranking engine:
// multi-factor attribute scoring, lexical text similarity, keyword overlap,
// two composite scoring strategies and threshold-based ranking.
package match

// Weights groups every scoring constant in one place so tests can assert on
// them directly and operators can tune them without touching the scorers.
// All point values are on the 0–100 composite scale.
type Weights struct {
	// Attribute factors (total at most 85 points).
	Category         int // exact case-insensitive category match
	LocationExact    int // exact case-insensitive location match
	LocationContains int // one location contains the other
	LocationLandmark int // both locations mention the same landmark
	TimeAdjacent     int // event dates at most 1 day apart
	TimeClose        int // at most 3 days apart
	TimeSameWeek     int // at most 7 days apart

	// Structured text bonus (capped at TextCap points).
	TextDescription float64
	TextName        float64
	TextOverlap     float64
	TextCap         int

	// Description-search strategy (ratios, scaled to 100).
	SearchDescription float64
	SearchName        float64
	SearchOverlap     float64
}

// DefaultWeights returns the tuning the platform ships with.
func DefaultWeights() Weights {
	return Weights{
		Category:         40,
		LocationExact:    30,
		LocationContains: 20,
		LocationLandmark: 10,
		TimeAdjacent:     15,
		TimeClose:        10,
		TimeSameWeek:     5,

		TextDescription: 10,
		TextName:        5,
		TextOverlap:     5,
		TextCap:         15,

		SearchDescription: 0.5,
		SearchName:        0.3,
		SearchOverlap:     0.2,
	}
}

// MinRecommendScore is the minimum composite score for a candidate to appear
// in a recommendation list. Raw description search applies no threshold.
const MinRecommendScore = 60

// DefaultPageSize is used when a query does not specify a page size.
const DefaultPageSize = 20

// landmarks are campus locations that count as a weak match when both
// free-text locations mention the same one.
var landmarks = []string{
	"library",
	"cafeteria",
	"dormitory",
	"teaching building",
	"gym",
	"lab",
	"classroom",
}
