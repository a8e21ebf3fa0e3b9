package match

import (
	"strings"
	"time"

	"github.com/najdeno/najdeno/internal/model"
)

// AttributePoints holds the structured-factor contributions for a pair of
// reports. The total never exceeds 85 with default weights.
type AttributePoints struct {
	Category int
	Location int
	Time     int
}

// Total returns the summed attribute points.
func (p AttributePoints) Total() int {
	return p.Category + p.Location + p.Time
}

// scoreAttributes compares category, location and event-date compatibility
// of two reports. Pure function; missing fields on either side score zero
// for that factor.
func scoreAttributes(a, b *model.Report, w Weights) AttributePoints {
	return AttributePoints{
		Category: scoreCategory(a.Category, b.Category, w),
		Location: scoreLocation(a.Location, b.Location, w),
		Time:     scoreTime(a.EventDate, b.EventDate, w),
	}
}

func scoreCategory(a, b string, w Weights) int {
	if a == "" || b == "" {
		return 0
	}
	if strings.EqualFold(a, b) {
		return w.Category
	}
	return 0
}

func scoreLocation(a, b string, w Weights) int {
	if a == "" || b == "" {
		return 0
	}
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la == lb {
		return w.LocationExact
	}
	if strings.Contains(la, lb) || strings.Contains(lb, la) {
		return w.LocationContains
	}
	for _, landmark := range landmarks {
		if strings.Contains(la, landmark) && strings.Contains(lb, landmark) {
			return w.LocationLandmark
		}
	}
	return 0
}

func scoreTime(a, b *time.Time, w Weights) int {
	if a == nil || b == nil {
		return 0
	}
	diff := daysBetween(*a, *b)
	switch {
	case diff <= 1:
		return w.TimeAdjacent
	case diff <= 3:
		return w.TimeClose
	case diff <= 7:
		return w.TimeSameWeek
	}
	return 0
}

// daysBetween returns the absolute difference between two calendar dates in
// whole days, ignoring any time-of-day component.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	diff := int(da.Sub(db).Hours() / 24)
	if diff < 0 {
		diff = -diff
	}
	return diff
}
