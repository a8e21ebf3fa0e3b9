package model

import "time"

// Match is a persisted, explicitly confirmed pairing between a lost and a
// found report. Created as pending when a scored candidate is promoted.
type Match struct {
	ID           int64      `json:"id"`
	LostItemID   int64      `json:"lost_item_id"`
	FoundItemID  int64      `json:"found_item_id"`
	Score        int        `json:"score"`
	Status       string     `json:"status"`
	CreatedBy    int64      `json:"created_by"`
	ConfirmedBy  *int64     `json:"confirmed_by,omitempty"`
	ConfirmedAt  *time.Time `json:"confirmed_at,omitempty"`
	RejectReason string     `json:"reject_reason,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Match statuses. Confirmed and rejected are terminal.
const (
	MatchStatusPending   = "pending"
	MatchStatusConfirmed = "confirmed"
	MatchStatusRejected  = "rejected"
)

// ScoreBreakdown records per-factor contributions to a candidate score.
// Category, Location, Time and Text are point contributions; Description,
// Name and Overlap are the raw similarity ratios they were derived from.
type ScoreBreakdown struct {
	Category    int     `json:"category"`
	Location    int     `json:"location"`
	Time        int     `json:"time"`
	Text        int     `json:"text"`
	Description float64 `json:"description"`
	Name        float64 `json:"name"`
	Overlap     float64 `json:"overlap"`
}

// MatchCandidate is an ephemeral scored pairing, computed on demand and
// never persisted unless promoted to a Match.
type MatchCandidate struct {
	SourceID  int64          `json:"source_id,omitempty"`
	Report    Report         `json:"report"`
	Score     int            `json:"score"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}
