package model

import "time"

// Report represents one lost or found item submission.
type Report struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	Kind        string     `json:"kind"`
	Category    string     `json:"category,omitempty"`
	Location    string     `json:"location,omitempty"`
	EventDate   *time.Time `json:"event_date,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	PhotoMime   string     `json:"photo_mime,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// Report kinds. Immutable after creation.
const (
	KindLost  = "lost"
	KindFound = "found"
)

// Report statuses.
const (
	ReportStatusPending   = "pending"
	ReportStatusApproved  = "approved"
	ReportStatusRejected  = "rejected"
	ReportStatusClaimed   = "claimed"
	ReportStatusRecovered = "recovered"
)

// OppositeKind returns the counterpart kind for matching, or "" if kind is
// not a valid report kind.
func OppositeKind(kind string) string {
	switch kind {
	case KindLost:
		return KindFound
	case KindFound:
		return KindLost
	}
	return ""
}

// reportTransitions lists the allowed forward status transitions.
// Reviews move pending reports to approved or rejected; a confirmed match
// moves approved reports on to claimed (found item) or recovered (lost item).
var reportTransitions = map[string][]string{
	ReportStatusPending:  {ReportStatusApproved, ReportStatusRejected},
	ReportStatusApproved: {ReportStatusClaimed, ReportStatusRecovered},
}

// CanTransitionReport reports whether a status change is allowed.
// Statuses only move forward; there is no way back to pending.
func CanTransitionReport(from, to string) bool {
	for _, next := range reportTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
