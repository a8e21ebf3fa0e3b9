package store

import (
	"context"
	"database/sql"

	"github.com/najdeno/najdeno/internal/model"
)

// ReportSource adapts the report store to the matching engine's ItemSource
// interface.
type ReportSource struct {
	DB *sql.DB
}

func (s ReportSource) ReportsByUser(ctx context.Context, userID int64) ([]model.Report, error) {
	return ListReports(ctx, s.DB, ReportFilter{UserID: userID})
}

func (s ReportSource) Candidates(ctx context.Context, kind string, excludeUser int64) ([]model.Report, error) {
	return ListReports(ctx, s.DB, ReportFilter{
		Kind:        kind,
		Status:      model.ReportStatusApproved,
		ExcludeUser: excludeUser,
	})
}

func (s ReportSource) Search(ctx context.Context, keywords []string, category string) ([]model.Report, error) {
	return SearchReports(ctx, s.DB, keywords, "", category)
}
