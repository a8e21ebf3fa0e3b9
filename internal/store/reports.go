package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/najdeno/najdeno/internal/model"
)

const reportColumns = `id, user_id, kind, category, location, event_date, name,
	description, photo_mime, status, created_at, updated_at, deleted_at`

// CreateReport creates a new lost or found report in pending status.
func CreateReport(ctx context.Context, db *sql.DB, userID int64, kind, category, location, name, description string, eventDate *time.Time) (*model.Report, error) {
	if kind != model.KindLost && kind != model.KindFound {
		return nil, &ValidationError{Reason: fmt.Sprintf("invalid report kind %q", kind)}
	}
	if name == "" {
		return nil, &ValidationError{Reason: "name required"}
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO reports (user_id, kind, category, location, event_date, name, description)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		userID, kind, category, location, eventDate, name, description,
	)
	if err != nil {
		return nil, fmt.Errorf("creating report: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting report id: %w", err)
	}

	return GetReport(ctx, db, id)
}

// GetReport returns a report by ID, including soft-deleted ones so that
// match history stays resolvable.
func GetReport(ctx context.Context, db *sql.DB, id int64) (*model.Report, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE id = ?`, id,
	)
	return scanReport(row)
}

// ReportFilter narrows ListReports results. Zero values mean "no filter".
type ReportFilter struct {
	Kind        string
	Category    string
	Status      string
	UserID      int64
	ExcludeUser int64
}

// ListReports returns non-deleted reports matching the filter, newest first.
func ListReports(ctx context.Context, db *sql.DB, f ReportFilter) ([]model.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE deleted_at IS NULL`
	var args []any

	if f.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, f.Kind)
	}
	if f.Category != "" {
		query += ` AND category = ? COLLATE NOCASE`
		args = append(args, f.Category)
	}
	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, f.Status)
	}
	if f.UserID > 0 {
		query += ` AND user_id = ?`
		args = append(args, f.UserID)
	}
	if f.ExcludeUser > 0 {
		query += ` AND user_id != ?`
		args = append(args, f.ExcludeUser)
	}

	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	return scanReports(rows)
}

// SearchReports returns approved reports whose name or description contains
// any of the keywords, optionally restricted to a category and kind.
func SearchReports(ctx context.Context, db *sql.DB, keywords []string, kind, category string) ([]model.Report, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	query := `SELECT ` + reportColumns + ` FROM reports
	          WHERE deleted_at IS NULL AND status = ?`
	args := []any{model.ReportStatusApproved}

	if kind != "" {
		query += ` AND kind = ?`
		args = append(args, kind)
	}
	if category != "" {
		query += ` AND category = ? COLLATE NOCASE`
		args = append(args, category)
	}

	var clauses []string
	for _, kw := range keywords {
		clauses = append(clauses, `(name LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\')`)
		pattern := "%" + escapeLike(kw) + "%"
		args = append(args, pattern, pattern)
	}
	query += ` AND (` + strings.Join(clauses, ` OR `) + `) ORDER BY id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching reports: %w", err)
	}
	defer rows.Close()

	return scanReports(rows)
}

// UpdateReportStatus moves a report through its lifecycle. Only forward
// transitions are allowed; anything else fails with InvalidStateError.
func UpdateReportStatus(ctx context.Context, db *sql.DB, id int64, status string) error {
	report, err := GetReport(ctx, db, id)
	if err != nil {
		return err
	}
	if report == nil {
		return fmt.Errorf("report %d: %w", id, ErrNotFound)
	}
	if !model.CanTransitionReport(report.Status, status) {
		return &InvalidStateError{
			Reason: fmt.Sprintf("report cannot move from %s to %s", report.Status, status),
		}
	}

	_, err = db.ExecContext(ctx,
		`UPDATE reports SET status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("updating report status: %w", err)
	}
	return nil
}

// DeleteReport soft-deletes a report.
func DeleteReport(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE reports SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting report: %w", err)
	}
	return nil
}

// SetReportPhoto stores a report's photo data.
func SetReportPhoto(ctx context.Context, db *sql.DB, id int64, photo []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE reports SET photo = ?, photo_mime = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		photo, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting report photo: %w", err)
	}
	return nil
}

// GetReportPhoto returns a report's photo data and MIME type.
func GetReportPhoto(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var photo []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT photo, photo_mime FROM reports WHERE id = ?`, id,
	).Scan(&photo, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting report photo: %w", err)
	}
	return photo, mime.String, nil
}

// escapeLike escapes LIKE wildcards in user-supplied keywords.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `%`, `\%`)
	return strings.ReplaceAll(s, `_`, `\_`)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*model.Report, error) {
	r := &model.Report{}
	var category, location, description, photoMime sql.NullString
	var eventDate sql.NullTime
	err := row.Scan(&r.ID, &r.UserID, &r.Kind, &category, &location, &eventDate,
		&r.Name, &description, &photoMime, &r.Status, &r.CreatedAt, &r.UpdatedAt, &r.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning report: %w", err)
	}
	r.Category = category.String
	r.Location = location.String
	r.Description = description.String
	r.PhotoMime = photoMime.String
	if eventDate.Valid {
		d := eventDate.Time
		r.EventDate = &d
	}
	return r, nil
}

func scanReports(rows *sql.Rows) ([]model.Report, error) {
	var reports []model.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *r)
	}
	return reports, rows.Err()
}
