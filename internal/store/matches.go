package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/najdeno/najdeno/internal/model"
)

const matchColumns = `id, lost_item_id, found_item_id, score, status, created_by,
	confirmed_by, confirmed_at, reject_reason, created_at, updated_at`

// CreateMatch promotes a scored candidate pairing to a pending match record.
// Validates inside one transaction that both reports exist, are of the
// expected kinds, and that no confirmed match already exists for the lost
// item.
func CreateMatch(ctx context.Context, db *sql.DB, lostItemID, foundItemID int64, score int, createdBy int64) (*model.Match, error) {
	if score < 0 || score > 100 {
		return nil, &ValidationError{Reason: fmt.Sprintf("score %d outside [0,100]", score)}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	lostKind, err := reportKind(ctx, tx, lostItemID)
	if err != nil {
		return nil, err
	}
	foundKind, err := reportKind(ctx, tx, foundItemID)
	if err != nil {
		return nil, err
	}
	if lostKind != model.KindLost || foundKind != model.KindFound {
		return nil, &ValidationError{
			Reason: fmt.Sprintf("match requires a lost and a found report, got %s and %s", lostKind, foundKind),
		}
	}

	var confirmed int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM matches WHERE lost_item_id = ? AND status = ?`,
		lostItemID, model.MatchStatusConfirmed,
	).Scan(&confirmed)
	if err != nil {
		return nil, fmt.Errorf("checking confirmed matches: %w", err)
	}
	if confirmed > 0 {
		return nil, &ValidationError{
			Reason: fmt.Sprintf("lost item %d already has a confirmed match", lostItemID),
		}
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO matches (lost_item_id, found_item_id, score, created_by)
		 VALUES (?, ?, ?, ?)`,
		lostItemID, foundItemID, score, createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("creating match: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing match: %w", err)
	}

	id, _ := result.LastInsertId()
	return GetMatch(ctx, db, id)
}

// GetMatch returns a match by ID.
func GetMatch(ctx context.Context, db *sql.DB, id int64) (*model.Match, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE id = ?`, id,
	)
	return scanMatch(row)
}

// ConfirmMatch moves a pending match to confirmed, stamping the confirming
// actor and time. The status check and write are a single conditional
// update inside a transaction, so two concurrent confirmations for the same
// match (or the same lost item, via the partial unique index) cannot both
// succeed.
func ConfirmMatch(ctx context.Context, db *sql.DB, id, confirmedBy int64) (*model.Match, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := matchStatus(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if current != model.MatchStatusPending {
		return nil, &InvalidStateError{
			Reason: fmt.Sprintf("match is %s, only pending matches can be confirmed", current),
		}
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE matches
		 SET status = ?, confirmed_by = ?, confirmed_at = CURRENT_TIMESTAMP,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ?`,
		model.MatchStatusConfirmed, confirmedBy, id, model.MatchStatusPending,
	)
	if err != nil {
		return nil, fmt.Errorf("confirming match: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking confirm result: %w", err)
	}
	if affected == 0 {
		return nil, &InvalidStateError{Reason: "match is no longer pending"}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing confirmation: %w", err)
	}

	return GetMatch(ctx, db, id)
}

// RejectMatch moves a pending match to rejected with an optional reason.
// Item lifecycles are untouched.
func RejectMatch(ctx context.Context, db *sql.DB, id, rejectedBy int64, reason string) (*model.Match, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := matchStatus(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if current != model.MatchStatusPending {
		return nil, &InvalidStateError{
			Reason: fmt.Sprintf("match is %s, only pending matches can be rejected", current),
		}
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE matches
		 SET status = ?, confirmed_by = ?, reject_reason = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ?`,
		model.MatchStatusRejected, rejectedBy, reason, id, model.MatchStatusPending,
	)
	if err != nil {
		return nil, fmt.Errorf("rejecting match: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking reject result: %w", err)
	}
	if affected == 0 {
		return nil, &InvalidStateError{Reason: "match is no longer pending"}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing rejection: %w", err)
	}

	return GetMatch(ctx, db, id)
}

// MatchFilter narrows ListMatches results. Zero values mean "no filter".
type MatchFilter struct {
	Status      string
	LostItemID  int64
	FoundItemID int64
	CreatedBy   int64
}

// ListMatches returns match history matching the filter, newest first, with
// 1-indexed pagination. Total reflects the pre-pagination count.
func ListMatches(ctx context.Context, db *sql.DB, f MatchFilter, page, pageSize int) ([]model.Match, int, error) {
	where := ` WHERE 1=1`
	var args []any

	if f.Status != "" {
		where += ` AND status = ?`
		args = append(args, f.Status)
	}
	if f.LostItemID > 0 {
		where += ` AND lost_item_id = ?`
		args = append(args, f.LostItemID)
	}
	if f.FoundItemID > 0 {
		where += ` AND found_item_id = ?`
		args = append(args, f.FoundItemID)
	}
	if f.CreatedBy > 0 {
		where += ` AND created_by = ?`
		args = append(args, f.CreatedBy)
	}

	var total int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches`+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("counting matches: %w", err)
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	query := `SELECT ` + matchColumns + ` FROM matches` + where +
		` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing matches: %w", err)
	}
	defer rows.Close()

	var matches []model.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, 0, err
		}
		matches = append(matches, *m)
	}
	return matches, total, rows.Err()
}

// ReportLifecycle advances item reports after a confirmed match: the lost
// report becomes recovered, the found report claimed. Implements
// match.Lifecycle.
type ReportLifecycle struct {
	DB *sql.DB
}

func (l ReportLifecycle) MatchConfirmed(ctx context.Context, lostItemID, foundItemID int64) error {
	if err := UpdateReportStatus(ctx, l.DB, lostItemID, model.ReportStatusRecovered); err != nil {
		return fmt.Errorf("advancing lost report %d: %w", lostItemID, err)
	}
	if err := UpdateReportStatus(ctx, l.DB, foundItemID, model.ReportStatusClaimed); err != nil {
		return fmt.Errorf("advancing found report %d: %w", foundItemID, err)
	}
	return nil
}

func reportKind(ctx context.Context, tx *sql.Tx, id int64) (string, error) {
	var kind string
	err := tx.QueryRowContext(ctx,
		`SELECT kind FROM reports WHERE id = ? AND deleted_at IS NULL`, id,
	).Scan(&kind)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("report %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("getting report kind: %w", err)
	}
	return kind, nil
}

func matchStatus(ctx context.Context, tx *sql.Tx, id int64) (string, error) {
	var status string
	err := tx.QueryRowContext(ctx,
		`SELECT status FROM matches WHERE id = ?`, id,
	).Scan(&status)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("match %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("getting match status: %w", err)
	}
	return status, nil
}

func scanMatch(row rowScanner) (*model.Match, error) {
	m := &model.Match{}
	var confirmedBy sql.NullInt64
	var confirmedAt sql.NullTime
	var rejectReason sql.NullString
	err := row.Scan(&m.ID, &m.LostItemID, &m.FoundItemID, &m.Score, &m.Status,
		&m.CreatedBy, &confirmedBy, &confirmedAt, &rejectReason, &m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning match: %w", err)
	}
	if confirmedBy.Valid {
		m.ConfirmedBy = &confirmedBy.Int64
	}
	if confirmedAt.Valid {
		t := confirmedAt.Time
		m.ConfirmedAt = &t
	}
	m.RejectReason = rejectReason.String
	return m, nil
}
