package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/najdeno/najdeno/internal/db"
	"github.com/najdeno/najdeno/internal/model"
)

// matchFixture creates a user, an approved lost report and an approved
// found report.
func matchFixture(t *testing.T, database *sql.DB) (userID, lostID, foundID int64) {
	t.Helper()
	ctx := context.Background()

	user, err := CreateUser(ctx, database, "maja", "hash", model.RoleUser)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	lost, err := CreateReport(ctx, database, user.ID, model.KindLost, "electronics", "library", "black backpack", "nylon backpack", nil)
	if err != nil {
		t.Fatalf("CreateReport lost: %v", err)
	}
	found, err := CreateReport(ctx, database, user.ID, model.KindFound, "electronics", "library", "black bag", "backpack near entrance", nil)
	if err != nil {
		t.Fatalf("CreateReport found: %v", err)
	}

	if err := UpdateReportStatus(ctx, database, lost.ID, model.ReportStatusApproved); err != nil {
		t.Fatalf("approving lost: %v", err)
	}
	if err := UpdateReportStatus(ctx, database, found.ID, model.ReportStatusApproved); err != nil {
		t.Fatalf("approving found: %v", err)
	}

	return user.ID, lost.ID, found.ID
}

func TestCreateMatch(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	userID, lostID, foundID := matchFixture(t, database)

	m, err := CreateMatch(ctx, database, lostID, foundID, 85, userID)
	if err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}
	if m.Status != model.MatchStatusPending {
		t.Errorf("status = %q, want pending", m.Status)
	}
	if m.Score != 85 {
		t.Errorf("score = %d, want 85", m.Score)
	}
	if m.CreatedBy != userID {
		t.Errorf("created_by = %d, want %d", m.CreatedBy, userID)
	}
}

func TestCreateMatchValidation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	userID, lostID, foundID := matchFixture(t, database)

	var verr *ValidationError

	// Two lost-kind items cannot be matched.
	otherLost, _ := CreateReport(ctx, database, userID, model.KindLost, "", "", "wallet", "", nil)
	_, err := CreateMatch(ctx, database, lostID, otherLost.ID, 50, userID)
	if !errors.As(err, &verr) {
		t.Errorf("same-kind pair error = %v, want ValidationError", err)
	}

	// Arguments swapped: found item in the lost slot.
	_, err = CreateMatch(ctx, database, foundID, lostID, 50, userID)
	if !errors.As(err, &verr) {
		t.Errorf("swapped kinds error = %v, want ValidationError", err)
	}

	// Unknown report id.
	_, err = CreateMatch(ctx, database, 999, foundID, 50, userID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id error = %v, want ErrNotFound", err)
	}

	// Score outside the composite scale.
	_, err = CreateMatch(ctx, database, lostID, foundID, 101, userID)
	if !errors.As(err, &verr) {
		t.Errorf("score bounds error = %v, want ValidationError", err)
	}
}

func TestConfirmMatch(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	userID, lostID, foundID := matchFixture(t, database)
	m, _ := CreateMatch(ctx, database, lostID, foundID, 85, userID)

	confirmed, err := ConfirmMatch(ctx, database, m.ID, userID)
	if err != nil {
		t.Fatalf("ConfirmMatch: %v", err)
	}
	if confirmed.Status != model.MatchStatusConfirmed {
		t.Errorf("status = %q, want confirmed", confirmed.Status)
	}
	if confirmed.ConfirmedBy == nil || *confirmed.ConfirmedBy != userID {
		t.Errorf("confirmed_by = %v, want %d", confirmed.ConfirmedBy, userID)
	}
	if confirmed.ConfirmedAt == nil {
		t.Error("confirmed_at not stamped")
	}

	// Confirmed is terminal: a second confirmation must fail.
	var serr *InvalidStateError
	_, err = ConfirmMatch(ctx, database, m.ID, userID)
	if !errors.As(err, &serr) {
		t.Errorf("double confirm error = %v, want InvalidStateError", err)
	}
}

func TestConfirmRejectedMatchFails(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	userID, lostID, foundID := matchFixture(t, database)
	m, _ := CreateMatch(ctx, database, lostID, foundID, 85, userID)

	if _, err := RejectMatch(ctx, database, m.ID, userID, "not mine"); err != nil {
		t.Fatalf("RejectMatch: %v", err)
	}

	var serr *InvalidStateError
	_, err := ConfirmMatch(ctx, database, m.ID, userID)
	if !errors.As(err, &serr) {
		t.Errorf("confirm rejected error = %v, want InvalidStateError", err)
	}
}

func TestRejectMatch(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	userID, lostID, foundID := matchFixture(t, database)
	m, _ := CreateMatch(ctx, database, lostID, foundID, 85, userID)

	rejected, err := RejectMatch(ctx, database, m.ID, userID, "wrong color")
	if err != nil {
		t.Fatalf("RejectMatch: %v", err)
	}
	if rejected.Status != model.MatchStatusRejected {
		t.Errorf("status = %q, want rejected", rejected.Status)
	}
	if rejected.RejectReason != "wrong color" {
		t.Errorf("reason = %q", rejected.RejectReason)
	}

	// Rejection leaves the item lifecycle untouched.
	lost, _ := GetReport(ctx, database, lostID)
	if lost.Status != model.ReportStatusApproved {
		t.Errorf("lost report status = %q, want approved", lost.Status)
	}

	var serr *InvalidStateError
	_, err = RejectMatch(ctx, database, m.ID, userID, "again")
	if !errors.As(err, &serr) {
		t.Errorf("double reject error = %v, want InvalidStateError", err)
	}
}

func TestConfirmedMatchBlocksNewMatches(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	userID, lostID, foundID := matchFixture(t, database)

	// A rejected match does not block.
	m1, _ := CreateMatch(ctx, database, lostID, foundID, 70, userID)
	RejectMatch(ctx, database, m1.ID, userID, "no")

	m2, err := CreateMatch(ctx, database, lostID, foundID, 80, userID)
	if err != nil {
		t.Fatalf("CreateMatch after rejection: %v", err)
	}
	if _, err := ConfirmMatch(ctx, database, m2.ID, userID); err != nil {
		t.Fatalf("ConfirmMatch: %v", err)
	}

	// A confirmed match does.
	var verr *ValidationError
	_, err = CreateMatch(ctx, database, lostID, foundID, 90, userID)
	if !errors.As(err, &verr) {
		t.Errorf("create after confirm error = %v, want ValidationError", err)
	}
}

func TestReportLifecycleOnConfirm(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	userID, lostID, foundID := matchFixture(t, database)
	m, _ := CreateMatch(ctx, database, lostID, foundID, 85, userID)

	confirmed, err := ConfirmMatch(ctx, database, m.ID, userID)
	if err != nil {
		t.Fatalf("ConfirmMatch: %v", err)
	}

	lifecycle := ReportLifecycle{DB: database}
	if err := lifecycle.MatchConfirmed(ctx, confirmed.LostItemID, confirmed.FoundItemID); err != nil {
		t.Fatalf("MatchConfirmed: %v", err)
	}

	lost, _ := GetReport(ctx, database, lostID)
	if lost.Status != model.ReportStatusRecovered {
		t.Errorf("lost report = %q, want recovered", lost.Status)
	}
	found, _ := GetReport(ctx, database, foundID)
	if found.Status != model.ReportStatusClaimed {
		t.Errorf("found report = %q, want claimed", found.Status)
	}
}

func TestListMatches(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	userID, lostID, foundID := matchFixture(t, database)

	m1, _ := CreateMatch(ctx, database, lostID, foundID, 70, userID)
	RejectMatch(ctx, database, m1.ID, userID, "no")
	CreateMatch(ctx, database, lostID, foundID, 80, userID)

	all, total, err := ListMatches(ctx, database, MatchFilter{}, 1, 10)
	if err != nil {
		t.Fatalf("ListMatches: %v", err)
	}
	if total != 2 || len(all) != 2 {
		t.Errorf("got %d matches, total %d; want 2 and 2", len(all), total)
	}

	rejected, total, _ := ListMatches(ctx, database, MatchFilter{Status: model.MatchStatusRejected}, 1, 10)
	if total != 1 || len(rejected) != 1 || rejected[0].ID != m1.ID {
		t.Errorf("status filter: got %d matches, total %d", len(rejected), total)
	}

	// Out-of-range page: empty items, total intact.
	page2, total, _ := ListMatches(ctx, database, MatchFilter{}, 2, 10)
	if len(page2) != 0 || total != 2 {
		t.Errorf("page 2: got %d matches, total %d; want 0 and 2", len(page2), total)
	}
}
