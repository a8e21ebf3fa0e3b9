package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/najdeno/najdeno/internal/db"
	"github.com/najdeno/najdeno/internal/model"
)

func TestCreateAndGetReport(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, _ := CreateUser(ctx, database, "maja", "hash", model.RoleUser)
	eventDate := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	report, err := CreateReport(ctx, database, user.ID, model.KindLost,
		"electronics", "library", "black backpack", "black nylon backpack with laptop", &eventDate)
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}
	if report.Kind != model.KindLost {
		t.Errorf("kind = %q, want lost", report.Kind)
	}
	if report.Status != model.ReportStatusPending {
		t.Errorf("status = %q, want pending", report.Status)
	}
	if report.EventDate == nil || !report.EventDate.Equal(eventDate) {
		t.Errorf("event date = %v, want %v", report.EventDate, eventDate)
	}
}

func TestCreateReportValidation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, _ := CreateUser(ctx, database, "maja", "hash", model.RoleUser)

	var verr *ValidationError
	_, err := CreateReport(ctx, database, user.ID, "stolen", "", "", "phone", "", nil)
	if !errors.As(err, &verr) {
		t.Errorf("invalid kind error = %v, want ValidationError", err)
	}

	_, err = CreateReport(ctx, database, user.ID, model.KindLost, "", "", "", "", nil)
	if !errors.As(err, &verr) {
		t.Errorf("missing name error = %v, want ValidationError", err)
	}
}

func TestListReportsFilters(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice, _ := CreateUser(ctx, database, "alice", "hash", model.RoleUser)
	bob, _ := CreateUser(ctx, database, "bob", "hash", model.RoleUser)

	lost, _ := CreateReport(ctx, database, alice.ID, model.KindLost, "electronics", "", "phone", "", nil)
	found, _ := CreateReport(ctx, database, bob.ID, model.KindFound, "electronics", "", "phone", "", nil)
	UpdateReportStatus(ctx, database, found.ID, model.ReportStatusApproved)

	all, err := ListReports(ctx, database, ReportFilter{})
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all = %d reports, want 2", len(all))
	}

	foundOnly, _ := ListReports(ctx, database, ReportFilter{Kind: model.KindFound})
	if len(foundOnly) != 1 || foundOnly[0].ID != found.ID {
		t.Errorf("kind filter returned %d reports", len(foundOnly))
	}

	approved, _ := ListReports(ctx, database, ReportFilter{Status: model.ReportStatusApproved})
	if len(approved) != 1 || approved[0].ID != found.ID {
		t.Errorf("status filter returned %d reports", len(approved))
	}

	notAlice, _ := ListReports(ctx, database, ReportFilter{ExcludeUser: alice.ID})
	if len(notAlice) != 1 || notAlice[0].ID != found.ID {
		t.Errorf("exclude filter returned %d reports", len(notAlice))
	}

	_ = lost
}

func TestReportStatusTransitions(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, _ := CreateUser(ctx, database, "maja", "hash", model.RoleUser)
	report, _ := CreateReport(ctx, database, user.ID, model.KindLost, "", "", "phone", "", nil)

	if err := UpdateReportStatus(ctx, database, report.ID, model.ReportStatusApproved); err != nil {
		t.Fatalf("pending → approved: %v", err)
	}

	// No way back.
	var serr *InvalidStateError
	err := UpdateReportStatus(ctx, database, report.ID, model.ReportStatusPending)
	if !errors.As(err, &serr) {
		t.Errorf("approved → pending error = %v, want InvalidStateError", err)
	}

	if err := UpdateReportStatus(ctx, database, report.ID, model.ReportStatusRecovered); err != nil {
		t.Fatalf("approved → recovered: %v", err)
	}

	err = UpdateReportStatus(ctx, database, 999, model.ReportStatusApproved)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown report error = %v, want ErrNotFound", err)
	}
}

func TestSearchReports(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, _ := CreateUser(ctx, database, "maja", "hash", model.RoleUser)
	backpack, _ := CreateReport(ctx, database, user.ID, model.KindFound, "bags", "", "black backpack", "nylon backpack found in gym", nil)
	umbrella, _ := CreateReport(ctx, database, user.ID, model.KindFound, "other", "", "umbrella", "blue umbrella", nil)
	UpdateReportStatus(ctx, database, backpack.ID, model.ReportStatusApproved)
	UpdateReportStatus(ctx, database, umbrella.ID, model.ReportStatusApproved)

	hits, err := SearchReports(ctx, database, []string{"backpack"}, "", "")
	if err != nil {
		t.Fatalf("SearchReports: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != backpack.ID {
		t.Errorf("got %d hits, want the backpack", len(hits))
	}

	// Pending reports are not searchable.
	pending, _ := CreateReport(ctx, database, user.ID, model.KindFound, "bags", "", "backpack two", "another backpack", nil)
	hits, _ = SearchReports(ctx, database, []string{"backpack"}, "", "")
	for _, h := range hits {
		if h.ID == pending.ID {
			t.Error("pending report returned by search")
		}
	}

	// Category filter.
	hits, _ = SearchReports(ctx, database, []string{"backpack", "umbrella"}, "", "other")
	if len(hits) != 1 || hits[0].ID != umbrella.ID {
		t.Errorf("category filter returned %d hits", len(hits))
	}

	// No keywords, no hits.
	hits, _ = SearchReports(ctx, database, nil, "", "")
	if hits != nil {
		t.Errorf("expected nil hits without keywords, got %v", hits)
	}
}

func TestSoftDeleteReport(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, _ := CreateUser(ctx, database, "maja", "hash", model.RoleUser)
	report, _ := CreateReport(ctx, database, user.ID, model.KindLost, "", "", "phone", "", nil)
	DeleteReport(ctx, database, report.ID)

	reports, _ := ListReports(ctx, database, ReportFilter{})
	if len(reports) != 0 {
		t.Errorf("expected 0 reports after soft delete, got %d", len(reports))
	}

	// Still fetchable by ID for match history.
	got, _ := GetReport(ctx, database, report.ID)
	if got == nil {
		t.Error("expected soft-deleted report to still be fetchable by ID")
	}
}

func TestReportPhoto(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, _ := CreateUser(ctx, database, "maja", "hash", model.RoleUser)
	report, _ := CreateReport(ctx, database, user.ID, model.KindFound, "", "", "camera", "", nil)

	photo := []byte("fake photo data")
	if err := SetReportPhoto(ctx, database, report.ID, photo, "image/jpeg"); err != nil {
		t.Fatalf("SetReportPhoto: %v", err)
	}

	data, mime, err := GetReportPhoto(ctx, database, report.ID)
	if err != nil {
		t.Fatalf("GetReportPhoto: %v", err)
	}
	if string(data) != "fake photo data" {
		t.Errorf("photo data = %q", string(data))
	}
	if mime != "image/jpeg" {
		t.Errorf("mime = %q, want image/jpeg", mime)
	}
}
