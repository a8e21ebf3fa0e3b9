package match

import (
	"context"
	"strings"
	"testing"

	"github.com/najdeno/najdeno/internal/model"
)

// fakeSource is an in-memory ItemSource.
type fakeSource struct {
	reports []model.Report
}

func (f *fakeSource) ReportsByUser(_ context.Context, userID int64) ([]model.Report, error) {
	var out []model.Report
	for _, r := range f.reports {
		if r.UserID == userID && r.DeletedAt == nil {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeSource) Candidates(_ context.Context, kind string, excludeUser int64) ([]model.Report, error) {
	var out []model.Report
	for _, r := range f.reports {
		if r.Kind == kind && r.Status == model.ReportStatusApproved && r.UserID != excludeUser {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeSource) Search(_ context.Context, keywords []string, category string) ([]model.Report, error) {
	var out []model.Report
	for _, r := range f.reports {
		if r.Status != model.ReportStatusApproved {
			continue
		}
		if category != "" && !strings.EqualFold(r.Category, category) {
			continue
		}
		text := strings.ToLower(r.Name + " " + r.Description)
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				out = append(out, r)
				break
			}
		}
	}
	return out, nil
}

func testEngine() (*Engine, *fakeSource) {
	src := &fakeSource{reports: []model.Report{
		// User 1's lost report.
		{ID: 1, UserID: 1, Kind: model.KindLost, Status: model.ReportStatusApproved,
			Category: "electronics", Location: "library", EventDate: date(2024, 3, 1),
			Name: "black backpack", Description: "black nylon backpack with laptop"},
		// Strong found counterpart from another user.
		{ID: 2, UserID: 2, Kind: model.KindFound, Status: model.ReportStatusApproved,
			Category: "electronics", Location: "library", EventDate: date(2024, 3, 2),
			Name: "black bag", Description: "black backpack found near entrance"},
		// Weak counterpart: different everything.
		{ID: 3, UserID: 3, Kind: model.KindFound, Status: model.ReportStatusApproved,
			Category: "clothing", Location: "bus stop", EventDate: date(2024, 5, 20),
			Name: "red scarf", Description: "wool scarf"},
		// The user's own found report must never be recommended to them.
		{ID: 4, UserID: 1, Kind: model.KindFound, Status: model.ReportStatusApproved,
			Category: "electronics", Location: "library", EventDate: date(2024, 3, 1),
			Name: "black backpack", Description: "black nylon backpack with laptop"},
		// Unreviewed counterpart: not a candidate.
		{ID: 5, UserID: 2, Kind: model.KindFound, Status: model.ReportStatusPending,
			Category: "electronics", Location: "library", EventDate: date(2024, 3, 2),
			Name: "black backpack", Description: "black nylon backpack"},
	}}
	return NewEngine(src), src
}

func TestRecommendForUser(t *testing.T) {
	engine, _ := testEngine()

	page, err := engine.RecommendForUser(context.Background(), 1, 1, 10)
	if err != nil {
		t.Fatalf("RecommendForUser: %v", err)
	}

	for _, c := range page.Items {
		if c.Score < MinRecommendScore {
			t.Errorf("candidate %d below threshold: %d", c.Report.ID, c.Score)
		}
		if c.Report.UserID == 1 {
			t.Errorf("user's own report %d recommended to them", c.Report.ID)
		}
		if c.Report.Status != model.ReportStatusApproved {
			t.Errorf("non-approved report %d recommended", c.Report.ID)
		}
	}

	// Report 2 scores 85 attribute points plus text bonus and must appear.
	found := false
	for _, c := range page.Items {
		if c.Report.ID == 2 {
			found = true
			if c.SourceID != 1 {
				t.Errorf("source id = %d, want 1", c.SourceID)
			}
		}
		if c.Report.ID == 3 {
			t.Error("weak candidate 3 should fall below the threshold")
		}
	}
	if !found {
		t.Error("strong candidate 2 missing from recommendations")
	}
}

func TestRecommendForUserNoReports(t *testing.T) {
	engine, _ := testEngine()

	page, err := engine.RecommendForUser(context.Background(), 99, 1, 10)
	if err != nil {
		t.Fatalf("RecommendForUser: %v", err)
	}
	if page.Total != 0 || len(page.Items) != 0 {
		t.Errorf("expected empty page for user with no reports, got %+v", page)
	}
}

func TestSearchByDescription(t *testing.T) {
	engine, _ := testEngine()

	page, err := engine.SearchByDescription(context.Background(),
		"black nylon backpack with laptop", "", 1, 10)
	if err != nil {
		t.Fatalf("SearchByDescription: %v", err)
	}
	if len(page.Items) == 0 {
		t.Fatal("expected search hits")
	}

	// No threshold: even weak hits stay, ordered by score.
	for i := 1; i < len(page.Items); i++ {
		if page.Items[i].Score > page.Items[i-1].Score {
			t.Fatal("search results not sorted descending")
		}
	}
	if page.Items[0].Report.ID != 2 && page.Items[0].Report.ID != 4 {
		t.Errorf("best hit = %d, want a backpack report", page.Items[0].Report.ID)
	}
}

func TestSearchByDescriptionCategoryFilter(t *testing.T) {
	engine, _ := testEngine()

	page, err := engine.SearchByDescription(context.Background(),
		"wool scarf", "clothing", 1, 10)
	if err != nil {
		t.Fatalf("SearchByDescription: %v", err)
	}
	for _, c := range page.Items {
		if !strings.EqualFold(c.Report.Category, "clothing") {
			t.Errorf("hit %d has category %q, want clothing", c.Report.ID, c.Report.Category)
		}
	}
}

func TestSearchByDescriptionNoKeywords(t *testing.T) {
	engine, _ := testEngine()

	page, err := engine.SearchByDescription(context.Background(), "a an of", "", 1, 10)
	if err != nil {
		t.Fatalf("SearchByDescription: %v", err)
	}
	if len(page.Items) != 0 {
		t.Errorf("expected no hits for stop-word-only query, got %d", len(page.Items))
	}
}
