package service_test

import (
	"errors"
	"testing"

	"github.com/halvard/munin/internal/apperr"
	"github.com/halvard/munin/internal/models"
	"github.com/halvard/munin/internal/service"
	"github.com/halvard/munin/internal/testutil"
)

func doc(path, modified, docType, status string, tags ...string) models.Document {
	if tags == nil {
		tags = []string{}
	}
	return models.Document{
		Path:  path,
		Title: path,
		Body:  "body",
		Meta: models.Metadata{
			Modified: modified,
			Tags:     tags,
			Type:     docType,
			Status:   status,
			Category: models.CategoryWork,
		},
	}
}

func TestSearchValidatesQuery(t *testing.T) {
	svc := service.New(testutil.MemoryEngine(t))

	_, err := svc.Search(models.Query{DateFrom: "Jan 5, 2025"})
	if !errors.Is(err, apperr.ErrInvalidQuery) {
		t.Errorf("err = %v, want ErrInvalidQuery", err)
	}

	_, err = svc.Search(models.Query{Limit: -1})
	if !errors.Is(err, apperr.ErrInvalidQuery) {
		t.Errorf("negative limit err = %v, want ErrInvalidQuery", err)
	}
}

func TestListTags(t *testing.T) {
	engine := testutil.MemoryEngine(t)
	if err := engine.UpsertBatch([]models.Document{
		doc("a.md", "2025-01-01", models.TypeNote, models.StatusActive, "Work/Puppet", "ops"),
		doc("b.md", "2025-01-02", models.TypeNote, models.StatusActive, "work/puppet", "ideas"),
	}); err != nil {
		t.Fatal(err)
	}
	svc := service.New(engine)

	tags, err := svc.ListTags()
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	// Case-insensitive dedupe keeps the first-seen spelling; output sorted.
	want := []string{"Work/Puppet", "ideas", "ops"}
	if len(tags) != len(want) {
		t.Fatalf("tags = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("tags[%d] = %q, want %q", i, tags[i], want[i])
		}
	}
}

func TestSummarize(t *testing.T) {
	engine := testutil.MemoryEngine(t)
	batch := []models.Document{
		doc("a.md", "2025-01-06", models.TypeNote, models.StatusActive),
		doc("b.md", "2025-01-05", models.TypeNote, models.StatusActive),
		doc("c.md", "2025-01-04", models.TypeTask, models.StatusCompleted),
		doc("d.md", "2025-01-03", models.TypeTask, models.StatusActive),
		doc("e.md", "2025-01-02", models.TypeProject, models.StatusActive),
		doc("f.md", "2025-01-01", models.TypeNote, models.StatusIdea),
		doc("Archive/g.md", "2025-01-07", models.TypeNote, models.StatusArchived),
	}
	if err := engine.UpsertBatch(batch); err != nil {
		t.Fatal(err)
	}
	svc := service.New(engine)

	sum, err := svc.Summarize(models.Query{})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if sum.Total != 6 {
		t.Errorf("Total = %d, want 6 (archived excluded)", sum.Total)
	}
	if sum.ByType[models.TypeNote] != 3 || sum.ByType[models.TypeTask] != 2 || sum.ByType[models.TypeProject] != 1 {
		t.Errorf("ByType = %v", sum.ByType)
	}
	if sum.ByStatus[models.StatusActive] != 4 {
		t.Errorf("ByStatus = %v", sum.ByStatus)
	}
	if len(sum.Recent) != 5 {
		t.Fatalf("Recent len = %d, want 5", len(sum.Recent))
	}
	if sum.Recent[0].Path != "a.md" {
		t.Errorf("Recent[0] = %q, want newest non-archived document", sum.Recent[0].Path)
	}

	// Structural filters still apply to the summarized set.
	sum, err = svc.Summarize(models.Query{Type: models.TypeTask})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if sum.Total != 2 {
		t.Errorf("filtered Total = %d, want 2", sum.Total)
	}
}

func TestGetByPathNotFound(t *testing.T) {
	svc := service.New(testutil.MemoryEngine(t))
	if _, err := svc.GetByPath("missing.md"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
