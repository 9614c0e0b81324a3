package repository

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/tasktrack-io/tasktrack/internal/db"
	"github.com/tasktrack-io/tasktrack/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	database, err := db.OpenAndMigrate(filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return NewStore(database)
}

func statusID(t *testing.T, store *Store, code string) int64 {
	t.Helper()
	statuses, err := store.Statuses.GetAll()
	if err != nil {
		t.Fatalf("load statuses: %v", err)
	}
	for _, s := range statuses {
		if s.Code == code {
			return s.ID
		}
	}
	t.Fatalf("status %s not seeded", code)
	return 0
}

func insertTask(t *testing.T, store *Store, n int, mutate func(*models.Task)) *models.Task {
	t.Helper()

	task := &models.Task{
		Code:           fmt.Sprintf("001/TAS/%03d", n),
		Title:          fmt.Sprintf("Task %d", n),
		StatusID:       statusID(t, store, "TODO"),
		PriorityID:     1,
		TypeID:         1,
		ReporterUserID: 1,
		CreatedBy:      "1",
	}
	if mutate != nil {
		mutate(task)
	}

	created, err := store.Tasks.Create(task)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	return created
}

func TestSearchFilters(t *testing.T) {
	store := newTestStore(t)

	project, err := store.Projects.Create(&models.Project{Code: "WEB", Name: "Website", CreatedBy: "1"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	done := statusID(t, store, "DONE")
	assignee := int64(7)

	insertTask(t, store, 1, func(task *models.Task) {
		task.Title = "Refactor the login flow"
		task.ProjectID = &project.ID
		task.AssigneeUserID = &assignee
	})
	insertTask(t, store, 2, func(task *models.Task) {
		task.Title = "Fix login redirect"
		task.ProjectID = &project.ID
		task.StatusID = done
	})
	insertTask(t, store, 3, func(task *models.Task) {
		task.Title = "Unrelated chore"
	})

	tests := []struct {
		name    string
		filters SearchFilters
		want    int
	}{
		{"no filters", SearchFilters{}, 3},
		{"keyword", SearchFilters{Keyword: "login"}, 2},
		{"keyword no match", SearchFilters{Keyword: "deploy"}, 0},
		{"project", SearchFilters{ProjectIDs: []int64{project.ID}}, 2},
		{"status", SearchFilters{StatusIDs: []int64{done}}, 1},
		{"assignee", SearchFilters{AssigneeIDs: []int64{assignee}}, 1},
		{"combined", SearchFilters{Keyword: "login", StatusIDs: []int64{done}}, 1},
		{"multiple ids", SearchFilters{StatusIDs: []int64{done, statusID(t, store, "TODO")}}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := store.Tasks.Search(tt.filters, 0, 50)
			if err != nil {
				t.Fatalf("search: %v", err)
			}
			if len(tasks) != tt.want {
				t.Fatalf("expected %d tasks, got %d", tt.want, len(tasks))
			}
			count, err := store.Tasks.SearchCount(tt.filters)
			if err != nil {
				t.Fatalf("count: %v", err)
			}
			if count != tt.want {
				t.Fatalf("count disagrees with search: %d vs %d", count, tt.want)
			}
		})
	}
}

func TestGetByIDMissing(t *testing.T) {
	store := newTestStore(t)

	task, err := store.Tasks.GetByID(12345)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task != nil {
		t.Fatalf("expected nil for missing task, got %+v", task)
	}
}

func TestTaskJoinsDisplayNames(t *testing.T) {
	store := newTestStore(t)

	project, err := store.Projects.Create(&models.Project{Code: "WEB", Name: "Website", CreatedBy: "1"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	task := insertTask(t, store, 1, func(task *models.Task) {
		task.ProjectID = &project.ID
	})

	if task.ProjectName != "Website" {
		t.Fatalf("project name not joined: %q", task.ProjectName)
	}
	if task.StatusName != "To Do" {
		t.Fatalf("status name not joined: %q", task.StatusName)
	}
	if task.TypeName == "" || task.PriorityName == "" {
		t.Fatalf("catalog names not joined: %q %q", task.TypeName, task.PriorityName)
	}
}

func TestGetUserDashboard(t *testing.T) {
	store := newTestStore(t)

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	me := int64(7)
	someoneElse := int64(8)
	done := statusID(t, store, "DONE")
	inProgress := statusID(t, store, "IN_PROGRESS")
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	// Assigned to me: one to do, one in progress and overdue, one done with
	// a past due date (done never counts as overdue).
	insertTask(t, store, 1, func(task *models.Task) {
		task.AssigneeUserID = &me
	})
	insertTask(t, store, 2, func(task *models.Task) {
		task.AssigneeUserID = &me
		task.StatusID = inProgress
		task.DueDate = &past
	})
	insertTask(t, store, 3, func(task *models.Task) {
		task.AssigneeUserID = &me
		task.ReporterUserID = me
		task.StatusID = done
		task.DueDate = &past
	})
	// Assigned elsewhere, reported by me, still open.
	insertTask(t, store, 4, func(task *models.Task) {
		task.AssigneeUserID = &someoneElse
		task.ReporterUserID = me
		task.DueDate = &future
	})

	d, err := store.Tasks.GetUserDashboard(me, now)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}

	if d.AssignedTotal != 3 {
		t.Fatalf("assigned total: got %d, want 3", d.AssignedTotal)
	}
	if d.AssignedTodo != 1 || d.AssignedInProgress != 1 || d.AssignedDone != 1 {
		t.Fatalf("assigned breakdown wrong: %+v", d)
	}
	if d.AssignedOverdue != 1 {
		t.Fatalf("assigned overdue: got %d, want 1", d.AssignedOverdue)
	}
	if d.ReportedTotal != 2 {
		t.Fatalf("reported total: got %d, want 2", d.ReportedTotal)
	}
	if d.ReportedCompleted != 1 || d.ReportedPending != 1 {
		t.Fatalf("reported breakdown wrong: %+v", d)
	}
}

func TestCountByStatusIncludesEmpty(t *testing.T) {
	store := newTestStore(t)
	insertTask(t, store, 1, nil)

	counts, err := store.Tasks.CountByStatus()
	if err != nil {
		t.Fatalf("count by status: %v", err)
	}
	// All five seeded statuses appear, even with zero tasks.
	if len(counts) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(counts))
	}
	if counts[0].StatusName != "To Do" || counts[0].Count != 1 {
		t.Fatalf("unexpected first row: %+v", counts[0])
	}
}
