package service

import (
	"errors"
	"testing"

	"github.com/tasktrack-io/tasktrack/internal/apperr"
	"github.com/tasktrack-io/tasktrack/internal/models"
)

func TestCatalogCreateAndDelete(t *testing.T) {
	store := newTestStore(t)
	svc := NewCatalogService(store, testMinRole)

	status, err := svc.CreateStatus(&models.Status{Code: "BLOCKED", Name: "Blocked", Order: 9}, creator)
	if err != nil {
		t.Fatalf("create status: %v", err)
	}
	if _, err := svc.CreateStatus(&models.Status{Code: "BLOCKED", Name: "Again"}, creator); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict for duplicate status code, got %v", err)
	}

	priority, err := svc.CreatePriority(&models.Priority{Code: "URGENT", Name: "Urgent", Color: "#ff0000", Order: 9}, creator)
	if err != nil {
		t.Fatalf("create priority: %v", err)
	}
	taskType, err := svc.CreateTaskType(&models.TaskType{Code: "CHORE", Name: "Chore"}, creator)
	if err != nil {
		t.Fatalf("create task type: %v", err)
	}

	if err := svc.DeleteStatus(status.ID, creator); err != nil {
		t.Fatalf("delete status: %v", err)
	}
	if err := svc.DeleteStatus(status.ID, creator); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for deleted status, got %v", err)
	}
	if err := svc.DeletePriority(priority.ID, creator); err != nil {
		t.Fatalf("delete priority: %v", err)
	}
	if err := svc.DeleteTaskType(taskType.ID, creator); err != nil {
		t.Fatalf("delete task type: %v", err)
	}
}

func TestCatalogListSeeded(t *testing.T) {
	store := newTestStore(t)
	svc := NewCatalogService(store, testMinRole)

	statuses, err := svc.ListStatuses(creator)
	if err != nil {
		t.Fatalf("list statuses: %v", err)
	}
	codes := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		codes[s.Code] = true
	}
	if !codes["TODO"] || !codes["DONE"] {
		t.Fatalf("seeded statuses missing from listing: %v", codes)
	}

	priorities, err := svc.ListPriorities(creator)
	if err != nil {
		t.Fatalf("list priorities: %v", err)
	}
	if len(priorities) == 0 {
		t.Fatal("no seeded priorities")
	}

	types, err := svc.ListTaskTypes(creator)
	if err != nil {
		t.Fatalf("list task types: %v", err)
	}
	if len(types) == 0 {
		t.Fatal("no seeded task types")
	}
}

func TestCatalogRoleGate(t *testing.T) {
	store := newTestStore(t)
	svc := NewCatalogService(store, testMinRole)

	if _, err := svc.ListStatuses(lowRole); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden listing statuses, got %v", err)
	}
	if _, err := svc.CreatePriority(&models.Priority{Code: "X", Name: "X"}, lowRole); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden creating priority, got %v", err)
	}
	if err := svc.DeleteTaskType(1, lowRole); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden deleting task type, got %v", err)
	}
}
