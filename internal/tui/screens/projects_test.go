package screens

import (
	"errors"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tasktrack-io/tasktrack/internal/apperr"
	"github.com/tasktrack-io/tasktrack/internal/db"
	"github.com/tasktrack-io/tasktrack/internal/models"
	"github.com/tasktrack-io/tasktrack/internal/repository"
	"github.com/tasktrack-io/tasktrack/internal/service"
)

func newScreenStore(t *testing.T) *repository.Store {
	t.Helper()
	database, err := db.OpenAndMigrate(filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return repository.NewStore(database)
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestProjectsScreenCreatesThroughService(t *testing.T) {
	store := newScreenStore(t)
	svc := service.NewProjectService(store, 10)
	actor := service.Actor{UserID: 1, RoleLevel: 10}
	p := NewProjects(store, svc, actor)

	p.mode = projectsModeAdd
	p.input.SetValue("web Website")
	p.handleInputKey()
	if p.err != nil {
		t.Fatalf("create via screen: %v", p.err)
	}

	proj, err := store.Projects.GetByCode("WEB")
	if err != nil {
		t.Fatalf("get project: %v", err)
	}
	if proj == nil {
		t.Fatal("project not created")
	}
	if proj.CreatedBy != "1" {
		t.Fatalf("created_by is %q, want the acting user id", proj.CreatedBy)
	}

	// The duplicate-code check lives in the service and must apply here too.
	p.mode = projectsModeAdd
	p.input.SetValue("WEB Duplicate")
	p.handleInputKey()
	if !errors.Is(p.err, apperr.ErrConflict) {
		t.Fatalf("expected conflict for duplicate code, got %v", p.err)
	}
}

func TestProjectsScreenHonorsRoleGate(t *testing.T) {
	store := newScreenStore(t)
	svc := service.NewProjectService(store, 10)
	low := service.Actor{UserID: 2, RoleLevel: 5}
	p := NewProjects(store, svc, low)

	p.mode = projectsModeAdd
	p.input.SetValue("API Backend")
	p.handleInputKey()
	if !errors.Is(p.err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden for low role, got %v", p.err)
	}
	if proj, _ := store.Projects.GetByCode("API"); proj != nil {
		t.Fatal("project created despite insufficient role")
	}
}

func TestProjectsScreenDeleteRequiresCreator(t *testing.T) {
	store := newScreenStore(t)
	svc := service.NewProjectService(store, 10)
	creator := service.Actor{UserID: 1, RoleLevel: 10}
	other := service.Actor{UserID: 2, RoleLevel: 10}

	proj, err := svc.Create(service.ProjectCreate{Code: "WEB", Name: "Website"}, creator)
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	p := NewProjects(store, svc, other)
	p.projects = []models.Project{*proj}
	p.mode = projectsModeDelete
	p.handleDeleteKey(keyRune('y'))
	if !errors.Is(p.err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden for non-creator delete, got %v", p.err)
	}
	if got, _ := store.Projects.GetByID(proj.ID); got == nil {
		t.Fatal("project deleted by non-creator")
	}

	p = NewProjects(store, svc, creator)
	p.projects = []models.Project{*proj}
	p.mode = projectsModeDelete
	p.handleDeleteKey(keyRune('y'))
	if p.err != nil {
		t.Fatalf("creator delete via screen: %v", p.err)
	}
	if got, _ := store.Projects.GetByID(proj.ID); got != nil {
		t.Fatal("project survived creator delete")
	}
}
