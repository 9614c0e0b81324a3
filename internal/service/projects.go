package service

import (
	"github.com/tasktrack-io/tasktrack/internal/apperr"
	"github.com/tasktrack-io/tasktrack/internal/models"
	"github.com/tasktrack-io/tasktrack/internal/repository"
)

// ProjectService is plain CRUD over projects. Duplicate project codes are
// rejected up front as Conflict.
type ProjectService struct {
	store        *repository.Store
	minRoleLevel int
}

func NewProjectService(store *repository.Store, minRoleLevel int) *ProjectService {
	return &ProjectService{store: store, minRoleLevel: minRoleLevel}
}

type ProjectCreate struct {
	Code        string
	Name        string
	Description string
	OwnerUserID *int64
}

func (s *ProjectService) Create(input ProjectCreate, actor Actor) (*models.Project, error) {
	if actor.RoleLevel < s.minRoleLevel {
		return nil, apperr.Forbidden("insufficient permission to create project")
	}

	existing, err := s.store.Projects.GetByCode(input.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("project with code %q already exists", input.Code)
	}

	project, err := s.store.Projects.Create(&models.Project{
		Code:        input.Code,
		Name:        input.Name,
		Description: input.Description,
		OwnerUserID: input.OwnerUserID,
		CreatedBy:   actor.key(),
	})
	if err != nil {
		return nil, apperr.FromSQLite(err)
	}
	return project, nil
}

func (s *ProjectService) Get(id int64, actor Actor) (*models.Project, error) {
	if actor.RoleLevel < s.minRoleLevel {
		return nil, apperr.Forbidden("insufficient permission to view project")
	}

	project, err := s.store.Projects.GetByID(id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, apperr.NotFound("project with id %d not found", id)
	}
	return project, nil
}

func (s *ProjectService) List(skip, limit int, actor Actor) ([]models.Project, int, error) {
	if actor.RoleLevel < s.minRoleLevel {
		return nil, 0, apperr.Forbidden("insufficient permission to list projects")
	}

	projects, err := s.store.Projects.GetAll(skip, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.store.Projects.Count()
	if err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

type ProjectUpdate struct {
	Name        Field[string]
	Description Field[string]
	OwnerUserID Field[int64]
}

func (s *ProjectService) Update(id int64, patch ProjectUpdate, actor Actor) (*models.Project, error) {
	if actor.RoleLevel < s.minRoleLevel {
		return nil, apperr.Forbidden("insufficient permission to update project")
	}

	project, err := s.store.Projects.GetByID(id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, apperr.NotFound("project with id %d not found", id)
	}

	merged := *project
	merged.Name = applyString(patch.Name, project.Name)
	merged.Description = applyString(patch.Description, project.Description)
	merged.OwnerUserID = patch.OwnerUserID.Apply(project.OwnerUserID)
	updatedBy := actor.key()
	merged.UpdatedBy = &updatedBy

	if err := s.store.Projects.Update(&merged); err != nil {
		return nil, apperr.FromSQLite(err)
	}
	return s.store.Projects.GetByID(id)
}

// Delete removes a project. Like task mutation this is creator-only; the
// project's tasks keep their codes and lose the project link.
func (s *ProjectService) Delete(id int64, actor Actor) error {
	if actor.RoleLevel < s.minRoleLevel {
		return apperr.Forbidden("insufficient permission to delete project")
	}

	project, err := s.store.Projects.GetByID(id)
	if err != nil {
		return err
	}
	if project == nil {
		return apperr.NotFound("project with id %d not found", id)
	}
	if actor.key() != project.CreatedBy {
		return apperr.Forbidden("only the project creator can delete this project")
	}
	return apperr.FromSQLite(s.store.Projects.Delete(id))
}
