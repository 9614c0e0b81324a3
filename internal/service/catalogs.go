package service

import (
	"github.com/tasktrack-io/tasktrack/internal/apperr"
	"github.com/tasktrack-io/tasktrack/internal/models"
	"github.com/tasktrack-io/tasktrack/internal/repository"
)

// CatalogService fronts the reference data registry: statuses, priorities
// and task types. Read-mostly, min-role gated like everything else.
type CatalogService struct {
	store        *repository.Store
	minRoleLevel int
}

func NewCatalogService(store *repository.Store, minRoleLevel int) *CatalogService {
	return &CatalogService{store: store, minRoleLevel: minRoleLevel}
}

func (s *CatalogService) ListStatuses(actor Actor) ([]models.Status, error) {
	if actor.RoleLevel < s.minRoleLevel {
		return nil, apperr.Forbidden("insufficient permission to list statuses")
	}
	return s.store.Statuses.GetAll()
}

func (s *CatalogService) CreateStatus(status *models.Status, actor Actor) (*models.Status, error) {
	if actor.RoleLevel < s.minRoleLevel {
		return nil, apperr.Forbidden("insufficient permission to create status")
	}
	created, err := s.store.Statuses.Create(status)
	return created, apperr.FromSQLite(err)
}

func (s *CatalogService) DeleteStatus(id int64, actor Actor) error {
	if actor.RoleLevel < s.minRoleLevel {
		return apperr.Forbidden("insufficient permission to delete status")
	}
	status, err := s.store.Statuses.GetByID(id)
	if err != nil {
		return err
	}
	if status == nil {
		return apperr.NotFound("status with id %d not found", id)
	}
	return apperr.FromSQLite(s.store.Statuses.Delete(id))
}

func (s *CatalogService) ListPriorities(actor Actor) ([]models.Priority, error) {
	if actor.RoleLevel < s.minRoleLevel {
		return nil, apperr.Forbidden("insufficient permission to list priorities")
	}
	return s.store.Priorities.GetAll()
}

func (s *CatalogService) CreatePriority(priority *models.Priority, actor Actor) (*models.Priority, error) {
	if actor.RoleLevel < s.minRoleLevel {
		return nil, apperr.Forbidden("insufficient permission to create priority")
	}
	created, err := s.store.Priorities.Create(priority)
	return created, apperr.FromSQLite(err)
}

func (s *CatalogService) DeletePriority(id int64, actor Actor) error {
	if actor.RoleLevel < s.minRoleLevel {
		return apperr.Forbidden("insufficient permission to delete priority")
	}
	priority, err := s.store.Priorities.GetByID(id)
	if err != nil {
		return err
	}
	if priority == nil {
		return apperr.NotFound("priority with id %d not found", id)
	}
	return apperr.FromSQLite(s.store.Priorities.Delete(id))
}

func (s *CatalogService) ListTaskTypes(actor Actor) ([]models.TaskType, error) {
	if actor.RoleLevel < s.minRoleLevel {
		return nil, apperr.Forbidden("insufficient permission to list task types")
	}
	return s.store.TaskTypes.GetAll()
}

func (s *CatalogService) CreateTaskType(taskType *models.TaskType, actor Actor) (*models.TaskType, error) {
	if actor.RoleLevel < s.minRoleLevel {
		return nil, apperr.Forbidden("insufficient permission to create task type")
	}
	created, err := s.store.TaskTypes.Create(taskType)
	return created, apperr.FromSQLite(err)
}

func (s *CatalogService) DeleteTaskType(id int64, actor Actor) error {
	if actor.RoleLevel < s.minRoleLevel {
		return apperr.Forbidden("insufficient permission to delete task type")
	}
	taskType, err := s.store.TaskTypes.GetByID(id)
	if err != nil {
		return err
	}
	if taskType == nil {
		return apperr.NotFound("task type with id %d not found", id)
	}
	return apperr.FromSQLite(s.store.TaskTypes.Delete(id))
}
