package service

import (
	"github.com/tasktrack-io/tasktrack/internal/apperr"
	"github.com/tasktrack-io/tasktrack/internal/models"
	"github.com/tasktrack-io/tasktrack/internal/repository"
)

// LabelService manages labels and their assignment to tasks. Duplicate
// (task, label) pairs are rejected by the store's unique index and surface
// as Conflict.
type LabelService struct {
	store        *repository.Store
	minRoleLevel int
}

func NewLabelService(store *repository.Store, minRoleLevel int) *LabelService {
	return &LabelService{store: store, minRoleLevel: minRoleLevel}
}

func (s *LabelService) CreateLabel(name, color string, actor Actor) (*models.Label, error) {
	if actor.RoleLevel < s.minRoleLevel {
		return nil, apperr.Forbidden("insufficient permission to create label")
	}

	label, err := s.store.Labels.Create(&models.Label{Name: name, Color: color})
	if err != nil {
		return nil, apperr.FromSQLite(err)
	}
	return label, nil
}

func (s *LabelService) ListLabels(actor Actor) ([]models.Label, error) {
	if actor.RoleLevel < s.minRoleLevel {
		return nil, apperr.Forbidden("insufficient permission to list labels")
	}
	return s.store.Labels.GetAll()
}

func (s *LabelService) DeleteLabel(id int64, actor Actor) error {
	if actor.RoleLevel < s.minRoleLevel {
		return apperr.Forbidden("insufficient permission to delete label")
	}

	label, err := s.store.Labels.GetByID(id)
	if err != nil {
		return err
	}
	if label == nil {
		return apperr.NotFound("label with id %d not found", id)
	}
	return apperr.FromSQLite(s.store.Labels.Delete(id))
}

func (s *LabelService) AssignToTask(taskID, labelID int64, actor Actor) (*models.TaskLabel, error) {
	if actor.RoleLevel < s.minRoleLevel {
		return nil, apperr.Forbidden("insufficient permission to assign label")
	}

	task, err := s.store.Tasks.GetByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, apperr.NotFound("task with id %d not found", taskID)
	}
	label, err := s.store.Labels.GetByID(labelID)
	if err != nil {
		return nil, err
	}
	if label == nil {
		return nil, apperr.NotFound("label with id %d not found", labelID)
	}

	tl, err := s.store.TaskLabels.Create(&models.TaskLabel{
		TaskID:    taskID,
		LabelID:   labelID,
		CreatedBy: actor.key(),
	})
	if err != nil {
		return nil, apperr.FromSQLite(err)
	}
	return tl, nil
}

func (s *LabelService) ListByTask(taskID int64, actor Actor) ([]models.TaskLabel, error) {
	if actor.RoleLevel < s.minRoleLevel {
		return nil, apperr.Forbidden("insufficient permission to list task labels")
	}
	return s.store.TaskLabels.GetByTaskID(taskID)
}

// RemoveFromTask detaches labelIDs from the task. Pairs that are not
// currently associated are skipped without error.
func (s *LabelService) RemoveFromTask(taskID int64, labelIDs []int64, actor Actor) error {
	if actor.RoleLevel < s.minRoleLevel {
		return apperr.Forbidden("insufficient permission to remove labels")
	}

	for _, labelID := range labelIDs {
		tl, err := s.store.TaskLabels.GetByTaskAndLabel(taskID, labelID)
		if err != nil {
			return err
		}
		if tl == nil {
			continue
		}
		if err := s.store.TaskLabels.Delete(tl.ID); err != nil {
			return err
		}
	}
	return nil
}
