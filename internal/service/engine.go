package service

import (
	"math"
	"strconv"
	"time"

	"github.com/tasktrack-io/tasktrack/internal/apperr"
	"github.com/tasktrack-io/tasktrack/internal/models"
	"github.com/tasktrack-io/tasktrack/internal/repository"
)

// Actor identifies the caller of a mutation: an opaque user id and the
// role level resolved by the external auth layer.
type Actor struct {
	UserID    int64
	RoleLevel int
}

func (a Actor) key() string {
	return strconv.FormatInt(a.UserID, 10)
}

// TaskCreate is the input for creating a task. Any client-supplied code is
// ignored; due date and duration are assignee-controlled post-creation
// fields and are forced to null.
type TaskCreate struct {
	Title          string
	Description    *string
	ProjectID      *int64
	StatusID       int64
	PriorityID     int64
	TypeID         int64
	AssigneeUserID *int64
	ReporterUserID int64
	StartDate      *time.Time
	ParentTaskID   *int64
}

// BulkStatusResult reports a bulk status update: how many tasks were
// actually touched alongside the full requested id list.
type BulkStatusResult struct {
	UpdatedCount int
	TaskIDs      []int64
}

// TaskService is the sole authority for creating, updating and deleting
// tasks. It owns the authorization rules, the derived-duration computation
// and the change-history bookkeeping; everything runs in one storage
// transaction per operation.
type TaskService struct {
	store        *repository.Store
	minRoleLevel int
}

func NewTaskService(store *repository.Store, minRoleLevel int) *TaskService {
	return &TaskService{store: store, minRoleLevel: minRoleLevel}
}

func (s *TaskService) Get(id int64, actor Actor) (*models.Task, error) {
	if actor.RoleLevel < s.minRoleLevel {
		return nil, apperr.Forbidden("insufficient permission to view task")
	}

	task, err := s.store.Tasks.GetByID(id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, apperr.NotFound("task with id %d not found", id)
	}
	return task, nil
}

func (s *TaskService) List(skip, limit int, actor Actor) ([]models.Task, int, error) {
	if actor.RoleLevel < s.minRoleLevel {
		return nil, 0, apperr.Forbidden("insufficient permission to list tasks")
	}

	tasks, err := s.store.Tasks.List(skip, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.store.Tasks.Count()
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func (s *TaskService) Search(f repository.SearchFilters, skip, limit int, actor Actor) ([]models.Task, int, error) {
	if actor.RoleLevel < s.minRoleLevel {
		return nil, 0, apperr.Forbidden("insufficient permission to search tasks")
	}

	tasks, err := s.store.Tasks.Search(f, skip, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.store.Tasks.SearchCount(f)
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func (s *TaskService) GetUserDashboard(userID int64, actor Actor) (*repository.UserDashboard, error) {
	if actor.RoleLevel < s.minRoleLevel {
		return nil, apperr.Forbidden("insufficient permission")
	}
	return s.store.Tasks.GetUserDashboard(userID, time.Now().UTC())
}

// Create validates the input, mints the task code and persists the task.
// The code count and the insert share one transaction so concurrent
// creates in the same project cannot mint duplicate codes. No history is
// recorded for creation.
func (s *TaskService) Create(input TaskCreate, actor Actor) (*models.Task, error) {
	if actor.RoleLevel < s.minRoleLevel {
		return nil, apperr.Forbidden("insufficient permission to create task")
	}

	var created *models.Task
	err := s.store.WithTx(func(tx *repository.Store) error {
		taskType, err := tx.TaskTypes.GetByID(input.TypeID)
		if err != nil {
			return err
		}
		if taskType == nil {
			return apperr.NotFound("task type with id %d not found", input.TypeID)
		}

		if input.ProjectID == nil {
			return apperr.BadRequest("project is required to create a task")
		}

		code, err := nextTaskCode(tx.Tasks, *input.ProjectID, taskType.Code)
		if err != nil {
			return err
		}

		task := &models.Task{
			Code:           code,
			Title:          input.Title,
			Description:    input.Description,
			ProjectID:      input.ProjectID,
			StatusID:       input.StatusID,
			PriorityID:     input.PriorityID,
			TypeID:         input.TypeID,
			AssigneeUserID: input.AssigneeUserID,
			ReporterUserID: input.ReporterUserID,
			StartDate:      input.StartDate,
			ParentTaskID:   input.ParentTaskID,
			CreatedBy:      actor.key(),
		}

		created, err = tx.Tasks.Create(task)
		return apperr.FromSQLite(err)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update applies a partial update. Only the task's creator may mutate it,
// except that the due date may only be set by the current assignee
// (clearing it is unrestricted). The duration is recomputed from the
// effective date pair, the tracked-field diff is recorded against the
// pre-update snapshot, and diff, history writes and the update itself
// commit atomically.
func (s *TaskService) Update(id int64, patch TaskPatch, actor Actor) (*models.Task, error) {
	if actor.RoleLevel < s.minRoleLevel {
		return nil, apperr.Forbidden("insufficient permission to update task")
	}

	var updated *models.Task
	err := s.store.WithTx(func(tx *repository.Store) error {
		task, err := tx.Tasks.GetByID(id)
		if err != nil {
			return err
		}
		if task == nil {
			return apperr.NotFound("task with id %d not found", id)
		}

		if actor.key() != task.CreatedBy {
			return apperr.Forbidden("only the task creator can update this task")
		}

		if patch.DueDate.IsSet() && patch.DueDate.Ptr() != nil {
			if task.AssigneeUserID == nil || *task.AssigneeUserID != actor.UserID {
				return apperr.Forbidden("only the assignee can set the due date")
			}
		}

		duration, err := deriveDuration(task, patch)
		if err != nil {
			return err
		}

		for _, entry := range trackedChanges(task, patch, actor.UserID) {
			if _, err := tx.History.Create(&entry); err != nil {
				return err
			}
		}

		merged := *task
		merged.Title = applyString(patch.Title, task.Title)
		merged.Description = patch.Description.Apply(task.Description)
		merged.ProjectID = patch.ProjectID.Apply(task.ProjectID)
		merged.StatusID = applyInt(patch.StatusID, task.StatusID)
		merged.PriorityID = applyInt(patch.PriorityID, task.PriorityID)
		merged.TypeID = applyInt(patch.TypeID, task.TypeID)
		merged.AssigneeUserID = patch.AssigneeUserID.Apply(task.AssigneeUserID)
		merged.ReporterUserID = applyInt(patch.ReporterUserID, task.ReporterUserID)
		merged.StartDate = patch.StartDate.Apply(task.StartDate)
		merged.DueDate = patch.DueDate.Apply(task.DueDate)
		merged.ParentTaskID = patch.ParentTaskID.Apply(task.ParentTaskID)
		merged.Duration = duration
		updatedBy := actor.key()
		merged.UpdatedBy = &updatedBy

		if err := tx.Tasks.Update(&merged); err != nil {
			return apperr.FromSQLite(err)
		}

		updated, err = tx.Tasks.GetByID(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a task and everything hanging off it. SQLite has no
// cascade here; the dependent sets are deleted explicitly, children first,
// inside one transaction.
func (s *TaskService) Delete(id int64, actor Actor) error {
	if actor.RoleLevel < s.minRoleLevel {
		return apperr.Forbidden("insufficient permission to delete task")
	}

	return s.store.WithTx(func(tx *repository.Store) error {
		task, err := tx.Tasks.GetByID(id)
		if err != nil {
			return err
		}
		if task == nil {
			return apperr.NotFound("task with id %d not found", id)
		}

		if actor.key() != task.CreatedBy {
			return apperr.Forbidden("only the task creator can delete this task")
		}

		if err := tx.Comments.DeleteByTaskID(id); err != nil {
			return err
		}
		if err := tx.TaskLabels.DeleteByTaskID(id); err != nil {
			return err
		}
		if err := tx.Watchers.DeleteByTaskID(id); err != nil {
			return err
		}
		if err := tx.Attachments.DeleteByTaskID(id); err != nil {
			return err
		}
		if err := tx.History.DeleteByTaskID(id); err != nil {
			return err
		}
		return tx.Tasks.Delete(id)
	})
}

// BulkUpdateStatus moves every resolvable task in ids to the new status.
// This is an administrative operation: the minimum role level applies but
// there is no per-task ownership check, and ids that do not resolve are
// skipped silently.
func (s *TaskService) BulkUpdateStatus(taskIDs []int64, statusID int64, actor Actor) (*BulkStatusResult, error) {
	if actor.RoleLevel < s.minRoleLevel {
		return nil, apperr.Forbidden("insufficient permission")
	}

	result := &BulkStatusResult{TaskIDs: taskIDs}
	err := s.store.WithTx(func(tx *repository.Store) error {
		for _, id := range taskIDs {
			task, err := tx.Tasks.GetByID(id)
			if err != nil {
				return err
			}
			if task == nil {
				continue
			}
			if err := tx.Tasks.UpdateStatus(id, statusID, actor.key()); err != nil {
				return apperr.FromSQLite(err)
			}
			result.UpdatedCount++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// deriveDuration computes the task duration in hours from the effective
// date pair after the patch is applied: both dates present yields the
// rounded difference, an incomplete pair touched by the patch clears it,
// an untouched pair leaves it as is.
func deriveDuration(task *models.Task, patch TaskPatch) (*float64, error) {
	if !patch.StartDate.IsSet() && !patch.DueDate.IsSet() {
		return task.Duration, nil
	}

	start := patch.StartDate.Apply(task.StartDate)
	due := patch.DueDate.Apply(task.DueDate)

	if start == nil || due == nil {
		return nil, nil
	}
	if due.Before(*start) {
		return nil, apperr.BadRequest("due date cannot be earlier than start date")
	}

	hours := math.Round(due.Sub(*start).Hours()*100) / 100
	return &hours, nil
}

func applyString(f Field[string], current string) string {
	if v := f.Ptr(); v != nil {
		return *v
	}
	return current
}

func applyInt(f Field[int64], current int64) int64 {
	if v := f.Ptr(); v != nil {
		return *v
	}
	return current
}
