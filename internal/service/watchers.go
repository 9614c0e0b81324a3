package service

import (
	"github.com/tasktrack-io/tasktrack/internal/apperr"
	"github.com/tasktrack-io/tasktrack/internal/models"
	"github.com/tasktrack-io/tasktrack/internal/repository"
)

// Directory resolves opaque user ids to display data. The real user store
// lives outside this system.
type Directory interface {
	Lookup(id int64) (models.User, bool)
}

// StaticDirectory serves lookups from a fixed slice, typically loaded from
// the config file.
type StaticDirectory struct {
	Users []models.User
}

func (d StaticDirectory) Lookup(id int64) (models.User, bool) {
	for _, u := range d.Users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

// WatcherService manages task watchers. Minimum role level only; duplicate
// (task, user) pairs are rejected by the unique index.
type WatcherService struct {
	store        *repository.Store
	directory    Directory
	minRoleLevel int
}

func NewWatcherService(store *repository.Store, directory Directory, minRoleLevel int) *WatcherService {
	return &WatcherService{store: store, directory: directory, minRoleLevel: minRoleLevel}
}

func (s *WatcherService) Add(taskID, userID int64, actor Actor) (*models.TaskWatcher, error) {
	if actor.RoleLevel < s.minRoleLevel {
		return nil, apperr.Forbidden("insufficient permission to add watcher")
	}

	task, err := s.store.Tasks.GetByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, apperr.NotFound("task with id %d not found", taskID)
	}

	watcher, err := s.store.Watchers.Create(&models.TaskWatcher{
		TaskID:    taskID,
		UserID:    userID,
		CreatedBy: actor.key(),
	})
	if err != nil {
		return nil, apperr.FromSQLite(err)
	}
	s.enrich(watcher)
	return watcher, nil
}

func (s *WatcherService) ListByTask(taskID int64, actor Actor) ([]models.TaskWatcher, error) {
	if actor.RoleLevel < s.minRoleLevel {
		return nil, apperr.Forbidden("insufficient permission to list watchers")
	}

	watchers, err := s.store.Watchers.GetByTaskID(taskID)
	if err != nil {
		return nil, err
	}
	for i := range watchers {
		s.enrich(&watchers[i])
	}
	return watchers, nil
}

// Remove detaches userIDs from the task's watcher list, skipping pairs
// that are not present.
func (s *WatcherService) Remove(taskID int64, userIDs []int64, actor Actor) error {
	if actor.RoleLevel < s.minRoleLevel {
		return apperr.Forbidden("insufficient permission to remove watchers")
	}

	for _, userID := range userIDs {
		w, err := s.store.Watchers.GetByTaskAndUser(taskID, userID)
		if err != nil {
			return err
		}
		if w == nil {
			continue
		}
		if err := s.store.Watchers.Delete(w.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *WatcherService) enrich(w *models.TaskWatcher) {
	if s.directory == nil {
		return
	}
	if u, ok := s.directory.Lookup(w.UserID); ok {
		w.UserName = u.FullName
		w.UserEmail = u.Email
	}
}
