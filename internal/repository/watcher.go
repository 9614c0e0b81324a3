package repository

import (
	"database/sql"

	"github.com/tasktrack-io/tasktrack/internal/models"
)

// WatcherRepo manages the (task, user) watch association. Duplicate pairs
// are rejected by the unique index.
type WatcherRepo struct {
	q Querier
}

const watcherSelect = `
	SELECT w.id, w.task_id, w.user_id, w.created_by, w.created_at, t.title
	FROM task_watchers w
	JOIN tasks t ON t.id = w.task_id
`

func (r *WatcherRepo) Create(w *models.TaskWatcher) (*models.TaskWatcher, error) {
	result, err := r.q.Exec(`
		INSERT INTO task_watchers (task_id, user_id, created_by) VALUES (?, ?, ?)
	`, w.TaskID, w.UserID, w.CreatedBy)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

func (r *WatcherRepo) GetByID(id int64) (*models.TaskWatcher, error) {
	row := r.q.QueryRow(watcherSelect+" WHERE w.id = ?", id)
	w, err := scanWatcher(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (r *WatcherRepo) GetByTaskAndUser(taskID, userID int64) (*models.TaskWatcher, error) {
	row := r.q.QueryRow(watcherSelect+" WHERE w.task_id = ? AND w.user_id = ?", taskID, userID)
	w, err := scanWatcher(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (r *WatcherRepo) GetByTaskID(taskID int64) ([]models.TaskWatcher, error) {
	rows, err := r.q.Query(watcherSelect+" WHERE w.task_id = ? ORDER BY w.created_at DESC", taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var watchers []models.TaskWatcher
	for rows.Next() {
		w, err := scanWatcher(rows)
		if err != nil {
			return nil, err
		}
		watchers = append(watchers, *w)
	}
	return watchers, rows.Err()
}

func (r *WatcherRepo) Delete(id int64) error {
	_, err := r.q.Exec("DELETE FROM task_watchers WHERE id = ?", id)
	return err
}

func (r *WatcherRepo) DeleteByTaskID(taskID int64) error {
	_, err := r.q.Exec("DELETE FROM task_watchers WHERE task_id = ?", taskID)
	return err
}

func scanWatcher(row rowScanner) (*models.TaskWatcher, error) {
	var w models.TaskWatcher
	err := row.Scan(&w.ID, &w.TaskID, &w.UserID, &w.CreatedBy, &w.CreatedAt, &w.TaskTitle)
	if err != nil {
		return nil, err
	}
	return &w, nil
}
