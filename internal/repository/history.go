package repository

import (
	"database/sql"

	"github.com/tasktrack-io/tasktrack/internal/models"
)

// HistoryRepo appends and reads the task audit log. There is deliberately
// no update method: entries are immutable once written, and deletion exists
// only for the task-delete cascade.
type HistoryRepo struct {
	q Querier
}

func (r *HistoryRepo) Create(h *models.TaskHistory) (*models.TaskHistory, error) {
	result, err := r.q.Exec(`
		INSERT INTO task_history (task_id, field_name, old_value, new_value, actor_user_id, created_by)
		VALUES (?, ?, ?, ?, ?, ?)
	`, h.TaskID, h.FieldName, h.OldValue, h.NewValue, h.ActorUserID, h.CreatedBy)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

func (r *HistoryRepo) GetByID(id int64) (*models.TaskHistory, error) {
	row := r.q.QueryRow(`
		SELECT id, task_id, field_name, old_value, new_value, actor_user_id, created_by, created_at
		FROM task_history
		WHERE id = ?
	`, id)

	h, err := scanHistory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return h, nil
}

// GetByTaskID lists entries newest first. fieldName narrows to one tracked
// field when non-empty.
func (r *HistoryRepo) GetByTaskID(taskID int64, fieldName string, skip, limit int) ([]models.TaskHistory, error) {
	query := `
		SELECT id, task_id, field_name, old_value, new_value, actor_user_id, created_by, created_at
		FROM task_history
		WHERE task_id = ?
	`
	args := []any{taskID}

	if fieldName != "" {
		query += " AND field_name = ?"
		args = append(args, fieldName)
	}

	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, skip)

	rows, err := r.q.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.TaskHistory
	for rows.Next() {
		h, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *h)
	}
	return entries, rows.Err()
}

func (r *HistoryRepo) CountByTaskID(taskID int64, fieldName string) (int, error) {
	query := "SELECT COUNT(*) FROM task_history WHERE task_id = ?"
	args := []any{taskID}

	if fieldName != "" {
		query += " AND field_name = ?"
		args = append(args, fieldName)
	}

	var n int
	err := r.q.QueryRow(query, args...).Scan(&n)
	return n, err
}

func (r *HistoryRepo) DeleteByTaskID(taskID int64) error {
	_, err := r.q.Exec("DELETE FROM task_history WHERE task_id = ?", taskID)
	return err
}

func scanHistory(row rowScanner) (*models.TaskHistory, error) {
	var h models.TaskHistory
	var oldValue, newValue sql.NullString

	err := row.Scan(
		&h.ID, &h.TaskID, &h.FieldName, &oldValue, &newValue,
		&h.ActorUserID, &h.CreatedBy, &h.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if oldValue.Valid {
		h.OldValue = &oldValue.String
	}
	if newValue.Valid {
		h.NewValue = &newValue.String
	}

	return &h, nil
}
