package repository

import (
	"database/sql"

	"github.com/tasktrack-io/tasktrack/internal/models"
)

// TaskLabelRepo manages the (task, label) association table. Duplicate
// pairs are rejected by the unique index, not by application checks.
type TaskLabelRepo struct {
	q Querier
}

const taskLabelSelect = `
	SELECT tl.id, tl.task_id, tl.label_id, tl.created_by, tl.created_at,
	       t.title, l.name, l.color
	FROM task_labels tl
	JOIN tasks t ON t.id = tl.task_id
	JOIN labels l ON l.id = tl.label_id
`

func (r *TaskLabelRepo) Create(tl *models.TaskLabel) (*models.TaskLabel, error) {
	result, err := r.q.Exec(`
		INSERT INTO task_labels (task_id, label_id, created_by) VALUES (?, ?, ?)
	`, tl.TaskID, tl.LabelID, tl.CreatedBy)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

func (r *TaskLabelRepo) GetByID(id int64) (*models.TaskLabel, error) {
	row := r.q.QueryRow(taskLabelSelect+" WHERE tl.id = ?", id)
	tl, err := scanTaskLabel(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return tl, nil
}

func (r *TaskLabelRepo) GetByTaskAndLabel(taskID, labelID int64) (*models.TaskLabel, error) {
	row := r.q.QueryRow(taskLabelSelect+" WHERE tl.task_id = ? AND tl.label_id = ?", taskID, labelID)
	tl, err := scanTaskLabel(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return tl, nil
}

func (r *TaskLabelRepo) GetByTaskID(taskID int64) ([]models.TaskLabel, error) {
	rows, err := r.q.Query(taskLabelSelect+" WHERE tl.task_id = ? ORDER BY tl.created_at DESC", taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labels []models.TaskLabel
	for rows.Next() {
		tl, err := scanTaskLabel(rows)
		if err != nil {
			return nil, err
		}
		labels = append(labels, *tl)
	}
	return labels, rows.Err()
}

func (r *TaskLabelRepo) Delete(id int64) error {
	_, err := r.q.Exec("DELETE FROM task_labels WHERE id = ?", id)
	return err
}

func (r *TaskLabelRepo) DeleteByTaskID(taskID int64) error {
	_, err := r.q.Exec("DELETE FROM task_labels WHERE task_id = ?", taskID)
	return err
}

func scanTaskLabel(row rowScanner) (*models.TaskLabel, error) {
	var tl models.TaskLabel
	err := row.Scan(
		&tl.ID, &tl.TaskID, &tl.LabelID, &tl.CreatedBy, &tl.CreatedAt,
		&tl.TaskTitle, &tl.LabelName, &tl.LabelColor,
	)
	if err != nil {
		return nil, err
	}
	return &tl, nil
}
