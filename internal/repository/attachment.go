package repository

import (
	"database/sql"

	"github.com/tasktrack-io/tasktrack/internal/models"
)

type AttachmentRepo struct {
	q Querier
}

func (r *AttachmentRepo) Create(a *models.TaskAttachment) (*models.TaskAttachment, error) {
	result, err := r.q.Exec(`
		INSERT INTO task_attachments (task_id, file_name, object_key, file_size, uploaded_by, created_by)
		VALUES (?, ?, ?, ?, ?, ?)
	`, a.TaskID, a.FileName, a.ObjectKey, a.FileSize, a.UploadedBy, a.CreatedBy)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

func (r *AttachmentRepo) GetByID(id int64) (*models.TaskAttachment, error) {
	var a models.TaskAttachment
	err := r.q.QueryRow(`
		SELECT id, task_id, file_name, object_key, file_size, uploaded_by, created_by, created_at
		FROM task_attachments
		WHERE id = ?
	`, id).Scan(&a.ID, &a.TaskID, &a.FileName, &a.ObjectKey, &a.FileSize, &a.UploadedBy, &a.CreatedBy, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttachmentRepo) GetByTaskID(taskID int64) ([]models.TaskAttachment, error) {
	rows, err := r.q.Query(`
		SELECT id, task_id, file_name, object_key, file_size, uploaded_by, created_by, created_at
		FROM task_attachments
		WHERE task_id = ?
		ORDER BY created_at DESC
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attachments []models.TaskAttachment
	for rows.Next() {
		var a models.TaskAttachment
		if err := rows.Scan(&a.ID, &a.TaskID, &a.FileName, &a.ObjectKey, &a.FileSize, &a.UploadedBy, &a.CreatedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		attachments = append(attachments, a)
	}
	return attachments, rows.Err()
}

func (r *AttachmentRepo) Delete(id int64) error {
	_, err := r.q.Exec("DELETE FROM task_attachments WHERE id = ?", id)
	return err
}

func (r *AttachmentRepo) DeleteByTaskID(taskID int64) error {
	_, err := r.q.Exec("DELETE FROM task_attachments WHERE task_id = ?", taskID)
	return err
}
