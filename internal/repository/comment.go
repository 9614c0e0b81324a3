package repository

import (
	"database/sql"

	"github.com/tasktrack-io/tasktrack/internal/models"
)

type CommentRepo struct {
	q Querier
}

const commentSelect = `
	SELECT c.id, c.task_id, c.user_id, c.comment, c.parent_comment_id,
	       c.created_by, c.created_at, t.title
	FROM task_comments c
	JOIN tasks t ON t.id = c.task_id
`

func (r *CommentRepo) Create(c *models.TaskComment) (*models.TaskComment, error) {
	result, err := r.q.Exec(`
		INSERT INTO task_comments (task_id, user_id, comment, parent_comment_id, created_by)
		VALUES (?, ?, ?, ?, ?)
	`, c.TaskID, c.UserID, c.Comment, c.ParentCommentID, c.CreatedBy)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

func (r *CommentRepo) GetByID(id int64) (*models.TaskComment, error) {
	row := r.q.QueryRow(commentSelect+" WHERE c.id = ?", id)
	c, err := scanComment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CommentRepo) GetByTaskID(taskID int64, skip, limit int) ([]models.TaskComment, error) {
	rows, err := r.q.Query(
		commentSelect+" WHERE c.task_id = ? ORDER BY c.created_at DESC LIMIT ? OFFSET ?",
		taskID, limit, skip,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.TaskComment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}

func (r *CommentRepo) CountByTaskID(taskID int64) (int, error) {
	var n int
	err := r.q.QueryRow("SELECT COUNT(*) FROM task_comments WHERE task_id = ?", taskID).Scan(&n)
	return n, err
}

func (r *CommentRepo) Delete(id int64) error {
	_, err := r.q.Exec("DELETE FROM task_comments WHERE id = ?", id)
	return err
}

// DeleteByTaskID removes every comment on the task. Replies are removed in
// the same statement, so parent ordering does not matter.
func (r *CommentRepo) DeleteByTaskID(taskID int64) error {
	_, err := r.q.Exec("DELETE FROM task_comments WHERE task_id = ?", taskID)
	return err
}

func scanComment(row rowScanner) (*models.TaskComment, error) {
	var c models.TaskComment
	var parentID sql.NullInt64

	err := row.Scan(
		&c.ID, &c.TaskID, &c.UserID, &c.Comment, &parentID,
		&c.CreatedBy, &c.CreatedAt, &c.TaskTitle,
	)
	if err != nil {
		return nil, err
	}

	if parentID.Valid {
		c.ParentCommentID = &parentID.Int64
	}

	return &c, nil
}
