package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/tasktrack-io/tasktrack/internal/models"
)

type TaskRepo struct {
	q Querier
}

const taskSelect = `
	SELECT t.id, t.code, t.title, t.description,
	       t.project_id, t.status_id, t.priority_id, t.type_id,
	       t.assignee_user_id, t.reporter_user_id,
	       t.start_date, t.due_date, t.duration,
	       t.parent_task_id, t.thumbnail,
	       t.created_by, t.created_at, t.updated_by, t.updated_at,
	       p.name, s.name, pr.name, pr.color, tt.name
	FROM tasks t
	LEFT JOIN projects p ON p.id = t.project_id
	LEFT JOIN statuses s ON s.id = t.status_id
	LEFT JOIN priorities pr ON pr.id = t.priority_id
	LEFT JOIN task_types tt ON tt.id = t.type_id
`

func (r *TaskRepo) Create(t *models.Task) (*models.Task, error) {
	result, err := r.q.Exec(`
		INSERT INTO tasks (code, title, description, project_id, status_id, priority_id, type_id,
		                   assignee_user_id, reporter_user_id, start_date, due_date, duration,
		                   parent_task_id, thumbnail, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.Code, t.Title, t.Description, t.ProjectID, t.StatusID, t.PriorityID, t.TypeID,
		t.AssigneeUserID, t.ReporterUserID, t.StartDate, t.DueDate, t.Duration,
		t.ParentTaskID, t.Thumbnail, t.CreatedBy)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

func (r *TaskRepo) GetByID(id int64) (*models.Task, error) {
	row := r.q.QueryRow(taskSelect+" WHERE t.id = ?", id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TaskRepo) List(skip, limit int) ([]models.Task, error) {
	rows, err := r.q.Query(taskSelect+" ORDER BY t.created_at DESC LIMIT ? OFFSET ?", limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTasks(rows)
}

func (r *TaskRepo) Count() (int, error) {
	var n int
	err := r.q.QueryRow("SELECT COUNT(*) FROM tasks").Scan(&n)
	return n, err
}

// CountByProject counts every task in the project regardless of type. The
// task code generator depends on this being the unfiltered count.
func (r *TaskRepo) CountByProject(projectID int64) (int, error) {
	var n int
	err := r.q.QueryRow("SELECT COUNT(*) FROM tasks WHERE project_id = ?", projectID).Scan(&n)
	return n, err
}

// Update persists every mutable column of t. The caller is responsible for
// merging partial input into the current record first; code and created_*
// are immutable and never written here.
func (r *TaskRepo) Update(t *models.Task) error {
	_, err := r.q.Exec(`
		UPDATE tasks
		SET title = ?, description = ?, project_id = ?, status_id = ?, priority_id = ?, type_id = ?,
		    assignee_user_id = ?, reporter_user_id = ?, start_date = ?, due_date = ?, duration = ?,
		    parent_task_id = ?, thumbnail = ?, updated_by = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, t.Title, t.Description, t.ProjectID, t.StatusID, t.PriorityID, t.TypeID,
		t.AssigneeUserID, t.ReporterUserID, t.StartDate, t.DueDate, t.Duration,
		t.ParentTaskID, t.Thumbnail, t.UpdatedBy, t.ID)
	return err
}

func (r *TaskRepo) UpdateStatus(id, statusID int64, updatedBy string) error {
	_, err := r.q.Exec(`
		UPDATE tasks SET status_id = ?, updated_by = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, statusID, updatedBy, id)
	return err
}

func (r *TaskRepo) SetThumbnail(id int64, thumbnail *string) error {
	_, err := r.q.Exec("UPDATE tasks SET thumbnail = ? WHERE id = ?", thumbnail, id)
	return err
}

func (r *TaskRepo) Delete(id int64) error {
	_, err := r.q.Exec("DELETE FROM tasks WHERE id = ?", id)
	return err
}

// SearchFilters narrows task queries; zero values mean "no constraint".
type SearchFilters struct {
	Keyword     string
	ProjectIDs  []int64
	StatusIDs   []int64
	PriorityIDs []int64
	AssigneeIDs []int64
	ReporterIDs []int64
	TypeIDs     []int64
	DateFrom    *time.Time
	DateTo      *time.Time
}

func (f SearchFilters) where() (string, []any) {
	var clauses []string
	var args []any

	if f.Keyword != "" {
		clauses = append(clauses, "(t.title LIKE ? OR t.description LIKE ?)")
		pattern := "%" + f.Keyword + "%"
		args = append(args, pattern, pattern)
	}
	addIn := func(col string, ids []int64) {
		if len(ids) == 0 {
			return
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
		clauses = append(clauses, fmt.Sprintf("%s IN (%s)", col, placeholders))
		for _, id := range ids {
			args = append(args, id)
		}
	}
	addIn("t.project_id", f.ProjectIDs)
	addIn("t.status_id", f.StatusIDs)
	addIn("t.priority_id", f.PriorityIDs)
	addIn("t.assignee_user_id", f.AssigneeIDs)
	addIn("t.reporter_user_id", f.ReporterIDs)
	addIn("t.type_id", f.TypeIDs)

	if f.DateFrom != nil {
		clauses = append(clauses, "t.created_at >= ?")
		args = append(args, *f.DateFrom)
	}
	if f.DateTo != nil {
		clauses = append(clauses, "t.created_at <= ?")
		args = append(args, *f.DateTo)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *TaskRepo) Search(f SearchFilters, skip, limit int) ([]models.Task, error) {
	where, args := f.where()
	args = append(args, limit, skip)

	rows, err := r.q.Query(taskSelect+where+" ORDER BY t.created_at DESC LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTasks(rows)
}

func (r *TaskRepo) SearchCount(f SearchFilters) (int, error) {
	where, args := f.where()

	var n int
	err := r.q.QueryRow("SELECT COUNT(*) FROM tasks t"+where, args...).Scan(&n)
	return n, err
}

// UserDashboard is the per-user rollup shown on the dashboard.
type UserDashboard struct {
	AssignedTotal      int
	AssignedTodo       int
	AssignedInProgress int
	AssignedInReview   int
	AssignedDone       int
	AssignedOverdue    int
	ReportedTotal      int
	ReportedPending    int
	ReportedCompleted  int
}

// GetUserDashboard aggregates task counts for one user. now is passed in so
// the overdue comparison uses driver-formatted timestamps on both sides.
func (r *TaskRepo) GetUserDashboard(userID int64, now time.Time) (*UserDashboard, error) {
	query := `
		SELECT
			SUM(CASE WHEN t.assignee_user_id = ? THEN 1 ELSE 0 END),
			SUM(CASE WHEN t.assignee_user_id = ? AND s.code = 'TODO' THEN 1 ELSE 0 END),
			SUM(CASE WHEN t.assignee_user_id = ? AND s.code = 'IN_PROGRESS' THEN 1 ELSE 0 END),
			SUM(CASE WHEN t.assignee_user_id = ? AND s.code = 'IN_REVIEW' THEN 1 ELSE 0 END),
			SUM(CASE WHEN t.assignee_user_id = ? AND s.code = 'DONE' THEN 1 ELSE 0 END),
			SUM(CASE WHEN t.assignee_user_id = ? AND t.due_date < ? AND s.code NOT IN ('DONE', 'CANCELLED') THEN 1 ELSE 0 END),
			SUM(CASE WHEN t.reporter_user_id = ? THEN 1 ELSE 0 END),
			SUM(CASE WHEN t.reporter_user_id = ? AND s.code NOT IN ('DONE', 'CANCELLED') THEN 1 ELSE 0 END),
			SUM(CASE WHEN t.reporter_user_id = ? AND s.code IN ('DONE', 'CANCELLED') THEN 1 ELSE 0 END)
		FROM tasks t
		LEFT JOIN statuses s ON s.id = t.status_id
	`

	var d UserDashboard
	var cols [9]sql.NullInt64
	err := r.q.QueryRow(query,
		userID, userID, userID, userID, userID, userID, now,
		userID, userID, userID,
	).Scan(&cols[0], &cols[1], &cols[2], &cols[3], &cols[4], &cols[5], &cols[6], &cols[7], &cols[8])
	if err != nil {
		return nil, err
	}

	d.AssignedTotal = int(cols[0].Int64)
	d.AssignedTodo = int(cols[1].Int64)
	d.AssignedInProgress = int(cols[2].Int64)
	d.AssignedInReview = int(cols[3].Int64)
	d.AssignedDone = int(cols[4].Int64)
	d.AssignedOverdue = int(cols[5].Int64)
	d.ReportedTotal = int(cols[6].Int64)
	d.ReportedPending = int(cols[7].Int64)
	d.ReportedCompleted = int(cols[8].Int64)

	return &d, nil
}

// StatusCount is one row of the project rollup.
type StatusCount struct {
	StatusName string
	Count      int
}

func (r *TaskRepo) CountByStatus() ([]StatusCount, error) {
	rows, err := r.q.Query(`
		SELECT s.name, COUNT(t.id)
		FROM statuses s
		LEFT JOIN tasks t ON t.status_id = s.id
		GROUP BY s.id
		ORDER BY s.sort_order
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []StatusCount
	for rows.Next() {
		var c StatusCount
		if err := rows.Scan(&c.StatusName, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// StartingOn returns tasks whose start date falls on the given day and that
// have an assignee; these are the daily reminder candidates.
func (r *TaskRepo) StartingOn(day time.Time) ([]models.Task, error) {
	rows, err := r.q.Query(
		taskSelect+" WHERE date(t.start_date) = date(?) AND t.assignee_user_id IS NOT NULL ORDER BY t.id",
		day,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTasks(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	var t models.Task
	var description, thumbnail, updatedBy sql.NullString
	var projectID, assigneeID, parentID sql.NullInt64
	var startDate, dueDate, updatedAt sql.NullTime
	var duration sql.NullFloat64
	var projectName, statusName, priorityName, priorityColor, typeName sql.NullString

	err := row.Scan(
		&t.ID, &t.Code, &t.Title, &description,
		&projectID, &t.StatusID, &t.PriorityID, &t.TypeID,
		&assigneeID, &t.ReporterUserID,
		&startDate, &dueDate, &duration,
		&parentID, &thumbnail,
		&t.CreatedBy, &t.CreatedAt, &updatedBy, &updatedAt,
		&projectName, &statusName, &priorityName, &priorityColor, &typeName,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		t.Description = &description.String
	}
	if projectID.Valid {
		t.ProjectID = &projectID.Int64
	}
	if assigneeID.Valid {
		t.AssigneeUserID = &assigneeID.Int64
	}
	if startDate.Valid {
		t.StartDate = &startDate.Time
	}
	if dueDate.Valid {
		t.DueDate = &dueDate.Time
	}
	if duration.Valid {
		t.Duration = &duration.Float64
	}
	if parentID.Valid {
		t.ParentTaskID = &parentID.Int64
	}
	if thumbnail.Valid {
		t.Thumbnail = &thumbnail.String
	}
	if updatedBy.Valid {
		t.UpdatedBy = &updatedBy.String
	}
	if updatedAt.Valid {
		t.UpdatedAt = &updatedAt.Time
	}

	t.ProjectName = projectName.String
	t.StatusName = statusName.String
	t.PriorityName = priorityName.String
	t.PriorityColor = priorityColor.String
	t.TypeName = typeName.String

	return &t, nil
}

func scanTasks(rows *sql.Rows) ([]models.Task, error) {
	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}
