package repository

import (
	"database/sql"

	"github.com/tasktrack-io/tasktrack/internal/models"
)

// Reference catalogs: small read-mostly lookup tables supplying valid
// foreign keys and display names for tasks.

type StatusRepo struct {
	q Querier
}

func (r *StatusRepo) GetByID(id int64) (*models.Status, error) {
	var s models.Status
	err := r.q.QueryRow(
		"SELECT id, code, name, sort_order FROM statuses WHERE id = ?", id,
	).Scan(&s.ID, &s.Code, &s.Name, &s.Order)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StatusRepo) GetAll() ([]models.Status, error) {
	rows, err := r.q.Query("SELECT id, code, name, sort_order FROM statuses ORDER BY sort_order")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []models.Status
	for rows.Next() {
		var s models.Status
		if err := rows.Scan(&s.ID, &s.Code, &s.Name, &s.Order); err != nil {
			return nil, err
		}
		statuses = append(statuses, s)
	}
	return statuses, rows.Err()
}

func (r *StatusRepo) Create(s *models.Status) (*models.Status, error) {
	result, err := r.q.Exec(
		"INSERT INTO statuses (code, name, sort_order) VALUES (?, ?, ?)",
		s.Code, s.Name, s.Order,
	)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

func (r *StatusRepo) Update(s *models.Status) error {
	_, err := r.q.Exec(
		"UPDATE statuses SET code = ?, name = ?, sort_order = ? WHERE id = ?",
		s.Code, s.Name, s.Order, s.ID,
	)
	return err
}

func (r *StatusRepo) Delete(id int64) error {
	_, err := r.q.Exec("DELETE FROM statuses WHERE id = ?", id)
	return err
}

type PriorityRepo struct {
	q Querier
}

func (r *PriorityRepo) GetByID(id int64) (*models.Priority, error) {
	var p models.Priority
	err := r.q.QueryRow(
		"SELECT id, code, name, color, sort_order FROM priorities WHERE id = ?", id,
	).Scan(&p.ID, &p.Code, &p.Name, &p.Color, &p.Order)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PriorityRepo) GetAll() ([]models.Priority, error) {
	rows, err := r.q.Query("SELECT id, code, name, color, sort_order FROM priorities ORDER BY sort_order")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var priorities []models.Priority
	for rows.Next() {
		var p models.Priority
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.Color, &p.Order); err != nil {
			return nil, err
		}
		priorities = append(priorities, p)
	}
	return priorities, rows.Err()
}

func (r *PriorityRepo) Create(p *models.Priority) (*models.Priority, error) {
	result, err := r.q.Exec(
		"INSERT INTO priorities (code, name, color, sort_order) VALUES (?, ?, ?, ?)",
		p.Code, p.Name, p.Color, p.Order,
	)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

func (r *PriorityRepo) Update(p *models.Priority) error {
	_, err := r.q.Exec(
		"UPDATE priorities SET code = ?, name = ?, color = ?, sort_order = ? WHERE id = ?",
		p.Code, p.Name, p.Color, p.Order, p.ID,
	)
	return err
}

func (r *PriorityRepo) Delete(id int64) error {
	_, err := r.q.Exec("DELETE FROM priorities WHERE id = ?", id)
	return err
}

type TaskTypeRepo struct {
	q Querier
}

func (r *TaskTypeRepo) GetByID(id int64) (*models.TaskType, error) {
	var t models.TaskType
	err := r.q.QueryRow(
		"SELECT id, code, name FROM task_types WHERE id = ?", id,
	).Scan(&t.ID, &t.Code, &t.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskTypeRepo) GetAll() ([]models.TaskType, error) {
	rows, err := r.q.Query("SELECT id, code, name FROM task_types ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []models.TaskType
	for rows.Next() {
		var t models.TaskType
		if err := rows.Scan(&t.ID, &t.Code, &t.Name); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

func (r *TaskTypeRepo) Create(t *models.TaskType) (*models.TaskType, error) {
	result, err := r.q.Exec("INSERT INTO task_types (code, name) VALUES (?, ?)", t.Code, t.Name)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

func (r *TaskTypeRepo) Update(t *models.TaskType) error {
	_, err := r.q.Exec("UPDATE task_types SET code = ?, name = ? WHERE id = ?", t.Code, t.Name, t.ID)
	return err
}

func (r *TaskTypeRepo) Delete(id int64) error {
	_, err := r.q.Exec("DELETE FROM task_types WHERE id = ?", id)
	return err
}

type LabelRepo struct {
	q Querier
}

func (r *LabelRepo) GetByID(id int64) (*models.Label, error) {
	var l models.Label
	err := r.q.QueryRow(
		"SELECT id, name, color FROM labels WHERE id = ?", id,
	).Scan(&l.ID, &l.Name, &l.Color)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LabelRepo) GetAll() ([]models.Label, error) {
	rows, err := r.q.Query("SELECT id, name, color FROM labels ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labels []models.Label
	for rows.Next() {
		var l models.Label
		if err := rows.Scan(&l.ID, &l.Name, &l.Color); err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}

func (r *LabelRepo) Create(l *models.Label) (*models.Label, error) {
	result, err := r.q.Exec("INSERT INTO labels (name, color) VALUES (?, ?)", l.Name, l.Color)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

func (r *LabelRepo) Update(l *models.Label) error {
	_, err := r.q.Exec("UPDATE labels SET name = ?, color = ? WHERE id = ?", l.Name, l.Color, l.ID)
	return err
}

func (r *LabelRepo) Delete(id int64) error {
	_, err := r.q.Exec("DELETE FROM labels WHERE id = ?", id)
	return err
}
