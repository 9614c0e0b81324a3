package repository

import (
	"database/sql"

	"github.com/tasktrack-io/tasktrack/internal/models"
)

type ProjectRepo struct {
	q Querier
}

func (r *ProjectRepo) Create(p *models.Project) (*models.Project, error) {
	result, err := r.q.Exec(`
		INSERT INTO projects (code, name, description, owner_user_id, created_by)
		VALUES (?, ?, ?, ?, ?)
	`, p.Code, p.Name, p.Description, p.OwnerUserID, p.CreatedBy)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

func (r *ProjectRepo) GetByID(id int64) (*models.Project, error) {
	row := r.q.QueryRow(`
		SELECT id, code, name, description, owner_user_id, created_by, created_at, updated_by, updated_at
		FROM projects
		WHERE id = ?
	`, id)

	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProjectRepo) GetByCode(code string) (*models.Project, error) {
	row := r.q.QueryRow(`
		SELECT id, code, name, description, owner_user_id, created_by, created_at, updated_by, updated_at
		FROM projects
		WHERE code = ?
	`, code)

	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProjectRepo) GetAll(skip, limit int) ([]models.Project, error) {
	rows, err := r.q.Query(`
		SELECT id, code, name, description, owner_user_id, created_by, created_at, updated_by, updated_at
		FROM projects
		ORDER BY name
		LIMIT ? OFFSET ?
	`, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepo) GetAllWithStats() ([]models.Project, error) {
	rows, err := r.q.Query(`
		SELECT p.id, p.code, p.name, p.description, p.owner_user_id,
		       p.created_by, p.created_at, p.updated_by, p.updated_at,
		       COUNT(t.id) as task_count
		FROM projects p
		LEFT JOIN tasks t ON t.project_id = p.id
		GROUP BY p.id
		ORDER BY p.name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		var description string
		var ownerID sql.NullInt64
		var updatedBy sql.NullString
		var updatedAt sql.NullTime

		if err := rows.Scan(
			&p.ID, &p.Code, &p.Name, &description, &ownerID,
			&p.CreatedBy, &p.CreatedAt, &updatedBy, &updatedAt,
			&p.TaskCount,
		); err != nil {
			return nil, err
		}

		p.Description = description
		if ownerID.Valid {
			p.OwnerUserID = &ownerID.Int64
		}
		if updatedBy.Valid {
			p.UpdatedBy = &updatedBy.String
		}
		if updatedAt.Valid {
			p.UpdatedAt = &updatedAt.Time
		}

		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepo) Count() (int, error) {
	var n int
	err := r.q.QueryRow("SELECT COUNT(*) FROM projects").Scan(&n)
	return n, err
}

func (r *ProjectRepo) Update(p *models.Project) error {
	_, err := r.q.Exec(`
		UPDATE projects
		SET name = ?, description = ?, owner_user_id = ?, updated_by = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, p.Name, p.Description, p.OwnerUserID, p.UpdatedBy, p.ID)
	return err
}

func (r *ProjectRepo) Delete(id int64) error {
	_, err := r.q.Exec("DELETE FROM projects WHERE id = ?", id)
	return err
}

func scanProject(row rowScanner) (*models.Project, error) {
	var p models.Project
	var ownerID sql.NullInt64
	var updatedBy sql.NullString
	var updatedAt sql.NullTime

	err := row.Scan(
		&p.ID, &p.Code, &p.Name, &p.Description, &ownerID,
		&p.CreatedBy, &p.CreatedAt, &updatedBy, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if ownerID.Valid {
		p.OwnerUserID = &ownerID.Int64
	}
	if updatedBy.Valid {
		p.UpdatedBy = &updatedBy.String
	}
	if updatedAt.Valid {
		p.UpdatedAt = &updatedAt.Time
	}

	return &p, nil
}
