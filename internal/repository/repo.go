package repository

import (
	"database/sql"
)

// Querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Repositories run against it so the same code serves both autocommit
// calls and transactional sequences.
type Querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Store bundles the per-entity repositories over one database handle.
type Store struct {
	db *sql.DB

	Projects    *ProjectRepo
	Statuses    *StatusRepo
	Priorities  *PriorityRepo
	TaskTypes   *TaskTypeRepo
	Labels      *LabelRepo
	Tasks       *TaskRepo
	Comments    *CommentRepo
	TaskLabels  *TaskLabelRepo
	Watchers    *WatcherRepo
	Attachments *AttachmentRepo
	History     *HistoryRepo
}

func NewStore(db *sql.DB) *Store {
	return newStore(db, db)
}

func newStore(db *sql.DB, q Querier) *Store {
	return &Store{
		db:          db,
		Projects:    &ProjectRepo{q: q},
		Statuses:    &StatusRepo{q: q},
		Priorities:  &PriorityRepo{q: q},
		TaskTypes:   &TaskTypeRepo{q: q},
		Labels:      &LabelRepo{q: q},
		Tasks:       &TaskRepo{q: q},
		Comments:    &CommentRepo{q: q},
		TaskLabels:  &TaskLabelRepo{q: q},
		Watchers:    &WatcherRepo{q: q},
		Attachments: &AttachmentRepo{q: q},
		History:     &HistoryRepo{q: q},
	}
}

// WithTx runs fn against a transaction-scoped store. The transaction is
// committed when fn returns nil and rolled back otherwise.
func (s *Store) WithTx(fn func(*Store) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(newStore(s.db, tx)); err != nil {
		return err
	}
	return tx.Commit()
}
