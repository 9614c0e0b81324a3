package service

import (
	"github.com/tasktrack-io/tasktrack/internal/apperr"
	"github.com/tasktrack-io/tasktrack/internal/models"
	"github.com/tasktrack-io/tasktrack/internal/repository"
)

// CommentService manages task comments. Unlike task mutation there is no
// ownership rule here: the minimum role level is the only gate.
type CommentService struct {
	store        *repository.Store
	minRoleLevel int
}

func NewCommentService(store *repository.Store, minRoleLevel int) *CommentService {
	return &CommentService{store: store, minRoleLevel: minRoleLevel}
}

type CommentCreate struct {
	TaskID          int64
	Comment         string
	ParentCommentID *int64
}

func (s *CommentService) Create(input CommentCreate, actor Actor) (*models.TaskComment, error) {
	if actor.RoleLevel < s.minRoleLevel {
		return nil, apperr.Forbidden("insufficient permission to create comment")
	}

	task, err := s.store.Tasks.GetByID(input.TaskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, apperr.NotFound("task with id %d not found", input.TaskID)
	}

	comment, err := s.store.Comments.Create(&models.TaskComment{
		TaskID:          input.TaskID,
		UserID:          actor.UserID,
		Comment:         input.Comment,
		ParentCommentID: input.ParentCommentID,
		CreatedBy:       actor.key(),
	})
	if err != nil {
		return nil, apperr.FromSQLite(err)
	}
	return comment, nil
}

func (s *CommentService) Get(id int64, actor Actor) (*models.TaskComment, error) {
	if actor.RoleLevel < s.minRoleLevel {
		return nil, apperr.Forbidden("insufficient permission to view comment")
	}

	comment, err := s.store.Comments.GetByID(id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, apperr.NotFound("comment with id %d not found", id)
	}
	return comment, nil
}

func (s *CommentService) ListByTask(taskID int64, skip, limit int, actor Actor) ([]models.TaskComment, int, error) {
	if actor.RoleLevel < s.minRoleLevel {
		return nil, 0, apperr.Forbidden("insufficient permission to list comments")
	}

	comments, err := s.store.Comments.GetByTaskID(taskID, skip, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.store.Comments.CountByTaskID(taskID)
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

func (s *CommentService) Delete(id int64, actor Actor) error {
	if actor.RoleLevel < s.minRoleLevel {
		return apperr.Forbidden("insufficient permission to delete comment")
	}

	comment, err := s.store.Comments.GetByID(id)
	if err != nil {
		return err
	}
	if comment == nil {
		return apperr.NotFound("comment with id %d not found", id)
	}
	return s.store.Comments.Delete(id)
}
