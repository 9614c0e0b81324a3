package service

import (
	"path/filepath"
	"strings"

	"github.com/tasktrack-io/tasktrack/internal/apperr"
	"github.com/tasktrack-io/tasktrack/internal/models"
	"github.com/tasktrack-io/tasktrack/internal/repository"
)

// ObjectStore is the attachment byte store. The local implementation lives
// in internal/storage; anything with the same shape (a bucket, a CDN) can
// stand in.
type ObjectStore interface {
	Save(fileName string, data []byte) (key string, err error)
	Read(key string) ([]byte, error)
	Delete(key string) error
}

// AttachmentService manages task attachments: the record in the store plus
// the object bytes. Minimum role level only, like the other relationship
// managers.
type AttachmentService struct {
	store        *repository.Store
	objects      ObjectStore
	minRoleLevel int
}

func NewAttachmentService(store *repository.Store, objects ObjectStore, minRoleLevel int) *AttachmentService {
	return &AttachmentService{store: store, objects: objects, minRoleLevel: minRoleLevel}
}

func (s *AttachmentService) Upload(taskID int64, fileName string, data []byte, actor Actor) (*models.TaskAttachment, error) {
	if actor.RoleLevel < s.minRoleLevel {
		return nil, apperr.Forbidden("insufficient permission to upload attachment")
	}

	task, err := s.store.Tasks.GetByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, apperr.NotFound("task with id %d not found", taskID)
	}

	key, err := s.objects.Save(fileName, data)
	if err != nil {
		return nil, err
	}

	attachment, err := s.store.Attachments.Create(&models.TaskAttachment{
		TaskID:     taskID,
		FileName:   fileName,
		ObjectKey:  key,
		FileSize:   int64(len(data)),
		UploadedBy: actor.UserID,
		CreatedBy:  actor.key(),
	})
	if err != nil {
		// The record failed; drop the orphaned object.
		_ = s.objects.Delete(key)
		return nil, apperr.FromSQLite(err)
	}

	// The first image uploaded becomes the task thumbnail.
	if task.Thumbnail == nil && isImage(fileName) {
		if err := s.store.Tasks.SetThumbnail(taskID, &key); err != nil {
			return nil, err
		}
	}
	return attachment, nil
}

func isImage(fileName string) bool {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return true
	}
	return false
}

// ListByTask returns the task's attachments and their combined size in
// bytes.
func (s *AttachmentService) ListByTask(taskID int64, actor Actor) ([]models.TaskAttachment, int64, error) {
	if actor.RoleLevel < s.minRoleLevel {
		return nil, 0, apperr.Forbidden("insufficient permission to list attachments")
	}

	attachments, err := s.store.Attachments.GetByTaskID(taskID)
	if err != nil {
		return nil, 0, err
	}

	var totalSize int64
	for _, a := range attachments {
		totalSize += a.FileSize
	}
	return attachments, totalSize, nil
}

func (s *AttachmentService) Read(id int64, actor Actor) (*models.TaskAttachment, []byte, error) {
	if actor.RoleLevel < s.minRoleLevel {
		return nil, nil, apperr.Forbidden("insufficient permission to read attachment")
	}

	attachment, err := s.store.Attachments.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	if attachment == nil {
		return nil, nil, apperr.NotFound("attachment with id %d not found", id)
	}

	data, err := s.objects.Read(attachment.ObjectKey)
	if err != nil {
		return nil, nil, err
	}
	return attachment, data, nil
}

func (s *AttachmentService) Delete(id int64, actor Actor) error {
	if actor.RoleLevel < s.minRoleLevel {
		return apperr.Forbidden("insufficient permission to delete attachment")
	}

	attachment, err := s.store.Attachments.GetByID(id)
	if err != nil {
		return err
	}
	if attachment == nil {
		return apperr.NotFound("attachment with id %d not found", id)
	}

	if err := s.store.Attachments.Delete(id); err != nil {
		return err
	}

	task, err := s.store.Tasks.GetByID(attachment.TaskID)
	if err != nil {
		return err
	}
	if task != nil && task.Thumbnail != nil && *task.Thumbnail == attachment.ObjectKey {
		if err := s.store.Tasks.SetThumbnail(task.ID, nil); err != nil {
			return err
		}
	}
	return s.objects.Delete(attachment.ObjectKey)
}
