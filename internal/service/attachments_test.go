package service

import (
	"bytes"
	"errors"
	"testing"

	"github.com/tasktrack-io/tasktrack/internal/apperr"
	"github.com/tasktrack-io/tasktrack/internal/storage"
)

func TestAttachmentLifecycle(t *testing.T) {
	store := newTestStore(t)
	c := seedCatalogs(t, store)
	project := seedProject(t, store)
	tasks := NewTaskService(store, testMinRole)
	task := mustCreate(t, tasks, baseCreate(project.ID, c), creator)

	objects, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("new object store: %v", err)
	}
	svc := NewAttachmentService(store, objects, testMinRole)

	first, err := svc.Upload(task.ID, "spec.pdf", []byte("pdf bytes"), creator)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if first.FileSize != 9 {
		t.Fatalf("wrong size: %d", first.FileSize)
	}
	shot, err := svc.Upload(task.ID, "shot.png", bytes.Repeat([]byte("x"), 11), creator)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	// The first image becomes the thumbnail; the earlier pdf did not.
	reread, err := store.Tasks.GetByID(task.ID)
	if err != nil {
		t.Fatalf("reread: %v", err)
	}
	if reread.Thumbnail == nil || *reread.Thumbnail != shot.ObjectKey {
		t.Fatalf("thumbnail not set from image upload: %v", reread.Thumbnail)
	}

	if _, err := svc.Upload(999, "nope.txt", []byte("x"), creator); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for unknown task, got %v", err)
	}

	attachments, totalSize, err := svc.ListByTask(task.ID, creator)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(attachments) != 2 {
		t.Fatalf("expected 2 attachments, got %d", len(attachments))
	}
	if totalSize != 20 {
		t.Fatalf("expected total size 20, got %d", totalSize)
	}

	record, data, err := svc.Read(first.ID, creator)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if record.FileName != "spec.pdf" || string(data) != "pdf bytes" {
		t.Fatalf("read mismatch: %s %q", record.FileName, data)
	}

	if err := svc.Delete(first.ID, creator); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := objects.Read(first.ObjectKey); err == nil {
		t.Fatal("object survived attachment delete")
	}
	if err := svc.Delete(first.ID, creator); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for double delete, got %v", err)
	}

	// Deleting the thumbnail attachment clears the thumbnail.
	if err := svc.Delete(shot.ID, creator); err != nil {
		t.Fatalf("delete: %v", err)
	}
	reread, err = store.Tasks.GetByID(task.ID)
	if err != nil {
		t.Fatalf("reread: %v", err)
	}
	if reread.Thumbnail != nil {
		t.Fatalf("thumbnail survived attachment delete: %v", *reread.Thumbnail)
	}
}
