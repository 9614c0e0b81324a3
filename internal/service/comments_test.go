package service

import (
	"errors"
	"testing"

	"github.com/tasktrack-io/tasktrack/internal/apperr"
)

func TestCommentThreading(t *testing.T) {
	store := newTestStore(t)
	c := seedCatalogs(t, store)
	project := seedProject(t, store)
	tasks := NewTaskService(store, testMinRole)
	task := mustCreate(t, tasks, baseCreate(project.ID, c), creator)

	svc := NewCommentService(store, testMinRole)

	root, err := svc.Create(CommentCreate{TaskID: task.ID, Comment: "initial findings"}, creator)
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}
	if root.UserID != creator.UserID || root.CreatedBy != "1" {
		t.Fatalf("wrong attribution: %+v", root)
	}

	reply, err := svc.Create(CommentCreate{
		TaskID:          task.ID,
		Comment:         "confirmed on my side",
		ParentCommentID: &root.ID,
	}, other)
	if err != nil {
		t.Fatalf("create reply: %v", err)
	}
	if reply.ParentCommentID == nil || *reply.ParentCommentID != root.ID {
		t.Fatalf("reply not threaded: %+v", reply)
	}

	if _, err := svc.Create(CommentCreate{TaskID: 999, Comment: "lost"}, creator); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for unknown task, got %v", err)
	}

	comments, total, err := svc.ListByTask(task.ID, 0, 50, creator)
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if total != 2 || len(comments) != 2 {
		t.Fatalf("expected 2 comments, got %d (total %d)", len(comments), total)
	}

	// No ownership rule: any sufficiently privileged user can delete.
	// Replies go first, the parent column has an enforced foreign key.
	if err := svc.Delete(reply.ID, creator); err != nil {
		t.Fatalf("delete reply: %v", err)
	}
	if err := svc.Delete(root.ID, other); err != nil {
		t.Fatalf("delete comment: %v", err)
	}
	if _, err := svc.Get(root.ID, creator); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
