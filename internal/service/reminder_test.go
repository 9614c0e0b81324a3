package service

import (
	"errors"
	"testing"
	"time"

	"github.com/tasktrack-io/tasktrack/internal/models"
)

type recordingSender struct {
	sent   []string
	failOn string
}

func (s *recordingSender) SendTaskReminder(email, name string, task models.Task) error {
	if task.Code == s.failOn {
		return errors.New("smtp unavailable")
	}
	s.sent = append(s.sent, email)
	return nil
}

func TestReminderRun(t *testing.T) {
	store := newTestStore(t)
	c := seedCatalogs(t, store)
	project := seedProject(t, store)
	svc := NewTaskService(store, testMinRole)

	today := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	known := int64(7)
	unknown := int64(99)

	makeTask := func(assignee *int64, start *time.Time) *models.Task {
		input := baseCreate(project.ID, c)
		input.AssigneeUserID = assignee
		input.StartDate = start
		return mustCreate(t, svc, input, creator)
	}

	okTask := makeTask(&known, &today)
	noDirectory := makeTask(&unknown, &today)
	makeTask(nil, &today)   // no assignee, never a candidate
	makeTask(&known, nil)   // no start date
	otherDay := today.AddDate(0, 0, 1)
	makeTask(&known, &otherDay)

	directory := StaticDirectory{Users: []models.User{
		{ID: known, FullName: "Dana Field", Email: "dana@example.com"},
	}}
	sender := &recordingSender{}

	summary, err := NewReminderService(store, directory, sender).Run(today)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if summary.TotalTasks != 2 {
		t.Fatalf("expected 2 candidate tasks, got %d", summary.TotalTasks)
	}
	if summary.EmailsSent != 1 || summary.EmailsFailed != 1 {
		t.Fatalf("expected 1 sent / 1 failed, got %d / %d", summary.EmailsSent, summary.EmailsFailed)
	}
	if summary.SuccessRate != 50 {
		t.Fatalf("expected 50%% success rate, got %v", summary.SuccessRate)
	}
	if len(summary.FailedTasks) != 1 || summary.FailedTasks[0] != noDirectory.Code {
		t.Fatalf("wrong failed tasks: %v", summary.FailedTasks)
	}
	if len(sender.sent) != 1 || sender.sent[0] != "dana@example.com" {
		t.Fatalf("wrong recipients: %v", sender.sent)
	}

	// Transport failures count as failed, not as errors.
	sender2 := &recordingSender{failOn: okTask.Code}
	summary, err = NewReminderService(store, directory, sender2).Run(today)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if summary.EmailsSent != 0 || summary.EmailsFailed != 2 {
		t.Fatalf("expected 0 sent / 2 failed, got %d / %d", summary.EmailsSent, summary.EmailsFailed)
	}
	if summary.SuccessRate != 0 {
		t.Fatalf("expected 0%% success rate, got %v", summary.SuccessRate)
	}
}

func TestReminderSuccessRateRounding(t *testing.T) {
	store := newTestStore(t)
	c := seedCatalogs(t, store)
	project := seedProject(t, store)
	svc := NewTaskService(store, testMinRole)

	today := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	known := int64(7)
	unknown := int64(99)

	for _, assignee := range []int64{known, unknown, unknown} {
		input := baseCreate(project.ID, c)
		input.AssigneeUserID = &assignee
		input.StartDate = &today
		mustCreate(t, svc, input, creator)
	}

	directory := StaticDirectory{Users: []models.User{
		{ID: known, FullName: "Dana Field", Email: "dana@example.com"},
	}}

	// 1 of 3 sent, so the rate lands on a repeating decimal.
	summary, err := NewReminderService(store, directory, &recordingSender{}).Run(today)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if summary.SuccessRate != 33.33 {
		t.Fatalf("expected success rate 33.33, got %v", summary.SuccessRate)
	}
}

func TestReminderNoCandidates(t *testing.T) {
	store := newTestStore(t)
	seedCatalogs(t, store)

	summary, err := NewReminderService(store, StaticDirectory{}, &recordingSender{}).Run(time.Now())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if summary.TotalTasks != 0 || summary.SuccessRate != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}
