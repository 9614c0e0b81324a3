package service

import (
	"math"
	"time"

	"github.com/tasktrack-io/tasktrack/internal/models"
	"github.com/tasktrack-io/tasktrack/internal/repository"
)

// Sender delivers one reminder. The actual transport (SMTP or otherwise)
// lives outside this system; this service only decides what to send and to
// whom.
type Sender interface {
	SendTaskReminder(email, name string, task models.Task) error
}

// ReminderSummary reports one reminder run.
type ReminderSummary struct {
	TotalTasks   int
	EmailsSent   int
	EmailsFailed int
	SuccessRate  float64
	FailedTasks  []string
}

// ReminderService scans for tasks starting on a given day that have an
// assignee and hands each one to the sender.
type ReminderService struct {
	store     *repository.Store
	directory Directory
	sender    Sender
}

func NewReminderService(store *repository.Store, directory Directory, sender Sender) *ReminderService {
	return &ReminderService{store: store, directory: directory, sender: sender}
}

func (s *ReminderService) Run(day time.Time) (*ReminderSummary, error) {
	tasks, err := s.store.Tasks.StartingOn(day)
	if err != nil {
		return nil, err
	}

	summary := &ReminderSummary{TotalTasks: len(tasks)}
	for _, task := range tasks {
		user, ok := s.directory.Lookup(*task.AssigneeUserID)
		if !ok || user.Email == "" {
			summary.EmailsFailed++
			summary.FailedTasks = append(summary.FailedTasks, task.Code)
			continue
		}
		if err := s.sender.SendTaskReminder(user.Email, user.FullName, task); err != nil {
			summary.EmailsFailed++
			summary.FailedTasks = append(summary.FailedTasks, task.Code)
			continue
		}
		summary.EmailsSent++
	}

	if summary.TotalTasks > 0 {
		rate := float64(summary.EmailsSent) / float64(summary.TotalTasks) * 100
		// Two decimals, same as the summary consumers expect.
		summary.SuccessRate = math.Round(rate*100) / 100
	}
	return summary, nil
}
