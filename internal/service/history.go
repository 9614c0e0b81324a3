package service

import (
	"strconv"
	"time"

	"github.com/tasktrack-io/tasktrack/internal/apperr"
	"github.com/tasktrack-io/tasktrack/internal/models"
	"github.com/tasktrack-io/tasktrack/internal/repository"
)

// Tracked field names as they appear in audit entries. The enumeration
// order below is the order entries are written in, regardless of how the
// patch was populated.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldStatus      = "status"
	FieldPriority    = "priority"
	FieldAssignee    = "assignee"
	FieldDueDate     = "due_date"
	FieldStartDate   = "start_date"
)

// trackedChanges diffs the tracked fields of the pre-update snapshot
// against a patch and returns one entry per field whose stringified value
// actually changed. Fields absent from the patch never produce an entry,
// and neither do fields outside the tracked set (project, parent, type).
// A nil stringification stands for "unset", which is distinct from every
// real value, so unset-to-set and set-to-unset both register.
func trackedChanges(old *models.Task, patch TaskPatch, actorUserID int64) []models.TaskHistory {
	type candidate struct {
		name     string
		set      bool
		oldValue *string
		newValue *string
	}

	candidates := []candidate{
		{FieldTitle, patch.Title.IsSet(), stringValue(&old.Title), stringValue(patch.Title.Ptr())},
		{FieldDescription, patch.Description.IsSet(), stringValue(old.Description), stringValue(patch.Description.Ptr())},
		{FieldStatus, patch.StatusID.IsSet(), intValue(&old.StatusID), intValue(patch.StatusID.Ptr())},
		{FieldPriority, patch.PriorityID.IsSet(), intValue(&old.PriorityID), intValue(patch.PriorityID.Ptr())},
		{FieldAssignee, patch.AssigneeUserID.IsSet(), intValue(old.AssigneeUserID), intValue(patch.AssigneeUserID.Ptr())},
		{FieldDueDate, patch.DueDate.IsSet(), timeValue(old.DueDate), timeValue(patch.DueDate.Ptr())},
		{FieldStartDate, patch.StartDate.IsSet(), timeValue(old.StartDate), timeValue(patch.StartDate.Ptr())},
	}

	var entries []models.TaskHistory
	for _, c := range candidates {
		if !c.set || equalValue(c.oldValue, c.newValue) {
			continue
		}
		entries = append(entries, models.TaskHistory{
			TaskID:      old.ID,
			FieldName:   c.name,
			OldValue:    c.oldValue,
			NewValue:    c.newValue,
			ActorUserID: actorUserID,
			CreatedBy:   strconv.FormatInt(actorUserID, 10),
		})
	}
	return entries
}

func stringValue(v *string) *string {
	if v == nil {
		return nil
	}
	s := *v
	return &s
}

func intValue(v *int64) *string {
	if v == nil {
		return nil
	}
	s := strconv.FormatInt(*v, 10)
	return &s
}

func timeValue(v *time.Time) *string {
	if v == nil {
		return nil
	}
	s := v.UTC().Format(time.RFC3339)
	return &s
}

func equalValue(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// HistoryService reads the audit log. It exposes no write path: entries are
// produced only by task updates, inside the same transaction.
type HistoryService struct {
	store        *repository.Store
	minRoleLevel int
}

func NewHistoryService(store *repository.Store, minRoleLevel int) *HistoryService {
	return &HistoryService{store: store, minRoleLevel: minRoleLevel}
}

func (s *HistoryService) GetTaskHistory(taskID int64, fieldName string, skip, limit int, actor Actor) ([]models.TaskHistory, int, error) {
	if actor.RoleLevel < s.minRoleLevel {
		return nil, 0, apperr.Forbidden("insufficient permission to view task history")
	}

	entries, err := s.store.History.GetByTaskID(taskID, fieldName, skip, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.store.History.CountByTaskID(taskID, fieldName)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
