package models

import "time"

type Project struct {
	ID          int64
	Code        string
	Name        string
	Description string
	OwnerUserID *int64
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedBy   *string
	UpdatedAt   *time.Time

	// Joined fields
	TaskCount int
}

type Status struct {
	ID    int64
	Code  string
	Name  string
	Order int
}

type Priority struct {
	ID    int64
	Code  string
	Name  string
	Color string
	Order int
}

type TaskType struct {
	ID   int64
	Code string
	Name string
}

type Label struct {
	ID    int64
	Name  string
	Color string
}

type Task struct {
	ID             int64
	Code           string
	Title          string
	Description    *string
	ProjectID      *int64
	StatusID       int64
	PriorityID     int64
	TypeID         int64
	AssigneeUserID *int64
	ReporterUserID int64
	StartDate      *time.Time
	DueDate        *time.Time
	Duration       *float64 // hours, derived from start/due dates
	ParentTaskID   *int64
	Thumbnail      *string
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedBy      *string
	UpdatedAt      *time.Time

	// Joined fields
	ProjectName   string
	StatusName    string
	PriorityName  string
	PriorityColor string
	TypeName      string
}

type TaskComment struct {
	ID              int64
	TaskID          int64
	UserID          int64
	Comment         string
	ParentCommentID *int64
	CreatedBy       string
	CreatedAt       time.Time

	// Joined fields
	TaskTitle string
}

type TaskLabel struct {
	ID        int64
	TaskID    int64
	LabelID   int64
	CreatedBy string
	CreatedAt time.Time

	// Joined fields
	TaskTitle  string
	LabelName  string
	LabelColor string
}

type TaskWatcher struct {
	ID        int64
	TaskID    int64
	UserID    int64
	CreatedBy string
	CreatedAt time.Time

	// Joined fields
	TaskTitle string
	UserName  string
	UserEmail string
}

type TaskAttachment struct {
	ID         int64
	TaskID     int64
	FileName   string
	ObjectKey  string
	FileSize   int64
	UploadedBy int64
	CreatedBy  string
	CreatedAt  time.Time
}

// TaskHistory is an append-only audit entry. Entries are written when a
// tracked task field changes and are never updated or deleted by the
// application flow.
type TaskHistory struct {
	ID          int64
	TaskID      int64
	FieldName   string
	OldValue    *string
	NewValue    *string
	ActorUserID int64
	CreatedBy   string
	CreatedAt   time.Time
}

// User is a directory entry resolved outside this system. Only the fields
// needed for display and reminders are carried.
type User struct {
	ID       int64
	FullName string
	Email    string
}
