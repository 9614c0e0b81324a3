package service

import "time"

// Field is one entry of a partial update. It distinguishes the three states
// a patch field can be in: absent, present-and-null, and present with a
// value. Absent fields leave the record untouched; a present-and-null field
// clears the column.
type Field[T any] struct {
	set   bool
	value *T
}

func Set[T any](v T) Field[T] {
	return Field[T]{set: true, value: &v}
}

func Null[T any]() Field[T] {
	return Field[T]{set: true}
}

// IsSet reports whether the field was present in the request at all.
func (f Field[T]) IsSet() bool { return f.set }

// Ptr returns the value, nil when the field is absent or null.
func (f Field[T]) Ptr() *T { return f.value }

// Apply merges the field into current: absent keeps current, present
// replaces it (possibly with nil).
func (f Field[T]) Apply(current *T) *T {
	if !f.set {
		return current
	}
	return f.value
}

// TaskPatch is a partial task update. Code and duration are deliberately
// missing: the code is immutable after creation and the duration is derived
// from the date pair on every write.
type TaskPatch struct {
	Title          Field[string]
	Description    Field[string]
	ProjectID      Field[int64]
	StatusID       Field[int64]
	PriorityID     Field[int64]
	TypeID         Field[int64]
	AssigneeUserID Field[int64]
	ReporterUserID Field[int64]
	StartDate      Field[time.Time]
	DueDate        Field[time.Time]
	ParentTaskID   Field[int64]
}
