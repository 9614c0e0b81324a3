package service

import (
	"fmt"
	"strings"

	"github.com/tasktrack-io/tasktrack/internal/repository"
)

// nextTaskCode derives a human-readable task code from the project and the
// task type: {project id, 3 digits}/{first 3 letters of the type code,
// uppercased}/{project task count + 1, 3 digits}.
//
// The scheme is count-based, not a stored sequence: two concurrent creates
// in the same project that read the same count would mint the same code.
// Callers must run the count and the subsequent insert in one write
// transaction; on SQLite the single-writer model serializes them.
func nextTaskCode(tasks *repository.TaskRepo, projectID int64, typeCode string) (string, error) {
	count, err := tasks.CountByProject(projectID)
	if err != nil {
		return "", err
	}

	prefix := strings.ToUpper(typeCode)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}

	return fmt.Sprintf("%03d/%s/%03d", projectID, prefix, count+1), nil
}
