package playerseason

import "context"

// Repository exposes team-season assignment read operations.
type Repository interface {
	ListAssignments(ctx context.Context) ([]Assignment, error)
}
