package player

import "context"

// Repository exposes player read operations.
type Repository interface {
	ListIDs(ctx context.Context) (map[string]struct{}, error)
}
