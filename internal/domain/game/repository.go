package game

import "context"

// Repository exposes canonical game read operations.
type Repository interface {
	ListBySeasons(ctx context.Context, seasons []int) ([]Game, error)
	DistinctSeasons(ctx context.Context) ([]int, error)
}
