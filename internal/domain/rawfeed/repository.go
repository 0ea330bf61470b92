package rawfeed

import "context"

type Repository interface {
	InsertMany(ctx context.Context, items []Payload) error
}
