package usecase

import "errors"

var (
	// ErrInvalidInput is returned when a caller-supplied argument fails
	// validation before any external work is done.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDependencyUnavailable is returned when an upstream feed or the
	// warehouse keeps failing after retries.
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrNoCanonicalGames is returned when resolution is attempted for a
	// season that has no schedule rows loaded in the warehouse.
	ErrNoCanonicalGames = errors.New("no canonical games for season")

	// ErrTableNotEmpty is returned when a destination table still holds rows
	// after the truncate that precedes a load.
	ErrTableNotEmpty = errors.New("destination table not empty")
)
