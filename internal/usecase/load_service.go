package usecase

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/gridironlabs/warehouse-etl/internal/platform/logging"
)

// DefaultBatchSize is the warehouse insert batch size. Kept well under the
// Postgres bind-parameter limit for the widest table.
const DefaultBatchSize = 500

// TableStore is the destination-table surface the load coordinator needs.
type TableStore interface {
	Table() string
	Truncate(ctx context.Context) error
	CountRows(ctx context.Context) (int64, error)
}

// BatchInsertFunc inserts the half-open row range [start, end).
type BatchInsertFunc func(ctx context.Context, start, end int) error

// BatchOutcome records one batch's result. Failed batches are reported, not
// retried, and do not roll back batches already inserted.
type BatchOutcome struct {
	Start int
	End   int
	Err   error
}

// LoadReport summarizes one table load.
type LoadReport struct {
	Table    string
	Total    int
	Inserted int
	Failed   int
	Batches  []BatchOutcome
}

// LoadService owns the truncate, verify-empty, batch-insert discipline every
// table load follows.
type LoadService struct {
	batchSize int
	logger    *logging.Logger
}

func NewLoadService(batchSize int, logger *logging.Logger) *LoadService {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &LoadService{batchSize: batchSize, logger: logger}
}

// PrepareTable truncates the destination and verifies it is empty before any
// insert. A non-empty table after truncation aborts the load.
func (s *LoadService) PrepareTable(ctx context.Context, store TableStore) error {
	ctx, span := startUsecaseSpan(ctx, "load.PrepareTable",
		attribute.String("table", store.Table()))
	var err error
	defer func() { endUsecaseSpan(span, err) }()

	if err = store.Truncate(ctx); err != nil {
		err = fmt.Errorf("truncate %s: %w", store.Table(), err)
		return err
	}

	count, err := store.CountRows(ctx)
	if err != nil {
		err = fmt.Errorf("count %s: %w", store.Table(), err)
		return err
	}
	if count > 0 {
		err = fmt.Errorf("%w: %s holds %d rows after truncate", ErrTableNotEmpty, store.Table(), count)
		return err
	}

	s.logger.InfoContext(ctx, "destination table prepared", "table", store.Table())
	return nil
}

// InsertAll splits total rows into fixed-size batches and inserts each via
// insert. Per-batch failures are independent: they are logged and collected,
// and the remaining batches still run.
func (s *LoadService) InsertAll(ctx context.Context, store TableStore, total int, insert BatchInsertFunc) LoadReport {
	ctx, span := startUsecaseSpan(ctx, "load.InsertAll",
		attribute.String("table", store.Table()),
		attribute.Int("rows", total))
	defer endUsecaseSpan(span, nil)

	report := LoadReport{Table: store.Table(), Total: total}
	for start := 0; start < total; start += s.batchSize {
		end := start + s.batchSize
		if end > total {
			end = total
		}

		outcome := BatchOutcome{Start: start, End: end}
		if err := insert(ctx, start, end); err != nil {
			outcome.Err = err
			report.Failed += end - start
			s.logger.ErrorContext(ctx, "batch insert failed",
				"table", store.Table(),
				"start", start,
				"end", end,
				"error", err,
			)
		} else {
			report.Inserted += end - start
		}
		report.Batches = append(report.Batches, outcome)
	}

	s.logger.InfoContext(ctx, "table load finished",
		"table", store.Table(),
		"total", report.Total,
		"inserted", report.Inserted,
		"failed", report.Failed,
	)
	return report
}

// FirstError returns the first failed batch's error, nil when all succeeded.
func (r LoadReport) FirstError() error {
	for _, b := range r.Batches {
		if b.Err != nil {
			return b.Err
		}
	}
	return nil
}
