package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gridironlabs/warehouse-etl/internal/domain/rawfeed"
)

type rawFeedTableModel struct {
	Source      string    `db:"source"`
	EntityType  string    `db:"entity_type"`
	EntityKey   string    `db:"entity_key"`
	SeasonYear  *int      `db:"season_year"`
	URL         string    `db:"url"`
	PayloadHash string    `db:"payload_hash"`
	ByteSize    int       `db:"byte_size"`
	MetaJSON    string    `db:"meta"`
	FetchedAt   time.Time `db:"fetched_at"`
}

type RawFeedRepository struct {
	db *sqlx.DB
}

func NewRawFeedRepository(db *sqlx.DB) *RawFeedRepository {
	return &RawFeedRepository{db: db}
}

// InsertMany archives fetched payload descriptors. Refetching an unchanged
// feed is a no-op via the hash conflict target.
func (r *RawFeedRepository) InsertMany(ctx context.Context, items []rawfeed.Payload) error {
	if len(items) == 0 {
		return nil
	}

	models := make([]rawFeedTableModel, 0, len(items))
	for _, item := range items {
		var season *int
		if item.SeasonYear > 0 {
			year := item.SeasonYear
			season = &year
		}
		models = append(models, rawFeedTableModel{
			Source:      item.Source,
			EntityType:  item.EntityType,
			EntityKey:   item.EntityKey,
			SeasonYear:  season,
			URL:         item.URL,
			PayloadHash: item.PayloadHash,
			ByteSize:    item.ByteSize,
			MetaJSON:    item.MetaJSON,
			FetchedAt:   item.FetchedAt,
		})
	}

	const query = `INSERT INTO raw_feed_payloads (
    source, entity_type, entity_key, season_year, url,
    payload_hash, byte_size, meta, fetched_at
) VALUES (
    :source, :entity_type, :entity_key, :season_year, :url,
    :payload_hash, :byte_size, :meta, :fetched_at
) ON CONFLICT (entity_key, payload_hash) DO NOTHING`

	if _, err := r.db.NamedExecContext(ctx, query, models); err != nil {
		return fmt.Errorf("insert raw feed payloads: %w", err)
	}
	return nil
}
