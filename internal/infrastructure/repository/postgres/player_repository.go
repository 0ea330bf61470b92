package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gridironlabs/warehouse-etl/internal/domain/player"
)

const playersTable = "players"

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) Table() string { return playersTable }

func (r *PlayerRepository) Truncate(ctx context.Context) error {
	return truncateTable(ctx, r.db, playersTable)
}

func (r *PlayerRepository) CountRows(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, playersTable)
}

func (r *PlayerRepository) InsertBatch(ctx context.Context, players []player.Player) error {
	if len(players) == 0 {
		return nil
	}

	models := make([]playerTableModel, 0, len(players))
	for _, p := range players {
		models = append(models, playerTableModel{
			PlayerID:      p.ID,
			FirstName:     p.FirstName,
			LastName:      p.LastName,
			Position:      nullableString(p.Position),
			TeamID:        nullableString(p.TeamID),
			BirthDate:     nullableString(p.BirthDate),
			Height:        p.Height,
			Weight:        p.Weight,
			College:       nullableString(p.College),
			DraftYear:     p.DraftYear,
			DraftPosition: p.DraftPosition,
			ActiveStatus:  p.ActiveStatus,
		})
	}

	const query = `INSERT INTO players (
    player_id, first_name, last_name, position, team_id,
    birth_date, height, weight, college,
    draft_year, draft_position, active_status
) VALUES (
    :player_id, :first_name, :last_name, :position, :team_id,
    :birth_date, :height, :weight, :college,
    :draft_year, :draft_position, :active_status
)`

	if _, err := r.db.NamedExecContext(ctx, query, models); err != nil {
		return fmt.Errorf("insert players batch: %w", err)
	}
	return nil
}

func (r *PlayerRepository) ListIDs(ctx context.Context) (map[string]struct{}, error) {
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, "SELECT player_id FROM players"); err != nil {
		return nil, fmt.Errorf("list player ids: %w", err)
	}

	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}
