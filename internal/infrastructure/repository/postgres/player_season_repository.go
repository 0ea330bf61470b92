package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gridironlabs/warehouse-etl/internal/domain/playerseason"
)

const playerSeasonsTable = "player_seasons"

type PlayerSeasonRepository struct {
	db *sqlx.DB
}

func NewPlayerSeasonRepository(db *sqlx.DB) *PlayerSeasonRepository {
	return &PlayerSeasonRepository{db: db}
}

func (r *PlayerSeasonRepository) Table() string { return playerSeasonsTable }

func (r *PlayerSeasonRepository) Truncate(ctx context.Context) error {
	return truncateTable(ctx, r.db, playerSeasonsTable)
}

func (r *PlayerSeasonRepository) CountRows(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, playerSeasonsTable)
}

func (r *PlayerSeasonRepository) InsertBatch(ctx context.Context, assignments []playerseason.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}

	models := make([]playerSeasonTableModel, 0, len(assignments))
	for _, a := range assignments {
		models = append(models, playerSeasonTableModel{
			PlayerSeasonID: a.ID,
			PlayerID:       a.PlayerID,
			SeasonYear:     a.SeasonYear,
			TeamAbbr:       a.TeamAbbr,
			Position:       nullableString(a.Position),
			GamesPlayed:    a.GamesPlayed,
		})
	}

	const query = `INSERT INTO player_seasons (
    player_season_id, player_id, season_year, team_abbr, position, games_played
) VALUES (
    :player_season_id, :player_id, :season_year, :team_abbr, :position, :games_played
)`

	if _, err := r.db.NamedExecContext(ctx, query, models); err != nil {
		return fmt.Errorf("insert player seasons batch: %w", err)
	}
	return nil
}

func (r *PlayerSeasonRepository) ListAssignments(ctx context.Context) ([]playerseason.Assignment, error) {
	var models []playerSeasonTableModel
	if err := r.db.SelectContext(ctx, &models, "SELECT * FROM player_seasons"); err != nil {
		return nil, fmt.Errorf("list player seasons: %w", err)
	}

	out := make([]playerseason.Assignment, 0, len(models))
	for _, m := range models {
		out = append(out, playerseason.Assignment{
			ID:          m.PlayerSeasonID,
			PlayerID:    m.PlayerID,
			SeasonYear:  m.SeasonYear,
			TeamAbbr:    m.TeamAbbr,
			Position:    deref(m.Position),
			GamesPlayed: m.GamesPlayed,
		})
	}
	return out, nil
}
