package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gridironlabs/warehouse-etl/internal/domain/gamestats"
)

const gameStatsTable = "player_game_stats"

type GameStatsRepository struct {
	db *sqlx.DB
}

func NewGameStatsRepository(db *sqlx.DB) *GameStatsRepository {
	return &GameStatsRepository{db: db}
}

func (r *GameStatsRepository) Table() string { return gameStatsTable }

func (r *GameStatsRepository) Truncate(ctx context.Context) error {
	return truncateTable(ctx, r.db, gameStatsTable)
}

func (r *GameStatsRepository) CountRows(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, gameStatsTable)
}

func (r *GameStatsRepository) InsertBatch(ctx context.Context, rows []gamestats.Row) error {
	if len(rows) == 0 {
		return nil
	}

	models := make([]gameStatsTableModel, 0, len(rows))
	for _, row := range rows {
		models = append(models, gameStatsTableModel{
			StatID:         row.StatID,
			PlayerID:       row.PlayerID,
			GameID:         row.GameID,
			TeamID:         nullableString(row.TeamID),
			PositionPlayed: nullableString(row.PositionPlayed),
			SnapsPlayed:    row.SnapsPlayed,
			StarterFlag:    row.StarterFlag,

			PassingAttempts:    row.PassingAttempts,
			PassingCompletions: row.PassingCompletions,
			PassingYards:       row.PassingYards,
			PassingTDs:         row.PassingTDs,
			PassingInts:        row.PassingInts,

			RushingAttempts: row.RushingAttempts,
			RushingYards:    row.RushingYards,
			RushingTDs:      row.RushingTDs,

			ReceivingTargets: row.ReceivingTargets,
			Receptions:       row.Receptions,
			ReceivingYards:   row.ReceivingYards,
			ReceivingTDs:     row.ReceivingTDs,

			Fumbles:     row.Fumbles,
			FumblesLost: row.FumblesLost,

			FieldGoalsAttempted:  row.FieldGoalsAttempted,
			FieldGoalsMade:       row.FieldGoalsMade,
			ExtraPointsAttempted: row.ExtraPointsAttempted,
			ExtraPointsMade:      row.ExtraPointsMade,

			DefensiveSacks:            row.DefensiveSacks,
			DefensiveTackles:          row.DefensiveTackles,
			DefensiveInterceptions:    row.DefensiveInterceptions,
			DefensiveFumblesRecovered: row.DefensiveFumblesRecovered,
			DefensiveTDs:              row.DefensiveTDs,

			PuntReturns:     row.PuntReturns,
			PuntReturnYards: row.PuntReturnYards,
			PuntReturnTDs:   row.PuntReturnTDs,
			KickReturns:     row.KickReturns,
			KickReturnYards: row.KickReturnYards,
			KickReturnTDs:   row.KickReturnTDs,
			SpecialTeamsTDs: row.SpecialTeamsTDs,

			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		})
	}

	const query = `INSERT INTO player_game_stats (
    stat_id, player_id, game_id, team_id, position_played, snaps_played, starter_flag,
    passing_attempts, passing_completions, passing_yards, passing_tds, passing_ints,
    rushing_attempts, rushing_yards, rushing_tds,
    receiving_targets, receptions, receiving_yards, receiving_tds,
    fumbles, fumbles_lost,
    field_goals_attempted, field_goals_made, extra_points_attempted, extra_points_made,
    defensive_sacks, defensive_tackles, defensive_interceptions, defensive_fumbles_recovered, defensive_tds,
    punt_returns, punt_return_yards, punt_return_tds,
    kick_returns, kick_return_yards, kick_return_tds, special_teams_tds,
    created_at, updated_at
) VALUES (
    :stat_id, :player_id, :game_id, :team_id, :position_played, :snaps_played, :starter_flag,
    :passing_attempts, :passing_completions, :passing_yards, :passing_tds, :passing_ints,
    :rushing_attempts, :rushing_yards, :rushing_tds,
    :receiving_targets, :receptions, :receiving_yards, :receiving_tds,
    :fumbles, :fumbles_lost,
    :field_goals_attempted, :field_goals_made, :extra_points_attempted, :extra_points_made,
    :defensive_sacks, :defensive_tackles, :defensive_interceptions, :defensive_fumbles_recovered, :defensive_tds,
    :punt_returns, :punt_return_yards, :punt_return_tds,
    :kick_returns, :kick_return_yards, :kick_return_tds, :special_teams_tds,
    :created_at, :updated_at
)`

	if _, err := r.db.NamedExecContext(ctx, query, models); err != nil {
		return fmt.Errorf("insert player game stats batch: %w", err)
	}
	return nil
}
