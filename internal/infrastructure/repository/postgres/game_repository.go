package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gridironlabs/warehouse-etl/internal/domain/game"
)

const gamesTable = "games"

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) Table() string { return gamesTable }

func (r *GameRepository) Truncate(ctx context.Context) error {
	return truncateTable(ctx, r.db, gamesTable)
}

func (r *GameRepository) CountRows(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, gamesTable)
}

func (r *GameRepository) InsertBatch(ctx context.Context, games []game.Game) error {
	if len(games) == 0 {
		return nil
	}

	models := make([]gameTableModel, 0, len(games))
	for _, g := range games {
		models = append(models, gameTableModel{
			GameID:         g.ID,
			SeasonYear:     g.SeasonYear,
			WeekNumber:     g.WeekNumber,
			HomeTeamID:     g.HomeTeamID,
			HomeTeamAbbr:   g.HomeTeamAbbr,
			AwayTeamID:     g.AwayTeamID,
			AwayTeamAbbr:   g.AwayTeamAbbr,
			GameDate:       g.GameDate,
			GameTime:       nullableString(g.GameTime),
			StadiumID:      nullableString(g.StadiumID),
			PrimetimeFlag:  g.PrimetimeFlag,
			DivisionalFlag: g.DivisionalFlag,
			HomeScore:      g.HomeScore,
			AwayScore:      g.AwayScore,
			HomeQBID:       nullableString(g.HomeQBID),
			AwayQBID:       nullableString(g.AwayQBID),
			HomeMoneyline:  g.HomeMoneyline,
			AwayMoneyline:  g.AwayMoneyline,
			SpreadLine:     g.SpreadLine,
			HomeSpreadOdds: g.HomeSpreadOdds,
			AwaySpreadOdds: g.AwaySpreadOdds,
			TotalLine:      g.TotalLine,
			OverOdds:       g.OverOdds,
			UnderOdds:      g.UnderOdds,
		})
	}

	const query = `INSERT INTO games (
    game_id, season_year, week_number,
    home_team_id, home_team_abbr, away_team_id, away_team_abbr,
    game_date, game_time, stadium_id,
    primetime_flag, divisional_flag,
    home_score, away_score, home_qb_id, away_qb_id,
    home_moneyline, away_moneyline, spread_line,
    home_spread_odds, away_spread_odds, total_line, over_odds, under_odds
) VALUES (
    :game_id, :season_year, :week_number,
    :home_team_id, :home_team_abbr, :away_team_id, :away_team_abbr,
    :game_date, :game_time, :stadium_id,
    :primetime_flag, :divisional_flag,
    :home_score, :away_score, :home_qb_id, :away_qb_id,
    :home_moneyline, :away_moneyline, :spread_line,
    :home_spread_odds, :away_spread_odds, :total_line, :over_odds, :under_odds
)`

	if _, err := r.db.NamedExecContext(ctx, query, models); err != nil {
		return fmt.Errorf("insert games batch: %w", err)
	}
	return nil
}

func (r *GameRepository) ListBySeasons(ctx context.Context, seasons []int) ([]game.Game, error) {
	if len(seasons) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In("SELECT * FROM games WHERE season_year IN (?)", seasons)
	if err != nil {
		return nil, fmt.Errorf("build list games query: %w", err)
	}
	query = r.db.Rebind(query)

	var models []gameTableModel
	if err := r.db.SelectContext(ctx, &models, query, args...); err != nil {
		return nil, fmt.Errorf("list games by seasons: %w", err)
	}

	out := make([]game.Game, 0, len(models))
	for _, m := range models {
		out = append(out, game.Game{
			ID:             m.GameID,
			SeasonYear:     m.SeasonYear,
			WeekNumber:     m.WeekNumber,
			HomeTeamID:     m.HomeTeamID,
			HomeTeamAbbr:   m.HomeTeamAbbr,
			AwayTeamID:     m.AwayTeamID,
			AwayTeamAbbr:   m.AwayTeamAbbr,
			GameDate:       m.GameDate,
			GameTime:       deref(m.GameTime),
			StadiumID:      deref(m.StadiumID),
			PrimetimeFlag:  m.PrimetimeFlag,
			DivisionalFlag: m.DivisionalFlag,
			HomeScore:      m.HomeScore,
			AwayScore:      m.AwayScore,
			HomeQBID:       deref(m.HomeQBID),
			AwayQBID:       deref(m.AwayQBID),
			HomeMoneyline:  m.HomeMoneyline,
			AwayMoneyline:  m.AwayMoneyline,
			SpreadLine:     m.SpreadLine,
			HomeSpreadOdds: m.HomeSpreadOdds,
			AwaySpreadOdds: m.AwaySpreadOdds,
			TotalLine:      m.TotalLine,
			OverOdds:       m.OverOdds,
			UnderOdds:      m.UnderOdds,
		})
	}
	return out, nil
}

func (r *GameRepository) DistinctSeasons(ctx context.Context) ([]int, error) {
	var seasons []int
	if err := r.db.SelectContext(ctx, &seasons, "SELECT DISTINCT season_year FROM games ORDER BY season_year"); err != nil {
		return nil, fmt.Errorf("list distinct seasons: %w", err)
	}
	return seasons, nil
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
