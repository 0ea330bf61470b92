package postgres

import "time"

type gameTableModel struct {
	GameID         string   `db:"game_id"`
	SeasonYear     int      `db:"season_year"`
	WeekNumber     int      `db:"week_number"`
	HomeTeamID     string   `db:"home_team_id"`
	HomeTeamAbbr   string   `db:"home_team_abbr"`
	AwayTeamID     string   `db:"away_team_id"`
	AwayTeamAbbr   string   `db:"away_team_abbr"`
	GameDate       string   `db:"game_date"`
	GameTime       *string  `db:"game_time"`
	StadiumID      *string  `db:"stadium_id"`
	PrimetimeFlag  bool     `db:"primetime_flag"`
	DivisionalFlag bool     `db:"divisional_flag"`
	HomeScore      *int     `db:"home_score"`
	AwayScore      *int     `db:"away_score"`
	HomeQBID       *string  `db:"home_qb_id"`
	AwayQBID       *string  `db:"away_qb_id"`
	HomeMoneyline  *float64 `db:"home_moneyline"`
	AwayMoneyline  *float64 `db:"away_moneyline"`
	SpreadLine     *float64 `db:"spread_line"`
	HomeSpreadOdds *float64 `db:"home_spread_odds"`
	AwaySpreadOdds *float64 `db:"away_spread_odds"`
	TotalLine      *float64 `db:"total_line"`
	OverOdds       *float64 `db:"over_odds"`
	UnderOdds      *float64 `db:"under_odds"`

	// DB-defaulted, never written by the loader.
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
