package game

import "fmt"

// Game is one canonical scheduled contest. The ID is the wire-level
// identifier other systems key on: "{season}_{week}_{away}_{home}" with the
// week zero-padded to two digits.
type Game struct {
	ID             string
	SeasonYear     int
	WeekNumber     int
	HomeTeamID     string
	HomeTeamAbbr   string
	AwayTeamID     string
	AwayTeamAbbr   string
	GameDate       string
	GameTime       string
	StadiumID      string
	PrimetimeFlag  bool
	DivisionalFlag bool
	HomeScore      *int
	AwayScore      *int
	HomeQBID       string
	AwayQBID       string
	HomeMoneyline  *float64
	AwayMoneyline  *float64
	SpreadLine     *float64
	HomeSpreadOdds *float64
	AwaySpreadOdds *float64
	TotalLine      *float64
	OverOdds       *float64
	UnderOdds      *float64
}

// BuildID renders the canonical game identifier for a season/week/matchup.
func BuildID(season, week int, awayAbbr, homeAbbr string) string {
	return fmt.Sprintf("%d_%02d_%s_%s", season, week, awayAbbr, homeAbbr)
}

// HasTeam reports whether abbr is one of the two teams in the game.
func (g Game) HasTeam(abbr string) bool {
	return abbr != "" && (abbr == g.HomeTeamAbbr || abbr == g.AwayTeamAbbr)
}
