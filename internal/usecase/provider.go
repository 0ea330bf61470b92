package usecase

import "context"

// ScheduleRow is one scheduled game as the upstream feed publishes it.
type ScheduleRow struct {
	GameID         string
	Season         int
	Week           int
	Gameday        string
	Gametime       string
	Weekday        string
	AwayTeam       string
	HomeTeam       string
	AwayScore      *int
	HomeScore      *int
	AwayQBID       string
	HomeQBID       string
	StadiumID      string
	DivGame        bool
	AwayMoneyline  *float64
	HomeMoneyline  *float64
	SpreadLine     *float64
	AwaySpreadOdds *float64
	HomeSpreadOdds *float64
	TotalLine      *float64
	OverOdds       *float64
	UnderOdds      *float64
}

// WeeklyRow is one player's weekly stat line as the feed publishes it. Stats
// carries the raw per-category values keyed by upstream column name; the
// transform step coerces and maps them onto the warehouse schema.
type WeeklyRow struct {
	PlayerID     string
	PlayerName   string
	Season       int
	Week         int
	RecentTeam   string
	OpponentTeam string
	Position     string
	GameID       string
	Stats        map[string]string
}

// KickingPlay is one field goal or extra point attempt projected out of the
// play-by-play feed.
type KickingPlay struct {
	GameID     string
	Season     int
	Week       int
	KickerID   string
	KickerName string
	Posteam    string
	PlayType   string
	FieldGoal  string
	ExtraPoint string
}

// PlayerRow is one entry from the player reference feed.
type PlayerRow struct {
	PlayerID      string
	FirstName     string
	LastName      string
	Position      string
	TeamAbbr      string
	BirthDate     string
	Height        *float64
	Weight        *float64
	College       string
	DraftYear     *int
	DraftPosition *int
	Status        string
}

// RosterRow is one player-week roster entry, used to derive season
// assignments.
type RosterRow struct {
	PlayerID string
	Season   int
	Week     int
	TeamAbbr string
	Position string
}

// StatsBundle groups the per-season feeds the stats pipeline consumes
// together, so they can be fetched concurrently as a unit.
type StatsBundle struct {
	Weekly  []WeeklyRow
	Kicking []KickingPlay
}

// FeedProvider abstracts the upstream data source.
type FeedProvider interface {
	FetchSchedule(ctx context.Context, seasons []int) ([]ScheduleRow, error)
	FetchPlayers(ctx context.Context) ([]PlayerRow, error)
	FetchRosters(ctx context.Context, seasons []int) ([]RosterRow, error)
	FetchStatsBundle(ctx context.Context, seasons []int) (StatsBundle, error)
}
