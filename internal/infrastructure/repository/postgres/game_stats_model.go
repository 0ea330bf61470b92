package postgres

type gameStatsTableModel struct {
	StatID         string  `db:"stat_id"`
	PlayerID       string  `db:"player_id"`
	GameID         string  `db:"game_id"`
	TeamID         *string `db:"team_id"`
	PositionPlayed *string `db:"position_played"`
	SnapsPlayed    *int    `db:"snaps_played"`
	StarterFlag    bool    `db:"starter_flag"`

	PassingAttempts    int `db:"passing_attempts"`
	PassingCompletions int `db:"passing_completions"`
	PassingYards       int `db:"passing_yards"`
	PassingTDs         int `db:"passing_tds"`
	PassingInts        int `db:"passing_ints"`

	RushingAttempts int `db:"rushing_attempts"`
	RushingYards    int `db:"rushing_yards"`
	RushingTDs      int `db:"rushing_tds"`

	ReceivingTargets int `db:"receiving_targets"`
	Receptions       int `db:"receptions"`
	ReceivingYards   int `db:"receiving_yards"`
	ReceivingTDs     int `db:"receiving_tds"`

	Fumbles     int `db:"fumbles"`
	FumblesLost int `db:"fumbles_lost"`

	FieldGoalsAttempted  int `db:"field_goals_attempted"`
	FieldGoalsMade       int `db:"field_goals_made"`
	ExtraPointsAttempted int `db:"extra_points_attempted"`
	ExtraPointsMade      int `db:"extra_points_made"`

	DefensiveSacks            int `db:"defensive_sacks"`
	DefensiveTackles          int `db:"defensive_tackles"`
	DefensiveInterceptions    int `db:"defensive_interceptions"`
	DefensiveFumblesRecovered int `db:"defensive_fumbles_recovered"`
	DefensiveTDs              int `db:"defensive_tds"`

	PuntReturns     int `db:"punt_returns"`
	PuntReturnYards int `db:"punt_return_yards"`
	PuntReturnTDs   int `db:"punt_return_tds"`
	KickReturns     int `db:"kick_returns"`
	KickReturnYards int `db:"kick_return_yards"`
	KickReturnTDs   int `db:"kick_return_tds"`
	SpecialTeamsTDs int `db:"special_teams_tds"`

	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}
