package gamestats

import "fmt"

// Row is one player's statistical line for one game, shaped to the
// player_game_stats warehouse schema. Counters default to zero; only
// SnapsPlayed may be nil, for feeds that do not carry snap counts.
type Row struct {
	StatID         string `validate:"required"`
	PlayerID       string `validate:"required"`
	GameID         string `validate:"required"`
	TeamID         string
	PositionPlayed string
	SnapsPlayed    *int `validate:"omitempty,gte=0"`
	StarterFlag    bool

	PassingAttempts    int `validate:"gte=0"`
	PassingCompletions int `validate:"gte=0"`
	PassingYards       int
	PassingTDs         int `validate:"gte=0"`
	PassingInts        int `validate:"gte=0"`

	RushingAttempts int `validate:"gte=0"`
	RushingYards    int
	RushingTDs      int `validate:"gte=0"`

	ReceivingTargets int `validate:"gte=0"`
	Receptions       int `validate:"gte=0"`
	ReceivingYards   int
	ReceivingTDs     int `validate:"gte=0"`

	Fumbles     int `validate:"gte=0"`
	FumblesLost int `validate:"gte=0"`

	FieldGoalsAttempted  int `validate:"gte=0"`
	FieldGoalsMade       int `validate:"gte=0"`
	ExtraPointsAttempted int `validate:"gte=0"`
	ExtraPointsMade      int `validate:"gte=0"`

	DefensiveSacks            int `validate:"gte=0"`
	DefensiveTackles          int `validate:"gte=0"`
	DefensiveInterceptions    int `validate:"gte=0"`
	DefensiveFumblesRecovered int `validate:"gte=0"`
	DefensiveTDs              int `validate:"gte=0"`

	PuntReturns     int `validate:"gte=0"`
	PuntReturnYards int
	PuntReturnTDs   int `validate:"gte=0"`
	KickReturns     int `validate:"gte=0"`
	KickReturnYards int
	KickReturnTDs   int `validate:"gte=0"`
	SpecialTeamsTDs int `validate:"gte=0"`

	CreatedAt string
	UpdatedAt string
}

// BuildStatID renders the deterministic per-player per-game key.
func BuildStatID(playerID, gameID string) string {
	return fmt.Sprintf("%s_%s", playerID, gameID)
}
