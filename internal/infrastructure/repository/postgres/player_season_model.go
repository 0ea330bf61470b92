package postgres

import "time"

type playerSeasonTableModel struct {
	PlayerSeasonID string  `db:"player_season_id"`
	PlayerID       string  `db:"player_id"`
	SeasonYear     int     `db:"season_year"`
	TeamAbbr       string  `db:"team_abbr"`
	Position       *string `db:"position"`
	GamesPlayed    int     `db:"games_played"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
