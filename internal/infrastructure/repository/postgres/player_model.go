package postgres

import "time"

type playerTableModel struct {
	PlayerID      string   `db:"player_id"`
	FirstName     string   `db:"first_name"`
	LastName      string   `db:"last_name"`
	Position      *string  `db:"position"`
	TeamID        *string  `db:"team_id"`
	BirthDate     *string  `db:"birth_date"`
	Height        *float64 `db:"height"`
	Weight        *float64 `db:"weight"`
	College       *string  `db:"college"`
	DraftYear     *int     `db:"draft_year"`
	DraftPosition *int     `db:"draft_position"`
	ActiveStatus  bool     `db:"active_status"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
