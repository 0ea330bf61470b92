package player

type Player struct {
	ID            string
	FirstName     string
	LastName      string
	Position      string
	TeamID        string
	BirthDate     string
	Height        *float64
	Weight        *float64
	College       string
	DraftYear     *int
	DraftPosition *int
	ActiveStatus  bool
}
