package playerseason

import "fmt"

// Assignment records which team a player was rostered to for one season,
// along with the primary position (mode of the weekly position values).
// Assignments are reference data: the resolver validates against them and
// never mutates them.
type Assignment struct {
	ID          string
	PlayerID    string
	SeasonYear  int
	TeamAbbr    string
	Position    string
	GamesPlayed int
}

// BuildID renders the player-season key.
func BuildID(playerID string, season int) string {
	return fmt.Sprintf("%s_%d", playerID, season)
}

// Oracle answers "what team was this player on in this season". It is built
// once per pipeline run and passed around as an immutable value.
type Oracle struct {
	teams map[string]map[int]string
}

func NewOracle(items []Assignment) Oracle {
	teams := make(map[string]map[int]string, len(items))
	for _, item := range items {
		if item.PlayerID == "" || item.TeamAbbr == "" {
			continue
		}
		seasons, ok := teams[item.PlayerID]
		if !ok {
			seasons = make(map[int]string, 4)
			teams[item.PlayerID] = seasons
		}
		seasons[item.SeasonYear] = item.TeamAbbr
	}
	return Oracle{teams: teams}
}

// TeamFor returns the assigned team abbreviation for a player-season.
func (o Oracle) TeamFor(playerID string, season int) (string, bool) {
	seasons, ok := o.teams[playerID]
	if !ok {
		return "", false
	}
	team, ok := seasons[season]
	return team, ok
}

// Len reports how many players the oracle covers.
func (o Oracle) Len() int {
	return len(o.teams)
}
