package usecase

import (
	"context"
	"testing"

	"github.com/gridironlabs/warehouse-etl/internal/domain/playerseason"
	"github.com/gridironlabs/warehouse-etl/internal/platform/logging"
)

func newTestTransformService() *TransformService {
	resolver := NewResolverService(stubGameRepo{}, PolicyDrop, logging.NewNop())
	return NewTransformService(resolver, logging.NewNop())
}

func TestTransformStats_StatIDAndColumnMapping(t *testing.T) {
	t.Parallel()

	svc := newTestTransformService()
	idx := NewGameIndex(testGames())

	rows := []WeeklyRow{{
		PlayerID: "00-0033873", Season: 2023, Week: 1,
		RecentTeam: "KC", Position: "QB", GameID: "2023_01_KC_DET",
		Stats: map[string]string{
			"attempts":          "34",
			"completions":       "21",
			"passing_yards":     "226",
			"passing_tds":       "0.0",
			"interceptions":     "garbage",
			"carries":           "6",
			"rushing_yards":     "-7",
			"sack_fumbles":      "1",
			"rushing_fumbles":   "2",
			"fumbles_lost":      "1",
			"offense_snaps":     "61",
			"special_teams_tds": "-3",
		},
	}}

	out, _ := svc.TransformStats(context.Background(), idx, playerseason.Oracle{}, rows, nil)
	if len(out) != 1 {
		t.Fatalf("expected 1 row, got=%d", len(out))
	}
	row := out[0]

	if row.StatID != "00-0033873_2023_01_KC_DET" {
		t.Fatalf("stat_id: got=%q", row.StatID)
	}
	if row.PassingAttempts != 34 || row.PassingCompletions != 21 || row.PassingYards != 226 {
		t.Fatalf("passing mapping: %+v", row)
	}
	if row.PassingTDs != 0 {
		t.Fatalf("float coercion: got=%d want=0", row.PassingTDs)
	}
	if row.PassingInts != 0 {
		t.Fatalf("garbage must degrade to zero, got=%d", row.PassingInts)
	}
	if row.RushingAttempts != 6 {
		t.Fatalf("carries mapping: got=%d want=6", row.RushingAttempts)
	}
	if row.RushingYards != -7 {
		t.Fatalf("yards keep their sign: got=%d want=-7", row.RushingYards)
	}
	if row.Fumbles != 3 {
		t.Fatalf("fumble components must sum: got=%d want=3", row.Fumbles)
	}
	if row.FumblesLost != 1 {
		t.Fatalf("fumbles lost: got=%d want=1", row.FumblesLost)
	}
	if row.SpecialTeamsTDs != 0 {
		t.Fatalf("negative counters clamp to zero, got=%d", row.SpecialTeamsTDs)
	}
	if row.SnapsPlayed == nil || *row.SnapsPlayed != 61 {
		t.Fatalf("snaps: got=%v want=61", row.SnapsPlayed)
	}
	if row.ReceivingTargets != 0 || row.Receptions != 0 {
		t.Fatalf("absent counters must default to zero: %+v", row)
	}
	if row.CreatedAt == "" || row.UpdatedAt == "" {
		t.Fatalf("timestamps must be set")
	}
}

func TestTransformStats_StarterFlags(t *testing.T) {
	t.Parallel()

	svc := newTestTransformService()
	idx := NewGameIndex(testGames())

	rows := []WeeklyRow{
		{PlayerID: "qb-hi", Season: 2023, Week: 1, RecentTeam: "KC", Position: "QB",
			GameID: "2023_01_KC_DET", Stats: map[string]string{"attempts": "12"}},
		{PlayerID: "qb-lo", Season: 2023, Week: 1, RecentTeam: "DET", Position: "QB",
			GameID: "2023_01_KC_DET", Stats: map[string]string{"attempts": "9"}},
		{PlayerID: "rb-hi", Season: 2023, Week: 1, RecentTeam: "KC", Position: "RB",
			GameID: "2023_01_KC_DET", Stats: map[string]string{"carries": "8"}},
		{PlayerID: "wr-lo", Season: 2023, Week: 1, RecentTeam: "DET", Position: "WR",
			GameID: "2023_01_KC_DET", Stats: map[string]string{"targets": "3"}},
		{PlayerID: "te-hi", Season: 2023, Week: 1, RecentTeam: "DET", Position: "TE",
			GameID: "2023_01_KC_DET", Stats: map[string]string{"targets": "4"}},
		{PlayerID: "lb", Season: 2023, Week: 1, RecentTeam: "DET", Position: "LB",
			GameID: "2023_01_KC_DET", Stats: map[string]string{"tackles": "14"}},
	}

	out, _ := svc.TransformStats(context.Background(), idx, playerseason.Oracle{}, rows, nil)
	want := map[string]bool{
		"qb-hi": true, "qb-lo": false,
		"rb-hi": true, "wr-lo": false, "te-hi": true,
		"lb": false,
	}
	for _, row := range out {
		if row.StarterFlag != want[row.PlayerID] {
			t.Fatalf("starter flag for %s: got=%v want=%v", row.PlayerID, row.StarterFlag, want[row.PlayerID])
		}
	}
}

func TestTransformStats_TacklesOverride(t *testing.T) {
	t.Parallel()

	svc := newTestTransformService()
	idx := NewGameIndex(testGames())

	rows := []WeeklyRow{{
		PlayerID: "lb1", Season: 2023, Week: 1, RecentTeam: "DET", Position: "LB",
		GameID: "2023_01_KC_DET",
		Stats: map[string]string{
			"tackles":          "99",
			"solo_tackles":     "3",
			"assisted_tackles": "2",
		},
	}}

	out, _ := svc.TransformStats(context.Background(), idx, playerseason.Oracle{}, rows, nil)
	if out[0].DefensiveTackles != 5 {
		t.Fatalf("solo+assisted must override direct tackles: got=%d want=5", out[0].DefensiveTackles)
	}
}

func TestTransformStats_KickingMergeAndDedup(t *testing.T) {
	t.Parallel()

	svc := newTestTransformService()
	idx := NewGameIndex(testGames())

	rows := []WeeklyRow{
		// Primary-stream kicker row, replaced by the play-level aggregate.
		{PlayerID: "k1", Season: 2023, Week: 1, RecentTeam: "KC", Position: "K",
			GameID: "2023_01_KC_DET", Stats: map[string]string{"fg_attempts": "99"}},
		// Duplicate of the same player+game, first occurrence wins.
		{PlayerID: "rb1", Season: 2023, Week: 1, RecentTeam: "KC", Position: "RB",
			GameID: "2023_01_KC_DET", Stats: map[string]string{"carries": "10"}},
		{PlayerID: "rb1", Season: 2023, Week: 1, RecentTeam: "KC", Position: "RB",
			GameID: "2023_01_KC_DET", Stats: map[string]string{"carries": "3"}},
		// Missing game id, filtered.
		{PlayerID: "wr1", Season: 2023, Week: 1, RecentTeam: "KC", Position: "WR",
			GameID: "", Stats: map[string]string{"targets": "8"}},
	}

	plays := []KickingPlay{
		{GameID: "2023_01_KC_DET", Season: 2023, KickerID: "k1", Posteam: "KC",
			PlayType: "field_goal", FieldGoal: "made"},
		{GameID: "2023_01_KC_DET", Season: 2023, KickerID: "k1", Posteam: "KC",
			PlayType: "field_goal", FieldGoal: "missed"},
		{GameID: "2023_01_KC_DET", Season: 2023, KickerID: "k1", Posteam: "KC",
			PlayType: "extra_point", ExtraPoint: "good"},
	}

	out, _ := svc.TransformStats(context.Background(), idx, playerseason.Oracle{}, rows, plays)

	byID := make(map[string]int)
	for i, row := range out {
		byID[row.StatID] = i
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 rows (rb + kicker), got=%d", len(out))
	}

	rb := out[byID["rb1_2023_01_KC_DET"]]
	if rb.RushingAttempts != 10 {
		t.Fatalf("dedup must keep first occurrence: got=%d want=10", rb.RushingAttempts)
	}

	k := out[byID["k1_2023_01_KC_DET"]]
	if k.FieldGoalsAttempted != 2 || k.FieldGoalsMade != 1 {
		t.Fatalf("kicking aggregate fg: %+v", k)
	}
	if k.ExtraPointsAttempted != 1 || k.ExtraPointsMade != 1 {
		t.Fatalf("kicking aggregate pat: %+v", k)
	}
	if !k.StarterFlag {
		t.Fatalf("kicker with fg attempts must be a starter")
	}
	if k.PositionPlayed != "K" || k.TeamID != "KC" {
		t.Fatalf("kicker row metadata: %+v", k)
	}
}

func TestTransformStats_KickingLineForUnknownGameIsDropped(t *testing.T) {
	t.Parallel()

	svc := newTestTransformService()
	idx := NewGameIndex(testGames())

	plays := []KickingPlay{
		{GameID: "2023_09_SEA_ARI", Season: 2023, KickerID: "k9", Posteam: "ARI",
			PlayType: "field_goal", FieldGoal: "made"},
		{GameID: "2023_01_KC_DET", Season: 2023, KickerID: "k1", Posteam: "KC",
			PlayType: "field_goal", FieldGoal: "made"},
	}

	out, _ := svc.TransformStats(context.Background(), idx, playerseason.Oracle{}, nil, plays)
	if len(out) != 1 {
		t.Fatalf("expected 1 row, got=%d", len(out))
	}
	if out[0].StatID != "k1_2023_01_KC_DET" {
		t.Fatalf("only the canonical game's kicker survives: got=%q", out[0].StatID)
	}
	for _, row := range out {
		if !idx.Contains(row.GameID) {
			t.Fatalf("row %s references unknown game %s", row.StatID, row.GameID)
		}
	}
}

func TestTransformStats_DefensiveColumnMapping(t *testing.T) {
	t.Parallel()

	svc := newTestTransformService()
	idx := NewGameIndex(testGames())

	rows := []WeeklyRow{{
		PlayerID: "lb2", Season: 2023, Week: 1, RecentTeam: "DET", Position: "LB",
		GameID: "2023_01_KC_DET",
		Stats: map[string]string{
			"sacks":             "2",
			"tackles":           "7",
			"def_interceptions": "1",
			"fumbles_recovered": "1",
			"defensive_tds":     "1",
		},
	}}

	out, _ := svc.TransformStats(context.Background(), idx, playerseason.Oracle{}, rows, nil)
	row := out[0]
	if row.DefensiveSacks != 2 || row.DefensiveTackles != 7 {
		t.Fatalf("sack/tackle mapping: %+v", row)
	}
	if row.DefensiveInterceptions != 1 || row.DefensiveFumblesRecovered != 1 || row.DefensiveTDs != 1 {
		t.Fatalf("defensive mapping: %+v", row)
	}
}

func TestTransformStats_SnapsNilWhenAbsent(t *testing.T) {
	t.Parallel()

	svc := newTestTransformService()
	idx := NewGameIndex(testGames())

	rows := []WeeklyRow{{
		PlayerID: "wr1", Season: 2023, Week: 1, RecentTeam: "KC", Position: "WR",
		GameID: "2023_01_KC_DET", Stats: map[string]string{"targets": "5"},
	}}
	out, _ := svc.TransformStats(context.Background(), idx, playerseason.Oracle{}, rows, nil)
	if out[0].SnapsPlayed != nil {
		t.Fatalf("snaps must be nil when the feed has no snap counts, got=%v", *out[0].SnapsPlayed)
	}
}

func TestTransformGames(t *testing.T) {
	t.Parallel()

	svc := newTestTransformService()
	rows := []ScheduleRow{
		{Season: 2023, Week: 1, AwayTeam: "KC", HomeTeam: "DET",
			Weekday: "Thursday", Gametime: "20:20", DivGame: false},
		{GameID: "2023_01_BUF_NYJ", Season: 2023, Week: 1, AwayTeam: "BUF", HomeTeam: "NYJ",
			Weekday: "Monday", Gametime: "20:15", DivGame: true},
		{Season: 2023, Week: 1, AwayTeam: "JAX", HomeTeam: "IND",
			Weekday: "Sunday", Gametime: "13:00", DivGame: true},
		{Season: 2023, Week: 1, AwayTeam: "", HomeTeam: "SEA"},
	}

	out := svc.TransformGames(context.Background(), rows)
	if len(out) != 3 {
		t.Fatalf("expected 3 games, got=%d", len(out))
	}
	if out[0].ID != "2023_01_KC_DET" {
		t.Fatalf("id must be built when the feed omits it: got=%q", out[0].ID)
	}
	if !out[0].PrimetimeFlag || !out[1].PrimetimeFlag {
		t.Fatalf("thursday and monday games are primetime")
	}
	if out[2].PrimetimeFlag {
		t.Fatalf("sunday 13:00 is not primetime")
	}
	if !out[1].DivisionalFlag || !out[2].DivisionalFlag || out[0].DivisionalFlag {
		t.Fatalf("divisional flags: %+v", out)
	}
}

func TestTransformGames_EveningKickoffIsPrimetime(t *testing.T) {
	t.Parallel()

	svc := newTestTransformService()
	out := svc.TransformGames(context.Background(), []ScheduleRow{
		{Season: 2023, Week: 5, AwayTeam: "DAL", HomeTeam: "SF",
			Weekday: "Sunday", Gametime: "20:20"},
	})
	if !out[0].PrimetimeFlag {
		t.Fatalf("sunday 20:20 kickoff must be primetime")
	}
}

func TestTransformRosters(t *testing.T) {
	t.Parallel()

	svc := newTestTransformService()
	rows := []RosterRow{
		{PlayerID: "p1", Season: 2023, Week: 1, TeamAbbr: "KC", Position: "WR"},
		{PlayerID: "p1", Season: 2023, Week: 2, TeamAbbr: "KC", Position: "WR"},
		{PlayerID: "p1", Season: 2023, Week: 3, TeamAbbr: "NYJ", Position: "TE"},
		{PlayerID: "p1", Season: 2024, Week: 1, TeamAbbr: "NYJ", Position: "TE"},
		{PlayerID: "", Season: 2023, Week: 1, TeamAbbr: "KC"},
	}

	out := svc.TransformRosters(context.Background(), rows)
	if len(out) != 2 {
		t.Fatalf("expected 2 assignments, got=%d", len(out))
	}

	first := out[0]
	if first.ID != "p1_2023" || first.SeasonYear != 2023 {
		t.Fatalf("assignment key: %+v", first)
	}
	if first.TeamAbbr != "NYJ" {
		t.Fatalf("latest week's team wins: got=%q want=NYJ", first.TeamAbbr)
	}
	if first.Position != "WR" {
		t.Fatalf("position is the mode of weekly values: got=%q want=WR", first.Position)
	}
	if first.GamesPlayed != 3 {
		t.Fatalf("games played counts distinct weeks: got=%d want=3", first.GamesPlayed)
	}
}

func TestTransformPlayers_Dedup(t *testing.T) {
	t.Parallel()

	svc := newTestTransformService()
	out := svc.TransformPlayers(context.Background(), []PlayerRow{
		{PlayerID: "p1", FirstName: "Patrick", LastName: "Mahomes", Status: "ACT"},
		{PlayerID: "p1", FirstName: "Duplicate", LastName: "Row"},
		{PlayerID: "", FirstName: "No", LastName: "ID"},
		{PlayerID: "p2", FirstName: "Zach", LastName: "Wilson", Status: "RES"},
	})
	if len(out) != 2 {
		t.Fatalf("expected 2 players, got=%d", len(out))
	}
	if out[0].FirstName != "Patrick" {
		t.Fatalf("first occurrence wins: got=%q", out[0].FirstName)
	}
	if !out[0].ActiveStatus || out[1].ActiveStatus {
		t.Fatalf("active status mapping: %+v", out)
	}
}

func TestCoerceInt(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want int
	}{
		{"", 0},
		{"12", 12},
		{"12.0", 12},
		{"12.9", 12},
		{"-7", -7},
		{" 8 ", 8},
		{"n/a", 0},
	}
	for _, tc := range cases {
		if got := coerceInt(tc.raw); got != tc.want {
			t.Fatalf("coerceInt(%q): got=%d want=%d", tc.raw, got, tc.want)
		}
	}
}
