package usecase

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/gridironlabs/warehouse-etl/internal/domain/game"
	"github.com/gridironlabs/warehouse-etl/internal/domain/gamestats"
	"github.com/gridironlabs/warehouse-etl/internal/domain/player"
	"github.com/gridironlabs/warehouse-etl/internal/domain/playerseason"
	"github.com/gridironlabs/warehouse-etl/internal/platform/logging"
)

const timestampLayout = "2006-01-02 15:04:05"

// TransformService shapes provider rows into warehouse rows. It consults the
// resolver for the roster cross-validation pass before shaping stat rows.
type TransformService struct {
	resolver *ResolverService
	logger   *logging.Logger
	now      func() time.Time
}

func NewTransformService(resolver *ResolverService, logger *logging.Logger) *TransformService {
	if logger == nil {
		logger = logging.Default()
	}
	return &TransformService{resolver: resolver, logger: logger, now: time.Now}
}

// TransformGames shapes schedule rows into canonical game records.
func (s *TransformService) TransformGames(ctx context.Context, rows []ScheduleRow) []game.Game {
	_, span := startUsecaseSpan(ctx, "transform.Games",
		attribute.Int("rows", len(rows)))
	defer endUsecaseSpan(span, nil)

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		if row.Season == 0 || row.Week == 0 || row.HomeTeam == "" || row.AwayTeam == "" {
			continue
		}
		id := row.GameID
		if id == "" {
			id = game.BuildID(row.Season, row.Week, row.AwayTeam, row.HomeTeam)
		}
		out = append(out, game.Game{
			ID:             id,
			SeasonYear:     row.Season,
			WeekNumber:     row.Week,
			HomeTeamID:     row.HomeTeam,
			HomeTeamAbbr:   row.HomeTeam,
			AwayTeamID:     row.AwayTeam,
			AwayTeamAbbr:   row.AwayTeam,
			GameDate:       row.Gameday,
			GameTime:       row.Gametime,
			StadiumID:      row.StadiumID,
			PrimetimeFlag:  isPrimetime(row.Weekday, row.Gametime),
			DivisionalFlag: row.DivGame,
			HomeScore:      row.HomeScore,
			AwayScore:      row.AwayScore,
			HomeQBID:       row.HomeQBID,
			AwayQBID:       row.AwayQBID,
			HomeMoneyline:  row.HomeMoneyline,
			AwayMoneyline:  row.AwayMoneyline,
			SpreadLine:     row.SpreadLine,
			HomeSpreadOdds: row.HomeSpreadOdds,
			AwaySpreadOdds: row.AwaySpreadOdds,
			TotalLine:      row.TotalLine,
			OverOdds:       row.OverOdds,
			UnderOdds:      row.UnderOdds,
		})
	}
	return out
}

func isPrimetime(weekday, gametime string) bool {
	switch strings.ToLower(strings.TrimSpace(weekday)) {
	case "thursday", "monday":
		return true
	}
	return strings.HasPrefix(gametime, "19:") || strings.HasPrefix(gametime, "20:")
}

// TransformPlayers shapes reference-feed rows into player records,
// deduplicated on player id keeping the first occurrence.
func (s *TransformService) TransformPlayers(ctx context.Context, rows []PlayerRow) []player.Player {
	_, span := startUsecaseSpan(ctx, "transform.Players",
		attribute.Int("rows", len(rows)))
	defer endUsecaseSpan(span, nil)

	seen := make(map[string]struct{}, len(rows))
	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		if row.PlayerID == "" {
			continue
		}
		if _, dup := seen[row.PlayerID]; dup {
			continue
		}
		seen[row.PlayerID] = struct{}{}
		out = append(out, player.Player{
			ID:            row.PlayerID,
			FirstName:     row.FirstName,
			LastName:      row.LastName,
			Position:      row.Position,
			TeamID:        row.TeamAbbr,
			BirthDate:     row.BirthDate,
			Height:        row.Height,
			Weight:        row.Weight,
			College:       row.College,
			DraftYear:     row.DraftYear,
			DraftPosition: row.DraftPosition,
			ActiveStatus:  strings.EqualFold(row.Status, "ACT"),
		})
	}
	return out
}

// TransformRosters collapses weekly roster rows into one assignment per
// player per season. The team is the latest week's entry; the position is the
// mode of the weekly values; games played counts distinct weeks.
func (s *TransformService) TransformRosters(ctx context.Context, rows []RosterRow) []playerseason.Assignment {
	_, span := startUsecaseSpan(ctx, "transform.Rosters",
		attribute.Int("rows", len(rows)))
	defer endUsecaseSpan(span, nil)

	type acc struct {
		playerID  string
		season    int
		lastWeek  int
		team      string
		positions map[string]int
		weeks     map[int]struct{}
	}

	byKey := make(map[string]*acc)
	order := make([]string, 0)
	for _, row := range rows {
		if row.PlayerID == "" || row.Season == 0 || row.TeamAbbr == "" {
			continue
		}
		key := playerseason.BuildID(row.PlayerID, row.Season)
		entry, ok := byKey[key]
		if !ok {
			entry = &acc{
				playerID:  row.PlayerID,
				season:    row.Season,
				positions: make(map[string]int, 2),
				weeks:     make(map[int]struct{}, 18),
			}
			byKey[key] = entry
			order = append(order, key)
		}
		if row.Week >= entry.lastWeek {
			entry.lastWeek = row.Week
			entry.team = row.TeamAbbr
		}
		if row.Position != "" {
			entry.positions[row.Position]++
		}
		entry.weeks[row.Week] = struct{}{}
	}

	out := make([]playerseason.Assignment, 0, len(byKey))
	for _, key := range order {
		entry := byKey[key]
		out = append(out, playerseason.Assignment{
			ID:          key,
			PlayerID:    entry.playerID,
			SeasonYear:  entry.season,
			TeamAbbr:    entry.team,
			Position:    modePosition(entry.positions),
			GamesPlayed: len(entry.weeks),
		})
	}
	return out
}

func modePosition(counts map[string]int) string {
	positions := make([]string, 0, len(counts))
	for pos := range counts {
		positions = append(positions, pos)
	}
	sort.Strings(positions)

	best, bestCount := "", 0
	for _, pos := range positions {
		if counts[pos] > bestCount {
			best, bestCount = pos, counts[pos]
		}
	}
	return best
}

// kickingLine is the per-kicker per-game aggregate computed from play-level
// data. It is authoritative for kicking counters and replaces any primary-
// stream row for the same kicker and game.
type kickingLine struct {
	GameID       string
	Season       int
	KickerID     string
	Team         string
	FGAttempted  int
	FGMade       int
	PATAttempted int
	PATMade      int
}

func aggregateKicking(plays []KickingPlay) []kickingLine {
	byKey := make(map[string]*kickingLine)
	order := make([]string, 0)
	for _, play := range plays {
		if play.GameID == "" || play.KickerID == "" {
			continue
		}
		key := play.GameID + "|" + play.KickerID
		line, ok := byKey[key]
		if !ok {
			line = &kickingLine{
				GameID:   play.GameID,
				Season:   play.Season,
				KickerID: play.KickerID,
				Team:     play.Posteam,
			}
			byKey[key] = line
			order = append(order, key)
		}
		switch play.PlayType {
		case "field_goal":
			line.FGAttempted++
			if play.FieldGoal == "made" {
				line.FGMade++
			}
		case "extra_point":
			line.PATAttempted++
			if play.ExtraPoint == "good" {
				line.PATMade++
			}
		}
	}

	out := make([]kickingLine, 0, len(byKey))
	for _, key := range order {
		out = append(out, *byKey[key])
	}
	return out
}

// TransformStats is the full shaping pass for the statistics table: roster
// cross-validation, required-key filtering, kicking merge, column mapping,
// starter flags, and stat_id deduplication.
func (s *TransformService) TransformStats(ctx context.Context, idx GameIndex, oracle playerseason.Oracle, rows []WeeklyRow, plays []KickingPlay) ([]gamestats.Row, CrossValidationReport) {
	ctx, span := startUsecaseSpan(ctx, "transform.Stats",
		attribute.Int("rows", len(rows)),
		attribute.Int("kicking_plays", len(plays)))
	defer endUsecaseSpan(span, nil)

	rows, crossReport := s.resolver.CrossValidate(ctx, idx, oracle, rows)

	now := s.now().UTC().Format(timestampLayout)
	kicking := aggregateKicking(plays)
	replaced := make(map[string]struct{}, len(kicking))
	for _, line := range kicking {
		replaced[gamestats.BuildStatID(line.KickerID, line.GameID)] = struct{}{}
	}

	out := make([]gamestats.Row, 0, len(rows)+len(kicking))
	seen := make(map[string]struct{}, len(rows)+len(kicking))
	dropped := 0
	orphanKicking := 0

	for _, row := range rows {
		if row.PlayerID == "" || row.GameID == "" {
			dropped++
			continue
		}
		statID := gamestats.BuildStatID(row.PlayerID, row.GameID)
		if row.Position == "K" {
			if _, ok := replaced[statID]; ok {
				continue
			}
		}
		if _, dup := seen[statID]; dup {
			continue
		}
		seen[statID] = struct{}{}
		out = append(out, shapeStatRow(row, statID, now))
	}

	for _, line := range kicking {
		// Play-by-play carries game ids verbatim, without a resolution pass.
		// A line naming a game outside the canonical set stays out of the
		// warehouse.
		if !idx.Contains(line.GameID) {
			orphanKicking++
			s.logger.WarnContext(ctx, "kicking line references unknown game",
				"game_id", line.GameID,
				"kicker_id", line.KickerID,
			)
			continue
		}
		statID := gamestats.BuildStatID(line.KickerID, line.GameID)
		if _, dup := seen[statID]; dup {
			continue
		}
		seen[statID] = struct{}{}
		out = append(out, gamestats.Row{
			StatID:               statID,
			PlayerID:             line.KickerID,
			GameID:               line.GameID,
			TeamID:               line.Team,
			PositionPlayed:       "K",
			StarterFlag:          line.FGAttempted > 0,
			FieldGoalsAttempted:  line.FGAttempted,
			FieldGoalsMade:       line.FGMade,
			ExtraPointsAttempted: line.PATAttempted,
			ExtraPointsMade:      line.PATMade,
			CreatedAt:            now,
			UpdatedAt:            now,
		})
	}

	s.logger.InfoContext(ctx, "stat rows shaped",
		"in", len(rows),
		"kicking_lines", len(kicking),
		"out", len(out),
		"dropped_missing_keys", dropped,
		"dropped_orphan_kicking", orphanKicking,
	)
	return out, crossReport
}

func shapeStatRow(row WeeklyRow, statID, now string) gamestats.Row {
	stats := row.Stats
	shaped := gamestats.Row{
		StatID:         statID,
		PlayerID:       row.PlayerID,
		GameID:         row.GameID,
		TeamID:         row.RecentTeam,
		PositionPlayed: row.Position,
		SnapsPlayed:    snapCount(stats),

		PassingAttempts:    counter(stats, "attempts"),
		PassingCompletions: counter(stats, "completions"),
		PassingYards:       yards(stats, "passing_yards"),
		PassingTDs:         counter(stats, "passing_tds"),
		PassingInts:        counter(stats, "interceptions"),

		RushingAttempts: counter(stats, "carries"),
		RushingYards:    yards(stats, "rushing_yards"),
		RushingTDs:      counter(stats, "rushing_tds"),

		ReceivingTargets: counter(stats, "targets"),
		Receptions:       counter(stats, "receptions"),
		ReceivingYards:   yards(stats, "receiving_yards"),
		ReceivingTDs:     counter(stats, "receiving_tds"),

		Fumbles: counter(stats, "sack_fumbles") +
			counter(stats, "rushing_fumbles") +
			counter(stats, "receiving_fumbles") +
			counter(stats, "fumbles"),
		FumblesLost: counter(stats, "sack_fumbles_lost") +
			counter(stats, "rushing_fumbles_lost") +
			counter(stats, "receiving_fumbles_lost") +
			counter(stats, "fumbles_lost"),

		FieldGoalsAttempted:  counter(stats, "fg_attempts"),
		FieldGoalsMade:       counter(stats, "fg_made"),
		ExtraPointsAttempted: counter(stats, "pat_attempts"),
		ExtraPointsMade:      counter(stats, "pat_made"),

		DefensiveSacks:            counter(stats, "sacks"),
		DefensiveTackles:          counter(stats, "tackles"),
		DefensiveInterceptions:    counter(stats, "def_interceptions"),
		DefensiveFumblesRecovered: counter(stats, "fumbles_recovered"),
		DefensiveTDs:              counter(stats, "defensive_tds"),

		PuntReturns:     counter(stats, "punt_returns"),
		PuntReturnYards: yards(stats, "punt_return_yards"),
		PuntReturnTDs:   counter(stats, "punt_return_tds"),
		KickReturns:     counter(stats, "kick_returns"),
		KickReturnYards: yards(stats, "kick_return_yards"),
		KickReturnTDs:   counter(stats, "kick_return_tds"),
		SpecialTeamsTDs: counter(stats, "special_teams_tds"),

		CreatedAt: now,
		UpdatedAt: now,
	}

	// Solo plus assisted overrides any direct tackles value when either
	// component is present.
	if _, solo := stats["solo_tackles"]; solo {
		shaped.DefensiveTackles = counter(stats, "solo_tackles") + counter(stats, "assisted_tackles")
	} else if _, assisted := stats["assisted_tackles"]; assisted {
		shaped.DefensiveTackles = counter(stats, "assisted_tackles")
	}

	shaped.StarterFlag = starterFlag(row.Position, shaped)
	return shaped
}

// starterFlag applies the position-specific usage thresholds. Positions
// outside the rules are never starters.
func starterFlag(position string, row gamestats.Row) bool {
	switch position {
	case "QB":
		return row.PassingAttempts >= 10
	case "RB":
		return row.RushingAttempts >= 8
	case "WR", "TE":
		return row.ReceivingTargets >= 4
	case "K":
		return row.FieldGoalsAttempted > 0
	default:
		return false
	}
}

// snapCount sums offensive and defensive snaps, nil when the feed carries
// neither.
func snapCount(stats map[string]string) *int {
	_, hasOffense := stats["offense_snaps"]
	_, hasDefense := stats["defense_snaps"]
	if !hasOffense && !hasDefense {
		return nil
	}
	total := counter(stats, "offense_snaps") + counter(stats, "defense_snaps")
	return &total
}

// counter coerces a source value to a non-negative integer. Parse failures
// and missing keys degrade to zero, never an error.
func counter(stats map[string]string, key string) int {
	n := coerceInt(stats[key])
	if n < 0 {
		return 0
	}
	return n
}

// yards coerces a source value to an integer, keeping the sign.
func yards(stats map[string]string, key string) int {
	return coerceInt(stats[key])
}

func coerceInt(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return int(f)
	}
	return 0
}
