package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/gridironlabs/warehouse-etl/internal/domain/game"
	"github.com/gridironlabs/warehouse-etl/internal/domain/playerseason"
	"github.com/gridironlabs/warehouse-etl/internal/platform/logging"
)

// UnresolvedPolicy decides what happens to stat rows that match no canonical
// game after both resolution passes.
type UnresolvedPolicy string

const (
	// PolicyDrop removes unresolved rows from the pipeline.
	PolicyDrop UnresolvedPolicy = "drop"
	// PolicyTag keeps unresolved rows with an "unknown_" sentinel prefix on
	// the reconstructed id, so they can be inspected downstream.
	PolicyTag UnresolvedPolicy = "tag"
	// PolicyKeep passes unresolved rows through with an empty game id. The
	// transform step filters rows without a game id, so this defers the drop.
	PolicyKeep UnresolvedPolicy = "keep"
)

const unresolvedTagPrefix = "unknown_"

func ParseUnresolvedPolicy(raw string) (UnresolvedPolicy, error) {
	switch UnresolvedPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case PolicyDrop, "":
		return PolicyDrop, nil
	case PolicyTag:
		return PolicyTag, nil
	case PolicyKeep:
		return PolicyKeep, nil
	default:
		return "", fmt.Errorf("%w: unresolved policy %q", ErrInvalidInput, raw)
	}
}

// GameIndex is the canonical-game lookup structure, built once per run from
// the warehouse's games table and treated as immutable afterwards.
type GameIndex struct {
	matchups map[string]string
	ids      map[string]struct{}
	byWeek   map[string][]game.Game
	byID     map[string]game.Game
}

func NewGameIndex(games []game.Game) GameIndex {
	idx := GameIndex{
		matchups: make(map[string]string, len(games)*2),
		ids:      make(map[string]struct{}, len(games)),
		byWeek:   make(map[string][]game.Game),
		byID:     make(map[string]game.Game, len(games)),
	}
	for _, g := range games {
		if g.ID == "" {
			continue
		}
		idx.ids[g.ID] = struct{}{}
		idx.byID[g.ID] = g

		wk := weekKey(g.SeasonYear, g.WeekNumber)
		idx.byWeek[wk] = append(idx.byWeek[wk], g)

		// Insert both orderings so lookup is order independent. First
		// insertion wins; a duplicate matchup in one season/week slot would
		// mean corrupt canonical data, not a tie to break here.
		for _, key := range []string{
			matchupKey(g.SeasonYear, g.WeekNumber, g.HomeTeamAbbr, g.AwayTeamAbbr),
			matchupKey(g.SeasonYear, g.WeekNumber, g.AwayTeamAbbr, g.HomeTeamAbbr),
		} {
			if _, exists := idx.matchups[key]; !exists {
				idx.matchups[key] = g.ID
			}
		}
	}
	return idx
}

func (idx GameIndex) Len() int { return len(idx.ids) }

// Contains reports whether id names a known canonical game.
func (idx GameIndex) Contains(id string) bool {
	_, ok := idx.ids[id]
	return ok
}

// Lookup probes the matchup map with both key orderings and returns the
// canonical game id, if any.
func (idx GameIndex) Lookup(season, week int, team, opponent string) (string, bool) {
	if id, ok := idx.matchups[matchupKey(season, week, team, opponent)]; ok {
		return id, true
	}
	if id, ok := idx.matchups[matchupKey(season, week, opponent, team)]; ok {
		return id, true
	}
	return "", false
}

// Reconstruct synthesizes the literal id string in both team orderings and
// accepts whichever names a known game.
func (idx GameIndex) Reconstruct(season, week int, team, opponent string) (string, bool) {
	if id := game.BuildID(season, week, opponent, team); idx.Contains(id) {
		return id, true
	}
	if id := game.BuildID(season, week, team, opponent); idx.Contains(id) {
		return id, true
	}
	return "", false
}

// GamesInWeek returns every canonical game in one season/week slot.
func (idx GameIndex) GamesInWeek(season, week int) []game.Game {
	return idx.byWeek[weekKey(season, week)]
}

// Game returns the canonical game for an id.
func (idx GameIndex) Game(id string) (game.Game, bool) {
	g, ok := idx.byID[id]
	return g, ok
}

func matchupKey(season, week int, a, b string) string {
	return fmt.Sprintf("%d|%02d|%s|%s", season, week, a, b)
}

func weekKey(season, week int) string {
	return fmt.Sprintf("%d|%02d", season, week)
}

// ResolveReport summarizes one resolution pass.
type ResolveReport struct {
	Total    int
	Direct   int
	Fallback int
	Skipped  int
	Dropped  int
	Tagged   int
	Kept     int
}

// CrossValidationReport summarizes the roster cross-validation pass.
type CrossValidationReport struct {
	Checked   int
	Corrected int
	Cleared   int
}

// ResolverService matches raw stat rows to canonical game ids.
type ResolverService struct {
	games  game.Repository
	policy UnresolvedPolicy
	logger *logging.Logger
}

func NewResolverService(games game.Repository, policy UnresolvedPolicy, logger *logging.Logger) *ResolverService {
	if policy == "" {
		policy = PolicyDrop
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ResolverService{games: games, policy: policy, logger: logger}
}

// SeasonsOnRecord lists the seasons with canonical games already loaded.
func (s *ResolverService) SeasonsOnRecord(ctx context.Context) ([]int, error) {
	seasons, err := s.games.DistinctSeasons(ctx)
	if err != nil {
		return nil, fmt.Errorf("list seasons on record: %w", err)
	}
	return seasons, nil
}

// BuildIndex loads the canonical games for the requested seasons and indexes
// them. An empty canonical set is fatal: nothing could resolve against it.
func (s *ResolverService) BuildIndex(ctx context.Context, seasons []int) (GameIndex, error) {
	ctx, span := startUsecaseSpan(ctx, "resolver.BuildIndex",
		attribute.IntSlice("seasons", seasons))
	var err error
	defer func() { endUsecaseSpan(span, err) }()

	if len(seasons) == 0 {
		err = fmt.Errorf("%w: no seasons requested", ErrInvalidInput)
		return GameIndex{}, err
	}

	games, err := s.games.ListBySeasons(ctx, seasons)
	if err != nil {
		err = fmt.Errorf("list canonical games: %w", err)
		return GameIndex{}, err
	}
	if len(games) == 0 {
		err = fmt.Errorf("%w: seasons %v", ErrNoCanonicalGames, seasons)
		return GameIndex{}, err
	}

	idx := NewGameIndex(games)
	s.logger.InfoContext(ctx, "canonical game index built",
		"seasons", seasons,
		"games", idx.Len(),
	)
	return idx, nil
}

// Resolve assigns a canonical game id to each row, two passes then policy.
// Rows missing season, week, or team are skipped per row, never fatally.
func (s *ResolverService) Resolve(ctx context.Context, idx GameIndex, rows []WeeklyRow) ([]WeeklyRow, ResolveReport) {
	ctx, span := startUsecaseSpan(ctx, "resolver.Resolve",
		attribute.Int("rows", len(rows)))
	defer endUsecaseSpan(span, nil)

	report := ResolveReport{Total: len(rows)}
	out := make([]WeeklyRow, 0, len(rows))

	for _, row := range rows {
		if row.Season == 0 || row.Week == 0 || row.RecentTeam == "" {
			report.Skipped++
			continue
		}

		if row.GameID != "" && idx.Contains(row.GameID) {
			report.Direct++
			out = append(out, row)
			continue
		}

		if id, ok := idx.Lookup(row.Season, row.Week, row.RecentTeam, row.OpponentTeam); ok {
			row.GameID = id
			report.Direct++
			out = append(out, row)
			continue
		}

		if id, ok := idx.Reconstruct(row.Season, row.Week, row.RecentTeam, row.OpponentTeam); ok {
			row.GameID = id
			report.Fallback++
			out = append(out, row)
			continue
		}

		switch s.policy {
		case PolicyTag:
			row.GameID = unresolvedTagPrefix + game.BuildID(row.Season, row.Week, row.OpponentTeam, row.RecentTeam)
			report.Tagged++
			out = append(out, row)
		case PolicyKeep:
			row.GameID = ""
			report.Kept++
			out = append(out, row)
		default:
			report.Dropped++
		}
	}

	s.logger.InfoContext(ctx, "stat rows resolved",
		"total", report.Total,
		"direct", report.Direct,
		"fallback", report.Fallback,
		"skipped", report.Skipped,
		"dropped", report.Dropped,
		"tagged", report.Tagged,
		"kept", report.Kept,
	)
	return out, report
}

// CrossValidate re-checks every resolved row against the team-season oracle.
// A row matched to a game that does not include the player's assigned team is
// re-resolved by rescanning that season/week; if no game fits, the id is
// cleared so the transform step drops the row.
func (s *ResolverService) CrossValidate(ctx context.Context, idx GameIndex, oracle playerseason.Oracle, rows []WeeklyRow) ([]WeeklyRow, CrossValidationReport) {
	ctx, span := startUsecaseSpan(ctx, "resolver.CrossValidate",
		attribute.Int("rows", len(rows)),
		attribute.Int("oracle_players", oracle.Len()))
	defer endUsecaseSpan(span, nil)

	var report CrossValidationReport
	for i := range rows {
		row := &rows[i]
		matched, ok := idx.Game(row.GameID)
		if !ok {
			continue
		}
		assigned, ok := oracle.TeamFor(row.PlayerID, row.Season)
		if !ok {
			continue
		}
		report.Checked++
		if matched.HasTeam(assigned) {
			continue
		}

		corrected := false
		for _, g := range idx.GamesInWeek(row.Season, row.Week) {
			if g.HasTeam(assigned) {
				s.logger.DebugContext(ctx, "cross-validation corrected match",
					"player_id", row.PlayerID,
					"from_game_id", row.GameID,
					"to_game_id", g.ID,
					"assigned_team", assigned,
				)
				row.GameID = g.ID
				row.RecentTeam = assigned
				report.Corrected++
				corrected = true
				break
			}
		}
		if !corrected {
			s.logger.WarnContext(ctx, "cross-validation cleared match",
				"player_id", row.PlayerID,
				"game_id", row.GameID,
				"assigned_team", assigned,
			)
			row.GameID = ""
			report.Cleared++
		}
	}

	s.logger.InfoContext(ctx, "cross-validation complete",
		"checked", report.Checked,
		"corrected", report.Corrected,
		"cleared", report.Cleared,
	)
	return rows, report
}
