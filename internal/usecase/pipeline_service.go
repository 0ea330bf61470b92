package usecase

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"

	"github.com/gridironlabs/warehouse-etl/internal/domain/game"
	"github.com/gridironlabs/warehouse-etl/internal/domain/gamestats"
	"github.com/gridironlabs/warehouse-etl/internal/domain/player"
	"github.com/gridironlabs/warehouse-etl/internal/domain/playerseason"
	"github.com/gridironlabs/warehouse-etl/internal/platform/logging"
)

// GameStore is the games-table surface the pipeline loads into.
type GameStore interface {
	TableStore
	InsertBatch(ctx context.Context, games []game.Game) error
}

// PlayerStore is the players-table surface.
type PlayerStore interface {
	TableStore
	player.Repository
	InsertBatch(ctx context.Context, players []player.Player) error
}

// PlayerSeasonStore is the player_seasons-table surface.
type PlayerSeasonStore interface {
	TableStore
	InsertBatch(ctx context.Context, assignments []playerseason.Assignment) error
}

// StatStore is the player_game_stats-table surface.
type StatStore interface {
	TableStore
	InsertBatch(ctx context.Context, rows []gamestats.Row) error
}

// RunReport summarizes one table-update run for the CLI.
type RunReport struct {
	Table     string                 `json:"table"`
	Seasons   []int                  `json:"seasons,omitempty"`
	Extracted int                    `json:"extracted"`
	Shaped    int                    `json:"shaped"`
	Invalid   int                    `json:"invalid,omitempty"`
	Resolve   *ResolveReport         `json:"resolve,omitempty"`
	CrossVal  *CrossValidationReport `json:"cross_validation,omitempty"`
	Load      LoadReport             `json:"load"`
}

// PipelineService runs the full truncate-extract-transform-load sequence for
// each warehouse table. Stages are strictly ordered; a failure before the
// load stage aborts the run.
type PipelineService struct {
	provider    FeedProvider
	resolver    *ResolverService
	transformer *TransformService
	loader      *LoadService

	gameStore   GameStore
	playerStore PlayerStore
	seasonStore PlayerSeasonStore
	statStore   StatStore
	assignments playerseason.Repository

	validate *validator.Validate
	logger   *logging.Logger
}

func NewPipelineService(
	provider FeedProvider,
	resolver *ResolverService,
	transformer *TransformService,
	loader *LoadService,
	gameStore GameStore,
	playerStore PlayerStore,
	seasonStore PlayerSeasonStore,
	statStore StatStore,
	assignments playerseason.Repository,
	logger *logging.Logger,
) *PipelineService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PipelineService{
		provider:    provider,
		resolver:    resolver,
		transformer: transformer,
		loader:      loader,
		gameStore:   gameStore,
		playerStore: playerStore,
		seasonStore: seasonStore,
		statStore:   statStore,
		assignments: assignments,
		validate:    validator.New(),
		logger:      logger,
	}
}

// UpdateGames replaces the games table with the schedule feed's contents.
func (s *PipelineService) UpdateGames(ctx context.Context, seasons []int) (RunReport, error) {
	ctx, span := startUsecaseSpan(ctx, "pipeline.UpdateGames",
		attribute.IntSlice("seasons", seasons))
	var err error
	defer func() { endUsecaseSpan(span, err) }()

	report := RunReport{Table: s.gameStore.Table(), Seasons: seasons}
	if len(seasons) == 0 {
		err = fmt.Errorf("%w: no seasons requested", ErrInvalidInput)
		return report, err
	}

	if err = s.loader.PrepareTable(ctx, s.gameStore); err != nil {
		return report, err
	}

	rows, err := s.provider.FetchSchedule(ctx, seasons)
	if err != nil {
		err = fmt.Errorf("fetch schedule: %w", err)
		return report, err
	}
	report.Extracted = len(rows)

	games := s.transformer.TransformGames(ctx, rows)
	report.Shaped = len(games)

	report.Load = s.loader.InsertAll(ctx, s.gameStore, len(games), func(ctx context.Context, start, end int) error {
		return s.gameStore.InsertBatch(ctx, games[start:end])
	})
	return report, nil
}

// UpdatePlayers replaces the players reference table.
func (s *PipelineService) UpdatePlayers(ctx context.Context) (RunReport, error) {
	ctx, span := startUsecaseSpan(ctx, "pipeline.UpdatePlayers")
	var err error
	defer func() { endUsecaseSpan(span, err) }()

	report := RunReport{Table: s.playerStore.Table()}
	if err = s.loader.PrepareTable(ctx, s.playerStore); err != nil {
		return report, err
	}

	rows, err := s.provider.FetchPlayers(ctx)
	if err != nil {
		err = fmt.Errorf("fetch players: %w", err)
		return report, err
	}
	report.Extracted = len(rows)

	players := s.transformer.TransformPlayers(ctx, rows)
	report.Shaped = len(players)

	report.Load = s.loader.InsertAll(ctx, s.playerStore, len(players), func(ctx context.Context, start, end int) error {
		return s.playerStore.InsertBatch(ctx, players[start:end])
	})
	return report, nil
}

// UpdateRosters replaces the player_seasons table with assignments derived
// from the weekly roster feed.
func (s *PipelineService) UpdateRosters(ctx context.Context, seasons []int) (RunReport, error) {
	ctx, span := startUsecaseSpan(ctx, "pipeline.UpdateRosters",
		attribute.IntSlice("seasons", seasons))
	var err error
	defer func() { endUsecaseSpan(span, err) }()

	report := RunReport{Table: s.seasonStore.Table(), Seasons: seasons}
	if len(seasons) == 0 {
		err = fmt.Errorf("%w: no seasons requested", ErrInvalidInput)
		return report, err
	}

	if err = s.loader.PrepareTable(ctx, s.seasonStore); err != nil {
		return report, err
	}

	rows, err := s.provider.FetchRosters(ctx, seasons)
	if err != nil {
		err = fmt.Errorf("fetch rosters: %w", err)
		return report, err
	}
	report.Extracted = len(rows)

	assignments := s.transformer.TransformRosters(ctx, rows)
	report.Shaped = len(assignments)

	report.Load = s.loader.InsertAll(ctx, s.seasonStore, len(assignments), func(ctx context.Context, start, end int) error {
		return s.seasonStore.InsertBatch(ctx, assignments[start:end])
	})
	return report, nil
}

// UpdateStats replaces the player_game_stats table. It resolves every weekly
// row against the canonical games already loaded for the requested seasons,
// so UpdateGames and UpdateRosters must have run first.
func (s *PipelineService) UpdateStats(ctx context.Context, seasons []int) (RunReport, error) {
	ctx, span := startUsecaseSpan(ctx, "pipeline.UpdateStats",
		attribute.IntSlice("seasons", seasons))
	var err error
	defer func() { endUsecaseSpan(span, err) }()

	report := RunReport{Table: s.statStore.Table(), Seasons: seasons}
	if len(seasons) == 0 {
		// Without an explicit season list, refresh stats for every season
		// the games table already covers.
		seasons, err = s.resolver.SeasonsOnRecord(ctx)
		if err != nil {
			return report, err
		}
		if len(seasons) == 0 {
			err = fmt.Errorf("%w: games table is empty", ErrNoCanonicalGames)
			return report, err
		}
		report.Seasons = seasons
	}

	if err = s.loader.PrepareTable(ctx, s.statStore); err != nil {
		return report, err
	}

	idx, err := s.resolver.BuildIndex(ctx, seasons)
	if err != nil {
		return report, err
	}

	items, err := s.assignments.ListAssignments(ctx)
	if err != nil {
		err = fmt.Errorf("list team assignments: %w", err)
		return report, err
	}
	oracle := playerseason.NewOracle(items)

	bundle, err := s.provider.FetchStatsBundle(ctx, seasons)
	if err != nil {
		err = fmt.Errorf("fetch stats bundle: %w", err)
		return report, err
	}
	report.Extracted = len(bundle.Weekly)

	resolved, resolveReport := s.resolver.Resolve(ctx, idx, bundle.Weekly)
	report.Resolve = &resolveReport

	shaped, crossReport := s.transformer.TransformStats(ctx, idx, oracle, resolved, bundle.Kicking)
	report.CrossVal = &crossReport
	s.auditUnknownPlayers(ctx, shaped)
	rows := s.validRows(ctx, shaped)
	report.Shaped = len(rows)
	report.Invalid = len(shaped) - len(rows)

	report.Load = s.loader.InsertAll(ctx, s.statStore, len(rows), func(ctx context.Context, start, end int) error {
		return s.statStore.InsertBatch(ctx, rows[start:end])
	})
	return report, nil
}

// RunAll refreshes every table in dependency order: stats resolve against
// games and validate against roster assignments, so those load first.
func (s *PipelineService) RunAll(ctx context.Context, seasons []int) ([]RunReport, error) {
	ctx, span := startUsecaseSpan(ctx, "pipeline.RunAll",
		attribute.IntSlice("seasons", seasons))
	var err error
	defer func() { endUsecaseSpan(span, err) }()

	reports := make([]RunReport, 0, 4)

	gamesReport, err := s.UpdateGames(ctx, seasons)
	if err != nil {
		return reports, err
	}
	reports = append(reports, gamesReport)

	playersReport, err := s.UpdatePlayers(ctx)
	if err != nil {
		return reports, err
	}
	reports = append(reports, playersReport)

	rostersReport, err := s.UpdateRosters(ctx, seasons)
	if err != nil {
		return reports, err
	}
	reports = append(reports, rostersReport)

	statsReport, err := s.UpdateStats(ctx, seasons)
	if err != nil {
		return reports, err
	}
	reports = append(reports, statsReport)

	return reports, nil
}

// auditUnknownPlayers logs how many shaped rows reference players missing
// from the reference table. They still load; the stat feed regularly runs a
// few days ahead of the player feed.
func (s *PipelineService) auditUnknownPlayers(ctx context.Context, rows []gamestats.Row) {
	known, err := s.playerStore.ListIDs(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "player id audit skipped", "error", err)
		return
	}
	if len(known) == 0 {
		return
	}

	unknown := 0
	for _, row := range rows {
		if _, ok := known[row.PlayerID]; !ok {
			unknown++
		}
	}
	if unknown > 0 {
		s.logger.WarnContext(ctx, "stat rows reference players missing from the reference table",
			"rows", unknown,
		)
	}
}

// validRows is the last guard before the warehouse: rows violating the
// schema's struct tags are dropped and logged, never inserted or fatal.
func (s *PipelineService) validRows(ctx context.Context, rows []gamestats.Row) []gamestats.Row {
	out := make([]gamestats.Row, 0, len(rows))
	for _, row := range rows {
		if err := s.validate.Struct(row); err != nil {
			s.logger.WarnContext(ctx, "dropping invalid stat row",
				"stat_id", row.StatID,
				"error", err,
			)
			continue
		}
		out = append(out, row)
	}
	return out
}
