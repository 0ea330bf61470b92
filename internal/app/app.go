package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/gridironlabs/warehouse-etl/external/nflverse"
	"github.com/gridironlabs/warehouse-etl/internal/config"
	"github.com/gridironlabs/warehouse-etl/internal/domain/rawfeed"
	"github.com/gridironlabs/warehouse-etl/internal/infrastructure/repository/postgres"
	"github.com/gridironlabs/warehouse-etl/internal/platform/logging"
	"github.com/gridironlabs/warehouse-etl/internal/usecase"
)

// Application wires the warehouse connection, the feed client, and the
// pipeline services together for the CLI.
type Application struct {
	Pipeline *usecase.PipelineService

	db *sqlx.DB
}

func New(cfg config.Config, logger *logging.Logger) (*Application, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := otelsqlx.Connect("postgres", cfg.DBURL,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
	)
	if err != nil {
		return nil, fmt.Errorf("connect warehouse: %w", err)
	}
	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)

	policy, err := usecase.ParseUnresolvedPolicy(cfg.UnresolvedPolicy)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	gameRepo := postgres.NewGameRepository(db)
	playerRepo := postgres.NewPlayerRepository(db)
	seasonRepo := postgres.NewPlayerSeasonRepository(db)
	statsRepo := postgres.NewGameStatsRepository(db)

	var archive rawfeed.Repository
	if cfg.ArchiveEnabled {
		archive = postgres.NewRawFeedRepository(db)
	}

	provider := nflverse.NewClient(nflverse.ClientConfig{
		HTTPClient:    &http.Client{Timeout: cfg.NflverseTimeout},
		BaseURL:       cfg.NflverseBaseURL,
		MaxRetries:    cfg.NflverseMaxRetries,
		SeasonWorkers: cfg.NflverseSeasonWorkers,
		Archive:       archive,
		Logger:        logger,
	})

	resolver := usecase.NewResolverService(gameRepo, policy, logger)
	transformer := usecase.NewTransformService(resolver, logger)
	loader := usecase.NewLoadService(cfg.LoadBatchSize, logger)

	pipeline := usecase.NewPipelineService(
		provider,
		resolver,
		transformer,
		loader,
		gameRepo,
		playerRepo,
		seasonRepo,
		statsRepo,
		seasonRepo,
		logger,
	)

	return &Application{Pipeline: pipeline, db: db}, nil
}

func (a *Application) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}
