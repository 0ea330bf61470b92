package nflverse

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/gridironlabs/warehouse-etl/internal/usecase"
)

const (
	schedulePath   = "/schedules/games.csv"
	playersPath    = "/players/players.csv"
	weeklyPathFmt  = "/player_stats/player_stats_%d.csv"
	pbpPathFmt     = "/pbp/play_by_play_%d.csv"
	rostersPathFmt = "/weekly_rosters/roster_weekly_%d.csv"
)

// FetchSchedule returns the scheduled games for the requested seasons. The
// schedule feed is published as one file covering every season, so it is
// filtered client-side.
func (c *Client) FetchSchedule(ctx context.Context, seasons []int) ([]usecase.ScheduleRow, error) {
	records, err := c.fetchCSV(ctx, schedulePath, "schedule", 0)
	if err != nil {
		return nil, err
	}

	wanted := make(map[int]struct{}, len(seasons))
	for _, season := range seasons {
		wanted[season] = struct{}{}
	}

	out := make([]usecase.ScheduleRow, 0, len(records))
	for _, record := range records {
		row := scheduleFromRecord(record)
		if _, ok := wanted[row.Season]; !ok {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

// FetchPlayers returns the full player reference feed.
func (c *Client) FetchPlayers(ctx context.Context) ([]usecase.PlayerRow, error) {
	records, err := c.fetchCSV(ctx, playersPath, "players", 0)
	if err != nil {
		return nil, err
	}

	out := make([]usecase.PlayerRow, 0, len(records))
	for _, record := range records {
		out = append(out, playerFromRecord(record))
	}
	return out, nil
}

// FetchRosters returns the weekly roster feed for every requested season,
// fetched concurrently per season.
func (c *Client) FetchRosters(ctx context.Context, seasons []int) ([]usecase.RosterRow, error) {
	var mu sync.Mutex
	out := make([]usecase.RosterRow, 0, 4096)

	err := c.forEachSeason(ctx, seasons, func(season int) error {
		records, err := c.fetchCSV(ctx, fmt.Sprintf(rostersPathFmt, season), "rosters", season)
		if err != nil {
			return fmt.Errorf("rosters season=%d: %w", season, err)
		}

		rows := make([]usecase.RosterRow, 0, len(records))
		for _, record := range records {
			rows = append(rows, usecase.RosterRow{
				PlayerID: record["gsis_id"],
				Season:   atoi(record["season"]),
				Week:     atoi(record["week"]),
				TeamAbbr: record["team"],
				Position: record["position"],
			})
		}

		mu.Lock()
		out = append(out, rows...)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FetchStatsBundle fetches the weekly stat feed and the play-by-play kicking
// projection together; the two feed families download concurrently, each with
// its own per-season fan-out.
func (c *Client) FetchStatsBundle(ctx context.Context, seasons []int) (usecase.StatsBundle, error) {
	var bundle usecase.StatsBundle

	group := pool.New().WithContext(ctx).WithCancelOnError()
	group.Go(func(ctx context.Context) error {
		weekly, err := c.fetchWeekly(ctx, seasons)
		if err != nil {
			return err
		}
		bundle.Weekly = weekly
		return nil
	})
	group.Go(func(ctx context.Context) error {
		kicking, err := c.fetchKicking(ctx, seasons)
		if err != nil {
			return err
		}
		bundle.Kicking = kicking
		return nil
	})

	if err := group.Wait(); err != nil {
		return usecase.StatsBundle{}, err
	}
	return bundle, nil
}

func (c *Client) fetchWeekly(ctx context.Context, seasons []int) ([]usecase.WeeklyRow, error) {
	var mu sync.Mutex
	out := make([]usecase.WeeklyRow, 0, 8192)

	err := c.forEachSeason(ctx, seasons, func(season int) error {
		records, err := c.fetchCSV(ctx, fmt.Sprintf(weeklyPathFmt, season), "weekly_stats", season)
		if err != nil {
			return fmt.Errorf("weekly stats season=%d: %w", season, err)
		}

		rows := make([]usecase.WeeklyRow, 0, len(records))
		for _, record := range records {
			rows = append(rows, weeklyFromRecord(record))
		}

		mu.Lock()
		out = append(out, rows...)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) fetchKicking(ctx context.Context, seasons []int) ([]usecase.KickingPlay, error) {
	var mu sync.Mutex
	out := make([]usecase.KickingPlay, 0, 2048)

	err := c.forEachSeason(ctx, seasons, func(season int) error {
		records, err := c.fetchCSV(ctx, fmt.Sprintf(pbpPathFmt, season), "play_by_play", season)
		if err != nil {
			return fmt.Errorf("play by play season=%d: %w", season, err)
		}

		plays := make([]usecase.KickingPlay, 0, 512)
		for _, record := range records {
			playType := record["play_type"]
			if playType != "field_goal" && playType != "extra_point" {
				continue
			}
			plays = append(plays, usecase.KickingPlay{
				GameID:     record["game_id"],
				Season:     atoi(record["season"]),
				Week:       atoi(record["week"]),
				KickerID:   record["kicker_player_id"],
				KickerName: record["kicker_player_name"],
				Posteam:    record["posteam"],
				PlayType:   playType,
				FieldGoal:  record["field_goal_result"],
				ExtraPoint: record["extra_point_result"],
			})
		}

		mu.Lock()
		out = append(out, plays...)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// forEachSeason runs fetch for every season on a bounded worker pool and
// returns the first failure.
func (c *Client) forEachSeason(ctx context.Context, seasons []int, fetch func(season int) error) error {
	if len(seasons) == 0 {
		return fmt.Errorf("%w: no seasons requested", usecase.ErrInvalidInput)
	}

	workers, err := ants.NewPool(c.seasonWorkers)
	if err != nil {
		return fmt.Errorf("season worker pool: %w", err)
	}
	defer workers.Release()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for _, season := range seasons {
		season := season
		wg.Add(1)
		submitErr := workers.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			if err := fetch(season); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = fmt.Errorf("submit season=%d: %w", season, submitErr)
			}
			mu.Unlock()
		}
	}
	wg.Wait()
	return firstErr
}

func scheduleFromRecord(record map[string]string) usecase.ScheduleRow {
	return usecase.ScheduleRow{
		GameID:         record["game_id"],
		Season:         atoi(record["season"]),
		Week:           atoi(record["week"]),
		Gameday:        record["gameday"],
		Gametime:       record["gametime"],
		Weekday:        record["weekday"],
		AwayTeam:       record["away_team"],
		HomeTeam:       record["home_team"],
		AwayScore:      intPtr(record["away_score"]),
		HomeScore:      intPtr(record["home_score"]),
		AwayQBID:       record["away_qb_id"],
		HomeQBID:       record["home_qb_id"],
		StadiumID:      record["stadium_id"],
		DivGame:        record["div_game"] == "1",
		AwayMoneyline:  floatPtr(record["away_moneyline"]),
		HomeMoneyline:  floatPtr(record["home_moneyline"]),
		SpreadLine:     floatPtr(record["spread_line"]),
		AwaySpreadOdds: floatPtr(record["away_spread_odds"]),
		HomeSpreadOdds: floatPtr(record["home_spread_odds"]),
		TotalLine:      floatPtr(record["total_line"]),
		OverOdds:       floatPtr(record["over_odds"]),
		UnderOdds:      floatPtr(record["under_odds"]),
	}
}

// weeklyIdentityColumns are lifted onto the row itself; everything else in
// the record is a stat column left raw for the transform step.
var weeklyIdentityColumns = map[string]struct{}{
	"player_id":           {},
	"player_display_name": {},
	"season":              {},
	"week":                {},
	"recent_team":         {},
	"opponent_team":       {},
	"position":            {},
	"game_id":             {},
}

func weeklyFromRecord(record map[string]string) usecase.WeeklyRow {
	stats := make(map[string]string, len(record))
	for key, value := range record {
		if _, identity := weeklyIdentityColumns[key]; identity {
			continue
		}
		if value == "" {
			continue
		}
		stats[key] = value
	}

	return usecase.WeeklyRow{
		PlayerID:     record["player_id"],
		PlayerName:   record["player_display_name"],
		Season:       atoi(record["season"]),
		Week:         atoi(record["week"]),
		RecentTeam:   record["recent_team"],
		OpponentTeam: record["opponent_team"],
		Position:     record["position"],
		GameID:       record["game_id"],
		Stats:        stats,
	}
}

func playerFromRecord(record map[string]string) usecase.PlayerRow {
	return usecase.PlayerRow{
		PlayerID:      record["gsis_id"],
		FirstName:     record["first_name"],
		LastName:      record["last_name"],
		Position:      record["position"],
		TeamAbbr:      record["latest_team"],
		BirthDate:     record["birth_date"],
		Height:        floatPtr(record["height"]),
		Weight:        floatPtr(record["weight"]),
		College:       record["college_name"],
		DraftYear:     intPtr(record["entry_year"]),
		DraftPosition: intPtr(record["draft_number"]),
		Status:        record["status"],
	}
}

func atoi(raw string) int {
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

func intPtr(raw string) *int {
	if raw == "" {
		return nil
	}
	n := atoi(raw)
	return &n
}

func floatPtr(raw string) *float64 {
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &f
}
