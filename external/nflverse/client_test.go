package nflverse

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gridironlabs/warehouse-etl/internal/domain/rawfeed"
	"github.com/gridironlabs/warehouse-etl/internal/platform/logging"
	"github.com/gridironlabs/warehouse-etl/internal/usecase"
)

type memArchive struct {
	mu    sync.Mutex
	items []rawfeed.Payload
}

func (a *memArchive) InsertMany(ctx context.Context, items []rawfeed.Payload) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.items = append(a.items, items...)
	return nil
}

func newTestClient(t *testing.T, handler http.Handler, archive rawfeed.Repository) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		MaxRetries: 1,
		Archive:    archive,
		Logger:     logging.NewNop(),
	})
	return client, server
}

func TestClient_FetchSchedule_FiltersSeasons(t *testing.T) {
	t.Parallel()

	csvBody := "game_id,season,week,gameday,weekday,gametime,away_team,home_team,away_score,home_score,div_game,spread_line\n" +
		"2023_01_KC_DET,2023,1,2023-09-07,Thursday,20:20,KC,DET,20,21,0,4.5\n" +
		"2022_01_BUF_LA,2022,1,2022-09-08,Thursday,20:20,BUF,LA,31,10,0,NA\n"

	mux := http.NewServeMux()
	mux.HandleFunc(schedulePath, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(csvBody))
	})

	archive := &memArchive{}
	client, _ := newTestClient(t, mux, archive)

	rows, err := client.FetchSchedule(context.Background(), []int{2023})
	if err != nil {
		t.Fatalf("fetch schedule: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row after season filter, got=%d", len(rows))
	}

	row := rows[0]
	if row.GameID != "2023_01_KC_DET" || row.Season != 2023 || row.Week != 1 {
		t.Fatalf("schedule mapping: %+v", row)
	}
	if row.AwayTeam != "KC" || row.HomeTeam != "DET" {
		t.Fatalf("team mapping: %+v", row)
	}
	if row.HomeScore == nil || *row.HomeScore != 21 {
		t.Fatalf("score mapping: %+v", row.HomeScore)
	}
	if row.SpreadLine == nil || *row.SpreadLine != 4.5 {
		t.Fatalf("spread mapping: %+v", row.SpreadLine)
	}

	if len(archive.items) != 1 {
		t.Fatalf("expected 1 archived payload, got=%d", len(archive.items))
	}
	item := archive.items[0]
	if item.Source != "nflverse" || item.EntityType != "schedule" || item.PayloadHash == "" {
		t.Fatalf("archived payload: %+v", item)
	}
	if item.ByteSize != len(csvBody) {
		t.Fatalf("archived byte size: got=%d want=%d", item.ByteSize, len(csvBody))
	}
}

func TestClient_FetchStatsBundle(t *testing.T) {
	t.Parallel()

	weekly := "player_id,player_display_name,season,week,recent_team,opponent_team,position,attempts,passing_yards\n" +
		"00-001,Patrick Mahomes,2023,1,KC,DET,QB,34,226\n"
	pbp := "game_id,season,week,play_type,kicker_player_id,kicker_player_name,posteam,field_goal_result,extra_point_result\n" +
		"2023_01_KC_DET,2023,1,field_goal,00-002,H.Butker,KC,made,\n" +
		"2023_01_KC_DET,2023,1,pass,,,KC,,\n" +
		"2023_01_KC_DET,2023,1,extra_point,00-002,H.Butker,KC,,good\n"

	mux := http.NewServeMux()
	mux.HandleFunc("/player_stats/player_stats_2023.csv", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(weekly))
	})
	mux.HandleFunc("/pbp/play_by_play_2023.csv", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(pbp))
	})

	client, _ := newTestClient(t, mux, nil)

	bundle, err := client.FetchStatsBundle(context.Background(), []int{2023})
	if err != nil {
		t.Fatalf("fetch bundle: %v", err)
	}

	if len(bundle.Weekly) != 1 {
		t.Fatalf("expected 1 weekly row, got=%d", len(bundle.Weekly))
	}
	row := bundle.Weekly[0]
	if row.PlayerID != "00-001" || row.RecentTeam != "KC" || row.OpponentTeam != "DET" {
		t.Fatalf("weekly identity mapping: %+v", row)
	}
	if row.Stats["attempts"] != "34" || row.Stats["passing_yards"] != "226" {
		t.Fatalf("weekly stats mapping: %+v", row.Stats)
	}
	if _, leaked := row.Stats["player_id"]; leaked {
		t.Fatalf("identity columns must not leak into stats")
	}

	if len(bundle.Kicking) != 2 {
		t.Fatalf("expected 2 kicking plays after play_type filter, got=%d", len(bundle.Kicking))
	}
	if bundle.Kicking[0].KickerID != "00-002" || bundle.Kicking[0].PlayType != "field_goal" {
		t.Fatalf("kicking mapping: %+v", bundle.Kicking[0])
	}
}

func TestClient_ExecuteRequest_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc(playersPath, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("gsis_id,first_name,last_name,position,status\n00-001,Patrick,Mahomes,QB,ACT\n"))
	})

	client, _ := newTestClient(t, mux, nil)

	rows, err := client.FetchPlayers(context.Background())
	if err != nil {
		t.Fatalf("fetch players: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected retry after 503, got=%d calls", calls.Load())
	}
	if len(rows) != 1 || rows[0].PlayerID != "00-001" {
		t.Fatalf("player mapping: %+v", rows)
	}
}

func TestClient_ExecuteRequest_NonRetryableStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc(playersPath, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	})

	client, _ := newTestClient(t, mux, nil)

	if _, err := client.FetchPlayers(context.Background()); err == nil {
		t.Fatalf("expected error on 404")
	}
	if calls.Load() != 1 {
		t.Fatalf("404 must not be retried, got=%d calls", calls.Load())
	}
}

func TestClient_ExecuteRequest_ExhaustedRetries(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc(playersPath, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	client, _ := newTestClient(t, mux, nil)

	_, err := client.FetchPlayers(context.Background())
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got=%v", err)
	}
}

func TestClient_ForEachSeason_RequiresSeasons(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.NewServeMux(), nil)
	_, err := client.FetchRosters(context.Background(), nil)
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got=%v", err)
	}
}
