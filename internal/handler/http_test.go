package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/obstacle-ladder/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStandings struct {
	meta    *domain.LadderMeta
	players []domain.LadderEntry
	maps    []domain.LadderEntry

	lastLimit int
}

func (f *fakeStandings) GetMeta(ctx context.Context) (*domain.LadderMeta, error) {
	if f.meta == nil {
		return nil, domain.ErrNoStandings
	}
	return f.meta, nil
}

func (f *fakeStandings) TopPlayers(ctx context.Context, n int) ([]domain.LadderEntry, error) {
	f.lastLimit = n
	if n < len(f.players) {
		return f.players[:n], nil
	}
	return f.players, nil
}

func (f *fakeStandings) TopMaps(ctx context.Context, n int) ([]domain.LadderEntry, error) {
	f.lastLimit = n
	if n < len(f.maps) {
		return f.maps[:n], nil
	}
	return f.maps, nil
}

func (f *fakeStandings) PlayerRank(ctx context.Context, playerID int64) (*domain.LadderEntry, error) {
	for i := range f.players {
		if f.players[i].ID == playerID {
			return &f.players[i], nil
		}
	}
	return nil, domain.ErrPlayerNotFound
}

func testStandings() *fakeStandings {
	return &fakeStandings{
		meta: &domain.LadderMeta{
			RunID:      "run-1",
			ComputedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
			Players:    2,
			Maps:       1,
		},
		players: []domain.LadderEntry{
			{Rank: 1, ID: 100, Login: "speedy", Name: "Speedy", Score: 12.5},
			{Rank: 2, ID: 200, Login: "turtle", Name: "Turtle", Score: 3.0},
		},
		maps: []domain.LadderEntry{
			{Rank: 1, ID: 1, Name: "Canyon Dash", Score: 15.5},
		},
	}
}

func serve(t *testing.T, standings StandingsSource, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewHandler(standings, slog.New(slog.NewTextHandler(io.Discard, nil)))
	rr := httptest.NewRecorder()
	h.Router().ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	rr := serve(t, testStandings(), http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, rr.Code)
	resp := decode(t, rr)
	assert.True(t, resp.Success)
}

func TestGetMeta(t *testing.T) {
	rr := serve(t, testStandings(), http.MethodGet, "/api/v1/ladder/meta")

	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode(t, rr)
	assert.True(t, resp.Success)

	meta := resp.Data.(map[string]interface{})
	assert.Equal(t, "run-1", meta["run_id"])
	assert.Equal(t, float64(2), meta["players"])
}

func TestGetMetaBeforeFirstRun(t *testing.T) {
	rr := serve(t, &fakeStandings{}, http.MethodGet, "/api/v1/ladder/meta")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	resp := decode(t, rr)
	assert.False(t, resp.Success)
	assert.Equal(t, domain.ErrNoStandings.Error(), resp.Error)
}

func TestGetTopPlayers(t *testing.T) {
	standings := testStandings()
	rr := serve(t, standings, http.MethodGet, "/api/v1/ladder/players")

	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode(t, rr)
	assert.True(t, resp.Success)
	assert.Len(t, resp.Data.([]interface{}), 2)
	assert.Equal(t, 100, standings.lastLimit, "default limit")
}

func TestGetTopPlayersHonorsLimit(t *testing.T) {
	standings := testStandings()
	rr := serve(t, standings, http.MethodGet, "/api/v1/ladder/players?limit=1")

	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode(t, rr)
	entries := resp.Data.([]interface{})
	require.Len(t, entries, 1)
	assert.Equal(t, "speedy", entries[0].(map[string]interface{})["login"])
}

func TestGetTopPlayersIgnoresBadLimit(t *testing.T) {
	standings := testStandings()
	rr := serve(t, standings, http.MethodGet, "/api/v1/ladder/players?limit=bogus")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 100, standings.lastLimit)
}

func TestGetTopMaps(t *testing.T) {
	rr := serve(t, testStandings(), http.MethodGet, "/api/v1/ladder/maps")

	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode(t, rr)
	entries := resp.Data.([]interface{})
	require.Len(t, entries, 1)
	assert.Equal(t, "Canyon Dash", entries[0].(map[string]interface{})["name"])
}

func TestGetPlayerRank(t *testing.T) {
	rr := serve(t, testStandings(), http.MethodGet, "/api/v1/ladder/players/200")

	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode(t, rr)
	entry := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(2), entry["rank"])
	assert.Equal(t, "turtle", entry["login"])
}

func TestGetPlayerRankNotFound(t *testing.T) {
	rr := serve(t, testStandings(), http.MethodGet, "/api/v1/ladder/players/999")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	resp := decode(t, rr)
	assert.False(t, resp.Success)
}

func TestGetPlayerRankInvalidID(t *testing.T) {
	rr := serve(t, testStandings(), http.MethodGet, "/api/v1/ladder/players/abc")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	resp := decode(t, rr)
	assert.Equal(t, domain.ErrInvalidRequest.Error(), resp.Error)
}
