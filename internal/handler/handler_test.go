package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/maxviazov/tournament-stats-service/internal/config"
	"github.com/maxviazov/tournament-stats-service/internal/handler"
	"github.com/maxviazov/tournament-stats-service/internal/model"
	"github.com/maxviazov/tournament-stats-service/internal/repository/memory"
	"github.com/maxviazov/tournament-stats-service/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func newServices(store *memory.Store) handler.Services {
	st := service.Stores{
		Tx:           store.TxManager(),
		Teams:        store.Teams(),
		Coaches:      store.Coaches(),
		Players:      store.Players(),
		Matches:      store.Matches(),
		MatchTeams:   store.MatchTeams(),
		MatchPlayers: store.MatchPlayers(),
	}
	log := zerolog.Nop()
	return handler.Services{
		Teams:        service.NewTeamService(st, log),
		Coaches:      service.NewCoachService(st.Coaches, st.Teams, log),
		Players:      service.NewPlayerService(st.Players, st.Teams, log),
		Matches:      service.NewMatchService(st, log),
		MatchPlayers: service.NewMatchPlayerService(st, log),
	}
}

func newRouter(t *testing.T, svc handler.Services, pinger handler.Pinger, httpCfg config.HTTPConfig) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := handler.NewEngine(zerolog.Nop(), httpCfg)
	handler.Register(r, pinger, svc)
	return r
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, handler.APIV1Prefix+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type idBody struct {
	ID int64 `json:"id"`
}

func TestMatchFlow_OverHTTP(t *testing.T) {
	r := newRouter(t, newServices(memory.NewStore()), stubPinger{}, config.HTTPConfig{})

	brazil := decode[idBody](t, do(t, r, http.MethodPost, "/teams", map[string]any{"name": "Brazil"}))
	usa := decode[idBody](t, do(t, r, http.MethodPost, "/teams", map[string]any{"name": "USA"}))

	w := do(t, r, http.MethodPost, "/matches", map[string]any{
		"scheduled_date": "2024-08-10", "stadium": "Bercy Arena", "round": "Final",
		"team1": brazil.ID, "team2": usa.ID, "team1_score": 3, "team2_score": 5,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	match := decode[map[string]any](t, w)
	assert.Equal(t, "2024-08-10", match["scheduled_date"])
	assert.Equal(t, "USA", match["team2_name"])
	assert.EqualValues(t, 5, match["team2_score"])
	matchID := int64(match["id"].(float64))

	team := decode[map[string]any](t, do(t, r, http.MethodGet, "/teams/"+itoa(brazil.ID), nil))
	assert.Equal(t, "3", team["average_score"])

	player := decode[idBody](t, do(t, r, http.MethodPost, "/players", map[string]any{"team": brazil.ID, "name": "Oscar", "height": "2.05"}))

	w = do(t, r, http.MethodPost, "/matches/"+itoa(matchID)+"/players", map[string]any{"player": player.ID, "score": 4})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"name":"Oscar"`)

	w = do(t, r, http.MethodPut, "/matches/"+itoa(matchID)+"/players", map[string]any{"player": player.ID, "match": matchID, "score": 10})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, r, http.MethodGet, "/matches/"+itoa(matchID)+"/players", nil)
	require.Equal(t, http.StatusOK, w.Code)
	rows := decode[[]map[string]any](t, w)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 10, rows[0]["score"])

	p := decode[map[string]any](t, do(t, r, http.MethodGet, "/players/"+itoa(player.ID), nil))
	assert.EqualValues(t, 1, p["matches"])
	assert.Equal(t, "10", p["average_score"])

	w = do(t, r, http.MethodDelete, "/matches/"+itoa(matchID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, r, http.MethodDelete, "/matches/"+itoa(matchID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMatchHandler_ErrorMapping(t *testing.T) {
	r := newRouter(t, newServices(memory.NewStore()), stubPinger{}, config.HTTPConfig{})
	a := decode[idBody](t, do(t, r, http.MethodPost, "/teams", map[string]any{"name": "Alpha"}))

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"unknown team", http.MethodPost, "/matches", map[string]any{
			"scheduled_date": "2024-08-10", "stadium": "X", "round": "Final",
			"team1": a.ID, "team2": 999, "team1_score": 1, "team2_score": 2,
		}, http.StatusBadRequest},
		{"bad date", http.MethodPost, "/matches", map[string]any{"scheduled_date": "10/08/2024"}, http.StatusBadRequest},
		{"malformed body", http.MethodPost, "/matches", "not an object", http.StatusBadRequest},
		{"update match", http.MethodPut, "/matches/1", map[string]any{}, http.StatusNotImplemented},
		{"patch match", http.MethodPatch, "/matches/1", map[string]any{}, http.StatusNotImplemented},
		{"delete match player", http.MethodDelete, "/matches/1/players", nil, http.StatusNotImplemented},
		{"patch match player", http.MethodPatch, "/matches/1/players", map[string]any{}, http.StatusNotImplemented},
		{"update missing row", http.MethodPut, "/matches/1/players", map[string]any{"player": 1, "score": 1}, http.StatusNotFound},
		{"list unknown match", http.MethodGet, "/matches/77/players", nil, http.StatusOK},
		{"bad id", http.MethodGet, "/matches/abc", nil, http.StatusBadRequest},
		{"missing match", http.MethodGet, "/matches/77", nil, http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, r, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}
}

// failingMatches forces a storage failure on create to check the 500 envelope.
type failingMatches struct{ service.MatchService }

func (failingMatches) CreateMatch(context.Context, model.MatchInput) (model.Match, error) {
	return model.Match{}, errors.Mark(errors.New("tx aborted"), service.ErrPersistence)
}

func TestMatchHandler_PersistenceError(t *testing.T) {
	svc := newServices(memory.NewStore())
	svc.Matches = failingMatches{svc.Matches}
	r := newRouter(t, svc, stubPinger{}, config.HTTPConfig{})

	w := do(t, r, http.MethodPost, "/matches", map[string]any{"scheduled_date": "2024-08-10"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "persistence_error")
}

func TestTeamHandler_CRUD(t *testing.T) {
	r := newRouter(t, newServices(memory.NewStore()), stubPinger{}, config.HTTPConfig{})

	w := do(t, r, http.MethodPost, "/teams", map[string]any{"name": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_input")

	team := decode[idBody](t, do(t, r, http.MethodPost, "/teams", map[string]any{"name": "Lakers"}))
	w = do(t, r, http.MethodPost, "/teams", map[string]any{"name": "Lakers"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, r, http.MethodPut, "/teams/"+itoa(team.ID), map[string]any{"name": "Clippers"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, r, http.MethodGet, "/teams?limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[map[string]any](t, w)
	assert.EqualValues(t, 1, list["total"])
	assert.EqualValues(t, 1, list["limit"])

	w = do(t, r, http.MethodGet, "/teams/"+itoa(team.ID)+"/players", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"items":[]`)

	coach := do(t, r, http.MethodPost, "/coaches", map[string]any{"name": "Phil", "team": team.ID})
	require.Equal(t, http.StatusCreated, coach.Code, coach.Body.String())

	assert.Equal(t, http.StatusNoContent, do(t, r, http.MethodDelete, "/teams/"+itoa(team.ID), nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/teams/"+itoa(team.ID), nil).Code)
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/coaches", nil).Code)
}

func TestHealth(t *testing.T) {
	svc := newServices(memory.NewStore())

	r := newRouter(t, svc, stubPinger{}, config.HTTPConfig{})
	for _, path := range []string{"/live", "/ready", handler.APIV1Prefix + "/health/ready"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	down := newRouter(t, svc, stubPinger{err: errors.New("db down")}, config.HTTPConfig{})
	w := httptest.NewRecorder()
	down.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRateLimit_WritesOnly(t *testing.T) {
	r := newRouter(t, newServices(memory.NewStore()), stubPinger{}, config.HTTPConfig{WriteRPS: 0.001, WriteBurst: 1})

	assert.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/teams", map[string]any{"name": "First"}).Code)
	w := do(t, r, http.MethodPost, "/teams", map[string]any{"name": "Second"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate_limited")

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/teams", nil).Code)
	}
}

func TestNewHTTPHandler_CORS(t *testing.T) {
	r := newRouter(t, newServices(memory.NewStore()), stubPinger{}, config.HTTPConfig{})
	h := handler.NewHTTPHandler(r, []string{"https://stats.example.org"})

	req := httptest.NewRequest(http.MethodOptions, handler.APIV1Prefix+"/teams", nil)
	req.Header.Set("Origin", "https://stats.example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "https://stats.example.org", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, handler.APIV1Prefix+"/teams", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
