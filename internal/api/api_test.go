package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/gomoku-go/internal/api"
	"github.com/mcoot/gomoku-go/internal/api/apierr"
	"github.com/mcoot/gomoku-go/internal/api/response"
	"github.com/mcoot/gomoku-go/internal/factory"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

// newTestServer wires the API over a test app. The unprimed MockRandom makes every
// engine reply land on the first empty cell in row-major order.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app := factory.NewTestApp()

	router := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		AuthService:     app.AuthService,
		MatchController: app.MatchController,
		HistoryService:  app.HistoryService,
		StatsService:    app.StatsService,
		HubManager:      app.HubManager,
	})

	return &testServer{handler: router, app: app}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	switch b := body.(type) {
	case nil:
		reqBody = bytes.NewBuffer(nil)
	case []byte:
		reqBody = bytes.NewBuffer(b)
	default:
		data, _ := json.Marshal(b)
		reqBody = bytes.NewBuffer(data)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestDifficulties(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/difficulties", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Difficulties []response.Difficulty `json:"difficulties"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Difficulties, 4)
	assert.Equal(t, "easy", resp.Difficulties[0].Name)
	assert.False(t, resp.Difficulties[0].UseSearch)
	assert.Equal(t, "expert", resp.Difficulties[3].Name)
	assert.True(t, resp.Difficulties[3].UseSearch)
}

func TestCreateGuestPlayer(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]string{"display_name": "Alice"}
	rr := ts.request(http.MethodPost, "/api/v1/players/guest", body, "")

	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp response.AuthResponse
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)

	assert.Equal(t, "Alice", resp.Player.DisplayName)
	assert.True(t, resp.Player.IsGuest)
	assert.NotEmpty(t, resp.SessionToken)
}

func TestCreateGuestPlayerWithoutBody(t *testing.T) {
	ts := newTestServer(t)
	ts.app.MockRandom.QueueString("abcd")

	rr := ts.request(http.MethodPost, "/api/v1/players/guest", nil, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp response.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Guest-abcd", resp.Player.DisplayName)
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	// Register
	registerBody := map[string]string{
		"username":     "alice",
		"password":     "secret123",
		"display_name": "Alice",
	}
	rr := ts.request(http.MethodPost, "/api/v1/players/register", registerBody, "")
	assert.Equal(t, http.StatusCreated, rr.Code)

	var registerResp response.AuthResponse
	err := json.Unmarshal(rr.Body.Bytes(), &registerResp)
	require.NoError(t, err)
	assert.False(t, registerResp.Player.IsGuest)

	// Duplicate username
	rr = ts.request(http.MethodPost, "/api/v1/players/register", registerBody, "")
	assert.Equal(t, http.StatusConflict, rr.Code)

	// Login
	loginBody := map[string]string{
		"username": "alice",
		"password": "secret123",
	}
	rr = ts.request(http.MethodPost, "/api/v1/players/login", loginBody, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var loginResp response.AuthResponse
	err = json.Unmarshal(rr.Body.Bytes(), &loginResp)
	require.NoError(t, err)
	assert.Equal(t, registerResp.Player.ID, loginResp.Player.ID)

	// Wrong password
	loginBody["password"] = "nope-nope"
	rr = ts.request(http.MethodPost, "/api/v1/players/login", loginBody, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apierr.CodeInvalidCredentials, errorCode(t, rr))
}

func TestGetMeAndLogout(t *testing.T) {
	ts := newTestServer(t)
	token := createGuestPlayer(t, ts, "Bob")

	rr := ts.request(http.MethodGet, "/api/v1/players/me", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var meResp response.Player
	err := json.Unmarshal(rr.Body.Bytes(), &meResp)
	require.NoError(t, err)
	assert.Equal(t, "Bob", meResp.DisplayName)

	rr = ts.request(http.MethodPost, "/api/v1/players/logout", nil, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/players/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestUnauthorizedWithoutToken(t *testing.T) {
	ts := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/players/me"},
		{http.MethodPost, "/api/v1/matches"},
		{http.MethodGet, "/api/v1/history"},
		{http.MethodGet, "/api/v1/stats"},
	} {
		rr := ts.request(tc.method, tc.path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s", tc.method, tc.path)
	}
}

func TestCreateMatchDefaults(t *testing.T) {
	ts := newTestServer(t)
	token := createGuestPlayer(t, ts, "Alice")

	rr := ts.request(http.MethodPost, "/api/v1/matches", map[string]string{"mode": "vs_ai"}, token)
	require.Equal(t, http.StatusCreated, rr.Code)

	m := decodeMatch(t, rr)
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, 10, m.BoardSize)
	assert.Equal(t, response.Side{Controller: "human"}, m.Black)
	assert.Equal(t, response.Side{Controller: "engine", Difficulty: "medium"}, m.White)
	assert.Len(t, m.Board, 10)
	assert.Equal(t, "..........", m.Board[0])
	assert.Empty(t, m.Moves)
	assert.Equal(t, "black", m.NextPlayer)
	assert.Equal(t, "in_progress", m.Outcome)
}

func TestCreateMatchEngineOpensAsBlack(t *testing.T) {
	ts := newTestServer(t)
	token := createGuestPlayer(t, ts, "Alice")

	body := map[string]any{"mode": "vs_ai", "board_size": 15, "human_side": "white", "difficulty": "hard"}
	rr := ts.request(http.MethodPost, "/api/v1/matches", body, token)
	require.Equal(t, http.StatusCreated, rr.Code)

	m := decodeMatch(t, rr)
	require.Len(t, m.Moves, 1)
	assert.True(t, m.Moves[0].ByEngine)
	assert.Equal(t, 7, m.Moves[0].Row)
	assert.Equal(t, 7, m.Moves[0].Col)
	assert.Equal(t, byte('X'), m.Board[7][7])
	assert.Equal(t, "white", m.NextPlayer)
}

func TestCreateMatchValidation(t *testing.T) {
	ts := newTestServer(t)
	token := createGuestPlayer(t, ts, "Alice")

	cases := []struct {
		name string
		body any
		code string
	}{
		{"unknown mode", map[string]any{"mode": "blitz"}, apierr.CodeUnknownMode},
		{"board too small", map[string]any{"mode": "two_player", "board_size": 4}, apierr.CodeInvalidBoardSize},
		{"board too large", map[string]any{"mode": "two_player", "board_size": 26}, apierr.CodeInvalidBoardSize},
		{"unknown difficulty", map[string]any{"mode": "vs_ai", "difficulty": "godlike"}, apierr.CodeUnknownDifficulty},
		{"unknown side", map[string]any{"mode": "vs_ai", "human_side": "green"}, apierr.CodeInvalidSide},
		{"malformed body", []byte(`{"mode":`), apierr.CodeInvalidRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, "/api/v1/matches", tc.body, token)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, tc.code, errorCode(t, rr))
		})
	}
}

func TestVsAIMatchToVictory(t *testing.T) {
	ts := newTestServer(t)
	token := createGuestPlayer(t, ts, "Alice")
	id := createMatch(t, ts, token, map[string]any{"mode": "vs_ai", "difficulty": "easy"})

	var m response.Match
	for col := 0; col < 5; col++ {
		rr := ts.request(http.MethodPost, "/api/v1/matches/"+id+"/moves", map[string]int{"row": 9, "col": col}, token)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		m = decodeMatch(t, rr)
	}

	assert.Equal(t, "won", m.Outcome)
	assert.Equal(t, "black", m.Winner)
	assert.Empty(t, m.NextPlayer)
	assert.Equal(t, "OOOO......", m.Board[0])
	assert.Equal(t, "XXXXX.....", m.Board[9])

	// Further moves are refused
	rr := ts.request(http.MethodPost, "/api/v1/matches/"+id+"/moves", map[string]int{"row": 5, "col": 5}, token)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeMatchFinished, errorCode(t, rr))

	// Stats
	rr = ts.request(http.MethodGet, "/api/v1/stats", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	var st response.Stats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &st))
	assert.Equal(t, 1, st.TotalGames)
	assert.Equal(t, 1, st.BlackWins)
	assert.Equal(t, 1, st.EngineLosses)
	assert.Equal(t, 9, st.TotalMoves)
	assert.InDelta(t, 100.0, st.BlackWinRate, 0.001)

	// History
	rr = ts.request(http.MethodGet, "/api/v1/history", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	var hist response.History
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &hist))
	require.Len(t, hist.Matches, 1)
	assert.Equal(t, id, hist.Matches[0].ID)
	assert.Equal(t, 9, hist.Matches[0].Moves)

	// Stats reset
	rr = ts.request(http.MethodDelete, "/api/v1/stats", nil, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = ts.request(http.MethodGet, "/api/v1/stats", nil, token)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &st))
	assert.Equal(t, 0, st.TotalGames)
}

func TestPlaceStoneRejections(t *testing.T) {
	ts := newTestServer(t)
	token := createGuestPlayer(t, ts, "Alice")
	id := createMatch(t, ts, token, map[string]any{"mode": "two_player", "board_size": 5})
	path := "/api/v1/matches/" + id + "/moves"

	rr := ts.request(http.MethodPost, path, map[string]int{"row": 5, "col": 0}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidPosition, errorCode(t, rr))

	rr = ts.request(http.MethodPost, path, map[string]int{"row": 1}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, errorCode(t, rr))

	rr = ts.request(http.MethodPost, path, map[string]int{"row": 1, "col": 1}, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "white", decodeMatch(t, rr).NextPlayer)

	rr = ts.request(http.MethodPost, path, map[string]int{"row": 1, "col": 1}, token)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeCellOccupied, errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/matches/"+id+"/ai-move", nil, token)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeNoAIPlayer, errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/matches/missing/moves", map[string]int{"row": 0, "col": 0}, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMatchOwnership(t *testing.T) {
	ts := newTestServer(t)
	alice := createGuestPlayer(t, ts, "Alice")
	bob := createGuestPlayer(t, ts, "Bob")
	id := createMatch(t, ts, alice, map[string]any{"mode": "two_player"})

	for _, tc := range []struct {
		method, path string
		body         any
	}{
		{http.MethodGet, "/api/v1/matches/" + id, nil},
		{http.MethodPost, "/api/v1/matches/" + id + "/moves", map[string]int{"row": 0, "col": 0}},
		{http.MethodPost, "/api/v1/matches/" + id + "/resign", nil},
		{http.MethodGet, "/api/v1/matches/" + id + "/replay", nil},
	} {
		rr := ts.request(tc.method, tc.path, tc.body, bob)
		assert.Equal(t, http.StatusForbidden, rr.Code, "%s %s", tc.method, tc.path)
	}
}

func TestAIBattleAndDifficulty(t *testing.T) {
	ts := newTestServer(t)
	token := createGuestPlayer(t, ts, "Alice")
	id := createMatch(t, ts, token, map[string]any{
		"mode": "ai_battle", "board_size": 5, "black_difficulty": "easy", "white_difficulty": "expert",
	})

	rr := ts.request(http.MethodPost, "/api/v1/matches/"+id+"/moves", map[string]int{"row": 0, "col": 0}, token)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeNotYourTurn, errorCode(t, rr))

	rr = ts.request(http.MethodPatch, "/api/v1/matches/"+id+"/difficulty", map[string]string{"side": "black", "difficulty": "hard"}, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "hard", decodeMatch(t, rr).Black.Difficulty)

	rr = ts.request(http.MethodPatch, "/api/v1/matches/"+id+"/difficulty", map[string]string{"side": "black"}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/matches/"+id+"/ai-move", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	m := decodeMatch(t, rr)
	require.Len(t, m.Moves, 1)
	assert.Equal(t, "black", m.Moves[0].Player)
	assert.Equal(t, 2, m.Moves[0].Row)
	assert.Equal(t, 2, m.Moves[0].Col)

	rr = ts.request(http.MethodPost, "/api/v1/matches/"+id+"/ai-move", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	m = decodeMatch(t, rr)
	require.Len(t, m.Moves, 2)
	assert.Equal(t, "white", m.Moves[1].Player)
	assert.Equal(t, "black", m.NextPlayer)
}

func TestSuggestionDoesNotPlay(t *testing.T) {
	ts := newTestServer(t)
	token := createGuestPlayer(t, ts, "Alice")
	id := createMatch(t, ts, token, map[string]any{"mode": "two_player", "board_size": 9})

	rr := ts.request(http.MethodGet, "/api/v1/matches/"+id+"/suggestion", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	var s response.Suggestion
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &s))
	assert.Equal(t, response.Suggestion{Player: "black", Row: 4, Col: 4}, s)

	rr = ts.request(http.MethodGet, "/api/v1/matches/"+id, nil, token)
	assert.Empty(t, decodeMatch(t, rr).Moves)
}

func TestResignAndReplay(t *testing.T) {
	ts := newTestServer(t)
	token := createGuestPlayer(t, ts, "Alice")
	id := createMatch(t, ts, token, map[string]any{"mode": "two_player", "board_size": 5})

	for _, mv := range []map[string]int{{"row": 0, "col": 0}, {"row": 1, "col": 1}, {"row": 2, "col": 2}} {
		rr := ts.request(http.MethodPost, "/api/v1/matches/"+id+"/moves", mv, token)
		require.Equal(t, http.StatusOK, rr.Code)
	}

	rr := ts.request(http.MethodPost, "/api/v1/matches/"+id+"/resign", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	m := decodeMatch(t, rr)
	assert.True(t, m.Resigned)
	assert.Equal(t, "black", m.Winner)

	// Default step is the final position
	rr = ts.request(http.MethodGet, "/api/v1/matches/"+id+"/replay", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	var frame response.Frame
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &frame))
	assert.Equal(t, 3, frame.Step)
	assert.Equal(t, 3, frame.Total)

	rr = ts.request(http.MethodGet, "/api/v1/matches/"+id+"/replay?step=1", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &frame))
	assert.Equal(t, []string{"X....", ".....", ".....", ".....", "....."}, frame.Board)
	require.NotNil(t, frame.LastMove)
	assert.Equal(t, 0, frame.LastMove.Row)
	assert.Equal(t, "white", frame.NextPlayer)

	rr = ts.request(http.MethodGet, "/api/v1/matches/"+id+"/replay?step=4", nil, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeStepOutOfRange, errorCode(t, rr))

	rr = ts.request(http.MethodGet, "/api/v1/matches/"+id+"/replay?step=x", nil, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHistoryExportImport(t *testing.T) {
	ts := newTestServer(t)
	alice := createGuestPlayer(t, ts, "Alice")
	id := createMatch(t, ts, alice, map[string]any{"mode": "two_player", "board_size": 5})
	rr := ts.request(http.MethodPost, "/api/v1/matches/"+id+"/resign", nil, alice)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/history/export", nil, alice)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "attachment")
	doc := rr.Body.Bytes()

	// Same owner: already present
	rr = ts.request(http.MethodPost, "/api/v1/history/import", doc, alice)
	require.Equal(t, http.StatusOK, rr.Code)
	var result response.ImportResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, []string{id}, result.Skipped)

	rr = ts.request(http.MethodPost, "/api/v1/history/import", []byte(`{"version":1,"matches":[{"id":"x"`), alice)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// Helper functions

func createGuestPlayer(t *testing.T, ts *testServer, displayName string) string {
	t.Helper()

	body := map[string]string{"display_name": displayName}
	rr := ts.request(http.MethodPost, "/api/v1/players/guest", body, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp response.AuthResponse
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)

	return resp.SessionToken
}

func createMatch(t *testing.T, ts *testServer, token string, body any) string {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/matches", body, token)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decodeMatch(t, rr).ID
}

func decodeMatch(t *testing.T, rr *httptest.ResponseRecorder) response.Match {
	t.Helper()

	var m response.Match
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m), rr.Body.String())
	return m
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()

	var resp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	return resp.Error.Code
}
