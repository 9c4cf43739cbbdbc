package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-2048/internal/session"
	"github.com/vovakirdan/tui-2048/internal/t2048"
)

func newTestServer(t *testing.T, gateInput bool) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(logger)
	go hub.Run(ctx)

	manager := session.NewManager(logger, session.WithSeed(5))
	ts := httptest.NewServer(NewServer(manager, hub, logger, gateInput))
	t.Cleanup(func() {
		ts.Close()
		cancel()
	})
	return ts
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

// movingDirection returns a direction that changes g.
func movingDirection(t *testing.T, g t2048.Grid) t2048.Direction {
	t.Helper()
	for _, dir := range t2048.Directions {
		if t2048.ApplyMove(g, dir).Moved {
			return dir
		}
	}
	t.Fatal("no direction changes the board")
	return 0
}

func createGame(t *testing.T, baseURL string) session.Snapshot {
	t.Helper()
	var snap session.Snapshot
	if status := doJSON(t, http.MethodPost, baseURL+"/api/games", nil, &snap); status != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", status)
	}
	if snap.ID == "" || t2048.TileCount(snap.Grid) != 2 {
		t.Fatalf("created snapshot = %+v", snap)
	}
	return snap
}

func TestGameLifecycle(t *testing.T) {
	ts := newTestServer(t, false)
	snap := createGame(t, ts.URL)
	gameURL := ts.URL + "/api/games/" + snap.ID

	var got session.Snapshot
	if status := doJSON(t, http.MethodGet, gameURL, nil, &got); status != http.StatusOK {
		t.Fatalf("get status = %d", status)
	}
	if !got.Grid.Equal(snap.Grid) {
		t.Error("get returned a different board")
	}

	dir := movingDirection(t, got.Grid)
	var turn session.Turn
	if status := doJSON(t, http.MethodPost, gameURL+"/move", map[string]string{"direction": dir.String()}, &turn); status != http.StatusOK {
		t.Fatalf("move status = %d", status)
	}
	if !turn.Result.Moved || turn.Spawned == nil {
		t.Errorf("turn = %+v, want a move with a spawn", turn)
	}

	// Without gating the game is ready straight away.
	if status := doJSON(t, http.MethodGet, gameURL, nil, &got); status != http.StatusOK || !got.Ready {
		t.Errorf("after move status=%d ready=%v, want ready", status, got.Ready)
	}
	if got.Stats.Moves != 1 {
		t.Errorf("moves = %d, want 1", got.Stats.Moves)
	}

	var restarted session.Snapshot
	if status := doJSON(t, http.MethodPost, gameURL+"/restart", nil, &restarted); status != http.StatusOK {
		t.Fatalf("restart status = %d", status)
	}
	if restarted.Stats.Moves != 0 {
		t.Errorf("moves after restart = %d, want 0", restarted.Stats.Moves)
	}

	if status := doJSON(t, http.MethodDelete, gameURL, nil, nil); status != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", status)
	}
	if status := doJSON(t, http.MethodGet, gameURL, nil, nil); status != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", status)
	}
}

func TestMoveErrors(t *testing.T) {
	ts := newTestServer(t, true)
	snap := createGame(t, ts.URL)
	gameURL := ts.URL + "/api/games/" + snap.ID

	tests := []struct {
		name string
		url  string
		body any
		want int
	}{
		{"bad direction", gameURL + "/move", map[string]string{"direction": "sideways"}, http.StatusBadRequest},
		{"bad body", gameURL + "/move", "not an object", http.StatusBadRequest},
		{"unknown game", ts.URL + "/api/games/nope/move", map[string]string{"direction": "up"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if status := doJSON(t, http.MethodPost, tt.url, tt.body, nil); status != tt.want {
				t.Errorf("status = %d, want %d", status, tt.want)
			}
		})
	}
}

func TestMoveGatedUntilSettled(t *testing.T) {
	ts := newTestServer(t, true)
	snap := createGame(t, ts.URL)
	gameURL := ts.URL + "/api/games/" + snap.ID

	dir := movingDirection(t, snap.Grid)
	var turn session.Turn
	if status := doJSON(t, http.MethodPost, gameURL+"/move", map[string]string{"direction": dir.String()}, &turn); status != http.StatusOK {
		t.Fatalf("first move status = %d", status)
	}

	if status := doJSON(t, http.MethodPost, gameURL+"/move", map[string]string{"direction": "up"}, nil); status != http.StatusConflict {
		t.Errorf("move before settle status = %d, want 409", status)
	}

	if status := doJSON(t, http.MethodPost, gameURL+"/settle", nil, nil); status != http.StatusNoContent {
		t.Fatalf("settle status = %d, want 204", status)
	}

	dir = movingDirection(t, turn.Result.Grid)
	if status := doJSON(t, http.MethodPost, gameURL+"/move", map[string]string{"direction": dir.String()}, nil); status != http.StatusOK {
		t.Errorf("move after settle status = %d, want 200", status)
	}
}

func TestWebSocketMoves(t *testing.T) {
	ts := newTestServer(t, true)
	snap := createGame(t, ts.URL)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?game=" + snap.ID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	read := func() Message {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("ReadJSON: %v", err)
		}
		return msg
	}

	initial := read()
	if initial.Event != EventState || initial.Snapshot == nil || initial.Snapshot.ID != snap.ID {
		t.Fatalf("initial message = %+v, want state of %s", initial, snap.ID)
	}

	dir := movingDirection(t, initial.Snapshot.Grid)
	if err := conn.WriteJSON(ClientMessage{Action: ActionMove, Direction: dir.String()}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	turn := read()
	if turn.Event != EventTurn || turn.Turn == nil || !turn.Turn.Result.Moved {
		t.Fatalf("expected a turn event, got %+v", turn)
	}

	// Still busy: the next move is rejected to this client only.
	if err := conn.WriteJSON(ClientMessage{Action: ActionMove, Direction: "up"}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if msg := read(); msg.Event != EventError {
		t.Errorf("move while busy got %+v, want error event", msg)
	}

	if err := conn.WriteJSON(ClientMessage{Action: ActionSettled}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	state := read()
	if state.Event != EventState || state.Snapshot == nil || !state.Snapshot.Ready {
		t.Errorf("settle got %+v, want ready state", state)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{broken")); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	if msg := read(); msg.Event != EventError {
		t.Errorf("malformed message got %+v, want error event", msg)
	}
}

func TestWebSocketUnknownGame(t *testing.T) {
	ts := newTestServer(t, false)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?game=missing"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("Dial to unknown game should fail")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Errorf("handshake response = %v, want 404", resp)
	}
}
