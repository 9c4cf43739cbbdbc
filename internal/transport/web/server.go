// Package web exposes 2048 sessions over a JSON HTTP API and pushes move
// results to WebSocket watchers.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/vovakirdan/tui-2048/internal/session"
	"github.com/vovakirdan/tui-2048/internal/t2048"
)

// Server is the HTTP API and WebSocket endpoint.
type Server struct {
	manager   *session.Manager
	hub       *Hub
	router    *mux.Router
	logger    *log.Logger
	gateInput bool
}

// NewServer creates a server over manager. When gateInput is true a move
// leaves the game busy until the client settles it; otherwise every move
// is settled before the response is written.
func NewServer(manager *session.Manager, hub *Hub, logger *log.Logger, gateInput bool) *Server {
	s := &Server{
		manager:   manager,
		hub:       hub,
		router:    mux.NewRouter(),
		logger:    logger,
		gateInput: gateInput,
	}
	hub.SetHandler(s.handleClientMessage)

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/games", s.handleCreateGame).Methods(http.MethodPost)
	api.HandleFunc("/games", s.handleListGames).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", s.handleGetGame).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", s.handleDeleteGame).Methods(http.MethodDelete)
	api.HandleFunc("/games/{id}/move", s.handleMove).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/settle", s.handleSettle).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/restart", s.handleRestart).Methods(http.MethodPost)

	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting web server", "address", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("web: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusFor maps session errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, t2048.ErrInvalidDirection):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNotReady), errors.Is(err, session.ErrGameOver):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	snap := s.manager.Create()
	respondJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	ids := s.manager.List()
	respondJSON(w, http.StatusOK, map[string]any{
		"count": len(ids),
		"games": ids,
	})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	snap, err := s.manager.Get(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.Delete(mux.Vars(r)["id"]); err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req struct {
		Direction string `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	turn, err := s.move(id, req.Direction)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			s.logger.Error("move failed", "game", id, "error", err)
		}
		respondError(w, status, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, turn)
}

func (s *Server) handleSettle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.settle(id); err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var snap session.Snapshot
	err := s.manager.Do(id, func(sess *session.Session) error {
		sess.Restart()
		snap = sess.Snapshot()
		return nil
	})
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	s.hub.BroadcastState(id, snap)
	respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("game")
	if id == "" {
		http.Error(w, "game parameter required", http.StatusBadRequest)
		return
	}

	snap, err := s.manager.Get(id)
	if err != nil {
		http.Error(w, "unknown game", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, id, &Message{GameID: id, Event: EventState, Snapshot: &snap})
}

// handleClientMessage applies a WebSocket action.
func (s *Server) handleClientMessage(gameID string, msg ClientMessage) error {
	switch msg.Action {
	case ActionMove:
		_, err := s.move(gameID, msg.Direction)
		return err
	case ActionSettled:
		return s.settle(gameID)
	default:
		return fmt.Errorf("web: unknown action %q", msg.Action)
	}
}

// move applies a direction to a game and notifies watchers.
func (s *Server) move(id, direction string) (session.Turn, error) {
	dir, err := t2048.ParseDirection(direction)
	if err != nil {
		return session.Turn{}, err
	}

	var turn session.Turn
	err = s.manager.Do(id, func(sess *session.Session) error {
		var moveErr error
		turn, moveErr = sess.Move(dir)
		if moveErr != nil {
			return moveErr
		}
		if !s.gateInput {
			sess.Settle()
		}
		return nil
	})
	if err != nil {
		return session.Turn{}, err
	}

	s.logger.Debug("move", "game", id, "direction", dir, "moved", turn.Result.Moved, "restarted", turn.Restarted)
	s.hub.BroadcastTurn(id, turn)
	return turn, nil
}

// settle marks a game's last move as presented and notifies watchers.
func (s *Server) settle(id string) error {
	var snap session.Snapshot
	err := s.manager.Do(id, func(sess *session.Session) error {
		sess.Settle()
		snap = sess.Snapshot()
		return nil
	})
	if err != nil {
		return err
	}

	s.hub.BroadcastState(id, snap)
	return nil
}
