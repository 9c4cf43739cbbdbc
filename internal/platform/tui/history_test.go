package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/storage"
)

func TestHistoryModel(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	for _, tile := range []int{128, 1024, 256} {
		if _, err := store.SaveGame(storage.GameEntry{SessionID: "s", MaxTile: tile, Moves: tile / 2, EndReason: "game_over"}); err != nil {
			t.Fatalf("SaveGame() failed: %v", err)
		}
	}

	m := NewHistoryModel(store, 100, 30)
	if len(m.games) != 3 {
		t.Fatalf("loaded %d games, want 3", len(m.games))
	}
	if !strings.Contains(m.View(), "RECENT GAMES") {
		t.Error("default view should be recent games")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(HistoryModel)
	if m.view != HistoryBest {
		t.Fatalf("tab should switch to best games")
	}
	if m.games[0].MaxTile != 1024 {
		t.Errorf("best view first tile = %d, want 1024", m.games[0].MaxTile)
	}
	if !strings.Contains(m.View(), "BEST GAMES") {
		t.Error("title should follow the view")
	}
}

func TestHistoryModelWithoutStore(t *testing.T) {
	m := NewHistoryModel(nil, 80, 24)
	if !strings.Contains(m.View(), "No games recorded yet") {
		t.Error("empty history should show the placeholder")
	}
}
