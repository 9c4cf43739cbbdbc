package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/session"
)

type countRecorder struct {
	reasons []session.EndReason
}

func (r *countRecorder) RecordGame(rec session.GameRecord) error {
	r.reasons = append(r.reasons, rec.EndReason)
	return nil
}

func TestSimulate(t *testing.T) {
	rec := &countRecorder{}
	res, err := simulate(20, 99, rec, log.New(io.Discard))
	if err != nil {
		t.Fatalf("simulate() failed: %v", err)
	}

	if res.Games != 20 {
		t.Errorf("Games = %d, want 20", res.Games)
	}
	total := 0
	for tile, n := range res.MaxTiles {
		if tile < 4 {
			t.Errorf("max tile %d is impossible after a full game", tile)
		}
		total += n
	}
	if total != 20 {
		t.Errorf("max tile histogram counts %d games, want 20", total)
	}
	if res.Spawned != res.Moves {
		t.Errorf("spawned %d tiles over %d moves; every counted move spawns once", res.Spawned, res.Moves)
	}

	if len(rec.reasons) != 20 {
		t.Fatalf("recorded %d games, want 20", len(rec.reasons))
	}
	for _, r := range rec.reasons {
		if r != session.EndGameOver {
			t.Errorf("end reason = %s, want game_over", r)
		}
	}
}

func TestSimulateDeterministic(t *testing.T) {
	a, err := simulate(5, 3, nil, log.New(io.Discard))
	if err != nil {
		t.Fatal(err)
	}
	b, err := simulate(5, 3, nil, log.New(io.Discard))
	if err != nil {
		t.Fatal(err)
	}
	if a.Moves != b.Moves || a.Fours != b.Fours {
		t.Errorf("same seed gave different runs: %+v vs %+v", a, b)
	}
}

func TestPrintSimResult(t *testing.T) {
	var buf bytes.Buffer
	printSimResult(&buf, simResult{
		Games:    4,
		MaxTiles: map[int]int{256: 1, 128: 3},
		Moves:    400,
		Spawned:  400,
		Fours:    40,
	})

	out := buf.String()
	for _, want := range []string{"4 games", "256", "128", "75.0%", "Average moves: 100.0", "(0.100)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "256") > strings.Index(out, "128") {
		t.Error("highest tile should be listed first")
	}
}
