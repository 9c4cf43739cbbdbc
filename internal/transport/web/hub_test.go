package web

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/session"
)

func TestHubRegisterAndUnregister(t *testing.T) {
	hub := NewHub(log.New(io.Discard))

	client := &Client{hub: hub, gameID: "g1", send: make(chan []byte, sendBuffer)}
	hub.registerClient(client)

	if hub.clientCount("g1") != 1 {
		t.Fatalf("clients = %d, want 1", hub.clientCount("g1"))
	}

	hub.unregisterClient(client)
	if hub.clientCount("g1") != 0 {
		t.Errorf("clients after unregister = %d, want 0", hub.clientCount("g1"))
	}
	if _, ok := hub.games["g1"]; ok {
		t.Error("empty game entry should be removed")
	}
	if _, ok := <-client.send; ok {
		t.Error("send channel should be closed")
	}

	// Unregistering twice is harmless.
	hub.unregisterClient(client)
}

func TestHubBroadcastOnlyToGame(t *testing.T) {
	hub := NewHub(log.New(io.Discard))

	a := &Client{hub: hub, gameID: "a", send: make(chan []byte, sendBuffer)}
	b := &Client{hub: hub, gameID: "b", send: make(chan []byte, sendBuffer)}
	hub.registerClient(a)
	hub.registerClient(b)

	hub.broadcastMessage(&Message{GameID: "a", Event: EventState, Snapshot: &session.Snapshot{ID: "a"}})

	select {
	case data := <-a.send:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if msg.Event != EventState || msg.Snapshot.ID != "a" {
			t.Errorf("message = %+v", msg)
		}
	default:
		t.Error("client of game a received nothing")
	}

	select {
	case <-b.send:
		t.Error("client of game b should not receive game a messages")
	default:
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub(log.New(io.Discard))

	slow := &Client{hub: hub, gameID: "g", send: make(chan []byte)} // unbuffered, never read
	hub.registerClient(slow)

	hub.broadcastMessage(&Message{GameID: "g", Event: EventState})

	if hub.clientCount("g") != 0 {
		t.Error("slow client should be unregistered")
	}
}
