package server

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nimamura/fencing-drill/internal/generator"
)

// sseEvent is one parsed server-sent event.
type sseEvent struct {
	id    string
	event string
	data  string
}

// readSSE parses events off the stream until an end event or maxEvents.
func readSSE(t *testing.T, body *bufio.Scanner, maxEvents int) []sseEvent {
	t.Helper()
	var events []sseEvent
	var cur sseEvent
	for body.Scan() {
		line := body.Text()
		switch {
		case line == "":
			if cur.event != "" {
				events = append(events, cur)
				if cur.event == "end" || len(events) >= maxEvents {
					return events
				}
				cur = sseEvent{}
			}
		case strings.HasPrefix(line, "id: "):
			cur.id = strings.TrimPrefix(line, "id: ")
		case strings.HasPrefix(line, "event: "):
			cur.event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			cur.data = strings.TrimPrefix(line, "data: ")
		}
	}
	return events
}

// startTestSession creates a session directly on the registry so the tick
// cadence is not constrained by the API bounds.
func startTestSession(t *testing.T, s *Server, cfg generator.Config) string {
	t.Helper()
	sess, err := s.registry.Create(cfg)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	t.Cleanup(func() {
		sess.Stop()
		<-sess.Done()
	})
	return sess.ID
}

// TestEventStream verifies the SSE endpoint streams the full drill: headers,
// sequenced command events, and the end event.
func TestEventStream(t *testing.T) {
	s := testServer(t)
	ts := httptest.NewServer(s)
	defer ts.Close()

	id := startTestSession(t, s, generator.BasicConfig{
		CommandID: "marche", Repetitions: 5, TempoBPM: 120, WeaponID: "foil",
	})

	resp, err := http.Get(ts.URL + "/api/v1/sessions/" + id + "/events")
	if err != nil {
		t.Fatalf("get events: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content-type = %q, want text/event-stream", ct)
	}

	events := readSSE(t, bufio.NewScanner(resp.Body), 50)

	var commands, ends int
	var lastID string
	for _, ev := range events {
		switch ev.event {
		case "command":
			commands++
			if ev.id == "" {
				t.Error("command event missing id line")
			}
			lastID = ev.id
		case "end":
			ends++
		case "status":
			if ev.id != "" {
				t.Errorf("status event carries id %q", ev.id)
			}
		}
	}

	if commands != 6 {
		t.Errorf("command events = %d, want 6 (en garde + 5 reps)", commands)
	}
	if ends != 1 {
		t.Errorf("end events = %d, want 1", ends)
	}
	if lastID != "6" {
		t.Errorf("last command id = %q, want 6", lastID)
	}
	if events[len(events)-1].event != "end" {
		t.Error("stream did not finish with the end event")
	}
}

// TestEventStreamReplay verifies reconnecting with Last-Event-ID replays
// only the missed sequenced events.
func TestEventStreamReplay(t *testing.T) {
	s := testServer(t)
	ts := httptest.NewServer(s)
	defer ts.Close()

	id := startTestSession(t, s, generator.BasicConfig{
		CommandID: "marche", Repetitions: 3, TempoBPM: 120, WeaponID: "foil",
	})

	// First consumer reads the whole drill.
	resp, err := http.Get(ts.URL + "/api/v1/sessions/" + id + "/events")
	if err != nil {
		t.Fatalf("get events: %v", err)
	}
	readSSE(t, bufio.NewScanner(resp.Body), 50)
	resp.Body.Close()

	// Reconnect claiming to have seen seq 2.
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/sessions/"+id+"/events", nil)
	req.Header.Set("Last-Event-ID", "2")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("reconnect: %v", err)
	}
	defer resp.Body.Close()

	events := readSSE(t, bufio.NewScanner(resp.Body), 50)

	if len(events) != 3 {
		t.Fatalf("replayed events = %d, want 3 (seq 3, 4, 5)", len(events))
	}
	if events[0].id != "3" {
		t.Errorf("first replayed id = %q, want 3", events[0].id)
	}
	if events[len(events)-1].event != "end" {
		t.Error("replay did not finish with the end event")
	}
}

// TestEventStreamNotFound verifies streaming an unknown session is a 404.
func TestEventStreamNotFound(t *testing.T) {
	s := testServer(t)
	ts := httptest.NewServer(s)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/sessions/unknown/events")
	if err != nil {
		t.Fatalf("get events: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

// TestDisconnectPausesSession verifies dropping the SSE connection pauses
// the drill rather than ending it.
func TestDisconnectPausesSession(t *testing.T) {
	s := testServer(t)
	ts := httptest.NewServer(s)
	defer ts.Close()

	id := startTestSession(t, s, generator.BasicConfig{
		CommandID: "marche", Repetitions: 50, TempoBPM: 30, WeaponID: "foil",
	})

	resp, err := http.Get(ts.URL + "/api/v1/sessions/" + id + "/events")
	if err != nil {
		t.Fatalf("get events: %v", err)
	}
	// Read the opening event, then hang up.
	readSSE(t, bufio.NewScanner(resp.Body), 1)
	resp.Body.Close()

	sess, _ := s.registry.Get(id)
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if sess.Info().State == "paused" {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("state = %q, want paused after disconnect", sess.Info().State)
}
