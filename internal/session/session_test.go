package session

import (
	"testing"
	"time"

	"github.com/nimamura/fencing-drill/internal/generator"
)

// fastBasic builds an unthrottled basic config so lifecycle tests finish in
// milliseconds. Sessions do not re-validate, so the tempo may exceed the
// API bounds here.
func fastBasic(reps int) generator.BasicConfig {
	return generator.BasicConfig{CommandID: "marche", Repetitions: reps, TempoBPM: 6000, WeaponID: "foil"}
}

func slowBasic(reps int) generator.BasicConfig {
	return generator.BasicConfig{CommandID: "marche", Repetitions: reps, TempoBPM: 60, WeaponID: "foil"}
}

// collect drains the live channel until it closes or the timeout expires.
func collect(t *testing.T, ch <-chan Event, timeout time.Duration) []Event {
	t.Helper()
	var events []Event
	deadline := time.After(timeout)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-deadline:
			t.Fatalf("timed out waiting for stream close; got %d events", len(events))
		}
	}
}

// waitState polls until the session reaches the wanted state.
func waitState(t *testing.T, s *Session, want State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.Info().State == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("state = %q, want %q", s.Info().State, want)
}

// TestSessionStream verifies a full basic drill: opening en garde, the
// repetitions, the end event, and strictly increasing sequence numbers on
// command and end events only.
func TestSessionStream(t *testing.T) {
	s := New("t1", fastBasic(3), generator.New(1))
	_, ch := s.Attach(0)
	s.Start()

	events := collect(t, ch, 5*time.Second)

	var commands []Event
	var statuses []Event
	var ends []Event
	for _, ev := range events {
		switch ev.Type {
		case EventCommand:
			commands = append(commands, ev)
		case EventStatus:
			statuses = append(statuses, ev)
		case EventEnd:
			ends = append(ends, ev)
		}
	}

	if len(commands) != 4 {
		t.Fatalf("command events = %d, want 4 (en garde + 3 reps)", len(commands))
	}
	for i, ev := range commands {
		if ev.Seq != uint64(i+1) {
			t.Errorf("command %d seq = %d, want %d", i, ev.Seq, i+1)
		}
	}
	if len(ends) != 1 {
		t.Fatalf("end events = %d, want 1", len(ends))
	}
	if ends[0].Seq != 5 {
		t.Errorf("end seq = %d, want 5", ends[0].Seq)
	}
	if events[len(events)-1].Type != EventEnd {
		t.Error("end event is not the final event")
	}
	for _, ev := range statuses {
		if ev.Seq != 0 {
			t.Errorf("status event carries seq %d, want none", ev.Seq)
		}
	}

	<-s.Done()
	if got := s.Info().State; got != StateFinished {
		t.Errorf("state = %q, want finished", got)
	}
}

// TestSessionReplay verifies reconnecting with a last-seen sequence returns
// exactly the missed sequenced events and no live channel after the end.
func TestSessionReplay(t *testing.T) {
	s := New("t2", fastBasic(3), generator.New(1))
	_, ch := s.Attach(0)
	s.Start()
	collect(t, ch, 5*time.Second)
	<-s.Done()

	backlog, live := s.Attach(2)
	if live != nil {
		t.Error("live channel after terminal state, want nil")
	}
	if len(backlog) != 3 {
		t.Fatalf("backlog = %d events, want 3 (seq 3, 4, 5)", len(backlog))
	}
	for i, ev := range backlog {
		if ev.Seq != uint64(i+3) {
			t.Errorf("backlog %d seq = %d, want %d", i, ev.Seq, i+3)
		}
	}
	if backlog[len(backlog)-1].Type != EventEnd {
		t.Error("backlog does not end with the end event")
	}
}

// TestPauseResume verifies pausing freezes progress and resuming continues
// the sequence without a gap.
func TestPauseResume(t *testing.T) {
	s := New("t3", slowBasic(5), generator.New(1))
	_, ch := s.Attach(0)
	s.Start()

	// Wait for the opening command.
	select {
	case ev := <-ch:
		if ev.Type != EventCommand || ev.Seq != 1 {
			t.Fatalf("first event = %+v, want command seq 1", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no opening event")
	}

	s.Pause()
	waitState(t, s, StatePaused)
	seqAtPause := s.Info().Sequence

	// No ticks while paused.
	time.Sleep(50 * time.Millisecond)
	if got := s.Info().Sequence; got != seqAtPause {
		t.Errorf("sequence advanced to %d while paused", got)
	}

	s.Resume()
	waitState(t, s, StateRunning)

	s.Stop()
	waitState(t, s, StateStopped)
	<-s.Done()
}

// TestStopIdempotent verifies stopping twice (and stopping a finished
// session) is harmless.
func TestStopIdempotent(t *testing.T) {
	s := New("t4", fastBasic(3), generator.New(1))
	_, ch := s.Attach(0)
	s.Start()
	collect(t, ch, 5*time.Second)
	<-s.Done()

	s.Stop()
	s.Stop()
	if got := s.Info().State; got != StateFinished {
		t.Errorf("state = %q, want finished after redundant stops", got)
	}
}

// TestDetachPauses verifies a consumer disconnect pauses the drill instead
// of ending it, and a reattach resumes it.
func TestDetachPauses(t *testing.T) {
	s := New("t5", slowBasic(10), generator.New(1))
	_, ch := s.Attach(0)
	s.Start()

	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("no opening event")
	}

	s.Detach(ch)
	waitState(t, s, StatePaused)

	backlog, live := s.Attach(0)
	if live == nil {
		t.Fatal("no live channel on reattach")
	}
	if len(backlog) == 0 {
		t.Error("no backlog on reattach")
	}
	waitState(t, s, StateRunning)

	s.Stop()
	<-s.Done()
}

// TestAttachSupersedes verifies a second consumer displaces the first; the
// first channel closes.
func TestAttachSupersedes(t *testing.T) {
	s := New("t6", slowBasic(10), generator.New(1))
	_, first := s.Attach(0)
	s.Start()

	_, second := s.Attach(0)
	if second == nil {
		t.Fatal("no live channel for second consumer")
	}

	select {
	case _, ok := <-first:
		for ok {
			_, ok = <-first
		}
	case <-time.After(2 * time.Second):
		t.Fatal("first channel not closed after supersession")
	}

	s.Stop()
	<-s.Done()
}

// TestHistoryBounded verifies the emission history never grows past its
// window.
func TestHistoryBounded(t *testing.T) {
	s := New("t7", fastBasic(20), generator.New(1))
	_, ch := s.Attach(0)
	s.Start()
	collect(t, ch, 5*time.Second)
	<-s.Done()

	if got := len(s.History()); got > historyLimit {
		t.Errorf("history length = %d, want <= %d", got, historyLimit)
	}
}
