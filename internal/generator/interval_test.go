package generator

import (
	"testing"
	"time"
)

// TestIntervalPhases verifies the work → rest → work progression: work
// commands until the work budget is spent, a halte announcement, one-second
// countdown ticks, then the next set.
func TestIntervalPhases(t *testing.T) {
	g := New(2)
	cfg := IntervalConfig{Work: 2 * time.Second, Rest: 3 * time.Second, Sets: 2, TempoBPM: 60, WeaponID: "foil"}

	steps := drive(t, g, cfg, 50)

	if steps[0].Command.ID != "en_garde" {
		t.Fatalf("opening = %q, want en_garde", steps[0].Command.ID)
	}
	if steps[0].Status == nil || steps[0].Status.Set != 1 || steps[0].Status.Sets != 2 {
		t.Errorf("opening status = %+v, want set 1/2", steps[0].Status)
	}

	// Locate the rest announcement.
	halteIdx := -1
	for i, step := range steps {
		if step.Command != nil && step.Command.ID == "halte" {
			halteIdx = i
			break
		}
	}
	if halteIdx < 0 {
		t.Fatal("no halte announcement emitted")
	}

	// Everything before it is set-1 work.
	for i := 1; i < halteIdx; i++ {
		st := steps[i].Status
		if st == nil || st.Phase != PhaseWork || st.Set != 1 {
			t.Errorf("step %d status = %+v, want work phase set 1", i, st)
		}
		if steps[i].Command == nil {
			t.Errorf("step %d: work phase emitted a status-only tick", i)
		}
	}

	if st := steps[halteIdx].Status; st == nil || st.Phase != PhaseRest {
		t.Errorf("halte status = %+v, want rest phase", steps[halteIdx].Status)
	}

	// Countdown ticks carry no command and tick at one second.
	ticks := 0
	i := halteIdx + 1
	for ; i < len(steps) && steps[i].Command == nil && !steps[i].Terminal; i++ {
		ticks++
		if steps[i].Delay != time.Second {
			t.Errorf("countdown tick delay = %v, want 1s", steps[i].Delay)
		}
		if st := steps[i].Status; st == nil || st.Phase != PhaseRest {
			t.Errorf("countdown status = %+v, want rest phase", steps[i].Status)
		}
	}
	if ticks == 0 {
		t.Error("no countdown ticks between rest start and next set")
	}

	// The next command opens set 2.
	if i >= len(steps) || steps[i].Command == nil {
		t.Fatal("no set-2 work command after the rest countdown")
	}
	if st := steps[i].Status; st == nil || st.Set != 2 || st.Phase != PhaseWork {
		t.Errorf("set-2 status = %+v, want work phase set 2", st)
	}

	if !steps[len(steps)-1].Terminal {
		t.Error("drill did not terminate")
	}
}

// TestIntervalZeroRest verifies sets roll over back-to-back when no rest is
// configured, and the final work command terminates the drill.
func TestIntervalZeroRest(t *testing.T) {
	g := New(2)
	cfg := IntervalConfig{Work: 2 * time.Second, Rest: 0, Sets: 2, TempoBPM: 60, WeaponID: "foil"}

	steps := drive(t, g, cfg, 50)

	for i, step := range steps {
		if step.Command == nil {
			t.Errorf("step %d: status-only tick in a zero-rest drill", i)
		}
		if step.Command != nil && step.Command.ID == "halte" {
			t.Errorf("step %d: halte announced with no rest configured", i)
		}
	}

	last := steps[len(steps)-1]
	if !last.Terminal || last.Command == nil {
		t.Errorf("final step = %+v, want a terminal work command", last)
	}
	if last.Status == nil || last.Status.Set != 2 {
		t.Errorf("final status = %+v, want set 2", last.Status)
	}
}

// TestIntervalWorkDrawsIntermediate verifies work phases draw from the
// intermediate command set.
func TestIntervalWorkDrawsIntermediate(t *testing.T) {
	g := New(4)
	cfg := IntervalConfig{Work: 5 * time.Second, Rest: 0, Sets: 3, TempoBPM: 120, WeaponID: "foil"}

	allowed := map[string]bool{"marche": true, "rompe": true, "fendez": true, "remise": true}

	steps := drive(t, g, cfg, 100)
	for i, step := range steps[1:] {
		if step.Command == nil {
			continue
		}
		if !allowed[step.Command.ID] {
			t.Errorf("step %d drew %q, outside the intermediate set", i+1, step.Command.ID)
		}
	}
}
