package session

import (
	"sync"
	"time"

	"github.com/nimamura/fencing-drill/internal/generator"
)

// State is a session's lifecycle state.
type State string

const (
	StateCreated  State = "created"
	StateRunning  State = "running"
	StatePaused   State = "paused"
	StateFinished State = "finished"
	StateStopped  State = "stopped"
)

// historyLimit bounds the emission history kept for the random-mode
// selection constraints.
const historyLimit = 5

// replayLimit bounds the buffer of sequenced events kept for
// replay-after-reconnect.
const replayLimit = 64

// subBuffer is the subscriber channel capacity. A consumer that falls this
// far behind is dropped and catches up via replay on reconnect.
const subBuffer = 64

type ctrlMsg int

const (
	ctrlPause ctrlMsg = iota
	ctrlResume
	ctrlStop
)

// Session owns one training drill's lifecycle. A single goroutine (run)
// performs all tick mutation; control requests race against the tick timer
// on the ctrl channel, so a pause or stop is applied strictly before or
// after a tick, never mid-tick.
type Session struct {
	ID        string
	Config    generator.Config
	CreatedAt time.Time

	gen *generator.Generator

	mu            sync.Mutex
	state         State
	history       []string
	seq           uint64
	pos           generator.Position
	piste         generator.PisteTracker
	lastActivity  time.Time
	replay        []Event
	sub           chan Event
	stopRequested bool

	ctrl chan ctrlMsg
	done chan struct{}
}

// New creates a session in the created state. Config must already be
// validated.
func New(id string, cfg generator.Config, gen *generator.Generator) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		Config:       cfg,
		CreatedAt:    now,
		gen:          gen,
		state:        StateCreated,
		lastActivity: now,
		ctrl:         make(chan ctrlMsg, 8),
		done:         make(chan struct{}),
	}
}

// Start transitions created → running and schedules the first tick
// immediately.
func (s *Session) Start() {
	s.setState(StateRunning)
	go s.run()
}

func (s *Session) run() {
	defer close(s.done)

	timer := time.NewTimer(0)
	defer timer.Stop()

	deadline := time.Now()
	paused := false
	ending := false
	var remaining time.Duration

	for {
		select {
		case <-timer.C:
			if ending {
				s.finish()
				return
			}
			delay, terminal := s.tick()
			ending = terminal
			timer.Reset(delay)
			deadline = time.Now().Add(delay)

		case msg := <-s.ctrl:
			switch msg {
			case ctrlStop:
				s.terminate()
				return

			case ctrlPause:
				if paused {
					continue
				}
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				remaining = time.Until(deadline)
				if remaining < 0 {
					remaining = 0
				}
				paused = true
				s.setState(StatePaused)

			case ctrlResume:
				if !paused {
					continue
				}
				// Resume with the remainder measured at pause time; the
				// partially elapsed delay is not restarted from scratch.
				timer.Reset(remaining)
				deadline = time.Now().Add(remaining)
				paused = false
				s.setState(StateRunning)
			}
		}
	}
}

// tick runs one generator step and publishes its events. Returns the delay
// until the next tick and whether this was the terminal emission.
func (s *Session) tick() (time.Duration, bool) {
	s.mu.Lock()
	step := s.gen.Next(s.Config, s.history, s.pos)
	s.pos = step.Pos

	events := make([]Event, 0, 2)
	if step.Status != nil {
		events = append(events, statusEvent(step.Status))
	}
	if step.Command != nil {
		s.history = append(s.history, step.Command.ID)
		if len(s.history) > historyLimit {
			s.history = s.history[len(s.history)-historyLimit:]
		}
		s.piste.Apply(step.Command.ID)
		s.seq++
		events = append(events, commandEvent(step.Command, s.seq))
	}
	s.lastActivity = time.Now()
	s.mu.Unlock()

	for _, ev := range events {
		s.publish(ev)
	}
	return step.Delay, step.Terminal
}

// publish records a sequenced event in the replay buffer and hands it to
// the current subscriber. A subscriber that cannot keep up is dropped; the
// replay buffer catches it up when it reconnects.
func (s *Session) publish(ev Event) {
	s.mu.Lock()
	if ev.Seq > 0 {
		s.replay = append(s.replay, ev)
		if len(s.replay) > replayLimit {
			s.replay = s.replay[len(s.replay)-replayLimit:]
		}
	}
	sub := s.sub
	if sub == nil {
		s.mu.Unlock()
		return
	}
	select {
	case sub <- ev:
		s.mu.Unlock()
	default:
		s.sub = nil
		s.mu.Unlock()
		close(sub)
	}
}

func (s *Session) finish() {
	s.mu.Lock()
	s.state = StateFinished
	s.seq++
	seq := s.seq
	s.lastActivity = time.Now()
	s.mu.Unlock()

	s.publish(endEvent(seq))
	s.dropSubscriber()
}

func (s *Session) terminate() {
	s.mu.Lock()
	s.state = StateStopped
	s.lastActivity = time.Now()
	s.mu.Unlock()

	s.dropSubscriber()
}

func (s *Session) dropSubscriber() {
	s.mu.Lock()
	sub := s.sub
	s.sub = nil
	s.mu.Unlock()
	if sub != nil {
		close(sub)
	}
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.lastActivity = time.Now()
	s.mu.Unlock()
}

func (s *Session) request(m ctrlMsg) {
	select {
	case s.ctrl <- m:
	case <-s.done:
	}
}

// Attach registers the caller as the session's event consumer. It returns
// the backlog of sequenced events newer than lastSeq, then a live channel
// (nil when the session is already terminal — the backlog then includes
// the end event, and no further events will ever follow). Attaching to a
// paused session resumes it; attaching supersedes any previous subscriber.
func (s *Session) Attach(lastSeq uint64) ([]Event, <-chan Event) {
	s.mu.Lock()
	var backlog []Event
	for _, ev := range s.replay {
		if ev.Seq > lastSeq {
			backlog = append(backlog, ev)
		}
	}
	s.lastActivity = time.Now()

	if s.state == StateFinished || s.state == StateStopped {
		s.mu.Unlock()
		return backlog, nil
	}

	old := s.sub
	ch := make(chan Event, subBuffer)
	s.sub = ch
	resume := s.state == StatePaused
	s.mu.Unlock()

	if old != nil {
		close(old)
	}
	if resume {
		s.request(ctrlResume)
	}
	return backlog, ch
}

// Detach unregisters a subscriber after its stream closed. A transport
// disconnect pauses the session rather than stopping it, unless a stop was
// already requested.
func (s *Session) Detach(ch <-chan Event) {
	s.mu.Lock()
	if s.sub != ch {
		s.mu.Unlock()
		return
	}
	s.sub = nil
	skip := s.stopRequested || s.state == StateFinished || s.state == StateStopped
	s.mu.Unlock()

	if !skip {
		s.request(ctrlPause)
	}
}

// Pause freezes the session's tick timer, preserving history, counters,
// and the remaining delay.
func (s *Session) Pause() {
	s.mu.Lock()
	running := s.state == StateRunning
	s.mu.Unlock()
	if running {
		s.request(ctrlPause)
	}
}

// Resume restarts a paused session using the delay remainder captured at
// pause time.
func (s *Session) Resume() {
	s.mu.Lock()
	paused := s.state == StatePaused
	s.mu.Unlock()
	if paused {
		s.request(ctrlResume)
	}
}

// Stop ends the session. Idempotent: stopping an already terminal session
// is a no-op.
func (s *Session) Stop() {
	s.mu.Lock()
	if s.state == StateFinished || s.state == StateStopped || s.stopRequested {
		s.mu.Unlock()
		return
	}
	s.stopRequested = true
	s.mu.Unlock()
	s.request(ctrlStop)
}

// Done is closed when the session's run loop has exited.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Snapshot is a point-in-time view of a session for the control surface.
type Snapshot struct {
	ID            string    `json:"id"`
	Mode          string    `json:"mode"`
	State         State     `json:"state"`
	Sequence      uint64    `json:"sequence"`
	PistePosition float64   `json:"piste_position"`
	CreatedAt     time.Time `json:"created_at"`
	LastActivity  time.Time `json:"last_activity"`
}

// Info returns a snapshot of the session's current state.
func (s *Session) Info() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:            s.ID,
		Mode:          string(s.Config.Mode()),
		State:         s.state,
		Sequence:      s.seq,
		PistePosition: s.piste.Position(),
		CreatedAt:     s.CreatedAt,
		LastActivity:  s.lastActivity,
	}
}

// History returns a copy of the bounded emission history.
func (s *Session) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.history))
	copy(out, s.history)
	return out
}
