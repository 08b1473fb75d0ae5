package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/nimamura/fencing-drill/internal/drill"
)

// Phase is the interval-mode sub-phase.
type Phase string

const (
	PhaseWork      Phase = "work"
	PhaseRestStart Phase = "rest_start"
	PhaseRest      Phase = "rest"
)

// Position is the generator's cursor into a session. The state machine
// threads it back unchanged on the next call; all progression logic lives
// here.
type Position struct {
	Step          int           // emissions produced so far
	Set           int           // completed sets (interval)
	Phase         Phase         // interval sub-phase
	Elapsed       time.Duration // scheduled time within the current phase
	RestRemaining time.Duration
}

// Status carries progress information emitted alongside a step.
type Status struct {
	Remaining time.Duration
	Rep       int
	Total     int
	Set       int
	Sets      int
	Phase     Phase
}

// Step is one generator decision: the command to emit (nil for status-only
// ticks, e.g. the interval rest countdown), the delay before the next tick,
// and whether this is the terminal emission.
type Step struct {
	Command  *drill.Command
	Delay    time.Duration
	Terminal bool
	Status   *Status
	Pos      Position
}

// restTick is the cadence of status-only countdown emissions during an
// interval rest phase.
const restTick = time.Second

// bondDelayFactor lengthens the delay after a jump command so the fencer
// can land and recover balance.
const bondDelayFactor = 1.5

// Generator produces the next command and delay for a session. Apart from
// its random source it is stateless; every decision is a function of the
// config, the emission history, and the position.
type Generator struct {
	rng *rand.Rand
}

// New creates a Generator seeded from the given source.
func New(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Next produces the next step for the session. cfg must have passed
// Validate; an empty eligible command set at this point is a programming
// error and panics.
func (g *Generator) Next(cfg Config, history []string, pos Position) Step {
	// Every mode opens with en garde.
	if pos.Step == 0 {
		return g.opening(cfg, pos)
	}

	switch c := cfg.(type) {
	case BasicConfig:
		return g.nextBasic(c, pos)
	case CombinationConfig:
		return g.nextCombination(c, pos)
	case RandomConfig:
		return g.nextRandom(c, history, pos)
	case IntervalConfig:
		return g.nextInterval(c, history, pos)
	default:
		panic(fmt.Sprintf("generator: unknown config type %T", cfg))
	}
}

func (g *Generator) opening(cfg Config, pos Position) Step {
	cmd := mustCommand("en_garde")
	pos.Step = 1
	if ic, ok := cfg.(IntervalConfig); ok {
		pos.Phase = PhaseWork
		return Step{
			Command: cmd,
			Delay:   tempoDelay(ic.TempoBPM, ic.WeaponID),
			Status:  &Status{Set: 1, Sets: ic.Sets, Phase: PhaseWork, Remaining: ic.Work},
			Pos:     pos,
		}
	}
	return Step{Command: cmd, Delay: g.openingDelay(cfg), Pos: pos}
}

func (g *Generator) openingDelay(cfg Config) time.Duration {
	switch c := cfg.(type) {
	case BasicConfig:
		return tempoDelay(c.TempoBPM, c.WeaponID)
	case CombinationConfig:
		return tempoDelay(c.TempoBPM, c.WeaponID)
	case RandomConfig:
		return g.randomDelay(c.MinInterval, c.MaxInterval, c.WeaponID)
	default:
		panic(fmt.Sprintf("generator: unknown config type %T", cfg))
	}
}

func (g *Generator) nextBasic(cfg BasicConfig, pos Position) Step {
	rep := pos.Step // step 1 emits rep 1 (step 0 was en garde)
	cmd := mustCommand(cfg.CommandID)
	pos.Step++
	return Step{
		Command:  cmd,
		Delay:    tempoDelay(cfg.TempoBPM, cfg.WeaponID),
		Terminal: rep >= cfg.Repetitions,
		Status:   &Status{Rep: rep, Total: cfg.Repetitions},
		Pos:      pos,
	}
}

func (g *Generator) nextCombination(cfg CombinationConfig, pos Position) Step {
	pattern, ok := drill.GetPattern(cfg.PatternID)
	if !ok {
		panic(fmt.Sprintf("generator: unknown pattern %q", cfg.PatternID))
	}

	idx := pos.Step - 1 // index into the expanded sequence
	total := len(pattern.Commands) * cfg.Repetitions
	cmd := mustCommand(pattern.Commands[idx%len(pattern.Commands)])
	pos.Step++
	return Step{
		Command:  cmd,
		Delay:    tempoDelay(cfg.TempoBPM, cfg.WeaponID),
		Terminal: idx+1 >= total,
		Status:   &Status{Rep: idx/len(pattern.Commands) + 1, Total: cfg.Repetitions},
		Pos:      pos,
	}
}

// tempoDelay converts beats per minute into an inter-command delay, scaled
// by the weapon's tempo multiplier (>1 = faster = shorter delay).
func tempoDelay(bpm int, weapon string) time.Duration {
	profile, ok := drill.Profile(weapon)
	if !ok {
		panic(fmt.Sprintf("generator: unknown weapon %q", weapon))
	}
	return time.Duration(float64(time.Minute) / float64(bpm) / profile.TempoMultiplier)
}

func mustCommand(id string) *drill.Command {
	cmd, ok := drill.Get(id)
	if !ok {
		panic(fmt.Sprintf("generator: unknown command %q", id))
	}
	return &cmd
}
