package generator

import (
	"time"

	"github.com/nimamura/fencing-drill/internal/drill"
)

// Interval work phases draw from the intermediate tier: enough variety for
// a high-intensity burst without the advanced jumps dominating.
const intervalTier = drill.TierIntermediate

func (g *Generator) nextInterval(cfg IntervalConfig, history []string, pos Position) Step {
	switch pos.Phase {
	case PhaseWork:
		return g.intervalWork(cfg, history, pos)
	case PhaseRestStart:
		return g.intervalRestStart(cfg, pos)
	case PhaseRest:
		return g.intervalRest(cfg, history, pos)
	default:
		pos.Phase = PhaseWork
		return g.intervalWork(cfg, history, pos)
	}
}

func (g *Generator) intervalWork(cfg IntervalConfig, history []string, pos Position) Step {
	cmd := g.pick(intervalTier, cfg.WeaponID, history)

	delay := tempoDelay(cfg.TempoBPM, cfg.WeaponID)
	if len(history) > 0 && drill.IsBond(history[len(history)-1]) {
		delay = time.Duration(float64(delay) * bondDelayFactor)
	}

	pos.Step++
	pos.Elapsed += delay

	step := Step{
		Command: cmd,
		Delay:   delay,
		Status: &Status{
			Remaining: cfg.Work - pos.Elapsed,
			Set:       pos.Set + 1,
			Sets:      cfg.Sets,
			Phase:     PhaseWork,
		},
	}

	if pos.Elapsed >= cfg.Work {
		lastSet := pos.Set+1 >= cfg.Sets
		switch {
		case cfg.Rest <= 0 && lastSet:
			step.Terminal = true
		case cfg.Rest <= 0:
			pos.Set++
			pos.Elapsed = 0
		default:
			pos.Phase = PhaseRestStart
		}
	}

	step.Pos = pos
	return step
}

// intervalRestStart announces the rest phase with a single halte command,
// then hands over to the one-second countdown.
func (g *Generator) intervalRestStart(cfg IntervalConfig, pos Position) Step {
	tick := restTick
	if cfg.Rest < tick {
		tick = cfg.Rest
	}

	pos.Step++
	pos.Phase = PhaseRest
	pos.RestRemaining = cfg.Rest - tick

	return Step{
		Command: mustCommand("halte"),
		Delay:   tick,
		Status: &Status{
			Remaining: cfg.Rest,
			Set:       pos.Set + 1,
			Sets:      cfg.Sets,
			Phase:     PhaseRest,
		},
		Pos: pos,
	}
}

// intervalRest emits status-only countdown ticks until the rest budget is
// spent, then either terminates (last set) or rolls into the next work
// phase.
func (g *Generator) intervalRest(cfg IntervalConfig, history []string, pos Position) Step {
	if pos.RestRemaining <= 0 {
		if pos.Set+1 >= cfg.Sets {
			pos.Step++
			return Step{
				Terminal: true,
				Status:   &Status{Set: pos.Set + 1, Sets: cfg.Sets, Phase: PhaseRest},
				Pos:      pos,
			}
		}
		pos.Set++
		pos.Phase = PhaseWork
		pos.Elapsed = 0
		pos.RestRemaining = 0
		return g.intervalWork(cfg, history, pos)
	}

	tick := restTick
	if pos.RestRemaining < tick {
		tick = pos.RestRemaining
	}

	remaining := pos.RestRemaining
	pos.Step++
	pos.RestRemaining -= tick

	return Step{
		Delay: tick,
		Status: &Status{
			Remaining: remaining,
			Set:       pos.Set + 1,
			Sets:      cfg.Sets,
			Phase:     PhaseRest,
		},
		Pos: pos,
	}
}
