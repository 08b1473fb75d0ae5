package generator

import (
	"fmt"
	"time"

	"github.com/nimamura/fencing-drill/internal/drill"
)

// wallThreshold is the longest run of same-direction commands the selector
// tolerates in history; one more in that direction would walk the fencer
// into the wall.
const wallThreshold = 4

func (g *Generator) nextRandom(cfg RandomConfig, history []string, pos Position) Step {
	cmd := g.pick(cfg.Tier, cfg.WeaponID, history)

	delay := g.randomDelay(cfg.MinInterval, cfg.MaxInterval, cfg.WeaponID)
	if len(history) > 0 && drill.IsBond(history[len(history)-1]) {
		delay = time.Duration(float64(delay) * bondDelayFactor)
	}

	pos.Elapsed += delay
	pos.Step++
	return Step{
		Command:  cmd,
		Delay:    delay,
		Terminal: pos.Elapsed >= cfg.Duration,
		Status:   &Status{Remaining: cfg.Duration - pos.Elapsed},
		Pos:      pos,
	}
}

// randomDelay draws a delay uniformly from [min, max] and scales it by the
// weapon tempo multiplier.
func (g *Generator) randomDelay(min, max time.Duration, weapon string) time.Duration {
	profile, ok := drill.Profile(weapon)
	if !ok {
		panic(fmt.Sprintf("generator: unknown weapon %q", weapon))
	}
	d := min
	if max > min {
		d += time.Duration(g.rng.Int63n(int64(max - min + 1)))
	}
	return time.Duration(float64(d) / profile.TempoMultiplier)
}

// pick draws uniformly from the weapon- and tier-filtered command set,
// honoring the selection constraints:
//
//  1. after fendez the only legal command is remise (forced recovery)
//  2. remise never follows remise
//  3. a candidate is rejected if it would extend a same-direction run
//     past the wall threshold
//
// An empty eligible set is a programming error; validation guarantees it
// cannot happen for any accepted config.
func (g *Generator) pick(tier drill.Tier, weapon string, history []string) *drill.Command {
	var last string
	if len(history) > 0 {
		last = history[len(history)-1]
	}

	if last == "fendez" {
		return mustCommand("remise")
	}

	profile, ok := drill.Profile(weapon)
	if !ok {
		panic(fmt.Sprintf("generator: unknown weapon %q", weapon))
	}
	tierSet, ok := drill.TierCommands[tier]
	if !ok {
		panic(fmt.Sprintf("generator: unknown tier %q", tier))
	}

	eligible := profile.FilterCommands(tierSet)
	if len(eligible) == 0 {
		panic(fmt.Sprintf("generator: empty command set for tier %q weapon %q", tier, weapon))
	}

	candidates := make([]string, 0, len(eligible))
	for _, id := range eligible {
		if id == "remise" && last == "remise" {
			continue
		}
		if wallRisk(history, id) {
			continue
		}
		candidates = append(candidates, id)
	}

	// All candidates filtered out: fall back to the unconstrained set
	// rather than stalling the drill.
	if len(candidates) == 0 {
		candidates = eligible
	}

	return mustCommand(candidates[g.rng.Intn(len(candidates))])
}

// wallRisk reports whether emitting the candidate would make the same
// directional class appear more than wallThreshold times in a row.
func wallRisk(history []string, candidate string) bool {
	dir := drill.DirectionOf(candidate)
	if dir == drill.DirectionNeutral {
		return false
	}
	return consecutiveDirection(history, dir) >= wallThreshold
}

// consecutiveDirection counts the run of commands in the given direction at
// the end of history. Neutral commands neither extend nor break the run.
func consecutiveDirection(history []string, dir drill.Direction) int {
	count := 0
	for i := len(history) - 1; i >= 0; i-- {
		switch drill.DirectionOf(history[i]) {
		case dir:
			count++
		case drill.DirectionNeutral:
			continue
		default:
			return count
		}
	}
	return count
}
