package generator

import "github.com/nimamura/fencing-drill/internal/drill"

// Soft limit on piste displacement. Beyond it the tracker recommends
// returning toward the starting mark.
const positionSoftLimit = 3.0

// PisteTracker accumulates the fencer's displacement from the starting
// en garde mark as commands are executed. Positive is toward the opponent.
type PisteTracker struct {
	position float64
}

// Apply updates the tracked position with the effect of one command.
func (t *PisteTracker) Apply(commandID string) {
	t.position += drill.PositionEffects[commandID]
}

// Reset returns the tracker to the starting mark.
func (t *PisteTracker) Reset() {
	t.position = 0
}

// Position returns the current displacement.
func (t *PisteTracker) Position() float64 {
	return t.position
}

// Bias recommends a movement direction once the fencer has drifted past
// the soft limit, and neutral near the starting mark.
func (t *PisteTracker) Bias() drill.Direction {
	switch {
	case t.position > positionSoftLimit:
		return drill.DirectionBackward
	case t.position < -positionSoftLimit:
		return drill.DirectionForward
	default:
		return drill.DirectionNeutral
	}
}
