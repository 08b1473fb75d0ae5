package generator

import (
	"errors"
	"fmt"
	"time"

	"github.com/nimamura/fencing-drill/internal/config"
	"github.com/nimamura/fencing-drill/internal/drill"
)

// ErrValidation marks a mode parameter outside the configured bounds.
// No session is created when Validate returns it.
var ErrValidation = errors.New("invalid mode parameters")

// Mode names a training mode.
type Mode string

const (
	ModeBasic       Mode = "basic"
	ModeCombination Mode = "combination"
	ModeRandom      Mode = "random"
	ModeInterval    Mode = "interval"
)

// Config is the tagged union over the four training modes. Each variant
// carries only the parameters relevant to it and validates itself against
// the configured bounds at session creation.
type Config interface {
	Mode() Mode
	Weapon() string
	Validate(b config.Bounds) error
}

// BasicConfig repeats a single command at a fixed tempo.
type BasicConfig struct {
	CommandID   string `json:"command_id"`
	Repetitions int    `json:"repetitions"`
	TempoBPM    int    `json:"tempo_bpm"`
	WeaponID    string `json:"weapon"`
}

func (c BasicConfig) Mode() Mode     { return ModeBasic }
func (c BasicConfig) Weapon() string { return c.WeaponID }

func (c BasicConfig) Validate(b config.Bounds) error {
	if _, ok := drill.Get(c.CommandID); !ok {
		return fmt.Errorf("%w: unknown command %q", ErrValidation, c.CommandID)
	}
	if !drill.ValidForWeapon(c.CommandID, c.WeaponID) {
		return fmt.Errorf("%w: command %q is not available for weapon %q", ErrValidation, c.CommandID, c.WeaponID)
	}
	if err := validateWeapon(c.WeaponID); err != nil {
		return err
	}
	if err := validateRepetitions(c.Repetitions, b); err != nil {
		return err
	}
	return validateTempo(c.TempoBPM, b)
}

// CombinationConfig runs a fixed pattern a number of times at a fixed tempo.
type CombinationConfig struct {
	PatternID   string `json:"pattern_id"`
	Repetitions int    `json:"repetitions"`
	TempoBPM    int    `json:"tempo_bpm"`
	WeaponID    string `json:"weapon"`
}

func (c CombinationConfig) Mode() Mode     { return ModeCombination }
func (c CombinationConfig) Weapon() string { return c.WeaponID }

func (c CombinationConfig) Validate(b config.Bounds) error {
	if _, ok := drill.GetPattern(c.PatternID); !ok {
		return fmt.Errorf("%w: unknown pattern %q", ErrValidation, c.PatternID)
	}
	if err := validateWeapon(c.WeaponID); err != nil {
		return err
	}
	if err := validateRepetitions(c.Repetitions, b); err != nil {
		return err
	}
	return validateTempo(c.TempoBPM, b)
}

// RandomConfig draws commands from a tier-filtered set at random intervals
// for a fixed duration.
type RandomConfig struct {
	Tier        drill.Tier    `json:"command_set"`
	Duration    time.Duration `json:"-"`
	MinInterval time.Duration `json:"-"`
	MaxInterval time.Duration `json:"-"`
	WeaponID    string        `json:"weapon"`
}

func (c RandomConfig) Mode() Mode     { return ModeRandom }
func (c RandomConfig) Weapon() string { return c.WeaponID }

func (c RandomConfig) Validate(b config.Bounds) error {
	if _, ok := drill.TierCommands[c.Tier]; !ok {
		return fmt.Errorf("%w: unknown command set %q", ErrValidation, c.Tier)
	}
	if err := validateWeapon(c.WeaponID); err != nil {
		return err
	}
	minDur := time.Duration(b.MinDurationSec) * time.Second
	maxDur := time.Duration(b.MaxDurationSec) * time.Second
	if c.Duration < minDur || c.Duration > maxDur {
		return fmt.Errorf("%w: duration must be between %ds and %ds", ErrValidation, b.MinDurationSec, b.MaxDurationSec)
	}
	minIv := time.Duration(b.MinIntervalMs) * time.Millisecond
	maxIv := time.Duration(b.MaxIntervalMs) * time.Millisecond
	if c.MinInterval < minIv || c.MaxInterval > maxIv {
		return fmt.Errorf("%w: intervals must be between %dms and %dms", ErrValidation, b.MinIntervalMs, b.MaxIntervalMs)
	}
	if c.MinInterval > c.MaxInterval {
		return fmt.Errorf("%w: min interval exceeds max interval", ErrValidation)
	}
	return nil
}

// IntervalConfig alternates high-intensity work and rest for a number of sets.
type IntervalConfig struct {
	Work     time.Duration `json:"-"`
	Rest     time.Duration `json:"-"`
	Sets     int           `json:"sets"`
	TempoBPM int           `json:"tempo_bpm"`
	WeaponID string        `json:"weapon"`
}

func (c IntervalConfig) Mode() Mode     { return ModeInterval }
func (c IntervalConfig) Weapon() string { return c.WeaponID }

func (c IntervalConfig) Validate(b config.Bounds) error {
	if err := validateWeapon(c.WeaponID); err != nil {
		return err
	}
	minWork := time.Duration(b.MinWorkSec) * time.Second
	maxWork := time.Duration(b.MaxWorkSec) * time.Second
	if c.Work < minWork || c.Work > maxWork {
		return fmt.Errorf("%w: work duration must be between %ds and %ds", ErrValidation, b.MinWorkSec, b.MaxWorkSec)
	}
	if c.Rest < 0 || c.Rest > time.Duration(b.MaxRestSec)*time.Second {
		return fmt.Errorf("%w: rest duration must be between 0s and %ds", ErrValidation, b.MaxRestSec)
	}
	if c.Sets < 1 || c.Sets > b.MaxSets {
		return fmt.Errorf("%w: sets must be between 1 and %d", ErrValidation, b.MaxSets)
	}
	return validateTempo(c.TempoBPM, b)
}

func validateWeapon(weapon string) error {
	if _, ok := drill.Profile(weapon); !ok {
		return fmt.Errorf("%w: unknown weapon %q", ErrValidation, weapon)
	}
	return nil
}

func validateRepetitions(reps int, b config.Bounds) error {
	if reps < b.MinRepetitions || reps > b.MaxRepetitions {
		return fmt.Errorf("%w: repetitions must be between %d and %d", ErrValidation, b.MinRepetitions, b.MaxRepetitions)
	}
	return nil
}

func validateTempo(bpm int, b config.Bounds) error {
	if bpm < b.MinTempoBPM || bpm > b.MaxTempoBPM {
		return fmt.Errorf("%w: tempo must be between %d and %d BPM", ErrValidation, b.MinTempoBPM, b.MaxTempoBPM)
	}
	return nil
}
