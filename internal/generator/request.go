package generator

import (
	"errors"
	"time"

	"github.com/nimamura/fencing-drill/internal/drill"
)

// Request is the wire-level session start request shared by the REST and
// MCP surfaces. Fields outside the selected mode are ignored.
type Request struct {
	Mode string `json:"mode"`

	CommandID   string `json:"command_id,omitempty"`
	PatternID   string `json:"pattern_id,omitempty"`
	Repetitions int    `json:"repetitions,omitempty"`
	TempoBPM    int    `json:"tempo_bpm,omitempty"`
	Weapon      string `json:"weapon,omitempty"`

	CommandSet      string `json:"command_set,omitempty"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
	MinIntervalMs   int    `json:"min_interval_ms,omitempty"`
	MaxIntervalMs   int    `json:"max_interval_ms,omitempty"`

	WorkSeconds int `json:"work_seconds,omitempty"`
	RestSeconds int `json:"rest_seconds,omitempty"`
	Sets        int `json:"sets,omitempty"`
}

// ApplyDefaults fills unset fields with the documented defaults.
func (r *Request) ApplyDefaults() {
	if r.CommandID == "" {
		r.CommandID = "marche"
	}
	if r.PatternID == "" {
		r.PatternID = "A"
	}
	if r.Repetitions == 0 {
		r.Repetitions = 10
	}
	if r.TempoBPM == 0 {
		r.TempoBPM = 60
	}
	if r.Weapon == "" {
		r.Weapon = "foil"
	}
	if r.CommandSet == "" {
		r.CommandSet = "beginner"
	}
	if r.DurationSeconds == 0 {
		r.DurationSeconds = 60
	}
	if r.MinIntervalMs == 0 {
		r.MinIntervalMs = 1000
	}
	if r.MaxIntervalMs == 0 {
		r.MaxIntervalMs = 3000
	}
	if r.WorkSeconds == 0 {
		r.WorkSeconds = 30
	}
	if r.Sets == 0 {
		r.Sets = 5
	}
}

// Config converts the request into the mode-specific generator config.
// Validation happens later against the configured bounds.
func (r Request) Config() (Config, error) {
	switch Mode(r.Mode) {
	case ModeBasic:
		return BasicConfig{
			CommandID:   r.CommandID,
			Repetitions: r.Repetitions,
			TempoBPM:    r.TempoBPM,
			WeaponID:    r.Weapon,
		}, nil
	case ModeCombination:
		return CombinationConfig{
			PatternID:   r.PatternID,
			Repetitions: r.Repetitions,
			TempoBPM:    r.TempoBPM,
			WeaponID:    r.Weapon,
		}, nil
	case ModeRandom:
		return RandomConfig{
			Tier:        drill.Tier(r.CommandSet),
			Duration:    time.Duration(r.DurationSeconds) * time.Second,
			MinInterval: time.Duration(r.MinIntervalMs) * time.Millisecond,
			MaxInterval: time.Duration(r.MaxIntervalMs) * time.Millisecond,
			WeaponID:    r.Weapon,
		}, nil
	case ModeInterval:
		return IntervalConfig{
			Work:     time.Duration(r.WorkSeconds) * time.Second,
			Rest:     time.Duration(r.RestSeconds) * time.Second,
			Sets:     r.Sets,
			TempoBPM: r.TempoBPM,
			WeaponID: r.Weapon,
		}, nil
	default:
		return nil, errors.New("unknown mode: " + r.Mode)
	}
}
