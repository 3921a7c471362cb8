// Package model defines shared data structures.
package model

import "time"

// Mode selects which skills a training session targets.
type Mode string

const (
	ModeSpeed         Mode = "speed"
	ModeComprehension Mode = "comp"
	ModeCombo         Mode = "combo"
)

// SkillTags weighs how strongly a game trains each skill, 0..1.
type SkillTags struct {
	Speed         float64
	Comprehension float64
	Attention     float64
	Memory        float64
}

// Weight returns the tag value for the given mode. Combo matches everything.
func (s SkillTags) Weight(mode Mode) float64 {
	switch mode {
	case ModeSpeed:
		return s.Speed
	case ModeComprehension:
		return s.Comprehension
	default:
		return 1
	}
}

// GameRef identifies a catalog entry for session selection.
type GameRef struct {
	Code   string
	Name   string
	Skills SkillTags
}

// Config defines session settings resolved from flags and the config file.
type Config struct {
	Mode        Mode
	Minutes     int
	Lang        string
	User        string
	WordlistDir string
}

// RunStats captures one completed mini-game run.
type RunStats struct {
	User        string
	GameCode    string
	Level       int
	Score       int
	Accuracy    float64
	DurationSec float64
	StartedAt   time.Time
	EndedAt     time.Time
	Params      map[string]any
}

// XPEntry is one row of the XP ledger.
type XPEntry struct {
	User   string
	Source string
	Delta  int
	Meta   map[string]any
}

// EventType enumerates telemetry event kinds.
type EventType string

const (
	EventGameStart   EventType = "game_start"
	EventGameEnd     EventType = "game_end"
	EventLevelUp     EventType = "level_up"
	EventXPGain      EventType = "xp_gain"
	EventWPMMeasured EventType = "wpm_measured"
)

// Event is an advisory telemetry record.
type Event struct {
	User      string
	Type      EventType
	Meta      map[string]any
	Timestamp time.Time
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	User        string
	GameCode    string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// RunAggregate summarizes a stored run for reporting.
type RunAggregate struct {
	RunID       int64
	GameCode    string
	Level       int
	Score       int
	Accuracy    float64
	DurationSec float64
	EndedAt     time.Time
}

// GameAggregate aggregates run stats per game across a window.
type GameAggregate struct {
	GameCode    string
	Runs        int
	BestScore   int
	AvgAccuracy float64
	AvgLevel    float64
}
