// Package analytics is the deterministic scoring core: it turns a day's
// observation plus an ordered history into a capacity decision, and derives
// patterns, recovery quality and correlations from rolling windows.
//
// Every function in this package is pure. Nothing here performs I/O or keeps
// state between calls, so it is safe for concurrent use.
package analytics

import (
	"errors"
	"time"
)

// Canonical signal tokens.
const (
	LevelLow      = "LOW"
	LevelOK       = "OK"
	LevelHigh     = "HIGH"
	LevelOptimal  = "OPTIMAL"
	LevelCritical = "CRITICAL"
	LevelPending  = "PENDING"
	LevelDone     = "DONE"
)

var (
	ErrNilObservation       = errors.New("analytics: observation is nil")
	ErrInvalidOperatingMode = errors.New("analytics: invalid operating mode")
)

// Observation is one user's signals for one calendar day. An empty string
// means the field was not reported, which is distinct from any explicit value.
type Observation struct {
	Date       time.Time `json:"date" yaml:"date"`
	Water      string    `json:"water,omitempty" yaml:"water,omitempty"`
	Food       string    `json:"food,omitempty" yaml:"food,omitempty"`
	Sleep      string    `json:"sleep,omitempty" yaml:"sleep,omitempty"`
	Exercise   string    `json:"exercise,omitempty" yaml:"exercise,omitempty"`
	MentalLoad string    `json:"mental_load,omitempty" yaml:"mental_load,omitempty"`
}

// HistoryEntry pairs a previously recorded observation with the decision that
// was computed for it, when one is available.
type HistoryEntry struct {
	Observation Observation `json:"observation" yaml:"observation"`
	Decision    *Decision   `json:"decision,omitempty" yaml:"decision,omitempty"`
}

// HistoryWindow is ordered newest-first. Callers own ordering; the core never
// sorts or mutates it.
type HistoryWindow []HistoryEntry

// Observations returns the bare observations of the window, newest-first.
func (h HistoryWindow) Observations() []Observation {
	out := make([]Observation, 0, len(h))
	for _, e := range h {
		out = append(out, e.Observation)
	}
	return out
}

type Debts struct {
	Sleep     int `json:"sleep" yaml:"sleep"`
	Hydration int `json:"hydration" yaml:"hydration"`
	Mental    int `json:"mental" yaml:"mental"`
}

// Max returns the worst of the three debts.
func (d Debts) Max() int {
	m := d.Sleep
	if d.Hydration > m {
		m = d.Hydration
	}
	if d.Mental > m {
		m = d.Mental
	}
	return m
}

type SystemMode string

const (
	ModeNormal         SystemMode = "NORMAL"
	ModeLockedRecovery SystemMode = "LOCKED_RECOVERY"
	ModeSurvival       SystemMode = "SURVIVAL"
	ModeObserver       SystemMode = "OBSERVER"
)

// InRecovery reports whether the mode carries a recovery mandate.
func (m SystemMode) InRecovery() bool {
	return m == ModeLockedRecovery || m == ModeSurvival
}

// OperatingMode is the user's setting; it is not the same thing as SystemMode.
type OperatingMode string

const (
	OperatingDefault  OperatingMode = "default"
	OperatingObserver OperatingMode = "observer"
)

type ActionKey string

const (
	ActionHydrate   ActionKey = "hydrate"
	ActionNutrition ActionKey = "nutrition"
	ActionSleep     ActionKey = "sleep"
	ActionExercise  ActionKey = "exercise"
	ActionRest      ActionKey = "rest"
)

// Decision is the immutable result of one scoring pass.
type Decision struct {
	Debts            Debts      `json:"debts" yaml:"debts"`
	Capacity         int        `json:"capacity" yaml:"capacity"`
	Prediction       string     `json:"prediction,omitempty" yaml:"prediction,omitempty"`
	SystemMode       SystemMode `json:"system_mode" yaml:"system_mode"`
	RecoveryBudget   float64    `json:"recovery_budget" yaml:"recovery_budget"`
	ViolationPenalty float64    `json:"violation_penalty" yaml:"violation_penalty"`
	Confidence       float64    `json:"confidence" yaml:"confidence"`
	RequiredAction   *string    `json:"required_action" yaml:"required_action,omitempty"`
	ActionKey        *ActionKey `json:"action_key" yaml:"action_key,omitempty"`
}

type PatternKind string

const (
	PatternRecurring PatternKind = "recurring"
	PatternChronic   PatternKind = "chronic"
)

const (
	PatternLowSleep   = "low_sleep"
	PatternHighStress = "high_stress"
)

// Pattern is a detected recurring (day-of-week) or chronic (streak) issue.
// Recurring patterns carry Day and Frequency; chronic ones carry
// ConsecutiveDays and Severity.
type Pattern struct {
	Kind            PatternKind `json:"kind" yaml:"kind"`
	Type            string      `json:"type" yaml:"type"`
	Day             string      `json:"day,omitempty" yaml:"day,omitempty"`
	Frequency       int         `json:"frequency,omitempty" yaml:"frequency,omitempty"`
	ConsecutiveDays int         `json:"consecutive_days,omitempty" yaml:"consecutive_days,omitempty"`
	Severity        string      `json:"severity,omitempty" yaml:"severity,omitempty"`
}

type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
	TrendUnknown   Trend = "unknown"
)

type RecoveryScoreResult struct {
	Score           int     `json:"score"`
	Trend           Trend   `json:"trend"`
	Rebounds        int     `json:"rebounds"`
	AvgRecoveryTime float64 `json:"avg_recovery_time"`
}

type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNegative Impact = "negative"
)

type Correlation struct {
	Factor       string  `json:"factor"`
	Impact       Impact  `json:"impact"`
	Magnitude    float64 `json:"magnitude"`
	Message      string  `json:"message"`
	Overexertion bool    `json:"overexertion,omitempty"`
}
