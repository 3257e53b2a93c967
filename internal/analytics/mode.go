package analytics

import (
	"fmt"
	"time"
)

const (
	MaxCapacity = 100

	SurvivalThreshold = 20
	CollapseThreshold = 40
	RecoveryThreshold = 45

	survivalBaseHours = 24.0
	recoveryBaseHours = 10.0
	// recoveryPivot is the capacity at which a locked recovery budget equals
	// recoveryBaseHours. A trigger-driven lock far above it (a streak or
	// HIGH mental load above capacity 70) yields a budget clamped to 0: the
	// mode still restricts the user, but no extra rest hours are owed.
	recoveryPivot     = 50
	budgetSlope       = 0.5

	ViolationPenaltyHours = 5.0

	// TriggerStreakDays is today plus the two preceding days.
	TriggerStreakDays = 3
)

const (
	predictionCritical = "Critical failure imminent: capacity is below the survival threshold."
	predictionCollapse = "Functional collapse expected within 24h at the current capacity."
	predictionObserver = "Observer mode: signals are being recorded without intervention."
)

// Capacity applies the weakest-link rule.
func Capacity(d Debts) int {
	return clampInt(MaxCapacity-d.Max(), 0, MaxCapacity)
}

// PredictFailure returns the failure text for a capacity, or "" when none
// applies.
func PredictFailure(capacity int) string {
	switch {
	case capacity < SurvivalThreshold:
		return predictionCritical
	case capacity < CollapseThreshold:
		return predictionCollapse
	default:
		return ""
	}
}

// ModeResult is the outcome of SelectMode.
type ModeResult struct {
	Mode             SystemMode
	RecoveryBudget   float64
	ViolationPenalty float64
	Prediction       string
	Violated         bool
}

// SelectMode is the mode decision table. Rows are evaluated in order:
// SURVIVAL, LOCKED_RECOVERY, NORMAL, then the violation check against the
// prior decision, and finally the OBSERVER override which wins over all of
// them.
func SelectMode(capacity int, triggered bool, op OperatingMode, prior *Decision) ModeResult {
	res := ModeResult{Prediction: PredictFailure(capacity)}

	switch {
	case capacity < SurvivalThreshold:
		res.Mode = ModeSurvival
		res.RecoveryBudget = survivalBaseHours + float64(MaxCapacity-capacity)*budgetSlope
	case capacity < RecoveryThreshold || triggered:
		res.Mode = ModeLockedRecovery
		res.RecoveryBudget = recoveryBaseHours + float64(recoveryPivot-capacity)*budgetSlope
	default:
		res.Mode = ModeNormal
	}
	if res.RecoveryBudget < 0 {
		res.RecoveryBudget = 0
	}

	if prior != nil && prior.SystemMode.InRecovery() && capacity < prior.Capacity {
		res.Violated = true
		res.ViolationPenalty = ViolationPenaltyHours
		res.RecoveryBudget += ViolationPenaltyHours
		res.Prediction = fmt.Sprintf(
			"Recovery violation: capacity fell from %d to %d while in %s.",
			prior.Capacity, capacity, prior.SystemMode,
		)
	}

	if op == OperatingObserver {
		return ModeResult{Mode: ModeObserver, Prediction: predictionObserver}
	}
	return res
}

// RecoveryTriggered reports whether recovery is required regardless of the
// capacity threshold: high mental load today, or any of sleep, water or food
// LOW today and on each of the two immediately preceding days.
func RecoveryTriggered(today Observation, history HistoryWindow) bool {
	t := Normalize(today)
	if isHighLoad(t.MentalLoad) {
		return true
	}
	if len(history) < TriggerStreakDays-1 {
		return false
	}
	prev := make([]Observation, TriggerStreakDays-1)
	for i := range prev {
		prev[i] = Normalize(history[i].Observation)
		if gap, ok := daysBetween(prev[i].Date, t.Date); ok && gap != i+1 {
			return false
		}
	}
	for _, field := range []func(Observation) string{
		func(o Observation) string { return o.Sleep },
		func(o Observation) string { return o.Water },
		func(o Observation) string { return o.Food },
	} {
		if field(t) != LevelLow {
			continue
		}
		streak := true
		for _, p := range prev {
			if field(p) != LevelLow {
				streak = false
				break
			}
		}
		if streak {
			return true
		}
	}
	return false
}

// priorDecision returns the decision recorded for the day immediately before
// today. When dates are missing the newest entry is assumed to be yesterday.
func priorDecision(today Observation, history HistoryWindow) *Decision {
	if len(history) == 0 || history[0].Decision == nil {
		return nil
	}
	if gap, ok := daysBetween(history[0].Observation.Date, today.Date); ok && gap != 1 {
		return nil
	}
	return history[0].Decision
}

// daysBetween returns the whole calendar days from earlier to later. ok is
// false when either date is unset.
func daysBetween(earlier, later time.Time) (int, bool) {
	if earlier.IsZero() || later.IsZero() {
		return 0, false
	}
	return int(calendarDay(later).Sub(calendarDay(earlier)).Hours() / 24), true
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
