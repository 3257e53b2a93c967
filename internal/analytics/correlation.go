package analytics

import (
	"fmt"
	"math"
)

const (
	CorrelationMinGroupSize = 2

	DefaultCorrelationThreshold  = 5.0
	ExerciseCorrelationThreshold = 5.0
	SleepCorrelationThreshold    = 10.0
	StressCorrelationThreshold   = 10.0
)

const (
	FactorExercise = "exercise"
	FactorSleep    = "sleep"
	FactorStress   = "stress"
)

// factor partitions observations into a "with" group and an "against" group.
// classify returns (inWith, inAgainst); entries in neither are ignored.
type factor struct {
	name      string
	threshold float64
	classify  func(Observation) (bool, bool)
	message   func(diff float64) (string, bool)
}

var correlationFactors = []factor{
	{
		name:      FactorExercise,
		threshold: ExerciseCorrelationThreshold,
		classify: func(o Observation) (bool, bool) {
			return o.Exercise == LevelDone, o.Exercise == LevelPending
		},
		message: func(diff float64) (string, bool) {
			if diff > 0 {
				return fmt.Sprintf("Capacity averages %.1f points higher on days you exercise.", diff), false
			}
			return fmt.Sprintf("Capacity averages %.1f points lower on exercise days; this may signal overexertion.", -diff), true
		},
	},
	{
		name:      FactorSleep,
		threshold: SleepCorrelationThreshold,
		classify: func(o Observation) (bool, bool) {
			return o.Sleep == LevelOK || o.Sleep == LevelOptimal, o.Sleep == LevelLow
		},
		message: func(diff float64) (string, bool) {
			if diff > 0 {
				return fmt.Sprintf("Capacity averages %.1f points higher after adequate sleep.", diff), false
			}
			return fmt.Sprintf("Capacity averages %.1f points lower after adequate sleep; other factors are dominating.", -diff), false
		},
	},
	{
		name:      FactorStress,
		threshold: StressCorrelationThreshold,
		classify: func(o Observation) (bool, bool) {
			if o.MentalLoad == "" {
				return false, false
			}
			return !isHighLoad(o.MentalLoad), isHighLoad(o.MentalLoad)
		},
		message: func(diff float64) (string, bool) {
			if diff > 0 {
				return fmt.Sprintf("High-stress days cost %.1f points of capacity on average.", diff), false
			}
			return fmt.Sprintf("Capacity averages %.1f points higher on high-stress days.", -diff), false
		},
	},
}

// FindCorrelations compares average recorded capacity across the two groups
// of each factor. A factor is reported only when both groups have enough
// entries and the gap meets the factor's threshold.
func FindCorrelations(history HistoryWindow) []Correlation {
	window := NormalizeWindow(history)
	out := make([]Correlation, 0, len(correlationFactors))
	for _, f := range correlationFactors {
		var with, against []HistoryEntry
		for _, e := range window {
			isWith, isAgainst := f.classify(e.Observation)
			switch {
			case isWith:
				with = append(with, e)
			case isAgainst:
				against = append(against, e)
			}
		}
		if len(with) < CorrelationMinGroupSize || len(against) < CorrelationMinGroupSize {
			continue
		}
		withAvg, ok1 := meanCapacity(with)
		againstAvg, ok2 := meanCapacity(against)
		if !ok1 || !ok2 {
			continue
		}
		diff := withAvg - againstAvg
		if math.Abs(diff) < f.threshold {
			continue
		}
		impact := ImpactPositive
		if diff < 0 {
			impact = ImpactNegative
		}
		msg, overexertion := f.message(diff)
		out = append(out, Correlation{
			Factor:       f.name,
			Impact:       impact,
			Magnitude:    math.Round(math.Abs(diff)*10) / 10,
			Message:      msg,
			Overexertion: overexertion,
		})
	}
	return out
}

func meanCapacity(entries []HistoryEntry) (float64, bool) {
	sum, n := 0, 0
	for _, e := range entries {
		if e.Decision == nil {
			continue
		}
		sum += e.Decision.Capacity
		n++
	}
	if n == 0 {
		return 0, false
	}
	return float64(sum) / float64(n), true
}
