package analytics

import (
	"math"
	"time"
)

const (
	RecurrenceMinSamples = 2
	RecurrenceFraction   = 0.5

	ChronicScanDays  = 7
	ChronicThreshold = 3
	SeverityHigh     = "high"
)

type weekdayTally struct {
	total      int
	lowSleep   int
	highStress int
}

// DetectPatterns finds day-of-week recurrences over the whole window and
// chronic streaks at its newest end. A window with no LOW sleep and no HIGH
// load yields an empty, non-nil slice.
func DetectPatterns(history HistoryWindow) []Pattern {
	window := NormalizeWindow(history)
	out := make([]Pattern, 0)
	out = append(out, recurringPatterns(window)...)
	out = append(out, chronicPatterns(window)...)
	return out
}

func recurringPatterns(window HistoryWindow) []Pattern {
	var tallies [7]weekdayTally
	for _, e := range window {
		o := e.Observation
		if o.Date.IsZero() {
			continue
		}
		t := &tallies[o.Date.Weekday()]
		t.total++
		if o.Sleep == LevelLow {
			t.lowSleep++
		}
		if isHighLoad(o.MentalLoad) {
			t.highStress++
		}
	}

	var out []Pattern
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		t := tallies[wd]
		if t.total < RecurrenceMinSamples {
			continue
		}
		if frac := float64(t.lowSleep) / float64(t.total); frac >= RecurrenceFraction {
			out = append(out, Pattern{Kind: PatternRecurring, Type: PatternLowSleep, Day: wd.String(), Frequency: percent(frac)})
		}
		if frac := float64(t.highStress) / float64(t.total); frac >= RecurrenceFraction {
			out = append(out, Pattern{Kind: PatternRecurring, Type: PatternHighStress, Day: wd.String(), Frequency: percent(frac)})
		}
	}
	return out
}

func chronicPatterns(window HistoryWindow) []Pattern {
	recent := window
	if len(recent) > ChronicScanDays {
		recent = recent[:ChronicScanDays]
	}
	var out []Pattern
	if n := leadingRun(recent, func(o Observation) bool { return o.Sleep == LevelLow }); n >= ChronicThreshold {
		out = append(out, Pattern{Kind: PatternChronic, Type: PatternLowSleep, ConsecutiveDays: n, Severity: SeverityHigh})
	}
	if n := leadingRun(recent, func(o Observation) bool { return isHighLoad(o.MentalLoad) }); n >= ChronicThreshold {
		out = append(out, Pattern{Kind: PatternChronic, Type: PatternHighStress, ConsecutiveDays: n, Severity: SeverityHigh})
	}
	return out
}

// leadingRun counts matching entries from the newest backwards until the
// first miss.
func leadingRun(window HistoryWindow, match func(Observation) bool) int {
	n := 0
	for _, e := range window {
		if !match(e.Observation) {
			break
		}
		n++
	}
	return n
}

// NewPatterns keeps only the patterns absent from known. Recurring patterns
// match on (day, type); chronic ones on type alone.
func NewPatterns(found, known []Pattern) []Pattern {
	seen := make(map[string]struct{}, len(known))
	for _, p := range known {
		seen[p.identity()] = struct{}{}
	}
	out := make([]Pattern, 0, len(found))
	for _, p := range found {
		if _, ok := seen[p.identity()]; ok {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Identity is the key used to decide whether a pattern was already known.
func (p Pattern) Identity() string { return p.identity() }

func (p Pattern) identity() string {
	if p.Kind == PatternChronic {
		return string(PatternChronic) + "|" + p.Type
	}
	return string(PatternRecurring) + "|" + p.Day + "|" + p.Type
}

func percent(frac float64) int { return int(math.Round(frac * 100)) }
