package analytics

import (
	"strings"

	"github.com/yungbote/caretaker-backend/internal/normalization"
)

var (
	sleepSynonyms    = map[string]string{"POOR": LevelLow}
	foodSynonyms     = map[string]string{"NONE": LevelLow}
	exerciseSynonyms = map[string]string{"NONE": LevelPending}
)

// Normalize maps casing and the known legacy synonyms onto canonical tokens.
// Unknown tokens are kept (canonically cased) and later treated as neutral.
func Normalize(o Observation) Observation {
	return Observation{
		Date:       o.Date,
		Water:      normalization.Token(o.Water),
		Food:       normalization.Synonym(normalization.Token(o.Food), foodSynonyms),
		Sleep:      normalization.Synonym(normalization.Token(o.Sleep), sleepSynonyms),
		Exercise:   normalization.Synonym(normalization.Token(o.Exercise), exerciseSynonyms),
		MentalLoad: normalization.Token(o.MentalLoad),
	}
}

// NormalizeWindow returns a normalized copy of the window; the input is left
// untouched.
func NormalizeWindow(h HistoryWindow) HistoryWindow {
	out := make(HistoryWindow, len(h))
	for i, e := range h {
		out[i] = HistoryEntry{Observation: Normalize(e.Observation), Decision: e.Decision}
	}
	return out
}

// ParseOperatingMode accepts "", "default", "normal" and "observer" in any
// casing.
func ParseOperatingMode(raw string) (OperatingMode, error) {
	switch normalization.ParseInputString(raw) {
	case "", "default", "normal":
		return OperatingDefault, nil
	case "observer":
		return OperatingObserver, nil
	default:
		return "", &modeError{raw: strings.TrimSpace(raw)}
	}
}

type modeError struct{ raw string }

func (e *modeError) Error() string { return ErrInvalidOperatingMode.Error() + ": " + e.raw }
func (e *modeError) Unwrap() error { return ErrInvalidOperatingMode }

func isHighLoad(v string) bool { return v == LevelHigh || v == LevelCritical }

// badDay is the shared definition used by recovery scoring.
func badDay(o Observation) bool { return o.Sleep == LevelLow || isHighLoad(o.MentalLoad) }
