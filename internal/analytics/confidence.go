package analytics

import "math"

const (
	confidenceStart       = 1.0
	missingFieldPenalty   = 0.1
	newUserPenalty        = 0.2
	NewUserHistoryMinimum = 3
	MinConfidence         = 0.1
	MaxConfidence         = 1.0
)

// Confidence scores how far a decision for today can be trusted given the
// fields that were reported and the depth of history behind it.
func Confidence(today Observation, historyLen int) float64 {
	missing := 0
	for _, v := range []string{today.Sleep, today.Water, today.Food, today.MentalLoad} {
		if v == "" {
			missing++
		}
	}
	return confidenceFrom(missing, historyLen)
}

func confidenceFrom(missingFields, historyLen int) float64 {
	c := confidenceStart - float64(missingFields)*missingFieldPenalty
	if historyLen < NewUserHistoryMinimum {
		c -= newUserPenalty
	}
	c = math.Max(MinConfidence, math.Min(MaxConfidence, c))
	return math.Round(c*100) / 100
}
