package analytics

import "math"

const (
	RecoveryMinHistory   = 7
	NeutralRecoveryScore = 50

	reboundWeight      = 70.0
	recoveryTimeWeight = 30.0
	recoveryTimeCap    = 3.0
	trendDelta         = 5
)

type reboundStats struct {
	rebounds     int
	events       int
	recoveryDays int
}

// ComputeRecoveryScore measures how quickly the user rebounds from bad days
// over a newest-first window.
func ComputeRecoveryScore(history HistoryWindow) RecoveryScoreResult {
	if len(history) < RecoveryMinHistory {
		return RecoveryScoreResult{Score: NeutralRecoveryScore, Trend: TrendUnknown}
	}
	obs := NormalizeWindow(history).Observations()

	stats := tallyRebounds(obs)
	half := len(obs) / 2
	newer := tallyRebounds(obs[:half]).score()
	older := tallyRebounds(obs[half:]).score()

	trend := TrendStable
	switch diff := newer - older; {
	case diff > trendDelta:
		trend = TrendImproving
	case diff < -trendDelta:
		trend = TrendDeclining
	}

	return RecoveryScoreResult{
		Score:           stats.score(),
		Trend:           trend,
		Rebounds:        stats.rebounds,
		AvgRecoveryTime: math.Round(stats.avgRecoveryTime()*100) / 100,
	}
}

// tallyRebounds walks adjacent pairs newest-to-oldest.
func tallyRebounds(newestFirst []Observation) reboundStats {
	var s reboundStats
	for i := 0; i+1 < len(newestFirst); i++ {
		newer, older := newestFirst[i], newestFirst[i+1]
		if !badDay(older) {
			continue
		}
		s.events++
		if badDay(newer) {
			s.recoveryDays++
		} else {
			s.rebounds++
		}
	}
	return s
}

func (s reboundStats) rate() float64 {
	if s.events == 0 {
		return 1
	}
	return float64(s.rebounds) / float64(s.events)
}

func (s reboundStats) avgRecoveryTime() float64 {
	if s.events == 0 {
		return 0
	}
	return float64(s.recoveryDays) / float64(s.events)
}

func (s reboundStats) score() int {
	raw := s.rate()*reboundWeight + (1-math.Min(s.avgRecoveryTime(), recoveryTimeCap)/recoveryTimeCap)*recoveryTimeWeight
	return clampInt(int(math.Round(raw)), 0, 100)
}
