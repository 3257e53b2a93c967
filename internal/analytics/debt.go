package analytics

const (
	// DebtReplayDays is today plus six prior days.
	DebtReplayDays = 7

	DebtCeiling = 100
	DebtFloor   = 0

	sleepLowDebt      = 20
	sleepOKRelief     = 10
	hydrationLowDebt  = 15
	hydrationOKRelief = 15
	mentalHighDebt    = 15
	mentalLowRelief   = 10
)

// ReplayWindow builds the chronological (oldest-first) slice of observations
// replayed for today's debts: at most DebtReplayDays-1 prior days followed by
// today.
func ReplayWindow(today Observation, history HistoryWindow) []Observation {
	prior := len(history)
	if prior > DebtReplayDays-1 {
		prior = DebtReplayDays - 1
	}
	out := make([]Observation, 0, prior+1)
	for i := prior - 1; i >= 0; i-- {
		out = append(out, history[i].Observation)
	}
	return append(out, today)
}

// AccumulateDebts folds the chronological observations into debts, starting
// from zero. Bounds are enforced after every day, not only at the end.
func AccumulateDebts(chronological []Observation) Debts {
	var d Debts
	for _, o := range chronological {
		d = StepDebts(d, o)
	}
	return d
}

// StepDebts applies a single day to the running debts.
func StepDebts(d Debts, o Observation) Debts {
	switch o.Sleep {
	case LevelLow:
		d.Sleep += sleepLowDebt
	case LevelOK:
		d.Sleep -= sleepOKRelief
	case LevelOptimal:
		d.Sleep = 0
	}
	switch o.Water {
	case LevelLow:
		d.Hydration += hydrationLowDebt
	case LevelOK:
		d.Hydration -= hydrationOKRelief
	}
	switch {
	case isHighLoad(o.MentalLoad):
		d.Mental += mentalHighDebt
	case o.MentalLoad == LevelLow:
		d.Mental -= mentalLowRelief
	}
	return Debts{
		Sleep:     clampInt(d.Sleep, DebtFloor, DebtCeiling),
		Hydration: clampInt(d.Hydration, DebtFloor, DebtCeiling),
		Mental:    clampInt(d.Mental, DebtFloor, DebtCeiling),
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
