package analytics

const (
	actionTextHydrate   = "Drink 500ml of water now and keep a bottle within reach."
	actionTextNutrition = "Eat a balanced meal within the next hour."
	actionTextSleep     = "Protect at least 8 hours of sleep tonight."
	actionTextExercise  = "Complete 20 minutes of light movement today."
	actionTextSurvival  = "Stop all non-essential activity and rest immediately."
	actionTextRecovery  = "Enter recovery: rest and take on no new commitments today."
	actionTextObserver  = "Continue observation. No action required."
)

// PriorityAction picks the single highest-priority corrective action. The
// order is hydration, food, sleep, then pending exercise.
func PriorityAction(o Observation) (string, ActionKey, bool) {
	switch {
	case o.Water == LevelLow:
		return actionTextHydrate, ActionHydrate, true
	case o.Food == LevelLow:
		return actionTextNutrition, ActionNutrition, true
	case o.Sleep == LevelLow:
		return actionTextSleep, ActionSleep, true
	case o.Exercise == LevelPending:
		return actionTextExercise, ActionExercise, true
	default:
		return "", "", false
	}
}

// ComputeDecision runs one full scoring pass for today's observation against
// the newest-first history. The history's newest entry, when it belongs to
// the previous day and carries a decision, drives the violation check.
func ComputeDecision(today *Observation, history HistoryWindow, op OperatingMode) (*Decision, error) {
	if today == nil {
		return nil, ErrNilObservation
	}
	if op == "" {
		op = OperatingDefault
	}
	if op != OperatingDefault && op != OperatingObserver {
		return nil, &modeError{raw: string(op)}
	}

	obs := Normalize(*today)
	window := NormalizeWindow(history)

	debts := AccumulateDebts(ReplayWindow(obs, window))
	capacity := Capacity(debts)
	mode := SelectMode(capacity, RecoveryTriggered(obs, window), op, priorDecision(obs, window))

	d := &Decision{
		Debts:            debts,
		Capacity:         capacity,
		Prediction:       mode.Prediction,
		SystemMode:       mode.Mode,
		RecoveryBudget:   mode.RecoveryBudget,
		ViolationPenalty: mode.ViolationPenalty,
		Confidence:       Confidence(obs, len(window)),
	}
	composeAction(d, obs)
	return d, nil
}

func composeAction(d *Decision, o Observation) {
	text, key, ok := PriorityAction(o)
	switch d.SystemMode {
	case ModeObserver:
		d.RequiredAction = strPtr(actionTextObserver)
		return
	case ModeSurvival:
		text, key, ok = actionTextSurvival, ActionRest, true
	case ModeLockedRecovery:
		if !ok {
			text, key, ok = actionTextRecovery, ActionRest, true
		}
	}
	if !ok {
		return
	}
	d.RequiredAction = strPtr(text)
	d.ActionKey = &key
}

func strPtr(s string) *string { return &s }
