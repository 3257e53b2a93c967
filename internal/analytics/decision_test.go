package analytics

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func entry(o Observation) HistoryEntry { return HistoryEntry{Observation: o} }

func TestNormalize(t *testing.T) {
	got := Normalize(Observation{
		Water:      " ok ",
		Food:       "none",
		Sleep:      "Poor",
		Exercise:   "NONE",
		MentalLoad: "critical",
	})
	want := Observation{Water: LevelOK, Food: LevelLow, Sleep: LevelLow, Exercise: LevelPending, MentalLoad: LevelCritical}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Normalize mismatch (-want +got):\n%s", diff)
	}

	unknown := Normalize(Observation{Sleep: "meh", Water: ""})
	if unknown.Sleep != "MEH" || unknown.Water != "" {
		t.Fatalf("unexpected passthrough: %+v", unknown)
	}
	// Synonyms are field specific.
	if got := Normalize(Observation{Water: "none"}).Water; got != "NONE" {
		t.Fatalf("water synonym applied unexpectedly: %q", got)
	}
}

func TestAccumulateDebts(t *testing.T) {
	tests := []struct {
		name string
		days []Observation
		want Debts
	}{
		{
			name: "single bad day",
			days: []Observation{{Sleep: "LOW", Water: "LOW", MentalLoad: "HIGH"}},
			want: Debts{Sleep: 20, Hydration: 15, Mental: 15},
		},
		{
			name: "good night relieves less than a bad one costs",
			days: []Observation{{Sleep: "LOW"}, {Sleep: "LOW"}, {Sleep: "OK"}},
			want: Debts{Sleep: 30},
		},
		{
			name: "floor enforced mid replay",
			days: []Observation{{Sleep: "OK", Water: "OK", MentalLoad: "LOW"}, {Sleep: "LOW", Water: "LOW", MentalLoad: "HIGH"}},
			want: Debts{Sleep: 20, Hydration: 15, Mental: 15},
		},
		{
			name: "optimal resets sleep",
			days: []Observation{{Sleep: "LOW"}, {Sleep: "LOW"}, {Sleep: "OPTIMAL"}},
			want: Debts{},
		},
		{
			name: "mental ok is neutral",
			days: []Observation{{MentalLoad: "HIGH"}, {MentalLoad: "OK"}, {MentalLoad: "LOW"}},
			want: Debts{Mental: 5},
		},
		{
			name: "legacy critical counts as high",
			days: []Observation{{MentalLoad: "CRITICAL"}, {MentalLoad: "CRITICAL"}},
			want: Debts{Mental: 30},
		},
		{
			name: "hydration ok clears a low day",
			days: []Observation{{Water: "LOW"}, {Water: "OK"}},
			want: Debts{},
		},
		{
			name: "unknown tokens are neutral",
			days: []Observation{{Sleep: "LOW"}, {Sleep: "MEH", Water: "??", MentalLoad: "SOMEWHAT"}},
			want: Debts{Sleep: 20},
		},
		{
			name: "ceiling",
			days: []Observation{{Sleep: "LOW"}, {Sleep: "LOW"}, {Sleep: "LOW"}, {Sleep: "LOW"}, {Sleep: "LOW"}, {Sleep: "LOW"}, {Sleep: "LOW"}},
			want: Debts{Sleep: 100},
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := AccumulateDebts(tc.days); got != tc.want {
				t.Fatalf("AccumulateDebts: got=%+v want=%+v", got, tc.want)
			}
		})
	}
}

func TestDebtsStayBoundedEveryStep(t *testing.T) {
	tokens := []string{"LOW", "OK", "HIGH", "OPTIMAL", "CRITICAL", "", "JUNK"}
	for seed := 0; seed < len(tokens)*len(tokens); seed++ {
		var d Debts
		for step := 0; step < 40; step++ {
			o := Observation{
				Sleep:      tokens[(seed+step)%len(tokens)],
				Water:      tokens[(seed*3+step)%len(tokens)],
				MentalLoad: tokens[(seed*5+step*2)%len(tokens)],
			}
			d = StepDebts(d, o)
			for _, v := range []int{d.Sleep, d.Hydration, d.Mental} {
				if v < DebtFloor || v > DebtCeiling {
					t.Fatalf("seed=%d step=%d: debt out of bounds: %+v", seed, step, d)
				}
			}
		}
	}
}

func TestReplayWindowIsChronologicalAndBounded(t *testing.T) {
	today := Observation{Date: day(2024, 3, 10), Sleep: "OK"}
	var history HistoryWindow
	for i := 1; i <= 9; i++ {
		history = append(history, entry(Observation{Date: day(2024, 3, 10-i)}))
	}
	got := ReplayWindow(today, history)
	if len(got) != DebtReplayDays {
		t.Fatalf("replay length: got=%d want=%d", len(got), DebtReplayDays)
	}
	if !got[0].Date.Equal(day(2024, 3, 4)) {
		t.Fatalf("oldest replayed day: got=%s", got[0].Date)
	}
	for i := 1; i < len(got); i++ {
		if !got[i].Date.After(got[i-1].Date) {
			t.Fatalf("replay not chronological at %d", i)
		}
	}
	if got[len(got)-1] != today {
		t.Fatalf("today must be replayed last")
	}
}

func TestCapacityIsWeakestLink(t *testing.T) {
	tokens := []string{"LOW", "OK", "HIGH", ""}
	for a := range tokens {
		for b := range tokens {
			for c := range tokens {
				history := HistoryWindow{
					entry(Observation{Sleep: tokens[a], Water: tokens[b], MentalLoad: tokens[c]}),
					entry(Observation{Sleep: tokens[b], Water: tokens[c], MentalLoad: tokens[a]}),
				}
				d, err := ComputeDecision(&Observation{Sleep: tokens[c], Water: tokens[a], MentalLoad: tokens[b]}, history, OperatingDefault)
				if err != nil {
					t.Fatalf("ComputeDecision: %v", err)
				}
				if d.Capacity != 100-d.Debts.Max() || d.Capacity < 0 || d.Capacity > 100 {
					t.Fatalf("capacity identity broken: %+v", d)
				}
				if d.Confidence < MinConfidence || d.Confidence > MaxConfidence {
					t.Fatalf("confidence out of range: %v", d.Confidence)
				}
				if d.RecoveryBudget < 0 || d.ViolationPenalty < 0 {
					t.Fatalf("negative hours: %+v", d)
				}
			}
		}
	}
}

func TestComputeDecisionIsIdempotent(t *testing.T) {
	today := &Observation{Date: day(2024, 5, 3), Sleep: "poor", Water: "ok", Food: "none", MentalLoad: "high"}
	history := HistoryWindow{
		{Observation: Observation{Date: day(2024, 5, 2), Sleep: "LOW"}, Decision: &Decision{SystemMode: ModeLockedRecovery, Capacity: 90}},
		entry(Observation{Date: day(2024, 5, 1), Sleep: "LOW", Water: "LOW"}),
	}
	first, err := ComputeDecision(today, history, OperatingDefault)
	if err != nil {
		t.Fatalf("ComputeDecision: %v", err)
	}
	second, err := ComputeDecision(today, history, OperatingDefault)
	if err != nil {
		t.Fatalf("ComputeDecision: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("decisions differ (-first +second):\n%s", diff)
	}
	if today.Sleep != "poor" || history[1].Observation.Water != "LOW" {
		t.Fatalf("inputs were mutated")
	}
}

func TestSleepLowNeverDecreasesSleepDebt(t *testing.T) {
	histories := []HistoryWindow{
		nil,
		{entry(Observation{Sleep: "LOW"})},
		{entry(Observation{Sleep: "OK"}), entry(Observation{Sleep: "LOW"})},
		{entry(Observation{Sleep: "OPTIMAL"}), entry(Observation{Sleep: "LOW"}), entry(Observation{Sleep: "LOW"})},
	}
	for i, h := range histories {
		low, _ := ComputeDecision(&Observation{Sleep: "LOW", Water: "OK", MentalLoad: "OK"}, h, OperatingDefault)
		ok, _ := ComputeDecision(&Observation{Sleep: "OK", Water: "OK", MentalLoad: "OK"}, h, OperatingDefault)
		if low.Debts.Sleep < ok.Debts.Sleep {
			t.Fatalf("history %d: LOW sleep debt %d < OK sleep debt %d", i, low.Debts.Sleep, ok.Debts.Sleep)
		}
		if low.Debts.Hydration != ok.Debts.Hydration || low.Debts.Mental != ok.Debts.Mental {
			t.Fatalf("history %d: sleep change leaked into other debts", i)
		}
	}
}

func TestConfidence(t *testing.T) {
	d, err := ComputeDecision(&Observation{}, nil, OperatingDefault)
	if err != nil {
		t.Fatalf("ComputeDecision: %v", err)
	}
	if d.Confidence != 0.4 {
		t.Fatalf("empty observation, new user: got=%v want=0.4", d.Confidence)
	}

	full := Observation{Sleep: "OK", Water: "OK", Food: "OK", MentalLoad: "OK"}
	if got := Confidence(full, 3); got != 1.0 {
		t.Fatalf("complete observation with history: got=%v want=1", got)
	}
	if got := Confidence(Observation{Sleep: "OK"}, 5); got != 0.7 {
		t.Fatalf("three missing fields: got=%v want=0.7", got)
	}
	if got := confidenceFrom(4, 0); got != 0.4 {
		t.Fatalf("raw arithmetic: got=%v want=0.4", got)
	}
	if got := confidenceFrom(25, 0); got != MinConfidence {
		t.Fatalf("floor: got=%v want=%v", got, MinConfidence)
	}
	if got := confidenceFrom(-3, 10); got != MaxConfidence {
		t.Fatalf("ceiling: got=%v want=%v", got, MaxConfidence)
	}
}

func TestThreeConsecutiveLowSleepLocksRecovery(t *testing.T) {
	neutral := Observation{Water: "OK", Food: "OK", MentalLoad: "OK", Exercise: "DONE"}
	low := neutral
	low.Sleep = "LOW"

	d, err := ComputeDecision(&low, HistoryWindow{entry(low), entry(low)}, OperatingDefault)
	if err != nil {
		t.Fatalf("ComputeDecision: %v", err)
	}
	if d.SystemMode != ModeLockedRecovery {
		t.Fatalf("mode: got=%s want=%s", d.SystemMode, ModeLockedRecovery)
	}
	if d.Capacity != 40 || d.RecoveryBudget != 15 {
		t.Fatalf("capacity/budget: got=%d/%v want=40/15", d.Capacity, d.RecoveryBudget)
	}
	if d.ActionKey == nil || *d.ActionKey != ActionSleep {
		t.Fatalf("action: got=%v want=%s", d.ActionKey, ActionSleep)
	}
}

func TestTriggerFiresAboveCapacityThreshold(t *testing.T) {
	low := Observation{Food: "LOW", Sleep: "OK", Water: "OK", MentalLoad: "OK"}
	d, err := ComputeDecision(&low, HistoryWindow{entry(low), entry(low)}, OperatingDefault)
	if err != nil {
		t.Fatalf("ComputeDecision: %v", err)
	}
	if d.Capacity != 100 {
		t.Fatalf("food does not feed debts, capacity: got=%d", d.Capacity)
	}
	if d.SystemMode != ModeLockedRecovery {
		t.Fatalf("mode: got=%s want=%s", d.SystemMode, ModeLockedRecovery)
	}
	if d.RecoveryBudget != 0 {
		t.Fatalf("budget floor: got=%v", d.RecoveryBudget)
	}
	if d.ActionKey == nil || *d.ActionKey != ActionNutrition {
		t.Fatalf("priority action kept in recovery: got=%v", d.ActionKey)
	}
}

func TestRecoveryTriggered(t *testing.T) {
	low := Observation{Water: "LOW"}
	ok := Observation{Water: "OK"}
	tests := []struct {
		name    string
		today   Observation
		history HistoryWindow
		want    bool
	}{
		{name: "high load today", today: Observation{MentalLoad: "high"}, want: true},
		{name: "critical load today", today: Observation{MentalLoad: "CRITICAL"}, want: true},
		{name: "three low days", today: low, history: HistoryWindow{entry(low), entry(low)}, want: true},
		{name: "synonym counts", today: Observation{Sleep: "poor"}, history: HistoryWindow{entry(Observation{Sleep: "LOW"}), entry(Observation{Sleep: "POOR"})}, want: true},
		{name: "broken run", today: low, history: HistoryWindow{entry(ok), entry(low), entry(low)}},
		{name: "not enough history", today: low, history: HistoryWindow{entry(low)}},
		{name: "not low today", today: ok, history: HistoryWindow{entry(low), entry(low)}},
		{name: "different factors do not combine", today: Observation{Water: "LOW"}, history: HistoryWindow{entry(Observation{Food: "LOW"}), entry(Observation{Sleep: "LOW"})}},
		{
			name:  "calendar gap breaks the run",
			today: Observation{Date: day(2024, 1, 10), Water: "LOW"},
			history: HistoryWindow{
				entry(Observation{Date: day(2024, 1, 9), Water: "LOW"}),
				entry(Observation{Date: day(2024, 1, 7), Water: "LOW"}),
			},
		},
		{
			name:  "contiguous dates",
			today: Observation{Date: day(2024, 1, 10), Water: "LOW"},
			history: HistoryWindow{
				entry(Observation{Date: day(2024, 1, 9), Water: "LOW"}),
				entry(Observation{Date: day(2024, 1, 8), Water: "LOW"}),
			},
			want: true,
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := RecoveryTriggered(tc.today, tc.history); got != tc.want {
				t.Fatalf("RecoveryTriggered: got=%v want=%v", got, tc.want)
			}
		})
	}
}

func TestHighMentalLoadRequiresRecoveryImmediately(t *testing.T) {
	d, err := ComputeDecision(&Observation{MentalLoad: "HIGH"}, nil, OperatingDefault)
	if err != nil {
		t.Fatalf("ComputeDecision: %v", err)
	}
	if d.SystemMode == ModeNormal || !d.SystemMode.InRecovery() {
		t.Fatalf("mode: got=%s", d.SystemMode)
	}
	if d.Capacity != 85 {
		t.Fatalf("capacity: got=%d want=85", d.Capacity)
	}
	if d.ActionKey == nil || *d.ActionKey != ActionRest {
		t.Fatalf("generic rest directive expected, got=%v", d.ActionKey)
	}
}

func lowWaterDays(n int) (Observation, HistoryWindow) {
	today := Observation{Water: "LOW"}
	var h HistoryWindow
	for i := 0; i < n-1; i++ {
		h = append(h, entry(today))
	}
	return today, h
}

func TestObserverOverridesSurvival(t *testing.T) {
	today, history := lowWaterDays(6)

	survival, err := ComputeDecision(&today, history, OperatingDefault)
	if err != nil {
		t.Fatalf("ComputeDecision: %v", err)
	}
	if survival.Capacity != 10 || survival.SystemMode != ModeSurvival {
		t.Fatalf("setup: got capacity=%d mode=%s", survival.Capacity, survival.SystemMode)
	}
	if survival.RecoveryBudget != 69 {
		t.Fatalf("survival budget: got=%v want=69", survival.RecoveryBudget)
	}
	if survival.RequiredAction == nil || *survival.RequiredAction != actionTextSurvival {
		t.Fatalf("survival action: got=%v", survival.RequiredAction)
	}
	if survival.Prediction != predictionCritical {
		t.Fatalf("survival prediction: got=%q", survival.Prediction)
	}

	observed, err := ComputeDecision(&today, history, OperatingObserver)
	if err != nil {
		t.Fatalf("ComputeDecision: %v", err)
	}
	if observed.SystemMode != ModeObserver {
		t.Fatalf("mode: got=%s want=%s", observed.SystemMode, ModeObserver)
	}
	if observed.RecoveryBudget != 0 {
		t.Fatalf("budget: got=%v want=0", observed.RecoveryBudget)
	}
	if observed.RequiredAction == nil || *observed.RequiredAction != actionTextObserver {
		t.Fatalf("action: got=%v", observed.RequiredAction)
	}
	if observed.ActionKey != nil {
		t.Fatalf("observer must not carry an action key: %v", *observed.ActionKey)
	}
	if observed.Capacity != 10 {
		t.Fatalf("observer keeps the computed capacity: got=%d", observed.Capacity)
	}
}

func TestViolationPenalty(t *testing.T) {
	low := Observation{Sleep: "LOW"}
	t.Run("capacity dropped during recovery", func(t *testing.T) {
		history := HistoryWindow{
			{Observation: low, Decision: &Decision{SystemMode: ModeLockedRecovery, Capacity: 50}},
			entry(low),
		}
		d, err := ComputeDecision(&low, history, OperatingDefault)
		if err != nil {
			t.Fatalf("ComputeDecision: %v", err)
		}
		if d.Capacity != 40 {
			t.Fatalf("capacity: got=%d", d.Capacity)
		}
		if d.ViolationPenalty != ViolationPenaltyHours || d.RecoveryBudget != 20 {
			t.Fatalf("penalty/budget: got=%v/%v want=5/20", d.ViolationPenalty, d.RecoveryBudget)
		}
		if !strings.Contains(d.Prediction, "violation") {
			t.Fatalf("prediction not overwritten: %q", d.Prediction)
		}
	})
	t.Run("prior normal day", func(t *testing.T) {
		history := HistoryWindow{{Observation: low, Decision: &Decision{SystemMode: ModeNormal, Capacity: 90}}}
		d, _ := ComputeDecision(&low, history, OperatingDefault)
		if d.ViolationPenalty != 0 {
			t.Fatalf("unexpected penalty: %+v", d)
		}
	})
	t.Run("prior decision is not yesterday", func(t *testing.T) {
		today := Observation{Date: day(2024, 2, 5), Sleep: "LOW"}
		history := HistoryWindow{{
			Observation: Observation{Date: day(2024, 2, 3), Sleep: "LOW"},
			Decision:    &Decision{SystemMode: ModeSurvival, Capacity: 100},
		}}
		d, _ := ComputeDecision(&today, history, OperatingDefault)
		if d.ViolationPenalty != 0 {
			t.Fatalf("stale prior decision applied: %+v", d)
		}
	})
	t.Run("equal capacity is not a violation", func(t *testing.T) {
		history := HistoryWindow{{Observation: Observation{Sleep: "OK"}, Decision: &Decision{SystemMode: ModeSurvival, Capacity: 80}}}
		d, _ := ComputeDecision(&low, history, OperatingDefault)
		if d.Capacity != 80 || d.ViolationPenalty != 0 {
			t.Fatalf("got capacity=%d penalty=%v", d.Capacity, d.ViolationPenalty)
		}
	})
}

func TestSelectMode(t *testing.T) {
	recovering := &Decision{SystemMode: ModeLockedRecovery, Capacity: 60}
	tests := []struct {
		name      string
		capacity  int
		triggered bool
		op        OperatingMode
		prior     *Decision
		want      ModeResult
	}{
		{name: "survival", capacity: 15, want: ModeResult{Mode: ModeSurvival, RecoveryBudget: 66.5, Prediction: predictionCritical}},
		{name: "locked below collapse", capacity: 30, want: ModeResult{Mode: ModeLockedRecovery, RecoveryBudget: 20, Prediction: predictionCollapse}},
		{name: "locked near threshold", capacity: 44, want: ModeResult{Mode: ModeLockedRecovery, RecoveryBudget: 13}},
		{name: "normal at threshold", capacity: 45, want: ModeResult{Mode: ModeNormal}},
		{name: "triggered above threshold", capacity: 80, triggered: true, want: ModeResult{Mode: ModeLockedRecovery}},
		{name: "triggered never beats survival", capacity: 5, triggered: true, want: ModeResult{Mode: ModeSurvival, RecoveryBudget: 71.5, Prediction: predictionCritical}},
		{name: "observer wins", capacity: 10, op: OperatingObserver, prior: recovering, want: ModeResult{Mode: ModeObserver, Prediction: predictionObserver}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			op := tc.op
			if op == "" {
				op = OperatingDefault
			}
			got := SelectMode(tc.capacity, tc.triggered, op, tc.prior)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("SelectMode mismatch (-want +got):\n%s", diff)
			}
		})
	}

	v := SelectMode(50, false, OperatingDefault, recovering)
	if !v.Violated || v.RecoveryBudget != 5 || v.ViolationPenalty != 5 {
		t.Fatalf("violation row: %+v", v)
	}
}

func TestPriorityAction(t *testing.T) {
	tests := []struct {
		obs  Observation
		want ActionKey
		ok   bool
	}{
		{obs: Observation{Water: "LOW", Food: "LOW", Sleep: "LOW", Exercise: "PENDING"}, want: ActionHydrate, ok: true},
		{obs: Observation{Food: "LOW", Sleep: "LOW", Exercise: "PENDING"}, want: ActionNutrition, ok: true},
		{obs: Observation{Sleep: "LOW", Exercise: "PENDING"}, want: ActionSleep, ok: true},
		{obs: Observation{Exercise: "PENDING"}, want: ActionExercise, ok: true},
		{obs: Observation{Water: "OK", Exercise: "DONE"}},
	}
	for _, tc := range tests {
		_, key, ok := PriorityAction(tc.obs)
		if ok != tc.ok || key != tc.want {
			t.Fatalf("PriorityAction(%+v): got=%q/%v want=%q/%v", tc.obs, key, ok, tc.want, tc.ok)
		}
	}

	d, _ := ComputeDecision(&Observation{Water: "OK", Sleep: "OK", Exercise: "DONE"}, nil, OperatingDefault)
	if d.SystemMode != ModeNormal || d.RequiredAction != nil || d.ActionKey != nil {
		t.Fatalf("normal day without deficits should carry no action: %+v", d)
	}
}

func TestComputeDecisionContractErrors(t *testing.T) {
	if _, err := ComputeDecision(nil, nil, OperatingDefault); !errors.Is(err, ErrNilObservation) {
		t.Fatalf("nil observation: got=%v", err)
	}
	if _, err := ComputeDecision(&Observation{}, nil, OperatingMode("autopilot")); !errors.Is(err, ErrInvalidOperatingMode) {
		t.Fatalf("bad mode: got=%v", err)
	}
	if d, err := ComputeDecision(&Observation{}, nil, ""); err != nil || d.SystemMode != ModeNormal {
		t.Fatalf("empty mode defaults: d=%+v err=%v", d, err)
	}
}

func TestParseOperatingMode(t *testing.T) {
	for raw, want := range map[string]OperatingMode{"": OperatingDefault, "Normal": OperatingDefault, " OBSERVER ": OperatingObserver} {
		got, err := ParseOperatingMode(raw)
		if err != nil || got != want {
			t.Fatalf("ParseOperatingMode(%q): got=%q err=%v", raw, got, err)
		}
	}
	if _, err := ParseOperatingMode("turbo"); !errors.Is(err, ErrInvalidOperatingMode) {
		t.Fatalf("expected ErrInvalidOperatingMode, got=%v", err)
	}
}
