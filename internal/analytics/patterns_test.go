package analytics

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// twoWeeks builds Mon 2024-01-01 .. Sun 2024-01-14 newest-first, letting
// mutate adjust each day before it is added.
func twoWeeks(mutate func(dayOfMonth int, o *Observation)) HistoryWindow {
	var h HistoryWindow
	for d := 14; d >= 1; d-- {
		o := Observation{Date: day(2024, 1, d), Sleep: "OK", MentalLoad: "OK"}
		if mutate != nil {
			mutate(d, &o)
		}
		h = append(h, entry(o))
	}
	return h
}

func TestDetectPatternsCleanWindow(t *testing.T) {
	got := DetectPatterns(twoWeeks(nil))
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
	if got := DetectPatterns(nil); got == nil || len(got) != 0 {
		t.Fatalf("nil window: got %#v", got)
	}
}

func TestDetectPatternsRecurring(t *testing.T) {
	h := twoWeeks(func(d int, o *Observation) {
		switch d {
		case 1, 8: // Mondays
			o.Sleep = "poor"
		case 2: // one of two Tuesdays
			o.MentalLoad = "HIGH"
		}
	})
	want := []Pattern{
		{Kind: PatternRecurring, Type: PatternLowSleep, Day: "Monday", Frequency: 100},
		{Kind: PatternRecurring, Type: PatternHighStress, Day: "Tuesday", Frequency: 50},
	}
	if diff := cmp.Diff(want, DetectPatterns(h)); diff != "" {
		t.Fatalf("DetectPatterns mismatch (-want +got):\n%s", diff)
	}
}

func TestDetectPatternsIgnoresUndatedAndSparseDays(t *testing.T) {
	h := HistoryWindow{
		entry(Observation{Date: day(2024, 1, 1), Sleep: "LOW"}),
		entry(Observation{Sleep: "OK"}),
		entry(Observation{Sleep: "LOW"}),
	}
	// One Monday sample is below the minimum; undated rows do not count.
	if got := DetectPatterns(h); len(got) != 0 {
		t.Fatalf("unexpected patterns: %#v", got)
	}
}

func TestDetectPatternsChronic(t *testing.T) {
	tests := []struct {
		name string
		h    HistoryWindow
		want []Pattern
	}{
		{
			name: "four day sleep streak",
			h: HistoryWindow{
				entry(Observation{Sleep: "LOW"}),
				entry(Observation{Sleep: "LOW"}),
				entry(Observation{Sleep: "LOW"}),
				entry(Observation{Sleep: "LOW"}),
				entry(Observation{Sleep: "OK"}),
				entry(Observation{Sleep: "LOW"}),
			},
			want: []Pattern{{Kind: PatternChronic, Type: PatternLowSleep, ConsecutiveDays: 4, Severity: SeverityHigh}},
		},
		{
			name: "streak capped at scan window",
			h: func() HistoryWindow {
				var h HistoryWindow
				for i := 0; i < 10; i++ {
					h = append(h, entry(Observation{Sleep: "LOW", MentalLoad: "critical"}))
				}
				return h
			}(),
			want: []Pattern{
				{Kind: PatternChronic, Type: PatternLowSleep, ConsecutiveDays: ChronicScanDays, Severity: SeverityHigh},
				{Kind: PatternChronic, Type: PatternHighStress, ConsecutiveDays: ChronicScanDays, Severity: SeverityHigh},
			},
		},
		{
			name: "streak must start at newest entry",
			h: HistoryWindow{
				entry(Observation{MentalLoad: "OK"}),
				entry(Observation{MentalLoad: "HIGH"}),
				entry(Observation{MentalLoad: "HIGH"}),
				entry(Observation{MentalLoad: "HIGH"}),
			},
			want: []Pattern{},
		},
		{
			name: "two days is not chronic",
			h: HistoryWindow{
				entry(Observation{MentalLoad: "HIGH"}),
				entry(Observation{MentalLoad: "HIGH"}),
			},
			want: []Pattern{},
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, DetectPatterns(tc.h)); diff != "" {
				t.Fatalf("DetectPatterns mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNewPatterns(t *testing.T) {
	known := []Pattern{
		{Kind: PatternRecurring, Type: PatternLowSleep, Day: "Monday", Frequency: 50},
		{Kind: PatternChronic, Type: PatternLowSleep, ConsecutiveDays: 3, Severity: SeverityHigh},
	}
	found := []Pattern{
		{Kind: PatternRecurring, Type: PatternLowSleep, Day: "Monday", Frequency: 100},
		{Kind: PatternRecurring, Type: PatternLowSleep, Day: "Tuesday", Frequency: 50},
		{Kind: PatternChronic, Type: PatternLowSleep, ConsecutiveDays: 5, Severity: SeverityHigh},
		{Kind: PatternChronic, Type: PatternHighStress, ConsecutiveDays: 3, Severity: SeverityHigh},
	}
	want := []Pattern{found[1], found[3]}
	if diff := cmp.Diff(want, NewPatterns(found, known)); diff != "" {
		t.Fatalf("NewPatterns mismatch (-want +got):\n%s", diff)
	}
	if got := NewPatterns(nil, known); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
	if got := NewPatterns(found, nil); len(got) != len(found) {
		t.Fatalf("nothing known: got %d want %d", len(got), len(found))
	}
}
