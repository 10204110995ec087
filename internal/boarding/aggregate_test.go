package boarding

import (
	"math/rand"
	"reflect"
	"testing"
)

func derived(vehicle string, ts int64, boarding int, route, day string) Derived {
	return Derive([]Record{{
		Vehicle:   vehicle,
		ServerTS:  ts,
		Boarding:  boarding,
		RouteID:   route,
		DayOfWeek: day,
	}})[0]
}

func TestAggregate_SumsPerKey(t *testing.T) {
	records := []Derived{
		derived("Bus (12)", 1714550400, 5, "R1", "Wednesday"),
		derived("Bus (12)", 1714550400, 7, "R1", "Wednesday"),
		derived("Bus (12)", 1714550460, 1, "R1", "Wednesday"),
		derived("Bus (9)", 1714550400, 2, "R1", "Wednesday"),
		derived("Bus (12)", 1714550400, 4, "R2", "Wednesday"),
	}

	got := Aggregate(records)
	if len(got) != 4 {
		t.Fatalf("got %d totals, want 4: %+v", len(got), got)
	}

	// Ordered by time, then vehicle (numeric), route, day.
	want := []struct {
		vehicle, route string
		boarding       int
	}{
		{"9", "R1", 2},
		{"12", "R1", 12},
		{"12", "R2", 4},
		{"12", "R1", 1},
	}
	for i, w := range want {
		if got[i].Vehicle != w.vehicle || got[i].Route != w.route || got[i].Boarding != w.boarding {
			t.Errorf("totals[%d] = %+v, want vehicle=%s route=%s boarding=%d",
				i, got[i], w.vehicle, w.route, w.boarding)
		}
	}
}

func TestAggregate_DropsMissingKeys(t *testing.T) {
	records := []Derived{
		derived("Spare coach", 1714550400, 5, "R1", "Wednesday"),
		derived("Bus (1)", 1714550400, 5, "", "Wednesday"),
		derived("Bus (1)", 1714550400, 5, "R1", ""),
		derived("Bus (1)", 1714550400, 3, "R1", "Wednesday"),
	}

	got := Aggregate(records)
	if len(got) != 1 || got[0].Boarding != 3 {
		t.Errorf("Aggregate = %+v, want a single total of 3", got)
	}
}

func TestAggregate_OrderIndependent(t *testing.T) {
	var records []Derived
	vehicles := []string{"Bus (1)", "Bus (2)", "Bus (10)"}
	for i := 0; i < 200; i++ {
		records = append(records, derived(
			vehicles[i%len(vehicles)],
			1714550400+int64(i%7)*3600,
			i%5,
			[]string{"R1", "R2"}[i%2],
			"Wednesday",
		))
	}
	want := Aggregate(records)

	rng := rand.New(rand.NewSource(1))
	for round := 0; round < 5; round++ {
		shuffled := make([]Derived, len(records))
		copy(shuffled, records)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		if got := Aggregate(shuffled); !reflect.DeepEqual(got, want) {
			t.Fatalf("round %d: aggregate depends on input order", round)
		}
	}
}

func TestAggregate_Empty(t *testing.T) {
	if got := Aggregate(nil); len(got) != 0 {
		t.Errorf("Aggregate(nil) = %+v, want empty", got)
	}
}

func TestCompareNatural(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"9", "10", -1},
		{"10", "9", 1},
		{"12", "12", 0},
		{"007", "7", -1}, // equal value, lexical tiebreak
		{"5", "R1", -1},
		{"R1", "5", 1},
		{"R1", "R2", -1},
	}
	for _, tt := range tests {
		if got := CompareNatural(tt.a, tt.b); got != tt.want {
			t.Errorf("CompareNatural(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
