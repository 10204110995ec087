package dashboard

import (
	"net/url"
	"reflect"
	"testing"

	"paxdash/internal/boarding"
)

func TestCompute_AggregateByDefault(t *testing.T) {
	v := Compute(NewDataset(fixture()), State{})

	if v.Mode != ModeAggregate {
		t.Fatalf("Mode = %s, want %s", v.Mode, ModeAggregate)
	}
	if v.Title != AggregateTitle {
		t.Errorf("Title = %q, want %q", v.Title, AggregateTitle)
	}

	// One bar per distinct date in the filtered set.
	want := []Bar{
		{Label: "2024-05-01", Boarding: 15},
		{Label: "2024-05-02", Boarding: 4},
		{Label: "2024-05-06", Boarding: 6},
	}
	if !reflect.DeepEqual(v.Bars, want) {
		t.Errorf("Bars = %+v, want %+v", v.Bars, want)
	}
	if v.MinDate != "2024-05-01" || v.MaxDate != "2024-05-06" {
		t.Errorf("bounds = %s..%s, want 2024-05-01..2024-05-06", v.MinDate, v.MaxDate)
	}
	if len(v.Rows) != len(fixture()) {
		t.Errorf("Rows = %d, want %d", len(v.Rows), len(fixture()))
	}
}

func TestCompute_DatesFollowFilters(t *testing.T) {
	v := Compute(NewDataset(fixture()), State{Route: "R2"})

	want := []string{"2024-05-01", "2024-05-02"}
	if !reflect.DeepEqual(v.Dates, want) {
		t.Errorf("Dates = %v, want %v", v.Dates, want)
	}
}

func TestCompute_SingleDateScenario(t *testing.T) {
	// Two boardings of "Bus (12)" on 2024-05-01: 5 and 7 passengers.
	records := boarding.Derive([]boarding.Record{
		{Vehicle: "Bus (12)", TripName: "L1 - 08:00", Boarding: 5, RouteID: "R1", DayOfWeek: "Wednesday", ServerTS: 1714550400},
		{Vehicle: "Bus (12)", TripName: "L1 - 08:00", Boarding: 7, RouteID: "R1", DayOfWeek: "Wednesday", ServerTS: 1714554000},
	})
	ds := NewDataset(boarding.Aggregate(records))

	v := Compute(ds, State{Vehicle: "12", Route: "R1", Day: "Wednesday", Date: "2024-05-01"})
	if v.Mode != ModeSingleDate {
		t.Fatalf("Mode = %s, want %s", v.Mode, ModeSingleDate)
	}
	if !v.HasChart() {
		t.Fatalf("expected a chart, got notice %q", v.Notice)
	}
	want := []Bar{{Label: "08:00", Boarding: 5}, {Label: "09:00", Boarding: 7}}
	if !reflect.DeepEqual(v.Bars, want) {
		t.Errorf("Bars = %+v, want %+v", v.Bars, want)
	}
	if v.Total() != 12 {
		t.Errorf("Total = %d, want 12", v.Total())
	}
	wantTitle := "Number of passengers for 12 on 2024-05-01 for route R1 (Wednesday)"
	if v.Title != wantTitle {
		t.Errorf("Title = %q, want %q", v.Title, wantTitle)
	}
}

func TestCompute_SameMinuteCombines(t *testing.T) {
	records := boarding.Derive([]boarding.Record{
		{Vehicle: "Bus (12)", Boarding: 5, RouteID: "R1", DayOfWeek: "Wednesday", ServerTS: 1714550400},
		{Vehicle: "Bus (12)", Boarding: 7, RouteID: "R1", DayOfWeek: "Wednesday", ServerTS: 1714550430},
	})
	ds := NewDataset(boarding.Aggregate(records))

	v := Compute(ds, State{Vehicle: "12", Date: "2024-05-01"})
	want := []Bar{{Label: "08:00", Boarding: 12}}
	if !reflect.DeepEqual(v.Bars, want) {
		t.Errorf("Bars = %+v, want %+v", v.Bars, want)
	}
}

func TestCompute_ResetOverridesDate(t *testing.T) {
	ds := NewDataset(fixture())
	s := State{Date: "2024-05-01"}

	if v := Compute(ds, s); v.Mode != ModeSingleDate {
		t.Fatalf("with a date: Mode = %s, want %s", v.Mode, ModeSingleDate)
	}

	s.Reset = true
	v := Compute(ds, s)
	if v.Mode != ModeAggregate {
		t.Errorf("after reset: Mode = %s, want %s", v.Mode, ModeAggregate)
	}
	if v.State.Date != "2024-05-01" {
		t.Errorf("reset should keep the selected date in the state, got %q", v.State.Date)
	}
	if len(v.Bars) != 3 {
		t.Errorf("after reset: %d bars, want 3", len(v.Bars))
	}
}

func TestCompute_EmptyDateShowsNotice(t *testing.T) {
	// 2024-05-03 lies within the picker bounds but has no rows.
	v := Compute(NewDataset(fixture()), State{Date: "2024-05-03"})

	if v.Mode != ModeSingleDate {
		t.Fatalf("Mode = %s, want %s", v.Mode, ModeSingleDate)
	}
	if v.HasChart() {
		t.Fatal("empty single-date view must not render a chart")
	}
	if v.Notice != NoDataNotice {
		t.Errorf("Notice = %q, want %q", v.Notice, NoDataNotice)
	}
	if v.ChartSpec() != nil {
		t.Error("ChartSpec should be nil when the notice is shown")
	}
}

func TestCompute_DateOutsideBoundsIgnored(t *testing.T) {
	ds := NewDataset(fixture())

	tests := []struct {
		name string
		date string
	}{
		{"before range", "2024-04-30"},
		{"after range", "2024-05-07"},
		{"malformed", "05/01/2024"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Compute(ds, State{Date: tt.date})
			if v.Mode != ModeAggregate {
				t.Errorf("Mode = %s, want %s", v.Mode, ModeAggregate)
			}
		})
	}
}

func TestCompute_NoRowsAfterFilters(t *testing.T) {
	// Vehicle 9 only runs route R2.
	v := Compute(NewDataset(fixture()), State{Vehicle: "9", Route: "R1", Date: "2024-05-01"})

	if len(v.Dates) != 0 || v.MinDate != "" {
		t.Errorf("expected no available dates, got %v", v.Dates)
	}
	if v.Mode != ModeAggregate {
		t.Errorf("Mode = %s, want %s (no date can be chosen)", v.Mode, ModeAggregate)
	}
	if len(v.Bars) != 0 {
		t.Errorf("Bars = %+v, want none", v.Bars)
	}
}

func TestCompute_UsesTimestampNotScheduledLabel(t *testing.T) {
	records := boarding.Derive([]boarding.Record{
		{Vehicle: "Bus (1)", TripName: "L1 - 23:59", Boarding: 1, RouteID: "R", DayOfWeek: "D", ServerTS: 1714550400},
	})
	v := Compute(NewDataset(boarding.Aggregate(records)), State{Date: "2024-05-01"})

	if len(v.Bars) != 1 || v.Bars[0].Label != "08:00" {
		t.Errorf("Bars = %+v, want a single 08:00 bar", v.Bars)
	}
}

func TestCompute_UnknownSelectorsFallBack(t *testing.T) {
	ds := NewDataset(fixture())

	tests := []struct {
		name  string
		query url.Values
		want  State
	}{
		{
			name:  "unknown vehicle and route",
			query: url.Values{"vehicle": {"99"}, "route": {"nope"}},
			want:  State{Vehicle: AllVehicles, Route: AllRoutes, Day: AllDays},
		},
		{
			name:  "unknown day keeps known vehicle",
			query: url.Values{"vehicle": {"12"}, "day": {"Funday"}},
			want:  State{Vehicle: "12", Route: AllRoutes, Day: AllDays},
		},
		{
			name:  "sentinel sent explicitly",
			query: url.Values{"vehicle": {AllVehicles}, "route": {"R2"}},
			want:  State{Vehicle: AllVehicles, Route: "R2", Day: AllDays},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Compute(ds, FromQuery(tt.query))
			if v.State != tt.want {
				t.Errorf("State = %+v, want %+v", v.State, tt.want)
			}
			want := Compute(ds, tt.want)
			if !reflect.DeepEqual(v.Bars, want.Bars) || !reflect.DeepEqual(v.Dates, want.Dates) {
				t.Errorf("view differs from the fallback state's view: bars %+v, want %+v", v.Bars, want.Bars)
			}
			if len(v.Dates) == 0 {
				t.Error("fallback should keep the dataset's dates")
			}
		})
	}
}

func TestOptionsResolve_SameKeyAsFallback(t *testing.T) {
	opts := NewDataset(fixture()).Options
	a := opts.Resolve(State{Vehicle: "99"})
	b := opts.Resolve(State{})
	if a.Key() != b.Key() {
		t.Errorf("Key(%+v) = %q, want %q", a, a.Key(), b.Key())
	}
}
