package dashboard

import (
	"slices"
	"sort"
	"strings"

	"paxdash/internal/boarding"
)

// Sentinel selector values meaning "no filter".
const (
	AllVehicles = "All Vehicles"
	AllRoutes   = "All Routes"
	AllDays     = "All Days"
)

// Options holds the selector choices, each list starting with its sentinel.
type Options struct {
	Vehicles []string `json:"vehicles"`
	Routes   []string `json:"routes"`
	Days     []string `json:"days"`
}

// OptionsFor derives selector options from the distinct values of totals.
func OptionsFor(totals []boarding.Total) Options {
	vehicles := distinct(totals, func(t boarding.Total) string { return t.Vehicle })
	routes := distinct(totals, func(t boarding.Total) string { return t.Route })
	days := distinct(totals, func(t boarding.Total) string { return t.Day })

	sort.Slice(vehicles, func(i, j int) bool { return boarding.CompareNatural(vehicles[i], vehicles[j]) < 0 })
	sort.Slice(routes, func(i, j int) bool { return boarding.CompareNatural(routes[i], routes[j]) < 0 })
	sortDays(days)

	return Options{
		Vehicles: append([]string{AllVehicles}, vehicles...),
		Routes:   append([]string{AllRoutes}, routes...),
		Days:     append([]string{AllDays}, days...),
	}
}

// FilterVehicle keeps totals of one vehicle code. The sentinel returns totals unchanged.
func FilterVehicle(totals []boarding.Total, vehicle string) []boarding.Total {
	return filterBy(totals, vehicle, AllVehicles, func(t boarding.Total) string { return t.Vehicle })
}

// FilterRoute keeps totals of one route. The sentinel returns totals unchanged.
func FilterRoute(totals []boarding.Total, route string) []boarding.Total {
	return filterBy(totals, route, AllRoutes, func(t boarding.Total) string { return t.Route })
}

// FilterDay keeps totals of one day-of-week label. The sentinel returns totals unchanged.
func FilterDay(totals []boarding.Total, day string) []boarding.Total {
	return filterBy(totals, day, AllDays, func(t boarding.Total) string { return t.Day })
}

// FilterChain applies the vehicle, route and day filters in that order.
func FilterChain(totals []boarding.Total, s State) []boarding.Total {
	return FilterDay(FilterRoute(FilterVehicle(totals, s.Vehicle), s.Route), s.Day)
}

// Resolve normalizes s and replaces any selector value that is not one of
// the options with its sentinel.
func (o Options) Resolve(s State) State {
	s = s.Normalize()
	s.Vehicle = oneOf(s.Vehicle, o.Vehicles, AllVehicles)
	s.Route = oneOf(s.Route, o.Routes, AllRoutes)
	s.Day = oneOf(s.Day, o.Days, AllDays)
	return s
}

func oneOf(v string, options []string, sentinel string) string {
	if slices.Contains(options, v) {
		return v
	}
	return sentinel
}

func filterBy(totals []boarding.Total, value, sentinel string, field func(boarding.Total) string) []boarding.Total {
	if value == sentinel {
		return totals
	}
	var out []boarding.Total
	for _, t := range totals {
		if field(t) == value {
			out = append(out, t)
		}
	}
	return out
}

func distinct(totals []boarding.Total, field func(boarding.Total) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range totals {
		v := field(t)
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// weekdayRank maps known day labels to their position in the week.
var weekdayRank = map[string]int{
	"monday": 1, "tuesday": 2, "wednesday": 3, "thursday": 4, "friday": 5, "saturday": 6, "sunday": 7,
	"mon": 1, "tue": 2, "wed": 3, "thu": 4, "fri": 5, "sat": 6, "sun": 7,
	"lundi": 1, "mardi": 2, "mercredi": 3, "jeudi": 4, "vendredi": 5, "samedi": 6, "dimanche": 7,
}

// sortDays puts recognised weekday names in calendar order, ahead of any
// other labels, which sort lexically.
func sortDays(days []string) {
	rank := func(d string) int {
		if r, ok := weekdayRank[strings.ToLower(strings.TrimSpace(d))]; ok {
			return r
		}
		return 8
	}
	sort.SliceStable(days, func(i, j int) bool {
		ri, rj := rank(days[i]), rank(days[j])
		if ri != rj {
			return ri < rj
		}
		return days[i] < days[j]
	})
}
