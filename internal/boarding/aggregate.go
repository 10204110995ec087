package boarding

import (
	"sort"
	"strconv"
	"strings"
)

type totalKey struct {
	unix    int64
	vehicle string
	route   string
	day     string
}

// Aggregate sums boardings per (time, vehicle code, route, day-of-week).
// Records missing any key column are left out. Totals are ordered by time,
// then vehicle, route and day.
func Aggregate(records []Derived) []Total {
	sums := make(map[totalKey]int)
	for _, r := range records {
		if r.VehicleCode == "" || r.RouteID == "" || r.DayOfWeek == "" {
			continue
		}
		k := totalKey{unix: r.Time.Unix(), vehicle: r.VehicleCode, route: r.RouteID, day: r.DayOfWeek}
		sums[k] += r.Boarding
	}

	totals := make([]Total, 0, len(sums))
	for k, n := range sums {
		totals = append(totals, Total{
			Time:     Timestamp(k.unix),
			Vehicle:  k.vehicle,
			Route:    k.route,
			Day:      k.day,
			Boarding: n,
		})
	}

	sort.Slice(totals, func(i, j int) bool {
		a, b := totals[i], totals[j]
		if !a.Time.Equal(b.Time) {
			return a.Time.Before(b.Time)
		}
		if c := CompareNatural(a.Vehicle, b.Vehicle); c != 0 {
			return c < 0
		}
		if c := CompareNatural(a.Route, b.Route); c != 0 {
			return c < 0
		}
		return a.Day < b.Day
	})
	return totals
}

// CompareNatural orders two values numerically when both are integers and
// lexically otherwise, so "9" sorts before "10".
func CompareNatural(a, b string) int {
	x, errA := strconv.ParseInt(a, 10, 64)
	y, errB := strconv.ParseInt(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return strings.Compare(a, b)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(a, b)
}
