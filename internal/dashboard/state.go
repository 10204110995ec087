package dashboard

import (
	"net/url"
	"strings"
	"time"

	"paxdash/internal/boarding"
)

// State is everything the user has chosen on the dashboard. It travels in
// the query string, so every request carries the complete state.
type State struct {
	Vehicle string `json:"vehicle"`
	Route   string `json:"route"`
	Day     string `json:"day"`
	Date    string `json:"date,omitempty"` // YYYY-MM-DD, empty when no date is picked
	Reset   bool   `json:"reset,omitempty"`
}

// FromQuery reads a State from request query parameters.
func FromQuery(q url.Values) State {
	s := State{
		Vehicle: q.Get("vehicle"),
		Route:   q.Get("route"),
		Day:     q.Get("day"),
		Date:    q.Get("date"),
		Reset:   q.Get("reset") == "1" || q.Get("reset") == "true",
	}
	return s.Normalize()
}

// Query encodes the state back into query parameters. Sentinels are omitted.
func (s State) Query() url.Values {
	s = s.Normalize()
	q := url.Values{}
	if s.Vehicle != AllVehicles {
		q.Set("vehicle", s.Vehicle)
	}
	if s.Route != AllRoutes {
		q.Set("route", s.Route)
	}
	if s.Day != AllDays {
		q.Set("day", s.Day)
	}
	if s.Date != "" {
		q.Set("date", s.Date)
	}
	if s.Reset {
		q.Set("reset", "1")
	}
	return q
}

// Normalize trims values, maps empty selectors to their sentinel and drops
// a date that is not a valid YYYY-MM-DD.
func (s State) Normalize() State {
	s.Vehicle = orSentinel(s.Vehicle, AllVehicles)
	s.Route = orSentinel(s.Route, AllRoutes)
	s.Day = orSentinel(s.Day, AllDays)

	s.Date = strings.TrimSpace(s.Date)
	if s.Date != "" {
		d, err := time.Parse(boarding.DateLayout, s.Date)
		if err != nil {
			s.Date = ""
		} else {
			s.Date = d.Format(boarding.DateLayout)
		}
	}
	return s
}

// Key identifies the state in the view cache.
func (s State) Key() string {
	return "view:" + s.Normalize().Query().Encode()
}

func orSentinel(v, sentinel string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return sentinel
	}
	return v
}
