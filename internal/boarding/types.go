package boarding

import "time"

// DateLayout is the calendar-date format used throughout the dashboard.
const DateLayout = "2006-01-02"

// ClockLayout formats the time-of-day label of a boarding.
const ClockLayout = "15:04"

// RequiredColumns lists the header names every export must carry.
var RequiredColumns = []string{
	"vehicle",
	"server_ts",
	"trip_formatted_name",
	"boarding",
	"route_id",
	"day_of_week",
}

// Row is one line of a boarding export exactly as it appears on disk.
// Numeric columns stay textual here and are parsed by Row.record.
type Row struct {
	Vehicle           string `csv:"vehicle"`
	ServerTS          string `csv:"server_ts"`
	TripFormattedName string `csv:"trip_formatted_name"`
	Boarding          string `csv:"boarding"`
	RouteID           string `csv:"route_id"`
	DayOfWeek         string `csv:"day_of_week"`
}

// Record is a parsed export row.
type Record struct {
	Vehicle   string // free-form description, e.g. "Bus (12)"
	TripName  string // e.g. "Line 3 - 08:15"
	Boarding  int
	RouteID   string
	DayOfWeek string
	ServerTS  int64 // seconds since the Unix epoch
}

// Derived is a Record plus the columns computed from it.
// Empty VehicleCode or ScheduledTime means the value is missing.
type Derived struct {
	Record
	VehicleCode   string
	Time          time.Time // ServerTS in UTC
	ScheduledTime string    // "HH:MM" found in the trip name
}

// Total is the boarding sum of every derived record sharing the same
// (time, vehicle, route, day-of-week) key.
type Total struct {
	Time     time.Time `json:"time"`
	Vehicle  string    `json:"vehicle"`
	Route    string    `json:"route"`
	Day      string    `json:"day"`
	Boarding int       `json:"boarding"`
}

// Date returns the calendar date of the total.
func (t Total) Date() string {
	return t.Time.Format(DateLayout)
}

// Clock returns the "HH:MM" time of day of the total.
func (t Total) Clock() string {
	return t.Time.Format(ClockLayout)
}
