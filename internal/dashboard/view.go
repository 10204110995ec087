// Package dashboard turns aggregated boardings and a user State into the
// View shown on screen. Everything here is a pure function of its inputs.
package dashboard

import (
	"fmt"
	"sort"
	"time"

	"paxdash/internal/boarding"
)

// Mode is the state of the date selector.
type Mode string

const (
	// ModeAggregate shows one bar per date across the whole range.
	ModeAggregate Mode = "aggregate"
	// ModeSingleDate shows one bar per minute of a single date.
	ModeSingleDate Mode = "single-date"
)

// Fixed texts of the dashboard.
const (
	PageTitle      = "Passenger Evolution Over Time"
	AggregateTitle = "Total Number of Passengers Over Time"
	NoDataNotice   = "No data available for the selected date, vehicle, route, and day."
)

// Dataset is the immutable aggregated table plus its selector options.
type Dataset struct {
	Totals  []boarding.Total
	Options Options
	Source  string // where the records were read from, for display
}

// NewDataset wraps aggregated totals.
func NewDataset(totals []boarding.Total) *Dataset {
	return &Dataset{Totals: totals, Options: OptionsFor(totals)}
}

// Bar is one bar of the chart. Label is a date in the aggregate view and an
// "HH:MM" time in the single-date view.
type Bar struct {
	Label    string `json:"label"`
	Boarding int    `json:"boarding"`
}

// View is what the dashboard renders for a State.
type View struct {
	State   State    `json:"state"`
	Options Options  `json:"options"`
	Dates   []string `json:"dates"`    // distinct dates after the filter chain
	MinDate string   `json:"min_date"` // date picker bounds, empty without dates
	MaxDate string   `json:"max_date"`
	Mode    Mode     `json:"mode"`
	Date    string   `json:"date,omitempty"` // the date shown in single-date mode
	Title   string   `json:"title,omitempty"`
	Bars    []Bar    `json:"bars"`
	Notice  string   `json:"notice,omitempty"`

	// Rows are the totals behind the chart.
	Rows []boarding.Total `json:"-"`
}

// HasChart reports whether the view renders a chart rather than a notice.
func (v View) HasChart() bool {
	return v.Notice == ""
}

// Total sums the bars.
func (v View) Total() int {
	var n int
	for _, b := range v.Bars {
		n += b.Boarding
	}
	return n
}

// Compute runs the filter chain and the date selector for s. Selector values
// that are not among the dataset's options fall back to their sentinel.
func Compute(ds *Dataset, s State) View {
	s = ds.Options.Resolve(s)
	rows := FilterChain(ds.Totals, s)
	dates := Dates(rows)

	v := View{
		State:   s,
		Options: ds.Options,
		Dates:   dates,
	}
	if len(dates) > 0 {
		v.MinDate, v.MaxDate = dates[0], dates[len(dates)-1]
	}

	if date, ok := pickDate(s.Date, v.MinDate, v.MaxDate); ok && !s.Reset {
		day := OnDate(rows, date)
		v.Mode = ModeSingleDate
		v.Date = date
		if len(day) == 0 {
			v.Notice = NoDataNotice
			return v
		}
		v.Title = fmt.Sprintf("Number of passengers for %s on %s for route %s (%s)", s.Vehicle, date, s.Route, s.Day)
		v.Bars = barsByMinute(day)
		v.Rows = day
		return v
	}

	v.Mode = ModeAggregate
	v.Title = AggregateTitle
	v.Bars = barsByDate(rows)
	v.Rows = rows
	return v
}

// Dates returns the distinct calendar dates of totals in ascending order.
func Dates(totals []boarding.Total) []string {
	seen := make(map[string]bool)
	var dates []string
	for _, t := range totals {
		d := t.Date()
		if !seen[d] {
			seen[d] = true
			dates = append(dates, d)
		}
	}
	sort.Strings(dates)
	return dates
}

// OnDate keeps totals falling on the given YYYY-MM-DD date.
func OnDate(totals []boarding.Total, date string) []boarding.Total {
	var out []boarding.Total
	for _, t := range totals {
		if t.Date() == date {
			out = append(out, t)
		}
	}
	return out
}

// pickDate accepts a requested date only when it lies within the picker bounds.
func pickDate(date, min, max string) (string, bool) {
	if date == "" || min == "" {
		return "", false
	}
	if _, err := time.Parse(boarding.DateLayout, date); err != nil {
		return "", false
	}
	if date < min || date > max {
		return "", false
	}
	return date, true
}

func barsByDate(totals []boarding.Total) []Bar {
	return group(totals, boarding.Total.Date)
}

// barsByMinute combines totals sharing the same "HH:MM" into one bar.
func barsByMinute(totals []boarding.Total) []Bar {
	return group(totals, boarding.Total.Clock)
}

func group(totals []boarding.Total, label func(boarding.Total) string) []Bar {
	sums := make(map[string]int)
	var labels []string
	for _, t := range totals {
		l := label(t)
		if _, ok := sums[l]; !ok {
			labels = append(labels, l)
		}
		sums[l] += t.Boarding
	}
	sort.Strings(labels)

	bars := make([]Bar, 0, len(labels))
	for _, l := range labels {
		bars = append(bars, Bar{Label: l, Boarding: sums[l]})
	}
	return bars
}
