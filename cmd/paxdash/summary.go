package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"paxdash/internal/dashboard"
)

// writeSummary prints the view the dashboard would show for the same state.
// source, when set, names where the data came from.
func writeSummary(w io.Writer, source string, v dashboard.View) error {
	if source != "" {
		fmt.Fprintf(w, "source: %s\n", source)
	}
	if !v.HasChart() {
		_, err := fmt.Fprintln(w, v.Notice)
		return err
	}

	fmt.Fprintln(w, v.Title)
	if v.MinDate != "" {
		fmt.Fprintf(w, "dates: %s to %s (%d)\n", v.MinDate, v.MaxDate, len(v.Dates))
	}
	fmt.Fprintln(w)

	label := "DATE"
	if v.Mode == dashboard.ModeSingleDate {
		label = "TIME"
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "%s\tPASSENGERS\t\n", label)
	for _, b := range v.Bars {
		fmt.Fprintf(tw, "%s\t%d\t\n", b.Label, b.Boarding)
	}
	fmt.Fprintf(tw, "TOTAL\t%d\t\n", v.Total())
	return tw.Flush()
}
