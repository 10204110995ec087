package handler

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gocarina/gocsv"

	"paxdash/internal/boarding"
	"paxdash/internal/dashboard"
	"paxdash/internal/templates"
)

// Dashboard renders the dashboard for the state in the query string.
// htmx requests and partial=1 get only the swappable panel.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d := h.dataset()
	if d == nil {
		http.Error(w, "dataset loading", http.StatusServiceUnavailable)
		return
	}

	s := dashboard.FromQuery(r.URL.Query())
	cv, err := h.view(r.Context(), d, s)
	if err != nil {
		h.logger.Error("compute view", "error", err, "state", s.Key())
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Vary", "HX-Request")

	if isPartial(r) {
		if err := templates.DashboardPanel(cv.View, cv.Chart).Render(r.Context(), w); err != nil {
			h.logger.Error("render dashboard panel", "error", err)
		}
		return
	}

	p := h.page(dashboard.PageTitle)
	if err := templates.DashboardPage(p, cv.View, cv.Chart).Render(r.Context(), w); err != nil {
		h.logger.Error("render dashboard page", "error", err)
	}
}

// isPartial reports whether only the dashboard fragment was requested.
// History restores need the full document even though htmx sends them.
func isPartial(r *http.Request) bool {
	if r.Header.Get("HX-History-Restore-Request") == "true" {
		return false
	}
	return r.URL.Query().Get("partial") == "1" || r.Header.Get("HX-Request") == "true"
}

// ViewJSON returns the view for the query state, with the chart spec inlined.
func (h *Handler) ViewJSON(w http.ResponseWriter, r *http.Request) {
	d := h.dataset()
	if d == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "dataset loading")
		return
	}

	s := dashboard.FromQuery(r.URL.Query())
	cv, err := h.view(r.Context(), d, s)
	if err != nil {
		h.logger.Error("compute view", "error", err, "state", s.Key())
		writeJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := struct {
		dashboard.View
		Total int             `json:"total"`
		Chart json.RawMessage `json:"chart"`
	}{View: cv.View, Total: cv.View.Total(), Chart: json.RawMessage("null")}
	if cv.Chart != "" {
		resp.Chart = json.RawMessage(cv.Chart)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("encode view", "error", err)
	}
}

// exportRow is one line of the CSV export.
type exportRow struct {
	Date     string `csv:"date"`
	Time     string `csv:"time"`
	Vehicle  string `csv:"vehicle"`
	Route    string `csv:"route_id"`
	Day      string `csv:"day_of_week"`
	Boarding int    `csv:"boarding"`
}

// Export writes the rows behind the current view as semicolon-separated CSV.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	d := h.dataset()
	if d == nil {
		http.Error(w, "dataset loading", http.StatusServiceUnavailable)
		return
	}

	v := dashboard.Compute(d.ds, dashboard.FromQuery(r.URL.Query()))
	rows := make([]exportRow, 0, len(v.Rows))
	for _, t := range v.Rows {
		rows = append(rows, exportRow{
			Date:     t.Date(),
			Time:     t.Clock(),
			Vehicle:  t.Vehicle,
			Route:    t.Route,
			Day:      t.Day,
			Boarding: t.Boarding,
		})
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="paxdash.csv"`)

	cw := csv.NewWriter(w)
	cw.Comma = boarding.Delimiter
	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(cw)); err != nil {
		h.logger.Error("export csv", "error", err)
		return
	}
	cw.Flush()
}

// Healthz reports ok once the dataset is loaded, with its size and source.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	d := h.dataset()
	if d == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("loading\n"))
		return
	}
	fmt.Fprintf(w, "ok\nrows: %d\n", len(d.ds.Totals))
	if d.ds.Source != "" {
		fmt.Fprintf(w, "source: %s\n", d.ds.Source)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
