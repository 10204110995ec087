package templates

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"paxdash/internal/boarding"
	"paxdash/internal/dashboard"
)

func render(t *testing.T, c interface {
	Render(context.Context, io.Writer) error
}) string {
	t.Helper()
	var b strings.Builder
	if err := c.Render(context.Background(), &b); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return b.String()
}

func testDataset() *dashboard.Dataset {
	at := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	return dashboard.NewDataset([]boarding.Total{
		{Time: at, Vehicle: "12", Route: "R<1>", Day: "Wednesday", Boarding: 5},
		{Time: at.AddDate(0, 0, 2), Vehicle: "12", Route: "R<1>", Day: "Friday", Boarding: 3},
		{Time: at.AddDate(0, 0, 2), Vehicle: "7", Route: "R2", Day: "Friday", Boarding: 1},
	})
}

func TestDashboardPanel_Chart(t *testing.T) {
	v := dashboard.Compute(testDataset(), dashboard.State{})
	spec, err := v.ChartJSON()
	if err != nil {
		t.Fatal(err)
	}
	html := render(t, DashboardPanel(v, spec))

	for _, want := range []string{
		`id="dashboard"`,
		`<option value="All Vehicles" selected>`,
		`<option value="R&lt;1&gt;">`,
		`min="2024-05-01" max="2024-05-03"`,
		`name="reset" value="1">Monthly View</button>`,
		`id="chart"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("panel missing %q", want)
		}
	}
	if strings.Contains(html, `class="notice"`) {
		t.Error("chart view should not render the notice")
	}
}

func TestDashboardPanel_Notice(t *testing.T) {
	v := dashboard.Compute(testDataset(), dashboard.State{Date: "2024-05-02"})
	html := render(t, DashboardPanel(v, ""))

	if !strings.Contains(html, dashboard.NoDataNotice) {
		t.Error("empty single-date view should render the notice")
	}
	if strings.Contains(html, `id="chart"`) {
		t.Error("notice view should not render a chart")
	}
	if !strings.Contains(html, `value="2024-05-02"`) {
		t.Error("date input should keep the chosen date")
	}
}

func TestDashboardPanel_NoDates(t *testing.T) {
	// Vehicle 7 never runs route R<1>.
	v := dashboard.Compute(testDataset(), dashboard.State{Vehicle: "7", Route: "R<1>"})
	html := render(t, DashboardPanel(v, ""))

	if !strings.Contains(html, `type="date" name="date" disabled`) {
		t.Error("date input should be disabled without dates")
	}
}

func TestDashboardPage_Layout(t *testing.T) {
	v := dashboard.Compute(testDataset(), dashboard.State{})
	p := Page{Title: dashboard.PageTitle, AssetVersion: "abc123"}
	html := render(t, DashboardPage(p, v, ""))

	for _, want := range []string{
		"<title>Passenger Evolution Over Time</title>",
		"/static/app.css?v=abc123",
		"/static/dashboard.js?v=abc123",
		"vega-embed",
		"htmx.org",
		`<h1>Passenger Evolution Over Time</h1><section id="dashboard">`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestDashboardPanel_EscapesChartSpec(t *testing.T) {
	v := dashboard.Compute(testDataset(), dashboard.State{})
	html := render(t, DashboardPanel(v, `{"title":"<b>"}`))

	if !strings.Contains(html, `data-spec="{&#34;title&#34;:&#34;&lt;b&gt;&#34;}"`) {
		t.Errorf("chart spec not escaped into the attribute:\n%s", html)
	}
	if !strings.Contains(html, `href="/export.csv?"`) {
		t.Error("export link should carry the (empty) state query")
	}
}

func TestSelectField(t *testing.T) {
	html := render(t, selectField("route", "Select a Route", []string{dashboard.AllRoutes, "R1", "R2"}, "R2"))

	for _, want := range []string{
		`<select name="route">`,
		`<option value="All Routes">All Routes</option>`,
		`<option value="R2" selected>R2</option>`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("select missing %q:\n%s", want, html)
		}
	}
	if strings.Count(html, " selected") != 1 {
		t.Error("exactly one option should be selected")
	}
}
