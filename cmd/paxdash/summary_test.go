package main

import (
	"context"
	"strings"
	"testing"

	"paxdash/internal/dashboard"
)

func TestWriteSummary(t *testing.T) {
	ds, err := loadDataset(context.Background(), testConfig(t), testLogger())
	if err != nil {
		t.Fatalf("loadDataset: %v", err)
	}

	tests := []struct {
		name  string
		state dashboard.State
		want  []string
	}{
		{
			name:  "aggregate",
			state: dashboard.State{},
			want:  []string{"source: csv ", dashboard.AggregateTitle, "DATE", "2024-05-01", "12", "2024-05-02", "TOTAL", "16"},
		},
		{
			name:  "single date",
			state: dashboard.State{Vehicle: "12", Date: "2024-05-01"},
			want:  []string{"Number of passengers for 12 on 2024-05-01", "TIME", "08:00", "09:00", "TOTAL"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b strings.Builder
			if err := writeSummary(&b, ds.Source, dashboard.Compute(ds, tt.state)); err != nil {
				t.Fatalf("writeSummary: %v", err)
			}
			out := b.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("summary missing %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestWriteSummary_Notice(t *testing.T) {
	v := dashboard.View{Mode: dashboard.ModeSingleDate, Notice: dashboard.NoDataNotice}

	var b strings.Builder
	if err := writeSummary(&b, "", v); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(b.String()) != dashboard.NoDataNotice {
		t.Errorf("summary = %q, want the notice only", b.String())
	}
}
