package report_test

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/cupstack/waitlab/dataset"
	"github.com/cupstack/waitlab/report"
)

func TestDescribe(t *testing.T) {
	table, err := dataset.NewTable([]*dataset.Column{
		{Name: "customer", Kind: dataset.KindString,
			Strings: []string{"a", "b", "c", "d", "e", "f"}},
		{Name: "score", Kind: dataset.KindNumeric,
			Floats:  []float64{3, 1, 4, 2, 5, 9},
			Missing: []bool{false, false, false, false, false, true}},
		{Name: "daypart", Kind: dataset.KindCategorical,
			Levels:  []string{"afternoon", "evening", "morning"},
			Strings: []string{"morning", "morning", "afternoon", "evening", "morning", "afternoon"}},
	})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	nums, cats, err := report.Describe(table)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}

	if len(nums) != 1 {
		t.Fatalf("numeric summaries = %d, want 1 (identifier column skipped)", len(nums))
	}
	s := nums[0]
	if s.Column != "score" || s.Count != 5 {
		t.Errorf("summary = %s with count %d, want score with 5", s.Column, s.Count)
	}
	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"mean", s.Mean, 3},
		{"std", s.Std, math.Sqrt(2.5)},
		{"min", s.Min, 1},
		{"q1", s.Q1, 2},
		{"median", s.Median, 3},
		{"q3", s.Q3, 4},
		{"max", s.Max, 5},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-12 {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}

	if len(cats) != 1 {
		t.Fatalf("categorical summaries = %d, want 1", len(cats))
	}
	wantLevels := []report.LevelCount{
		{Level: "afternoon", Count: 2},
		{Level: "evening", Count: 1},
		{Level: "morning", Count: 3},
	}
	if cats[0].Column != "daypart" {
		t.Errorf("categorical column = %s, want daypart", cats[0].Column)
	}
	for i, want := range wantLevels {
		got := cats[0].Levels[i]
		if got != want {
			t.Errorf("level[%d] = %+v, want %+v", i, got, want)
		}
	}
}

func TestDescribe_EmptyTable(t *testing.T) {
	if _, _, err := report.Describe(nil); err == nil {
		t.Error("expected error for a nil table")
	}
}

func TestWriteDescriptiveStats(t *testing.T) {
	nums := []report.NumericSummary{{
		Column: "wait_secs", Count: 3, Mean: 2, Std: 1,
		Min: 1, Q1: 1, Median: 2, Q3: 3, Max: 3,
	}}
	cats := []report.CategoricalSummary{{
		Column: "daypart",
		Levels: []report.LevelCount{{Level: "morning", Count: 2}, {Level: "evening", Count: 1}},
	}}

	path := filepath.Join(t.TempDir(), "descriptive_stats.csv")
	if err := report.WriteDescriptiveStats(path, nums, cats); err != nil {
		t.Fatalf("WriteDescriptiveStats: %v", err)
	}

	rows := readCSV(t, path)
	// Header, eight numeric measures, two level rows.
	if len(rows) != 11 {
		t.Fatalf("row count = %d, want 11", len(rows))
	}
	if rows[0][0] != "column" || rows[0][1] != "measure" || rows[0][2] != "value" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "wait_secs" || rows[1][1] != "count" || rows[1][2] != "3" {
		t.Errorf("first measure row = %v", rows[1])
	}
	if rows[9][0] != "daypart" || rows[9][1] != "level:morning" || rows[9][2] != "2" {
		t.Errorf("first level row = %v", rows[9])
	}
}
