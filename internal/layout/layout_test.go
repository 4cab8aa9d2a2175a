package layout

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlannerPaths(t *testing.T) {
	p := New("data")

	assert.Equal(t, "data", p.Root())
	assert.Equal(t, filepath.Join("data", "docs"), p.DocsDir())
	assert.Equal(t, filepath.Join("data", "docs", "regions.csv"), p.DocFile("regions"))
	assert.Equal(t, filepath.Join("data", "2023", "03"), p.MonthDir(2023, 3))
	assert.Equal(t, filepath.Join("data", "2023", "03", "sales_2023_03.csv"), p.MonthlyFile(2023, 3, "sales"))
	assert.Equal(t, filepath.Join("data", "2023", "11", "inventory_2023_11.csv"), p.MonthlyFile(2023, 11, "inventory"))
}

func TestPlannerQuarterPaths(t *testing.T) {
	p := New("out")

	// Quarter folders are nested inside the last month of the quarter.
	assert.Equal(t, filepath.Join("out", "2023", "03", "quarter_2023_Q1"), p.QuarterDir(2023, 1))
	assert.Equal(t, filepath.Join("out", "2024", "12", "quarter_2024_Q4"), p.QuarterDir(2024, 4))
	assert.Equal(t,
		filepath.Join("out", "2023", "06", "quarter_2023_Q2", "financial_summary_Q2.csv"),
		p.QuarterFile(2023, 2, "financial_summary"))
}

func TestQuarterMonths(t *testing.T) {
	tests := []struct {
		quarter int
		start   int
		end     int
	}{
		{1, 1, 3},
		{2, 4, 6},
		{3, 7, 9},
		{4, 10, 12},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.start, QuarterStartMonth(tt.quarter))
		assert.Equal(t, tt.end, QuarterEndMonth(tt.quarter))
	}

	assert.Equal(t, 1, QuarterOf(1))
	assert.Equal(t, 1, QuarterOf(3))
	assert.Equal(t, 2, QuarterOf(4))
	assert.Equal(t, 4, QuarterOf(10))
	assert.Equal(t, 4, QuarterOf(12))
}
