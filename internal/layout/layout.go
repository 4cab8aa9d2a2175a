// Package layout computes every path in the generated dataset tree.
//
// The tree shape is fixed:
//
//	<root>/docs/<table>.csv
//	<root>/<year>/<MM>/<table>_<year>_<MM>.csv
//	<root>/<year>/<MM>/quarter_<year>_Q<n>/<table>_Q<n>.csv
//
// Quarter folders live inside the last month of their quarter, so Q1
// summaries sit under 03/, Q2 under 06/, and so on.
package layout

import (
	"fmt"
	"path/filepath"
	"strconv"
)

// Planner computes file and directory paths under a single dataset root.
// It performs no I/O.
type Planner struct {
	root string
}

// New returns a Planner rooted at dir.
func New(dir string) Planner {
	return Planner{root: dir}
}

// Root returns the dataset root directory.
func (p Planner) Root() string {
	return p.root
}

// DocsDir returns the directory holding the reference tables.
func (p Planner) DocsDir() string {
	return filepath.Join(p.root, "docs")
}

// DocFile returns the path of one reference table, e.g. "regions".
func (p Planner) DocFile(table string) string {
	return filepath.Join(p.DocsDir(), table+".csv")
}

// MonthDir returns the directory for one calendar month.
func (p Planner) MonthDir(year, month int) string {
	return filepath.Join(p.root, strconv.Itoa(year), fmt.Sprintf("%02d", month))
}

// MonthlyFile returns the path of one monthly table inside its month
// directory, e.g. sales_2023_05.csv.
func (p Planner) MonthlyFile(year, month int, table string) string {
	return filepath.Join(p.MonthDir(year, month), fmt.Sprintf("%s_%d_%02d.csv", table, year, month))
}

// QuarterDir returns the quarter folder, nested in the quarter's last month.
func (p Planner) QuarterDir(year, quarter int) string {
	return filepath.Join(p.MonthDir(year, QuarterEndMonth(quarter)), fmt.Sprintf("quarter_%d_Q%d", year, quarter))
}

// QuarterFile returns the path of one quarterly summary table,
// e.g. financial_summary_Q1.csv.
func (p Planner) QuarterFile(year, quarter int, table string) string {
	return filepath.Join(p.QuarterDir(year, quarter), fmt.Sprintf("%s_Q%d.csv", table, quarter))
}

// QuarterStartMonth returns the first month of a quarter (1..4).
func QuarterStartMonth(quarter int) int {
	return (quarter-1)*3 + 1
}

// QuarterEndMonth returns the last month of a quarter (1..4).
func QuarterEndMonth(quarter int) int {
	return quarter * 3
}

// QuarterOf returns the quarter (1..4) containing month.
func QuarterOf(month int) int {
	return (month-1)/3 + 1
}
