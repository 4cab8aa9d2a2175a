// Package runner orchestrates a full dataset generation run: the reference
// tables, every month of every configured year, and the quarterly summaries
// derived from the cached months.
package runner

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"go.uber.org/zap"

	"github.com/example/dwhgen/internal/config"
	"github.com/example/dwhgen/internal/defect"
	"github.com/example/dwhgen/internal/layout"
	"github.com/example/dwhgen/internal/metrics"
	"github.com/example/dwhgen/internal/monthly"
	"github.com/example/dwhgen/internal/quarterly"
	"github.com/example/dwhgen/internal/refdata"
	"github.com/example/dwhgen/internal/tabular"
)

// MonthKey addresses one generated month in the session cache.
type MonthKey struct {
	Year  int
	Month int
}

// Stats holds overall run statistics.
type Stats struct {
	FilesWritten    int
	FilesSuppressed int
	FilesEmpty      int
	Rows            map[string]int
}

// Session is one generation run. All randomness flows from a single seeded
// source, so a fixed seed reproduces the dataset byte for byte.
type Session struct {
	cfg     *config.Config
	log     *zap.Logger
	metrics metrics.Backend
	runID   string
	seed    uint64

	fake   *gofakeit.Faker
	plan   layout.Planner
	policy defect.Policy
	ref    *refdata.Set
	gen    *monthly.Generator
	agg    *quarterly.Aggregator
	writer *tabular.Writer

	// cache keeps every generated month in full, including months whose
	// files were suppressed or emptied. Quarterly aggregation reads from
	// here, never from disk.
	cache map[MonthKey]*monthly.Data
	stats Stats
}

// New assembles a session from cfg. A zero seed draws a fresh one, so two
// unseeded runs produce different datasets.
func New(cfg *config.Config, log *zap.Logger, backend metrics.Backend, runID string) *Session {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	fake := gofakeit.New(int64(seed))

	ref := refdata.NewBuilder(fake, refdata.Counts{
		Products:            cfg.Reference.Products,
		Regions:             cfg.Reference.Regions,
		Employees:           cfg.Reference.Employees,
		StoresPerRegion:     cfg.Reference.StoresPerRegion,
		WarehousesPerRegion: cfg.Reference.WarehousesPerRegion,
	}).Build()

	policy := defect.Default()

	return &Session{
		cfg:     cfg,
		log:     log,
		metrics: backend,
		runID:   runID,
		seed:    seed,
		fake:    fake,
		plan:    layout.New(cfg.OutputDir),
		policy:  policy,
		ref:     ref,
		gen: monthly.NewGenerator(fake, ref, policy, monthly.Volumes{
			Transactions: cfg.Monthly.Transactions,
			Refunds:      cfg.Monthly.Refunds,
			Campaigns:    cfg.Monthly.Campaigns,
		}),
		agg:    quarterly.New(fake, ref),
		writer: tabular.NewWriter(fake),
		cache:  make(map[MonthKey]*monthly.Data),
		stats:  Stats{Rows: make(map[string]int)},
	}
}

// Run executes the generation run: reference tables first, then every month
// of every configured year, then the quarterly rollups. The context is
// checked between months so a cancelled run stops at a file boundary.
func (s *Session) Run(ctx context.Context) error {
	start := time.Now()
	s.log.Info("starting generation run",
		zap.String("run_id", s.runID),
		zap.String("dataset", s.cfg.Name),
		zap.Uint64("seed", s.seed),
		zap.String("output", s.plan.Root()),
		zap.Ints("years", s.cfg.Years))

	if err := s.buildReference(); err != nil {
		return fmt.Errorf("building reference tables: %w", err)
	}

	stopMonthly := metrics.Step(s.metrics, "monthly")
	for _, year := range s.cfg.Years {
		for month := 1; month <= 12; month++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := s.generateMonth(year, month); err != nil {
				return fmt.Errorf("generating %d-%02d: %w", year, month, err)
			}
		}
	}
	stopMonthly()

	stopQuarterly := metrics.Step(s.metrics, "quarterly")
	for _, year := range s.cfg.Years {
		for quarter := 1; quarter <= 4; quarter++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := s.aggregateQuarter(year, quarter); err != nil {
				return fmt.Errorf("aggregating %d Q%d: %w", year, quarter, err)
			}
		}
	}
	stopQuarterly()

	s.log.Info("generation run complete",
		zap.Int("files_written", s.stats.FilesWritten),
		zap.Int("files_suppressed", s.stats.FilesSuppressed),
		zap.Int("files_empty", s.stats.FilesEmpty),
		zap.Int64("transactions", s.gen.TransactionsMinted()),
		zap.Int64("refunds", s.gen.RefundsMinted()),
		zap.Duration("elapsed", time.Since(start)))

	if err := s.metrics.Flush(); err != nil {
		s.log.Warn("flushing metrics", zap.Error(err))
	}
	return nil
}

// buildReference writes the three entity tables under docs/.
func (s *Session) buildReference() error {
	defer metrics.Step(s.metrics, "reference")()

	if err := os.MkdirAll(s.plan.DocsDir(), 0o755); err != nil {
		return fmt.Errorf("creating docs directory: %w", err)
	}

	docs := []struct {
		table  string
		header []string
		rows   [][]string
	}{
		{"product_catalog", refdata.ProductHeader, s.ref.ProductRecords()},
		{"regions", refdata.RegionHeader, s.ref.RegionRecords()},
		{"employees", refdata.EmployeeHeader, s.ref.EmployeeRecords()},
	}
	for _, doc := range docs {
		if err := s.writer.WriteFile(s.plan.DocFile(doc.table), doc.header, doc.rows, tabular.Options{}); err != nil {
			return fmt.Errorf("writing %s: %w", doc.table, err)
		}
		s.countRows(doc.table, len(doc.rows))
		s.countFile(doc.table, metrics.StatusWritten)
	}

	s.log.Debug("reference tables written",
		zap.Int("products", len(s.ref.Products)),
		zap.Int("regions", len(s.ref.Regions)),
		zap.Int("employees", len(s.ref.Employees)))
	return nil
}

// generateMonth produces one month of rows, caches them, and writes the four
// monthly files. The cache entry always holds the complete rows; a missing
// or empty file is an artifact-level decision only.
func (s *Session) generateMonth(year, month int) error {
	data := s.gen.Generate(year, month)
	s.cache[MonthKey{Year: year, Month: month}] = data

	if err := os.MkdirAll(s.plan.MonthDir(year, month), 0o755); err != nil {
		return fmt.Errorf("creating month directory: %w", err)
	}

	files := []struct {
		kind   defect.FileKind
		header []string
		rows   [][]string
	}{
		{defect.Sales, monthly.SalesHeader, tabular.Records(data.Sales)},
		{defect.Inventory, monthly.InventoryHeader, tabular.Records(data.Inventory)},
		{defect.Refunds, monthly.RefundsHeader, tabular.Records(data.Refunds)},
		{defect.Marketing, monthly.MarketingHeader, tabular.Records(data.Marketing)},
	}
	for _, f := range files {
		table := string(f.kind)
		s.countRows(table, len(f.rows))

		kinds := s.policy.Kinds(year, month, f.kind)
		if kinds.Has(defect.MissingFile) {
			s.countFile(table, metrics.StatusSuppressed)
			s.log.Debug("file suppressed",
				zap.Int("year", year), zap.Int("month", month), zap.String("table", table))
			continue
		}

		rows := f.rows
		status := metrics.StatusWritten
		if kinds.Has(defect.EmptyFile) {
			rows = nil
			status = metrics.StatusEmpty
		}

		path := s.plan.MonthlyFile(year, month, table)
		if err := s.writer.WriteFile(path, f.header, rows, writerOptions(kinds)); err != nil {
			return fmt.Errorf("writing %s: %w", table, err)
		}
		s.countFile(table, status)
	}

	s.log.Debug("month generated",
		zap.Int("year", year), zap.Int("month", month),
		zap.Int("sales", len(data.Sales)), zap.Int("refunds", len(data.Refunds)))
	return nil
}

// aggregateQuarter rolls the quarter's cached months into the four summary
// files. Summary files never carry anomalies.
func (s *Session) aggregateQuarter(year, quarter int) error {
	months := make([]*monthly.Data, 0, 3)
	for m := layout.QuarterStartMonth(quarter); m <= layout.QuarterEndMonth(quarter); m++ {
		months = append(months, s.cache[MonthKey{Year: year, Month: m}])
	}
	sum := s.agg.Summarize(year, quarter, months)

	if err := os.MkdirAll(s.plan.QuarterDir(year, quarter), 0o755); err != nil {
		return fmt.Errorf("creating quarter directory: %w", err)
	}

	files := []struct {
		table  string
		header []string
		rows   [][]string
	}{
		{"financial_summary", quarterly.FinancialHeader, tabular.Records(sum.Financial)},
		{"regional_summary", quarterly.RegionalHeader, tabular.Records(sum.Regional)},
		{"product_summary", quarterly.ProductHeader, tabular.Records(sum.Products)},
		{"employee_performance", quarterly.EmployeeHeader, tabular.Records(sum.Employees)},
	}
	for _, f := range files {
		if err := s.writer.WriteFile(s.plan.QuarterFile(year, quarter, f.table), f.header, f.rows, tabular.Options{}); err != nil {
			return fmt.Errorf("writing %s: %w", f.table, err)
		}
		s.countRows(f.table, len(f.rows))
		s.countFile(f.table, metrics.StatusWritten)
	}

	s.log.Debug("quarter aggregated",
		zap.Int("year", year), zap.Int("quarter", quarter))
	return nil
}

// Data returns one cached month, nil before that month was generated.
func (s *Session) Data(year, month int) *monthly.Data {
	return s.cache[MonthKey{Year: year, Month: month}]
}

// Stats returns the totals accumulated so far.
func (s *Session) Stats() Stats {
	return s.stats
}

// Seed returns the effective seed, resolved from config or drawn at
// construction.
func (s *Session) Seed() uint64 {
	return s.seed
}

func (s *Session) countRows(table string, n int) {
	s.metrics.AddRows(table, n)
	s.stats.Rows[table] += n
}

func (s *Session) countFile(table, status string) {
	s.metrics.FileWritten(table, status)
	switch status {
	case metrics.StatusWritten:
		s.stats.FilesWritten++
	case metrics.StatusSuppressed:
		s.stats.FilesSuppressed++
	case metrics.StatusEmpty:
		s.stats.FilesEmpty++
	}
}

// writerOptions maps a month's serialization kinds onto writer options.
// Legacy encoding wins over the BOM when a file carries both.
func writerOptions(kinds defect.Set) tabular.Options {
	var opts tabular.Options
	if kinds.Has(defect.AltDelimiter) {
		opts.Delimiter = ';'
	}
	if kinds.Has(defect.BOM) {
		opts.BOM = true
	}
	if kinds.Has(defect.WrongEncoding) {
		opts.Legacy = true
	}
	if kinds.Has(defect.DamagedLines) {
		opts.Damage = true
	}
	return opts
}

// Plan renders the run plan for dry runs: sizing, output layout and the
// anomaly schedule restricted to the configured years. Nothing is written.
func Plan(cfg *config.Config) string {
	var b strings.Builder

	fmt.Fprintln(&b, "╔════════════════════════════════════════════════════════════╗")
	fmt.Fprintf(&b, "║  Dataset Generator: %-39s ║\n", truncate(cfg.Name, 39))
	fmt.Fprintln(&b, "╠════════════════════════════════════════════════════════════╣")
	fmt.Fprintf(&b, "║  Output:       %-44s ║\n", truncate(cfg.OutputDir, 44))
	fmt.Fprintf(&b, "║  Years:        %-44s ║\n", strings.Trim(fmt.Sprint(cfg.Years), "[]"))
	fmt.Fprintf(&b, "║  Products:     %-44d ║\n", cfg.Reference.Products)
	fmt.Fprintf(&b, "║  Regions:      %-44d ║\n", cfg.Reference.Regions)
	fmt.Fprintf(&b, "║  Employees:    %-44d ║\n", cfg.Reference.Employees)
	fmt.Fprintf(&b, "║  Transactions: %-44s ║\n", fmt.Sprintf("%d per month", cfg.Monthly.Transactions))
	fmt.Fprintf(&b, "║  Refunds:      %-44s ║\n", fmt.Sprintf("up to %d per month", cfg.Monthly.Refunds))
	fmt.Fprintf(&b, "║  Campaigns:    %-44s ║\n", fmt.Sprintf("%d per month", cfg.Monthly.Campaigns))
	fmt.Fprintln(&b, "╚════════════════════════════════════════════════════════════╝")

	years := make(map[int]bool, len(cfg.Years))
	for _, y := range cfg.Years {
		years[y] = true
	}

	fmt.Fprintln(&b, "\nScheduled anomalies:")
	count := 0
	for _, e := range defect.Default().Schedule() {
		if !years[e.Target.Year] {
			continue
		}
		kinds := make([]string, len(e.Kinds))
		for i, k := range e.Kinds {
			kinds[i] = string(k)
		}
		fmt.Fprintf(&b, "  %d-%02d  %-16s %s\n",
			e.Target.Year, e.Target.Month, e.Target.File, strings.Join(kinds, ", "))
		count++
	}
	if count == 0 {
		fmt.Fprintln(&b, "  none for the configured years")
	}

	return b.String()
}

// truncate shortens s to fit a banner column.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
