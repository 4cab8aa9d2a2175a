// Package quarterly rolls three cached months into the four summary tables:
// financial, regional, product and employee. Summaries read only the
// in-memory rows, never the files, so a month whose file was suppressed or
// emptied still counts in full.
//
// The regional, product and employee tables are dense: one row per known
// region, product and employee, zero-valued when the quarter had no matching
// activity.
package quarterly

import (
	"fmt"
	"sort"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"

	"github.com/example/dwhgen/internal/monthly"
	"github.com/example/dwhgen/internal/refdata"
)

const dateLayout = "2006-01-02"

// Estimation factors carried into the financial and employee tables.
var (
	costRatio = decimal.NewFromFloat(0.4)
	bonusRate = decimal.NewFromFloat(0.02)
)

// Aggregator builds quarterly summaries against one reference Set. The faker
// feeds the placeholder metrics (churn rate, absentee days).
type Aggregator struct {
	fake *gofakeit.Faker
	ref  *refdata.Set
}

// New returns an Aggregator over ref.
func New(fake *gofakeit.Faker, ref *refdata.Set) *Aggregator {
	return &Aggregator{fake: fake, ref: ref}
}

// Summary bundles the four quarterly tables.
type Summary struct {
	Financial []FinancialRow
	Regional  []RegionalRow
	Products  []ProductRow
	Employees []EmployeeRow
}

// Summarize aggregates the given months of one quarter. Nil months are
// skipped; pass the three cached months in calendar order.
func (a *Aggregator) Summarize(year, quarter int, months []*monthly.Data) *Summary {
	var (
		sales     []monthly.Sale
		refunds   []monthly.Refund
		inventory []monthly.InventorySnapshot
		marketing []monthly.MarketingSpend
	)
	for _, m := range months {
		if m == nil {
			continue
		}
		sales = append(sales, m.Sales...)
		refunds = append(refunds, m.Refunds...)
		inventory = append(inventory, m.Inventory...)
		marketing = append(marketing, m.Marketing...)
	}

	return &Summary{
		Financial: a.financial(year, quarter, sales, refunds, marketing),
		Regional:  a.regional(sales),
		Products:  a.products(sales, refunds, inventory),
		Employees: a.employees(sales),
	}
}

func (a *Aggregator) financial(year, quarter int, sales []monthly.Sale, refunds []monthly.Refund, marketing []monthly.MarketingSpend) []FinancialRow {
	var revenue, refunded, spend decimal.Decimal
	for _, s := range sales {
		revenue = revenue.Add(s.Revenue)
	}
	for _, r := range refunds {
		refunded = refunded.Add(r.Amount)
	}
	for _, m := range marketing {
		spend = spend.Add(m.Spend)
	}
	net := revenue.Sub(refunded)
	profit := net.Sub(spend).Sub(revenue.Mul(costRatio))

	start := time.Date(year, time.Month(3*quarter-2), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.Month(3*quarter)+1, 0, 0, 0, 0, 0, time.UTC)

	return []FinancialRow{{
		Quarter:        fmt.Sprintf("Q%d", quarter),
		StartDate:      start.Format(dateLayout),
		EndDate:        end.Format(dateLayout),
		TotalRevenue:   revenue.Round(2),
		TotalRefunds:   refunded.Round(2),
		NetRevenue:     net.Round(2),
		MarketingSpend: spend.Round(2),
		Profit:         profit.Round(2),
	}}
}

func (a *Aggregator) regional(sales []monthly.Sale) []RegionalRow {
	type stats struct {
		total      decimal.Decimal
		units      int
		orders     int
		perProduct map[string]int
		customers  map[string]struct{}
	}
	byRegion := make(map[string]*stats)
	for _, s := range sales {
		st, ok := byRegion[s.Region]
		if !ok {
			st = &stats{perProduct: make(map[string]int), customers: make(map[string]struct{})}
			byRegion[s.Region] = st
		}
		st.total = st.total.Add(s.Revenue)
		st.units += s.Units
		st.orders++
		st.perProduct[s.ProductID] += s.Units
		if s.CustomerID != "" {
			st.customers[s.CustomerID] = struct{}{}
		}
	}

	rows := make([]RegionalRow, 0, len(a.ref.Regions))
	for _, region := range a.ref.Regions {
		row := RegionalRow{
			Region:    region.Code,
			ChurnRate: decimal.NewFromFloat(a.fake.Float64Range(0.05, 0.15)).Round(3),
		}
		if st := byRegion[region.Code]; st != nil {
			row.TotalSales = st.total.Round(2)
			row.TotalUnits = st.units
			row.AvgOrderValue = st.total.Div(decimal.NewFromInt(int64(st.orders))).Round(2)
			row.TopProduct = topProduct(st.perProduct)
			row.NewCustomers = len(st.customers)
		}
		rows = append(rows, row)
	}
	return rows
}

func (a *Aggregator) products(sales []monthly.Sale, refunds []monthly.Refund, inventory []monthly.InventorySnapshot) []ProductRow {
	type stats struct {
		units     int
		revenue   decimal.Decimal
		returns   int
		stockouts int
	}
	byProduct := make(map[string]*stats)
	get := func(id string) *stats {
		st, ok := byProduct[id]
		if !ok {
			st = &stats{}
			byProduct[id] = st
		}
		return st
	}
	for _, s := range sales {
		st := get(s.ProductID)
		st.units += s.Units
		st.revenue = st.revenue.Add(s.Revenue)
	}
	for _, r := range refunds {
		get(r.ProductID).returns += r.Units
	}
	for _, inv := range inventory {
		if inv.EndStock == 0 {
			get(inv.ProductID).stockouts++
		}
	}

	rows := make([]ProductRow, 0, len(a.ref.Products))
	for _, product := range a.ref.Products {
		row := ProductRow{ProductID: product.ID, Category: product.Category}
		if st := byProduct[product.ID]; st != nil {
			row.SalesUnits = st.units
			row.Revenue = st.revenue.Round(2)
			row.Returns = st.returns
			row.Stockouts = st.stockouts
			// A product with returns or stockouts but no sales keeps a zero
			// score.
			if st.units > 0 {
				row.Score = st.revenue.
					Div(decimal.NewFromInt(1000)).
					Sub(decimal.NewFromInt(int64(st.returns * 10))).
					Sub(decimal.NewFromInt(int64(st.stockouts * 5))).
					Round(2)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// employees attributes sales by employee id; rows with a blanked id count
// for no one.
func (a *Aggregator) employees(sales []monthly.Sale) []EmployeeRow {
	type stats struct {
		total decimal.Decimal
		count int
	}
	byEmployee := make(map[string]*stats)
	for _, s := range sales {
		if s.EmployeeID == "" {
			continue
		}
		st, ok := byEmployee[s.EmployeeID]
		if !ok {
			st = &stats{}
			byEmployee[s.EmployeeID] = st
		}
		st.total = st.total.Add(s.Revenue)
		st.count++
	}

	rows := make([]EmployeeRow, 0, len(a.ref.Employees))
	for _, employee := range a.ref.Employees {
		row := EmployeeRow{
			EmployeeID:   employee.ID,
			Region:       employee.Region,
			AbsenteeDays: a.fake.Number(0, 5),
		}
		if st := byEmployee[employee.ID]; st != nil && st.count > 0 {
			row.TotalSales = st.total.Round(2)
			row.Transactions = st.count
			row.AvgRevenue = st.total.Div(decimal.NewFromInt(int64(st.count))).Round(2)
			row.Bonus = st.total.Mul(bonusRate).Round(2)
		}
		rows = append(rows, row)
	}
	return rows
}

// topProduct returns the product with the most units, lowest id first on
// ties, empty for no sales.
func topProduct(counts map[string]int) string {
	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	top, best := "", 0
	for _, id := range ids {
		if counts[id] > best {
			top, best = id, counts[id]
		}
	}
	return top
}
