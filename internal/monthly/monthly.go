// Package monthly synthesizes one calendar month of transactional rows:
// sales, inventory snapshots, refunds and marketing spend. Field-level
// anomalies (blanked fields, duplicated transaction ids, the alternate date
// format) are applied here during generation; structural anomalies are the
// writer's business.
package monthly

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"

	"github.com/example/dwhgen/internal/defect"
	"github.com/example/dwhgen/internal/refdata"
)

// Volumes sizes one month's output. Refunds is an upper bound; a month with
// fewer sales refunds at most one per sale.
type Volumes struct {
	Transactions int
	Refunds      int
	Campaigns    int
}

// DefaultVolumes returns the standard monthly sizing.
func DefaultVolumes() Volumes {
	return Volumes{Transactions: 500, Refunds: 20, Campaigns: 5}
}

// Fixed value pools.
var (
	paymentMethods    = []string{"card", "cash", "mobile", "credit"}
	customerSegments  = []string{"VIP", "Regular", "New", "Premium"}
	refundReasons     = []string{"Defective", "Not as described", "Customer request", "Wrong item", "Damaged in transit"}
	marketingChannels = []string{"Social Media", "TV", "Radio", "Online Ads", "Email", "Print"}
	campaignNames     = []string{
		"Summer Sale", "Back to School", "Holiday Special", "Black Friday",
		"New Year Promotion", "Spring Collection", "Clearance Event",
	}
)

// The two date layouts a sale or refund date may carry.
const (
	isoDate = "2006-01-02"
	dmyDate = "02/01/2006"
)

// Anomaly tuning.
const (
	duplicateExtraRows = 5
	duplicateReuseRate = 0.05
	blankEmployeeRate  = 0.10
	blankCustomerRate  = 0.15
)

var one = decimal.NewFromInt(1)

// Generator synthesizes months against one reference Set. It owns the
// run-wide transaction and refund counters, so a single Generator must serve
// the whole run.
type Generator struct {
	fake    *gofakeit.Faker
	ref     *refdata.Set
	policy  defect.Policy
	volumes Volumes

	txnSeq *sequence
	refSeq *sequence

	employeesByRegion map[string][]string
}

// NewGenerator returns a Generator drawing from ref with fake.
func NewGenerator(fake *gofakeit.Faker, ref *refdata.Set, policy defect.Policy, volumes Volumes) *Generator {
	byRegion := make(map[string][]string, len(ref.Regions))
	for _, e := range ref.Employees {
		byRegion[e.Region] = append(byRegion[e.Region], e.ID)
	}
	return &Generator{
		fake:              fake,
		ref:               ref,
		policy:            policy,
		volumes:           volumes,
		txnSeq:            newSequence(6),
		refSeq:            newSequence(4),
		employeesByRegion: byRegion,
	}
}

// Generate synthesizes one month. Rows are complete regardless of structural
// anomalies; a suppressed or emptied file still gets full rows here so
// quarterly aggregation sees them.
func (g *Generator) Generate(year, month int) *Data {
	d := &Data{Year: year, Month: month}
	d.Sales = g.sales(year, month)
	d.Inventory = g.inventory()
	d.Refunds = g.refunds(year, month, d.Sales)
	d.Marketing = g.marketing()
	return d
}

// TransactionsMinted returns the run-wide transaction counter.
func (g *Generator) TransactionsMinted() int64 {
	return g.txnSeq.count()
}

// RefundsMinted returns the run-wide refund counter.
func (g *Generator) RefundsMinted() int64 {
	return g.refSeq.count()
}

func (g *Generator) sales(year, month int) []Sale {
	kinds := g.policy.Kinds(year, month, defect.Sales)
	dateFormat := isoDate
	if kinds.Has(defect.AltDateFormat) {
		dateFormat = dmyDate
	}
	blanks := kinds.Has(defect.MissingFields)
	duplicates := kinds.Has(defect.DuplicateTxns)

	total := g.volumes.Transactions
	if duplicates {
		total += duplicateExtraRows
	}

	days := daysIn(year, month)
	prefix := fmt.Sprintf("TXN_%d%02d_", year, month)
	minted := make([]string, 0, total)

	sales := make([]Sale, 0, total)
	for i := 0; i < total; i++ {
		region := g.ref.Regions[g.fake.Number(0, len(g.ref.Regions)-1)]
		date := time.Date(year, time.Month(month), g.fake.Number(1, days), 0, 0, 0, 0, time.UTC)
		product := g.ref.Products[g.fake.Number(0, len(g.ref.Products)-1)]

		units := g.fake.Number(1, 5)
		unitPrice := decimal.NewFromFloat(g.fake.Float64Range(10, 500)).Round(2)
		discount := decimal.NewFromFloat(g.fake.Float64Range(0, 0.3)).Round(2)
		revenue := unitPrice.Mul(decimal.NewFromInt(int64(units))).Mul(one.Sub(discount)).Round(2)

		// Once any id exists, a duplicating month reuses one instead of
		// minting in a small fraction of rows.
		var id string
		if duplicates && len(minted) > 0 && g.fake.Float64Range(0, 1) < duplicateReuseRate {
			id = minted[g.fake.Number(0, len(minted)-1)]
		} else {
			id = g.txnSeq.next(prefix)
			minted = append(minted, id)
		}

		employee := g.employeeIn(region.Code)
		if blanks && g.fake.Float64Range(0, 1) < blankEmployeeRate {
			employee = ""
		}
		customer := fmt.Sprintf("CUST_%d", g.fake.Number(1000, 9999))
		if blanks && g.fake.Float64Range(0, 1) < blankCustomerRate {
			customer = ""
		}

		sales = append(sales, Sale{
			TransactionID: id,
			Date:          date.Format(dateFormat),
			Region:        region.Code,
			StoreID:       g.storeIn(region.Code),
			EmployeeID:    employee,
			ProductID:     product.ID,
			Units:         units,
			UnitPrice:     unitPrice,
			Discount:      discount,
			Revenue:       revenue,
			Payment:       g.fake.RandomString(paymentMethods),
			CustomerID:    customer,
			Segment:       g.fake.RandomString(customerSegments),
		})
	}
	return sales
}

// inventory snapshots every product in every warehouse of every region,
// never a sample, so summaries can count stockouts across the whole estate.
func (g *Generator) inventory() []InventorySnapshot {
	rows := make([]InventorySnapshot, 0, len(g.ref.Products)*len(g.ref.Regions))
	for _, p := range g.ref.Products {
		for _, r := range g.ref.Regions {
			for _, wh := range g.ref.Warehouses[r.Code] {
				start := g.fake.Number(50, 500)
				losses := g.fake.Number(0, 10)
				replenished := g.fake.Number(20, 100)
				rows = append(rows, InventorySnapshot{
					ProductID:   p.ID,
					Region:      r.Code,
					WarehouseID: wh,
					StartStock:  start,
					EndStock:    start - losses + replenished,
					Losses:      losses,
					Replenished: replenished,
				})
			}
		}
	}
	return rows
}

// refunds samples sales from the same month without replacement. A refund
// never predates its sale: a draw before the sale date is pushed 1..15 days
// past it, even across the month boundary.
func (g *Generator) refunds(year, month int, sales []Sale) []Refund {
	if len(sales) == 0 {
		return nil
	}
	kinds := g.policy.Kinds(year, month, defect.Refunds)
	dateFormat := isoDate
	if kinds.Has(defect.AltDateFormat) {
		dateFormat = dmyDate
	}

	days := daysIn(year, month)
	prefix := fmt.Sprintf("REF_%d%02d_", year, month)

	refunds := make([]Refund, 0, g.volumes.Refunds)
	for _, idx := range g.sample(len(sales), min(g.volumes.Refunds, len(sales))) {
		sale := sales[idx]
		refundDate := time.Date(year, time.Month(month), g.fake.Number(1, days), 0, 0, 0, 0, time.UTC)
		saleDate := resolveSaleDate(sale.Date, year, month)
		if refundDate.Before(saleDate) {
			refundDate = saleDate.AddDate(0, 0, g.fake.Number(1, 15))
		}
		units := g.fake.Number(1, sale.Units)
		refunds = append(refunds, Refund{
			ID:            g.refSeq.next(prefix),
			TransactionID: sale.TransactionID,
			Date:          refundDate.Format(dateFormat),
			Region:        sale.Region,
			ProductID:     sale.ProductID,
			Units:         units,
			Amount:        sale.UnitPrice.Mul(decimal.NewFromInt(int64(units))).Round(2),
			Reason:        g.fake.RandomString(refundReasons),
		})
	}
	return refunds
}

func (g *Generator) marketing() []MarketingSpend {
	rows := make([]MarketingSpend, 0, g.volumes.Campaigns)
	for i := 0; i < g.volumes.Campaigns; i++ {
		region := g.ref.Regions[g.fake.Number(0, len(g.ref.Regions)-1)]
		rows = append(rows, MarketingSpend{
			Region:      region.Code,
			Channel:     g.fake.RandomString(marketingChannels),
			Spend:       decimal.NewFromFloat(g.fake.Float64Range(1000, 50000)).Round(2),
			Conversions: g.fake.Number(50, 500),
			Campaign:    g.fake.RandomString(campaignNames),
		})
	}
	return rows
}

func (g *Generator) storeIn(region string) string {
	if ids := g.ref.Stores[region]; len(ids) > 0 {
		return ids[g.fake.Number(0, len(ids)-1)]
	}
	return "STORE_TEMP_" + region
}

func (g *Generator) employeeIn(region string) string {
	if ids := g.employeesByRegion[region]; len(ids) > 0 {
		return ids[g.fake.Number(0, len(ids)-1)]
	}
	return "EMP_TEMP_" + region
}

// sample returns k distinct indices in [0, n).
func (g *Generator) sample(n, k int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	g.fake.ShuffleInts(idx)
	return idx[:k]
}

// resolveSaleDate parses a serialized sale date in either supported layout,
// falling back to the first day of the generation month.
func resolveSaleDate(raw string, year, month int) time.Time {
	if t, err := time.Parse(isoDate, raw); err == nil {
		return t
	}
	if t, err := time.Parse(dmyDate, raw); err == nil {
		return t
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

// daysIn returns the number of days in a month.
func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
