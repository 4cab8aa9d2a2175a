package monthly

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/dwhgen/internal/defect"
	"github.com/example/dwhgen/internal/refdata"
)

func newGenerator(t *testing.T, policy defect.Policy) *Generator {
	t.Helper()
	fake := gofakeit.New(21)
	ref := refdata.NewBuilder(fake, refdata.DefaultCounts()).Build()
	return NewGenerator(fake, ref, policy, DefaultVolumes())
}

func TestGenerateCleanMonth(t *testing.T) {
	g := newGenerator(t, defect.Policy{})
	d := g.Generate(2023, 1)

	require.Len(t, d.Sales, 500)
	require.Len(t, d.Inventory, 50*10*2)
	require.Len(t, d.Refunds, 20)
	require.Len(t, d.Marketing, 5)

	ids := make(map[string]bool)
	for _, s := range d.Sales {
		assert.True(t, strings.HasPrefix(s.TransactionID, "TXN_202301_"), "bad id %s", s.TransactionID)
		assert.False(t, ids[s.TransactionID], "duplicate id %s in clean month", s.TransactionID)
		ids[s.TransactionID] = true

		date, err := time.Parse("2006-01-02", s.Date)
		require.NoError(t, err)
		assert.Equal(t, 2023, date.Year())
		assert.Equal(t, time.January, date.Month())

		assert.GreaterOrEqual(t, s.Units, 1)
		assert.LessOrEqual(t, s.Units, 5)
		assert.NotEmpty(t, s.EmployeeID)
		assert.NotEmpty(t, s.CustomerID)

		want := s.UnitPrice.
			Mul(decimal.NewFromInt(int64(s.Units))).
			Mul(decimal.NewFromInt(1).Sub(s.Discount)).
			Round(2)
		assert.True(t, s.Revenue.Equal(want), "revenue %s != %s", s.Revenue, want)
	}
}

func TestCountersSpanMonths(t *testing.T) {
	g := newGenerator(t, defect.Policy{})

	g.Generate(2023, 1)
	second := g.Generate(2023, 2)

	// The counter keeps going: month two starts where month one stopped.
	assert.Equal(t, "TXN_202302_000501", second.Sales[0].TransactionID)
	assert.Equal(t, int64(1000), g.TransactionsMinted())
	assert.Equal(t, int64(40), g.RefundsMinted())
}

func TestDuplicateTransactions(t *testing.T) {
	policy := defect.New(map[defect.Kind][]defect.Target{
		defect.DuplicateTxns: {{Year: 2023, Month: 4, File: defect.Sales}},
	})
	g := newGenerator(t, policy)
	d := g.Generate(2023, 4)

	require.Len(t, d.Sales, 505)

	distinct := make(map[string]int)
	for _, s := range d.Sales {
		distinct[s.TransactionID]++
	}
	assert.Less(t, len(distinct), len(d.Sales), "expected at least one reused id")
	for id := range distinct {
		assert.True(t, strings.HasPrefix(id, "TXN_202304_"))
	}
}

func TestMissingFields(t *testing.T) {
	policy := defect.New(map[defect.Kind][]defect.Target{
		defect.MissingFields: {{Year: 2023, Month: 6, File: defect.Sales}},
	})
	g := newGenerator(t, policy)
	d := g.Generate(2023, 6)

	blankEmployees, blankCustomers := 0, 0
	for _, s := range d.Sales {
		if s.EmployeeID == "" {
			blankEmployees++
		}
		if s.CustomerID == "" {
			blankCustomers++
		}
	}
	assert.Greater(t, blankEmployees, 0)
	assert.Greater(t, blankCustomers, 0)
	assert.Less(t, blankEmployees, len(d.Sales))
	assert.Less(t, blankCustomers, len(d.Sales))
}

func TestDateFormatVariant(t *testing.T) {
	policy := defect.New(map[defect.Kind][]defect.Target{
		defect.AltDateFormat: {{Year: 2023, Month: 10, File: defect.Sales}},
	})
	g := newGenerator(t, policy)
	d := g.Generate(2023, 10)

	for _, s := range d.Sales {
		date, err := time.Parse("02/01/2006", s.Date)
		require.NoError(t, err, "date %q not in DD/MM/YYYY", s.Date)
		assert.Equal(t, time.October, date.Month())
	}

	// Refunds still resolve the sale date, so they never predate it.
	bySale := salesByID(d.Sales)
	for _, r := range d.Refunds {
		sale := bySale[r.TransactionID]
		require.NotNil(t, sale)
		saleDate, err := time.Parse("02/01/2006", sale.Date)
		require.NoError(t, err)
		refundDate, err := time.Parse("2006-01-02", r.Date)
		require.NoError(t, err)
		assert.False(t, refundDate.Before(saleDate), "refund %s predates sale %s", r.Date, sale.Date)
	}
}

func TestRefunds(t *testing.T) {
	g := newGenerator(t, defect.Policy{})
	d := g.Generate(2023, 1)

	bySale := salesByID(d.Sales)
	seenTxns := make(map[string]bool)
	for i, r := range d.Refunds {
		assert.Equal(t, fmt.Sprintf("REF_202301_%04d", i+1), r.ID)

		sale := bySale[r.TransactionID]
		require.NotNil(t, sale, "refund %s references unknown sale %s", r.ID, r.TransactionID)
		assert.False(t, seenTxns[r.TransactionID], "sale %s refunded twice", r.TransactionID)
		seenTxns[r.TransactionID] = true

		assert.Equal(t, sale.Region, r.Region)
		assert.Equal(t, sale.ProductID, r.ProductID)
		assert.GreaterOrEqual(t, r.Units, 1)
		assert.LessOrEqual(t, r.Units, sale.Units)

		want := sale.UnitPrice.Mul(decimal.NewFromInt(int64(r.Units))).Round(2)
		assert.True(t, r.Amount.Equal(want), "amount %s != %s", r.Amount, want)

		saleDate, err := time.Parse("2006-01-02", sale.Date)
		require.NoError(t, err)
		refundDate, err := time.Parse("2006-01-02", r.Date)
		require.NoError(t, err)
		assert.False(t, refundDate.Before(saleDate))
	}
}

func TestRefundsWithoutSales(t *testing.T) {
	fake := gofakeit.New(21)
	ref := refdata.NewBuilder(fake, refdata.DefaultCounts()).Build()
	g := NewGenerator(fake, ref, defect.Policy{}, Volumes{Transactions: 0, Refunds: 20, Campaigns: 1})

	d := g.Generate(2023, 1)
	assert.Empty(t, d.Sales)
	assert.Empty(t, d.Refunds)
}

func TestRefundsCappedBySales(t *testing.T) {
	fake := gofakeit.New(21)
	ref := refdata.NewBuilder(fake, refdata.DefaultCounts()).Build()
	g := NewGenerator(fake, ref, defect.Policy{}, Volumes{Transactions: 7, Refunds: 20, Campaigns: 1})

	d := g.Generate(2023, 1)
	assert.Len(t, d.Refunds, 7)
}

func TestInventoryStockEquation(t *testing.T) {
	g := newGenerator(t, defect.Policy{})
	d := g.Generate(2024, 2)

	type slot struct{ product, warehouse string }
	seen := make(map[slot]bool)
	for _, inv := range d.Inventory {
		assert.Equal(t, inv.StartStock-inv.Losses+inv.Replenished, inv.EndStock)
		assert.GreaterOrEqual(t, inv.StartStock, 50)
		assert.LessOrEqual(t, inv.StartStock, 500)

		key := slot{inv.ProductID, inv.WarehouseID}
		assert.False(t, seen[key], "duplicate snapshot for %v", key)
		seen[key] = true
	}
	// Exhaustive: every product in every warehouse.
	assert.Len(t, seen, 50*10*2)
}

func TestResolveSaleDate(t *testing.T) {
	iso := resolveSaleDate("2023-05-14", 2023, 5)
	assert.Equal(t, time.Date(2023, 5, 14, 0, 0, 0, 0, time.UTC), iso)

	dmy := resolveSaleDate("14/05/2023", 2023, 5)
	assert.Equal(t, time.Date(2023, 5, 14, 0, 0, 0, 0, time.UTC), dmy)

	fallback := resolveSaleDate("not-a-date", 2023, 5)
	assert.Equal(t, time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC), fallback)
}

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 31, daysIn(2023, 1))
	assert.Equal(t, 28, daysIn(2023, 2))
	assert.Equal(t, 29, daysIn(2024, 2))
	assert.Equal(t, 30, daysIn(2023, 11))
	assert.Equal(t, 31, daysIn(2023, 12))
}

func TestFieldsMatchHeaders(t *testing.T) {
	g := newGenerator(t, defect.Policy{})
	d := g.Generate(2023, 1)

	assert.Len(t, d.Sales[0].Fields(), len(SalesHeader))
	assert.Len(t, d.Inventory[0].Fields(), len(InventoryHeader))
	assert.Len(t, d.Refunds[0].Fields(), len(RefundsHeader))
	assert.Len(t, d.Marketing[0].Fields(), len(MarketingHeader))

	// Money fields serialize with two decimals.
	assert.Regexp(t, `^\d+\.\d{2}$`, d.Sales[0].Fields()[7])
	assert.Regexp(t, `^\d+\.\d{2}$`, d.Marketing[0].Fields()[2])
}

func salesByID(sales []Sale) map[string]*Sale {
	out := make(map[string]*Sale, len(sales))
	for i := range sales {
		out[sales[i].TransactionID] = &sales[i]
	}
	return out
}
