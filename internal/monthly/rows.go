package monthly

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Header order for the four monthly tables.
var (
	SalesHeader = []string{
		"transaction_id", "date", "region", "store_id", "employee_id", "product_id",
		"units", "unit_price", "discount", "revenue", "payment", "customer_id", "customer_segment",
	}
	InventoryHeader = []string{
		"product_id", "region", "warehouse_id", "start_stock", "end_stock", "stock_losses", "stock_replenished",
	}
	RefundsHeader = []string{
		"refund_id", "transaction_id", "refund_date", "region", "product_id", "units", "refund_amount", "reason",
	}
	MarketingHeader = []string{"region", "channel", "spend", "conversions", "campaign_name"}
)

// Sale is one register transaction. Date keeps its serialized form because
// the active date format is a property of the generated month; refund
// generation parses it back.
type Sale struct {
	TransactionID string
	Date          string
	Region        string
	StoreID       string
	EmployeeID    string // blank when the month blanks fields
	ProductID     string
	Units         int
	UnitPrice     decimal.Decimal
	Discount      decimal.Decimal
	Revenue       decimal.Decimal
	Payment       string
	CustomerID    string // blank when the month blanks fields
	Segment       string
}

// Fields serializes the sale in SalesHeader order.
func (s Sale) Fields() []string {
	return []string{
		s.TransactionID,
		s.Date,
		s.Region,
		s.StoreID,
		s.EmployeeID,
		s.ProductID,
		strconv.Itoa(s.Units),
		s.UnitPrice.StringFixed(2),
		s.Discount.StringFixed(2),
		s.Revenue.StringFixed(2),
		s.Payment,
		s.CustomerID,
		s.Segment,
	}
}

// InventorySnapshot is the month-end stock position of one product in one
// warehouse.
type InventorySnapshot struct {
	ProductID   string
	Region      string
	WarehouseID string
	StartStock  int
	EndStock    int
	Losses      int
	Replenished int
}

// Fields serializes the snapshot in InventoryHeader order.
func (r InventorySnapshot) Fields() []string {
	return []string{
		r.ProductID,
		r.Region,
		r.WarehouseID,
		strconv.Itoa(r.StartStock),
		strconv.Itoa(r.EndStock),
		strconv.Itoa(r.Losses),
		strconv.Itoa(r.Replenished),
	}
}

// Refund is a partial or full return of one sale from the same month.
type Refund struct {
	ID            string
	TransactionID string
	Date          string
	Region        string
	ProductID     string
	Units         int
	Amount        decimal.Decimal
	Reason        string
}

// Fields serializes the refund in RefundsHeader order.
func (r Refund) Fields() []string {
	return []string{
		r.ID,
		r.TransactionID,
		r.Date,
		r.Region,
		r.ProductID,
		strconv.Itoa(r.Units),
		r.Amount.StringFixed(2),
		r.Reason,
	}
}

// MarketingSpend is one campaign line, independent of sales and refunds.
type MarketingSpend struct {
	Region      string
	Channel     string
	Spend       decimal.Decimal
	Conversions int
	Campaign    string
}

// Fields serializes the campaign in MarketingHeader order.
func (m MarketingSpend) Fields() []string {
	return []string{
		m.Region,
		m.Channel,
		m.Spend.StringFixed(2),
		strconv.Itoa(m.Conversions),
		m.Campaign,
	}
}

// Data is one generated month: the cache value quarterly aggregation reads
// and the runner serializes. Rows are always complete here; structural
// anomalies only affect the files.
type Data struct {
	Year      int
	Month     int
	Sales     []Sale
	Inventory []InventorySnapshot
	Refunds   []Refund
	Marketing []MarketingSpend
}
