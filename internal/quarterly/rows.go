package quarterly

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Header order for the four quarterly tables.
var (
	FinancialHeader = []string{
		"quarter", "start_date", "end_date", "total_revenue", "total_refunds",
		"net_revenue", "marketing_spend", "profit_estimation",
	}
	RegionalHeader = []string{
		"region", "total_sales", "total_units", "avg_order_value", "top_product", "new_customers", "churn_rate",
	}
	ProductHeader = []string{
		"product_id", "category", "sales_units", "revenue", "returns", "stockouts", "performance_score",
	}
	EmployeeHeader = []string{
		"employee_id", "region", "total_sales", "transactions", "avg_revenue", "absentee_days", "bonus",
	}
)

// FinancialRow is the single-line financial rollup of one quarter.
type FinancialRow struct {
	Quarter        string
	StartDate      string
	EndDate        string
	TotalRevenue   decimal.Decimal
	TotalRefunds   decimal.Decimal
	NetRevenue     decimal.Decimal
	MarketingSpend decimal.Decimal
	Profit         decimal.Decimal
}

// Fields serializes the row in FinancialHeader order.
func (r FinancialRow) Fields() []string {
	return []string{
		r.Quarter,
		r.StartDate,
		r.EndDate,
		r.TotalRevenue.StringFixed(2),
		r.TotalRefunds.StringFixed(2),
		r.NetRevenue.StringFixed(2),
		r.MarketingSpend.StringFixed(2),
		r.Profit.StringFixed(2),
	}
}

// RegionalRow is one region's quarter, present even at zero activity.
type RegionalRow struct {
	Region        string
	TotalSales    decimal.Decimal
	TotalUnits    int
	AvgOrderValue decimal.Decimal
	TopProduct    string
	NewCustomers  int
	ChurnRate     decimal.Decimal
}

// Fields serializes the row in RegionalHeader order.
func (r RegionalRow) Fields() []string {
	return []string{
		r.Region,
		r.TotalSales.StringFixed(2),
		strconv.Itoa(r.TotalUnits),
		r.AvgOrderValue.StringFixed(2),
		r.TopProduct,
		strconv.Itoa(r.NewCustomers),
		r.ChurnRate.StringFixed(3),
	}
}

// ProductRow is one product's quarter, present even at zero activity.
type ProductRow struct {
	ProductID  string
	Category   string
	SalesUnits int
	Revenue    decimal.Decimal
	Returns    int
	Stockouts  int
	Score      decimal.Decimal
}

// Fields serializes the row in ProductHeader order.
func (r ProductRow) Fields() []string {
	return []string{
		r.ProductID,
		r.Category,
		strconv.Itoa(r.SalesUnits),
		r.Revenue.StringFixed(2),
		strconv.Itoa(r.Returns),
		strconv.Itoa(r.Stockouts),
		r.Score.StringFixed(2),
	}
}

// EmployeeRow is one employee's quarter, present even with no attributed
// sales.
type EmployeeRow struct {
	EmployeeID   string
	Region       string
	TotalSales   decimal.Decimal
	Transactions int
	AvgRevenue   decimal.Decimal
	AbsenteeDays int
	Bonus        decimal.Decimal
}

// Fields serializes the row in EmployeeHeader order.
func (r EmployeeRow) Fields() []string {
	return []string{
		r.EmployeeID,
		r.Region,
		r.TotalSales.StringFixed(2),
		strconv.Itoa(r.Transactions),
		r.AvgRevenue.StringFixed(2),
		strconv.Itoa(r.AbsenteeDays),
		r.Bonus.StringFixed(2),
	}
}
