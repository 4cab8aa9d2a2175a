// Package refdata builds the master reference tables every other part of the
// dataset points into: the product catalog, regions and employees, plus the
// store and warehouse pools used as foreign keys by sales and inventory rows.
//
// Reference data is built once per run and never mutated afterwards, so ids
// stay stable across every month and quarter.
package refdata

import (
	"fmt"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
)

// Header order for the three serialized reference tables.
var (
	ProductHeader  = []string{"product_id", "category", "subcategory", "brand", "launch_date", "is_active"}
	RegionHeader   = []string{"region_code", "region_name", "timezone", "currency", "tax_rate"}
	EmployeeHeader = []string{"employee_id", "name", "role", "region", "hire_date", "is_active"}
)

// Counts sizes the reference pools.
type Counts struct {
	Products            int
	Regions             int
	Employees           int
	StoresPerRegion     int
	WarehousesPerRegion int
}

// DefaultCounts returns the standard dataset sizing.
func DefaultCounts() Counts {
	return Counts{
		Products:            50,
		Regions:             10,
		Employees:           30,
		StoresPerRegion:     3,
		WarehousesPerRegion: 2,
	}
}

// Product is one catalog entry.
type Product struct {
	ID          string
	Category    string
	Subcategory string
	Brand       string
	LaunchDate  string
	Active      bool
}

// Region is one sales region.
type Region struct {
	Code     string
	Name     string
	Timezone string
	Currency string
	TaxRate  decimal.Decimal
}

// Employee is one staff member tied to a region.
type Employee struct {
	ID       string
	Name     string
	Role     string
	Region   string
	HireDate string
	Active   bool
}

// Set holds every master entity for one run. Stores and Warehouses map a
// region code to its facility ids; they are referenced by transactional rows
// but never serialized themselves.
type Set struct {
	Products   []Product
	Regions    []Region
	Employees  []Employee
	Stores     map[string][]string
	Warehouses map[string][]string
}

// ProductRecords serializes the catalog in ProductHeader order.
func (s *Set) ProductRecords() [][]string {
	out := make([][]string, len(s.Products))
	for i, p := range s.Products {
		out[i] = []string{p.ID, p.Category, p.Subcategory, p.Brand, p.LaunchDate, strconv.FormatBool(p.Active)}
	}
	return out
}

// RegionRecords serializes the regions in RegionHeader order.
func (s *Set) RegionRecords() [][]string {
	out := make([][]string, len(s.Regions))
	for i, r := range s.Regions {
		out[i] = []string{r.Code, r.Name, r.Timezone, r.Currency, r.TaxRate.StringFixed(3)}
	}
	return out
}

// EmployeeRecords serializes the employees in EmployeeHeader order.
func (s *Set) EmployeeRecords() [][]string {
	out := make([][]string, len(s.Employees))
	for i, e := range s.Employees {
		out[i] = []string{e.ID, e.Name, e.Role, e.Region, e.HireDate, strconv.FormatBool(e.Active)}
	}
	return out
}

// Fixed value pools. Region attributes are parallel by index; counts beyond
// a pool are truncated to the pool size.
var productCategories = []struct {
	Name          string
	Subcategories []string
}{
	{"Electronics", []string{"Phones", "Laptops", "Tablets", "Accessories"}},
	{"Clothing", []string{"Men", "Women", "Kids", "Sportswear"}},
	{"Food", []string{"Beverages", "Snacks", "Dairy", "Frozen"}},
	{"Home", []string{"Furniture", "Decor", "Kitchen", "Bathroom"}},
	{"Books", []string{"Fiction", "Non-Fiction", "Children", "Technical"}},
}

var productBrands = []string{"BrandA", "BrandB", "BrandC", "BrandD", "BrandE"}

var regionPool = []struct {
	Name     string
	Timezone string
	Currency string
}{
	{"North America", "UTC-5", "USD"},
	{"South America", "UTC-3", "BRL"},
	{"Europe", "UTC+1", "EUR"},
	{"Asia Pacific", "UTC+8", "CNY"},
	{"Middle East", "UTC+3", "AED"},
	{"Africa", "UTC+2", "ZAR"},
	{"Central Asia", "UTC+6", "KZT"},
	{"Oceania", "UTC+10", "AUD"},
	{"Eastern Europe", "UTC+2", "PLN"},
	{"Scandinavia", "UTC+1", "SEK"},
}

var employeeNames = []string{
	"John Smith", "Maria Garcia", "David Lee", "Sarah Johnson", "Michael Brown",
	"Emily Davis", "James Wilson", "Jessica Martinez", "Robert Taylor", "Amanda Anderson",
	"William Thomas", "Jennifer Jackson", "Richard White", "Lisa Harris", "Joseph Martin",
	"Nancy Thompson", "Charles Garcia", "Karen Martinez", "Thomas Robinson", "Betty Clark",
	"Daniel Rodriguez", "Helen Lewis", "Matthew Walker", "Sandra Hall", "Anthony Allen",
	"Donna Young", "Mark King", "Carol Wright", "Paul Lopez", "Michelle Hill",
}

var employeeRoles = []string{"Sales Associate", "Store Manager", "Cashier", "Sales Lead", "Supervisor"}

// Launch and hire date windows.
var (
	launchEpoch = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	hireEpoch   = time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
)

const dateLayout = "2006-01-02"

// Builder assembles a Set from the fixed pools using the session faker.
type Builder struct {
	fake   *gofakeit.Faker
	counts Counts
}

// NewBuilder returns a Builder producing counts-sized pools.
func NewBuilder(fake *gofakeit.Faker, counts Counts) *Builder {
	return &Builder{fake: fake, counts: counts}
}

// Build synthesizes all master entities.
func (b *Builder) Build() *Set {
	set := &Set{
		Products: b.products(),
		Regions:  b.regions(),
	}
	set.Employees = b.employees(set.Regions)
	set.Stores = b.facilities(set.Regions, b.counts.StoresPerRegion, "STORE_%03d")
	set.Warehouses = b.facilities(set.Regions, b.counts.WarehousesPerRegion, "WH_%03d")
	return set
}

// products walks every category/subcategory combination in pool order,
// spreading the requested count evenly across combinations.
func (b *Builder) products() []Product {
	combos := 0
	for _, c := range productCategories {
		combos += len(c.Subcategories)
	}
	perCombo := b.counts.Products/combos + 1

	products := make([]Product, 0, b.counts.Products)
	for _, cat := range productCategories {
		for _, sub := range cat.Subcategories {
			for i := 0; i < perCombo; i++ {
				if len(products) == b.counts.Products {
					return products
				}
				launch := launchEpoch.AddDate(0, 0, b.fake.Number(0, 1000))
				products = append(products, Product{
					ID:          fmt.Sprintf("PROD_%03d", len(products)+1),
					Category:    cat.Name,
					Subcategory: sub,
					Brand:       b.fake.RandomString(productBrands),
					LaunchDate:  launch.Format(dateLayout),
					Active:      b.fake.Bool(),
				})
			}
		}
	}
	return products
}

func (b *Builder) regions() []Region {
	n := min(b.counts.Regions, len(regionPool))
	regions := make([]Region, 0, n)
	for i := 0; i < n; i++ {
		p := regionPool[i]
		regions = append(regions, Region{
			Code:     fmt.Sprintf("REG_%02d", i+1),
			Name:     p.Name,
			Timezone: p.Timezone,
			Currency: p.Currency,
			TaxRate:  decimal.NewFromFloat(b.fake.Float64Range(0.05, 0.25)).Round(3),
		})
	}
	return regions
}

// employees guarantees at least one employee per region before the remainder
// is spread randomly.
func (b *Builder) employees(regions []Region) []Employee {
	n := min(b.counts.Employees, len(employeeNames))
	employees := make([]Employee, 0, n)
	for i := 0; i < n; i++ {
		var region string
		switch {
		case i < len(regions):
			region = regions[i].Code
		case len(regions) > 0:
			region = regions[b.fake.Number(0, len(regions)-1)].Code
		}
		hire := hireEpoch.AddDate(0, 0, b.fake.Number(0, 2000))
		employees = append(employees, Employee{
			ID:       fmt.Sprintf("EMP_%03d", i+1),
			Name:     employeeNames[i],
			Role:     b.fake.RandomString(employeeRoles),
			Region:   region,
			HireDate: hire.Format(dateLayout),
			Active:   b.fake.Bool(),
		})
	}
	return employees
}

// facilities numbers ids sequentially across regions so no two regions share
// a store or warehouse.
func (b *Builder) facilities(regions []Region, perRegion int, format string) map[string][]string {
	out := make(map[string][]string, len(regions))
	id := 1
	for _, r := range regions {
		ids := make([]string, 0, perRegion)
		for i := 0; i < perRegion; i++ {
			ids = append(ids, fmt.Sprintf(format, id))
			id++
		}
		out[r.Code] = ids
	}
	return out
}
