package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Canonical field names of a raw order-line row after header normalization.
const (
	FieldRowID        = "row_id"
	FieldOrderID      = "order_id"
	FieldOrderDate    = "order_date"
	FieldShipDate     = "ship_date"
	FieldShipMode     = "ship_mode"
	FieldCustomerID   = "customer_id"
	FieldCustomerName = "customer_name"
	FieldSegment      = "segment"
	FieldCountry      = "country"
	FieldCity         = "city"
	FieldState        = "state"
	FieldPostalCode   = "postal_code"
	FieldRegion       = "region"
	FieldProductID    = "product_id"
	FieldCategory     = "category"
	FieldSubCategory  = "sub_category"
	FieldProductName  = "product_name"
	FieldSales        = "sales"
)

// RequiredFields lists the fields every accepted order line must carry.
var RequiredFields = []string{
	FieldOrderID,
	FieldCustomerID,
	FieldOrderDate,
	FieldShipDate,
	FieldSegment,
	FieldRegion,
	FieldState,
	FieldCity,
	FieldCategory,
	FieldSubCategory,
	FieldProductName,
	FieldSales,
	FieldShipMode,
}

// DroppedFields have no analytical role and never leave the cleaner.
var DroppedFields = []string{
	FieldRowID,
	FieldCustomerName,
	FieldPostalCode,
	FieldCountry,
	FieldProductID,
}

// RawRecord is one parsed source row keyed by canonical field name.
// Malformed holds the parse error of a row the reader could not split into
// fields; such a record carries no fields.
type RawRecord struct {
	Line      int               `json:"line"`
	Fields    map[string]string `json:"fields"`
	Malformed string            `json:"malformed,omitempty"`
}

// Get returns the value of a field and whether it was present in the row.
func (r RawRecord) Get(field string) (string, bool) {
	v, ok := r.Fields[field]
	return v, ok
}

// MonthPeriod is a calendar month of a specific year.
type MonthPeriod struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// String formats the period as YYYY-MM, which sorts chronologically.
func (p MonthPeriod) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Before reports whether p is an earlier month than o.
func (p MonthPeriod) Before(o MonthPeriod) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Month < o.Month
}

// Calendar holds the calendar features derived from an order date.
type Calendar struct {
	Month       MonthPeriod `json:"month"`
	Quarter     int         `json:"quarter"`
	Year        int         `json:"year"`
	YearQuarter string      `json:"year_quarter"`
}

// IsZero reports whether the calendar has not been derived yet.
func (c Calendar) IsZero() bool {
	return c.Year == 0 && c.Quarter == 0
}

// OrderLine is one validated product row within an order.
type OrderLine struct {
	OrderID     string          `json:"order_id"`
	CustomerID  string          `json:"customer_id"`
	OrderDate   time.Time       `json:"order_date"`
	ShipDate    time.Time       `json:"ship_date"`
	Segment     string          `json:"segment"`
	Region      string          `json:"region"`
	State       string          `json:"state"`
	City        string          `json:"city"`
	Category    string          `json:"category"`
	SubCategory string          `json:"sub_category"`
	ProductName string          `json:"product_name"`
	Sales       decimal.Decimal `json:"sales"`
	ShipMode    string          `json:"ship_mode"`

	// Derived by the temporal enricher
	Calendar        Calendar `json:"calendar"`
	FulfillmentDays int      `json:"fulfillment_days"`
}
