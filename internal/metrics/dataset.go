package metrics

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"storecli/internal/temporal"
	"storecli/pkg/contracts/domain"
)

// Dimension is an attribute order lines can be grouped by
type Dimension string

const (
	DimCustomer    Dimension = "customer"
	DimSegment     Dimension = "segment"
	DimRegion      Dimension = "region"
	DimState       Dimension = "state"
	DimCity        Dimension = "city"
	DimCategory    Dimension = "category"
	DimSubCategory Dimension = "sub_category"
	DimProduct     Dimension = "product"
	DimYear        Dimension = "year"
	DimMonth       Dimension = "month"
	DimQuarter     Dimension = "quarter"
	DimYearQuarter Dimension = "year_quarter"
	DimShipMode    Dimension = "ship_mode"
)

// Dimensions lists every supported dimension
var Dimensions = []Dimension{
	DimCustomer, DimSegment, DimRegion, DimState, DimCity, DimCategory,
	DimSubCategory, DimProduct, DimYear, DimMonth, DimQuarter, DimYearQuarter,
	DimShipMode,
}

// ParseDimension resolves a dimension by name
func ParseDimension(s string) (Dimension, error) {
	d := Dimension(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Dimensions {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown dimension %q", s)
}

// Temporal reports whether the dimension is a calendar period. Values of
// temporal dimensions sort chronologically as strings.
func (d Dimension) Temporal() bool {
	switch d {
	case DimYear, DimMonth, DimQuarter, DimYearQuarter:
		return true
	}
	return false
}

// Value extracts the dimension value of a line
func (d Dimension) Value(l domain.OrderLine) string {
	switch d {
	case DimCustomer:
		return l.CustomerID
	case DimSegment:
		return l.Segment
	case DimRegion:
		return l.Region
	case DimState:
		return l.State
	case DimCity:
		return l.City
	case DimCategory:
		return l.Category
	case DimSubCategory:
		return l.SubCategory
	case DimProduct:
		return l.ProductName
	case DimYear:
		return strconv.Itoa(l.Calendar.Year)
	case DimMonth:
		return l.Calendar.Month.String()
	case DimQuarter:
		return "Q" + strconv.Itoa(l.Calendar.Quarter)
	case DimYearQuarter:
		return l.Calendar.YearQuarter
	case DimShipMode:
		return l.ShipMode
	}
	return ""
}

// Key is the ordered tuple of dimension values identifying a group
type Key []string

func (k Key) String() string {
	return strings.Join(k, " / ")
}

// Less orders keys element by element, lexicographically
func (k Key) Less(o Key) bool {
	for i := 0; i < len(k) && i < len(o); i++ {
		if k[i] != o[i] {
			return k[i] < o[i]
		}
	}
	return len(k) < len(o)
}

// Dataset is an immutable set of enriched order lines
type Dataset struct {
	lines []domain.OrderLine
}

// NewDataset copies lines into a dataset. Lines without calendar features are
// enriched on the way in.
func NewDataset(lines []domain.OrderLine) *Dataset {
	out := make([]domain.OrderLine, len(lines))
	for i, l := range lines {
		if l.Calendar.IsZero() {
			l.Calendar = temporal.Derive(l.OrderDate)
			l.FulfillmentDays = temporal.FulfillmentDays(l.OrderDate, l.ShipDate)
		}
		out[i] = l
	}
	return &Dataset{lines: out}
}

// Len returns the number of lines
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.lines)
}

// Lines returns a copy of the lines
func (d *Dataset) Lines() []domain.OrderLine {
	out := make([]domain.OrderLine, d.Len())
	if d != nil {
		copy(out, d.lines)
	}
	return out
}

// Filter returns the lines for which keep returns true
func (d *Dataset) Filter(keep func(domain.OrderLine) bool) *Dataset {
	var out []domain.OrderLine
	for _, l := range d.all() {
		if keep(l) {
			out = append(out, l)
		}
	}
	return &Dataset{lines: out}
}

// Where keeps lines whose dimension value equals value
func (d *Dataset) Where(dim Dimension, value string) *Dataset {
	return d.Filter(func(l domain.OrderLine) bool { return dim.Value(l) == value })
}

// Between keeps lines ordered on or after from and on or before to
func (d *Dataset) Between(from, to time.Time) *Dataset {
	from, to = temporal.Day(from), temporal.Day(to)
	return d.Filter(func(l domain.OrderLine) bool {
		day := temporal.Day(l.OrderDate)
		return !day.Before(from) && !day.After(to)
	})
}

func (d *Dataset) all() []domain.OrderLine {
	if d == nil {
		return nil
	}
	return d.lines
}

// arena holds the lines of one group
type arena struct {
	key   Key
	lines []domain.OrderLine
}

// partition groups lines by the given dimensions. Arenas come back sorted by
// key and keep the input order of their lines. With no dimensions every line
// lands in a single arena with an empty key.
func partition(lines []domain.OrderLine, dims ...Dimension) []arena {
	index := make(map[string]int)
	var arenas []arena

	for _, l := range lines {
		key := make(Key, len(dims))
		for i, dim := range dims {
			key[i] = dim.Value(l)
		}
		id := strings.Join(key, "\x00")

		i, ok := index[id]
		if !ok {
			i = len(arenas)
			index[id] = i
			arenas = append(arenas, arena{key: key})
		}
		arenas[i].lines = append(arenas[i].lines, l)
	}

	sort.Slice(arenas, func(i, j int) bool { return arenas[i].key.Less(arenas[j].key) })
	return arenas
}

// distinct counts the distinct values of f over lines
func distinct(lines []domain.OrderLine, f func(domain.OrderLine) string) int {
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		seen[f(l)] = struct{}{}
	}
	return len(seen)
}

func orderID(l domain.OrderLine) string    { return l.OrderID }
func customerID(l domain.OrderLine) string { return l.CustomerID }
