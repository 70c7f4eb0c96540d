package metrics

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"storecli/pkg/contracts/domain"
)

// GroupRow holds the base aggregates of one group and the ratios derived
// from them after aggregation.
type GroupRow struct {
	Key              Key             `json:"key"`
	Sales            decimal.Decimal `json:"sales"`
	Lines            int             `json:"lines"`
	Orders           int             `json:"orders"`
	Customers        int             `json:"customers"`
	SalesPerOrder    Ratio           `json:"sales_per_order"`
	SalesPerCustomer Ratio           `json:"sales_per_customer"`
}

// Rollup sums sales and counts lines, distinct orders and distinct customers
// per group. Per-order and per-customer sales are computed from the group
// totals, never as an average of line values.
func Rollup(ds *Dataset, dims ...Dimension) []GroupRow {
	arenas := partition(ds.all(), dims...)
	rows := make([]GroupRow, 0, len(arenas))
	for _, a := range arenas {
		sales := sumSales(a.lines)
		orders := distinct(a.lines, orderID)
		customers := distinct(a.lines, customerID)
		rows = append(rows, GroupRow{
			Key:              a.key,
			Sales:            sales,
			Lines:            len(a.lines),
			Orders:           orders,
			Customers:        customers,
			SalesPerOrder:    Divide(sales, decimal.NewFromInt(int64(orders))),
			SalesPerCustomer: Divide(sales, decimal.NewFromInt(int64(customers))),
		})
	}
	return rows
}

// AOVRow is the average order value of one group
type AOVRow struct {
	Key    Key             `json:"key"`
	Sales  decimal.Decimal `json:"sales"`
	Orders int             `json:"orders"`
	AOV    Ratio           `json:"aov"`
}

// AverageOrderValue is total sales divided by the number of distinct orders
// per group, so multi-line orders are not over-counted. With no dimensions it
// returns a single row for the whole dataset.
func AverageOrderValue(ds *Dataset, dims ...Dimension) []AOVRow {
	rollup := Rollup(ds, dims...)
	rows := make([]AOVRow, 0, len(rollup))
	for _, r := range rollup {
		rows = append(rows, AOVRow{Key: r.Key, Sales: r.Sales, Orders: r.Orders, AOV: r.SalesPerOrder})
	}
	return rows
}

// MeanGroupSales is the mean of the group sales totals
func MeanGroupSales(rows []GroupRow) Ratio {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Sales)
	}
	return Divide(total, decimal.NewFromInt(int64(len(rows))))
}

// OrderCountRow is the number of distinct orders of one group
type OrderCountRow struct {
	Key    Key `json:"key"`
	Orders int `json:"orders"`
}

// OrderCounts counts distinct orders per group
func OrderCounts(ds *Dataset, dims ...Dimension) []OrderCountRow {
	rollup := Rollup(ds, dims...)
	rows := make([]OrderCountRow, 0, len(rollup))
	for _, r := range rollup {
		rows = append(rows, OrderCountRow{Key: r.Key, Orders: r.Orders})
	}
	return rows
}

// TrendPoint is the sales of one calendar period
type TrendPoint struct {
	Period string          `json:"period"`
	Sales  decimal.Decimal `json:"sales"`
	Orders int             `json:"orders"`
}

// SalesTrend returns sales per period of a calendar dimension in
// chronological order.
func SalesTrend(ds *Dataset, dim Dimension) ([]TrendPoint, error) {
	if !dim.Temporal() {
		return nil, fmt.Errorf("sales trend by %s: %w", dim, ErrNotTemporal)
	}

	rollup := Rollup(ds, dim)
	points := make([]TrendPoint, 0, len(rollup))
	for _, r := range rollup {
		points = append(points, TrendPoint{Period: r.Key[0], Sales: r.Sales, Orders: r.Orders})
	}
	return points, nil
}

// RankedRow is one group in a sales ranking. Rank is the 1-based position in
// the descending order of all groups.
type RankedRow struct {
	Rank  int             `json:"rank"`
	Key   string          `json:"key"`
	Sales decimal.Decimal `json:"sales"`
}

// rank orders every group by sales descending, then key ascending
func rank(ds *Dataset, dim Dimension) []RankedRow {
	rollup := Rollup(ds, dim)
	rows := make([]RankedRow, 0, len(rollup))
	for _, r := range rollup {
		rows = append(rows, RankedRow{Key: r.Key[0], Sales: r.Sales})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if c := rows[i].Sales.Cmp(rows[j].Sales); c != 0 {
			return c > 0
		}
		return rows[i].Key < rows[j].Key
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// TopN returns the n groups with the highest sales, best first. Equal sales
// are ordered by key.
func TopN(ds *Dataset, dim Dimension, n int) []RankedRow {
	if n <= 0 {
		return []RankedRow{}
	}
	rows := rank(ds, dim)
	if n > len(rows) {
		n = len(rows)
	}
	return rows[:n]
}

// BottomN returns the n groups with the lowest sales, worst first. It reads
// the same ordering as TopN from the other end, so the two selections are
// disjoint whenever there are at least 2n groups. Equal sales at the cutoff
// therefore resolve to the largest keys.
func BottomN(ds *Dataset, dim Dimension, n int) []RankedRow {
	if n <= 0 {
		return []RankedRow{}
	}
	rows := rank(ds, dim)
	if n > len(rows) {
		n = len(rows)
	}
	out := make([]RankedRow, 0, n)
	for i := len(rows) - 1; i >= len(rows)-n; i-- {
		out = append(out, rows[i])
	}
	return out
}

func sumSales(lines []domain.OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Sales)
	}
	return total
}
