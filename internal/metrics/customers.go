package metrics

import (
	"fmt"
	"sort"

	apperrors "storecli/internal/errors"
	"storecli/internal/temporal"
	"storecli/pkg/contracts/domain"
)

// RetentionSummary is the share of customers who bought on more than one day
type RetentionSummary struct {
	Customers int   `json:"customers"`
	Retained  int   `json:"retained"`
	Rate      Ratio `json:"rate_pct"`
}

// Retention counts a customer as retained once they have two distinct order
// dates, whatever the number of orders on each date.
func Retention(ds *Dataset) RetentionSummary {
	var s RetentionSummary
	for _, a := range partition(ds.all(), DimCustomer) {
		s.Customers++
		if distinct(a.lines, orderDay) >= 2 {
			s.Retained++
		}
	}
	s.Rate = DivideInts(s.Retained, s.Customers).Percent()
	return s
}

// MonthCount is a count attached to a calendar month
type MonthCount struct {
	Month     string `json:"month"`
	Customers int    `json:"customers"`
}

// RepeatOrdersByMonth counts, per month, the customers who placed two or more
// distinct orders within that same month. Months without such a customer are
// omitted.
func RepeatOrdersByMonth(ds *Dataset) []MonthCount {
	counts := make(map[string]int)
	for _, a := range partition(ds.all(), DimCustomer, DimMonth) {
		if distinct(a.lines, orderID) > 1 {
			counts[a.key[1]]++
		}
	}

	out := make([]MonthCount, 0, len(counts))
	for month, n := range counts {
		out = append(out, MonthCount{Month: month, Customers: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// CustomerGaps holds the day differences between consecutive lines of one
// customer. Span is the number of days from first to last order.
type CustomerGaps struct {
	CustomerID string `json:"customer_id"`
	Gaps       []int  `json:"gaps"`
	Span       int    `json:"span_days"`
	Mean       Ratio  `json:"mean_days"`
}

// GapSummary is the inter-order gap over all customers
type GapSummary struct {
	Gaps      int            `json:"gaps"`
	Mean      Ratio          `json:"mean_days"`
	Customers []CustomerGaps `json:"customers"`
}

// InterOrderGaps sorts each customer's lines by order date (order id breaks
// ties) and takes consecutive differences in days. Lines on the same day
// contribute a zero gap. A customer with a single line contributes nothing.
func InterOrderGaps(ds *Dataset) GapSummary {
	summary := GapSummary{Customers: []CustomerGaps{}}
	total := 0

	for _, a := range partition(ds.all(), DimCustomer) {
		gaps := consecutiveGaps(a.lines)
		if len(gaps) == 0 {
			continue
		}
		sum := sumInts(gaps)
		summary.Customers = append(summary.Customers, CustomerGaps{
			CustomerID: a.key[0],
			Gaps:       gaps,
			Span:       sum,
			Mean:       DivideInts(sum, len(gaps)),
		})
		summary.Gaps += len(gaps)
		total += sum
	}

	summary.Mean = DivideInts(total, summary.Gaps)
	return summary
}

// SegmentGap is the mean inter-order gap of one segment
type SegmentGap struct {
	Segment string `json:"segment"`
	Gaps    int    `json:"gaps"`
	Mean    Ratio  `json:"mean_days"`
}

// InterOrderGapsBySegment runs the gap fold per (segment, customer) and
// averages the gaps per segment. A segment whose customers all have a single
// line reports an undefined mean.
func InterOrderGapsBySegment(ds *Dataset) []SegmentGap {
	segments := partition(ds.all(), DimSegment)
	out := make([]SegmentGap, 0, len(segments))
	for _, seg := range segments {
		row := SegmentGap{Segment: seg.key[0]}
		total := 0
		for _, cust := range partition(seg.lines, DimCustomer) {
			gaps := consecutiveGaps(cust.lines)
			row.Gaps += len(gaps)
			total += sumInts(gaps)
		}
		row.Mean = DivideInts(total, row.Gaps)
		out = append(out, row)
	}
	return out
}

func consecutiveGaps(lines []domain.OrderLine) []int {
	if len(lines) < 2 {
		return nil
	}
	sorted := make([]domain.OrderLine, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := temporal.Day(sorted[i].OrderDate), temporal.Day(sorted[j].OrderDate)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return sorted[i].OrderID < sorted[j].OrderID
	})

	gaps := make([]int, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		gaps = append(gaps, temporal.DaysBetween(sorted[i-1].OrderDate, sorted[i].OrderDate))
	}
	return gaps
}

// YearCustomers counts first-time and total distinct customers of a year
type YearCustomers struct {
	Year  int `json:"year"`
	New   int `json:"new_customers"`
	Total int `json:"total_customers"`
}

// CustomersByYear reports, per order year, the customers whose earliest order
// in the whole dataset falls in that year and all distinct customers active
// in that year.
func CustomersByYear(ds *Dataset) []YearCustomers {
	firstYear := make(map[string]int)
	active := make(map[int]map[string]struct{})

	for _, l := range ds.all() {
		y := l.Calendar.Year
		if first, ok := firstYear[l.CustomerID]; !ok || y < first {
			firstYear[l.CustomerID] = y
		}
		if active[y] == nil {
			active[y] = make(map[string]struct{})
		}
		active[y][l.CustomerID] = struct{}{}
	}

	newByYear := make(map[int]int)
	for _, y := range firstYear {
		newByYear[y]++
	}

	out := make([]YearCustomers, 0, len(active))
	for y, customers := range active {
		out = append(out, YearCustomers{Year: y, New: newByYear[y], Total: len(customers)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// GrowthRate is (total customers in targetYear - total customers in baseYear)
// divided by new customers in baseYear, in percent. A year without orders has
// zero customers. It fails with ErrNoBaselineCustomers when baseYear has no
// new customers.
func GrowthRate(ds *Dataset, baseYear, targetYear int) (Ratio, error) {
	var base, target YearCustomers
	for _, yc := range CustomersByYear(ds) {
		switch yc.Year {
		case baseYear:
			base = yc
		case targetYear:
			target = yc
		}
	}
	if baseYear == targetYear {
		target = base
	}

	if base.New == 0 {
		return Undefined(), apperrors.NewUndefinedRatioError(
			fmt.Sprintf("customer growth rate %d to %d", baseYear, targetYear),
			ErrNoBaselineCustomers).
			WithContext("base_year", baseYear).
			WithContext("target_year", targetYear)
	}

	return DivideInts(target.Total-base.Total, base.New).Percent(), nil
}

func orderDay(l domain.OrderLine) string {
	return temporal.Day(l.OrderDate).Format("2006-01-02")
}

func sumInts(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}
