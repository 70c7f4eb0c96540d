package exporter

import (
	"strings"

	"storecli/internal/cleaning"
	"storecli/internal/metrics"
	"storecli/internal/report"
)

// Table is one flat result table of a report
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Table names
const (
	TableSummary                 = "summary"
	TableRejections              = "rejections"
	TableRejectionSamples        = "rejection_samples"
	TableRepeatOrdersByMonth     = "repeat_orders_by_month"
	TableInterOrderGaps          = "inter_order_gaps"
	TableInterOrderGapsBySegment = "inter_order_gaps_by_segment"
	TableCustomersByYear         = "customers_by_year"
	TableAOVByYear               = "aov_by_year"
	TableAOVBySegment            = "aov_by_segment"
	TableSegments                = "segments"
	TableRegionSegments          = "region_segments"
	TableRegions                 = "regions"
	TableCategories              = "categories"
	TableSubCategories           = "sub_categories"
	TableStates                  = "states"
	TableTrendYearly             = "sales_trend_yearly"
	TableTrendMonthly            = "sales_trend_monthly"
	TableTrendQuarterly          = "sales_trend_quarterly"
	TableTrendYearQuarter        = "sales_trend_year_quarter"
	TableTopProducts             = "top_products"
	TableBottomProducts          = "bottom_products"
	TableTopCities               = "top_cities"
	TableBottomCities            = "bottom_cities"
	TableLatencyByRegion         = "latency_by_region"
	TableLatencyByShipMode       = "latency_by_ship_mode"
	TableOrdersByRegionShipMode  = "orders_by_region_ship_mode"
	TableOrdersBySegmentShipMode = "orders_by_segment_ship_mode"
)

var groupMeasures = []string{"sales", "lines", "orders", "customers", "sales_per_order", "sales_per_customer"}

// Tables flattens a report into its result tables, in a fixed order
func Tables(r *report.Report) []Table {
	return []Table{
		summaryTable(r),
		rejectionsTable(r.Rejections),
		rejectionSamplesTable(r.Rejections),
		repeatOrdersTable(r.RepeatOrders),
		gapsTable(r.Gaps),
		segmentGapsTable(r.SegmentGaps),
		customersByYearTable(r.CustomersByYear),
		aovTable(TableAOVByYear, "year", r.AOVByYear),
		aovTable(TableAOVBySegment, "segment", r.AOVBySegment),
		groupTable(TableSegments, []string{"segment"}, r.Segments),
		groupTable(TableRegionSegments, []string{"region", "segment"}, r.RegionSegments),
		groupTable(TableRegions, []string{"region"}, r.Regions),
		groupTable(TableCategories, []string{"category"}, r.Categories),
		viewTable(TableSubCategories, "sub_category", r.SubCategories),
		viewTable(TableStates, "state", r.States),
		trendTable(TableTrendYearly, r.Trends.Yearly),
		trendTable(TableTrendMonthly, r.Trends.Monthly),
		trendTable(TableTrendQuarterly, r.Trends.Quarterly),
		trendTable(TableTrendYearQuarter, r.Trends.YearQuarter),
		rankedTable(TableTopProducts, "product", r.Rankings.TopProducts),
		rankedTable(TableBottomProducts, "product", r.Rankings.BottomProducts),
		rankedTable(TableTopCities, "city", r.Rankings.TopCities),
		rankedTable(TableBottomCities, "city", r.Rankings.BottomCities),
		latencyTable(TableLatencyByRegion, "region", r.Latency.ByRegion),
		latencyTable(TableLatencyByShipMode, "ship_mode", r.Latency.ByShipMode),
		orderCountTable(TableOrdersByRegionShipMode, []string{"region", "ship_mode"}, r.OrdersByRegionShipMode),
		orderCountTable(TableOrdersBySegmentShipMode, []string{"segment", "ship_mode"}, r.OrdersBySegmentShipMode),
	}
}

func summaryTable(r *report.Report) Table {
	overallAOV := metrics.Undefined()
	if len(r.AOV) > 0 {
		overallAOV = r.AOV[0].AOV
	}
	d := r.Distribution

	rows := [][]string{
		{"run_id", r.RunID},
		{"generated_at", r.GeneratedAt.Format("2006-01-02T15:04:05Z07:00")},
		{"rows_total", formatInt(r.Rejections.Total)},
		{"rows_accepted", formatInt(r.Rejections.Accepted)},
		{"rows_rejected", formatInt(r.Rejections.Rejected)},
		{"customers", formatInt(r.Retention.Customers)},
		{"retained_customers", formatInt(r.Retention.Retained)},
		{"retention_rate_pct", formatRatio(r.Retention.Rate)},
		{"mean_inter_order_gap_days", formatRatio(r.Gaps.Mean)},
		{"growth_base_year", formatInt(r.Growth.BaseYear)},
		{"growth_target_year", formatInt(r.Growth.TargetYear)},
		{"customer_growth_rate_pct", formatRatio(r.Growth.Rate)},
		{"average_order_value", formatRatio(overallAOV)},
		{"mean_fulfillment_days", formatRatio(r.Latency.Overall)},
		{"sales_count", formatInt(d.Count)},
		{"sales_total", formatDecimal(d.Total)},
		{"sales_mean", formatRatio(d.Mean)},
		{"sales_median", formatRatio(d.Median)},
		{"sales_min", formatRatio(d.Min)},
		{"sales_max", formatRatio(d.Max)},
		{"sales_std_dev", formatRatio(d.StdDev)},
		{"sales_skewness", formatRatio(d.Skewness)},
	}
	if r.Growth.Error != "" {
		rows = append(rows, []string{"customer_growth_rate_error", r.Growth.Error})
	}
	return Table{Name: TableSummary, Header: []string{"metric", "value"}, Rows: rows}
}

func rejectionsTable(rep cleaning.RejectionReport) Table {
	rows := make([][]string, 0, len(cleaning.Reasons))
	for _, reason := range cleaning.Reasons {
		rows = append(rows, []string{string(reason), formatInt(rep.Count(reason))})
	}
	return Table{Name: TableRejections, Header: []string{"reason", "rows"}, Rows: rows}
}

func rejectionSamplesTable(rep cleaning.RejectionReport) Table {
	rows := make([][]string, 0, len(rep.Samples))
	for _, s := range rep.Samples {
		rows = append(rows, []string{formatInt(s.Line), string(s.Reason), s.Field, s.Detail})
	}
	return Table{Name: TableRejectionSamples, Header: []string{"line", "reason", "field", "detail"}, Rows: rows}
}

func repeatOrdersTable(counts []metrics.MonthCount) Table {
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{c.Month, formatInt(c.Customers)})
	}
	return Table{Name: TableRepeatOrdersByMonth, Header: []string{"month", "customers"}, Rows: rows}
}

func gapsTable(g metrics.GapSummary) Table {
	rows := make([][]string, 0, len(g.Customers))
	for _, c := range g.Customers {
		gaps := make([]string, len(c.Gaps))
		for i, d := range c.Gaps {
			gaps[i] = formatInt(d)
		}
		rows = append(rows, []string{c.CustomerID, strings.Join(gaps, " "), formatInt(c.Span), formatRatio(c.Mean)})
	}
	return Table{Name: TableInterOrderGaps, Header: []string{"customer_id", "gaps_days", "span_days", "mean_days"}, Rows: rows}
}

func segmentGapsTable(segments []metrics.SegmentGap) Table {
	rows := make([][]string, 0, len(segments))
	for _, s := range segments {
		rows = append(rows, []string{s.Segment, formatInt(s.Gaps), formatRatio(s.Mean)})
	}
	return Table{Name: TableInterOrderGapsBySegment, Header: []string{"segment", "gaps", "mean_days"}, Rows: rows}
}

func customersByYearTable(years []metrics.YearCustomers) Table {
	rows := make([][]string, 0, len(years))
	for _, y := range years {
		rows = append(rows, []string{formatInt(y.Year), formatInt(y.New), formatInt(y.Total)})
	}
	return Table{Name: TableCustomersByYear, Header: []string{"year", "new_customers", "total_customers"}, Rows: rows}
}

func aovTable(name, dim string, aov []metrics.AOVRow) Table {
	rows := make([][]string, 0, len(aov))
	for _, a := range aov {
		rows = append(rows, append(cloneKey(a.Key), formatDecimal(a.Sales), formatInt(a.Orders), formatRatio(a.AOV)))
	}
	return Table{Name: name, Header: []string{dim, "sales", "orders", "aov"}, Rows: rows}
}

func groupTable(name string, dims []string, groups []metrics.GroupRow) Table {
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, append(cloneKey(g.Key), groupMeasureCells(g)...))
	}
	return Table{Name: name, Header: concat(dims, groupMeasures), Rows: rows}
}

func viewTable(name, dim string, v report.GroupView) Table {
	rows := make([][]string, 0, len(v.Rows))
	for i, g := range v.Rows {
		row := append(cloneKey(g.Key), groupMeasureCells(g)...)
		rows = append(rows, append(row, formatBool(v.AboveMean(i))))
	}
	return Table{Name: name, Header: concat([]string{dim}, groupMeasures, []string{"above_mean"}), Rows: rows}
}

func groupMeasureCells(g metrics.GroupRow) []string {
	return []string{
		formatDecimal(g.Sales),
		formatInt(g.Lines),
		formatInt(g.Orders),
		formatInt(g.Customers),
		formatRatio(g.SalesPerOrder),
		formatRatio(g.SalesPerCustomer),
	}
}

func trendTable(name string, points []metrics.TrendPoint) Table {
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{p.Period, formatDecimal(p.Sales), formatInt(p.Orders)})
	}
	return Table{Name: name, Header: []string{"period", "sales", "orders"}, Rows: rows}
}

func rankedTable(name, dim string, ranked []metrics.RankedRow) Table {
	rows := make([][]string, 0, len(ranked))
	for _, r := range ranked {
		rows = append(rows, []string{formatInt(r.Rank), r.Key, formatDecimal(r.Sales)})
	}
	return Table{Name: name, Header: []string{"rank", dim, "sales"}, Rows: rows}
}

func latencyTable(name, dim string, latency []metrics.LatencyRow) Table {
	rows := make([][]string, 0, len(latency))
	for _, l := range latency {
		rows = append(rows, append(cloneKey(l.Key), formatRatio(l.MeanDays), formatDecimal(l.Sales), formatInt(l.Lines)))
	}
	return Table{Name: name, Header: []string{dim, "mean_days", "sales", "lines"}, Rows: rows}
}

func orderCountTable(name string, dims []string, counts []metrics.OrderCountRow) Table {
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, append(cloneKey(c.Key), formatInt(c.Orders)))
	}
	return Table{Name: name, Header: concat(dims, []string{"orders"}), Rows: rows}
}

// cloneKey copies a key so appending cells never writes into report data
func cloneKey(k metrics.Key) []string {
	out := make([]string, len(k), len(k)+8)
	copy(out, k)
	return out
}

func concat(parts ...[]string) []string {
	var out []string
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
