package report

import (
	"time"

	"storecli/internal/cleaning"
	"storecli/internal/metrics"
)

// GroupView is a rollup together with the mean of its group sales, used to
// flag groups above the mean.
type GroupView struct {
	Rows []metrics.GroupRow `json:"rows"`
	Mean metrics.Ratio      `json:"mean_sales"`
}

// AboveMean reports whether row i sold more than the mean group
func (v GroupView) AboveMean(i int) bool {
	mean, ok := v.Mean.Value()
	return ok && v.Rows[i].Sales.GreaterThan(mean)
}

// Growth is the customer growth rate between two configured years. Error is
// set instead of failing the report when the rate cannot be computed.
type Growth struct {
	BaseYear   int           `json:"base_year"`
	TargetYear int           `json:"target_year"`
	Rate       metrics.Ratio `json:"rate_pct"`
	Error      string        `json:"error,omitempty"`
}

// Trends holds sales per calendar period at every granularity
type Trends struct {
	Yearly      []metrics.TrendPoint `json:"yearly"`
	Monthly     []metrics.TrendPoint `json:"monthly"`
	Quarterly   []metrics.TrendPoint `json:"quarterly"`
	YearQuarter []metrics.TrendPoint `json:"year_quarter"`
}

// Rankings holds the best and worst sellers
type Rankings struct {
	N              int                 `json:"n"`
	TopProducts    []metrics.RankedRow `json:"top_products"`
	BottomProducts []metrics.RankedRow `json:"bottom_products"`
	TopCities      []metrics.RankedRow `json:"top_cities"`
	BottomCities   []metrics.RankedRow `json:"bottom_cities"`
}

// Latency holds fulfillment times with the matching sales
type Latency struct {
	Overall    metrics.Ratio        `json:"overall_mean_days"`
	ByRegion   []metrics.LatencyRow `json:"by_region"`
	ByShipMode []metrics.LatencyRow `json:"by_ship_mode"`
}

// Report is the output of one report run
type Report struct {
	RunID       string                   `json:"run_id"`
	GeneratedAt time.Time                `json:"generated_at"`
	Lines       int                      `json:"lines"`
	Rejections  cleaning.RejectionReport `json:"rejections"`

	Retention       metrics.RetentionSummary `json:"retention"`
	RepeatOrders    []metrics.MonthCount     `json:"repeat_orders_by_month"`
	Gaps            metrics.GapSummary       `json:"inter_order_gaps"`
	SegmentGaps     []metrics.SegmentGap     `json:"inter_order_gaps_by_segment"`
	CustomersByYear []metrics.YearCustomers  `json:"customers_by_year"`
	Growth          Growth                   `json:"growth"`

	AOV          []metrics.AOVRow `json:"aov"`
	AOVByYear    []metrics.AOVRow `json:"aov_by_year"`
	AOVBySegment []metrics.AOVRow `json:"aov_by_segment"`

	Segments       []metrics.GroupRow `json:"segments"`
	RegionSegments []metrics.GroupRow `json:"region_segments"`
	Regions        []metrics.GroupRow `json:"regions"`
	Categories     []metrics.GroupRow `json:"categories"`
	SubCategories  GroupView          `json:"sub_categories"`
	States         GroupView          `json:"states"`

	Trends   Trends   `json:"trends"`
	Rankings Rankings `json:"rankings"`
	Latency  Latency  `json:"latency"`

	OrdersByRegionShipMode  []metrics.OrderCountRow `json:"orders_by_region_ship_mode"`
	OrdersBySegmentShipMode []metrics.OrderCountRow `json:"orders_by_segment_ship_mode"`

	Distribution metrics.Distribution `json:"sales_distribution"`
}
