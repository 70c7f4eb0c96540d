package metrics

import (
	"github.com/shopspring/decimal"
)

// LatencyRow pairs the mean fulfillment time of a group with its sales
type LatencyRow struct {
	Key      Key             `json:"key"`
	MeanDays Ratio           `json:"mean_days"`
	Sales    decimal.Decimal `json:"sales"`
	Lines    int             `json:"lines"`
}

// FulfillmentLatency is the mean number of days from order to shipment per
// group. Negative latencies from inconsistent source dates are averaged in.
func FulfillmentLatency(ds *Dataset, dims ...Dimension) []LatencyRow {
	arenas := partition(ds.all(), dims...)
	rows := make([]LatencyRow, 0, len(arenas))
	for _, a := range arenas {
		days := 0
		for _, l := range a.lines {
			days += l.FulfillmentDays
		}
		rows = append(rows, LatencyRow{
			Key:      a.key,
			MeanDays: DivideInts(days, len(a.lines)),
			Sales:    sumSales(a.lines),
			Lines:    len(a.lines),
		})
	}
	return rows
}

// OverallLatency is the mean fulfillment time of every line
func OverallLatency(ds *Dataset) Ratio {
	rows := FulfillmentLatency(ds)
	if len(rows) == 0 {
		return Undefined()
	}
	return rows[0].MeanDays
}
