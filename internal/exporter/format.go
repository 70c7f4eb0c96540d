package exporter

import (
	"strconv"

	"github.com/shopspring/decimal"

	"storecli/internal/metrics"
)

// amountPlaces is the number of decimals written for amounts and ratios
const amountPlaces = 2

// formatDecimal formats an amount with exactly 2 decimal places
func formatDecimal(d decimal.Decimal) string {
	return d.StringFixed(amountPlaces)
}

// formatRatio formats a ratio with 2 decimal places, or "undefined"
func formatRatio(r metrics.Ratio) string {
	return r.Format(amountPlaces)
}

// formatInt formats an int value
func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatBool formats a boolean value
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
