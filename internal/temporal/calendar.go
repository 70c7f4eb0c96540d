package temporal

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"storecli/pkg/contracts/domain"
)

const secondsPerDay = 24 * 60 * 60

// Day truncates t to its calendar date at UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Quarter returns the calendar quarter (1-4) of a month.
func Quarter(m time.Month) int {
	return (int(m)-1)/3 + 1
}

// YearQuarterKey formats the composite quarterly grouping key, e.g. "2015-Q3".
func YearQuarterKey(year, quarter int) string {
	return fmt.Sprintf("%d-Q%d", year, quarter)
}

// ParseYearQuarter is the inverse of YearQuarterKey.
func ParseYearQuarter(key string) (year, quarter int, err error) {
	y, q, ok := strings.Cut(key, "-Q")
	if !ok {
		return 0, 0, fmt.Errorf("parse year-quarter %q: missing -Q separator", key)
	}
	if year, err = strconv.Atoi(y); err != nil {
		return 0, 0, fmt.Errorf("parse year-quarter %q: %w", key, err)
	}
	if quarter, err = strconv.Atoi(q); err != nil {
		return 0, 0, fmt.Errorf("parse year-quarter %q: %w", key, err)
	}
	if quarter < 1 || quarter > 4 {
		return 0, 0, fmt.Errorf("parse year-quarter %q: quarter %d out of range", key, quarter)
	}
	return year, quarter, nil
}

// Derive computes the calendar features of an order date.
func Derive(date time.Time) domain.Calendar {
	y, m, _ := date.Date()
	q := Quarter(m)
	return domain.Calendar{
		Month:       domain.MonthPeriod{Year: y, Month: m},
		Quarter:     q,
		Year:        y,
		YearQuarter: YearQuarterKey(y, q),
	}
}

// DaysBetween counts calendar days from a to b, negative when b is earlier.
// It works on Unix seconds, so spans beyond the range of time.Duration stay exact.
func DaysBetween(a, b time.Time) int {
	return int((Day(b).Unix() - Day(a).Unix()) / secondsPerDay)
}

// FulfillmentDays is the number of calendar days from order to shipment.
// A ship date before the order date gives a negative count.
func FulfillmentDays(order, ship time.Time) int {
	return DaysBetween(order, ship)
}

// Enrich returns a copy of lines with calendar features and fulfillment days
// filled in. The input slice is left untouched.
func Enrich(lines []domain.OrderLine) []domain.OrderLine {
	out := make([]domain.OrderLine, len(lines))
	for i, line := range lines {
		line.Calendar = Derive(line.OrderDate)
		line.FulfillmentDays = FulfillmentDays(line.OrderDate, line.ShipDate)
		out[i] = line
	}
	return out
}
