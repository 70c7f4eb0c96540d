package metrics

import "errors"

var (
	// ErrNoBaselineCustomers is returned by GrowthRate when no customer placed
	// a first order in the base year.
	ErrNoBaselineCustomers = errors.New("no new customers in base year")

	// ErrNotTemporal is returned when a time series is requested over a
	// dimension that is not a calendar period.
	ErrNotTemporal = errors.New("dimension is not a calendar period")
)
