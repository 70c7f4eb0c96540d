// Package temporal derives calendar features from order dates.
//
// Dates are calendar dates, not instants: every date is normalized to UTC
// midnight before use, and no time zone conversion is ever applied.
package temporal
