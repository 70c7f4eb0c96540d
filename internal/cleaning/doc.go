// Package cleaning turns raw source rows into validated order lines.
//
// Fields without an analytical role are projected out. Rows that miss a
// required field, carry a date outside the configured layout, or hold a sales
// amount that is negative or not a number are excluded and counted in a
// RejectionReport under a reason code. A bad row never aborts the run.
package cleaning
