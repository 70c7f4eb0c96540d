// Package report assembles every metric family of a run into one Report.
//
// Families are independent pure computations over the same immutable dataset
// and run concurrently under an errgroup. A customer growth rate that cannot
// be computed is recorded on the report instead of failing it.
package report
