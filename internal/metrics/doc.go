// Package metrics is the aggregation engine of a report run.
//
// Every operation is a pure function of an immutable Dataset. Grouping runs in
// two phases: records are first partitioned into arenas indexed by their
// composite Key, then each arena is folded in a fixed order. Results come back
// as ordered rows sorted by key (or by an explicitly tie-broken comparator for
// rankings), so output never depends on map iteration order.
//
// Ratios whose denominator is zero are returned as an undefined Ratio rather
// than zero or infinity. An empty Dataset yields empty results. GrowthRate is
// the only operation that returns an error.
package metrics
