// Package pipeline runs a report as an ordered list of steps.
//
// The standard run is load, clean, enrich, aggregate and export. Each step
// reads what the previous steps left on the shared State and adds its own
// output. The Runner executes steps one at a time, wraps every step in an
// OpenTelemetry span, records step metrics and stops at the first failure.
//
// Example usage:
//
//	registry, err := pipeline.NewReportRegistry(deps)
//	runner := pipeline.NewRunner(registry, tracer, metrics, logger)
//	state, err := runner.Run(ctx, "orders.csv")
package pipeline
