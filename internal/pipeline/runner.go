package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"storecli/internal/infrastructure"
)

const (
	TracerName = "storecli.pipeline"
)

// Runner executes registered steps in order
type Runner struct {
	registry *Registry
	tracer   trace.Tracer
	metrics  *infrastructure.PipelineMetrics
	logger   *slog.Logger
}

// NewRunner creates a runner. A nil tracer uses the global tracer provider and
// m may be nil.
func NewRunner(registry *Registry, tracer trace.Tracer, m *infrastructure.PipelineMetrics, logger *slog.Logger) *Runner {
	if tracer == nil {
		tracer = otel.Tracer(TracerName)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		registry: registry,
		tracer:   tracer,
		metrics:  m,
		logger:   infrastructure.WithComponent(logger, "pipeline"),
	}
}

// Run executes every step over the input file. The first failing step stops
// the run; the steps after it are marked skipped. The returned state is never
// nil and carries whatever the completed steps produced.
func (r *Runner) Run(ctx context.Context, input string) (*State, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	state := NewState(infrastructure.GetTraceID(ctx), input)

	steps := r.registry.List()
	for _, s := range steps {
		state.SetStep(s.ID(), NewStepState(s.ID(), s.Name()))
	}

	ctx, span := r.tracer.Start(ctx, "pipeline.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", state.ID),
			attribute.String("run.input", input),
			attribute.Int("run.steps", len(steps)),
		),
	)
	defer span.End()

	state.Start()
	r.logger.InfoContext(ctx, "pipeline started",
		slog.String("run_id", state.ID),
		slog.String("input", input),
		slog.Int("steps", len(steps)))

	for i, step := range steps {
		if err := r.executeStep(ctx, state, step); err != nil {
			for _, rest := range steps[i+1:] {
				state.GetStep(rest.ID()).Skip(fmt.Sprintf("previous step %s not completed", step.ID()))
			}
			state.Fail(err)

			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			r.logger.ErrorContext(ctx, "pipeline failed",
				slog.String("run_id", state.ID),
				slog.String("step", step.ID()),
				slog.String("error", err.Error()))
			return state, err
		}
	}

	state.Complete()
	span.SetStatus(codes.Ok, "")
	r.logger.InfoContext(ctx, "pipeline completed",
		slog.String("run_id", state.ID),
		slog.Duration("duration", state.Duration()))
	return state, nil
}

func (r *Runner) executeStep(ctx context.Context, state *State, step Step) error {
	st := state.GetStep(step.ID())

	if err := ctx.Err(); err != nil {
		st.Skip("run cancelled")
		return NewCancellationError(step.ID(), err)
	}

	if err := step.Validate(state); err != nil {
		st.Fail(err)
		r.logger.WarnContext(ctx, "step validation failed",
			slog.String("step", step.ID()),
			slog.String("error", err.Error()))
		return NewValidationError(step.ID(), err.Error())
	}

	stepCtx, span := r.tracer.Start(ctx, "pipeline.step."+step.ID(),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("step.id", step.ID()),
			attribute.String("step.name", step.Name()),
		),
	)
	defer span.End()

	r.logger.DebugContext(stepCtx, "executing step", slog.String("step", step.ID()))
	st.Start()
	start := time.Now()
	err := step.Execute(stepCtx, state)
	duration := time.Since(start)
	r.metrics.RecordStep(stepCtx, step.ID(), duration, err)

	if err != nil {
		st.Fail(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return NewExecutionError(step.ID(), err)
	}

	st.Complete()
	infrastructure.SetSpanAttributes(stepCtx, st.SpanAttributes())
	span.SetStatus(codes.Ok, "")
	r.logger.InfoContext(stepCtx, "step completed",
		slog.String("step", step.ID()),
		slog.Duration("duration", duration))
	return nil
}
