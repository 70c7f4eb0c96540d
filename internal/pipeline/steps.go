package pipeline

import (
	"context"
	"fmt"

	"storecli/internal/cleaning"
	"storecli/internal/infrastructure"
	"storecli/internal/metrics"
	"storecli/internal/report"
	"storecli/internal/temporal"
	"storecli/pkg/contracts/domain"
)

// RecordSource reads raw rows from an input file
type RecordSource interface {
	Load(ctx context.Context, path string) ([]domain.RawRecord, error)
}

// ReportBuilder computes a report over a dataset
type ReportBuilder interface {
	Build(ctx context.Context, ds *metrics.Dataset, rejections cleaning.RejectionReport) (*report.Report, error)
}

// ReportWriter persists a report and returns the files written
type ReportWriter interface {
	Export(ctx context.Context, r *report.Report) ([]string, error)
}

// Deps are the components behind the standard report steps
type Deps struct {
	Source  RecordSource
	Cleaner *cleaning.Cleaner
	Builder ReportBuilder
	Writer  ReportWriter // nil skips the export step
	Metrics *infrastructure.PipelineMetrics
}

// NewReportRegistry registers load, clean, enrich, aggregate and export in
// that order
func NewReportRegistry(deps Deps) (*Registry, error) {
	if deps.Source == nil || deps.Cleaner == nil || deps.Builder == nil {
		return nil, fmt.Errorf("report steps need a source, a cleaner and a builder")
	}

	steps := []Step{
		NewLoadStep(deps.Source, deps.Metrics),
		NewCleanStep(deps.Cleaner, deps.Metrics),
		NewEnrichStep(),
		NewAggregateStep(deps.Builder),
	}
	if deps.Writer != nil {
		steps = append(steps, NewExportStep(deps.Writer))
	}

	registry := NewRegistry()
	for _, s := range steps {
		if err := registry.Register(s); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// LoadStep reads the input file into raw records
type LoadStep struct {
	baseStep
	source  RecordSource
	metrics *infrastructure.PipelineMetrics
}

// NewLoadStep creates the load step
func NewLoadStep(source RecordSource, m *infrastructure.PipelineMetrics) *LoadStep {
	return &LoadStep{
		baseStep: baseStep{id: StepIDLoad, name: StepNameLoad},
		source:   source,
		metrics:  m,
	}
}

// Validate requires an input path
func (s *LoadStep) Validate(state *State) error {
	if state.Input == "" {
		return fmt.Errorf("no input file given")
	}
	return nil
}

// Execute loads the records
func (s *LoadStep) Execute(ctx context.Context, state *State) error {
	records, err := s.source.Load(ctx, state.Input)
	if err != nil {
		return err
	}
	state.Records = records
	s.metrics.RecordLoaded(ctx, len(records))
	state.annotate(s.id, "rows", len(records))
	return nil
}

// CleanStep validates raw records into order lines
type CleanStep struct {
	baseStep
	cleaner *cleaning.Cleaner
	metrics *infrastructure.PipelineMetrics
}

// NewCleanStep creates the clean step
func NewCleanStep(cleaner *cleaning.Cleaner, m *infrastructure.PipelineMetrics) *CleanStep {
	return &CleanStep{
		baseStep: baseStep{id: StepIDClean, name: StepNameClean},
		cleaner:  cleaner,
		metrics:  m,
	}
}

// Validate accepts any state; an empty input cleans to no lines
func (s *CleanStep) Validate(state *State) error {
	return nil
}

// Execute cleans the records and keeps the rejection report
func (s *CleanStep) Execute(ctx context.Context, state *State) error {
	result := s.cleaner.Clean(ctx, state.Records)
	state.Lines = result.Lines
	state.Rejections = result.Rejections

	s.metrics.RecordAccepted(ctx, result.Rejections.Accepted)
	s.metrics.RecordRejections(ctx, result.Rejections.Counts())
	state.annotate(s.id, "accepted", result.Rejections.Accepted)
	state.annotate(s.id, "rejected", result.Rejections.Rejected)
	return nil
}

// EnrichStep derives calendar features and builds the immutable dataset
type EnrichStep struct {
	baseStep
}

// NewEnrichStep creates the enrich step
func NewEnrichStep() *EnrichStep {
	return &EnrichStep{baseStep: baseStep{id: StepIDEnrich, name: StepNameEnrich}}
}

// Validate accepts any state
func (s *EnrichStep) Validate(state *State) error {
	return nil
}

// Execute enriches the cleaned lines
func (s *EnrichStep) Execute(ctx context.Context, state *State) error {
	state.Lines = temporal.Enrich(state.Lines)
	state.Dataset = metrics.NewDataset(state.Lines)
	state.annotate(s.id, "lines", state.Dataset.Len())
	return nil
}

// AggregateStep computes the report
type AggregateStep struct {
	baseStep
	builder ReportBuilder
}

// NewAggregateStep creates the aggregate step
func NewAggregateStep(builder ReportBuilder) *AggregateStep {
	return &AggregateStep{
		baseStep: baseStep{id: StepIDAggregate, name: StepNameAggregate},
		builder:  builder,
	}
}

// Validate requires the enriched dataset
func (s *AggregateStep) Validate(state *State) error {
	if state.Dataset == nil {
		return fmt.Errorf("dataset not built")
	}
	return nil
}

// Execute builds the report
func (s *AggregateStep) Execute(ctx context.Context, state *State) error {
	r, err := s.builder.Build(ctx, state.Dataset, state.Rejections)
	if err != nil {
		return err
	}
	state.Report = r
	return nil
}

// ExportStep writes the report in every configured format
type ExportStep struct {
	baseStep
	writer ReportWriter
}

// NewExportStep creates the export step
func NewExportStep(writer ReportWriter) *ExportStep {
	return &ExportStep{
		baseStep: baseStep{id: StepIDExport, name: StepNameExport},
		writer:   writer,
	}
}

// Validate requires a built report
func (s *ExportStep) Validate(state *State) error {
	if state.Report == nil {
		return fmt.Errorf("report not built")
	}
	return nil
}

// Execute exports the report
func (s *ExportStep) Execute(ctx context.Context, state *State) error {
	files, err := s.writer.Export(ctx, state.Report)
	state.Files = files
	if err != nil {
		return err
	}
	state.annotate(s.id, "files", len(files))
	return nil
}
