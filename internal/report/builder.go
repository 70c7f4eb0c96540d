package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"storecli/internal/cleaning"
	"storecli/internal/config"
	"storecli/internal/infrastructure"
	"storecli/internal/metrics"
)

// family computes one group of report fields. Each family writes only its
// own fields of the report.
type family struct {
	name string
	run  func(ctx context.Context, ds *metrics.Dataset, r *Report) error
}

// Builder computes every metric family of a report
type Builder struct {
	cfg     config.ReportConfig
	metrics *infrastructure.PipelineMetrics
	logger  *slog.Logger
	now     func() time.Time
}

// NewBuilder creates a report builder. m may be nil.
func NewBuilder(cfg config.ReportConfig, m *infrastructure.PipelineMetrics, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		cfg:     cfg,
		metrics: m,
		logger:  infrastructure.WithComponent(logger, "report_builder"),
		now:     time.Now,
	}
}

// Build runs every family concurrently over ds. The run id is the trace id
// of ctx when present.
func (b *Builder) Build(ctx context.Context, ds *metrics.Dataset, rejections cleaning.RejectionReport) (*Report, error) {
	runID := infrastructure.GetTraceID(ctx)
	if runID == "" {
		runID = uuid.NewString()
	}

	r := &Report{
		RunID:       runID,
		GeneratedAt: b.now().UTC(),
		Lines:       ds.Len(),
		Rejections:  rejections,
	}

	start := time.Now()
	b.logger.InfoContext(ctx, "building report",
		slog.String("run_id", runID),
		slog.Int("lines", ds.Len()))

	g, gctx := errgroup.WithContext(ctx)
	for _, f := range b.families() {
		f := f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			familyStart := time.Now()
			if err := f.run(gctx, ds, r); err != nil {
				return fmt.Errorf("compute %s: %w", f.name, err)
			}
			elapsed := time.Since(familyStart)
			b.metrics.RecordFamily(gctx, f.name, elapsed)
			b.logger.DebugContext(gctx, "metric family computed",
				slog.String("family", f.name),
				slog.Duration("duration", elapsed))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}

	b.logger.InfoContext(ctx, "report built",
		slog.String("run_id", runID),
		slog.Duration("duration", time.Since(start)))
	return r, nil
}

func (b *Builder) families() []family {
	return []family{
		{"retention", func(_ context.Context, ds *metrics.Dataset, r *Report) error {
			r.Retention = metrics.Retention(ds)
			r.RepeatOrders = metrics.RepeatOrdersByMonth(ds)
			return nil
		}},
		{"inter_order_gaps", func(_ context.Context, ds *metrics.Dataset, r *Report) error {
			r.Gaps = metrics.InterOrderGaps(ds)
			r.SegmentGaps = metrics.InterOrderGapsBySegment(ds)
			return nil
		}},
		{"customer_growth", b.growth},
		{"aov", func(_ context.Context, ds *metrics.Dataset, r *Report) error {
			r.AOV = metrics.AverageOrderValue(ds)
			r.AOVByYear = metrics.AverageOrderValue(ds, metrics.DimYear)
			r.AOVBySegment = metrics.AverageOrderValue(ds, metrics.DimSegment)
			return nil
		}},
		{"rollups", func(_ context.Context, ds *metrics.Dataset, r *Report) error {
			r.Segments = metrics.Rollup(ds, metrics.DimSegment)
			r.RegionSegments = metrics.Rollup(ds, metrics.DimRegion, metrics.DimSegment)
			r.Regions = metrics.Rollup(ds, metrics.DimRegion)
			r.Categories = metrics.Rollup(ds, metrics.DimCategory)
			r.SubCategories = view(metrics.Rollup(ds, metrics.DimSubCategory))
			r.States = view(metrics.Rollup(ds, metrics.DimState))
			return nil
		}},
		{"trends", func(_ context.Context, ds *metrics.Dataset, r *Report) error {
			var err error
			if r.Trends.Yearly, err = metrics.SalesTrend(ds, metrics.DimYear); err != nil {
				return err
			}
			if r.Trends.Monthly, err = metrics.SalesTrend(ds, metrics.DimMonth); err != nil {
				return err
			}
			if r.Trends.Quarterly, err = metrics.SalesTrend(ds, metrics.DimQuarter); err != nil {
				return err
			}
			r.Trends.YearQuarter, err = metrics.SalesTrend(ds, metrics.DimYearQuarter)
			return err
		}},
		{"rankings", func(_ context.Context, ds *metrics.Dataset, r *Report) error {
			n := b.cfg.TopN
			r.Rankings = Rankings{
				N:              n,
				TopProducts:    metrics.TopN(ds, metrics.DimProduct, n),
				BottomProducts: metrics.BottomN(ds, metrics.DimProduct, n),
				TopCities:      metrics.TopN(ds, metrics.DimCity, n),
				BottomCities:   metrics.BottomN(ds, metrics.DimCity, n),
			}
			return nil
		}},
		{"fulfillment_latency", func(_ context.Context, ds *metrics.Dataset, r *Report) error {
			r.Latency = Latency{
				Overall:    metrics.OverallLatency(ds),
				ByRegion:   metrics.FulfillmentLatency(ds, metrics.DimRegion),
				ByShipMode: metrics.FulfillmentLatency(ds, metrics.DimShipMode),
			}
			return nil
		}},
		{"order_counts", func(_ context.Context, ds *metrics.Dataset, r *Report) error {
			r.OrdersByRegionShipMode = metrics.OrderCounts(ds, metrics.DimRegion, metrics.DimShipMode)
			r.OrdersBySegmentShipMode = metrics.OrderCounts(ds, metrics.DimSegment, metrics.DimShipMode)
			return nil
		}},
		{"sales_distribution", func(_ context.Context, ds *metrics.Dataset, r *Report) error {
			r.Distribution = metrics.SalesDistribution(ds)
			return nil
		}},
	}
}

// growth records an undefined rate instead of failing the build
func (b *Builder) growth(ctx context.Context, ds *metrics.Dataset, r *Report) error {
	r.CustomersByYear = metrics.CustomersByYear(ds)
	r.Growth = Growth{BaseYear: b.cfg.GrowthBaseYear, TargetYear: b.cfg.GrowthTargetYear}

	rate, err := metrics.GrowthRate(ds, b.cfg.GrowthBaseYear, b.cfg.GrowthTargetYear)
	if err != nil {
		b.logger.WarnContext(ctx, "customer growth rate omitted",
			slog.Int("base_year", b.cfg.GrowthBaseYear),
			slog.Int("target_year", b.cfg.GrowthTargetYear),
			slog.String("error", err.Error()))
		r.Growth.Error = err.Error()
		r.Growth.Rate = metrics.Undefined()
		return nil
	}
	r.Growth.Rate = rate
	return nil
}

func view(rows []metrics.GroupRow) GroupView {
	return GroupView{Rows: rows, Mean: metrics.MeanGroupSales(rows)}
}
