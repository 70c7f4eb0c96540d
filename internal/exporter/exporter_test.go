package exporter

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"storecli/internal/cleaning"
	"storecli/internal/config"
	apperrors "storecli/internal/errors"
	"storecli/internal/metrics"
	"storecli/internal/report"
	"storecli/internal/shared/testutil"
	"storecli/pkg/contracts/domain"
)

func orderLine(order, customer, date, segment, product, sales string) domain.OrderLine {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return domain.OrderLine{
		OrderID:     order,
		CustomerID:  customer,
		OrderDate:   d,
		ShipDate:    d.AddDate(0, 0, 4),
		Segment:     segment,
		Region:      "West",
		State:       "California",
		City:        "Los Angeles",
		Category:    "Technology",
		SubCategory: "Phones",
		ProductName: product,
		Sales:       decimal.RequireFromString(sales),
		ShipMode:    "Second Class",
	}
}

func buildReport(t *testing.T, baseYear int) *report.Report {
	t.Helper()

	ds := metrics.NewDataset([]domain.OrderLine{
		orderLine("O1", "C1", "2015-01-01", "Consumer", "Phone A", "100"),
		orderLine("O1", "C1", "2015-01-01", "Consumer", "Phone B", "50"),
		orderLine("O2", "C1", "2015-03-01", "Consumer", "Phone A", "30"),
		orderLine("O3", "C2", "2015-02-01", "Corporate", "Phone C", "20"),
	})
	rejections := cleaning.RejectionReport{
		Total:    5,
		Accepted: 4,
		Rejected: 1,
		ByReason: map[cleaning.Reason]int{cleaning.ReasonBadSales: 1},
		Samples: []cleaning.Rejection{
			{Line: 6, Reason: cleaning.ReasonBadSales, Field: "sales", Detail: "negative sales -5"},
		},
	}
	cfg := config.ReportConfig{TopN: 2, GrowthBaseYear: baseYear, GrowthTargetYear: 2018, MaxRejectionSamples: 10}

	r, err := report.NewBuilder(cfg, nil, nil).Build(context.Background(), ds, rejections)
	require.NoError(t, err)
	return r
}

func findTable(t *testing.T, tables []Table, name string) Table {
	t.Helper()
	for _, tb := range tables {
		if tb.Name == name {
			return tb
		}
	}
	t.Fatalf("table %s not found", name)
	return Table{}
}

func summaryValue(t *testing.T, tables []Table, metric string) string {
	t.Helper()
	for _, row := range findTable(t, tables, TableSummary).Rows {
		if row[0] == metric {
			return row[1]
		}
	}
	t.Fatalf("summary metric %s not found", metric)
	return ""
}

func TestTables(t *testing.T) {
	tables := Tables(buildReport(t, 2015))

	seen := make(map[string]bool)
	for _, tb := range tables {
		assert.False(t, seen[tb.Name], "duplicate table %s", tb.Name)
		seen[tb.Name] = true
		assert.LessOrEqual(t, len(tb.Name), maxSheetName, tb.Name)
		for i, row := range tb.Rows {
			assert.Len(t, row, len(tb.Header), "%s row %d", tb.Name, i)
		}
	}
	assert.Len(t, tables, 27)

	assert.Equal(t, "50.00", summaryValue(t, tables, "retention_rate_pct"))
	assert.Equal(t, "66.67", summaryValue(t, tables, "average_order_value"))
	assert.Equal(t, "-100.00", summaryValue(t, tables, "customer_growth_rate_pct"))
	assert.Equal(t, "4.00", summaryValue(t, tables, "mean_fulfillment_days"))
	assert.Equal(t, "200.00", summaryValue(t, tables, "sales_total"))

	rejections := findTable(t, tables, TableRejections)
	assert.Equal(t, [][]string{
		{string(cleaning.ReasonMalformedRow), "0"},
		{string(cleaning.ReasonMissingField), "0"},
		{string(cleaning.ReasonBadDate), "0"},
		{string(cleaning.ReasonBadSales), "1"},
	}, rejections.Rows)

	samples := findTable(t, tables, TableRejectionSamples)
	assert.Equal(t, [][]string{{"6", "negative_or_nonnumeric_sales", "sales", "negative sales -5"}}, samples.Rows)

	segments := findTable(t, tables, TableSegments)
	assert.Equal(t, []string{"segment", "sales", "lines", "orders", "customers", "sales_per_order", "sales_per_customer"}, segments.Header)
	assert.Equal(t, []string{"Consumer", "180.00", "3", "2", "1", "90.00", "180.00"}, segments.Rows[0])

	gaps := findTable(t, tables, TableInterOrderGaps)
	require.Len(t, gaps.Rows, 1)
	assert.Equal(t, []string{"C1", "0 59", "59", "29.50"}, gaps.Rows[0])

	trend := findTable(t, tables, TableTrendYearQuarter)
	assert.Equal(t, [][]string{{"2015-Q1", "200.00", "3"}}, trend.Rows)

	top := findTable(t, tables, TableTopProducts)
	assert.Equal(t, [][]string{{"1", "Phone A", "130.00"}, {"2", "Phone B", "50.00"}}, top.Rows)
}

func TestTables_UndefinedValues(t *testing.T) {
	r := buildReport(t, 2017)
	tables := Tables(r)

	assert.Equal(t, "undefined", summaryValue(t, tables, "customer_growth_rate_pct"))
	assert.Equal(t, r.Growth.Error, summaryValue(t, tables, "customer_growth_rate_error"))

	// a single sub-category is never above its own mean
	sub := findTable(t, tables, TableSubCategories)
	require.Len(t, sub.Rows, 1)
	assert.Equal(t, "above_mean", sub.Header[len(sub.Header)-1])
	assert.Equal(t, "false", sub.Rows[0][len(sub.Header)-1])
}

func TestTables_DoNotAliasReportKeys(t *testing.T) {
	r := buildReport(t, 2015)
	before := append(metrics.Key(nil), r.RegionSegments[0].Key...)

	Tables(r)
	Tables(r)

	assert.Equal(t, before, r.RegionSegments[0].Key)
}

func TestWorkbookWriter(t *testing.T) {
	tables := Tables(buildReport(t, 2015))
	path := filepath.Join(t.TempDir(), "out", "store_report.xlsx")

	require.NoError(t, NewWorkbookWriter(path).Write(tables))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	require.Len(t, sheets, len(tables))
	assert.Equal(t, TableSummary, sheets[0])
	assert.Equal(t, TableSegments, sheets[9])

	header, err := f.GetCellValue(TableSegments, "A1")
	require.NoError(t, err)
	assert.Equal(t, "segment", header)

	name, err := f.GetCellValue(TableSegments, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Consumer", name)

	sales, err := f.GetCellValue(TableSegments, "B2")
	require.NoError(t, err)
	assert.Equal(t, "180", sales)

	metric, err := f.GetCellValue(TableSummary, "A2")
	require.NoError(t, err)
	assert.Equal(t, "run_id", metric)
}

func TestWorkbookWriter_KeyColumnsStayText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.xlsx")
	table := Table{
		Name:   TableTopProducts,
		Header: []string{"rank", "product", "sales"},
		Rows: [][]string{
			{"1", "1e5", "10.50"},
			{"2", "Inf", "undefined"},
		},
	}
	require.NoError(t, NewWorkbookWriter(path).Write([]Table{table}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	tests := []struct {
		cell string
		want string
	}{
		{"A2", "1"},
		{"B2", "1e5"},
		{"C2", "10.5"},
		{"B3", "Inf"},
		{"C3", "undefined"},
	}
	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			got, err := f.GetCellValue(TableTopProducts, tt.cell)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWorkbookWriter_NoTables(t *testing.T) {
	err := NewWorkbookWriter(filepath.Join(t.TempDir(), "empty.xlsx")).Write(nil)
	assert.Error(t, err)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "segments", sheetName("segments"))
	assert.Len(t, sheetName("a_table_name_that_is_far_too_long_for_excel"), maxSheetName)
}

func TestWriteJSON(t *testing.T) {
	r := buildReport(t, 2017)
	path := filepath.Join(t.TempDir(), "store_report.json")

	require.NoError(t, WriteJSON(path, r))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, r.RunID, doc["run_id"])
	retention := doc["retention"].(map[string]any)
	assert.Equal(t, 50.0, retention["rate_pct"])

	growth := doc["growth"].(map[string]any)
	assert.Contains(t, growth, "rate_pct")
	assert.Nil(t, growth["rate_pct"])
	assert.NotEmpty(t, growth["error"])
}

func TestExporter_Export(t *testing.T) {
	paths, err := config.NewPaths(&config.Config{
		Output:  config.OutputConfig{Dir: t.TempDir()},
		Logging: config.LoggingConfig{FilePath: "logs/store-report.log"},
	})
	require.NoError(t, err)

	r := buildReport(t, 2015)
	logger, logs := testutil.NewTestLogger(t)
	exp := NewExporter(paths, []string{config.OutputCSV, config.OutputJSON, config.OutputXLSX}, logger)

	files, err := exp.Export(context.Background(), r)
	require.NoError(t, err)
	assert.Len(t, files, len(Tables(r))+2)
	assert.Contains(t, files, paths.JSONFile)
	assert.Contains(t, files, paths.WorkbookFile)
	assert.Contains(t, files, paths.GetCSVPath(TableSummary))

	for _, f := range files {
		info, err := os.Stat(f)
		require.NoError(t, err, f)
		assert.NotZero(t, info.Size(), f)
	}

	testutil.AssertNoErrors(t, logs)
	testutil.AssertLogAttr(t, logs, "format", config.OutputXLSX)
	assert.Len(t, logs.RecordsAt(slog.LevelInfo), 3)
}

func TestExporter_UnknownFormat(t *testing.T) {
	paths := &config.Paths{OutputDir: t.TempDir()}
	paths.CSVDir = filepath.Join(paths.OutputDir, config.CSVSubdir)

	_, err := NewExporter(paths, []string{"parquet"}, nil).Export(context.Background(), buildReport(t, 2015))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
}

func TestExporter_CancelledContext(t *testing.T) {
	paths := &config.Paths{OutputDir: t.TempDir()}
	paths.CSVDir = filepath.Join(paths.OutputDir, config.CSVSubdir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files, err := NewExporter(paths, []string{config.OutputCSV}, nil).Export(ctx, buildReport(t, 2015))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, files)
}
