package metrics

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "storecli/internal/errors"
	"storecli/pkg/contracts/domain"
)

type lineOption func(*domain.OrderLine)

func withSegment(s string) lineOption  { return func(l *domain.OrderLine) { l.Segment = s } }
func withRegion(s string) lineOption   { return func(l *domain.OrderLine) { l.Region = s } }
func withProduct(s string) lineOption  { return func(l *domain.OrderLine) { l.ProductName = s } }
func withShipMode(s string) lineOption { return func(l *domain.OrderLine) { l.ShipMode = s } }
func withShipDate(d string) lineOption {
	return func(l *domain.OrderLine) { l.ShipDate = day(d) }
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func line(order, customer, orderDate, sales string, opts ...lineOption) domain.OrderLine {
	l := domain.OrderLine{
		OrderID:     order,
		CustomerID:  customer,
		OrderDate:   day(orderDate),
		ShipDate:    day(orderDate),
		Segment:     "Consumer",
		Region:      "West",
		State:       "California",
		City:        "Los Angeles",
		Category:    "Furniture",
		SubCategory: "Chairs",
		ProductName: "Chair",
		Sales:       decimal.RequireFromString(sales),
		ShipMode:    "Standard Class",
	}
	for _, opt := range opts {
		opt(&l)
	}
	return l
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertRatio(t *testing.T, want string, got Ratio) {
	t.Helper()
	v, ok := got.Value()
	require.True(t, ok, "ratio is undefined")
	assert.True(t, dec(want).Equal(v), "want %s, got %s", want, v)
}

func scenarioC1C2() *Dataset {
	return NewDataset([]domain.OrderLine{
		line("O1", "C1", "2015-01-01", "10"),
		line("O2", "C1", "2015-01-01", "20"),
		line("O3", "C1", "2015-03-01", "30"),
		line("O4", "C2", "2015-02-01", "40"),
	})
}

func TestRetention_Scenario(t *testing.T) {
	r := Retention(scenarioC1C2())
	assert.Equal(t, 2, r.Customers)
	assert.Equal(t, 1, r.Retained)
	assertRatio(t, "50", r.Rate)
}

func TestInterOrderGaps_Scenario(t *testing.T) {
	g := InterOrderGaps(scenarioC1C2())

	require.Len(t, g.Customers, 1, "single-order customers contribute no gap")
	c1 := g.Customers[0]
	assert.Equal(t, "C1", c1.CustomerID)
	assert.Equal(t, []int{0, 59}, c1.Gaps)
	assert.Equal(t, 59, c1.Span)

	assert.Equal(t, 2, g.Gaps)
	assertRatio(t, "29.5", g.Mean)
}

func TestInterOrderGaps_UnsortedInput(t *testing.T) {
	ds := NewDataset([]domain.OrderLine{
		line("O3", "C1", "2015-03-01", "1"),
		line("O1", "C1", "2015-01-01", "1"),
		line("O2", "C1", "2015-01-11", "1"),
	})
	g := InterOrderGaps(ds)
	require.Len(t, g.Customers, 1)
	assert.Equal(t, []int{10, 49}, g.Customers[0].Gaps)
}

func TestInterOrderGaps_DistantDates(t *testing.T) {
	ds := NewDataset([]domain.OrderLine{
		line("O1", "C1", "0001-01-01", "1"),
		line("O2", "C1", "2015-01-01", "1"),
	})
	g := InterOrderGaps(ds)
	require.Len(t, g.Customers, 1)
	assert.Equal(t, []int{735598}, g.Customers[0].Gaps)
	assert.Equal(t, 735598, g.Customers[0].Span)
}

func TestInterOrderGapsBySegment(t *testing.T) {
	ds := NewDataset([]domain.OrderLine{
		line("O1", "C1", "2015-01-01", "1", withSegment("Corporate")),
		line("O2", "C1", "2015-01-05", "1", withSegment("Corporate")),
		line("O3", "C2", "2015-01-01", "1", withSegment("Corporate")),
		line("O4", "C2", "2015-01-11", "1", withSegment("Corporate")),
		line("O5", "C3", "2015-01-01", "1", withSegment("Home Office")),
	})

	rows := InterOrderGapsBySegment(ds)
	require.Len(t, rows, 2)

	assert.Equal(t, "Corporate", rows[0].Segment)
	assert.Equal(t, 2, rows[0].Gaps)
	assertRatio(t, "7", rows[0].Mean)

	assert.Equal(t, "Home Office", rows[1].Segment)
	assert.Zero(t, rows[1].Gaps)
	assert.False(t, rows[1].Mean.IsDefined())
}

func TestAverageOrderValue_Scenario(t *testing.T) {
	ds := NewDataset([]domain.OrderLine{
		line("O1", "C1", "2015-01-01", "100", withSegment("Corporate")),
		line("O1", "C1", "2015-01-01", "50", withSegment("Corporate")),
	})

	rows := AverageOrderValue(ds, DimSegment)
	require.Len(t, rows, 1)
	assert.Equal(t, Key{"Corporate"}, rows[0].Key)
	assert.Equal(t, 1, rows[0].Orders)
	assertRatio(t, "150", rows[0].AOV)
}

func randomLines(r *rand.Rand, n int) []domain.OrderLine {
	segments := []string{"Consumer", "Corporate", "Home Office"}
	var lines []domain.OrderLine
	for i := 0; i < n; i++ {
		cents := r.Intn(100000)
		lines = append(lines, line(
			fmt.Sprintf("O%d", r.Intn(n/2+1)),
			fmt.Sprintf("C%d", r.Intn(n/4+1)),
			day("2015-01-01").AddDate(0, 0, r.Intn(1400)).Format("2006-01-02"),
			decimal.New(int64(cents), -2).String(),
			withSegment(segments[r.Intn(len(segments))]),
		))
	}
	return lines
}

func TestAverageOrderValue_MatchesDefinition(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	lines := randomLines(r, 200)

	for _, row := range AverageOrderValue(NewDataset(lines), DimSegment) {
		sum := decimal.Zero
		orders := map[string]bool{}
		for _, l := range lines {
			if l.Segment == row.Key[0] {
				sum = sum.Add(l.Sales)
				orders[l.OrderID] = true
			}
		}
		want := sum.Div(decimal.NewFromInt(int64(len(orders))))
		got, ok := row.AOV.Value()
		require.True(t, ok)
		assert.True(t, want.Equal(got), "segment %s: want %s, got %s", row.Key, want, got)
	}
}

func TestAverageOrderValue_SplitInvariance(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	lines := randomLines(r, 120)
	before := AverageOrderValue(NewDataset(lines), DimSegment)

	// split every line into two lines of the same order with the same total
	var split []domain.OrderLine
	for _, l := range lines {
		half := l.Sales.Div(decimal.NewFromInt(2)).Truncate(2)
		a, b := l, l
		a.Sales = half
		b.Sales = l.Sales.Sub(half)
		split = append(split, a, b)
	}
	after := AverageOrderValue(NewDataset(split), DimSegment)

	require.Equal(t, len(before), len(after))
	for i := range before {
		assert.Equal(t, before[i].Key, after[i].Key)
		assert.True(t, before[i].AOV.Equal(after[i].AOV), "segment %s changed", before[i].Key)
	}
}

func TestAverageOrderValue_Overall(t *testing.T) {
	rows := AverageOrderValue(scenarioC1C2())
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].Key)
	assertRatio(t, "25", rows[0].AOV)
}

func TestRetention_Monotonic(t *testing.T) {
	lines := []domain.OrderLine{
		line("O1", "C1", "2015-01-01", "1"),
		line("O2", "C2", "2015-01-01", "1"),
		line("O3", "C3", "2015-01-01", "1"),
	}

	prev := decimal.NewFromInt(-1)
	additions := []domain.OrderLine{
		line("O4", "C1", "2015-01-01", "1"), // same date, still not retained
		line("O5", "C1", "2015-02-01", "1"),
		line("O6", "C2", "2015-03-01", "1"),
		line("O7", "C1", "2015-04-01", "1"),
		line("O8", "C3", "2016-01-01", "1"),
	}
	for _, add := range additions {
		lines = append(lines, add)
		rate, ok := Retention(NewDataset(lines)).Rate.Value()
		require.True(t, ok)
		assert.True(t, rate.GreaterThanOrEqual(prev), "rate decreased to %s", rate)
		prev = rate
	}
	assert.True(t, prev.Equal(decimal.NewFromInt(100)), "every customer retained")
}

func TestRepeatOrdersByMonth(t *testing.T) {
	ds := NewDataset([]domain.OrderLine{
		// two orders in January
		line("O1", "C1", "2015-01-03", "1"),
		line("O2", "C1", "2015-01-20", "1"),
		// two lines of one order is not a repeat
		line("O3", "C2", "2015-01-05", "1"),
		line("O3", "C2", "2015-01-05", "1"),
		// one order per month is not a repeat either
		line("O4", "C2", "2015-02-05", "1"),
		line("O5", "C3", "2015-03-01", "1"),
		line("O6", "C3", "2015-03-02", "1"),
		line("O7", "C1", "2015-03-09", "1"),
		line("O8", "C1", "2015-03-10", "1"),
	})

	got := RepeatOrdersByMonth(ds)
	assert.Equal(t, []MonthCount{
		{Month: "2015-01", Customers: 1},
		{Month: "2015-03", Customers: 2},
	}, got)
}

func TestCustomersByYearAndGrowth(t *testing.T) {
	ds := NewDataset([]domain.OrderLine{
		line("O1", "C1", "2015-01-01", "1"),
		line("O2", "C2", "2015-05-01", "1"),
		line("O3", "C1", "2016-01-01", "1"),
		line("O4", "C3", "2016-02-01", "1"),
		line("O5", "C4", "2016-03-01", "1"),
		line("O6", "C2", "2017-01-01", "1"),
	})

	years := CustomersByYear(ds)
	assert.Equal(t, []YearCustomers{
		{Year: 2015, New: 2, Total: 2},
		{Year: 2016, New: 2, Total: 3},
		{Year: 2017, New: 0, Total: 1},
	}, years)

	rate, err := GrowthRate(ds, 2015, 2016)
	require.NoError(t, err)
	assertRatio(t, "50", rate)

	rate, err = GrowthRate(ds, 2015, 2017)
	require.NoError(t, err)
	assertRatio(t, "-50", rate)

	rate, err = GrowthRate(ds, 2015, 2020)
	require.NoError(t, err)
	assertRatio(t, "-100", rate)
}

func TestGrowthRate_NoBaseline(t *testing.T) {
	ds := NewDataset([]domain.OrderLine{
		line("O1", "C1", "2015-01-01", "1"),
		line("O2", "C1", "2016-01-01", "1"),
	})

	for _, base := range []int{2016, 2014} {
		rate, err := GrowthRate(ds, base, 2018)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNoBaselineCustomers))
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeUndefinedRatio))
		assert.False(t, rate.IsDefined())
	}
}

func TestRollup(t *testing.T) {
	ds := NewDataset([]domain.OrderLine{
		line("O1", "C1", "2015-01-01", "100", withRegion("West")),
		line("O1", "C1", "2015-01-01", "50", withRegion("West")),
		line("O2", "C2", "2015-01-02", "30", withRegion("West")),
		line("O3", "C1", "2015-01-03", "20", withRegion("East")),
	})

	rows := Rollup(ds, DimRegion)
	require.Len(t, rows, 2)

	east, west := rows[0], rows[1]
	assert.Equal(t, Key{"East"}, east.Key)
	assert.Equal(t, Key{"West"}, west.Key)

	assert.True(t, dec("180").Equal(west.Sales))
	assert.Equal(t, 3, west.Lines)
	assert.Equal(t, 2, west.Orders)
	assert.Equal(t, 2, west.Customers)
	assertRatio(t, "90", west.SalesPerOrder)
	assertRatio(t, "90", west.SalesPerCustomer)

	assertRatio(t, "100", MeanGroupSales(rows))
	assert.False(t, MeanGroupSales(nil).IsDefined())
}

func TestRollup_TwoDimensionsAndOrderIndependence(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	lines := randomLines(r, 80)
	want := Rollup(NewDataset(lines), DimSegment, DimYear)

	shuffled := make([]domain.OrderLine, len(lines))
	copy(shuffled, lines)
	r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	got := Rollup(NewDataset(shuffled), DimSegment, DimYear)

	require.Equal(t, len(want), len(got))
	for i := range want {
		assert.Equal(t, want[i].Key, got[i].Key)
		assert.True(t, want[i].Sales.Equal(got[i].Sales))
		assert.Equal(t, want[i].Orders, got[i].Orders)
		if i > 0 {
			assert.True(t, got[i-1].Key.Less(got[i].Key))
		}
	}
}

func TestOrderCounts(t *testing.T) {
	ds := NewDataset([]domain.OrderLine{
		line("O1", "C1", "2015-01-01", "1", withShipMode("First Class")),
		line("O1", "C1", "2015-01-01", "1", withShipMode("First Class")),
		line("O2", "C1", "2015-01-01", "1", withShipMode("Same Day")),
	})
	assert.Equal(t, []OrderCountRow{
		{Key: Key{"West", "First Class"}, Orders: 1},
		{Key: Key{"West", "Same Day"}, Orders: 1},
	}, OrderCounts(ds, DimRegion, DimShipMode))
}

func TestSalesTrend(t *testing.T) {
	ds := NewDataset([]domain.OrderLine{
		line("O1", "C1", "2016-11-01", "5"),
		line("O2", "C1", "2015-02-01", "10"),
		line("O3", "C2", "2015-12-31", "20"),
		line("O4", "C2", "2016-02-15", "1"),
	})

	tests := []struct {
		dim     Dimension
		periods []string
	}{
		{DimYear, []string{"2015", "2016"}},
		{DimMonth, []string{"2015-02", "2015-12", "2016-02", "2016-11"}},
		{DimQuarter, []string{"Q1", "Q4"}},
		{DimYearQuarter, []string{"2015-Q1", "2015-Q4", "2016-Q1", "2016-Q4"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.dim), func(t *testing.T) {
			points, err := SalesTrend(ds, tt.dim)
			require.NoError(t, err)
			var periods []string
			for _, p := range points {
				periods = append(periods, p.Period)
			}
			assert.Equal(t, tt.periods, periods)
		})
	}

	points, err := SalesTrend(ds, DimQuarter)
	require.NoError(t, err)
	assert.True(t, dec("11").Equal(points[0].Sales))
	assert.True(t, dec("25").Equal(points[1].Sales))

	_, err = SalesTrend(ds, DimRegion)
	assert.ErrorIs(t, err, ErrNotTemporal)
}

func TestTopBottomN(t *testing.T) {
	var lines []domain.OrderLine
	for i := 0; i < 25; i++ {
		// every product but two has a distinct total; P05 and P06 tie
		sales := fmt.Sprintf("%d", (i+1)*10)
		if i == 6 {
			sales = "60"
		}
		lines = append(lines, line(fmt.Sprintf("O%d", i), "C1", "2015-01-01", sales,
			withProduct(fmt.Sprintf("P%02d", i))))
	}
	ds := NewDataset(lines)

	top := TopN(ds, DimProduct, 10)
	bottom := BottomN(ds, DimProduct, 10)
	require.Len(t, top, 10)
	require.Len(t, bottom, 10)

	assert.Equal(t, "P24", top[0].Key)
	assert.Equal(t, 1, top[0].Rank)
	assert.Equal(t, "P00", bottom[0].Key)
	assert.Equal(t, 25, bottom[0].Rank)

	// ties ordered by key: P05 ranks ahead of P06 in the descending order
	for i := 1; i < len(bottom); i++ {
		assert.True(t, bottom[i-1].Sales.LessThanOrEqual(bottom[i].Sales))
	}
	assert.Equal(t, "P06", bottom[5].Key)
	assert.Equal(t, "P05", bottom[6].Key)

	inTop := map[string]bool{}
	for _, r := range top {
		inTop[r.Key] = true
	}
	inBottom := map[string]bool{}
	for _, r := range bottom {
		assert.False(t, inTop[r.Key], "%s selected as both top and bottom", r.Key)
		inBottom[r.Key] = true
	}

	// no excluded key beats a selected one
	for _, row := range Rollup(ds, DimProduct) {
		key := row.Key[0]
		if !inTop[key] {
			assert.True(t, row.Sales.LessThanOrEqual(top[len(top)-1].Sales), "%s should be in top", key)
		}
		if !inBottom[key] {
			assert.True(t, row.Sales.GreaterThanOrEqual(bottom[len(bottom)-1].Sales), "%s should be in bottom", key)
		}
	}
}

func TestTopBottomN_TiesAtCutoff(t *testing.T) {
	var lines []domain.OrderLine
	for i, product := range []string{"c", "a", "d", "b"} {
		lines = append(lines, line(fmt.Sprintf("O%d", i), "C1", "2015-01-01", "5", withProduct(product)))
	}
	ds := NewDataset(lines)

	keys := func(rows []RankedRow) []string {
		out := make([]string, 0, len(rows))
		for _, r := range rows {
			out = append(out, r.Key)
		}
		return out
	}

	tests := []struct {
		n          int
		wantTop    []string
		wantBottom []string
	}{
		{n: 1, wantTop: []string{"a"}, wantBottom: []string{"d"}},
		{n: 2, wantTop: []string{"a", "b"}, wantBottom: []string{"d", "c"}},
		{n: 4, wantTop: []string{"a", "b", "c", "d"}, wantBottom: []string{"d", "c", "b", "a"}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d", tt.n), func(t *testing.T) {
			assert.Equal(t, tt.wantTop, keys(TopN(ds, DimProduct, tt.n)))
			assert.Equal(t, tt.wantBottom, keys(BottomN(ds, DimProduct, tt.n)))
		})
	}
}

func TestTopBottomN_SmallSets(t *testing.T) {
	ds := scenarioC1C2()
	assert.Len(t, TopN(ds, DimCustomer, 10), 2)
	assert.Len(t, BottomN(ds, DimCustomer, 10), 2)
	assert.Empty(t, TopN(ds, DimCustomer, 0))
	assert.Empty(t, BottomN(ds, DimCustomer, -1))
}

func TestFulfillmentLatency(t *testing.T) {
	ds := NewDataset([]domain.OrderLine{
		line("O1", "C1", "2015-01-01", "10", withShipMode("First Class"), withShipDate("2015-01-03")),
		line("O2", "C1", "2015-01-01", "20", withShipMode("First Class"), withShipDate("2015-01-04")),
		line("O3", "C2", "2015-01-10", "30", withShipMode("Standard Class"), withShipDate("2015-01-08")),
	})

	rows := FulfillmentLatency(ds, DimShipMode)
	require.Len(t, rows, 2)
	assert.Equal(t, Key{"First Class"}, rows[0].Key)
	assertRatio(t, "2.5", rows[0].MeanDays)
	assert.True(t, dec("30").Equal(rows[0].Sales))

	// ship before order is reported, not rejected
	assertRatio(t, "-2", rows[1].MeanDays)

	assertRatio(t, "1", OverallLatency(ds))
}

func TestSalesDistribution(t *testing.T) {
	ds := NewDataset([]domain.OrderLine{
		line("O1", "C1", "2015-01-01", "10"),
		line("O2", "C1", "2015-01-01", "1"),
		line("O3", "C1", "2015-01-01", "3"),
		line("O4", "C1", "2015-01-01", "2"),
		line("O5", "C1", "2015-01-01", "4"),
	})

	d := SalesDistribution(ds)
	assert.Equal(t, 5, d.Count)
	assert.True(t, dec("20").Equal(d.Total))
	assertRatio(t, "4", d.Mean)
	assertRatio(t, "3", d.Median)
	assertRatio(t, "1", d.Min)
	assertRatio(t, "10", d.Max)

	std, ok := d.StdDev.Float64()
	require.True(t, ok)
	assert.InDelta(t, 3.535534, std, 1e-6)

	skew, ok := d.Skewness.Float64()
	require.True(t, ok)
	assert.InDelta(t, 1.697056, skew, 1e-6)
}

func TestSalesDistribution_SmallSamples(t *testing.T) {
	one := SalesDistribution(NewDataset([]domain.OrderLine{line("O1", "C1", "2015-01-01", "7")}))
	assertRatio(t, "7", one.Median)
	assert.False(t, one.StdDev.IsDefined())
	assert.False(t, one.Skewness.IsDefined())

	two := SalesDistribution(NewDataset([]domain.OrderLine{
		line("O1", "C1", "2015-01-01", "7"),
		line("O2", "C1", "2015-01-01", "8"),
	}))
	assertRatio(t, "7.5", two.Median)
	assert.True(t, two.StdDev.IsDefined())
	assert.False(t, two.Skewness.IsDefined())

	flat := SalesDistribution(NewDataset([]domain.OrderLine{
		line("O1", "C1", "2015-01-01", "5"),
		line("O2", "C1", "2015-01-01", "5"),
		line("O3", "C1", "2015-01-01", "5"),
	}))
	assertRatio(t, "0", flat.Skewness)
}

func TestEmptyDataset(t *testing.T) {
	ds := NewDataset(nil)

	assert.Zero(t, ds.Len())
	r := Retention(ds)
	assert.Zero(t, r.Customers)
	assert.False(t, r.Rate.IsDefined())

	assert.Empty(t, RepeatOrdersByMonth(ds))
	gaps := InterOrderGaps(ds)
	assert.Empty(t, gaps.Customers)
	assert.False(t, gaps.Mean.IsDefined())
	assert.Empty(t, InterOrderGapsBySegment(ds))
	assert.Empty(t, CustomersByYear(ds))
	assert.Empty(t, AverageOrderValue(ds, DimSegment))
	assert.Empty(t, AverageOrderValue(ds))
	assert.Empty(t, Rollup(ds, DimCategory))
	assert.Empty(t, OrderCounts(ds, DimSegment, DimShipMode))
	assert.Empty(t, TopN(ds, DimProduct, 10))
	assert.Empty(t, BottomN(ds, DimCity, 10))
	assert.Empty(t, FulfillmentLatency(ds, DimRegion))
	assert.False(t, OverallLatency(ds).IsDefined())

	points, err := SalesTrend(ds, DimMonth)
	require.NoError(t, err)
	assert.Empty(t, points)

	d := SalesDistribution(ds)
	assert.Zero(t, d.Count)
	assert.False(t, d.Mean.IsDefined())
	assert.False(t, d.Median.IsDefined())

	_, err = GrowthRate(ds, 2015, 2018)
	assert.ErrorIs(t, err, ErrNoBaselineCustomers)
}

func TestDataset_Immutable(t *testing.T) {
	lines := []domain.OrderLine{
		line("O1", "C1", "2015-01-01", "10", withRegion("West")),
		line("O2", "C2", "2015-06-01", "20", withRegion("East")),
	}
	ds := NewDataset(lines)

	lines[0].Sales = dec("999")
	assert.True(t, dec("10").Equal(ds.Lines()[0].Sales))

	out := ds.Lines()
	out[0].CustomerID = "changed"
	assert.Equal(t, "C1", ds.Lines()[0].CustomerID)

	west := ds.Where(DimRegion, "West")
	assert.Equal(t, 1, west.Len())
	assert.Equal(t, 2, ds.Len())

	first := ds.Between(day("2015-01-01"), day("2015-03-31"))
	require.Equal(t, 1, first.Len())
	assert.Equal(t, "O1", first.Lines()[0].OrderID)

	// calendar features are derived on the way in
	assert.Equal(t, "2015-Q2", ds.Lines()[1].Calendar.YearQuarter)
}

func TestParseDimension(t *testing.T) {
	d, err := ParseDimension(" Sub_Category ")
	require.NoError(t, err)
	assert.Equal(t, DimSubCategory, d)

	_, err = ParseDimension("country")
	assert.Error(t, err)
}

func TestRatio(t *testing.T) {
	assert.False(t, Divide(dec("1"), decimal.Zero).IsDefined())
	assert.Equal(t, "undefined", DivideInts(3, 0).String())
	assert.Equal(t, "undefined", Undefined().Format(2))
	assert.Equal(t, "33.33", DivideInts(1, 3).Percent().Format(2))
	assert.False(t, FromFloat(0.0/zero()).IsDefined())
	assert.True(t, Undefined().Equal(Ratio{}))

	payload, err := json.Marshal(struct {
		A Ratio `json:"a"`
		B Ratio `json:"b"`
	}{A: DivideInts(1, 4), B: Undefined()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":0.25,"b":null}`, string(payload))
}

func zero() float64 { return 0 }
