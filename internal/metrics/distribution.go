package metrics

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// Distribution describes the spread of line sales
type Distribution struct {
	Count    int             `json:"count"`
	Total    decimal.Decimal `json:"total"`
	Mean     Ratio           `json:"mean"`
	Median   Ratio           `json:"median"`
	Min      Ratio           `json:"min"`
	Max      Ratio           `json:"max"`
	StdDev   Ratio           `json:"std_dev"`
	Skewness Ratio           `json:"skewness"`
}

// SalesDistribution summarizes line sales. StdDev is the sample standard
// deviation and needs two lines; Skewness is the adjusted Fisher-Pearson
// coefficient and needs three. Statistics without enough lines are undefined.
func SalesDistribution(ds *Dataset) Distribution {
	lines := ds.all()
	values := make([]decimal.Decimal, len(lines))
	for i, l := range lines {
		values[i] = l.Sales
	}
	sort.Slice(values, func(i, j int) bool { return values[i].LessThan(values[j]) })

	n := len(values)
	d := Distribution{Count: n, Total: decimal.Sum(decimal.Zero, values...)}
	if n == 0 {
		return d
	}

	d.Mean = Divide(d.Total, decimal.NewFromInt(int64(n)))
	d.Min = Defined(values[0])
	d.Max = Defined(values[n-1])
	if n%2 == 1 {
		d.Median = Defined(values[n/2])
	} else {
		d.Median = Divide(values[n/2-1].Add(values[n/2]), decimal.NewFromInt(2))
	}

	mean, _ := d.Mean.Float64()
	var m2, m3 float64
	for _, v := range values {
		dev := v.InexactFloat64() - mean
		m2 += dev * dev
		m3 += dev * dev * dev
	}

	fn := float64(n)
	if n >= 2 {
		d.StdDev = FromFloat(math.Sqrt(m2 / (fn - 1)))
	}
	if n >= 3 {
		if m2 == 0 {
			d.Skewness = Defined(decimal.Zero)
		} else {
			g1 := (m3 / fn) / math.Pow(m2/fn, 1.5)
			d.Skewness = FromFloat(math.Sqrt(fn*(fn-1)) / (fn - 2) * g1)
		}
	}
	return d
}
