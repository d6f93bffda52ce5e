package engine

import (
	"math"
	"sort"
	"strconv"

	"github.com/aclements/go-moremath/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"popdash/internal/models"
)

// DefaultTopN is the size of the bar chart and of the map annotations.
const DefaultTopN = 10

// TopNByYear ranks countries by population in year, largest first. Equal
// populations are ordered by country name. If n exceeds the number of rows,
// every row is returned.
func (t *Table) TopNByYear(year, n int) ([]models.RankedRow, error) {
	col, err := t.column(year)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, newError(CodeInvalidN, "n must be positive, got %d", n)
	}

	rows := make([]int, len(col))
	for i := range rows {
		rows[i] = i
	}
	sort.Slice(rows, func(a, b int) bool {
		ra, rb := rows[a], rows[b]
		if col[ra] != col[rb] {
			return col[ra] > col[rb]
		}
		return t.countries[ra] < t.countries[rb]
	})
	if len(rows) > n {
		rows = rows[:n]
	}

	out := make([]models.RankedRow, len(rows))
	for i, r := range rows {
		out[i] = models.RankedRow{Rank: i + 1, Country: t.countries[r], Value: col[r]}
	}
	return out, nil
}

// AreaShares returns each country's fraction of the total area, in table order.
func (t *Table) AreaShares() ([]models.AreaShare, error) {
	var total float64
	for _, a := range t.areas {
		total += a
	}
	if len(t.areas) == 0 || total == 0 {
		return nil, newError(CodeEmptyTable, "total area is zero over %d rows", len(t.areas))
	}

	out := make([]models.AreaShare, len(t.areas))
	for i, a := range t.areas {
		out[i] = models.AreaShare{Country: t.countries[i], Share: a / total, Area: a}
	}
	return out, nil
}

// SeriesForCountry reshapes one country's row into (year, population)
// pairs, ascending by year whatever the order of years. An empty years
// selects every supported year.
func (t *Table) SeriesForCountry(country string, years []int) ([]models.SeriesPoint, error) {
	row, err := t.row(country)
	if err != nil {
		return nil, err
	}
	sel, err := t.selectYears(years)
	if err != nil {
		return nil, err
	}

	out := make([]models.SeriesPoint, len(sel))
	for i, y := range sel {
		out[i] = models.SeriesPoint{Year: y, Value: t.pops[t.yearIdx[y]][row]}
	}
	return out, nil
}

// DistributionForCountry returns the same values as SeriesForCountry as
// year-labelled bins, plus summary statistics.
func (t *Table) DistributionForCountry(country string, years []int) (*models.Distribution, error) {
	series, err := t.SeriesForCountry(country, years)
	if err != nil {
		return nil, err
	}

	d := &models.Distribution{
		Country: country,
		Bins:    make([]models.DistributionBin, len(series)),
	}
	xs := make([]float64, len(series))
	for i, p := range series {
		d.Bins[i] = models.DistributionBin{Label: strconv.Itoa(p.Year), Year: p.Year, Value: p.Value}
		xs[i] = p.Value
	}
	d.Summary = summarize(xs)
	return d, nil
}

func summarize(xs []float64) models.Summary {
	if len(xs) == 0 {
		return models.Summary{}
	}
	var s models.Summary
	s.Mean = stats.Mean(xs)
	s.Min, s.Max = stats.Bounds(xs)
	// Sample deviation is undefined for a single value.
	if len(xs) > 1 {
		s.StdDev = stats.StdDev(xs)
	}
	return s
}

// ChoroplethSeries returns the whole population column of year for the map,
// with the TopNByYear result as labelled annotations.
func (t *Table) ChoroplethSeries(year, n int) (*models.ChoroplethView, error) {
	top, err := t.TopNByYear(year, n)
	if err != nil {
		return nil, err
	}
	col, _ := t.column(year)

	v := &models.ChoroplethView{
		Year:        year,
		Column:      PopColumn(year),
		Values:      make([]models.CountryValue, len(col)),
		Top:         top,
		Annotations: make([]models.Annotation, len(top)),
	}
	for i, c := range t.countries {
		v.Values[i] = models.CountryValue{Country: c, Value: col[i]}
	}

	p := message.NewPrinter(language.English)
	for i, r := range top {
		v.Annotations[i] = models.Annotation{Country: r.Country, Value: r.Value, Text: formatPopulation(p, r.Value)}
	}
	return v, nil
}

func formatPopulation(p *message.Printer, v float64) string {
	if v == math.Trunc(v) && v < math.MaxInt64 {
		return p.Sprintf("%d", int64(v))
	}
	return p.Sprintf("%.1f", v)
}

// selectYears sorts and dedups years, defaulting to all supported years.
func (t *Table) selectYears(years []int) ([]int, error) {
	if len(years) == 0 {
		return t.Years(), nil
	}
	sel := append([]int(nil), years...)
	sort.Ints(sel)
	out := make([]int, 0, len(sel))
	for _, y := range sel {
		if len(out) > 0 && y == out[len(out)-1] {
			continue
		}
		if !t.HasYear(y) {
			return nil, newError(CodeInvalidYear, "year %d not in %v", y, t.years)
		}
		out = append(out, y)
	}
	return out, nil
}
