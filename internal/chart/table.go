// Package chart turns derived view tables into go-gg tables and renders
// the line and bar views as SVG.
package chart

import (
	"github.com/aclements/go-gg/table"

	"popdash/internal/models"
)

// RankedTable has columns rank, country, population.
func RankedTable(rows []models.RankedRow) *table.Table {
	ranks := make([]int, len(rows))
	countries := make([]string, len(rows))
	pops := make([]float64, len(rows))
	for i, r := range rows {
		ranks[i], countries[i], pops[i] = r.Rank, r.Country, r.Value
	}
	return new(table.Builder).
		Add("rank", ranks).
		Add("country", countries).
		Add("population", pops).
		Done()
}

// SharesTable has columns country, area, area share.
func SharesTable(shares []models.AreaShare) *table.Table {
	countries := make([]string, len(shares))
	areas := make([]float64, len(shares))
	fracs := make([]float64, len(shares))
	for i, s := range shares {
		countries[i], areas[i], fracs[i] = s.Country, s.Area, s.Share
	}
	return new(table.Builder).
		Add("country", countries).
		Add("area", areas).
		Add("area share", fracs).
		Done()
}

// SeriesTable has columns year, population.
func SeriesTable(series []models.SeriesPoint) *table.Table {
	years := make([]int, len(series))
	pops := make([]float64, len(series))
	for i, p := range series {
		years[i], pops[i] = p.Year, p.Value
	}
	return new(table.Builder).Add("year", years).Add("population", pops).Done()
}

// DistributionTable has columns year (the label), population.
func DistributionTable(d *models.Distribution) *table.Table {
	labels := make([]string, len(d.Bins))
	pops := make([]float64, len(d.Bins))
	for i, b := range d.Bins {
		labels[i], pops[i] = b.Label, b.Value
	}
	return new(table.Builder).Add("year", labels).Add("population", pops).Done()
}

// ChoroplethTable has columns country, population, label. label is set
// only for the annotated top countries.
func ChoroplethTable(v *models.ChoroplethView) *table.Table {
	notes := make(map[string]string, len(v.Annotations))
	for _, a := range v.Annotations {
		notes[a.Country] = a.Text
	}
	countries := make([]string, len(v.Values))
	pops := make([]float64, len(v.Values))
	labels := make([]string, len(v.Values))
	for i, cv := range v.Values {
		countries[i], pops[i], labels[i] = cv.Country, cv.Value, notes[cv.Country]
	}
	return new(table.Builder).
		Add("country", countries).
		Add(v.Column, pops).
		Add("label", labels).
		Done()
}
