package chart

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"

	"popdash/internal/models"
)

// SVG size in pixels.
const (
	Width  = 800
	Height = 450
)

var ErrNoData = errors.New("chart: no data")

// Growth draws one country's population over the years.
func Growth(country string, series []models.SeriesPoint) ([]byte, error) {
	if len(series) == 0 {
		return nil, ErrNoData
	}
	// Plot years on a continuous axis.
	years := make([]float64, len(series))
	pops := make([]float64, len(series))
	for i, p := range series {
		years[i], pops[i] = float64(p.Year), p.Value
	}
	tab := new(table.Builder).Add("year", years).Add("population", pops).Done()

	p := gg.NewPlot(tab)
	p.Add(gg.LayerLines{X: "year", Y: "population"})
	p.Add(gg.LayerPoints{X: "year", Y: "population"})
	p.Add(gg.AxisLabel("x", "Year"), gg.AxisLabel("y", "Population"))
	p.Add(gg.Title("Population Growth - " + country))
	return render(p)
}

// Top draws the ranked countries of year, one point per country.
func Top(year int, rows []models.RankedRow) ([]byte, error) {
	if len(rows) == 0 {
		return nil, ErrNoData
	}
	p := gg.NewPlot(RankedTable(rows))
	p.Add(gg.LayerPoints{X: "country", Y: "population"})
	p.Add(gg.AxisLabel("x", "Country"), gg.AxisLabel("y", "Population"))
	p.Add(gg.Title(fmt.Sprintf("Top %d Countries with the Most Population - %d", len(rows), year)))
	return render(p)
}

func render(p *gg.Plot) ([]byte, error) {
	var buf bytes.Buffer
	if err := p.WriteSVG(&buf, Width, Height); err != nil {
		return nil, fmt.Errorf("render svg: %w", err)
	}
	return buf.Bytes(), nil
}
