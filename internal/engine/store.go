package engine

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// DefaultYears are the population columns of the public countries table.
var DefaultYears = []int{1980, 2000, 2010, 2022, 2023, 2030, 2050}

// DefaultYear is preselected in the dashboard when the table supports it.
const DefaultYear = 2023

// Table holds the dataset in Struct-of-Arrays format, one entry per country.
// It is never modified after NewTable returns, so concurrent queries need no locking.
type Table struct {
	// Data Columns (Flat Arrays)
	countries []string
	areas     []float64
	pops      [][]float64 // [year index][row]

	// Ascending; index into pops.
	years []int

	// Lookups (value -> index)
	yearIdx    map[int]int
	countryIdx map[string]int
}

// Selection is the (year, country) pair picked in the dashboard controls.
type Selection struct {
	Year    int
	Country string
}

// NewTable validates and copies the given columns. pops must hold one
// column per year, each as long as countries.
func NewTable(countries []string, areas []float64, years []int, pops map[int][]float64) (*Table, error) {
	n := len(countries)
	if len(areas) != n {
		return nil, newError(CodeInvalidData, "area column has %d rows, country column has %d", len(areas), n)
	}
	if len(years) == 0 {
		return nil, newError(CodeInvalidData, "no year columns")
	}

	t := &Table{
		countries:  make([]string, n),
		areas:      make([]float64, n),
		years:      append([]int(nil), years...),
		yearIdx:    make(map[int]int, len(years)),
		countryIdx: make(map[string]int, n),
	}
	sort.Ints(t.years)
	for i := 1; i < len(t.years); i++ {
		if t.years[i] == t.years[i-1] {
			return nil, newError(CodeInvalidData, "year %d listed twice", t.years[i])
		}
	}
	if len(pops) != len(t.years) {
		return nil, newError(CodeInvalidData, "got %d population columns for %d years", len(pops), len(t.years))
	}

	for i, c := range countries {
		if strings.TrimSpace(c) == "" {
			return nil, newError(CodeInvalidData, "row %d: empty country", i)
		}
		if prev, dup := t.countryIdx[c]; dup {
			return nil, newError(CodeInvalidData, "row %d: country %q already at row %d", i, c, prev)
		}
		if err := checkValue(areas[i]); err != nil {
			return nil, wrapError(CodeInvalidData, err, "row %d (%s): area", i, c)
		}
		t.countries[i] = c
		t.areas[i] = areas[i]
		t.countryIdx[c] = i
	}

	t.pops = make([][]float64, len(t.years))
	for yi, y := range t.years {
		col, ok := pops[y]
		if !ok {
			return nil, newError(CodeInvalidData, "missing column %s", PopColumn(y))
		}
		if len(col) != n {
			return nil, newError(CodeInvalidData, "column %s has %d rows, want %d", PopColumn(y), len(col), n)
		}
		for i, v := range col {
			if err := checkValue(v); err != nil {
				return nil, wrapError(CodeInvalidData, err, "row %d (%s): %s", i, countries[i], PopColumn(y))
			}
		}
		t.pops[yi] = append([]float64(nil), col...)
		t.yearIdx[y] = yi
	}
	return t, nil
}

func checkValue(v float64) error {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return fmt.Errorf("not a finite number: %v", v)
	case v < 0:
		return fmt.Errorf("negative value %v", v)
	}
	return nil
}

// PopColumn returns the column name holding the population of year.
func PopColumn(year int) string {
	return "pop" + strconv.Itoa(year)
}

// ParseYear accepts a year as sent by the dashboard controls, either "2023"
// or the column name "pop2023". It does not check the year is supported.
func ParseYear(s string) (int, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "pop")
	y, err := strconv.Atoi(s)
	if err != nil {
		return 0, wrapError(CodeInvalidYear, err, "year %q", s)
	}
	return y, nil
}

// Len returns the number of countries.
func (t *Table) Len() int { return len(t.countries) }

// Years returns the supported years in ascending order.
func (t *Table) Years() []int { return append([]int(nil), t.years...) }

// Countries returns the countries in load order.
func (t *Table) Countries() []string { return append([]string(nil), t.countries...) }

// HasYear reports whether year has a population column.
func (t *Table) HasYear(year int) bool {
	_, ok := t.yearIdx[year]
	return ok
}

// Population returns a single cell.
func (t *Table) Population(country string, year int) (float64, error) {
	row, err := t.row(country)
	if err != nil {
		return 0, err
	}
	col, err := t.column(year)
	if err != nil {
		return 0, err
	}
	return col[row], nil
}

// DefaultSelection is what the dashboard shows before the user picks
// anything: DefaultYear (or the latest year if unsupported) and the first
// country.
func (t *Table) DefaultSelection() Selection {
	sel := Selection{Year: t.years[len(t.years)-1]}
	if t.HasYear(DefaultYear) {
		sel.Year = DefaultYear
	}
	if len(t.countries) > 0 {
		sel.Country = t.countries[0]
	}
	return sel
}

func (t *Table) row(country string) (int, error) {
	i, ok := t.countryIdx[country]
	if !ok {
		return 0, newError(CodeUnknownCountry, "unknown country %q", country)
	}
	return i, nil
}

func (t *Table) column(year int) ([]float64, error) {
	i, ok := t.yearIdx[year]
	if !ok {
		return nil, newError(CodeInvalidYear, "year %d not in %v", year, t.years)
	}
	return t.pops[i], nil
}
