package engine

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"testing"
)

// exampleTable is the three-country table used throughout the docs.
func exampleTable(t *testing.T) *Table {
	t.Helper()
	tab, err := NewTable(
		[]string{"A", "B", "C"},
		[]float64{10, 30, 60},
		[]int{2023},
		map[int][]float64{2023: {100, 300, 50}},
	)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return tab
}

// worldTable has every default year and a tie in 2050.
func worldTable(t *testing.T) *Table {
	t.Helper()
	countries := []string{"India", "China", "United States", "Indonesia", "Pakistan", "Nigeria", "Brazil", "Monaco"}
	areas := []float64{3287590, 9706961, 9372610, 1904569, 881912, 923768, 8515767, 2}
	pops := map[int][]float64{
		1980: {696828385, 982372466, 223140018, 148177096, 80624057, 72951439, 122288383, 27076},
		2000: {1059633675, 1264099069, 282398554, 214072421, 154369924, 122851984, 175873720, 32465},
		2010: {1240613620, 1348191368, 311182845, 244016173, 194454498, 160952853, 196353492, 33178},
		2022: {1417173173, 1425887337, 338289857, 275501339, 235824862, 218541212, 215313498, 36469},
		2023: {1428627663, 1425671352, 339996563, 277534122, 240485658, 223804632, 216422446, 36297},
		2030: {1514994080, 1415605906, 352162301, 292150100, 274029836, 262580425, 223908968, 36994},
		2050: {1670490596, 1312636325, 375391963, 317225213, 366298014, 375391963, 230885725, 38020},
	}
	tab, err := NewTable(countries, areas, DefaultYears, pops)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return tab
}

func TestTopNByYearExample(t *testing.T) {
	tab := exampleTable(t)

	top, err := tab.TopNByYear(2023, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(top))
	}
	if top[0].Country != "B" || top[0].Value != 300 || top[0].Rank != 1 {
		t.Errorf("Row 0: expected (B, 300, 1), got %+v", top[0])
	}
	if top[1].Country != "A" || top[1].Value != 100 || top[1].Rank != 2 {
		t.Errorf("Row 1: expected (A, 100, 2), got %+v", top[1])
	}
}

func TestTopNByYearErrors(t *testing.T) {
	tab := exampleTable(t)

	if _, err := tab.TopNByYear(1999, 5); !errors.Is(err, ErrInvalidYear) {
		t.Errorf("year 1999: expected InvalidYear, got %v", err)
	}
	for _, n := range []int{0, -1} {
		if _, err := tab.TopNByYear(2023, n); !errors.Is(err, ErrInvalidN) {
			t.Errorf("n=%d: expected InvalidN, got %v", n, err)
		}
	}
}

func TestTopNByYearMoreThanRows(t *testing.T) {
	tab := exampleTable(t)

	top, err := tab.TopNByYear(2023, 50)
	if err != nil {
		t.Fatalf("n > rows should not fail: %v", err)
	}
	var got []string
	for _, r := range top {
		got = append(got, r.Country)
	}
	if want := []string{"B", "A", "C"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestTopNByYearTieBreak(t *testing.T) {
	tab := worldTable(t)

	// Nigeria and United States share 375391963 in 2050.
	top, err := tab.TopNByYear(2050, 4)
	if err != nil {
		t.Fatal(err)
	}
	if top[2].Country != "Nigeria" || top[3].Country != "United States" {
		t.Errorf("tie should be ordered by name, got %s then %s", top[2].Country, top[3].Country)
	}
}

func TestTopNByYearProperties(t *testing.T) {
	tab := worldTable(t)

	for _, y := range tab.Years() {
		for n := 1; n <= tab.Len(); n++ {
			top, err := tab.TopNByYear(y, n)
			if err != nil {
				t.Fatalf("year %d n %d: %v", y, n, err)
			}
			if len(top) != n {
				t.Fatalf("year %d n %d: got %d rows", y, n, len(top))
			}
			seen := map[string]bool{}
			for i, r := range top {
				if seen[r.Country] {
					t.Errorf("year %d n %d: duplicate %s", y, n, r.Country)
				}
				seen[r.Country] = true

				want, err := tab.Population(r.Country, y)
				if err != nil || want != r.Value {
					t.Errorf("year %d: %s = %v, table has %v (%v)", y, r.Country, r.Value, want, err)
				}
				if i > 0 && top[i-1].Value < r.Value {
					t.Errorf("year %d n %d: not descending at %d", y, n, i)
				}
				if r.Rank != i+1 {
					t.Errorf("year %d: rank %d at position %d", y, r.Rank, i)
				}
			}
		}
	}
}

func TestAreaShares(t *testing.T) {
	shares, err := exampleTable(t).AreaShares()
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]float64{"A": 0.1, "B": 0.3, "C": 0.6}
	if len(shares) != len(want) {
		t.Fatalf("Expected %d shares, got %d", len(want), len(shares))
	}
	for _, s := range shares {
		if math.Abs(s.Share-want[s.Country]) > 1e-12 {
			t.Errorf("%s: expected share %v, got %v", s.Country, want[s.Country], s.Share)
		}
	}
	if shares[1].Area != 30 {
		t.Errorf("raw area should be kept, got %v", shares[1].Area)
	}
}

func TestAreaSharesSumToOne(t *testing.T) {
	shares, err := worldTable(t).AreaShares()
	if err != nil {
		t.Fatal(err)
	}
	var sum float64
	for _, s := range shares {
		if s.Share < 0 || s.Share > 1 {
			t.Errorf("%s: share %v out of range", s.Country, s.Share)
		}
		sum += s.Share
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("shares sum to %v", sum)
	}
}

func TestAreaSharesEmpty(t *testing.T) {
	empty, err := NewTable(nil, nil, []int{2023}, map[int][]float64{2023: nil})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := empty.AreaShares(); !errors.Is(err, ErrEmptyTable) {
		t.Errorf("zero rows: expected EmptyTable, got %v", err)
	}

	zero, err := NewTable([]string{"X", "Y"}, []float64{0, 0}, []int{2023}, map[int][]float64{2023: {1, 2}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := zero.AreaShares(); !errors.Is(err, ErrEmptyTable) {
		t.Errorf("zero area: expected EmptyTable, got %v", err)
	}
}

func TestSeriesForCountry(t *testing.T) {
	series, err := exampleTable(t).SeriesForCountry("A", []int{2023})
	if err != nil {
		t.Fatal(err)
	}
	if len(series) != 1 || series[0].Year != 2023 || series[0].Value != 100 {
		t.Errorf("Expected [(2023, 100)], got %+v", series)
	}
}

func TestSeriesForCountryOrdering(t *testing.T) {
	tab := worldTable(t)

	series, err := tab.SeriesForCountry("Brazil", []int{2050, 1980, 2023, 1980, 2000})
	if err != nil {
		t.Fatal(err)
	}
	var years []int
	for _, p := range series {
		years = append(years, p.Year)
	}
	if want := []int{1980, 2000, 2023, 2050}; !reflect.DeepEqual(years, want) {
		t.Errorf("Expected years %v, got %v", want, years)
	}

	all, err := tab.SeriesForCountry("Brazil", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != len(DefaultYears) {
		t.Errorf("nil years should select all %d years, got %d", len(DefaultYears), len(all))
	}
}

func TestSeriesForCountryErrors(t *testing.T) {
	tab := worldTable(t)

	if _, err := tab.SeriesForCountry("Atlantis", nil); !errors.Is(err, ErrUnknownCountry) {
		t.Errorf("expected UnknownCountry, got %v", err)
	}
	if _, err := tab.SeriesForCountry("India", []int{2023, 1999}); !errors.Is(err, ErrInvalidYear) {
		t.Errorf("expected InvalidYear, got %v", err)
	}
	if _, err := tab.DistributionForCountry("Atlantis", nil); !errors.Is(err, ErrUnknownCountry) {
		t.Errorf("distribution: expected UnknownCountry, got %v", err)
	}
}

func TestSeriesRoundTrip(t *testing.T) {
	tab := worldTable(t)

	for _, c := range tab.Countries() {
		series, err := tab.SeriesForCountry(c, tab.Years())
		if err != nil {
			t.Fatal(err)
		}
		byYear := make(map[int]float64, len(series))
		for _, p := range series {
			byYear[p.Year] = p.Value
		}
		for _, y := range tab.Years() {
			want, _ := tab.Population(c, y)
			if got, ok := byYear[y]; !ok || got != want {
				t.Errorf("%s %d: round trip gave %v, want %v", c, y, got, want)
			}
		}
	}
}

func TestSeriesAndDistributionAgree(t *testing.T) {
	tab := worldTable(t)

	for _, c := range tab.Countries() {
		series, err := tab.SeriesForCountry(c, nil)
		if err != nil {
			t.Fatal(err)
		}
		dist, err := tab.DistributionForCountry(c, nil)
		if err != nil {
			t.Fatal(err)
		}
		if len(dist.Bins) != len(series) {
			t.Fatalf("%s: %d bins for %d points", c, len(dist.Bins), len(series))
		}
		for i, b := range dist.Bins {
			if b.Year != series[i].Year || b.Value != series[i].Value {
				t.Errorf("%s: bin %+v disagrees with point %+v", c, b, series[i])
			}
			if b.Label != fmt.Sprint(b.Year) {
				t.Errorf("%s: label %q for year %d", c, b.Label, b.Year)
			}
		}
	}
}

func TestDistributionSummary(t *testing.T) {
	tab, err := NewTable(
		[]string{"X"},
		[]float64{1},
		[]int{2000, 2010, 2020},
		map[int][]float64{2000: {2}, 2010: {4}, 2020: {6}},
	)
	if err != nil {
		t.Fatal(err)
	}

	d, err := tab.DistributionForCountry("X", nil)
	if err != nil {
		t.Fatal(err)
	}
	s := d.Summary
	if s.Mean != 4 || s.Min != 2 || s.Max != 6 {
		t.Errorf("unexpected summary %+v", s)
	}
	if math.Abs(s.StdDev-2) > 1e-12 {
		t.Errorf("Expected sample std dev 2, got %v", s.StdDev)
	}

	one, err := tab.DistributionForCountry("X", []int{2010})
	if err != nil {
		t.Fatal(err)
	}
	if one.Summary.StdDev != 0 || one.Summary.Mean != 4 {
		t.Errorf("single value summary %+v", one.Summary)
	}
}

func TestChoroplethSeries(t *testing.T) {
	tab := worldTable(t)

	view, err := tab.ChoroplethSeries(2023, 3)
	if err != nil {
		t.Fatal(err)
	}
	if view.Column != "pop2023" {
		t.Errorf("Expected column pop2023, got %s", view.Column)
	}
	if len(view.Values) != tab.Len() {
		t.Fatalf("map should color every country: %d of %d", len(view.Values), tab.Len())
	}
	for i, c := range tab.Countries() {
		if view.Values[i].Country != c {
			t.Errorf("Values[%d] = %s, want table order %s", i, view.Values[i].Country, c)
		}
	}

	top, _ := tab.TopNByYear(2023, 3)
	if !reflect.DeepEqual(view.Top, top) {
		t.Errorf("top list differs from TopNByYear:\n%+v\n%+v", view.Top, top)
	}
	if len(view.Annotations) != 3 || view.Annotations[0].Country != "India" {
		t.Fatalf("unexpected annotations %+v", view.Annotations)
	}
	if got := view.Annotations[0].Text; got != "1,428,627,663" {
		t.Errorf("Expected grouped digits, got %q", got)
	}

	if _, err := tab.ChoroplethSeries(1999, 3); !errors.Is(err, ErrInvalidYear) {
		t.Errorf("expected InvalidYear, got %v", err)
	}
}
