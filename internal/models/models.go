package models

// RankedRow feeds the top-N bar chart.
type RankedRow struct {
	Rank    int     `json:"rank"`
	Country string  `json:"country"`
	Value   float64 `json:"population"`
}

// AreaShare feeds the share-of-area pie.
type AreaShare struct {
	Country string  `json:"country"`
	Share   float64 `json:"area_share"`
	Area    float64 `json:"area"`
}

// SeriesPoint is one row of the long-format growth series.
type SeriesPoint struct {
	Year  int     `json:"year"`
	Value float64 `json:"population"`
}

// DistributionBin is a categorical histogram bar, labelled by year.
type DistributionBin struct {
	Label string  `json:"label"`
	Year  int     `json:"year"`
	Value float64 `json:"population"`
}

type Summary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

type Distribution struct {
	Country string            `json:"country"`
	Bins    []DistributionBin `json:"bins"`
	Summary Summary           `json:"summary"`
}

type CountryValue struct {
	Country string  `json:"country"`
	Value   float64 `json:"population"`
}

// Annotation labels one of the top countries on the map.
type Annotation struct {
	Country string  `json:"country"`
	Value   float64 `json:"population"`
	Text    string  `json:"text"`
}

// ChoroplethView colors every country and labels the top ones.
type ChoroplethView struct {
	Year        int            `json:"year"`
	Column      string         `json:"column"`
	Values      []CountryValue `json:"values"`
	Top         []RankedRow    `json:"top"`
	Annotations []Annotation   `json:"annotations"`
}
