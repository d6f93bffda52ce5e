package engine

import (
	"bufio"
	stdcsv "encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/csv"
	log "github.com/sirupsen/logrus"
)

const (
	colCountry = "country"
	colArea    = "area"

	// Rows per arrow record while reading.
	chunkRows = 256
)

// LoadFile reads the countries CSV at path. See Load.
func LoadFile(path string, years []int) (*Table, error) {
	start := time.Now()
	log.Debugf("Loading %s", path)

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Load(f, years)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	log.Infof("Load Complete. Rows: %d. Years: %v. Time: %v", t.Len(), t.Years(), time.Since(start))
	return t, nil
}

// Load reads a countries CSV with a header row. It needs the columns
// "country", "area" and "pop{year}" for every year; other columns are
// ignored. Empty or unparsable cells are rejected.
func Load(r io.Reader, years []int) (*Table, error) {
	names := []string{colCountry, colArea}
	types := map[string]arrow.DataType{
		colCountry: arrow.BinaryTypes.String,
		colArea:    arrow.PrimitiveTypes.Float64,
	}
	for _, y := range years {
		names = append(names, PopColumn(y))
		types[PopColumn(y)] = arrow.PrimitiveTypes.Float64
	}

	// Arrow only reports a missing column as a field count mismatch, so
	// read the header first and build the schema from it.
	br := bufio.NewReader(r)
	line, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, wrapError(CodeInvalidData, err, "read header")
	}
	header, err := checkHeader(line, names)
	if err != nil {
		return nil, err
	}
	fields := make([]arrow.Field, len(header))
	for i, name := range header {
		dt, ok := types[name]
		if !ok {
			dt = arrow.BinaryTypes.String
		}
		fields[i] = arrow.Field{Name: name, Type: dt, Nullable: true}
	}

	rd := csv.NewReader(io.MultiReader(strings.NewReader(line), br), arrow.NewSchema(fields, nil),
		csv.WithHeader(true),
		csv.WithChunk(chunkRows),
		csv.WithNullReader(true, ""),
	)
	defer rd.Release()

	var (
		countries []string
		areas     []float64
		pops      = make(map[int][]float64, len(years))
	)
	for rd.Next() {
		rec := rd.Record()
		offset := len(countries)

		c, err := stringColumn(rec, colCountry, offset)
		if err != nil {
			return nil, err
		}
		countries = append(countries, c...)

		a, err := floatColumn(rec, colArea, offset)
		if err != nil {
			return nil, err
		}
		areas = append(areas, a...)

		for _, y := range years {
			p, err := floatColumn(rec, PopColumn(y), offset)
			if err != nil {
				return nil, err
			}
			pops[y] = append(pops[y], p...)
		}
	}
	if err := rd.Err(); err != nil {
		return nil, wrapError(CodeInvalidData, err, "read csv")
	}
	if countries == nil {
		for _, y := range years {
			pops[y] = []float64{}
		}
	}
	return NewTable(countries, areas, years, pops)
}

// checkHeader parses the header line and returns its fields.
func checkHeader(line string, names []string) ([]string, error) {
	fields, err := stdcsv.NewReader(strings.NewReader(line)).Read()
	if err == io.EOF {
		return nil, newError(CodeInvalidData, "no header row")
	}
	if err != nil {
		return nil, wrapError(CodeInvalidData, err, "header")
	}
	have := make(map[string]bool, len(fields))
	for _, f := range fields {
		have[f] = true
	}
	for _, name := range names {
		if !have[name] {
			return nil, newError(CodeInvalidData, "missing column %s", name)
		}
	}
	return fields, nil
}

// recordColumn expects a column that passed checkHeader.
func recordColumn(rec arrow.Record, name string) arrow.Array {
	return rec.Column(rec.Schema().FieldIndices(name)[0])
}

func stringColumn(rec arrow.Record, name string, offset int) ([]string, error) {
	col := recordColumn(rec, name)
	arr, ok := col.(*array.String)
	if !ok {
		return nil, newError(CodeInvalidData, "column %s is %s, want string", name, col.DataType())
	}
	out := make([]string, arr.Len())
	for i := range out {
		if arr.IsNull(i) {
			return nil, newError(CodeInvalidData, "row %d: empty or unparsable %s", offset+i, name)
		}
		out[i] = arr.Value(i)
	}
	return out, nil
}

func floatColumn(rec arrow.Record, name string, offset int) ([]float64, error) {
	col := recordColumn(rec, name)
	arr, ok := col.(*array.Float64)
	if !ok {
		return nil, newError(CodeInvalidData, "column %s is %s, want float64", name, col.DataType())
	}
	out := make([]float64, arr.Len())
	for i := range out {
		if arr.IsNull(i) {
			return nil, newError(CodeInvalidData, "row %d: empty or unparsable %s", offset+i, name)
		}
		out[i] = arr.Value(i)
	}
	return out, nil
}
