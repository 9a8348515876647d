package dataset

import (
	"bufio"
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/cupstack/waitlab/pkg/errors"
	"github.com/cupstack/waitlab/pkg/log"
)

// ColumnSpec declares the expected type of one column.
type ColumnSpec struct {
	Name string
	Kind ColumnKind
}

// Schema is the statically declared column list for a dataset. Columns in
// the file but not in the schema are loaded with an inferred kind; the
// cleaner decides their fate.
type Schema []ColumnSpec

// Kind returns the declared kind of name, or (KindString, false) when the
// column is not declared.
func (s Schema) Kind(name string) (ColumnKind, bool) {
	for _, spec := range s {
		if spec.Name == name {
			return spec.Kind, true
		}
	}
	return KindString, false
}

// Missing markers recognized in the source file.
func isMissingMarker(s string) bool {
	return s == "" || s == "NA" || s == "NaN"
}

// ReadCSV loads a header-equipped CSV file into a Table.
//
// Declared numeric columns are parsed as float64; a value that is neither a
// number nor a missing marker ("", "NA", "NaN") makes the whole load fail,
// because the declared schema is authoritative. Declared categorical columns
// are loaded as plain strings — the cleaner performs the categorical
// conversion after missing rows are gone. Undeclared columns get their kind
// inferred: numeric when every present value parses, string otherwise.
//
// Returns a *errors.LoadError when the file is missing, unreadable,
// malformed, or contains no data rows.
func ReadCSV(path string, schema Schema) (*Table, error) {
	start := time.Now()
	logger := log.GetLoggerWithName("dataset")

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewLoadError(path, err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(bufio.NewReader(f))
	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.NewLoadError(path, errors.ErrEmptyData)
		}
		return nil, errors.NewLoadError(path, err)
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewLoadError(path, err)
	}
	if len(records) == 0 {
		return nil, errors.NewLoadError(path, errors.ErrEmptyData)
	}

	nRows := len(records)
	cols := make([]*Column, len(header))
	for j, name := range header {
		kind, declared := schema.Kind(name)
		if !declared {
			kind = inferKind(records, j)
		}
		col := &Column{Name: name, Kind: kind, Missing: make([]bool, nRows)}

		switch kind {
		case KindNumeric:
			col.Floats = make([]float64, nRows)
			for i, rec := range records {
				raw := rec[j]
				if isMissingMarker(raw) {
					col.Floats[i] = math.NaN()
					col.Missing[i] = true
					continue
				}
				v, perr := strconv.ParseFloat(raw, 64)
				if perr != nil {
					if !declared {
						// inferKind guarantees this cannot happen
						col.Floats[i] = math.NaN()
						col.Missing[i] = true
						continue
					}
					return nil, errors.NewLoadError(path, errors.Wrapf(perr,
						"column %s row %d: %q is not numeric", name, i+1, raw))
				}
				col.Floats[i] = v
			}
		default:
			// Categorical columns stay plain strings until the cleaner
			// assigns levels.
			if kind == KindCategorical {
				col.Kind = KindString
			}
			col.Strings = make([]string, nRows)
			for i, rec := range records {
				raw := rec[j]
				if isMissingMarker(raw) {
					col.Missing[i] = true
					continue
				}
				col.Strings[i] = raw
			}
		}
		cols[j] = col
	}

	table, err := NewTable(cols)
	if err != nil {
		return nil, errors.NewLoadError(path, err)
	}

	logger.Info("Load completed",
		log.OperationKey, log.OperationLoad,
		log.PhaseKey, log.PhaseData,
		log.PathKey, path,
		log.RowsKey, table.NumRows(),
		log.ColumnsKey, table.NumCols(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return table, nil
}

// inferKind scans an undeclared column: numeric when every present value
// parses as a float, string otherwise.
func inferKind(records [][]string, j int) ColumnKind {
	seen := false
	for _, rec := range records {
		raw := rec[j]
		if isMissingMarker(raw) {
			continue
		}
		seen = true
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return KindString
		}
	}
	if !seen {
		return KindString
	}
	return KindNumeric
}
