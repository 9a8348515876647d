package dataset

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cupstack/waitlab/pkg/errors"
	"github.com/cupstack/waitlab/pkg/log"
)

// CleanOptions configures Clean.
type CleanOptions struct {
	// DropPrefix removes every column whose name starts with this literal
	// prefix. Empty disables the drop.
	DropPrefix string

	// Categoricals is the enumerated list of columns to convert to
	// categorical type after missing rows and prefixed columns are gone.
	Categoricals []string
}

// Clean applies the three cleaning operations in their fixed order:
// drop rows with any missing value, drop prefix-matched columns, convert
// the enumerated columns to categoricals. The input table is not mutated.
//
// Zero remaining rows is fatal. A categorical with fewer than two observed
// levels is dropped with a warning rather than failing, since it carries no
// information.
func Clean(t *Table, opts CleanOptions) (*Table, error) {
	start := time.Now()
	logger := log.GetLoggerWithName("dataset")

	out, err := DropMissingRows(t)
	if err != nil {
		return nil, err
	}

	if opts.DropPrefix != "" {
		out = DropColumnsWithPrefix(out, opts.DropPrefix)
	}

	out, err = ToCategorical(out, opts.Categoricals)
	if err != nil {
		return nil, err
	}

	logger.Info("Clean completed",
		log.OperationKey, log.OperationClean,
		log.PhaseKey, log.PhaseData,
		log.RowsKey, out.NumRows(),
		log.ColumnsKey, out.NumCols(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return out, nil
}

// DropMissingRows returns a table containing only the rows with a value in
// every column. Fails when nothing is left: the pipeline cannot model an
// empty table.
func DropMissingRows(t *Table) (*Table, error) {
	keep := make([]int, 0, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		complete := true
		for _, c := range t.Columns() {
			if c.IsMissing(i) {
				complete = false
				break
			}
		}
		if complete {
			keep = append(keep, i)
		}
	}
	if len(keep) == 0 {
		return nil, errors.NewValueError("DropMissingRows",
			"no rows remain after dropping missing values")
	}
	return t.SelectRows(keep)
}

// DropColumnsWithPrefix returns a table without the columns whose name
// starts with prefix.
func DropColumnsWithPrefix(t *Table, prefix string) *Table {
	kept := make([]*Column, 0, t.NumCols())
	for _, c := range t.Columns() {
		if strings.HasPrefix(c.Name, prefix) {
			continue
		}
		kept = append(kept, c.clone())
	}
	// Names were unique before, so rebuilding cannot fail.
	out, _ := NewTable(kept)
	return out
}

// ToCategorical converts the named columns to categorical type. Levels are
// the observed values in lexicographic order, making the first — the
// reference level — deterministic and always a genuinely observed value.
//
// A named column missing from the table is an error (the declared schema
// and the file disagree). A column with fewer than two observed levels is
// dropped with a warning.
func ToCategorical(t *Table, names []string) (*Table, error) {
	degenerate := make(map[string]bool)

	cols := make([]*Column, 0, t.NumCols())
	for _, c := range t.Columns() {
		cols = append(cols, c.clone())
	}
	byName := make(map[string]*Column, len(cols))
	for _, c := range cols {
		byName[c.Name] = c
	}

	for _, name := range names {
		c, ok := byName[name]
		if !ok {
			return nil, errors.NewValueError("ToCategorical",
				fmt.Sprintf("declared categorical column %q not present", name))
		}
		if c.Kind == KindNumeric {
			return nil, errors.NewValueError("ToCategorical",
				fmt.Sprintf("column %q is numeric; cannot convert to categorical", name))
		}

		levelSet := make(map[string]bool)
		for i, v := range c.Strings {
			if !c.IsMissing(i) {
				levelSet[v] = true
			}
		}
		if len(levelSet) < 2 {
			errors.Warn(errors.NewValueError("ToCategorical",
				fmt.Sprintf("column %q has %d observed level(s); dropping", name, len(levelSet))))
			degenerate[name] = true
			continue
		}

		levels := make([]string, 0, len(levelSet))
		for lv := range levelSet {
			levels = append(levels, lv)
		}
		sort.Strings(levels)

		c.Kind = KindCategorical
		c.Levels = levels
	}

	if len(degenerate) > 0 {
		kept := cols[:0]
		for _, c := range cols {
			if !degenerate[c.Name] {
				kept = append(kept, c)
			}
		}
		cols = kept
	}
	return NewTable(cols)
}
