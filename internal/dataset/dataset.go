package dataset

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
)

// RequiredColumns is the minimum numeric column set every dataset carries
var RequiredColumns = []string{"open", "high", "low", "close", "volume"}

var (
	ErrInvalidSymbol    = errors.New("invalid symbol")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrUnorderedRows    = errors.New("duplicate timestamp within symbol group")
)

// Row is one materialized dataset row: a symbol, a timestamp, the numeric
// column values and any categorical labels
type Row struct {
	Symbol string             `json:"symbol"`
	Time   time.Time          `json:"time"`
	Values map[string]float64 `json:"values"`
	Labels map[string]string  `json:"labels,omitempty"`
}

// Group is a contiguous run of rows belonging to one symbol,
// ordered by time ascending. Start is inclusive, End exclusive.
type Group struct {
	Symbol string
	Start  int
	End    int
}

// Len returns the number of rows in the group
func (g Group) Len() int {
	return g.End - g.Start
}

// Dataset is an immutable, columnar snapshot of OHLCV rows ordered by
// (symbol, time) ascending. Numeric columns are flat row-aligned buffers;
// the group index records the contiguous row range of each symbol.
// A Dataset is safe for concurrent readers; it is never mutated after Build.
type Dataset struct {
	version string
	symbols []string
	times   []time.Time
	columns map[string][]float64
	labels  map[string][]string
	groups  []Group
}

// Version returns the dataset version used in cache keys. Two datasets with
// the same version are assumed to hold identical rows.
func (d *Dataset) Version() string { return d.version }

// Len returns the number of rows
func (d *Dataset) Len() int { return len(d.symbols) }

// Groups returns the symbol-group index
func (d *Dataset) Groups() []Group { return d.groups }

// NumericColumn returns the named numeric column buffer
func (d *Dataset) NumericColumn(name string) ([]float64, bool) {
	col, ok := d.columns[name]
	return col, ok
}

// HasColumn reports whether the dataset carries the named column,
// numeric or categorical
func (d *Dataset) HasColumn(name string) bool {
	if _, ok := d.columns[name]; ok {
		return true
	}
	_, ok := d.labels[name]
	return ok
}

// IsCategorical reports whether the named column holds string labels
func (d *Dataset) IsCategorical(name string) bool {
	_, ok := d.labels[name]
	return ok
}

// ColumnNames returns the numeric column names in sorted order
func (d *Dataset) ColumnNames() []string {
	names := make([]string, 0, len(d.columns))
	for name := range d.columns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Row materializes row i, copying its values out of the column buffers
func (d *Dataset) Row(i int) Row {
	row := Row{
		Symbol: d.symbols[i],
		Time:   d.times[i],
		Values: make(map[string]float64, len(d.columns)),
	}
	for name, col := range d.columns {
		row.Values[name] = col[i]
	}
	if len(d.labels) > 0 {
		row.Labels = make(map[string]string, len(d.labels))
		for name, col := range d.labels {
			row.Labels[name] = col[i]
		}
	}
	return row
}

// Builder assembles a Dataset from individual rows. Rows may be added in any
// order; Build sorts them by (symbol, time) and computes the group index.
type Builder struct {
	version string
	rows    []Row
}

// NewBuilder creates a dataset builder. If version is empty, Build derives
// a content-based version from the row stream.
func NewBuilder(version string) *Builder {
	return &Builder{version: version}
}

// AddRow appends a row with numeric column values only
func (b *Builder) AddRow(symbol string, t time.Time, values map[string]float64) *Builder {
	return b.AddLabeledRow(symbol, t, values, nil)
}

// AddLabeledRow appends a row with numeric values and categorical labels
func (b *Builder) AddLabeledRow(symbol string, t time.Time, values map[string]float64, labels map[string]string) *Builder {
	b.rows = append(b.rows, Row{Symbol: symbol, Time: t, Values: values, Labels: labels})
	return b
}

// Build sorts the rows, validates them and freezes the columnar dataset.
// Numeric columns are the union across rows; values absent from a row are
// stored as unavailable. An empty builder yields an empty dataset (rejecting
// it is the engine's job, with a proper diagnostic).
func (b *Builder) Build() (*Dataset, error) {
	for i := range b.rows {
		if b.rows[i].Symbol == "" {
			return nil, fmt.Errorf("row %d: %w", i, ErrInvalidSymbol)
		}
		if b.rows[i].Time.IsZero() {
			return nil, fmt.Errorf("row %d: %w", i, ErrInvalidTimestamp)
		}
	}

	rows := make([]Row, len(b.rows))
	copy(rows, b.rows)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Symbol != rows[j].Symbol {
			return rows[i].Symbol < rows[j].Symbol
		}
		return rows[i].Time.Before(rows[j].Time)
	})

	// Time must be strictly increasing within a symbol group
	for i := 1; i < len(rows); i++ {
		if rows[i].Symbol == rows[i-1].Symbol && !rows[i-1].Time.Before(rows[i].Time) {
			return nil, fmt.Errorf("symbol %s at %s: %w", rows[i].Symbol, rows[i].Time, ErrUnorderedRows)
		}
	}

	numericNames := make(map[string]bool)
	labelNames := make(map[string]bool)
	for i := range rows {
		for name := range rows[i].Values {
			numericNames[name] = true
		}
		for name := range rows[i].Labels {
			labelNames[name] = true
		}
	}
	for name := range labelNames {
		if numericNames[name] {
			return nil, fmt.Errorf("column %q is both numeric and categorical", name)
		}
	}

	ds := &Dataset{
		version: b.version,
		symbols: make([]string, len(rows)),
		times:   make([]time.Time, len(rows)),
		columns: make(map[string][]float64, len(numericNames)),
		labels:  make(map[string][]string, len(labelNames)),
	}
	for name := range numericNames {
		col := make([]float64, len(rows))
		for i := range col {
			col[i] = math.NaN()
		}
		ds.columns[name] = col
	}
	for name := range labelNames {
		ds.labels[name] = make([]string, len(rows))
	}

	for i := range rows {
		ds.symbols[i] = rows[i].Symbol
		ds.times[i] = rows[i].Time
		for name, v := range rows[i].Values {
			ds.columns[name][i] = v
		}
		for name, v := range rows[i].Labels {
			ds.labels[name][i] = v
		}
	}

	ds.groups = buildGroups(ds.symbols)

	if ds.version == "" {
		ds.version = contentVersion(ds)
	}

	return ds, nil
}

func buildGroups(symbols []string) []Group {
	var groups []Group
	start := 0
	for i := 1; i <= len(symbols); i++ {
		if i == len(symbols) || symbols[i] != symbols[start] {
			groups = append(groups, Group{Symbol: symbols[start], Start: start, End: i})
			start = i
		}
	}
	return groups
}

// contentVersion derives a version string from the row identity stream
// (symbols, timestamps and closes) for datasets built without one
func contentVersion(d *Dataset) string {
	h := xxhash.New()
	var buf [8]byte
	closes := d.columns["close"]
	for i := range d.symbols {
		_, _ = h.WriteString(d.symbols[i])
		binary.LittleEndian.PutUint64(buf[:], uint64(d.times[i].UnixNano()))
		_, _ = h.Write(buf[:])
		if closes != nil {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(closes[i]))
			_, _ = h.Write(buf[:])
		}
	}
	return "auto-" + strconv.FormatUint(h.Sum64(), 16)
}
