package engine

import (
	"errors"

	"github.com/mohamedkhairy/stock-screener/internal/dataset"
	"github.com/mohamedkhairy/stock-screener/internal/filter"
	"github.com/mohamedkhairy/stock-screener/pkg/indicator"
)

// resolved is the value of one operand: either a scalar broadcast to all
// rows or a row-aligned series
type resolved struct {
	isScalar bool
	scalar   float64
	series   dataset.Series
}

// at returns the operand value for row i
func (r resolved) at(i int) float64 {
	if r.isScalar {
		return r.scalar
	}
	return r.series[i]
}

// resolver turns operands into aligned values, delegating indicator math to
// the provider
type resolver struct {
	provider indicator.Provider
}

// resolve resolves one operand against the dataset. path names the operand's
// position in the filter ("conditions[i].left") for error reporting.
//
// Offsets shift backward in time: out[i] = in[i-offset], computed per symbol
// group. Reads that would cross a group boundary resolve as unavailable.
func (r *resolver) resolve(op *filter.Operand, ds *dataset.Dataset, path string) (resolved, *Error) {
	switch op.Type {
	case filter.OperandConstant:
		return resolved{isScalar: true, scalar: op.Value}, nil

	case filter.OperandColumn:
		col, err := r.numericColumn(ds, op.Name, path)
		if err != nil {
			return resolved{}, err
		}
		return resolved{series: shiftByGroup(col, ds.Groups(), op.Offset)}, nil

	case filter.OperandIndicator:
		source, err := r.numericColumn(ds, op.Column, path)
		if err != nil {
			return resolved{}, err
		}
		series, err := r.computeIndicator(op, source, ds.Groups(), path)
		if err != nil {
			return resolved{}, err
		}
		return resolved{series: shiftByGroup(series, ds.Groups(), op.Offset)}, nil

	default:
		// Unknown tags are rejected at validation time; reaching this is a
		// pipeline bug.
		return resolved{}, newError(KindInternal, path, "unvalidated operand type %q", op.Type)
	}
}

// numericColumn looks up a numeric column, distinguishing an absent column
// from a categorical one
func (r *resolver) numericColumn(ds *dataset.Dataset, name, path string) ([]float64, *Error) {
	if col, ok := ds.NumericColumn(name); ok {
		return col, nil
	}
	if ds.IsCategorical(name) {
		return nil, newError(KindTypeMismatch, path, "column %q is categorical and cannot be compared numerically", name)
	}
	return nil, newError(KindColumnNotFound, path, "column %q not found in dataset", name)
}

// computeIndicator runs the provider once per symbol group so warmup never
// bleeds across symbols, then stitches the group outputs into one series
func (r *resolver) computeIndicator(op *filter.Operand, source []float64, groups []dataset.Group, path string) (dataset.Series, *Error) {
	out := dataset.NewSeries(len(source))
	for _, g := range groups {
		values, err := r.provider.Compute(op.Name, source[g.Start:g.End], op.Params)
		if err != nil {
			return nil, classifyProviderError(err, path)
		}
		copy(out[g.Start:g.End], values)
	}
	return out, nil
}

func classifyProviderError(err error, path string) *Error {
	switch {
	case errors.Is(err, indicator.ErrUnsupportedIndicator):
		return newError(KindUnsupportedIndicator, path, "%v", err)
	case errors.Is(err, indicator.ErrInvalidParams):
		return newError(KindInvalidParams, path, "%v", err)
	default:
		return newError(KindInternal, path, "indicator provider: %v", err)
	}
}

// shiftByGroup applies a backward shift of offset rows within each symbol
// group. Positions without offset predecessors in their group become
// unavailable; values are never wrapped, clamped or read from a neighboring
// group.
func shiftByGroup(in []float64, groups []dataset.Group, offset int) dataset.Series {
	if offset == 0 {
		// The dataset is immutable for the duration of the call, so the
		// unshifted column buffer can be aliased directly.
		return dataset.Series(in)
	}

	out := dataset.NewSeries(len(in))
	for _, g := range groups {
		// A group shorter than the offset has no reachable predecessors;
		// skipping it also keeps g.Start+offset from overflowing on huge
		// offsets.
		if offset >= g.Len() {
			continue
		}
		for i := g.Start + offset; i < g.End; i++ {
			out[i] = in[i-offset]
		}
	}
	return out
}
