package engine

import (
	"fmt"

	"github.com/mohamedkhairy/stock-screener/internal/dataset"
	"github.com/mohamedkhairy/stock-screener/internal/filter"
)

// evaluateCondition resolves both operands of condition idx and applies the
// comparison element-wise. Rows where either side is unavailable are false
// for this condition, never true and never an error.
func (r *resolver) evaluateCondition(cond *filter.Condition, ds *dataset.Dataset, idx int) (dataset.Mask, *Error) {
	path := fmt.Sprintf("conditions[%d]", idx)

	left, err := r.resolve(&cond.Left, ds, path+".left")
	if err != nil {
		return nil, err
	}
	right, err := r.resolve(&cond.Right, ds, path+".right")
	if err != nil {
		return nil, err
	}

	cmp := comparator(cond.Operator)
	if cmp == nil {
		return nil, newError(KindInternal, path+".operator", "unvalidated operator %q", cond.Operator)
	}

	mask := make(dataset.Mask, ds.Len())
	for i := range mask {
		a := left.at(i)
		b := right.at(i)
		if dataset.IsUnavailable(a) || dataset.IsUnavailable(b) {
			continue
		}
		mask[i] = cmp(a, b)
	}
	return mask, nil
}

// comparator returns the element-wise comparison for op, or nil for an
// unknown operator. Equality is exact float comparison; callers wanting
// tolerance express it as a pair of range conditions.
func comparator(op string) func(a, b float64) bool {
	switch op {
	case ">":
		return func(a, b float64) bool { return a > b }
	case "<":
		return func(a, b float64) bool { return a < b }
	case ">=":
		return func(a, b float64) bool { return a >= b }
	case "<=":
		return func(a, b float64) bool { return a <= b }
	case "==":
		return func(a, b float64) bool { return a == b }
	case "!=":
		return func(a, b float64) bool { return a != b }
	default:
		return nil
	}
}
