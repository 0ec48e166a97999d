package engine

import (
	"github.com/mohamedkhairy/stock-screener/internal/dataset"
	"github.com/mohamedkhairy/stock-screener/internal/filter"
)

// combine reduces the per-condition masks into the final row mask.
//
// A single mask is returned verbatim regardless of the stated logic. Empty
// or misaligned mask lists indicate a pipeline bug upstream, not bad user
// input, and come back as internal errors.
func combine(masks []dataset.Mask, logic string, rows int) (dataset.Mask, *Error) {
	if len(masks) == 0 {
		return nil, newError(KindInternal, "", "combine called with no masks")
	}
	for i, m := range masks {
		if len(m) != rows {
			return nil, newError(KindInternal, "", "mask %d has %d rows, dataset has %d", i, len(m), rows)
		}
	}

	if len(masks) == 1 {
		return masks[0], nil
	}

	out := make(dataset.Mask, rows)
	copy(out, masks[0])

	switch logic {
	case filter.LogicAnd:
		for _, m := range masks[1:] {
			out.And(m)
		}
	case filter.LogicOr:
		for _, m := range masks[1:] {
			out.Or(m)
		}
	default:
		return nil, newError(KindInternal, "logic", "unvalidated logic %q", logic)
	}

	return out, nil
}
