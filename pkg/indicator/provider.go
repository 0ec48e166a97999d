package indicator

import "errors"

var (
	// ErrUnsupportedIndicator is returned for an indicator name with no
	// registered compute function
	ErrUnsupportedIndicator = errors.New("unsupported indicator")

	// ErrInvalidParams is returned when indicator parameters have the wrong
	// arity or an out-of-range value
	ErrInvalidParams = errors.New("invalid indicator parameters")
)

// Provider computes a named indicator over a single source series.
//
// The returned series always has the same length as source. Leading warmup
// positions, where the indicator does not yet have enough history, hold NaN.
// The caller is responsible for slicing the source per symbol group; a
// Provider never sees more than one group at a time.
type Provider interface {
	Compute(name string, source []float64, params []float64) ([]float64, error)
}
