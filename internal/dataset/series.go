package dataset

import "math"

// Unavailable returns the sentinel marking a value that cannot be computed
// for a row (offset before the group start, indicator warmup, gaps). NaN is
// used so the sentinel survives arithmetic and element-wise comparison.
func Unavailable() float64 {
	return math.NaN()
}

// IsUnavailable reports whether v is the unavailable sentinel
func IsUnavailable(v float64) bool {
	return math.IsNaN(v)
}

// Series is a row-aligned numeric buffer. Positions holding the unavailable
// sentinel have no defined value for that row.
type Series []float64

// NewSeries returns a series of length n with every position unavailable
func NewSeries(n int) Series {
	s := make(Series, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}

// Mask is a boolean buffer aligned to dataset rows, marking rows that
// satisfy a condition
type Mask []bool

// And sets m to the element-wise conjunction of m and other.
// Both masks must have equal length.
func (m Mask) And(other Mask) {
	for i := range m {
		m[i] = m[i] && other[i]
	}
}

// Or sets m to the element-wise disjunction of m and other.
// Both masks must have equal length.
func (m Mask) Or(other Mask) {
	for i := range m {
		m[i] = m[i] || other[i]
	}
}

// Count returns the number of true positions
func (m Mask) Count() int {
	n := 0
	for _, v := range m {
		if v {
			n++
		}
	}
	return n
}
