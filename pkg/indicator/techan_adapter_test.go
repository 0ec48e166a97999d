package indicator

import (
	"errors"
	"math"
	"testing"
)

func constantSeries(v float64, n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = v
	}
	return s
}

func TestComputeMACD_ConstantSeries(t *testing.T) {
	// On a flat series both EMAs equal the constant, so MACD is zero
	source := constantSeries(50, 20)

	out, err := computeMACD(source, []float64{3, 6})
	if err != nil {
		t.Fatalf("computeMACD() error = %v", err)
	}
	if len(out) != len(source) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(source))
	}

	for i := 0; i < 5; i++ {
		if !math.IsNaN(out[i]) {
			t.Errorf("out[%d] = %v, want NaN warmup", i, out[i])
		}
	}
	for i := 5; i < len(out); i++ {
		if math.Abs(out[i]) > 1e-9 {
			t.Errorf("out[%d] = %v, want 0", i, out[i])
		}
	}
}

func TestComputeMACDSignal_ConstantSeries(t *testing.T) {
	source := constantSeries(50, 25)

	out, err := computeMACDSignal(source, []float64{3, 6, 4})
	if err != nil {
		t.Fatalf("computeMACDSignal() error = %v", err)
	}

	warmup := 6 + 4 - 2
	for i := 0; i < warmup; i++ {
		if !math.IsNaN(out[i]) {
			t.Errorf("out[%d] = %v, want NaN warmup", i, out[i])
		}
	}
	for i := warmup; i < len(out); i++ {
		if math.Abs(out[i]) > 1e-9 {
			t.Errorf("out[%d] = %v, want 0", i, out[i])
		}
	}
}

func TestComputeMACD_InvalidPeriods(t *testing.T) {
	source := constantSeries(50, 20)

	tests := []struct {
		name   string
		params []float64
	}{
		{"wrong arity", []float64{3}},
		{"fast equals slow", []float64{6, 6}},
		{"fast greater than slow", []float64{9, 6}},
		{"fractional period", []float64{2.5, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := computeMACD(source, tt.params)
			if !errors.Is(err, ErrInvalidParams) {
				t.Errorf("computeMACD(%v) error = %v, want ErrInvalidParams", tt.params, err)
			}
		})
	}
}

func TestComputeBollingerBands(t *testing.T) {
	source := []float64{10, 12, 11, 13, 12, 14, 13, 15, 14, 16}

	upper, err := computeBollingerUpper(source, []float64{5, 2})
	if err != nil {
		t.Fatalf("computeBollingerUpper() error = %v", err)
	}
	lower, err := computeBollingerLower(source, []float64{5, 2})
	if err != nil {
		t.Fatalf("computeBollingerLower() error = %v", err)
	}

	for i := 0; i < 4; i++ {
		if !math.IsNaN(upper[i]) || !math.IsNaN(lower[i]) {
			t.Errorf("position %d: want NaN warmup on both bands", i)
		}
	}
	for i := 4; i < len(source); i++ {
		if math.IsNaN(upper[i]) || math.IsNaN(lower[i]) {
			t.Errorf("position %d: bands unavailable after warmup", i)
			continue
		}
		if upper[i] < lower[i] {
			t.Errorf("position %d: upper %v below lower %v", i, upper[i], lower[i])
		}
	}
}

func TestComputeBollinger_InvalidParams(t *testing.T) {
	source := constantSeries(50, 10)

	if _, err := computeBollingerUpper(source, []float64{5}); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("wrong arity: error = %v, want ErrInvalidParams", err)
	}
	if _, err := computeBollingerUpper(source, []float64{5, -1}); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("negative sigma: error = %v, want ErrInvalidParams", err)
	}
}

func TestTechan_ShortSourceAllUnavailable(t *testing.T) {
	source := constantSeries(50, 4)

	out, err := computeMACD(source, []float64{3, 6})
	if err != nil {
		t.Fatalf("computeMACD() error = %v", err)
	}
	for i, v := range out {
		if !math.IsNaN(v) {
			t.Errorf("out[%d] = %v, want NaN", i, v)
		}
	}
}
