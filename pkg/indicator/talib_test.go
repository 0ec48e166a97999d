package indicator

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeSMA(t *testing.T) {
	source := []float64{1, 2, 3, 4, 5}

	out, err := computeSMA(source, []float64{3})
	if err != nil {
		t.Fatalf("computeSMA() error = %v", err)
	}
	if len(out) != len(source) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(source))
	}

	// First period-1 positions are warmup
	for i := 0; i < 2; i++ {
		if !math.IsNaN(out[i]) {
			t.Errorf("out[%d] = %v, want NaN warmup", i, out[i])
		}
	}
	want := []float64{2, 3, 4}
	for i, w := range want {
		if !almostEqual(out[i+2], w) {
			t.Errorf("out[%d] = %v, want %v", i+2, out[i+2], w)
		}
	}
}

func TestComputeEMA(t *testing.T) {
	source := []float64{1, 2, 3, 4, 5}

	out, err := computeEMA(source, []float64{3})
	if err != nil {
		t.Fatalf("computeEMA() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		if !math.IsNaN(out[i]) {
			t.Errorf("out[%d] = %v, want NaN warmup", i, out[i])
		}
	}
	// SMA seed at index 2, then k = 2/(3+1) = 0.5
	want := []float64{2, 3, 4}
	for i, w := range want {
		if !almostEqual(out[i+2], w) {
			t.Errorf("out[%d] = %v, want %v", i+2, out[i+2], w)
		}
	}
}

func TestComputeWMA(t *testing.T) {
	source := []float64{1, 2, 3}

	out, err := computeWMA(source, []float64{2})
	if err != nil {
		t.Fatalf("computeWMA() error = %v", err)
	}

	if !math.IsNaN(out[0]) {
		t.Errorf("out[0] = %v, want NaN warmup", out[0])
	}
	// WMA(2) = (prev*1 + cur*2) / 3
	if !almostEqual(out[1], 5.0/3.0) {
		t.Errorf("out[1] = %v, want %v", out[1], 5.0/3.0)
	}
	if !almostEqual(out[2], 8.0/3.0) {
		t.Errorf("out[2] = %v, want %v", out[2], 8.0/3.0)
	}
}

func TestComputeRSI(t *testing.T) {
	// Strictly increasing series has no losses, so RSI saturates at 100
	source := []float64{1, 2, 3, 4, 5, 6}

	out, err := computeRSI(source, []float64{2})
	if err != nil {
		t.Fatalf("computeRSI() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		if !math.IsNaN(out[i]) {
			t.Errorf("out[%d] = %v, want NaN warmup", i, out[i])
		}
	}
	for i := 2; i < len(out); i++ {
		if math.Abs(out[i]-100) > 1e-6 {
			t.Errorf("out[%d] = %v, want 100", i, out[i])
		}
	}
}

func TestComputeROC(t *testing.T) {
	source := []float64{1, 2, 4}

	out, err := computeROC(source, []float64{1})
	if err != nil {
		t.Fatalf("computeROC() error = %v", err)
	}

	if !math.IsNaN(out[0]) {
		t.Errorf("out[0] = %v, want NaN warmup", out[0])
	}
	if !almostEqual(out[1], 100) || !almostEqual(out[2], 100) {
		t.Errorf("out[1:] = %v, want [100 100]", out[1:])
	}
}

func TestTalib_ShortSourceAllUnavailable(t *testing.T) {
	// 10 rows against a 20-period window: every position is warmup,
	// never an error
	source := make([]float64, 10)
	for i := range source {
		source[i] = float64(i + 1)
	}

	out, err := computeSMA(source, []float64{20})
	if err != nil {
		t.Fatalf("computeSMA() error = %v", err)
	}
	if len(out) != len(source) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(source))
	}
	for i, v := range out {
		if !math.IsNaN(v) {
			t.Errorf("out[%d] = %v, want NaN", i, v)
		}
	}
}

func TestTalib_InvalidParams(t *testing.T) {
	source := []float64{1, 2, 3, 4, 5}

	tests := []struct {
		name   string
		params []float64
	}{
		{"no params", nil},
		{"too many params", []float64{3, 4}},
		{"zero period", []float64{0}},
		{"negative period", []float64{-3}},
		{"fractional period", []float64{2.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := computeSMA(source, tt.params)
			if !errors.Is(err, ErrInvalidParams) {
				t.Errorf("computeSMA(%v) error = %v, want ErrInvalidParams", tt.params, err)
			}
		})
	}
}
