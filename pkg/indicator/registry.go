package indicator

import (
	"fmt"
	"sort"
	"sync"
)

// ComputeFunc computes one indicator over a source series.
// Implementations return a series of the same length with NaN warmup.
type ComputeFunc func(source []float64, params []float64) ([]float64, error)

// Registry maps indicator names to compute functions and implements Provider
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]ComputeFunc
}

// NewRegistry creates an empty indicator registry
func NewRegistry() *Registry {
	return &Registry{
		funcs: make(map[string]ComputeFunc),
	}
}

// DefaultRegistry creates a registry with all built-in indicators registered
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.registerBuiltIns()
	return r
}

// Register registers a compute function under name
func (r *Registry) Register(name string, fn ComputeFunc) error {
	if name == "" {
		return fmt.Errorf("indicator name cannot be empty")
	}
	if fn == nil {
		return fmt.Errorf("compute function cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.funcs[name]; exists {
		return fmt.Errorf("indicator %q already registered", name)
	}

	r.funcs[name] = fn
	return nil
}

// List returns the registered indicator names in sorted order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Compute computes the named indicator over source. It implements Provider.
func (r *Registry) Compute(name string, source []float64, params []float64) ([]float64, error) {
	r.mu.RLock()
	fn, exists := r.funcs[name]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedIndicator, name)
	}

	out, err := fn(source, params)
	if err != nil {
		return nil, fmt.Errorf("indicator %q: %w", name, err)
	}
	if len(out) != len(source) {
		return nil, fmt.Errorf("indicator %q returned %d values for %d inputs", name, len(out), len(source))
	}
	return out, nil
}

func (r *Registry) registerBuiltIns() {
	// talib-backed single-period indicators
	_ = r.Register("sma", computeSMA)
	_ = r.Register("ema", computeEMA)
	_ = r.Register("wma", computeWMA)
	_ = r.Register("rsi", computeRSI)
	_ = r.Register("roc", computeROC)

	// techan-backed indicators
	_ = r.Register("macd", computeMACD)
	_ = r.Register("macd_signal", computeMACDSignal)
	_ = r.Register("bb_upper", computeBollingerUpper)
	_ = r.Register("bb_lower", computeBollingerLower)
}
