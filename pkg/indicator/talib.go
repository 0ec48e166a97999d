package indicator

import (
	"fmt"
	"math"

	"github.com/markcheno/go-talib"
)

// talib returns zero-filled leading positions instead of marking them; every
// wrapper here converts the known lookback count to NaN so the unavailable
// sentinel is uniform across the provider.

// computeSMA computes a simple moving average. Params: [period].
func computeSMA(source []float64, params []float64) ([]float64, error) {
	period, err := singlePeriod(params)
	if err != nil {
		return nil, err
	}
	if len(source) < period {
		return allUnavailable(len(source)), nil
	}
	out := talib.Sma(source, period)
	markWarmup(out, period-1)
	return out, nil
}

// computeEMA computes an exponential moving average. Params: [period].
func computeEMA(source []float64, params []float64) ([]float64, error) {
	period, err := singlePeriod(params)
	if err != nil {
		return nil, err
	}
	if len(source) < period {
		return allUnavailable(len(source)), nil
	}
	out := talib.Ema(source, period)
	markWarmup(out, period-1)
	return out, nil
}

// computeWMA computes a weighted moving average. Params: [period].
func computeWMA(source []float64, params []float64) ([]float64, error) {
	period, err := singlePeriod(params)
	if err != nil {
		return nil, err
	}
	if len(source) < period {
		return allUnavailable(len(source)), nil
	}
	out := talib.Wma(source, period)
	markWarmup(out, period-1)
	return out, nil
}

// computeRSI computes the relative strength index. Params: [period].
// RSI needs period+1 values, so the lookback is period rows.
func computeRSI(source []float64, params []float64) ([]float64, error) {
	period, err := singlePeriod(params)
	if err != nil {
		return nil, err
	}
	if len(source) < period+1 {
		return allUnavailable(len(source)), nil
	}
	out := talib.Rsi(source, period)
	markWarmup(out, period)
	return out, nil
}

// computeROC computes the rate of change in percent. Params: [period].
func computeROC(source []float64, params []float64) ([]float64, error) {
	period, err := singlePeriod(params)
	if err != nil {
		return nil, err
	}
	if len(source) < period+1 {
		return allUnavailable(len(source)), nil
	}
	out := talib.Roc(source, period)
	markWarmup(out, period)
	return out, nil
}

// singlePeriod extracts the single [period] parameter common to the talib
// wrappers
func singlePeriod(params []float64) (int, error) {
	if len(params) != 1 {
		return 0, fmt.Errorf("%w: expected [period], got %d parameters", ErrInvalidParams, len(params))
	}
	return periodAt(params, 0)
}

// periodAt extracts params[i] as a positive integer period
func periodAt(params []float64, i int) (int, error) {
	v := params[i]
	if v != math.Trunc(v) || v < 1 {
		return 0, fmt.Errorf("%w: period must be a positive integer, got %v", ErrInvalidParams, v)
	}
	return int(v), nil
}

// markWarmup overwrites the first n positions with NaN
func markWarmup(s []float64, n int) {
	if n > len(s) {
		n = len(s)
	}
	for i := 0; i < n; i++ {
		s[i] = math.NaN()
	}
}

// allUnavailable returns a series of length n with every position NaN,
// for sources shorter than the indicator's lookback
func allUnavailable(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}
