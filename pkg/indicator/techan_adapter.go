package indicator

import (
	"fmt"
	"math"
	"time"

	"github.com/sdcoffey/big"
	"github.com/sdcoffey/techan"
)

// The MACD and Bollinger families are computed through techan, which works
// on candle series rather than flat buffers. The adapter builds a close-only
// candle series from the source column, evaluates the indicator per index
// and marks the lookback positions unavailable.

// computeMACD computes the MACD line. Params: [fast, slow].
func computeMACD(source []float64, params []float64) ([]float64, error) {
	fast, slow, err := macdPeriods(params, 2)
	if err != nil {
		return nil, err
	}
	return techanCompute(source, slow-1, func(series *techan.TimeSeries) techan.Indicator {
		close := techan.NewClosePriceIndicator(series)
		return techan.NewMACDIndicator(close, fast, slow)
	}), nil
}

// computeMACDSignal computes the MACD signal line, an EMA of the MACD line.
// Params: [fast, slow, signal].
func computeMACDSignal(source []float64, params []float64) ([]float64, error) {
	fast, slow, err := macdPeriods(params, 3)
	if err != nil {
		return nil, err
	}
	signal, err := periodAt(params, 2)
	if err != nil {
		return nil, err
	}
	return techanCompute(source, slow+signal-2, func(series *techan.TimeSeries) techan.Indicator {
		close := techan.NewClosePriceIndicator(series)
		macd := techan.NewMACDIndicator(close, fast, slow)
		return techan.NewEMAIndicator(macd, signal)
	}), nil
}

// computeBollingerUpper computes the upper Bollinger band. Params: [period, sigma].
func computeBollingerUpper(source []float64, params []float64) ([]float64, error) {
	period, sigma, err := bollingerParams(params)
	if err != nil {
		return nil, err
	}
	return techanCompute(source, period-1, func(series *techan.TimeSeries) techan.Indicator {
		close := techan.NewClosePriceIndicator(series)
		return techan.NewBollingerUpperBandIndicator(close, period, sigma)
	}), nil
}

// computeBollingerLower computes the lower Bollinger band. Params: [period, sigma].
func computeBollingerLower(source []float64, params []float64) ([]float64, error) {
	period, sigma, err := bollingerParams(params)
	if err != nil {
		return nil, err
	}
	return techanCompute(source, period-1, func(series *techan.TimeSeries) techan.Indicator {
		close := techan.NewClosePriceIndicator(series)
		return techan.NewBollingerLowerBandIndicator(close, period, sigma)
	}), nil
}

func macdPeriods(params []float64, arity int) (fast, slow int, err error) {
	if len(params) != arity {
		return 0, 0, fmt.Errorf("%w: expected %d parameters, got %d", ErrInvalidParams, arity, len(params))
	}
	fast, err = periodAt(params, 0)
	if err != nil {
		return 0, 0, err
	}
	slow, err = periodAt(params, 1)
	if err != nil {
		return 0, 0, err
	}
	if fast >= slow {
		return 0, 0, fmt.Errorf("%w: fast period %d must be less than slow period %d", ErrInvalidParams, fast, slow)
	}
	return fast, slow, nil
}

func bollingerParams(params []float64) (period int, sigma float64, err error) {
	if len(params) != 2 {
		return 0, 0, fmt.Errorf("%w: expected [period, sigma], got %d parameters", ErrInvalidParams, len(params))
	}
	period, err = periodAt(params, 0)
	if err != nil {
		return 0, 0, err
	}
	sigma = params[1]
	if sigma <= 0 {
		return 0, 0, fmt.Errorf("%w: sigma must be positive, got %v", ErrInvalidParams, sigma)
	}
	return period, sigma, nil
}

// techanCompute evaluates a techan indicator over a close-only candle series
// built from source. Positions before lookback rows of history hold NaN.
func techanCompute(source []float64, lookback int, build func(*techan.TimeSeries) techan.Indicator) []float64 {
	out := make([]float64, len(source))
	if len(source) == 0 {
		return out
	}
	if lookback >= len(source) {
		return allUnavailable(len(source))
	}

	ind := build(techanSeries(source))
	for i := range source {
		if i < lookback {
			out[i] = math.NaN()
			continue
		}
		out[i] = ind.Calculate(i).Float()
	}
	return out
}

// techanSeries converts a flat source column into a techan TimeSeries of
// close-only candles. Timestamps are synthetic; techan only requires that
// they increase.
func techanSeries(source []float64) *techan.TimeSeries {
	series := techan.NewTimeSeries()
	base := time.Unix(0, 0).UTC()
	for i, v := range source {
		period := techan.NewTimePeriod(base.Add(time.Duration(i)*time.Minute), time.Minute)
		candle := techan.NewCandle(period)
		candle.OpenPrice = big.NewDecimal(v)
		candle.MaxPrice = big.NewDecimal(v)
		candle.MinPrice = big.NewDecimal(v)
		candle.ClosePrice = big.NewDecimal(v)
		series.AddCandle(candle)
	}
	return series
}
