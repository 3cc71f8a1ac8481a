package forecast

import (
	"fmt"
	"math"
)

const (
	DefaultHorizon = 7

	movingAverageWindow = 3
	movingAverageDrift  = 0.01
	smoothingFactor     = 0.8

	// predictions this close to an integer snap to it before truncation so
	// that floating point noise in an exact fit cannot drop a whole unit
	snapTolerance = 1e-9
)

// Result holds the predictions of a single Forecast call.
type Result struct {
	Algorithm Algorithm
	Values    []int64

	// Fallback is set when the algorithm could not fit the series and the
	// last observation was repeated instead. FitErr holds the reason.
	Fallback bool
	FitErr   error
}

// Forecast predicts horizon future values of series with the selected
// algorithm. An empty series returns ErrInsufficientData. Any failure of the
// underlying fit degrades to repeating the last observed value.
func Forecast(series []float64, algo Algorithm, horizon int) (*Result, error) {
	if len(series) == 0 {
		return nil, ErrInsufficientData
	}
	if horizon < 1 {
		return nil, fmt.Errorf("got horizon %d, %w", horizon, ErrInvalidHorizon)
	}
	if !algo.Valid() {
		algo = Linear
	}

	res := &Result{Algorithm: algo}

	preds, err := predict(series, algo, horizon)
	if err == nil {
		res.Values, err = clampAll(preds)
	}
	if err != nil {
		res.Values = repeatLast(series, horizon)
		res.Fallback = true
		res.FitErr = err
	}
	return res, nil
}

// Values is Forecast without the fit diagnostics.
func Values(series []float64, algo Algorithm, horizon int) ([]int64, error) {
	res, err := Forecast(series, algo, horizon)
	if err != nil {
		return nil, err
	}
	return res.Values, nil
}

func predict(series []float64, algo Algorithm, horizon int) ([]float64, error) {
	switch algo {
	case Polynomial:
		return polyForecast(series, 2, horizon)
	case GradientBoosting:
		return boostingForecast(series, horizon, nil)
	case MovingAverage:
		return movingAverage(series, horizon), nil
	case Exponential:
		return exponentialSmoothing(series, horizon), nil
	default:
		return polyForecast(series, 1, horizon)
	}
}

// movingAverage averages the trailing window and compounds a one percent
// drift per future day offset. Series shorter than the window average what
// is available.
func movingAverage(series []float64, horizon int) []float64 {
	window := movingAverageWindow
	if len(series) < window {
		window = len(series)
	}
	sum := 0.0
	for _, v := range series[len(series)-window:] {
		sum += v
	}
	avg := sum / float64(window)

	preds := make([]float64, horizon)
	for i := range preds {
		preds[i] = avg * (1 + movingAverageDrift*float64(i))
	}
	return preds
}

// exponentialSmoothing folds the series into a single level seeded with the
// first observation and repeats it over the horizon.
func exponentialSmoothing(series []float64, horizon int) []float64 {
	level := series[0]
	for _, v := range series[1:] {
		level = smoothingFactor*v + (1-smoothingFactor)*level
	}

	preds := make([]float64, horizon)
	for i := range preds {
		preds[i] = level
	}
	return preds
}

func repeatLast(series []float64, horizon int) []int64 {
	last := series[len(series)-1]
	if math.IsNaN(last) || math.IsInf(last, 0) {
		last = 0
	}
	v := clamp(last)
	out := make([]int64, horizon)
	for i := range out {
		out[i] = v
	}
	return out
}

func clampAll(preds []float64) ([]int64, error) {
	out := make([]int64, len(preds))
	for i, p := range preds {
		if math.IsNaN(p) || math.IsInf(p, 0) || p >= math.MaxInt64 {
			return nil, fmt.Errorf("prediction %d is %v, %w", i, p, ErrNonFinite)
		}
		out[i] = clamp(p)
	}
	return out, nil
}

// clamp truncates toward zero and floors the result at zero.
func clamp(v float64) int64 {
	if r := math.Round(v); math.Abs(v-r) < snapTolerance {
		v = r
	}
	if v <= 0 {
		return 0
	}
	if v >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}
