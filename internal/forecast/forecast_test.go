package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAlgorithm(t *testing.T) {
	testData := map[string]struct {
		name     string
		expected Algorithm
	}{
		"linear":            {"linear", Linear},
		"polynomial":        {"polynomial", Polynomial},
		"gradient boosting": {"gradient_boosting", GradientBoosting},
		"moving average":    {"moving_average", MovingAverage},
		"exponential":       {"exponential", Exponential},
		"mixed case":        {" Exponential ", Exponential},
		"unknown":           {"arima", Linear},
		"empty":             {"", Linear},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, ParseAlgorithm(td.name))
		})
	}
}

func TestForecast(t *testing.T) {
	testData := map[string]struct {
		series   []float64
		algo     Algorithm
		horizon  int
		expected []int64
		fallback bool
	}{
		"linear continues progression": {
			series:   []float64{10, 20, 30, 40, 50},
			algo:     Linear,
			horizon:  DefaultHorizon,
			expected: []int64{60, 70, 80, 90, 100, 110, 120},
		},
		"linear clamps negative trend": {
			series:   []float64{50, 40, 30, 20, 10},
			algo:     Linear,
			horizon:  3,
			expected: []int64{0, 0, 0},
		},
		"linear constant series": {
			series:   []float64{5, 5, 5},
			algo:     Linear,
			horizon:  2,
			expected: []int64{5, 5},
		},
		"polynomial continues quadratic": {
			series:   []float64{0, 1, 4, 9, 16},
			algo:     Polynomial,
			horizon:  3,
			expected: []int64{25, 36, 49},
		},
		"moving average compounds drift": {
			series:   []float64{100, 100, 100},
			algo:     MovingAverage,
			horizon:  DefaultHorizon,
			expected: []int64{100, 101, 102, 103, 104, 105, 106},
		},
		"moving average uses trailing window": {
			series:   []float64{1000, 10, 20, 30},
			algo:     MovingAverage,
			horizon:  2,
			expected: []int64{20, 20},
		},
		"moving average short series": {
			series:   []float64{50},
			algo:     MovingAverage,
			horizon:  2,
			expected: []int64{50, 50},
		},
		"exponential smoothing": {
			series:   []float64{10, 20, 30},
			algo:     Exponential,
			horizon:  DefaultHorizon,
			expected: []int64{27, 27, 27, 27, 27, 27, 27},
		},
		"exponential single observation": {
			series:   []float64{12.9},
			algo:     Exponential,
			horizon:  2,
			expected: []int64{12, 12},
		},
		"gradient boosting constant series": {
			series:   []float64{5, 5, 5, 5},
			algo:     GradientBoosting,
			horizon:  3,
			expected: []int64{5, 5, 5},
		},
		"gradient boosting step series": {
			series:   []float64{0, 0, 10, 10},
			algo:     GradientBoosting,
			horizon:  2,
			expected: []int64{9, 9},
		},
		"linear single observation falls back": {
			series:   []float64{42},
			algo:     Linear,
			horizon:  3,
			expected: []int64{42, 42, 42},
			fallback: true,
		},
		"polynomial two observations falls back": {
			series:   []float64{3, 7.5},
			algo:     Polynomial,
			horizon:  2,
			expected: []int64{7, 7},
			fallback: true,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := Forecast(td.series, td.algo, td.horizon)
			require.Nil(t, err)
			assert.Equal(t, td.expected, res.Values)
			assert.Equal(t, td.fallback, res.Fallback)
			if td.fallback {
				assert.ErrorIs(t, res.FitErr, ErrUnderdetermined)
			}
		})
	}
}

func TestForecastEmptySeries(t *testing.T) {
	for _, algo := range append(Algorithms, Algorithm("unknown")) {
		t.Run(algo.String(), func(t *testing.T) {
			_, err := Forecast(nil, algo, DefaultHorizon)
			assert.ErrorIs(t, err, ErrInsufficientData)

			_, err = Values([]float64{}, algo, DefaultHorizon)
			assert.ErrorIs(t, err, ErrInsufficientData)
		})
	}
}

func TestForecastInvalidHorizon(t *testing.T) {
	_, err := Forecast([]float64{1, 2, 3}, Linear, 0)
	assert.ErrorIs(t, err, ErrInvalidHorizon)
}

func TestForecastUnknownFallsBackToLinear(t *testing.T) {
	series := []float64{120, 135, 142, 110, 155, 170, 190, 210, 205, 230}

	expected, err := Values(series, Linear, DefaultHorizon)
	require.Nil(t, err)

	res, err := Forecast(series, Algorithm("prophet"), DefaultHorizon)
	require.Nil(t, err)
	assert.Equal(t, Linear, res.Algorithm)
	assert.Equal(t, expected, res.Values)
}

func TestForecastShapeAndDeterminism(t *testing.T) {
	series := [][]float64{
		{7},
		{0, 0},
		{3, 1, 4, 1, 5, 9, 2, 6},
		{120, 135, 140, 155, 150, 180, 200, 210, 205, 230, 250, 270, 260, 290, 310, 305, 320, 340, 360, 350},
		{900, 700, 400, 100, 50, 10, 0},
	}

	for _, algo := range Algorithms {
		for _, s := range series {
			t.Run(algo.String(), func(t *testing.T) {
				for _, horizon := range []int{1, DefaultHorizon, 30} {
					first, err := Values(s, algo, horizon)
					require.Nil(t, err)
					require.Len(t, first, horizon)
					for _, v := range first {
						assert.GreaterOrEqual(t, v, int64(0))
					}

					second, err := Values(s, algo, horizon)
					require.Nil(t, err)
					assert.Equal(t, first, second)
				}
			})
		}
	}
}

func TestClamp(t *testing.T) {
	testData := map[string]struct {
		in       float64
		expected int64
	}{
		"truncates":       {27.6, 27},
		"negative floors": {-3.2, 0},
		"small negative":  {-0.4, 0},
		"snaps below int": {59.99999999999999, 60},
		"zero":            {0, 0},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, clamp(td.in))
		})
	}
}
