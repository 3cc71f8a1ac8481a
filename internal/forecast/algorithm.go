// Package forecast extrapolates short daily sales series with a small set of
// interchangeable algorithms. Every prediction is truncated to an integer and
// floored at zero since sales counts can never be negative.
package forecast

import "strings"

// Algorithm selects the extrapolation method used by Forecast.
type Algorithm string

const (
	Linear           Algorithm = "linear"
	Polynomial       Algorithm = "polynomial"
	GradientBoosting Algorithm = "gradient_boosting"
	MovingAverage    Algorithm = "moving_average"
	Exponential      Algorithm = "exponential"
)

// Algorithms lists every supported selector in a stable order.
var Algorithms = []Algorithm{
	Linear,
	Polynomial,
	GradientBoosting,
	MovingAverage,
	Exponential,
}

// ParseAlgorithm maps a selector name onto an Algorithm. Unknown or empty
// names resolve to Linear.
func ParseAlgorithm(name string) Algorithm {
	algo := Algorithm(strings.ToLower(strings.TrimSpace(name)))
	if algo.Valid() {
		return algo
	}
	return Linear
}

// Valid reports whether a is one of the supported selectors.
func (a Algorithm) Valid() bool {
	for _, known := range Algorithms {
		if a == known {
			return true
		}
	}
	return false
}

func (a Algorithm) String() string {
	return string(a)
}
