package forecast

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// polyFit returns the least squares coefficients of a polynomial of the given
// degree fit on (i, series[i]), lowest order first. The Vandermonde system is
// solved through a QR factorization.
func polyFit(series []float64, degree int) ([]float64, error) {
	m := len(series)
	n := degree + 1
	if m < n {
		return nil, fmt.Errorf("degree %d needs %d observations, got %d, %w", degree, n, m, ErrUnderdetermined)
	}

	obs := make([]float64, 0, m*n)
	for i := 0; i < m; i++ {
		x := float64(i)
		pow := 1.0
		for j := 0; j < n; j++ {
			obs = append(obs, pow)
			pow *= x
		}
	}
	x := mat.NewDense(m, n, obs)
	y := mat.NewDense(m, 1, append([]float64(nil), series...))

	qr := new(mat.QR)
	qr.Factorize(x)

	c := new(mat.Dense)
	if err := qr.SolveTo(c, false, y); err != nil {
		return nil, fmt.Errorf("solving degree %d fit, %w", degree, err)
	}
	return mat.Col(nil, 0, c), nil
}

// polyEval evaluates coefficients, lowest order first, at x using Horner's rule.
func polyEval(coef []float64, x float64) float64 {
	res := 0.0
	for i := len(coef) - 1; i >= 0; i-- {
		res = res*x + coef[i]
	}
	return res
}

// polyForecast fits a polynomial on the full series and extrapolates it over
// the horizon day indices following the last observation.
func polyForecast(series []float64, degree, horizon int) ([]float64, error) {
	coef, err := polyFit(series, degree)
	if err != nil {
		return nil, err
	}
	preds := make([]float64, horizon)
	for i := range preds {
		preds[i] = polyEval(coef, float64(len(series)+i))
	}
	return preds, nil
}
