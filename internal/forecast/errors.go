package forecast

import (
	"errors"
)

var (
	ErrInsufficientData = errors.New("insufficient data to forecast")
	ErrInvalidHorizon   = errors.New("forecast horizon must be at least 1")
	ErrUnderdetermined  = errors.New("fewer observations than model coefficients")
	ErrNonFinite        = errors.New("fit produced a non-finite prediction")
)
