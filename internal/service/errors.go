package service

import (
	"errors"
	"fmt"
)

// ValidationError is a client-caused failure. Its message is safe to
// return to the caller verbatim.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// PredictionError wraps a failure raised while invoking a predictor or
// interpreting its output.
type PredictionError struct {
	Err error
}

func (e *PredictionError) Error() string { return "Prediction error: " + e.Err.Error() }

func (e *PredictionError) Unwrap() error { return e.Err }

// ErrServiceUnavailable is returned when no models were loaded.
var ErrServiceUnavailable = errors.New("models not loaded")

// ErrInvalidMinutes is returned for predicted times that cannot be
// rendered as a clock value.
var ErrInvalidMinutes = errors.New("predicted time is negative or not finite")
