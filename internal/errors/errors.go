// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Failure taxonomy for market-data resolution. Callers downgrade these to
// default snapshots or per-trade verdicts; none is fatal to the process.
var (
	// ErrDateOutOfRange means the requested date precedes all available history.
	ErrDateOutOfRange = errors.New("date out of range")
	// ErrDataGap means the nearest trading day is too far from the requested day.
	ErrDataGap = errors.New("data gap near requested date")
	// ErrEmptyResult means the provider returned nothing for the window.
	ErrEmptyResult = errors.New("empty result for window")
	// ErrRetrievalFailure means a transport or provider-level failure.
	ErrRetrievalFailure = errors.New("retrieval failure")

	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrInvalidTrade     = errors.New("invalid trade")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// DataError represents a failure retrieving or interpreting series data for
// one symbol.
type DataError struct {
	Symbol  string
	Window  string
	Message string
	Err     error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data error [%s] %s: %s: %v", e.Symbol, e.Window, e.Message, e.Err)
	}
	return fmt.Sprintf("data error [%s] %s: %s", e.Symbol, e.Window, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a new DataError.
func NewDataError(symbol, window, message string, err error) *DataError {
	return &DataError{
		Symbol:  symbol,
		Window:  window,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents a trade-field validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidTrade
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
