// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrPlanNotFound       = errors.New("trading plan not found")
	ErrSummaryNotFound    = errors.New("summary not found")
	ErrModuleNotFound     = errors.New("course module not found")
	ErrNoProfile          = errors.New("no user profile saved")
	ErrNoAPIKey           = errors.New("API key not configured")
	ErrSymbolNotFound     = errors.New("symbol not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrRestoreFailed      = errors.New("backup restore failed")
	ErrConfigInvalid      = errors.New("invalid configuration")
	ErrReviewPending      = errors.New("review already in progress")
	ErrEmptyContent       = errors.New("no content to save")
)

// StorageError represents a failure reading or writing a storage key.
type StorageError struct {
	Key string
	Op  string // "read", "write", "restore"
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error [%s] %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError creates a new StorageError.
func NewStorageError(op, key string, err error) *StorageError {
	return &StorageError{Key: key, Op: op, Err: err}
}

// GatewayError represents a failure from the AI gateway.
type GatewayError struct {
	Operation string // "summary", "review", "fundamentals"
	Err       error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway error [%s]: %v", e.Operation, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// NewGatewayError creates a new GatewayError.
func NewGatewayError(operation string, err error) *GatewayError {
	return &GatewayError{Operation: operation, Err: err}
}

// RestoreError represents a failure applying one key of a backup.
type RestoreError struct {
	Key string
	Err error
}

func (e *RestoreError) Error() string {
	return fmt.Sprintf("restore error [%s]: %v", e.Key, e.Err)
}

func (e *RestoreError) Unwrap() error {
	return e.Err
}

// QuoteError represents a failure from the market quote endpoint.
type QuoteError struct {
	Symbol     string
	StatusCode int
	Err        error
}

func (e *QuoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("quote error [%s]: HTTP %d: %v", e.Symbol, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("quote error [%s]: %v", e.Symbol, e.Err)
}

func (e *QuoteError) Unwrap() error {
	return e.Err
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
