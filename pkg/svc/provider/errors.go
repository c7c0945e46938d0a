package provider

import (
	"errors"
	"fmt"
)

// Common errors for provider operations.
var (
	// ErrProviderUnavailable is returned when the provider client is not configured.
	ErrProviderUnavailable = errors.New("provider is not available")

	// ErrUnsupportedProvider is returned by factories for unknown provider kinds.
	ErrUnsupportedProvider = errors.New("unsupported provider")

	// ErrUnknownRegion is returned when a region is not served by the provider.
	ErrUnknownRegion = errors.New("unknown region")
)

// UnavailableError means the provider could not be reached or is temporarily
// unable to serve the request. Callers retry with backoff.
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s: provider unavailable: %v", e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// ConflictError means the resource already is in the requested end state
// (already exists, already deleted). Callers treat it as success.
type ConflictError struct {
	Op  string
	Err error
	// Address carries the existing address when a reservation conflicts.
	Address *Address
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: conflict: %v", e.Op, e.Err)
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

// QuotaError means the provider rejected the operation (quota, limits, permissions).
// Callers surface it and do not retry automatically.
type QuotaError struct {
	Op  string
	Err error
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("%s: rejected by provider: %v", e.Op, e.Err)
}

func (e *QuotaError) Unwrap() error {
	return e.Err
}

// NewUnavailableError wraps err as an UnavailableError for op.
func NewUnavailableError(op string, err error) error {
	return &UnavailableError{Op: op, Err: err}
}

// NewConflictError wraps err as a ConflictError for op.
func NewConflictError(op string, err error) error {
	return &ConflictError{Op: op, Err: err}
}

// NewQuotaError wraps err as a QuotaError for op.
func NewQuotaError(op string, err error) error {
	return &QuotaError{Op: op, Err: err}
}

// IsUnavailable reports whether err is or wraps an UnavailableError.
func IsUnavailable(err error) bool {
	var target *UnavailableError

	return errors.As(err, &target)
}

// IsConflict reports whether err is or wraps a ConflictError.
func IsConflict(err error) bool {
	var target *ConflictError

	return errors.As(err, &target)
}

// IsQuota reports whether err is or wraps a QuotaError.
func IsQuota(err error) bool {
	var target *QuotaError

	return errors.As(err, &target)
}

// ConflictAddress returns the existing address carried by a reservation conflict.
func ConflictAddress(err error) (Address, bool) {
	var target *ConflictError
	if errors.As(err, &target) && target.Address != nil {
		return *target.Address, true
	}

	return Address{}, false
}
