package hetzner

import (
	"errors"
	"fmt"

	"github.com/devantler-tech/gcping/pkg/client/netretry"
	"github.com/devantler-tech/gcping/pkg/svc/provider"
	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// Sentinel errors for Hetzner-specific failure modes.
var (
	// ErrHetznerActionFailed indicates that a Hetzner action failed.
	ErrHetznerActionFailed = errors.New("hetzner action failed")
	// ErrAddressNotReserved indicates that an instance was requested before its primary IP existed.
	ErrAddressNotReserved = errors.New("primary ip not reserved")
	// ErrNoDatacenter indicates that a location has no datacenter to place resources in.
	ErrNoDatacenter = errors.New("no datacenter in location")
)

// retryableErrorCodes are Hetzner API error codes that warrant a retry.
// These represent transient conditions that may resolve on subsequent attempts.
//
//nolint:gochecknoglobals // Package-level constant for error code classification
var retryableErrorCodes = []hcloud.ErrorCode{
	hcloud.ErrorCodeResourceUnavailable, // Resource currently unavailable
	hcloud.ErrorCodeConflict,            // Resource changed during request
	hcloud.ErrorCodeTimeout,             // Request timed out
	hcloud.ErrorCodeRateLimitExceeded,   // Rate limit hit
	hcloud.ErrorCodeRobotUnavailable,    // Robot service unavailable
	hcloud.ErrorCodeLocked,              // Resource locked by another action
}

// IsRetryableHetznerError returns true if the error is a transient Hetzner API error
// that may succeed on retry.
func IsRetryableHetznerError(err error) bool {
	if err == nil {
		return false
	}

	return hcloud.IsError(err, retryableErrorCodes...)
}

// IsResourceLimitError returns true if the error indicates a permanent resource limit
// that won't resolve with retries (e.g., quota exceeded, invalid configuration).
func IsResourceLimitError(err error) bool {
	if err == nil {
		return false
	}

	return hcloud.IsError(err,
		hcloud.ErrorCodeResourceLimitExceeded,
		hcloud.ErrorCodeInvalidInput,
		hcloud.ErrorCodeForbidden,
		hcloud.ErrorCodeUnauthorized,
	)
}

// IsAlreadyExistsError returns true if a create failed because the resource already exists.
func IsAlreadyExistsError(err error) bool {
	if err == nil {
		return false
	}

	return hcloud.IsError(err, hcloud.ErrorCodeUniquenessError)
}

// IsAlreadyGoneError returns true if a delete failed because the resource no longer exists.
func IsAlreadyGoneError(err error) bool {
	if err == nil {
		return false
	}

	return hcloud.IsError(err, hcloud.ErrorCodeNotFound)
}

// Classify maps a Hetzner API error from a read onto the provider error taxonomy.
// Reads never report a conflict.
func Classify(op string, err error) error {
	return classify(op, err, nil)
}

// ClassifyCreate maps a Hetzner API error from a create. A uniqueness error
// means the resource is already there and is reported as a conflict.
func ClassifyCreate(op string, err error) error {
	return classify(op, err, IsAlreadyExistsError)
}

// ClassifyDelete maps a Hetzner API error from a delete. A not_found error
// means the resource is already gone and is reported as a conflict.
func ClassifyDelete(op string, err error) error {
	return classify(op, err, IsAlreadyGoneError)
}

func classify(op string, err error, alreadyDone func(error) bool) error {
	switch {
	case err == nil:
		return nil
	case alreadyDone != nil && alreadyDone(err):
		return provider.NewConflictError(op, err)
	case IsResourceLimitError(err):
		return provider.NewQuotaError(op, err)
	case IsRetryableHetznerError(err), netretry.IsRetryable(err):
		return provider.NewUnavailableError(op, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
