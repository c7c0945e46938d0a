package hetzner_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/devantler-tech/gcping/pkg/svc/provider"
	"github.com/devantler-tech/gcping/pkg/svc/provider/hetzner"
	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// errTest is a static error for test cases.
var errTest = errors.New("test error")

//nolint:funlen // Table-driven test with many cases
func TestIsRetryableHetznerError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		wantRetry bool
	}{
		{
			name:      "NilError",
			err:       nil,
			wantRetry: false,
		},
		{
			name:      "NonHcloudError",
			err:       errTest,
			wantRetry: false,
		},
		{
			name: "ResourceUnavailable",
			err: hcloud.Error{
				Code:    hcloud.ErrorCodeResourceUnavailable,
				Message: "resource unavailable",
			},
			wantRetry: true,
		},
		{
			name: "Conflict",
			err: hcloud.Error{
				Code:    hcloud.ErrorCodeConflict,
				Message: "conflict",
			},
			wantRetry: true,
		},
		{
			name: "Timeout",
			err: hcloud.Error{
				Code:    hcloud.ErrorCodeTimeout,
				Message: "timeout",
			},
			wantRetry: true,
		},
		{
			name: "RateLimitExceeded",
			err: hcloud.Error{
				Code:    hcloud.ErrorCodeRateLimitExceeded,
				Message: "rate limit",
			},
			wantRetry: true,
		},
		{
			name: "RobotUnavailable",
			err: hcloud.Error{
				Code:    hcloud.ErrorCodeRobotUnavailable,
				Message: "robot unavailable",
			},
			wantRetry: true,
		},
		{
			name: "Locked",
			err: hcloud.Error{
				Code:    hcloud.ErrorCodeLocked,
				Message: "locked",
			},
			wantRetry: true,
		},
		{
			name: "PlacementError_NotRetryable",
			err: hcloud.Error{
				Code:    hcloud.ErrorCodePlacementError,
				Message: "placement error",
			},
			wantRetry: false,
		},
		{
			name: "InvalidInput_NotRetryable",
			err: hcloud.Error{
				Code:    hcloud.ErrorCodeInvalidInput,
				Message: "invalid input",
			},
			wantRetry: false,
		},
		{
			name: "Forbidden_NotRetryable",
			err: hcloud.Error{
				Code:    hcloud.ErrorCodeForbidden,
				Message: "forbidden",
			},
			wantRetry: false,
		},
		{
			name: "WrappedRetryableError",
			err: fmt.Errorf("wrapped: %w", hcloud.Error{
				Code:    hcloud.ErrorCodeConflict,
				Message: "conflict",
			}),
			wantRetry: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			result := hetzner.IsRetryableHetznerError(testCase.err)
			assert.Equal(t, testCase.wantRetry, result)
		})
	}
}

//nolint:funlen // Table-driven test with many cases
func TestIsResourceLimitError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		err           error
		wantIsLimitEr bool
	}{
		{
			name:          "NilError",
			err:           nil,
			wantIsLimitEr: false,
		},
		{
			name:          "NonHcloudError",
			err:           errTest,
			wantIsLimitEr: false,
		},
		{
			name: "ResourceLimitExceeded",
			err: hcloud.Error{
				Code:    hcloud.ErrorCodeResourceLimitExceeded,
				Message: "quota exceeded",
			},
			wantIsLimitEr: true,
		},
		{
			name: "InvalidInput",
			err: hcloud.Error{
				Code:    hcloud.ErrorCodeInvalidInput,
				Message: "invalid input",
			},
			wantIsLimitEr: true,
		},
		{
			name: "Forbidden",
			err: hcloud.Error{
				Code:    hcloud.ErrorCodeForbidden,
				Message: "forbidden",
			},
			wantIsLimitEr: true,
		},
		{
			name: "Unauthorized",
			err: hcloud.Error{
				Code:    hcloud.ErrorCodeUnauthorized,
				Message: "unauthorized",
			},
			wantIsLimitEr: true,
		},
		{
			name: "ResourceUnavailable_NotLimit",
			err: hcloud.Error{
				Code:    hcloud.ErrorCodeResourceUnavailable,
				Message: "unavailable",
			},
			wantIsLimitEr: false,
		},
		{
			name: "Conflict_NotLimit",
			err: hcloud.Error{
				Code:    hcloud.ErrorCodeConflict,
				Message: "conflict",
			},
			wantIsLimitEr: false,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			result := hetzner.IsResourceLimitError(testCase.err)
			assert.Equal(t, testCase.wantIsLimitEr, result)
		})
	}
}

func TestIsAlreadyExistsError(t *testing.T) {
	t.Parallel()

	assert.False(t, hetzner.IsAlreadyExistsError(nil))
	assert.False(t, hetzner.IsAlreadyExistsError(errTest))
	assert.False(t, hetzner.IsAlreadyExistsError(hcloud.Error{Code: hcloud.ErrorCodeNotFound}))
	assert.True(t, hetzner.IsAlreadyExistsError(
		fmt.Errorf("wrapped: %w", hcloud.Error{Code: hcloud.ErrorCodeUniquenessError}),
	))
}

func TestIsAlreadyGoneError(t *testing.T) {
	t.Parallel()

	assert.False(t, hetzner.IsAlreadyGoneError(nil))
	assert.False(t, hetzner.IsAlreadyGoneError(errTest))
	assert.False(t, hetzner.IsAlreadyGoneError(hcloud.Error{Code: hcloud.ErrorCodeUniquenessError}))
	assert.True(t, hetzner.IsAlreadyGoneError(
		fmt.Errorf("wrapped: %w", hcloud.Error{Code: hcloud.ErrorCodeNotFound}),
	))
}

//nolint:funlen // Table-driven test with many cases
func TestClassify(t *testing.T) {
	t.Parallel()

	uniqueness := hcloud.Error{Code: hcloud.ErrorCodeUniquenessError}
	notFound := hcloud.Error{Code: hcloud.ErrorCodeNotFound}

	tests := []struct {
		name        string
		classify    func(op string, err error) error
		err         error
		unavailable bool
		conflict    bool
		quota       bool
	}{
		{name: "CreateUniqueness", classify: hetzner.ClassifyCreate, err: uniqueness, conflict: true},
		{name: "CreateNotFound", classify: hetzner.ClassifyCreate, err: notFound},
		{name: "DeleteNotFound", classify: hetzner.ClassifyDelete, err: notFound, conflict: true},
		{name: "DeleteUniqueness", classify: hetzner.ClassifyDelete, err: uniqueness},
		{name: "ReadNotFound", classify: hetzner.Classify, err: notFound},
		{name: "ReadUniqueness", classify: hetzner.Classify, err: uniqueness},
		{
			name:     "CreateLimit",
			classify: hetzner.ClassifyCreate,
			err:      hcloud.Error{Code: hcloud.ErrorCodeResourceLimitExceeded},
			quota:    true,
		},
		{name: "Unauthorized", classify: hetzner.Classify, err: hcloud.Error{Code: hcloud.ErrorCodeUnauthorized}, quota: true},
		{
			name:        "RateLimit",
			classify:    hetzner.Classify,
			err:         hcloud.Error{Code: hcloud.ErrorCodeRateLimitExceeded},
			unavailable: true,
		},
		{
			name:        "DeleteLocked",
			classify:    hetzner.ClassifyDelete,
			err:         hcloud.Error{Code: hcloud.ErrorCodeLocked},
			unavailable: true,
		},
		{
			name:        "NetworkError",
			classify:    hetzner.ClassifyCreate,
			err:         errors.New("dial tcp: connect: connection refused"),
			unavailable: true,
		},
		{name: "Unknown", classify: hetzner.Classify, err: errTest},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			err := testCase.classify("op", testCase.err)

			require.Error(t, err)
			require.ErrorIs(t, err, testCase.err)
			assert.Equal(t, testCase.unavailable, provider.IsUnavailable(err))
			assert.Equal(t, testCase.conflict, provider.IsConflict(err))
			assert.Equal(t, testCase.quota, provider.IsQuota(err))
		})
	}

	t.Run("Nil", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, hetzner.Classify("op", nil))
		require.NoError(t, hetzner.ClassifyCreate("op", nil))
		require.NoError(t, hetzner.ClassifyDelete("op", nil))
	})
}
