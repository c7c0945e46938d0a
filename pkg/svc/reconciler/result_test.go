package reconciler_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/devantler-tech/gcping/pkg/svc/provider"
	"github.com/devantler-tech/gcping/pkg/svc/reconciler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportErr(t *testing.T) {
	t.Parallel()

	quota := provider.NewQuotaError("create instance", errQuota)

	tests := []struct {
		name     string
		results  []reconciler.RegionResult
		wantErr  bool
		failed   []string
		pending  []string
		contains []string
	}{
		{
			name: "all succeeded",
			results: []reconciler.RegionResult{
				{Region: "a", Outcome: reconciler.OutcomeSuccess},
				{Region: "b", Outcome: reconciler.OutcomeSuccess},
			},
		},
		{
			name:    "no regions",
			results: nil,
		},
		{
			name: "failed and pending",
			results: []reconciler.RegionResult{
				{Region: "a", Outcome: reconciler.OutcomeSuccess},
				{Region: "b", Outcome: reconciler.OutcomeFailed, Err: quota},
				{Region: "c", Outcome: reconciler.OutcomePending, Err: reconciler.ErrDeadlineExceeded},
			},
			wantErr:  true,
			failed:   []string{"b"},
			pending:  []string{"c"},
			contains: []string{"1 failed (b: create instance: rejected by provider: instance quota exceeded)", "1 pending (c)", "1 succeeded"},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			report := &reconciler.Report{RunID: "run-1", Results: testCase.results}

			err := report.Err()
			if !testCase.wantErr {
				require.NoError(t, err)

				return
			}

			failure, ok := reconciler.AsPartialFailure(err)
			require.True(t, ok)
			assert.Equal(t, testCase.failed, failure.FailedRegions())
			assert.Equal(t, testCase.pending, failure.PendingRegions())

			for _, fragment := range testCase.contains {
				assert.Contains(t, err.Error(), fragment)
			}
		})
	}
}

func TestPartialFailureUnwrap(t *testing.T) {
	t.Parallel()

	failure := &reconciler.PartialFailure{
		RunID: "run-1",
		Failed: []reconciler.RegionResult{
			{Region: "a", Outcome: reconciler.OutcomeFailed, Err: provider.NewQuotaError("reserve", errQuota)},
		},
		Pending: []reconciler.RegionResult{
			{Region: "b", Outcome: reconciler.OutcomePending, Err: reconciler.ErrRunCancelled},
		},
	}

	wrapped := fmt.Errorf("reconcile: %w", failure)

	require.ErrorIs(t, wrapped, errQuota)
	require.ErrorIs(t, wrapped, reconciler.ErrRunCancelled)
	assert.True(t, provider.IsQuota(wrapped))
	assert.False(t, errors.Is(wrapped, reconciler.ErrDeadlineExceeded))

	extracted, ok := reconciler.AsPartialFailure(wrapped)
	require.True(t, ok)
	assert.Same(t, failure, extracted)
}

func TestRegionResultReason(t *testing.T) {
	t.Parallel()

	assert.Empty(t, reconciler.RegionResult{}.Reason())
	assert.Equal(t, "boom", reconciler.RegionResult{Err: errors.New("boom")}.Reason())
}

func TestReportAccessors(t *testing.T) {
	t.Parallel()

	started := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	report := &reconciler.Report{
		Started:  started,
		Finished: started.Add(90 * time.Second),
		Results: []reconciler.RegionResult{
			{Region: "b", Outcome: reconciler.OutcomeSuccess},
			{Region: "a", Outcome: reconciler.OutcomeFailed},
			{Region: "c", Outcome: reconciler.OutcomeSuccess},
		},
	}

	assert.Equal(t, 90*time.Second, report.Duration())
	assert.Equal(t, []string{"b", "c"}, report.Regions(reconciler.OutcomeSuccess))
	assert.Equal(t, []string{"a"}, report.Regions(reconciler.OutcomeFailed))
	assert.Nil(t, report.Regions(reconciler.OutcomePending))

	_, ok := report.Result("missing")
	assert.False(t, ok)
}
