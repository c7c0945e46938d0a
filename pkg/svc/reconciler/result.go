package reconciler

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Outcome is the result of reconciling one region.
type Outcome string

const (
	// OutcomeSuccess means every planned operation reached its end state.
	OutcomeSuccess Outcome = "Success"
	// OutcomeFailed means an operation failed; the region is retried next run.
	OutcomeFailed Outcome = "Failed"
	// OutcomePending means the run was cancelled or hit its deadline before the region finished.
	OutcomePending Outcome = "Pending"
)

// RegionResult is the outcome of one region's plan.
type RegionResult struct {
	Region  string  `json:"region"`
	Outcome Outcome `json:"outcome"`
	// Err is the failure reason for Failed and Pending regions.
	Err error `json:"-"`
	// Completed lists operations that reached their end state, in order.
	Completed []Operation `json:"completed,omitzero"`
	// Address is the region's address after the run.
	Address  string    `json:"address,omitzero"`
	Started  time.Time `json:"started,omitzero"`
	Finished time.Time `json:"finished,omitzero"`
}

// Reason returns the failure reason, or the empty string.
func (r RegionResult) Reason() string {
	if r.Err == nil {
		return ""
	}

	return r.Err.Error()
}

// Report is the result of one reconciliation run.
type Report struct {
	RunID    string         `json:"runId"`
	Plan     DeploymentPlan `json:"plan"`
	Results  []RegionResult `json:"results"`
	Started  time.Time      `json:"started"`
	Finished time.Time      `json:"finished"`
	// DeadlineExceeded is set when the soft deadline stopped the run from waiting.
	DeadlineExceeded bool `json:"deadlineExceeded,omitzero"`
}

// Result returns the result of a region.
func (r *Report) Result(region string) (RegionResult, bool) {
	for _, result := range r.Results {
		if result.Region == region {
			return result, true
		}
	}

	return RegionResult{}, false
}

// Regions returns the regions with the given outcome, in plan order.
func (r *Report) Regions(outcome Outcome) []string {
	var regions []string

	for _, result := range r.Results {
		if result.Outcome == outcome {
			regions = append(regions, result.Region)
		}
	}

	return regions
}

// Duration returns how long the run took.
func (r *Report) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

// Err returns a *PartialFailure when any region failed or is pending, otherwise nil.
func (r *Report) Err() error {
	failure := &PartialFailure{
		RunID:     r.RunID,
		Succeeded: r.Regions(OutcomeSuccess),
	}

	for _, result := range r.Results {
		switch result.Outcome {
		case OutcomeFailed:
			failure.Failed = append(failure.Failed, result)
		case OutcomePending:
			failure.Pending = append(failure.Pending, result)
		case OutcomeSuccess:
		}
	}

	if len(failure.Failed) == 0 && len(failure.Pending) == 0 {
		return nil
	}

	return failure
}

// PartialFailure reports a run in which some regions did not converge.
// Converged regions stay applied.
type PartialFailure struct {
	RunID     string
	Failed    []RegionResult
	Pending   []RegionResult
	Succeeded []string
}

func (e *PartialFailure) Error() string {
	var parts []string

	if len(e.Failed) > 0 {
		failed := make([]string, 0, len(e.Failed))
		for _, result := range e.Failed {
			failed = append(failed, fmt.Sprintf("%s: %s", result.Region, result.Reason()))
		}

		parts = append(parts, fmt.Sprintf("%d failed (%s)", len(e.Failed), strings.Join(failed, "; ")))
	}

	if len(e.Pending) > 0 {
		pending := make([]string, 0, len(e.Pending))
		for _, result := range e.Pending {
			pending = append(pending, result.Region)
		}

		parts = append(parts, fmt.Sprintf("%d pending (%s)", len(e.Pending), strings.Join(pending, ", ")))
	}

	return fmt.Sprintf("reconcile run %s: %s, %d succeeded", e.RunID, strings.Join(parts, ", "), len(e.Succeeded))
}

// Unwrap exposes the per-region causes so errors.Is and errors.As see them.
func (e *PartialFailure) Unwrap() []error {
	errs := make([]error, 0, len(e.Failed)+len(e.Pending))

	for _, result := range append(append([]RegionResult{}, e.Failed...), e.Pending...) {
		if result.Err != nil {
			errs = append(errs, result.Err)
		}
	}

	return errs
}

// FailedRegions returns the IDs of failed regions.
func (e *PartialFailure) FailedRegions() []string {
	return resultRegions(e.Failed)
}

// PendingRegions returns the IDs of pending regions.
func (e *PartialFailure) PendingRegions() []string {
	return resultRegions(e.Pending)
}

// AsPartialFailure extracts a *PartialFailure from err.
func AsPartialFailure(err error) (*PartialFailure, bool) {
	var failure *PartialFailure

	ok := errors.As(err, &failure)

	return failure, ok
}

func resultRegions(results []RegionResult) []string {
	regions := make([]string, 0, len(results))
	for _, result := range results {
		regions = append(regions, result.Region)
	}

	return regions
}
