package reconciler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/devantler-tech/gcping/pkg/apis/region/v1alpha1"
	"github.com/devantler-tech/gcping/pkg/cli/parallel"
	"github.com/devantler-tech/gcping/pkg/client/netretry"
	"github.com/devantler-tech/gcping/pkg/svc/provider"
	"github.com/devantler-tech/gcping/pkg/svc/regionstore"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Errors recorded as region results.
var (
	// ErrRunCancelled is recorded for regions that did not finish because the run was cancelled.
	ErrRunCancelled = errors.New("reconciliation cancelled")
	// ErrDeadlineExceeded is recorded for regions still running when the soft deadline elapsed.
	ErrDeadlineExceeded = errors.New("reconciliation deadline exceeded")
	// ErrNoAddress is returned when an instance would be created without a reserved address.
	ErrNoAddress = errors.New("no reserved address")
	// ErrUnknownOperation is returned for operation kinds the reconciler cannot apply.
	ErrUnknownOperation = errors.New("unknown operation")
)

// Observer reports the provisioned state.
type Observer interface {
	Observe(ctx context.Context) (regionstore.State, error)
}

// Options configures a Reconciler.
type Options struct {
	// Concurrency bounds how many regions are reconciled at once.
	Concurrency int
	// Deadline is the soft deadline of a run. Zero waits for every region.
	Deadline time.Duration
	// Retry bounds retries of UnavailableError within a run.
	Retry netretry.Policy
	// Image is the ping container image.
	Image string
	// Replace lists regions whose instance is recreated even when running.
	Replace []string
	// Logger receives structured progress logs. Defaults to the logrus standard logger.
	Logger logrus.FieldLogger
	// OnResult is called once per region as soon as it settles. Calls are
	// serialized and stop once Apply returns, so regions still running past the
	// soft deadline are never reported after the run.
	OnResult func(RegionResult)
}

// NewOptions derives reconciler options from the configuration.
func NewOptions(cfg *v1alpha1.Config) Options {
	return Options{
		Concurrency: cfg.Reconcile.Concurrency,
		Deadline:    cfg.Reconcile.Deadline,
		Retry: netretry.Policy{
			Timeout: cfg.Reconcile.RetryTimeout,
			Base:    cfg.Reconcile.RetryBase,
		},
		Image:   cfg.Provider.ContainerImage,
		Replace: cfg.Reconcile.Replace,
	}
}

// Reconciler plans and applies deployment plans.
type Reconciler struct {
	provisioner provider.Provisioner
	observer    Observer
	opts        Options
	executor    *parallel.Executor
	log         logrus.FieldLogger
	now         func() time.Time
}

// New creates a Reconciler.
func New(provisioner provider.Provisioner, observer Observer, opts Options) *Reconciler {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Reconciler{
		provisioner: provisioner,
		observer:    observer,
		opts:        opts,
		executor:    parallel.NewExecutor(int64(opts.Concurrency)),
		log:         log,
		now:         time.Now,
	}
}

// Observe reads the provisioned state, retrying while the provider is unavailable.
func (r *Reconciler) Observe(ctx context.Context) (regionstore.State, error) {
	var state regionstore.State

	err := netretry.Retry(ctx, r.opts.Retry, provider.IsUnavailable, func(ctx context.Context) error {
		observed, err := r.observer.Observe(ctx)
		if err != nil {
			r.log.WithError(err).Debug("observe failed")

			return err //nolint:wrapcheck // Wrapped below
		}

		state = observed

		return nil
	})
	if err != nil {
		return regionstore.State{}, fmt.Errorf("failed to observe provisioned state: %w", err)
	}

	return state, nil
}

// Plan observes the provisioned state and computes the plan for desired.
func (r *Reconciler) Plan(ctx context.Context, desired v1alpha1.RegionSet) (DeploymentPlan, error) {
	state, err := r.Observe(ctx)
	if err != nil {
		return DeploymentPlan{}, err
	}

	return Plan(desired, state, r.opts.Replace), nil
}

// Reconcile observes, plans and applies. The error is non-nil only when the
// provisioned state could not be read; per-region failures are in the Report.
func (r *Reconciler) Reconcile(ctx context.Context, desired v1alpha1.RegionSet) (*Report, error) {
	plan, err := r.Plan(ctx, desired)
	if err != nil {
		return nil, err
	}

	return r.Apply(ctx, plan)
}

// Apply executes plan.
//
// Regions run concurrently up to the configured limit; a region's operations
// run in order and stop at the first failure. Once ctx is cancelled no new
// operation starts, while calls already in flight complete. When the soft
// deadline elapses Apply stops waiting and reports unfinished regions as Pending.
func (r *Reconciler) Apply(ctx context.Context, plan DeploymentPlan) (*Report, error) {
	err := plan.Validate()
	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID:   uuid.NewString(),
		Plan:    plan,
		Started: r.now(),
	}

	runLog := r.log.WithField("run", report.RunID)
	runLog.WithField("operations", plan.Len()).Info("applying deployment plan")

	sink := &resultSink{onResult: r.opts.OnResult}
	slots := make([]*slot, len(plan.Regions))
	tasks := make([]parallel.Task, len(plan.Regions))

	for index, regionPlan := range plan.Regions {
		slots[index] = newSlot(regionPlan.Region, sink)
		tasks[index] = func(ctx context.Context) error {
			r.applyRegion(ctx, runLog, regionPlan, slots[index])

			return nil
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})

	go func() {
		defer close(done)

		_ = r.executor.ExecuteAll(runCtx, tasks...)
	}()

	var deadline <-chan time.Time

	if r.opts.Deadline > 0 {
		timer := time.NewTimer(r.opts.Deadline)
		defer timer.Stop()

		deadline = timer.C
	}

	select {
	case <-done:
	case <-deadline:
		cancel()

		report.DeadlineExceeded = true

		runLog.WithField("deadline", r.opts.Deadline).Warn("soft deadline elapsed, not waiting for remaining regions")
	}

	sink.close()

	pendingErr := ErrRunCancelled
	if report.DeadlineExceeded {
		pendingErr = ErrDeadlineExceeded
	}

	report.Results = make([]RegionResult, len(slots))
	for index, s := range slots {
		report.Results[index] = s.snapshot(pendingErr)
	}

	report.Finished = r.now()

	runLog.WithFields(logrus.Fields{
		"succeeded": len(report.Regions(OutcomeSuccess)),
		"failed":    len(report.Regions(OutcomeFailed)),
		"pending":   len(report.Regions(OutcomePending)),
	}).Info("deployment plan applied")

	return report, nil
}

// applyRegion runs one region's operations in order and records the outcome in its slot.
func (r *Reconciler) applyRegion(ctx context.Context, runLog logrus.FieldLogger, regionPlan RegionPlan, s *slot) {
	region := regionPlan.Region
	regionLog := runLog.WithField("region", region.ID)
	address := region.Address

	s.start(r.now())

	for _, op := range regionPlan.Operations {
		if ctx.Err() != nil {
			r.settle(s, OutcomePending, ErrRunCancelled)

			return
		}

		if op.Kind == OpCreateInstance && op.Address == "" {
			op.Address = address
		}

		opLog := regionLog.WithField("op", op.Kind)

		result, err := r.execute(ctx, op, region)

		switch {
		case err == nil:
			opLog.Info("operation succeeded")
		case provider.IsConflict(err):
			opLog.WithError(err).Info("operation already in desired state")
		case provider.IsQuota(err):
			opLog.WithError(err).Error("operation rejected by provider")
			r.settle(s, OutcomeFailed, fmt.Errorf("%s: %w", op, err))

			return
		case provider.IsUnavailable(err) && ctx.Err() != nil:
			opLog.WithError(err).Warn("operation interrupted")
			r.settle(s, OutcomePending, fmt.Errorf("%s: %w: %w", op, ErrRunCancelled, err))

			return
		default:
			opLog.WithError(err).Error("operation failed")
			r.settle(s, OutcomeFailed, fmt.Errorf("%s: %w", op, err))

			return
		}

		if op.Kind == OpReserveAddress {
			address = result
		}

		if op.Kind == OpReleaseAddress {
			address = ""
		}

		s.complete(op, address)
	}

	r.settle(s, OutcomeSuccess, nil)
}

// execute runs one operation, retrying UnavailableError within the retry budget.
// Provider calls run on a context detached from cancellation so that an
// in-flight call is never aborted half way. The returned string is the
// region's address after a reservation.
func (r *Reconciler) execute(ctx context.Context, op Operation, region v1alpha1.Region) (string, error) {
	var address string

	err := netretry.Retry(ctx, r.opts.Retry, provider.IsUnavailable, func(ctx context.Context) error {
		var callErr error

		address, callErr = r.call(context.WithoutCancel(ctx), op, region)

		return callErr
	})

	return address, err
}

func (r *Reconciler) call(ctx context.Context, op Operation, region v1alpha1.Region) (string, error) {
	switch op.Kind {
	case OpReserveAddress:
		return r.reserve(ctx, region.ID)
	case OpCreateInstance:
		if op.Address == "" {
			return "", fmt.Errorf("%w for %s", ErrNoAddress, region.ID)
		}

		_, err := r.provisioner.CreateInstance(ctx, provider.NewInstanceSpec(region, op.Address, r.opts.Image))

		return op.Address, err //nolint:wrapcheck // Classified by the caller
	case OpDeleteInstance:
		return "", r.provisioner.DeleteInstance(ctx, region.ID) //nolint:wrapcheck // Classified by the caller
	case OpReleaseAddress:
		return "", r.provisioner.ReleaseAddress(ctx, region.ID) //nolint:wrapcheck // Classified by the caller
	}

	return "", fmt.Errorf("%w: %s", ErrUnknownOperation, op.Kind)
}

// reserve reserves an address, resolving the existing one on conflict so the
// region keeps the address it already owns.
func (r *Reconciler) reserve(ctx context.Context, region string) (string, error) {
	address, err := r.provisioner.ReserveAddress(ctx, region)
	if err == nil {
		return address.IP, nil
	}

	if !provider.IsConflict(err) {
		return "", err //nolint:wrapcheck // Classified by the caller
	}

	if existing, ok := provider.ConflictAddress(err); ok && existing.IP != "" {
		return existing.IP, err //nolint:wrapcheck // Conflict is treated as success
	}

	addresses, listErr := r.provisioner.ListAddresses(ctx)
	if listErr != nil {
		return "", listErr //nolint:wrapcheck // Classified by the caller
	}

	for _, candidate := range addresses {
		if candidate.Region == region {
			return candidate.IP, err //nolint:wrapcheck // Conflict is treated as success
		}
	}

	//nolint:errorlint // The conflict must not unwrap: no address is a failure, not success.
	return "", fmt.Errorf("%w for %s after conflicting reservation: %v", ErrNoAddress, region, err)
}

func (r *Reconciler) settle(s *slot, outcome Outcome, err error) {
	s.sink.deliver(s.finish(outcome, err, r.now()))
}

// resultSink forwards settled results to OnResult until the run is closed.
type resultSink struct {
	mu       sync.Mutex
	onResult func(RegionResult)
	closed   bool
}

func (k *resultSink) deliver(result RegionResult) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.closed || k.onResult == nil {
		return
	}

	k.onResult(result)
}

// close waits for a delivery in progress and drops every later one.
func (k *resultSink) close() {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.closed = true
}

// slot holds the result of one region. It is written by exactly one worker
// and read by Apply when the run ends or the deadline elapses.
type slot struct {
	mu     sync.Mutex
	result RegionResult
	done   bool
	sink   *resultSink
}

func newSlot(region v1alpha1.Region, sink *resultSink) *slot {
	return &slot{
		result: RegionResult{
			Region:  region.ID,
			Outcome: OutcomePending,
			Address: region.Address,
		},
		sink: sink,
	}
}

func (s *slot) start(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.result.Started = at
}

func (s *slot) complete(op Operation, address string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.result.Completed = append(s.result.Completed, op)
	s.result.Address = address
}

func (s *slot) finish(outcome Outcome, err error, at time.Time) RegionResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.result.Outcome = outcome
	s.result.Err = err
	s.result.Finished = at
	s.done = true

	return s.copyLocked()
}

// snapshot returns the result, marking unfinished regions Pending with pendingErr.
func (s *slot) snapshot(pendingErr error) RegionResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.copyLocked()
	if !s.done {
		result.Outcome = OutcomePending
		result.Err = pendingErr
	}

	return result
}

func (s *slot) copyLocked() RegionResult {
	result := s.result
	result.Completed = append([]Operation(nil), s.result.Completed...)

	return result
}
