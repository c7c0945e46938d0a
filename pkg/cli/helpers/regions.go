package helpers

import (
	"context"
	"fmt"

	"github.com/devantler-tech/gcping/pkg/apis/region/v1alpha1"
	"github.com/devantler-tech/gcping/pkg/client/netretry"
	"github.com/devantler-tech/gcping/pkg/svc/provider"
	"github.com/devantler-tech/gcping/pkg/svc/regionstore"
)

// RetryPolicy returns the retry budget configured for provider calls.
func (s *Session) RetryPolicy() netretry.Policy {
	return netretry.Policy{
		Timeout: s.Config.Reconcile.RetryTimeout,
		Base:    s.Config.Reconcile.RetryBase,
	}
}

// LoadDesired reads the desired region set, retrying while the source is unavailable.
// Failure is never reported as an empty set.
func LoadDesired(ctx context.Context, session *Session) (v1alpha1.RegionSet, error) {
	var desired v1alpha1.RegionSet

	err := netretry.Retry(ctx, session.RetryPolicy(), provider.IsUnavailable, func(ctx context.Context) error {
		loaded, err := session.Store.Load(ctx)
		if err != nil {
			session.Logger.WithError(err).Debug("load desired regions failed")

			return err //nolint:wrapcheck // Wrapped below
		}

		desired = loaded

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load desired regions: %w", err)
	}

	return desired, nil
}

// ObserveRegions overlays the provisioned state onto desired, retrying while
// the provider is unavailable.
func ObserveRegions(
	ctx context.Context,
	session *Session,
	desired v1alpha1.RegionSet,
) (v1alpha1.RegionSet, error) {
	var state regionstore.State

	err := netretry.Retry(ctx, session.RetryPolicy(), provider.IsUnavailable, func(ctx context.Context) error {
		observed, err := session.Store.Observe(ctx)
		if err != nil {
			session.Logger.WithError(err).Debug("observe provisioned state failed")

			return err //nolint:wrapcheck // Wrapped below
		}

		state = observed

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to observe provisioned state: %w", err)
	}

	return regionstore.Merge(desired, state, session.Config.Regions.ZoneSuffix), nil
}
