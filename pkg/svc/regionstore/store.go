package regionstore

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/devantler-tech/gcping/pkg/apis/region/v1alpha1"
	"github.com/devantler-tech/gcping/pkg/cli/parallel"
	"github.com/devantler-tech/gcping/pkg/svc/provider"
)

// Options filters and decorates loaded regions.
type Options struct {
	// Include keeps only the listed region IDs when non-empty.
	Include []string
	// Exclude drops the listed region IDs.
	Exclude []string
	// ZoneSuffix derives each region's zone.
	ZoneSuffix string
}

// Store reads desired and observed regions.
type Store struct {
	source      Source
	provisioner provider.Provisioner
	opts        Options
}

// New creates a Store.
func New(source Source, provisioner provider.Provisioner, opts Options) *Store {
	return &Store{
		source:      source,
		provisioner: provisioner,
		opts:        opts,
	}
}

// NewFromConfig creates a Store with the source and filters selected by cfg.
func NewFromConfig(cfg *v1alpha1.Config, provisioner provider.Provisioner) *Store {
	var source Source = ProviderSource{Provisioner: provisioner}
	if cfg.Regions.Source == v1alpha1.SourceFile {
		source = FileSource{Path: cfg.Regions.File}
	}

	return New(source, provisioner, Options{
		Include:    cfg.Regions.Include,
		Exclude:    cfg.Regions.Exclude,
		ZoneSuffix: cfg.Regions.ZoneSuffix,
	})
}

// Load returns the desired region set, filtered and with zones derived.
// Every region starts out Absent; use Merge to overlay observed state.
func (s *Store) Load(ctx context.Context) (v1alpha1.RegionSet, error) {
	regions, err := s.source.Regions(ctx)
	if err != nil {
		return nil, err
	}

	set, err := v1alpha1.NewRegionSet(regions...)
	if err != nil {
		return nil, fmt.Errorf("invalid desired regions: %w", err)
	}

	set = set.Filter(s.keep)

	for i := range set {
		set[i].Zone = v1alpha1.DeriveZone(set[i].ID, s.opts.ZoneSuffix)
		set[i].Address = ""
		set[i].Status = v1alpha1.StatusAbsent
	}

	return set, nil
}

// Addresses returns the currently reserved address of every region.
func (s *Store) Addresses(ctx context.Context) (map[string]string, error) {
	if s.provisioner == nil {
		return nil, provider.NewUnavailableError("list addresses", provider.ErrProviderUnavailable)
	}

	addresses, err := s.provisioner.ListAddresses(ctx)
	if err != nil {
		return nil, unavailable("list addresses", err)
	}

	byRegion := make(map[string]string, len(addresses))

	for _, address := range addresses {
		if address.Region != "" {
			byRegion[address.Region] = address.IP
		}
	}

	return byRegion, nil
}

// Observe lists addresses and instances concurrently.
func (s *Store) Observe(ctx context.Context) (State, error) {
	if s.provisioner == nil {
		return State{}, provider.NewUnavailableError("observe", provider.ErrProviderUnavailable)
	}

	var (
		mu    sync.Mutex
		state = NewState()
	)

	err := parallel.NewExecutor(2).Execute(ctx,
		func(ctx context.Context) error {
			addresses, err := s.provisioner.ListAddresses(ctx)
			if err != nil {
				return unavailable("list addresses", err)
			}

			mu.Lock()
			defer mu.Unlock()

			for _, address := range addresses {
				if address.Region != "" {
					state.Addresses[address.Region] = address
				}
			}

			return nil
		},
		func(ctx context.Context) error {
			instances, err := s.provisioner.ListInstances(ctx)
			if err != nil {
				return unavailable("list instances", err)
			}

			mu.Lock()
			defer mu.Unlock()

			for _, instance := range instances {
				if instance.Region != "" {
					state.Instances[instance.Region] = instance
				}
			}

			return nil
		},
	)
	if err != nil {
		return State{}, fmt.Errorf("observe regions: %w", err)
	}

	return state, nil
}

func (s *Store) keep(region v1alpha1.Region) bool {
	if len(s.opts.Include) > 0 && !containsFold(s.opts.Include, region.ID) {
		return false
	}

	return !containsFold(s.opts.Exclude, region.ID)
}

func containsFold(values []string, value string) bool {
	return slices.ContainsFunc(values, func(candidate string) bool {
		return strings.EqualFold(candidate, value)
	})
}

// State is the provisioned infrastructure, keyed by region ID.
type State struct {
	Addresses map[string]provider.Address
	Instances map[string]provider.Instance
}

// NewState returns an empty State.
func NewState() State {
	return State{
		Addresses: make(map[string]provider.Address),
		Instances: make(map[string]provider.Instance),
	}
}

// Status derives the status of a region from what is provisioned.
func (st State) Status(region string) v1alpha1.Status {
	if instance, ok := st.Instances[region]; ok && instance.Running {
		return v1alpha1.StatusInstanceRunning
	}

	if _, ok := st.Addresses[region]; ok {
		return v1alpha1.StatusAddressReserved
	}

	return v1alpha1.StatusAbsent
}

// Address returns the reserved IP of a region, or the empty string.
func (st State) Address(region string) string {
	if address, ok := st.Addresses[region]; ok {
		return address.IP
	}

	if instance, ok := st.Instances[region]; ok {
		return instance.Address
	}

	return ""
}

// Regions returns every region with an address or instance, sorted.
func (st State) Regions() []string {
	seen := make(map[string]struct{}, len(st.Addresses)+len(st.Instances))

	for region := range st.Addresses {
		seen[region] = struct{}{}
	}

	for region := range st.Instances {
		seen[region] = struct{}{}
	}

	return slices.Sorted(maps.Keys(seen))
}

// Merge overlays observed state onto the desired set.
//
// Desired regions keep their order; regions provisioned but not desired are
// appended in ID order so callers see everything that actually exists.
func Merge(desired v1alpha1.RegionSet, state State, zoneSuffix string) v1alpha1.RegionSet {
	merged := make(v1alpha1.RegionSet, 0, len(desired))

	for _, region := range desired {
		region.Address = state.Address(region.ID)
		region.Status = state.Status(region.ID)
		merged = append(merged, region)
	}

	for _, id := range state.Regions() {
		if desired.Contains(id) {
			continue
		}

		region := v1alpha1.NewRegion(id, zoneSuffix)
		region.Address = state.Address(id)
		region.Status = state.Status(id)
		merged = append(merged, region)
	}

	return merged
}
