package v1alpha1

import (
	"fmt"
	"slices"
	"strings"
)

const (
	// Group is the API group for gcping.
	Group = "gcping.dev"
	// Version is the API version for gcping.
	Version = "v1alpha1"
	// Kind is the kind for gcping configuration files.
	Kind = "Config"
	// APIVersion is the full API version for gcping.
	APIVersion = Group + "/" + Version

	// DefaultZoneSuffix is appended to a region identifier to derive its zone.
	DefaultZoneSuffix = "-b"
)

// --- Core Types ---

// Region is a provider-defined geographic deployment location serving the ping endpoint.
type Region struct {
	// ID is the provider-specific location name (e.g. "us-central1", "fsn1").
	ID string `json:"id"`
	// Zone is derived from ID and the configured zone suffix.
	Zone string `json:"zone,omitzero"`
	// DisplayName is the human-readable location name shown to clients.
	DisplayName string `json:"displayName,omitzero"`
	// Address is the reserved static IPv4 address, empty until reserved.
	Address string `json:"address,omitzero"`
	// Status is the deployment status of the region.
	Status Status `json:"status,omitzero"`
}

// NewRegion creates a Region with its zone derived from the given suffix.
func NewRegion(id, zoneSuffix string) Region {
	return Region{
		ID:     id,
		Zone:   DeriveZone(id, zoneSuffix),
		Status: StatusAbsent,
	}
}

// DeriveZone returns the zone name for a region identifier.
func DeriveZone(id, zoneSuffix string) string {
	if zoneSuffix == "" {
		zoneSuffix = DefaultZoneSuffix
	}

	return id + zoneSuffix
}

// HasAddress reports whether a static address is bound to the region.
func (r Region) HasAddress() bool {
	return r.Address != ""
}

// Running reports whether the region serves traffic.
func (r Region) Running() bool {
	return r.Status == StatusInstanceRunning
}

// RegionSet is an ordered sequence of regions, unique by ID.
type RegionSet []Region

// NewRegionSet validates the given regions and returns them as a RegionSet.
// Order is preserved. Empty or duplicate IDs are rejected.
func NewRegionSet(regions ...Region) (RegionSet, error) {
	seen := make(map[string]struct{}, len(regions))

	set := make(RegionSet, 0, len(regions))

	for _, region := range regions {
		id := strings.TrimSpace(region.ID)
		if id == "" {
			return nil, ErrEmptyRegionID
		}

		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRegion, id)
		}

		seen[id] = struct{}{}
		region.ID = id
		set = append(set, region)
	}

	return set, nil
}

// Get returns the region with the given ID.
func (s RegionSet) Get(id string) (Region, bool) {
	for _, region := range s {
		if region.ID == id {
			return region, true
		}
	}

	return Region{}, false
}

// Contains reports whether the set holds a region with the given ID.
func (s RegionSet) Contains(id string) bool {
	_, ok := s.Get(id)

	return ok
}

// IDs returns the region identifiers in set order.
func (s RegionSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for _, region := range s {
		ids = append(ids, region.ID)
	}

	return ids
}

// Sorted returns a copy of the set ordered lexicographically by ID.
func (s RegionSet) Sorted() RegionSet {
	sorted := slices.Clone(s)
	slices.SortFunc(sorted, func(a, b Region) int {
		return strings.Compare(a.ID, b.ID)
	})

	return sorted
}

// Filter returns the regions for which keep returns true, preserving order.
func (s RegionSet) Filter(keep func(Region) bool) RegionSet {
	filtered := make(RegionSet, 0, len(s))

	for _, region := range s {
		if keep(region) {
			filtered = append(filtered, region)
		}
	}

	return filtered
}

// Running returns the regions whose instance is running.
func (s RegionSet) Running() RegionSet {
	return s.Filter(Region.Running)
}
