package reconciler

import (
	"errors"
	"fmt"
	"slices"

	"github.com/devantler-tech/gcping/pkg/apis/region/v1alpha1"
	"github.com/devantler-tech/gcping/pkg/svc/regionstore"
)

// ErrInvalidPlan is returned by DeploymentPlan.Validate.
var ErrInvalidPlan = errors.New("invalid deployment plan")

// RegionPlan is the ordered list of operations for one region.
type RegionPlan struct {
	Region     v1alpha1.Region `json:"region"`
	Operations []Operation     `json:"operations"`
}

// DeploymentPlan is the set of operations converging observed state onto the desired set.
// Regions are independent; operations inside a region are ordered.
type DeploymentPlan struct {
	Regions []RegionPlan `json:"regions"`
}

// Empty reports whether the plan contains no operations.
func (p DeploymentPlan) Empty() bool {
	return p.Len() == 0
}

// Len returns the number of operations.
func (p DeploymentPlan) Len() int {
	total := 0
	for _, regionPlan := range p.Regions {
		total += len(regionPlan.Operations)
	}

	return total
}

// Operations flattens the plan region by region.
func (p DeploymentPlan) Operations() []Operation {
	ops := make([]Operation, 0, p.Len())
	for _, regionPlan := range p.Regions {
		ops = append(ops, regionPlan.Operations...)
	}

	return ops
}

// For returns the plan of a region.
func (p DeploymentPlan) For(region string) (RegionPlan, bool) {
	for _, regionPlan := range p.Regions {
		if regionPlan.Region.ID == region {
			return regionPlan, true
		}
	}

	return RegionPlan{}, false
}

// Validate checks that every region appears once, that operations are of a
// known kind and belong to their region, and that every operation comes after
// the kinds it depends on.
func (p DeploymentPlan) Validate() error {
	var errs []error

	seen := make(map[string]struct{}, len(p.Regions))

	for _, regionPlan := range p.Regions {
		id := regionPlan.Region.ID
		if _, ok := seen[id]; ok {
			errs = append(errs, fmt.Errorf("%w: region %s planned twice", ErrInvalidPlan, id))
		}

		seen[id] = struct{}{}

		errs = append(errs, validateRegionPlan(regionPlan)...)
	}

	return errors.Join(errs...)
}

func validateRegionPlan(regionPlan RegionPlan) []error {
	var errs []error

	id := regionPlan.Region.ID
	kinds := make([]OperationKind, 0, len(regionPlan.Operations))

	for index, op := range regionPlan.Operations {
		if !slices.Contains(ValidOperationKinds(), op.Kind) {
			errs = append(errs, fmt.Errorf("%w: unknown operation kind %q for %s", ErrInvalidPlan, op.Kind, id))
		}

		if op.Region != id {
			errs = append(errs, fmt.Errorf("%w: %s listed under region %s", ErrInvalidPlan, op, id))
		}

		if slices.Contains(kinds, op.Kind) {
			errs = append(errs, fmt.Errorf("%w: %s planned twice for %s", ErrInvalidPlan, op.Kind, id))
		}

		kinds = append(kinds, op.Kind)

		for _, dependency := range op.Kind.DependsOn() {
			later := slices.IndexFunc(regionPlan.Operations[index+1:], func(other Operation) bool {
				return other.Kind == dependency
			})
			if later >= 0 {
				errs = append(errs, fmt.Errorf("%w: %s must follow %s for %s", ErrInvalidPlan, op.Kind, dependency, id))
			}
		}
	}

	return errs
}

// Plan computes the operations that converge state onto desired.
//
// Desired regions are planned in set order, followed by regions that are
// provisioned but no longer desired, in ID order. Regions listed in replace get
// their existing instance deleted and recreated on the same address. Planning a
// converged state yields an empty plan.
func Plan(desired v1alpha1.RegionSet, state regionstore.State, replace []string) DeploymentPlan {
	plan := DeploymentPlan{}

	for _, region := range desired {
		region.Address = state.Address(region.ID)
		region.Status = state.Status(region.ID)

		ops := planDesired(region, state, slices.Contains(replace, region.ID))
		if len(ops) > 0 {
			plan.Regions = append(plan.Regions, RegionPlan{Region: region, Operations: orderOperations(ops)})
		}
	}

	for _, id := range state.Regions() {
		if desired.Contains(id) {
			continue
		}

		region := v1alpha1.Region{ID: id, Address: state.Address(id), Status: state.Status(id)}

		ops := planRemoved(id, state)
		if len(ops) > 0 {
			plan.Regions = append(plan.Regions, RegionPlan{Region: region, Operations: orderOperations(ops)})
		}
	}

	return plan
}

func planDesired(region v1alpha1.Region, state regionstore.State, replace bool) []Operation {
	var ops []Operation

	address, reserved := state.Addresses[region.ID]
	if !reserved {
		ops = append(ops, Operation{Kind: OpReserveAddress, Region: region.ID})
	}

	instance, exists := state.Instances[region.ID]

	if exists && instance.Running && !replace {
		return ops
	}

	if exists {
		ops = append(ops, Operation{Kind: OpDeleteInstance, Region: region.ID})
	}

	create := Operation{Kind: OpCreateInstance, Region: region.ID}
	if reserved {
		create.Address = address.IP
	}

	return append(ops, create)
}

func planRemoved(id string, state regionstore.State) []Operation {
	var ops []Operation

	if _, ok := state.Instances[id]; ok {
		ops = append(ops, Operation{Kind: OpDeleteInstance, Region: id})
	}

	if _, ok := state.Addresses[id]; ok {
		ops = append(ops, Operation{Kind: OpReleaseAddress, Region: id})
	}

	return ops
}
