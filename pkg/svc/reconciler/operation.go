package reconciler

import (
	"fmt"
	"slices"
)

// OperationKind is a provisioning step.
type OperationKind string

const (
	// OpReserveAddress reserves the static address of a region.
	OpReserveAddress OperationKind = "ReserveAddress"
	// OpCreateInstance creates the ping instance on the region's address.
	OpCreateInstance OperationKind = "CreateInstance"
	// OpDeleteInstance deletes the ping instance of a region.
	OpDeleteInstance OperationKind = "DeleteInstance"
	// OpReleaseAddress releases the static address of a region.
	OpReleaseAddress OperationKind = "ReleaseAddress"
)

// ValidOperationKinds returns all operation kinds.
func ValidOperationKinds() []OperationKind {
	return []OperationKind{OpReserveAddress, OpCreateInstance, OpDeleteInstance, OpReleaseAddress}
}

// DependsOn returns the kinds that must run before k when planned for the same region.
// An instance never exists without a reserved address, and an address is never
// released while an instance may still be bound to it.
func (k OperationKind) DependsOn() []OperationKind {
	switch k {
	case OpCreateInstance:
		return []OperationKind{OpReserveAddress, OpDeleteInstance}
	case OpReleaseAddress:
		return []OperationKind{OpDeleteInstance}
	case OpReserveAddress, OpDeleteInstance:
		return nil
	}

	return nil
}

// Creates reports whether k adds infrastructure rather than removing it.
func (k OperationKind) Creates() bool {
	return k == OpReserveAddress || k == OpCreateInstance
}

// Operation is one provisioning step for a region.
type Operation struct {
	Kind   OperationKind `json:"kind"`
	Region string        `json:"region"`
	// Address is the address an instance is created on. Empty when it is
	// reserved earlier in the same plan.
	Address string `json:"address,omitzero"`
}

// String renders the operation as Kind(region[, address]).
func (o Operation) String() string {
	if o.Kind == OpCreateInstance {
		address := o.Address
		if address == "" {
			address = "<reserved>"
		}

		return fmt.Sprintf("%s(%s, %s)", o.Kind, o.Region, address)
	}

	return fmt.Sprintf("%s(%s)", o.Kind, o.Region)
}

// orderOperations sorts ops so that every dependency precedes its dependents.
// The set is tiny (at most four kinds), so a dependency-aware insertion is enough.
func orderOperations(ops []Operation) []Operation {
	ordered := make([]Operation, 0, len(ops))
	pending := slices.Clone(ops)

	for len(pending) > 0 {
		progressed := false

		for i, op := range pending {
			if hasPendingDependency(op, pending) {
				continue
			}

			ordered = append(ordered, op)
			pending = slices.Delete(pending, i, i+1)
			progressed = true

			break
		}

		if !progressed {
			// Cycles cannot occur with the static dependency table; keep input order.
			return append(ordered, pending...)
		}
	}

	return ordered
}

func hasPendingDependency(op Operation, pending []Operation) bool {
	for _, dependency := range op.Kind.DependsOn() {
		if slices.ContainsFunc(pending, func(other Operation) bool { return other.Kind == dependency }) {
			return true
		}
	}

	return false
}
