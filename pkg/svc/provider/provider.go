package provider

import (
	"context"

	"github.com/devantler-tech/gcping/pkg/apis/region/v1alpha1"
)

// EnvRegion is the environment variable injected into every ping instance.
const EnvRegion = "REGION"

// Address is a static address reserved in a region.
type Address struct {
	// Name is the provider-side resource name.
	Name string
	// Region is the region the address is bound to.
	Region string
	// IP is the IPv4 address.
	IP string
	// InUse is true when an instance is bound to the address.
	InUse bool
}

// Instance is a compute instance serving the ping endpoint in a region.
type Instance struct {
	// Name is the provider-side resource name.
	Name string
	// Region is the region the instance runs in.
	Region string
	// Address is the public IPv4 address of the instance.
	Address string
	// State is the provider-reported state (running, starting, off, ...).
	State string
	// Running is true when the instance serves traffic.
	Running bool
}

// InstanceSpec describes an instance to create.
type InstanceSpec struct {
	Region  string
	Zone    string
	Address string
	Image   string
	Env     map[string]string
}

// NewInstanceSpec returns the spec for the ping instance of a region, injecting REGION.
func NewInstanceSpec(region v1alpha1.Region, address, image string) InstanceSpec {
	return InstanceSpec{
		Region:  region.ID,
		Zone:    region.Zone,
		Address: address,
		Image:   image,
		Env:     map[string]string{EnvRegion: region.ID},
	}
}

// Provisioner defines the operations the reconciler needs from a cloud provider.
// Calls are synchronous: they return once the provider-side operation completed.
type Provisioner interface {
	// ListRegions returns every region the provider can serve.
	ListRegions(ctx context.Context) ([]v1alpha1.Region, error)

	// ListAddresses returns every static address managed by gcping.
	ListAddresses(ctx context.Context) ([]Address, error)

	// ReserveAddress reserves a static address in the region.
	// Returns a ConflictError wrapping the existing address when one is already reserved.
	ReserveAddress(ctx context.Context, region string) (Address, error)

	// ReleaseAddress releases the static address of the region.
	// Returns a ConflictError when no address is reserved.
	ReleaseAddress(ctx context.Context, region string) error

	// ListInstances returns every ping instance managed by gcping.
	ListInstances(ctx context.Context) ([]Instance, error)

	// CreateInstance creates the ping instance of a region on its reserved address.
	// Returns a ConflictError when an instance already exists for the region.
	CreateInstance(ctx context.Context, spec InstanceSpec) (Instance, error)

	// DeleteInstance deletes the ping instance of a region.
	// Returns a ConflictError when no instance exists.
	DeleteInstance(ctx context.Context, region string) error
}

// Factory creates the provisioner selected by the configuration.
type Factory interface {
	Create(ctx context.Context, cfg *v1alpha1.Config) (Provisioner, error)
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func(ctx context.Context, cfg *v1alpha1.Config) (Provisioner, error)

// Create calls f.
func (f FactoryFunc) Create(ctx context.Context, cfg *v1alpha1.Config) (Provisioner, error) {
	return f(ctx, cfg)
}
