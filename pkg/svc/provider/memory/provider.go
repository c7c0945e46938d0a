// Package memory implements an in-process provisioner.
//
// It backs the Memory provider used for dry runs and is the workhorse of the
// reconciler tests: faults can be injected per operation and region, every call
// is recorded in order, and a hook can block operations to simulate slow providers.
package memory

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/devantler-tech/gcping/pkg/apis/region/v1alpha1"
	"github.com/devantler-tech/gcping/pkg/svc/provider"
	"github.com/devantler-tech/gcping/pkg/svc/state"
)

// Operation names recorded in the call log and used to target faults.
const (
	OpListRegions    = "ListRegions"
	OpListAddresses  = "ListAddresses"
	OpReserveAddress = "ReserveAddress"
	OpReleaseAddress = "ReleaseAddress"
	OpListInstances  = "ListInstances"
	OpCreateInstance = "CreateInstance"
	OpDeleteInstance = "DeleteInstance"
)

var (
	errAddressNotReserved = errors.New("no address reserved in region")
	errAddressMismatch    = errors.New("address does not belong to region")
	errAlreadyExists      = errors.New("already exists")
	errNotFound           = errors.New("not found")
)

// Call is one recorded provisioner invocation.
type Call struct {
	Op     string
	Region string
}

// Snapshot is the persisted sandbox state.
type Snapshot struct {
	Regions   []v1alpha1.Region            `json:"regions"`
	Addresses map[string]provider.Address  `json:"addresses"`
	Instances map[string]provider.Instance `json:"instances"`
	NextIP    int                          `json:"nextIp"`
}

type faultKey struct {
	op     string
	region string
}

// Hook runs before an operation executes, outside the provider lock.
type Hook func(ctx context.Context, op, region string)

// Provider is an in-memory provider.Provisioner.
type Provider struct {
	mu        sync.Mutex
	regions   []v1alpha1.Region
	addresses map[string]provider.Address
	instances map[string]provider.Instance
	nextIP    int
	faults    map[faultKey][]error
	calls     []Call
	hook      Hook
	stateFile string
}

// Compile-time interface compliance verification.
var _ provider.Provisioner = (*Provider)(nil)

// NewProvider creates a sandbox serving the given regions.
// An empty region list accepts any region identifier.
func NewProvider(regions ...v1alpha1.Region) *Provider {
	return &Provider{
		regions:   slices.Clone(regions),
		addresses: make(map[string]provider.Address),
		instances: make(map[string]provider.Instance),
		faults:    make(map[faultKey][]error),
	}
}

// NewProviderWithStateFile creates a sandbox persisted at path.
// A previous snapshot is restored when present; otherwise regions seed the sandbox.
func NewProviderWithStateFile(path string, regions ...v1alpha1.Region) (*Provider, error) {
	prov := NewProvider(regions...)
	prov.stateFile = path

	var snapshot Snapshot

	err := state.Load(path, &snapshot)
	if err != nil {
		if errors.Is(err, state.ErrStateNotFound) {
			return prov, nil
		}

		return nil, fmt.Errorf("restore sandbox: %w", err)
	}

	prov.Restore(snapshot)

	return prov, nil
}

// InjectFault queues err to be returned by the next call of op for region.
// Use an empty region to target list operations.
func (p *Provider) InjectFault(op, region string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := faultKey{op: op, region: region}
	p.faults[key] = append(p.faults[key], err)
}

// SetHook installs a hook invoked before every operation.
func (p *Provider) SetHook(hook Hook) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.hook = hook
}

// SeedAddress records an existing address for region.
func (p *Provider) SeedAddress(region, ip string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.addresses[region] = provider.Address{Name: addressName(region), Region: region, IP: ip}
}

// SeedInstance records an existing instance for region on its seeded address.
func (p *Provider) SeedInstance(region string, running bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.putInstance(region, p.addresses[region].IP, running)
}

// Calls returns the recorded call log in order.
func (p *Provider) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()

	return slices.Clone(p.calls)
}

// CallsFor returns the recorded operations for a region in order.
func (p *Provider) CallsFor(region string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var ops []string

	for _, call := range p.calls {
		if call.Region == region {
			ops = append(ops, call.Op)
		}
	}

	return ops
}

// Snapshot returns a copy of the sandbox state.
func (p *Provider) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.snapshotLocked()
}

// Restore replaces the sandbox state with snapshot.
func (p *Provider) Restore(snapshot Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(snapshot.Regions) > 0 {
		p.regions = slices.Clone(snapshot.Regions)
	}

	p.addresses = maps.Clone(snapshot.Addresses)
	if p.addresses == nil {
		p.addresses = make(map[string]provider.Address)
	}

	p.instances = maps.Clone(snapshot.Instances)
	if p.instances == nil {
		p.instances = make(map[string]provider.Instance)
	}

	p.nextIP = snapshot.NextIP
}

// ListRegions returns the sandbox regions.
func (p *Provider) ListRegions(ctx context.Context) ([]v1alpha1.Region, error) {
	err := p.begin(ctx, OpListRegions, "")
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return slices.Clone(p.regions), nil
}

// ListAddresses returns the reserved addresses ordered by region.
func (p *Provider) ListAddresses(ctx context.Context) ([]provider.Address, error) {
	err := p.begin(ctx, OpListAddresses, "")
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	addresses := make([]provider.Address, 0, len(p.addresses))

	for _, region := range slices.Sorted(maps.Keys(p.addresses)) {
		address := p.addresses[region]
		_, address.InUse = p.instances[region]
		addresses = append(addresses, address)
	}

	return addresses, nil
}

// ReserveAddress allocates the next sandbox address for region.
func (p *Provider) ReserveAddress(ctx context.Context, region string) (provider.Address, error) {
	err := p.begin(ctx, OpReserveAddress, region)
	if err != nil {
		return provider.Address{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.servesLocked(region) {
		return provider.Address{}, fmt.Errorf("%w: %s", provider.ErrUnknownRegion, region)
	}

	if existing, ok := p.addresses[region]; ok {
		return existing, &provider.ConflictError{
			Op:      "reserve address",
			Err:     fmt.Errorf("address %s %w", existing.Name, errAlreadyExists),
			Address: &existing,
		}
	}

	p.nextIP++
	address := provider.Address{
		Name:   addressName(region),
		Region: region,
		IP:     fmt.Sprintf("198.18.%d.%d", p.nextIP/250, p.nextIP%250+1),
	}
	p.addresses[region] = address

	return address, p.persistLocked()
}

// ReleaseAddress drops the address of region.
func (p *Provider) ReleaseAddress(ctx context.Context, region string) error {
	err := p.begin(ctx, OpReleaseAddress, region)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.addresses[region]; !ok {
		return provider.NewConflictError("release address", fmt.Errorf("address %s %w", addressName(region), errNotFound))
	}

	delete(p.addresses, region)

	return p.persistLocked()
}

// ListInstances returns the instances ordered by region.
func (p *Provider) ListInstances(ctx context.Context) ([]provider.Instance, error) {
	err := p.begin(ctx, OpListInstances, "")
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	instances := make([]provider.Instance, 0, len(p.instances))
	for _, region := range slices.Sorted(maps.Keys(p.instances)) {
		instances = append(instances, p.instances[region])
	}

	return instances, nil
}

// CreateInstance starts a running instance on the region's reserved address.
func (p *Provider) CreateInstance(ctx context.Context, spec provider.InstanceSpec) (provider.Instance, error) {
	err := p.begin(ctx, OpCreateInstance, spec.Region)
	if err != nil {
		return provider.Instance{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if existing, ok := p.instances[spec.Region]; ok {
		return existing, provider.NewConflictError(
			"create instance",
			fmt.Errorf("instance %s %w", existing.Name, errAlreadyExists),
		)
	}

	address, ok := p.addresses[spec.Region]
	if !ok {
		return provider.Instance{}, fmt.Errorf("%w: %s", errAddressNotReserved, spec.Region)
	}

	if spec.Address != "" && spec.Address != address.IP {
		return provider.Instance{}, fmt.Errorf("%w: %s is not %s", errAddressMismatch, spec.Address, spec.Region)
	}

	instance := p.putInstance(spec.Region, address.IP, true)

	return instance, p.persistLocked()
}

// DeleteInstance removes the instance of region.
func (p *Provider) DeleteInstance(ctx context.Context, region string) error {
	err := p.begin(ctx, OpDeleteInstance, region)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.instances[region]; !ok {
		return provider.NewConflictError("delete instance", fmt.Errorf("instance %s %w", instanceName(region), errNotFound))
	}

	delete(p.instances, region)

	return p.persistLocked()
}

// begin records the call, runs the hook and pops an injected fault.
func (p *Provider) begin(ctx context.Context, op, region string) error {
	p.mu.Lock()
	p.calls = append(p.calls, Call{Op: op, Region: region})
	hook := p.hook
	p.mu.Unlock()

	if hook != nil {
		hook(ctx, op, region)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	key := faultKey{op: op, region: region}

	queued := p.faults[key]
	if len(queued) == 0 {
		return nil
	}

	p.faults[key] = queued[1:]

	return queued[0]
}

func (p *Provider) servesLocked(region string) bool {
	if len(p.regions) == 0 {
		return true
	}

	return slices.ContainsFunc(p.regions, func(r v1alpha1.Region) bool { return r.ID == region })
}

func (p *Provider) putInstance(region, ip string, running bool) provider.Instance {
	status := "off"
	if running {
		status = "running"
	}

	instance := provider.Instance{
		Name:    instanceName(region),
		Region:  region,
		Address: ip,
		State:   status,
		Running: running,
	}
	p.instances[region] = instance

	return instance
}

func (p *Provider) snapshotLocked() Snapshot {
	return Snapshot{
		Regions:   slices.Clone(p.regions),
		Addresses: maps.Clone(p.addresses),
		Instances: maps.Clone(p.instances),
		NextIP:    p.nextIP,
	}
}

func (p *Provider) persistLocked() error {
	if p.stateFile == "" {
		return nil
	}

	err := state.Save(p.stateFile, p.snapshotLocked())
	if err != nil {
		return fmt.Errorf("persist sandbox: %w", err)
	}

	return nil
}

func addressName(region string) string {
	return "gcping-" + region
}

func instanceName(region string) string {
	return "gcping-ping-" + region
}
