// Package hetzner implements the provisioner on Hetzner Cloud.
//
// Locations are regions, primary IPs are the static addresses and servers
// booted with cloud-init run the ping container. Every resource carries the
// gcping ownership labels so listings never see unrelated resources.
package hetzner

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/devantler-tech/gcping/pkg/apis/region/v1alpha1"
	"github.com/devantler-tech/gcping/pkg/svc/provider"
	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

const (
	// DefaultActionTimeout is the timeout for waiting on Hetzner actions.
	DefaultActionTimeout = 5 * time.Minute
	// assigneeTypeServer is the only assignee type Hetzner supports for primary IPs.
	assigneeTypeServer = "server"
)

// Options configures the resources the provider creates.
type Options struct {
	Project       string
	ServerType    string
	ServerImage   string
	ContainerPort int
}

// Provider implements provider.Provisioner for Hetzner Cloud.
type Provider struct {
	client *hcloud.Client
	opts   Options
}

// Compile-time interface compliance verification.
var _ provider.Provisioner = (*Provider)(nil)

// NewProvider creates a new Hetzner Cloud provider with the given client.
func NewProvider(client *hcloud.Client, opts Options) *Provider {
	return &Provider{
		client: client,
		opts:   opts,
	}
}

// NewProviderFromToken creates a new Hetzner Cloud provider using an API token.
func NewProviderFromToken(token string, opts Options) *Provider {
	return NewProvider(hcloud.NewClient(hcloud.WithToken(token)), opts)
}

// IsAvailable reports whether the provider has a client.
func (p *Provider) IsAvailable() bool {
	return p.client != nil
}

// ListRegions returns every Hetzner location ordered by name.
func (p *Provider) ListRegions(ctx context.Context) ([]v1alpha1.Region, error) {
	if p.client == nil {
		return nil, provider.ErrProviderUnavailable
	}

	locations, err := p.client.Location.All(ctx)
	if err != nil {
		return nil, Classify("list locations", err)
	}

	regions := make([]v1alpha1.Region, 0, len(locations))
	for _, location := range locations {
		regions = append(regions, v1alpha1.Region{
			ID:          location.Name,
			DisplayName: displayName(location),
		})
	}

	slices.SortFunc(regions, func(a, b v1alpha1.Region) int {
		return strings.Compare(a.ID, b.ID)
	})

	return regions, nil
}

// ListAddresses returns the primary IPs owned by the project.
func (p *Provider) ListAddresses(ctx context.Context) ([]provider.Address, error) {
	if p.client == nil {
		return nil, provider.ErrProviderUnavailable
	}

	primaryIPs, err := p.client.PrimaryIP.AllWithOpts(ctx, hcloud.PrimaryIPListOpts{
		ListOpts: hcloud.ListOpts{
			LabelSelector: Selector(p.opts.Project, RoleAddress),
		},
	})
	if err != nil {
		return nil, Classify("list primary ips", err)
	}

	addresses := make([]provider.Address, 0, len(primaryIPs))
	for _, primaryIP := range primaryIPs {
		addresses = append(addresses, toAddress(primaryIP))
	}

	return addresses, nil
}

// ReserveAddress creates an unassigned IPv4 primary IP in the region.
func (p *Provider) ReserveAddress(ctx context.Context, region string) (provider.Address, error) {
	if p.client == nil {
		return provider.Address{}, provider.ErrProviderUnavailable
	}

	name := AddressName(p.opts.Project, region)

	existing, _, err := p.client.PrimaryIP.GetByName(ctx, name)
	if err != nil {
		return provider.Address{}, Classify("get primary ip "+name, err)
	}

	if existing != nil {
		address := toAddress(existing)

		return address, &provider.ConflictError{
			Op:      "reserve primary ip " + name,
			Err:     fmt.Errorf("primary ip %s already exists", name),
			Address: &address,
		}
	}

	datacenter, err := p.datacenterFor(ctx, region)
	if err != nil {
		return provider.Address{}, err
	}

	result, _, err := p.client.PrimaryIP.Create(ctx, hcloud.PrimaryIPCreateOpts{
		Name:         name,
		Type:         hcloud.PrimaryIPTypeIPv4,
		AssigneeType: assigneeTypeServer,
		AutoDelete:   hcloud.Ptr(false),
		Datacenter:   datacenter.Name,
		Labels:       RegionLabels(p.opts.Project, region, RoleAddress),
	})
	if err != nil {
		return provider.Address{}, ClassifyCreate("create primary ip "+name, err)
	}

	err = p.waitForAction(ctx, result.Action)
	if err != nil {
		return provider.Address{}, fmt.Errorf("failed waiting for primary ip %s: %w", name, err)
	}

	return toAddress(result.PrimaryIP), nil
}

// ReleaseAddress deletes the primary IP of the region.
func (p *Provider) ReleaseAddress(ctx context.Context, region string) error {
	if p.client == nil {
		return provider.ErrProviderUnavailable
	}

	name := AddressName(p.opts.Project, region)

	primaryIP, _, err := p.client.PrimaryIP.GetByName(ctx, name)
	if err != nil {
		return Classify("get primary ip "+name, err)
	}

	if primaryIP == nil {
		return provider.NewConflictError("release primary ip "+name, fmt.Errorf("primary ip %s not found", name))
	}

	_, err = p.client.PrimaryIP.Delete(ctx, primaryIP)
	if err != nil {
		return ClassifyDelete("delete primary ip "+name, err)
	}

	return nil
}

// ListInstances returns the ping servers owned by the project.
func (p *Provider) ListInstances(ctx context.Context) ([]provider.Instance, error) {
	if p.client == nil {
		return nil, provider.ErrProviderUnavailable
	}

	servers, err := p.listServers(ctx)
	if err != nil {
		return nil, err
	}

	instances := make([]provider.Instance, 0, len(servers))
	for _, server := range servers {
		instances = append(instances, toInstance(server))
	}

	return instances, nil
}

// CreateInstance creates the ping server of a region on its primary IP.
func (p *Provider) CreateInstance(
	ctx context.Context,
	spec provider.InstanceSpec,
) (provider.Instance, error) {
	if p.client == nil {
		return provider.Instance{}, provider.ErrProviderUnavailable
	}

	name := InstanceName(p.opts.Project, spec.Region)

	existing, _, err := p.client.Server.GetByName(ctx, name)
	if err != nil {
		return provider.Instance{}, Classify("get server "+name, err)
	}

	if existing != nil {
		return toInstance(existing), provider.NewConflictError(
			"create server "+name,
			fmt.Errorf("server %s already exists", name),
		)
	}

	addressName := AddressName(p.opts.Project, spec.Region)

	primaryIP, _, err := p.client.PrimaryIP.GetByName(ctx, addressName)
	if err != nil {
		return provider.Instance{}, Classify("get primary ip "+addressName, err)
	}

	if primaryIP == nil {
		return provider.Instance{}, fmt.Errorf("%w: %s", ErrAddressNotReserved, addressName)
	}

	createOpts, err := p.buildServerCreateOpts(ctx, name, spec, primaryIP)
	if err != nil {
		return provider.Instance{}, err
	}

	result, _, err := p.client.Server.Create(ctx, createOpts)
	if err != nil {
		return provider.Instance{}, ClassifyCreate("create server "+name, err)
	}

	err = p.waitForAction(ctx, result.Action)
	if err != nil {
		return provider.Instance{}, fmt.Errorf("failed waiting for server %s creation: %w", name, err)
	}

	instance := toInstance(result.Server)
	instance.Address = primaryIP.IP.String()
	instance.Running = true
	instance.State = string(hcloud.ServerStatusRunning)

	return instance, nil
}

// DeleteInstance deletes the ping server of a region and drops the shared
// firewall once no ping server is left.
func (p *Provider) DeleteInstance(ctx context.Context, region string) error {
	if p.client == nil {
		return provider.ErrProviderUnavailable
	}

	name := InstanceName(p.opts.Project, region)

	server, _, err := p.client.Server.GetByName(ctx, name)
	if err != nil {
		return Classify("get server "+name, err)
	}

	if server == nil {
		return provider.NewConflictError("delete server "+name, fmt.Errorf("server %s not found", name))
	}

	result, _, err := p.client.Server.DeleteWithResult(ctx, server)
	if err != nil {
		return ClassifyDelete("delete server "+name, err)
	}

	err = p.waitForAction(ctx, result.Action)
	if err != nil {
		return fmt.Errorf("failed waiting for server %s deletion: %w", name, err)
	}

	return p.deleteFirewallIfUnused(ctx)
}

func (p *Provider) listServers(ctx context.Context) ([]*hcloud.Server, error) {
	servers, err := p.client.Server.AllWithOpts(ctx, hcloud.ServerListOpts{
		ListOpts: hcloud.ListOpts{
			LabelSelector: Selector(p.opts.Project, RoleInstance),
		},
	})
	if err != nil {
		return nil, Classify("list servers", err)
	}

	return servers, nil
}

// datacenterFor returns the first datacenter of a location.
func (p *Provider) datacenterFor(ctx context.Context, region string) (*hcloud.Datacenter, error) {
	datacenters, err := p.client.Datacenter.All(ctx)
	if err != nil {
		return nil, Classify("list datacenters", err)
	}

	for _, datacenter := range datacenters {
		if datacenter.Location != nil && datacenter.Location.Name == region {
			return datacenter, nil
		}
	}

	return nil, fmt.Errorf("%w: %w %s", provider.ErrUnknownRegion, ErrNoDatacenter, region)
}

// buildServerCreateOpts builds the hcloud.ServerCreateOpts for a ping server.
func (p *Provider) buildServerCreateOpts(
	ctx context.Context,
	name string,
	spec provider.InstanceSpec,
	primaryIP *hcloud.PrimaryIP,
) (hcloud.ServerCreateOpts, error) {
	userData, err := UserData(spec, p.opts.ContainerPort)
	if err != nil {
		return hcloud.ServerCreateOpts{}, err
	}

	datacenter := primaryIP.Datacenter
	if datacenter == nil {
		datacenter, err = p.datacenterFor(ctx, spec.Region)
		if err != nil {
			return hcloud.ServerCreateOpts{}, err
		}
	}

	firewall, err := p.EnsureFirewall(ctx)
	if err != nil {
		return hcloud.ServerCreateOpts{}, err
	}

	return hcloud.ServerCreateOpts{
		Name:   name,
		Labels: RegionLabels(p.opts.Project, spec.Region, RoleInstance),
		ServerType: &hcloud.ServerType{
			Name: p.opts.ServerType,
		},
		Image: &hcloud.Image{
			Name: p.opts.ServerImage,
		},
		Datacenter: &hcloud.Datacenter{
			Name: datacenter.Name,
		},
		UserData:         userData,
		StartAfterCreate: hcloud.Ptr(true),
		PublicNet: &hcloud.ServerCreatePublicNet{
			EnableIPv4: true,
			IPv4:       &hcloud.PrimaryIP{ID: primaryIP.ID},
		},
		Firewalls: []*hcloud.ServerCreateFirewall{
			{Firewall: hcloud.Firewall{ID: firewall.ID}},
		},
	}, nil
}

// waitForAction waits for a Hetzner action to complete.
func (p *Provider) waitForAction(ctx context.Context, action *hcloud.Action) error {
	if action == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultActionTimeout)
	defer cancel()

	_, errChan := p.client.Action.WatchProgress(ctx, action)

	err := <-errChan
	if err != nil {
		return fmt.Errorf("%w: %w", ErrHetznerActionFailed, err)
	}

	return nil
}

func displayName(location *hcloud.Location) string {
	if location.City != "" {
		return location.City
	}

	return location.Description
}

func toAddress(primaryIP *hcloud.PrimaryIP) provider.Address {
	address := provider.Address{
		Name:   primaryIP.Name,
		Region: primaryIP.Labels[LabelRegion],
		InUse:  primaryIP.AssigneeID != 0,
	}

	if primaryIP.IP != nil {
		address.IP = primaryIP.IP.String()
	}

	if address.Region == "" && primaryIP.Datacenter != nil && primaryIP.Datacenter.Location != nil {
		address.Region = primaryIP.Datacenter.Location.Name
	}

	return address
}

func toInstance(server *hcloud.Server) provider.Instance {
	instance := provider.Instance{
		Name:    server.Name,
		Region:  server.Labels[LabelRegion],
		State:   string(server.Status),
		Running: server.Status == hcloud.ServerStatusRunning,
	}

	if server.PublicNet.IPv4.IP != nil {
		instance.Address = server.PublicNet.IPv4.IP.String()
	}

	return instance
}
