package hetzner

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/devantler-tech/gcping/pkg/client/netretry"
	"github.com/devantler-tech/gcping/pkg/svc/provider"
	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// Firewall deletion retry settings.
const (
	// DefaultDeleteRetryTimeout bounds retries while the firewall is still attached.
	DefaultDeleteRetryTimeout = 30 * time.Second
	// DefaultDeleteRetryDelay is the first backoff step between firewall deletions.
	DefaultDeleteRetryDelay = 2 * time.Second
	// IPv4CIDRBits is the number of bits in an IPv4 address.
	IPv4CIDRBits = 32
	// IPv6CIDRBits is the number of bits in an IPv6 address.
	IPv6CIDRBits = 128
)

// errorCodeResourceInUse is returned while a firewall is still applied to a server.
const errorCodeResourceInUse hcloud.ErrorCode = "resource_in_use"

// EnsureFirewall ensures the firewall shared by all ping servers exists, creating it if needed.
func (p *Provider) EnsureFirewall(ctx context.Context) (*hcloud.Firewall, error) {
	if p.client == nil {
		return nil, provider.ErrProviderUnavailable
	}

	firewallName := FirewallName(p.opts.Project)

	firewall, _, err := p.client.Firewall.GetByName(ctx, firewallName)
	if err != nil {
		return nil, Classify("get firewall "+firewallName, err)
	}

	if firewall != nil {
		return firewall, nil
	}

	result, _, err := p.client.Firewall.Create(ctx, hcloud.FirewallCreateOpts{
		Name:   firewallName,
		Labels: ResourceLabels(p.opts.Project, RoleFirewall),
		Rules:  BuildFirewallRules(),
	})
	if IsAlreadyExistsError(err) {
		// Another region created it between the lookup and the create.
		existing, _, getErr := p.client.Firewall.GetByName(ctx, firewallName)
		if getErr == nil && existing != nil {
			return existing, nil
		}
	}

	if err != nil {
		return nil, Classify("create firewall "+firewallName, err)
	}

	return result.Firewall, nil
}

// BuildFirewallRules returns the inbound rules a ping server needs.
func BuildFirewallRules() []hcloud.FirewallRule {
	anyIP := []net.IPNet{
		{IP: net.ParseIP("0.0.0.0"), Mask: net.CIDRMask(0, IPv4CIDRBits)},
		{IP: net.ParseIP("::"), Mask: net.CIDRMask(0, IPv6CIDRBits)},
	}

	return []hcloud.FirewallRule{
		{
			Direction:   hcloud.FirewallRuleDirectionIn,
			Protocol:    hcloud.FirewallRuleProtocolTCP,
			Port:        hcloud.Ptr(strconv.Itoa(publicPort)),
			SourceIPs:   anyIP,
			Description: hcloud.Ptr("Ping endpoint"),
		},
		{
			Direction:   hcloud.FirewallRuleDirectionIn,
			Protocol:    hcloud.FirewallRuleProtocolICMP,
			SourceIPs:   anyIP,
			Description: hcloud.Ptr("ICMP (ping)"),
		},
	}
}

// deleteFirewallIfUnused deletes the shared firewall when no ping server remains.
// Retries are needed because the firewall may still be attached while a server is deleted.
func (p *Provider) deleteFirewallIfUnused(ctx context.Context) error {
	servers, err := p.listServers(ctx)
	if err != nil {
		return err
	}

	if len(servers) > 0 {
		return nil
	}

	firewallName := FirewallName(p.opts.Project)

	policy := netretry.Policy{Timeout: DefaultDeleteRetryTimeout, Base: DefaultDeleteRetryDelay}

	err = netretry.Retry(ctx, policy, isFirewallBusy, func(ctx context.Context) error {
		firewall, _, getErr := p.client.Firewall.GetByName(ctx, firewallName)
		if getErr != nil || firewall == nil {
			return nil //nolint:nilerr // Ignoring lookup error - resource may not exist
		}

		_, deleteErr := p.client.Firewall.Delete(ctx, firewall)

		return deleteErr //nolint:wrapcheck // Wrapped below
	})
	if err != nil && !IsAlreadyGoneError(err) {
		return fmt.Errorf("failed to delete firewall %s: %w", firewallName, err)
	}

	return nil
}

func isFirewallBusy(err error) bool {
	return hcloud.IsError(err, errorCodeResourceInUse) || IsRetryableHetznerError(err)
}
