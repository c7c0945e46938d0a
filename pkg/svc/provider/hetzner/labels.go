package hetzner

import (
	"fmt"

	"github.com/devantler-tech/gcping/pkg/utils/names"
)

// Label constants for identifying gcping-managed Hetzner resources.
// These labels are applied to primary IPs, servers and the shared firewall.
const (
	// LabelOwned indicates the resource is managed by gcping.
	// Value is always "true" for gcping-managed resources.
	LabelOwned = "gcping.owned"

	// LabelProject identifies which deployment the resource belongs to.
	LabelProject = "gcping.project"

	// LabelRegion identifies the location the resource serves.
	LabelRegion = "gcping.region"

	// LabelRole identifies the kind of resource: "address", "instance" or "firewall".
	LabelRole = "gcping.role"
)

// Role values for LabelRole.
const (
	RoleAddress  = "address"
	RoleInstance = "instance"
	RoleFirewall = "firewall"
)

// Resource name suffixes.
const (
	// InstanceSuffix is appended to the address name for server naming.
	InstanceSuffix = "-ping"
	// FirewallSuffix is appended to the project name for firewall naming.
	FirewallSuffix = "-firewall"
)

// ResourceLabels creates the standard label set for a gcping-managed resource.
func ResourceLabels(project, role string) map[string]string {
	return map[string]string{
		LabelOwned:   "true",
		LabelProject: project,
		LabelRole:    role,
	}
}

// RegionLabels creates the complete label set for a per-region resource.
func RegionLabels(project, region, role string) map[string]string {
	labels := ResourceLabels(project, role)
	labels[LabelRegion] = region

	return labels
}

// Selector returns the label selector matching resources of a role in a project.
func Selector(project, role string) string {
	return fmt.Sprintf("%s=true,%s=%s,%s=%s", LabelOwned, LabelProject, project, LabelRole, role)
}

// AddressName returns the primary IP name of a region.
// Hetzner requires names to be valid hostnames, so both parts are sanitized.
func AddressName(project, region string) string {
	return names.Join(project, region)
}

// InstanceName returns the server name of a region.
func InstanceName(project, region string) string {
	return AddressName(project, region) + InstanceSuffix
}

// FirewallName returns the name of the firewall shared by all ping servers.
func FirewallName(project string) string {
	return names.DNSLabel(project) + FirewallSuffix
}
