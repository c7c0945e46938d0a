// Package provider defines the provisioning collaborator used to converge gcping regions.
//
// Provisioners handle infrastructure-level operations only:
//   - Listing the regions a provider can serve
//   - Reserving and releasing static addresses per region
//   - Creating and deleting the ping instance bound to a region's address
//
// Every failure a provisioner returns is classified as one of [UnavailableError],
// [ConflictError] or [QuotaError] so that callers can decide between retrying,
// treating the call as already done, and surfacing it.
//
// Currently supported providers:
//   - Hetzner: Primary IPs and servers in Hetzner Cloud
//   - Memory: an in-process sandbox, optionally persisted to a state file
package provider
