// Package regionstore holds the canonical set of serving regions.
//
// The desired set comes from a static file or from the provider's list of
// locations; observed state (reserved addresses and running instances) comes
// from the provisioner. Provider failures surface as provider.UnavailableError
// so callers can retry them and never mistake an outage for "no regions".
package regionstore
