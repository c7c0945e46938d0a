// Package provisioner selects the provisioning backend named by the configuration.
//
// The Hetzner backend talks to Hetzner Cloud with the configured token. The
// Memory backend is an in-process sandbox seeded with the default region
// catalog; with a state file it survives between CLI invocations, which makes
// it usable as a dry-run target for plan, reconcile and emit.
package provisioner
