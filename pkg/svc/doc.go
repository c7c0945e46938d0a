// Package svc provides the service layer of gcping.
//
// This package contains the business logic that sits between the CLI commands
// and the provisioning collaborators.
//
// Subpackages:
//   - emitter: Client config rendering and publishing (file, GCS, stdout)
//   - metrics: Prometheus metrics for reconciliation runs
//   - provider: Provisioning collaborator interface and typed errors (Hetzner, Memory)
//   - provisioner: Provider selection from configuration
//   - reconciler: Deployment planning and bounded-concurrency apply
//   - regionstore: Desired region loading and observed state
//   - state: JSON snapshots persisted between runs
package svc
