// Package reconciler converges provisioned infrastructure onto the desired region set.
//
// Plan is a pure diff between desired regions and observed state, grouped per
// region and ordered by operation-kind dependencies (reserve before create,
// delete before release). Reconciler applies a plan with bounded per-region
// concurrency: regions run in parallel, operations inside a region run in
// order, and one region's failure never aborts another. Every run returns a
// Report with one result per planned region.
package reconciler
