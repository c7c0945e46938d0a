// Package cmd provides the command-line interface for gcping.
//
// This package contains the root command and delegates to subcommand packages:
//   - region: region lifecycle (list, addresses, plan, reconcile, teardown)
//   - config: client config rendering and the configuration schema
package cmd
