// Package helpers provides common CLI utilities for command handling.
//
// Key functionality:
//   - Session setup shared by every command (config, logger, provisioner, region store)
//   - Table rendering for regions, addresses, plans and reconciliation results
package helpers
