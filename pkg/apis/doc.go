// Package apis provides API type definitions for gcping resources.
//
// This package contains versioned API types:
//
//   - region: Region, RegionSet and the gcping configuration file
//
// The API types are designed to be serializable to YAML and JSON and support
// declarative configuration workflows.
package apis
