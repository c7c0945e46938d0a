// Package cli provides reusable helpers for command wiring and execution.
//
// This package is organized into subpackages for different functionality:
//
//   - cli/cmd: The cobra command tree (region, config)
//   - cli/flags: Flag handling utilities including timing detection
//   - cli/helpers: Command sessions, retries around the region store, tables and publishing
//   - cli/parallel: Parallel task execution with controlled concurrency
//   - cli/setup: Stage execution and logger construction
//   - cli/ui: User interface components (confirm, errorhandler)
//
// The utilities in this package follow dependency injection patterns and integrate
// with the gcping runtime container for testability and flexibility.
package cli
