// Package flags provides flag handling utilities for CLI commands.
//
// This package contains helpers for working with Cobra command flags,
// including timing flag detection, conditional timer usage and the
// config file path.
package flags
