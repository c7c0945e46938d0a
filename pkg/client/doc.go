// Package client provides helpers shared by clients of remote APIs.
//
//   - netretry: Retry with exponential backoff for transient provider failures
package client
