// Package state persists small JSON snapshots between gcping runs.
//
// The Memory provider stores its sandbox here so that consecutive CLI invocations
// observe the addresses and instances created by earlier runs. Snapshots live in
// ~/.gcping/<name>.json unless an explicit path is configured.
package state
