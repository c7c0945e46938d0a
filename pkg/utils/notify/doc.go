// Package notify writes user-facing CLI messages.
//
// Every message type has its own symbol and colour: success (✔), error (✗),
// warning (⚠), info (ℹ), activity (►) and titles introduced by an emoji.
// Structured logs go through logrus; notify is for what the operator reads.
//
// [StageWriter] inserts a blank line before each title so that the stages of a
// command (observe, apply, emit) read as separate blocks.
package notify
