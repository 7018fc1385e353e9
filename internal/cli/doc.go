// Package cli defines the Cobra command tree for the actiongen CLI. Each file
// in this package registers one top-level command (synth, new, task, bump,
// etc.) with the root command. Command implementations delegate to internal
// packages for business logic and only handle flag parsing, output and exit
// status.
package cli
