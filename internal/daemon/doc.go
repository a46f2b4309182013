// Package daemon wires the ward engine together and runs it.
//
// A Daemon owns the composed dependencies: configuration, logger, state
// database, ward store, and sync service. It enforces single-instance
// execution through a file lock next to the state database, preserving the
// engine's single-writer assumption, runs the outbox drain loop, and serves
// the HTTP API that presentation layers consume.
package daemon
