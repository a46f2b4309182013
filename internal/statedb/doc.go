// Package statedb persists ward state in SQLite.
//
// The database holds two things: the bed collection snapshot, rewritten
// wholesale in one transaction after every successful transition, and the
// sync outbox of undelivered outbound events. Keeping both in one file means
// a queued event survives any restart its bed state survives.
//
// The schema carries an explicit version. A database written by a different
// version is rejected with ErrSchemaMismatch rather than migrated or
// silently reinitialized; ward state is not transient and must never be
// discarded without operator action.
package statedb
