// Package ward owns the authoritative in-memory bed collection and the
// transitions that mutate it.
//
// A Store holds exactly N beds with fixed ids 1..N. Beds move between empty
// and occupied only through Admit, Discharge, and Transfer; every successful
// transition persists the full collection through the injected Persister and
// hands exactly one event to the injected Dispatcher. Precondition failures
// return an InvalidStateError before any state changes.
//
// Persistence failures do not roll back an applied transition: the live
// session stays authoritative and the error is both logged and returned so
// callers can surface the durability risk.
package ward
