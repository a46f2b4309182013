// Package eventsync forwards completed bed transitions to the external
// logging endpoint.
//
// The endpoint is write-only: events are POSTed as a plain-text JSON body
// and the response carries nothing the engine may depend on, so only
// transport-level success or failure is observed. Delivery never blocks or
// fails a local transition.
//
// Dispatch appends each event to a durable outbox shared with the ward
// state database; a single drain loop replays pending events in id order
// with capped backoff between retry rounds, upgrading the original
// fire-and-forget contract to ordered at-least-once delivery. A status
// indicator mirrors the last attempt for the CLI and API surfaces. Use the
// noop dispatcher when sync is disabled.
package eventsync
